package authenticating

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

type Authenticator interface {
	Register(ctx context.Context, caller *domain.Session, req domain.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	Refresh(ctx context.Context, session *domain.Session) (*domain.Session, error)
	Logout(ctx context.Context, session *domain.Session) error
	Me(ctx context.Context, session *domain.Session) (*domain.User, error)
	ListUsers(ctx context.Context, caller *domain.Session) ([]*domain.User, error)
	UpdateUser(ctx context.Context, caller *domain.Session, req *domain.UpdateUserRequest) (*domain.User, error)
	ValidateToken(ctx context.Context, token string) (*domain.Session, error)
	ValidatePasswordStrength(password string) error
}

type Service struct {
	userRepo        repository.UserRepository
	sessions        *SessionManager
	allowOpenSignup bool
}

func NewService(userRepo repository.UserRepository, sessions *SessionManager, allowOpenSignup bool) Authenticator {
	return &Service{
		userRepo:        userRepo,
		sessions:        sessions,
		allowOpenSignup: allowOpenSignup,
	}
}

// Register cria um usuário. Administradores criam contas ativas com qualquer papel;
// sem sessão (cadastro aberto) a conta nasce inativa e como visualizador.
func (s *Service) Register(ctx context.Context, caller *domain.Session, req domain.RegisterRequest) (*domain.User, error) {
	if caller == nil && !s.allowOpenSignup {
		return nil, NewAuthError(ErrInsufficientPrivilege, apiErrors.ErrInsufficientPrivilege, "Cadastro aberto desabilitado")
	}
	if caller != nil && !caller.IsAdmin() {
		return nil, NewUserAuthError(ErrInsufficientPrivilege, apiErrors.ErrInsufficientPrivilege, caller.UserID(), "Apenas administradores podem cadastrar usuários")
	}

	if req.Email == "" || req.Name == "" || req.Password == "" {
		return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email, nome e senha são obrigatórios")
	}
	if err := s.ValidatePasswordStrength(req.Password); err != nil {
		return nil, NewAuthError(ErrWeakPassword, apiErrors.ErrInvalidFormat, err.Error())
	}

	email := handleEmail(req.Email)
	if !strings.Contains(email, "@") {
		return nil, NewAuthError(ErrInvalidFormat, apiErrors.ErrInvalidFormat, "Email inválido")
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, err.Error())
	}
	if existing != nil {
		return nil, NewAuthError(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, "Email já cadastrado")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Lastname:     strings.TrimSpace(req.Lastname),
		Email:        email,
		PasswordHash: string(hashedPassword),
		RoleID:       domain.RoleViewer,
		StoreIDs:     req.StoreIDs,
	}

	if caller != nil {
		user.Active = true
		if req.RoleID != 0 {
			if !domain.ValidRole(req.RoleID) {
				return nil, NewAuthError(ErrInvalidFormat, apiErrors.ErrInvalidFormat, "Papel inválido")
			}
			user.RoleID = req.RoleID
		}
	} else {
		user.StoreIDs = nil
	}

	user, err = s.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, NewAuthError(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, "Email já cadastrado")
		}
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao criar usuário")
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if email == "" || password == "" {
		return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email e senha são obrigatórios")
	}

	user, err := s.userRepo.GetUserByEmail(ctx, handleEmail(email))
	if err != nil {
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao consultar usuário no banco de dados")
	}

	// Usuário inexistente e senha errada devolvem o mesmo erro
	if user == nil {
		return nil, NewAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, NewUserAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, user.ID, "")
	}
	if !user.Active {
		return nil, NewUserAuthError(ErrUserDisabled, apiErrors.ErrUserDisabled, user.ID, "Conta desativada")
	}

	session, err := s.sessions.Issue(user)
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "session_id": session.ID}).Info("Sessão iniciada")
	return session, nil
}

// Refresh recarrega o usuário para que mudanças de papel e lojas valham na nova sessão
func (s *Service) Refresh(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	user, err := s.activeUser(ctx, session)
	if err != nil {
		return nil, err
	}

	next, err := s.sessions.Refresh(ctx, session, user)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "old_session_id": session.ID, "session_id": next.ID}).Info("Sessão renovada")
	return next, nil
}

func (s *Service) Logout(ctx context.Context, session *domain.Session) error {
	if err := s.sessions.Revoke(ctx, session); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": session.UserID(), "session_id": session.ID}).Info("Sessão encerrada")
	return nil
}

func (s *Service) Me(ctx context.Context, session *domain.Session) (*domain.User, error) {
	user, err := s.activeUser(ctx, session)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, caller *domain.Session) ([]*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, NewUserAuthError(ErrInsufficientPrivilege, apiErrors.ErrInsufficientPrivilege, caller.UserID(), "")
	}

	users, err := s.userRepo.ListUser(ctx)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (s *Service) UpdateUser(ctx context.Context, caller *domain.Session, req *domain.UpdateUserRequest) (*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, NewUserAuthError(ErrInsufficientPrivilege, apiErrors.ErrInsufficientPrivilege, caller.UserID(), "")
	}
	if req.ID == 0 {
		return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "ID é obrigatório")
	}

	userDatabase, err := s.userRepo.GetUserByID(ctx, req.ID)
	if err != nil {
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, err.Error())
	}
	if userDatabase == nil {
		return nil, NewAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, "")
	}

	if req.Name != nil {
		userDatabase.Name = *req.Name
	}

	if req.Lastname != nil {
		userDatabase.Lastname = *req.Lastname
	}

	if req.Email != nil {
		userDatabase.Email = handleEmail(*req.Email)
	}

	if req.Active != nil {
		userDatabase.Active = *req.Active
	}

	if req.RoleID != nil {
		if !domain.ValidRole(*req.RoleID) {
			return nil, NewAuthError(ErrInvalidFormat, apiErrors.ErrInvalidFormat, "Papel inválido")
		}
		userDatabase.RoleID = *req.RoleID
	}

	if req.AvatarURL != nil {
		userDatabase.AvatarURL = req.AvatarURL
	}

	if req.StoreIDs != nil {
		userDatabase.StoreIDs = *req.StoreIDs
		if userDatabase.StoreIDs == nil {
			userDatabase.StoreIDs = []string{}
		}
	}

	if req.Deleted != nil && *req.Deleted {
		now := time.Now()
		userDatabase.Deleted = true
		userDatabase.DeletedAt = &now
	}

	// a senha não é regravada numa edição de cadastro
	userDatabase.PasswordHash = ""
	if err := s.userRepo.UpdateUser(ctx, userDatabase); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, NewAuthError(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, "Email já cadastrado")
		}
		return nil, err
	}

	return userDatabase, nil
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*domain.Session, error) {
	return s.sessions.Validate(ctx, token)
}

func (s *Service) activeUser(ctx context.Context, session *domain.Session) (*domain.User, error) {
	if session == nil {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "sessão ausente")
	}

	user, err := s.userRepo.GetUserByID(ctx, session.UserID())
	if err != nil {
		logrus.WithError(err).WithField("user_id", session.UserID()).Error("Erro ao buscar usuário da sessão")
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "")
	}
	if user == nil {
		return nil, NewUserAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, session.UserID(), "")
	}
	if !user.Active {
		return nil, NewUserAuthError(ErrUserDisabled, apiErrors.ErrUserDisabled, user.ID, "Conta desativada")
	}
	return user, nil
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}

// ValidatePasswordStrength exige ao menos 8 caracteres com maiúsculas, minúsculas, números e caracteres especiais
func (s *Service) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("a senha deve conter pelo menos 8 caracteres")
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case char >= 'a' && char <= 'z':
			hasLower = true
		case char >= 'A' && char <= 'Z':
			hasUpper = true
		case char >= '0' && char <= '9':
			hasNumber = true
		case strings.ContainsRune("!@#$%^&*()-_=+[]{}|;:,.<>?", char):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return errors.New("a senha deve conter pelo menos uma letra maiúscula")
	case !hasLower:
		return errors.New("a senha deve conter pelo menos uma letra minúscula")
	case !hasNumber:
		return errors.New("a senha deve conter pelo menos um número")
	case !hasSpecial:
		return errors.New("a senha deve conter pelo menos um caractere especial")
	}

	return nil
}
