package authenticating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-analytics-api/infrastructure/sessionstore"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const strongPassword = "Senha@123"

func newTestService(t *testing.T, openSignup bool) (*Service, *mocks.MockUserRepository) {
	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)
	sessions := NewSessionManager("segredo", time.Hour, sessionstore.NewMemoryStore())
	return NewService(userRepo, sessions, openSignup).(*Service), userRepo
}

func hashed(t *testing.T, password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func sessionFor(t *testing.T, s *Service, user *domain.User) *domain.Session {
	session, err := s.sessions.Issue(user)
	require.NoError(t, err)
	return session
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: 10, Email: "joao@loja.com", PasswordHash: hashed(t, strongPassword), Active: true, RoleID: domain.RoleAdmin}

	tests := []struct {
		name     string
		email    string
		password string
		setup    func(repo *mocks.MockUserRepository)
		wantErr  error
	}{
		{
			name:     "credenciais válidas com email normalizado",
			email:    "  JOAO@loja.com ",
			password: strongPassword,
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), "joao@loja.com").Return(user, nil)
			},
		},
		{
			name:     "senha incorreta",
			email:    "joao@loja.com",
			password: "Errada@123",
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), "joao@loja.com").Return(user, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "usuário inexistente devolve o mesmo erro",
			email:    "ninguem@loja.com",
			password: strongPassword,
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().GetUserByEmail(gomock.Any(), "ninguem@loja.com").Return(nil, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "usuário desativado",
			email:    "joao@loja.com",
			password: strongPassword,
			setup: func(repo *mocks.MockUserRepository) {
				inactive := *user
				inactive.Active = false
				repo.EXPECT().GetUserByEmail(gomock.Any(), "joao@loja.com").Return(&inactive, nil)
			},
			wantErr: ErrUserDisabled,
		},
		{
			name:     "campos vazios",
			email:    "",
			password: "",
			setup:    func(repo *mocks.MockUserRepository) {},
			wantErr:  ErrMissingRequiredData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(t, false)
			tt.setup(repo)

			session, err := svc.Login(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, session)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, session.UserID())

			validated, err := svc.ValidateToken(ctx, session.Token)
			require.NoError(t, err)
			assert.Equal(t, session.ID, validated.ID)
		})
	}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	req := domain.RegisterRequest{Name: "Maria", Email: "Maria@Loja.com", Password: strongPassword, RoleID: domain.RoleManager, StoreIDs: []string{"st1"}}

	t.Run("admin cadastra usuário ativo com papel escolhido", func(t *testing.T) {
		svc, repo := newTestService(t, false)
		admin := sessionFor(t, svc, &domain.User{ID: 1, RoleID: domain.RoleAdmin, Active: true})

		repo.EXPECT().GetUserByEmail(gomock.Any(), "maria@loja.com").Return(nil, nil)
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *domain.User) (*domain.User, error) {
			assert.True(t, u.Active)
			assert.Equal(t, domain.RoleManager, u.RoleID)
			assert.Equal(t, []string{"st1"}, u.StoreIDs)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(strongPassword)))
			u.ID = 20
			return u, nil
		})

		user, err := svc.Register(ctx, admin, req)
		require.NoError(t, err)
		assert.Equal(t, 20, user.ID)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("cadastro aberto cria visualizador inativo", func(t *testing.T) {
		svc, repo := newTestService(t, true)

		repo.EXPECT().GetUserByEmail(gomock.Any(), "maria@loja.com").Return(nil, nil)
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *domain.User) (*domain.User, error) {
			assert.False(t, u.Active)
			assert.Equal(t, domain.RoleViewer, u.RoleID)
			assert.Nil(t, u.StoreIDs)
			return u, nil
		})

		_, err := svc.Register(ctx, nil, req)
		require.NoError(t, err)
	})

	t.Run("cadastro aberto desabilitado", func(t *testing.T) {
		svc, _ := newTestService(t, false)
		_, err := svc.Register(ctx, nil, req)
		assert.ErrorIs(t, err, ErrInsufficientPrivilege)
	})

	t.Run("gerente não cadastra", func(t *testing.T) {
		svc, _ := newTestService(t, false)
		manager := sessionFor(t, svc, &domain.User{ID: 2, RoleID: domain.RoleManager, Active: true})
		_, err := svc.Register(ctx, manager, req)
		assert.ErrorIs(t, err, ErrInsufficientPrivilege)
	})

	t.Run("email duplicado", func(t *testing.T) {
		svc, repo := newTestService(t, false)
		admin := sessionFor(t, svc, &domain.User{ID: 1, RoleID: domain.RoleAdmin, Active: true})
		repo.EXPECT().GetUserByEmail(gomock.Any(), "maria@loja.com").Return(&domain.User{ID: 5}, nil)

		_, err := svc.Register(ctx, admin, req)
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})

	t.Run("conflito na gravação", func(t *testing.T) {
		svc, repo := newTestService(t, false)
		admin := sessionFor(t, svc, &domain.User{ID: 1, RoleID: domain.RoleAdmin, Active: true})
		repo.EXPECT().GetUserByEmail(gomock.Any(), "maria@loja.com").Return(nil, nil)
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil, repository.ErrConflict)

		_, err := svc.Register(ctx, admin, req)
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
	})

	t.Run("senha fraca", func(t *testing.T) {
		svc, _ := newTestService(t, false)
		admin := sessionFor(t, svc, &domain.User{ID: 1, RoleID: domain.RoleAdmin, Active: true})
		weak := req
		weak.Password = "fraca"

		_, err := svc.Register(ctx, admin, weak)
		assert.ErrorIs(t, err, ErrWeakPassword)
	})
}

func TestService_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, false)
	user := &domain.User{ID: 4, RoleID: domain.RoleViewer, Active: true}
	session := sessionFor(t, svc, user)

	promoted := *user
	promoted.RoleID = domain.RoleManager
	repo.EXPECT().GetUserByID(gomock.Any(), 4).Return(&promoted, nil)

	next, err := svc.Refresh(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, next.RoleID())

	_, err = svc.ValidateToken(ctx, session.Token)
	assert.ErrorIs(t, err, ErrSessionRevoked)

	require.NoError(t, svc.Logout(ctx, next))
	_, err = svc.ValidateToken(ctx, next.Token)
	assert.ErrorIs(t, err, ErrSessionRevoked)
}

func TestService_Refresh_DisabledUser(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, false)
	session := sessionFor(t, svc, &domain.User{ID: 4, RoleID: domain.RoleViewer, Active: true})

	repo.EXPECT().GetUserByID(gomock.Any(), 4).Return(&domain.User{ID: 4, Active: false}, nil)

	_, err := svc.Refresh(ctx, session)
	assert.ErrorIs(t, err, ErrUserDisabled)

	_, err = svc.ValidateToken(ctx, session.Token)
	assert.NoError(t, err)
}

func TestService_Me(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, false)
	session := sessionFor(t, svc, &domain.User{ID: 8, Active: true, RoleID: domain.RoleViewer})

	repo.EXPECT().GetUserByID(gomock.Any(), 8).Return(&domain.User{ID: 8, Active: true, PasswordHash: "hash"}, nil)

	user, err := svc.Me(ctx, session)
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Me(ctx, nil)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_UpdateUser(t *testing.T) {
	ctx := context.Background()
	name := "Novo"
	role := domain.RoleManager
	stores := []string{"st9"}

	t.Run("admin altera papel e lojas", func(t *testing.T) {
		svc, repo := newTestService(t, false)
		admin := sessionFor(t, svc, &domain.User{ID: 1, RoleID: domain.RoleAdmin, Active: true})

		repo.EXPECT().GetUserByID(gomock.Any(), 9).Return(&domain.User{ID: 9, Name: "Antigo", RoleID: domain.RoleViewer, PasswordHash: "hash"}, nil)
		repo.EXPECT().UpdateUser(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *domain.User) error {
			assert.Empty(t, u.PasswordHash)
			return nil
		})

		user, err := svc.UpdateUser(ctx, admin, &domain.UpdateUserRequest{ID: 9, Name: &name, RoleID: &role, StoreIDs: &stores})
		require.NoError(t, err)
		assert.Equal(t, "Novo", user.Name)
		assert.Equal(t, domain.RoleManager, user.RoleID)
		assert.Equal(t, stores, user.StoreIDs)
	})

	t.Run("papel inválido", func(t *testing.T) {
		svc, repo := newTestService(t, false)
		admin := sessionFor(t, svc, &domain.User{ID: 1, RoleID: domain.RoleAdmin, Active: true})
		invalid := 42
		repo.EXPECT().GetUserByID(gomock.Any(), 9).Return(&domain.User{ID: 9}, nil)

		_, err := svc.UpdateUser(ctx, admin, &domain.UpdateUserRequest{ID: 9, RoleID: &invalid})
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("usuário inexistente", func(t *testing.T) {
		svc, repo := newTestService(t, false)
		admin := sessionFor(t, svc, &domain.User{ID: 1, RoleID: domain.RoleAdmin, Active: true})
		repo.EXPECT().GetUserByID(gomock.Any(), 9).Return(nil, nil)

		_, err := svc.UpdateUser(ctx, admin, &domain.UpdateUserRequest{ID: 9})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("visualizador não altera", func(t *testing.T) {
		svc, _ := newTestService(t, false)
		viewer := sessionFor(t, svc, &domain.User{ID: 2, RoleID: domain.RoleViewer, Active: true})

		_, err := svc.UpdateUser(ctx, viewer, &domain.UpdateUserRequest{ID: 9})
		assert.ErrorIs(t, err, ErrInsufficientPrivilege)
	})
}

func TestService_ListUsers(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, false)
	admin := sessionFor(t, svc, &domain.User{ID: 1, RoleID: domain.RoleAdmin, Active: true})
	viewer := sessionFor(t, svc, &domain.User{ID: 2, RoleID: domain.RoleViewer, Active: true})

	repo.EXPECT().ListUser(gomock.Any()).Return([]*domain.User{{ID: 1}, {ID: 2}}, nil)
	users, err := svc.ListUsers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = svc.ListUsers(ctx, viewer)
	assert.True(t, errors.Is(err, ErrInsufficientPrivilege))
}

func TestService_ValidatePasswordStrength(t *testing.T) {
	svc, _ := newTestService(t, false)

	tests := []struct {
		password string
		valid    bool
	}{
		{"Senha@123", true},
		{"curta@1A", true},
		{"Sen@1", false},
		{"senha@123", false},
		{"SENHA@123", false},
		{"Senha@abc", false},
		{"Senha1234", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := svc.ValidatePasswordStrength(tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
