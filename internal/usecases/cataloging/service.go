package cataloging

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/pkg/utils"
)

var (
	ErrNotFound      = errors.New("registro não encontrado")
	ErrInvalidInput  = errors.New("dados inválidos")
	ErrAlreadyExists = errors.New("registro já existe")
	ErrNotAllowed    = errors.New("operação não permitida para o perfil")
	maxFeePercent    = decimal.NewFromInt(100)
)

type Cataloger interface {
	ListPlatforms(ctx context.Context) ([]*domain.Platform, error)
	GetPlatform(ctx context.Context, id string) (*domain.Platform, error)
	CreatePlatform(ctx context.Context, session *domain.Session, input domain.PlatformInput) (*domain.Platform, error)
	ListStores(ctx context.Context, session *domain.Session) ([]*domain.Store, error)
	GetStore(ctx context.Context, session *domain.Session, id string) (*domain.Store, error)
	CreateStore(ctx context.Context, session *domain.Session, input domain.StoreInput) (*domain.Store, error)
	// Names devolve os nomes de plataformas e lojas por ID, para rotular relatórios
	Names(ctx context.Context) (platforms map[string]string, stores map[string]string, err error)
}

type Service struct {
	platformRepo repository.PlatformRepository
	storeRepo    repository.StoreRepository
}

func NewService(platformRepo repository.PlatformRepository, storeRepo repository.StoreRepository) Cataloger {
	return &Service{
		platformRepo: platformRepo,
		storeRepo:    storeRepo,
	}
}

func (s *Service) ListPlatforms(ctx context.Context) ([]*domain.Platform, error) {
	return s.platformRepo.ListPlatforms(ctx)
}

func (s *Service) GetPlatform(ctx context.Context, id string) (*domain.Platform, error) {
	platform, err := s.platformRepo.GetPlatformByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if platform == nil {
		return nil, ErrNotFound
	}
	return platform, nil
}

func (s *Service) CreatePlatform(ctx context.Context, session *domain.Session, input domain.PlatformInput) (*domain.Platform, error) {
	if !session.IsAdmin() {
		return nil, ErrNotAllowed
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.Wrap(ErrInvalidInput, "nome é obrigatório")
	}
	if input.FeePercent.IsNegative() || input.FeePercent.GreaterThan(maxFeePercent) {
		return nil, errors.Wrap(ErrInvalidInput, "taxa deve estar entre 0 e 100")
	}

	slug := utils.Slugify(input.Slug)
	if slug == "" {
		slug = utils.Slugify(name)
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar ID da plataforma")
	}

	platform := &domain.Platform{
		ID:         id,
		Name:       name,
		Slug:       slug,
		FeePercent: input.FeePercent,
		Active:     true,
	}
	if err := s.platformRepo.CreatePlatform(ctx, platform); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"platform_id": platform.ID, "slug": platform.Slug}).Info("Plataforma cadastrada")
	return platform, nil
}

// ListStores devolve apenas as lojas dentro do escopo da sessão
func (s *Service) ListStores(ctx context.Context, session *domain.Session) ([]*domain.Store, error) {
	stores, err := s.storeRepo.ListStores(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]*domain.Store, 0, len(stores))
	for _, store := range stores {
		if session.CanAccessStore(store.ID) {
			visible = append(visible, store)
		}
	}
	return visible, nil
}

func (s *Service) GetStore(ctx context.Context, session *domain.Session, id string) (*domain.Store, error) {
	if !session.CanAccessStore(id) {
		return nil, ErrNotFound
	}

	store, err := s.storeRepo.GetStoreByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrNotFound
	}
	return store, nil
}

func (s *Service) CreateStore(ctx context.Context, session *domain.Session, input domain.StoreInput) (*domain.Store, error) {
	if !session.IsAdmin() {
		return nil, ErrNotAllowed
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.Wrap(ErrInvalidInput, "nome é obrigatório")
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar ID da loja")
	}

	store := &domain.Store{
		ID:        id,
		Name:      name,
		OwnerName: strings.TrimSpace(input.OwnerName),
		Active:    true,
	}
	if err := s.storeRepo.CreateStore(ctx, store); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	logrus.WithField("store_id", store.ID).Info("Loja cadastrada")
	return store, nil
}

func (s *Service) Names(ctx context.Context) (map[string]string, map[string]string, error) {
	platforms, err := s.platformRepo.ListPlatforms(ctx)
	if err != nil {
		return nil, nil, err
	}
	stores, err := s.storeRepo.ListStores(ctx)
	if err != nil {
		return nil, nil, err
	}

	platformNames := make(map[string]string, len(platforms))
	for _, p := range platforms {
		platformNames[p.ID] = p.Name
	}
	storeNames := make(map[string]string, len(stores))
	for _, st := range stores {
		storeNames[st.ID] = st.Name
	}
	return platformNames, storeNames, nil
}
