package transacting

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/pkg/utils"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

var (
	ErrNotFound        = errors.New("venda não encontrada")
	ErrInvalidInput    = errors.New("dados da venda inválidos")
	ErrUnknownPlatform = errors.New("plataforma não cadastrada")
	ErrUnknownStore    = errors.New("loja não cadastrada")
	ErrForbidden       = errors.New("sem permissão para esta operação")
)

type Transactor interface {
	Create(ctx context.Context, session *domain.Session, input domain.TransactionInput) (*domain.Transaction, error)
	Get(ctx context.Context, session *domain.Session, id string) (*domain.Transaction, error)
	List(ctx context.Context, session *domain.Session, filters domain.TransactionFilters) (*domain.TransactionPage, error)
	Update(ctx context.Context, session *domain.Session, id string, input domain.TransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, session *domain.Session, id string) error
}

type Service struct {
	transactionRepo repository.TransactionRepository
	platformRepo    repository.PlatformRepository
	storeRepo       repository.StoreRepository
}

func NewService(transactionRepo repository.TransactionRepository, platformRepo repository.PlatformRepository, storeRepo repository.StoreRepository) Transactor {
	return &Service{
		transactionRepo: transactionRepo,
		platformRepo:    platformRepo,
		storeRepo:       storeRepo,
	}
}

func (s *Service) Create(ctx context.Context, session *domain.Session, input domain.TransactionInput) (*domain.Transaction, error) {
	if !session.CanWrite() {
		return nil, ErrForbidden
	}
	if err := s.validate(ctx, session, &input); err != nil {
		return nil, err
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao gerar ID da venda")
	}

	t := &domain.Transaction{ID: id}
	apply(t, input)

	if err := s.transactionRepo.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return nil, errors.Wrap(ErrInvalidInput, "plataforma ou loja inexistente")
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"transaction_id": t.ID,
		"user_id":        session.UserID(),
		"platform_id":    t.PlatformID,
		"store_id":       t.StoreID,
	}).Info("Venda registrada")
	return t, nil
}

func (s *Service) Get(ctx context.Context, session *domain.Session, id string) (*domain.Transaction, error) {
	t, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// vendas fora do escopo se comportam como inexistentes
	if t == nil || !session.CanAccessStore(t.StoreID) {
		return nil, ErrNotFound
	}
	return t, nil
}

func (s *Service) List(ctx context.Context, session *domain.Session, filters domain.TransactionFilters) (*domain.TransactionPage, error) {
	stores, ok := session.ScopeStores(filters.StoreIDs)
	if !ok {
		return nil, ErrForbidden
	}
	filters.StoreIDs = stores

	for _, status := range filters.Statuses {
		if !status.Valid() {
			return nil, errors.Wrapf(ErrInvalidInput, "status desconhecido: %s", status)
		}
	}
	if filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		return nil, errors.Wrap(ErrInvalidInput, "data final anterior à data inicial")
	}

	switch {
	case filters.Limit <= 0:
		filters.Limit = defaultPageSize
	case filters.Limit > maxPageSize:
		filters.Limit = maxPageSize
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	items, total, err := s.transactionRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}

	return &domain.TransactionPage{
		Items:  items,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}, nil
}

func (s *Service) Update(ctx context.Context, session *domain.Session, id string, input domain.TransactionInput) (*domain.Transaction, error) {
	if !session.CanWrite() {
		return nil, ErrForbidden
	}

	t, err := s.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, session, &input); err != nil {
		return nil, err
	}

	apply(t, input)
	if err := s.transactionRepo.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		if errors.Is(err, repository.ErrInvalidReference) {
			return nil, errors.Wrap(ErrInvalidInput, "plataforma ou loja inexistente")
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"transaction_id": t.ID, "user_id": session.UserID()}).Info("Venda atualizada")
	return t, nil
}

func (s *Service) Delete(ctx context.Context, session *domain.Session, id string) error {
	if !session.CanWrite() {
		return ErrForbidden
	}
	if _, err := s.Get(ctx, session, id); err != nil {
		return err
	}

	if err := s.transactionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	logrus.WithFields(logrus.Fields{"transaction_id": id, "user_id": session.UserID()}).Info("Venda removida")
	return nil
}

// validate normaliza o payload e confere preços, quantidade, status e referências
func (s *Service) validate(ctx context.Context, session *domain.Session, input *domain.TransactionInput) error {
	input.PlatformID = strings.TrimSpace(input.PlatformID)
	input.StoreID = strings.TrimSpace(input.StoreID)
	input.ProductSKU = strings.TrimSpace(input.ProductSKU)
	input.ProductName = strings.TrimSpace(input.ProductName)

	switch {
	case input.PlatformID == "" || input.StoreID == "":
		return errors.Wrap(ErrInvalidInput, "plataforma e loja são obrigatórias")
	case input.ProductSKU == "":
		return errors.Wrap(ErrInvalidInput, "SKU é obrigatório")
	case input.SellingPrice.IsNegative():
		return errors.Wrap(ErrInvalidInput, "preço de venda não pode ser negativo")
	case input.CostPrice.IsNegative():
		return errors.Wrap(ErrInvalidInput, "preço de custo não pode ser negativo")
	case input.Quantity < 1:
		return errors.Wrap(ErrInvalidInput, "quantidade deve ser maior que zero")
	case input.OccurredAt.IsZero():
		return errors.Wrap(ErrInvalidInput, "data da venda é obrigatória")
	}

	if input.DeliveryStatus == "" {
		input.DeliveryStatus = domain.DeliveryStatusPendingConfirmation
	}
	if !input.DeliveryStatus.Valid() {
		status, ok := domain.ParseDeliveryStatus(string(input.DeliveryStatus))
		if !ok {
			return errors.Wrapf(ErrInvalidInput, "status desconhecido: %s", input.DeliveryStatus)
		}
		input.DeliveryStatus = status
	}

	if !session.CanAccessStore(input.StoreID) {
		return ErrForbidden
	}

	platform, err := s.platformRepo.GetPlatformByID(ctx, input.PlatformID)
	if err != nil {
		return err
	}
	if platform == nil {
		return ErrUnknownPlatform
	}

	store, err := s.storeRepo.GetStoreByID(ctx, input.StoreID)
	if err != nil {
		return err
	}
	if store == nil {
		return ErrUnknownStore
	}

	return nil
}

func apply(t *domain.Transaction, input domain.TransactionInput) {
	t.PlatformID = input.PlatformID
	t.StoreID = input.StoreID
	t.ProductSKU = input.ProductSKU
	t.ProductName = input.ProductName
	t.CustomerName = strings.TrimSpace(input.CustomerName)
	t.SellingPrice = input.SellingPrice
	t.CostPrice = input.CostPrice
	t.Profit = input.SellingPrice.Sub(input.CostPrice)
	t.Quantity = input.Quantity
	t.DeliveryStatus = input.DeliveryStatus
	t.OccurredAt = input.OccurredAt
	t.Notes = strings.TrimSpace(input.Notes)
}
