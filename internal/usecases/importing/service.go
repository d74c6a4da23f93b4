package importing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-analytics-api/infrastructure/repository"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/aggregating"
	"github.com/vfg2006/sales-analytics-api/pkg/utils"
)

const defaultBatchSize = 500

var (
	ErrEmptyFile     = errors.New("arquivo vazio")
	ErrInvalidHeader = errors.New("cabeçalho inválido")
	ErrForbidden     = errors.New("sem permissão para importar vendas")
	// ErrUnreadableFile encerra a importação: o leitor falhou fora do parser de CSV
	ErrUnreadableFile = errors.New("falha ao ler o arquivo")
)

// Motivos de rejeição de uma linha
const (
	ReasonMissingPlatform = "plataforma ausente"
	ReasonMissingStore    = "loja ausente"
	ReasonInvalidDate     = "data da venda ausente ou inválida"
	ReasonUnknownPlatform = "plataforma não cadastrada"
	ReasonUnknownStore    = "loja não cadastrada"
	ReasonOutOfScope      = "loja fora do escopo do usuário"
	ReasonMalformed       = "linha malformada"
)

type RowRejection struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
	Value  string `json:"value,omitempty"`
}

type ImportResult struct {
	BatchID  string                     `json:"batch_id,omitempty"`
	FileName string                     `json:"file_name"`
	Imported int                        `json:"imported"`
	Rejected int                        `json:"rejected"`
	Issues   []RowRejection             `json:"issues,omitempty"`
	Coercion aggregating.CoercionReport `json:"coercion"`
	DryRun   bool                       `json:"dry_run,omitempty"`
}

type Options struct {
	// DryRun valida a planilha sem gravar nada
	DryRun bool
	// Progress é chamado a cada linha lida
	Progress func(line int)
}

type Importer interface {
	Import(ctx context.Context, session *domain.Session, fileName string, r io.Reader, opts Options) (*ImportResult, error)
}

type Service struct {
	transactionRepo repository.TransactionRepository
	platformRepo    repository.PlatformRepository
	storeRepo       repository.StoreRepository
	batchSize       int
}

func NewService(
	transactionRepo repository.TransactionRepository,
	platformRepo repository.PlatformRepository,
	storeRepo repository.StoreRepository,
	batchSize int,
) Importer {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Service{
		transactionRepo: transactionRepo,
		platformRepo:    platformRepo,
		storeRepo:       storeRepo,
		batchSize:       batchSize,
	}
}

// Import lê a planilha, corrige os campos numéricos e de status, rejeita as linhas sem
// plataforma, loja ou data válidas e grava o restante num único lote.
func (s *Service) Import(ctx context.Context, session *domain.Session, fileName string, r io.Reader, opts Options) (*ImportResult, error) {
	if !session.CanWrite() {
		return nil, ErrForbidden
	}

	source, err := newCSVSource(r)
	if err != nil {
		return nil, err
	}

	platforms, stores, err := s.lookups(ctx)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{FileName: fileName, DryRun: opts.DryRun}
	txs := make([]*domain.Transaction, 0)
	reject := func(line int, reason, value string) {
		result.Rejected++
		result.Issues = append(result.Issues, RowRejection{Line: line, Reason: reason, Value: value})
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := source.next()
		if err == io.EOF {
			break
		}
		if opts.Progress != nil {
			opts.Progress(raw.Line)
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("%w (linha %d): %w", ErrUnreadableFile, raw.Line, err)
			}
			reject(raw.Line, ReasonMalformed, err.Error())
			continue
		}

		t, issues := aggregating.Coerce(raw)
		result.Coercion.Add(issues)

		switch {
		case t.PlatformID == "":
			reject(raw.Line, ReasonMissingPlatform, "")
			continue
		case t.StoreID == "":
			reject(raw.Line, ReasonMissingStore, "")
			continue
		case t.OccurredAt.IsZero():
			reject(raw.Line, ReasonInvalidDate, raw.OccurredAt)
			continue
		}

		platformID, ok := platforms[strings.ToLower(t.PlatformID)]
		if !ok {
			reject(raw.Line, ReasonUnknownPlatform, t.PlatformID)
			continue
		}
		storeID, ok := stores[strings.ToLower(t.StoreID)]
		if !ok {
			reject(raw.Line, ReasonUnknownStore, t.StoreID)
			continue
		}
		if !session.CanAccessStore(storeID) {
			reject(raw.Line, ReasonOutOfScope, t.StoreID)
			continue
		}

		id, err := utils.GenerateID()
		if err != nil {
			return nil, errors.Wrap(err, "erro ao gerar ID da venda")
		}
		t.ID = id
		t.PlatformID = platformID
		t.StoreID = storeID
		txs = append(txs, &t)
	}

	if result.Coercion.RowsSeen == 0 && result.Rejected == 0 {
		return nil, ErrEmptyFile
	}

	result.Imported = len(txs)
	logger := logrus.WithFields(logrus.Fields{
		"file":     fileName,
		"imported": result.Imported,
		"rejected": result.Rejected,
		"coerced":  result.Coercion.RowsCoerced,
		"user_id":  session.UserID(),
	})

	if opts.DryRun || len(txs) == 0 {
		logger.Info("Importação validada sem gravação")
		return result, nil
	}

	batch := &domain.ImportBatch{
		ID:        uuid.NewString(),
		FileName:  fileName,
		Imported:  result.Imported,
		Rejected:  result.Rejected,
		CreatedBy: session.UserID(),
	}
	for _, t := range txs {
		t.ImportBatchID = &batch.ID
	}

	if err := s.transactionRepo.CreateBatch(ctx, batch, txs, s.batchSize); err != nil {
		logger.WithError(err).Error("Erro ao gravar lote de importação")
		return nil, errors.Wrap(err, "erro ao gravar lote de importação")
	}

	result.BatchID = batch.ID
	logger.WithField("batch_id", batch.ID).Info("Importação concluída")
	return result, nil
}

// lookups indexa plataformas por ID e slug e lojas por ID e nome, sem diferenciar maiúsculas
func (s *Service) lookups(ctx context.Context) (map[string]string, map[string]string, error) {
	platformList, err := s.platformRepo.ListPlatforms(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "erro ao carregar plataformas")
	}
	storeList, err := s.storeRepo.ListStores(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "erro ao carregar lojas")
	}

	platforms := make(map[string]string, len(platformList)*3)
	for _, p := range platformList {
		platforms[strings.ToLower(p.Slug)] = p.ID
		platforms[strings.ToLower(p.Name)] = p.ID
		platforms[strings.ToLower(p.ID)] = p.ID
	}
	stores := make(map[string]string, len(storeList)*2)
	for _, st := range storeList {
		stores[strings.ToLower(st.Name)] = st.ID
		stores[strings.ToLower(st.ID)] = st.ID
	}
	return platforms, stores, nil
}
