package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/importing"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/transacting"
	"github.com/vfg2006/sales-analytics-api/pkg/apiErrors"
	"github.com/vfg2006/sales-analytics-api/pkg/log"
	"github.com/vfg2006/sales-analytics-api/pkg/utils"
)

// transactionFilters lê a query string da listagem de vendas. A data final é inclusiva.
func transactionFilters(r *http.Request) (domain.TransactionFilters, error) {
	q := r.URL.Query()

	startDate, err := utils.ParseDate(q.Get("start_date"))
	if err != nil {
		return domain.TransactionFilters{}, errors.New("start_date deve estar no formato yyyy-mm-dd")
	}
	endDate, err := utils.ParseDate(q.Get("end_date"))
	if err != nil {
		return domain.TransactionFilters{}, errors.New("end_date deve estar no formato yyyy-mm-dd")
	}
	if endDate != nil {
		end := utils.EndOfDay(*endDate)
		endDate = &end
	}

	limit, err := intParam(r, "limit")
	if err != nil {
		return domain.TransactionFilters{}, err
	}
	offset, err := intParam(r, "offset")
	if err != nil {
		return domain.TransactionFilters{}, err
	}

	var statuses []domain.DeliveryStatus
	for _, s := range listParam(r, "status") {
		status, ok := domain.ParseDeliveryStatus(s)
		if !ok {
			return domain.TransactionFilters{}, errors.Errorf("status desconhecido: %s", s)
		}
		statuses = append(statuses, status)
	}

	return domain.TransactionFilters{
		StartDate:   startDate,
		EndDate:     endDate,
		PlatformIDs: listParam(r, "platform_id"),
		StoreIDs:    listParam(r, "store_id"),
		Statuses:    statuses,
		ProductSKU:  strings.TrimSpace(q.Get("sku")),
		Limit:       limit,
		Offset:      offset,
	}, nil
}

func ListTransactions(service transacting.Transactor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}

		filters, err := transactionFilters(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		page, err := service.List(r.Context(), session, filters)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar vendas")
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func GetTransaction(service transacting.Transactor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		tx, err := service.Get(r.Context(), session, id)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar venda")
			return
		}
		writeJSON(w, http.StatusOK, tx)
	}
}

func CreateTransaction(service transacting.Transactor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}

		var input domain.TransactionInput
		if err := decodeJSON(r, &input); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		tx, err := service.Create(r.Context(), session, input)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao registrar venda")
			return
		}
		writeJSON(w, http.StatusCreated, tx)
	}
}

func UpdateTransaction(service transacting.Transactor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var input domain.TransactionInput
		if err := decodeJSON(r, &input); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		tx, err := service.Update(r.Context(), session, id, input)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao atualizar venda")
			return
		}
		writeJSON(w, http.StatusOK, tx)
	}
}

func DeleteTransaction(service transacting.Transactor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		if err := service.Delete(r.Context(), session, id); err != nil {
			writeServiceError(w, r, err, "Erro ao remover venda")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ImportTransactions recebe a planilha CSV no campo "file" (multipart) ou como corpo text/csv.
// ?dry_run=true valida sem gravar.
func ImportTransactions(service importing.Importer, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))

		var (
			file     io.Reader
			fileName = r.URL.Query().Get("file_name")
		)

		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			if err := r.ParseMultipartForm(maxBytes); err != nil {
				writeUploadError(w, err)
				return
			}
			part, header, err := r.FormFile("file")
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Campo 'file' é obrigatório", nil)
				return
			}
			defer part.Close()
			file = part
			fileName = header.Filename
		} else {
			file = r.Body
		}
		if fileName == "" {
			fileName = "upload.csv"
		}

		result, err := service.Import(r.Context(), session, fileName, file, importing.Options{DryRun: dryRun})
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeUploadError(w, err)
				return
			}
			writeServiceError(w, r, err, "Erro ao importar vendas")
			return
		}

		log.ForContext(r.Context()).WithFields(log.Fields{
			"user_id":   session.UserID(),
			"file_name": fileName,
			"imported":  result.Imported,
			"rejected":  result.Rejected,
			"dry_run":   dryRun,
		}).Info("Importação de vendas concluída")

		status := http.StatusCreated
		if dryRun || result.Imported == 0 {
			status = http.StatusOK
		}
		writeJSON(w, status, result)
	}
}

func writeUploadError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFile, "Arquivo maior que o limite permitido", map[string]any{
			"max_bytes": maxErr.Limit,
		})
		return
	}
	apiErrors.WriteError(w, apiErrors.ErrInvalidFile, "Upload inválido", nil)
}
