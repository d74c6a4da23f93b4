package handler

import (
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/analyzing"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/cataloging"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/exporting"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/importing"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/transacting"
	"github.com/vfg2006/sales-analytics-api/pkg/apiErrors"
	"github.com/vfg2006/sales-analytics-api/pkg/log"
	"github.com/vfg2006/sales-analytics-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.L.WithError(err).Error("Erro ao enviar resposta")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// requireSession devolve a sessão da requisição ou responde 401
func requireSession(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
		return nil, false
	}
	return session, true
}

// writeServiceError traduz os erros dos casos de uso para o código da API
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) {
		apiErrors.WriteError(w, authErr.Code, authErr.Error(), nil)
		return
	}

	switch {
	case errors.Is(err, transacting.ErrNotFound),
		errors.Is(err, cataloging.ErrNotFound):
		apiErrors.WriteError(w, apiErrors.ErrNotFound, err.Error(), nil)

	case errors.Is(err, transacting.ErrForbidden),
		errors.Is(err, analyzing.ErrForbidden),
		errors.Is(err, importing.ErrForbidden),
		errors.Is(err, cataloging.ErrNotAllowed):
		apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, err.Error(), nil)

	case errors.Is(err, transacting.ErrInvalidInput),
		errors.Is(err, transacting.ErrUnknownPlatform),
		errors.Is(err, transacting.ErrUnknownStore),
		errors.Is(err, cataloging.ErrInvalidInput),
		errors.Is(err, analyzing.ErrInvalidQuery),
		errors.Is(err, exporting.ErrUnsupportedFormat):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)

	case errors.Is(err, importing.ErrEmptyFile),
		errors.Is(err, importing.ErrInvalidHeader),
		errors.Is(err, importing.ErrUnreadableFile):
		apiErrors.WriteError(w, apiErrors.ErrInvalidFile, err.Error(), nil)

	case errors.Is(err, cataloging.ErrAlreadyExists):
		apiErrors.WriteError(w, apiErrors.ErrConflict, err.Error(), nil)

	default:
		log.ForContext(r.Context()).WithError(err).Error(fallback)
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
	}
}

// listParam aceita tanto ?k=a&k=b quanto ?k=a,b
func listParam(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.URL.Query()[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func intParam(r *http.Request, key string) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.Errorf("parâmetro %s inválido", key)
	}
	return n, nil
}

// analyticsQuery lê os filtros comuns das rotas de análise
func analyticsQuery(r *http.Request) (domain.AnalyticsQuery, error) {
	limit, err := intParam(r, "limit")
	if err != nil {
		return domain.AnalyticsQuery{}, err
	}

	return domain.AnalyticsQuery{
		Timeframe:   domain.Timeframe(strings.TrimSpace(r.URL.Query().Get("timeframe"))),
		PlatformIDs: listParam(r, "platform_id"),
		StoreIDs:    listParam(r, "store_id"),
		RankBy:      strings.TrimSpace(r.URL.Query().Get("rank_by")),
		Limit:       limit,
	}, nil
}
