package handler

import (
	"net/http"
	"regexp"

	"github.com/vfg2006/sales-analytics-api/internal/usecases/ranking"
	"github.com/vfg2006/sales-analytics-api/pkg/apiErrors"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// GetPlatformRanking retorna o ranking mensal de plataformas (?month=yyyy-mm)
func GetPlatformRanking(service ranking.RankingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month := r.URL.Query().Get("month")
		if month != "" && !monthPattern.MatchString(month) {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "month deve estar no formato yyyy-mm", nil)
			return
		}

		result, err := service.GetPlatformRanking(r.Context(), month)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar ranking das plataformas")
			return
		}

		if result == nil {
			apiErrors.WriteError(w, apiErrors.ErrNotFound, "Nenhum ranking encontrado", nil)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
