package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/analyzing"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/exporting"
	"github.com/vfg2006/sales-analytics-api/pkg/apiErrors"
)

// analyticsHandler lê sessão e filtros e repassa para a consulta de análise
func analyticsHandler[T any](fn func(context.Context, *domain.Session, domain.AnalyticsQuery) (T, error), fallback string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}

		q, err := analyticsQuery(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		report, err := fn(r.Context(), session, q)
		if err != nil {
			writeServiceError(w, r, err, fallback)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func GetSummary(service analyzing.Analyzer) http.HandlerFunc {
	return analyticsHandler(service.Summary, "Erro ao calcular o resumo de vendas")
}

func GetPlatformPerformance(service analyzing.Analyzer) http.HandlerFunc {
	return analyticsHandler(service.Platforms, "Erro ao calcular o desempenho das plataformas")
}

func GetStorePerformance(service analyzing.Analyzer) http.HandlerFunc {
	return analyticsHandler(service.Stores, "Erro ao calcular o desempenho das lojas")
}

func GetProductPerformance(service analyzing.Analyzer) http.HandlerFunc {
	return analyticsHandler(service.Products, "Erro ao calcular o desempenho dos produtos")
}

func GetInsights(service analyzing.Analyzer) http.HandlerFunc {
	return analyticsHandler(service.Insights, "Erro ao gerar insights")
}

// ExportReport devolve o relatório do período no formato pedido (?format=csv|whatsapp|pdf)
func ExportReport(service exporting.Exporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}

		format, err := exporting.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		q, err := analyticsQuery(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
			return
		}

		doc, err := service.Export(r.Context(), session, q, format)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao exportar relatório")
			return
		}

		w.Header().Set("Content-Type", doc.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
		w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(doc.Body)
	}
}
