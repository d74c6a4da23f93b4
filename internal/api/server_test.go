package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/sales-analytics-api/internal/api/handler"
	"github.com/vfg2006/sales-analytics-api/internal/config"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	analyzingmocks "github.com/vfg2006/sales-analytics-api/internal/usecases/analyzing/mocks"
	authmocks "github.com/vfg2006/sales-analytics-api/internal/usecases/authenticating/mocks"
	catalogmocks "github.com/vfg2006/sales-analytics-api/internal/usecases/cataloging/mocks"
	exportmocks "github.com/vfg2006/sales-analytics-api/internal/usecases/exporting/mocks"
	importmocks "github.com/vfg2006/sales-analytics-api/internal/usecases/importing/mocks"
	rankingmocks "github.com/vfg2006/sales-analytics-api/internal/usecases/ranking/mocks"
	txmocks "github.com/vfg2006/sales-analytics-api/internal/usecases/transacting/mocks"
	"go.uber.org/mock/gomock"
)

func TestNewHandler_Routing(t *testing.T) {
	ctrl := gomock.NewController(t)

	auth := authmocks.NewMockAuthenticator(ctrl)
	analyzer := analyzingmocks.NewMockAnalyzer(ctrl)
	transactions := txmocks.NewMockTransactor(ctrl)

	viewer := &domain.Session{ID: "s-viewer", Claims: &domain.Claims{UserID: 3, UserRoleID: domain.RoleViewer}}
	auth.EXPECT().ValidateToken(gomock.Any(), "viewer").Return(viewer, nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Import.MaxFileSizeMB = 1

	h := NewHandler(cfg, Services{
		Authenticator: auth,
		Catalog:       catalogmocks.NewMockCataloger(ctrl),
		Transactions:  transactions,
		Importer:      importmocks.NewMockImporter(ctrl),
		Analyzer:      analyzer,
		Exporter:      exportmocks.NewMockExporter(ctrl),
		Ranking:       rankingmocks.NewMockRankingService(ctrl),
		CronJobs:      handler.CronJobs{},
	})

	analyzer.EXPECT().Summary(gomock.Any(), viewer, gomock.Any()).Return(&domain.SummaryReport{}, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       string
		wantStatus int
	}{
		{"healthcheck sem banco", http.MethodGet, "/healthcheck", "", "", http.StatusOK},
		{"resumo para leitor", http.MethodGet, "/v1/analytics/summary?timeframe=30d", "viewer", "", http.StatusOK},
		{"leitor não registra venda", http.MethodPost, "/v1/transactions", "viewer", `{}`, http.StatusForbidden},
		{"leitor não importa", http.MethodPost, "/v1/transactions/import", "viewer", "a,b", http.StatusForbidden},
		{"leitor não dispara cron", http.MethodPost, "/v1/cron/all/run", "viewer", "", http.StatusForbidden},
		{"sem token", http.MethodGet, "/v1/transactions", "", "", http.StatusUnauthorized},
		{"rota inexistente", http.MethodGet, "/v1/nada", "viewer", "", http.StatusNotFound},
		{"método não suportado", http.MethodPatch, "/v1/transactions/abc", "viewer", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.token != "" {
				r.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, r)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
