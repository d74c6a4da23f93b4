package handler

import (
	"net/http"

	"github.com/vfg2006/sales-analytics-api/internal/api/handler/router"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/analyzing"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/cataloging"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/exporting"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/importing"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/ranking"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/transacting"
	"github.com/vfg2006/sales-analytics-api/pkg/middleware"
)

type mw = func(http.Handler) http.Handler

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/register",
			Method:  http.MethodPost,
			Handler: Register(service),
		},
		{
			Path:        "/v1/session/refresh",
			Method:      http.MethodPost,
			Handler:     RefreshSession(service),
			Middlewares: []mw{middleware.AllRoles()},
		},
		{
			Path:        "/v1/logout",
			Method:      http.MethodPost,
			Handler:     Logout(service),
			Middlewares: []mw{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []mw{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []mw{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     Register(service),
			Middlewares: []mw{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []mw{middleware.AdminOnly()},
		},
	}
}

func Catalog(service cataloging.Cataloger) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/platforms",
			Method:      http.MethodGet,
			Handler:     ListPlatforms(service),
			Middlewares: []mw{middleware.AllRoles()},
		},
		{
			Path:        "/v1/platforms",
			Method:      http.MethodPost,
			Handler:     CreatePlatform(service),
			Middlewares: []mw{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/platforms/:id",
			Method:      http.MethodGet,
			Handler:     GetPlatform(service),
			Middlewares: []mw{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stores",
			Method:      http.MethodGet,
			Handler:     ListStores(service),
			Middlewares: []mw{middleware.AllRoles()},
		},
		{
			Path:        "/v1/stores",
			Method:      http.MethodPost,
			Handler:     CreateStore(service),
			Middlewares: []mw{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/stores/:id",
			Method:      http.MethodGet,
			Handler:     GetStore(service),
			Middlewares: []mw{middleware.AllRoles()},
		},
	}
}

func Transactions(service transacting.Transactor, importer importing.Importer, maxImportBytes int64) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/transactions",
			Method:      http.MethodGet,
			Handler:     ListTransactions(service),
			Middlewares: []mw{middleware.AllRoles()},
		},
		{
			Path:        "/v1/transactions",
			Method:      http.MethodPost,
			Handler:     CreateTransaction(service),
			Middlewares: []mw{middleware.Writers()},
		},
		{
			Path:        "/v1/transactions/import",
			Method:      http.MethodPost,
			Handler:     ImportTransactions(importer, maxImportBytes),
			Middlewares: []mw{middleware.Writers()},
		},
		{
			Path:        "/v1/transactions/:id",
			Method:      http.MethodGet,
			Handler:     GetTransaction(service),
			Middlewares: []mw{middleware.AllRoles()},
		},
		{
			Path:        "/v1/transactions/:id",
			Method:      http.MethodPut,
			Handler:     UpdateTransaction(service),
			Middlewares: []mw{middleware.Writers()},
		},
		{
			Path:        "/v1/transactions/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteTransaction(service),
			Middlewares: []mw{middleware.Writers()},
		},
	}
}

func Analytics(service analyzing.Analyzer, exporter exporting.Exporter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/analytics/summary",
			Method:      http.MethodGet,
			Handler:     GetSummary(service),
			Middlewares: []mw{middleware.AllRoles()},
		},
		{
			Path:        "/v1/analytics/platforms",
			Method:      http.MethodGet,
			Handler:     GetPlatformPerformance(service),
			Middlewares: []mw{middleware.AllRoles()},
		},
		{
			Path:        "/v1/analytics/stores",
			Method:      http.MethodGet,
			Handler:     GetStorePerformance(service),
			Middlewares: []mw{middleware.AllRoles()},
		},
		{
			Path:        "/v1/analytics/products",
			Method:      http.MethodGet,
			Handler:     GetProductPerformance(service),
			Middlewares: []mw{middleware.AllRoles()},
		},
		{
			Path:        "/v1/analytics/insights",
			Method:      http.MethodGet,
			Handler:     GetInsights(service),
			Middlewares: []mw{middleware.AllRoles()},
		},
		{
			Path:        "/v1/analytics/export",
			Method:      http.MethodGet,
			Handler:     ExportReport(exporter),
			Middlewares: []mw{middleware.AllRoles()},
		},
	}
}

func Rankings(service ranking.RankingService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/rankings/platforms",
			Method:      http.MethodGet,
			Handler:     GetPlatformRanking(service),
			Middlewares: []mw{middleware.AllRoles()},
		},
	}
}

func Cron(jobs CronJobs) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(jobs),
			Middlewares: []mw{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(jobs),
			Middlewares: []mw{middleware.AdminOnly()},
		},
	}
}
