package handler

import (
	"net/http"
	"slices"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-analytics-api/internal/scheduler"
	"github.com/vfg2006/sales-analytics-api/pkg/apiErrors"
	"github.com/vfg2006/sales-analytics-api/pkg/log"
)

const (
	CronJobTypePlatformRanking = "platform-ranking"
	CronJobTypeAll             = "all"
)

// CronJobs relaciona o tipo da cron com o agendador
type CronJobs map[string]scheduler.Job

func (c CronJobs) types() []string {
	types := make([]string, 0, len(c))
	for t := range c {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(jobs CronJobs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")

		var triggered []string
		if cronType == CronJobTypeAll {
			for _, t := range jobs.types() {
				jobs[t].TriggerManualSync()
				triggered = append(triggered, t)
			}
		} else {
			job, ok := jobs[cronType]
			if !ok || job == nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido", map[string]any{
					"accepted": append(jobs.types(), CronJobTypeAll),
				})
				return
			}
			job.TriggerManualSync()
			triggered = []string{cronType}
		}

		log.ForContext(r.Context()).WithField("cron_type", cronType).Info("Cron job disparada manualmente")

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
			"jobs":    triggered,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(jobs CronJobs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]any, len(jobs))
		for t, job := range jobs {
			status[t] = job.GetStatus()
		}
		writeJSON(w, http.StatusOK, status)
	}
}
