package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/cataloging"
	"github.com/vfg2006/sales-analytics-api/pkg/apiErrors"
)

func ListPlatforms(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platforms, err := service.ListPlatforms(r.Context())
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar plataformas")
			return
		}
		writeJSON(w, http.StatusOK, platforms)
	}
}

func GetPlatform(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		platform, err := service.GetPlatform(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar plataforma")
			return
		}
		writeJSON(w, http.StatusOK, platform)
	}
}

func CreatePlatform(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}

		var input domain.PlatformInput
		if err := decodeJSON(r, &input); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		platform, err := service.CreatePlatform(r.Context(), session, input)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao criar plataforma")
			return
		}
		writeJSON(w, http.StatusCreated, platform)
	}
}

// ListStores lista as lojas visíveis para a sessão
func ListStores(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}

		stores, err := service.ListStores(r.Context(), session)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar lojas")
			return
		}
		writeJSON(w, http.StatusOK, stores)
	}
}

func GetStore(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")

		store, err := service.GetStore(r.Context(), session, id)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar loja")
			return
		}
		writeJSON(w, http.StatusOK, store)
	}
}

func CreateStore(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := requireSession(w, r)
		if !ok {
			return
		}

		var input domain.StoreInput
		if err := decodeJSON(r, &input); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		store, err := service.CreateStore(r.Context(), session, input)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao criar loja")
			return
		}
		writeJSON(w, http.StatusCreated, store)
	}
}
