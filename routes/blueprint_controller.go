package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mbolis/quick-contract/app"
	"github.com/mbolis/quick-contract/httpx"
	"github.com/mbolis/quick-contract/log"
	"github.com/mbolis/quick-contract/model"
	"github.com/mbolis/quick-contract/preview"
	"github.com/mbolis/quick-contract/service"
	"github.com/mbolis/quick-contract/store"
)

func ListBlueprints(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blueprints, err := app.Store.ListBlueprints(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "store.list_blueprints", err)
			return
		}
		blueprints = store.FilterBlueprints(blueprints, r.URL.Query().Get("q"))

		render.JSON(w, r, map[string]any{
			"blueprints": blueprints,
		})
	}
}

func GetBlueprint(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		bp, err := app.Store.GetBlueprint(r.Context(), id)
		if err != nil {
			httpx.LogError(w, "store.get_blueprint", id, err)
			return
		}

		render.JSON(w, r, bp)
	}
}

func PreviewBlueprint(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		bp, err := app.Store.GetBlueprint(r.Context(), id)
		if err != nil {
			httpx.LogError(w, "store.get_blueprint", id, err)
			return
		}

		w.Header().Set("content-type", "image/svg+xml")
		if err = preview.Blueprint(w, bp); err != nil {
			log.Errorf("preview.blueprint: %s", err)
		}
	}
}

// ContractDraft materializes blueprint id into an unsaved contract, ready
// to be filled in and posted to /contracts.
func ContractDraft(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		bp, err := app.Store.GetBlueprint(r.Context(), id)
		if err != nil {
			httpx.LogError(w, "store.get_blueprint", id, err)
			return
		}

		c, err := service.Instantiate(bp).Contract()
		if err != nil {
			httpx.LogError(w, "contract_draft.materialize", id, err)
			return
		}

		render.JSON(w, r, contractView(c))
	}
}

func CreateBlueprint(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bp := model.Blueprint{}
		err := render.DecodeJSON(r.Body, &bp)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		bp.ID = ""

		if err = bp.Validate(); err != nil {
			httpx.LogError(w, "create_blueprint.validate", nil, err)
			return
		}

		saved, err := app.Store.SaveBlueprint(r.Context(), bp)
		if err != nil {
			httpx.LogInternalError(w, "store.save_blueprint", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, saved)
	}
}

// UpdateBlueprint replaces blueprint id as a whole. Contracts made from it
// keep their own copy of the fields.
func UpdateBlueprint(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		bp := model.Blueprint{}
		err := render.DecodeJSON(r.Body, &bp)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		bp.ID = id

		if err = bp.Validate(); err != nil {
			httpx.LogError(w, "update_blueprint.validate", id, err)
			return
		}

		if _, err = app.Store.GetBlueprint(r.Context(), id); err != nil {
			httpx.LogError(w, "store.get_blueprint", id, err)
			return
		}

		saved, err := app.Store.SaveBlueprint(r.Context(), bp)
		if err != nil {
			httpx.LogInternalError(w, "store.save_blueprint", err)
			return
		}

		render.JSON(w, r, saved)
	}
}

func DeleteBlueprint(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := app.Store.DeleteBlueprint(r.Context(), id); err != nil {
			httpx.LogError(w, "store.delete_blueprint", id, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
