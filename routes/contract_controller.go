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
	"github.com/mbolis/quick-contract/store"
)

// contractJSON adds the list view projection of the status.
type contractJSON struct {
	model.Contract
	StatusLabel string       `json:"statusLabel"`
	Bucket      model.Bucket `json:"bucket"`
	BucketLabel string       `json:"bucketLabel"`
}

func contractView(c model.Contract) contractJSON {
	return contractJSON{
		Contract:    c,
		StatusLabel: c.Status.Label(),
		Bucket:      c.Status.Bucket(),
		BucketLabel: c.Status.Bucket().Label(),
	}
}

func ListContracts(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.ContractFilter{
			Query:  r.URL.Query().Get("q"),
			Bucket: model.Bucket(r.URL.Query().Get("bucket")),
		}
		switch filter.Bucket {
		case "", model.BucketActive, model.BucketPending, model.BucketSigned, model.BucketRevoked:
		default:
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.query.bucket", "unknown bucket %q", filter.Bucket)
			return
		}

		contracts, err := app.Store.ListContracts(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "store.list_contracts", err)
			return
		}
		contracts = store.FilterContracts(contracts, filter)

		views := make([]contractJSON, len(contracts))
		for i, c := range contracts {
			views[i] = contractView(c)
		}
		render.JSON(w, r, map[string]any{
			"contracts": views,
		})
	}
}

func GetContract(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		c, err := app.Store.GetContract(r.Context(), id)
		if err != nil {
			httpx.LogError(w, "store.get_contract", id, err)
			return
		}

		render.JSON(w, r, contractView(c))
	}
}

func PreviewContract(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		c, err := app.Store.GetContract(r.Context(), id)
		if err != nil {
			httpx.LogError(w, "store.get_contract", id, err)
			return
		}

		w.Header().Set("content-type", "image/svg+xml")
		if err = preview.Contract(w, c); err != nil {
			log.Errorf("preview.contract: %s", err)
		}
	}
}

func CreateContract(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := model.Contract{}
		err := render.DecodeJSON(r.Body, &c)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		saved, err := app.Contracts().Create(r.Context(), c)
		if err != nil {
			httpx.LogError(w, "create_contract", nil, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, contractView(saved))
	}
}

// UpdateContract changes name, description and values of a contract that
// has not been approved yet.
func UpdateContract(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		c := model.Contract{}
		err := render.DecodeJSON(r.Body, &c)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		saved, err := app.Contracts().UpdateValues(r.Context(), id, c)
		if err != nil {
			httpx.LogError(w, "update_contract", id, err)
			return
		}

		render.JSON(w, r, contractView(saved))
	}
}

func SetContractStatus(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		body := struct {
			Status model.Status `json:"status"`
		}{}
		err := render.DecodeJSON(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if !body.Status.Valid() {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.status", "unknown status %q", body.Status)
			return
		}

		updated, err := app.Contracts().SetStatus(r.Context(), id, body.Status)
		if err != nil {
			httpx.LogError(w, "set_contract_status", id, err)
			return
		}

		render.JSON(w, r, contractView(updated))
	}
}

func AdvanceContract(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		updated, err := app.Contracts().Advance(r.Context(), id)
		if err != nil {
			httpx.LogError(w, "advance_contract", id, err)
			return
		}

		render.JSON(w, r, contractView(updated))
	}
}

func RevokeContract(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		updated, err := app.Contracts().Revoke(r.Context(), id)
		if err != nil {
			httpx.LogError(w, "revoke_contract", id, err)
			return
		}

		render.JSON(w, r, contractView(updated))
	}
}

func DeleteContract(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := app.Contracts().Delete(r.Context(), id); err != nil {
			httpx.LogError(w, "store.delete_contract", id, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
