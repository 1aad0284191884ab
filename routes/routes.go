package routes

import (
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/mbolis/quick-contract/app"
	"github.com/mbolis/quick-contract/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	editor := middlewares.Editor(app.TokenSecret)

	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app, editor))

	root.
		With(middlewares.CookieAuth(app.BearerServer), editor).
		Mount("/admin", servePrivateFiles("/admin"))
	root.Mount("/", servePublicFiles())

	return root
}

// apiRouter serves reads to anyone; writes go through guard.
func apiRouter(app app.App, guard func(http.Handler) http.Handler) http.Handler {
	api := chi.NewRouter()

	api.Get("/blueprints", ListBlueprints(app))
	api.Get("/blueprints/{id}", GetBlueprint(app))
	api.Get("/blueprints/{id}/preview.svg", PreviewBlueprint(app))
	api.Get("/blueprints/{id}/contract-draft", ContractDraft(app))

	api.Get("/contracts", ListContracts(app))
	api.Get("/contracts/{id}", GetContract(app))
	api.Get("/contracts/{id}/preview.svg", PreviewContract(app))

	api.Group(func(r chi.Router) {
		r.Use(guard)

		// CRUD blueprint
		r.Post("/blueprints", CreateBlueprint(app))
		r.Put("/blueprints/{id}", UpdateBlueprint(app))
		r.Delete("/blueprints/{id}", DeleteBlueprint(app))

		// CRUD contract + workflow
		r.Post("/contracts", CreateContract(app))
		r.Put("/contracts/{id}", UpdateContract(app))
		r.Patch("/contracts/{id}/status", SetContractStatus(app))
		r.Post("/contracts/{id}/advance", AdvanceContract(app))
		r.Post("/contracts/{id}/revoke", RevokeContract(app))
		r.Delete("/contracts/{id}", DeleteContract(app))

		// blueprint authoring sessions
		r.Post("/drafts", OpenDraft(app))
		r.Get("/drafts/{id}", GetDraft(app))
		r.Post("/drafts/{id}/fields", AddDraftField(app))
		r.Delete(`/drafts/{id}/fields/{index:^\d+$}`, RemoveDraftField(app))
		r.Post("/drafts/{id}/pointer", DraftPointer(app))
		r.Post("/drafts/{id}/save", SaveDraft(app))
		r.Delete("/drafts/{id}", CloseDraft(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}

func servePrivateFiles(path string) http.Handler {
	return http.StripPrefix(path, http.FileServer(http.Dir("private")))
}
