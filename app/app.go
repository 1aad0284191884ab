package app

import (
	"database/sql"

	"github.com/go-chi/oauth"
	"github.com/mbolis/quick-contract/config"
	"github.com/mbolis/quick-contract/service"
	"github.com/mbolis/quick-contract/store"
)

// App is what every controller gets: the auth database and token server,
// the blueprint and contract store, and the open authoring drafts.
type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config

	Store  store.Store
	Drafts *service.Drafts
}

// Contracts is the contract workflow over the app store.
func (app App) Contracts() service.Contracts {
	return service.NewContracts(app.Store)
}
