package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/mbolis/quick-contract/app"
	"github.com/mbolis/quick-contract/config"
	"github.com/mbolis/quick-contract/database"
	"github.com/mbolis/quick-contract/httpx"
	"github.com/mbolis/quick-contract/log"
	"github.com/mbolis/quick-contract/routes"
	"github.com/mbolis/quick-contract/service"
	"github.com/mbolis/quick-contract/store"
	"github.com/mbolis/quick-contract/store/fsstore"
	"github.com/mbolis/quick-contract/store/kvstore"
	"github.com/mbolis/quick-contract/store/sqlstore"
)

const (
	draftSweepInterval = time.Minute
	draftMaxIdle       = time.Hour
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}
	log.Setup(level, cfg.LogJSON)

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if user, pass, ok := cfg.NewUser(); ok {
		if err = httpx.UpsertUser(ctx, db, user, pass); err != nil {
			log.Fatal("main.add_user:", err)
		}
		log.Infof("account %s ready", user)
	}

	st, closeStore, err := openStore(ctx, cfg, db)
	if err != nil {
		log.Fatal("main.store.open:", err)
	}
	defer closeStore()
	log.WithFields(log.Fields{"backend": cfg.Backend}).Info("store ready")

	drafts := service.NewDrafts()
	go drafts.RunSweeper(ctx, draftSweepInterval, draftMaxIdle)

	app := app.App{
		DB:           db,
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
		Store:        st,
		Drafts:       drafts,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func openStore(ctx context.Context, cfg config.Config, db *sql.DB) (store.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendKV:
		dir, err := kvstore.NewDir(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return kvstore.New(dir), func() {}, nil
	case config.BackendFirestore:
		fs, err := fsstore.Open(ctx, cfg.FirestoreProject)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() { fs.Close() }, nil
	}
	return sqlstore.New(db), func() {}, nil
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
