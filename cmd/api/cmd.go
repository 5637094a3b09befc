package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/dbadmin/internal/bootstrap"
	"github.com/GregMSThompson/dbadmin/internal/config"
	"github.com/GregMSThompson/dbadmin/internal/handlers"
	"github.com/GregMSThompson/dbadmin/internal/middleware"
	"github.com/GregMSThompson/dbadmin/internal/response"
	"github.com/GregMSThompson/dbadmin/internal/router"
	"github.com/GregMSThompson/dbadmin/internal/services"
	"github.com/GregMSThompson/dbadmin/internal/store"
)

const shutdownTimeout = 15 * time.Second

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// bootstrap
	cfg, err := config.New()
	exitOnError("config failed", err, slog.Default())
	bs, err := bootstrap.Run(ctx, cfg)
	if bs.Log == nil {
		bs.Log = slog.Default()
	}
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// stores
	cstore := store.NewCatalogStore(bs.DB, bs.Dialect, cfg.DatabaseSchema)
	rstore := store.NewRecordStore(bs.DB, bs.Dialect, cfg.RowLimit)
	qstore := store.NewQueryStore(bs.DB)

	// services
	cserv := services.NewCatalogService(cstore)
	rserv := services.NewRecordService(rstore)
	qserv := services.NewQueryService(qstore, cfg.QueryTimeout)

	// response handler
	rh := response.New(bs.Log)

	// dependencies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.CatalogSvc = cserv
	deps.RecordSvc = rserv
	deps.QuerySvc = qserv

	opts := router.Options{CORSOrigins: cfg.CORSOrigins}
	if bs.Firebase != nil {
		opts.Auth = middleware.NewMiddleware(bs.Firebase, rh).FirebaseAuth
	}

	// router
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.NewRouter(deps, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bs.Log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		bs.Log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	exitOnError("server failed", g.Wait(), bs.Log)
}
