package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/dbadmin/internal/config"
	"github.com/GregMSThompson/dbadmin/internal/dialect"
	"github.com/GregMSThompson/dbadmin/pkg/logger"
)

type Bootstrap struct {
	Log      *slog.Logger
	DB       *sql.DB
	Dialect  dialect.Dialect
	Firebase *auth.Client
}

func Run(ctx context.Context, cfg *config.Config) (*Bootstrap, error) {
	var err error
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.HandlerFor(cfg.LogFormat))

	bs.Dialect, err = dialect.New(cfg.DatabaseDriver)
	if err != nil {
		return bs, err
	}

	url := cfg.DatabaseURL
	if cfg.DatabaseURLSecret != "" {
		url, err = ResolveSecret(ctx, cfg.ProjectID, cfg.DatabaseURLSecret)
		if err != nil {
			return bs, fmt.Errorf("resolving database url: %w", err)
		}
	}

	bs.DB, err = OpenDatabase(ctx, bs.Dialect, url)
	if err != nil {
		return bs, err
	}
	bs.Log.Info("database connected", "driver", bs.Dialect.Name())

	if cfg.AuthEnabled {
		bs.Firebase, err = InitFirebase(ctx, cfg.ProjectID)
		if err != nil {
			return bs, err
		}
	}

	return bs, nil
}

func (bs *Bootstrap) Close() error {
	if bs.DB == nil {
		return nil
	}
	return bs.DB.Close()
}
