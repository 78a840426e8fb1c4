package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/campus-qa/internal/adapters/clients"
	"github.com/jsamuelsen/campus-qa/internal/adapters/clients/acl"
	"github.com/jsamuelsen/campus-qa/internal/adapters/storage/file"
	"github.com/jsamuelsen/campus-qa/internal/adapters/storage/memory"
	"github.com/jsamuelsen/campus-qa/internal/adapters/storage/postgres"
	"github.com/jsamuelsen/campus-qa/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/campus-qa/internal/platform/config"
	"github.com/jsamuelsen/campus-qa/internal/ports"
)

// Open returns the backend selected by cfg.Store.Backend. The caller owns
// the result and must Close it.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.CheckedBlobStore, error) {
	store := cfg.Store

	switch store.Backend {
	case config.BackendMemory:
		return memory.New(), nil

	case config.BackendFile:
		return checked(file.Open(store.Path))

	case config.BackendSQLite:
		return checked(sqlite.Open(store.Path))

	case config.BackendPostgres:
		return checked(postgres.Open(ctx, store.DSN))

	case config.BackendRemote:
		return openRemote(cfg, logger)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", store.Backend)
	}
}

// checked drops the typed nil a failed constructor returns.
func checked[T ports.CheckedBlobStore](s T, err error) (ports.CheckedBlobStore, error) {
	if err != nil {
		return nil, err
	}

	return s, nil
}

func openRemote(cfg *config.Config, logger *slog.Logger) (ports.CheckedBlobStore, error) {
	remote := cfg.Store.Remote

	var auth func(*http.Request)
	if remote.Token != "" {
		auth = func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+remote.Token)
		}
	}

	client, err := clients.New(&clients.Config{
		BaseURL:     remote.BaseURL,
		ServiceName: "blob-service",
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		AuthFunc:    auth,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating blob service client: %w", err)
	}

	return acl.NewBlobClient(acl.BlobClientConfig{
		Client:     client,
		HealthPath: remote.HealthPath,
		Logger:     logger,
	}), nil
}
