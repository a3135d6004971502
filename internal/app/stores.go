// Package app opens the configured storage driver for the binaries.
package app

import (
	"context"
	"log/slog"

	"citizenportal/internal/config"
	"citizenportal/internal/domains"
	"citizenportal/internal/service"
	"citizenportal/internal/storage"
	"citizenportal/internal/storage/memory"
	"citizenportal/internal/storage/providers"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// AdminStore is what the CLI needs beyond the auth service.
type AdminStore interface {
	service.AuthProvider
	ListAdmins(ctx context.Context) ([]domains.Admin, error)
	SetAdminDisabled(ctx context.Context, email string, disabled bool) error
}

type Stores struct {
	Content service.ContentStore
	Tickets service.TicketStore
	Admins  AdminStore
	Health  Pinger
	Close   func()
}

// OpenStores connects to the driver named in cfg.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	if cfg.Storage.Driver == config.DriverMemory {
		slog.Warn("using in-memory storage, data is lost on exit")
		st := memory.New()
		return &Stores{Content: st, Tickets: st, Admins: st, Health: st, Close: func() {}}, nil
	}

	db, err := storage.InitDB(ctx, cfg.DatabaseUrl, cfg.Storage.MaxConns)
	if err != nil {
		return nil, err
	}
	all := providers.New(db)
	return &Stores{
		Content: all.ContentProvider,
		Tickets: all.TicketProvider,
		Admins:  all.AuthProvider,
		Health:  all.ContentProvider,
		Close:   db.Close,
	}, nil
}
