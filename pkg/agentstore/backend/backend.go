// Package backend opens a checkpoint store from a config.Backend
// description, so hosts can switch engines without code changes.
package backend

import (
	"context"
	"fmt"

	"github.com/randalmurphal/agentstore/pkg/agentstore"
	"github.com/randalmurphal/agentstore/pkg/agentstore/config"
)

// Open validates cfg and connects to the backend it describes.
// Server backends are pinged before Open returns.
//
// Example:
//
//	cfg, err := config.FromFile("store.yaml")
//	if err != nil {
//	    return err
//	}
//	store, err := backend.Open(ctx, cfg)
func Open(ctx context.Context, cfg config.Backend, opts ...agentstore.Option) (agentstore.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case config.KindSQLite:
		return agentstore.NewSQLiteStore(cfg.Path, opts...)
	case config.KindMySQL:
		return agentstore.NewMySQLStore(ctx, cfg.DSN, opts...)
	case config.KindPostgres:
		return agentstore.NewPostgresStore(ctx, cfg.DSN, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownKind, cfg.Kind)
	}
}
