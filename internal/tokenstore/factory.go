package tokenstore

import (
	"context"
	"fmt"

	"github.com/georgemunganga/printa-storefront/internal/config"
)

// Open builds the Store selected by cfg.Type.
func Open(ctx context.Context, cfg config.TokenConfig) (Store, error) {
	switch cfg.Type {
	case "memory":
		return NewMemory(""), nil
	case "bolt", "":
		return NewBolt(cfg.Path)
	case "postgres", "mysql":
		return OpenSQL(ctx, cfg.Type, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown token store %q", cfg.Type)
	}
}
