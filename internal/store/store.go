// Package store persists the search configuration under a single key,
// the way the extension keeps it in local storage.
package store

import (
	"context"

	"contentsearch/internal/config"
)

// Key is the storage key of the configuration.
const Key = "searchConfig"

// Store loads and saves the configuration. Load on empty storage returns
// config.Default.
type Store interface {
	Load(ctx context.Context) (*config.Config, error)
	Save(ctx context.Context, cfg *config.Config) error
	Clear(ctx context.Context) error
	Close() error
}
