package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentsearch/internal/config"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	db, err := OpenSQLite(filepath.Join(dir, "contentsearch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return map[string]Store{
		"sqlite": db,
		"file":   OpenFile(filepath.Join(dir, "conf", "contentsearch.yaml")),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			cfg, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, config.Default(), cfg)

			cfg.Options = append(cfg.Options, config.SearchOption{Label: "timeouts", SearchValue: "deadline exceeded"})
			cfg.Engine.StatusDelay = 4 * time.Second
			cfg.TabConfig.AutoSwitchTabs = false
			require.NoError(t, s.Save(ctx, cfg))

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)

			require.NoError(t, s.Clear(ctx))
			got, err = s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, config.Default(), got)

			require.NoError(t, s.Clear(ctx))
		})
	}
}

func TestStoreSaveValidates(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Options[0].SearchValue = ""
			assert.ErrorIs(t, s.Save(ctx, cfg), config.ErrInvalid)

			got, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, config.Default(), got)
		})
	}
}
