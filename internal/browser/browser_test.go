package browser

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"contentsearch/internal/popup"
)

var _ popup.Tab = (*Tab)(nil)

// TestLiveSearch needs Chrome and a compiled bundle:
//
//	CONTENTSEARCH_BUNDLE=dist/content.js go test ./internal/browser -run Live
func TestLiveSearch(t *testing.T) {
	bundlePath := os.Getenv("CONTENTSEARCH_BUNDLE")
	if bundlePath == "" {
		t.Skip("CONTENTSEARCH_BUNDLE not set")
	}
	bundle, err := os.ReadFile(bundlePath)
	require.NoError(t, err)

	ctx := context.Background()
	br, err := Launch(ctx, Config{Headless: true, Bundle: bundle})
	require.NoError(t, err)
	defer br.Close()

	tab, err := br.Open(ctx, "data:text/html,<p>The quick Fox jumps. fox fox.</p>")
	require.NoError(t, err)
	defer tab.Close()

	c := popup.New(tab, nil, nil)
	n, err := c.Search(ctx, "fox")
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.NoError(t, c.Clear(ctx))
}
