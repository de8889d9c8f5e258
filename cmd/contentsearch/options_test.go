package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"contentsearch/internal/config"
)

func TestListOptions(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, cfg.Options, listOptions(cfg, "", false))
	assert.Equal(t, []config.SearchOption{{Label: "keyValuePairs", SearchValue: "New KVP log"}},
		listOptions(cfg, "kvp", false))

	assert.Equal(t, config.LogOptions, listOptions(cfg, "", true))
	assert.Equal(t, []config.SearchOption{{Label: "Exception", SearchValue: "Exception"}},
		listOptions(cfg, "EXCEPT", true))
	assert.Empty(t, listOptions(cfg, "envMode", true))
}
