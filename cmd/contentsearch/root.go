package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"contentsearch/internal/config"
	"contentsearch/internal/store"
)

var (
	// Global flags
	verbose   bool
	jsonOut   bool
	storePath string
)

var rootCmd = &cobra.Command{
	Use:   "contentsearch",
	Short: "Find and highlight text in web pages",
	Long: `contentsearch highlights every case-insensitive occurrence of a search term
in HTML pages, either offline over saved files, through an HTTP API, or live in
a Chrome tab driven over DevTools.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "",
		"Option store (.yaml/.yml for a file, anything else for SQLite; default in user config dir)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openStore() (store.Store, error) {
	path := storePath
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locate config dir: %w", err)
		}
		dir = filepath.Join(dir, "contentsearch")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "options.db")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return store.OpenFile(path), nil
	default:
		return store.OpenSQLite(path)
	}
}

// loadConfig reads the stored configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Load(cmd.Context())
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
