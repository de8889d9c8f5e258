package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"contentsearch/internal/server"
)

var serveAddr string

func init() {
	cmd := newServeCmd()
	cmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "Listen address")
	rootCmd.AddCommand(cmd)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the highlight HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			srv := &http.Server{
				Addr:              serveAddr,
				Handler:           server.New(st, log).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			log.Info("serve: listening", "addr", serveAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}
