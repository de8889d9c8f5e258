package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"contentsearch/internal/config"
	"contentsearch/internal/dom/htmldom"
	"contentsearch/internal/golden"
)

var (
	goldenURL     string
	goldenFetch   bool
	goldenFilters []string
)

func init() {
	cmd := newGoldenCmd()
	cmd.Flags().StringVar(&goldenURL, "url", "", "Address the page was saved from")
	cmd.Flags().BoolVar(&goldenFetch, "fetch", false, "Fetch the golden call for the identifier from the API")

	search := newGoldenSearchCmd()
	search.Flags().StringArrayVarP(&goldenFilters, "filter", "f", nil, "Search filter as key=value (repeatable)")
	cmd.AddCommand(search)
	rootCmd.AddCommand(cmd)
}

func newGoldenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "golden <file>",
		Short: "Print the golden identifier of a saved page",
		Long: `The golden command reads the page's golden identifier from its profile markup,
falling back to the page address given with --url. With --fetch it also looks the
identifier up in the golden-call API configured in the option store.

Example:
  contentsearch golden profile.html
  contentsearch golden saved.html --url https://github.com/octocat --fetch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			doc, err := htmldom.Parse(f, goldenURL)
			if err != nil {
				return err
			}
			id, ok := golden.FromPage(doc)
			if !ok {
				return errors.New("golden identifier not found")
			}
			if !goldenFetch {
				if jsonOut {
					return printJSON(map[string]string{"goldenId": id})
				}
				fmt.Println(id)
				return nil
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			call, err := goldenClient(cfg).Call(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(call)
		},
	}
}

func newGoldenSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Submit a query to the golden-call search API",
		Long: `The search subcommand posts query, with any --filter key=value pairs, to the
golden-call API configured in the option store and prints the raw JSON reply.

Example:
  contentsearch golden search octocat -f status=completed -f env=staging`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filters, err := parseFilters(goldenFilters)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := submitGoldenSearch(cmd.Context(), cfg, args[0], filters)
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
}

func goldenClient(cfg *config.Config) *golden.Client {
	return golden.NewClient(golden.ClientConfig{
		BaseURL:     cfg.API.URL,
		Token:       cfg.API.Token,
		Environment: cfg.API.Environment,
	}, nil)
}

func submitGoldenSearch(ctx context.Context, cfg *config.Config, query string, filters map[string]any) (json.RawMessage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("search query is empty")
	}
	return goldenClient(cfg).SubmitSearch(ctx, query, filters)
}

// parseFilters turns key=value pairs into a filter map. Later keys win.
func parseFilters(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filters := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("bad filter %q, want key=value", p)
		}
		filters[strings.TrimSpace(k)] = v
	}
	return filters, nil
}
