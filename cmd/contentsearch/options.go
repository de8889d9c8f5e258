package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"contentsearch/internal/config"
)

var optionsLogs bool

func init() {
	cmd := &cobra.Command{
		Use:   "options [query]",
		Short: "List stored search options",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return printOptions(listOptions(cfg, query, optionsLogs))
		},
	}
	cmd.Flags().BoolVar(&optionsLogs, "logs", false, "List the quick log-level searches instead")
	cmd.AddCommand(newOptionsAddCmd(), newOptionsRemoveCmd(), newOptionsResetCmd(), newOptionsImportCmd())
	rootCmd.AddCommand(cmd)
}

func newOptionsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <label> <search value>",
		Short: "Add or replace a search option",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateOptions(cmd, func(cfg *config.Config) error {
				opt := config.SearchOption{Label: args[0], SearchValue: args[1]}
				for i := range cfg.Options {
					if cfg.Options[i].Label == opt.Label {
						cfg.Options[i] = opt
						return nil
					}
				}
				cfg.Options = append(cfg.Options, opt)
				return nil
			})
		},
	}
}

func newOptionsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <label>",
		Short: "Remove a search option",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateOptions(cmd, func(cfg *config.Config) error {
				for i := range cfg.Options {
					if cfg.Options[i].Label == args[0] {
						cfg.Options = append(cfg.Options[:i], cfg.Options[i+1:]...)
						return nil
					}
				}
				return fmt.Errorf("no option labelled %q", args[0])
			})
		},
	}
}

func newOptionsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default search options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			return st.Clear(cmd.Context())
		},
	}
}

func newOptionsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <config.yaml>",
		Short: "Replace the stored configuration with a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(args[0])
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			return st.Save(cmd.Context(), cfg)
		},
	}
}

// listOptions filters the stored options, or the log-level searches when
// logs is set.
func listOptions(cfg *config.Config, query string, logs bool) []config.SearchOption {
	if logs {
		cfg = &config.Config{Options: config.LogOptions}
	}
	return cfg.Filter(query)
}

func updateOptions(cmd *cobra.Command, fn func(*config.Config) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	cfg, err := st.Load(cmd.Context())
	if err != nil {
		return err
	}
	if err := fn(cfg); err != nil {
		return err
	}
	return st.Save(cmd.Context(), cfg)
}

func printOptions(opts []config.SearchOption) error {
	if jsonOut {
		return printJSON(opts)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tSEARCH VALUE")
	for _, o := range opts {
		fmt.Fprintf(w, "%s\t%s\n", o.Label, o.SearchValue)
	}
	return w.Flush()
}
