package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"contentsearch/internal/browser"
	"contentsearch/internal/highlight"
	"contentsearch/internal/popup"
)

var (
	liveBundle  string
	liveRemote  string
	liveHeadful bool
	liveStealth bool
	liveDump    bool
	liveOption  bool
)

func init() {
	cmd := newLiveCmd()
	cmd.Flags().StringVar(&liveBundle, "bundle", "content.js", "Compiled content script")
	cmd.Flags().StringVar(&liveRemote, "remote", "", "DevTools websocket URL of a running Chrome")
	cmd.Flags().BoolVar(&liveHeadful, "headful", false, "Show the browser window")
	cmd.Flags().BoolVar(&liveStealth, "stealth", true, "Open the tab with anti-detection patches")
	cmd.Flags().BoolVar(&liveDump, "dump", false, "Print the highlighted page markup")
	cmd.Flags().BoolVar(&liveOption, "option", false, "Treat <term> as the label of a stored search option")
	rootCmd.AddCommand(cmd)
}

func newLiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "live <url> <term>",
		Short: "Highlight a term in a page opened in Chrome",
		Long: `The live command opens url in Chrome, injects the compiled content script when
it is not already present, and sends it a search request, exactly as the
extension popup does.

Example:
  contentsearch live https://github.com/octocat octocat --bundle dist/content.js
  contentsearch live https://www.emol.com/ envMode --option --dump`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := newLogger()

			bundle, err := os.ReadFile(liveBundle)
			if err != nil {
				return fmt.Errorf("read bundle: %w", err)
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			br, err := browser.Launch(ctx, browser.Config{
				RemoteURL: liveRemote,
				Headless:  !liveHeadful,
				Stealth:   liveStealth,
				Bundle:    bundle,
				Logger:    log,
			})
			if err != nil {
				return err
			}
			defer br.Close()

			tab, err := br.Open(ctx, args[0])
			if err != nil {
				return err
			}
			defer tab.Close()

			c := popup.New(tab, cfg, log)
			log.Info("live: page opened", "url", args[0], "tab", c.ActiveTab(ctx))

			var n int
			if liveOption {
				n, err = c.SearchOption(ctx, args[1])
			} else {
				n, err = c.Search(ctx, args[1])
			}
			if err != nil {
				return err
			}

			if liveDump {
				markup, err := tab.HTML(ctx)
				if err != nil {
					return err
				}
				fmt.Println(markup)
				return nil
			}
			if jsonOut {
				return printJSON(map[string]any{"url": args[0], "matchCount": n})
			}
			fmt.Println(highlight.StatusText(n))
			return nil
		},
	}
}
