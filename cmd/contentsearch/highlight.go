package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"contentsearch/internal/dom/htmldom"
	"contentsearch/internal/highlight"
)

var (
	highlightOutDir    string
	highlightStdout    bool
	highlightJobs      int
	highlightCountOnly bool
)

func init() {
	cmd := newHighlightCmd()
	cmd.Flags().StringVarP(&highlightOutDir, "out-dir", "o", "", "Write results here instead of next to the input")
	cmd.Flags().BoolVar(&highlightStdout, "stdout", false, "Write highlighted HTML to stdout (single file only)")
	cmd.Flags().IntVarP(&highlightJobs, "jobs", "j", runtime.NumCPU(), "Files processed in parallel")
	cmd.Flags().BoolVar(&highlightCountOnly, "count", false, "Only count matches, write nothing")
	rootCmd.AddCommand(cmd)
}

func newHighlightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "highlight <term> <glob>...",
		Short: "Highlight a term in saved HTML files",
		Long: `The highlight command wraps every occurrence of term in the matching HTML files
in <span class="content-search-highlight"> markers. Globs support ** and are
expanded by contentsearch itself.

Example:
  contentsearch highlight "fox" page.html
  contentsearch highlight "New KVP log" 'logs/**/*.html' -o out/
  contentsearch highlight "a.b*c" '*.html' --count`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandGlobs(args[1:])
			if err != nil {
				return err
			}
			if highlightStdout && len(files) != 1 {
				return fmt.Errorf("--stdout needs exactly one file, got %d", len(files))
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			results, err := highlightFiles(cmd.Context(), args[0], files, highlightOptions{
				outDir: highlightOutDir,
				stdout: highlightStdout,
				count:  highlightCountOnly,
				jobs:   highlightJobs,
				engine: cfg.Engine.Options(),
				log:    newLogger(),
			})
			if err != nil {
				return err
			}
			if highlightStdout {
				return nil
			}
			if jsonOut {
				return printJSON(results)
			}
			total := 0
			for _, r := range results {
				total += r.Matches
				fmt.Printf("%s: %s\n", r.Path, highlight.StatusText(r.Matches))
			}
			fmt.Printf("total: %s in %d file(s)\n", highlight.StatusText(total), len(results))
			return nil
		},
	}
}

// expandGlobs resolves patterns to a sorted, de-duplicated file list.
func expandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", p)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

type highlightOptions struct {
	outDir string
	stdout bool
	count  bool
	jobs   int
	// engine carries the configured class names; feedback is always off.
	engine highlight.Options
	log    *slog.Logger
}

type fileResult struct {
	Path    string `json:"path"`
	Output  string `json:"output,omitempty"`
	Matches int    `json:"matches"`
}

// highlightFiles processes files concurrently. Results keep the order of files.
func highlightFiles(ctx context.Context, term string, files []string, opts highlightOptions) ([]fileResult, error) {
	if _, ok := highlight.Compile(term); !ok {
		return nil, fmt.Errorf("search term is empty")
	}
	if opts.log == nil {
		opts.log = slog.Default()
	}
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if opts.jobs > 0 {
		g.SetLimit(opts.jobs)
	}
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := highlightFile(term, path, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func highlightFile(term, path string, opts highlightOptions) (fileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileResult{}, err
	}
	doc, err := htmldom.Parse(f, "file://"+filepath.ToSlash(path))
	f.Close()
	if err != nil {
		return fileResult{}, fmt.Errorf("%s: %w", path, err)
	}

	eopts := opts.engine
	eopts.DisableFeedback = true
	eopts.Logger = opts.log
	e := highlight.New(doc, eopts)
	res := fileResult{Path: path, Matches: e.Search(term).Matches}
	opts.log.Debug("highlight: file done", "path", path, "matches", res.Matches)

	if opts.count {
		return res, nil
	}
	if opts.stdout {
		return res, doc.Render(os.Stdout)
	}

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		return fileResult{}, fmt.Errorf("%s: render: %w", path, err)
	}
	res.Output = outputPath(path, opts.outDir)
	if err := os.MkdirAll(filepath.Dir(res.Output), 0o755); err != nil {
		return fileResult{}, err
	}
	if err := os.WriteFile(res.Output, buf.Bytes(), 0o644); err != nil {
		return fileResult{}, err
	}
	return res, nil
}

// outputPath maps page.html to page.highlighted.html, inside outDir when set.
func outputPath(path, outDir string) string {
	ext := filepath.Ext(path)
	name := strings.TrimSuffix(filepath.Base(path), ext) + ".highlighted" + ext
	if outDir == "" {
		return filepath.Join(filepath.Dir(path), name)
	}
	return filepath.Join(outDir, name)
}
