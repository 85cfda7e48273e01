package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/guiyumin/ytdlp-api/internal/core/extractor"
	"github.com/guiyumin/ytdlp-api/internal/core/logging"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	extractCompact   bool
	extractNoSpinner bool
	extractParallel  int
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>...",
	Short: "Resolve URLs locally and print the extraction result as JSON",
	Long: `Run the same extraction the /extract endpoint performs, without a server.

Examples:
  ytdlp-api extract https://www.youtube.com/watch?v=dQw4w9WgXcQ
  ytdlp-api extract -j 4 URL1 URL2 URL3
  ytdlp-api extract --compact URL | jq '.data[0].video_formats[0].url'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if extractParallel > 0 {
			cfg.Extractor.MaxConcurrent = extractParallel
		}

		logger := logging.Nop()
		if verbose {
			if logger, err = logging.New("debug", "console"); err != nil {
				return err
			}
			defer logger.Sync()
		}

		return runExtract(cmd.Context(), newBatch(cfg, logger), args, extractOptions{
			stdout:  cmd.OutOrStdout(),
			stderr:  cmd.ErrOrStderr(),
			indent:  !extractCompact && isTerminal(os.Stdout),
			spinner: !extractNoSpinner && !verbose && isTerminal(os.Stderr),
		})
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractCompact, "compact", false, "single-line JSON even on a terminal")
	extractCmd.Flags().BoolVar(&extractNoSpinner, "no-spinner", false, "disable the progress spinner")
	extractCmd.Flags().IntVarP(&extractParallel, "parallel", "j", 0, "URLs resolved concurrently (default: extractor.max_concurrent)")

	rootCmd.AddCommand(extractCmd)
}

type batchRunner interface {
	Run(ctx context.Context, urls []string) *extractor.ExtractResponse
}

type extractOptions struct {
	stdout  io.Writer
	stderr  io.Writer
	indent  bool
	spinner bool
}

var urlValidator = validator.New()

// validateURLs applies the same http(s) rule as the HTTP request body
func validateURLs(urls []string) error {
	for i, u := range urls {
		if err := urlValidator.Var(u, "required,http_url"); err != nil {
			return fmt.Errorf("argument %d: invalid or non-http(s) URL %q", i+1, u)
		}
	}
	return nil
}

func runExtract(ctx context.Context, batch batchRunner, urls []string, opts extractOptions) error {
	if err := validateURLs(urls); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var resp *extractor.ExtractResponse
	if opts.spinner {
		var err error
		resp, err = runBatchWithSpinner(ctx, batch, urls, opts.stderr)
		if err != nil {
			return err
		}
	} else {
		resp = batch.Run(ctx, urls)
	}

	enc := json.NewEncoder(opts.stdout)
	if opts.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	printSummary(opts.stderr, len(urls), resp)

	if !resp.Success {
		return fmt.Errorf("%d of %d URL(s) failed", len(resp.Errors), len(urls))
	}
	return nil
}

func printSummary(w io.Writer, total int, resp *extractor.ExtractResponse) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	failed := len(resp.Errors)
	if failed == 0 {
		green.Fprintf(w, "✓ %d URL(s), %d item(s)\n", total, len(resp.Data))
		return
	}

	red.Fprintf(w, "✗ %d of %d URL(s) failed, %d item(s)\n", failed, total, len(resp.Data))
	for _, e := range resp.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
