package cli

import (
	"github.com/guiyumin/ytdlp-api/internal/core/config"
	"github.com/guiyumin/ytdlp-api/internal/core/extractor"
	"github.com/guiyumin/ytdlp-api/internal/core/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "ytdlp-api",
	Short:         "HTTP API that turns media page URLs into direct format links via yt-dlp",
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: ~/.config/ytdlp-api/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads --config when given, otherwise the default file, falling
// back to defaults plus environment overrides only when no file exists.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.LoadOrDefault()
}

func newBatch(cfg *config.Config, logger *zap.Logger) *extractor.Batch {
	engine := extractor.NewYtdlpEngine(extractor.YtdlpOptions{
		Binary:  cfg.Extractor.Binary,
		Format:  cfg.Extractor.Format,
		Timeout: cfg.Extractor.Timeout,
	})
	return extractor.NewBatch(engine, cfg.Extractor.MaxConcurrent, logger)
}
