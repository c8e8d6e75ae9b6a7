package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixbrock/arigato/internal/config"
	"github.com/felixbrock/arigato/internal/optimizer"
	"github.com/felixbrock/arigato/internal/persistence"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "arigato",
	Short:         "AI prompt generator and optimizer",
	Long:          "Arigato rewrites rough prompts into precise, effective ones using the Gemini API.",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error(fmt.Sprintf("Error occurred: %s", err.Error()))
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	setupLogging(cfg)
	return cfg, nil
}

func setupLogging(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func newOptimizer(cfg config.Config, client *http.Client) (*optimizer.Client, error) {
	repo := persistence.NewGeminiRepo(cfg.APIKey, cfg.BaseURL, cfg.Model, client)
	return optimizer.New(repo, optimizer.Options{APIKey: cfg.APIKey, Strict: cfg.Strict})
}
