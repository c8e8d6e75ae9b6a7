package cmd

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixbrock/arigato/internal/app"
	"github.com/felixbrock/arigato/internal/persistence"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web app",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	client := &http.Client{Timeout: cfg.HTTPTimeout}

	opt, err := newOptimizer(cfg, client)
	if err != nil {
		return err
	}

	a := &app.App{
		Optimizer: opt,
		Config: app.Config{
			Port:       cfg.Port,
			Model:      cfg.Model,
			RateLimit:  cfg.RateLimit,
			RateBurst:  cfg.RateBurst,
			SessionTTL: cfg.SessionTTL,
		},
	}
	if cfg.PostHogAPIKey != "" {
		a.Analytics = persistence.NewPHRepo(cfg.PostHogAPIKey, cfg.PostHogURL, client)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.Start(ctx)
}
