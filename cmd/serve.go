package cmd

import (
	"context"
	"fmt"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/app"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/config"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/repository"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API.

Webhook URLs come from SHEETS_WEBHOOK_URL, SHEETS_FALLBACK_WEBHOOK_URL,
DRIVE_WEBHOOK_URL and DRIVE_FALLBACK_WEBHOOK_URL. Missing URLs do not stop the
server; requests that need them fail with a 500 until they are set.

Examples:
  sip-n-sync serve
  sip-n-sync serve --addr :9090
  REDIS_ADDR=localhost:6379 sip-n-sync serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		watermillLogger := watermill.NewStdLogger(false, false)

		deps, err := app.NewDeps(ctx, cfg, watermillLogger)
		if err != nil {
			return err
		}

		events, err := repository.DefaultEvents()
		if err != nil {
			return fmt.Errorf("loading event catalog: %w", err)
		}

		a, err := app.NewApp(ctx, cfg, watermillLogger, deps, events)
		if err != nil {
			return err
		}

		return a.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080, env HTTP_ADDR)")
	_ = v.BindPFlag(config.EnvHTTPAddr, serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}
