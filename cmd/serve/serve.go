// Package serve runs the HTTP API.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kris2339/MEO-PayDay/cmd/root"
	"github.com/Kris2339/MEO-PayDay/internal/container"
	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"github.com/Kris2339/MEO-PayDay/internal/server"

	"github.com/spf13/cobra"
)

var (
	addr  string
	debug bool
)

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the classification and market list HTTP API",
	Long: `Serve the HTTP API.

Routes:
  GET    /healthz
  GET    /api/market-products
  POST   /api/market-products           {"text": "..."} or {"items": [...]}
  DELETE /api/market-products
  DELETE /api/market-products/:index
  POST   /api/market-products/refresh
  GET    /api/market-products/export
  POST   /api/classify                  multipart "files", returns the result workbook
  POST   /api/classify/summary          multipart "files", returns the summary as JSON`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv, err := Build(ctx, root.GetContainer(), addr, debug)
		if err != nil {
			return err
		}
		return srv.Run(ctx)
	},
}

func init() {
	Cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config: :8080)")
	Cmd.Flags().BoolVar(&debug, "debug", false, "Run gin in debug mode")
}

// Build wires the server from the container. The market list is loaded once
// up front; a failed load is logged and the server starts with an empty list.
func Build(ctx context.Context, c *container.Container, listenAddr string, debugMode bool) (*server.Server, error) {
	if c == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	cfg := c.GetConfig()
	log := c.GetLogger()

	if listenAddr == "" {
		listenAddr = cfg.Server.Addr
	}
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	manager := c.GetMarketManager()
	if err := manager.Load(ctx); err != nil {
		log.WithError(err).Warn("Starting with an empty market product list")
	}

	h := server.NewHandler(manager, c.GetProcessor(), cfg.Output.Sheet, log)
	srv, err := server.NewServer(h, server.Options{
		Addr:           listenAddr,
		MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
		TrustedProxies: cfg.Server.TrustedProxies,
		Debug:          debugMode,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	log.Info("Server configured",
		logging.Field{Key: "addr", Value: listenAddr},
		logging.Field{Key: logging.FieldBackend, Value: c.GetStore().Name()},
		logging.Field{Key: logging.FieldCount, Value: manager.Len()})
	return srv, nil
}
