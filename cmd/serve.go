package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/intel-relay/internal/relay"
	"github.com/sells-group/intel-relay/internal/server"
	"github.com/sells-group/intel-relay/internal/sheets"
	"github.com/sells-group/intel-relay/internal/store"
	"github.com/sells-group/intel-relay/pkg/lindy"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the relay HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc := newService()
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port()),
			Handler: server.New(svc, cfg.Lindy.Secret).Router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", port()),
			zap.Bool("callback_auth", cfg.Lindy.Secret != ""),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func port() int {
	if servePort != 0 {
		return servePort
	}
	return cfg.Server.Port
}

// newService wires the relay from config: in-memory stores, the sheet
// fetcher, and the outbound Lindy client.
func newService() *relay.Service {
	var clientOpts []lindy.Option
	if cfg.Lindy.AuthHeader != "" {
		clientOpts = append(clientOpts, lindy.WithAuthHeader(cfg.Lindy.AuthHeader))
	}
	if cfg.Lindy.TriggerTimeoutSecs > 0 {
		clientOpts = append(clientOpts, lindy.WithTimeout(time.Duration(cfg.Lindy.TriggerTimeoutSecs)*time.Second))
	}
	client := lindy.NewClient(cfg.Lindy.WebhookURL, cfg.Lindy.Secret, clientOpts...)

	fetcher := sheets.NewFetcher(sheets.Options{
		Timeout:     time.Duration(cfg.Sheets.FetchTimeoutSecs) * time.Second,
		MaxParallel: cfg.Sheets.MaxParallel,
	})

	callbackURL := ""
	if cfg.Server.PublicURL != "" {
		callbackURL = cfg.Server.PublicURL + "/api/lindy/callback"
	}

	return relay.New(client, fetcher, store.NewMemoryPending(), store.NewMemoryCompanies(), callbackURL)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
