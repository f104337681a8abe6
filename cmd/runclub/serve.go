package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"runclub/internal/adapters/email"
	web "runclub/internal/adapters/http"
	"runclub/internal/adapters/http/perf"
	"runclub/internal/adapters/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	csrfKey, err := cfg.CSRFKey()
	if err != nil {
		return err
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	// Performance instrumentation: time queries and requests into one ring.
	collector := perf.NewCollector(cfg.Database.PerfRing)
	stores := newStores(db, collector)

	if cfg.Email.ResendKey != "" {
		web.SetEmailSender(email.NewResendSender(cfg.Email.ResendKey, cfg.Email.From, cfg.Email.ReplyTo),
			cfg.Email.From, cfg.Email.ReplyTo, cfg.Email.Recipients)
		slog.Info("email sender configured", "provider", "resend")
	} else {
		web.SetEmailSender(email.NewNoopSender(), cfg.Email.From, cfg.Email.ReplyTo, cfg.Email.Recipients)
		if cfg.IsProduction() {
			slog.Warn("email delivery disabled", "detail", "no resend key configured")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := web.NewMux(ctx, stores, collector, web.Options{
		StaticDir:     cfg.Server.StaticDir,
		CSRFKey:       csrfKey,
		SecureCookies: cfg.IsProduction(),
		RatePerSecond: cfg.RateLimit.PerSecond,
		RateBurst:     cfg.RateLimit.Burst,
		SlowRequest:   time.Duration(cfg.Server.SlowRequestMS) * time.Millisecond,
	})
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "version", version, "addr", srv.Addr, "env", cfg.Env,
			"schema", storage.LatestSchemaVersion())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
