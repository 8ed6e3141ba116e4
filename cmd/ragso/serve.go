package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/ragso"
	"github.com/aretw0/ragso/internal/metrics"
	httpAdapter "github.com/aretw0/ragso/pkg/adapters/http"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves conversations as a JSON API with server-sent diffs, plus a
Prometheus endpoint. The thinking delay is not applied; clients animate it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		collector := metrics.New()
		eng, err := a.engine(ragso.WithLifecycleHooks(collector.Hooks()))
		if err != nil {
			return err
		}

		api := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: httpAdapter.NewHandler(eng, a.sessions(), a.logger),
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}

		g, gctx := errgroup.WithContext(ctx)
		for _, srv := range []*http.Server{api, metricsSrv} {
			g.Go(func() error {
				a.logger.Info("listening", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		}
		g.Go(func() error {
			<-gctx.Done()
			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return errors.Join(api.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
		})

		if err := g.Wait(); err != nil {
			return err
		}
		a.logger.Info("server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "HTTP listen address")
	serveCmd.Flags().String("metrics-addr", ":2112", "Prometheus listen address")
	_ = v.BindPFlag("http.addr", serveCmd.Flags().Lookup("addr"))
	_ = v.BindPFlag("metrics.addr", serveCmd.Flags().Lookup("metrics-addr"))
}
