package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/johnqtcg/downloads-badge/internal/config"
	gh "github.com/johnqtcg/downloads-badge/internal/github"
	"github.com/johnqtcg/downloads-badge/internal/parser"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "badgeweb",
		Short:        "Serve SVG badges with GitHub release download counts",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewLoader().Load(cmd.Flags())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func newHandler(cfg config.Config) (http.Handler, error) {
	fetcher, err := gh.NewEndpointFetcher(gh.Config{
		Endpoints:      cfg.Endpoints,
		AttemptTimeout: cfg.AttemptTimeout,
		UserAgent:      cfg.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	tmpl, err := loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}

	return newWebHandler(webDeps{
		parser:     parser.New(),
		aggregator: gh.NewAggregator(fetcher),
		tmpl:       tmpl,
	}), nil
}

func serve(ctx context.Context, cfg config.Config) error {
	logger := newLogger(cfg, os.Stderr)

	handler, err := newHandler(cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           withMiddleware(handler, logger, cfg.Gzip),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info().Str("addr", server.Addr).Strs("endpoints", cfg.Endpoints).Msg("badge server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		logger.Info().Msg("badge server stopped")
		return nil
	})

	return group.Wait()
}
