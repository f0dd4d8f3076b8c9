package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/krispingal/iscs/internal/domain"
	"github.com/krispingal/iscs/internal/infrastructure"
	"github.com/krispingal/iscs/internal/interfaces/httphandler"
	"github.com/krispingal/iscs/internal/usecases/loadbalancing"
	"github.com/krispingal/iscs/internal/usecases/ratelimiting"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	logger, err := infrastructure.NewLogger(opts.debug)
	if err != nil {
		fmt.Fprintf(stderr, "failed to build logger: %v\n", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := newApp(opts, reg, logger)
	if err != nil {
		var configErr *domain.ConfigError
		if errors.As(err, &configErr) {
			logger.Error("Invalid configuration", zap.String("config", opts.configFile), zap.Error(err))
		} else {
			logger.Error("Startup failed", zap.Error(err))
		}
		return 1
	}
	defer a.limiter.Stop()

	if !opts.debug {
		logger.Info("Running in non-debug mode, run with -h or --help for more information")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.serve(ctx, opts, reg); err != nil {
		logger.Error("Server stopped", zap.Error(err))
		return 1
	}
	return 0
}

type app struct {
	handler http.Handler
	limiter domain.RateLimiter
	logger  *zap.Logger
}

// newApp loads the registry and builds the dispatcher. Nothing listens yet.
func newApp(opts *options, reg prometheus.Registerer, logger *zap.Logger) (*app, error) {
	config, err := infrastructure.LoadConfig(opts.configFile)
	if err != nil {
		return nil, err
	}

	registry, err := loadbalancing.LoadRegistry(config, logger)
	if err != nil {
		return nil, err
	}
	infrastructure.LogRegistry(logger, registry)

	routes, err := infrastructure.NewRoutingTable(registry, config.Routing.MatchMode)
	if err != nil {
		return nil, &domain.ConfigError{Source: opts.configFile, Err: err}
	}

	limiter, err := ratelimiting.NewRateLimiter(config.RateLimiter)
	if err != nil {
		return nil, err
	}

	dispatcher := httphandler.NewDispatcher(routes, httphandler.NewMetrics(reg), logger)
	return &app{
		handler: httphandler.NewRouter(dispatcher, limiter),
		limiter: limiter,
		logger:  logger,
	}, nil
}

// serve runs the dispatcher (and the admin listener when configured) until ctx
// is cancelled or a listener fails.
func (a *app) serve(ctx context.Context, opts *options, gatherer prometheus.Gatherer) error {
	servers := []*http.Server{{
		Addr:              ":" + strconv.Itoa(opts.port),
		Handler:           a.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}}
	if opts.adminAddr != "" {
		servers = append(servers, &http.Server{
			Addr:              opts.adminAddr,
			Handler:           httphandler.NewAdminHandler(gatherer),
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	errCh := make(chan error, len(servers))
	for _, server := range servers {
		go func(s *http.Server) {
			a.logger.Info("Listening", zap.String("addr", s.Addr))
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("listen on %s: %w", s.Addr, err)
			}
		}(server)
	}

	var serveErr error
	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, server := range servers {
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("Shutdown incomplete", zap.String("addr", server.Addr), zap.Error(err))
		}
	}
	return serveErr
}
