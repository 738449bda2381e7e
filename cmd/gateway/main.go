package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/routeway/gateway/internal/api"
	"github.com/routeway/gateway/internal/config"
	"github.com/routeway/gateway/internal/middleware"
	"github.com/routeway/gateway/internal/observe"
	"github.com/routeway/gateway/internal/proxy"
	"github.com/routeway/gateway/internal/ratelimit"
	"github.com/routeway/gateway/internal/router"
	"github.com/routeway/gateway/internal/server"
)

const limiterStaleThreshold = 10 * time.Minute

func main() {
	configPath := flag.String("config", "gateway.yaml", "path to gateway config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gateway: %v\n", err)
		os.Exit(1)
	}

	logger := observe.NewLogger(observe.ParseLevel(cfg.LogLevel))
	metrics := observe.NewMetrics(prometheus.DefaultRegisterer)

	store := api.NewFileStore(cfg.Definitions)
	cache := router.NewCache(store, cfg.TableTTL(), logger, metrics)
	resolver := router.NewResolver(cache, logger, metrics)

	chain := []middleware.Middleware{
		middleware.RoutingContext(),
		middleware.Tracing(),
		middleware.Logging(logger),
		middleware.Metrics(metrics),
	}

	var limiter *ratelimit.PerClient
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.NewPerClient(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, limiterStaleThreshold)
		chain = append(chain, middleware.RateLimit(limiter, metrics))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", observe.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/", middleware.Chain(chain...)(proxy.NewHandler(resolver, logger)))

	srv := server.New(server.Config{
		Addr:         cfg.Listen,
		Handler:      mux,
		DrainTimeout: cfg.DrainTimeout(),
		Logger:       logger,
	})
	if limiter != nil {
		srv.RegisterCloser(limiter)
	}

	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
