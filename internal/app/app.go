package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/velora-jewels/storefront/db"
	"github.com/velora-jewels/storefront/internal/cart"
	"github.com/velora-jewels/storefront/internal/catalog"
	"github.com/velora-jewels/storefront/internal/checkout"
	"github.com/velora-jewels/storefront/internal/handler"
	"github.com/velora-jewels/storefront/internal/storage/postgres"
	"github.com/velora-jewels/storefront/pkg/health"
	"github.com/velora-jewels/storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("catalog_source", cfg.Catalog.Source),
	)

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	// Catalog: loaded exactly once, read-only afterwards.
	cat, closeCatalog, err := loadCatalog(ctx, cfg, healthSvc)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	defer closeCatalog()
	lg.Info("Catalog loaded",
		zap.Int("products", cat.Len()),
		zap.Int("categories", len(cat.Categories())),
	)

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Session-scoped cart store with background eviction.
	carts := cart.NewStore(cfg.Session.TTL)
	carts.StartCleanup(ctx, cfg.Session.CleanupInterval)

	composer := checkout.NewComposer(cfg.WhatsApp.BaseURL, cfg.WhatsApp.Number)

	h := handler.New(handler.Config{
		ImageBaseURL:  cfg.ImageBaseURL,
		PageSize:      cfg.Catalog.PageSize,
		MaxPageSize:   cfg.Catalog.MaxPageSize,
		PreviewLimit:  cfg.Catalog.PreviewLimit,
		SessionCookie: cfg.Session.Cookie,
		SessionTTL:    cfg.Session.TTL,
	}, cat, carts, composer)

	// Mux: health endpoints + API routes on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", http.StripPrefix("/api", h.Routes()))

	wrapped := httpmiddleware.Wrap(mux,
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins:     cfg.CORS.Origins,
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(zctx.From(ctx)),
		httpmiddleware.LogRequests(),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: otelhttp.NewHandler(wrapped, "storefront",
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// loadCatalog builds the catalog from the configured source and registers the
// matching readiness checks. The returned close func releases the source's
// resources on shutdown.
func loadCatalog(ctx context.Context, cfg *Config, healthSvc *health.Service) (*catalog.Catalog, func(), error) {
	switch cfg.Catalog.Source {
	case SourcePostgres:
		pool, err := postgres.NewPool(ctx, cfg.Catalog.DatabaseURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "create db pool")
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, errors.Wrap(err, "run migrations")
		}
		cat, err := postgres.LoadCatalog(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, errors.Wrap(err, "load from postgres")
		}
		// The pool stays open only to back the readiness ping.
		healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
			return pool.Ping(ctx)
		})
		return cat, pool.Close, nil

	default:
		cat, err := catalog.LoadJSON(db.Seed)
		if err != nil {
			return nil, nil, err
		}
		return cat, func() {}, nil
	}
}
