// jobmate-directory-service
//
// Public job directory for the portfolio companies.
// Serves:
//   - GET /jobs                  server-rendered listing (filters, search, pagination)
//   - GET /api/jobs, /api/jobs/seed, /api/companies  JSON used by the jobs browser
//   - POST /api/talent/join      talent network sign-up (rate limited)
//   - GET /admin/talent          sign-ups for staff (Bearer token)
//   - gRPC directory.v1.ListingService on GRPC_PORT
//
// Company filter options are cached in Redis and refreshed by cron.
// Welcome emails are published on CMD_SEND_EMAIL for the notification worker.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"jobmate/directory-service/internal/config"
	"jobmate/directory-service/internal/db"
	"jobmate/directory-service/internal/grpcserver"
	"jobmate/directory-service/internal/httpx"
	"jobmate/directory-service/internal/listing"
	"jobmate/directory-service/internal/notify"
	"jobmate/directory-service/internal/scheduler"
	"jobmate/directory-service/internal/talent"
	"jobmate/directory-service/pkg/logging"
	"jobmate/directory-service/pkg/shutdown"
	"jobmate/directory-service/pkg/tracing"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[directory-service] config error: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat).With("service", "directory-service", "version", version)
	defer log.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Tracing ─────────────────────────────────────────────────────────────
	stopTracing, err := tracing.Setup(ctx, cfg.OTELEnabled, cfg.OTELEndpoint, cfg.OTELServiceName)
	if err != nil {
		log.Fatal("tracing setup failed", "err", err)
	}

	// ── Storage ─────────────────────────────────────────────────────────────
	var (
		store     listing.Store
		repo      talent.Repository
		companies listing.CompanySource
		pool      *pgxpool.Pool
		rdb       *redis.Client
		cron      *scheduler.Scheduler
	)

	if cfg.RedisURL != "" {
		log.Info("connecting to redis")
		rdb, err = db.NewRedisClient(ctx, cfg.RedisURL, cfg.OTELServiceName)
		if err != nil {
			log.Fatal("redis connection failed", "err", err)
		}
		defer rdb.Close()
	}

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		log.Info("connecting to postgres")
		pool, err = db.NewPostgresPool(ctx, cfg.DatabaseURL, db.PoolOptions{
			AppName:         cfg.OTELServiceName,
			MaxConns:        cfg.DBMaxConns,
			MinConns:        cfg.DBMinConns,
			MaxConnIdleTime: cfg.DBMaxConnIdleTime,
		})
		if err != nil {
			log.Fatal("postgres connection failed", "err", err)
		}
		defer pool.Close()

		if cfg.MigrateOnStart {
			if err := db.Migrate(ctx, pool); err != nil {
				log.Fatal("migrations failed", "err", err)
			}
		}
		store = listing.NewPostgresStore(pool)
		repo = talent.NewPostgresRepository(pool)
	default:
		log.Warn("using in-memory store with demo postings")
		store = listing.NewMemoryStore(listing.DemoPostings(time.Now())...)
		repo = talent.NewMemoryRepository()
	}

	if rdb != nil {
		cache := listing.NewCompanyCache(rdb, store, cfg.CompanyCacheTTL, log)
		companies = cache
		cron = scheduler.New(cache, cfg.CompanyRefreshSpec, log)
		if err := cron.Start(ctx); err != nil {
			log.Fatal("scheduler start failed", "err", err)
		}
	} else {
		companies = listing.StoreCompanies{Store: store}
	}

	// ── Services ────────────────────────────────────────────────────────────
	exec := listing.NewExecutor(store)
	loader := listing.NewLoader(exec, companies, log)

	var (
		welcome    talent.Welcomer
		dispatcher *notify.Dispatcher
	)
	if rdb != nil {
		dispatcher = notify.NewDispatcher(rdb, cfg.EmailFrom, cfg.SiteURL, log)
		welcome = dispatcher
	}
	talentSvc := talent.NewService(repo, welcome, cfg.MaxResumeBytes, log)

	// ── HTTP server ─────────────────────────────────────────────────────────
	router := mux.NewRouter()
	router.Use(httpx.Instrument(log))
	router.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	listing.NewHandler(loader, exec, companies, log).RegisterRoutes(router)

	limit, err := httpx.RateLimit(cfg.TalentRateLimit, "directory:talent:ratelimit", rdb, log)
	if err != nil {
		log.Fatal("rate limiter setup failed", "err", err)
	}
	talent.NewHandler(talentSvc, cfg.AdminToken, log).RegisterRoutes(router, limit)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           httpx.CORS(cfg.AllowedOrigins)(router),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		log.Info("http listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server error", "err", err)
		}
	}()

	// ── gRPC server ─────────────────────────────────────────────────────────
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatal("grpc listen failed", "port", cfg.GRPCPort, "err", err)
	}
	gs := grpc.NewServer()
	grpcserver.NewServer(loader, exec, log).Register(gs)

	go func() {
		log.Info("grpc listening", "port", cfg.GRPCPort)
		if err := gs.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Fatal("grpc server error", "err", err)
		}
	}()

	// ── Graceful shutdown ───────────────────────────────────────────────────
	targets := []shutdown.Stoppable{
		srv,
		shutdown.StopFunc(func(ctx context.Context) error {
			stopped := make(chan struct{})
			go func() {
				gs.GracefulStop()
				close(stopped)
			}()
			select {
			case <-stopped:
				return nil
			case <-ctx.Done():
				gs.Stop()
				return ctx.Err()
			}
		}),
	}
	if cron != nil {
		targets = append(targets, cron)
	}
	if dispatcher != nil {
		targets = append(targets, dispatcher)
	}
	targets = append(targets, shutdown.StopFunc(stopTracing))

	shutdown.Graceful(ctx, []os.Signal{syscall.SIGINT, syscall.SIGTERM}, cfg.ShutdownTimeout, log, targets...)
	log.Info("stopped")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	httpx.JSONOK(w, map[string]string{
		"status":  "ok",
		"service": "directory-service",
		"version": version,
	})
}
