package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/gymtracker/internal/catalogue"
	"github.com/2beens/gymtracker/internal/config"
	"github.com/2beens/gymtracker/internal/middleware"
	"github.com/2beens/gymtracker/internal/session"
	"github.com/2beens/gymtracker/internal/stats"
	"github.com/2beens/gymtracker/internal/storage"
	"github.com/2beens/gymtracker/internal/telemetry/metrics"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/internal/timer"
	"github.com/2beens/gymtracker/internal/tracker"
	"github.com/2beens/gymtracker/internal/workouts"
	"github.com/2beens/gymtracker/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config  *config.Config
	backend *Backend

	catalogue *catalogue.Catalogue
	repo      *workouts.Repo
	tracker   *tracker.Tracker
	analyzer  *stats.Analyzer

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	VersionInfo string
	// Backend overrides the configured store; tests use it.
	Backend *Backend
	// Clock overrides the real clock for session timers.
	Clock timer.Clock
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	c, err := catalogue.Load(cfg.CataloguePath)
	if err != nil {
		return nil, fmt.Errorf("load catalogue: %w", err)
	}
	log.Debugf("catalogue loaded: %d sessions", len(c.Sessions))

	backend := params.Backend
	if backend == nil {
		backend, err = OpenBackend(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open backend: %w", err)
		}
	}

	var collectors []prometheus.Collector
	if backend.DBPool != nil {
		collectors = append(collectors, pgxpoolprometheus.NewCollector(
			backend.DBPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	}
	if cached, ok := backend.Store.(*storage.CachedStore); ok {
		collectors = append(collectors, prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "backend",
			Subsystem: "main",
			Name:      "history_cache_hit_rate",
			Help:      "Hit rate of the history read cache since start",
		}, cached.HitRate))
	}
	promRegistry := metrics.SetupPrometheus(collectors...)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(cfg.HoneycombEnabled, "gymtracker", backend.RedisClient)
	if err != nil {
		return nil, err
	}

	jsonStore := storage.NewJSONStore(backend.Store)
	jsonStore.OnFailure = metricsManager.StorageFailureHook
	repo := workouts.NewRepo(jsonStore, cfg.HistoryKey, metricsManager)
	repo.RefreshEvery(cfg.HistoryRefresh.Duration)
	loaded := repo.Load(ctx)
	log.Infof("workout history loaded: %d records", loaded)

	clock := params.Clock
	if clock == nil {
		clock = timer.RealClock
	}
	timing := session.Timing{
		Clock:    clock,
		Interval: cfg.TickInterval.Duration,
	}

	return &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
		backend:     backend,

		catalogue: c,
		repo:      repo,
		tracker:   tracker.New(c, repo, timing),
		analyzer:  stats.NewAnalyzer(repo, c),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gymtracker-router"))

	r.HandleFunc("/", s.handleRoot).Methods("GET").Name("root")
	r.HandleFunc("/version", s.handleVersion).Methods("GET").Name("version")

	tracker.NewHandler(s.tracker).SetupRoutes(r)
	stats.NewHandler(s.analyzer).SetupRoutes(r)

	var reqRateLimiter middleware.RequestRateLimiter
	if s.backend.RedisClient != nil {
		reqRateLimiter = redis_rate.NewLimiter(s.backend.RedisClient)
	} else {
		log.Debugln("import rate limit needs redis, disabled")
	}
	authMiddleware := middleware.NewAuthMiddlewareHandler(
		middleware.NewHashTokenChecker(s.config.APITokenHash),
	)
	workouts.NewHandler(s.repo).SetupRoutes(
		r,
		authMiddleware.AuthCheck(),
		middleware.RateLimit(reqRateLimiter, "import", s.config.ImportRateLimitPerMin, s.metricsManager),
	)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins...))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, s.versionInfo)
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

// GracefulShutdown stops the active session timers, the listeners and the
// store clients, in that order.
func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	// an unfinished session is discarded, like leaving the page
	s.tracker.Close()

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var err error
	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown http server: %w", shutdownErr))
		}
		log.Warnln("server shut down")
	}
	if s.metricsHttpServer != nil {
		if shutdownErr := s.metricsHttpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown metrics server: %w", shutdownErr))
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if closeErr := s.backend.Close(); closeErr != nil {
		err = multierr.Append(err, fmt.Errorf("close backend: %w", closeErr))
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	return err
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
