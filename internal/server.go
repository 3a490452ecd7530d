package internal

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fittrackr/assistant/internal/chat"
	"github.com/fittrackr/assistant/internal/config"
	"github.com/fittrackr/assistant/internal/insights"
	"github.com/fittrackr/assistant/internal/intents"
	"github.com/fittrackr/assistant/internal/middleware"
	"github.com/fittrackr/assistant/internal/telemetry/metrics"
	"github.com/fittrackr/assistant/internal/workouts"
	"github.com/fittrackr/assistant/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// DemoUserID is the user seeded by --seed-demo.
const DemoUserID = 1

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config     *config.Config
	store      *workouts.MemoryStore
	classifier *intents.Classifier
	composer   *insights.Composer
	responder  *chat.Responder

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
}

type NewServerParams struct {
	Config      *config.Config
	VersionInfo string
	SeedDemo    bool
}

func NewServer(_ context.Context, params NewServerParams) (*Server, error) {
	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("assistant", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	store := workouts.NewMemoryStore()
	if params.SeedDemo {
		workouts.SeedDemo(store, DemoUserID)
		log.Debugf("demo data seeded for user %d", DemoUserID)
	} else {
		for _, exercise := range workouts.DefaultCatalog() {
			store.AddExercise(exercise)
		}
	}

	classifier := intents.NewDefaultClassifier()
	analyzer := insights.NewAnalyzer(store)
	trends := insights.NewTrendEstimator(store)
	risk := insights.NewRiskEstimator(analyzer, insights.NewIForestDetector())
	composer := insights.NewComposer(store, analyzer, trends, risk)
	responder := chat.NewResponder(composer, classifier, store, metricsManager)

	return &Server{
		config:      params.Config,
		versionInfo: params.VersionInfo,
		store:       store,
		classifier:  classifier,
		composer:    composer,
		responder:   responder,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("assistant-router"))

	chatHandler := chat.NewHandler(s.responder, s.composer, s.classifier)
	r.HandleFunc("/chat", chatHandler.HandleMessage).Methods("POST", "OPTIONS").Name("chat-message")
	r.HandleFunc("/chat/insights/{userId}", chatHandler.HandleInsights).Methods("GET", "OPTIONS").Name("chat-insights")
	r.HandleFunc("/chat/classify", chatHandler.HandleClassify).Methods("POST", "OPTIONS").Name("chat-classify")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "ok "+s.versionInfo)
	}).Methods("GET").Name("health")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())

	return r
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(host, strconv.Itoa(s.config.MetricsPort))
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("assistant service, listen and serve: %s", err)
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

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}
