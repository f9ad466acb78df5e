package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/gymtrainer/internal/gymstats/events"
	"github.com/2beens/gymtrainer/internal/gymstats/schedule"
	"github.com/2beens/gymtrainer/internal/middleware"
	"github.com/2beens/gymtrainer/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"
)

// Server is the local read-only status api of a running training day, plus the
// prometheus metrics listener.
type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	selector *schedule.Selector
	journal  *events.Journal

	allowedOrigins  []string
	rateLimiter     middleware.RequestRateLimiter
	rateLimitPerMin int

	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
}

type NewServerParams struct {
	Selector       *schedule.Selector
	Journal        *events.Journal
	AllowedOrigins []string
	// RateLimiter is optional, requests are not limited without it.
	RateLimiter     middleware.RequestRateLimiter
	RateLimitPerMin int
	MetricsManager  *metrics.Manager
	PromRegistry    *prometheus.Registry
}

func NewServer(params NewServerParams) *Server {
	return &Server{
		selector:        params.Selector,
		journal:         params.Journal,
		allowedOrigins:  params.AllowedOrigins,
		rateLimiter:     params.RateLimiter,
		rateLimitPerMin: params.RateLimitPerMin,
		metricsManager:  params.MetricsManager,
		promRegistry:    params.PromRegistry,
	}
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("status-router"))

	schedule.NewHandler(s.selector).SetupRoutes(r)
	events.NewHandler(s.journal).SetupRoutes(r)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.allowedOrigins))
	if s.rateLimiter != nil && s.rateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(s.rateLimiter, "status", s.rateLimitPerMin))
	}
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

// Serve starts both listeners in the background. Listen errors other than a
// shutdown are logged, the console keeps running without the status api.
func (s *Server) Serve(host string, port int, metricsHost, metricsPort string) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  30 * time.Second,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}))
	metricsAddr := net.JoinHostPort(metricsHost, metricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > status api listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("status api, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown(ctx context.Context) error {
	log.Debug("status api graceful shutdown initiated ...")
	s.metricsManager.GaugeLifeSignal.Set(0)

	var err error
	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown status server: %w", shutdownErr))
		}
	}
	if s.metricsHttpServer != nil {
		if shutdownErr := s.metricsHttpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown metrics server: %w", shutdownErr))
		}
	}
	log.Warnln("status api shut down")
	return err
}
