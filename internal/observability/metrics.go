package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "mathcrawl"

// Metrics tracks crawl progress as Prometheus metrics. It implements
// engine.Observer.
type Metrics struct {
	PagesVisited prometheus.Counter
	PagesPruned  prometheus.Counter
	PagesFailed  prometheus.Counter
	MathFound    prometheus.Counter
	LinksFound   prometheus.Counter
	Rounds       prometheus.Counter
	CurrentRound prometheus.Gauge
	RoundPages   prometheus.Gauge

	registry *prometheus.Registry
	logger   *slog.Logger
}

// NewMetrics creates the metrics on a private registry.
func NewMetrics(logger *slog.Logger) *Metrics {
	m := &Metrics{
		PagesVisited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pages_visited_total",
			Help:      "Pages extracted and marked visited",
		}),
		PagesPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pages_pruned_total",
			Help:      "Visited pages that yielded no math; their links were dropped",
		}),
		PagesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "pages_failed_total",
			Help:      "Pages whose extraction failed",
		}),
		MathFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "math_snippets_total",
			Help:      "Math snippets extracted, before deduplication across pages",
		}),
		LinksFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "links_found_total",
			Help:      "Article links extracted, before deduplication across pages",
		}),
		Rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rounds_total",
			Help:      "Traversal rounds started",
		}),
		CurrentRound: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "current_round",
			Help:      "Round currently being processed",
		}),
		RoundPages: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "round_pages",
			Help:      "Pages scheduled in the current round",
		}),
		registry: prometheus.NewRegistry(),
		logger:   logger.With("component", "metrics"),
	}

	m.registry.MustRegister(
		m.PagesVisited,
		m.PagesPruned,
		m.PagesFailed,
		m.MathFound,
		m.LinksFound,
		m.Rounds,
		m.CurrentRound,
		m.RoundPages,
	)
	return m
}

func (m *Metrics) RoundStarted(round, depth, pages int) {
	m.Rounds.Inc()
	m.CurrentRound.Set(float64(round))
	m.RoundPages.Set(float64(pages))
}

func (m *Metrics) PageStarted(id string, round int) {}

func (m *Metrics) PageVisited(id string, round int, math, links int) {
	m.PagesVisited.Inc()
	if math == 0 {
		m.PagesPruned.Inc()
	}
	m.MathFound.Add(float64(math))
	m.LinksFound.Add(float64(links))
}

func (m *Metrics) PageFailed(id string, round int, err error) {
	m.PagesFailed.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer serves metrics and a health probe on port until ctx is done.
func (m *Metrics) StartServer(ctx context.Context, port int, path string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	m.logger.Info("metrics server starting", "addr", srv.Addr, "path", path)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("metrics server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	return srv
}
