package metrics

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Analyses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bombardier_analyses_total",
		Help: "Total analyzer invocations",
	}, []string{"op"})
	AnalysisErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bombardier_analysis_errors_total",
		Help: "Total failed analyzer invocations",
	}, []string{"op"})
	AnalysisDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bombardier_analysis_duration_seconds",
		Help:    "Analyzer duration seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	CacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bombardier_cache_requests_total",
		Help: "Result cache lookups by outcome",
	}, []string{"result"})
	APIRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bombardier_api_requests_total",
		Help: "HTTP requests served",
	}, []string{"route", "code"})
	APIRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bombardier_api_retries_total",
		Help: "Total upstream API retry attempts",
	}, []string{"endpoint"})
	Commands = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bombardier_commands_total",
		Help: "CLI command runs",
	}, []string{"cmd"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bombardier_command_errors_total",
		Help: "CLI command failures",
	}, []string{"cmd"})
)

func init() {
	prometheus.MustRegister(Analyses, AnalysisErrors, AnalysisDuration, CacheRequests,
		APIRequests, APIRetries, Commands, CommandErrors)
}

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
// An empty addr falls back to METRICS_ADDR; if both are empty nothing starts.
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, mux) }()
}

// ObserveAnalysis records one analyzer run that started at start.
func ObserveAnalysis(op string, start time.Time, err error) {
	Analyses.WithLabelValues(op).Inc()
	if err != nil {
		AnalysisErrors.WithLabelValues(op).Inc()
	}
	AnalysisDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Cache lookup outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

func IncCache(result string) { CacheRequests.WithLabelValues(result).Inc() }

func IncAPIRequest(route string, code int) {
	APIRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// IncAPIRetry increments the retry counter for an endpoint.
func IncAPIRetry(endpoint string) { APIRetries.WithLabelValues(endpoint).Inc() }

func IncCommandRun(cmd string)   { Commands.WithLabelValues(cmd).Inc() }
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
