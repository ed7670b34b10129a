package metrics

import (
	"context"
	"errors"
	"log"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "binkit"

var (
	// Registry is a dedicated Prometheus registry for all binkit metrics.
	Registry = prometheus.NewRegistry()

	// CommandDuration measures time spent per command invocation.
	CommandDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_ms",
			Help:      "Duration of command executions in milliseconds",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"command"},
	)

	// CommandTotal counts command executions by name and outcome.
	CommandTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_total",
			Help:      "Total number of command executions",
		},
		[]string{"command", "outcome"},
	)

	// BytesProcessedTotal accumulates input bytes handled per command.
	BytesProcessedTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_processed_total",
			Help:      "Cumulative input bytes processed",
		},
		[]string{"command"},
	)

	// SearchMatchesTotal counts matches produced by search invocations.
	SearchMatchesTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_matches_total",
			Help:      "Total number of search matches reported",
		},
	)

	// SearchChunkTotal counts parallel search fan-out, by path taken.
	SearchChunkTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_chunk_total",
			Help:      "Chunks dispatched by the parallel search coordinator",
		},
		[]string{"path"}, // parallel | sequential
	)

	// DiffBytesCompared tracks the size of compared inputs.
	DiffBytesCompared = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "diff_bytes_compared",
			Help:      "Sizes of inputs handed to the diff engine",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		},
	)

	// WatchEventsTotal counts filesystem events seen by the watch command.
	WatchEventsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watch_events_total",
			Help:      "Filesystem events observed while watching",
		},
		[]string{"op"},
	)

	// ToolInfo exposes static information about the running tool.
	ToolInfo = promauto.With(Registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tool_info",
			Help:      "Static information about the tool build",
		},
		[]string{"os", "arch", "version"},
	)
)

func init() {
	Registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	Registry.MustRegister(prometheus.NewGoCollector())
}

// SetToolInfo publishes a single info metric for the running build.
func SetToolInfo(version string) {
	if version == "" {
		version = "dev"
	}
	ToolInfo.WithLabelValues(runtime.GOOS, runtime.GOARCH, version).Set(1)
}

// ObserveCommand records timing and outcome for one command execution.
func ObserveCommand(start time.Time, command, outcome string) {
	elapsed := float64(time.Since(start)) / float64(time.Millisecond)
	CommandDuration.WithLabelValues(command).Observe(elapsed)
	CommandTotal.WithLabelValues(command, outcome).Inc()
}

// ObserveBytesProcessed accumulates input sizes per command.
func ObserveBytesProcessed(command string, n int) {
	if n <= 0 {
		return
	}
	BytesProcessedTotal.WithLabelValues(command).Add(float64(n))
}

// ObserveSearch records match count and which coordinator path ran.
func ObserveSearch(matches int, parallel bool) {
	SearchMatchesTotal.Add(float64(matches))
	path := "sequential"
	if parallel {
		path = "parallel"
	}
	SearchChunkTotal.WithLabelValues(path).Inc()
}

// ObserveDiff records the size of a comparison.
func ObserveDiff(size1, size2 int) {
	max := size1
	if size2 > max {
		max = size2
	}
	DiffBytesCompared.Observe(float64(max))
}

// ObserveWatchEvent counts one filesystem event by operation name.
func ObserveWatchEvent(op string) {
	WatchEventsTotal.WithLabelValues(op).Inc()
}

// Serve starts the /metrics HTTP endpoint on the provided address.
func Serve(ctx context.Context, addr string, logger *log.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = log.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(Registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))

	srv := &http.Server{Addr: addr, Handler: mux}

	idleClosed := make(chan struct{})
	go func() {
		defer close(idleClosed)
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	logger.Printf("[Metrics] Prometheus endpoint listening on %s", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		<-idleClosed
		return nil
	}

	return err
}
