package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/rail-fusion/internal/domain"
)

type Collector struct {
	reg *prometheus.Registry

	StageRowsIn   *prometheus.GaugeVec
	StageRowsOut  *prometheus.GaugeVec
	StageDuration *prometheus.HistogramVec

	Runs          *prometheus.CounterVec // status label: succeeded|failed
	RunDuration   prometheus.Histogram
	LastSuccess   prometheus.Gauge // unix seconds
	OutputRecords *prometheus.GaugeVec // table label: segments|station_years

	NotifyPublished  prometheus.Counter
	NotifyErrors     prometheus.Counter
	NotifyConnected  prometheus.Gauge
	NotifyDurationMs prometheus.Histogram

	FetchedBytes *prometheus.CounterVec // source label
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		StageRowsIn: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "railfusion_stage_rows_in",
			Help: "Rows consumed by a pipeline stage during the last run.",
		}, []string{"stage"}),
		StageRowsOut: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "railfusion_stage_rows_out",
			Help: "Rows produced by a pipeline stage during the last run.",
		}, []string{"stage"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "railfusion_stage_duration_seconds",
			Help:    "Duration of pipeline stages.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
		}, []string{"stage"}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "railfusion_runs_total",
			Help: "Fusion runs by outcome.",
		}, []string{"status"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "railfusion_run_duration_seconds",
			Help:    "Duration of complete fusion runs.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 16),
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "railfusion_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run.",
		}),
		OutputRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "railfusion_output_records",
			Help: "Records in the canonical outputs of the last successful run.",
		}, []string{"table"}),
		NotifyPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railfusion_notify_published_total",
			Help: "Run completion events published.",
		}),
		NotifyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railfusion_notify_errors_total",
			Help: "Run completion events that failed to publish.",
		}),
		NotifyConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "railfusion_notify_connected",
			Help: "1 if the notification broker connection is established, 0 otherwise.",
		}),
		NotifyDurationMs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "railfusion_notify_duration_milliseconds",
			Help:    "Duration to marshal and publish a completion event.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		FetchedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "railfusion_fetched_bytes_total",
			Help: "Bytes downloaded per raw source.",
		}, []string{"source"}),
	}

	reg.MustRegister(
		c.StageRowsIn, c.StageRowsOut, c.StageDuration,
		c.Runs, c.RunDuration, c.LastSuccess, c.OutputRecords,
		c.NotifyPublished, c.NotifyErrors, c.NotifyConnected, c.NotifyDurationMs,
		c.FetchedBytes,
	)
	return c
}

// ObserveStage записывает статистику стадии пайплайна
func (c *Collector) ObserveStage(r domain.StageReport) {
	c.StageRowsIn.WithLabelValues(r.Stage).Set(float64(r.RowsIn))
	c.StageRowsOut.WithLabelValues(r.Stage).Set(float64(r.RowsOut))
	c.StageDuration.WithLabelValues(r.Stage).Observe(r.Duration.Seconds())
}

// ObserveRun записывает итог запуска
func (c *Collector) ObserveRun(r *domain.RunReport) {
	if r == nil {
		return
	}
	c.Runs.WithLabelValues(string(r.Status)).Inc()
	if !r.FinishedAt.IsZero() && !r.StartedAt.IsZero() {
		c.RunDuration.Observe(r.FinishedAt.Sub(r.StartedAt).Seconds())
	}
	if r.Status == domain.RunStatusSucceeded {
		c.LastSuccess.Set(float64(r.FinishedAt.Unix()))
		c.OutputRecords.WithLabelValues("segments").Set(float64(r.SegmentCount))
		c.OutputRecords.WithLabelValues("station_years").Set(float64(r.StationYearCount))
	}
}

func (c *Collector) ObserveFetch(source string, bytes int64) {
	c.FetchedBytes.WithLabelValues(source).Add(float64(bytes))
}

func (c *Collector) IncPublished()            { c.NotifyPublished.Inc() }
func (c *Collector) IncPublishErrors()        { c.NotifyErrors.Inc() }
func (c *Collector) ObservePublish(ms float64) { c.NotifyDurationMs.Observe(ms) }
func (c *Collector) SetConnected(connected bool) {
	if connected {
		c.NotifyConnected.Set(1)
		return
	}
	c.NotifyConnected.Set(0)
}

func (c *Collector) Registry() *prometheus.Registry { return c.reg }

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Push sends the collected metrics to a Prometheus Pushgateway. Batch runs do not live
// long enough to be scraped.
func (c *Collector) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(c.reg).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
