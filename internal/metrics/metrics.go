package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics. Every rejected entry, retry and
// rolled-back batch is counted here so ingestion completeness is observable
// without inspecting storage. A nil *Registry is a valid no-op sink.
type Registry struct {
	*prometheus.Registry

	recordsIngested *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	fetchRetries    *prometheus.CounterVec
	batchRollbacks  *prometheus.CounterVec
	categoryErrors  *prometheus.CounterVec

	cyclesTotal   prometheus.Counter
	cyclesSkipped prometheus.Counter
	cycleDuration prometheus.Histogram

	backfillLeagues *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		recordsIngested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exilewatch_records_ingested_total",
				Help: "Total number of normalized records committed",
			},
			[]string{"category"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exilewatch_entries_rejected_total",
				Help: "Total number of raw entries rejected during parsing",
			},
			[]string{"category", "reason"},
		),
		fetchRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exilewatch_fetch_retries_total",
				Help: "Total number of provider fetch retries",
			},
			[]string{"endpoint"},
		),
		batchRollbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exilewatch_batch_rollbacks_total",
				Help: "Total number of rolled-back snapshot batches",
			},
			[]string{"category"},
		),
		categoryErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exilewatch_category_errors_total",
				Help: "Total number of failed category ingestion runs",
			},
			[]string{"category"},
		),
		cyclesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "exilewatch_cycles_total",
				Help: "Total number of collection cycles completed",
			},
		),
		cyclesSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "exilewatch_cycles_skipped_total",
				Help: "Total number of ticks skipped because a cycle was still running",
			},
		),
		cycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "exilewatch_cycle_duration_seconds",
				Help:    "Collection cycle duration in seconds",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		),
		backfillLeagues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exilewatch_backfill_leagues_total",
				Help: "Total number of leagues processed by historical backfill",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(r.recordsIngested)
	reg.MustRegister(r.rejections)
	reg.MustRegister(r.fetchRetries)
	reg.MustRegister(r.batchRollbacks)
	reg.MustRegister(r.categoryErrors)
	reg.MustRegister(r.cyclesTotal)
	reg.MustRegister(r.cyclesSkipped)
	reg.MustRegister(r.cycleDuration)
	reg.MustRegister(r.backfillLeagues)

	return r
}

// RecordIngested counts committed records for a category.
func (r *Registry) RecordIngested(category string, count int) {
	if r == nil {
		return
	}
	r.recordsIngested.WithLabelValues(category).Add(float64(count))
}

// RecordRejection counts one rejected entry with its reason.
func (r *Registry) RecordRejection(category, reason string) {
	if r == nil {
		return
	}
	r.rejections.WithLabelValues(category, reason).Inc()
}

// RecordFetchRetry counts one provider retry for an endpoint.
func (r *Registry) RecordFetchRetry(endpoint string) {
	if r == nil {
		return
	}
	r.fetchRetries.WithLabelValues(endpoint).Inc()
}

// RecordBatchRollback counts one rolled-back batch for a category.
func (r *Registry) RecordBatchRollback(category string) {
	if r == nil {
		return
	}
	r.batchRollbacks.WithLabelValues(category).Inc()
}

// RecordCategoryError counts one failed category run.
func (r *Registry) RecordCategoryError(category string) {
	if r == nil {
		return
	}
	r.categoryErrors.WithLabelValues(category).Inc()
}

// RecordCycle records a completed collection cycle.
func (r *Registry) RecordCycle(durationSeconds float64) {
	if r == nil {
		return
	}
	r.cyclesTotal.Inc()
	r.cycleDuration.Observe(durationSeconds)
}

// RecordCycleSkipped counts a tick skipped due to an in-flight cycle.
func (r *Registry) RecordCycleSkipped() {
	if r == nil {
		return
	}
	r.cyclesSkipped.Inc()
}

// RecordBackfillLeague counts one backfilled league by outcome.
func (r *Registry) RecordBackfillLeague(status string) {
	if r == nil {
		return
	}
	r.backfillLeagues.WithLabelValues(status).Inc()
}
