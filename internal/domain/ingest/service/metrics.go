package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ingestRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statement_ingest",
		Name:      "runs_total",
		Help:      "Ingestion runs by resolved parser.",
	}, []string{"parser"})

	transactionsExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statement_ingest",
		Name:      "transactions_extracted_total",
		Help:      "Transactions extracted from statements, by parser.",
	}, []string{"parser"})

	duplicatesFlagged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "statement_ingest",
		Name:      "duplicates_flagged_total",
		Help:      "Extracted transactions flagged as duplicates.",
	})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "statement_ingest",
		Name:      "run_duration_seconds",
		Help:      "Wall time of one ingestion run.",
		Buckets:   prometheus.DefBuckets,
	})
)

func observeRun(parserName string, stats RunStats) {
	ingestRuns.WithLabelValues(parserName).Inc()
	transactionsExtracted.WithLabelValues(parserName).Add(float64(stats.TransactionCount))
	duplicatesFlagged.Add(float64(stats.DuplicateCount))
	runDuration.Observe(stats.Duration.Seconds())
}
