package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sheetsAnalyzed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ledgerlens",
		Name:      "sheets_analyzed_total",
		Help:      "Number of worksheets run through the extraction engine.",
	})
	recordsExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ledgerlens",
		Name:      "records_extracted_total",
		Help:      "Number of ledger records retained after noise filtering.",
	})
	headerNotFound = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ledgerlens",
		Name:      "header_not_found_total",
		Help:      "Number of worksheets with no locatable header row.",
	})
	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ledgerlens",
		Name:      "workbook_analysis_seconds",
		Help:      "Wall time per workbook analysis.",
		Buckets:   prometheus.DefBuckets,
	})
)
