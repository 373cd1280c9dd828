package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rateBuckets = []float64{0.01, 0.02, 0.05, 0.1, 0.15, 0.2, 0.3, 0.5, 0.75, 1.0}

var (
	EvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tigereval_evaluations_total",
		Help: "Documents evaluated against reference data, by comparison mode",
	}, []string{"mode"})

	SegmentsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tigereval_segments_skipped_total",
		Help: "Segments left unscored because no reference text exists",
	})

	CER = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tigereval_cer",
		Help:    "Character error rate per scored segment",
		Buckets: rateBuckets,
	})

	WER = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tigereval_wer",
		Help:    "Word error rate per scored segment",
		Buckets: rateBuckets,
	})

	OCRDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tigereval_ocr_duration_seconds",
		Help:    "OCR provider latency",
		Buckets: []float64{0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 20.0, 40.0},
	}, []string{"service"})

	OCRErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tigereval_ocr_errors_total",
		Help: "OCR provider failures",
	}, []string{"service"})

	LiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tigereval_live_sessions",
		Help: "Open live comparison websocket sessions",
	})
)
