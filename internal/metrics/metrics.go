// Package metrics exposes Prometheus instrumentation for the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReceiptsParsed counts receipt texts run through the parser,
	// labelled by source ("text" or "image").
	ReceiptsParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billscan_receipts_parsed_total",
		Help: "Number of receipts parsed, by input source.",
	}, []string{"source"})

	// SplitsComputed counts allocation runs over sessions.
	SplitsComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billscan_splits_computed_total",
		Help: "Number of bill splits computed.",
	})

	// PaymentLinks counts UPI deep links generated, labelled by
	// format ("link" or "qr").
	PaymentLinks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billscan_payment_links_total",
		Help: "Number of UPI payment links generated, by format.",
	}, []string{"format"})

	// OCRDuration tracks how long OCR extraction takes.
	OCRDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "billscan_ocr_duration_seconds",
		Help:    "Time spent extracting text from receipt images.",
		Buckets: prometheus.DefBuckets,
	})
)
