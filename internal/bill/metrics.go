package bill

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var billsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "billed",
	Name:      "bills_submitted_total",
	Help:      "New bill form submissions by outcome.",
}, []string{"result"})

var proofUploads = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "billed",
	Name:      "proof_uploads_total",
	Help:      "Proof uploads by outcome (stored, rejected, failed).",
}, []string{"result"})

var billFormatErrors = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "billed",
	Name:      "bill_format_errors_total",
	Help:      "Bills listed with their raw date because it could not be formatted.",
})
