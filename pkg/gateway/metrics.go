package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	submissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "staderclient_submissions_total",
		Help: "Transactions handed to the RPC endpoint.",
	})
	confirmationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "staderclient_confirmations_total",
		Help: "Transactions confirmed at the configured commitment level.",
	})
	submissionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "staderclient_submission_failures_total",
		Help: "Submissions that ended in rejection, expiry or transport error.",
	})
)
