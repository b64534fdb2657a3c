// Package metrics exposes Prometheus instruments for the forecast service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation names used as label values
const (
	OpRecurringBills = "recurring_bills"
	OpForecast       = "cash_flow_forecast"
	OpRiskScan       = "risk_scan"
)

// Outcome label values
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid_input"
	OutcomeUnavailable = "unavailable"
)

var Requests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cashflow",
	Name:      "requests_total",
	Help:      "Forecast service requests by operation and outcome.",
}, []string{"operation", "outcome"})

var Duration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "cashflow",
	Name:      "computation_duration_seconds",
	Help:      "Time spent fetching and computing a response.",
	Buckets:   prometheus.DefBuckets,
}, []string{"operation"})

var PatternsDetected = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "cashflow",
	Name:      "patterns_detected",
	Help:      "Recurring patterns detected per request.",
	Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
}, []string{"operation"})

var RiskEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cashflow",
	Name:      "risk_events_total",
	Help:      "Forecasts that flagged a risk, by kind.",
}, []string{"kind"})

var AlertsSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cashflow",
	Name:      "alerts_sent_total",
	Help:      "Risk alert emails by result.",
}, []string{"result"})
