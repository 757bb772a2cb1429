package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain counters for the settlement pipeline. Registered on the default
// registry, exposed by the same listener as the HTTP metrics.
var (
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Gateway webhook events by kind and result.",
	}, []string{"event", "result"})

	FulfillmentOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_outcomes_total",
		Help: "Fulfillment attempts by network family and outcome.",
	}, []string{"network", "outcome"})
)
