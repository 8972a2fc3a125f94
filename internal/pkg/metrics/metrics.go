// Package metrics exposes prometheus counters for marketplace operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "marketplace_operations_total",
	Help: "Marketplace operations by name and outcome.",
}, []string{"op", "outcome"})

var listingsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "marketplace_listings_created_total",
	Help: "Listings created since process start.",
})

// CountOperation records one operation invocation with its outcome.
func CountOperation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	operations.WithLabelValues(op, outcome).Inc()
	if op == "create_listing" && err == nil {
		listingsCreated.Inc()
	}
}
