// Package metrics exposes dialog activity as Prometheus counters fed by the
// engine's lifecycle hooks.
package metrics

import (
	"context"
	"net/http"

	"github.com/aretw0/ragso/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the ragso counters and the registry they live in.
type Collector struct {
	registry     *prometheus.Registry
	transitions  *prometheus.CounterVec
	commits      *prometheus.CounterVec
	gatewayError *prometheus.CounterVec
	purchases    prometheus.Counter
}

// New registers the counters on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ragso_transitions_total",
				Help: "Flow state transitions by flow kind and target state",
			},
			[]string{"flow", "state"},
		),
		commits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ragso_commits_total",
				Help: "Receipts issued by kind",
			},
			[]string{"kind"},
		),
		gatewayError: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ragso_gateway_errors_total",
				Help: "Failed catalog lookups by operation",
			},
			[]string{"op"},
		),
		purchases: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ragso_purchase_handoffs_total",
			Help: "Purchase requests handed off",
		}),
	}
	c.registry.MustRegister(c.transitions, c.commits, c.gatewayError, c.purchases)
	return c
}

// Hooks returns lifecycle hooks that record into the collector.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			c.transitions.WithLabelValues(string(e.Flow), string(e.To)).Inc()
		},
		OnCommit: func(_ context.Context, e *domain.CommitEvent) {
			c.commits.WithLabelValues(string(e.Receipt.Kind)).Inc()
		},
		OnGatewayError: func(_ context.Context, e *domain.GatewayErrorEvent) {
			c.gatewayError.WithLabelValues(e.Op).Inc()
		},
		OnPurchase: func(context.Context, *domain.PurchaseEvent) {
			c.purchases.Inc()
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for extra collectors.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
