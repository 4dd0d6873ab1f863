package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the service's prometheus registry.
// All record methods are safe to call on a nil *Collector.
type Collector struct {
	registry *prometheus.Registry

	ordersSubmitted     *prometheus.CounterVec
	itemTransitions     *prometheus.CounterVec
	conflicts           *prometheus.CounterVec
	notificationsSent   prometheus.Counter
	notificationsDrop   prometheus.Counter
	paymentsCompleted   prometheus.Counter
	activeSubscriptions prometheus.Gauge
}

// NewCollector creates a Collector with all metrics registered.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		ordersSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabletap_orders_submitted_total",
				Help: "Order submissions by outcome",
			},
			[]string{"outcome"},
		),
		itemTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabletap_item_transitions_total",
				Help: "Applied order item status transitions",
			},
			[]string{"to"},
		),
		conflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tabletap_status_conflicts_total",
				Help: "Conditional status updates that lost a concurrent race",
			},
			[]string{"op"},
		),
		notificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tabletap_notifications_published_total",
			Help: "Change notifications published",
		}),
		notificationsDrop: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tabletap_notifications_dropped_total",
			Help: "Change notifications dropped for slow subscribers",
		}),
		paymentsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tabletap_payments_completed_total",
			Help: "Orders moved to paid by the payment webhook",
		}),
		activeSubscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tabletap_notification_subscribers",
			Help: "Currently subscribed change observers",
		}),
	}

	registry.MustRegister(
		c.ordersSubmitted,
		c.itemTransitions,
		c.conflicts,
		c.notificationsSent,
		c.notificationsDrop,
		c.paymentsCompleted,
		c.activeSubscriptions,
	)
	return c
}

// Handler serves the registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) OrderSubmitted(outcome string) {
	if c == nil {
		return
	}
	c.ordersSubmitted.WithLabelValues(outcome).Inc()
}

func (c *Collector) ItemTransition(to string) {
	if c == nil {
		return
	}
	c.itemTransitions.WithLabelValues(to).Inc()
}

func (c *Collector) Conflict(op string) {
	if c == nil {
		return
	}
	c.conflicts.WithLabelValues(op).Inc()
}

func (c *Collector) NotificationPublished() {
	if c == nil {
		return
	}
	c.notificationsSent.Inc()
}

func (c *Collector) NotificationDropped() {
	if c == nil {
		return
	}
	c.notificationsDrop.Inc()
}

func (c *Collector) PaymentCompleted() {
	if c == nil {
		return
	}
	c.paymentsCompleted.Inc()
}

func (c *Collector) SubscriberAdded() {
	if c == nil {
		return
	}
	c.activeSubscriptions.Inc()
}

func (c *Collector) SubscriberRemoved() {
	if c == nil {
		return
	}
	c.activeSubscriptions.Dec()
}
