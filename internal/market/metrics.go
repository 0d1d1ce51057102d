package market

import "github.com/prometheus/client_golang/prometheus"

const (
	reasonNotFound        = "not_found"
	reasonPaymentMismatch = "payment_mismatch"
	reasonNoFunds         = "insufficient_funds"
	reasonTransferFailed  = "transfer_failed"
	reasonBadPrice        = "malformed_price"
)

// Metrics are the domain counters for the marketplace; HTTP-level metrics live
// in pkg/kit.
type Metrics struct {
	Listings         prometheus.Counter
	Purchases        prometheus.Counter
	PurchaseFailures *prometheus.CounterVec
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Listings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "market_listings_total",
			Help: "Accepted listing calls",
		}),
		Purchases: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "market_purchases_total",
			Help: "Completed purchases",
		}),
		PurchaseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "market_purchase_failures_total",
			Help: "Rejected or failed purchases",
		}, []string{"reason"}),
	}

	if reg != nil {
		reg.MustRegister(m.Listings, m.Purchases, m.PurchaseFailures)
	}
	return m
}

func (m *Metrics) purchaseFailure(reason string) {
	if m == nil {
		return
	}
	m.PurchaseFailures.WithLabelValues(reason).Inc()
}
