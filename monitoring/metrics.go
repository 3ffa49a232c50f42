package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPaid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "celsius_orders_paid_total",
		Help: "Number of successfully paid orders",
	})

	MembersActivated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "celsius_members_activated_total",
		Help: "Number of users activated into the club by a qualifying purchase",
	})

	ClaimsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "celsius_claims_created_total",
		Help: "Number of reward claims created, by level",
	}, []string{"level"})

	ClaimsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "celsius_claims_rejected_total",
		Help: "Number of reward claims rejected, by reason",
	}, []string{"reason"})
)
