package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var alertsDropped = promauto.NewCounter(prometheus.CounterOpts{
	Name: "xsin_webhook_alerts_dropped",
	Help: "Number of webhook alerts dropped by the rate limiter",
})
