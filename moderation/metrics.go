package moderation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var verdictCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "xsin_moderation_verdicts",
	Help: "Number of verdicts produced, by event type and action",
}, []string{"type", "action"})
