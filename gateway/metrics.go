package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventProcessDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "xsin_event_duration_sec",
	Help: "Total duration of event dispatch, all handlers included",
}, []string{"type"})

var eventProcessCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "xsin_event_processed",
	Help: "Number of events dispatched",
}, []string{"type"})

var handlerErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "xsin_event_handler_errors",
	Help: "Number of handler invocations which failed (error or panic)",
}, []string{"type", "handler"})
