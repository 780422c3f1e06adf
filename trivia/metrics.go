package trivia

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sessionResultCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "xsin_trivia_sessions",
	Help: "Number of trivia sessions resolved, by result",
}, []string{"result"})
