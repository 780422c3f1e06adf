package leveling

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var levelUpCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "xsin_leveling_levelups",
	Help: "Number of level-up transitions committed",
})
