package reminder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var remindersScheduled = promauto.NewCounter(prometheus.CounterOpts{
	Name: "xsin_reminders_scheduled",
	Help: "Number of reminders accepted for scheduling",
})

var remindersFired = promauto.NewCounter(prometheus.CounterOpts{
	Name: "xsin_reminders_fired",
	Help: "Number of reminders delivered",
})

var remindersFailed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "xsin_reminders_failed",
	Help: "Number of reminders retired after a failed delivery",
})
