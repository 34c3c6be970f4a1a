package services

import "github.com/prometheus/client_golang/prometheus"

// Write operations recorded by the domain counters.
const (
	opCreate     = "create"
	opUpdate     = "update"
	opDelete     = "delete"
	opDeactivate = "deactivate"
)

var (
	diaryWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diary_entries_written_total",
			Help: "Successful diary entry writes by operation.",
		},
		[]string{"op"},
	)

	medicationWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medications_written_total",
			Help: "Successful medication writes by operation.",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(diaryWrites, medicationWrites)
}
