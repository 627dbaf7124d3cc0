package capture

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var capturesTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "camnode",
	Subsystem: "capture",
	Name:      "snapshots_total",
	Help:      "Total number of snapshots captured successfully",
})
