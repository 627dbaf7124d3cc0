package devices

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	enumerationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camnode",
		Subsystem: "devices",
		Name:      "enumerations_total",
		Help:      "Total number of device enumeration scans",
	})

	devicesPresent = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "camnode",
		Subsystem: "devices",
		Name:      "present",
		Help:      "Number of capture devices found by the last scan",
	})

	hotplugEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camnode",
		Subsystem: "devices",
		Name:      "hotplug_events_total",
		Help:      "Total number of hotplug events by action",
	}, []string{"action"})
)
