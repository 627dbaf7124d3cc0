package forward

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	forwardPacketsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camnode",
		Subsystem: "forward",
		Name:      "packets_total",
		Help:      "Total RTP packets sent to forward targets",
	})
	forwardBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camnode",
		Subsystem: "forward",
		Name:      "bytes_total",
		Help:      "Total RTP payload bytes sent to forward targets",
	})
)
