package streaming

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Per-device sample counters.
	webrtcDeviceSamples = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camnode",
		Subsystem: "webrtc",
		Name:      "device_samples_total",
		Help:      "Video samples written per device",
	}, []string{"device_id"})

	webrtcDeviceBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camnode",
		Subsystem: "webrtc",
		Name:      "device_bytes_total",
		Help:      "Bytes written per device",
	}, []string{"device_id"})

	// RTCP counters.
	webrtcRTCPPackets = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camnode",
		Subsystem: "webrtc",
		Name:      "rtcp_packets_total",
		Help:      "Total RTCP packets received from WebRTC peers",
	}, []string{"device_id"})

	webrtcNACKsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camnode",
		Subsystem: "webrtc",
		Name:      "nacks_received_total",
		Help:      "Total NACK requests received from WebRTC peers (indicates packet loss)",
	})

	webrtcPLIsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camnode",
		Subsystem: "webrtc",
		Name:      "plis_received_total",
		Help:      "Total PLI (Picture Loss Indication) requests received from WebRTC peers",
	})

	webrtcFIRsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camnode",
		Subsystem: "webrtc",
		Name:      "firs_received_total",
		Help:      "Total FIR (Full Intra Request) requests received from WebRTC peers",
	})

	// Connection gauges.
	webrtcActivePeers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "camnode",
		Subsystem: "webrtc",
		Name:      "active_peers",
		Help:      "Number of currently active WebRTC peer connections",
	})

	// Per-device counters (with device_id label).
	webrtcDeviceNACKs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camnode",
		Subsystem: "webrtc",
		Name:      "device_nacks_total",
		Help:      "NACK requests per device",
	}, []string{"device_id"})

	webrtcDevicePLIs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camnode",
		Subsystem: "webrtc",
		Name:      "device_plis_total",
		Help:      "PLI requests per device",
	}, []string{"device_id"})
)

// IncrementRTCPPackets records RTCP packets received.
func IncrementRTCPPackets(deviceID string) {
	webrtcRTCPPackets.WithLabelValues(deviceID).Inc()
}

// IncrementNACKs records NACK requests received.
func IncrementNACKs(deviceID string, count int) {
	webrtcNACKsReceived.Add(float64(count))
	webrtcDeviceNACKs.WithLabelValues(deviceID).Add(float64(count))
}

// IncrementPLIs records PLI requests received.
func IncrementPLIs(deviceID string) {
	webrtcPLIsReceived.Inc()
	webrtcDevicePLIs.WithLabelValues(deviceID).Inc()
}

// IncrementFIRs records FIR requests received.
func IncrementFIRs() {
	webrtcFIRsReceived.Inc()
}

// IncrementSamplesSent records samples and bytes written for a device.
func IncrementSamplesSent(deviceID string, bytes int) {
	webrtcDeviceSamples.WithLabelValues(deviceID).Inc()
	webrtcDeviceBytes.WithLabelValues(deviceID).Add(float64(bytes))
}

// SetActivePeers sets the current number of active peers.
func SetActivePeers(count int) {
	webrtcActivePeers.Set(float64(count))
}
