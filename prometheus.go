package main

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sms-splitter/smpp/coding"
	"sms-splitter/smpp/segment"
)

// PrometheusExporter is a general structure to expose metrics on specified paths.
type PrometheusExporter struct {
	Path     string // e.g., "/metrics"
	Listen   string // e.g., ":2550"
	Registry *prometheus.Registry
}

// Start begins the HTTP server to serve Prometheus metrics.
func (e *PrometheusExporter) Start() error {
	mux := http.NewServeMux()
	mux.Handle(e.Path, promhttp.HandlerFor(e.Registry, promhttp.HandlerOpts{}))
	return http.ListenAndServe(e.Listen, mux)
}

// SegmentStats counts processed messages. It is safe for concurrent use.
type SegmentStats struct {
	messagesGSM7 atomic.Uint64
	messagesUCS2 atomic.Uint64
	segmentsGSM7 atomic.Uint64
	segmentsUCS2 atomic.Uint64

	mu       sync.Mutex
	rejected map[string]uint64
}

func NewSegmentStats() *SegmentStats {
	return &SegmentStats{rejected: make(map[string]uint64)}
}

// Observe records one successful segmentation.
func (s *SegmentStats) Observe(res *segment.Result) {
	n := uint64(len(res.Segments))
	switch res.Encoding {
	case coding.UCS2:
		s.messagesUCS2.Add(1)
		s.segmentsUCS2.Add(n)
	default:
		s.messagesGSM7.Add(1)
		s.segmentsGSM7.Add(n)
	}
}

// Reject records one refused request.
func (s *SegmentStats) Reject(reason string) {
	s.mu.Lock()
	s.rejected[reason]++
	s.mu.Unlock()
}

// Rejected returns a copy of the rejection counts by reason.
func (s *SegmentStats) Rejected() map[string]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]uint64, len(s.rejected))
	for k, v := range s.rejected {
		out[k] = v
	}
	return out
}

// MetricExporter for managing and exposing Prometheus metrics.
type MetricExporter struct {
	desc    map[string]*prometheus.Desc
	id      string
	gateway *Gateway
}

// NewMetricExporter initializes the MetricExporter with descriptions for each required metric.
func NewMetricExporter(id string, gateway *Gateway) *MetricExporter {
	labels := prometheus.Labels{"instance_id": id}
	metricDesc := map[string]*prometheus.Desc{
		"messages_segmented": prometheus.NewDesc("messages_segmented", "Messages segmented", []string{"encoding"}, labels),
		"segments_produced":  prometheus.NewDesc("segments_produced", "Segments produced", []string{"encoding"}, labels),
		"messages_rejected":  prometheus.NewDesc("messages_rejected", "Requests refused", []string{"reason"}, labels),
		"server_status":      prometheus.NewDesc("server_status", "General OK status of the server", []string{"service"}, labels),
	}

	return &MetricExporter{
		desc:    metricDesc,
		id:      id,
		gateway: gateway,
	}
}

// Describe sends all metric descriptions to the Prometheus channel.
func (e *MetricExporter) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range e.desc {
		ch <- desc
	}
}

// Collect gathers metrics by examining the state of the Gateway.
func (e *MetricExporter) Collect(ch chan<- prometheus.Metric) {
	e.collectSegmentMetrics(ch)
	e.collectRejections(ch)
	e.collectServerStatus(ch)
}

func (e *MetricExporter) collectSegmentMetrics(ch chan<- prometheus.Metric) {
	stats := e.gateway.Stats
	ch <- prometheus.MustNewConstMetric(e.desc["messages_segmented"], prometheus.CounterValue, float64(stats.messagesGSM7.Load()), "gsm7")
	ch <- prometheus.MustNewConstMetric(e.desc["messages_segmented"], prometheus.CounterValue, float64(stats.messagesUCS2.Load()), "ucs2")
	ch <- prometheus.MustNewConstMetric(e.desc["segments_produced"], prometheus.CounterValue, float64(stats.segmentsGSM7.Load()), "gsm7")
	ch <- prometheus.MustNewConstMetric(e.desc["segments_produced"], prometheus.CounterValue, float64(stats.segmentsUCS2.Load()), "ucs2")
}

func (e *MetricExporter) collectRejections(ch chan<- prometheus.Metric) {
	for reason, n := range e.gateway.Stats.Rejected() {
		ch <- prometheus.MustNewConstMetric(e.desc["messages_rejected"], prometheus.CounterValue, float64(n), reason)
	}
}

// collectServerStatus reports 1 for each side channel that is configured.
func (e *MetricExporter) collectServerStatus(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(e.desc["server_status"], prometheus.GaugeValue, 1, "web")

	records := 0
	if e.gateway.Records != nil {
		records = 1
	}
	handoff := 0
	if e.gateway.Handoff != nil {
		handoff = 1
	}
	ch <- prometheus.MustNewConstMetric(e.desc["server_status"], prometheus.GaugeValue, float64(records), "records")
	ch <- prometheus.MustNewConstMetric(e.desc["server_status"], prometheus.GaugeValue, float64(handoff), "handoff")
}
