package metric

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/seqlab/sigcap-go/internal/core/domain"
)

// ContainerCollector exposes the live state of the waveform container
// as gauges. Values are read on every scrape so they track the
// container without explicit bookkeeping.
type ContainerCollector struct {
	container *domain.Container

	transitions *prometheus.Desc
	sampleRate  *prometheus.Desc
	channels    *prometheus.Desc
	annotations *prometheus.Desc
	cursorsOn   *prometheus.Desc
}

// NewContainerCollector creates a collector over the given container.
func NewContainerCollector(c *domain.Container) *ContainerCollector {
	return &ContainerCollector{
		container: c,
		transitions: prometheus.NewDesc(
			namespace+"_capture_transitions",
			"Number of transitions in the loaded capture.",
			nil, nil,
		),
		sampleRate: prometheus.NewDesc(
			namespace+"_capture_sample_rate_hz",
			"Sample rate of the loaded capture in Hz.",
			nil, nil,
		),
		channels: prometheus.NewDesc(
			namespace+"_capture_channels",
			"Channel count of the loaded capture.",
			nil, nil,
		),
		annotations: prometheus.NewDesc(
			namespace+"_container_annotations",
			"Number of annotations on a channel.",
			[]string{"channel"}, nil,
		),
		cursorsOn: prometheus.NewDesc(
			namespace+"_container_cursors_enabled",
			"Whether cursor display is enabled (1) or not (0).",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *ContainerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.transitions
	ch <- c.sampleRate
	ch <- c.channels
	ch <- c.annotations
	ch <- c.cursorsOn
}

// Collect implements prometheus.Collector.
func (c *ContainerCollector) Collect(ch chan<- prometheus.Metric) {
	enabled := 0.0
	if c.container.CursorsEnabled() {
		enabled = 1
	}
	ch <- prometheus.MustNewConstMetric(c.cursorsOn, prometheus.GaugeValue, enabled)

	capture := c.container.Capture()
	if capture == nil {
		return
	}

	ch <- prometheus.MustNewConstMetric(c.transitions, prometheus.GaugeValue, float64(capture.Transitions()))
	if capture.HasTimingData() {
		ch <- prometheus.MustNewConstMetric(c.sampleRate, prometheus.GaugeValue, float64(capture.SampleRate()))
	}
	ch <- prometheus.MustNewConstMetric(c.channels, prometheus.GaugeValue, float64(capture.ChannelCount()))

	for i := 0; i < capture.ChannelCount(); i++ {
		n, err := c.container.Annotations().Count(i)
		if err != nil || n == 0 {
			continue
		}
		ch <- prometheus.MustNewConstMetric(c.annotations, prometheus.GaugeValue, float64(n), strconv.Itoa(i))
	}
}
