package monitoring

import (
	"fmt"
	"sync"

	"github.com/lightninglabs/muda/simulation"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricGroupCreator is a factory method that given the primary prometheus
// config, will create a new MetricGroup that will be managed by the main
// PrometheusExporter.
type MetricGroupCreator func(*PrometheusConfig) (MetricGroup, error)

var (
	// metricGroups is a global variable of all registered metrics
	// projected by the mutex below. All new MetricGroups should add
	// themselves to this map within the init() method of their file.
	metricGroups = make(map[string]MetricGroupCreator)

	metricsMtx sync.Mutex
)

// MetricGroup is the primary interface of this package. The main exporter (in
// this case the PrometheusExporter), will manage these directly, ensuring that
// all MetricGroups are registered before any observation is exported.
type MetricGroup interface {
	// Name is the name of the metric group. When exported to prometheus,
	// it's expected that all metric under this group have the same prefix.
	Name() string

	// RegisterMetricFuncs signals to the underlying hybrid collector that
	// it should register all metrics that it aims to export with the
	// given registry. Rather than using the series of "MustRegister"
	// directives, implementers of this interface should instead propagate
	// back any errors related to metric registration.
	RegisterMetricFuncs(registry prometheus.Registerer) error

	// ObserveAuction records the outcome of a simulated auction.
	ObserveAuction(row *simulation.Row)
}

// PrometheusConfig is the set of configuration data that specifies if
// Prometheus metric exporting is activated, and if so the file the metrics
// are written to.
type PrometheusConfig struct {
	// Active, if true, then Prometheus metrics will be exported.
	Active bool `long:"active" description:"if true prometheus metrics will be exported"`

	// TextfilePath is the file the metrics are written to in the
	// Prometheus text format, ready to be picked up by a node exporter's
	// textfile collector.
	TextfilePath string `long:"textfile" description:"the file prometheus metrics are written to"`

	// GainBuckets are the upper bounds of the gain ratio histograms.
	GainBuckets []float64
}

// PrometheusExporter is a metric exporter that uses Prometheus directly. The
// simulator reports every auction to it and writes the collected metrics to
// a text file once it's done.
type PrometheusExporter struct {
	config   *PrometheusConfig
	registry *prometheus.Registry

	groups []MetricGroup
}

// NewPrometheusExporter makes a new instance of the PrometheusExporter given
// the config.
func NewPrometheusExporter(cfg *PrometheusConfig) *PrometheusExporter {
	return &PrometheusExporter{
		config:   cfg,
		registry: prometheus.NewRegistry(),
	}
}

// Start registers all relevant metrics with the exporter's registry.
func (p *PrometheusExporter) Start() error {
	// If we're not active, then there's nothing more to do.
	if !p.config.Active {
		return nil
	}

	// Next, we'll attempt to register all our metrics. If we fail to
	// register ANY metric, then we'll fail all together.
	return p.registerMetrics()
}

// registerMetrics iterates through all the registered metric groups and
// attempts to register each one. If any of the MetricGroups fail to register,
// then an error will be returned.
func (p *PrometheusExporter) registerMetrics() error {
	metricsMtx.Lock()
	defer metricsMtx.Unlock()

	for _, metricGroupFunc := range metricGroups {
		metricGroup, err := metricGroupFunc(p.config)
		if err != nil {
			return err
		}

		if err := metricGroup.RegisterMetricFuncs(p.registry); err != nil {
			return err
		}

		p.groups = append(p.groups, metricGroup)
	}

	return nil
}

// ObserveAuction hands the row of a simulated auction to every active metric
// group.
//
// NOTE: This is part of the simulation.Observer interface.
func (p *PrometheusExporter) ObserveAuction(row *simulation.Row) {
	for _, group := range p.groups {
		group.ObserveAuction(row)
	}
}

// Gatherer returns the registry that holds the exporter's metrics.
func (p *PrometheusExporter) Gatherer() prometheus.Gatherer {
	return p.registry
}

// WriteTextfile writes all metrics to the configured text file. It is a no-op
// if the exporter isn't active.
func (p *PrometheusExporter) WriteTextfile() error {
	if !p.config.Active {
		return nil
	}

	if p.config.TextfilePath == "" {
		return fmt.Errorf("no prometheus text file configured")
	}

	log.Infof("Writing prometheus metrics to %v", p.config.TextfilePath)

	return prometheus.WriteToTextfile(p.config.TextfilePath, p.registry)
}

// A compile-time assertion to ensure that the PrometheusExporter meets the
// simulation.Observer interface.
var _ simulation.Observer = (*PrometheusExporter)(nil)

// gauges is a map type that maps a gauge to its unique name.
type gauges map[string]*prometheus.GaugeVec

// addGauge adds a new gauge vector to the map.
func (g gauges) addGauge(name, help string, labels []string) {
	g[name] = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

// describe describes all gauges contained in the map to the given channel.
func (g gauges) describe(ch chan<- *prometheus.Desc) {
	for _, gauge := range g {
		gauge.Describe(ch)
	}
}

// collect collects all metrics of the map's gauges to the given channel.
func (g gauges) collect(ch chan<- prometheus.Metric) {
	for _, gauge := range g {
		gauge.Collect(ch)
	}
}
