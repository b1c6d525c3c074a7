package monitoring

import (
	"github.com/lightninglabs/muda/simulation"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// simulationCollectorName is the name of the MetricGroup for the
	// simulationCollector.
	simulationCollectorName = "simulation"

	// auctionCount is the number of auctions simulated up to this point.
	auctionCount = "muda_auctions_total"

	// skippedCount is the number of simulated auctions without any gain
	// from trade, which have no meaningful efficiency ratio.
	skippedCount = "muda_skipped_auctions_total"

	// unitsTraded is the number of units traded per mechanism.
	unitsTraded = "muda_units_traded"

	// gainTotal is the cumulative gain from trade per mechanism.
	gainTotal = "muda_gain"

	// lotteryRatio is the ratio of the MUDA lottery gain to the optimal
	// gain of each auction.
	lotteryRatio = "muda_lottery_gain_ratio"

	// vickreyTradersRatio is the ratio of the gain the traders keep under
	// the MUDA Vickrey rule to the optimal gain of each auction.
	vickreyTradersRatio = "muda_vickrey_traders_gain_ratio"

	// vickreyTotalRatio is the ratio of the total MUDA Vickrey gain to the
	// optimal gain of each auction.
	vickreyTotalRatio = "muda_vickrey_total_gain_ratio"

	labelMechanism = "mechanism"

	mechanismWalras         = "walras"
	mechanismLottery        = "lottery"
	mechanismVickrey        = "vickrey"
	mechanismVickreyTraders = "vickrey_traders"
)

// defaultGainBuckets are the ratio buckets used if none are configured.
var defaultGainBuckets = []float64{
	0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0,
}

// simulationCollector is a collector that keeps track of simulated auctions.
type simulationCollector struct {
	cfg *PrometheusConfig

	// permGauges are never reset so they hold cumulative values.
	permGauges gauges

	auctionCounter prometheus.Counter
	skippedCounter prometheus.Counter
	unitsCounter   *prometheus.CounterVec

	lotteryHisto        prometheus.Histogram
	vickreyTradersHisto prometheus.Histogram
	vickreyTotalHisto   prometheus.Histogram
}

// newSimulationCollector makes a new simulationCollector instance.
func newSimulationCollector(cfg *PrometheusConfig) *simulationCollector {
	buckets := cfg.GainBuckets
	if len(buckets) == 0 {
		buckets = defaultGainBuckets
	}

	permGauges := make(gauges)
	permGauges.addGauge(
		gainTotal, "cumulative gain from trade",
		[]string{labelMechanism},
	)

	newHisto := func(name, help string) prometheus.Histogram {
		return prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		})
	}

	auctions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: auctionCount,
		Help: "counter incremented with each simulated auction",
	})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: skippedCount,
		Help: "counter incremented with each auction without gain",
	})

	return &simulationCollector{
		cfg:            cfg,
		permGauges:     permGauges,
		auctionCounter: auctions,
		skippedCounter: skipped,
		unitsCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: unitsTraded,
				Help: "number of units traded",
			},
			[]string{labelMechanism},
		),
		lotteryHisto: newHisto(
			lotteryRatio, "MUDA lottery gain over optimal gain",
		),
		vickreyTradersHisto: newHisto(
			vickreyTradersRatio,
			"MUDA Vickrey traders gain over optimal gain",
		),
		vickreyTotalHisto: newHisto(
			vickreyTotalRatio,
			"MUDA Vickrey total gain over optimal gain",
		),
	}
}

// Name is the name of the metric group. When exported to prometheus, it's
// expected that all metric under this group have the same prefix.
//
// NOTE: Part of the MetricGroup interface.
func (c *simulationCollector) Name() string {
	return simulationCollectorName
}

// Describe sends the super-set of all possible descriptors of metrics
// collected by this Collector to the provided channel and returns once the
// last descriptor has been sent.
//
// NOTE: Part of the prometheus.Collector interface.
func (c *simulationCollector) Describe(ch chan<- *prometheus.Desc) {
	c.permGauges.describe(ch)

	c.auctionCounter.Describe(ch)
	c.skippedCounter.Describe(ch)
	c.unitsCounter.Describe(ch)
	c.lotteryHisto.Describe(ch)
	c.vickreyTradersHisto.Describe(ch)
	c.vickreyTotalHisto.Describe(ch)
}

// Collect is called by the Prometheus registry when collecting metrics.
//
// NOTE: Part of the prometheus.Collector interface.
func (c *simulationCollector) Collect(ch chan<- prometheus.Metric) {
	c.permGauges.collect(ch)

	c.auctionCounter.Collect(ch)
	c.skippedCounter.Collect(ch)
	c.unitsCounter.Collect(ch)
	c.lotteryHisto.Collect(ch)
	c.vickreyTradersHisto.Collect(ch)
	c.vickreyTotalHisto.Collect(ch)
}

// RegisterMetricFuncs signals to the underlying hybrid collector that it
// should register all metrics that it aims to export with the given
// registry.
//
// NOTE: Part of the MetricGroup interface.
func (c *simulationCollector) RegisterMetricFuncs(
	registry prometheus.Registerer) error {

	return registry.Register(c)
}

// ObserveAuction records the outcome of a simulated auction. Ratios are only
// observed for auctions with a positive optimal gain.
//
// NOTE: Part of the MetricGroup interface.
func (c *simulationCollector) ObserveAuction(row *simulation.Row) {
	c.auctionCounter.Inc()

	units := map[string]int64{
		mechanismWalras:  row.OptimalUnits,
		mechanismLottery: row.LotteryUnits,
		mechanismVickrey: row.VickreyUnits,
	}
	for mechanism, u := range units {
		c.unitsCounter.WithLabelValues(mechanism).Add(float64(u))
	}

	gains := map[string]float64{
		mechanismWalras:         row.OptimalGain,
		mechanismLottery:        row.LotteryGain,
		mechanismVickreyTraders: row.VickreyTradersGain,
		mechanismVickrey:        row.VickreyTotalGain,
	}
	for mechanism, g := range gains {
		c.permGauges[gainTotal].WithLabelValues(mechanism).Add(g)
	}

	if row.OptimalGain <= 0 {
		c.skippedCounter.Inc()
		return
	}

	c.lotteryHisto.Observe(row.LotteryGain / row.OptimalGain)
	c.vickreyTradersHisto.Observe(
		row.VickreyTradersGain / row.OptimalGain,
	)
	c.vickreyTotalHisto.Observe(row.VickreyTotalGain / row.OptimalGain)
}

func init() {
	metricsMtx.Lock()
	metricGroups[simulationCollectorName] = func(
		cfg *PrometheusConfig) (MetricGroup, error) {

		return newSimulationCollector(cfg), nil
	}
	metricsMtx.Unlock()
}
