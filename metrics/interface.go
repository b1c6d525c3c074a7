package metrics

import (
	"github.com/lightninglabs/muda/simulation"
)

// RatioMetric summarizes the ratio of a MUDA gain to the optimal gain over
// many auctions.
type RatioMetric struct {
	// Mean is the mean ratio.
	Mean float64

	// Median is the median ratio.
	Median float64
}

// EfficiencyMetric is the struct used for generating insights about the
// efficiency of MUDA relative to the Walrasian optimum.
type EfficiencyMetric struct {
	// NumAuctions is the number of auctions with a positive optimal gain.
	// Only those take part in the ratios.
	NumAuctions int

	// NumSkipped is the number of auctions without any optimal gain.
	NumSkipped int

	// Lottery is the ratio of the lottery gain to the optimal gain.
	Lottery RatioMetric

	// VickreyTraders is the ratio of the gain kept by the traders under
	// the Vickrey rule to the optimal gain.
	VickreyTraders RatioMetric

	// VickreyTotal is the ratio of the total Vickrey gain to the optimal
	// gain.
	VickreyTotal RatioMetric
}

// Manager interface for obtaining metrics.
type Manager interface {
	simulation.Observer

	// GenerateEfficiencyMetric calculates the EfficiencyMetric of all
	// auctions observed so far.
	GenerateEfficiencyMetric() (*EfficiencyMetric, error)

	// GetRows returns all rows observed so far.
	GetRows() []*simulation.Row
}
