package metrics

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lightninglabs/muda/simulation"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// ratioPrecision is the number of decimal places ratios are reported with.
const ratioPrecision = 4

// manager is responsible for the management of metrics.
type manager struct {
	mu   sync.Mutex
	rows []*simulation.Row
}

// Compile time assertion that manager implements the Manager interface.
var _ Manager = (*manager)(nil)

// NewManager instantiates a new Manager, optionally seeded with rows.
func NewManager(rows ...*simulation.Row) *manager {
	return &manager{
		rows: append([]*simulation.Row(nil), rows...),
	}
}

// ObserveAuction stores the row of a simulated auction.
//
// NOTE: This is part of the simulation.Observer interface.
func (m *manager) ObserveAuction(row *simulation.Row) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows = append(m.rows, row)
}

// GetRows returns all rows observed so far.
func (m *manager) GetRows() []*simulation.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*simulation.Row(nil), m.rows...)
}

// GenerateEfficiencyMetric computes the mean and median ratio of every MUDA
// gain to the optimal gain. Auctions without a positive optimal gain have no
// meaningful ratio and are only counted.
func (m *manager) GenerateEfficiencyMetric() (*EfficiencyMetric, error) {
	return GenerateEfficiencyMetric(m.GetRows())
}

// GenerateEfficiencyMetric computes the EfficiencyMetric of the given rows.
func GenerateEfficiencyMetric(rows []*simulation.Row) (*EfficiencyMetric,
	error) {

	var (
		metric                    EfficiencyMetric
		lottery, traders, vickrey []float64
	)
	for _, row := range rows {
		if row.OptimalGain <= 0 {
			metric.NumSkipped++
			continue
		}

		metric.NumAuctions++
		lottery = append(lottery, row.LotteryGain/row.OptimalGain)
		traders = append(
			traders, row.VickreyTradersGain/row.OptimalGain,
		)
		vickrey = append(vickrey, row.VickreyTotalGain/row.OptimalGain)
	}

	if metric.NumAuctions == 0 {
		return &metric, nil
	}

	var err error
	metric.Lottery, err = ratioMetric(lottery)
	if err != nil {
		return nil, fmt.Errorf("error generating lottery ratio: %v",
			err)
	}
	metric.VickreyTraders, err = ratioMetric(traders)
	if err != nil {
		return nil, fmt.Errorf("error generating vickrey traders "+
			"ratio: %v", err)
	}
	metric.VickreyTotal, err = ratioMetric(vickrey)
	if err != nil {
		return nil, fmt.Errorf("error generating vickrey total "+
			"ratio: %v", err)
	}

	return &metric, nil
}

func ratioMetric(ratios []float64) (RatioMetric, error) {
	mean, err := stats.Mean(ratios)
	if err != nil {
		return RatioMetric{}, err
	}

	median, err := stats.Median(ratios)
	if err != nil {
		return RatioMetric{}, err
	}

	return RatioMetric{
		Mean:   mean,
		Median: median,
	}, nil
}

// String returns the ratio rounded to a fixed number of decimal places.
func (r RatioMetric) String() string {
	return fmt.Sprintf("mean=%s median=%s",
		decimal.NewFromFloat(r.Mean).StringFixed(ratioPrecision),
		decimal.NewFromFloat(r.Median).StringFixed(ratioPrecision))
}

// String returns a multi-line human readable summary.
func (e *EfficiencyMetric) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "auctions=%d skipped=%d\n", e.NumAuctions,
		e.NumSkipped)
	fmt.Fprintf(&b, "MUDA-lottery gain ratio: %v\n", e.Lottery)
	fmt.Fprintf(&b, "MUDA-Vickrey traders gain ratio: %v\n",
		e.VickreyTraders)
	fmt.Fprintf(&b, "MUDA-Vickrey total gain ratio: %v\n", e.VickreyTotal)

	return b.String()
}
