package simulation

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
)

// gainPrecision is the number of decimal places gains are written with.
const gainPrecision = 6

// Columns are the header cells of the result table.
var Columns = []string{
	"ID",
	"Total buyers", "Total sellers", "Total traders", "Min total traders",
	"Total units", "Max units per trader", "Min units per trader",
	"Normalized max units per trader", "stddev",
	"Optimal buyers", "Optimal sellers", "Optimal units", "Optimal gain",
	"MUDA-lottery units", "MUDA-lottery gain",
	"MUDA-Vickrey units", "MUDA-Vickrey traders gain",
	"MUDA-Vickrey total gain",
}

// Record returns the table cells of the row, in the order of Columns.
func (r *Row) Record() []string {
	itoa := func(i int) string {
		return strconv.Itoa(i)
	}
	units := func(u int64) string {
		return strconv.FormatInt(u, 10)
	}
	amount := func(f float64) string {
		return decimal.NewFromFloat(f).Round(gainPrecision).String()
	}

	return []string{
		r.ID,
		itoa(r.TotalBuyers), itoa(r.TotalSellers), itoa(r.TotalTraders),
		itoa(r.MinTotalTraders),
		units(r.TotalUnits), units(r.MaxUnitsPerTrader),
		units(r.MinUnitsPerTrader),
		amount(r.NormalizedMaxUnits), amount(r.StdDev),
		itoa(r.OptimalBuyers), itoa(r.OptimalSellers),
		units(r.OptimalUnits), amount(r.OptimalGain),
		units(r.LotteryUnits), amount(r.LotteryGain),
		units(r.VickreyUnits), amount(r.VickreyTradersGain),
		amount(r.VickreyTotalGain),
	}
}

// WriteCSV writes the rows as a CSV table with a header line.
func WriteCSV(w io.Writer, rows []*Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return err
	}

	for _, row := range rows {
		if err := writer.Write(row.Record()); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
