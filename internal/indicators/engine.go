package indicators

import (
	"fmt"
	"sort"

	"finboard/internal/models"
)

// Column names for the Bollinger Bands output.
const (
	ColBBMid   = "BB_Mid"
	ColBBUpper = "BB_Upper"
	ColBBLower = "BB_Lower"
)

// MAColumn returns the derived-column name for a moving average period.
func MAColumn(period int) string {
	return fmt.Sprintf("MA_%d", period)
}

// RSIColumn returns the derived-column name for an RSI period.
func RSIColumn(period int) string {
	return fmt.Sprintf("RSI_%d", period)
}

// Params holds the indicator parameter set. A Params value is never
// mutated after use; computing with new parameters yields a new
// DerivedSeries.
type Params struct {
	MAShortPeriod int
	MALongPeriod  int
	RSIPeriod     int
	BBPeriod      int
	BBStdDev      float64
}

// DefaultParams returns the dashboard's default indicator parameters.
func DefaultParams() Params {
	return Params{
		MAShortPeriod: 20,
		MALongPeriod:  50,
		RSIPeriod:     14,
		BBPeriod:      20,
		BBStdDev:      2.0,
	}
}

// Validate checks that every period is positive and the band multiplier
// is positive.
func (p Params) Validate() error {
	if p.MAShortPeriod <= 0 || p.MALongPeriod <= 0 || p.RSIPeriod <= 0 || p.BBPeriod <= 0 {
		return ErrInvalidPeriod
	}
	if p.BBStdDev <= 0 {
		return ErrInvalidStdDev
	}
	return nil
}

// DerivedSeries is a source series plus named indicator columns aligned
// index-for-index with the bars.
type DerivedSeries struct {
	Bars    []models.Bar
	columns map[string][]float64
}

// Column returns a derived column by name.
func (d *DerivedSeries) Column(name string) ([]float64, bool) {
	col, ok := d.columns[name]
	return col, ok
}

// MA returns the moving-average column for the given period.
func (d *DerivedSeries) MA(period int) ([]float64, bool) {
	return d.Column(MAColumn(period))
}

// RSI returns the RSI column for the given period.
func (d *DerivedSeries) RSI(period int) ([]float64, bool) {
	return d.Column(RSIColumn(period))
}

// Bollinger returns the middle, upper and lower band columns.
func (d *DerivedSeries) Bollinger() (mid, upper, lower []float64, ok bool) {
	mid, okMid := d.Column(ColBBMid)
	upper, okUp := d.Column(ColBBUpper)
	lower, okLow := d.Column(ColBBLower)
	return mid, upper, lower, okMid && okUp && okLow
}

// ColumnNames returns the derived column names in sorted order.
func (d *DerivedSeries) ColumnNames() []string {
	names := make([]string, 0, len(d.columns))
	for name := range d.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compute derives the full indicator set for a series. It is a pure
// function of its inputs: the source bars are not modified and repeated
// calls with different parameters produce independent results.
func Compute(bars []models.Bar, params Params) (*DerivedSeries, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	derived := &DerivedSeries{
		Bars:    bars,
		columns: make(map[string][]float64),
	}

	singles := []Indicator{
		NewSMA(params.MAShortPeriod),
		NewRSI(params.RSIPeriod),
	}
	if params.MALongPeriod != params.MAShortPeriod {
		singles = append(singles, NewSMA(params.MALongPeriod))
	}

	for _, ind := range singles {
		values, err := ind.Calculate(bars)
		if err != nil {
			return nil, fmt.Errorf("computing %s: %w", ind.Name(), err)
		}
		derived.columns[ind.Name()] = values
	}

	bb := NewBollingerBands(params.BBPeriod, params.BBStdDev)
	bands, err := bb.Calculate(bars)
	if err != nil {
		return nil, fmt.Errorf("computing %s: %w", bb.Name(), err)
	}
	for name, values := range bands {
		derived.columns[name] = values
	}

	return derived, nil
}
