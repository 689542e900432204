package rsutax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxPolicy selects the rules used to tax the acquisition gain.
type TaxPolicy int

const (
	// FlatRegime taxes the whole acquisition gain the same way: 17.2% social contributions
	// and income tax at the marginal rate after relief.
	FlatRegime TaxPolicy = iota
	// ThresholdRegime splits the acquisition gain at 300,000 EUR. Below, the flat rules apply
	// with a relief pro-rated by the average relief rate. Above, social contributions are 9.7%,
	// there is no relief and a 10% salary contribution is due.
	ThresholdRegime
)

func (p TaxPolicy) String() string {
	switch p {
	case FlatRegime:
		return "flat"
	case ThresholdRegime:
		return "threshold-300k"
	default:
		return "unknown"
	}
}

// ParseTaxPolicy parses a string into a TaxPolicy.
func ParseTaxPolicy(s string) (TaxPolicy, error) {
	switch s {
	case "flat":
		return FlatRegime, nil
	case "threshold-300k":
		return ThresholdRegime, nil
	default:
		return 0, fmt.Errorf("unknown tax policy: %q", s)
	}
}

// rateTable holds the rates of a TaxPolicy.
type rateTable struct {
	threshold   Money // zero for no threshold
	socialBelow decimal.Decimal
	socialAbove decimal.Decimal
	salaryAbove decimal.Decimal
	flatTax     decimal.Decimal // on capital gains
}

var (
	socialRate  = decimal.RequireFromString("0.172")
	flatTaxRate = decimal.RequireFromString("0.30")
)

func (p TaxPolicy) rates() (rateTable, error) {
	switch p {
	case FlatRegime:
		return rateTable{
			socialBelow: socialRate,
			flatTax:     flatTaxRate,
		}, nil
	case ThresholdRegime:
		return rateTable{
			threshold:   EUR(300000),
			socialBelow: socialRate,
			socialAbove: decimal.RequireFromString("0.097"),
			salaryAbove: decimal.RequireFromString("0.10"),
			flatTax:     flatTaxRate,
		}, nil
	default:
		return rateTable{}, fmt.Errorf("unknown tax policy %d", int(p))
	}
}

// split divides the corrected acquisition gain at the threshold, and the relief that
// applies to the part below it.
func (t rateTable) split(vestGain, relief Money) (below, above, validRelief Money) {
	if t.threshold.IsZero() || !vestGain.GreaterThan(t.threshold) {
		return vestGain, EUR(0), relief
	}
	// relief is granted on the part below the threshold only, at the average rate.
	avg, _ := relief.Ratio(vestGain)
	below = t.threshold
	return below, vestGain.Sub(below), below.Scale(avg)
}
