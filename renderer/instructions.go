package renderer

import (
	"github.com/etnz/rsutax"
)

// Declaration holds the amounts to report on the income tax return, in whole euros.
type Declaration struct {
	Year       int // of the sales
	FilingYear int
	Policy     string

	Box1TZ int64 // acquisition gain below the threshold, after relief
	Box1UZ int64 // holding period relief
	Box1TT int64 // acquisition gain above the threshold
	Box3VG int64 // net capital gain
	Box3VH int64 // net capital loss
}

// NewDeclaration maps a tax summary onto the boxes of form 2042-C.
func NewDeclaration(year int, s rsutax.TaxSummary) Declaration {
	euros := func(m rsutax.Money) int64 { return m.Decimal().Round(0).IntPart() }
	d := Declaration{
		Year:       year,
		FilingYear: year + 1,
		Policy:     s.Policy.String(),
		Box1TZ:     euros(s.VestGainBelowThreshold.Sub(s.ValidRelief)),
		Box1UZ:     euros(s.ValidRelief),
		Box1TT:     euros(s.VestGainAboveThreshold),
	}
	switch {
	case s.CorrectedCapitalGain.IsPositive():
		d.Box3VG = euros(s.CorrectedCapitalGain)
	case s.CorrectedCapitalGain.IsNegative():
		d.Box3VH = euros(s.CorrectedCapitalGain.Abs())
	}
	return d
}

// Instructions renders the steps to report the sales of year on the income tax return.
func Instructions(year int, s rsutax.TaxSummary) string {
	d := NewDeclaration(year, s)
	partials := map[string]string{
		"instructions_vest":    "instructions_vest.md",
		"instructions_capital": "",
	}
	switch {
	case d.Box3VG > 0:
		partials["instructions_capital"] = "instructions_capital_gain.md"
	case d.Box3VH > 0:
		partials["instructions_capital"] = "instructions_capital_loss.md"
	}
	return renderTemplate("instructions", "instructions.md", partials, d)
}
