package rsutax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxSummary is the yearly tax estimate for a set of processed transactions.
type TaxSummary struct {
	Policy          TaxPolicy
	MarginalTaxRate decimal.Decimal
	Transactions    int

	TotalVestGain        Money
	TotalCapitalGain     Money
	TotalSalePrice       Money
	TotalRelief          Money
	CorrectedVestGain    Money
	CorrectedCapitalGain Money

	// Acquisition gain split at the policy threshold, all of it is below for FlatRegime.
	VestGainBelowThreshold Money
	VestGainAboveThreshold Money
	ValidRelief            Money // relief actually granted

	SocialContributions Money
	TaxOnVestGain       Money
	SalaryContribution  Money
	TaxOnCapitalGain    Money
	TotalTax            Money

	EffectiveRate decimal.Decimal // TotalTax / TotalSalePrice
	RateDefined   bool
	Warning       error // ErrDivisionUndefined when there are no proceeds
}

// EffectivePercent returns the effective rate as a Percent.
func (s TaxSummary) EffectivePercent() Percent { return PercentOf(s.EffectiveRate) }

// Aggregate sums processed transactions and computes the tax under a policy.
//
// Zero total proceeds is not an error: the summary then has a zero effective rate,
// RateDefined is false and Warning is ErrDivisionUndefined.
func Aggregate(txs []ProcessedTransaction, marginalTaxRate decimal.Decimal, policy TaxPolicy) (TaxSummary, error) {
	if marginalTaxRate.IsNegative() || marginalTaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return TaxSummary{}, fmt.Errorf("marginal tax rate %v out of range [0,1)", marginalTaxRate)
	}
	table, err := policy.rates()
	if err != nil {
		return TaxSummary{}, err
	}

	s := TaxSummary{
		Policy:               policy,
		MarginalTaxRate:      marginalTaxRate,
		Transactions:         len(txs),
		TotalVestGain:        EUR(0),
		TotalCapitalGain:     EUR(0),
		TotalSalePrice:       EUR(0),
		TotalRelief:          EUR(0),
		CorrectedVestGain:    EUR(0),
		CorrectedCapitalGain: EUR(0),
	}
	for _, tx := range txs {
		s.TotalVestGain = s.TotalVestGain.Add(tx.TotalVestGain)
		s.TotalCapitalGain = s.TotalCapitalGain.Add(tx.TotalCapitalGain)
		s.TotalSalePrice = s.TotalSalePrice.Add(tx.TotalSalePrice)
		s.TotalRelief = s.TotalRelief.Add(tx.Relief)
		s.CorrectedVestGain = s.CorrectedVestGain.Add(tx.CorrectedVestGain)
		s.CorrectedCapitalGain = s.CorrectedCapitalGain.Add(tx.CorrectedCapitalGain)
	}

	below, above, validRelief := table.split(s.CorrectedVestGain, s.TotalRelief)
	s.VestGainBelowThreshold, s.VestGainAboveThreshold, s.ValidRelief = below, above, validRelief

	s.SocialContributions = below.Scale(table.socialBelow).Add(above.Scale(table.socialAbove))
	s.TaxOnVestGain = below.Sub(validRelief).Add(above).Scale(marginalTaxRate)
	s.SalaryContribution = above.Scale(table.salaryAbove)
	s.TaxOnCapitalGain = s.CorrectedCapitalGain.Scale(table.flatTax)
	s.TotalTax = s.SocialContributions.Add(s.TaxOnVestGain).Add(s.TaxOnCapitalGain).Add(s.SalaryContribution)

	if s.EffectiveRate, s.RateDefined = s.TotalTax.Ratio(s.TotalSalePrice); !s.RateDefined {
		s.Warning = ErrDivisionUndefined
	}
	return s, nil
}
