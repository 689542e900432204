package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/rsutax"
	"github.com/shopspring/decimal"
)

// Report renders the transactions sold in year and their tax summary.
func Report(year int, txs []rsutax.ProcessedTransaction, s rsutax.TaxSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# RSU Tax Report %d\n\n", year)
	fmt.Fprintf(&b, "Policy: %s\n\n", s.Policy)
	fmt.Fprintf(&b, "Marginal tax rate: %s\n\n", rsutax.PercentOf(s.MarginalTaxRate))

	fmt.Fprint(&b, "## Transactions\n\n")
	if len(txs) == 0 {
		fmt.Fprint(&b, "No shares sold.\n\n")
	} else {
		fmt.Fprintln(&b, "| Sold | Vested | Shares | Held | Acquisition Gain | Relief | Capital Gain | Proceeds |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|")
		for _, tx := range rsutax.Sorted(txs) {
			fmt.Fprintf(&b, "| %s | %s | %s | %d days | %s | %s | %s | %s |\n",
				tx.SaleDate,
				tx.VestDate,
				tx.Shares,
				tx.HoldingDays,
				tx.CorrectedVestGain,
				reliefCell(tx),
				tx.CorrectedCapitalGain.SignedString(),
				tx.TotalSalePrice,
			)
		}
		fmt.Fprintf(&b, "| **%s** | | | | **%s** | **%s** | **%s** | **%s** |\n\n",
			"Total",
			s.CorrectedVestGain,
			s.TotalRelief,
			s.CorrectedCapitalGain.SignedString(),
			s.TotalSalePrice,
		)
	}

	fmt.Fprint(&b, "## Gains\n\n")
	fmt.Fprintln(&b, "| | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Acquisition gain | %s |\n", s.TotalVestGain)
	fmt.Fprintf(&b, "| Capital gain | %s |\n", s.TotalCapitalGain.SignedString())
	fmt.Fprintf(&b, "| Acquisition gain after loss offset | %s |\n", s.CorrectedVestGain)
	fmt.Fprintf(&b, "| Capital gain after loss offset | %s |\n", s.CorrectedCapitalGain.SignedString())
	if !s.VestGainAboveThreshold.IsZero() {
		fmt.Fprintf(&b, "| Acquisition gain below threshold | %s |\n", s.VestGainBelowThreshold)
		fmt.Fprintf(&b, "| Acquisition gain above threshold | %s |\n", s.VestGainAboveThreshold)
	}
	fmt.Fprintf(&b, "| Holding period relief | %s |\n\n", s.ValidRelief)

	fmt.Fprint(&b, "## Estimated Tax\n\n")
	fmt.Fprintln(&b, "| | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Social contributions | %s |\n", s.SocialContributions)
	fmt.Fprintf(&b, "| Income tax on acquisition gain | %s |\n", s.TaxOnVestGain)
	if !s.SalaryContribution.IsZero() {
		fmt.Fprintf(&b, "| Salary contribution | %s |\n", s.SalaryContribution)
	}
	fmt.Fprintf(&b, "| Flat tax on capital gain | %s |\n", s.TaxOnCapitalGain)
	fmt.Fprintf(&b, "| **Total** | **%s** |\n\n", s.TotalTax)

	if s.RateDefined {
		fmt.Fprintf(&b, "Effective rate: %s of %s proceeds.\n", s.EffectivePercent(), s.TotalSalePrice)
	} else {
		fmt.Fprintf(&b, "Effective rate: undefined (%v).\n", s.Warning)
	}
	return b.String()
}

func reliefCell(tx rsutax.ProcessedTransaction) string {
	if tx.ReliefRate.Equal(decimal.Zero) {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", tx.Relief, rsutax.PercentOf(tx.ReliefRate))
}
