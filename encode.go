package rsutax

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
)

// Sorted returns a copy of the processed transactions sorted by sale date, then vest date.
func Sorted(txs []ProcessedTransaction) []ProcessedTransaction {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b ProcessedTransaction) int {
		if c := a.SaleDate.Sub(b.SaleDate); c != 0 {
			return cmp.Compare(c, 0)
		}
		return cmp.Compare(a.VestDate.Sub(b.VestDate), 0)
	})
	return sorted
}

var csvHeader = []string{
	"shares", "vest_date", "vest_price_usd", "vest_exchange_rate", "vest_price_eur",
	"sale_date", "sale_price_usd", "sale_exchange_rate", "sale_price_eur", "capital_gain_eur",
	"total_vest_gain_eur", "total_capital_gain_eur", "total_sale_price_eur", "holding_days",
	"eligible_relief_50", "eligible_relief_65", "relief_eur", "corrected_vest_gain_eur",
	"corrected_capital_gain_eur",
}

// EncodeCSV writes one row per processed transaction, sorted by sale date.
//
// Amounts are written with a dot decimal separator and two digits, per share values with all
// their digits.
func EncodeCSV(w io.Writer, txs []ProcessedTransaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	total := func(m Money) string { return m.Decimal().StringFixed(2) }
	for _, tx := range Sorted(txs) {
		record := []string{
			tx.Shares.String(),
			tx.VestDate.String(),
			tx.VestPrice.Decimal().String(),
			tx.VestRate.String(),
			tx.VestPriceEUR.Decimal().String(),
			tx.SaleDate.String(),
			tx.SalePrice.Decimal().String(),
			tx.SaleRate.String(),
			tx.SalePriceEUR.Decimal().String(),
			tx.CapitalGain.Decimal().String(),
			total(tx.TotalVestGain),
			total(tx.TotalCapitalGain),
			total(tx.TotalSalePrice),
			strconv.Itoa(tx.HoldingDays),
			strconv.FormatBool(tx.Eligible50),
			strconv.FormatBool(tx.Eligible65),
			total(tx.Relief),
			total(tx.CorrectedVestGain),
			total(tx.CorrectedCapitalGain),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot write transaction sold on %s: %w", tx.SaleDate, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalJSON writes the processed transaction with a stable field order.
func (p ProcessedTransaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("shares", p.Shares)
	w.Append("vestDate", p.VestDate)
	w.Append("vestPrice", p.VestPrice.exact())
	w.Append("vestRate", p.VestRate)
	w.Append("vestPriceEur", p.VestPriceEUR)
	w.Append("saleDate", p.SaleDate)
	w.Append("salePrice", p.SalePrice.exact())
	w.Append("saleRate", p.SaleRate)
	w.Append("salePriceEur", p.SalePriceEUR)
	w.Append("capitalGain", p.CapitalGain)
	w.Append("totalVestGain", p.TotalVestGain)
	w.Append("totalCapitalGain", p.TotalCapitalGain)
	w.Append("totalSalePrice", p.TotalSalePrice)
	w.Append("holdingDays", p.HoldingDays)
	w.Append("eligible50", p.Eligible50)
	w.Append("eligible65", p.Eligible65)
	w.Append("reliefRate", p.ReliefRate)
	w.Append("relief", p.Relief)
	w.Append("correctedVestGain", p.CorrectedVestGain)
	w.Append("correctedCapitalGain", p.CorrectedCapitalGain)
	return w.MarshalJSON()
}

// MarshalJSON writes the summary with a stable field order.
func (s TaxSummary) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("policy", s.Policy.String())
	w.Append("marginalTaxRate", s.MarginalTaxRate)
	w.Append("transactions", s.Transactions)
	w.Append("totalVestGain", s.TotalVestGain)
	w.Append("totalCapitalGain", s.TotalCapitalGain)
	w.Append("totalSalePrice", s.TotalSalePrice)
	w.Append("totalRelief", s.TotalRelief)
	w.Append("correctedVestGain", s.CorrectedVestGain)
	w.Append("correctedCapitalGain", s.CorrectedCapitalGain)
	w.Append("vestGainBelowThreshold", s.VestGainBelowThreshold)
	w.Append("vestGainAboveThreshold", s.VestGainAboveThreshold)
	w.Append("validRelief", s.ValidRelief)
	w.Append("socialContributions", s.SocialContributions)
	w.Append("taxOnVestGain", s.TaxOnVestGain)
	w.Append("salaryContribution", s.SalaryContribution)
	w.Append("taxOnCapitalGain", s.TaxOnCapitalGain)
	w.Append("totalTax", s.TotalTax)
	if s.RateDefined {
		w.Append("effectiveRate", s.EffectiveRate.Round(6))
	} else {
		w.Append("effectiveRate", nil)
	}
	if s.Warning != nil {
		w.Append("warning", s.Warning.Error())
	}
	return w.MarshalJSON()
}
