package rsutax

import (
	"fmt"

	"github.com/etnz/rsutax/date"
	"github.com/shopspring/decimal"
)

// reliefTier is a holding period relief: shares held strictly longer than MinDays get Rate.
type reliefTier struct {
	MinDays int
	Rate    decimal.Decimal
}

// reliefTiers are sorted from the longest holding period, the first matching tier wins.
var reliefTiers = []reliefTier{
	{MinDays: 8 * 365, Rate: decimal.RequireFromString("0.65")},
	{MinDays: 2 * 365, Rate: decimal.RequireFromString("0.50")},
}

// ReliefRate returns the holding period relief rate for shares held that many days.
func ReliefRate(holdingDays int) decimal.Decimal {
	for _, tier := range reliefTiers {
		if holdingDays > tier.MinDays {
			return tier.Rate
		}
	}
	return decimal.Zero
}

// ProcessedTransaction is a Transaction with its EUR values and tax decomposition.
type ProcessedTransaction struct {
	Transaction

	VestRate     Rate  // EUR/USD on the vest date
	SaleRate     Rate  // EUR/USD on the sale date
	VestPriceEUR Money // per share
	SalePriceEUR Money // per share
	CapitalGain  Money // per share, sale minus vest, EUR

	TotalVestGain    Money // acquisition gain
	TotalCapitalGain Money
	TotalSalePrice   Money // proceeds

	HoldingDays          int
	Eligible50           bool // held more than 2 years
	Eligible65           bool // held more than 8 years
	ReliefRate           decimal.Decimal
	Relief               Money
	CorrectedVestGain    Money // acquisition gain after loss offset
	CorrectedCapitalGain Money // capital gain after loss offset, negative for a residual loss
}

// Process converts a transaction into EUR and computes its gains and relief.
func Process(tx Transaction, rates *ExchangeRates) (ProcessedTransaction, error) {
	vestRate, err := rates.RateFor(tx.VestDate)
	if err != nil {
		return ProcessedTransaction{}, fmt.Errorf("vest of %v shares: %w", tx.Shares, err)
	}
	saleRate, err := rates.RateFor(tx.SaleDate)
	if err != nil {
		return ProcessedTransaction{}, fmt.Errorf("sale of %v shares: %w", tx.Shares, err)
	}

	p := ProcessedTransaction{
		Transaction:  tx,
		VestRate:     vestRate,
		SaleRate:     saleRate,
		VestPriceEUR: vestRate.ToEUR(tx.VestPrice).exact(),
		SalePriceEUR: saleRate.ToEUR(tx.SalePrice).exact(),
	}
	p.CapitalGain = p.SalePriceEUR.Sub(p.VestPriceEUR).exact()
	p.TotalVestGain = p.VestPriceEUR.Mul(tx.Shares)
	p.TotalCapitalGain = p.CapitalGain.Mul(tx.Shares)
	p.TotalSalePrice = p.SalePriceEUR.Mul(tx.Shares)

	p.CorrectedVestGain, p.CorrectedCapitalGain = OffsetLoss(p.TotalVestGain, p.TotalCapitalGain)

	p.HoldingDays = HoldingDays(tx.VestDate, tx.SaleDate)
	p.Eligible50 = p.HoldingDays > 2*365
	p.Eligible65 = p.HoldingDays > 8*365
	p.ReliefRate = ReliefRate(p.HoldingDays)
	p.Relief = p.CorrectedVestGain.Scale(p.ReliefRate)
	return p, nil
}

// HoldingDays returns the number of days shares vested on vest and sold on sale were held.
func HoldingDays(vest, sale date.Date) int { return sale.Sub(vest) }

// OffsetLoss reduces the acquisition gain by a capital loss.
//
// The acquisition gain never goes below zero: the part of the loss it cannot absorb remains
// a capital loss. A capital gain leaves both values untouched. The sum of the two values is
// always preserved.
func OffsetLoss(vestGain, capitalGain Money) (correctedVest, correctedCapital Money) {
	zero := Money{cur: cur(vestGain, capitalGain)}
	switch {
	case !capitalGain.IsNegative():
		return vestGain, capitalGain
	case vestGain.GreaterThanOrEqual(capitalGain.Abs()):
		return vestGain.Add(capitalGain), zero
	default:
		return zero, vestGain.Add(capitalGain)
	}
}

// ProcessAll processes every transaction, stopping at the first error.
func ProcessAll(txs []Transaction, rates *ExchangeRates) ([]ProcessedTransaction, error) {
	processed := make([]ProcessedTransaction, 0, len(txs))
	for _, tx := range txs {
		p, err := Process(tx, rates)
		if err != nil {
			return nil, err
		}
		processed = append(processed, p)
	}
	return processed, nil
}
