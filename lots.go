package rsutax

import (
	"errors"
	"fmt"

	"github.com/etnz/rsutax/date"
	"github.com/shopspring/decimal"
)

// priceTolerance is the largest per share price difference accepted between merged lots, in USD.
var priceTolerance = decimal.New(1, -2)

// keyPrecision is the number of decimal places kept in the merge key: a hundredth of a cent.
const keyPrecision = 4

// RawLot is one broker reported sub-transaction within a sale event.
type RawLot struct {
	Shares    Quantity
	VestDate  date.Date
	VestPrice Money // per share, USD
	SaleDate  date.Date
	SalePrice Money // per share, USD
}

// Validate checks the lot is usable.
func (l RawLot) Validate() error {
	var errs error
	if !l.Shares.IsPositive() || !l.Shares.IsInteger() {
		errs = errors.Join(errs, fmt.Errorf("shares must be a positive integer, got %v", l.Shares))
	}
	if !l.VestPrice.IsPositive() {
		errs = errors.Join(errs, fmt.Errorf("vest price must be positive, got %v", l.VestPrice.Decimal()))
	}
	if !l.SalePrice.IsPositive() {
		errs = errors.Join(errs, fmt.Errorf("sale price must be positive, got %v", l.SalePrice.Decimal()))
	}
	if l.SaleDate.Before(l.VestDate) {
		errs = errors.Join(errs, fmt.Errorf("sale date %s is before vest date %s", l.SaleDate, l.VestDate))
	}
	if errs != nil {
		return fmt.Errorf("invalid lot vested %s sold %s: %w", l.VestDate, l.SaleDate, errs)
	}
	return nil
}

// Transaction is a canonical taxable transaction: the sum of all raw lots sharing a LotKey.
type Transaction RawLot

// LotKey identifies the lots describing the same economic transaction.
//
// Prices are kept as fixed-point integers so that the key never depends on float equality.
type LotKey struct {
	VestDate  date.Date
	SaleDate  date.Date
	VestTicks int64 // per share vest price in 1/10000 USD
	SaleTicks int64 // per share sale price in 1/10000 USD
}

func ticks(m Money) int64 { return m.value.Shift(keyPrecision).Round(0).IntPart() }

// Key returns the merge key of the lot.
func (l RawLot) Key() LotKey {
	return LotKey{
		VestDate:  l.VestDate,
		SaleDate:  l.SaleDate,
		VestTicks: ticks(l.VestPrice),
		SaleTicks: ticks(l.SalePrice),
	}
}

// Normalize merges raw lots into canonical transactions.
//
// Lots sharing a key are merged by summing their shares. Merged lots must agree on prices
// within a cent, otherwise an *InconsistentLotError is returned and nothing else.
// Transactions come in the order their key first appears.
func Normalize(lots []RawLot) ([]Transaction, error) {
	var errs error
	for _, l := range lots {
		if err := l.Validate(); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}

	index := make(map[LotKey]int)
	txs := make([]Transaction, 0, len(lots))
	for _, l := range lots {
		key := l.Key()
		i, exists := index[key]
		if !exists {
			index[key] = len(txs)
			txs = append(txs, Transaction(l))
			continue
		}
		first := txs[i]
		if err := samePrice(key, "vest price", first.VestPrice, l.VestPrice); err != nil {
			return nil, err
		}
		if err := samePrice(key, "sale price", first.SalePrice, l.SalePrice); err != nil {
			return nil, err
		}
		txs[i].Shares = first.Shares.Add(l.Shares)
	}
	return txs, nil
}

func samePrice(key LotKey, field string, want, got Money) error {
	if want.Sub(got).Abs().Decimal().GreaterThan(priceTolerance) {
		return &InconsistentLotError{Key: key, Field: field, Want: want, Got: got}
	}
	return nil
}
