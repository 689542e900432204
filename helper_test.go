package rsutax

import (
	"testing"

	"github.com/etnz/rsutax/date"
	"github.com/shopspring/decimal"
)

// dec is a helper for test to create decimals from const.
func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// constantRates builds a table with the same rate published every day from 'from' to 'to'.
func constantRates(t *testing.T, from, to date.Date, rate string) *ExchangeRates {
	t.Helper()
	var obs []Observation
	for day := range (date.Range{From: from, To: to}).Days() {
		obs = append(obs, Published(day, dec(rate)))
	}
	x, err := NewExchangeRates(obs)
	if err != nil {
		t.Fatalf("NewExchangeRates() error = %v", err)
	}
	return x
}

// lot is a helper for test to create a raw lot with USD prices.
func lot(shares int, vest string, vestPrice float64, sale string, salePrice float64) RawLot {
	return RawLot{
		Shares:    Q(shares),
		VestDate:  date.MustParse(vest),
		VestPrice: USD(vestPrice),
		SaleDate:  date.MustParse(sale),
		SalePrice: USD(salePrice),
	}
}
