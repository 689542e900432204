package rsutax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rate is an EUR/USD exchange rate, the number of dollars for one euro: usd = eur * rate.
type Rate struct {
	value decimal.Decimal
}

func R[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Rate {
	return Rate{value: newDecimal(value)}
}

func (r Rate) Equal(s Rate) bool        { return r.value.Equal(s.value) }
func (r Rate) IsPositive() bool         { return r.value.IsPositive() }
func (r Rate) Decimal() decimal.Decimal { return r.value }
func (r Rate) String() string           { return r.value.String() }

// ToEUR converts a dollar amount into euros.
func (r Rate) ToEUR(usd Money) Money {
	if usd.cur != "USD" {
		panic(fmt.Sprintf("cannot convert %s to EUR with an EUR/USD rate", usd.cur))
	}
	return Money{value: usd.value.Div(r.value), cur: "EUR"}
}

func (r Rate) MarshalJSON() ([]byte, error) { return r.value.MarshalJSON() }
