package rsutax

import (
	"errors"
	"fmt"
	"slices"

	"github.com/etnz/rsutax/date"
	"github.com/shopspring/decimal"
)

// Observation is one day of a published EUR/USD series.
//
// An invalid Rate means the rate was not published that day (week-end, bank holiday).
type Observation struct {
	On   date.Date
	Rate decimal.NullDecimal
}

// Published returns an Observation for a day with a published rate.
func Published(on date.Date, rate decimal.Decimal) Observation {
	return Observation{On: on, Rate: decimal.NewNullDecimal(rate)}
}

// Closed returns an Observation for a day without a published rate.
func Closed(on date.Date) Observation { return Observation{On: on} }

// ExchangeRates is the daily EUR/USD table.
//
// It is immutable once built and can be shared freely.
type ExchangeRates struct {
	rates date.History[Rate]
	span  date.Range
}

// NewExchangeRates builds the table from a dated series.
//
// Every calendar day between the first and the last observation gets a rate: its own when
// published, otherwise the next published one. A Saturday therefore takes the following
// Monday's rate. Days after the last published rate stay unknown.
func NewExchangeRates(series []Observation) (*ExchangeRates, error) {
	obs := slices.Clone(series)
	slices.SortFunc(obs, func(a, b Observation) int { return a.On.Sub(b.On) })

	var published date.History[Rate]
	var errs error
	for i, o := range obs {
		if i > 0 && o.On == obs[i-1].On {
			errs = errors.Join(errs, fmt.Errorf("duplicate exchange rate on %s", o.On))
			continue
		}
		if !o.Rate.Valid {
			continue
		}
		if !o.Rate.Decimal.IsPositive() {
			errs = errors.Join(errs, fmt.Errorf("invalid exchange rate %v on %s: must be positive", o.Rate.Decimal, o.On))
			continue
		}
		published.Append(o.On, Rate{value: o.Rate.Decimal})
	}
	if errs != nil {
		return nil, errs
	}

	x := new(ExchangeRates)
	if len(obs) == 0 {
		return x, nil
	}
	x.span = date.Range{From: obs[0].On, To: obs[len(obs)-1].On}
	for day := range x.span.Days() {
		_, rate, ok := published.ValueOnOrAfter(day)
		if !ok {
			break // trailing closed days
		}
		x.rates.Append(day, rate)
	}
	return x, nil
}

// RateFor returns the EUR/USD rate to use on a given day.
// A nil table has no rate for any day.
func (x *ExchangeRates) RateFor(day date.Date) (Rate, error) {
	if x == nil {
		return Rate{}, fmt.Errorf("%w on %s: no exchange rate table", ErrRateNotFound, day)
	}
	rate, ok := x.rates.Get(day)
	if !ok {
		return Rate{}, fmt.Errorf("%w on %s", ErrRateNotFound, day)
	}
	return rate, nil
}

// Len returns the number of days with a rate.
func (x *ExchangeRates) Len() int { return x.rates.Len() }

// Span returns the range of days covered by the source series.
func (x *ExchangeRates) Span() date.Range { return x.span }

// Latest returns the last day with a rate and that rate.
func (x *ExchangeRates) Latest() (date.Date, Rate) { return x.rates.Latest() }
