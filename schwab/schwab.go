// Package schwab decodes the equity award history exported by Charles Schwab.
//
// Only sale events are read. Each one lists the lots sold, with their vest date and fair
// market value, and the event totals used to reconcile them.
package schwab

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/rsutax"
	"github.com/etnz/rsutax/date"
	"github.com/shopspring/decimal"
)

const (
	dateLayout       = "01/02/2006"
	transactionsPath = "$.Transactions"
	salesPath        = `$.Transactions[?(@.Action == "Sale")]`
)

// amountTolerance is the largest accepted difference between the lots and the reported net amount.
var amountTolerance = decimal.New(1, -2)

// field accepts a JSON string, number or null.
type field string

func (f *field) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = field(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected a string or a number, got %s", b)
	}
	*f = field(n)
	return nil
}

type saleEvent struct {
	Date               field
	Action             field
	Symbol             field
	Quantity           field
	FeesAndCommissions field
	Amount             field
	TransactionDetails []struct {
		Details lotDetails
	}
}

type lotDetails struct {
	Type                field
	Shares              field
	SalePrice           field
	VestDate            field
	VestFairMarketValue field
}

// Decode reads the lots of every sale event dated in year.
//
// Events that do not reconcile with their own totals are reported as *rsutax.ReconciliationError,
// all of them at once.
func Decode(r io.Reader, year int) ([]rsutax.RawLot, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("invalid schwab export: %w", err)
	}
	// an export without transactions is truncated, not a year without sales.
	jval, err := jsonpath.Get(transactionsPath, jobj)
	if _, ok := jval.([]any); err != nil || !ok {
		return nil, fmt.Errorf("invalid schwab export: no transactions list at %q", transactionsPath)
	}
	jval, err = jsonpath.Get(salesPath, jobj)
	if err != nil {
		return nil, fmt.Errorf("error selecting sales %q: %w", salesPath, err)
	}
	sales, ok := jval.([]any)
	if !ok && jval != nil {
		return nil, fmt.Errorf("error selecting sales %q: not a list %v", salesPath, jval)
	}

	fiscalYear := date.FiscalYear(year)
	var lots []rsutax.RawLot
	var errs error
	for i, sale := range sales {
		event, err := reread(sale)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("sale event #%d: %w", i+1, err))
			continue
		}
		saleDate, err := date.ParseLayout(dateLayout, string(event.Date))
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("sale event #%d: invalid date: %w", i+1, err))
			continue
		}
		if !fiscalYear.Contains(saleDate) {
			continue
		}
		eventLots, err := event.lots(saleDate)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("sale event #%d: %w", i+1, err))
			continue
		}
		lots = append(lots, eventLots...)
	}
	if errs != nil {
		return nil, errs
	}
	return lots, nil
}

// reread converts a generic JSON value into a saleEvent.
func reread(v any) (saleEvent, error) {
	var event saleEvent
	b, err := json.Marshal(v)
	if err != nil {
		return event, err
	}
	err = json.Unmarshal(b, &event)
	return event, err
}

// lots parses the event details and reconciles them with the event totals.
func (e saleEvent) lots(saleDate date.Date) ([]rsutax.RawLot, error) {
	var lots []rsutax.RawLot
	shares := decimal.Zero
	gross := decimal.Zero
	for i, d := range e.TransactionDetails {
		lot, err := d.Details.lot(saleDate)
		if err != nil {
			return nil, fmt.Errorf("lot #%d of %s: %w", i+1, saleDate, err)
		}
		shares = shares.Add(lot.Shares.Decimal())
		gross = gross.Add(lot.SalePrice.Mul(lot.Shares).Decimal())
		lots = append(lots, lot)
	}

	var problems []string
	quantity, err := decimal.NewFromString(strings.ReplaceAll(string(e.Quantity), ",", ""))
	if err != nil {
		problems = append(problems, fmt.Sprintf("invalid quantity %q", e.Quantity))
	} else if !quantity.Equal(shares) {
		problems = append(problems, fmt.Sprintf("lots sum to %v shares, event reports %v", shares, quantity))
	}

	fees := decimal.Zero
	if strings.TrimSpace(string(e.FeesAndCommissions)) != "" {
		if fees, err = ParseUSD(string(e.FeesAndCommissions)); err != nil {
			problems = append(problems, fmt.Sprintf("invalid fees: %v", err))
		}
	}
	amount, err := ParseUSD(string(e.Amount))
	if err != nil {
		problems = append(problems, fmt.Sprintf("invalid amount: %v", err))
	} else if net := gross.Sub(fees); net.Sub(amount).Abs().GreaterThan(amountTolerance) {
		problems = append(problems, fmt.Sprintf("lots sum to $%s net of fees, event reports $%s", net.StringFixed(2), amount.StringFixed(2)))
	}

	if len(problems) > 0 {
		return nil, &rsutax.ReconciliationError{SaleDate: saleDate, Problems: problems}
	}
	return lots, nil
}

func (d lotDetails) lot(saleDate date.Date) (rsutax.RawLot, error) {
	shares, err := decimal.NewFromString(strings.TrimSpace(string(d.Shares)))
	if err != nil {
		return rsutax.RawLot{}, fmt.Errorf("invalid shares %q", d.Shares)
	}
	vestDate, err := date.ParseLayout(dateLayout, string(d.VestDate))
	if err != nil {
		return rsutax.RawLot{}, fmt.Errorf("invalid vest date: %w", err)
	}
	vestPrice, err := ParseUSD(string(d.VestFairMarketValue))
	if err != nil {
		return rsutax.RawLot{}, fmt.Errorf("invalid vest fair market value: %w", err)
	}
	salePrice, err := ParseUSD(string(d.SalePrice))
	if err != nil {
		return rsutax.RawLot{}, fmt.Errorf("invalid sale price: %w", err)
	}
	return rsutax.RawLot{
		Shares:    rsutax.Q(shares),
		VestDate:  vestDate,
		VestPrice: rsutax.USD(vestPrice),
		SaleDate:  saleDate,
		SalePrice: rsutax.USD(salePrice),
	}, nil
}

// ParseUSD parses a dollar amount like "$1,234.5678" or "-$12.00".
func ParseUSD(s string) (decimal.Decimal, error) {
	v := strings.TrimSpace(s)
	negative := strings.HasPrefix(v, "-")
	v = strings.TrimPrefix(v, "-")
	v = strings.TrimPrefix(v, "$")
	v = strings.ReplaceAll(v, ",", "")
	if v == "" {
		return decimal.Zero, fmt.Errorf("empty amount %q", s)
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
