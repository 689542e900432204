package rsutax

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/rsutax/date"
)

// ErrRateNotFound is returned when no exchange rate, published or filled, exists for a day.
var ErrRateNotFound = errors.New("exchange rate not found")

// ErrDivisionUndefined flags a summary whose effective rate cannot be computed because
// the total sale proceeds are zero. It is reported in TaxSummary.Warning, never returned.
var ErrDivisionUndefined = errors.New("effective rate undefined: total sale proceeds are zero")

// InconsistentLotError reports raw lots sharing a merge key but disagreeing on price.
type InconsistentLotError struct {
	Key   LotKey
	Field string // "vest price" or "sale price"
	Want  Money
	Got   Money
}

func (e *InconsistentLotError) Error() string {
	return fmt.Sprintf("inconsistent lots vested %s sold %s: %s %v differs from %v by more than %v",
		e.Key.VestDate, e.Key.SaleDate, e.Field, e.Got.Decimal(), e.Want.Decimal(), priceTolerance)
}

// ReconciliationError reports a broker sale event whose lots do not add up to the event totals.
type ReconciliationError struct {
	SaleDate date.Date
	Problems []string
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("sale of %s does not reconcile: %s", e.SaleDate, strings.Join(e.Problems, "; "))
}
