package rsutax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a ratio expressed in percent, 17.2 stands for 17.2%.
type Percent float64

// PercentOf converts a ratio (0.172) into a Percent (17.2).
func PercentOf(ratio decimal.Decimal) Percent {
	return Percent(ratio.Shift(2).InexactFloat64())
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}
