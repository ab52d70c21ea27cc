// README: Common money value object used across modules.
package types

import (
	"fmt"
	"math"
)

// Money is an amount in minor units (cents).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// MaxUSD is the largest magnitude USD converts without overflowing int64 cents.
const MaxUSD = 9e16

// USD rounds v to the nearest cent, halves away from zero. Values beyond
// ±MaxUSD saturate there and NaN becomes zero.
func USD(v float64) Money {
	switch {
	case math.IsNaN(v):
		v = 0
	case v > MaxUSD:
		v = MaxUSD
	case v < -MaxUSD:
		v = -MaxUSD
	}
	return Money{Amount: int64(math.Round(v * 100)), Currency: "USD"}
}

// Float returns the amount in major units.
func (m Money) Float() float64 {
	return float64(m.Amount) / 100
}

func (m Money) String() string {
	sign := ""
	a := m.Amount
	if a < 0 {
		sign = "-"
		a = -a
	}
	symbol := "$"
	if m.Currency != "" && m.Currency != "USD" {
		symbol = m.Currency + " "
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, symbol, a/100, a%100)
}
