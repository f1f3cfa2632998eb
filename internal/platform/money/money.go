// Package money holds currency amounts as integer minor units so that
// per-second accrual never drifts.
package money

import "fmt"

// Money is an amount in cents.
type Money int64

func Cents(c int64) Money { return Money(c) }

func (m Money) Cents() int64 { return int64(m) }

// Times multiplies a rate by a count of units.
func (m Money) Times(n int) Money { return m * Money(n) }

// String renders the amount with two decimals and no symbol, e.g. "12.40".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Format prefixes the amount with a currency symbol, e.g. "R$ 12.40".
func (m Money) Format(symbol string) string {
	if symbol == "" {
		return m.String()
	}
	return symbol + " " + m.String()
}
