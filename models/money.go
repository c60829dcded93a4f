package models

import (
	"fmt"
	"math"
)

// Money is a currency amount in paise (minor units). All wallet and fare
// arithmetic happens on this fixed-point representation so that a refund of a
// debited amount restores the exact original balance.
type Money int64

// RupeesToMoney converts a rupee amount to paise with 2-decimal rounding.
func RupeesToMoney(rupees float64) Money {
	return Money(math.Round(rupees * 100))
}

// Rupees returns the amount as a rupee float for JSON boundaries. Display
// only; arithmetic stays in paise.
func (m Money) Rupees() float64 {
	return float64(m) / 100
}

// String renders the amount as "₹1234.50".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s₹%d.%02d", sign, v/100, v%100)
}
