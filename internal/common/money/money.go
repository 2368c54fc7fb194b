package money

import (
	"errors"
	"fmt"
	"math"
)

// Amounts are stored in minor units (cents) of a single stablecoin (USDT).
// Example: $10.50 is stored as 1050.
type Cents int64

var (
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrNonPositiveAmount = errors.New("amount must be positive")
)

// FromUSD converts a dollar value to cents, rounding to the nearest cent.
func FromUSD(usd float64) Cents {
	return Cents(math.Round(usd * 100))
}

// USD returns the dollar value of the amount.
func (c Cents) USD() float64 {
	return float64(c) / 100
}

// Add returns c + other.
func (c Cents) Add(other Cents) Cents {
	return c + other
}

// Sub subtracts other from c, failing instead of going negative.
func (c Cents) Sub(other Cents) (Cents, error) {
	if other > c {
		return c, ErrInsufficientFunds
	}
	return c - other, nil
}

// Validate rejects zero and negative amounts.
func (c Cents) Validate() error {
	if c <= 0 {
		return ErrNonPositiveAmount
	}
	return nil
}

func (c Cents) String() string {
	sign := ""
	v := c
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}
