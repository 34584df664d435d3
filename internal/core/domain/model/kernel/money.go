package kernel

import (
	"fmt"

	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits every amount carries.
const MoneyScale int32 = 2

// maxAmount is the largest value a numeric(19,2) column holds.
var maxAmount = decimal.New(1, 17).Sub(decimal.New(1, -MoneyScale))

// Money is a non-negative monetary amount with exactly MoneyScale fractional digits.
//
// Arithmetic is exact: Money is backed by shopspring/decimal, so sums of
// products never drift the way float64 would.
//
//	price, _ := kernel.NewMoney(decimal.RequireFromString("10.99"))
//	line := price.Mul(3) // 32.97
type Money struct {
	amount        decimal.Decimal
	isConstructed bool
}

// ZeroMoney returns an amount of 0.00.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero, isConstructed: true}
}

// NewMoney validates an amount. Negative values, values above MaxMoney and
// values with more than MoneyScale fractional digits are rejected rather than rounded.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%s is negative", amount.String()),
		)
	}

	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%s has more than %d fractional digits", amount.String(), MoneyScale),
		)
	}

	if amount.GreaterThan(maxAmount) {
		return Money{}, errs.NewValueIsOutOfRangeError(
			"amount", amount.String(), "0.00", maxAmount.StringFixed(MoneyScale),
		)
	}

	return Money{amount: amount, isConstructed: true}, nil
}

// MaxMoney is the largest amount that can be stored: 99999999999999999.99.
func MaxMoney() Money {
	return Money{amount: maxAmount, isConstructed: true}
}

// MoneyFromString parses a decimal literal such as "26.00".
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(amount)
}

// Mul returns the amount multiplied by a quantity.
func (m Money) Mul(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity))), isConstructed: true}
}

// Add returns the sum of both amounts.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), isConstructed: true}
}

// Decimal exposes the underlying value for persistence and transport.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// IsEqual compares amounts numerically, so 5 and 5.00 are equal.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String formats the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}

// Validate rejects the zero value.
func (m Money) Validate() error {
	if !m.isConstructed {
		return errs.NewValueIsRequiredError("amount")
	}
	return nil
}
