package valueobjects

import (
	"github.com/shopspring/decimal"

	pkgerrors "recurring-orders/pkg/errors"
)

// Amount is a USD amount in cents. 1000 is $10.00.
// Integer minor units keep rounding out of the money path.
type Amount struct {
	cents int64
}

// NewAmount creates an Amount; it must be strictly positive
func NewAmount(cents int64) (Amount, error) {
	if cents <= 0 {
		return Amount{}, pkgerrors.NewValidationErrorf("amount must be greater than 0; got %d", cents)
	}
	return Amount{cents: cents}, nil
}

// Cents returns the amount in minor units
func (a Amount) Cents() int64 {
	return a.cents
}

// USD returns the amount in dollars, e.g. "10.00"
func (a Amount) USD() string {
	return decimal.New(a.cents, -2).StringFixed(2)
}

// IsZero reports whether the amount was never set
func (a Amount) IsZero() bool {
	return a.cents == 0
}
