package order

import (
	"errors"
	"fmt"
	"strings"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

// ErrLineIsNotConstructed is returned when a Line bypassed NewLine or RestoreLine.
var ErrLineIsNotConstructed = errors.New("Line must be created via NewLine constructor")

// Line is one item of an order. Its total is always quantity × unit price.
type Line struct {
	guard.ConstructorGuard

	id        kernel.UUID
	productID string
	quantity  int
	unitPrice kernel.Money
	total     kernel.Money
}

// NewLine validates a line item and computes its total.
//
// Rules:
//   - productID must not be blank
//   - quantity must be greater than 0
//   - unitPrice must be non-negative with at most two fractional digits
//   - quantity × unitPrice must not exceed kernel.MaxMoney
//
// All violations are reported together.
func NewLine(productID string, quantity int, unitPrice kernel.Money) (Line, error) {
	return RestoreLine(kernel.NewUUID(), productID, quantity, unitPrice)
}

// RestoreLine rebuilds a persisted line. The total is recomputed, never trusted.
func RestoreLine(id kernel.UUID, productID string, quantity int, unitPrice kernel.Money) (Line, error) {
	l := Line{ConstructorGuard: guard.NewConstructorGuard()}

	if err := errors.Join(
		l.setID(id),
		l.setProductID(productID),
		l.setQuantity(quantity),
		l.setUnitPrice(unitPrice),
	); err != nil {
		return Line{}, err
	}

	total, err := kernel.NewMoney(l.unitPrice.Mul(l.quantity).Decimal())
	if err != nil {
		return Line{}, errs.NewValueIsInvalidErrorWithCause("lineTotal", err)
	}
	l.total = total
	return l, nil
}

// Validate ensures the line was built by a constructor.
func (l Line) Validate() error {
	return l.ConstructorGuard.Validate(ErrLineIsNotConstructed)
}

func (l Line) ID() kernel.UUID {
	return l.id
}

func (l Line) ProductID() string {
	return l.productID
}

func (l Line) Quantity() int {
	return l.quantity
}

func (l Line) UnitPrice() kernel.Money {
	return l.unitPrice
}

// Total returns quantity × unit price.
func (l Line) Total() kernel.Money {
	return l.total
}

func (l *Line) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	l.id = id
	return nil
}

func (l *Line) setProductID(productID string) error {
	if strings.TrimSpace(productID) == "" {
		return errs.NewValueIsRequiredError("productId")
	}
	l.productID = productID
	return nil
}

func (l *Line) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	l.quantity = quantity
	return nil
}

func (l *Line) setUnitPrice(unitPrice kernel.Money) error {
	if err := unitPrice.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("unitPrice", err)
	}
	l.unitPrice = unitPrice
	return nil
}
