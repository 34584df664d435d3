package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderHasNoLines is returned when an order would be created without line items.
	ErrOrderHasNoLines = errs.NewValueIsRequiredError("items")
)

// MaxIdempotencyKeyLength matches the width of the unique column in storage.
const MaxIdempotencyKeyLength = 255

// Order is the aggregate root for a purchase order.
//
// Order follows these invariants:
//   - Has at least one line and its total equals the sum of line totals
//   - Status is always one of the defined states
//   - canceledAt is set at most once, and only while Pending
//   - updatedAt is never earlier than createdAt and moves on every mutation
//
// Fields are private; state changes go through UpdateStatus, Cancel and Promote.
type Order struct {
	guard.ConstructorGuard

	// id is immutable after creation
	id kernel.UUID

	customerID string

	// status is the position in the lifecycle state machine
	status Status

	// lines keep the order in which they were submitted
	lines []Line

	// total is derived from lines
	total kernel.Money

	// idempotencyKey is empty when the order was created without one
	idempotencyKey string

	createdAt  time.Time
	updatedAt  time.Time
	canceledAt *time.Time
}

// NewOrder creates a Pending order with derived line and order totals.
//
// Parameters:
//   - id: unique identifier for the order
//   - customerID: non-blank customer identifier
//   - lines: at least one line built with NewLine
//   - idempotencyKey: the resolved deduplication key, or "" for none
//   - now: creation time, also used as the first updatedAt
//
// Example:
//
//	line, _ := order.NewLine("sku-1", 2, price)
//	o, err := order.NewOrder(kernel.NewUUID(), "customer-1", []order.Line{line}, key, time.Now())
func NewOrder(id kernel.UUID, customerID string, lines []Line, idempotencyKey string, now time.Time) (*Order, error) {
	o := &Order{
		ConstructorGuard: guard.NewConstructorGuard(),
		status:           Pending,
		createdAt:        now,
		updatedAt:        now,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setLines(lines),
		o.setIdempotencyKey(idempotencyKey),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order loaded from persistence or a cache.
// The total is recomputed from the lines and every field is validated again.
func RestoreOrder(
	id kernel.UUID,
	customerID string,
	status Status,
	lines []Line,
	idempotencyKey string,
	createdAt, updatedAt time.Time,
	canceledAt *time.Time,
) (*Order, error) {
	o := &Order{
		ConstructorGuard: guard.NewConstructorGuard(),
		createdAt:        createdAt,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setStatus(status),
		o.setLines(lines),
		o.setIdempotencyKey(idempotencyKey),
		o.setUpdatedAt(updatedAt),
		o.setCanceledAt(canceledAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.ConstructorGuard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() string {
	return o.customerID
}

func (o *Order) Status() Status {
	return o.status
}

// Lines returns a copy of the line items in submission order.
func (o *Order) Lines() []Line {
	lines := make([]Line, len(o.lines))
	copy(lines, o.lines)
	return lines
}

func (o *Order) Total() kernel.Money {
	return o.total
}

// IdempotencyKey returns "" when the order has none.
func (o *Order) IdempotencyKey() string {
	return o.idempotencyKey
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// CanceledAt returns nil for orders that were never canceled.
func (o *Order) CanceledAt() *time.Time {
	if o.canceledAt == nil {
		return nil
	}
	canceledAt := *o.canceledAt
	return &canceledAt
}

// IsCanceled reports whether Cancel has succeeded on this order.
func (o *Order) IsCanceled() bool {
	return o.canceledAt != nil
}

// UpdateStatus performs a manual status transition.
//
// Rules are checked in this order, and the first violation is returned as
// an *errs.ConflictError:
//   - the order has been canceled
//   - the order is Pending (only promotion may leave Pending)
//   - the order is Delivered
//   - the target is not the single successor of the current status
//
// Example:
//
//	if err := o.UpdateStatus(order.Shipped, time.Now()); err != nil {
//	    var conflict *errs.ConflictError
//	    errors.As(err, &conflict) // conflict.Reason == order.ReasonProcessingToShipped
//	}
func (o *Order) UpdateStatus(target Status, now time.Time) error {
	if o.IsCanceled() {
		return errs.NewConflictError(ReasonCanceled)
	}

	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch(now)
	return nil
}

// Cancel marks a Pending order as canceled. The status stays Pending.
func (o *Order) Cancel(now time.Time) error {
	if o.IsCanceled() {
		return errs.NewConflictError(ReasonAlreadyCanceled)
	}
	if o.status != Pending {
		return errs.NewConflictError(ReasonCancelOnlyPending)
	}

	o.touch(now)
	canceledAt := o.updatedAt
	o.canceledAt = &canceledAt
	return nil
}

// IsPromotable reports whether bulk promotion applies to this order.
func (o *Order) IsPromotable() bool {
	return o.status == Pending && !o.IsCanceled()
}

// Promote moves a Pending, non-canceled order to Processing.
// Stores that cannot run the bulk statement natively apply it per order.
func (o *Order) Promote(now time.Time) error {
	if o.IsCanceled() {
		return errs.NewConflictError(ReasonCanceled)
	}

	newStatus, err := o.status.Promote()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.touch(now)
	return nil
}

// touch keeps updatedAt monotonic even if the clock steps backwards.
func (o *Order) touch(now time.Time) {
	if now.After(o.updatedAt) {
		o.updatedAt = now
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID string) error {
	if strings.TrimSpace(customerID) == "" {
		return errs.NewValueIsRequiredError("customerId")
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setLines(lines []Line) error {
	if len(lines) == 0 {
		return ErrOrderHasNoLines
	}

	total := kernel.ZeroMoney()
	for i, l := range lines {
		if err := l.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", i), err)
		}
		total = total.Add(l.Total())
	}
	if _, err := kernel.NewMoney(total.Decimal()); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("totalAmount", err)
	}

	o.lines = make([]Line, len(lines))
	copy(o.lines, lines)
	o.total = total
	return nil
}

func (o *Order) setIdempotencyKey(key string) error {
	if len(key) > MaxIdempotencyKeyLength {
		return errs.NewValueIsOutOfRangeError("idempotencyKey length", len(key), 0, MaxIdempotencyKeyLength)
	}
	o.idempotencyKey = key
	return nil
}

func (o *Order) setUpdatedAt(updatedAt time.Time) error {
	if updatedAt.Before(o.createdAt) {
		return errs.NewValueIsInvalidErrorWithCause(
			"updatedAt",
			fmt.Errorf("%s is before createdAt %s", updatedAt.Format(time.RFC3339Nano), o.createdAt.Format(time.RFC3339Nano)),
		)
	}
	o.updatedAt = updatedAt
	return nil
}

func (o *Order) setCanceledAt(canceledAt *time.Time) error {
	if canceledAt == nil {
		return nil
	}
	if o.status != Pending {
		return errs.NewValueIsInvalidErrorWithCause(
			"canceledAt",
			fmt.Errorf("canceled order has status %s", o.status.String()),
		)
	}
	value := *canceledAt
	o.canceledAt = &value
	return nil
}
