package commands

import (
	"errors"
	"fmt"
	"strings"

	"orders/internal/core/application/idempotency"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrCustomerIDIsRequired = errs.NewValueIsRequiredError("customerId")
	ErrItemsAreRequired     = errs.NewValueIsRequiredError("items")
)

// CreateOrderItem is one requested order line.
type CreateOrderItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateOrderCommand represents a request to create a new order.
// The idempotency key is optional; without one the handler derives it from the content.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand("customer-1", []CreateOrderItem{
//	    {ProductID: "sku-1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.50")},
//	}, r.Header.Get("Idempotency-Key"))
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID     string
	items          []CreateOrderItem
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the request. Every malformed field is
// reported, joined into one error.
func NewCreateOrderCommand(customerID string, items []CreateOrderItem, idempotencyKey string) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setItems(items),
		cmd.setIdempotencyKey(idempotencyKey),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) CustomerID() string {
	return c.customerID
}

// Items returns a copy of the requested lines.
func (c CreateOrderCommand) Items() []CreateOrderItem {
	items := make([]CreateOrderItem, len(c.items))
	copy(items, c.items)
	return items
}

// IdempotencyKey returns the client-supplied key, or "".
func (c CreateOrderCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

func (c CreateOrderCommand) idempotencyRequest() idempotency.Request {
	req := idempotency.Request{
		CustomerID: c.customerID,
		Items:      make([]idempotency.Item, 0, len(c.items)),
	}
	for _, item := range c.items {
		req.Items = append(req.Items, idempotency.Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return req
}

func (c CreateOrderCommand) lines() ([]order.Line, error) {
	lines := make([]order.Line, 0, len(c.items))
	for _, item := range c.items {
		price, err := kernel.NewMoney(item.UnitPrice)
		if err != nil {
			return nil, err
		}
		l, err := order.NewLine(item.ProductID, item.Quantity, price)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, nil
}

func (c *CreateOrderCommand) setCustomerID(customerID string) error {
	if strings.TrimSpace(customerID) == "" {
		return ErrCustomerIDIsRequired
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setItems(items []CreateOrderItem) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	var itemErrs []error
	total := kernel.ZeroMoney()
	for i, item := range items {
		param := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(item.ProductID) == "" {
			itemErrs = append(itemErrs, errs.NewValueIsRequiredError(param+".productId"))
		}
		validQuantity := item.Quantity > 0
		if !validQuantity {
			itemErrs = append(itemErrs, errs.NewValueIsInvalidErrorWithCause(
				param+".quantity", fmt.Errorf("%d is not greater than 0", item.Quantity)))
		}
		price, err := kernel.NewMoney(item.UnitPrice)
		if err != nil {
			itemErrs = append(itemErrs, errs.NewValueIsInvalidErrorWithCause(param+".unitPrice", err))
			continue
		}
		if !validQuantity {
			continue
		}
		lineTotal, err := kernel.NewMoney(price.Mul(item.Quantity).Decimal())
		if err != nil {
			itemErrs = append(itemErrs, errs.NewValueIsInvalidErrorWithCause(param+".lineTotal", err))
			continue
		}
		total = total.Add(lineTotal)
	}
	if len(itemErrs) > 0 {
		return errors.Join(itemErrs...)
	}
	if _, err := kernel.NewMoney(total.Decimal()); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("totalAmount", err)
	}

	c.items = make([]CreateOrderItem, len(items))
	copy(c.items, items)
	return nil
}

// setIdempotencyKey keeps an explicit key verbatim. A blank key counts as absent.
func (c *CreateOrderCommand) setIdempotencyKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	if len(key) > order.MaxIdempotencyKeyLength {
		return errs.NewValueIsOutOfRangeError("idempotencyKey length", len(key), 0, order.MaxIdempotencyKeyLength)
	}

	c.idempotencyKey = key
	return nil
}
