package queries

import (
	"errors"
	"strings"

	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
	"orders/internal/pkg/guard"
)

var ErrListCustomerOrdersQueryIsNotConstructed = errors.New(
	"ListCustomerOrdersQuery must be created via NewListCustomerOrdersQuery constructor",
)

// ListCustomerOrdersQuery pages through one customer's orders.
type ListCustomerOrdersQuery struct {
	customerID string
	page       ports.PageRequest

	guard guard.ConstructorGuard
}

func NewListCustomerOrdersQuery(customerID string, page ports.PageRequest) (ListCustomerOrdersQuery, error) {
	if strings.TrimSpace(customerID) == "" {
		return ListCustomerOrdersQuery{}, errs.NewValueIsRequiredError("customerId")
	}
	if err := page.Validate(); err != nil {
		return ListCustomerOrdersQuery{}, err
	}

	return ListCustomerOrdersQuery{
		customerID: customerID,
		page:       page,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListCustomerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListCustomerOrdersQueryIsNotConstructed)
}

func (q ListCustomerOrdersQuery) CustomerID() string {
	return q.customerID
}

func (q ListCustomerOrdersQuery) Page() ports.PageRequest {
	return q.page
}
