package queries

import (
	"errors"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery pages through all orders, optionally filtered by status.
type ListOrdersQuery struct {
	status *order.Status
	page   ports.PageRequest

	guard guard.ConstructorGuard
}

// NewListOrdersQuery accepts a nil status for "no filter".
func NewListOrdersQuery(status *order.Status, page ports.PageRequest) (ListOrdersQuery, error) {
	if err := page.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}
	query := ListOrdersQuery{page: page, guard: guard.NewConstructorGuard()}

	if status != nil {
		if err := status.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
		s := *status
		query.status = &s
	}

	return query, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// Status returns the filter, or nil.
func (q ListOrdersQuery) Status() *order.Status {
	return q.status
}

func (q ListOrdersQuery) Page() ports.PageRequest {
	return q.page
}
