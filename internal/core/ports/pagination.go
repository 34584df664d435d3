package ports

import (
	"math"

	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is a zero-based page index and a page size.
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest validates paging input against maxSize.
func NewPageRequest(page, size, maxSize int) (PageRequest, error) {
	if size < 1 || size > maxSize {
		return PageRequest{}, errs.NewValueIsOutOfRangeError("size", size, 1, maxSize)
	}
	p := PageRequest{Page: page, Size: size}
	return p, p.Validate()
}

// Validate rejects a negative page and a non-positive size.
func (p PageRequest) Validate() error {
	if p.Page < 0 {
		return errs.NewValueIsOutOfRangeError("page", p.Page, 0, "unbounded")
	}
	if p.Size < 1 {
		return errs.NewValueIsOutOfRangeError("size", p.Size, 1, "unbounded")
	}
	return nil
}

// Offset is the number of rows skipped before this page. It saturates at
// math.MaxInt instead of overflowing, so a far page is simply empty.
func (p PageRequest) Offset() int {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// OrderPage is one page of a filtered scan.
type OrderPage struct {
	Items      []*order.Order
	Page       int
	Size       int
	TotalItems int64
	TotalPages int
}

// NewOrderPage derives TotalPages from the total item count.
func NewOrderPage(items []*order.Order, page PageRequest, totalItems int64) OrderPage {
	totalPages := 0
	if page.Size > 0 {
		totalPages = int((totalItems + int64(page.Size) - 1) / int64(page.Size))
	}
	if items == nil {
		items = []*order.Order{}
	}
	return OrderPage{
		Items:      items,
		Page:       page.Page,
		Size:       page.Size,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}
