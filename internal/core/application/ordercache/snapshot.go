package ordercache

import (
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

// lineSnapshot and orderSnapshot are the JSON shapes stored in the cache.
// Decoding goes through order.RestoreOrder so a cached value passes the same
// validation as a stored row.
type lineSnapshot struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

type orderSnapshot struct {
	ID             string         `json:"id"`
	CustomerID     string         `json:"customerId"`
	Status         string         `json:"status"`
	Lines          []lineSnapshot `json:"lines"`
	IdempotencyKey string         `json:"idempotencyKey,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	CanceledAt     *time.Time     `json:"canceledAt,omitempty"`
}

type pageSnapshot struct {
	Items      []orderSnapshot `json:"items"`
	Page       int             `json:"page"`
	Size       int             `json:"size"`
	TotalItems int64           `json:"totalItems"`
	TotalPages int             `json:"totalPages"`
}

func snapshotOf(o *order.Order) orderSnapshot {
	lines := make([]lineSnapshot, 0, len(o.Lines()))
	for _, l := range o.Lines() {
		lines = append(lines, lineSnapshot{
			ID:        l.ID().String(),
			ProductID: l.ProductID(),
			Quantity:  l.Quantity(),
			UnitPrice: l.UnitPrice().String(),
		})
	}

	return orderSnapshot{
		ID:             o.ID().String(),
		CustomerID:     o.CustomerID(),
		Status:         o.Status().String(),
		Lines:          lines,
		IdempotencyKey: o.IdempotencyKey(),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
		CanceledAt:     o.CanceledAt(),
	}
}

func (s orderSnapshot) restore() (*order.Order, error) {
	id, err := kernel.UUIDFromString(s.ID)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(s.Status)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(s.Lines))
	for _, ls := range s.Lines {
		lineID, idErr := kernel.UUIDFromString(ls.ID)
		if idErr != nil {
			return nil, idErr
		}
		price, priceErr := kernel.MoneyFromString(ls.UnitPrice)
		if priceErr != nil {
			return nil, priceErr
		}
		l, lineErr := order.RestoreLine(lineID, ls.ProductID, ls.Quantity, price)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, l)
	}

	return order.RestoreOrder(id, s.CustomerID, status, lines, s.IdempotencyKey, s.CreatedAt, s.UpdatedAt, s.CanceledAt)
}

func pageSnapshotOf(p ports.OrderPage) pageSnapshot {
	items := make([]orderSnapshot, 0, len(p.Items))
	for _, o := range p.Items {
		items = append(items, snapshotOf(o))
	}
	return pageSnapshot{
		Items:      items,
		Page:       p.Page,
		Size:       p.Size,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
	}
}

func (s pageSnapshot) restore() (ports.OrderPage, error) {
	items := make([]*order.Order, 0, len(s.Items))
	for _, item := range s.Items {
		o, err := item.restore()
		if err != nil {
			return ports.OrderPage{}, err
		}
		items = append(items, o)
	}
	return ports.OrderPage{
		Items:      items,
		Page:       s.Page,
		Size:       s.Size,
		TotalItems: s.TotalItems,
		TotalPages: s.TotalPages,
	}, nil
}
