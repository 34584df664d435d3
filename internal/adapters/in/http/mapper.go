package http

import (
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/generated/servers"
)

func toOrderResponse(o *order.Order) servers.Order {
	lines := o.Lines()
	items := make([]servers.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, servers.OrderItem{
			ProductId: line.ProductID(),
			Quantity:  line.Quantity(),
			UnitPrice: line.UnitPrice().String(),
			LineTotal: line.Total().String(),
		})
	}

	return servers.Order{
		Id:          o.ID().Bytes(),
		CustomerId:  o.CustomerID(),
		Status:      servers.OrderStatus(o.Status().String()),
		TotalAmount: o.Total().String(),
		Items:       items,
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
		CanceledAt:  o.CanceledAt(),
	}
}

func toPageResponse(page ports.OrderPage) servers.OrderPage {
	items := make([]servers.Order, 0, len(page.Items))
	for _, o := range page.Items {
		items = append(items, toOrderResponse(o))
	}

	return servers.OrderPage{
		Items:      items,
		Page:       page.Page,
		Size:       page.Size,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}
}
