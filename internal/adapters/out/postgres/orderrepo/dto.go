// Package orderrepo maps the order aggregate to the orders and order_lines
// tables and implements ports.OrderRepository on top of GORM.
package orderrepo

import (
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row. Timestamps are written by the domain, never by GORM.
type OrderDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID     string          `gorm:"type:varchar(255);not null;index"`
	Status         string          `gorm:"type:varchar(20);not null;index"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(19,2);not null"`
	IdempotencyKey *string         `gorm:"type:varchar(255);uniqueIndex"`
	CreatedAt      time.Time       `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt      time.Time       `gorm:"not null;autoUpdateTime:false"`
	CanceledAt     *time.Time
	Lines          []OrderLineDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderLineDTO is one order_lines row; Position keeps submission order.
type OrderLineDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position  int             `gorm:"not null"`
	ProductID string          `gorm:"type:varchar(255);not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(19,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:numeric(19,2);not null"`
}

func (OrderLineDTO) TableName() string {
	return "order_lines"
}

func fromDomain(o *order.Order) OrderDTO {
	var key *string
	if k := o.IdempotencyKey(); k != "" {
		key = &k
	}

	lines := o.Lines()
	lineDTOs := make([]OrderLineDTO, 0, len(lines))
	for i, line := range lines {
		lineDTOs = append(lineDTOs, OrderLineDTO{
			ID:        line.ID().Bytes(),
			OrderID:   o.ID().Bytes(),
			Position:  i,
			ProductID: line.ProductID(),
			Quantity:  line.Quantity(),
			UnitPrice: line.UnitPrice().Decimal(),
			LineTotal: line.Total().Decimal(),
		})
	}

	return OrderDTO{
		ID:             o.ID().Bytes(),
		CustomerID:     o.CustomerID(),
		Status:         o.Status().String(),
		TotalAmount:    o.Total().Decimal(),
		IdempotencyKey: key,
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
		CanceledAt:     o.CanceledAt(),
		Lines:          lineDTOs,
	}
}

// toDomain rebuilds the aggregate through RestoreOrder, so totals are
// recomputed from the lines rather than trusted from the row.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(dto.Lines))
	for _, lineDTO := range dto.Lines {
		line, lineErr := lineToDomain(lineDTO)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	var key string
	if dto.IdempotencyKey != nil {
		key = *dto.IdempotencyKey
	}

	return order.RestoreOrder(
		id,
		dto.CustomerID,
		status,
		lines,
		key,
		dto.CreatedAt.UTC(),
		dto.UpdatedAt.UTC(),
		utcPtr(dto.CanceledAt),
	)
}

func lineToDomain(dto OrderLineDTO) (order.Line, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.Line{}, err
	}

	price, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return order.Line{}, err
	}

	return order.RestoreLine(id, dto.ProductID, dto.Quantity, price)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
