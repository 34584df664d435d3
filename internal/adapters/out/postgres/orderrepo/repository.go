package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueViolation is the SQLSTATE postgres reports for a duplicate key.
const uniqueViolation = "23505"

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

var _ ports.OrderRepository = (*GormOrderRepository)(nil)

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts the order row and its lines in one statement batch.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrIdempotencyKeyTaken
		}
		return fmt.Errorf("insert order %s: %w", aggregate.ID(), err)
	}

	return nil
}

// Update writes the mutable columns only while the row still has expectedStatus
// and is not canceled. Lines are immutable and never rewritten.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ? AND canceled_at IS NULL", aggregate.ID().Bytes(), expectedStatus.String()).
		Updates(map[string]any{
			"status":      aggregate.Status().String(),
			"updated_at":  aggregate.UpdatedAt(),
			"canceled_at": aggregate.CanceledAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("update order %s: %w", aggregate.ID(), result.Error)
	}

	if result.RowsAffected == 0 {
		return ports.ErrStaleOrder
	}

	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withLines(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) GetByIdempotencyKey(ctx context.Context, key string) (*order.Order, error) {
	var dto OrderDTO
	if err := r.withLines(ctx).First(&dto, "idempotency_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", "idempotency key "+key)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) List(ctx context.Context, status *order.Status, page ports.PageRequest) (ports.OrderPage, error) {
	return r.page(ctx, page, func(db *gorm.DB) *gorm.DB {
		if status == nil {
			return db
		}
		return db.Where("status = ?", status.String())
	})
}

func (r *GormOrderRepository) ListByCustomer(ctx context.Context, customerID string, page ports.PageRequest) (ports.OrderPage, error) {
	return r.page(ctx, page, func(db *gorm.DB) *gorm.DB {
		return db.Where("customer_id = ?", customerID)
	})
}

// BulkUpdateStatus is a single UPDATE, so a row is either promoted entirely or
// left for the next run. updated_at never moves backwards.
func (r *GormOrderRepository) BulkUpdateStatus(ctx context.Context, from, to order.Status, now time.Time) (int64, error) {
	if from != order.Pending || to != order.Processing {
		return 0, errs.NewValueIsInvalidError("bulk transition " + from.String() + " -> " + to.String())
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("status = ? AND canceled_at IS NULL", from.String()).
		Updates(map[string]any{
			"status":     to.String(),
			"updated_at": gorm.Expr("GREATEST(updated_at, ?)", now),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("bulk update %s -> %s: %w", from, to, result.Error)
	}

	return result.RowsAffected, nil
}

func (r *GormOrderRepository) withLines(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

func (r *GormOrderRepository) page(
	ctx context.Context,
	page ports.PageRequest,
	filter func(*gorm.DB) *gorm.DB,
) (ports.OrderPage, error) {
	var total int64
	if err := filter(r.db.WithContext(ctx).Model(&OrderDTO{})).Count(&total).Error; err != nil {
		return ports.OrderPage{}, fmt.Errorf("count orders: %w", err)
	}

	var dtos []OrderDTO
	if err := filter(r.withLines(ctx)).
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&dtos).Error; err != nil {
		return ports.OrderPage{}, fmt.Errorf("list orders: %w", err)
	}

	items := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return ports.OrderPage{}, err
		}
		items = append(items, o)
	}

	return ports.NewOrderPage(items, page, total), nil
}

// isUniqueViolation recognizes a duplicate key from either driver: pgx errors
// are translated by GORM, lib/pq errors arrive as *pq.Error.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
