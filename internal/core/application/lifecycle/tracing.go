package lifecycle

import (
	"context"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "orders/lifecycle"

// TracedService wraps a Service with one span per operation.
type TracedService struct {
	next   Service
	tracer trace.Tracer
}

var _ Service = (*TracedService)(nil)

// NewTracedService uses tp, or the global provider when tp is nil.
func NewTracedService(next Service, tp trace.TracerProvider) *TracedService {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &TracedService{next: next, tracer: tp.Tracer(tracerName)}
}

func (s *TracedService) Create(ctx context.Context, cmd commands.CreateOrderCommand) (commands.CreateOrderResult, error) {
	ctx, span := s.tracer.Start(ctx, "order.create", trace.WithAttributes(
		attribute.String("order.customerId", cmd.CustomerID()),
		attribute.Int("order.itemCount", len(cmd.Items())),
		attribute.Bool("order.explicitIdempotencyKey", cmd.IdempotencyKey() != ""),
	))
	defer span.End()

	result, err := s.next.Create(ctx, cmd)
	if err != nil {
		return result, recordError(span, err)
	}

	setOrderAttributes(span, result.Order)
	span.SetAttributes(attribute.Bool("order.replayed", result.Replayed))
	return result, nil
}

func (s *TracedService) GetByID(ctx context.Context, query queries.GetOrderQuery) (*order.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.get", trace.WithAttributes(
		attribute.String("order.id", query.OrderID().String()),
	))
	defer span.End()

	o, err := s.next.GetByID(ctx, query)
	if err != nil {
		return nil, recordError(span, err)
	}

	setOrderAttributes(span, o)
	return o, nil
}

func (s *TracedService) List(ctx context.Context, query queries.ListOrdersQuery) (ports.OrderPage, error) {
	filter := "ALL"
	if query.Status() != nil {
		filter = query.Status().String()
	}

	ctx, span := s.tracer.Start(ctx, "order.list", trace.WithAttributes(
		attribute.String("filter.status", filter),
		attribute.Int("page.number", query.Page().Page),
		attribute.Int("page.size", query.Page().Size),
	))
	defer span.End()

	page, err := s.next.List(ctx, query)
	if err != nil {
		return page, recordError(span, err)
	}

	span.SetAttributes(attribute.Int64("result.totalElements", page.TotalItems))
	return page, nil
}

func (s *TracedService) ListByCustomer(ctx context.Context, query queries.ListCustomerOrdersQuery) (ports.OrderPage, error) {
	ctx, span := s.tracer.Start(ctx, "order.listByCustomer", trace.WithAttributes(
		attribute.String("order.customerId", query.CustomerID()),
		attribute.Int("page.number", query.Page().Page),
		attribute.Int("page.size", query.Page().Size),
	))
	defer span.End()

	page, err := s.next.ListByCustomer(ctx, query)
	if err != nil {
		return page, recordError(span, err)
	}

	span.SetAttributes(attribute.Int64("result.totalElements", page.TotalItems))
	return page, nil
}

func (s *TracedService) UpdateStatus(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.updateStatus", trace.WithAttributes(
		attribute.String("order.id", cmd.OrderID().String()),
		attribute.String("order.newStatus", cmd.Status().String()),
	))
	defer span.End()

	o, err := s.next.UpdateStatus(ctx, cmd)
	if err != nil {
		return nil, recordError(span, err)
	}

	setOrderAttributes(span, o)
	return o, nil
}

func (s *TracedService) Cancel(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.cancel", trace.WithAttributes(
		attribute.String("order.id", cmd.OrderID().String()),
	))
	defer span.End()

	o, err := s.next.Cancel(ctx, cmd)
	if err != nil {
		return nil, recordError(span, err)
	}

	setOrderAttributes(span, o)
	return o, nil
}

func (s *TracedService) PromotePendingToProcessing(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "order.promotePending", trace.WithAttributes(
		attribute.String("order.oldStatus", order.Pending.String()),
		attribute.String("order.newStatus", order.Processing.String()),
	))
	defer span.End()

	promoted, err := s.next.PromotePendingToProcessing(ctx)
	if err != nil {
		return promoted, recordError(span, err)
	}

	span.SetAttributes(attribute.Int64("result.updatedCount", promoted))
	return promoted, nil
}

func setOrderAttributes(span trace.Span, o *order.Order) {
	if o == nil {
		return
	}
	span.SetAttributes(
		attribute.String("order.id", o.ID().String()),
		attribute.String("order.status", o.Status().String()),
		attribute.String("order.totalAmount", o.Total().String()),
		attribute.Bool("order.canceled", o.IsCanceled()),
	)
}

func recordError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
