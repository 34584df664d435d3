// Package http serves the order lifecycle over REST. Handlers translate
// requests into commands and queries, call the lifecycle service and return
// errors untouched; ErrorHandler turns them into ApiError bodies.
package http

import (
	"net/http"
	"strings"

	"orders/internal/core/application/lifecycle"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

// HeaderIdempotentReplay marks a create response that returned an existing order.
const HeaderIdempotentReplay = "X-Idempotent-Replay"

// PageDefaults bound the size query parameter.
type PageDefaults struct {
	Size    int
	MaxSize int
}

func DefaultPageDefaults() PageDefaults {
	return PageDefaults{Size: ports.DefaultPageSize, MaxSize: ports.MaxPageSize}
}

// Server implements servers.ServerInterface on top of the lifecycle service.
type Server struct {
	service lifecycle.Service
	paging  PageDefaults
}

var _ servers.ServerInterface = (*Server)(nil)

func NewServer(service lifecycle.Service, paging PageDefaults) *Server {
	if paging.Size <= 0 {
		paging.Size = ports.DefaultPageSize
	}
	if paging.MaxSize <= 0 {
		paging.MaxSize = ports.MaxPageSize
	}
	return &Server{service: service, paging: paging}
}

// CreateOrder handles POST /api/orders. The Idempotency-Key header wins over
// the body field; a replay still answers 201.
func (s *Server) CreateOrder(ctx echo.Context, params servers.CreateOrderParams) error {
	var body servers.CreateOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed request body").SetInternal(err)
	}

	items := make([]commands.CreateOrderItem, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, commands.CreateOrderItem{
			ProductID: item.ProductId,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	cmd, err := commands.NewCreateOrderCommand(body.CustomerId, items, idempotencyKey(params, body))
	if err != nil {
		return err
	}

	result, err := s.service.Create(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	if result.Replayed {
		ctx.Response().Header().Set(HeaderIdempotentReplay, "true")
	}
	return ctx.JSON(http.StatusCreated, toOrderResponse(result.Order))
}

// GetOrder handles GET /api/orders/{id}.
func (s *Server) GetOrder(ctx echo.Context, id servers.OrderId) error {
	orderID, err := kernel.UUIDFromString(id.String())
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return err
	}

	o, err := s.service.GetByID(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(o))
}

// ListOrders handles GET /api/orders.
func (s *Server) ListOrders(ctx echo.Context, params servers.ListOrdersParams) error {
	var status *order.Status
	if params.Status != nil {
		parsed, err := order.ParseStatus(string(*params.Status))
		if err != nil {
			return err
		}
		status = &parsed
	}

	pageRequest, err := s.pageRequest(params.Page, params.Size)
	if err != nil {
		return err
	}

	query, err := queries.NewListOrdersQuery(status, pageRequest)
	if err != nil {
		return err
	}

	page, err := s.service.List(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toPageResponse(page))
}

// ListCustomerOrders handles GET /api/orders/customer/{customerId}.
func (s *Server) ListCustomerOrders(ctx echo.Context, customerID string, params servers.ListCustomerOrdersParams) error {
	pageRequest, err := s.pageRequest(params.Page, params.Size)
	if err != nil {
		return err
	}

	query, err := queries.NewListCustomerOrdersQuery(customerID, pageRequest)
	if err != nil {
		return err
	}

	page, err := s.service.ListByCustomer(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toPageResponse(page))
}

// UpdateOrderStatus handles PATCH /api/orders/{id}/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context, id servers.OrderId) error {
	var body servers.UpdateOrderStatusJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed request body").SetInternal(err)
	}

	orderID, err := kernel.UUIDFromString(id.String())
	if err != nil {
		return err
	}

	status, err := order.ParseStatus(string(body.Status))
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, status)
	if err != nil {
		return err
	}

	o, err := s.service.UpdateStatus(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(o))
}

// CancelOrder handles POST /api/orders/{id}/cancel.
func (s *Server) CancelOrder(ctx echo.Context, id servers.OrderId) error {
	orderID, err := kernel.UUIDFromString(id.String())
	if err != nil {
		return err
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return err
	}

	o, err := s.service.Cancel(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(o))
}

func (s *Server) pageRequest(page, size *int) (ports.PageRequest, error) {
	p, sz := 0, s.paging.Size
	if page != nil {
		p = *page
	}
	if size != nil {
		sz = *size
	}
	return ports.NewPageRequest(p, sz, s.paging.MaxSize)
}

func idempotencyKey(params servers.CreateOrderParams, body servers.CreateOrderRequest) string {
	if params.IdempotencyKey != nil && strings.TrimSpace(*params.IdempotencyKey) != "" {
		return *params.IdempotencyKey
	}
	if body.IdempotencyKey != nil {
		return *body.IdempotencyKey
	}
	return ""
}
