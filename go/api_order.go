package storeserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	mediadomain "github.com/Apurer/storefront-api/internal/domains/media/domain"
	ordertypes "github.com/Apurer/storefront-api/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/storefront-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/storefront-api/internal/domains/orders/ports"
	apierrors "github.com/Apurer/storefront-api/internal/shared/errors"
)

// IdempotencyKeyHeader lets clients retry a placement without creating a second order.
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 191

// OrderAPI wires HTTP transport with the orders bounded context service and workflows.
type OrderAPI struct {
	service   orderports.Service
	workflows orderports.WorkflowOrchestrator
	images    mediadomain.URLResolver
}

// NewOrderAPI creates an OrderAPI backed by the provided service. A nil orchestrator places
// orders directly through the service.
func NewOrderAPI(service orderports.Service, workflows orderports.WorkflowOrchestrator, images mediadomain.URLResolver) OrderAPI {
	return OrderAPI{service: service, workflows: workflows, images: images}
}

// Post /orders
// Place an order
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload PlaceOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{
			IdempotencyKeyHeader: "must be at most " + strconv.Itoa(maxIdempotencyKeyLength) + " characters",
		}))
		return
	}
	input := toPlaceOrderInput(payload, key)
	result, err := api.placeOrder(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, PlaceOrderResponse{
		Message:     "order placed",
		OrderId:     result.Order.ID,
		TotalAmount: money(result.Order.TotalAmount),
		Replayed:    result.Replayed,
	})
}

func (api *OrderAPI) placeOrder(ctx context.Context, input ordertypes.PlaceOrderInput) (*ordertypes.PlacementResult, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.service.PlaceOrder(ctx, input)
}

// Get /orders
// Lists every order for admins, otherwise only the caller's orders
func (api *OrderAPI) ListOrders(c *gin.Context) {
	var userID *int64
	if err := runtime.BindQueryParameter("form", true, false, "user_id", c.Request.URL.Query(), &userID); err != nil {
		badRequest(c, err)
		return
	}
	var role string
	if err := runtime.BindQueryParameter("form", true, false, "role", c.Request.URL.Query(), &role); err != nil {
		badRequest(c, err)
		return
	}
	views, err := api.service.ListOrders(c.Request.Context(), ordertypes.ListOrdersInput{RequesterID: userID, Role: role})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]Order, 0, len(views))
	for _, view := range views {
		out = append(out, toOrder(view))
	}
	c.JSON(http.StatusOK, out)
}

// Get /orders/:id
// Find order by ID
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	view, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	items := make([]OrderItem, 0, len(view.Order.Items))
	for _, item := range view.Order.Items {
		items = append(items, api.toOrderItem(item))
	}
	c.JSON(http.StatusOK, OrderDetail{Order: toOrder(view), Items: items})
}

// Put /orders/:id/status
// Admin status change
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload UpdateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	view, err := api.service.UpdateStatus(c.Request.Context(), ordertypes.UpdateStatusInput{OrderID: id, Status: payload.Status})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStatusResponse("order status updated", view.Order))
}

// Put /orders/:id/cancel
// Customer cancellation of a pending order
func (api *OrderAPI) CancelOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload CancelOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, err)
		return
	}
	if payload.UserId <= 0 {
		respondProblem(c, apierrors.NewValidationProblem(map[string]string{"user_id": "is required"}))
		return
	}
	view, err := api.service.CancelOrder(c.Request.Context(), ordertypes.CancelOrderInput{OrderID: id, UserID: payload.UserId})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStatusResponse("order cancelled", view.Order))
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	value := c.Param(name)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		if err == nil {
			err = errors.New(name + " must be a positive integer")
		}
		badRequest(c, err)
		return 0, false
	}
	return id, true
}

func toPlaceOrderInput(payload PlaceOrderRequest, key string) ordertypes.PlaceOrderInput {
	items := make([]ordertypes.CartLineInput, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, ordertypes.CartLineInput{
			ProductID:    item.ProductId,
			Quantity:     item.Quantity,
			Price:        item.Price,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
		})
	}
	return ordertypes.PlaceOrderInput{
		UserID:          payload.UserId,
		TotalAmount:     payload.TotalAmount,
		CustomerName:    payload.CustomerName,
		CustomerPhone:   payload.CustomerPhone,
		CustomerAddress: payload.CustomerAddress,
		Notes:           payload.Notes,
		Items:           items,
		IdempotencyKey:  key,
	}
}

func toOrder(view *ordertypes.OrderView) Order {
	o := view.Order
	return Order{
		OrderId:         o.ID,
		UserId:          o.UserID,
		OrderDate:       timestamp(o.CreatedAt),
		UpdatedAt:       timestamp(o.UpdatedAt),
		TotalAmount:     money(o.TotalAmount),
		Status:          string(o.Status),
		CustomerName:    o.Shipping.RecipientName,
		CustomerPhone:   o.Shipping.Phone,
		CustomerAddress: o.Shipping.Address,
		Notes:           o.Shipping.Notes,
		Username:        view.Username,
		Email:           view.Email,
	}
}

func (api *OrderAPI) toOrderItem(item orderdomain.OrderItem) OrderItem {
	return OrderItem{
		OrderItemId:  item.ID,
		OrderId:      item.OrderID,
		ProductId:    item.ProductID,
		ProductName:  item.ProductName,
		ProductImage: api.images.Resolve(item.ProductImage),
		Price:        money(item.Price),
		Quantity:     item.Quantity,
		Subtotal:     money(item.Subtotal),
	}
}

func toStatusResponse(message string, o *orderdomain.Order) OrderStatusResponse {
	return OrderStatusResponse{
		Message:   message,
		OrderId:   o.ID,
		Status:    string(o.Status),
		UpdatedAt: timestamp(o.UpdatedAt),
	}
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
