package handlers

import (
	"net/http"
	"strconv"

	"tiendamart/internal/common"
	"tiendamart/internal/models"
	"tiendamart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OrderHandlers handles HTTP requests for orders
type OrderHandlers struct {
	orderService services.OrderServiceInterface
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(orderService services.OrderServiceInterface) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// CreateOrderRequest represents the order creation payload
type CreateOrderRequest struct {
	UserID *string `json:"user_id"`
	Lines  []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	} `json:"lines"`
}

// CreateOrder handles POST /orders. Regular users always order for
// themselves; an admin may place an order on another user's behalf by
// setting user_id.
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	callerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	role, _ := common.GetRoleFromContext(ctx)

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if len(req.Lines) == 0 {
		return common.SendValidationError(c, "lines", "order must contain at least one line")
	}

	userID := callerID
	if req.UserID != nil && role == models.RoleAdmin {
		id, err := uuid.Parse(*req.UserID)
		if err != nil {
			return common.SendValidationError(c, "user_id", "invalid user ID")
		}
		userID = id
	}

	lines := make([]models.OrderLineRequest, 0, len(req.Lines))
	for _, line := range req.Lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return common.SendValidationError(c, "product_id", "invalid product ID")
		}
		if line.Quantity < 1 {
			return common.SendValidationError(c, "quantity", "quantity must be at least 1")
		}
		lines = append(lines, models.OrderLineRequest{ProductID: productID, Quantity: line.Quantity})
	}

	order, err := h.orderService.CreateOrder(ctx, userID, lines)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /orders/:id. Users may only read their own orders.
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid order ID")
	}

	order, err := h.orderService.GetOrderByID(ctx, orderID)
	if err != nil {
		return common.SendDomainError(c, err)
	}

	callerID, _ := common.GetUserIDFromContext(ctx)
	role, _ := common.GetRoleFromContext(ctx)
	if role != models.RoleAdmin && order.UserID != callerID {
		return common.SendForbiddenError(c)
	}
	return c.JSON(http.StatusOK, order)
}

// GetOrders handles GET /orders (admin only, enforced by route middleware)
func (h *OrderHandlers) GetOrders(c echo.Context) error {
	page, size := queryPagination(c)
	result, err := h.orderService.ListOrders(c.Request().Context(), page, size)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetUserOrders handles GET /orders/user/:id. Accessible to the user
// themselves and to admins.
func (h *OrderHandlers) GetUserOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid user ID")
	}

	callerID, _ := common.GetUserIDFromContext(ctx)
	role, _ := common.GetRoleFromContext(ctx)
	if role != models.RoleAdmin && userID != callerID {
		return common.SendForbiddenError(c)
	}

	page, size := queryPagination(c)
	result, err := h.orderService.ListOrdersByUser(ctx, userID, page, size)
	if err != nil {
		return common.SendDomainError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// DeleteOrder handles DELETE /orders/:id (admin only, enforced by route
// middleware)
func (h *OrderHandlers) DeleteOrder(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return common.SendClientError(c, "Invalid order ID")
	}

	if err := h.orderService.DeleteOrder(c.Request().Context(), orderID); err != nil {
		return common.SendDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func queryPagination(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	return page, size
}
