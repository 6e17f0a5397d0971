package shopserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/go-gin-shop-api/internal/domains/orders/adapters/http/mapper"
	ordersapp "github.com/Apurer/go-gin-shop-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-shop-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-shop-api/internal/shared/identity"
)

// OrderAPI wires HTTP transport with the orders bounded context service.
type OrderAPI struct {
	service ordersports.Service
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service ordersports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// Post /orders/create
// Create an order for the caller
//
// @Summary      Create an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      orderhttpmapper.CreateOrderRequest  true  "Requested items"
// @Success      201      {object}  orderhttpmapper.CreateOrderResponse
// @Failure      400      {object}  apierrors.ProblemDetail
// @Failure      401      {object}  apierrors.ProblemDetail
// @Router       /orders/create [post]
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	caller, ok := requireIdentity(c)
	if !ok {
		return
	}
	var payload orderhttpmapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := api.service.CreateOrder(c.Request.Context(), orderhttpmapper.ToCreateOrderInput(caller, payload))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.CreateOrderResponse{
		Message: "Order created successfully",
		Order:   orderhttpmapper.FromDomainOrder(order),
	})
}

// Get /orders/user
// List the caller's orders, newest first
//
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  orderhttpmapper.OrdersResponse
// @Failure      401  {object}  apierrors.ProblemDetail
// @Router       /orders/user [get]
func (api *OrderAPI) ListUserOrders(c *gin.Context) {
	caller, ok := requireIdentity(c)
	if !ok {
		return
	}
	orders, err := api.service.ListOrdersForUser(c.Request.Context(), caller)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.OrdersResponse{Orders: orderhttpmapper.FromDomainOrders(orders)})
}

// Get /orders/:orderId
// Find an owned order by id
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      int  true  "Order id"
// @Success      200      {object}  orderhttpmapper.OrderResponse
// @Failure      401      {object}  apierrors.ProblemDetail
// @Failure      403      {object}  apierrors.ProblemDetail
// @Router       /orders/{orderId} [get]
func (api *OrderAPI) GetOrder(c *gin.Context) {
	caller, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id, caller)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.OrderResponse{Order: orderhttpmapper.FromDomainOrder(order)})
}

// Delete /orders/:orderId
// Delete an owned order
//
// @Summary      Delete an order
// @Tags         orders
// @Security     BearerAuth
// @Param        orderId  path  int  true  "Order id"
// @Success      204
// @Failure      401  {object}  apierrors.ProblemDetail
// @Failure      403  {object}  apierrors.ProblemDetail
// @Router       /orders/{orderId} [delete]
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	caller, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	deleted, err := api.service.DeleteOrder(c.Request.Context(), id, caller)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	if !deleted {
		respondOrderError(c, ordersapp.ErrAccessDenied)
		return
	}
	c.Status(http.StatusNoContent)
}

// Put /orders/:orderId/status
// Move an owned order through its lifecycle
//
// @Summary      Update order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        orderId  path      int                                  true  "Order id"
// @Param        request  body      orderhttpmapper.UpdateStatusRequest  true  "Target status"
// @Success      200      {object}  orderhttpmapper.UpdateStatusResponse
// @Failure      400      {object}  apierrors.ProblemDetail
// @Failure      401      {object}  apierrors.ProblemDetail
// @Failure      403      {object}  apierrors.ProblemDetail
// @Router       /orders/{orderId}/status [put]
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	caller, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload orderhttpmapper.UpdateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}
	order, err := api.service.UpdateStatus(c.Request.Context(), ordersports.UpdateStatusInput{
		OrderID:   id,
		Status:    payload.Status,
		Requester: caller,
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.UpdateStatusResponse{
		Message: "Order status updated",
		Order:   orderhttpmapper.FromDomainOrder(order),
	})
}

func requireIdentity(c *gin.Context) (identity.Identity, bool) {
	caller, ok := identity.FromContext(c.Request.Context())
	if !ok || caller.System {
		respondOrderError(c, ordersapp.ErrUnauthenticated)
		return identity.Identity{}, false
	}
	return caller, true
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	value := c.Param(name)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return 0, false
	}
	return id, true
}
