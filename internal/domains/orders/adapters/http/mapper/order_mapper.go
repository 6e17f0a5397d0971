package mapper

import (
	"time"

	ordersdomain "github.com/Apurer/go-gin-shop-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-shop-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-shop-api/internal/shared/identity"
)

// OrderItem is the transport shape of a line item.
type OrderItem struct {
	ProductID int64  `json:"product_id" example:"1"`
	Quantity  int32  `json:"quantity" example:"2"`
	UnitPrice string `json:"unit_price" example:"5.00"`
}

// Order is the transport shape of an order.
type Order struct {
	ID          int64       `json:"id" example:"42"`
	UserID      int64       `json:"user_id" example:"7"`
	Status      string      `json:"status" example:"PENDING"`
	TotalAmount string      `json:"total_amount" example:"13.50"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Items       []OrderItem `json:"items"`
}

// CreateOrderItem is one requested line. Prices come from the catalog, never the client.
type CreateOrderItem struct {
	ProductID int64 `json:"product_id" binding:"required" example:"1"`
	Quantity  int32 `json:"quantity" example:"2"`
}

// CreateOrderRequest is the payload of POST /orders/create.
type CreateOrderRequest struct {
	Items []CreateOrderItem `json:"items"`
}

// UpdateStatusRequest is the payload of PUT /orders/:orderId/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"SHIPPED"`
}

// ToCreateOrderInput converts the payload into the service command.
func ToCreateOrderInput(owner identity.Identity, req CreateOrderRequest) ordersports.CreateOrderInput {
	items := make([]ordersports.ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, ordersports.ItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return ordersports.CreateOrderInput{Owner: owner, Items: items}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	items := make([]OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
		})
	}
	return Order{
		ID:          order.ID,
		UserID:      order.OwnerID,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount.StringFixed(2),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
		Items:       items,
	}
}

// FromDomainOrders converts a list, never returning nil.
func FromDomainOrders(orders []*ordersdomain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, FromDomainOrder(order))
	}
	return result
}

// CreateOrderResponse is returned by POST /orders/create.
type CreateOrderResponse struct {
	Message string `json:"message" example:"Order created successfully"`
	Order   Order  `json:"order"`
}

// OrderResponse wraps a single order.
type OrderResponse struct {
	Order Order `json:"order"`
}

// OrdersResponse wraps the caller's orders.
type OrdersResponse struct {
	Orders []Order `json:"orders"`
}

// UpdateStatusResponse is returned by PUT /orders/:orderId/status.
type UpdateStatusResponse struct {
	Message string `json:"message" example:"Order status updated"`
	Order   Order  `json:"order"`
}
