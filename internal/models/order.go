package models

import "time"

// OrderStatus values form a strictly forward lifecycle; transitions are
// validated by the lifecycle package.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderAccepted  OrderStatus = "accepted"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// OrderDishSummary is the dish snapshot the backend embeds in order payloads.
type OrderDishSummary struct {
	Title       string `json:"title"`
	ImageURL    string `json:"image_url"`
	CuisineType string `json:"cuisine_type"`
}

type Order struct {
	ID                  string            `json:"id"`
	CustomerID          string            `json:"customer_id"`
	ChefID              string            `json:"chef_id"`
	DishID              string            `json:"dish_id"`
	Quantity            int64             `json:"quantity"`
	TotalPrice          float64           `json:"total_price"`
	DeliveryAddress     string            `json:"delivery_address"`
	SpecialInstructions string            `json:"special_instructions,omitempty"`
	Status              OrderStatus       `json:"status"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
	Dish                *OrderDishSummary `json:"dishes,omitempty"`
}

// CreateOrderData is the order-creation request body. Ownership references
// (customer, chef) are derived server-side from the bearer token and the dish.
type CreateOrderData struct {
	DishID              string `json:"dish_id"`
	Quantity            int64  `json:"quantity"`
	DeliveryAddress     string `json:"delivery_address"`
	SpecialInstructions string `json:"special_instructions,omitempty"`
}
