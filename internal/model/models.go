package model

import "time"

// Role gates which operations an identity may invoke.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// OrderStatus is the lifecycle status of a whole order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// ShippingStatus is the per-line shipping status, independent of the
// parent order's status.
type ShippingStatus string

const (
	ShippingPending   ShippingStatus = "pending"
	ShippingShipped   ShippingStatus = "shipped"
	ShippingDelivered ShippingStatus = "delivered"
)

func (s ShippingStatus) Valid() bool {
	switch s {
	case ShippingPending, ShippingShipped, ShippingDelivered:
		return true
	}
	return false
}

// User is a registered identity. The password hash is write-only and never
// serialized.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Brand is a product brand. Names are unique case-insensitively.
type Brand struct {
	ID        string    `json:"id"`
	BrandName string    `json:"brandName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Product is a catalog entry owned by the admin who created it. BrandID
// must reference an existing brand at creation time; deleting a brand does
// not cascade.
type Product struct {
	ID            string    `json:"id"`
	ProductName   string    `json:"productName"`
	OwnerID       string    `json:"ownerId"`
	BrandID       string    `json:"brand"`
	Cost          float64   `json:"cost"`
	ProductImages []string  `json:"productImages,omitempty"`
	Description   string    `json:"description"`
	StockStatus   string    `json:"stockStatus"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// OrderItem is one line of an order. ProductName is a denormalized
// snapshot taken at order time.
type OrderItem struct {
	ID             string         `json:"id"`
	ProductName    string         `json:"productName"`
	ProductID      string         `json:"productId"`
	OwnerID        string         `json:"ownerId"`
	Quantity       int            `json:"quantity"`
	TotalCost      float64        `json:"totalCost"`
	ShippingStatus ShippingStatus `json:"shippingStatus"`
}

// Order is created only through the order workflow and never deleted.
// TotalOrderCost is fixed at creation time and never recomputed.
type Order struct {
	ID             string      `json:"id"`
	CustomerID     string      `json:"customerId"`
	Items          []OrderItem `json:"items"`
	TotalOrderCost float64     `json:"totalOrderCost"`
	OrderStatus    OrderStatus `json:"orderStatus"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}
