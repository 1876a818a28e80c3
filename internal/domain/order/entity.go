// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// Order status constants
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Payment method constants
const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
)

// Payment status constants
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Order represents a customer order. Every money field is captured at
// placement time and never recomputed afterwards.
type Order struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	OrderNumber   string    `json:"order_number" gorm:"uniqueIndex;not null;size:32"`
	UserID        uint      `json:"user_id" gorm:"not null;index"`
	Status        string    `json:"status" gorm:"not null;default:'pending';size:20"`
	PaymentMethod string    `json:"payment_method" gorm:"not null;size:20"`
	PaymentStatus string    `json:"payment_status" gorm:"not null;default:'pending';size:20"`
	Subtotal      int64     `json:"subtotal" gorm:"not null"`
	ShippingCost  int64     `json:"shipping_cost" gorm:"not null"`
	TotalAmount   int64     `json:"total_amount" gorm:"not null"`
	FullName      string    `json:"full_name" gorm:"not null;size:120"`
	Phone         string    `json:"phone" gorm:"not null;size:20"`
	Address       string    `json:"address" gorm:"not null;size:255"`
	City          string    `json:"city" gorm:"not null;size:100"`
	State         string    `json:"state" gorm:"size:100"`
	ZipCode       string    `json:"zip_code" gorm:"size:20"`
	Country       string    `json:"country" gorm:"size:100"`
	Notes         string    `json:"notes" gorm:"size:500"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is one purchased line. Price is the unit price the product
// sold at, frozen at order placement.
type OrderItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"not null;index"`
	ProductID uint      `json:"product_id" gorm:"not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Size      string    `json:"size" gorm:"not null;default:'';size:20"`
	Price     int64     `json:"price" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`

	Product catalog.Product `json:"product" gorm:"foreignKey:ProductID"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// CanCancel reports whether the order can still be cancelled
func (o *Order) CanCancel() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}
