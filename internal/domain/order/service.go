// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/pricing"
	"gorm.io/gorm"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with no items
	ErrEmptyCart = errors.New("cart is empty")
	// ErrOrderNotFound is returned when an order does not exist or
	// belongs to another user
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidPaymentMethod is returned for unknown payment methods
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	// ErrCannotCancel is returned when the order status forbids cancellation
	ErrCannotCancel = errors.New("order can no longer be cancelled")
)

// Service handles order business logic
type Service struct {
	db         *gorm.DB
	config     *config.Config
	calculator *pricing.Calculator
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:         db,
		config:     cfg,
		calculator: pricing.NewCalculator(cfg),
	}
}

// PlaceOrderRequest carries the checkout form
type PlaceOrderRequest struct {
	FullName      string `json:"full_name" binding:"required,max=120"`
	Phone         string `json:"phone" binding:"required,max=20"`
	Address       string `json:"address" binding:"required,max=255"`
	City          string `json:"city" binding:"required,max=100"`
	State         string `json:"state" binding:"required,max=100"`
	ZipCode       string `json:"zip_code" binding:"required,max=20"`
	Country       string `json:"country" binding:"required,max=100"`
	Notes         string `json:"notes" binding:"max=500"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// ListResponse is a paginated order list
type ListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination holds pagination metadata
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PlaceOrder turns the user's cart into an order. Line prices are
// captured from current product prices inside the transaction, the
// totals come from the same calculation the cart shows, and the cart
// is destroyed on success. Any failure leaves the cart untouched.
func (s *Service) PlaceOrder(userID uint, req *PlaceOrderRequest) (*Order, error) {
	method := strings.ToLower(req.PaymentMethod)
	if method != PaymentMethodCOD && method != PaymentMethodOnline {
		return nil, ErrInvalidPaymentMethod
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var c cart.Cart
	err := tx.Preload("Items").Preload("Items.Product").
		Where("user_id = ?", userID).First(&c).Error
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(c.Items) == 0 {
		tx.Rollback()
		return nil, ErrEmptyCart
	}

	lines := make([]pricing.Line, len(c.Items))
	orderItems := make([]OrderItem, len(c.Items))
	for i, item := range c.Items {
		price := item.Product.CurrentPrice()
		lines[i] = pricing.Line{Quantity: item.Quantity, UnitPrice: price}
		orderItems[i] = OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Price:     price,
		}
	}
	quote := s.calculator.Calculate(lines)

	o := &Order{
		OrderNumber:   generateOrderNumber(),
		UserID:        userID,
		Status:        StatusPending,
		PaymentMethod: method,
		PaymentStatus: PaymentStatusPending,
		Subtotal:      quote.Subtotal,
		ShippingCost:  quote.Shipping,
		TotalAmount:   quote.Total,
		FullName:      req.FullName,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		Country:       req.Country,
		Notes:         req.Notes,
		Items:         orderItems,
	}
	if err := tx.Create(o).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := tx.Where("cart_id = ?", c.ID).Delete(&cart.CartItem{}).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to clear cart items: %w", err)
	}
	if err := tx.Delete(&c).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to delete cart: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return o, nil
}

// GetUserOrders returns the user's orders, newest first
func (s *Service) GetUserOrders(userID uint, page, limit int) (*ListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	var total int64
	if err := s.db.Model(&Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	err := s.db.
		Preload("Items").
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// GetOrderByNumber returns one of the user's orders by its public
// number. Another user's order is indistinguishable from a missing one.
func (s *Service) GetOrderByNumber(userID uint, orderNumber string) (*Order, error) {
	var o Order
	err := s.db.
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.Images").
		Where("order_number = ? AND user_id = ?", orderNumber, userID).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &o, nil
}

// CancelOrder cancels a pending or confirmed order
func (s *Service) CancelOrder(userID uint, orderNumber string) (*Order, error) {
	o, err := s.GetOrderByNumber(userID, orderNumber)
	if err != nil {
		return nil, err
	}
	if !o.CanCancel() {
		return nil, ErrCannotCancel
	}

	if err := s.db.Model(o).Update("status", StatusCancelled).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	o.Status = StatusCancelled
	return o, nil
}

// generateOrderNumber builds a non-guessable public order number like
// ORD-20260830-1A2B3C4D
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}
