// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	cartService  *cart.Service
	orderService *order.Service
	userService  *user.Service
	config       *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(db *gorm.DB, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{
		cartService:  cart.NewService(db, cfg),
		orderService: order.NewService(db, cfg),
		userService:  user.NewService(db, cfg),
		config:       cfg,
	}
}

// GetCheckout handles GET /checkout. Returns the cart with totals and
// a prefilled shipping form from the user's profile.
func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	view, err := h.cartService.GetView(cart.UserIdentity(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return
	}

	prefill := gin.H{}
	if u, err := h.userService.GetProfile(userID); err == nil {
		prefill["full_name"] = u.GetFullName()
		if u.Profile != nil {
			prefill["phone"] = u.Profile.Phone
			prefill["address"] = u.Profile.Address
			prefill["city"] = u.Profile.City
			prefill["state"] = u.Profile.State
			prefill["zip_code"] = u.Profile.ZipCode
			prefill["country"] = u.Profile.Country
		}
	}

	resp := gin.H{
		"cart":            view,
		"shipping":        prefill,
		"payment_methods": []string{order.PaymentMethodCOD, order.PaymentMethodOnline},
	}
	if len(view.Items) == 0 {
		resp["warning"] = "Your cart is empty"
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// PlaceOrder handles POST /checkout
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req order.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.orderService.PlaceOrder(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		case errors.Is(err, order.ErrInvalidPaymentMethod):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data": gin.H{
			"order_number": o.OrderNumber,
			"total_amount": o.TotalAmount,
			"status":       o.Status,
		},
	})
}
