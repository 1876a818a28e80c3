package order

import (
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalog.Category{},
		&catalog.Product{},
		&catalog.ProductImage{},
		&cart.Cart{},
		&cart.CartItem{},
		&Order{},
		&OrderItem{},
	))

	return db
}

func testServices(t *testing.T) (*Service, *cart.Service, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	cfg := &config.Config{
		Shipping: config.ShippingConfig{FreeThreshold: 1000, FlatRate: 100},
	}
	return NewService(db, cfg), cart.NewService(db, cfg), db
}

func seedProduct(t *testing.T, db *gorm.DB, slug string, price, salePrice int64) *catalog.Product {
	t.Helper()
	p := &catalog.Product{
		Name:       slug,
		Slug:       slug,
		CategoryID: 1,
		Price:      price,
		SalePrice:  salePrice,
		Stock:      10,
		IsActive:   true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func shippingForm() *PlaceOrderRequest {
	return &PlaceOrderRequest{
		FullName:      "Jordan Reed",
		Phone:         "5550100",
		Address:       "1 Main St",
		City:          "Springfield",
		State:         "Karnataka",
		ZipCode:       "560001",
		Country:       "India",
		PaymentMethod: "cod",
	}
}

func TestPlaceOrder(t *testing.T) {
	svc, cartSvc, db := testServices(t)
	sale := seedProduct(t, db, "watch", 2499, 1999)
	plain := seedProduct(t, db, "belt", 399, 0)

	const userID = uint(1)
	identity := cart.UserIdentity(userID)

	_, err := cartSvc.AddItem(identity, &cart.AddItemRequest{ProductID: sale.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = cartSvc.AddItem(identity, &cart.AddItemRequest{ProductID: plain.ID, Quantity: 2, Size: "M"})
	require.NoError(t, err)

	o, err := svc.PlaceOrder(userID, shippingForm())
	require.NoError(t, err)

	t.Run("totals match the cart quote", func(t *testing.T) {
		assert.Equal(t, int64(1999+2*399), o.Subtotal)
		assert.Equal(t, int64(0), o.ShippingCost)
		assert.Equal(t, o.Subtotal, o.TotalAmount)
	})

	t.Run("item prices are frozen at current price", func(t *testing.T) {
		require.Len(t, o.Items, 2)
		prices := map[uint]int64{}
		for _, item := range o.Items {
			prices[item.ProductID] = item.Price
		}
		assert.Equal(t, int64(1999), prices[sale.ID])
		assert.Equal(t, int64(399), prices[plain.ID])
	})

	t.Run("order number format", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(o.OrderNumber, "ORD-"))
		assert.Len(t, o.OrderNumber, len("ORD-20060102-")+8)
	})

	t.Run("cart is destroyed", func(t *testing.T) {
		var carts, items int64
		db.Model(&cart.Cart{}).Where("user_id = ?", userID).Count(&carts)
		db.Model(&cart.CartItem{}).Count(&items)
		assert.Equal(t, int64(0), carts)
		assert.Equal(t, int64(0), items)
	})

	t.Run("later price changes do not touch the order", func(t *testing.T) {
		require.NoError(t, db.Model(sale).Update("sale_price", 500).Error)

		got, err := svc.GetOrderByNumber(userID, o.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, int64(1999+2*399), got.Subtotal)
	})
}

func TestPlaceOrderFlatRateShipping(t *testing.T) {
	svc, cartSvc, db := testServices(t)
	p := seedProduct(t, db, "tee", 599, 449)

	const userID = uint(2)
	_, err := cartSvc.AddItem(cart.UserIdentity(userID), &cart.AddItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	o, err := svc.PlaceOrder(userID, shippingForm())
	require.NoError(t, err)
	assert.Equal(t, int64(449), o.Subtotal)
	assert.Equal(t, int64(100), o.ShippingCost)
	assert.Equal(t, int64(549), o.TotalAmount)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	svc, cartSvc, db := testServices(t)

	t.Run("no cart at all", func(t *testing.T) {
		_, err := svc.PlaceOrder(5, shippingForm())
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("cart with no items survives the attempt", func(t *testing.T) {
		_, err := cartSvc.ResolveCart(cart.UserIdentity(6))
		require.NoError(t, err)

		_, err = svc.PlaceOrder(6, shippingForm())
		assert.ErrorIs(t, err, ErrEmptyCart)

		var count int64
		db.Model(&cart.Cart{}).Where("user_id = ?", 6).Count(&count)
		assert.Equal(t, int64(1), count)
	})
}

func TestPlaceOrderFailureKeepsCart(t *testing.T) {
	svc, cartSvc, db := testServices(t)
	p := seedProduct(t, db, "dress", 899, 699)

	const userID = uint(3)
	_, err := cartSvc.AddItem(cart.UserIdentity(userID), &cart.AddItemRequest{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	// break the order item insert so the transaction fails after the
	// order row is written
	require.NoError(t, db.Migrator().DropTable(&OrderItem{}))

	_, err = svc.PlaceOrder(userID, shippingForm())
	require.Error(t, err)

	var carts, items, orders int64
	db.Model(&cart.Cart{}).Where("user_id = ?", userID).Count(&carts)
	db.Model(&cart.CartItem{}).Count(&items)
	db.Model(&Order{}).Count(&orders)
	assert.Equal(t, int64(1), carts)
	assert.Equal(t, int64(1), items)
	assert.Equal(t, int64(0), orders)
}

func TestPlaceOrderRequestValidation(t *testing.T) {
	assert.NoError(t, binding.Validator.ValidateStruct(shippingForm()))

	blank := []struct {
		name   string
		mutate func(*PlaceOrderRequest)
	}{
		{"full name", func(f *PlaceOrderRequest) { f.FullName = "" }},
		{"phone", func(f *PlaceOrderRequest) { f.Phone = "" }},
		{"address", func(f *PlaceOrderRequest) { f.Address = "" }},
		{"city", func(f *PlaceOrderRequest) { f.City = "" }},
		{"state", func(f *PlaceOrderRequest) { f.State = "" }},
		{"zip code", func(f *PlaceOrderRequest) { f.ZipCode = "" }},
		{"country", func(f *PlaceOrderRequest) { f.Country = "" }},
		{"payment method", func(f *PlaceOrderRequest) { f.PaymentMethod = "" }},
	}
	for _, tc := range blank {
		t.Run("blank "+tc.name, func(t *testing.T) {
			form := shippingForm()
			tc.mutate(form)
			assert.Error(t, binding.Validator.ValidateStruct(form))
		})
	}
}

func TestPlaceOrderInvalidPaymentMethod(t *testing.T) {
	svc, _, _ := testServices(t)

	form := shippingForm()
	form.PaymentMethod = "wire"
	_, err := svc.PlaceOrder(1, form)
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestGetOrderByNumber(t *testing.T) {
	svc, cartSvc, db := testServices(t)
	p := seedProduct(t, db, "jeans", 1299, 0)

	const userID = uint(7)
	_, err := cartSvc.AddItem(cart.UserIdentity(userID), &cart.AddItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	o, err := svc.PlaceOrder(userID, shippingForm())
	require.NoError(t, err)

	t.Run("owner can read it", func(t *testing.T) {
		got, err := svc.GetOrderByNumber(userID, o.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, o.ID, got.ID)
	})

	t.Run("another user sees not found", func(t *testing.T) {
		_, err := svc.GetOrderByNumber(99, o.OrderNumber)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("unknown number", func(t *testing.T) {
		_, err := svc.GetOrderByNumber(userID, "ORD-00000000-XXXXXXXX")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestGetUserOrders(t *testing.T) {
	svc, cartSvc, db := testServices(t)
	p := seedProduct(t, db, "hoodie", 999, 0)

	const userID = uint(8)
	for i := 0; i < 3; i++ {
		_, err := cartSvc.AddItem(cart.UserIdentity(userID), &cart.AddItemRequest{ProductID: p.ID, Quantity: 1})
		require.NoError(t, err)
		_, err = svc.PlaceOrder(userID, shippingForm())
		require.NoError(t, err)
	}

	resp, err := svc.GetUserOrders(userID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Orders, 2)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
}

func TestCancelOrder(t *testing.T) {
	svc, cartSvc, db := testServices(t)
	p := seedProduct(t, db, "shirt", 1499, 0)

	const userID = uint(9)
	_, err := cartSvc.AddItem(cart.UserIdentity(userID), &cart.AddItemRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	o, err := svc.PlaceOrder(userID, shippingForm())
	require.NoError(t, err)

	t.Run("pending order cancels", func(t *testing.T) {
		got, err := svc.CancelOrder(userID, o.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
	})

	t.Run("cancelled order cannot cancel again", func(t *testing.T) {
		_, err := svc.CancelOrder(userID, o.OrderNumber)
		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("shipped order cannot cancel", func(t *testing.T) {
		require.NoError(t, db.Model(&Order{}).Where("id = ?", o.ID).Update("status", StatusShipped).Error)
		_, err := svc.CancelOrder(userID, o.OrderNumber)
		assert.ErrorIs(t, err, ErrCannotCancel)
	})
}
