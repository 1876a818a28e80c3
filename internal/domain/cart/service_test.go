package cart

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
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
		&Cart{},
		&CartItem{},
	))

	return db
}

func testService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	cfg := &config.Config{
		Shipping: config.ShippingConfig{FreeThreshold: 1000, FlatRate: 100},
	}
	return NewService(db, cfg), db
}

func seedProduct(t *testing.T, db *gorm.DB, slug string, price, salePrice int64) *catalog.Product {
	t.Helper()
	p := &catalog.Product{
		Name:           slug,
		Slug:           slug,
		CategoryID:     1,
		Price:          price,
		SalePrice:      salePrice,
		Stock:          10,
		AvailableSizes: "S,M,L",
		IsActive:       true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestResolveCart(t *testing.T) {
	svc, _ := testService(t)

	t.Run("creates cart on first use", func(t *testing.T) {
		c, err := svc.ResolveCart(UserIdentity(1))
		require.NoError(t, err)
		assert.NotZero(t, c.ID)

		again, err := svc.ResolveCart(UserIdentity(1))
		require.NoError(t, err)
		assert.Equal(t, c.ID, again.ID)
	})

	t.Run("session and user carts are distinct", func(t *testing.T) {
		userCart, err := svc.ResolveCart(UserIdentity(2))
		require.NoError(t, err)

		sessionCart, err := svc.ResolveCart(SessionIdentity("visitor-a"))
		require.NoError(t, err)

		assert.NotEqual(t, userCart.ID, sessionCart.ID)
	})

	t.Run("rejects invalid identity", func(t *testing.T) {
		_, err := svc.ResolveCart(Identity{})
		assert.ErrorIs(t, err, ErrInvalidIdentity)
	})
}

func TestAddItem(t *testing.T) {
	svc, db := testService(t)
	p := seedProduct(t, db, "tee", 599, 0)

	t.Run("adding same product and size accumulates one row", func(t *testing.T) {
		identity := SessionIdentity("visitor-b")

		count, err := svc.AddItem(identity, &AddItemRequest{ProductID: p.ID, Quantity: 2, Size: "M"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		count, err = svc.AddItem(identity, &AddItemRequest{ProductID: p.ID, Quantity: 3, Size: "M"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		c, err := svc.ResolveCart(identity)
		require.NoError(t, err)

		var items []CartItem
		require.NoError(t, db.Where("cart_id = ?", c.ID).Find(&items).Error)
		require.Len(t, items, 1)
		assert.Equal(t, 5, items[0].Quantity)
	})

	t.Run("different sizes are separate lines", func(t *testing.T) {
		identity := SessionIdentity("visitor-c")

		_, err := svc.AddItem(identity, &AddItemRequest{ProductID: p.ID, Quantity: 1, Size: "S"})
		require.NoError(t, err)

		count, err := svc.AddItem(identity, &AddItemRequest{ProductID: p.ID, Quantity: 1, Size: "L"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("quantity below one defaults to one", func(t *testing.T) {
		identity := SessionIdentity("visitor-d")

		_, err := svc.AddItem(identity, &AddItemRequest{ProductID: p.ID, Quantity: 0, Size: "M"})
		require.NoError(t, err)

		c, err := svc.ResolveCart(identity)
		require.NoError(t, err)

		var item CartItem
		require.NoError(t, db.Where("cart_id = ?", c.ID).First(&item).Error)
		assert.Equal(t, 1, item.Quantity)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.AddItem(SessionIdentity("visitor-e"), &AddItemRequest{ProductID: 9999, Quantity: 1})
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})

	t.Run("inactive product", func(t *testing.T) {
		inactive := seedProduct(t, db, "retired", 100, 0)
		require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

		_, err := svc.AddItem(SessionIdentity("visitor-e"), &AddItemRequest{ProductID: inactive.ID, Quantity: 1})
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})
}

func TestUpdateItem(t *testing.T) {
	svc, db := testService(t)
	p := seedProduct(t, db, "jeans", 1299, 0)

	identity := SessionIdentity("visitor-f")
	_, err := svc.AddItem(identity, &AddItemRequest{ProductID: p.ID, Quantity: 2, Size: "32"})
	require.NoError(t, err)

	c, err := svc.ResolveCart(identity)
	require.NoError(t, err)
	var item CartItem
	require.NoError(t, db.Where("cart_id = ?", c.ID).First(&item).Error)

	t.Run("overwrites quantity", func(t *testing.T) {
		removed, err := svc.UpdateItem(identity, item.ID, 7)
		require.NoError(t, err)
		assert.False(t, removed)

		var got CartItem
		require.NoError(t, db.First(&got, item.ID).Error)
		assert.Equal(t, 7, got.Quantity)
	})

	t.Run("zero quantity removes the item", func(t *testing.T) {
		removed, err := svc.UpdateItem(identity, item.ID, 0)
		require.NoError(t, err)
		assert.True(t, removed)

		var count int64
		db.Model(&CartItem{}).Where("id = ?", item.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("missing item", func(t *testing.T) {
		_, err := svc.UpdateItem(identity, 9999, 1)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestItemOwnership(t *testing.T) {
	svc, db := testService(t)
	p := seedProduct(t, db, "dress", 899, 0)

	owner := SessionIdentity("owner")
	_, err := svc.AddItem(owner, &AddItemRequest{ProductID: p.ID, Quantity: 1, Size: "M"})
	require.NoError(t, err)

	ownerCart, err := svc.ResolveCart(owner)
	require.NoError(t, err)
	var item CartItem
	require.NoError(t, db.Where("cart_id = ?", ownerCart.ID).First(&item).Error)

	// Another shopper cannot see or touch the item, even with its real id
	stranger := SessionIdentity("stranger")

	_, err = svc.UpdateItem(stranger, item.ID, 5)
	assert.ErrorIs(t, err, ErrItemNotFound)

	err = svc.RemoveItem(stranger, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	var still CartItem
	assert.NoError(t, db.First(&still, item.ID).Error)
	assert.Equal(t, 1, still.Quantity)
}

func TestRemoveItem(t *testing.T) {
	svc, db := testService(t)
	p := seedProduct(t, db, "belt", 399, 0)

	identity := SessionIdentity("visitor-g")
	_, err := svc.AddItem(identity, &AddItemRequest{ProductID: p.ID, Quantity: 1, Size: "M"})
	require.NoError(t, err)

	c, err := svc.ResolveCart(identity)
	require.NoError(t, err)
	var item CartItem
	require.NoError(t, db.Where("cart_id = ?", c.ID).First(&item).Error)

	require.NoError(t, svc.RemoveItem(identity, item.ID))
	assert.ErrorIs(t, svc.RemoveItem(identity, item.ID), ErrItemNotFound)
}

func TestGetView(t *testing.T) {
	svc, db := testService(t)
	sale := seedProduct(t, db, "watch", 2499, 1999)
	plain := seedProduct(t, db, "blouse", 799, 0)

	identity := SessionIdentity("visitor-h")
	_, err := svc.AddItem(identity, &AddItemRequest{ProductID: sale.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(identity, &AddItemRequest{ProductID: plain.ID, Quantity: 2, Size: "M"})
	require.NoError(t, err)

	view, err := svc.GetView(identity)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)

	// Sale price wins over list price
	assert.Equal(t, int64(1999+2*799), view.Quote.Subtotal)
	assert.Equal(t, int64(0), view.Quote.Shipping)
	assert.Equal(t, view.Quote.Subtotal, view.Quote.Total)

	t.Run("price changes show up on the next view", func(t *testing.T) {
		require.NoError(t, db.Model(sale).Update("sale_price", 899).Error)

		view, err := svc.GetView(identity)
		require.NoError(t, err)
		assert.Equal(t, int64(899+2*799), view.Quote.Subtotal)
	})
}

func TestMergeSessionCart(t *testing.T) {
	svc, db := testService(t)
	p1 := seedProduct(t, db, "hoodie", 999, 0)
	p2 := seedProduct(t, db, "shirt", 1499, 0)

	t.Run("sums quantities per product and size", func(t *testing.T) {
		session := SessionIdentity("merge-a")
		_, err := svc.AddItem(session, &AddItemRequest{ProductID: p1.ID, Quantity: 2, Size: "M"})
		require.NoError(t, err)
		_, err = svc.AddItem(session, &AddItemRequest{ProductID: p2.ID, Quantity: 1, Size: "L"})
		require.NoError(t, err)

		user := UserIdentity(10)
		_, err = svc.AddItem(user, &AddItemRequest{ProductID: p1.ID, Quantity: 3, Size: "M"})
		require.NoError(t, err)

		require.NoError(t, svc.MergeSessionCart(10, "merge-a"))

		userCart, err := svc.ResolveCart(user)
		require.NoError(t, err)

		var items []CartItem
		require.NoError(t, db.Where("cart_id = ?", userCart.ID).Order("product_id").Find(&items).Error)
		require.Len(t, items, 2)
		assert.Equal(t, 5, items[0].Quantity)
		assert.Equal(t, 1, items[1].Quantity)

		// Session cart is gone
		var count int64
		db.Model(&Cart{}).Where("session_key = ?", "merge-a").Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("missing session cart is a no-op", func(t *testing.T) {
		assert.NoError(t, svc.MergeSessionCart(11, "never-existed"))
		assert.NoError(t, svc.MergeSessionCart(11, ""))
	})
}
