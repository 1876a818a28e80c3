package review

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Category{}, &catalog.Product{}, &Review{}))

	return NewService(db), db
}

func seedProduct(t *testing.T, db *gorm.DB, active bool) *catalog.Product {
	t.Helper()
	p := &catalog.Product{Name: "Tee", Slug: "tee", CategoryID: 1, Price: 599, IsActive: active}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestCreate(t *testing.T) {
	svc, db := testService(t)
	p := seedProduct(t, db, true)

	r, err := svc.Create(1, "Sam Shopper", p.ID, &CreateRequest{Rating: 4, Comment: "Fits well"})
	require.NoError(t, err)
	assert.Equal(t, 4, r.Rating)
	assert.Equal(t, "Sam Shopper", r.UserName)

	t.Run("rating bounds", func(t *testing.T) {
		_, err := svc.Create(1, "Sam", p.ID, &CreateRequest{Rating: 0})
		assert.ErrorIs(t, err, ErrInvalidRating)

		_, err = svc.Create(1, "Sam", p.ID, &CreateRequest{Rating: 6})
		assert.ErrorIs(t, err, ErrInvalidRating)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.Create(1, "Sam", 9999, &CreateRequest{Rating: 3})
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})
}

func TestListByProduct(t *testing.T) {
	svc, db := testService(t)
	p := seedProduct(t, db, true)

	for _, rating := range []int{5, 4, 3} {
		_, err := svc.Create(uint(rating), "Reviewer", p.ID, &CreateRequest{Rating: rating})
		require.NoError(t, err)
	}

	summary, err := svc.ListByProduct(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Count)
	assert.InDelta(t, 4.0, summary.AverageRating, 0.001)

	t.Run("no reviews", func(t *testing.T) {
		summary, err := svc.ListByProduct(9999)
		require.NoError(t, err)
		assert.Equal(t, int64(0), summary.Count)
		assert.Zero(t, summary.AverageRating)
	})
}
