// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/review"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	logrus.Info("Running database auto-migrations")

	// Dependency order: referenced tables first
	models := []interface{}{
		&user.User{},
		&user.Profile{},

		&catalog.Category{},
		&catalog.Product{},
		&catalog.ProductImage{},

		&cart.Cart{},
		&cart.CartItem{},

		&order.Order{},
		&order.OrderItem{},

		&review.Review{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	logrus.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for common query paths
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",

		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_featured ON products(is_featured, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		"CREATE INDEX IF NOT EXISTS idx_cart_items_cart ON cart_items(cart_id)",

		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",

		"CREATE INDEX IF NOT EXISTS idx_reviews_product_created ON reviews(product_id, created_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			logrus.WithError(err).Warn("Failed to create index")
		}
	}

	return nil
}

// SeedInitialData inserts development seed data. Every seed is
// idempotent so restarts do not duplicate rows.
func (m *Migration) SeedInitialData() error {
	logrus.Info("Seeding initial data")

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	if err := m.seedProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	logrus.Info("Initial data seeded")
	return nil
}

func (m *Migration) seedCategories() error {
	categories := []catalog.Category{
		{Name: "Men's Clothing", Slug: "mens-clothing", Description: "Clothing for men", IsActive: true},
		{Name: "Women's Clothing", Slug: "womens-clothing", Description: "Clothing for women", IsActive: true},
		{Name: "Casual Wear", Slug: "casual-wear", Description: "Everyday casual wear", IsActive: true},
		{Name: "Formal Wear", Slug: "formal-wear", Description: "Office and formal wear", IsActive: true},
		{Name: "Accessories", Slug: "accessories", Description: "Belts, watches and more", IsActive: true},
	}

	for _, c := range categories {
		var existing catalog.Category
		err := m.db.Where("slug = ?", c.Slug).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := m.db.Create(&c).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

func (m *Migration) seedProducts() error {
	categoryID := func(slug string) (uint, error) {
		var c catalog.Category
		if err := m.db.Where("slug = ?", slug).First(&c).Error; err != nil {
			return 0, err
		}
		return c.ID, nil
	}

	mens, err := categoryID("mens-clothing")
	if err != nil {
		return err
	}
	womens, err := categoryID("womens-clothing")
	if err != nil {
		return err
	}
	casual, err := categoryID("casual-wear")
	if err != nil {
		return err
	}
	formal, err := categoryID("formal-wear")
	if err != nil {
		return err
	}
	accessories, err := categoryID("accessories")
	if err != nil {
		return err
	}

	products := []catalog.Product{
		{
			Name: "Classic White T-Shirt", Slug: "classic-white-t-shirt",
			Description: "Comfortable cotton t-shirt for everyday wear",
			CategoryID:  casual, Price: 599, SalePrice: 449, Stock: 50,
			Gender: "M", AvailableSizes: "S,M,L,XL", IsActive: true, IsFeatured: true,
		},
		{
			Name: "Denim Jeans", Slug: "denim-jeans",
			Description: "Classic fit denim jeans",
			CategoryID:  mens, Price: 1299, Stock: 30,
			Gender: "M", AvailableSizes: "30,32,34,36", IsActive: true,
		},
		{
			Name: "Floral Summer Dress", Slug: "floral-summer-dress",
			Description: "Light summer dress with floral print",
			CategoryID:  womens, Price: 899, SalePrice: 699, Stock: 25,
			Gender: "F", AvailableSizes: "XS,S,M,L", IsActive: true, IsFeatured: true,
		},
		{
			Name: "Casual Blouse", Slug: "casual-blouse",
			Description: "Relaxed fit blouse",
			CategoryID:  womens, Price: 799, Stock: 40,
			Gender: "F", AvailableSizes: "S,M,L", IsActive: true,
		},
		{
			Name: "Hooded Sweatshirt", Slug: "hooded-sweatshirt",
			Description: "Warm unisex hoodie",
			CategoryID:  casual, Price: 999, Stock: 35,
			Gender: "U", AvailableSizes: "S,M,L,XL", IsActive: true,
		},
		{
			Name: "Formal Shirt", Slug: "formal-shirt",
			Description: "Crisp formal shirt",
			CategoryID:  formal, Price: 1499, Stock: 20,
			Gender: "M", AvailableSizes: "S,M,L,XL", IsActive: true,
		},
		{
			Name: "Leather Belt", Slug: "leather-belt",
			Description: "Genuine leather belt",
			CategoryID:  accessories, Price: 399, Stock: 60,
			Gender: "U", AvailableSizes: "S,M,L", IsActive: true,
		},
		{
			Name: "Stylish Watch", Slug: "stylish-watch",
			Description: "Minimal analog watch",
			CategoryID:  accessories, Price: 2499, SalePrice: 1999, Stock: 15,
			Gender: "U", AvailableSizes: "ONE_SIZE", IsActive: true, IsFeatured: true,
		},
	}

	for _, p := range products {
		var existing catalog.Product
		err := m.db.Unscoped().Where("slug = ?", p.Slug).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := m.db.Create(&p).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

func (m *Migration) seedAdminUser() error {
	var existing user.User
	err := m.db.Where("email = ?", "admin@example.com").First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := user.User{
		Email:     "admin@example.com",
		Password:  string(hashed),
		FirstName: "Admin",
		LastName:  "User",
		IsActive:  true,
		IsAdmin:   true,
		Profile:   &user.Profile{},
	}
	return m.db.Create(&admin).Error
}
