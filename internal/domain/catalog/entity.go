// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"gorm.io/gorm"
)

// Category represents a product category
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string         `gorm:"size:500" json:"description"`
	Image       string         `gorm:"size:500" json:"image"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// Product represents the product entity
type Product struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;size:255" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	CategoryID  uint   `gorm:"not null;index" json:"category_id"`
	Price       int64  `gorm:"not null" json:"price"`
	SalePrice   int64  `gorm:"default:0" json:"sale_price"` // 0 means no sale
	Stock       int    `gorm:"default:0" json:"stock"`
	// Gender targeting: M (men), F (women), U (unisex)
	Gender         string         `gorm:"size:1;default:'U'" json:"gender"`
	AvailableSizes string         `gorm:"size:255" json:"available_sizes"` // Comma-separated sizes
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	IsFeatured     bool           `gorm:"default:false" json:"is_featured"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category Category       `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"images,omitempty"`
}

// ProductImage represents product images
type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	URL       string    `gorm:"not null;size:500" json:"url"`
	AltText   string    `gorm:"size:255" json:"alt_text"`
	IsPrimary bool      `gorm:"default:false" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides
func (Category) TableName() string     { return "categories" }
func (Product) TableName() string      { return "products" }
func (ProductImage) TableName() string { return "product_images" }

// Business methods for Product

// CurrentPrice returns the sale price when one is set, the list price otherwise.
func (p *Product) CurrentPrice() int64 {
	if p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.Price
}

// IsOnSale reports whether the product currently has a sale price
func (p *Product) IsOnSale() bool {
	return p.SalePrice > 0 && p.SalePrice < p.Price
}

// InStock reports whether the product has stock remaining
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// DiscountPercentage returns the discount as a whole percentage
func (p *Product) DiscountPercentage() int {
	if !p.IsOnSale() {
		return 0
	}
	return int(((p.Price - p.SalePrice) * 100) / p.Price)
}
