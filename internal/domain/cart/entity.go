// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// Cart represents a shopper's in-progress cart. It is keyed by exactly
// one identity: a user id for authenticated shoppers or an opaque
// session key for anonymous visitors. A completed checkout deletes the
// row, so carts are deliberately not soft-deleted.
type Cart struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     *uint     `gorm:"uniqueIndex" json:"user_id,omitempty"`
	SessionKey *string   `gorm:"uniqueIndex;size:64" json:"session_key,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// CartItem is one (product, size) line within a cart. The natural key
// (cart_id, product_id, size) is enforced with a unique index so
// concurrent adds for the same triple collapse into one row.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"not null;index;uniqueIndex:uq_cart_item" json:"cart_id"`
	ProductID uint      `gorm:"not null;index;uniqueIndex:uq_cart_item" json:"product_id"`
	Size      string    `gorm:"size:20;not null;default:'';uniqueIndex:uq_cart_item" json:"size"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Product catalog.Product `gorm:"foreignKey:ProductID" json:"product"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }
