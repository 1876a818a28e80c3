// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/pricing"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrItemNotFound is returned when a cart item id does not exist in the
// caller's cart. Items of other carts look identical to missing ones.
var ErrItemNotFound = errors.New("cart item not found")

// Service handles cart business logic
type Service struct {
	db         *gorm.DB
	config     *config.Config
	calculator *pricing.Calculator
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:         db,
		config:     cfg,
		calculator: pricing.NewCalculator(cfg),
	}
}

// AddItemRequest represents an add-to-cart request
type AddItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

// ItemView is one cart line with its product and derived line total
type ItemView struct {
	ID        uint            `json:"id"`
	Product   catalog.Product `json:"product"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size"`
	UnitPrice int64           `json:"unit_price"`
	LineTotal int64           `json:"line_total"`
}

// View is the cart as shown to the shopper. Totals are derived from
// current product prices on every call and never stored.
type View struct {
	Items []ItemView    `json:"items"`
	Quote pricing.Quote `json:"totals"`
}

// ResolveCart returns the single cart for the given identity, creating
// it if absent.
func (s *Service) ResolveCart(identity Identity) (*Cart, error) {
	if !identity.Valid() {
		return nil, ErrInvalidIdentity
	}

	var c Cart
	var err error
	if identity.UserID != nil {
		err = s.db.Where(Cart{UserID: identity.UserID}).FirstOrCreate(&c).Error
	} else {
		key := identity.SessionKey
		err = s.db.Where(Cart{SessionKey: &key}).FirstOrCreate(&c).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart: %w", err)
	}

	return &c, nil
}

// AddItem adds a product to the identity's cart. Adding an existing
// (product, size) line increments its quantity atomically via an
// upsert against the natural-key unique index, so two concurrent adds
// can never produce duplicate rows. Returns the updated line count.
func (s *Service) AddItem(identity Identity, req *AddItemRequest) (int64, error) {
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	// Validate product exists and is active
	var product catalog.Product
	result := s.db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, catalog.ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to look up product: %w", result.Error)
	}

	c, err := s.ResolveCart(identity)
	if err != nil {
		return 0, err
	}

	item := CartItem{
		CartID:    c.ID,
		ProductID: product.ID,
		Size:      req.Size,
		Quantity:  quantity,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}, {Name: "size"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", quantity),
		}),
	}).Create(&item).Error
	if err != nil {
		return 0, fmt.Errorf("failed to add cart item: %w", err)
	}

	return s.countItems(c.ID)
}

// UpdateItem overwrites the quantity of a cart item. A quantity of zero
// or less removes the item; removed reports which happened. Only items
// of the identity's own cart are reachable.
func (s *Service) UpdateItem(identity Identity, itemID uint, quantity int) (removed bool, err error) {
	c, err := s.ResolveCart(identity)
	if err != nil {
		return false, err
	}

	var item CartItem
	result := s.db.Where("id = ? AND cart_id = ?", itemID, c.ID).First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return false, ErrItemNotFound
		}
		return false, fmt.Errorf("failed to look up cart item: %w", result.Error)
	}

	if quantity <= 0 {
		if err := s.db.Delete(&item).Error; err != nil {
			return false, fmt.Errorf("failed to remove cart item: %w", err)
		}
		return true, nil
	}

	if err := s.db.Model(&item).Update("quantity", quantity).Error; err != nil {
		return false, fmt.Errorf("failed to update cart item: %w", err)
	}
	return false, nil
}

// RemoveItem deletes a cart item from the identity's cart
func (s *Service) RemoveItem(identity Identity, itemID uint) error {
	c, err := s.ResolveCart(identity)
	if err != nil {
		return err
	}

	result := s.db.Where("id = ? AND cart_id = ?", itemID, c.ID).Delete(&CartItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// GetView returns the cart with line totals and the current price
// quote. Everything is recomputed from current product prices.
func (s *Service) GetView(identity Identity) (*View, error) {
	c, err := s.ResolveCart(identity)
	if err != nil {
		return nil, err
	}

	items, err := s.loadItems(c.ID)
	if err != nil {
		return nil, err
	}

	view := &View{Items: make([]ItemView, len(items))}
	lines := make([]pricing.Line, len(items))
	for i, item := range items {
		unitPrice := item.Product.CurrentPrice()
		lines[i] = pricing.Line{Quantity: item.Quantity, UnitPrice: unitPrice}
		view.Items[i] = ItemView{
			ID:        item.ID,
			Product:   item.Product,
			Quantity:  item.Quantity,
			Size:      item.Size,
			UnitPrice: unitPrice,
			LineTotal: lines[i].Total(),
		}
	}
	view.Quote = s.calculator.Calculate(lines)

	return view, nil
}

// ItemCount returns the number of lines in the identity's cart
func (s *Service) ItemCount(identity Identity) (int64, error) {
	c, err := s.ResolveCart(identity)
	if err != nil {
		return 0, err
	}
	return s.countItems(c.ID)
}

// MergeSessionCart folds an anonymous session cart into the user's cart
// after login, summing quantities per (product, size). The session cart
// is deleted afterwards. A missing or empty session cart is a no-op.
func (s *Service) MergeSessionCart(userID uint, sessionKey string) error {
	if sessionKey == "" {
		return nil
	}

	var sessionCart Cart
	result := s.db.Preload("Items").Where("session_key = ?", sessionKey).First(&sessionCart)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load session cart: %w", result.Error)
	}

	userCart, err := s.ResolveCart(UserIdentity(userID))
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range sessionCart.Items {
			merged := CartItem{
				CartID:    userCart.ID,
				ProductID: item.ProductID,
				Size:      item.Size,
				Quantity:  item.Quantity,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}, {Name: "size"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"quantity": gorm.Expr("quantity + ?", item.Quantity),
				}),
			}).Create(&merged).Error
			if err != nil {
				return fmt.Errorf("failed to merge cart item: %w", err)
			}
		}

		if err := tx.Where("cart_id = ?", sessionCart.ID).Delete(&CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear session cart items: %w", err)
		}
		if err := tx.Delete(&sessionCart).Error; err != nil {
			return fmt.Errorf("failed to delete session cart: %w", err)
		}
		return nil
	})
}

func (s *Service) loadItems(cartID uint) ([]CartItem, error) {
	var items []CartItem
	err := s.db.
		Preload("Product").
		Preload("Product.Images").
		Where("cart_id = ?", cartID).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cart items: %w", err)
	}
	return items, nil
}

func (s *Service) countItems(cartID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&CartItem{}).Where("cart_id = ?", cartID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count cart items: %w", err)
	}
	return count, nil
}
