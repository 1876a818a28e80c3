// internal/domain/review/service.go
package review

import (
	"errors"
	"fmt"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// ErrInvalidRating is returned when the rating is outside 1..5
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Service handles review business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new review service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateRequest carries a new review submission
type CreateRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment" binding:"max=1000"`
}

// Summary aggregates a product's reviews
type Summary struct {
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"average_rating"`
	Count         int64    `json:"count"`
}

// Create stores a review for an active product
func (s *Service) Create(userID uint, userName string, productID uint, req *CreateRequest) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	var product catalog.Product
	err := s.db.Where("id = ? AND is_active = ?", productID, true).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}

	r := &Review{
		ProductID: productID,
		UserID:    userID,
		UserName:  userName,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.db.Create(r).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return r, nil
}

// ListByProduct returns a product's reviews, newest first, with the
// average rating
func (s *Service) ListByProduct(productID uint) (*Summary, error) {
	var reviews []Review
	err := s.db.Where("product_id = ?", productID).Order("created_at desc").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	summary := &Summary{Reviews: reviews, Count: int64(len(reviews))}
	if len(reviews) > 0 {
		var sum int
		for _, r := range reviews {
			sum += r.Rating
		}
		summary.AverageRating = float64(sum) / float64(len(reviews))
	}
	return summary, nil
}
