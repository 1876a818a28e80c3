// internal/domain/catalog/service.go
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/gorm"
)

// Sentinel errors surfaced to the HTTP layer
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Service handles catalog read operations
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListRequest represents product list query parameters
type ListRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Gender   string `form:"gender"`
	MinPrice int64  `form:"min_price"`
	MaxPrice int64  `form:"max_price"`
	Sort     string `form:"sort,default=newest"`
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=12"`
}

// ListResponse represents a paginated product listing
type ListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ListProducts retrieves active products with filtering, sorting and pagination
func (s *Service) ListProducts(req *ListRequest) (*ListResponse, error) {
	var products []Product
	var total int64

	query := s.db.Model(&Product{}).
		Preload("Category").
		Preload("Images").
		Where("is_active = ?", true)

	// Search across product name, description and category name
	if req.Search != "" {
		pattern := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR category_id IN (?)",
			pattern, pattern,
			s.db.Model(&Category{}).Select("id").Where("LOWER(name) LIKE ?", pattern),
		)
	}

	if req.Category != "" {
		query = query.Where("category_id IN (?)",
			s.db.Model(&Category{}).Select("id").Where("slug = ?", req.Category))
	}

	if req.Gender != "" {
		query = query.Where("gender = ?", req.Gender)
	}

	if req.MinPrice > 0 {
		query = query.Where("price >= ?", req.MinPrice)
	}
	if req.MaxPrice > 0 {
		query = query.Where("price <= ?", req.MaxPrice)
	}

	// Count total records before pagination
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.Sort))

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 12
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	pagination := Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}

	return &ListResponse{
		Products:   products,
		Pagination: pagination,
	}, nil
}

// GetProductBySlug retrieves a single active product with related products
// from the same category.
func (s *Service) GetProductBySlug(slug string) (*Product, []Product, error) {
	var product Product
	result := s.db.
		Preload("Category").
		Preload("Images").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProductNotFound
		}
		return nil, nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	var related []Product
	err := s.db.
		Preload("Images").
		Where("category_id = ? AND is_active = ? AND id <> ?", product.CategoryID, true, product.ID).
		Limit(4).
		Find(&related).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve related products: %w", err)
	}

	return &product, related, nil
}

// GetProduct retrieves an active product by id
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	result := s.db.Where("id = ? AND is_active = ?", id, true).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}
	return &product, nil
}

// ListCategories retrieves all active categories
func (s *Service) ListCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Where("is_active = ?", true).Order("name asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// GetCategoryBySlug retrieves a category together with its active products
func (s *Service) GetCategoryBySlug(slug string, page, limit int) (*Category, *ListResponse, error) {
	var category Category
	result := s.db.Where("slug = ?", slug).First(&category)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCategoryNotFound
		}
		return nil, nil, fmt.Errorf("failed to retrieve category: %w", result.Error)
	}

	listing, err := s.ListProducts(&ListRequest{
		Category: slug,
		Page:     page,
		Limit:    limit,
		Sort:     "newest",
	})
	if err != nil {
		return nil, nil, err
	}

	return &category, listing, nil
}

func (s *Service) buildOrderClause(sort string) string {
	switch sort {
	case "price_low":
		return "price asc"
	case "price_high":
		return "price desc"
	case "name":
		return "name asc"
	default:
		return "created_at desc"
	}
}
