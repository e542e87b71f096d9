package service

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ikkim/smartmart-backend/internal/app/model"
	"github.com/ikkim/smartmart-backend/internal/app/repository"
	"github.com/ikkim/smartmart-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrValidation      = errors.New("validation failed")
)

// HomeFeaturedLimit is how many products the landing page shows.
const HomeFeaturedLimit = 6

// ValidationError names the offending field. It matches ErrValidation
// under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ProductInput carries form text for a new product.
type ProductInput struct {
	Name        string `form:"name"`
	Description string `form:"description"`
	Price       string `form:"price"`
	Stock       string `form:"stock"`
}

// ProductUpdate carries form text for a partial update. Nil keeps the
// stored value.
type ProductUpdate struct {
	Name        *string `form:"name"`
	Description *string `form:"description"`
	Price       *string `form:"price"`
	Stock       *string `form:"stock"`
}

type HomePage struct {
	Featured []model.Product `json:"featured"`
	Total    int64           `json:"total"`
}

type CatalogService interface {
	ListProducts(search string) ([]model.Product, error)
	GetProduct(id uint) (*model.Product, error)
	Home() (*HomePage, error)
	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id uint, input ProductUpdate) (*model.Product, error)
	DeleteProduct(id uint) error
}

type catalogService struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

// ListProducts matches search as given. Surrounding whitespace is part of
// the needle, so a blank search only matches names or descriptions with spaces.
func (s *catalogService) ListProducts(search string) ([]model.Product, error) {
	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{Search: search})
	if err != nil {
		logger.Error("Failed to list products", err, map[string]interface{}{
			"search": search,
		})
		return nil, err
	}
	return products, nil
}

func (s *catalogService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to get product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *catalogService) Home() (*HomePage, error) {
	featured, err := s.productRepo.FindWithFilter(repository.ProductFilter{Limit: HomeFeaturedLimit})
	if err != nil {
		logger.Error("Failed to load featured products", err)
		return nil, err
	}

	total, err := s.productRepo.Count()
	if err != nil {
		return nil, err
	}

	return &HomePage{Featured: featured, Total: total}, nil
}

func (s *catalogService) CreateProduct(input ProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name", "name is required")
	}
	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}
	stock, err := parseStock(input.Stock)
	if err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Price:       price,
		Stock:       stock,
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

func (s *catalogService) UpdateProduct(id uint, input ProductUpdate) (*model.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, invalid("name", "name is required")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		price, err := parsePrice(*input.Price)
		if err != nil {
			return nil, err
		}
		product.Price = price
	}
	if input.Stock != nil {
		stock, err := parseStock(*input.Stock)
		if err != nil {
			return nil, err
		}
		product.Stock = stock
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

func (s *catalogService) DeleteProduct(id uint) error {
	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

// parsePrice accepts a non-negative amount with at most two decimals.
func parsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, invalid("price", "price is required")
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, invalid("price", "price must be a number")
	}
	if price.IsNegative() {
		return decimal.Zero, invalid("price", "price must not be negative")
	}
	if price.Exponent() < -2 && !price.Equal(price.Round(2)) {
		return decimal.Zero, invalid("price", "price must have at most two decimal places")
	}
	if price.GreaterThanOrEqual(decimal.New(1, 8)) {
		return decimal.Zero, invalid("price", "price is too large")
	}
	return price.Round(2), nil
}

func parseStock(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, invalid("stock", "stock is required")
	}
	stock, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalid("stock", "stock must be a whole number")
	}
	if stock < 0 {
		return 0, invalid("stock", "stock must not be negative")
	}
	return stock, nil
}
