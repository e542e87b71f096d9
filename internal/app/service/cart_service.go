package service

import (
	"errors"
	"fmt"

	"github.com/ikkim/smartmart-backend/internal/app/model"
	"github.com/ikkim/smartmart-backend/internal/app/repository"
	apperrors "github.com/ikkim/smartmart-backend/internal/errors"
	"github.com/ikkim/smartmart-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartView is a cart with its lines and their total.
type CartView struct {
	Cart  *model.Cart      `json:"cart"`
	Items []model.CartItem `json:"items"`
	Total decimal.Decimal  `json:"total"`
}

type CartService interface {
	View(userID uint) (*CartView, error)
	Add(userID, productID uint, quantity int) (*model.CartItem, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) View(userID uint) (*CartView, error) {
	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	items, err := s.cartRepo.FindItems(cart.ID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}

	return &CartView{Cart: cart, Items: items, Total: total}, nil
}

func (s *cartService) Add(userID, productID uint, quantity int) (*model.CartItem, error) {
	logger.Info("Adding product to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
		"quantity":   quantity,
	})

	if quantity < 1 {
		return nil, invalid("quantity", "quantity must be at least 1")
	}
	if quantity > model.MaxCartItemQuantity {
		return nil, invalid("quantity", fmt.Sprintf("quantity must be at most %d", model.MaxCartItemQuantity))
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Add to cart failed: product not found", map[string]interface{}{
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.AddItem(cart.ID, productID, quantity)
	if err != nil {
		// the product was deleted between the lookup and the insert
		if apperrors.IsForeignKeyViolation(err) {
			return nil, ErrProductNotFound
		}
		if errors.Is(err, repository.ErrQuantityLimit) {
			return nil, invalid("quantity", fmt.Sprintf("a cart can hold at most %d of one product", model.MaxCartItemQuantity))
		}
		return nil, err
	}

	logger.Info("Cart item saved", map[string]interface{}{
		"cart_item_id": item.ID,
		"quantity":     item.Quantity,
	})
	return item, nil
}
