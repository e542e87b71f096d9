package repository

import (
	"errors"

	"github.com/ikkim/smartmart-backend/internal/app/model"
	"github.com/ikkim/smartmart-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrQuantityLimit is returned by AddItem when merging would push a line
// past model.MaxCartItemQuantity. The stored quantity is left unchanged.
var ErrQuantityLimit = errors.New("cart item quantity limit exceeded")

type CartRepository interface {
	FindByUserID(userID uint) (*model.Cart, error)
	GetOrCreate(userID uint) (*model.Cart, error)
	FindItems(cartID uint) ([]model.CartItem, error)
	FindItem(cartID, productID uint) (*model.CartItem, error)
	AddItem(cartID, productID uint, quantity int) (*model.CartItem, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) FindByUserID(userID uint) (*model.Cart, error) {
	var cart model.Cart
	if err := r.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetOrCreate returns the user's cart, inserting it if missing. The insert
// is a no-op on conflict, so concurrent callers converge on the same row.
func (r *cartRepository) GetOrCreate(userID uint) (*model.Cart, error) {
	logger.Debug("Getting or creating cart in database", map[string]interface{}{
		"user_id": userID,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&model.Cart{UserID: userID}).Error
	if err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	cart, err := r.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to load cart after upsert", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return cart, nil
}

func (r *cartRepository) FindItems(cartID uint) ([]model.CartItem, error) {
	logger.Debug("Finding cart items in database", map[string]interface{}{
		"cart_id": cartID,
	})

	var items []model.CartItem
	err := r.db.Where("cart_id = ?", cartID).
		Preload("Product").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		logger.Error("Failed to find cart items in database", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, err
	}

	logger.Debug("Cart items found in database", map[string]interface{}{
		"cart_id": cartID,
		"count":   len(items),
	})
	return items, nil
}

func (r *cartRepository) FindItem(cartID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).
		Preload("Product").
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AddItem inserts a cart line or, when the (cart, product) pair already
// exists, adds quantity to it in the same statement. The merge only applies
// while the result stays within model.MaxCartItemQuantity.
func (r *cartRepository) AddItem(cartID, productID uint, quantity int) (*model.CartItem, error) {
	logger.Debug("Upserting cart item in database", map[string]interface{}{
		"cart_id":    cartID,
		"product_id": productID,
		"quantity":   quantity,
	})

	item := &model.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	}

	result := r.db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{
				SQL:  "cart_items.quantity + excluded.quantity <= ?",
				Vars: []interface{}{model.MaxCartItemQuantity},
			},
		}},
	}).Create(item)
	if result.Error != nil {
		logger.Error("Failed to upsert cart item in database", result.Error, map[string]interface{}{
			"cart_id":    cartID,
			"product_id": productID,
		})
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		logger.Warn("Cart item quantity limit reached", map[string]interface{}{
			"cart_id":    cartID,
			"product_id": productID,
			"quantity":   quantity,
		})
		return nil, ErrQuantityLimit
	}

	saved, err := r.FindItem(cartID, productID)
	if err != nil {
		logger.Error("Failed to load cart item after upsert", err, map[string]interface{}{
			"cart_id":    cartID,
			"product_id": productID,
		})
		return nil, err
	}

	logger.Debug("Cart item upserted in database", map[string]interface{}{
		"cart_item_id": saved.ID,
		"quantity":     saved.Quantity,
	})
	return saved, nil
}
