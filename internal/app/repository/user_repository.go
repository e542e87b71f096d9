package repository

import (
	"github.com/ikkim/smartmart-backend/internal/app/model"
	"github.com/ikkim/smartmart-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	CreateWithCart(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Update(user *model.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"username": user.Username,
	})

	if err := r.db.Omit("Cart").Create(user).Error; err != nil {
		logger.Warn("Failed to create user in database", map[string]interface{}{
			"username": user.Username,
			"error":    err.Error(),
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return nil
}

// CreateWithCart inserts the user and an empty cart atomically.
func (r *userRepository) CreateWithCart(user *model.User) error {
	logger.Debug("Creating user with cart in database", map[string]interface{}{
		"username": user.Username,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Cart").Create(user).Error; err != nil {
			return err
		}
		cart := &model.Cart{UserID: user.ID}
		if err := tx.Create(cart).Error; err != nil {
			return err
		}
		user.Cart = cart
		return nil
	})
	if err != nil {
		// a concurrent registration may have taken the username/email
		logger.Warn("Failed to create user with cart in database", map[string]interface{}{
			"username": user.Username,
			"error":    err.Error(),
		})
		user.ID = 0
		return err
	}

	logger.Debug("User with cart created in database", map[string]interface{}{
		"user_id": user.ID,
		"cart_id": user.Cart.ID,
	})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	logger.Debug("Finding user by username in database", map[string]interface{}{
		"username": username,
	})

	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	logger.Debug("Finding user by email in database", map[string]interface{}{
		"email": email,
	})

	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
	})

	if err := r.db.Omit("Cart").Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}
