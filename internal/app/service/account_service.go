package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/smartmart-backend/internal/app/model"
	"github.com/ikkim/smartmart-backend/internal/app/repository"
	apperrors "github.com/ikkim/smartmart-backend/internal/errors"
	sessionstore "github.com/ikkim/smartmart-backend/pkg/redis"
	"github.com/ikkim/smartmart-backend/pkg/logger"
	"github.com/ikkim/smartmart-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("authentication required")
)

// SessionStore persists live sessions. *redis.SessionStore implements it.
type SessionStore interface {
	Create(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (uint, error)
	Delete(ctx context.Context, sessionID string) error
}

// Session is an authenticated browser session. Token is the signed cookie
// value; ID is the server-side key it refers to.
type Session struct {
	ID        string
	Token     string
	UserID    uint
	ExpiresAt time.Time
}

type RegisterInput struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
	Confirm  string `form:"confirm_password"`
}

type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, *Session, error)
	Login(ctx context.Context, username, password string) (*model.User, *Session, error)
	Logout(ctx context.Context, session *Session) error
	Resolve(ctx context.Context, token string) (*model.User, *Session, error)
}

type accountService struct {
	userRepo   repository.UserRepository
	sessions   SessionStore
	secret     string
	sessionTTL time.Duration
}

func NewAccountService(
	userRepo repository.UserRepository,
	sessions SessionStore,
	secret string,
	sessionTTL time.Duration,
) AccountService {
	return &accountService{
		userRepo:   userRepo,
		sessions:   sessions,
		secret:     secret,
		sessionTTL: sessionTTL,
	}
}

func (s *accountService) Register(ctx context.Context, input RegisterInput) (*model.User, *Session, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	logger.Info("Attempting user registration", map[string]interface{}{
		"username": username,
	})

	if input.Password != input.Confirm {
		logger.Warn("Registration failed: password mismatch", map[string]interface{}{
			"username": username,
		})
		return nil, nil, ErrPasswordMismatch
	}

	if username != "" {
		existing, err := s.userRepo.FindByUsername(username)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to check existing username", err, map[string]interface{}{
				"username": username,
			})
			return nil, nil, err
		}
		if existing != nil {
			logger.Warn("Registration failed: username already exists", map[string]interface{}{
				"username": username,
			})
			return nil, nil, ErrDuplicateUsername
		}
	}

	if email != "" {
		existing, err := s.userRepo.FindByEmail(email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to check existing email", err, map[string]interface{}{
				"username": username,
			})
			return nil, nil, err
		}
		if existing != nil {
			logger.Warn("Registration failed: email already exists", map[string]interface{}{
				"username": username,
			})
			return nil, nil, ErrDuplicateEmail
		}
	}

	switch {
	case username == "":
		return nil, nil, invalid("username", "username is required")
	case email == "" || !strings.Contains(email, "@"):
		return nil, nil, invalid("email", "a valid email is required")
	case input.Password == "":
		return nil, nil, invalid("password", "password is required")
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		if errors.Is(err, util.ErrPasswordTooLong) {
			return nil, nil, invalid("password", "password is too long")
		}
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"username": username,
		})
		return nil, nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.CreateWithCart(user); err != nil {
		if apperrors.IsUniqueViolation(err) {
			switch apperrors.UniqueViolationColumn(err) {
			case "username":
				return nil, nil, ErrDuplicateUsername
			case "email":
				return nil, nil, ErrDuplicateEmail
			}
		}
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"username": username,
		})
		return nil, nil, err
	}

	session, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
	})
	return user, session, nil
}

func (s *accountService) Login(ctx context.Context, username, password string) (*model.User, *Session, error) {
	username = strings.TrimSpace(username)

	logger.Info("Login attempt", map[string]interface{}{
		"username": username,
	})

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.BurnPasswordCheck(password)
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"username": username,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"username": username,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, session, nil
}

func (s *accountService) Logout(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": session.UserID,
	})
	return nil
}

// Resolve maps a cookie value back to its user. Missing, expired, forged
// and revoked tokens all yield ErrUnauthorized.
func (s *accountService) Resolve(ctx context.Context, token string) (*model.User, *Session, error) {
	claims, err := util.ValidateToken(token, s.secret)
	if err != nil {
		return nil, nil, ErrUnauthorized
	}

	userID, err := s.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, sessionstore.ErrSessionNotFound) {
			return nil, nil, ErrUnauthorized
		}
		return nil, nil, err
	}
	if userID != claims.UserID {
		logger.Warn("Session owner does not match token", map[string]interface{}{
			"user_id": claims.UserID,
		})
		return nil, nil, ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUnauthorized
		}
		return nil, nil, err
	}

	session := &Session{
		ID:     claims.ID,
		Token:  token,
		UserID: user.ID,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return user, session, nil
}

func (s *accountService) openSession(ctx context.Context, userID uint) (*Session, error) {
	sessionID := uuid.NewString()

	token, err := util.GenerateSessionToken(userID, sessionID, s.secret, s.sessionTTL)
	if err != nil {
		logger.Error("Failed to sign session token", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := s.sessions.Create(ctx, sessionID, userID, s.sessionTTL); err != nil {
		return nil, err
	}

	return &Session{
		ID:        sessionID,
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}, nil
}
