package errors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ErrorInfo is a code plus a message that is safe to show to the user
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns an infrastructure error (gorm, postgres, sqlite, redis)
// into something presentable. Driver details never reach the user.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	if IsUniqueViolation(err) {
		switch UniqueViolationColumn(err) {
		case "username":
			return ErrorInfo{Code: AuthUsernameExists, Message: "Username already exists"}
		case "email":
			return ErrorInfo{Code: AuthEmailExists, Message: "Email already exists"}
		}
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This record already exists"}
	}

	errLower := strings.ToLower(err.Error())

	if IsForeignKeyViolation(err) {
		return ErrorInfo{Code: ResourceConflict, Message: "The record is still referenced by other data"}
	}

	if strings.Contains(errLower, "redis") || strings.Contains(errLower, "connection refused") {
		return ErrorInfo{Code: InternalSessionStore, Message: "The service is temporarily unavailable, please try again"}
	}

	return ErrorInfo{Code: InternalServerError, Message: "Something went wrong, please try again later"}
}

// IsUniqueViolation reports whether err is a unique-constraint failure
// from postgres (23505) or sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	errLower := strings.ToLower(err.Error())
	return strings.Contains(errLower, "duplicate key") ||
		strings.Contains(errLower, "unique constraint") ||
		strings.Contains(errLower, "sqlstate 23505")
}

// IsForeignKeyViolation reports whether err is a foreign-key failure from
// postgres (23503) or sqlite.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	errLower := strings.ToLower(err.Error())
	return strings.Contains(errLower, "foreign key constraint") ||
		strings.Contains(errLower, "sqlstate 23503")
}

// UniqueViolationColumn names the users column behind a unique violation,
// or "" when it cannot be told.
//
//	postgres: duplicate key value violates unique constraint "idx_users_username"
//	sqlite:   UNIQUE constraint failed: users.username
func UniqueViolationColumn(err error) string {
	if err == nil {
		return ""
	}
	errLower := strings.ToLower(err.Error())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		errLower = strings.ToLower(pgErr.ConstraintName)
	}
	switch {
	case strings.Contains(errLower, "idx_users_username") || strings.Contains(errLower, "users.username"):
		return "username"
	case strings.Contains(errLower, "idx_users_email") || strings.Contains(errLower, "users.email"):
		return "email"
	}
	return ""
}

func notFoundMessage(context string) string {
	switch context {
	case "product":
		return "Product not found"
	case "user":
		return "User not found"
	case "cart":
		return "Cart not found"
	}
	return "The requested resource was not found"
}
