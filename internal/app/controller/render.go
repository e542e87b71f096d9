package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/ikkim/smartmart-backend/internal/app/service"
	apperrors "github.com/ikkim/smartmart-backend/internal/errors"
	"github.com/ikkim/smartmart-backend/internal/middleware"
)

// Route paths used for links and redirects
const (
	PathHome          = "/"
	PathProducts      = "/products/"
	PathProductCreate = "/product/create/"
	PathRegister      = "/register/"
	PathLogin         = "/login/"
	PathLogout        = "/logout/"
	PathCart          = "/cart/"
)

func productPath(id uint) string {
	return fmt.Sprintf("/product/%d/", id)
}

// render writes data as JSON or executes the named template with it
func render(c *gin.Context, status int, name string, data gin.H) {
	if apperrors.WantsJSON(c) {
		c.JSON(status, data)
		return
	}
	c.HTML(status, name, pageData(c, data))
}

// pageData copies data and adds the signed-in user for the layout header
func pageData(c *gin.Context, data gin.H) gin.H {
	page := gin.H{}
	for k, v := range data {
		page[k] = v
	}
	if user, ok := middleware.GetUser(c); ok {
		page["current_user"] = user
	}
	return page
}

// renderForm re-renders a form page with a message above it
func renderForm(c *gin.Context, status int, name, code, message string, data gin.H) {
	if apperrors.WantsJSON(c) {
		apperrors.RespondWithError(c, status, code, message)
		return
	}
	data["error"] = message
	render(c, status, name, data)
}

func renderError(c *gin.Context, status int, code, message string) {
	apperrors.Respond(c, status, code, message, pageData(c, nil))
}

func redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusSeeOther, path)
}

// describeError maps a service error to an HTTP status and a message that
// is safe to show
func describeError(err error, context string) (int, apperrors.ErrorInfo) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, apperrors.ErrorInfo{Code: apperrors.ValidationInvalidInput, Message: capitalize(verr.Message)}
	case errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound, apperrors.ErrorInfo{Code: apperrors.ResourceNotFound, Message: "Product not found"}
	case errors.Is(err, service.ErrPasswordMismatch):
		return http.StatusBadRequest, apperrors.ErrorInfo{Code: apperrors.AuthPasswordMismatch, Message: "Passwords do not match"}
	case errors.Is(err, service.ErrDuplicateUsername):
		return http.StatusBadRequest, apperrors.ErrorInfo{Code: apperrors.AuthUsernameExists, Message: "Username already exists"}
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusBadRequest, apperrors.ErrorInfo{Code: apperrors.AuthEmailExists, Message: "Email already exists"}
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, apperrors.ErrorInfo{Code: apperrors.AuthInvalidCredentials, Message: "Invalid credentials"}
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, apperrors.ErrorInfo{Code: apperrors.AuthUnauthorized, Message: "Please log in to continue"}
	}

	info := apperrors.ParseError(err, context)
	if info.Code == apperrors.ResourceNotFound {
		return http.StatusNotFound, info
	}
	return http.StatusInternalServerError, info
}

// failWith logs err and renders the matching error page
func failWith(c *gin.Context, err error, context string) {
	status, info := describeError(err, context)
	log := middleware.GetLoggerFromContext(c)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", err, map[string]interface{}{
			"context": context,
		})
	} else {
		log.Warn("Request rejected", map[string]interface{}{
			"context": context,
			"code":    info.Code,
		})
	}
	renderError(c, status, info.Code, info.Message)
}

// parseID reads a positive numeric path parameter
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID format", map[string]interface{}{
			name: raw,
		})
		renderError(c, http.StatusNotFound, apperrors.ValidationInvalidID, "Page not found")
		return 0, false
	}
	return uint(id), true
}

// bindForm maps the posted form body onto obj and validates its binding
// tags. Fields that were not posted keep their zero value, nil for pointers.
func bindForm(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindWith(obj, binding.FormPost); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid form body", map[string]interface{}{
			"error": err.Error(),
		})
		renderError(c, http.StatusBadRequest, apperrors.ValidationInvalidInput, "The submitted form is invalid")
		return false
	}
	return true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// NotFound renders the 404 page for unknown routes
func NotFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, apperrors.ResourceNotFound, "Page not found")
}

// MethodNotAllowed renders the 405 page
func MethodNotAllowed(c *gin.Context) {
	renderError(c, http.StatusMethodNotAllowed, apperrors.ValidationInvalidInput, "Method not allowed")
}
