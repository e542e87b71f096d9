package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Error   string `json:"error"`   // error code, see codes.go
	Message string `json:"message"` // user-facing message
}

// ErrorTemplate is the HTML template used for error pages
const ErrorTemplate = "error.html"

// WantsJSON reports whether the client asked for JSON over HTML
func WantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// RespondWithError writes a JSON error body
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// Respond writes the error as JSON or as the error page, following the
// Accept header. page carries extra template data such as the current user.
func Respond(c *gin.Context, statusCode int, errorCode string, message string, page gin.H) {
	if WantsJSON(c) {
		RespondWithError(c, statusCode, errorCode, message)
		return
	}

	data := gin.H{}
	for k, v := range page {
		data[k] = v
	}
	data["title"] = http.StatusText(statusCode)
	data["status"] = statusCode
	data["message"] = message
	c.HTML(statusCode, ErrorTemplate, data)
}
