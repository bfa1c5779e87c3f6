package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/stwalsh4118/suburbscope/internal/middleware"
)

// Error code constants for standardized error responses
const (
	ErrNotFound        = "NOT_FOUND"
	ErrBadRequest      = "BAD_REQUEST"
	ErrInternalServer  = "INTERNAL_SERVER_ERROR"
	ErrValidation      = "VALIDATION_ERROR"
	ErrTooManyRequests = "TOO_MANY_REQUESTS"
)

// ErrorResponse is the JSON body of every error response.
// The message lives under "error" so browser clients can show it directly.
type ErrorResponse struct {
	Error     string                 `json:"error"`
	Code      string                 `json:"code"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		log.Warn("Resource not found", map[string]interface{}{
			"message":    message,
			"request_id": requestID,
			"path":       c.Request.URL.Path,
		})
	}

	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:     message,
		Code:      ErrNotFound,
		RequestID: requestID,
	})
}

// BadRequest returns a 400 Bad Request error response with optional details.
// It logs a warning and sends a JSON response with the error details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	logFields := map[string]interface{}{
		"message":    message,
		"request_id": requestID,
		"path":       c.Request.URL.Path,
	}
	if details != nil {
		logFields["details"] = details
	}

	if log != nil {
		log.Warn("Bad request", logFields)
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:     message,
		Code:      ErrBadRequest,
		Details:   details,
		RequestID: requestID,
	})
}

// PlainBadRequest returns a 400 Bad Request with a text/plain body.
// Used by endpoints whose clients expect a file download rather than JSON.
func PlainBadRequest(c *gin.Context, message string) {
	log := middleware.GetLogger(c)

	if log != nil {
		log.Warn("Bad request", map[string]interface{}{
			"message":    message,
			"request_id": middleware.GetRequestID(c),
			"path":       c.Request.URL.Path,
		})
	}

	c.String(http.StatusBadRequest, message)
}

// InternalServerError returns a 500 Internal Server Error response.
// It logs the error with full context and sends only the given message to
// the client.
func InternalServerError(c *gin.Context, message string, err error) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	logFields := map[string]interface{}{
		"message":    message,
		"request_id": requestID,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
	}

	if log != nil {
		log.Error("Internal server error", err, logFields)
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:     message,
		Code:      ErrInternalServer,
		RequestID: requestID,
	})
}

// TooManyRequests returns a 429 Too Many Requests error response and aborts
// the handler chain.
func TooManyRequests(c *gin.Context, message string) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		log.Warn("Rate limit exceeded", map[string]interface{}{
			"request_id": requestID,
			"path":       c.Request.URL.Path,
			"ip":         c.ClientIP(),
		})
	}

	c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
		Error:     message,
		Code:      ErrTooManyRequests,
		RequestID: requestID,
	})
}

// ValidationError returns a 400 Bad Request error response with field-specific validation errors.
// message is what the client shows; details map each failing field to a reason.
func ValidationError(c *gin.Context, message string, validationErrors validator.ValidationErrors) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	// Convert validation errors to a map of field -> error message
	details := make(map[string]interface{})
	for _, err := range validationErrors {
		field := err.Field()
		details[field] = formatValidationError(err)
	}

	if log != nil {
		log.Warn("Validation error", map[string]interface{}{
			"request_id": requestID,
			"path":       c.Request.URL.Path,
			"fields":     details,
		})
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:     message,
		Code:      ErrValidation,
		Details:   details,
		RequestID: requestID,
	})
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "len":
		return "Must have length of " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	case "url":
		return "Must be a valid URL"
	case "printascii":
		return "Must contain printable characters only"
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
