package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/foodies-app/backend/internal/types"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string `json:"message"`
}

// ErrorHandler translates domain errors attached via c.Error into HTTP
// responses. Unknown errors become a 500 with a generic message; the detail
// is logged server-side only.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, message := translate(err)
		if status == http.StatusInternalServerError {
			log.Printf("Error: %v", err)
		}
		c.JSON(status, ErrorResponse{Message: message})
	}
}

func translate(err error) (int, string) {
	var notFound *types.NotFoundError
	var duplicate *types.DuplicateError
	var validation *types.ValidationError
	var unauthorized *types.UnauthorizedError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Error()
	case errors.As(err, &duplicate):
		return http.StatusConflict, duplicate.Error()
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error()
	case errors.As(err, &unauthorized):
		return http.StatusForbidden, unauthorized.Error()
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// Unique-constraint violations that slipped past service checks.
		return http.StatusConflict, "Resource already exists"
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "Resource not found"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}
