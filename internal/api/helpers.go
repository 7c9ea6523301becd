package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodies-app/backend/internal/repository"
)

// parseListParams reads page/limit/sortBy/sortDir from the query string.
// Values are clamped by the repository, never rejected.
func parseListParams(c *gin.Context) (repository.Pagination, repository.Sort) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return repository.Pagination{Page: page, Limit: limit},
		repository.ParseSort(c.Query("sortBy"), c.Query("sortDir"))
}

// parseIDParam parses the :id path parameter, writing a 400 itself when the
// value is not a UUID. The bool reports whether parsing succeeded.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// currentUserID reads the authenticated user's id set by the auth
// middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "User not authenticated"})
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "User not authenticated"})
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses an optional query-string UUID filter. A malformed
// value filters on the nil UUID, which matches no row: an unknown filter
// yields an empty result set, never an error.
func optionalUUID(c *gin.Context, name string) *uuid.UUID {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		id = uuid.Nil
	}
	return &id
}

// fail records the error for the error-translation middleware and stops the
// handler chain without writing a response.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
