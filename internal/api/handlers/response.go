package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{"message": message, "data": data})
}

// respondError maps the error kind to a status code. Internal failures are
// logged with their cause and reach the client as a generic message.
func respondError(c *gin.Context, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)
	if kind == domain.KindInternal {
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"message": domain.MessageOf(err)})
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": message})
}

// bindJSON decodes the body and answers 400 on malformed input.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// parseListParams reads page, limit (or pageSize) and search. Values that do
// not parse fall back to defaults.
func parseListParams(c *gin.Context) domain.ListParams {
	size := c.Query("limit")
	if size == "" {
		size = c.Query("pageSize")
	}
	return domain.ListParams{
		Page:     parsePositiveIntWithDefault(c.Query("page"), domain.DefaultPage),
		PageSize: parsePositiveIntWithDefault(size, domain.DefaultPageSize),
		Search:   strings.TrimSpace(c.Query("search")),
	}
}

func parsePositiveIntWithDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
