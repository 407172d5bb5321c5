package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/globalinvoice/invoiceflow/internal/server/http/dto"
)

// abortWithError writes the uniform error envelope and stops the chain.
func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

// queryInt parses an optional integer query parameter. A missing or empty
// value yields the fallback; a malformed one is reported to the caller.
func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}
