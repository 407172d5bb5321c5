package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/globalinvoice/invoiceflow/internal/server/http/dto"
)

// LogHandler serves the processing audit trail.
type LogHandler struct {
	facade LogFacade
}

// NewLogHandler constructs LogHandler.
func NewLogHandler(facade LogFacade) *LogHandler {
	return &LogHandler{facade: facade}
}

// List handles GET /api/logs.
func (h *LogHandler) List(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	entries, err := h.facade.Logs(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to list logs")
		return
	}

	response := make([]dto.LogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, dto.ToLogEntryResponse(entry))
	}
	c.JSON(http.StatusOK, response)
}
