package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/globalinvoice/invoiceflow/internal/domain/errors"
	"github.com/globalinvoice/invoiceflow/internal/domain/model"
	"github.com/globalinvoice/invoiceflow/internal/server/http/dto"
)

// InvoiceHandler manages invoice record endpoints.
type InvoiceHandler struct {
	facade InvoiceFacade
}

// NewInvoiceHandler constructs InvoiceHandler.
func NewInvoiceHandler(facade InvoiceFacade) *InvoiceHandler {
	return &InvoiceHandler{facade: facade}
}

// Submit handles POST /api/invoices.
func (h *InvoiceHandler) Submit(c *gin.Context) {
	var fields model.InvoiceFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		abortWithError(c, http.StatusBadRequest, "malformed invoice payload")
		return
	}

	invoice, err := h.facade.SubmitInvoice(c.Request.Context(), fields)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to store invoice")
		return
	}
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(*invoice))
}

// Notify handles POST /api/invoices/notifications.
func (h *InvoiceHandler) Notify(c *gin.Context) {
	var req dto.NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "malformed notification payload")
		return
	}
	if strings.TrimSpace(req.Bucket) == "" || strings.TrimSpace(req.Key) == "" {
		abortWithError(c, http.StatusBadRequest, "bucket and key are required")
		return
	}

	invoice, err := h.facade.IngestNotification(c.Request.Context(), req.Bucket, req.Key)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidPayload):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, domainErrors.ErrNotFound):
			abortWithError(c, http.StatusNotFound, "uploaded object not found")
		default:
			abortWithError(c, http.StatusInternalServerError, "failed to ingest upload")
		}
		return
	}
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(*invoice))
}

// List handles GET /api/invoices.
func (h *InvoiceHandler) List(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		abortWithError(c, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	status := model.InvoiceStatus(c.Query("status"))

	invoices, err := h.facade.Invoices(c.Request.Context(), status, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to list invoices")
		return
	}

	response := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		response = append(response, dto.ToInvoiceResponse(invoice))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.facade.Invoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "invoice not found")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "failed to load invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(*invoice))
}

// Stats handles GET /api/invoices/stats.
func (h *InvoiceHandler) Stats(c *gin.Context) {
	stats, err := h.facade.Stats(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to aggregate stats")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatsResponse(*stats))
}

// GeneratePDF handles POST /api/invoices/:id/pdf.
func (h *InvoiceHandler) GeneratePDF(c *gin.Context) {
	location, err := h.facade.GeneratePDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			abortWithError(c, http.StatusNotFound, "invoice not found")
		case errors.Is(err, domainErrors.ErrNotValidated):
			abortWithError(c, http.StatusConflict, "invoice is not validated")
		case errors.Is(err, domainErrors.ErrPDFDisabled):
			abortWithError(c, http.StatusForbidden, "pdf generation is disabled")
		default:
			abortWithError(c, http.StatusInternalServerError, "failed to generate pdf")
		}
		return
	}
	c.JSON(http.StatusOK, dto.PDFResponse{Location: location})
}

// GetPDF handles GET /api/invoices/:id/pdf.
func (h *InvoiceHandler) GetPDF(c *gin.Context) {
	location, err := h.facade.PDFLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			abortWithError(c, http.StatusNotFound, "invoice not found")
		case errors.Is(err, domainErrors.ErrPDFNotReady):
			abortWithError(c, http.StatusNotFound, "pdf not generated yet")
		default:
			abortWithError(c, http.StatusInternalServerError, "failed to load pdf location")
		}
		return
	}
	c.JSON(http.StatusOK, dto.PDFResponse{Location: location})
}
