package handler

import (
	"io"
	"net/http"
	"time"

	ledgerapp "github.com/bizops/backend/internal/application/ledger"
	"github.com/bizops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles invoice file API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoices *ledgerapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoices *ledgerapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// RegisterRoutes registers the invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.Upload)
		invoices.GET("/url", h.SignedURL)
		invoices.DELETE("", h.Delete)
	}
}

// SignedURLQuery represents the query for a signed download URL
type SignedURLQuery struct {
	Path      string `form:"path" binding:"required"`
	ExpiresIn int    `form:"expires_in" binding:"omitempty,min=1,max=86400"`
}

// SignedURLResponse represents a signed download URL with its expiry
type SignedURLResponse struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
}

// DeleteInvoiceQuery represents the query for deleting a stored invoice
type DeleteInvoiceQuery struct {
	Path string `form:"path" binding:"required"`
}

// Upload stores an invoice file and returns its storage path
func (h *InvoiceHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing invoice file")
		return
	}
	if fileHeader.Size > ledgerapp.MaxInvoiceSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "Invoice file exceeds the size limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read invoice file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.InternalError(c, "Failed to read invoice file")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	stored, err := h.invoices.Upload(c.Request.Context(), fileHeader.Filename, data, contentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, stored)
}

// SignedURL returns a time-limited download URL for a stored invoice
func (h *InvoiceHandler) SignedURL(c *gin.Context) {
	var query SignedURLQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ttl := time.Duration(query.ExpiresIn) * time.Second
	url, expiresAt, err := h.invoices.SignedURL(c.Request.Context(), query.Path, ttl)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, SignedURLResponse{
		URL:       url,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// Delete removes a stored invoice file
func (h *InvoiceHandler) Delete(c *gin.Context) {
	var query DeleteInvoiceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.invoices.Delete(c.Request.Context(), query.Path); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
