package handler

import (
	vaultapp "github.com/bizops/backend/internal/application/vault"
	"github.com/gin-gonic/gin"
)

// CredentialHandler handles credential vault API endpoints
type CredentialHandler struct {
	BaseHandler
	credentials *vaultapp.CredentialService
}

// NewCredentialHandler creates a new CredentialHandler
func NewCredentialHandler(credentials *vaultapp.CredentialService) *CredentialHandler {
	return &CredentialHandler{credentials: credentials}
}

// RegisterRoutes registers the credential and renewal routes
func (h *CredentialHandler) RegisterRoutes(rg *gin.RouterGroup) {
	credentials := rg.Group("/credentials")
	{
		credentials.GET("", h.List)
		credentials.POST("", h.Create)
		credentials.GET("/:id", h.Get)
		credentials.PATCH("/:id", h.Update)
		credentials.DELETE("/:id", h.Delete)
	}
	rg.GET("/renewals", h.ListRenewals)
}

// Create stores a new credential
func (h *CredentialHandler) Create(c *gin.Context) {
	var req vaultapp.CreateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.credentials.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a single credential by id
func (h *CredentialHandler) Get(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid credential ID")
		return
	}

	resp, err := h.credentials.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns credentials matching the query filter
func (h *CredentialHandler) List(c *gin.Context) {
	var filter vaultapp.CredentialListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.credentials.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, resp, len(resp), filter.Limit)
}

// Update applies a partial update to a credential
func (h *CredentialHandler) Update(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid credential ID")
		return
	}

	var req vaultapp.UpdateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.credentials.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a credential. Deleting an unknown id is not an error.
func (h *CredentialHandler) Delete(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid credential ID")
		return
	}

	if err := h.credentials.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListRenewals returns credentials expiring within the renewal window,
// soonest first
func (h *CredentialHandler) ListRenewals(c *gin.Context) {
	resp, err := h.credentials.ListRenewals(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
