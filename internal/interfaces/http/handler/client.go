package handler

import (
	directoryapp "github.com/bizops/backend/internal/application/directory"
	"github.com/gin-gonic/gin"
)

// ClientHandler handles client directory API endpoints
type ClientHandler struct {
	BaseHandler
	clients *directoryapp.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clients *directoryapp.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// RegisterRoutes registers the client routes
func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	{
		clients.GET("", h.List)
		clients.POST("", h.Create)
		clients.GET("/:id", h.Get)
		clients.PATCH("/:id", h.Update)
		clients.DELETE("/:id", h.Delete)
	}
}

// Create creates a new client record
func (h *ClientHandler) Create(c *gin.Context) {
	var req directoryapp.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.clients.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a single client by id
func (h *ClientHandler) Get(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	resp, err := h.clients.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns clients matching the query filter
func (h *ClientHandler) List(c *gin.Context) {
	var filter directoryapp.ClientListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.clients.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, resp, len(resp), filter.Limit)
}

// Update applies a partial update to a client
func (h *ClientHandler) Update(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	var req directoryapp.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.clients.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a client. Deleting an unknown id is not an error.
func (h *ClientHandler) Delete(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	if err := h.clients.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
