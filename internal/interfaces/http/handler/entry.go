package handler

import (
	ledgerapp "github.com/bizops/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// EntryHandler handles ledger entry API endpoints. The same handler
// serves both incomes and expenses; the bound service decides which
// table the requests operate on.
type EntryHandler struct {
	BaseHandler
	entries *ledgerapp.EntryService
	prefix  string
}

// NewIncomeHandler creates an EntryHandler bound to the income ledger
func NewIncomeHandler(entries *ledgerapp.EntryService) *EntryHandler {
	return &EntryHandler{entries: entries, prefix: "/incomes"}
}

// NewExpenseHandler creates an EntryHandler bound to the expense ledger
func NewExpenseHandler(entries *ledgerapp.EntryService) *EntryHandler {
	return &EntryHandler{entries: entries, prefix: "/expenses"}
}

// RegisterRoutes registers the entry routes under the bound prefix
func (h *EntryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group(h.prefix)
	{
		entries.GET("", h.List)
		entries.POST("", h.Create)
		entries.GET("/:id", h.Get)
		entries.PATCH("/:id", h.Update)
		entries.DELETE("/:id", h.Delete)
	}
}

// Create records a new ledger entry
func (h *EntryHandler) Create(c *gin.Context) {
	var req ledgerapp.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.entries.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns a single entry by id
func (h *EntryHandler) Get(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	resp, err := h.entries.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns entries matching the query filter
func (h *EntryHandler) List(c *gin.Context) {
	var filter ledgerapp.EntryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.entries.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, resp, len(resp), filter.Limit)
}

// Update applies a partial update to an entry
func (h *EntryHandler) Update(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	var req ledgerapp.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.entries.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes an entry. Deleting an unknown id is not an error.
func (h *EntryHandler) Delete(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		h.BadRequest(c, "Invalid entry ID")
		return
	}

	if err := h.entries.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
