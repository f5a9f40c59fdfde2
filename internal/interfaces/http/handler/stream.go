package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	directoryapp "github.com/bizops/backend/internal/application/directory"
	ledgerapp "github.com/bizops/backend/internal/application/ledger"
	vaultapp "github.com/bizops/backend/internal/application/vault"
	"github.com/bizops/backend/internal/infrastructure/event"
	"github.com/bizops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SSEMessage represents a message sent to SSE clients
type SSEMessage struct {
	Event string `json:"event"`
	Data  string `json:"data"`
	ID    string `json:"id,omitempty"`
}

// streamTables lists the tables clients may subscribe to
var streamTables = map[string]bool{
	event.TableWildcard:       true,
	directoryapp.ClientsTable: true,
	vaultapp.CredentialsTable: true,
	vaultapp.RenewalsTable:    true,
	ledgerapp.IncomesTable:    true,
	ledgerapp.ExpensesTable:   true,
}

// StreamHandler serves the change feed over Server-Sent Events. Each
// connection holds its own feed subscription so a slow client only ever
// loses its own events.
type StreamHandler struct {
	BaseHandler
	feed       event.ChangeFeed
	logger     *zap.Logger
	heartbeat  time.Duration
	maxClients int64
	clients    atomic.Int64
}

// StreamOption is a functional option for configuring the handler
type StreamOption func(*StreamHandler)

// WithStreamLogger sets the logger for the handler
func WithStreamLogger(logger *zap.Logger) StreamOption {
	return func(h *StreamHandler) {
		h.logger = logger
	}
}

// WithStreamHeartbeat sets the heartbeat interval
func WithStreamHeartbeat(interval time.Duration) StreamOption {
	return func(h *StreamHandler) {
		h.heartbeat = interval
	}
}

// WithStreamMaxClients sets the maximum number of concurrent connections
func WithStreamMaxClients(max int64) StreamOption {
	return func(h *StreamHandler) {
		h.maxClients = max
	}
}

// NewStreamHandler creates a new StreamHandler
func NewStreamHandler(feed event.ChangeFeed, opts ...StreamOption) *StreamHandler {
	h := &StreamHandler{
		feed:       feed,
		logger:     zap.NewNop(),
		heartbeat:  30 * time.Second,
		maxClients: 10000,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// RegisterRoutes registers the stream route
func (h *StreamHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stream", h.Stream)
}

// ClientCount returns the number of connected SSE clients
func (h *StreamHandler) ClientCount() int64 {
	return h.clients.Load()
}

// Stream establishes an SSE connection and relays change events for the
// requested table. The table query parameter defaults to all tables.
func (h *StreamHandler) Stream(c *gin.Context) {
	table := c.DefaultQuery("table", event.TableWildcard)
	if !streamTables[table] {
		h.BadRequest(c, fmt.Sprintf("Unknown table %q", table))
		return
	}

	if h.maxClients > 0 && h.clients.Load() >= h.maxClients {
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeUnavailable, "Maximum number of stream connections reached")
		return
	}

	sub, err := h.feed.Subscribe(table)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer sub.Close()

	h.clients.Add(1)
	defer h.clients.Add(-1)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	userID := c.GetString("user_id")
	h.logger.Info("stream client connected",
		zap.String("table", table),
		zap.String("user_id", userID))

	h.sendEvent(c.Writer, SSEMessage{
		Event: "connected",
		Data:  fmt.Sprintf(`{"table":%q,"timestamp":%d}`, table, time.Now().Unix()),
	})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	reqCtx := c.Request.Context()
	for {
		select {
		case <-reqCtx.Done():
			h.logger.Info("stream client disconnected", zap.String("table", table))
			return
		case <-ticker.C:
			h.sendEvent(c.Writer, SSEMessage{
				Event: "heartbeat",
				Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			})
			c.Writer.Flush()
		case evt, ok := <-sub.Events():
			if !ok {
				// Feed closed the subscription, e.g. on shutdown.
				return
			}
			data, err := json.Marshal(evt)
			if err != nil {
				h.logger.Error("failed to marshal change event", zap.Error(err))
				continue
			}
			h.sendEvent(c.Writer, SSEMessage{
				Event: "change",
				Data:  string(data),
				ID:    fmt.Sprintf("%d", evt.Timestamp),
			})
			c.Writer.Flush()
		}
	}
}

// sendEvent writes an SSE event to the response writer
func (h *StreamHandler) sendEvent(w io.Writer, msg SSEMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}
