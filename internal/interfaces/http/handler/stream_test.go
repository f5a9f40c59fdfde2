package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	directoryapp "github.com/bizops/backend/internal/application/directory"
	"github.com/bizops/backend/internal/infrastructure/event"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// syncRecorder guards the response body so the test can read it while the
// stream goroutine is still alive.
type syncRecorder struct {
	*httptest.ResponseRecorder
	mu sync.Mutex
}

func newSyncRecorder() *syncRecorder {
	return &syncRecorder{ResponseRecorder: httptest.NewRecorder()}
}

func (r *syncRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.Write(p)
}

func (r *syncRecorder) WriteString(s string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.WriteString(s)
}

func (r *syncRecorder) body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.Body.String()
}

func TestNewStreamHandler_Defaults(t *testing.T) {
	feed := event.NewInMemoryChangeFeed(zap.NewNop())
	h := NewStreamHandler(feed)

	assert.Equal(t, 30*time.Second, h.heartbeat)
	assert.EqualValues(t, 10000, h.maxClients)
	assert.EqualValues(t, 0, h.ClientCount())
}

func TestNewStreamHandler_WithOptions(t *testing.T) {
	feed := event.NewInMemoryChangeFeed(zap.NewNop())
	logger := zap.NewNop()

	h := NewStreamHandler(feed,
		WithStreamLogger(logger),
		WithStreamHeartbeat(5*time.Second),
		WithStreamMaxClients(2),
	)

	assert.Equal(t, 5*time.Second, h.heartbeat)
	assert.EqualValues(t, 2, h.maxClients)
	assert.Equal(t, logger, h.logger)
}

func TestStreamHandler_UnknownTable(t *testing.T) {
	feed := event.NewInMemoryChangeFeed(zap.NewNop())
	engine := newTestRouter(NewStreamHandler(feed))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/stream?table=users", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStreamHandler_MaxClients(t *testing.T) {
	feed := event.NewInMemoryChangeFeed(zap.NewNop())
	h := NewStreamHandler(feed, WithStreamMaxClients(1))
	h.clients.Add(1)
	defer h.clients.Add(-1)

	engine := newTestRouter(h)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/stream", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "ERR_UNAVAILABLE", resp.Error.Code)
}

func TestStreamHandler_RelaysChangeEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)

	feed := event.NewInMemoryChangeFeed(zap.NewNop())
	h := NewStreamHandler(feed, WithStreamHeartbeat(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := newSyncRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/stream?table=clients", nil)
	c.Request = req.WithContext(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Stream(c)
	}()

	// Wait for the subscription before publishing.
	require.Eventually(t, func() bool {
		return feed.SubscriberCount(directoryapp.ClientsTable) == 1
	}, time.Second, 10*time.Millisecond)

	err := feed.Publish(context.Background(), event.NewChangeEvent(
		directoryapp.ClientsTable, event.ChangeInsert,
		map[string]string{"clientName": "Acme Web"}, nil))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return strings.Contains(w.body(), "event: change")
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not stop after the client disconnected")
	}

	body := w.body()
	assert.Contains(t, body, "event: connected")
	assert.Contains(t, body, `"table":"clients"`)
	assert.Contains(t, body, "Acme Web")
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.EqualValues(t, 0, h.ClientCount())
}
