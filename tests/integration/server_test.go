package integration

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	dashboardapp "github.com/bizops/backend/internal/application/dashboard"
	directoryapp "github.com/bizops/backend/internal/application/directory"
	ledgerapp "github.com/bizops/backend/internal/application/ledger"
	vaultapp "github.com/bizops/backend/internal/application/vault"
	"github.com/bizops/backend/internal/infrastructure/event"
	"github.com/bizops/backend/internal/infrastructure/persistence"
	"github.com/bizops/backend/internal/interfaces/http/handler"
	"github.com/bizops/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestServer runs the full HTTP stack against a containerized database.
// Authentication middleware is left out; auth behavior has its own tests.
type TestServer struct {
	DB     *TestDB
	Engine *gin.Engine
	Feed   *event.InMemoryChangeFeed
}

// NewTestServer wires repositories, services and handlers over a fresh
// migrated database.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	testDB := NewTestDB(t)
	log := zap.NewNop()
	feed := event.NewInMemoryChangeFeed(log)

	clientRepo := persistence.NewGormClientRepository(testDB.DB)
	credentialRepo := persistence.NewGormCredentialRepository(testDB.DB)
	incomeRepo := persistence.NewIncomeRepository(testDB.DB)
	expenseRepo := persistence.NewExpenseRepository(testDB.DB)

	clientService := directoryapp.NewClientService(clientRepo, nil, feed, log)
	credentialService := vaultapp.NewCredentialService(credentialRepo, nil, feed, log)
	incomeService := ledgerapp.NewIncomeService(incomeRepo, nil, feed, log)
	expenseService := ledgerapp.NewExpenseService(expenseRepo, nil, feed, log)
	dashboardService := dashboardapp.NewService(clientRepo, incomeRepo, expenseRepo, credentialService, nil, log)

	engine := gin.New()
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewClientHandler(clientService)).
		Register(handler.NewCredentialHandler(credentialService)).
		Register(handler.NewIncomeHandler(incomeService)).
		Register(handler.NewExpenseHandler(expenseService)).
		Register(handler.NewDashboardHandler(dashboardService)).
		Register(handler.NewSystemHandler(nil))
	r.Setup()

	return &TestServer{
		DB:     testDB,
		Engine: engine,
		Feed:   feed,
	}
}

// Request performs an HTTP request against the test server.
func (ts *TestServer) Request(method, path string, body interface{}) *httptest.ResponseRecorder {
	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	ts.Engine.ServeHTTP(w, req)
	return w
}

// APIResponse mirrors the response envelope used by every endpoint.
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Meta *struct {
		Count int `json:"count"`
		Limit int `json:"limit"`
	} `json:"meta,omitempty"`
}

// decodeAPIResponse parses the envelope and optionally the data payload.
func decodeAPIResponse(t *testing.T, w *httptest.ResponseRecorder, data interface{}) APIResponse {
	t.Helper()

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if data != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}
