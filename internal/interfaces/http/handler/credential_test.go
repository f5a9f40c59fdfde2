package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	vaultapp "github.com/bizops/backend/internal/application/vault"
	"github.com/bizops/backend/internal/domain/shared"
	"github.com/bizops/backend/internal/domain/vault"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCredentialRouter(repo *MockCredentialRepository) *gin.Engine {
	service := vaultapp.NewCredentialService(repo, nil, nil, nil)
	return newTestRouter(NewCredentialHandler(service))
}

func TestCredentialHandler_Create(t *testing.T) {
	repo := new(MockCredentialRepository)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*vault.Credential")).Return(nil)

	engine := newCredentialRouter(repo)

	body := []byte(`{"client":"Acme Web","type":"Hosting","provider":"GoDaddy","login":"admin@acme.in"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/credentials", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "hosting", data["type"])
	assert.Equal(t, "GoDaddy", data["provider"])
	repo.AssertExpectations(t)
}

func TestCredentialHandler_Create_UnknownCategory(t *testing.T) {
	repo := new(MockCredentialRepository)
	engine := newCredentialRouter(repo)

	body := []byte(`{"client":"Acme Web","type":"ftp"}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/credentials", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "ERR_VALIDATION", resp.Error.Code)
	repo.AssertNotCalled(t, "Save")
}

func TestCredentialHandler_ListRenewals(t *testing.T) {
	repo := new(MockCredentialRepository)

	expiring, err := vault.NewCredential(nil, "Acme Web", "Domain")
	require.NoError(t, err)
	expiry := time.Now().Add(5 * 24 * time.Hour)
	expiring.Expiry = &expiry

	repo.On("FindExpiringBefore", mock.Anything, mock.Anything, mock.Anything).
		Return([]vault.Credential{*expiring}, nil)

	engine := newCredentialRouter(repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/renewals", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	rows := resp.Data.([]interface{})
	require.Len(t, rows, 1)

	row := rows[0].(map[string]interface{})
	assert.Equal(t, "Acme Web", row["client"])
	assert.Equal(t, "domain", row["type"])
}

func TestCredentialHandler_Delete_UnknownIDSucceeds(t *testing.T) {
	repo := new(MockCredentialRepository)
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	engine := newCredentialRouter(repo)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/credentials/"+id.String(), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	repo.AssertNotCalled(t, "Delete")
}
