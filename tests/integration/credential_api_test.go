package integration

import (
	"net/http"
	"testing"
	"time"

	vaultapp "github.com/bizops/backend/internal/application/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialAPI_CategoryNormalization(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)

	// Mixed-case category names collapse to their canonical form
	w := ts.Request(http.MethodPost, "/api/v1/credentials", map[string]interface{}{
		"client": "Acme Web",
		"type":   "Hosting",
		"login":  "admin",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created vaultapp.CredentialResponse
	decodeAPIResponse(t, w, &created)
	assert.Equal(t, "hosting", created.Type)

	// The stored row carries the canonical value too
	var stored string
	err := ts.DB.DB.Raw("SELECT category FROM credentials WHERE id = ?", created.ID).Scan(&stored).Error
	require.NoError(t, err)
	assert.Equal(t, "hosting", stored)

	// Unknown categories are rejected, not coerced
	w = ts.Request(http.MethodPost, "/api/v1/credentials", map[string]interface{}{
		"client": "Acme Web",
		"type":   "ftp",
	})
	resp := decodeAPIResponse(t, w, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ERR_VALIDATION", resp.Error.Code)
}

func TestCredentialAPI_UpcomingRenewals(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)

	soon := time.Now().AddDate(0, 0, 10).Format("2006-01-02")
	farOff := time.Now().AddDate(0, 0, 90).Format("2006-01-02")

	for _, cred := range []map[string]interface{}{
		{"client": "Acme Web", "type": "domain", "serviceName": "acme.example", "expiry": soon},
		{"client": "Beta Traders", "type": "hosting", "expiry": farOff},
		{"client": "Gamma LLC", "type": "email"},
	} {
		w := ts.Request(http.MethodPost, "/api/v1/credentials", cred)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	// Only the credential expiring inside the window shows up
	w := ts.Request(http.MethodGet, "/api/v1/credentials/renewals", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var renewals []vaultapp.RenewalResponse
	decodeAPIResponse(t, w, &renewals)
	require.Len(t, renewals, 1)
	assert.Equal(t, "Acme Web", renewals[0].Client)
	assert.Equal(t, "domain", renewals[0].Type)
	assert.LessOrEqual(t, renewals[0].DaysLeft, 10)

	// The database view agrees with the API
	var viewCount int64
	err := ts.DB.DB.Raw("SELECT COUNT(*) FROM upcoming_renewals").Scan(&viewCount).Error
	require.NoError(t, err)
	assert.EqualValues(t, 1, viewCount)
}

func TestCredentialAPI_SparseUpdate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)

	w := ts.Request(http.MethodPost, "/api/v1/credentials", map[string]interface{}{
		"client":   "Acme Web",
		"type":     "domain",
		"login":    "admin",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created vaultapp.CredentialResponse
	decodeAPIResponse(t, w, &created)

	w = ts.Request(http.MethodPatch, "/api/v1/credentials/"+created.ID.String(), map[string]interface{}{
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated vaultapp.CredentialResponse
	decodeAPIResponse(t, w, &updated)
	assert.Equal(t, "correct-horse", updated.Password)
	assert.Equal(t, "admin", updated.Login)
	assert.Equal(t, "domain", updated.Type)
}
