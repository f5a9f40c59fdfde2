package integration

import (
	"net/http"
	"testing"
	"time"

	ledgerapp "github.com/bizops/backend/internal/application/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerAPI_IncomeLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)

	// Amounts arrive as strings from the frontend
	w := ts.Request(http.MethodPost, "/api/v1/incomes", map[string]interface{}{
		"customer": "Acme Web",
		"amount":   "1500.50",
		"date":     "2026-03-01",
		"category": "Development",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created ledgerapp.EntryResponse
	decodeAPIResponse(t, w, &created)
	assert.Equal(t, "1500.5", created.Amount.String())
	assert.Equal(t, "2026-03-01", created.Date)

	// Non-numeric amounts coerce to zero instead of failing the request
	w = ts.Request(http.MethodPost, "/api/v1/incomes", map[string]interface{}{
		"customer": "Beta Traders",
		"amount":   "abc",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var coerced ledgerapp.EntryResponse
	decodeAPIResponse(t, w, &coerced)
	assert.True(t, coerced.Amount.IsZero())

	// Incomes do not leak into the expense ledger
	w = ts.Request(http.MethodGet, "/api/v1/expenses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeAPIResponse(t, w, nil)
	assert.Equal(t, 0, resp.Meta.Count)

	w = ts.Request(http.MethodGet, "/api/v1/incomes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeAPIResponse(t, w, nil)
	assert.Equal(t, 2, resp.Meta.Count)

	// Negative amounts are rejected on update
	w = ts.Request(http.MethodPatch, "/api/v1/incomes/"+created.ID.String(), map[string]interface{}{
		"amount": "-5",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardAPI_Stats(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ts := NewTestServer(t)

	w := ts.Request(http.MethodPost, "/api/v1/clients", map[string]interface{}{
		"clientName": "Acme Web",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	for _, income := range []map[string]interface{}{
		{"customer": "Acme Web", "amount": "5000", "date": "2026-01-15"},
		{"customer": "Beta Traders", "amount": "750", "remark": "pending approval"},
	} {
		w := ts.Request(http.MethodPost, "/api/v1/incomes", income)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	future := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	for _, expense := range []map[string]interface{}{
		{"customer": "Hosting Co", "amount": "3200", "date": "2026-01-20"},
		{"customer": "Domain Registrar", "amount": "400", "date": future},
	} {
		w := ts.Request(http.MethodPost, "/api/v1/expenses", expense)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = ts.Request(http.MethodGet, "/api/v1/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Sums come back with the column scale, so compare as decimals
	var stats struct {
		TotalClients     int64           `json:"totalClients"`
		TotalIncome      decimal.Decimal `json:"totalIncome"`
		TotalExpenses    decimal.Decimal `json:"totalExpenses"`
		PendingIncome    decimal.Decimal `json:"pendingIncome"`
		UpcomingExpenses decimal.Decimal `json:"upcomingExpenses"`
	}
	decodeAPIResponse(t, w, &stats)

	assert.EqualValues(t, 1, stats.TotalClients)
	assert.True(t, stats.TotalIncome.Equal(decimal.NewFromInt(5750)), stats.TotalIncome.String())
	assert.True(t, stats.TotalExpenses.Equal(decimal.NewFromInt(3600)), stats.TotalExpenses.String())
	assert.True(t, stats.PendingIncome.Equal(decimal.NewFromInt(750)), stats.PendingIncome.String())
	assert.True(t, stats.UpcomingExpenses.Equal(decimal.NewFromInt(400)), stats.UpcomingExpenses.String())
}
