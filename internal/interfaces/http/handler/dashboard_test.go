package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	dashboardapp "github.com/bizops/backend/internal/application/dashboard"
	vaultapp "github.com/bizops/backend/internal/application/vault"
	"github.com/bizops/backend/internal/domain/vault"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDashboardHandler_Stats(t *testing.T) {
	clients := new(MockClientRepository)
	clients.On("Count", mock.Anything).Return(int64(12), nil)

	incomes := new(MockEntryRepository)
	incomes.On("SumAmounts", mock.Anything).Return(decimal.NewFromInt(5000), nil)
	incomes.On("SumAmountsWithRemark", mock.Anything, dashboardapp.PendingRemarkFragment).
		Return(decimal.NewFromInt(750), nil)

	expenses := new(MockEntryRepository)
	expenses.On("SumAmounts", mock.Anything).Return(decimal.NewFromInt(3200), nil)
	expenses.On("SumAmountsAfter", mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(400), nil)

	credentials := new(MockCredentialRepository)
	credentials.On("FindExpiringBefore", mock.Anything, mock.Anything, mock.Anything).
		Return([]vault.Credential{}, nil)

	credentialService := vaultapp.NewCredentialService(credentials, nil, nil, nil)
	dashboard := dashboardapp.NewService(clients, incomes, expenses, credentialService, nil, nil)

	engine := newTestRouter(NewDashboardHandler(dashboard))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(12), data["totalClients"])
	assert.Equal(t, "5000", data["totalIncome"])
	assert.Equal(t, "3200", data["totalExpenses"])
	assert.Equal(t, "750", data["pendingIncome"])
	assert.Equal(t, "400", data["upcomingExpenses"])
}
