package vault

import (
	"testing"
	"time"

	"github.com/bizops/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCategory_DisplayLabels(t *testing.T) {
	cases := map[string]Category{
		"Domain":  CategoryDomain,
		"Hosting": CategoryHosting,
		"Email":   CategoryEmail,
		"Other":   CategoryOther,
	}
	for label, want := range cases {
		got, err := NormalizeCategory(label)
		require.NoError(t, err, "label %q", label)
		assert.Equal(t, want, got)
	}
}

func TestNormalizeCategory_CanonicalLowercase(t *testing.T) {
	for _, c := range Categories() {
		got, err := NormalizeCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestNormalizeCategory_MixedCase(t *testing.T) {
	got, err := NormalizeCategory("HOSTING")
	require.NoError(t, err)
	assert.Equal(t, CategoryHosting, got)
}

func TestNormalizeCategory_RejectsUnknown(t *testing.T) {
	for _, raw := range []string{"VPN", "ssl", "", "Domains"} {
		_, err := NormalizeCategory(raw)
		require.Error(t, err, "input %q", raw)
		assert.True(t, shared.IsValidation(err))
		assert.Contains(t, err.Error(), "Domain, Hosting, Email, Other")
	}
}

func TestCredential_SetCategory(t *testing.T) {
	cred, err := NewCredential(nil, "Acme", "Domain")
	require.NoError(t, err)
	assert.Equal(t, CategoryDomain, cred.Category)

	require.NoError(t, cred.SetCategory("email"))
	assert.Equal(t, CategoryEmail, cred.Category)

	err = cred.SetCategory("bogus")
	require.Error(t, err)
	assert.Equal(t, CategoryEmail, cred.Category, "failed update must not change the category")
}

func TestCategory_DisplayLabel(t *testing.T) {
	assert.Equal(t, "Domain", CategoryDomain.DisplayLabel())
	assert.Equal(t, "Other", CategoryOther.DisplayLabel())
	assert.Equal(t, "", Category("").DisplayLabel())
}

func TestCredential_DaysUntilExpiry(t *testing.T) {
	cred, err := NewCredential(nil, "Acme", "Hosting")
	require.NoError(t, err)

	_, ok := cred.DaysUntilExpiry(time.Now())
	assert.False(t, ok, "no expiry set")

	now := time.Now()
	expiry := now.AddDate(0, 0, 10)
	cred.Expiry = &expiry

	days, ok := cred.DaysUntilExpiry(now)
	require.True(t, ok)
	assert.InDelta(t, 10, days, 1)
}
