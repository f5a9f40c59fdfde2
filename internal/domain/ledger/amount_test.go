package ledger

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"150.50", "150.5"},
		{"0", "0"},
		{"  42 ", "42"},
		{"", "0"},
		{"abc", "0"},
		{"NaN", "0"},
	}
	for _, tc := range cases {
		got := ParseAmount(tc.raw)
		assert.Equal(t, tc.want, got.String(), "input %q", tc.raw)
	}
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Amount Amount `json:"amount"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"amount":"150.50"}`), &payload))
	assert.True(t, payload.Amount.Equal(decimal.RequireFromString("150.5")))

	require.NoError(t, json.Unmarshal([]byte(`{"amount":99.9}`), &payload))
	assert.True(t, payload.Amount.Equal(decimal.RequireFromString("99.9")))

	require.NoError(t, json.Unmarshal([]byte(`{"amount":null}`), &payload))
	assert.True(t, payload.Amount.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`{"amount":"garbage"}`), &payload))
	assert.True(t, payload.Amount.IsZero())
}

func TestNewEntry_RejectsNegativeAmount(t *testing.T) {
	_, err := NewEntry(nil, "Acme", decimal.NewFromInt(-5))
	require.Error(t, err)

	entry, err := NewEntry(nil, "Acme", decimal.Zero)
	require.NoError(t, err)
	assert.True(t, entry.Amount.IsZero(), "zero is a valid amount")

	err = entry.SetAmount(decimal.NewFromInt(-1))
	require.Error(t, err)
	assert.True(t, entry.Amount.IsZero())
}
