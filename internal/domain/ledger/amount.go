package ledger

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount coerces a raw amount string to a finite decimal. Non-numeric
// input yields zero; NaN or null never reaches storage.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Amount is a JSON-flexible monetary value: it decodes from a JSON number, a
// numeric string, or null, coercing anything non-numeric to zero.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps a decimal as an Amount.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// UnmarshalJSON implements json.Unmarshaler with generous coercion.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}
	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	a.Decimal = ParseAmount(raw)
	return nil
}

// MarshalJSON renders the amount as a JSON number string, matching how the
// Decimal type itself marshals.
func (a Amount) MarshalJSON() ([]byte, error) {
	return a.Decimal.MarshalJSON()
}
