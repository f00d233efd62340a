package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type moneyRequest struct {
	Amount  decimal.Decimal `validate:"money"`
	Opening decimal.Decimal `validate:"money_or_zero"`
	Kind    string          `validate:"required,oneof=CASH BANK"`
}

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func TestMoneyValidation(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name    string
		amount  string
		opening string
		valid   bool
	}{
		{"positive with cents", "12.50", "0", true},
		{"zero amount", "0", "0", false},
		{"negative amount", "-1", "0", false},
		{"three decimals", "1.005", "0", false},
		{"negative opening", "10", "-0.01", false},
		{"opening with value", "10", "1000", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := moneyRequest{
				Amount:  decimal.RequireFromString(tt.amount),
				Opening: decimal.RequireFromString(tt.opening),
				Kind:    "CASH",
			}
			err := v.Struct(req)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	v := newValidator(t)
	err := v.Struct(moneyRequest{Kind: "GOLD"})
	require.Error(t, err)

	msg := Describe(err)
	assert.Contains(t, msg, "Amount must be a positive amount")
	assert.Contains(t, msg, "Kind must be one of [CASH BANK]")
	assert.NotContains(t, msg, "Opening")
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("6f1c5f3e-1d2b-4c8a-9a57-0b6f0d3e2c11"))
	assert.False(t, IsUUID("not-a-uuid"))
	assert.False(t, IsUUID("6f1c5f3e1d2b4c8a9a570b6f0d3e2c11"))
	assert.False(t, IsUUID(""))
}
