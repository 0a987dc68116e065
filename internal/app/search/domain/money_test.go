package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_CeilToMultiple(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		step     int64
		expected string
	}{
		{"exact multiple is unchanged", "17000", 1000, "17000.00"},
		{"rounds up a remainder", "16001", 1000, "17000.00"},
		{"rounds up fractions", "999.99", 1000, "1000.00"},
		{"zero stays zero", "0", 1000, "0.00"},
		{"custom step", "4510", 500, "5000.00"},
		{"non-positive step copies", "4510.50", 0, "4510.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMoney(tt.amount)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, m.CeilToMultiple(tt.step).String())
		})
	}
}

func TestMoney_Compare(t *testing.T) {
	a, _ := NewMoney(1001, 10)
	b := NewMoneyFromInt(100)

	assert.True(t, a.GreaterThan(b))
	assert.True(t, b.LessThan(a))
	assert.Equal(t, 1, a.Cmp(b))
	assert.True(t, NewMoneyFromFloat(100).Equals(b))
}

func TestMoney_NewMoneyRejectsZeroDenominator(t *testing.T) {
	_, err := NewMoney(1, 0)
	assert.Error(t, err)
}

func TestMoney_Multiply(t *testing.T) {
	m, err := ParseMoney("4599.50")
	require.NoError(t, err)

	assert.Equal(t, "13798.50", m.Multiply(3).String())
}

func TestMoney_JSON(t *testing.T) {
	t.Run("accepts numbers and numeric strings", func(t *testing.T) {
		var payload struct {
			A *Money `json:"a"`
			B *Money `json:"b"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"a": 4599.9, "b": "1200"}`), &payload))

		assert.Equal(t, "4599.90", payload.A.String())
		assert.Equal(t, "1200.00", payload.B.String())
	})

	t.Run("rejects non-numeric strings", func(t *testing.T) {
		var m Money
		assert.Error(t, json.Unmarshal([]byte(`"cheap"`), &m))
	})

	t.Run("encodes with two decimals", func(t *testing.T) {
		data, err := json.Marshal(map[string]*Money{"price": NewMoneyFromInt(3000)})
		require.NoError(t, err)

		assert.JSONEq(t, `{"price": 3000.00}`, string(data))
	})
}

func TestMoney_Exact(t *testing.T) {
	third, err := NewMoney(1, 3)
	require.NoError(t, err)

	tests := []struct {
		name     string
		amount   *Money
		expected string
	}{
		{"whole amount", NewMoneyFromInt(3000), "3000"},
		{"two decimals", mustParse(t, "4999.90"), "4999.9"},
		{"three decimals", mustParse(t, "12.345"), "12.345"},
		{"non-terminating fraction", third, "1/3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := tt.amount.Exact()
			assert.Equal(t, tt.expected, text)

			back, err := ParseMoney(text)
			require.NoError(t, err)
			assert.True(t, back.Equals(tt.amount))
		})
	}
}

func mustParse(t *testing.T, s string) *Money {
	t.Helper()
	m, err := ParseMoney(s)
	require.NoError(t, err)
	return m
}
