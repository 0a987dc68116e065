package domain

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
)

// Money is an exact decimal amount backed by big.Rat.
// Values are immutable: every arithmetic method returns a new Money.
type Money struct {
	rat *big.Rat
}

// ZeroMoney returns a zero amount.
func ZeroMoney() *Money {
	return &Money{rat: new(big.Rat)}
}

// NewMoney creates a Money from numerator and denominator.
// Example: NewMoney(249950, 100) represents 2499.50
func NewMoney(numerator, denominator int64) (*Money, error) {
	if denominator == 0 {
		return nil, fmt.Errorf("denominator cannot be zero")
	}
	return &Money{rat: big.NewRat(numerator, denominator)}, nil
}

// NewMoneyFromInt creates a Money holding a whole amount.
func NewMoneyFromInt(amount int64) *Money {
	return &Money{rat: new(big.Rat).SetInt64(amount)}
}

// NewMoneyFromFloat converts a float amount. Non-finite values yield zero.
func NewMoneyFromFloat(amount float64) *Money {
	rat := new(big.Rat)
	if rat.SetFloat64(amount) == nil {
		return ZeroMoney()
	}
	return &Money{rat: rat}
}

// ParseMoney parses a decimal string such as "4599.90".
func ParseMoney(s string) (*Money, error) {
	rat, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return &Money{rat: rat}, nil
}

// Cmp compares two amounts and returns -1, 0 or +1.
func (m *Money) Cmp(other *Money) int {
	return m.rat.Cmp(other.rat)
}

// Multiply multiplies the amount by an integer factor.
func (m *Money) Multiply(factor int64) *Money {
	return &Money{rat: new(big.Rat).Mul(m.rat, new(big.Rat).SetInt64(factor))}
}

// CeilToMultiple rounds the amount up to the next multiple of step.
// Exact multiples are returned unchanged. A non-positive step returns a copy.
func (m *Money) CeilToMultiple(step int64) *Money {
	if step <= 0 {
		return m.Copy()
	}
	stepRat := new(big.Rat).SetInt64(step)
	q := new(big.Rat).Quo(m.rat, stepRat)

	whole := new(big.Int).Quo(q.Num(), q.Denom())
	if new(big.Rat).SetInt(whole).Cmp(q) < 0 {
		whole.Add(whole, big.NewInt(1))
	}
	return &Money{rat: new(big.Rat).Mul(new(big.Rat).SetInt(whole), stepRat)}
}

// LessThan returns true if this amount is less than other.
func (m *Money) LessThan(other *Money) bool {
	return m.rat.Cmp(other.rat) < 0
}

// GreaterThan returns true if this amount is greater than other.
func (m *Money) GreaterThan(other *Money) bool {
	return m.rat.Cmp(other.rat) > 0
}

// Equals returns true if both amounts are equal.
func (m *Money) Equals(other *Money) bool {
	return m.rat.Cmp(other.rat) == 0
}

// IsZero returns true if the amount is zero.
func (m *Money) IsZero() bool {
	return m.rat.Sign() == 0
}

// IsNegative returns true if the amount is below zero.
func (m *Money) IsNegative() bool {
	return m.rat.Sign() < 0
}

// Float64 returns an approximate float64 (for display only, not comparisons).
func (m *Money) Float64() float64 {
	f, _ := m.rat.Float64()
	return f
}

// String renders the amount with two decimals.
func (m *Money) String() string {
	return m.rat.FloatString(2)
}

// Exact renders the amount without rounding: a decimal when the value has a
// finite expansion, otherwise the "a/b" fraction. ParseMoney accepts both.
func (m *Money) Exact() string {
	if prec, exact := m.rat.FloatPrec(); exact {
		return m.rat.FloatString(prec)
	}
	return m.rat.RatString()
}

// Copy creates a deep copy.
func (m *Money) Copy() *Money {
	return &Money{rat: new(big.Rat).Set(m.rat)}
}

// MarshalJSON encodes the amount as a JSON number with two decimals.
func (m *Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("amount must be a number: %w", err)
		}
		num = json.Number(s)
	}
	if _, err := strconv.ParseFloat(string(num), 64); err != nil {
		return fmt.Errorf("invalid amount %q", num)
	}
	parsed, err := ParseMoney(string(num))
	if err != nil {
		return err
	}
	m.rat = parsed.rat
	return nil
}
