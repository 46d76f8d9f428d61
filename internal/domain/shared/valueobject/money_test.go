package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), INR)
		require.NoError(t, err)
		assert.Equal(t, INR, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", INR)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", INR)
		assert.Error(t, err)
	})
}

func TestNewMoneyINR(t *testing.T) {
	m := NewMoneyINR(decimal.NewFromInt(50))
	assert.Equal(t, INR, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromInt(50)))
}

func TestZero(t *testing.T) {
	m := Zero(USD)
	assert.True(t, m.IsZero())
	assert.Equal(t, USD, m.Currency())
}

func TestZeroINR(t *testing.T) {
	m := ZeroINR()
	assert.True(t, m.IsZero())
	assert.Equal(t, INR, m.Currency())
}

func TestMoneyIsPositiveNegativeZero(t *testing.T) {
	positive := NewMoneyINR(decimal.NewFromInt(100))
	negative := NewMoneyINR(decimal.NewFromInt(-100))
	zero := ZeroINR()

	assert.True(t, positive.IsPositive())
	assert.False(t, positive.IsNegative())
	assert.False(t, positive.IsZero())

	assert.False(t, negative.IsPositive())
	assert.True(t, negative.IsNegative())
	assert.False(t, negative.IsZero())

	assert.False(t, zero.IsPositive())
	assert.False(t, zero.IsNegative())
	assert.True(t, zero.IsZero())
}

func TestMoneyAdd(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		m1 := NewMoneyINR(decimal.NewFromFloat(100.50))
		m2 := NewMoneyINR(decimal.NewFromFloat(50.25))
		result, err := m1.Add(m2)
		require.NoError(t, err)
		assert.True(t, result.Amount().Equal(decimal.NewFromFloat(150.75)))
	})

	t.Run("fails for different currencies", func(t *testing.T) {
		m1, _ := NewMoney(decimal.NewFromInt(100), INR)
		m2, _ := NewMoney(decimal.NewFromInt(50), USD)
		_, err := m1.Add(m2)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency mismatch")
	})
}

func TestMoneySub(t *testing.T) {
	t.Run("subtracts same currency", func(t *testing.T) {
		m1 := NewMoneyINR(decimal.NewFromFloat(100.50))
		m2 := NewMoneyINR(decimal.NewFromFloat(50.25))
		result, err := m1.Sub(m2)
		require.NoError(t, err)
		assert.True(t, result.Amount().Equal(decimal.NewFromFloat(50.25)))
	})

	t.Run("fails for different currencies", func(t *testing.T) {
		m1, _ := NewMoney(decimal.NewFromInt(100), INR)
		m2, _ := NewMoney(decimal.NewFromInt(50), EUR)
		_, err := m1.Sub(m2)
		assert.Error(t, err)
	})
}

func TestMoneyLessThan(t *testing.T) {
	t.Run("compares same currency", func(t *testing.T) {
		less, err := NewMoneyINR(decimal.NewFromInt(50)).LessThan(NewMoneyINR(decimal.NewFromInt(100)))
		require.NoError(t, err)
		assert.True(t, less)
	})

	t.Run("fails for different currencies", func(t *testing.T) {
		m1, _ := NewMoney(decimal.NewFromInt(50), INR)
		m2, _ := NewMoney(decimal.NewFromInt(100), USD)
		_, err := m1.LessThan(m2)
		assert.Error(t, err)
	})
}

func TestMoneyEquals(t *testing.T) {
	assert.True(t, NewMoneyINR(decimal.NewFromInt(100)).Equals(NewMoneyINR(decimal.NewFromInt(100))))
	assert.False(t, NewMoneyINR(decimal.NewFromInt(100)).Equals(NewMoneyINR(decimal.NewFromInt(99))))

	usd, _ := NewMoney(decimal.NewFromInt(100), USD)
	assert.False(t, NewMoneyINR(decimal.NewFromInt(100)).Equals(usd))
}

func TestMoneyString(t *testing.T) {
	m := NewMoneyINR(decimal.NewFromFloat(1234.5))
	assert.Equal(t, "1234.50 INR", m.String())
}

func TestMoneyJSON(t *testing.T) {
	t.Run("marshals amount and currency", func(t *testing.T) {
		m := NewMoneyINR(decimal.NewFromFloat(99.95))
		data, err := json.Marshal(m)
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"99.95","currency":"INR"}`, string(data))
	})

	t.Run("unmarshals back to the same value", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"42.50","currency":"INR"}`), &m)
		require.NoError(t, err)
		assert.True(t, m.Equals(NewMoneyINR(decimal.NewFromFloat(42.50))))
	})

	t.Run("rejects a non-numeric amount", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"oops","currency":"INR"}`), &m)
		assert.Error(t, err)
	})
}

func TestMoneySQL(t *testing.T) {
	t.Run("value stores the plain amount", func(t *testing.T) {
		m := NewMoneyINR(decimal.NewFromFloat(15.25))
		v, err := m.Value()
		require.NoError(t, err)
		assert.Equal(t, "15.25", v)
	})

	t.Run("scan restores amount in the default currency", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("15.25"))
		assert.True(t, m.Equals(NewMoneyINR(decimal.NewFromFloat(15.25))))
	})

	t.Run("scan of nil yields zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
		assert.Equal(t, DefaultCurrency, m.Currency())
	})
}
