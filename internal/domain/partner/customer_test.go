package partner

import (
	"testing"

	"github.com/optierp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	t.Run("creates individual customer successfully", func(t *testing.T) {
		customer, err := NewCustomer("CUST-202501-00001", "Asha Rao", "9876543210", CustomerTypeIndividual)

		require.NoError(t, err)
		assert.NotNil(t, customer)
		assert.Equal(t, "CUST-202501-00001", customer.Code)
		assert.Equal(t, "Asha Rao", customer.Name)
		assert.Equal(t, CustomerTypeIndividual, customer.Type)
		assert.Equal(t, CustomerStatusActive, customer.Status)
		assert.Equal(t, "9876543210", customer.Phone)
		assert.Equal(t, TierBronze, customer.Tier)
		assert.Zero(t, customer.LoyaltyPoints)
		assert.True(t, customer.TotalPurchases.IsZero())
		assert.False(t, customer.CreditAllowed)
		assert.Len(t, customer.GetDomainEvents(), 1)
	})

	t.Run("creates business customer successfully", func(t *testing.T) {
		customer, err := NewCustomer("CUST-202501-00002", "Lens Labs Pvt Ltd", "080-4123-9876", CustomerTypeBusiness)

		require.NoError(t, err)
		assert.Equal(t, CustomerTypeBusiness, customer.Type)
		assert.True(t, customer.IsBusiness())
	})

	t.Run("converts code to uppercase", func(t *testing.T) {
		customer, err := NewCustomer("cust-202501-00003", "Asha Rao", "9876500001", CustomerTypeIndividual)

		require.NoError(t, err)
		assert.Equal(t, "CUST-202501-00003", customer.Code)
	})

	t.Run("fails with empty code", func(t *testing.T) {
		customer, err := NewCustomer("", "Asha Rao", "9876543210", CustomerTypeIndividual)

		assert.Error(t, err)
		assert.Nil(t, customer)
		assert.Contains(t, err.Error(), "code cannot be empty")
	})

	t.Run("fails with empty name", func(t *testing.T) {
		customer, err := NewCustomer("CUST-202501-00001", "", "9876543210", CustomerTypeIndividual)

		assert.Error(t, err)
		assert.Nil(t, customer)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with empty phone", func(t *testing.T) {
		customer, err := NewCustomer("CUST-202501-00001", "Asha Rao", "", CustomerTypeIndividual)

		assert.Error(t, err)
		assert.Nil(t, customer)
		assert.Contains(t, err.Error(), "Phone number cannot be empty")
	})

	t.Run("fails with invalid phone characters", func(t *testing.T) {
		customer, err := NewCustomer("CUST-202501-00001", "Asha Rao", "98765abc", CustomerTypeIndividual)

		assert.Error(t, err)
		assert.Nil(t, customer)
	})

	t.Run("fails with invalid type", func(t *testing.T) {
		customer, err := NewCustomer("CUST-202501-00001", "Asha Rao", "9876543210", CustomerType("government"))

		assert.Error(t, err)
		assert.Nil(t, customer)
	})
}

func TestCustomerRecordPurchase(t *testing.T) {
	newCustomer := func(t *testing.T) *Customer {
		customer, err := NewCustomer("CUST-202501-00001", "Asha Rao", "9876543210", CustomerTypeIndividual)
		require.NoError(t, err)
		customer.ClearDomainEvents()
		return customer
	}

	t.Run("awards one point per hundred spent, floor", func(t *testing.T) {
		customer := newCustomer(t)

		points, err := customer.RecordPurchase(decimal.NewFromInt(15000))

		require.NoError(t, err)
		assert.Equal(t, int64(150), points)
		assert.Equal(t, int64(150), customer.LoyaltyPoints)
		assert.True(t, customer.TotalPurchases.Equal(decimal.NewFromInt(15000)))
		assert.Equal(t, TierBronze, customer.Tier)
	})

	t.Run("drops fractional remainder without carrying it forward", func(t *testing.T) {
		customer := newCustomer(t)

		points, err := customer.RecordPurchase(decimal.RequireFromString("199.99"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), points)

		// A second sub-unit remainder does not combine with the first
		points, err = customer.RecordPurchase(decimal.RequireFromString("99.99"))
		require.NoError(t, err)
		assert.Equal(t, int64(0), points)
		assert.Equal(t, int64(1), customer.LoyaltyPoints)
	})

	t.Run("balance after N purchases is the sum of each floor", func(t *testing.T) {
		customer := newCustomer(t)
		amounts := []string{"15000", "12000", "99", "250.75", "1"}
		var want int64

		for _, a := range amounts {
			amount := decimal.RequireFromString(a)
			points, err := customer.RecordPurchase(amount)
			require.NoError(t, err)
			want += amount.Div(decimal.NewFromInt(100)).Floor().IntPart()
			assert.Equal(t, want, customer.LoyaltyPoints)
			_ = points
		}
	})

	t.Run("promotes tier at each threshold", func(t *testing.T) {
		customer := newCustomer(t)

		_, err := customer.RecordPurchase(decimal.NewFromInt(15000))
		require.NoError(t, err)
		assert.Equal(t, TierBronze, customer.Tier)

		_, err = customer.RecordPurchase(decimal.NewFromInt(12000))
		require.NoError(t, err)
		assert.Equal(t, TierSilver, customer.Tier) // total 27000

		_, err = customer.RecordPurchase(decimal.NewFromInt(23000))
		require.NoError(t, err)
		assert.Equal(t, TierGold, customer.Tier) // total 50000, boundary inclusive

		_, err = customer.RecordPurchase(decimal.NewFromInt(50000))
		require.NoError(t, err)
		assert.Equal(t, TierPlatinum, customer.Tier) // total 100000
	})

	t.Run("tier never regresses", func(t *testing.T) {
		customer := newCustomer(t)

		_, err := customer.RecordPurchase(decimal.NewFromInt(100000))
		require.NoError(t, err)
		assert.Equal(t, TierPlatinum, customer.Tier)

		_, err = customer.RecordPurchase(decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.Equal(t, TierPlatinum, customer.Tier)
	})

	t.Run("emits tier changed event on promotion only", func(t *testing.T) {
		customer := newCustomer(t)

		_, err := customer.RecordPurchase(decimal.NewFromInt(30000))
		require.NoError(t, err)

		var tierEvents int
		for _, ev := range customer.GetDomainEvents() {
			if ev.EventType() == EventTypeLoyaltyTierChanged {
				tierEvents++
			}
		}
		assert.Equal(t, 1, tierEvents)
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		customer := newCustomer(t)

		_, err := customer.RecordPurchase(decimal.NewFromInt(-100))

		assert.Error(t, err)
		assert.Zero(t, customer.LoyaltyPoints)
	})
}

func TestCustomerRedeemPoints(t *testing.T) {
	newCustomerWithPoints := func(t *testing.T) *Customer {
		customer, err := NewCustomer("CUST-202501-00001", "Asha Rao", "9876543210", CustomerTypeIndividual)
		require.NoError(t, err)
		_, err = customer.RecordPurchase(decimal.NewFromInt(27000)) // 270 points, SILVER
		require.NoError(t, err)
		customer.ClearDomainEvents()
		return customer
	}

	t.Run("redeems at one unit per point", func(t *testing.T) {
		customer := newCustomerWithPoints(t)

		discount, err := customer.RedeemPoints(100)

		require.NoError(t, err)
		assert.True(t, discount.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, int64(170), customer.LoyaltyPoints)
	})

	t.Run("redemption does not touch total or tier", func(t *testing.T) {
		customer := newCustomerWithPoints(t)

		_, err := customer.RedeemPoints(270)

		require.NoError(t, err)
		assert.True(t, customer.TotalPurchases.Equal(decimal.NewFromInt(27000)))
		assert.Equal(t, TierSilver, customer.Tier)
	})

	t.Run("fails when points exceed balance and leaves balance unchanged", func(t *testing.T) {
		customer := newCustomerWithPoints(t)

		discount, err := customer.RedeemPoints(271)

		assert.ErrorIs(t, err, shared.ErrInsufficientPoints)
		assert.True(t, discount.IsZero())
		assert.Equal(t, int64(270), customer.LoyaltyPoints)
	})

	t.Run("can redeem the full balance but never below zero", func(t *testing.T) {
		customer := newCustomerWithPoints(t)

		_, err := customer.RedeemPoints(270)
		require.NoError(t, err)
		assert.Zero(t, customer.LoyaltyPoints)

		_, err = customer.RedeemPoints(1)
		assert.ErrorIs(t, err, shared.ErrInsufficientPoints)
	})

	t.Run("rejects non-positive points", func(t *testing.T) {
		customer := newCustomerWithPoints(t)

		_, err := customer.RedeemPoints(0)
		assert.Error(t, err)

		_, err = customer.RedeemPoints(-5)
		assert.Error(t, err)
	})
}

func TestDeriveTaxCode(t *testing.T) {
	t.Run("extracts ten characters from offset two", func(t *testing.T) {
		assert.Equal(t, "AABCU9603R", DeriveTaxCode("20AABCU9603R1ZM"))
	})

	t.Run("yields empty code for short registrations", func(t *testing.T) {
		assert.Equal(t, "", DeriveTaxCode("20AABCU96"))
		assert.Equal(t, "", DeriveTaxCode(""))
	})

	t.Run("exactly twelve characters is enough", func(t *testing.T) {
		assert.Equal(t, "AABCU9603R", DeriveTaxCode("20AABCU9603R"))
	})
}

func TestCustomerSetTaxID(t *testing.T) {
	t.Run("derives the secondary code", func(t *testing.T) {
		customer, err := NewCustomer("CUST-202501-00002", "Lens Labs Pvt Ltd", "080-4123-9876", CustomerTypeBusiness)
		require.NoError(t, err)

		require.NoError(t, customer.SetTaxID("20AABCU9603R1ZM"))

		assert.Equal(t, "20AABCU9603R1ZM", customer.TaxID)
		assert.Equal(t, "AABCU9603R", customer.TaxCode)
	})

	t.Run("clearing the tax ID clears the code", func(t *testing.T) {
		customer, err := NewCustomer("CUST-202501-00002", "Lens Labs Pvt Ltd", "080-4123-9876", CustomerTypeBusiness)
		require.NoError(t, err)
		require.NoError(t, customer.SetTaxID("20AABCU9603R1ZM"))

		require.NoError(t, customer.SetTaxID(""))

		assert.Equal(t, "", customer.TaxCode)
	})
}

func TestTierForTotal(t *testing.T) {
	cases := []struct {
		total string
		want  LoyaltyTier
	}{
		{"0", TierBronze},
		{"24999.99", TierBronze},
		{"25000", TierSilver},
		{"49999", TierSilver},
		{"50000", TierGold},
		{"99999.99", TierGold},
		{"100000", TierPlatinum},
		{"5000000", TierPlatinum},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, TierForTotal(decimal.RequireFromString(tc.total)), "total %s", tc.total)
	}
}

func TestCustomerLifecycle(t *testing.T) {
	t.Run("deactivate then activate", func(t *testing.T) {
		customer, err := NewCustomer("CUST-202501-00001", "Asha Rao", "9876543210", CustomerTypeIndividual)
		require.NoError(t, err)

		require.NoError(t, customer.Deactivate())
		assert.False(t, customer.IsActive())

		require.NoError(t, customer.Activate())
		assert.True(t, customer.IsActive())
	})

	t.Run("deactivation keeps loyalty state", func(t *testing.T) {
		customer, err := NewCustomer("CUST-202501-00001", "Asha Rao", "9876543210", CustomerTypeIndividual)
		require.NoError(t, err)
		_, err = customer.RecordPurchase(decimal.NewFromInt(30000))
		require.NoError(t, err)

		require.NoError(t, customer.Deactivate())

		assert.Equal(t, int64(300), customer.LoyaltyPoints)
		assert.Equal(t, TierSilver, customer.Tier)
		assert.Equal(t, "9876543210", customer.Phone)
	})

	t.Run("double deactivate fails", func(t *testing.T) {
		customer, err := NewCustomer("CUST-202501-00001", "Asha Rao", "9876543210", CustomerTypeIndividual)
		require.NoError(t, err)
		require.NoError(t, customer.Deactivate())

		assert.Error(t, customer.Deactivate())
	})
}

func TestCustomerSetCreditTerms(t *testing.T) {
	customer, err := NewCustomer("CUST-202501-00002", "Lens Labs Pvt Ltd", "080-4123-9876", CustomerTypeBusiness)
	require.NoError(t, err)

	require.NoError(t, customer.SetCreditTerms(true, decimal.NewFromInt(50000)))
	assert.True(t, customer.CreditAllowed)
	assert.True(t, customer.CreditLimit.Equal(decimal.NewFromInt(50000)))

	assert.Error(t, customer.SetCreditTerms(true, decimal.NewFromInt(-1)))
}
