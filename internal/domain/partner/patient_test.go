package partner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPatient(t *testing.T) {
	customerID := uuid.New()

	t.Run("creates patient with own phone", func(t *testing.T) {
		patient, err := NewPatient(customerID, "Ravi Rao", "9876500002", "9876543210", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, customerID, patient.CustomerID)
		assert.Equal(t, "Ravi Rao", patient.Name)
		assert.Equal(t, "9876500002", patient.Phone)
	})

	t.Run("empty phone falls back to owner contact", func(t *testing.T) {
		patient, err := NewPatient(customerID, "Ravi Rao", "", "9876543210", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, "9876543210", patient.Phone)
	})

	t.Run("keeps birth date and anniversary", func(t *testing.T) {
		birth := time.Date(1992, 4, 18, 0, 0, 0, 0, time.UTC)
		anniversary := time.Date(2018, 11, 2, 0, 0, 0, 0, time.UTC)

		patient, err := NewPatient(customerID, "Ravi Rao", "", "9876543210", &birth, &anniversary)

		require.NoError(t, err)
		assert.Equal(t, &birth, patient.BirthDate)
		assert.Equal(t, &anniversary, patient.Anniversary)
	})

	t.Run("fails without customer", func(t *testing.T) {
		patient, err := NewPatient(uuid.Nil, "Ravi Rao", "", "9876543210", nil, nil)

		assert.Error(t, err)
		assert.Nil(t, patient)
	})

	t.Run("fails without name", func(t *testing.T) {
		patient, err := NewPatient(customerID, "", "", "9876543210", nil, nil)

		assert.Error(t, err)
		assert.Nil(t, patient)
	})

	t.Run("rejects malformed phone", func(t *testing.T) {
		patient, err := NewPatient(customerID, "Ravi Rao", "not-a-phone!", "9876543210", nil, nil)

		assert.Error(t, err)
		assert.Nil(t, patient)
	})
}

func TestCustomerAddPatient(t *testing.T) {
	customer, err := NewCustomer("CUST-202501-00001", "Asha Rao", "9876543210", CustomerTypeIndividual)
	require.NoError(t, err)
	customer.ClearDomainEvents()

	first, err := NewPatient(customer.ID, "Ravi Rao", "", customer.Phone, nil, nil)
	require.NoError(t, err)
	second, err := NewPatient(customer.ID, "Meera Rao", "", customer.Phone, nil, nil)
	require.NoError(t, err)

	customer.AddPatient(first)
	customer.AddPatient(second)

	require.Len(t, customer.Patients, 2)
	assert.Equal(t, "Ravi Rao", customer.Patients[0].Name)
	assert.Equal(t, "Meera Rao", customer.Patients[1].Name)
	assert.Len(t, customer.GetDomainEvents(), 2)
}
