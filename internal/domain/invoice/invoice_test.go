package invoice

import (
	"errors"
	"testing"
	"time"

	"invoice-dashboard/internal/pkg/apperrors"
	"invoice-dashboard/internal/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInput(t *testing.T) {
	v := validation.New()

	t.Run("valid input", func(t *testing.T) {
		assert.NoError(t, ValidateInput(v, Input{CustomerID: "c1", Amount: "12.34", Status: "paid"}, MsgCreateMissingFields))
	})

	t.Run("all fields missing are reported together", func(t *testing.T) {
		err := ValidateInput(v, Input{}, MsgCreateMissingFields)

		require.ErrorIs(t, err, apperrors.ErrValidation)
		var vErr *apperrors.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "Missing Fields. Failed to Create Invoice.", vErr.Message)
		assert.Equal(t, apperrors.FieldErrors{
			"customerId": {"Please select a customer."},
			"amount":     {"Please enter an amount greater than $0."},
			"status":     {"Please select an invoice status."},
		}, vErr.Fields)
	})

	t.Run("amount must be numeric and positive", func(t *testing.T) {
		for _, amount := range []string{"0", "-5", "abc", "0.001"} {
			err := ValidateInput(v, Input{CustomerID: "c1", Amount: amount, Status: "pending"}, MsgUpdateMissingFields)

			var vErr *apperrors.ValidationError
			require.True(t, errors.As(err, &vErr), amount)
			assert.Equal(t, "Missing Fields. Failed to Update Invoice.", vErr.Message)
			assert.Equal(t, []string{"Please enter an amount greater than $0."}, vErr.Fields["amount"], amount)
			assert.Len(t, vErr.Fields, 1, amount)
		}
	})

	t.Run("amount beyond the column range is rejected", func(t *testing.T) {
		for _, amount := range []string{"21474836.48", "184467440737095516.21"} {
			err := ValidateInput(v, Input{CustomerID: "c1", Amount: amount, Status: "paid"}, MsgCreateMissingFields)

			var vErr *apperrors.ValidationError
			require.True(t, errors.As(err, &vErr), amount)
			assert.Equal(t, []string{"Please enter an amount greater than $0."}, vErr.Fields["amount"], amount)
		}

		require.NoError(t, ValidateInput(v, Input{CustomerID: "c1", Amount: "21474836.47", Status: "paid"}, MsgCreateMissingFields))
	})

	t.Run("status is case sensitive", func(t *testing.T) {
		err := ValidateInput(v, Input{CustomerID: "c1", Amount: "1", Status: "PAID"}, MsgCreateMissingFields)

		var vErr *apperrors.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Contains(t, vErr.Fields, "status")
	})
}

func TestToRecord(t *testing.T) {
	inv, ok := ToRecord(Input{CustomerID: " c1 ", Amount: "12.34", Status: "pending"})

	require.True(t, ok)
	assert.Equal(t, Invoice{CustomerID: "c1", Amount: 1234, Status: StatusPending}, inv)

	_, ok = ToRecord(Input{CustomerID: "c1", Amount: "0", Status: "pending"})
	assert.False(t, ok)
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusPaid.Valid())
	assert.False(t, Status("overdue").Valid())
}

func TestToday(t *testing.T) {
	assert.Equal(t, "2024-03-09", Today(time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)))
}
