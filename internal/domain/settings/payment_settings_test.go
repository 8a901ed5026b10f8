package settings

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentSettings_Update(t *testing.T) {
	s := DefaultPaymentSettings(uuid.New())
	assert.Equal(t, PayoutMonthly, s.PayoutSchedule)
	assert.True(t, s.CardPayments)

	t.Run("normalises iban", func(t *testing.T) {
		require.NoError(t, s.Update("Bank", "Ada", "de89 3704 0044 0532 0130 00", PayoutWeekly, true, false))
		assert.Equal(t, "DE89370400440532013000", s.IBAN)
		assert.Equal(t, "******************3000", s.MaskedIBAN())
		assert.Equal(t, PayoutWeekly, s.PayoutSchedule)
	})

	t.Run("rejects bad iban", func(t *testing.T) {
		err := s.Update("Bank", "Ada", "123", PayoutWeekly, true, true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "IBAN")
	})

	t.Run("requires one payment method", func(t *testing.T) {
		assert.Error(t, s.Update("", "", "", PayoutMonthly, false, false))
	})

	t.Run("rejects unknown schedule", func(t *testing.T) {
		assert.Error(t, s.Update("", "", "", PayoutSchedule("daily"), true, true))
	})
}
