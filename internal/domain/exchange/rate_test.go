package exchange

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRate(t *testing.T) {
	t.Run("records observation rounded to six decimals", func(t *testing.T) {
		value, _ := decimal.NewFromString("36.5123456789")
		rate, err := NewRate(BaseCurrencyUSD, SecondaryCurrencyVES, value, "BCV")
		require.NoError(t, err)

		assert.Equal(t, "USD", rate.BaseCurrency)
		assert.Equal(t, "VES", rate.SecondaryCurrency)
		assert.Equal(t, "36.512346", rate.Rate.StringFixed(6))
		assert.Equal(t, "BCV", rate.Source)
		assert.False(t, rate.FetchedAt.IsZero())
	})

	t.Run("rejects non-positive rate", func(t *testing.T) {
		_, err := NewRate(BaseCurrencyUSD, SecondaryCurrencyVES, decimal.Zero, "BCV")
		assert.Error(t, err)
	})

	t.Run("rejects empty currency pair", func(t *testing.T) {
		_, err := NewRate("", SecondaryCurrencyVES, decimal.NewFromInt(36), "BCV")
		assert.Error(t, err)
	})
}
