package skycoach

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModifier(t *testing.T) {
	t.Run("free is an explicit zero charge", func(t *testing.T) {
		m := ParseModifier("Free")
		require.NotNil(t, m)
		assert.Equal(t, Absolute, m.Kind)
		assert.True(t, m.Value.Equal(decimal.Zero))
	})

	t.Run("european absolute amount", func(t *testing.T) {
		m := ParseModifier("+6,43 €")
		require.NotNil(t, m)
		assert.Equal(t, Absolute, m.Kind)
		assert.Equal(t, "6.43", m.Value.StringFixed(2))
	})

	t.Run("percent modifier", func(t *testing.T) {
		m := ParseModifier("+50%")
		require.NotNil(t, m)
		assert.Equal(t, Percent, m.Kind)
		assert.Equal(t, "50", m.Value.String())
	})

	t.Run("percent with decimal comma", func(t *testing.T) {
		m := ParseModifier("+12,5%")
		require.NotNil(t, m)
		assert.Equal(t, Percent, m.Kind)
		assert.Equal(t, "12.5", m.Value.String())
	})

	t.Run("empty text means no modifier", func(t *testing.T) {
		assert.Nil(t, ParseModifier(""))
		assert.Nil(t, ParseModifier("   "))
	})

	t.Run("comma with dot is a thousands separator", func(t *testing.T) {
		m := ParseModifier("+1,234.56 €")
		require.NotNil(t, m)
		assert.Equal(t, "1234.56", m.Value.StringFixed(2))
	})

	t.Run("unparsable input yields nil", func(t *testing.T) {
		assert.Nil(t, ParseModifier("contact support"))
	})
}

func TestParseCurrency(t *testing.T) {
	v, ok := ParseCurrency("54,99 €")
	require.True(t, ok)
	assert.Equal(t, "54.99", v.StringFixed(2))

	v, ok = ParseCurrency("Free")
	require.True(t, ok)
	assert.True(t, v.IsZero())

	_, ok = ParseCurrency("")
	assert.False(t, ok)
}
