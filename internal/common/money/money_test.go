package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromUSD(t *testing.T) {
	assert.Equal(t, Cents(1050), FromUSD(10.50))
	assert.Equal(t, Cents(100), FromUSD(1))
	assert.Equal(t, Cents(0), FromUSD(0))

	// Values whose float representation lands just below the cent must
	// still round to it.
	assert.Equal(t, Cents(29), FromUSD(0.29))
	assert.Equal(t, Cents(1010), FromUSD(10.10))
	assert.Equal(t, Cents(7), FromUSD(0.07))
}

func TestUSD(t *testing.T) {
	assert.Equal(t, 10.50, Cents(1050).USD())
	assert.Equal(t, 0.01, Cents(1).USD())
}

func TestSub(t *testing.T) {
	result, err := Cents(1000).Sub(400)
	require.NoError(t, err)
	assert.Equal(t, Cents(600), result)

	result, err = Cents(1000).Sub(1000)
	require.NoError(t, err)
	assert.Equal(t, Cents(0), result)
}

func TestSubInsufficient(t *testing.T) {
	result, err := Cents(1000).Sub(1001)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	// The original value is returned untouched on failure.
	assert.Equal(t, Cents(1000), result)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Cents(1).Validate())
	assert.ErrorIs(t, Cents(0).Validate(), ErrNonPositiveAmount)
	assert.ErrorIs(t, Cents(-5).Validate(), ErrNonPositiveAmount)
}

func TestString(t *testing.T) {
	assert.Equal(t, "$10.50", Cents(1050).String())
	assert.Equal(t, "$0.05", Cents(5).String())
	assert.Equal(t, "-$1.00", Cents(-100).String())
}
