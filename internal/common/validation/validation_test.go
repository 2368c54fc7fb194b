package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateNetwork(t *testing.T) {
	assert.NoError(t, ValidateNetwork("ton"))
	assert.NoError(t, ValidateNetwork("TON"))
	assert.NoError(t, ValidateNetwork("tron"))
	assert.Error(t, ValidateNetwork("ethereum"))
	assert.Error(t, ValidateNetwork(""))
}

func TestValidateAddressTON(t *testing.T) {
	assert.NoError(t, ValidateAddress(NetworkTON, "EQD4FPq-PRD4YtG87wgL7AErgQwHUMFQ-JxyYw8jzBPhqsm3"))
	assert.Error(t, ValidateAddress(NetworkTON, "not-a-ton-address"))
	assert.Error(t, ValidateAddress(NetworkTON, ""))
}

func TestValidateAddressOtherNetworks(t *testing.T) {
	assert.NoError(t, ValidateAddress(NetworkTron, "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"))
	assert.Error(t, ValidateAddress(NetworkTron, "short"))
	assert.Error(t, ValidateAddress(NetworkTron, ""))
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(100))
	assert.Error(t, ValidateAmount(0))
	assert.Error(t, ValidateAmount(-1))
}
