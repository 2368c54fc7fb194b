package validation

import (
	"fmt"
	"strings"

	"github.com/xssnick/tonutils-go/address"

	"postboost-backend/internal/common/money"
)

const (
	NetworkTON  = "ton"
	NetworkTron = "tron"
)

// ValidateAmount rejects zero and negative settlement amounts.
func ValidateAmount(amount money.Cents) error {
	if err := amount.Validate(); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	return nil
}

// ValidateNetwork checks the chain-network tag on deposits and withdrawals.
func ValidateNetwork(network string) error {
	switch strings.ToLower(network) {
	case NetworkTON, NetworkTron:
		return nil
	default:
		return fmt.Errorf("unsupported network %q", network)
	}
}

// ValidateAddress checks a destination address for the given network. TON
// addresses are parsed properly; other networks get a length sanity check
// only, since payout happens off-system.
func ValidateAddress(network, addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return fmt.Errorf("address cannot be empty")
	}

	switch strings.ToLower(network) {
	case NetworkTON:
		if _, err := address.ParseAddr(addr); err != nil {
			return fmt.Errorf("invalid TON address: %w", err)
		}
	default:
		if len(addr) < 10 || len(addr) > 128 {
			return fmt.Errorf("invalid address length")
		}
	}
	return nil
}
