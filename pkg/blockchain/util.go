package blockchain

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseTokenID parses a decimal token id, or a hexadecimal one when prefixed with 0x.
func ParseTokenID(id string) (*big.Int, error) {
	id = strings.TrimSpace(id)
	base := 10
	digits := id
	if strings.HasPrefix(id, "0x") || strings.HasPrefix(id, "0X") {
		base = 16
		digits = id[2:]
	}
	value, ok := new(big.Int).SetString(digits, base)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("invalid token id %q", id)
	}
	return value, nil
}

// PadTokenID renders id as 64 lower-case hex digits without prefix, the form
// ERC-1155 clients substitute for the {id} placeholder.
func PadTokenID(id *big.Int) string {
	return fmt.Sprintf("%064x", id)
}
