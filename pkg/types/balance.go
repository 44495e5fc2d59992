package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// Balance is an amount of NEAR tokens in yoctoNEAR (10^-24 NEAR), a
// 128-bit unsigned quantity on the wire. It embeds math.Int so JSON
// round-trips as the decimal string the node uses, while arithmetic
// stays arbitrary-precision.
type Balance struct {
	sdkmath.Int
}

// ZeroBalance returns a zero token amount.
func ZeroBalance() Balance {
	return Balance{sdkmath.ZeroInt()}
}

// NewBalance returns a Balance of v yoctoNEAR.
func NewBalance(v uint64) Balance {
	return Balance{sdkmath.NewIntFromUint64(v)}
}

// NewBalanceFromString parses a decimal yoctoNEAR amount.
func NewBalanceFromString(s string) (Balance, error) {
	i, ok := sdkmath.NewIntFromString(s)
	if !ok {
		return Balance{}, fmt.Errorf("invalid balance %q", s)
	}
	if i.IsNegative() {
		return Balance{}, fmt.Errorf("balance %q is negative", s)
	}
	return Balance{i}, nil
}

// LittleEndian16 returns the 16-byte little-endian representation used
// by the Borsh wire encoding of u128 amounts.
func (b Balance) LittleEndian16() ([16]byte, error) {
	var out [16]byte
	if b.IsNil() {
		return out, nil
	}
	if b.IsNegative() {
		return out, fmt.Errorf("balance %s is negative", b)
	}
	if b.BigInt().BitLen() > 128 {
		return out, fmt.Errorf("balance %s exceeds 128 bits", b)
	}
	var be [16]byte
	b.BigInt().FillBytes(be[:])
	for i := 0; i < 16; i++ {
		out[i] = be[15-i]
	}
	return out, nil
}
