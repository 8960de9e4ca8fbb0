package greetseed

import (
	"math/big"

	"github.com/shopspring/decimal"
)

var weiPerEth = decimal.NewFromBigInt(big.NewInt(1), 18)

// FormatAddress shortens an account address for display, e.g. 0x1234...abcd.
// Strings shorter than 10 chars are returned unchanged.
func FormatAddress(address string) string {
	if len(address) < 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// WeiToEth renders a wei amount as an ETH decimal string, at most 6 decimal places.
func WeiToEth(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, 0).DivRound(weiPerEth, 6).String()
}

// EthToWei converts an ETH decimal string to wei. Fractions below 1 wei are truncated.
func EthToWei(eth string) (*big.Int, error) {
	d, err := decimal.NewFromString(eth)
	if err != nil {
		return nil, err
	}
	return d.Mul(weiPerEth).Truncate(0).BigInt(), nil
}
