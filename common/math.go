package common

import (
	"math/big"
	"strings"
)

// BigToFloatString renders value with decimal digits, trailing zeros trimmed.
func BigToFloatString(value *big.Int, decimal uint64) string {
	f := new(big.Float).SetInt(value)
	power := new(big.Float).SetInt(new(big.Int).Exp(
		big.NewInt(10), big.NewInt(int64(decimal)), nil,
	))
	res := new(big.Float).Quo(f, power).Text('f', int(decimal))
	if strings.Contains(res, ".") {
		res = strings.TrimRight(strings.TrimRight(res, "0"), ".")
	}
	return res
}

// WeiToGwei renders a wei amount in gwei.
func WeiToGwei(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return BigToFloatString(wei, 9)
}
