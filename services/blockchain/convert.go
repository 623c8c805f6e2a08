package blockchain

import (
	"errors"
	"math/big"
	"strconv"

	"mayhouse/utils"
)

var weiPerEth = new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// ratFromFloat parses the shortest decimal form of f, so 0.1 stays 1/10.
func ratFromFloat(f float64) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'f', -1, 64))
	if !ok {
		return nil, errors.New("invalid amount")
	}
	return r, nil
}

// INRToWei converts rupees to Wei at priceINR per ETH, truncating toward zero.
func INRToWei(amountINR, priceINR float64) (*big.Int, error) {
	if priceINR <= 0 {
		return nil, errors.New("eth price must be positive")
	}
	amount, err := ratFromFloat(amountINR)
	if err != nil {
		return nil, err
	}
	price, err := ratFromFloat(priceINR)
	if err != nil {
		return nil, err
	}
	r := new(big.Rat).Mul(amount, weiPerEth)
	r.Quo(r, price)
	return new(big.Int).Quo(r.Num(), r.Denom()), nil
}

// WeiToINR converts Wei to rupees at priceINR per ETH, rounded to paise.
func WeiToINR(wei *big.Int, priceINR float64) (float64, error) {
	price, err := ratFromFloat(priceINR)
	if err != nil {
		return 0, err
	}
	r := new(big.Rat).SetInt(wei)
	r.Mul(r, price)
	r.Quo(r, weiPerEth)
	f, _ := r.Float64()
	return utils.RoundINR(f), nil
}

// WeiToETH is a display value; precision beyond float64 is dropped.
func WeiToETH(wei *big.Int) float64 {
	f, _ := new(big.Rat).Quo(new(big.Rat).SetInt(wei), weiPerEth).Float64()
	return f
}

// ParseWei reads a non-negative decimal Wei string.
func ParseWei(s string) (*big.Int, error) {
	wei, ok := new(big.Int).SetString(s, 10)
	if !ok || wei.Sign() < 0 {
		return nil, errors.New("amount_wei must be a non-negative integer")
	}
	return wei, nil
}
