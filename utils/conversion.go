package utils

import "math"

// RoundINR rounds a rupee amount to paise.
func RoundINR(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// RoundTo rounds v to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// ToPaise converts rupees to the smallest currency unit for card processors.
func ToPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
