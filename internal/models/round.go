package models

import (
	"math"
	"strconv"
)

// RoundScore rounds v to two decimals. Exact ties go to the even digit, so
// 0.125 becomes 0.12 and 0.375 becomes 0.38.
func RoundScore(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return math.Round(v*100) / 100
	}
	return r
}
