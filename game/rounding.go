package game

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// RoundToDecimal rounds val to precision fractional digits.
//
// Rounding works on the exact binary value of val and sends exact ties away
// from zero, so 0.0078125 becomes 0.007813 at six digits. Scaling by
// 10^precision in float arithmetic would add its own rounding error.
func RoundToDecimal(val float64, precision int) float64 {
	rounded, err := strconv.ParseFloat(FormatFixed(val, precision), 64)
	if err != nil {
		return val
	}
	// normalise -0 so that it serialises as 0
	if rounded == 0 {
		return 0
	}
	return rounded
}

// FormatFixed formats val with exactly precision fractional digits and no
// exponent, using the same tie rule as RoundToDecimal.
func FormatFixed(val float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return strconv.FormatFloat(val, 'f', precision, 64)
	}

	exact := new(big.Rat).SetFloat64(val)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(precision)), nil)
	scaled := exact.Mul(exact, new(big.Rat).SetInt(scale))

	num := new(big.Int).Abs(scaled.Num())
	den := scaled.Denom()
	quo, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Lsh(rem, 1).Cmp(den) >= 0 {
		quo.Add(quo, big.NewInt(1))
	}

	digits := quo.String()
	if precision > 0 {
		if len(digits) <= precision {
			digits = strings.Repeat("0", precision-len(digits)+1) + digits
		}
		cut := len(digits) - precision
		digits = digits[:cut] + "." + digits[cut:]
	}
	if val < 0 && quo.Sign() != 0 {
		digits = "-" + digits
	}
	return digits
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
