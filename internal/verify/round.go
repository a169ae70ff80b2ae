package verify

import (
	"math"
	"math/big"

	"github.com/ppiankov/claimmark/internal/model"
)

// roundFixed rounds x to d decimal places the way fixed-point formatting does:
// the exact binary value is scaled, the nearest integer is taken with ties
// going away from zero, and the decimal result is read back as a float64.
func roundFixed(x float64, d int) float64 {
	if d < 0 {
		d = 0
	}
	if d > model.MaxDecimals {
		d = model.MaxDecimals
	}
	abs := math.Abs(x)
	if abs >= 1e21 {
		return x
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d)), nil)

	r := new(big.Rat).SetFloat64(abs)
	r.Mul(r, new(big.Rat).SetInt(scale))

	n, rem := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	// round up when rem/denom >= 1/2
	if rem.Lsh(rem, 1).Cmp(r.Denom()) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	out, _ := new(big.Rat).SetFrac(n, scale).Float64()
	if x < 0 {
		out = -out
	}
	return out
}

func equalRounded(a, b float64, d int) bool {
	return roundFixed(a, d) == roundFixed(b, d)
}

func withinTolerance(a, b, tol float64) bool {
	if a == 0 && b == 0 {
		return true
	}
	denom := math.Max(1e-12, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b)/denom <= tol
}
