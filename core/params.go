// Package core provides parameter sets and validation for gf2-mceliece.
package core

import (
	"fmt"
	"math"

	mceliece "github.com/BackendStack21/gf2-mceliece-go"
	"github.com/BackendStack21/gf2-mceliece-go/utils"
)

// MaxExhaustiveK is the largest message length the exhaustive decoder can
// enumerate: candidates are counted in a uint64 with headroom for the loop bound.
const MaxExhaustiveK = 62

// TOY63Params is the worked-example parameter set.
var TOY63Params = mceliece.Params{N: 6, K: 3, T: 1}

// SMALL105Params is a small parameter set. No binary [10,5] code has minimum
// distance above 4, so one error is the most any key can be guaranteed to correct.
var SMALL105Params = mceliece.Params{N: 10, K: 5, T: 1}

// DEMO3015Params carries three 5-bit alphabet characters per block.
var DEMO3015Params = mceliece.Params{N: 30, K: 15, T: 2}

// GetParams returns the parameter set for the given preset.
func GetParams(preset mceliece.Preset) (mceliece.Params, error) {
	switch preset {
	case mceliece.TOY63:
		return TOY63Params, nil
	case mceliece.SMALL105:
		return SMALL105Params, nil
	case mceliece.DEMO3015:
		return DEMO3015Params, nil
	default:
		return mceliece.Params{}, fmt.Errorf("unknown parameter preset: %s", preset)
	}
}

// ValidateParams checks 1 <= k <= n, k <= MaxExhaustiveK and 0 <= t < n, and that
// the matrices the parameters imply stay within allocation limits.
func ValidateParams(params mceliece.Params) error {
	if params.K < 1 {
		return fmt.Errorf("%w: k = %d must be at least 1", mceliece.ErrInvalidParameters, params.K)
	}
	if params.K > params.N {
		return fmt.Errorf("%w: k = %d exceeds n = %d", mceliece.ErrInvalidParameters, params.K, params.N)
	}
	if params.K > MaxExhaustiveK {
		return fmt.Errorf("%w: k = %d exceeds the exhaustive decoding limit %d",
			mceliece.ErrInvalidParameters, params.K, MaxExhaustiveK)
	}
	if params.T < 0 || params.T >= params.N {
		return fmt.Errorf("%w: t = %d must satisfy 0 <= t < n = %d", mceliece.ErrInvalidParameters, params.T, params.N)
	}
	if err := utils.CheckMatrixShape(params.N, params.N); err != nil {
		return fmt.Errorf("%w: n = %d: %v", mceliece.ErrInvalidParameters, params.N, err)
	}
	return nil
}

// DecodingCost estimates the work of one exhaustive decode, 2^k * k * n bit
// operations. It saturates at math.MaxFloat64 rather than overflowing.
func DecodingCost(params mceliece.Params) float64 {
	cost := math.Ldexp(float64(params.K)*float64(params.N), params.K)
	if math.IsInf(cost, 0) {
		return math.MaxFloat64
	}
	return cost
}
