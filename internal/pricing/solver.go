package pricing

import "math"

const (
	scanStep         = 2.0
	scanCeilingRatio = 4.0
	bracketBelow     = 4.0
	bracketAbove     = 1.0
	bisectIterations = 50
	// maxScanSteps bounds the coarse scan. Targets whose scan range needs more
	// steps go straight to bisection over the whole range.
	maxScanSteps = 1 << 20
)

// Solve finds the selling price whose forward settlement reaches target.
//
// Settlement is piecewise linear with jumps at slab boundaries, so a coarse scan
// from target upwards in steps of 2 brackets the first price that reaches the
// target, and bisection refines inside the bracket. If the scan finds nothing
// the whole [target, 4×target] range is bisected, which converges to some
// crossing but not necessarily the lowest one.
func (c *Calculator) Solve(target float64, ctx Context) float64 {
	ceiling := target * scanCeilingRatio
	low, high := target, ceiling

	steps := math.Ceil((ceiling - target) / scanStep)
	if steps > 0 && steps <= maxScanSteps {
		for i := 0; i < int(steps); i++ {
			price := target + float64(i)*scanStep
			if c.Forward(price, ctx).Settlement >= target {
				low = max(target, price-bracketBelow)
				high = price + bracketAbove
				break
			}
		}
	}

	for i := 0; i < bisectIterations; i++ {
		mid := (low + high) / 2
		if c.Forward(mid, ctx).Settlement < target {
			low = mid
		} else {
			high = mid
		}
	}
	return (low + high) / 2
}
