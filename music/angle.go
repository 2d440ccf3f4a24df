package music

import (
	"math"

	"github.com/lixenwraith/ripple/vmath"
)

// boundaryEpsilon absorbs float error so an angle exactly on a slice boundary maps to the lower index
const boundaryEpsilon = 1e-9

// IndexByAngle maps the direction from center to point onto a scale of size degrees
//
// The upper half-plane is divided into slices of 2π/size measured from +X; the lower half
// continues from (size+1)/2, so odd scales round up. A point on the center maps to 0.
// The result may exceed size-1 and is meant to be wrapped by Degree
func IndexByAngle(center, point vmath.Vec2, size int) int {
	if size <= 0 {
		return 0
	}
	dir, ok := point.Sub(center).Normalize()
	if !ok {
		return 0
	}

	part := 2 * math.Pi / float64(size)
	index := int(math.Ceil(math.Acos(clampUnit(dir.X))/part - boundaryEpsilon))
	if index < 0 {
		index = 0
	}
	if math.Asin(clampUnit(dir.Y)) >= 0 {
		return index
	}
	return (size+1)/2 + index
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
