package vmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec2
		want float64
	}{
		{"same point", V(3, 4), V(3, 4), 0},
		{"pythagorean", V(0, 0), V(3, 4), 5},
		{"negative quadrant", V(-1, -1), V(2, 3), 5},
		{"axis", V(0, 0), V(0, 50), 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.a.Distance(tt.b), 1e-12)
			assert.InDelta(t, tt.want, tt.b.Distance(tt.a), 1e-12, "distance must be symmetric")
		})
	}
}

func TestNormalize(t *testing.T) {
	n, ok := V(3, 4).Normalize()
	assert.True(t, ok)
	assert.InDelta(t, 0.6, n.X, 1e-12)
	assert.InDelta(t, 0.8, n.Y, 1e-12)

	_, ok = V(0, 0).Normalize()
	assert.False(t, ok, "zero vector has no direction")
}

func TestIsFinite(t *testing.T) {
	assert.True(t, V(1, -2).IsFinite())
	assert.False(t, V(math.NaN(), 0).IsFinite())
	assert.False(t, V(0, math.Inf(1)).IsFinite())
}
