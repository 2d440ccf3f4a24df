package play

import (
	"math"

	"github.com/lixenwraith/ripple/parameter"
	"github.com/lixenwraith/ripple/vmath"
)

// Viewport maps world coordinates onto terminal cells
// World Y grows upward, screen rows grow downward
type Viewport struct {
	Width  int // Columns of the playfield
	Height int // Rows of the playfield, HUD excluded
	Center vmath.Vec2
}

func unitsPerRow() float64 {
	return parameter.WorldUnitsPerColumn * parameter.CellAspect
}

// ToScreen returns the cell containing p
func (v Viewport) ToScreen(p vmath.Vec2) (x, y int) {
	d := p.Sub(v.Center)
	x = v.Width/2 + int(math.Round(d.X/parameter.WorldUnitsPerColumn))
	y = v.Height/2 - int(math.Round(d.Y/unitsPerRow()))
	return x, y
}

// ToWorld returns the world position at the center of cell (x, y)
func (v Viewport) ToWorld(x, y int) vmath.Vec2 {
	return vmath.V(
		v.Center.X+float64(x-v.Width/2)*parameter.WorldUnitsPerColumn,
		v.Center.Y-float64(y-v.Height/2)*unitsPerRow(),
	)
}

// Contains reports whether (x, y) is inside the playfield
func (v Viewport) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < v.Width && y < v.Height
}

// CellStep returns the world offset of one column and one row
func CellStep() vmath.Vec2 {
	return vmath.V(parameter.WorldUnitsPerColumn, unitsPerRow())
}

// PickRadius is the editor hit-test radius around the cursor
func PickRadius() float64 {
	return unitsPerRow() * 0.75
}
