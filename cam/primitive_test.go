package cam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func radiusTwo(int) float64 { return 2.0 }

func TestPrimitiveBoundingBoxLine(t *testing.T) {
	p := Primitive{Kind: KindLine, Start: Point{X: 0, Y: 0}, End: Point{X: 10, Y: 0}}
	b := p.BoundingBox(radiusTwo)
	assert.Equal(t, BoundingBox{MinX: -2, MinY: -2, MaxX: 12, MaxY: 2}, b)
}

func TestPrimitiveBoundingBoxRegionIgnoresAperture(t *testing.T) {
	p := Primitive{Kind: KindRegion, Contour: []Segment{
		{Start: Point{X: 0, Y: 0}, End: Point{X: 5, Y: 0}},
		{Start: Point{X: 5, Y: 0}, End: Point{X: 5, Y: 5}},
		{Start: Point{X: 5, Y: 5}, End: Point{X: 0, Y: 0}},
	}}
	b := p.BoundingBox(radiusTwo)
	assert.Equal(t, BoundingBox{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5}, b)
}

func TestPrimitiveBoundingBoxNilApertureResolver(t *testing.T) {
	p := Primitive{Kind: KindFlash, Start: Point{X: 1, Y: 1}}
	b := p.BoundingBox(nil)
	assert.Equal(t, BoundingBox{MinX: 1, MinY: 1, MaxX: 1, MaxY: 1}, b)
}

func TestCoordinateFormatWidthAndTolerance(t *testing.T) {
	f := CoordinateFormat{IntegerDigits: 2, DecimalDigits: 4}
	assert.Equal(t, 6, f.Width())
	assert.InDelta(t, 1e-5, f.Tolerance(), 1e-12)
}

func TestBoundingBoxEmpty(t *testing.T) {
	var b BoundingBox
	assert.False(t, b.Empty())
	assert.True(t, emptyBox().Empty())
}
