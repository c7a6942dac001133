package cam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApertureRadiusCircle(t *testing.T) {
	cf := &CamFile{Apertures: map[int]Aperture{10: {Kind: ApertureCircle, Diameter: 2.0}}}
	assert.Equal(t, 1.0, cf.ApertureRadius(10))
}

func TestApertureRadiusRectangleUsesDiagonal(t *testing.T) {
	cf := &CamFile{Apertures: map[int]Aperture{11: {Kind: ApertureRectangle, Width: 3, Height: 4}}}
	assert.InDelta(t, 2.5, cf.ApertureRadius(11), 1e-9) // half of a 3-4-5 diagonal
}

func TestApertureRadiusUndefinedIsZero(t *testing.T) {
	cf := &CamFile{Apertures: map[int]Aperture{}}
	assert.Equal(t, 0.0, cf.ApertureRadius(99))
}

func TestApertureRadiusTool(t *testing.T) {
	cf := &CamFile{Tools: map[int]Tool{1: {ID: 1, Diameter: 0.6}}}
	assert.Equal(t, 0.3, cf.ApertureRadius(1))
}

func TestRecomputeBBoxAggregatesPrimitives(t *testing.T) {
	cf := &CamFile{
		Apertures: map[int]Aperture{10: {Kind: ApertureCircle, Diameter: 0.5}},
		Primitives: []Primitive{
			{Kind: KindFlash, Start: Point{X: 0, Y: 0}, Aperture: 10},
			{Kind: KindFlash, Start: Point{X: 10, Y: 10}, Aperture: 10},
		},
	}
	cf.RecomputeBBox()
	assert.InDelta(t, -0.25, cf.Stats.BBox.MinX, 1e-9)
	assert.InDelta(t, -0.25, cf.Stats.BBox.MinY, 1e-9)
	assert.InDelta(t, 10.25, cf.Stats.BBox.MaxX, 1e-9)
	assert.InDelta(t, 10.25, cf.Stats.BBox.MaxY, 1e-9)
}

func TestRecomputeBBoxEmptyForNoPrimitives(t *testing.T) {
	cf := &CamFile{}
	cf.RecomputeBBox()
	assert.True(t, cf.Stats.BBox.Empty())
}

func TestAddNoteAccumulates(t *testing.T) {
	var s FileStats
	s.AddNote(3, NoteUndefinedAperture, "D99 undefined")
	s.AddNote(5, NoteAmbiguousArc, "no sign combination")
	assert.Len(t, s.Notes, 2)
	assert.Equal(t, NoteUndefinedAperture, s.Notes[0].Kind)
	assert.Equal(t, 5, s.Notes[1].Line)
}
