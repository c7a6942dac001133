package gerber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curtacircuitos/pcb-tools/cam"
)

func TestParseMinimalFlash(t *testing.T) {
	src := `%FSLAX24Y24*%%MOMM*%%ADD10C,0.5*%D10*X0Y0D03*M02*`
	cf, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, cf.Primitives, 1)
	fl := cf.Primitives[0]
	assert.Equal(t, cam.KindFlash, fl.Kind)
	assert.Equal(t, cam.Point{X: 0, Y: 0}, fl.Start)
	assert.Equal(t, 10, fl.Aperture)
	assert.InDelta(t, -0.25, cf.Stats.BBox.MinX, 1e-9)
	assert.InDelta(t, -0.25, cf.Stats.BBox.MinY, 1e-9)
	assert.InDelta(t, 0.25, cf.Stats.BBox.MaxX, 1e-9)
	assert.InDelta(t, 0.25, cf.Stats.BBox.MaxY, 1e-9)
}

func TestParseLinearDraw(t *testing.T) {
	src := `%FSLAX23Y23*%%MOIN*%%ADD11C,0.010*%D11*X0Y0D02*X1000Y0D01*M02*`
	cf, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, cf.Primitives, 1)
	ln := cf.Primitives[0]
	assert.Equal(t, cam.KindLine, ln.Kind)
	assert.Equal(t, cam.Point{X: 0, Y: 0}, ln.Start)
	assert.InDelta(t, 1.0, ln.End.X, 1e-9)
	assert.InDelta(t, 0.0, ln.End.Y, 1e-9)
}

func TestParseSingleQuadrantArc(t *testing.T) {
	src := `%FSLAX23Y23*%%MOMM*%%ADD12C,0.1*%D12*X1000Y1000D02*G02*G74*X2000Y2000I1000J0D01*M02*`
	cf, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, cf.Primitives, 1)
	arc := cf.Primitives[0]
	assert.Equal(t, cam.KindArc, arc.Kind)
	assert.InDelta(t, 2.0, arc.Center.X, 1e-9)
	assert.InDelta(t, 1.0, arc.Center.Y, 1e-9)
	assert.Equal(t, cam.SweepCW, arc.Sweep)
}

func TestParseRegionClosure(t *testing.T) {
	src := `%FSLAX23Y23*%%MOMM*%G36*X0Y0D02*X10000Y0D01*X10000Y10000D01*X0Y10000D01*X0Y0D01*G37*M02*`
	cf, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, cf.Primitives, 1)
	region := cf.Primitives[0]
	require.Equal(t, cam.KindRegion, region.Kind)
	require.Len(t, region.Contour, 4)
	assert.Equal(t, region.Contour[0].Start, region.Contour[len(region.Contour)-1].End)
}

func TestParseUnclosedRegionEmitsNote(t *testing.T) {
	src := `%FSLAX23Y23*%%MOMM*%G36*X0Y0D02*X10000Y0D01*X10000Y10000D01*G37*M02*`
	cf, err := Parse([]byte(src))
	require.NoError(t, err)
	assert.Empty(t, cf.Primitives)
	require.Len(t, cf.Stats.Notes, 1)
	assert.Equal(t, cam.NoteUnclosedRegion, cf.Stats.Notes[0].Kind)
}

func TestParseUndefinedApertureRecordsNote(t *testing.T) {
	src := `%FSLAX23Y23*%%MOMM*%D99*X0Y0D03*M02*`
	cf, err := Parse([]byte(src))
	require.NoError(t, err)
	assert.Empty(t, cf.Primitives)
	require.Len(t, cf.Stats.Notes, 1)
	assert.Equal(t, cam.NoteUndefinedAperture, cf.Stats.Notes[0].Kind)
}

func TestParseFlashInsideRegionIsDroppedNotFatal(t *testing.T) {
	src := `%FSLAX23Y23*%%MOMM*%%ADD10C,0.5*%D10*G36*X0Y0D02*X0Y0D03*X10000Y0D01*X10000Y10000D01*X0Y10000D01*X0Y0D01*G37*M02*`
	cf, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, cf.Primitives, 1)
	assert.Equal(t, cam.KindRegion, cf.Primitives[0].Kind)
	found := false
	for _, n := range cf.Stats.Notes {
		if n.Kind == cam.NoteFlashInRegion {
			found = true
		}
	}
	assert.True(t, found, "expected a flash-in-region note")
}

func TestParseMissingFSIsFatal(t *testing.T) {
	src := `%MOMM*%D10*X0Y0D03*M02*`
	_, err := Parse([]byte(src))
	require.Error(t, err)
	var fe *cam.FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestParseStepAndRepeatMaterializesDuplicates(t *testing.T) {
	src := `%FSLAX23Y23*%%MOMM*%%ADD10C,0.5*%D10*%SRX2Y1I5.0J0*%X0Y0D03*M02*`
	cf, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, cf.Primitives, 2)
	assert.Equal(t, cam.Point{X: 0, Y: 0}, cf.Primitives[0].Start)
	assert.InDelta(t, 5.0, cf.Primitives[1].Start.X, 1e-9)
	assert.Equal(t, cf.Primitives[0].ID, cf.Primitives[1].OriginID)
}

func TestParseApertureBlockFlashExpandsBody(t *testing.T) {
	// %ABD11*% opens a block aperture whose body draws a line from (0,0)
	// to (1,0) in the block's local frame using the simple circle
	// aperture D10; flashing D11 at (2,3) must descend and re-emit that
	// line translated to (2,3)->(3,3), not a bare Flash primitive.
	src := `%FSLAX23Y23*%%MOIN*%%ADD10C,0.010*%%ABD11*%D10*X0Y0D02*X1000Y0D01*%AB*%D11*X2000Y3000D03*M02*`
	cf, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, cf.Primitives, 1)
	ln := cf.Primitives[0]
	assert.Equal(t, cam.KindLine, ln.Kind)
	assert.InDelta(t, 2.0, ln.Start.X, 1e-9)
	assert.InDelta(t, 3.0, ln.Start.Y, 1e-9)
	assert.InDelta(t, 3.0, ln.End.X, 1e-9)
	assert.InDelta(t, 3.0, ln.End.Y, 1e-9)
}

func TestParseNestedApertureBlockFlashExpandsRecursively(t *testing.T) {
	// D11 starts out as a plain circle, so D12's body (defined first)
	// captures a flat Flash(aperture=11) into its own BlockBody. D11 is
	// then redefined as a block that draws a line. Flashing D12
	// afterwards must re-resolve D11 at flash time and find it now a
	// block, descending a second level rather than emitting a bare
	// Flash for an aperture that no longer has flashable geometry.
	src := `%FSLAX23Y23*%%MOIN*%%ADD10C,0.010*%%ADD11C,0.020*%%ABD12*%D11*X0Y0D03*%AB*%%ABD11*%D10*X0Y0D02*X1000Y0D01*%AB*%D12*X10000Y0D03*M02*`
	cf, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, cf.Primitives, 1)
	ln := cf.Primitives[0]
	assert.Equal(t, cam.KindLine, ln.Kind)
	assert.InDelta(t, 10.0, ln.Start.X, 1e-9)
	assert.InDelta(t, 11.0, ln.End.X, 1e-9)
}

func TestDeterminismSameBytesTwice(t *testing.T) {
	src := `%FSLAX24Y24*%%MOMM*%%ADD10C,0.5*%D10*X0Y0D03*X500000Y500000D03*M02*`
	cf1, err := Parse([]byte(src))
	require.NoError(t, err)
	cf2, err := Parse([]byte(src))
	require.NoError(t, err)
	require.Len(t, cf1.Primitives, len(cf2.Primitives))
	for i := range cf1.Primitives {
		assert.Equal(t, cf1.Primitives[i].Kind, cf2.Primitives[i].Kind)
		assert.Equal(t, cf1.Primitives[i].Start, cf2.Primitives[i].Start)
		assert.Equal(t, cf1.Primitives[i].Aperture, cf2.Primitives[i].Aperture)
	}
}
