package pcbcam

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curtacircuitos/pcb-tools/cam"
)

func TestDetectGerberByMarker(t *testing.T) {
	src := []byte("%FSLAX24Y24*%\n%MOIN*%\n%ADD10C,0.01*%\nG04 comment*\nM02*\n")
	assert.Equal(t, cam.FormatGerber, Detect(src, ""))
}

func TestDetectExcellonByM48(t *testing.T) {
	src := []byte("M48\nT01C0.020\n%\nT01\nX01Y01\nM30\n")
	assert.Equal(t, cam.FormatExcellon, Detect(src, ""))
}

func TestDetectExcellonByBareToolDef(t *testing.T) {
	// no M48 header present, but a T<n>C<dia> line is a reliable Excellon
	// signal on its own (spec.md §6).
	src := []byte("T01C0.020\nX010000Y010000\nM30\n")
	assert.Equal(t, cam.FormatExcellon, Detect(src, ""))
}

func TestDetectFallsBackToExtensionHint(t *testing.T) {
	// no recognizable markers at all; only the extension hint decides.
	src := []byte("; nothing useful here\n")
	assert.Equal(t, cam.FormatGerber, Detect(src, ".gbr"))
	assert.Equal(t, cam.FormatExcellon, Detect(src, ".drl"))
	assert.Equal(t, cam.FormatUnknown, Detect(src, ".pdf"))
}

func TestParseDispatchesToGerber(t *testing.T) {
	src := []byte("%FSLAX24Y24*%\n%MOIN*%\n%ADD10C,0.010*%\nD10*\nX001000Y001000D03*\nM02*\n")
	cf, err := Parse(src, ".gbr")
	require.NoError(t, err)
	assert.Equal(t, cam.FormatGerber, cf.Format)
	require.Len(t, cf.Primitives, 1)
	assert.Equal(t, cam.KindFlash, cf.Primitives[0].Kind)
}

func TestParseDispatchesToExcellon(t *testing.T) {
	src := []byte("M48\nINCH,LZ\nT01C0.020\n%\nT01\nX010000Y010000\nM30\n")
	cf, err := Parse(src, ".drl")
	require.NoError(t, err)
	assert.Equal(t, cam.FormatExcellon, cf.Format)
	require.Len(t, cf.Primitives, 1)
	assert.Equal(t, cam.KindDrill, cf.Primitives[0].Kind)
}

func TestParseUnknownFormatReturnsError(t *testing.T) {
	_, err := Parse([]byte("garbage\n"), ".xyz")
	require.Error(t, err)
	var uf *cam.UnknownFormat
	require.ErrorAs(t, err, &uf)
}

// TestParseIsDeterministic confirms parsing the same bytes twice produces
// structurally identical results (IDs excepted, since cam.NewID mints a
// fresh identity per primitive regardless of content).
func TestParseIsDeterministic(t *testing.T) {
	src := []byte("M48\nINCH,LZ\nT01C0.020\nT02C0.035\n%\nT01\nX010000Y010000\nX020000Y020000\nT02\nX030000Y030000\nM30\n")
	a, err := Parse(src, ".drl")
	require.NoError(t, err)
	b, err := Parse(src, ".drl")
	require.NoError(t, err)

	diff := cmp.Diff(a, b, cmpopts.IgnoreFields(cam.Primitive{}, "ID"))
	assert.Empty(t, diff, "repeated parse of identical input should be structurally identical (mod ID)")
}
