package gerber

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/curtacircuitos/pcb-tools/cam"
)

func TestApertureDictionaryDefineAndLookup(t *testing.T) {
	d := NewApertureDictionary()
	redefined := d.Define(10, cam.Aperture{Kind: cam.ApertureCircle, Diameter: 1.0})
	assert.False(t, redefined)

	ap, ok := d.Lookup(10)
	assert.True(t, ok)
	assert.Equal(t, cam.ApertureCircle, ap.Kind)
	assert.Equal(t, 10, ap.DCode)
}

func TestApertureDictionaryRedefineReportsTrue(t *testing.T) {
	d := NewApertureDictionary()
	d.Define(10, cam.Aperture{Kind: cam.ApertureCircle, Diameter: 1.0})
	redefined := d.Define(10, cam.Aperture{Kind: cam.ApertureRectangle, Width: 1, Height: 2})
	assert.True(t, redefined)
	ap, _ := d.Lookup(10)
	assert.Equal(t, cam.ApertureRectangle, ap.Kind)
}

func TestApertureDictionaryLookupMissing(t *testing.T) {
	d := NewApertureDictionary()
	_, ok := d.Lookup(42)
	assert.False(t, ok)
}

func TestApertureDictionaryIterIsSnapshot(t *testing.T) {
	d := NewApertureDictionary()
	d.Define(1, cam.Aperture{Kind: cam.ApertureCircle, Diameter: 1})
	snap := d.Iter()
	d.Define(2, cam.Aperture{Kind: cam.ApertureCircle, Diameter: 2})
	assert.Len(t, snap, 1)
}

func TestApertureDictionaryMacroRoundTrip(t *testing.T) {
	d := NewApertureDictionary()
	def := MacroDefinition{Name: "THERM"}
	d.DefineMacro("THERM", def)
	got, ok := d.LookupMacro("THERM")
	assert.True(t, ok)
	assert.Equal(t, "THERM", got.Name)
}
