package gerber

import "github.com/curtacircuitos/pcb-tools/cam"

// ApertureDictionary stores standard and macro-defined apertures, resolved
// by D-code (spec.md §4.3, component C3).
type ApertureDictionary struct {
	apertures map[int]cam.Aperture
	macros    map[string]MacroDefinition
}

// NewApertureDictionary returns an empty dictionary.
func NewApertureDictionary() *ApertureDictionary {
	return &ApertureDictionary{
		apertures: make(map[int]cam.Aperture),
		macros:    make(map[string]MacroDefinition),
	}
}

// Define records shape under dcode. Redefining a previously defined code
// is non-fatal; the caller is expected to surface the returned bool as a
// cam.NoteRedefinedAperture note ("last write wins", spec.md §3/§4.3).
func (d *ApertureDictionary) Define(dcode int, shape cam.Aperture) (redefined bool) {
	_, redefined = d.apertures[dcode]
	shape.DCode = dcode
	d.apertures[dcode] = shape
	return redefined
}

// Lookup resolves dcode to its aperture. ok is false for an undefined code;
// the caller must drop the corresponding primitive and record an
// UndefinedAperture note (spec.md §4.3).
func (d *ApertureDictionary) Lookup(dcode int) (cam.Aperture, bool) {
	ap, ok := d.apertures[dcode]
	return ap, ok
}

// Iter returns a snapshot copy of the dictionary suitable for attaching to
// an output CamFile.
func (d *ApertureDictionary) Iter() map[int]cam.Aperture {
	out := make(map[int]cam.Aperture, len(d.apertures))
	for k, v := range d.apertures {
		out[k] = v
	}
	return out
}

// DefineMacro stores a macro definition under name for later AD reference.
func (d *ApertureDictionary) DefineMacro(name string, def MacroDefinition) {
	d.macros[name] = def
}

// LookupMacro resolves a macro by name.
func (d *ApertureDictionary) LookupMacro(name string) (MacroDefinition, bool) {
	def, ok := d.macros[name]
	return def, ok
}
