package cam

import "math"

// FileStats summarizes a decoded file: its detected format/units, the
// aggregate bounding box of everything it drew, and the accumulated
// non-fatal diagnostics (spec.md §3, §7).
type FileStats struct {
	Format Format
	Units  Units
	BBox   BoundingBox
	Notes  []Note
}

// AddNote appends a non-fatal diagnostic.
func (s *FileStats) AddNote(line int, kind NoteKind, detail string) {
	s.Notes = append(s.Notes, Note{Line: line, Kind: kind, Detail: detail})
}

// CamFile is the output contract of this core: a format tag, file stats, the
// ordered (and therefore canonical-draw-order) list of emitted primitives,
// and the aperture/tool dictionary and attribute list that let a renderer
// or ops pass interpret them without reaching back into interpreter state
// (spec.md §6).
type CamFile struct {
	Format     Format
	Stats      FileStats
	Primitives []Primitive
	Apertures  map[int]Aperture // Gerber: D-code -> Aperture
	Tools      map[int]Tool     // Excellon: tool id -> Tool
	Attributes []Attribute      // file-level (TF) attributes
}

// ApertureRadius resolves a D-code/tool id to a half-width suitable for
// BoundingBox's apertureRadius callback. Circles/tool holes/polygons use
// half their diameter; rectangles and obrounds use half their diagonal as a
// conservative bound; macro and block apertures, and an undefined
// aperture, resolve to 0 (no inflation).
func (c *CamFile) ApertureRadius(id int) float64 {
	if c.Apertures != nil {
		if ap, ok := c.Apertures[id]; ok {
			switch ap.Kind {
			case ApertureCircle, ApertureToolHole, AperturePolygon:
				return ap.Diameter / 2
			case ApertureRectangle, ApertureObround:
				return math.Hypot(ap.Width, ap.Height) / 2
			}
			return 0
		}
	}
	if c.Tools != nil {
		if t, ok := c.Tools[id]; ok {
			return t.Diameter / 2
		}
	}
	return 0
}

// RecomputeBBox aggregates every primitive's own bounding box into
// Stats.BBox using the file's own aperture/tool dictionary.
func (c *CamFile) RecomputeBBox() {
	b := emptyBox()
	for _, p := range c.Primitives {
		b.union(p.BoundingBox(c.ApertureRadius))
	}
	c.Stats.BBox = b
}
