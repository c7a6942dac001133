package cam

import (
	"math"

	"github.com/google/uuid"
)

// Polarity is the level polarity a primitive was emitted under (dark or
// clear, spec.md §3 GraphicsState.level_polarity).
type Polarity int

const (
	Dark Polarity = iota
	Clear
)

// ImagePolarity is the file-wide polarity set by an IP parameter.
type ImagePolarity int

const (
	ImagePositive ImagePolarity = iota
	ImageNegative
)

// Sweep is the rotational direction of an Arc.
type Sweep int

const (
	SweepCW Sweep = iota
	SweepCCW
)

// QuadrantMode records whether an Arc was interpreted in single- or
// multi-quadrant mode, needed by a renderer to reproduce the original
// sign convention if it re-emits the file.
type QuadrantMode int

const (
	QuadrantUnset QuadrantMode = iota
	QuadrantSingle
	QuadrantMulti
)

// PrimitiveKind tags the variant held by a Primitive (spec.md §3, §9 "sum
// types over inheritance").
type PrimitiveKind int

const (
	KindLine PrimitiveKind = iota
	KindArc
	KindFlash
	KindRegion
	KindDrill
	KindSlot
)

// Segment is one edge of a Region's contour: either a straight Line or a
// circular Arc, carried without their own aperture/level/polarity (those
// belong to the enclosing Region).
type Segment struct {
	IsArc bool
	Start, End Point
	// Arc-only fields.
	Center Point
	Sweep  Sweep
	Quad   QuadrantMode
}

// Primitive is one emitted graphic operation. Exactly one of the
// kind-specific field groups is meaningful, selected by Kind — a tagged
// variant rather than an interface hierarchy, per spec.md §9.
type Primitive struct {
	ID       uuid.UUID
	OriginID uuid.UUID // zero value unless this is an SR-materialized duplicate
	Kind     PrimitiveKind

	// Line / Arc / Flash.
	Start, End Point
	Aperture   int // D-code; resolved via the aperture dictionary at emission time

	// Arc-only.
	Center Point
	Sweep  Sweep
	Quad   QuadrantMode

	// Region-only.
	Contour []Segment

	// Drill / Slot.
	Tool int

	Level    Polarity
	Attrs    []Attribute
}

// BoundingBox is an axis-aligned extent in the file's declared units.
type BoundingBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// Empty reports whether the box has never been extended by a point.
func (b BoundingBox) Empty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

func emptyBox() BoundingBox {
	return BoundingBox{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
}

func (b *BoundingBox) extend(p Point, r float64) {
	if p.X-r < b.MinX {
		b.MinX = p.X - r
	}
	if p.Y-r < b.MinY {
		b.MinY = p.Y - r
	}
	if p.X+r > b.MaxX {
		b.MaxX = p.X + r
	}
	if p.Y+r > b.MaxY {
		b.MaxY = p.Y + r
	}
}

func (b *BoundingBox) union(o BoundingBox) {
	if o.Empty() {
		return
	}
	if o.MinX < b.MinX {
		b.MinX = o.MinX
	}
	if o.MinY < b.MinY {
		b.MinY = o.MinY
	}
	if o.MaxX > b.MaxX {
		b.MaxX = o.MaxX
	}
	if o.MaxY > b.MaxY {
		b.MaxY = o.MaxY
	}
}

// BoundingBox computes the primitive's own axis-aligned extent. apertureRadius
// resolves a D-code/tool id to a half-width for Line/Arc/Flash/Drill/Slot;
// the caller (the interpreter, which owns the dictionary) supplies it so
// this package stays free of a dependency on the gerber/excellon packages.
func (p Primitive) BoundingBox(apertureRadius func(dcode int) float64) BoundingBox {
	b := emptyBox()
	r := func(dcode int) float64 {
		if apertureRadius == nil {
			return 0
		}
		return apertureRadius(dcode)
	}
	switch p.Kind {
	case KindLine:
		rad := r(p.Aperture)
		b.extend(p.Start, rad)
		b.extend(p.End, rad)
	case KindArc:
		rad := r(p.Aperture)
		b.extend(p.Start, rad)
		b.extend(p.End, rad)
		b.extend(p.Center, rad)
	case KindFlash:
		rad := r(p.Aperture)
		b.extend(p.Start, rad)
	case KindRegion:
		for _, seg := range p.Contour {
			b.extend(seg.Start, 0)
			b.extend(seg.End, 0)
			if seg.IsArc {
				b.extend(seg.Center, 0)
			}
		}
	case KindDrill:
		rad := r(p.Tool)
		b.extend(p.Start, rad)
	case KindSlot:
		rad := r(p.Tool)
		b.extend(p.Start, rad)
		b.extend(p.End, rad)
	}
	return b
}
