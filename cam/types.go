// Package cam holds the value types shared by the Gerber and Excellon
// interpreters: the coordinate format, the aperture/tool dictionaries, the
// emitted primitive model, and the file-level container and error kinds
// returned to callers.
package cam

import "github.com/google/uuid"

// Format tags the source dialect a CamFile was decoded from.
type Format int

const (
	FormatUnknown Format = iota
	FormatGerber
	FormatExcellon
)

func (f Format) String() string {
	switch f {
	case FormatGerber:
		return "gerber"
	case FormatExcellon:
		return "excellon"
	default:
		return "unknown"
	}
}

// Units are either millimeters or inches. Conversion between the two is a
// post-processing concern (the Operations collaborator, spec.md §6); the
// core never rescales a coordinate once it has been decoded.
type Units int

const (
	UnitsUnset Units = iota
	MM
	IN
)

func (u Units) String() string {
	switch u {
	case MM:
		return "mm"
	case IN:
		return "in"
	default:
		return "unset"
	}
}

// ZeroSuppression selects how a fixed-width digit string is zero-filled
// before being split into integer/decimal halves.
type ZeroSuppression int

const (
	SuppressNone ZeroSuppression = iota
	SuppressLeading
	SuppressTrailing
)

// Notation distinguishes absolute from incremental (delta) coordinates.
type Notation int

const (
	NotationUnset Notation = iota
	Absolute
	Incremental
)

// CoordinateFormat governs decoding of bare digit strings into fixed-point
// coordinates (spec.md §3, §4.2). Once set by a Gerber %FS or inferred by
// the Excellon dialect detector, it is fixed for the remainder of the
// stream.
type CoordinateFormat struct {
	IntegerDigits   int
	DecimalDigits   int
	ZeroSuppression ZeroSuppression
	Notation        Notation
	Units           Units
}

// Width is the total digit count a coordinate field occupies once
// zero-filled.
func (f CoordinateFormat) Width() int { return f.IntegerDigits + f.DecimalDigits }

// Tolerance is the numeric slack used for arc/region closure checks,
// 10^-(decimal_digits+1) per spec.md §4.5.
func (f CoordinateFormat) Tolerance() float64 {
	t := 1.0
	for i := 0; i < f.DecimalDigits+1; i++ {
		t /= 10
	}
	return t
}

// Point is a decoded 2D coordinate in the file's declared units.
type Point struct {
	X, Y float64
}

// HoleShape describes an optional aperture hole.
type HoleShape int

const (
	NoHole HoleShape = iota
	RoundHole
	RectHole
)

// ApertureKind tags the variant held by an Aperture.
type ApertureKind int

const (
	ApertureCircle ApertureKind = iota
	ApertureRectangle
	ApertureObround
	AperturePolygon
	ApertureMacro
	ApertureBlock
	ApertureToolHole
)

// Aperture is a shape (with optional hole) selected by D-code and used to
// paint lines, arcs, and flashes (spec.md §3, glossary).
type Aperture struct {
	DCode int
	Kind  ApertureKind

	// Circle / Polygon / ToolHole use Diameter.
	Diameter float64
	// Rectangle / Obround use Width/Height.
	Width, Height float64
	// Polygon-only.
	Vertices int
	Rotation float64

	Hole     HoleShape
	HoleDia  float64 // RoundHole
	HoleW, HoleH float64 // RectHole

	// ApertureMacro.
	MacroName string
	MacroArgs []float64
	Resolved  []MacroPrimitive

	// ApertureBlock: a nested composite aperture. Primitives are recorded
	// in the block's local coordinate frame and re-emitted, translated, at
	// each flash of the block aperture (spec.md §9).
	BlockBody []Primitive
}

// MacroExposure is the add/subtract flag carried by every resolved macro
// primitive (spec.md §4.4: "1" = add, "0" = subtract).
type MacroExposure int

const (
	ExposureSubtract MacroExposure = iota
	ExposureAdd
)

// MacroPrimitiveKind enumerates the aperture-macro primitive codes spec.md
// §4.4 requires support for.
type MacroPrimitiveKind int

const (
	MacroCircle MacroPrimitiveKind = iota
	MacroVectorLine
	MacroCenterLine
	MacroOutline
	MacroPolygon
	MacroMoire
	MacroThermal
	MacroComment
)

// MacroPrimitive is a resolved (post-evaluation) macro geometry entry:
// concrete numbers, no more expressions.
type MacroPrimitive struct {
	Kind     MacroPrimitiveKind
	Exposure MacroExposure
	// Interpretation of Values is primitive-kind specific; see
	// gerber/macro.go for the field layout of each kind.
	Values []float64
	// Outline/Polygon store their vertex list directly.
	Points []Point
}

// Tool is an Excellon drill/rout tool (spec.md §3).
type Tool struct {
	ID       int
	Diameter float64
	Plated   *bool
	Feed     int
	Speed    int
}

// Attribute is a Gerber object/file attribute (TA/TO/TF, spec.md §4.5);
// purely informational, no geometric effect.
type Attribute struct {
	Name   string
	Values []string
	// Scope distinguishes file-level (TF) from object-level (TA/TO)
	// attributes.
	Scope AttributeScope
}

type AttributeScope int

const (
	AttributeObject AttributeScope = iota
	AttributeFile
)

// NewID returns a fresh identifier for a Primitive. Step-and-repeat
// duplication stamps each materialized copy with its own ID while
// recording the primitive it was copied from in OriginID, so a downstream
// renderer or ops pass can correlate duplicates back to their source
// (spec.md §6 Operations collaborator contract).
func NewID() uuid.UUID { return uuid.New() }
