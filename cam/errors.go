package cam

import "fmt"

// NoteKind tags a non-fatal diagnostic recorded on FileStats.Notes
// (spec.md §7: "non-fatal errors are accumulated ... with (line_number,
// kind, detail)").
type NoteKind int

const (
	NoteUndefinedAperture NoteKind = iota
	NoteUndefinedTool
	NoteFlashInRegion
	NoteAmbiguousArc
	NoteUnclosedRegion
	NoteUnknownCommand
	NoteNumberOverflow
	NoteRedefinedAperture
	NoteLegacyCommand
	NoteImplicitDefault
)

func (k NoteKind) String() string {
	switch k {
	case NoteUndefinedAperture:
		return "undefined-aperture"
	case NoteUndefinedTool:
		return "undefined-tool"
	case NoteFlashInRegion:
		return "flash-in-region"
	case NoteAmbiguousArc:
		return "ambiguous-arc"
	case NoteUnclosedRegion:
		return "unclosed-region"
	case NoteUnknownCommand:
		return "unknown-command"
	case NoteNumberOverflow:
		return "number-overflow"
	case NoteRedefinedAperture:
		return "redefined-aperture"
	case NoteLegacyCommand:
		return "legacy-command"
	case NoteImplicitDefault:
		return "implicit-default"
	default:
		return "unknown"
	}
}

// Note is one accumulated non-fatal diagnostic.
type Note struct {
	Line   int
	Kind   NoteKind
	Detail string
}

func (n Note) String() string {
	return fmt.Sprintf("line %d: %s: %s", n.Line, n.Kind, n.Detail)
}

// The fatal error kinds from spec.md §7. Each is a distinct type so callers
// can discriminate with errors.As, the pattern used throughout
// _examples/jpfielding-dicos.go/pkg/dicos for its DICOM decode errors.

// LexError reports malformed bytes or an unterminated parameter/header
// block (fatal, spec.md §4.1).
type LexError struct {
	Pos    int
	Reason string
}

func (e *LexError) Error() string { return fmt.Sprintf("lex error at byte %d: %s", e.Pos, e.Reason) }

// FormatError reports a missing or duplicated FS/MO directive, or any other
// structurally-required-but-absent directive (fatal, spec.md §4.5).
type FormatError struct {
	Detail string
}

func (e *FormatError) Error() string { return fmt.Sprintf("format error: %s", e.Detail) }

// NumberOverflow reports a digit string inconsistent with the active
// coordinate format (fatal for the containing block, spec.md §4.2/§7).
type NumberOverflow struct {
	Digits string
	Width  int
}

func (e *NumberOverflow) Error() string {
	return fmt.Sprintf("number overflow: %q exceeds configured width %d", e.Digits, e.Width)
}

// UnknownMacroPrimitive reports an AM primitive code outside
// {0,1,4,5,6,7,20,21} (fatal for the containing AD, spec.md §4.4/§7). It is
// also returned, with Code -1, for an AD that names an undefined macro.
type UnknownMacroPrimitive struct {
	Code int
}

func (e *UnknownMacroPrimitive) Error() string {
	return fmt.Sprintf("unknown macro primitive code %d", e.Code)
}

// UnknownFormat reports that the auto-detector (spec.md §6) could not
// classify the input as Gerber or Excellon.
type UnknownFormat struct{}

func (e *UnknownFormat) Error() string { return "unrecognized CAM file format" }

// UnknownDialect reports that the Excellon dialect detector (spec.md §4.6,
// §9) had too little body text to score candidate coordinate formats and
// refused to guess.
type UnknownDialect struct{}

func (e *UnknownDialect) Error() string {
	return "excellon dialect could not be inferred: insufficient body to score candidates"
}

// AmbiguousArc reports that no (±I, ±J) sign combination produced a valid
// single-quadrant arc within tolerance (fatal only in the sense that the
// draw is dropped; spec.md §4.5/§7 treats it as non-fatal at the file
// level — it is recorded as a Note, not returned as an error, except from
// the low-level arc-resolution helper that callers may invoke directly).
type AmbiguousArc struct {
	IOffset, JOffset float64
}

func (e *AmbiguousArc) Error() string {
	return fmt.Sprintf("no sign combination for I/J (%.6g,%.6g) yields a valid <=90deg arc from start to end", e.IOffset, e.JOffset)
}
