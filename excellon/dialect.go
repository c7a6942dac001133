package excellon

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/curtacircuitos/pcb-tools/cam"
	"github.com/curtacircuitos/pcb-tools/numeric"
)

// Confidence tags how the dialect detector arrived at its CoordinateFormat
// (spec.md §4.6).
type Confidence int

const (
	Declared Confidence = iota
	Defaulted
	Inferred
)

func (c Confidence) String() string {
	switch c {
	case Declared:
		return "declared"
	case Defaulted:
		return "defaulted"
	default:
		return "inferred"
	}
}

// Dialect is the result of C6: an inferred CoordinateFormat plus the
// confidence a caller should attach to it.
type Dialect struct {
	Format     cam.CoordinateFormat
	Confidence Confidence
}

var (
	reFileFormat = regexp.MustCompile(`(?i);?\s*FILE_FORMAT\s*[:=]\s*(\d)\s*[:.,]\s*(\d)`)
	reCoordToken = regexp.MustCompile(`[XY]([+-]?\d+)`)
)

// DetectDialect infers format parameters from the header text and, if
// necessary, the body, per spec.md §4.6's priority order. lines is the
// full Tokenize() output (both header and body are needed for the
// fallback body scan).
func DetectDialect(lines []Line) (Dialect, error) {
	var header strings.Builder
	for _, l := range lines {
		if l.Section == SectionHeader {
			header.WriteString(l.Text)
			header.WriteByte('\n')
		}
	}
	headerText := header.String()

	unitsDeclared, units := detectUnits(headerText)
	suppressionDeclared, supp := detectSuppression(headerText)

	if m := reFileFormat.FindStringSubmatch(headerText); m != nil {
		i, _ := strconv.Atoi(m[1])
		d, _ := strconv.Atoi(m[2])
		format := cam.CoordinateFormat{
			IntegerDigits: i, DecimalDigits: d,
			ZeroSuppression: firstOr(suppressionDeclared, supp, cam.SuppressLeading),
			Notation:        cam.Absolute,
			Units:           firstUnitsOr(unitsDeclared, units, cam.IN),
		}
		return Dialect{Format: format, Confidence: Declared}, nil
	}

	if unitsDeclared && suppressionDeclared {
		i, d := conventionalFormat(units)
		format := cam.CoordinateFormat{
			IntegerDigits: i, DecimalDigits: d,
			ZeroSuppression: supp, Notation: cam.Absolute, Units: units,
		}
		return Dialect{Format: format, Confidence: Defaulted}, nil
	}

	// Units declared but suppression isn't: apply the conventional digit
	// split for that unit system (spec.md §4.6 "declared units imply a
	// format convention even without an explicit LZ/TZ") rather than
	// scoring the body — the body scan is reserved for when neither units
	// nor format give any anchor at all.
	if unitsDeclared {
		i, d := conventionalFormat(units)
		format := cam.CoordinateFormat{
			IntegerDigits: i, DecimalDigits: d,
			ZeroSuppression: firstOr(suppressionDeclared, supp, cam.SuppressLeading),
			Notation:        cam.Absolute, Units: units,
		}
		return Dialect{Format: format, Confidence: Inferred}, nil
	}

	return inferFromBody(lines, unitsDeclared, units, suppressionDeclared, supp)
}

// conventionalFormat returns the widely-used default (integer, decimal)
// digit split for a unit system: 2:4 for inch, 3:3 for metric.
func conventionalFormat(units cam.Units) (int, int) {
	if units == cam.MM {
		return 3, 3
	}
	return 2, 4
}

func firstOr(declared bool, v, fallback cam.ZeroSuppression) cam.ZeroSuppression {
	if declared {
		return v
	}
	return fallback
}

func firstUnitsOr(declared bool, v, fallback cam.Units) cam.Units {
	if declared {
		return v
	}
	return fallback
}

func detectUnits(header string) (bool, cam.Units) {
	upper := strings.ToUpper(header)
	switch {
	case strings.Contains(upper, "METRIC"):
		return true, cam.MM
	case strings.Contains(upper, "INCH"):
		return true, cam.IN
	default:
		return false, cam.UnitsUnset
	}
}

func detectSuppression(header string) (bool, cam.ZeroSuppression) {
	upper := strings.ToUpper(header)
	switch {
	case strings.Contains(upper, "LZ"):
		return true, cam.SuppressLeading
	case strings.Contains(upper, "TZ"):
		return true, cam.SuppressTrailing
	default:
		return false, cam.SuppressNone
	}
}

// inferFromBody implements spec.md §4.6 step 3: score candidate (i,d)
// pairs against the body's coordinate token lengths and pick the one
// producing the smallest bounding box consistent with typical PCB
// dimensions (<=600mm per axis), breaking ties toward smaller d. Refuses
// to guess (UnknownDialect) when the body is too short to score
// meaningfully, per the open design note in spec.md §9.
func inferFromBody(lines []Line, unitsDeclared bool, units cam.Units, suppressionDeclared bool, supp cam.ZeroSuppression) (Dialect, error) {
	var samples []string
	lengths := map[int]int{}
	for _, l := range lines {
		if l.Section != SectionBody {
			continue
		}
		for _, m := range reCoordToken.FindAllStringSubmatch(l.Text, -1) {
			digits := strings.TrimLeft(m[1], "+-")
			samples = append(samples, digits)
			lengths[len(digits)]++
		}
	}
	if len(samples) < 2 || len(lengths) == 0 {
		return Dialect{}, &cam.UnknownDialect{}
	}

	modeLen, best := 0, 0
	for l, count := range lengths {
		if count > best {
			modeLen, best = l, count
		}
	}

	if !unitsDeclared {
		units = cam.MM
	}
	if !suppressionDeclared {
		supp = cam.SuppressLeading
	}
	bound := 600.0
	if units == cam.IN {
		bound = 600.0 / 25.4
	}

	type candidate struct {
		i, d    int
		maxAbs  float64
		overBnd bool
	}
	var candidates []candidate
	for i := 1; i <= 6 && i <= modeLen; i++ {
		d := modeLen - i
		if d < 0 || d > 6 {
			continue
		}
		format := cam.CoordinateFormat{IntegerDigits: i, DecimalDigits: d, ZeroSuppression: supp}
		max := 0.0
		for _, s := range samples {
			if len(s) != modeLen {
				continue
			}
			q, err := decodeForScoring(s, format)
			if err != nil {
				continue
			}
			if q > max {
				max = q
			}
		}
		candidates = append(candidates, candidate{i: i, d: d, maxAbs: max, overBnd: max > bound})
	}
	if len(candidates) == 0 {
		return Dialect{}, &cam.UnknownDialect{}
	}

	best2 := candidates[0]
	for _, c := range candidates[1:] {
		switch {
		case c.overBnd != best2.overBnd:
			if !c.overBnd {
				best2 = c
			}
		case c.d < best2.d:
			best2 = c
		}
	}

	format := cam.CoordinateFormat{
		IntegerDigits: best2.i, DecimalDigits: best2.d,
		ZeroSuppression: supp, Notation: cam.Absolute, Units: units,
	}
	return Dialect{Format: format, Confidence: Inferred}, nil
}

// decodeForScoring delegates to the shared C2 codec so the body-scan
// heuristic and the real decode path can never disagree about what a
// given (digits, format) pair means.
func decodeForScoring(digits string, format cam.CoordinateFormat) (float64, error) {
	q, err := numeric.Decode(digits, format)
	if err != nil {
		return 0, err
	}
	v := numeric.Float64(q)
	if v < 0 {
		v = -v
	}
	return v, nil
}
