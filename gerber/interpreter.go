package gerber

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/curtacircuitos/pcb-tools/cam"
	"github.com/curtacircuitos/pcb-tools/numeric"
)

type interpolationMode int

const (
	interpLinear interpolationMode = iota
	interpCW
	interpCCW
)

// blockCapture buffers primitives emitted while a nested %ABD<n>*% aperture
// block is open (spec.md §9: "a recursive aperture variant whose body is
// itself a list of primitives").
type blockCapture struct {
	dcode int
	body  []cam.Primitive
}

// Interpreter drives a cam.GraphicsState-shaped set of fields through a
// Gerber command sequence and emits cam.Primitive values (spec.md §4.5,
// component C5). All state lives in this struct — no package-level
// mutable state, per spec.md §9.
type Interpreter struct {
	dict *ApertureDictionary

	format    cam.CoordinateFormat
	formatSet bool
	unitsSet  bool

	interp   interpolationMode
	quad     cam.QuadrantMode
	region   bool
	contour  []cam.Segment
	levelPol cam.Polarity
	imgPol   cam.ImagePolarity

	curAperture int
	curX, curY  float64

	srNX, srNY int
	srDX, srDY float64
	srStart    int

	pendingAttrs []cam.Attribute
	fileAttrs    []cam.Attribute

	out      []cam.Primitive
	outStack []*blockCapture

	stats cam.FileStats
	ended bool
}

// NewInterpreter returns an Interpreter with spec.md §4.5's initial state:
// format/units undefined, image polarity positive, SR 1x1, level polarity
// dark, region mode off, current point (0,0).
func NewInterpreter() *Interpreter {
	return &Interpreter{
		dict:     NewApertureDictionary(),
		levelPol: cam.Dark,
		imgPol:   cam.ImagePositive,
		srNX:     1,
		srNY:     1,
		stats:    cam.FileStats{Format: cam.FormatGerber},
	}
}

// Parse tokenizes and interprets a complete Gerber byte stream, returning
// the resulting CamFile. Fatal errors (spec.md §7) abort and are returned;
// non-fatal conditions are recorded on Stats.Notes and parsing continues.
func Parse(src []byte) (*cam.CamFile, error) {
	blocks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	ip := NewInterpreter()
	if err := ip.run(blocks); err != nil {
		return nil, err
	}
	return ip.result(), nil
}

func (ip *Interpreter) result() *cam.CamFile {
	cf := &cam.CamFile{
		Format:     cam.FormatGerber,
		Stats:      ip.stats,
		Primitives: ip.out,
		Apertures:  ip.dict.Iter(),
		Attributes: ip.fileAttrs,
	}
	cf.Stats.Format = cam.FormatGerber
	cf.RecomputeBBox()
	return cf
}

func (ip *Interpreter) note(line int, kind cam.NoteKind, detail string) {
	ip.stats.AddNote(line, kind, detail)
}

func (ip *Interpreter) emit(p cam.Primitive) {
	p.ID = cam.NewID()
	p.Level = ip.levelPol
	p.Attrs = ip.pendingAttrs
	ip.pendingAttrs = nil
	if n := len(ip.outStack); n > 0 {
		ip.outStack[n-1].body = append(ip.outStack[n-1].body, p)
		return
	}
	ip.out = append(ip.out, p)
}

func (ip *Interpreter) run(blocks []DataBlock) error {
	i := 0
	for i < len(blocks) {
		if ip.ended {
			ip.note(blocks[i].Line, cam.NoteUnknownCommand, "data after M02")
			i++
			continue
		}
		if blocks[i].InParameter {
			// Each in-parameter block is its own statement, except that an
			// AM statement also takes the macro body blocks (primitive and
			// $n assignment lines) that follow it.
			j := i + 1
			if strings.HasPrefix(blocks[i].Text, "AM") {
				for j < len(blocks) && blocks[j].InParameter &&
					(blocks[j].Text[0] == '$' || blocks[j].Text[0] >= '0' && blocks[j].Text[0] <= '9') {
					j++
				}
			}
			if err := ip.handleParameterStatement(blocks[i:j]); err != nil {
				return err
			}
			i = j
			continue
		}
		if err := ip.handleFunctionBlock(blocks[i]); err != nil {
			return err
		}
		i++
	}
	ip.flushSR(len(ip.out))
	return nil
}

// --- parameter statements (%...%) --------------------------------------

var (
	reFS = regexp.MustCompile(`^FS([LTN])([AI])X(\d)(\d)Y(\d)(\d)$`)
	reMO = regexp.MustCompile(`^MO(MM|IN)$`)
	reAD = regexp.MustCompile(`^ADD(\d+)([A-Za-z_$][A-Za-z0-9_.]*)(?:,(.*))?$`)
	reAM = regexp.MustCompile(`^AM([A-Za-z_$][A-Za-z0-9_.]*)\*?$`)
	reLP = regexp.MustCompile(`^LP([CD])$`)
	reSR = regexp.MustCompile(`^SRX(\d+)Y(\d+)I([\d.]+)J([\d.]+)$`)
	reIP = regexp.MustCompile(`^IP(POS|NEG)$`)
	reAB = regexp.MustCompile(`^AB(?:D(\d+))?$`)
	reTx = regexp.MustCompile(`^(TA|TO|TF)([^,]*)(?:,(.*))?$`)
)

func (ip *Interpreter) handleParameterStatement(group []DataBlock) error {
	head := group[0].Text
	line := group[0].Line
	switch {
	case strings.HasPrefix(head, "FS"):
		m := reFS.FindStringSubmatch(head)
		if m == nil {
			return &cam.FormatError{Detail: fmt.Sprintf("malformed FS statement %q", head)}
		}
		if ip.formatSet {
			return &cam.FormatError{Detail: "duplicate FS statement"}
		}
		format := cam.CoordinateFormat{}
		switch m[1] {
		case "L":
			format.ZeroSuppression = cam.SuppressLeading
		case "T":
			format.ZeroSuppression = cam.SuppressTrailing
		default:
			format.ZeroSuppression = cam.SuppressNone
		}
		if m[2] == "A" {
			format.Notation = cam.Absolute
		} else {
			format.Notation = cam.Incremental
		}
		format.IntegerDigits, _ = strconv.Atoi(m[3])
		format.DecimalDigits, _ = strconv.Atoi(m[4])
		// Y integer/decimal digit counts (m[5], m[6]) are required by the
		// grammar to match X's; this core only carries one shared format.
		ip.format = format
		ip.formatSet = true

	case strings.HasPrefix(head, "MO"):
		m := reMO.FindStringSubmatch(head)
		if m == nil {
			return &cam.FormatError{Detail: fmt.Sprintf("malformed MO statement %q", head)}
		}
		if m[1] == "MM" {
			ip.format.Units = cam.MM
		} else {
			ip.format.Units = cam.IN
		}
		ip.unitsSet = true
		ip.stats.Units = ip.format.Units

	case strings.HasPrefix(head, "ADD"):
		if err := ip.handleAD(head, line); err != nil {
			return err
		}

	case strings.HasPrefix(head, "AM"):
		m := reAM.FindStringSubmatch(strings.TrimSuffix(head, "*"))
		if m == nil {
			return &cam.FormatError{Detail: fmt.Sprintf("malformed AM statement %q", head)}
		}
		var bodyLines []string
		for _, b := range group[1:] {
			bodyLines = append(bodyLines, b.Text)
		}
		def, err := ParseMacroBody(m[1], bodyLines)
		if err != nil {
			return err
		}
		ip.dict.DefineMacro(m[1], def)

	case strings.HasPrefix(head, "LP"):
		m := reLP.FindStringSubmatch(head)
		if m == nil {
			return &cam.FormatError{Detail: fmt.Sprintf("malformed LP statement %q", head)}
		}
		if m[1] == "C" {
			ip.levelPol = cam.Clear
		} else {
			ip.levelPol = cam.Dark
		}

	case strings.HasPrefix(head, "SR"):
		if head == "SR" {
			// a bare SR closes the open window
			ip.flushSR(len(ip.out))
			ip.srNX, ip.srNY, ip.srDX, ip.srDY = 1, 1, 0, 0
			break
		}
		m := reSR.FindStringSubmatch(head)
		if m == nil {
			return &cam.FormatError{Detail: fmt.Sprintf("malformed SR statement %q", head)}
		}
		ip.flushSR(len(ip.out))
		ip.srNX, _ = strconv.Atoi(m[1])
		ip.srNY, _ = strconv.Atoi(m[2])
		ip.srDX, _ = strconv.ParseFloat(m[3], 64)
		ip.srDY, _ = strconv.ParseFloat(m[4], 64)
		ip.srStart = len(ip.out)

	case strings.HasPrefix(head, "IP"):
		m := reIP.FindStringSubmatch(head)
		if m == nil {
			return &cam.FormatError{Detail: fmt.Sprintf("malformed IP statement %q", head)}
		}
		if m[1] == "NEG" {
			ip.imgPol = cam.ImageNegative
		} else {
			ip.imgPol = cam.ImagePositive
		}

	case strings.HasPrefix(head, "TA"), strings.HasPrefix(head, "TO"), strings.HasPrefix(head, "TF"):
		m := reTx.FindStringSubmatch(head)
		if m == nil {
			ip.note(line, cam.NoteUnknownCommand, fmt.Sprintf("malformed attribute %q", head))
			break
		}
		var vals []string
		if m[3] != "" {
			vals = strings.Split(m[3], ",")
		}
		attr := cam.Attribute{Name: m[2], Values: vals}
		if m[1] == "TF" {
			attr.Scope = cam.AttributeFile
			ip.fileAttrs = append(ip.fileAttrs, attr)
		} else {
			attr.Scope = cam.AttributeObject
			ip.pendingAttrs = append(ip.pendingAttrs, attr)
		}

	case strings.HasPrefix(head, "AB"):
		m := reAB.FindStringSubmatch(head)
		if m == nil {
			return &cam.FormatError{Detail: fmt.Sprintf("malformed AB statement %q", head)}
		}
		if m[1] != "" {
			dcode, _ := strconv.Atoi(m[1])
			ip.outStack = append(ip.outStack, &blockCapture{dcode: dcode})
		} else {
			n := len(ip.outStack)
			if n == 0 {
				ip.note(line, cam.NoteUnknownCommand, "AB close with no matching open block")
				break
			}
			top := ip.outStack[n-1]
			ip.outStack = ip.outStack[:n-1]
			ip.dict.Define(top.dcode, cam.Aperture{Kind: cam.ApertureBlock, BlockBody: top.body})
		}

	case strings.HasPrefix(head, "G04"):
		// comment, ignored

	default:
		ip.note(line, cam.NoteUnknownCommand, fmt.Sprintf("unrecognized parameter statement %q", head))
	}
	return nil
}

func (ip *Interpreter) handleAD(head string, line int) error {
	m := reAD.FindStringSubmatch(head)
	if m == nil {
		return &cam.FormatError{Detail: fmt.Sprintf("malformed AD statement %q", head)}
	}
	dcode, _ := strconv.Atoi(m[1])
	shapeName := m[2]
	var mods []float64
	if m[3] != "" {
		for _, part := range splitModifiers(m[3]) {
			q, err := numeric.DecodeDecimal(part)
			if err != nil {
				ip.note(line, cam.NoteNumberOverflow, err.Error())
				continue
			}
			mods = append(mods, numeric.Float64(q))
		}
	}

	var ap cam.Aperture
	switch shapeName {
	case "C":
		ap.Kind = cam.ApertureCircle
		if len(mods) > 0 {
			ap.Diameter = mods[0]
		}
		setHole(&ap, mods, 1)
	case "R":
		ap.Kind = cam.ApertureRectangle
		if len(mods) > 1 {
			ap.Width, ap.Height = mods[0], mods[1]
		}
		setHole(&ap, mods, 2)
	case "O":
		ap.Kind = cam.ApertureObround
		if len(mods) > 1 {
			ap.Width, ap.Height = mods[0], mods[1]
		}
		setHole(&ap, mods, 2)
	case "P":
		ap.Kind = cam.AperturePolygon
		if len(mods) > 1 {
			ap.Diameter = mods[0]
			ap.Vertices = int(mods[1])
		}
		if len(mods) > 2 {
			ap.Rotation = mods[2]
		}
		setHole(&ap, mods, 3)
	default:
		ap.Kind = cam.ApertureMacro
		ap.MacroName = shapeName
		ap.MacroArgs = mods
		def, ok := ip.dict.LookupMacro(shapeName)
		if !ok {
			return &cam.UnknownMacroPrimitive{Code: -1}
		}
		resolved, err := Evaluate(def, mods)
		if err != nil {
			return err
		}
		ap.Resolved = resolved
	}
	if redefined := ip.dict.Define(dcode, ap); redefined {
		ip.note(line, cam.NoteRedefinedAperture, fmt.Sprintf("D%d redefined", dcode))
	}
	return nil
}

func setHole(ap *cam.Aperture, mods []float64, start int) {
	rest := mods[minInt(start, len(mods)):]
	switch len(rest) {
	case 1:
		ap.Hole = cam.RoundHole
		ap.HoleDia = rest[0]
	case 2:
		ap.Hole = cam.RectHole
		ap.HoleW, ap.HoleH = rest[0], rest[1]
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func splitModifiers(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == 'X' || r == 'x' })
}

// --- function/operation blocks ------------------------------------------

var reField = regexp.MustCompile(`([GDXYIJ])([+-]?\d+)`)

type parsedFields struct {
	gcodes     []int
	dcode      *int
	x, y, i, j *string
}

func parseFields(text string) parsedFields {
	var pf parsedFields
	for _, m := range reField.FindAllStringSubmatch(text, -1) {
		val := m[2]
		switch m[1] {
		case "G":
			n, _ := strconv.Atoi(val)
			pf.gcodes = append(pf.gcodes, n)
		case "D":
			n, _ := strconv.Atoi(val)
			pf.dcode = &n
		case "X":
			pf.x = &val
		case "Y":
			pf.y = &val
		case "I":
			pf.i = &val
		case "J":
			pf.j = &val
		}
	}
	return pf
}

func (ip *Interpreter) handleFunctionBlock(b DataBlock) error {
	text := b.Text
	if strings.HasPrefix(text, "M02") {
		ip.ended = true
		return nil
	}
	if strings.HasPrefix(text, "G04") {
		// comment, ignored — the body text may contain free-form [GDXYIJ]
		// digit substrings that parseFields would otherwise mistake for
		// real fields (e.g. "G04 SIZE X100 Y50*").
		return nil
	}
	pf := parseFields(text)

	for _, g := range pf.gcodes {
		switch g {
		case 1:
			ip.interp = interpLinear
		case 2:
			ip.interp = interpCW
		case 3:
			ip.interp = interpCCW
		case 36:
			ip.region = true
			ip.contour = nil
		case 37:
			ip.closeRegion(b.Line)
		case 74:
			ip.quad = cam.QuadrantSingle
		case 75:
			ip.quad = cam.QuadrantMulti
		case 70:
			ip.format.Units = cam.IN
			ip.note(b.Line, cam.NoteLegacyCommand, "G70 legacy inch-units directive")
		case 71:
			ip.format.Units = cam.MM
			ip.note(b.Line, cam.NoteLegacyCommand, "G71 legacy mm-units directive")
		case 90:
			ip.format.Notation = cam.Absolute
			ip.note(b.Line, cam.NoteLegacyCommand, "G90 legacy absolute-notation directive")
		case 91:
			ip.format.Notation = cam.Incremental
			ip.note(b.Line, cam.NoteLegacyCommand, "G91 legacy incremental-notation directive")
		case 4:
			// comment, no effect (only reached when G04 follows another code in
			// the same block; a block that starts with G04 returned above)
		case 54, 55:
			ip.note(b.Line, cam.NoteLegacyCommand, fmt.Sprintf("legacy G%d aperture-select prefix tolerated", g))
		default:
			ip.note(b.Line, cam.NoteUnknownCommand, fmt.Sprintf("unknown G%d", g))
		}
	}

	if pf.dcode != nil && *pf.dcode >= 10 && pf.x == nil && pf.y == nil && pf.i == nil && pf.j == nil {
		ip.curAperture = *pf.dcode
		return nil
	}

	if pf.x == nil && pf.y == nil && pf.i == nil && pf.j == nil && pf.dcode == nil {
		return nil
	}

	if !ip.formatSet {
		return &cam.FormatError{Detail: "coordinate encountered before FS statement"}
	}

	newX, newY := ip.curX, ip.curY
	if pf.x != nil {
		q, err := numeric.Decode(*pf.x, ip.format)
		if err != nil {
			ip.note(b.Line, cam.NoteNumberOverflow, err.Error())
			return nil
		}
		newX = numeric.Float64(q)
	}
	if pf.y != nil {
		q, err := numeric.Decode(*pf.y, ip.format)
		if err != nil {
			ip.note(b.Line, cam.NoteNumberOverflow, err.Error())
			return nil
		}
		newY = numeric.Float64(q)
	}
	var iOff, jOff float64
	if pf.i != nil {
		q, err := numeric.Decode(*pf.i, ip.format)
		if err != nil {
			ip.note(b.Line, cam.NoteNumberOverflow, err.Error())
			return nil
		}
		iOff = numeric.Float64(q)
	}
	if pf.j != nil {
		q, err := numeric.Decode(*pf.j, ip.format)
		if err != nil {
			ip.note(b.Line, cam.NoteNumberOverflow, err.Error())
			return nil
		}
		jOff = numeric.Float64(q)
	}

	op := 0
	if pf.dcode != nil {
		op = *pf.dcode
	}
	prevX, prevY := ip.curX, ip.curY
	start := cam.Point{X: prevX, Y: prevY}
	end := cam.Point{X: newX, Y: newY}

	switch op {
	case 1: // D01
		if ip.region {
			seg := cam.Segment{Start: start, End: end}
			if ip.interp != interpLinear {
				ip.fillArcSegment(&seg, start, end, iOff, jOff, ip.interp == interpCW, b.Line)
			}
			ip.contour = append(ip.contour, seg)
		} else if ip.interp == interpLinear {
			if _, ok := ip.dict.Lookup(ip.curAperture); !ok {
				ip.note(b.Line, cam.NoteUndefinedAperture, fmt.Sprintf("D%d undefined", ip.curAperture))
			} else {
				ip.emit(cam.Primitive{Kind: cam.KindLine, Start: start, End: end, Aperture: ip.curAperture})
			}
		} else {
			if _, ok := ip.dict.Lookup(ip.curAperture); !ok {
				ip.note(b.Line, cam.NoteUndefinedAperture, fmt.Sprintf("D%d undefined", ip.curAperture))
			} else {
				var center cam.Point
				var err error
				cw := ip.interp == interpCW
				if ip.quad == cam.QuadrantMulti {
					center = centerMultiQuadrant(start, iOff, jOff)
				} else {
					center, err = resolveArcCenter(start, end, iOff, jOff, cw, ip.format.Tolerance())
					if err != nil {
						ip.note(b.Line, cam.NoteAmbiguousArc, err.Error())
						ip.curX, ip.curY = newX, newY
						return nil
					}
				}
				sweep := cam.SweepCW
				if ip.interp == interpCCW {
					sweep = cam.SweepCCW
				}
				ip.emit(cam.Primitive{
					Kind: cam.KindArc, Start: start, End: end, Center: center,
					Sweep: sweep, Quad: ip.quad, Aperture: ip.curAperture,
				})
			}
		}
		ip.curX, ip.curY = newX, newY

	case 2: // D02
		ip.curX, ip.curY = newX, newY

	case 3: // D03
		if ip.region {
			ip.note(b.Line, cam.NoteFlashInRegion, "D03 flash inside region mode is illegal, dropped")
			ip.curX, ip.curY = newX, newY
			return nil
		}
		ip.curX, ip.curY = newX, newY
		ap, ok := ip.dict.Lookup(ip.curAperture)
		if !ok {
			ip.note(b.Line, cam.NoteUndefinedAperture, fmt.Sprintf("D%d undefined", ip.curAperture))
		} else if ap.Kind == cam.ApertureBlock {
			ip.expandBlockFlash(ap, cam.Point{X: ip.curX, Y: ip.curY})
		} else {
			ip.emit(cam.Primitive{Kind: cam.KindFlash, Start: cam.Point{X: ip.curX, Y: ip.curY}, Aperture: ip.curAperture})
		}

	default:
		// coordinate modal-update only, no operation code present: retained
		// per spec.md "explicit coordinates may omit X or Y ... modal".
		ip.curX, ip.curY = newX, newY
	}
	return nil
}

func (ip *Interpreter) fillArcSegment(seg *cam.Segment, start, end cam.Point, i, j float64, cw bool, line int) {
	seg.IsArc = true
	if cw {
		seg.Sweep = cam.SweepCW
	} else {
		seg.Sweep = cam.SweepCCW
	}
	seg.Quad = ip.quad
	if ip.quad == cam.QuadrantMulti {
		seg.Center = centerMultiQuadrant(start, i, j)
		return
	}
	center, err := resolveArcCenter(start, end, i, j, cw, ip.format.Tolerance())
	if err != nil {
		ip.note(line, cam.NoteAmbiguousArc, err.Error())
		return
	}
	seg.Center = center
}

func (ip *Interpreter) closeRegion(line int) {
	defer func() { ip.region = false; ip.contour = nil }()
	if len(ip.contour) == 0 {
		return
	}
	first, last := ip.contour[0].Start, ip.contour[len(ip.contour)-1].End
	tol := ip.format.Tolerance()
	if !pointsClose(first, last, tol) {
		ip.note(line, cam.NoteUnclosedRegion, "region contour start/end do not coincide within tolerance")
		return
	}
	ip.emit(cam.Primitive{Kind: cam.KindRegion, Contour: append([]cam.Segment(nil), ip.contour...)})
}

func pointsClose(a, b cam.Point, tol float64) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx+dy*dy <= tol*tol
}

// flushSR materializes step-and-repeat duplicates for the primitives
// emitted since the window opened, per spec.md §4.5 ("the interpreter
// materializes duplicates at SR close").
func (ip *Interpreter) flushSR(end int) {
	if ip.srNX <= 1 && ip.srNY <= 1 {
		ip.srStart = end
		return
	}
	originals := append([]cam.Primitive(nil), ip.out[ip.srStart:end]...)
	var dup []cam.Primitive
	for yi := 0; yi < ip.srNY; yi++ {
		for xi := 0; xi < ip.srNX; xi++ {
			if xi == 0 && yi == 0 {
				continue
			}
			dx, dy := float64(xi)*ip.srDX, float64(yi)*ip.srDY
			for _, p := range originals {
				dup = append(dup, translatePrimitive(p, dx, dy))
			}
		}
	}
	ip.out = append(ip.out, dup...)
	ip.srStart = len(ip.out)
}

func translatePrimitive(p cam.Primitive, dx, dy float64) cam.Primitive {
	q := translateGeometry(p, dx, dy)
	q.OriginID = p.ID
	q.ID = cam.NewID()
	return q
}

// translateGeometry shifts a primitive's coordinates by (dx, dy), leaving
// ID/OriginID untouched — used both by SR materialization (which then
// stamps OriginID itself) and by aperture-block flash expansion (which
// has no "duplicate of" relationship to record).
func translateGeometry(p cam.Primitive, dx, dy float64) cam.Primitive {
	q := p
	q.Start = cam.Point{X: p.Start.X + dx, Y: p.Start.Y + dy}
	q.End = cam.Point{X: p.End.X + dx, Y: p.End.Y + dy}
	q.Center = cam.Point{X: p.Center.X + dx, Y: p.Center.Y + dy}
	if len(p.Contour) > 0 {
		q.Contour = make([]cam.Segment, len(p.Contour))
		for i, s := range p.Contour {
			ns := s
			ns.Start = cam.Point{X: s.Start.X + dx, Y: s.Start.Y + dy}
			ns.End = cam.Point{X: s.End.X + dx, Y: s.End.Y + dy}
			ns.Center = cam.Point{X: s.Center.X + dx, Y: s.Center.Y + dy}
			q.Contour[i] = ns
		}
	}
	return q
}

// expandBlockFlash descends into a flashed %AB% aperture (spec.md §9: "the
// interpreter descends on flash, transforming coordinates"). BlockBody
// primitives are recorded in the block's local frame (origin at the point
// the block definition started drawing from), so a flash at pos re-emits
// each body primitive translated by pos. A body primitive that is itself a
// flash of another block aperture is expanded recursively rather than
// emitted, so nested %AB% blocks compose.
func (ip *Interpreter) expandBlockFlash(ap cam.Aperture, pos cam.Point) {
	for _, p := range ap.BlockBody {
		translated := translateGeometry(p, pos.X, pos.Y)
		if translated.Kind == cam.KindFlash {
			if nested, ok := ip.dict.Lookup(translated.Aperture); ok && nested.Kind == cam.ApertureBlock {
				ip.expandBlockFlash(nested, translated.Start)
				continue
			}
		}
		ip.emit(translated)
	}
}
