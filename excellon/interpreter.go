package excellon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/curtacircuitos/pcb-tools/cam"
	"github.com/curtacircuitos/pcb-tools/numeric"
)

// Interpreter drives the Excellon header/body command sequence into tool
// definitions and drill/slot primitives (spec.md §4.7, component C7).
type Interpreter struct {
	format  cam.CoordinateFormat
	dialect Dialect

	tools   map[int]cam.Tool
	curTool int

	curX, curY float64
	routMode   bool
	fmat       int
	ended      bool

	out   []cam.Primitive
	stats cam.FileStats
}

// NewInterpreter returns an Interpreter seeded with a detected dialect.
func NewInterpreter(d Dialect) *Interpreter {
	return &Interpreter{
		format:  d.Format,
		dialect: d,
		tools:   make(map[int]cam.Tool),
		fmat:    2,
		stats:   cam.FileStats{Format: cam.FormatExcellon, Units: d.Format.Units},
	}
}

// Parse tokenizes, detects the dialect, and interprets a complete
// Excellon byte stream.
func Parse(src []byte) (*cam.CamFile, error) {
	lines := Tokenize(src)
	dialect, err := DetectDialect(lines)
	if err != nil {
		return nil, err
	}
	ip := NewInterpreter(dialect)
	if err := ip.run(lines); err != nil {
		return nil, err
	}
	return ip.result(), nil
}

func (ip *Interpreter) result() *cam.CamFile {
	cf := &cam.CamFile{
		Format:     cam.FormatExcellon,
		Stats:      ip.stats,
		Primitives: ip.out,
		Tools:      ip.tools,
	}
	cf.RecomputeBBox()
	return cf
}

func (ip *Interpreter) note(line int, kind cam.NoteKind, detail string) {
	ip.stats.AddNote(line, kind, detail)
}

func (ip *Interpreter) emit(p cam.Primitive) {
	p.ID = cam.NewID()
	ip.out = append(ip.out, p)
}

var (
	reToolDef  = regexp.MustCompile(`^T0*(\d+)C([\d.]+)(?:F(\d+))?(?:S(\d+))?`)
	reToolSel  = regexp.MustCompile(`^T0*(\d+)$`)
	reRepeat   = regexp.MustCompile(`^R0*(\d+)`)
	reBodyXY   = regexp.MustCompile(`([XY])([+-]?\d+)`)
	reFmat     = regexp.MustCompile(`^FMAT,\s*([12])`)
)

func (ip *Interpreter) run(lines []Line) error {
	for _, l := range lines {
		if ip.ended {
			ip.note(l.Number, cam.NoteUnknownCommand, "data after M30/M00")
			continue
		}
		if l.Section == SectionHeader {
			ip.handleHeader(l)
		} else {
			ip.handleBody(l)
		}
	}
	return nil
}

func (ip *Interpreter) handleHeader(l Line) {
	text := l.Text
	switch {
	case text == "M48":
		// header start marker, no-op
	case strings.HasPrefix(text, "FMAT"):
		if m := reFmat.FindStringSubmatch(text); m != nil {
			ip.fmat, _ = strconv.Atoi(m[1])
			if ip.fmat == 1 {
				ip.note(l.Number, cam.NoteLegacyCommand, "FMAT,1 legacy format; T0 unselect semantics unchanged")
			}
		}
	case reToolDef.MatchString(text):
		m := reToolDef.FindStringSubmatch(text)
		id, _ := strconv.Atoi(m[1])
		dia, _ := strconv.ParseFloat(m[2], 64)
		t := cam.Tool{ID: id, Diameter: dia}
		if m[3] != "" {
			t.Feed, _ = strconv.Atoi(m[3])
		}
		if m[4] != "" {
			t.Speed, _ = strconv.Atoi(m[4])
		}
		ip.tools[id] = t
	case strings.HasPrefix(text, ";"):
		// comment, already consumed by the dialect detector
	default:
		// INCH/METRIC/LZ/TZ directives and anything else header-shaped:
		// no further geometric effect once the dialect has been detected.
	}
}

func (ip *Interpreter) handleBody(l Line) {
	text := l.Text
	switch {
	case text == "M30" || text == "M00":
		ip.ended = true
		return
	case strings.HasPrefix(text, "G05"):
		ip.routMode = false
		return
	case strings.HasPrefix(text, "G00"):
		// rapid move to the rout start point; never emits, may carry X/Y
		// on the same line (e.g. "G00X010000Y010000").
		x, y, _, _ := ip.decodeAxes(text)
		ip.curX, ip.curY = x, y
		ip.routMode = true
		return
	case strings.HasPrefix(text, "G01"), strings.HasPrefix(text, "G02"), strings.HasPrefix(text, "G03"):
		ip.handleRoutMove(l)
		return
	case reToolSel.MatchString(text):
		m := reToolSel.FindStringSubmatch(text)
		id, _ := strconv.Atoi(m[1])
		ip.curTool = id
		return
	case strings.HasPrefix(text, "R"):
		ip.handleRepeat(l)
		return
	}
	// plain coordinate line: "X..Y.." (drill hit)
	ip.handleDrill(l, text)
}

func (ip *Interpreter) decodeAxes(text string) (x, y float64, sawX, sawY bool) {
	x, y = ip.curX, ip.curY
	for _, m := range reBodyXY.FindAllStringSubmatch(text, -1) {
		q, err := numeric.Decode(m[2], ip.format)
		if err != nil {
			continue
		}
		v := numeric.Float64(q)
		if m[1] == "X" {
			x, sawX = v, true
		} else {
			y, sawY = v, true
		}
	}
	return
}

func (ip *Interpreter) handleDrill(l Line, text string) {
	x, y, sawX, sawY := ip.decodeAxes(text)
	if !sawX && !sawY {
		ip.note(l.Number, cam.NoteUnknownCommand, fmt.Sprintf("unrecognized excellon line %q", text))
		return
	}
	ip.curX, ip.curY = x, y
	if ip.curTool == 0 {
		ip.note(l.Number, cam.NoteUndefinedTool, "drill with no tool selected (T0)")
		return
	}
	if _, ok := ip.tools[ip.curTool]; !ok {
		ip.note(l.Number, cam.NoteUndefinedTool, fmt.Sprintf("tool %d undefined", ip.curTool))
		return
	}
	ip.emit(cam.Primitive{Kind: cam.KindDrill, Start: cam.Point{X: x, Y: y}, Tool: ip.curTool})
}

func (ip *Interpreter) handleRoutMove(l Line) {
	prevX, prevY := ip.curX, ip.curY
	x, y, sawX, sawY := ip.decodeAxes(l.Text)
	if !sawX && !sawY {
		return
	}
	ip.curX, ip.curY = x, y
	if !ip.routMode {
		return
	}
	if _, ok := ip.tools[ip.curTool]; !ok {
		ip.note(l.Number, cam.NoteUndefinedTool, fmt.Sprintf("tool %d undefined for rout", ip.curTool))
		return
	}
	ip.emit(cam.Primitive{
		Kind: cam.KindSlot,
		Start: cam.Point{X: prevX, Y: prevY}, End: cam.Point{X: x, Y: y},
		Tool: ip.curTool,
	})
}

func (ip *Interpreter) handleRepeat(l Line) {
	m := reRepeat.FindStringSubmatch(l.Text)
	if m == nil {
		ip.note(l.Number, cam.NoteUnknownCommand, fmt.Sprintf("malformed repeat %q", l.Text))
		return
	}
	count, _ := strconv.Atoi(m[1])
	_, _, sawX, sawY := ip.decodeAxes(l.Text)
	var dx, dy float64
	for _, mm := range reBodyXY.FindAllStringSubmatch(l.Text, -1) {
		q, err := numeric.Decode(mm[2], ip.format)
		if err != nil {
			continue
		}
		v := numeric.Float64(q)
		if mm[1] == "X" {
			dx = v
		} else {
			dy = v
		}
	}
	if !sawX {
		dx = 0
	}
	if !sawY {
		dy = 0
	}
	if ip.curTool == 0 {
		ip.note(l.Number, cam.NoteUndefinedTool, "repeat with no tool selected (T0)")
		return
	}
	if _, ok := ip.tools[ip.curTool]; !ok {
		ip.note(l.Number, cam.NoteUndefinedTool, fmt.Sprintf("tool %d undefined", ip.curTool))
		return
	}
	for n := 0; n < count; n++ {
		ip.curX += dx
		ip.curY += dy
		ip.emit(cam.Primitive{Kind: cam.KindDrill, Start: cam.Point{X: ip.curX, Y: ip.curY}, Tool: ip.curTool})
	}
}
