package gerber

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/curtacircuitos/pcb-tools/cam"
)

// Expr is the minimal arithmetic-variable expression AST spec.md §4.4
// calls for: literals, $n parameter references, and left-to-right binary
// operators with conventional + - x / precedence plus unary minus. No
// runtime eval of host-language expressions (spec.md §9).
type Expr interface {
	Eval(params map[int]float64) float64
}

type litExpr float64

func (l litExpr) Eval(map[int]float64) float64 { return float64(l) }

type refExpr int

func (r refExpr) Eval(params map[int]float64) float64 { return params[int(r)] }

type negExpr struct{ inner Expr }

func (n negExpr) Eval(params map[int]float64) float64 { return -n.inner.Eval(params) }

type binExpr struct {
	op          byte // '+' '-' 'x' '/'
	left, right Expr
}

func (b binExpr) Eval(params map[int]float64) float64 {
	l, r := b.left.Eval(params), b.right.Eval(params)
	switch b.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case 'x':
		return l * r
	case '/':
		return l / r
	}
	return 0
}

// Assignment is a `$n = expr` macro-local variable definition, evaluated
// in order before the primitive templates (spec.md §4.4).
type Assignment struct {
	Index int
	Expr  Expr
}

// PrimitiveTemplate is one un-evaluated macro-primitive line: a kind code
// plus an expression per field, preceded by the exposure expression
// (spec.md §4.4: "the exposure flag is the first field").
type PrimitiveTemplate struct {
	Kind   cam.MacroPrimitiveKind
	Fields []Expr // includes the exposure field first, except for kinds 6/7 which have no exposure field
}

// MacroDefinition is a parsed %AM body: a name, its parameter arity (the
// highest $n referenced anywhere in it), the assignments, and the ordered
// primitive templates (spec.md §3 MacroDefinition, §4.4).
type MacroDefinition struct {
	Name        string
	Arity       int
	Assignments []Assignment
	Primitives  []PrimitiveTemplate
}

// ParseMacroBody parses the *-terminated lines that follow `%AM<name>` (the
// name itself already stripped by the caller) into a MacroDefinition.
func ParseMacroBody(name string, lines []string) (MacroDefinition, error) {
	def := MacroDefinition{Name: name}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if eq := strings.IndexByte(line, '='); eq >= 0 && strings.HasPrefix(line, "$") {
			idxStr := strings.TrimSpace(line[1:eq])
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return def, fmt.Errorf("gerber: malformed macro variable assignment %q: %w", line, err)
			}
			expr, err := parseExpr(line[eq+1:])
			if err != nil {
				return def, fmt.Errorf("gerber: macro assignment %q: %w", line, err)
			}
			def.Assignments = append(def.Assignments, Assignment{Index: idx, Expr: expr})
			def.Arity = maxInt(def.Arity, highestRef(expr))
			continue
		}

		// A comment primitive (code 0) carries free-form text after the
		// code, not necessarily comma-separated fields (e.g. "0 rounded
		// pad*"), so the leading code is read as a bare digit run before
		// deciding whether the rest is parseable fields at all.
		codeEnd := 0
		for codeEnd < len(line) && line[codeEnd] >= '0' && line[codeEnd] <= '9' {
			codeEnd++
		}
		if codeEnd == 0 {
			return def, fmt.Errorf("gerber: malformed macro primitive %q: missing primitive code", line)
		}
		code, _ := strconv.Atoi(line[:codeEnd])
		kind, ok := macroKindForCode(code)
		if !ok {
			return def, &cam.UnknownMacroPrimitive{Code: code}
		}
		if kind == cam.MacroComment {
			continue
		}

		fields := strings.Split(line, ",")
		var exprs []Expr
		for _, f := range fields[1:] {
			e, err := parseExpr(f)
			if err != nil {
				return def, fmt.Errorf("gerber: macro primitive %q field %q: %w", line, f, err)
			}
			exprs = append(exprs, e)
			def.Arity = maxInt(def.Arity, highestRef(e))
		}
		def.Primitives = append(def.Primitives, PrimitiveTemplate{Kind: kind, Fields: exprs})
	}
	return def, nil
}

func macroKindForCode(code int) (cam.MacroPrimitiveKind, bool) {
	switch code {
	case 0:
		return cam.MacroComment, true
	case 1:
		return cam.MacroCircle, true
	case 20:
		return cam.MacroVectorLine, true
	case 21:
		return cam.MacroCenterLine, true
	case 4:
		return cam.MacroOutline, true
	case 5:
		return cam.MacroPolygon, true
	case 6:
		return cam.MacroMoire, true
	case 7:
		return cam.MacroThermal, true
	default:
		return 0, false
	}
}

// Evaluate binds args to $1..$k and produces the ordered concrete
// MacroPrimitive list (spec.md §4.4). The evaluator is pure: identical
// (def, args) always yields identical output.
func Evaluate(def MacroDefinition, args []float64) ([]cam.MacroPrimitive, error) {
	params := make(map[int]float64, len(args)+len(def.Assignments))
	for i, a := range args {
		params[i+1] = a
	}
	for _, asn := range def.Assignments {
		params[asn.Index] = asn.Expr.Eval(params)
	}

	out := make([]cam.MacroPrimitive, 0, len(def.Primitives))
	for _, tpl := range def.Primitives {
		vals := make([]float64, len(tpl.Fields))
		for i, e := range tpl.Fields {
			vals[i] = e.Eval(params)
		}
		mp := cam.MacroPrimitive{Kind: tpl.Kind}
		switch tpl.Kind {
		case cam.MacroMoire, cam.MacroThermal:
			mp.Exposure = cam.ExposureAdd
			mp.Values = vals
		default:
			if len(vals) > 0 {
				if vals[0] != 0 {
					mp.Exposure = cam.ExposureAdd
				} else {
					mp.Exposure = cam.ExposureSubtract
				}
				mp.Values = vals[1:]
			}
		}
		if tpl.Kind == cam.MacroOutline || tpl.Kind == cam.MacroPolygon {
			mp.Points = outlinePoints(tpl.Kind, mp.Values)
		}
		out = append(out, mp)
	}
	return out, nil
}

// outlinePoints extracts the vertex list from an outline/polygon's
// resolved Values so callers don't have to know the field layout.
func outlinePoints(kind cam.MacroPrimitiveKind, vals []float64) []cam.Point {
	if kind == cam.MacroPolygon {
		// numVertices, centerX, centerY, diameter, rotation -- geometry is
		// computed by the caller (needs trig); no explicit vertex list here.
		return nil
	}
	// outline: numVertices, x1,y1, ..., xn,yn, rotation
	if len(vals) < 1 {
		return nil
	}
	n := int(vals[0])
	pts := make([]cam.Point, 0, n)
	for i := 0; i < n && 1+2*i+1 < len(vals); i++ {
		pts = append(pts, cam.Point{X: vals[1+2*i], Y: vals[1+2*i+1]})
	}
	return pts
}

func highestRef(e Expr) int {
	switch v := e.(type) {
	case refExpr:
		return int(v)
	case negExpr:
		return highestRef(v.inner)
	case binExpr:
		return maxInt(highestRef(v.left), highestRef(v.right))
	default:
		return 0
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// --- expression parser -----------------------------------------------

type exprParser struct {
	toks []string
	pos  int
}

func parseExpr(s string) (Expr, error) {
	toks, err := lexExpr(s)
	if err != nil {
		return nil, err
	}
	p := &exprParser{toks: toks}
	e, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("unexpected token %q", p.toks[p.pos])
	}
	return e, nil
}

func lexExpr(s string) ([]string, error) {
	var toks []string
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '+' || c == '-' || c == 'x' || c == 'X' || c == '/' || c == '(' || c == ')':
			op := c
			if op == 'X' {
				op = 'x'
			}
			toks = append(toks, string(op))
			i++
		case c == '$':
			j := i + 1
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			if j == i+1 {
				return nil, fmt.Errorf("malformed parameter reference in %q", s)
			}
			toks = append(toks, s[i:j])
			i = j
		case c >= '0' && c <= '9' || c == '.':
			j := i + 1
			for j < len(s) && (s[j] >= '0' && s[j] <= '9' || s[j] == '.') {
				j++
			}
			toks = append(toks, s[i:j])
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q in expression %q", c, s)
		}
	}
	return toks, nil
}

func (p *exprParser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *exprParser) parseAddSub() (Expr, error) {
	left, err := p.parseMulDiv()
	if err != nil {
		return nil, err
	}
	for p.peek() == "+" || p.peek() == "-" {
		op := p.toks[p.pos][0]
		p.pos++
		right, err := p.parseMulDiv()
		if err != nil {
			return nil, err
		}
		left = binExpr{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *exprParser) parseMulDiv() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek() == "x" || p.peek() == "/" {
		op := p.toks[p.pos][0]
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binExpr{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *exprParser) parseUnary() (Expr, error) {
	if p.peek() == "-" {
		p.pos++
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negExpr{inner: inner}, nil
	}
	if p.peek() == "+" {
		p.pos++
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *exprParser) parsePrimary() (Expr, error) {
	tok := p.peek()
	switch {
	case tok == "":
		return nil, fmt.Errorf("unexpected end of expression")
	case tok == "(":
		p.pos++
		e, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return e, nil
	case strings.HasPrefix(tok, "$"):
		p.pos++
		idx, err := strconv.Atoi(tok[1:])
		if err != nil {
			return nil, fmt.Errorf("malformed parameter reference %q: %w", tok, err)
		}
		return refExpr(idx), nil
	default:
		p.pos++
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed numeric literal %q: %w", tok, err)
		}
		return litExpr(v), nil
	}
}
