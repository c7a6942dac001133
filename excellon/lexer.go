// Package excellon implements the NC-drill half of the core: the
// line-oriented reader (C1), the dialect detector (C6), and the stateful
// drill/rout interpreter (C7) from spec.md. Excellon has no single
// normative grammar (spec.md §1), so the reader and detector lean on
// heuristics rather than a fixed grammar table.
package excellon

import "strings"

// Section tags whether a Line came from the header or the body
// (spec.md §4.1).
type Section int

const (
	SectionHeader Section = iota
	SectionBody
)

// Line is one logical line of an Excellon file, with any trailing ';'
// comment stripped from Text and discarded, unless the entire line is a
// comment, in which case Text keeps the leading ';' so the dialect
// detector can still pattern-match directives like ";FILE_FORMAT=2:4".
type Line struct {
	Section Section
	Text    string
	Number  int
}

var bodyLeaders = []string{"X", "Y", "G00", "G01", "G02", "G03", "G05", "M30", "R"}

// Tokenize segments a raw Excellon byte stream into header/body Lines.
// Header ends at a bare "%" or "M95"; if neither ever appears (a common
// dialect quirk), the reader falls back to flipping into the body as soon
// as it sees a line shaped like a drill hit or rout command.
func Tokenize(src []byte) []Line {
	raw := strings.ReplaceAll(string(src), "\r\n", "\n")
	rawLines := strings.Split(raw, "\n")

	var out []Line
	section := SectionHeader
	for n, l := range rawLines {
		text := strings.TrimSpace(l)
		if text == "" {
			continue
		}
		if !strings.HasPrefix(text, ";") {
			if idx := strings.IndexByte(text, ';'); idx >= 0 {
				text = strings.TrimSpace(text[:idx])
			}
		}
		if text == "" {
			continue
		}
		if section == SectionHeader {
			if text == "%" || strings.HasPrefix(text, "M95") {
				section = SectionBody
				continue
			}
			if looksLikeBody(text) {
				section = SectionBody
			}
		}
		out = append(out, Line{Section: section, Text: text, Number: n + 1})
	}
	return out
}

func looksLikeBody(text string) bool {
	for _, leader := range bodyLeaders {
		if strings.HasPrefix(text, leader) {
			return true
		}
	}
	return false
}
