// Package gerber implements the RS-274X (Gerber) half of the core: the
// block reader (C1), aperture dictionary (C3), aperture macro evaluator
// (C4), and the stateful graphic interpreter (C5) from spec.md.
package gerber

import (
	"strings"

	"github.com/curtacircuitos/pcb-tools/cam"
)

// DataBlock is one logical *-terminated unit yielded by the reader,
// tagged with whether it appeared inside a %...% parameter statement
// (spec.md §4.1).
type DataBlock struct {
	Text        string
	InParameter bool
	Line        int
}

// Tokenize segments a raw Gerber byte stream into DataBlocks. It does not
// interpret commands — that's the interpreter's job (C5).
func Tokenize(src []byte) ([]DataBlock, error) {
	var blocks []DataBlock
	var buf strings.Builder
	inParam := false
	line := 1
	blockStartLine := 1

	flush := func() {
		text := buf.String()
		trimmedLeft := strings.TrimLeft(text, " \t")
		if !strings.HasPrefix(trimmedLeft, "G04") && !strings.HasPrefix(trimmedLeft, "g04") {
			text = strings.TrimSpace(text)
		} else {
			text = trimmedLeft
		}
		if text != "" {
			blocks = append(blocks, DataBlock{Text: text, InParameter: inParam, Line: blockStartLine})
		}
		buf.Reset()
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '\n':
			line++
			continue
		case c == '\r':
			continue
		case c == '%':
			flush()
			inParam = !inParam
			blockStartLine = line
			continue
		case c == '*':
			flush()
			blockStartLine = line
			continue
		case c < 32 || c > 126:
			return nil, &cam.LexError{Pos: i, Reason: "byte outside ASCII 32-126, CR, or LF"}
		default:
			if buf.Len() == 0 {
				blockStartLine = line
			}
			buf.WriteByte(c)
		}
	}
	// Any non-whitespace residue means a block never saw its closing '*'.
	if strings.TrimSpace(buf.String()) != "" {
		return nil, &cam.LexError{Pos: len(src), Reason: "unterminated data block (missing '*')"}
	}
	if inParam {
		return nil, &cam.LexError{Pos: len(src), Reason: "unterminated parameter statement (missing closing '%')"}
	}
	return blocks, nil
}
