// Package pcbcam is the root of the PCB CAM-file core: format
// auto-detection over the gerber and excellon interpreters (spec.md §6).
package pcbcam

import (
	"bytes"

	"github.com/curtacircuitos/pcb-tools/cam"
	"github.com/curtacircuitos/pcb-tools/excellon"
	"github.com/curtacircuitos/pcb-tools/gerber"
)

// sniffWindow bounds how much of the stream the prefix heuristic inspects.
const sniffWindow = 4096

var (
	gerberMarkers   = [][]byte{[]byte("%FS"), []byte("%MO"), []byte("%AD")}
	excellonMarkers = [][]byte{[]byte("M48")}
)

// gerberExtensions and excellonExtensions are the caller-supplied file
// extension hints consulted when the byte-prefix heuristic is inconclusive.
var (
	gerberExtensions   = map[string]bool{".gbr": true, ".gtl": true, ".gbl": true, ".gbs": true, ".gbo": true, ".gts": true, ".gto": true, ".gml": true, ".gko": true}
	excellonExtensions = map[string]bool{".drl": true, ".txt": true, ".nc": true, ".xln": true, ".tap": true}
)

// Detect classifies src as Gerber or Excellon per spec.md §6: scan the
// first sniffWindow bytes for format-identifying markers, and fall back to
// the caller's file extension hint (e.g. ".gbr", ".drl") when the prefix is
// inconclusive. ext may be empty if the caller has no hint.
func Detect(src []byte, ext string) cam.Format {
	window := src
	if len(window) > sniffWindow {
		window = window[:sniffWindow]
	}
	for _, m := range gerberMarkers {
		if bytes.Contains(window, m) {
			return cam.FormatGerber
		}
	}
	if bytes.Contains(window, excellonMarkers[0]) || looksLikeToolDef(window) {
		return cam.FormatExcellon
	}
	if gerberExtensions[ext] {
		return cam.FormatGerber
	}
	if excellonExtensions[ext] {
		return cam.FormatExcellon
	}
	return cam.FormatUnknown
}

// looksLikeToolDef scans for a bare Excellon tool-definition line
// (T<digits>C<digits>), the other body-less signal spec.md §6 names besides
// an explicit M48 header start.
func looksLikeToolDef(window []byte) bool {
	for _, line := range bytes.Split(window, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) < 3 || line[0] != 'T' {
			continue
		}
		i := 1
		for i < len(line) && line[i] >= '0' && line[i] <= '9' {
			i++
		}
		if i == 1 || i >= len(line) || line[i] != 'C' {
			continue
		}
		return true
	}
	return false
}

// Parse auto-detects the format of src (using ext as a fallback hint, e.g.
// the source file's extension) and dispatches to the matching interpreter.
// It returns UnknownFormat if neither detector matches, per spec.md §6.
func Parse(src []byte, ext string) (*cam.CamFile, error) {
	switch Detect(src, ext) {
	case cam.FormatGerber:
		return gerber.Parse(src)
	case cam.FormatExcellon:
		return excellon.Parse(src)
	default:
		return nil, &cam.UnknownFormat{}
	}
}
