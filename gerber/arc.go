package gerber

import (
	"math"

	"github.com/curtacircuitos/pcb-tools/cam"
)

// resolveArcCenter implements spec.md §4.5's single-quadrant sign
// resolution: I/J are unsigned magnitudes, and the interpreter must try
// all four (±I, ±J) combinations, picking the one whose sweep is <=90deg
// and whose start/end both lie on the resulting circle within tol. cw
// selects whether the arc runs clockwise (G02) or counter-clockwise (G03).
func resolveArcCenter(start, end cam.Point, i, j float64, cw bool, tol float64) (cam.Point, error) {
	signs := [4][2]float64{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	for _, s := range signs {
		center := cam.Point{X: start.X + s[0]*i, Y: start.Y + s[1]*j}
		rStart := math.Hypot(start.X-center.X, start.Y-center.Y)
		rEnd := math.Hypot(end.X-center.X, end.Y-center.Y)
		if math.Abs(rStart-rEnd) > tol {
			continue
		}
		sweep := sweepAngle(start, end, center, cw)
		if sweep <= 90.0+1e-9 {
			return center, nil
		}
	}
	return cam.Point{}, &cam.AmbiguousArc{IOffset: i, JOffset: j}
}

// centerMultiQuadrant computes the arc center for multi-quadrant mode,
// where I/J already carry their true sign.
func centerMultiQuadrant(start cam.Point, i, j float64) cam.Point {
	return cam.Point{X: start.X + i, Y: start.Y + j}
}

// sweepAngle is the absolute angular distance from start to end around
// center, walking in the direction cw selects, in degrees.
func sweepAngle(start, end, center cam.Point, cw bool) float64 {
	a0 := math.Atan2(start.Y-center.Y, start.X-center.X)
	a1 := math.Atan2(end.Y-center.Y, end.X-center.X)
	delta := a1 - a0
	if cw {
		delta = -delta
	}
	for delta < 0 {
		delta += 2 * math.Pi
	}
	for delta > 2*math.Pi {
		delta -= 2 * math.Pi
	}
	return delta * 180 / math.Pi
}
