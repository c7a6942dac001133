// Package numeric implements the fixed-point digit-string codec shared by
// the Gerber and Excellon interpreters (spec.md §4.2, component C2).
//
// Gerber coordinate fields and Excellon drill coordinates are bare digit
// strings whose decimal point position is implied by a CoordinateFormat
// rather than written out; this package reconstructs the exact rational
// value with math/big so no precision is lost before a downstream
// consumer chooses a floating-point representation. No repo in the
// retrieved example pack imports a third-party decimal/rational library
// (no shopspring/decimal, no ericlagergren/decimal), so there is nothing
// in the corpus to ground a non-stdlib choice on here; see DESIGN.md.
package numeric

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/curtacircuitos/pcb-tools/cam"
)

// Decode converts a raw digit string (optional leading sign, digits only,
// no decimal point) into a rational value under the given coordinate
// format, per spec.md §4.2:
//
//   - leading-zero suppression: right-align to width, left-pad with '0'
//   - trailing-zero suppression: left-align to width, right-pad with '0'
//   - none: the digit string must equal the format width exactly
func Decode(raw string, format cam.CoordinateFormat) (*big.Rat, error) {
	sign := ""
	digits := raw
	if strings.HasPrefix(digits, "+") {
		digits = digits[1:]
	} else if strings.HasPrefix(digits, "-") {
		sign = "-"
		digits = digits[1:]
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("numeric: %q is not a plain digit string", raw)
		}
	}

	width := format.Width()
	if len(digits) > width {
		return nil, &cam.NumberOverflow{Digits: raw, Width: width}
	}

	switch format.ZeroSuppression {
	case cam.SuppressLeading:
		digits = strings.Repeat("0", width-len(digits)) + digits
	case cam.SuppressTrailing:
		digits = digits + strings.Repeat("0", width-len(digits))
	default:
		if len(digits) != width {
			return nil, &cam.NumberOverflow{Digits: raw, Width: width}
		}
	}

	intPart := digits[:format.IntegerDigits]
	decPart := digits[format.IntegerDigits:]
	if intPart == "" {
		intPart = "0"
	}

	numer := new(big.Int)
	if _, ok := numer.SetString(intPart+decPart, 10); !ok {
		return nil, fmt.Errorf("numeric: malformed digits %q", raw)
	}
	denom := pow10(format.DecimalDigits)
	q := new(big.Rat).SetFrac(numer, denom)
	if sign == "-" {
		q.Neg(q)
	}
	return q, nil
}

// Encode is the inverse of Decode: it renders q back into a zero-suppressed
// digit string of the given format, used to test the round-trip property
// in spec.md §8 property 1. The returned string carries a leading '-' for
// negative values; suppression is applied to the digit run only.
func Encode(q *big.Rat, format cam.CoordinateFormat) (string, error) {
	neg := q.Sign() < 0
	abs := new(big.Rat).Abs(q)

	scaled := new(big.Rat).Mul(abs, new(big.Rat).SetInt(pow10(format.DecimalDigits)))
	if !scaled.IsInt() {
		return "", fmt.Errorf("numeric: value is not representable at %d decimal digits", format.DecimalDigits)
	}
	digits := scaled.Num().String()
	width := format.Width()
	if len(digits) > width {
		return "", &cam.NumberOverflow{Digits: digits, Width: width}
	}
	digits = strings.Repeat("0", width-len(digits)) + digits

	switch format.ZeroSuppression {
	case cam.SuppressLeading:
		digits = strings.TrimLeft(digits, "0")
		if digits == "" {
			digits = "0"
		}
	case cam.SuppressTrailing:
		digits = strings.TrimRight(digits, "0")
		if digits == "" {
			digits = "0"
		}
	}

	if neg {
		return "-" + digits, nil
	}
	return digits, nil
}

// DecodeDecimal parses a field that already carries its own decimal point
// (Gerber %ADD modifiers, macro arguments, Excellon `;FILE_FORMAT` comment
// bodies) directly as a rational, independent of any CoordinateFormat, per
// spec.md §4.2.
func DecodeDecimal(raw string) (*big.Rat, error) {
	q := new(big.Rat)
	if _, ok := q.SetString(raw); !ok {
		return nil, fmt.Errorf("numeric: %q is not a valid decimal literal", raw)
	}
	return q, nil
}

// Float64 is a convenience wrapper for callers that only need the nearest
// float64 (used once a value leaves the exact-arithmetic boundary into
// primitive geometry).
func Float64(q *big.Rat) float64 {
	f, _ := q.Float64()
	return f
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// ParseInt is a small shared helper for plain (non-fixed-point) integer
// fields, such as D-codes, tool numbers, and macro parameter indices.
func ParseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
