package numeric

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curtacircuitos/pcb-tools/cam"
)

func fmt234() cam.CoordinateFormat {
	return cam.CoordinateFormat{IntegerDigits: 2, DecimalDigits: 4, ZeroSuppression: cam.SuppressLeading}
}

func TestDecodeLeadingSuppression(t *testing.T) {
	q, err := Decode("1000", fmt234())
	require.NoError(t, err)
	// leading suppression left-pads: "1000" -> "001000" -> int "00" dec "1000" -> 0.1
	assert.Equal(t, 0.1, Float64(q))
}

func TestDecodeTrailingSuppression(t *testing.T) {
	format := fmt234()
	format.ZeroSuppression = cam.SuppressTrailing
	q, err := Decode("1", format)
	require.NoError(t, err)
	// trailing suppression right-pads: "1" -> "100000" -> int "10" dec "0000" -> 10.0
	assert.Equal(t, 10.0, Float64(q))
}

func TestDecodeNegative(t *testing.T) {
	q, err := Decode("-500000", fmt234())
	require.NoError(t, err)
	assert.Equal(t, -50.0, Float64(q))
}

func TestDecodeOverflow(t *testing.T) {
	_, err := Decode("1234567", fmt234())
	require.Error(t, err)
	var overflow *cam.NumberOverflow
	assert.ErrorAs(t, err, &overflow)
}

func TestDecodeNoSuppressionRequiresExactWidth(t *testing.T) {
	format := fmt234()
	format.ZeroSuppression = cam.SuppressNone
	_, err := Decode("1000", format)
	require.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	format := fmt234()
	cases := []string{"000000", "123456", "999999", "000001"}
	for _, digits := range cases {
		q, err := Decode(digits, format)
		require.NoError(t, err)
		back, err := Encode(q, format)
		require.NoError(t, err)
		// re-decode the round-tripped string and compare values, since
		// leading suppression canonicalizes away redundant leading zeros.
		q2, err := Decode(back, format)
		require.NoError(t, err)
		assert.True(t, q.Cmp(q2) == 0, "round trip mismatch for %q: got %q", digits, back)
	}
}

func TestDecodeDecimal(t *testing.T) {
	q, err := DecodeDecimal("0.5")
	require.NoError(t, err)
	assert.Equal(t, 0.5, Float64(q))
}

func TestDecodeDecimalRejectsGarbage(t *testing.T) {
	_, err := DecodeDecimal("not-a-number")
	require.Error(t, err)
}

func TestParseInt(t *testing.T) {
	n, err := ParseInt(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestDecodeRejectsNonDigits(t *testing.T) {
	_, err := Decode("12a4", fmt234())
	require.Error(t, err)
}

func TestEncodeNegative(t *testing.T) {
	q := big.NewRat(-5, 1)
	s, err := Encode(q, cam.CoordinateFormat{IntegerDigits: 2, DecimalDigits: 2, ZeroSuppression: cam.SuppressLeading})
	require.NoError(t, err)
	assert.Equal(t, "-500", s)
}
