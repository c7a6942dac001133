package gerber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curtacircuitos/pcb-tools/cam"
)

func TestParseMacroBodySimpleCircle(t *testing.T) {
	def, err := ParseMacroBody("CIRC", []string{"1,1,0.5,0,0,0"})
	require.NoError(t, err)
	require.Len(t, def.Primitives, 1)
	assert.Equal(t, cam.MacroCircle, def.Primitives[0].Kind)
}

func TestEvaluateCircleResolvesFieldsAndExposure(t *testing.T) {
	def, err := ParseMacroBody("CIRC", []string{"1,1,$1,0,0,0"})
	require.NoError(t, err)
	assert.Equal(t, 1, def.Arity)

	out, err := Evaluate(def, []float64{0.6})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, cam.ExposureAdd, out[0].Exposure)
	assert.Equal(t, []float64{0.6, 0, 0, 0}, out[0].Values)
}

func TestEvaluateSubtractExposure(t *testing.T) {
	def, err := ParseMacroBody("CIRC", []string{"1,0,0.5,0,0,0"})
	require.NoError(t, err)
	out, err := Evaluate(def, nil)
	require.NoError(t, err)
	assert.Equal(t, cam.ExposureSubtract, out[0].Exposure)
}

func TestEvaluateAssignmentsResolveBeforePrimitives(t *testing.T) {
	def, err := ParseMacroBody("CIRC", []string{"$2=$1x2", "1,1,$2,0,0,0"})
	require.NoError(t, err)
	out, err := Evaluate(def, []float64{0.25})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []float64{0.5, 0, 0, 0}, out[0].Values)
}

func TestEvaluateOutlineExtractsPoints(t *testing.T) {
	def, err := ParseMacroBody("OUT", []string{"4,1,3,0,0,10,0,10,10,0"})
	require.NoError(t, err)
	out, err := Evaluate(def, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, out[0].Points, 3)
	assert.Equal(t, cam.Point{X: 0, Y: 0}, out[0].Points[0])
	assert.Equal(t, cam.Point{X: 10, Y: 0}, out[0].Points[1])
	assert.Equal(t, cam.Point{X: 10, Y: 10}, out[0].Points[2])
}

func TestParseMacroBodyUnknownPrimitiveCode(t *testing.T) {
	_, err := ParseMacroBody("BAD", []string{"99,1,0.5,0,0,0"})
	require.Error(t, err)
	var up *cam.UnknownMacroPrimitive
	assert.ErrorAs(t, err, &up)
}

func TestParseMacroBodySkipsComments(t *testing.T) {
	def, err := ParseMacroBody("C", []string{"0 this is a comment", "1,1,0.5,0,0,0"})
	require.NoError(t, err)
	require.Len(t, def.Primitives, 1)
}

func TestExpressionPrecedenceAndParens(t *testing.T) {
	e, err := parseExpr("2+3x4")
	require.NoError(t, err)
	assert.Equal(t, 14.0, e.Eval(nil))

	e2, err := parseExpr("(2+3)x4")
	require.NoError(t, err)
	assert.Equal(t, 20.0, e2.Eval(nil))
}

func TestExpressionUnaryMinus(t *testing.T) {
	e, err := parseExpr("-$1")
	require.NoError(t, err)
	assert.Equal(t, -2.0, e.Eval(map[int]float64{1: 2}))
}
