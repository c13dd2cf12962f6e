/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package ps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runProgram(t *testing.T, src string, inputs ...float64) []float64 {
	t.Helper()

	prog, err := NewPSParser([]byte(src)).Parse()
	require.NoError(t, err)

	var objects []PSObject
	for _, val := range inputs {
		objects = append(objects, MakeReal(val))
	}

	out, err := NewPSExecutor(prog).Execute(objects)
	require.NoError(t, err)

	vals, err := PSObjectArrayToFloat64Array(out)
	require.NoError(t, err)
	return vals
}

func TestArithmetic(t *testing.T) {
	testcases := []struct {
		src      string
		inputs   []float64
		expected []float64
	}{
		{"{ add }", []float64{2, 3}, []float64{5}},
		{"{ sub }", []float64{10, 4}, []float64{6}},
		{"{ mul }", []float64{2.5, 4}, []float64{10}},
		{"{ div }", []float64{1, 4}, []float64{0.25}},
		{"{ neg }", []float64{3}, []float64{-3}},
		{"{ abs }", []float64{-2}, []float64{2}},
		{"{ sqrt }", []float64{16}, []float64{4}},
		{"{ floor }", []float64{2.7}, []float64{2}},
		{"{ ceiling }", []float64{2.2}, []float64{3}},
		{"{ 2 exp }", []float64{3}, []float64{9}},
	}

	for _, tc := range testcases {
		out := runProgram(t, tc.src, tc.inputs...)
		require.Len(t, out, len(tc.expected), "program %s", tc.src)
		for i := range tc.expected {
			assert.InDelta(t, tc.expected[i], out[i], 1e-9, "program %s", tc.src)
		}
	}
}

func TestStackManipulation(t *testing.T) {
	out := runProgram(t, "{ exch }", 1, 2)
	assert.Equal(t, []float64{2, 1}, out)

	out = runProgram(t, "{ dup add }", 4)
	assert.Equal(t, []float64{8}, out)

	out = runProgram(t, "{ pop }", 1, 2)
	assert.Equal(t, []float64{1}, out)

	out = runProgram(t, "{ 2 copy }", 1, 2)
	assert.Equal(t, []float64{1, 2, 1, 2}, out)

	out = runProgram(t, "{ 1 index }", 7, 9)
	assert.Equal(t, []float64{7, 9, 7}, out)

	// 3 elements rolled by one: c a b.
	out = runProgram(t, "{ 3 1 roll }", 1, 2, 3)
	assert.Equal(t, []float64{3, 1, 2}, out)
}

func TestConditionals(t *testing.T) {
	out := runProgram(t, "{ 0.5 lt { 1 } { 2 } ifelse }", 0.3)
	assert.Equal(t, []float64{1}, out)

	out = runProgram(t, "{ 0.5 lt { 1 } { 2 } ifelse }", 0.7)
	assert.Equal(t, []float64{2}, out)

	out = runProgram(t, "{ dup 0 lt { neg } if }", -4)
	assert.Equal(t, []float64{4}, out)
}

func TestComparisonAndBoolean(t *testing.T) {
	prog, err := NewPSParser([]byte("{ 1 2 lt }")).Parse()
	require.NoError(t, err)

	out, err := NewPSExecutor(prog).Execute(nil)
	require.NoError(t, err)
	require.Len(t, out, 1)

	b, ok := out[0].(*PSBoolean)
	require.True(t, ok)
	assert.True(t, b.Val)
}

func TestDivisionByZero(t *testing.T) {
	prog, err := NewPSParser([]byte("{ div }")).Parse()
	require.NoError(t, err)

	_, err = NewPSExecutor(prog).Execute([]PSObject{MakeReal(1), MakeReal(0)})
	assert.ErrorIs(t, err, ErrUndefinedResult)
}

func TestTintTransformShape(t *testing.T) {
	// The tint transform shape: one input duplicated into two outputs.
	out := runProgram(t, "{ dup 0.5 mul exch 0.25 mul }", 0.8)
	require.Len(t, out, 2)
	assert.InDelta(t, 0.4, out[0], 1e-9)
	assert.InDelta(t, 0.2, out[1], 1e-9)
}
