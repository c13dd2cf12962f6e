/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixTransform(t *testing.T) {
	m := NewMatrix(2, 0, 0, 2, 10, 20)
	x, y := m.Transform(1, 1)
	assert.InDelta(t, 12.0, x, 1e-9)
	assert.InDelta(t, 22.0, y, 1e-9)
}

func TestMatrixConcatOrder(t *testing.T) {
	// Concat premultiplies: translate then scale through the receiver.
	m := NewMatrix(2, 0, 0, 2, 0, 0)
	m.Concat(TranslationMatrix(5, 0))

	x, y := m.Transform(0, 0)
	assert.InDelta(t, 10.0, x, 1e-9)
	assert.InDelta(t, 0.0, y, 1e-9)
}

func TestMatrixInverse(t *testing.T) {
	m := NewMatrix(2, 0, 0, 4, 10, 20)
	inv, ok := m.Inverse()
	assert.True(t, ok)

	x, y := m.Transform(3, 7)
	bx, by := inv.Transform(x, y)
	assert.InDelta(t, 3.0, bx, 1e-9)
	assert.InDelta(t, 7.0, by, 1e-9)

	// Degenerate matrices have no inverse.
	_, ok = NewMatrix(0, 0, 0, 0, 0, 0).Inverse()
	assert.False(t, ok)
}

func TestMatrixScalingFactors(t *testing.T) {
	m := NewMatrix(3, 0, 0, 4, 0, 0)
	assert.InDelta(t, 3.0, m.ScalingFactorX(), 1e-9)
	assert.InDelta(t, 4.0, m.ScalingFactorY(), 1e-9)

	assert.True(t, IdentityMatrix().Identity())
	assert.False(t, m.Identity())
}

func TestPointInterpolate(t *testing.T) {
	a := NewPoint(0, 0)
	b := NewPoint(10, 20)
	mid := a.Interpolate(b, 0.5)
	assert.InDelta(t, 5.0, mid.X, 1e-9)
	assert.InDelta(t, 10.0, mid.Y, 1e-9)
}
