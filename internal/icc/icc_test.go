/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package icc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGammaTRCBoundsAndMonotonicity(t *testing.T) {
	for _, gamma := range []float64{0.45, 1.0, 1.8, 2.2, 3.0} {
		curve := NewGammaCurve(gamma)

		assert.InDelta(t, 0.0, curve.Evaluate(0), 1e-12)
		assert.InDelta(t, 1.0, curve.Evaluate(1), 1e-12)

		// Monotone non-decreasing over a 2049-point sweep.
		prev := curve.Evaluate(0)
		for i := 1; i <= 2048; i++ {
			x := float64(i) / 2048.0
			y := curve.Evaluate(x)
			assert.GreaterOrEqual(t, y+1e-12, prev, "gamma %v not monotone at %v", gamma, x)
			prev = y
		}
	}
}

func TestSampledCurveInterpolation(t *testing.T) {
	curve := NewSampledCurve([]float64{0, 0.5, 1.0})

	assert.InDelta(t, 0.0, curve.Evaluate(0), 1e-12)
	assert.InDelta(t, 1.0, curve.Evaluate(1), 1e-12)
	assert.InDelta(t, 0.5, curve.Evaluate(0.5), 1e-12)
	assert.InDelta(t, 0.25, curve.Evaluate(0.25), 1e-12)

	// Out-of-range positions clamp to the end samples.
	assert.InDelta(t, 0.0, curve.Evaluate(-1), 1e-12)
	assert.InDelta(t, 1.0, curve.Evaluate(2), 1e-12)

	// Empty sample set behaves as identity.
	empty := NewSampledCurve(nil)
	assert.InDelta(t, 0.3, empty.Evaluate(0.3), 1e-12)
}

func TestParametricCurves(t *testing.T) {
	// Type 0: plain power.
	c := &Curve{Kind: CurveParametric, FuncType: 0, Params: []float64{2.0}}
	assert.InDelta(t, 0.25, c.Evaluate(0.5), 1e-12)

	// Type 1: below the breakpoint -b/a the output is zero.
	c = &Curve{Kind: CurveParametric, FuncType: 1, Params: []float64{1.0, 2.0, -0.5}}
	assert.InDelta(t, 0.0, c.Evaluate(0.1), 1e-12)
	assert.InDelta(t, 0.5, c.Evaluate(0.5), 1e-12)

	// Type 2: below the breakpoint the output is c.
	c = &Curve{Kind: CurveParametric, FuncType: 2, Params: []float64{1.0, 2.0, -0.5, 0.1}}
	assert.InDelta(t, 0.1, c.Evaluate(0.1), 1e-12)
	assert.InDelta(t, 0.6, c.Evaluate(0.5), 1e-12)

	// Type 3: sRGB-style two-piece curve.
	c = &Curve{Kind: CurveParametric, FuncType: 3, Params: []float64{2.4, 1.0 / 1.055, 0.055 / 1.055, 1.0 / 12.92, 0.04045}}
	assert.InDelta(t, 0.01/12.92, c.Evaluate(0.01), 1e-9)
	assert.Greater(t, c.Evaluate(0.5), 0.2)

	// Type 4: linear segment with offset below d.
	c = &Curve{Kind: CurveParametric, FuncType: 4, Params: []float64{1.0, 1.0, 0.0, 2.0, 0.5, 0.25, 0.1}}
	assert.InDelta(t, 2.0*0.2+0.1, c.Evaluate(0.2), 1e-12)
	assert.InDelta(t, 0.75+0.25, c.Evaluate(0.75), 1e-12)
}

func TestCLUTGridPointExactness(t *testing.T) {
	// A 2x2x2 RGB identity-corner cube: querying exact grid points returns
	// the stored samples.
	clut := &CLUT{
		GridPoints:  []int{2, 2, 2},
		InChannels:  3,
		OutChannels: 3,
	}
	// Flattened with the innermost axis = last input component.
	for _, corner := range [][3]float64{
		{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1},
		{1, 0, 0}, {1, 0, 1}, {1, 1, 0}, {1, 1, 1},
	} {
		clut.Samples = append(clut.Samples, corner[0], corner[1], corner[2])
	}

	for _, in := range [][3]float64{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}, {1, 0, 1},
	} {
		out := clut.Evaluate(in[:])
		require.Len(t, out, 3)
		assert.InDelta(t, in[0], out[0], 1e-9)
		assert.InDelta(t, in[1], out[1], 1e-9)
		assert.InDelta(t, in[2], out[2], 1e-9)
	}

	// Midpoint interpolates linearly.
	out := clut.Evaluate([]float64{0.5, 0.5, 0.5})
	for ch := 0; ch < 3; ch++ {
		assert.InDelta(t, 0.5, out[ch], 1e-9)
	}
}

func TestCLUTOneDimensional(t *testing.T) {
	clut := &CLUT{
		GridPoints:  []int{3},
		InChannels:  1,
		OutChannels: 1,
		Samples:     []float64{0, 0.25, 1.0},
	}

	assert.InDelta(t, 0.0, clut.Evaluate([]float64{0})[0], 1e-9)
	assert.InDelta(t, 0.25, clut.Evaluate([]float64{0.5})[0], 1e-9)
	assert.InDelta(t, 1.0, clut.Evaluate([]float64{1})[0], 1e-9)
	assert.InDelta(t, 0.125, clut.Evaluate([]float64{0.25})[0], 1e-9)
}

func TestPipelineIntentFallback(t *testing.T) {
	perceptual := &Pipeline{}
	colorimetric := &Pipeline{}

	p := &Profile{}
	p.A2B[0] = perceptual
	p.A2B[1] = colorimetric

	assert.Same(t, perceptual, p.PipelineForIntent(IntentPerceptual))
	assert.Same(t, colorimetric, p.PipelineForIntent(IntentRelativeColorimetric))
	assert.Same(t, colorimetric, p.PipelineForIntent(IntentAbsoluteColorimetric))
	// Saturation falls back to perceptual when A2B2 is absent.
	assert.Same(t, perceptual, p.PipelineForIntent(IntentSaturation))

	empty := &Profile{}
	assert.Nil(t, empty.PipelineForIntent(IntentPerceptual))
}

func TestSRGBCompanding(t *testing.T) {
	assert.InDelta(t, 0.0, SRGBCompand(0), 1e-9)
	assert.InDelta(t, 1.0, SRGBCompand(1), 1e-9)
	// The linear segment of the piecewise curve.
	assert.InDelta(t, 12.92*0.002, SRGBCompand(0.002), 1e-3)
	// Midtone against the exact formula, within LUT resolution.
	assert.InDelta(t, srgbCompandExact(0.5), SRGBCompand(0.5), 1e-3)
}

func TestBlackPointCompensation(t *testing.T) {
	// A black point of zero leaves L* untouched.
	assert.InDelta(t, 50.0, CompensateBlackPoint(50, [3]float64{0, 0, 0}), 1e-9)

	// A usable black point maps its own L* to zero and the white end stays.
	bp := [3]float64{0.01, 0.01, 0.008}
	lbp := XYZToLabL(bp, WhitePointD50)
	require.Greater(t, lbp, 0.0)
	require.Less(t, lbp, 50.0)

	assert.InDelta(t, 0.0, CompensateBlackPoint(lbp, bp), 1e-9)
	assert.InDelta(t, 100.0, CompensateBlackPoint(100, bp), 1e-9)
}

func TestLabToXYZWhite(t *testing.T) {
	xyz := LabToXYZ(100, 0, 0, WhitePointD50)
	assert.InDelta(t, WhitePointD50[0], xyz[0], 1e-6)
	assert.InDelta(t, WhitePointD50[1], xyz[1], 1e-6)
	assert.InDelta(t, WhitePointD50[2], xyz[2], 1e-6)

	rgb := XYZD50ToSRGBLinear(xyz)
	for _, ch := range rgb {
		assert.InDelta(t, 1.0, ch, 0.01)
	}
}
