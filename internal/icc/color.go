/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package icc

import (
	"math"
	"sync"
)

// WhitePointD50 is the ICC profile connection space illuminant.
var WhitePointD50 = [3]float64{0.9642, 1.0, 0.8249}

// bradfordD50ToD65 adapts PCS XYZ to the sRGB D65 reference white.
var bradfordD50ToD65 = [3][3]float64{
	{0.9555766, -0.0230393, 0.0631636},
	{-0.0282895, 1.0099416, 0.0210077},
	{0.0122982, -0.0204830, 1.3299098},
}

// xyzD65ToLinearSRGB is the standard XYZ(D65) to linear sRGB matrix.
var xyzD65ToLinearSRGB = [3][3]float64{
	{3.2404542, -1.5371385, -0.4985314},
	{-0.9692660, 1.8760108, 0.0415560},
	{0.0556434, -0.2040259, 1.0572252},
}

// MulMatrixVec multiplies a 3x3 matrix by a vector.
func MulMatrixVec(m [3][3]float64, v [3]float64) [3]float64 {
	return [3]float64{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// DecodePCSXYZ maps normalized pipeline outputs to PCS XYZ using the 16 bit
// ICC XYZ encoding (u1Fixed15).
func DecodePCSXYZ(vals []float64) [3]float64 {
	const scale = 65535.0 / 32768.0
	var xyz [3]float64
	for i := 0; i < 3 && i < len(vals); i++ {
		xyz[i] = vals[i] * scale
	}
	return xyz
}

// DecodePCSLab maps normalized pipeline outputs to PCS Lab using the legacy
// 16 bit Lab encoding.
func DecodePCSLab(vals []float64) [3]float64 {
	var lab [3]float64
	if len(vals) > 0 {
		lab[0] = vals[0] * 100.0
	}
	if len(vals) > 1 {
		lab[1] = vals[1]*255.0 - 128.0
	}
	if len(vals) > 2 {
		lab[2] = vals[2]*255.0 - 128.0
	}
	return lab
}

// LabToXYZ converts a D50-referenced Lab color to XYZ.
func LabToXYZ(l, a, b float64, whitePoint [3]float64) [3]float64 {
	fy := (l + 16.0) / 116.0
	fx := fy + a/500.0
	fz := fy - b/200.0

	finv := func(t float64) float64 {
		if t > 6.0/29.0 {
			return t * t * t
		}
		return 3.0 * (6.0 / 29.0) * (6.0 / 29.0) * (t - 4.0/29.0)
	}

	return [3]float64{
		whitePoint[0] * finv(fx),
		whitePoint[1] * finv(fy),
		whitePoint[2] * finv(fz),
	}
}

// XYZToLabL returns the CIE L* of an XYZ color against `whitePoint`.
func XYZToLabL(xyz, whitePoint [3]float64) float64 {
	t := xyz[1] / whitePoint[1]
	if t > 216.0/24389.0 {
		return 116.0*math.Cbrt(t) - 16.0
	}
	return 24389.0 / 27.0 * t
}

// XYZD50ToSRGBLinear converts PCS XYZ (D50) to linear sRGB components.
// Outputs are clamped to [0,1].
func XYZD50ToSRGBLinear(xyz [3]float64) [3]float64 {
	d65 := MulMatrixVec(bradfordD50ToD65, xyz)
	rgb := MulMatrixVec(xyzD65ToLinearSRGB, d65)
	for i := range rgb {
		if rgb[i] < 0 {
			rgb[i] = 0
		} else if rgb[i] > 1 {
			rgb[i] = 1
		}
	}
	return rgb
}

const compandLUTSize = 2048

var (
	compandOnce sync.Once
	compandLUT  [compandLUTSize]float64
)

func initCompandLUT() {
	for i := range compandLUT {
		compandLUT[i] = srgbCompandExact(float64(i) / float64(compandLUTSize-1))
	}
}

func srgbCompandExact(v float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1.0/2.4) - 0.055
}

// SRGBCompand applies the standard sRGB piecewise companding curve using a
// precomputed table.
func SRGBCompand(v float64) float64 {
	compandOnce.Do(initCompandLUT)
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 1
	}
	return compandLUT[int(v*float64(compandLUTSize-1)+0.5)]
}

// CompensateBlackPoint rescales L* so that the profile's black point maps to
// zero. It applies only when the black point is usable: L* strictly between
// 0 and 50.
func CompensateBlackPoint(l float64, blackPoint [3]float64) float64 {
	lbp := XYZToLabL(blackPoint, WhitePointD50)
	if lbp <= 0 || lbp >= 50 {
		return l
	}
	out := (l - lbp) * 100.0 / (100.0 - lbp)
	if out < 0 {
		out = 0
	}
	return out
}
