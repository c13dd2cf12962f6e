/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package icc

import (
	"math"
)

// CLUT is a multi-dimensional color lookup table. Samples are flattened with
// the innermost axis being the LAST input component; the innermost stride is
// the output channel count.
type CLUT struct {
	GridPoints  []int // per input dimension
	InChannels  int
	OutChannels int
	Samples     []float64 // normalized to [0,1]
}

// Evaluate performs multi-linear interpolation over the table.
func (c *CLUT) Evaluate(in []float64) []float64 {
	n := c.InChannels
	out := make([]float64, c.OutChannels)
	if n == 0 || len(in) < n {
		return out
	}

	// Per-dimension integer and fractional positions.
	i0 := make([]int, n)
	frac := make([]float64, n)
	for d := 0; d < n; d++ {
		g := c.GridPoints[d]
		pos := in[d] * float64(g-1)
		if pos < 0 {
			pos = 0
		}
		if pos > float64(g-1) {
			pos = float64(g - 1)
		}
		i0[d] = int(math.Floor(pos))
		frac[d] = pos - float64(i0[d])
	}

	// Strides: innermost dimension (the last input component) moves by
	// OutChannels; each outer stride multiplies by the inner grid count.
	strides := make([]int, n)
	stride := c.OutChannels
	for d := n - 1; d >= 0; d-- {
		strides[d] = stride
		stride *= c.GridPoints[d]
	}

	// Sum over the 2^N hypercube corners.
	corners := 1 << uint(n)
	for corner := 0; corner < corners; corner++ {
		weight := 1.0
		offset := 0
		skip := false
		for d := 0; d < n; d++ {
			bit := (corner >> uint(d)) & 1
			idx := i0[d] + bit
			if idx >= c.GridPoints[d] {
				// Out-of-range corners contribute zero.
				skip = true
				break
			}
			if bit == 1 {
				weight *= frac[d]
			} else {
				weight *= 1 - frac[d]
			}
			offset += idx * strides[d]
		}
		if skip || weight == 0 {
			continue
		}
		for ch := 0; ch < c.OutChannels; ch++ {
			out[ch] += weight * c.Samples[offset+ch]
		}
	}
	return out
}
