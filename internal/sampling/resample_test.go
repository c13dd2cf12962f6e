/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package sampling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResampleBytes8(t *testing.T) {
	samples := ResampleBytes([]byte{0, 128, 255}, 8)
	assert.Equal(t, []uint32{0, 128, 255}, samples)
}

func TestResampleBytes4(t *testing.T) {
	samples := ResampleBytes([]byte{0xab, 0xcd}, 4)
	assert.Equal(t, []uint32{0xa, 0xb, 0xc, 0xd}, samples)
}

func TestResampleBytes1(t *testing.T) {
	samples := ResampleBytes([]byte{0xa0}, 1)
	assert.Equal(t, []uint32{1, 0, 1, 0, 0, 0, 0, 0}, samples)
}

func TestResampleBytes12(t *testing.T) {
	// Two 12-bit samples packed into three bytes.
	samples := ResampleBytes([]byte{0xab, 0xcd, 0xef}, 12)
	assert.Equal(t, []uint32{0xabc, 0xdef}, samples)
}

func TestResampleBytes16(t *testing.T) {
	samples := ResampleBytes([]byte{0x01, 0x00, 0x10, 0x20}, 16)
	assert.Equal(t, []uint32{0x0100, 0x1020}, samples)
}
