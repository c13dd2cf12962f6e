/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package jpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDCTFlatBlock(t *testing.T) {
	// A DC-only block inverse transforms to a flat field of DC/8.
	var block [blockSize]int32
	block[0] = 800

	idct(&block)

	first := block[0]
	assert.InDelta(t, 100, float64(first), 1.0)
	for i := 1; i < blockSize; i++ {
		assert.Equal(t, first, block[i], "IDCT of DC-only block must be flat (index %d)", i)
	}
}

func TestHuffmanDecode(t *testing.T) {
	// Canonical table with code lengths 1,2,2: symbol 5 coded as "0",
	// symbols 6 and 7 as "10" and "11".
	var counts [16]int
	counts[0] = 1 // one 1-bit code
	counts[1] = 2 // two 2-bit codes
	table, err := newHuffTable(counts, []byte{5, 6, 7})
	require.NoError(t, err)

	// Bit stream: 0 10 11 -> 0b01011000.
	r := newBitReader([]byte{0x58}, 0)

	sym, err := r.decodeHuffman(table)
	require.NoError(t, err)
	assert.Equal(t, byte(5), sym)

	sym, err = r.decodeHuffman(table)
	require.NoError(t, err)
	assert.Equal(t, byte(6), sym)

	sym, err = r.decodeHuffman(table)
	require.NoError(t, err)
	assert.Equal(t, byte(7), sym)
}

func TestReceiveExtend(t *testing.T) {
	// EXTEND: a 3-bit value with the high bit set (0b111) stays positive;
	// 0b011 with the high bit clear maps to the negative range.
	r := newBitReader([]byte{0b01110000}, 0)
	v := r.receiveExtend(3)
	// 011 = 3 < 4: negative branch: 3 - 7 = -4.
	assert.Equal(t, int32(-4), v)

	r = newBitReader([]byte{0b11100000}, 0)
	v = r.receiveExtend(3)
	// 111 = 7 >= 4: positive.
	assert.Equal(t, int32(7), v)
}

func TestByteStuffingInBitReader(t *testing.T) {
	// 0xFF00 decodes as a literal 0xFF data byte.
	r := newBitReader([]byte{0xff, 0x00, 0x80}, 0)
	v := r.readBits(8)
	assert.Equal(t, int32(0xff), v)
	v = r.readBits(8)
	assert.Equal(t, int32(0x80), v)
}

func TestHeaderParseRejectsGarbage(t *testing.T) {
	_, err := NewDecoder([]byte{0x00, 0x01, 0x02})
	require.Error(t, err)

	_, err = NewDecoder([]byte{0xff, 0xd8, 0xff, 0xd9})
	require.Error(t, err, "EOI before SOS must fail")
}

func TestICCChunkAssembly(t *testing.T) {
	d := &Decoder{}

	prefix := []byte("ICC_PROFILE\x00")
	chunk1 := append(append([]byte{}, prefix...), 1, 2)
	chunk1 = append(chunk1, []byte("AB")...)
	chunk2 := append(append([]byte{}, prefix...), 2, 2)
	chunk2 = append(chunk2, []byte("CD")...)

	d.collectICC(chunk1)
	assert.Nil(t, d.ICCProfile)
	d.collectICC(chunk2)
	assert.Equal(t, []byte("ABCD"), d.ICCProfile)
}
