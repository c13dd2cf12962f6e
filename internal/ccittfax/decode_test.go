/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package ccittfax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestG4WhiteRow(t *testing.T) {
	// 8x1 all-white row in Group 4: a single V0 bit (the coding line
	// matches the imaginary white reference line) followed by EOFB.
	// Bits: 1 000000000001 000000000001.
	encoded := []byte{0x80, 0x08, 0x00, 0x80}

	decoder := &Decoder{K: -1, Columns: 8, Rows: 1}
	packed, err := decoder.DecodePacked(encoded)
	require.NoError(t, err)
	require.Len(t, packed, 1)
	assert.Equal(t, byte(0xFF), packed[0])
}

func TestG4WhiteRowBlackIs1(t *testing.T) {
	encoded := []byte{0x80, 0x08, 0x00, 0x80}

	decoder := &Decoder{K: -1, Columns: 8, Rows: 1, BlackIs1: true}
	packed, err := decoder.DecodePacked(encoded)
	require.NoError(t, err)
	require.Len(t, packed, 1)
	// With BlackIs1 white pixels decode to 0.
	assert.Equal(t, byte(0x00), packed[0])
}

func TestG4HorizontalRun(t *testing.T) {
	// 8x1 row of 4 white and 4 black pixels: H mode with white run 4
	// (1011) and black run 4 (011) completes the row.
	// Bits: 001 1011 011 then EOFB.
	var bits []byte
	appendBits := func(s string) {
		for _, c := range s {
			bits = append(bits, byte(c-'0'))
		}
	}
	appendBits("001")  // H
	appendBits("1011") // white 4
	appendBits("011")  // black 4
	appendBits("000000000001000000000001") // EOFB

	encoded := packBits(bits)

	decoder := &Decoder{K: -1, Columns: 8, Rows: 1}
	rows, err := decoder.Decode(encoded)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.GreaterOrEqual(t, len(rows[0]), 8)

	for i := 0; i < 4; i++ {
		assert.Equal(t, byte(1), rows[0][i], "pixel %d should be white", i)
	}
	for i := 4; i < 8; i++ {
		assert.Equal(t, byte(0), rows[0][i], "pixel %d should be black", i)
	}
}

func TestG31DWhiteRow(t *testing.T) {
	// Group 3 1-D: white run length 8 has terminating code 10011.
	var bits []byte
	for _, c := range "10011" {
		bits = append(bits, byte(c-'0'))
	}
	encoded := packBits(bits)

	decoder := &Decoder{K: 0, Columns: 8, Rows: 1}
	rows, err := decoder.Decode(encoded)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	require.GreaterOrEqual(t, len(rows[0]), 8)
	for i := 0; i < 8; i++ {
		assert.Equal(t, byte(1), rows[0][i])
	}
}

func packBits(bits []byte) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit != 0 {
			out[i/8] |= 0x80 >> uint(i%8)
		}
	}
	return out
}
