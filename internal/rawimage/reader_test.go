/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package rawimage

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoPredictor(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6}
	reader, err := NewReader(data, Params{Columns: 3, Colors: 1, BitsPerComponent: 8})
	require.NoError(t, err)

	row, err := reader.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, row)

	row, err = reader.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 5, 6}, row)

	_, err = reader.ReadRow()
	assert.Equal(t, io.EOF, err)
}

func TestTIFFPredictorRGB8(t *testing.T) {
	// 4 pixels, 3 colors, 8 bpc: deltas against the pixel to the left.
	encoded := []byte{10, 20, 30, 1, 2, 3, 0, 0, 0, 5, 5, 5}
	reader, err := NewReader(encoded, Params{Predictor: 2, Columns: 4, Colors: 3, BitsPerComponent: 8})
	require.NoError(t, err)

	row, err := reader.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 20, 30, 11, 22, 33, 11, 22, 33, 16, 27, 38}, row)
}

func TestTIFFPredictor16bpc(t *testing.T) {
	// 2 pixels, 1 color, 16 bpc: second sample is a delta.
	encoded := []byte{0x01, 0x00, 0x00, 0x10}
	reader, err := NewReader(encoded, Params{Predictor: 2, Columns: 2, Colors: 1, BitsPerComponent: 16})
	require.NoError(t, err)

	row, err := reader.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00, 0x01, 0x10}, row)
}

func TestPNGSubFilter(t *testing.T) {
	// Filter byte 1 (Sub) with bytesPerPixel=1.
	encoded := []byte{1, 5, 2, 3, 4}
	reader, err := NewReader(encoded, Params{Predictor: 11, Columns: 4, Colors: 1, BitsPerComponent: 8})
	require.NoError(t, err)

	row, err := reader.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 7, 10, 14}, row)
}

func TestPNGUpFilter(t *testing.T) {
	encoded := []byte{
		0, 10, 20, 30, // None
		2, 1, 1, 1, // Up
	}
	reader, err := NewReader(encoded, Params{Predictor: 12, Columns: 3, Colors: 1, BitsPerComponent: 8})
	require.NoError(t, err)

	row, err := reader.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 20, 30}, row)

	row, err = reader.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, []byte{11, 21, 31}, row)
}

func TestPNGAverageFilter(t *testing.T) {
	encoded := []byte{
		0, 10, 20, // None
		3, 10, 10, // Average
	}
	reader, err := NewReader(encoded, Params{Predictor: 13, Columns: 2, Colors: 1, BitsPerComponent: 8})
	require.NoError(t, err)

	_, err = reader.ReadRow()
	require.NoError(t, err)

	row, err := reader.ReadRow()
	require.NoError(t, err)
	// First: (0+10)/2 + 10 = 15. Second: (15+20)/2 + 10 = 27.
	assert.Equal(t, []byte{15, 27}, row)
}

func TestPNGPaethFilter(t *testing.T) {
	encoded := []byte{
		0, 10, 20, // None
		4, 5, 5, // Paeth
	}
	reader, err := NewReader(encoded, Params{Predictor: 14, Columns: 2, Colors: 1, BitsPerComponent: 8})
	require.NoError(t, err)

	_, err = reader.ReadRow()
	require.NoError(t, err)

	row, err := reader.ReadRow()
	require.NoError(t, err)
	// First: paeth(0,10,0)=10 -> 15. Second: paeth(15,20,10)=20 -> 25.
	assert.Equal(t, []byte{15, 25}, row)
}

func TestSubBytePredictorRowLength(t *testing.T) {
	// 1 bpc, 10 columns: rows pack into 2 bytes.
	data := []byte{0xff, 0xc0, 0x00, 0x00}
	reader, err := NewReader(data, Params{Columns: 10, Colors: 1, BitsPerComponent: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, reader.RowLength())

	row, err := reader.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xc0}, row)
}

func TestUnsupportedPredictor(t *testing.T) {
	_, err := NewReader(nil, Params{Predictor: 5, Columns: 1})
	assert.Error(t, err)
}
