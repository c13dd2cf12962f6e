/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package jpeg implements a row-oriented baseline and progressive JPEG
// decoder for the DCTDecode stream filter. The decoder parses the header
// eagerly, exposes the declared geometry and any embedded ICC profile, and
// emits interleaved rows in the declared device space: YCbCr converts to
// RGB, YCCK to CMYK, grayscale passes through, and CMYK passes through except
// that Adobe-marked CMYK is inverted.
package jpeg

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/xerrors"

	"github.com/pdfrast/pdfrast/common"
)

// Markers.
const (
	markerSOI  = 0xd8
	markerEOI  = 0xd9
	markerSOF0 = 0xc0 // baseline
	markerSOF1 = 0xc1 // extended sequential
	markerSOF2 = 0xc2 // progressive
	markerDHT  = 0xc4
	markerDQT  = 0xdb
	markerDRI  = 0xdd
	markerSOS  = 0xda
	markerRST0 = 0xd0
	markerRST7 = 0xd7
	markerAPP0 = 0xe0
	markerAPP2 = 0xe2
	markerAPP14 = 0xee
	markerCOM  = 0xfe
)

const (
	maxComponents = 4
	blockSize     = 64
)

type component struct {
	id int
	h  int // horizontal sampling factor
	v  int // vertical sampling factor
	tq int // quantization table index

	td int // DC huffman table index (current scan)
	ta int // AC huffman table index (current scan)

	// plane geometry in blocks.
	blocksPerLine int
	blocksPerCol  int

	coeffs []int32 // full coefficient buffer (progressive + baseline)
	plane  []byte  // decoded samples at component resolution
	dcPred int32
	eobRun int
}

// Decoder decodes one JPEG stream.
type Decoder struct {
	data []byte
	pos  int

	Width         int
	Height        int
	NumComponents int

	// ICCProfile holds the profile assembled from APP2 chunks, nil if absent.
	ICCProfile []byte

	progressive   bool
	restartIntval int
	adobe         bool
	adobeTransform int

	comps  [maxComponents]*component
	nComp  int
	quant  [4][blockSize]uint16
	huffDC [4]*huffTable
	huffAC [4]*huffTable

	mcusPerLine int
	mcusPerCol  int
	hMax, vMax  int

	decoded bool
	row     int

	iccChunks map[int][]byte
	iccTotal  int
}

// NewDecoder parses the JPEG header of `data` up to the first scan.
func NewDecoder(data []byte) (*Decoder, error) {
	d := &Decoder{data: data}
	if err := d.parseHeader(); err != nil {
		return nil, err
	}
	return d, nil
}

// IsProgressive reports whether the stream uses progressive coding.
func (d *Decoder) IsProgressive() bool {
	return d.progressive
}

// AdobeTransform returns the APP14 transform flag (-1 when absent).
func (d *Decoder) AdobeTransform() int {
	if !d.adobe {
		return -1
	}
	return d.adobeTransform
}

func (d *Decoder) parseHeader() error {
	if len(d.data) < 2 || d.data[0] != 0xff || d.data[1] != markerSOI {
		return xerrors.New("jpeg: missing SOI marker")
	}
	d.pos = 2

	for {
		marker, err := d.nextMarker()
		if err != nil {
			return err
		}

		switch {
		case marker == markerSOF0 || marker == markerSOF1 || marker == markerSOF2:
			d.progressive = marker == markerSOF2
			if err := d.parseSOF(); err != nil {
				return err
			}
		case marker == markerDQT:
			if err := d.parseDQT(); err != nil {
				return err
			}
		case marker == markerDHT:
			if err := d.parseDHT(); err != nil {
				return err
			}
		case marker == markerDRI:
			seg, err := d.segment()
			if err != nil {
				return err
			}
			if len(seg) >= 2 {
				d.restartIntval = int(binary.BigEndian.Uint16(seg))
			}
		case marker == markerAPP2:
			seg, err := d.segment()
			if err != nil {
				return err
			}
			d.collectICC(seg)
		case marker == markerAPP14:
			seg, err := d.segment()
			if err != nil {
				return err
			}
			if len(seg) >= 12 && bytes.HasPrefix(seg, []byte("Adobe")) {
				d.adobe = true
				d.adobeTransform = int(seg[11])
			}
		case marker == markerSOS:
			// Header done; scans are consumed by decode.
			d.pos -= 2
			if d.nComp == 0 {
				return xerrors.New("jpeg: SOS before SOF")
			}
			return nil
		case marker == markerEOI:
			return xerrors.New("jpeg: EOI before SOS")
		default:
			if _, err := d.segment(); err != nil {
				return err
			}
		}
	}
}

func (d *Decoder) nextMarker() (byte, error) {
	for d.pos < len(d.data) && d.data[d.pos] != 0xff {
		d.pos++
	}
	for d.pos < len(d.data) && d.data[d.pos] == 0xff {
		d.pos++
	}
	if d.pos >= len(d.data) {
		return 0, xerrors.New("jpeg: unexpected end of data")
	}
	marker := d.data[d.pos]
	d.pos++
	return marker, nil
}

func (d *Decoder) segment() ([]byte, error) {
	if d.pos+2 > len(d.data) {
		return nil, xerrors.New("jpeg: truncated segment")
	}
	length := int(binary.BigEndian.Uint16(d.data[d.pos:]))
	if length < 2 || d.pos+length > len(d.data) {
		return nil, xerrors.New("jpeg: bad segment length")
	}
	seg := d.data[d.pos+2 : d.pos+length]
	d.pos += length
	return seg, nil
}

func (d *Decoder) parseSOF() error {
	seg, err := d.segment()
	if err != nil {
		return err
	}
	if len(seg) < 6 {
		return xerrors.New("jpeg: short SOF")
	}
	precision := int(seg[0])
	if precision != 8 {
		return xerrors.Errorf("jpeg: unsupported precision %d", precision)
	}
	d.Height = int(binary.BigEndian.Uint16(seg[1:]))
	d.Width = int(binary.BigEndian.Uint16(seg[3:]))
	d.nComp = int(seg[5])
	if d.nComp != 1 && d.nComp != 3 && d.nComp != 4 {
		return xerrors.Errorf("jpeg: unsupported component count %d", d.nComp)
	}
	if len(seg) < 6+3*d.nComp {
		return xerrors.New("jpeg: short SOF")
	}
	d.NumComponents = d.nComp

	d.hMax, d.vMax = 1, 1
	for i := 0; i < d.nComp; i++ {
		c := &component{
			id: int(seg[6+3*i]),
			h:  int(seg[7+3*i] >> 4),
			v:  int(seg[7+3*i] & 0x0f),
			tq: int(seg[8+3*i]),
		}
		if c.h < 1 || c.h > 4 || c.v < 1 || c.v > 4 || c.tq > 3 {
			return xerrors.New("jpeg: bad SOF component")
		}
		if c.h > d.hMax {
			d.hMax = c.h
		}
		if c.v > d.vMax {
			d.vMax = c.v
		}
		d.comps[i] = c
	}

	d.mcusPerLine = (d.Width + 8*d.hMax - 1) / (8 * d.hMax)
	d.mcusPerCol = (d.Height + 8*d.vMax - 1) / (8 * d.vMax)
	for i := 0; i < d.nComp; i++ {
		c := d.comps[i]
		c.blocksPerLine = d.mcusPerLine * c.h
		c.blocksPerCol = d.mcusPerCol * c.v
		c.coeffs = make([]int32, c.blocksPerLine*c.blocksPerCol*blockSize)
	}
	return nil
}

func (d *Decoder) parseDQT() error {
	seg, err := d.segment()
	if err != nil {
		return err
	}
	for pos := 0; pos < len(seg); {
		pq := int(seg[pos] >> 4)
		tq := int(seg[pos] & 0x0f)
		pos++
		if tq > 3 {
			return xerrors.New("jpeg: bad DQT index")
		}
		for i := 0; i < blockSize; i++ {
			if pq == 1 {
				if pos+1 >= len(seg) {
					return xerrors.New("jpeg: short DQT")
				}
				d.quant[tq][zigzag[i]] = binary.BigEndian.Uint16(seg[pos:])
				pos += 2
			} else {
				if pos >= len(seg) {
					return xerrors.New("jpeg: short DQT")
				}
				d.quant[tq][zigzag[i]] = uint16(seg[pos])
				pos++
			}
		}
	}
	return nil
}

func (d *Decoder) parseDHT() error {
	seg, err := d.segment()
	if err != nil {
		return err
	}
	for pos := 0; pos < len(seg); {
		tc := int(seg[pos] >> 4)
		th := int(seg[pos] & 0x0f)
		pos++
		if tc > 1 || th > 3 {
			return xerrors.New("jpeg: bad DHT header")
		}
		if pos+16 > len(seg) {
			return xerrors.New("jpeg: short DHT")
		}
		var counts [16]int
		total := 0
		for i := 0; i < 16; i++ {
			counts[i] = int(seg[pos+i])
			total += counts[i]
		}
		pos += 16
		if pos+total > len(seg) {
			return xerrors.New("jpeg: short DHT values")
		}
		table, err := newHuffTable(counts, seg[pos:pos+total])
		if err != nil {
			return err
		}
		pos += total
		if tc == 0 {
			d.huffDC[th] = table
		} else {
			d.huffAC[th] = table
		}
	}
	return nil
}

// collectICC assembles one APP2 ICC_PROFILE chunk.
func (d *Decoder) collectICC(seg []byte) {
	const prefix = "ICC_PROFILE\x00"
	if len(seg) < len(prefix)+2 || string(seg[:len(prefix)]) != prefix {
		return
	}
	index := int(seg[len(prefix)])
	count := int(seg[len(prefix)+1])
	if index < 1 || count < 1 || index > count {
		return
	}
	if d.iccChunks == nil {
		d.iccChunks = make(map[int][]byte)
		d.iccTotal = count
	}
	d.iccChunks[index] = seg[len(prefix)+2:]

	if len(d.iccChunks) == d.iccTotal {
		var buf bytes.Buffer
		for i := 1; i <= d.iccTotal; i++ {
			chunk, ok := d.iccChunks[i]
			if !ok {
				common.Log.Debug("ICC chunk %d missing, dropping profile", i)
				return
			}
			buf.Write(chunk)
		}
		d.ICCProfile = buf.Bytes()
	}
}

// ReadRow decodes (on first call) and writes the next interleaved row into
// `buf`, which must hold Width*NumComponents bytes.
func (d *Decoder) ReadRow(buf []byte) error {
	if !d.decoded {
		if err := d.decodeScans(); err != nil {
			return err
		}
		d.renderPlanes()
		d.decoded = true
	}
	if d.row >= d.Height {
		return xerrors.New("jpeg: read past last row")
	}
	if len(buf) < d.Width*d.nComp {
		return xerrors.New("jpeg: row buffer too small")
	}

	y := d.row
	switch d.nComp {
	case 1:
		c := d.comps[0]
		d.copyRowScaled(c, y, buf, 1, 0)
	case 3:
		for i := 0; i < 3; i++ {
			d.copyRowScaled(d.comps[i], y, buf, 3, i)
		}
		if d.isYCbCr() {
			ycbcrToRGBRow(buf, d.Width)
		}
	case 4:
		for i := 0; i < 4; i++ {
			d.copyRowScaled(d.comps[i], y, buf, 4, i)
		}
		if d.isYCCK() {
			ycckToCMYKRow(buf, d.Width)
		} else if d.adobe {
			// Adobe CMYK stores inverted values.
			invertRow(buf, d.Width*4)
		}
	}
	d.row++
	return nil
}

// RowsRemaining returns the number of rows not yet read.
func (d *Decoder) RowsRemaining() int {
	return d.Height - d.row
}

// isYCbCr reports whether the 3-component stream is YCbCr coded. JFIF
// streams and Adobe transform 1 are; Adobe transform 0 is plain RGB.
func (d *Decoder) isYCbCr() bool {
	if d.adobe {
		return d.adobeTransform != 0
	}
	// Component ids 'R','G','B' mark rare RGB streams.
	if d.comps[0].id == 'R' && d.comps[1].id == 'G' && d.comps[2].id == 'B' {
		return false
	}
	return true
}

// isYCCK reports whether the 4-component stream is YCCK coded (Adobe
// transform 2).
func (d *Decoder) isYCCK() bool {
	return d.adobe && d.adobeTransform == 2
}

// copyRowScaled writes one component's row at image resolution into the
// interleaved buffer, replicating samples for subsampled components.
func (d *Decoder) copyRowScaled(c *component, y int, buf []byte, stride, offset int) {
	planeW := c.blocksPerLine * 8
	sy := y * c.v / d.vMax
	if sy >= c.blocksPerCol*8 {
		sy = c.blocksPerCol*8 - 1
	}
	rowStart := sy * planeW
	for x := 0; x < d.Width; x++ {
		sx := x * c.h / d.hMax
		if sx >= planeW {
			sx = planeW - 1
		}
		buf[x*stride+offset] = c.plane[rowStart+sx]
	}
}

// renderPlanes dequantizes and inverse transforms all blocks into per
// component sample planes.
func (d *Decoder) renderPlanes() {
	for i := 0; i < d.nComp; i++ {
		c := d.comps[i]
		planeW := c.blocksPerLine * 8
		c.plane = make([]byte, planeW*c.blocksPerCol*8)
		qt := &d.quant[c.tq]

		var block [blockSize]int32
		for by := 0; by < c.blocksPerCol; by++ {
			for bx := 0; bx < c.blocksPerLine; bx++ {
				coeffs := c.coeffs[(by*c.blocksPerLine+bx)*blockSize:]
				for k := 0; k < blockSize; k++ {
					block[k] = coeffs[k] * int32(qt[k])
				}
				idct(&block)
				for yy := 0; yy < 8; yy++ {
					dst := (by*8+yy)*planeW + bx*8
					for xx := 0; xx < 8; xx++ {
						c.plane[dst+xx] = clampByte(block[yy*8+xx] + 128)
					}
				}
			}
		}
		c.coeffs = nil
	}
}

func clampByte(v int32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// ycbcrToRGBRow converts a packed YCbCr row to RGB in place.
func ycbcrToRGBRow(buf []byte, width int) {
	for x := 0; x < width; x++ {
		y := int32(buf[3*x])
		cb := int32(buf[3*x+1]) - 128
		cr := int32(buf[3*x+2]) - 128

		r := y + (91881*cr+32768)>>16
		g := y - (22554*cb+46802*cr+32768)>>16
		b := y + (116130*cb+32768)>>16

		buf[3*x] = clampByte(r)
		buf[3*x+1] = clampByte(g)
		buf[3*x+2] = clampByte(b)
	}
}

// ycckToCMYKRow converts a packed YCCK row to CMYK in place. The K channel
// passes through inverted per Adobe convention.
func ycckToCMYKRow(buf []byte, width int) {
	for x := 0; x < width; x++ {
		y := int32(buf[4*x])
		cb := int32(buf[4*x+1]) - 128
		cr := int32(buf[4*x+2]) - 128

		r := y + (91881*cr+32768)>>16
		g := y - (22554*cb+46802*cr+32768)>>16
		b := y + (116130*cb+32768)>>16

		buf[4*x] = 255 - clampByte(r)
		buf[4*x+1] = 255 - clampByte(g)
		buf[4*x+2] = 255 - clampByte(b)
		buf[4*x+3] = 255 - buf[4*x+3]
	}
}

func invertRow(buf []byte, n int) {
	for i := 0; i < n; i++ {
		buf[i] = 255 - buf[i]
	}
}
