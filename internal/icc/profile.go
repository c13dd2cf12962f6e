/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package icc implements the subset of ICC profile handling needed for PDF
// color conversion: header and tag parsing, tone reproduction curves, CLUT
// interpolation and the A2B transform pipelines.
package icc

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pdfrast/pdfrast/common"
)

// ICC profiles use big endian always.

// RenderingIntent selects one of the four ICC rendering intents.
type RenderingIntent int

// Rendering intents in ICC numbering.
const (
	IntentPerceptual           RenderingIntent = 0
	IntentRelativeColorimetric RenderingIntent = 1
	IntentSaturation           RenderingIntent = 2
	IntentAbsoluteColorimetric RenderingIntent = 3
)

// ErrInvalidProfile is returned when the profile data cannot be parsed.
var ErrInvalidProfile = errors.New("invalid icc profile")

const headerSize = 128

// Profile is a parsed ICC profile restricted to the transform data used for
// rendering: matrix/TRC sets and A2B pipelines. Immutable after parse.
type Profile struct {
	DataColorSpace string // "RGB ", "CMYK", "GRAY", "Lab "
	PCS            string // "XYZ " or "Lab "
	Intent         RenderingIntent
	Illuminant     [3]float64

	WhitePoint    [3]float64
	HasWhitePoint bool
	BlackPoint    [3]float64
	HasBlackPoint bool

	// Matrix/TRC transform. Matrix columns are the rXYZ/gXYZ/bXYZ tags.
	Matrix    *[3][3]float64
	RedTRC    *Curve
	GreenTRC  *Curve
	BlueTRC   *Curve
	GrayTRC   *Curve
	ChromaticAdaptation *[3][3]float64

	// A2B pipelines indexed by intent: A2B0 (perceptual), A2B1
	// (colorimetric), A2B2 (saturation). Entries may be nil.
	A2B [3]*Pipeline

	tags map[string]tagEntry
	data []byte
}

type tagEntry struct {
	offset int
	size   int
}

// NumInputComponents returns the channel count of the profile's data color space.
func (p *Profile) NumInputComponents() int {
	switch p.DataColorSpace {
	case "GRAY":
		return 1
	case "CMYK":
		return 4
	default:
		return 3
	}
}

// ParseProfile parses the raw ICC profile bytes.
func ParseProfile(data []byte) (*Profile, error) {
	if len(data) < headerSize+4 {
		return nil, ErrInvalidProfile
	}
	size := int(binary.BigEndian.Uint32(data[0:]))
	if size > len(data) {
		common.Log.Debug("ERROR: ICC profile declared size %d beyond data %d", size, len(data))
		return nil, ErrInvalidProfile
	}
	if string(data[36:40]) != "acsp" {
		common.Log.Debug("ERROR: ICC profile signature missing")
		return nil, ErrInvalidProfile
	}

	p := &Profile{
		DataColorSpace: string(data[16:20]),
		PCS:            string(data[20:24]),
		Intent:         RenderingIntent(binary.BigEndian.Uint32(data[64:68]) & 0xffff),
		data:           data,
		tags:           make(map[string]tagEntry),
	}
	p.Illuminant[0] = s15Fixed16(data[68:])
	p.Illuminant[1] = s15Fixed16(data[72:])
	p.Illuminant[2] = s15Fixed16(data[76:])

	tagCount := int(binary.BigEndian.Uint32(data[headerSize:]))
	pos := headerSize + 4
	for i := 0; i < tagCount; i++ {
		if pos+12 > len(data) {
			return nil, ErrInvalidProfile
		}
		sig := string(data[pos : pos+4])
		offset := int(binary.BigEndian.Uint32(data[pos+4:]))
		tagSize := int(binary.BigEndian.Uint32(data[pos+8:]))
		if offset+tagSize <= len(data) {
			p.tags[sig] = tagEntry{offset: offset, size: tagSize}
		}
		pos += 12
	}

	p.parseTransforms()
	return p, nil
}

func (p *Profile) tagData(sig string) ([]byte, bool) {
	entry, ok := p.tags[sig]
	if !ok {
		return nil, false
	}
	return p.data[entry.offset : entry.offset+entry.size], true
}

func (p *Profile) parseTransforms() {
	if xyz, ok := p.xyzTag("wtpt"); ok {
		p.WhitePoint, p.HasWhitePoint = xyz, true
	}
	if xyz, ok := p.xyzTag("bkpt"); ok {
		p.BlackPoint, p.HasBlackPoint = xyz, true
	}
	if m, ok := p.sf32Tag("chad"); ok {
		p.ChromaticAdaptation = m
	}

	// Matrix/TRC set.
	r, okR := p.xyzTag("rXYZ")
	g, okG := p.xyzTag("gXYZ")
	b, okB := p.xyzTag("bXYZ")
	if okR && okG && okB {
		p.Matrix = &[3][3]float64{
			{r[0], g[0], b[0]},
			{r[1], g[1], b[1]},
			{r[2], g[2], b[2]},
		}
	}
	p.RedTRC = p.curveTag("rTRC")
	p.GreenTRC = p.curveTag("gTRC")
	p.BlueTRC = p.curveTag("bTRC")
	p.GrayTRC = p.curveTag("kTRC")

	for i, sig := range []string{"A2B0", "A2B1", "A2B2"} {
		data, ok := p.tagData(sig)
		if !ok {
			continue
		}
		pipe, err := parsePipeline(data)
		if err != nil {
			common.Log.Debug("ERROR: ICC %s parse failed: %v", sig, err)
			continue
		}
		p.A2B[i] = pipe
	}
}

// PipelineForIntent returns the A2B pipeline for `intent` with the ordered
// fallback defined for PDF rendering, or nil when the profile carries no
// pipelines at all.
func (p *Profile) PipelineForIntent(intent RenderingIntent) *Pipeline {
	var order [3]int
	switch intent {
	case IntentPerceptual:
		order = [3]int{0, 1, 2}
	case IntentSaturation:
		order = [3]int{2, 0, 1}
	default:
		// Relative and absolute colorimetric share the colorimetric table.
		order = [3]int{1, 0, 2}
	}
	for _, i := range order {
		if p.A2B[i] != nil {
			return p.A2B[i]
		}
	}
	return nil
}

func (p *Profile) xyzTag(sig string) ([3]float64, bool) {
	data, ok := p.tagData(sig)
	if !ok || len(data) < 20 || string(data[0:4]) != "XYZ " {
		return [3]float64{}, false
	}
	return [3]float64{
		s15Fixed16(data[8:]),
		s15Fixed16(data[12:]),
		s15Fixed16(data[16:]),
	}, true
}

func (p *Profile) sf32Tag(sig string) (*[3][3]float64, bool) {
	data, ok := p.tagData(sig)
	if !ok || len(data) < 8+36 || string(data[0:4]) != "sf32" {
		return nil, false
	}
	var m [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = s15Fixed16(data[8+4*(3*i+j):])
		}
	}
	return &m, true
}

func (p *Profile) curveTag(sig string) *Curve {
	data, ok := p.tagData(sig)
	if !ok {
		return nil
	}
	curve, err := parseCurve(data)
	if err != nil {
		common.Log.Debug("ERROR: ICC curve %s parse failed: %v", sig, err)
		return nil
	}
	return curve
}

// s15Fixed16 reads a signed 15.16 fixed point number.
func s15Fixed16(data []byte) float64 {
	return float64(int32(binary.BigEndian.Uint32(data))) / 65536.0
}

// u8Fixed8 reads an unsigned 8.8 fixed point number.
func u8Fixed8(data []byte) float64 {
	return float64(binary.BigEndian.Uint16(data)) / 256.0
}

// String returns a short description of the profile.
func (p *Profile) String() string {
	return fmt.Sprintf("ICC{%s->%s intent=%d}", p.DataColorSpace, p.PCS, p.Intent)
}
