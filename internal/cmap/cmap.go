/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package cmap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pdfrast/pdfrast/common"
	"github.com/pdfrast/pdfrast/core"
)

const (
	// maxCodeLen is the maximum number of possible bytes per code.
	maxCodeLen = 4

	// MissingCodeRune replaces runes that can't be decoded. '�' = �.
	MissingCodeRune = '�'

	// MissingCodeString replaces strings that can't be decoded.
	MissingCodeString = string(MissingCodeRune)
)

// ErrBadCMap is returned on a corrupt embedded CMap stream.
var ErrBadCMap = errors.New("bad cmap")

// CharCode is a character code within a CMap's codespace.
type CharCode uint32

// CID is a character identifier in a CID-keyed font.
type CID uint32

// Codespace represents a single codespace range used in the CMap.
type Codespace struct {
	NumBytes int
	Low      CharCode
	High     CharCode
}

// CIDSystemInfo identifies the character collection used by a CID font.
type CIDSystemInfo struct {
	Registry   string
	Ordering   string
	Supplement int
}

// NewCIDSystemInfo returns the CIDSystemInfo encoded in PDF object `obj`.
func NewCIDSystemInfo(obj core.PdfObject) (info CIDSystemInfo, err error) {
	d, ok := core.GetDict(obj)
	if !ok {
		return CIDSystemInfo{}, core.ErrTypeError
	}
	registry, ok := core.GetStringVal(d.Get("Registry"))
	if !ok {
		return CIDSystemInfo{}, core.ErrTypeError
	}
	ordering, ok := core.GetStringVal(d.Get("Ordering"))
	if !ok {
		return CIDSystemInfo{}, core.ErrTypeError
	}
	supplement, ok := core.GetIntVal(d.Get("Supplement"))
	if !ok {
		return CIDSystemInfo{}, core.ErrTypeError
	}
	return CIDSystemInfo{
		Registry:   registry,
		Ordering:   ordering,
		Supplement: supplement,
	}, nil
}

// String returns a human readable description of `info`. It looks like
// "Adobe-Japan1-002".
func (info *CIDSystemInfo) String() string {
	return fmt.Sprintf("%s-%s-%03d", info.Registry, info.Ordering, info.Supplement)
}

// CMap maps character codes to CIDs (ctype 1) or to unicode strings (ctype 2,
// the ToUnicode flavor). Immutable after parse.
type CMap struct {
	name       string
	ctype      int
	version    string
	usecmap    string
	systemInfo CIDSystemInfo

	// identity marks the Identity-H/V CMaps where the CID is the big-endian
	// integer value of the code bytes.
	identity bool
	vertical bool

	codespaces []Codespace
	maxCodeLen int

	codeToCID     map[CharCode]CID
	codeToUnicode map[CharCode]string
}

// newCMap returns an initialized CMap.
func newCMap() *CMap {
	return &CMap{
		codeToCID:     make(map[CharCode]CID),
		codeToUnicode: make(map[CharCode]string),
	}
}

// Name returns the name of the CMap.
func (cmap *CMap) Name() string {
	return cmap.name
}

// Vertical returns true for vertical writing mode CMaps.
func (cmap *CMap) Vertical() bool {
	return cmap.vertical
}

// String returns a human readable description of `cmap`.
func (cmap *CMap) String() string {
	si := cmap.systemInfo
	parts := fmt.Sprintf("nbits:%d type:%d", cmap.maxCodeLen*8, cmap.ctype)
	if cmap.version != "" {
		parts += " version:" + cmap.version
	}
	if cmap.usecmap != "" {
		parts += " usecmap:" + cmap.usecmap
	}
	parts += fmt.Sprintf(" systemInfo:%s", si.String())
	if len(cmap.codespaces) > 0 {
		parts += fmt.Sprintf(" codespaces:%d", len(cmap.codespaces))
	}
	if len(cmap.codeToUnicode) > 0 {
		parts += fmt.Sprintf(" codeToUnicode:%d", len(cmap.codeToUnicode))
	}
	return fmt.Sprintf("CMAP{%#q %s}", cmap.name, parts)
}

// Codespaces returns a copy of the codespace ranges in the CMap.
func (cmap *CMap) Codespaces() []Codespace {
	spaces := make([]Codespace, len(cmap.codespaces))
	copy(spaces, cmap.codespaces)
	return spaces
}

// HasCodespaces returns true if the CMap declares at least one codespace range.
func (cmap *CMap) HasCodespaces() bool {
	return len(cmap.codespaces) > 0
}

// MaxCodeLen returns the maximum code length in bytes among the codespaces.
func (cmap *CMap) MaxCodeLen() int {
	return cmap.maxCodeLen
}

// NextCode returns the code starting at data[offset] together with its byte
// length. The longest matching prefix within the codespace ranges wins; bytes
// that match no range are consumed one at a time.
func (cmap *CMap) NextCode(data []byte, offset int) (CharCode, int) {
	remaining := len(data) - offset
	if remaining <= 0 {
		return 0, 0
	}

	maxLen := cmap.maxCodeLen
	if maxLen > remaining {
		maxLen = remaining
	}
	if maxLen > maxCodeLen {
		maxLen = maxCodeLen
	}

	code := CharCode(0)
	matchedLen := 0
	for n := 1; n <= maxLen; n++ {
		code = code<<8 | CharCode(data[offset+n-1])
		for _, cs := range cmap.codespaces {
			if cs.NumBytes == n && cs.Low <= code && code <= cs.High {
				matchedLen = n
			}
		}
	}
	if matchedLen == 0 {
		// Not inside any declared codespace: consume a single byte.
		return CharCode(data[offset]), 1
	}
	// Rewind to the matched length.
	code = 0
	for i := 0; i < matchedLen; i++ {
		code = code<<8 | CharCode(data[offset+i])
	}
	return code, matchedLen
}

// CharcodeToCID returns the CID for `code` and a flag telling whether the
// code is mapped.
func (cmap *CMap) CharcodeToCID(code CharCode) (CID, bool) {
	if cmap.identity {
		return CID(code), true
	}
	cid, ok := cmap.codeToCID[code]
	return cid, ok
}

// CharcodeToUnicode returns the unicode string for `code` and a flag telling
// whether the code is mapped.
func (cmap *CMap) CharcodeToUnicode(code CharCode) (string, bool) {
	s, ok := cmap.codeToUnicode[code]
	return s, ok
}

// NumCodes returns the number of explicit code mappings held by the CMap.
func (cmap *CMap) NumCodes() int {
	if len(cmap.codeToCID) > 0 {
		return len(cmap.codeToCID)
	}
	return len(cmap.codeToUnicode)
}

func (cmap *CMap) addCodespace(cs Codespace) {
	cmap.codespaces = append(cmap.codespaces, cs)
	if cs.NumBytes > cmap.maxCodeLen {
		cmap.maxCodeLen = cs.NumBytes
	}
}

func (cmap *CMap) sortCodespaces() {
	sort.Slice(cmap.codespaces, func(i, j int) bool {
		a, b := cmap.codespaces[i], cmap.codespaces[j]
		if a.NumBytes != b.NumBytes {
			return a.NumBytes < b.NumBytes
		}
		return a.Low < b.Low
	})
}

// LoadCmapFromData parses the in-memory cmap `data` and returns the resulting
// CMap. `isSimple` selects the 1-byte interpretation used for ToUnicode CMaps
// of simple fonts with no explicit codespaces.
func LoadCmapFromData(data []byte, isSimple bool) (*CMap, error) {
	cmap := newCMap()

	p := newParser(data)
	if err := p.parseInto(cmap); err != nil {
		return nil, err
	}

	if len(cmap.codespaces) == 0 {
		if cmap.usecmap != "" {
			return cmap, nil
		}
		if !isSimple {
			common.Log.Debug("ERROR: No codespaces. cmap=%s", cmap)
			return nil, ErrBadCMap
		}
		// Simple font ToUnicode default: single byte codes.
		cmap.addCodespace(Codespace{NumBytes: 1, Low: 0, High: 0xff})
	}
	cmap.sortCodespaces()
	return cmap, nil
}
