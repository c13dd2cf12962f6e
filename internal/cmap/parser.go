/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package cmap

import (
	"encoding/hex"
	"strconv"

	"golang.org/x/text/encoding/unicode"

	"github.com/pdfrast/pdfrast/common"
)

// parser tokenizes an embedded CMap stream. The grammar is the small
// PostScript subset Adobe uses for CMap resources: names, integers, hex
// strings, array brackets, dictionaries and bare operators.
type parser struct {
	data []byte
	pos  int
}

func newParser(data []byte) *parser {
	return &parser{data: data}
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenName
	tokenInt
	tokenHexString
	tokenOperator
	tokenArrayStart
	tokenArrayEnd
)

type token struct {
	kind tokenKind
	str  string // name, operator
	num  int64  // int
	data []byte // hex string bytes
}

var utf16Decoder = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()

// parseInto runs the token stream and fills `cmap`.
func (p *parser) parseInto(cmap *CMap) error {
	// Operand stack for the list-style operators.
	var stack []token

	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		if tok.kind == tokenEOF {
			return nil
		}
		if tok.kind != tokenOperator {
			stack = append(stack, tok)
			if len(stack) > 64 {
				stack = stack[1:]
			}
			continue
		}

		switch tok.str {
		case "def":
			p.handleDef(cmap, stack)
			stack = stack[:0]
		case "usecmap":
			if len(stack) > 0 && stack[len(stack)-1].kind == tokenName {
				cmap.usecmap = stack[len(stack)-1].str
			}
			stack = stack[:0]
		case "begincodespacerange":
			if err := p.parseCodespaceRange(cmap); err != nil {
				return err
			}
			stack = stack[:0]
		case "begincidrange":
			if err := p.parseCIDRange(cmap); err != nil {
				return err
			}
			stack = stack[:0]
		case "begincidchar":
			if err := p.parseCIDChar(cmap); err != nil {
				return err
			}
			stack = stack[:0]
		case "beginbfchar":
			if err := p.parseBfChar(cmap); err != nil {
				return err
			}
			stack = stack[:0]
		case "beginbfrange":
			if err := p.parseBfRange(cmap); err != nil {
				return err
			}
			stack = stack[:0]
		case "endcmap":
			return nil
		default:
			// begincmap, currentdict, dict, dup, pop, CMap resource
			// bookkeeping: not needed for lookups.
			stack = stack[:0]
		}
	}
}

func (p *parser) handleDef(cmap *CMap, stack []token) {
	// `/Key value def`: scan for the known keys.
	for i := 0; i+1 < len(stack); i++ {
		if stack[i].kind != tokenName {
			continue
		}
		val := stack[i+1]
		switch stack[i].str {
		case "CMapName":
			if val.kind == tokenName {
				cmap.name = val.str
			}
		case "CMapType":
			if val.kind == tokenInt {
				cmap.ctype = int(val.num)
			}
		case "CMapVersion":
			if val.kind == tokenInt {
				cmap.version = strconv.FormatInt(val.num, 10)
			}
		case "WMode":
			if val.kind == tokenInt {
				cmap.vertical = val.num == 1
			}
		case "Registry":
			// Only present inside CIDSystemInfo dictionaries; strings are
			// not tokenized here, so registry info from embedded CMaps is
			// best effort.
		}
	}
}

func hexToCode(data []byte) CharCode {
	code := CharCode(0)
	for _, b := range data {
		code = code<<8 | CharCode(b)
	}
	return code
}

func (p *parser) parseCodespaceRange(cmap *CMap) error {
	for {
		lo, err := p.next()
		if err != nil {
			return err
		}
		if lo.kind == tokenOperator && lo.str == "endcodespacerange" {
			return nil
		}
		hi, err := p.next()
		if err != nil {
			return err
		}
		if lo.kind != tokenHexString || hi.kind != tokenHexString {
			common.Log.Debug("ERROR: Non-hex token in codespacerange")
			return ErrBadCMap
		}
		if len(lo.data) < 1 || len(lo.data) > maxCodeLen || len(lo.data) != len(hi.data) {
			common.Log.Debug("ERROR: Unequal codespace lengths: %d != %d", len(lo.data), len(hi.data))
			return ErrBadCMap
		}
		cmap.addCodespace(Codespace{
			NumBytes: len(lo.data),
			Low:      hexToCode(lo.data),
			High:     hexToCode(hi.data),
		})
	}
}

func (p *parser) parseCIDRange(cmap *CMap) error {
	for {
		lo, err := p.next()
		if err != nil {
			return err
		}
		if lo.kind == tokenOperator && lo.str == "endcidrange" {
			return nil
		}
		hi, err := p.next()
		if err != nil {
			return err
		}
		cid, err := p.next()
		if err != nil {
			return err
		}
		if lo.kind != tokenHexString || hi.kind != tokenHexString || cid.kind != tokenInt {
			common.Log.Debug("ERROR: Bad cidrange entry")
			return ErrBadCMap
		}
		loCode, hiCode := hexToCode(lo.data), hexToCode(hi.data)
		if hiCode < loCode {
			common.Log.Debug("ERROR: Inverted cidrange %04x > %04x", loCode, hiCode)
			continue
		}
		for code := loCode; code <= hiCode; code++ {
			cmap.codeToCID[code] = CID(cid.num) + CID(code-loCode)
		}
	}
}

func (p *parser) parseCIDChar(cmap *CMap) error {
	for {
		code, err := p.next()
		if err != nil {
			return err
		}
		if code.kind == tokenOperator && code.str == "endcidchar" {
			return nil
		}
		cid, err := p.next()
		if err != nil {
			return err
		}
		if code.kind != tokenHexString || cid.kind != tokenInt {
			common.Log.Debug("ERROR: Bad cidchar entry")
			return ErrBadCMap
		}
		cmap.codeToCID[hexToCode(code.data)] = CID(cid.num)
	}
}

func decodeUTF16(data []byte) string {
	decoded, err := utf16Decoder.Bytes(data)
	if err != nil {
		common.Log.Debug("ERROR: UTF16BE decode failed: %v", err)
		return MissingCodeString
	}
	return string(decoded)
}

func (p *parser) parseBfChar(cmap *CMap) error {
	for {
		code, err := p.next()
		if err != nil {
			return err
		}
		if code.kind == tokenOperator && code.str == "endbfchar" {
			return nil
		}
		dst, err := p.next()
		if err != nil {
			return err
		}
		if code.kind != tokenHexString {
			common.Log.Debug("ERROR: Bad bfchar source")
			return ErrBadCMap
		}
		switch dst.kind {
		case tokenHexString:
			cmap.codeToUnicode[hexToCode(code.data)] = decodeUTF16(dst.data)
		case tokenName:
			// Destination glyph names occur in damaged files; record the
			// replacement rune so lookups stay total.
			cmap.codeToUnicode[hexToCode(code.data)] = MissingCodeString
		default:
			common.Log.Debug("ERROR: Bad bfchar destination %v", dst.kind)
			return ErrBadCMap
		}
	}
}

func (p *parser) parseBfRange(cmap *CMap) error {
	for {
		lo, err := p.next()
		if err != nil {
			return err
		}
		if lo.kind == tokenOperator && lo.str == "endbfrange" {
			return nil
		}
		hi, err := p.next()
		if err != nil {
			return err
		}
		dst, err := p.next()
		if err != nil {
			return err
		}
		if lo.kind != tokenHexString || hi.kind != tokenHexString {
			common.Log.Debug("ERROR: Bad bfrange bounds")
			return ErrBadCMap
		}
		loCode, hiCode := hexToCode(lo.data), hexToCode(hi.data)
		if hiCode < loCode {
			common.Log.Debug("ERROR: Inverted bfrange %04x > %04x", loCode, hiCode)
			continue
		}

		switch dst.kind {
		case tokenHexString:
			// Destination string incremented over the range: the last byte
			// carries the increment per Adobe TN 5411.
			base := make([]byte, len(dst.data))
			copy(base, dst.data)
			for code := loCode; code <= hiCode; code++ {
				cmap.codeToUnicode[code] = decodeUTF16(base)
				if len(base) > 0 {
					base[len(base)-1]++
				}
			}
		case tokenArrayStart:
			for code := loCode; ; code++ {
				el, err := p.next()
				if err != nil {
					return err
				}
				if el.kind == tokenArrayEnd {
					break
				}
				if el.kind != tokenHexString || code > hiCode {
					common.Log.Debug("ERROR: Bad bfrange array element")
					return ErrBadCMap
				}
				cmap.codeToUnicode[code] = decodeUTF16(el.data)
			}
		default:
			common.Log.Debug("ERROR: Bad bfrange destination %v", dst.kind)
			return ErrBadCMap
		}
	}
}

func isWhitespace(b byte) bool {
	switch b {
	case 0x00, 0x09, 0x0a, 0x0c, 0x0d, 0x20:
		return true
	}
	return false
}

func isDelimiter(b byte) bool {
	switch b {
	case '<', '>', '[', ']', '{', '}', '/', '%', '(', ')':
		return true
	}
	return false
}

// next returns the next token in the stream.
func (p *parser) next() (token, error) {
	for p.pos < len(p.data) {
		b := p.data[p.pos]
		switch {
		case isWhitespace(b):
			p.pos++
		case b == '%':
			for p.pos < len(p.data) && p.data[p.pos] != '\n' {
				p.pos++
			}
		case b == '/':
			p.pos++
			start := p.pos
			for p.pos < len(p.data) && !isWhitespace(p.data[p.pos]) && !isDelimiter(p.data[p.pos]) {
				p.pos++
			}
			return token{kind: tokenName, str: string(p.data[start:p.pos])}, nil
		case b == '[':
			p.pos++
			return token{kind: tokenArrayStart}, nil
		case b == ']':
			p.pos++
			return token{kind: tokenArrayEnd}, nil
		case b == '<':
			if p.pos+1 < len(p.data) && p.data[p.pos+1] == '<' {
				// Dictionary contents are skipped; defs inside are handled
				// through the operand scan.
				p.pos += 2
				continue
			}
			p.pos++
			start := p.pos
			for p.pos < len(p.data) && p.data[p.pos] != '>' {
				p.pos++
			}
			hexStr := make([]byte, 0, p.pos-start)
			for _, c := range p.data[start:p.pos] {
				if !isWhitespace(c) {
					hexStr = append(hexStr, c)
				}
			}
			if p.pos < len(p.data) {
				p.pos++ // consume '>'
			}
			if len(hexStr)%2 == 1 {
				hexStr = append(hexStr, '0')
			}
			decoded := make([]byte, hex.DecodedLen(len(hexStr)))
			if _, err := hex.Decode(decoded, hexStr); err != nil {
				common.Log.Debug("ERROR: Bad hex string in cmap: %v", err)
				return token{}, ErrBadCMap
			}
			return token{kind: tokenHexString, data: decoded}, nil
		case b == '>':
			// '>>' dictionary end.
			p.pos++
			if p.pos < len(p.data) && p.data[p.pos] == '>' {
				p.pos++
			}
		case b == '(':
			// Literal strings carry no lookup data in CMaps; skip balanced.
			depth := 0
			for ; p.pos < len(p.data); p.pos++ {
				switch p.data[p.pos] {
				case '(':
					depth++
				case ')':
					depth--
				case '\\':
					p.pos++
				}
				if depth == 0 {
					p.pos++
					break
				}
			}
		case b == '-' || b == '+' || (b >= '0' && b <= '9'):
			start := p.pos
			p.pos++
			isReal := false
			for p.pos < len(p.data) && !isWhitespace(p.data[p.pos]) && !isDelimiter(p.data[p.pos]) {
				if p.data[p.pos] == '.' {
					isReal = true
				}
				p.pos++
			}
			str := string(p.data[start:p.pos])
			if isReal {
				f, err := strconv.ParseFloat(str, 64)
				if err != nil {
					common.Log.Debug("ERROR: Bad number %q in cmap", str)
					return token{}, ErrBadCMap
				}
				return token{kind: tokenInt, num: int64(f)}, nil
			}
			n, err := strconv.ParseInt(str, 10, 64)
			if err != nil {
				common.Log.Debug("ERROR: Bad integer %q in cmap", str)
				return token{}, ErrBadCMap
			}
			return token{kind: tokenInt, num: n}, nil
		case b == '{' || b == '}':
			p.pos++
		default:
			start := p.pos
			for p.pos < len(p.data) && !isWhitespace(p.data[p.pos]) && !isDelimiter(p.data[p.pos]) {
				p.pos++
			}
			if p.pos == start {
				p.pos++
				continue
			}
			return token{kind: tokenOperator, str: string(p.data[start:p.pos])}, nil
		}
	}
	return token{kind: tokenEOF}, nil
}
