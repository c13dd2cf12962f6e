/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package ps

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"

	"github.com/pdfrast/pdfrast/common"
)

// PSParser is a basic Postscript parser.
type PSParser struct {
	reader *bufio.Reader
}

// NewPSParser returns a new instance of the PDF Postscript parser from input data.
func NewPSParser(content []byte) *PSParser {
	parser := PSParser{}
	parser.reader = bufio.NewReader(bytes.NewBuffer(content))
	return &parser
}

// Parse parses the postscript and stores it as a program that can be executed.
func (p *PSParser) Parse() (*PSProgram, error) {
	p.skipSpaces()
	bb, err := p.reader.Peek(1)
	if err != nil {
		return nil, err
	}
	if bb[0] != '{' {
		return nil, errors.New("invalid PS Program not starting with {")
	}

	program, err := p.parseFunction()
	if err != nil && err != io.EOF {
		return nil, err
	}
	return program, nil
}

// parseFunction parses a braced program block.
func (p *PSParser) parseFunction() (*PSProgram, error) {
	c, _ := p.reader.ReadByte()
	if c != '{' {
		return nil, errors.New("invalid function")
	}

	function := NewPSProgram()

	for {
		p.skipSpaces()

		bb, err := p.reader.Peek(1)
		if err != nil {
			if err == io.EOF {
				return function, err
			}
			return nil, err
		}

		switch {
		case bb[0] == '}':
			p.reader.ReadByte()
			return function, nil
		case bb[0] == '{':
			inner, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			function.Append(inner)
		case isDecimalDigit(bb[0]) || bb[0] == '-' || bb[0] == '.':
			number, err := p.parseNumber()
			if err != nil {
				return nil, err
			}
			function.Append(number)
		default:
			operand, err := p.parseOperand()
			if err != nil {
				return nil, err
			}
			function.Append(operand)
		}
	}
}

// parseNumber parses an integer or real number.
func (p *PSParser) parseNumber() (PSObject, error) {
	var raw []byte
	isReal := false
	for {
		bb, err := p.reader.Peek(1)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if isDecimalDigit(bb[0]) || bb[0] == '-' || bb[0] == '+' {
			raw = append(raw, bb[0])
			p.reader.ReadByte()
		} else if bb[0] == '.' || bb[0] == 'e' || bb[0] == 'E' {
			isReal = true
			raw = append(raw, bb[0])
			p.reader.ReadByte()
		} else {
			break
		}
	}

	if isReal {
		val, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			common.Log.Debug("Error parsing number %q err=%v", raw, err)
			return nil, err
		}
		return MakeReal(val), nil
	}
	val, err := strconv.Atoi(string(raw))
	if err != nil {
		common.Log.Debug("Error parsing number %q err=%v", raw, err)
		return nil, err
	}
	return MakeInteger(val), nil
}

// parseOperand parses a bare word operand.
func (p *PSParser) parseOperand() (*PSOperand, error) {
	var raw []byte
	for {
		bb, err := p.reader.Peek(1)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if isDelimiter(bb[0]) || isWhitespace(bb[0]) {
			break
		}
		raw = append(raw, bb[0])
		p.reader.ReadByte()
	}

	if len(raw) == 0 {
		return nil, errors.New("invalid operand")
	}
	return MakeOperand(string(raw)), nil
}

func (p *PSParser) skipSpaces() (int, error) {
	cnt := 0
	for {
		bb, err := p.reader.Peek(1)
		if err != nil {
			return 0, err
		}
		if isWhitespace(bb[0]) {
			p.reader.ReadByte()
			cnt++
		} else {
			break
		}
	}
	return cnt, nil
}

func isDecimalDigit(c byte) bool {
	return '0' <= c && c <= '9'
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
	case '{', '}', '[', ']', '(', ')', '<', '>', '/', '%':
		return true
	}
	return false
}
