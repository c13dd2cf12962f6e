/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package ps

import (
	"fmt"
	"math"
)

// PSProgram defines a Postscript program which is a series of PS objects (arguments, commands, programs etc).
type PSProgram []PSObject

// NewPSProgram returns an empty, initialized PSProgram.
func NewPSProgram() *PSProgram {
	return &PSProgram{}
}

// Append appends an object to the PSProgram.
func (prog *PSProgram) Append(obj PSObject) {
	*prog = append(*prog, obj)
}

// Duplicate returns a fresh copy of `prog`.
func (prog *PSProgram) Duplicate() PSObject {
	prog2 := &PSProgram{}
	for _, obj := range *prog {
		prog2.Append(obj.Duplicate())
	}
	return prog2
}

// DebugString returns a descriptive string representation of `prog`.
func (prog *PSProgram) DebugString() string {
	s := "{ "
	for _, obj := range *prog {
		s += obj.DebugString()
		s += " "
	}
	s += "}"
	return s
}

// String returns a string representation of `prog`.
func (prog *PSProgram) String() string {
	s := "{ "
	for _, obj := range *prog {
		s += obj.String()
		s += " "
	}
	s += "}"
	return s
}

// Exec executes the program, typically leaving output values on the stack.
func (prog *PSProgram) Exec(stack *PSStack) error {
	for _, obj := range *prog {
		var err error
		switch t := obj.(type) {
		case *PSInteger, *PSReal, *PSBoolean:
			err = stack.Push(obj.Duplicate())
		case *PSProgram:
			// Pushed as a procedure operand for if/ifelse.
			err = stack.Push(t)
		case *PSOperand:
			err = t.Exec(stack)
		default:
			return ErrTypeCheck
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// PSOperand represents a Postscript operand (arithmetic, boolean, stack or conditional command).
type PSOperand string

// MakeOperand returns a new PSOperand object based on specified value string `val`.
func MakeOperand(val string) *PSOperand {
	op := PSOperand(val)
	return &op
}

// Duplicate returns a fresh copy of `op`.
func (op *PSOperand) Duplicate() PSObject {
	op2 := *op
	return &op2
}

// DebugString returns a descriptive string representation of `op`.
func (op *PSOperand) DebugString() string {
	return fmt.Sprintf("op:'%s'", string(*op))
}

// String returns a string representation of `op`.
func (op *PSOperand) String() string {
	return string(*op)
}

// Exec executes the operand against the stack.
func (op *PSOperand) Exec(stack *PSStack) error {
	switch string(*op) {
	// Arithmetic.
	case "abs":
		return op.unaryNumOp(stack, math.Abs)
	case "add":
		return op.binaryNumOp(stack, func(a, b float64) float64 { return a + b })
	case "sub":
		return op.binaryNumOp(stack, func(a, b float64) float64 { return a - b })
	case "mul":
		return op.binaryNumOp(stack, func(a, b float64) float64 { return a * b })
	case "div":
		b, err := stack.PopNumber()
		if err != nil {
			return err
		}
		a, err := stack.PopNumber()
		if err != nil {
			return err
		}
		if b == 0 {
			return ErrUndefinedResult
		}
		return stack.Push(MakeReal(a / b))
	case "idiv":
		b, err := stack.PopInteger()
		if err != nil {
			return err
		}
		a, err := stack.PopInteger()
		if err != nil {
			return err
		}
		if b == 0 {
			return ErrUndefinedResult
		}
		return stack.Push(MakeInteger(a / b))
	case "mod":
		b, err := stack.PopInteger()
		if err != nil {
			return err
		}
		a, err := stack.PopInteger()
		if err != nil {
			return err
		}
		if b == 0 {
			return ErrUndefinedResult
		}
		return stack.Push(MakeInteger(a % b))
	case "neg":
		return op.unaryNumOp(stack, func(a float64) float64 { return -a })
	case "ceiling":
		return op.unaryNumOp(stack, math.Ceil)
	case "floor":
		return op.unaryNumOp(stack, math.Floor)
	case "round":
		return op.unaryNumOp(stack, math.Round)
	case "truncate":
		return op.unaryNumOp(stack, math.Trunc)
	case "sqrt":
		return op.unaryNumOp(stack, math.Sqrt)
	case "sin":
		return op.unaryNumOp(stack, func(a float64) float64 { return math.Sin(a * math.Pi / 180.0) })
	case "cos":
		return op.unaryNumOp(stack, func(a float64) float64 { return math.Cos(a * math.Pi / 180.0) })
	case "atan":
		den, err := stack.PopNumber()
		if err != nil {
			return err
		}
		num, err := stack.PopNumber()
		if err != nil {
			return err
		}
		deg := math.Atan2(num, den) * 180.0 / math.Pi
		if deg < 0 {
			deg += 360
		}
		return stack.Push(MakeReal(deg))
	case "exp":
		return op.binaryNumOp(stack, math.Pow)
	case "ln":
		return op.unaryNumOp(stack, math.Log)
	case "log":
		return op.unaryNumOp(stack, math.Log10)
	case "cvi":
		val, err := stack.PopNumber()
		if err != nil {
			return err
		}
		return stack.Push(MakeInteger(int(val)))
	case "cvr":
		val, err := stack.PopNumber()
		if err != nil {
			return err
		}
		return stack.Push(MakeReal(val))

	// Bitwise and boolean.
	case "and":
		return op.bitwiseOp(stack,
			func(a, b int) int { return a & b },
			func(a, b bool) bool { return a && b })
	case "or":
		return op.bitwiseOp(stack,
			func(a, b int) int { return a | b },
			func(a, b bool) bool { return a || b })
	case "xor":
		return op.bitwiseOp(stack,
			func(a, b int) int { return a ^ b },
			func(a, b bool) bool { return a != b })
	case "not":
		obj, err := stack.Pop()
		if err != nil {
			return err
		}
		switch t := obj.(type) {
		case *PSBoolean:
			return stack.Push(MakeBool(!t.Val))
		case *PSInteger:
			return stack.Push(MakeInteger(^t.Val))
		}
		return ErrTypeCheck
	case "bitshift":
		shift, err := stack.PopInteger()
		if err != nil {
			return err
		}
		val, err := stack.PopInteger()
		if err != nil {
			return err
		}
		if shift >= 0 {
			val <<= uint(shift)
		} else {
			val >>= uint(-shift)
		}
		return stack.Push(MakeInteger(val))

	// Comparison.
	case "eq":
		return op.comparisonOp(stack, func(a, b float64) bool { return equivalent(a, b) })
	case "ne":
		return op.comparisonOp(stack, func(a, b float64) bool { return !equivalent(a, b) })
	case "gt":
		return op.comparisonOp(stack, func(a, b float64) bool { return a > b })
	case "ge":
		return op.comparisonOp(stack, func(a, b float64) bool { return a >= b })
	case "lt":
		return op.comparisonOp(stack, func(a, b float64) bool { return a < b })
	case "le":
		return op.comparisonOp(stack, func(a, b float64) bool { return a <= b })

	// Stack manipulation.
	case "pop":
		_, err := stack.Pop()
		return err
	case "exch":
		b, err := stack.Pop()
		if err != nil {
			return err
		}
		a, err := stack.Pop()
		if err != nil {
			return err
		}
		if err := stack.Push(b); err != nil {
			return err
		}
		return stack.Push(a)
	case "dup":
		obj, err := stack.Pop()
		if err != nil {
			return err
		}
		if err := stack.Push(obj); err != nil {
			return err
		}
		return stack.Push(obj.Duplicate())
	case "copy":
		n, err := stack.PopInteger()
		if err != nil {
			return err
		}
		if n < 0 {
			return ErrRangeCheck
		}
		if n > len(*stack) {
			return ErrStackUnderflow
		}
		top := make([]PSObject, n)
		copy(top, (*stack)[len(*stack)-n:])
		for _, obj := range top {
			if err := stack.Push(obj.Duplicate()); err != nil {
				return err
			}
		}
		return nil
	case "index":
		n, err := stack.PopInteger()
		if err != nil {
			return err
		}
		if n < 0 {
			return ErrRangeCheck
		}
		if n >= len(*stack) {
			return ErrStackUnderflow
		}
		obj := (*stack)[len(*stack)-1-n]
		return stack.Push(obj.Duplicate())
	case "roll":
		j, err := stack.PopInteger()
		if err != nil {
			return err
		}
		n, err := stack.PopInteger()
		if err != nil {
			return err
		}
		if n < 0 {
			return ErrRangeCheck
		}
		if n == 0 {
			return nil
		}
		if n > len(*stack) {
			return ErrStackUnderflow
		}
		section := (*stack)[len(*stack)-n:]
		j = ((j % n) + n) % n
		rolled := make([]PSObject, n)
		for i := 0; i < n; i++ {
			rolled[(i+j)%n] = section[i]
		}
		copy(section, rolled)
		return nil

	// Conditionals.
	case "if":
		proc, err := stack.Pop()
		if err != nil {
			return err
		}
		prog, ok := proc.(*PSProgram)
		if !ok {
			return ErrTypeCheck
		}
		cond, err := stack.PopBool()
		if err != nil {
			return err
		}
		if cond {
			return prog.Exec(stack)
		}
		return nil
	case "ifelse":
		procElse, err := stack.Pop()
		if err != nil {
			return err
		}
		progElse, ok := procElse.(*PSProgram)
		if !ok {
			return ErrTypeCheck
		}
		procIf, err := stack.Pop()
		if err != nil {
			return err
		}
		progIf, ok := procIf.(*PSProgram)
		if !ok {
			return ErrTypeCheck
		}
		cond, err := stack.PopBool()
		if err != nil {
			return err
		}
		if cond {
			return progIf.Exec(stack)
		}
		return progElse.Exec(stack)

	case "true":
		return stack.Push(MakeBool(true))
	case "false":
		return stack.Push(MakeBool(false))
	}

	return ErrUnsupportedOperand
}

// unaryNumOp pops one number and pushes f(x), preserving integer type where
// the function returns a whole number from an integer input.
func (op *PSOperand) unaryNumOp(stack *PSStack, f func(float64) float64) error {
	obj, err := stack.Pop()
	if err != nil {
		return err
	}
	switch t := obj.(type) {
	case *PSInteger:
		res := f(float64(t.Val))
		if res == math.Trunc(res) {
			return stack.Push(MakeInteger(int(res)))
		}
		return stack.Push(MakeReal(res))
	case *PSReal:
		return stack.Push(MakeReal(f(t.Val)))
	}
	return ErrTypeCheck
}

// binaryNumOp pops two numbers and pushes f(a, b); the result is integer when
// both inputs are integers and the result is whole.
func (op *PSOperand) binaryNumOp(stack *PSStack, f func(a, b float64) float64) error {
	bObj, err := stack.Pop()
	if err != nil {
		return err
	}
	aObj, err := stack.Pop()
	if err != nil {
		return err
	}

	b, err := numberOf(bObj)
	if err != nil {
		return err
	}
	a, err := numberOf(aObj)
	if err != nil {
		return err
	}

	res := f(a, b)
	_, aInt := aObj.(*PSInteger)
	_, bInt := bObj.(*PSInteger)
	if aInt && bInt && res == math.Trunc(res) && !math.IsInf(res, 0) {
		return stack.Push(MakeInteger(int(res)))
	}
	return stack.Push(MakeReal(res))
}

// bitwiseOp pops two integers or two booleans and pushes the result.
func (op *PSOperand) bitwiseOp(stack *PSStack, fi func(a, b int) int, fb func(a, b bool) bool) error {
	bObj, err := stack.Pop()
	if err != nil {
		return err
	}
	aObj, err := stack.Pop()
	if err != nil {
		return err
	}

	switch b := bObj.(type) {
	case *PSInteger:
		a, ok := aObj.(*PSInteger)
		if !ok {
			return ErrTypeCheck
		}
		return stack.Push(MakeInteger(fi(a.Val, b.Val)))
	case *PSBoolean:
		a, ok := aObj.(*PSBoolean)
		if !ok {
			return ErrTypeCheck
		}
		return stack.Push(MakeBool(fb(a.Val, b.Val)))
	}
	return ErrTypeCheck
}

// comparisonOp pops two numbers or two booleans and pushes a boolean.
func (op *PSOperand) comparisonOp(stack *PSStack, f func(a, b float64) bool) error {
	bObj, err := stack.Pop()
	if err != nil {
		return err
	}
	aObj, err := stack.Pop()
	if err != nil {
		return err
	}

	if aBool, ok := aObj.(*PSBoolean); ok {
		bBool, ok := bObj.(*PSBoolean)
		if !ok {
			return ErrTypeCheck
		}
		// Only eq/ne make sense for booleans; encode them as 0/1.
		av, bv := 0.0, 0.0
		if aBool.Val {
			av = 1.0
		}
		if bBool.Val {
			bv = 1.0
		}
		return stack.Push(MakeBool(f(av, bv)))
	}

	b, err := numberOf(bObj)
	if err != nil {
		return err
	}
	a, err := numberOf(aObj)
	if err != nil {
		return err
	}
	return stack.Push(MakeBool(f(a, b)))
}
