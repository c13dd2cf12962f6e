/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

import (
	"errors"
	"fmt"

	"github.com/pdfrast/pdfrast/common"
)

// Errors returned by the typed accessors.
var (
	// ErrTypeError is returned when an object is of the wrong type.
	ErrTypeError = errors.New("type check error")
	// ErrRangeError is returned when an index or value is out of range.
	ErrRangeError = errors.New("range check error")
	// ErrNotSupported is returned for features not supported by this package.
	ErrNotSupported = errors.New("feature not currently supported")
)

// TraceMaxDepth is the maximum number of indirections before giving up on a
// reference loop in a broken file.
const TraceMaxDepth = 20

// ResolveReference resolves reference if `obj` is a *PdfObjectReference and
// the object graph collaborator populated its target. Otherwise returns `obj`
// unchanged.
func ResolveReference(obj PdfObject) PdfObject {
	if ref, isRef := obj.(*PdfObjectReference); isRef {
		if ref.Resolved != nil {
			return ref.Resolved
		}
		common.Log.Debug("ERROR: Unresolved reference: %s", ref.String())
		return MakeNull()
	}
	return obj
}

// TraceToDirectObject traces a PdfObject to a direct object, i.e. repeatedly
// resolving references and unwrapping indirect object containers.
func TraceToDirectObject(obj PdfObject) PdfObject {
	if obj == nil {
		return nil
	}

	depth := 0
	for {
		switch t := obj.(type) {
		case *PdfObjectReference:
			obj = ResolveReference(t)
		case *PdfIndirectObject:
			obj = t.PdfObject
		default:
			return obj
		}
		depth++
		if depth > TraceMaxDepth {
			common.Log.Error("Trace depth level beyond %d - not going deeper!", TraceMaxDepth)
			return nil
		}
	}
}

// GetBool returns the *PdfObjectBool object that is represented by a PdfObject directly or indirectly
// within an indirect object. On type mismatch the found bool flag is false and a nil pointer is returned.
func GetBool(obj PdfObject) (bo *PdfObjectBool, found bool) {
	bo, found = TraceToDirectObject(obj).(*PdfObjectBool)
	return bo, found
}

// GetBoolVal returns the bool value within a *PdObjectBool represented by an PdfObject interface directly or indirectly.
// If the PdfObject does not represent a bool value, a default value of false is returned (found = false also).
func GetBoolVal(obj PdfObject) (b bool, found bool) {
	bo, found := TraceToDirectObject(obj).(*PdfObjectBool)
	if found {
		return bool(*bo), true
	}
	return false, false
}

// GetInt returns the *PdfObjectInteger object that is represented by a PdfObject either directly or indirectly
// within an indirect object. On type mismatch the found bool flag is false and a nil pointer is returned.
func GetInt(obj PdfObject) (into *PdfObjectInteger, found bool) {
	into, found = TraceToDirectObject(obj).(*PdfObjectInteger)
	return into, found
}

// GetIntVal returns the int value represented by the PdfObject directly or indirectly if contained within an
// indirect object. On type mismatch the found bool flag returned is false and 0 is returned.
func GetIntVal(obj PdfObject) (val int, found bool) {
	into, found := TraceToDirectObject(obj).(*PdfObjectInteger)
	if found && into != nil {
		return int(*into), true
	}
	return 0, false
}

// GetFloat returns the *PdfObjectFloat represented by the PdfObject directly or indirectly within an indirect
// object. On type mismatch the found bool flag is false and a nil pointer is returned.
func GetFloat(obj PdfObject) (fo *PdfObjectFloat, found bool) {
	fo, found = TraceToDirectObject(obj).(*PdfObjectFloat)
	return fo, found
}

// GetFloatVal returns the float64 value represented by the PdfObject directly or indirectly if contained within an
// indirect object. On type mismatch the found bool flag returned is false and 0 is returned.
func GetFloatVal(obj PdfObject) (val float64, found bool) {
	fo, found := TraceToDirectObject(obj).(*PdfObjectFloat)
	if found {
		return float64(*fo), true
	}
	return 0, false
}

// GetNumberAsFloat returns the contents of `obj` as a float if it is an integer or float, or an
// error if it isn't.
func GetNumberAsFloat(obj PdfObject) (float64, error) {
	switch t := TraceToDirectObject(obj).(type) {
	case *PdfObjectFloat:
		return float64(*t), nil
	case *PdfObjectInteger:
		return float64(*t), nil
	}
	return 0, ErrNotANumber
}

// ErrNotANumber is returned when the object is expected to be numeric.
var ErrNotANumber = errors.New("not a number")

// GetNumbersAsFloat converts a list of pdf objects representing floats or integers to a slice of
// float64 values.
func GetNumbersAsFloat(objects []PdfObject) (floats []float64, err error) {
	for _, obj := range objects {
		val, err := GetNumberAsFloat(obj)
		if err != nil {
			return nil, err
		}
		floats = append(floats, val)
	}
	return floats, nil
}

// GetNumberAsInt64 returns the contents of `obj` as an int64 if it is an integer or float, or an
// error if it isn't. A float is truncated.
func GetNumberAsInt64(obj PdfObject) (int64, error) {
	switch t := TraceToDirectObject(obj).(type) {
	case *PdfObjectFloat:
		common.Log.Debug("Number expected as integer was stored as float (type casting used)")
		return int64(*t), nil
	case *PdfObjectInteger:
		return int64(*t), nil
	}
	return 0, ErrNotANumber
}

// GetName returns the *PdfObjectName represented by the PdfObject directly or indirectly within an indirect
// object. On type mismatch the found bool flag is false and a nil pointer is returned.
func GetName(obj PdfObject) (name *PdfObjectName, found bool) {
	name, found = TraceToDirectObject(obj).(*PdfObjectName)
	return name, found
}

// GetNameVal returns the string value represented by the PdfObject directly or indirectly if
// contained within an indirect object. On type mismatch the found bool flag returned is false and
// an empty string is returned.
func GetNameVal(obj PdfObject) (val string, found bool) {
	name, found := TraceToDirectObject(obj).(*PdfObjectName)
	if found {
		return string(*name), true
	}
	return "", false
}

// GetString returns the *PdfObjectString represented by the PdfObject directly or indirectly within an indirect
// object. On type mismatch the found bool flag is false and a nil pointer is returned.
func GetString(obj PdfObject) (so *PdfObjectString, found bool) {
	so, found = TraceToDirectObject(obj).(*PdfObjectString)
	return so, found
}

// GetStringVal returns the string value represented by the PdfObject directly or indirectly if
// contained within an indirect object. On type mismatch the found bool flag returned is false and
// an empty string is returned.
func GetStringVal(obj PdfObject) (val string, found bool) {
	so, found := TraceToDirectObject(obj).(*PdfObjectString)
	if found {
		return so.Str(), true
	}
	return "", false
}

// GetStringBytes is like GetStringVal except that it returns the string as a []byte.
// It is for convenience.
func GetStringBytes(obj PdfObject) (bytes []byte, found bool) {
	so, found := TraceToDirectObject(obj).(*PdfObjectString)
	if found {
		return so.Bytes(), true
	}
	return nil, false
}

// GetArray returns the *PdfObjectArray represented by the PdfObject directly or indirectly within an indirect
// object. On type mismatch the found bool flag is false and a nil pointer is returned.
func GetArray(obj PdfObject) (arr *PdfObjectArray, found bool) {
	arr, found = TraceToDirectObject(obj).(*PdfObjectArray)
	return arr, found
}

// GetDict returns the *PdfObjectDictionary represented by the PdfObject directly or indirectly within an indirect
// object. On type mismatch the found bool flag is false and a nil pointer is returned.
func GetDict(obj PdfObject) (dict *PdfObjectDictionary, found bool) {
	dict, found = TraceToDirectObject(obj).(*PdfObjectDictionary)
	return dict, found
}

// GetStream returns the *PdfObjectStream represented by the PdfObject. On type mismatch the found bool flag is
// false and a nil pointer is returned.
func GetStream(obj PdfObject) (stream *PdfObjectStream, found bool) {
	obj = ResolveReference(obj)
	if ind, is := obj.(*PdfIndirectObject); is {
		obj = ind.PdfObject
	}
	stream, found = obj.(*PdfObjectStream)
	return stream, found
}

// IsNullObject returns true if `obj` is a PdfObjectNull.
func IsNullObject(obj PdfObject) bool {
	_, isNull := TraceToDirectObject(obj).(*PdfObjectNull)
	return isNull
}

// EqualObjects returns true if `obj1` and `obj2` have the same contents.
// Only used in tests; keeps comparisons away from reflect.DeepEqual on
// recursive structures.
func EqualObjects(obj1, obj2 PdfObject) bool {
	return equalObjectsDeep(obj1, obj2, 0)
}

func equalObjectsDeep(obj1, obj2 PdfObject, depth int) bool {
	if depth > TraceMaxDepth {
		common.Log.Error("Equality check depth exceeded")
		return false
	}
	if obj1 == nil && obj2 == nil {
		return true
	}
	if obj1 == nil || obj2 == nil {
		return false
	}

	obj1 = TraceToDirectObject(obj1)
	obj2 = TraceToDirectObject(obj2)
	if fmt.Sprintf("%T", obj1) != fmt.Sprintf("%T", obj2) {
		return false
	}

	switch t1 := obj1.(type) {
	case *PdfObjectNull:
		return true
	case *PdfObjectName:
		return *t1 == *(obj2.(*PdfObjectName))
	case *PdfObjectBool:
		return *t1 == *(obj2.(*PdfObjectBool))
	case *PdfObjectInteger:
		return *t1 == *(obj2.(*PdfObjectInteger))
	case *PdfObjectFloat:
		return *t1 == *(obj2.(*PdfObjectFloat))
	case *PdfObjectString:
		return *t1 == *(obj2.(*PdfObjectString))
	case *PdfObjectArray:
		t2 := obj2.(*PdfObjectArray)
		if t1.Len() != t2.Len() {
			return false
		}
		for i := range t1.Elements() {
			if !equalObjectsDeep(t1.Get(i), t2.Get(i), depth+1) {
				return false
			}
		}
		return true
	case *PdfObjectDictionary:
		t2 := obj2.(*PdfObjectDictionary)
		if len(t1.Keys()) != len(t2.Keys()) {
			return false
		}
		for _, key := range t1.Keys() {
			if !equalObjectsDeep(t1.Get(key), t2.Get(key), depth+1) {
				return false
			}
		}
		return true
	}

	return false
}
