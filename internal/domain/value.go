package domain

import (
	"fmt"
	"math"
)

// ValueType tags the type of an attribute value.
type ValueType string

const (
	ValueFloat   ValueType = "float"
	ValueDouble  ValueType = "double"
	ValueInt     ValueType = "int"
	ValueBool    ValueType = "bool"
	ValueString  ValueType = "string"
	ValueToken   ValueType = "token"
	ValuePath    ValueType = "path"
	ValueColor3f ValueType = "color3f"
	ValueFloat3  ValueType = "float3"
	ValueDouble3 ValueType = "double3"
)

// Vec3 is a color or a 3-component vector.
type Vec3 [3]float64

// White is the neutral light color.
var White = Vec3{1, 1, 1}

// Known reports whether vt is one of the supported value types.
func (vt ValueType) Known() bool {
	switch vt {
	case ValueFloat, ValueDouble, ValueInt, ValueBool, ValueString,
		ValueToken, ValuePath, ValueColor3f, ValueFloat3, ValueDouble3:
		return true
	}
	return false
}

// CoerceValue converts v into the Go representation used for vt:
// float64 for float/double, int for int, bool, string for string/token/path,
// and Vec3 for the 3-component types. Decoded numbers and sequences are
// accepted in any numeric form.
func CoerceValue(vt ValueType, v any) (any, error) {
	switch vt {
	case ValueFloat, ValueDouble:
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%s attribute needs a number, got %T", vt, v)
		}
		return f, nil

	case ValueInt:
		f, ok := toFloat(v)
		if !ok || f != math.Trunc(f) {
			return nil, fmt.Errorf("int attribute needs an integer, got %v", v)
		}
		return int(f), nil

	case ValueBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("bool attribute needs a bool, got %T", v)
		}
		return b, nil

	case ValueString, ValueToken, ValuePath:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s attribute needs a string, got %T", vt, v)
		}
		return s, nil

	case ValueColor3f, ValueFloat3, ValueDouble3:
		return toVec3(v)
	}
	return nil, fmt.Errorf("unknown value type %q", vt)
}

// InferValueType picks a value type for a Go value when none is declared.
func InferValueType(v any) (ValueType, error) {
	switch v.(type) {
	case float32, float64:
		return ValueDouble, nil
	case int, int32, int64:
		return ValueInt, nil
	case bool:
		return ValueBool, nil
	case string:
		return ValueToken, nil
	case Vec3, [3]float64, [3]float32, []float64, []any:
		return ValueDouble3, nil
	}
	return "", fmt.Errorf("cannot infer value type for %T", v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func toVec3(v any) (Vec3, error) {
	switch c := v.(type) {
	case Vec3:
		return c, nil
	case [3]float64:
		return Vec3(c), nil
	case [3]float32:
		return Vec3{float64(c[0]), float64(c[1]), float64(c[2])}, nil
	case []float64:
		if len(c) == 3 {
			return Vec3{c[0], c[1], c[2]}, nil
		}
	case []any:
		if len(c) == 3 {
			var out Vec3
			for i, e := range c {
				f, ok := toFloat(e)
				if !ok {
					return Vec3{}, fmt.Errorf("vector component %d is %T, not a number", i, e)
				}
				out[i] = f
			}
			return out, nil
		}
	}
	return Vec3{}, fmt.Errorf("expected 3 components, got %v", v)
}
