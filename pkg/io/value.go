package io

import (
	"fmt"

	"github.com/imfine/texwire/pkg/shader"
)

// Value types.
const (
	TypeString = "string"
	TypeInt    = "int"
	TypeFloat  = "float"
	TypeBool   = "bool"
	TypeVector = "vector"
)

// Vector is the serialized form of shader.Vector.
type Vector struct {
	X float64 `json:"x" yaml:"x" bson:"x"`
	Y float64 `json:"y" yaml:"y" bson:"y"`
	Z float64 `json:"z" yaml:"z" bson:"z"`
}

// Value is a typed port value. Only the field named by Type is meaningful.
type Value struct {
	Type   string  `json:"type" yaml:"type" bson:"type"`
	String string  `json:"string,omitempty" yaml:"string,omitempty" bson:"string,omitempty"`
	Int    int64   `json:"int,omitempty" yaml:"int,omitempty" bson:"int,omitempty"`
	Float  float64 `json:"float,omitempty" yaml:"float,omitempty" bson:"float,omitempty"`
	Bool   bool    `json:"bool,omitempty" yaml:"bool,omitempty" bson:"bool,omitempty"`
	Vector *Vector `json:"vector,omitempty" yaml:"vector,omitempty" bson:"vector,omitempty"`
}

func encodeValue(v any) (*Value, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return &Value{Type: TypeString, String: x}, nil
	case bool:
		return &Value{Type: TypeBool, Bool: x}, nil
	case int:
		return &Value{Type: TypeInt, Int: int64(x)}, nil
	case int32:
		return &Value{Type: TypeInt, Int: int64(x)}, nil
	case int64:
		return &Value{Type: TypeInt, Int: x}, nil
	case float32:
		return &Value{Type: TypeFloat, Float: float64(x)}, nil
	case float64:
		return &Value{Type: TypeFloat, Float: x}, nil
	case shader.Vector:
		return &Value{Type: TypeVector, Vector: &Vector{X: x.X, Y: x.Y, Z: x.Z}}, nil
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

func (v *Value) decode() (any, error) {
	if v == nil {
		return nil, nil
	}
	switch v.Type {
	case TypeString:
		return v.String, nil
	case TypeBool:
		return v.Bool, nil
	case TypeInt:
		return int(v.Int), nil
	case TypeFloat:
		return v.Float, nil
	case TypeVector:
		if v.Vector == nil {
			return shader.Vector{}, nil
		}
		return shader.Vector{X: v.Vector.X, Y: v.Vector.Y, Z: v.Vector.Z}, nil
	}
	return nil, fmt.Errorf("unknown value type %q", v.Type)
}
