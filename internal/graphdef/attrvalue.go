package graphdef

import (
	"encoding/json"
	"fmt"

	"github.com/tgecore/tge/internal/dtype"
)

// AttrValueKind discriminates the closed set of attribute payload
// shapes an operator definition can carry.
type AttrValueKind string

const (
	KindInt    AttrValueKind = "int"
	KindStr    AttrValueKind = "str"
	KindDType  AttrValueKind = "dtype"
	KindTensor AttrValueKind = "tensor"
	KindInts   AttrValueKind = "ints"
	KindList   AttrValueKind = "list"
)

// TensorConst is a flat constant tensor payload: dtype, shape, and the
// values flattened in row-major order. The engine never interprets the
// values — it only carries them through Const nodes it emits (e.g. the
// axis/dim constants of split/concat/resplit).
type TensorConst struct {
	DType  dtype.Type `json:"dtype"`
	Shape  []int      `json:"shape,omitempty"`
	Int64  []int64    `json:"int_val,omitempty"`
	Double []float64  `json:"double_val,omitempty"`
}

// AttrValue is the closed sum type of attribute payloads: an integer,
// a raw string (used for byte-string attrs like _tge_origin), a dtype
// enum value, a tensor constant, a list of integers, or a list of
// nested AttrValue (e.g. a list(shape) attr like _output_shapes, one
// Tensor-kind entry per output port).
type AttrValue struct {
	Kind   AttrValueKind
	Int    int64
	Str    string
	DType  dtype.Type
	Tensor TensorConst
	Ints   []int64
	List   []AttrValue
}

// Int64Attr builds an int-valued AttrValue.
func Int64Attr(v int64) AttrValue { return AttrValue{Kind: KindInt, Int: v} }

// StrAttr builds a string-valued AttrValue (used for byte-string attrs).
func StrAttr(v string) AttrValue { return AttrValue{Kind: KindStr, Str: v} }

// DTypeAttr builds a dtype-valued AttrValue.
func DTypeAttr(v dtype.Type) AttrValue { return AttrValue{Kind: KindDType, DType: v} }

// TensorAttr builds a tensor-constant AttrValue.
func TensorAttr(v TensorConst) AttrValue { return AttrValue{Kind: KindTensor, Tensor: v} }

// IntsAttr builds an int-list AttrValue (used for _tge_input_sizes).
func IntsAttr(v []int64) AttrValue { return AttrValue{Kind: KindInts, Ints: v} }

// ListAttr builds a nested-AttrValue-list AttrValue, e.g. a list(shape)
// attr like _output_shapes: one entry per output port.
func ListAttr(v []AttrValue) AttrValue { return AttrValue{Kind: KindList, List: v} }

// MarshalJSON encodes the active variant under its own field, tagged by kind.
func (v AttrValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindInt:
		return json.Marshal(struct {
			Kind AttrValueKind `json:"kind"`
			Int  int64         `json:"int"`
		}{v.Kind, v.Int})
	case KindStr:
		return json.Marshal(struct {
			Kind AttrValueKind `json:"kind"`
			Str  string        `json:"str"`
		}{v.Kind, v.Str})
	case KindDType:
		return json.Marshal(struct {
			Kind  AttrValueKind `json:"kind"`
			DType dtype.Type    `json:"dtype"`
		}{v.Kind, v.DType})
	case KindTensor:
		return json.Marshal(struct {
			Kind   AttrValueKind `json:"kind"`
			Tensor TensorConst   `json:"tensor"`
		}{v.Kind, v.Tensor})
	case KindInts:
		return json.Marshal(struct {
			Kind AttrValueKind `json:"kind"`
			Ints []int64       `json:"ints"`
		}{v.Kind, v.Ints})
	case KindList:
		return json.Marshal(struct {
			Kind AttrValueKind `json:"kind"`
			List []AttrValue   `json:"list"`
		}{v.Kind, v.List})
	default:
		return nil, fmt.Errorf("graphdef: attr value has unknown kind %q", v.Kind)
	}
}

// UnmarshalJSON decodes an AttrValue by first reading its "kind" tag,
// then decoding the matching payload field — the same discriminate-then-
// decode shape used to decode polymorphic node payloads elsewhere in
// this codebase.
func (v *AttrValue) UnmarshalJSON(data []byte) error {
	var head struct {
		Kind AttrValueKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("graphdef: decoding attr value kind: %w", err)
	}
	switch head.Kind {
	case KindInt:
		var d struct {
			Int int64 `json:"int"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		*v = AttrValue{Kind: KindInt, Int: d.Int}
	case KindStr:
		var d struct {
			Str string `json:"str"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		*v = AttrValue{Kind: KindStr, Str: d.Str}
	case KindDType:
		var d struct {
			DType dtype.Type `json:"dtype"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		*v = AttrValue{Kind: KindDType, DType: d.DType}
	case KindTensor:
		var d struct {
			Tensor TensorConst `json:"tensor"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		*v = AttrValue{Kind: KindTensor, Tensor: d.Tensor}
	case KindInts:
		var d struct {
			Ints []int64 `json:"ints"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		*v = AttrValue{Kind: KindInts, Ints: d.Ints}
	case KindList:
		var d struct {
			List []AttrValue `json:"list"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return err
		}
		*v = AttrValue{Kind: KindList, List: d.List}
	default:
		return fmt.Errorf("graphdef: unknown attr value kind %q", head.Kind)
	}
	return nil
}
