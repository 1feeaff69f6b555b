package model

import "fmt"

// Kind identifies which variant a Value holds
type Kind uint8

const (
	// KindLiteral holds a number, bool, null or list
	KindLiteral Kind = iota
	// KindReference holds a string, which may name a global component
	KindReference
	// KindInline holds an inline component definition (a JSON object)
	KindInline
	// KindParameter holds an attached parameter
	KindParameter
	// KindRecorder holds an attached recorder
	KindRecorder
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindReference:
		return "reference"
	case KindInline:
		return "inline"
	case KindParameter:
		return "parameter"
	case KindRecorder:
		return "recorder"
	default:
		return "unknown"
	}
}

// Value is a node attribute value. Exactly one variant is set, selected by Kind.
type Value struct {
	Kind Kind

	literal   any
	reference string
	inline    map[string]any
	parameter *Parameter
	recorder  *Recorder
}

// Constructors for each variant
func Literal(v any) Value {
	return Value{Kind: KindLiteral, literal: v}
}

func Reference(name string) Value {
	return Value{Kind: KindReference, reference: name}
}

func Inline(def map[string]any) Value {
	return Value{Kind: KindInline, inline: def}
}

func AttachedParameter(p *Parameter) Value {
	return Value{Kind: KindParameter, parameter: p}
}

func AttachedRecorder(r *Recorder) Value {
	return Value{Kind: KindRecorder, recorder: r}
}

// ValueOf classifies a decoded JSON value
func ValueOf(v any) Value {
	switch tv := v.(type) {
	case string:
		return Reference(tv)
	case map[string]any:
		return Inline(tv)
	case *Parameter:
		return AttachedParameter(tv)
	case *Recorder:
		return AttachedRecorder(tv)
	case Value:
		return tv
	default:
		return Literal(v)
	}
}

// Accessors. Each reports false when the value holds another variant.
func (v Value) AsLiteral() (any, bool) {
	return v.literal, v.Kind == KindLiteral
}

func (v Value) AsReference() (string, bool) {
	return v.reference, v.Kind == KindReference
}

func (v Value) AsInline() (map[string]any, bool) {
	return v.inline, v.Kind == KindInline
}

func (v Value) AsParameter() (*Parameter, bool) {
	return v.parameter, v.Kind == KindParameter
}

func (v Value) AsRecorder() (*Recorder, bool) {
	return v.recorder, v.Kind == KindRecorder
}

// Raw returns the document form of the value. Attached components are
// written inline through their own AsDict.
func (v Value) Raw() any {
	switch v.Kind {
	case KindLiteral:
		return v.literal
	case KindReference:
		return v.reference
	case KindInline:
		return v.inline
	case KindParameter:
		return v.parameter.AsDict()
	case KindRecorder:
		return v.recorder.AsDict()
	default:
		panic(fmt.Sprintf("model: unknown value kind %d", v.Kind))
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindReference:
		return v.reference
	case KindParameter:
		return "parameter(" + v.parameter.Name + ")"
	case KindRecorder:
		return "recorder(" + v.recorder.Name + ")"
	default:
		return fmt.Sprintf("%v", v.Raw())
	}
}
