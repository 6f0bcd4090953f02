package typesystem

import (
	"fmt"
	"strings"
)

// TypeKind discriminates the closed set of type forms.
type TypeKind int

const (
	KindScalar TypeKind = iota
	KindParam
	KindExpansion
	KindPack
	KindTuple
	KindFunc
)

func (k TypeKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindParam:
		return "param"
	case KindExpansion:
		return "expansion"
	case KindPack:
		return "pack"
	case KindTuple:
		return "tuple"
	case KindFunc:
		return "func"
	default:
		return "unknown"
	}
}

// Type is the interface for all types in the pack calculus. The set of
// implementations is closed: every value is one of the KindXxx forms and
// carries its kind explicitly.
type Type interface {
	String() string
	Kind() TypeKind

	isType()
}

// Scalar is a named nominal type, optionally applied to type arguments.
// E.g. Int, Array<String>.
type Scalar struct {
	Name string
	Args []Type
}

func (t Scalar) Kind() TypeKind { return KindScalar }
func (t Scalar) isType()        {}

func (t Scalar) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Name + "<" + strings.Join(parts, ", ") + ">"
}

// Param references a generic parameter by its position in the declaring
// parameter list. Declaration order is the tie-break everywhere a
// deterministic choice between parameters is needed.
type Param struct {
	Name   string
	Index  int
	IsPack bool
}

func (t Param) Kind() TypeKind { return KindParam }
func (t Param) isType()        {}
func (t Param) String() string { return t.Name }

// Expansion is a variadic expansion of a pattern. Its shape says how many
// elements the expansion stands for.
type Expansion struct {
	Pattern Type
	Shape   ShapeRef
}

func (t Expansion) Kind() TypeKind { return KindExpansion }
func (t Expansion) isType()        {}

func (t Expansion) String() string {
	if t.Pattern != nil && t.Pattern.Kind() == KindFunc {
		return "(" + t.Pattern.String() + ")..."
	}
	return t.Pattern.String() + "..."
}

// Pack is an ordered list of types. Packs are synthesized by matching when
// an expansion absorbs a run of elements; a pack may itself contain
// expansions.
type Pack struct {
	Elements []Type
}

func (t Pack) Kind() TypeKind { return KindPack }
func (t Pack) isType()        {}

func (t Pack) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "Pack{" + strings.Join(parts, ", ") + "}"
}

// LabeledElement is one tuple element with an optional label. An empty
// label means the element is unlabeled.
type LabeledElement struct {
	Label string
	Type  Type
}

func (e LabeledElement) String() string {
	if e.Label == "" {
		return e.Type.String()
	}
	return e.Label + ": " + e.Type.String()
}

// Tuple is an ordered sequence of labeled elements.
type Tuple struct {
	Elements []LabeledElement
}

func (t Tuple) Kind() TypeKind { return KindTuple }
func (t Tuple) isType()        {}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Func is a function type over a flat parameter list.
type Func struct {
	Params []Type
	Result Type
}

func (t Func) Kind() TypeKind { return KindFunc }
func (t Func) isType()        {}

func (t Func) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return "fn(" + strings.Join(parts, ", ") + ") -> " + t.Result.String()
}

// IsExpansion reports whether t is a pack expansion.
func IsExpansion(t Type) bool {
	_, ok := t.(Expansion)
	return ok
}

// AsExpansion returns t as an Expansion and panics on any other kind.
// Callers check Kind first; reaching the panic is a programming error, not
// an input error.
func AsExpansion(t Type) Expansion {
	e, ok := t.(Expansion)
	if !ok {
		panic(kindMismatch(t, KindExpansion))
	}
	return e
}

// AsPack returns t as a Pack and panics on any other kind.
func AsPack(t Type) Pack {
	p, ok := t.(Pack)
	if !ok {
		panic(kindMismatch(t, KindPack))
	}
	return p
}

// AsTuple returns t as a Tuple and panics on any other kind.
func AsTuple(t Type) Tuple {
	tt, ok := t.(Tuple)
	if !ok {
		panic(kindMismatch(t, KindTuple))
	}
	return tt
}

// AsParam returns t as a Param and panics on any other kind.
func AsParam(t Type) Param {
	p, ok := t.(Param)
	if !ok {
		panic(kindMismatch(t, KindParam))
	}
	return p
}

// AsFunc returns t as a Func and panics on any other kind.
func AsFunc(t Type) Func {
	f, ok := t.(Func)
	if !ok {
		panic(kindMismatch(t, KindFunc))
	}
	return f
}

func kindMismatch(t Type, want TypeKind) string {
	if t == nil {
		return fmt.Sprintf("typesystem: nil type where %s was required", want)
	}
	return fmt.Sprintf("typesystem: %s %q where %s was required", t.Kind(), t.String(), want)
}

// Equal reports structural equality of two types. Shapes of expansions
// participate: two expansions with the same pattern but different shapes
// are distinct.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch at := a.(type) {
	case Scalar:
		bt := b.(Scalar)
		if at.Name != bt.Name || len(at.Args) != len(bt.Args) {
			return false
		}
		for i := range at.Args {
			if !Equal(at.Args[i], bt.Args[i]) {
				return false
			}
		}
		return true
	case Param:
		bt := b.(Param)
		return at.Index == bt.Index && at.IsPack == bt.IsPack
	case Expansion:
		bt := b.(Expansion)
		return at.Shape.Equal(bt.Shape) && Equal(at.Pattern, bt.Pattern)
	case Pack:
		bt := b.(Pack)
		if len(at.Elements) != len(bt.Elements) {
			return false
		}
		for i := range at.Elements {
			if !Equal(at.Elements[i], bt.Elements[i]) {
				return false
			}
		}
		return true
	case Tuple:
		bt := b.(Tuple)
		if len(at.Elements) != len(bt.Elements) {
			return false
		}
		for i := range at.Elements {
			if at.Elements[i].Label != bt.Elements[i].Label {
				return false
			}
			if !Equal(at.Elements[i].Type, bt.Elements[i].Type) {
				return false
			}
		}
		return true
	case Func:
		bt := b.(Func)
		if len(at.Params) != len(bt.Params) {
			return false
		}
		for i := range at.Params {
			if !Equal(at.Params[i], bt.Params[i]) {
				return false
			}
		}
		return Equal(at.Result, bt.Result)
	default:
		return false
	}
}

// PackParamsIn collects the pack parameters referenced anywhere inside t,
// in first-occurrence order. Used to shape expansion patterns and to infer
// that packs expanded together must agree on length.
func PackParamsIn(t Type) []Param {
	var out []Param
	seen := make(map[int]bool)
	var walk func(Type)
	walk = func(t Type) {
		switch tt := t.(type) {
		case Param:
			if tt.IsPack && !seen[tt.Index] {
				seen[tt.Index] = true
				out = append(out, tt)
			}
		case Scalar:
			for _, a := range tt.Args {
				walk(a)
			}
		case Expansion:
			walk(tt.Pattern)
		case Pack:
			for _, e := range tt.Elements {
				walk(e)
			}
		case Tuple:
			for _, e := range tt.Elements {
				walk(e.Type)
			}
		case Func:
			for _, p := range tt.Params {
				walk(p)
			}
			walk(tt.Result)
		}
	}
	walk(t)
	return out
}
