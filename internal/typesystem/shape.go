package typesystem

import "strconv"

// ShapeRefKind discriminates the two forms a shape can take.
type ShapeRefKind int

const (
	// ShapeArity is a concrete element count known at canonicalization time.
	ShapeArity ShapeRefKind = iota
	// ShapeCount is the symbolic count variable of a declared pack parameter.
	ShapeCount
)

func (k ShapeRefKind) String() string {
	switch k {
	case ShapeArity:
		return "arity"
	case ShapeCount:
		return "count"
	default:
		return "unknown"
	}
}

// ShapeRef identifies the shape of a pack: exactly one of a concrete arity
// or the count variable of the pack parameter declared at Param. Values are
// comparable, so a ShapeRef can key a map.
type ShapeRef struct {
	RefKind ShapeRefKind
	Arity   int
	Param   int    // declaration index of the owning pack parameter
	Name    string // parameter name, carried for rendering
}

// ArityShape returns the shape of a pack whose length is known.
func ArityShape(n int) ShapeRef {
	if n < 0 {
		panic("typesystem: negative arity")
	}
	return ShapeRef{RefKind: ShapeArity, Arity: n}
}

// CountShape returns the symbolic shape of the pack parameter declared at
// index decl.
func CountShape(decl int, name string) ShapeRef {
	return ShapeRef{RefKind: ShapeCount, Arity: -1, Param: decl, Name: name}
}

// ArityValue returns the concrete arity. It panics on a symbolic shape;
// callers check RefKind first.
func (s ShapeRef) ArityValue() int {
	if s.RefKind != ShapeArity {
		panic("typesystem: ArityValue on " + s.RefKind.String() + " shape " + s.String())
	}
	return s.Arity
}

// CountParam returns the declaration index of the owning pack parameter. It
// panics on a concrete shape.
func (s ShapeRef) CountParam() int {
	if s.RefKind != ShapeCount {
		panic("typesystem: CountParam on " + s.RefKind.String() + " shape " + s.String())
	}
	return s.Param
}

func (s ShapeRef) Equal(o ShapeRef) bool {
	if s.RefKind != o.RefKind {
		return false
	}
	if s.RefKind == ShapeArity {
		return s.Arity == o.Arity
	}
	return s.Param == o.Param
}

func (s ShapeRef) String() string {
	if s.RefKind == ShapeArity {
		return strconv.Itoa(s.Arity)
	}
	return s.Name + ".shape"
}
