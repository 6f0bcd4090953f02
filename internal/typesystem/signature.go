package typesystem

// GenericParam is one declared generic parameter. Index is its position in
// the declaring list; packs and plain parameters share one index space.
type GenericParam struct {
	Name   string
	Index  int
	IsPack bool
}

// Ref returns the Param type referencing this declaration.
func (p GenericParam) Ref() Param {
	return Param{Name: p.Name, Index: p.Index, IsPack: p.IsPack}
}

// CountRef returns the count variable of a pack parameter. It panics for a
// plain parameter, which has no shape.
func (p GenericParam) CountRef() ShapeRef {
	if !p.IsPack {
		panic("typesystem: CountRef on plain parameter " + p.Name)
	}
	return CountShape(p.Index, p.Name)
}

// Signature is a named generic parameter list together with its canonical
// requirement set.
type Signature struct {
	Name         string
	Params       []GenericParam
	Requirements RequirementSet
}

// PackShape derives the ShapeRef a synthesized pack contributes: the
// concrete arity when the pack holds no expansions, the inner shape when
// the pack is exactly one expansion. A mixed pack has no single ShapeRef
// and reports false.
func PackShape(p Pack) (ShapeRef, bool) {
	expansions := 0
	for _, el := range p.Elements {
		if IsExpansion(el) {
			expansions++
		}
	}
	if expansions == 0 {
		return ArityShape(len(p.Elements)), true
	}
	if len(p.Elements) == 1 {
		return AsExpansion(p.Elements[0]).Shape, true
	}
	return ShapeRef{}, false
}

// ShapeEquality is one shape-equal assertion between two shapes.
type ShapeEquality struct {
	A, B ShapeRef
}

// DeriveShapeEqualities extracts the implicit shape requirements carried by
// a matcher result. A pair of two expansions equates their shapes; a pair
// of an expansion with a synthesized pack equates the expansion's shape
// with the pack's, when the pack has one. Plain pairs carry nothing.
func DeriveShapeEqualities(pairs []MatchedPair) []ShapeEquality {
	var out []ShapeEquality
	for _, pair := range pairs {
		le, lok := pair.Left.(Expansion)
		re, rok := pair.Right.(Expansion)
		switch {
		case lok && rok:
			out = append(out, ShapeEquality{A: le.Shape, B: re.Shape})
		case lok:
			if pk, ok := pair.Right.(Pack); ok {
				if ref, ok := PackShape(pk); ok {
					out = append(out, ShapeEquality{A: le.Shape, B: ref})
				}
			}
		case rok:
			if pk, ok := pair.Left.(Pack); ok {
				if ref, ok := PackShape(pk); ok {
					out = append(out, ShapeEquality{A: ref, B: re.Shape})
				}
			}
		}
	}
	return out
}

// SignatureBuilder accumulates explicit and derived requirements for one
// parameter list and emits the canonical signature. All parameters are
// tracked up front so that classes enumerate in declaration order even
// when a parameter never appears in a requirement.
type SignatureBuilder struct {
	name   string
	params []GenericParam
	types  *TypeClasses
	shapes *ShapeClasses
}

func NewSignatureBuilder(name string, params []GenericParam) *SignatureBuilder {
	b := &SignatureBuilder{
		name:   name,
		params: params,
		types:  NewTypeClasses(),
		shapes: NewShapeClasses(),
	}
	for _, p := range params {
		b.types.Track(p.Ref())
		if p.IsPack {
			b.shapes.Track(p.CountRef())
		}
	}
	return b
}

// AddShapeEquality records an explicit or derived shape requirement.
func (b *SignatureBuilder) AddShapeEquality(a, c ShapeRef) error {
	return b.shapes.Equate(a, c)
}

// AddTypeEquality records a type requirement. Equating two pack parameters
// also equates their shapes; equating a pack parameter with anything that
// is not a pack parameter cannot hold, since no single type has a shape to
// offer the pack.
func (b *SignatureBuilder) AddTypeEquality(l, r Type) error {
	lp, lok := l.(Param)
	rp, rok := r.(Param)
	lPack := lok && lp.IsPack
	rPack := rok && rp.IsPack

	if lPack != rPack {
		packRef, other := lp, r
		if rPack {
			packRef, other = rp, l
		}
		return &ShapeConflictError{
			Param: packRef.Name,
			Have:  CountShape(packRef.Index, packRef.Name),
			Want:  ArityShape(arityOf(other)),
		}
	}
	if lPack && rPack {
		if err := b.shapes.Equate(CountShape(lp.Index, lp.Name), CountShape(rp.Index, rp.Name)); err != nil {
			return err
		}
	}

	switch {
	case lok && rok:
		return b.types.EquateParams(lp, rp)
	case lok:
		return b.types.Anchor(lp, r)
	case rok:
		return b.types.Anchor(rp, l)
	default:
		if !Equal(l, r) {
			return &TypeConflictError{Have: l, Want: r}
		}
		return nil
	}
}

// arityOf gives the nominal arity of a non-pack operand for conflict
// reporting: a single type stands for exactly one element.
func arityOf(t Type) int {
	if p, ok := t.(Pack); ok {
		return len(p.Elements)
	}
	return 1
}

// AddMatchedPairs folds a matcher result into the builder.
func (b *SignatureBuilder) AddMatchedPairs(pairs []MatchedPair) error {
	for _, eq := range DeriveShapeEqualities(pairs) {
		if err := b.shapes.Equate(eq.A, eq.B); err != nil {
			return err
		}
	}
	return nil
}

// Build emits the canonical signature.
func (b *SignatureBuilder) Build() Signature {
	return Signature{
		Name:         b.name,
		Params:       b.params,
		Requirements: EmitRequirements(b.types, b.shapes),
	}
}
