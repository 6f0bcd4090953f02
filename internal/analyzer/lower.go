package analyzer

import (
	"github.com/funvibe/packsig/internal/ast"
	"github.com/funvibe/packsig/internal/diagnostics"
	"github.com/funvibe/packsig/internal/typesystem"
)

// lowerType lowers an AST type into the type system. Names resolve against
// the declared parameters first; anything else is a concrete scalar.
func (sc *scope) lowerType(t ast.Type) (typesystem.Type, bool) {
	switch n := t.(type) {
	case *ast.NamedType:
		return sc.lowerNamedType(n)
	case *ast.TupleType:
		elements, ok := sc.lowerTupleElements(n)
		if !ok {
			return nil, false
		}
		return typesystem.Tuple{Elements: elements}, true
	case *ast.ExpansionType:
		return sc.lowerExpansion(n)
	case *ast.FunctionType:
		params := make([]typesystem.Type, 0, len(n.Params))
		for _, pt := range n.Params {
			lowered, ok := sc.lowerType(pt)
			if !ok {
				return nil, false
			}
			params = append(params, lowered)
		}
		result, ok := sc.lowerType(n.Result)
		if !ok {
			return nil, false
		}
		return typesystem.Func{Params: params, Result: result}, true
	}
	return nil, false
}

func (sc *scope) lowerNamedType(n *ast.NamedType) (typesystem.Type, bool) {
	if gp, ok := sc.params[n.Name.Value]; ok {
		if len(n.Args) > 0 {
			sc.fail(diagnostics.ErrA009, n.Token, "'"+n.Name.Value+"'")
			return nil, false
		}
		if gp.IsPack && sc.expansionDepth == 0 {
			sc.fail(diagnostics.ErrA004, n.Token,
				"pack parameter '"+gp.Name+"' must appear under an expansion")
			return nil, false
		}
		return gp.Ref(), true
	}

	var args []typesystem.Type
	for _, at := range n.Args {
		lowered, ok := sc.lowerType(at)
		if !ok {
			return nil, false
		}
		args = append(args, lowered)
	}
	return typesystem.Scalar{Name: n.Name.Value, Args: args}, true
}

// lowerExpansion lowers pattern... and resolves its shape. The shape is the
// count of the first pack parameter the pattern expands; pack parameters
// expanded together in one pattern are equated to that shape, since one
// expansion iterates them in lockstep.
func (sc *scope) lowerExpansion(n *ast.ExpansionType) (typesystem.Type, bool) {
	sc.expansionDepth++
	pattern, ok := sc.lowerType(n.Pattern)
	sc.expansionDepth--
	if !ok {
		return nil, false
	}

	packs := sc.freePackParams(n.Pattern)
	if len(packs) == 0 {
		sc.fail(diagnostics.ErrA003, n.Token)
		return nil, false
	}
	shape := packs[0].CountRef()
	for _, gp := range packs[1:] {
		if err := sc.builder.AddShapeEquality(shape, gp.CountRef()); err != nil {
			sc.reportConstraintError(n.Token, err)
		}
	}
	return typesystem.Expansion{Pattern: pattern, Shape: shape}, true
}

func (sc *scope) lowerTupleElements(n *ast.TupleType) ([]typesystem.LabeledElement, bool) {
	var elements []typesystem.LabeledElement
	for _, el := range n.Elements {
		lowered, ok := sc.lowerType(el.Type)
		if !ok {
			return nil, false
		}
		label := ""
		if el.Label != nil {
			label = el.Label.Value
		}
		elements = append(elements, typesystem.LabeledElement{Label: label, Type: lowered})
	}
	return elements, true
}

// freePackParams collects the pack parameters a pattern references, in
// first-occurrence order. Parameters under a nested expansion belong to
// that expansion and are not free in the outer one.
func (sc *scope) freePackParams(t ast.Type) []typesystem.GenericParam {
	var out []typesystem.GenericParam
	seen := make(map[string]bool)

	var walk func(ast.Type)
	walk = func(t ast.Type) {
		switch n := t.(type) {
		case *ast.NamedType:
			if gp, ok := sc.params[n.Name.Value]; ok && gp.IsPack && !seen[gp.Name] {
				seen[gp.Name] = true
				out = append(out, gp)
			}
			for _, a := range n.Args {
				walk(a)
			}
		case *ast.TupleType:
			for _, el := range n.Elements {
				walk(el.Type)
			}
		case *ast.FunctionType:
			for _, pt := range n.Params {
				walk(pt)
			}
			walk(n.Result)
		case *ast.ExpansionType:
			// captured by the nested expansion
		}
	}
	walk(t)
	return out
}
