package analyzer

import (
	"errors"

	"github.com/funvibe/packsig/internal/ast"
	"github.com/funvibe/packsig/internal/diagnostics"
	"github.com/funvibe/packsig/internal/token"
	"github.com/funvibe/packsig/internal/typesystem"
)

// Analyzer performs semantic analysis: it resolves identifiers against the
// declared parameter list, lowers AST types into the type system, runs the
// matchers over the body statements and folds every explicit and derived
// requirement into one canonical signature per declaration.
type Analyzer struct {
	errors []*diagnostics.DiagnosticError
}

func New() *Analyzer {
	return &Analyzer{}
}

// Analyze checks every declaration in the file. A declaration that fails a
// check is dropped from the result but never stops its siblings, so one run
// reports diagnostics for the whole file.
func (a *Analyzer) Analyze(file *ast.File) ([]typesystem.Signature, []*diagnostics.DiagnosticError) {
	var sigs []typesystem.Signature
	for _, decl := range file.Signatures {
		if sig, ok := a.analyzeSignature(decl); ok {
			sigs = append(sigs, sig)
		}
	}
	return sigs, a.errors
}

func (a *Analyzer) addError(code diagnostics.ErrorCode, tok token.Token, details ...any) {
	a.errors = append(a.errors, diagnostics.NewError(code, tok, details...))
}

// scope is the per-declaration analysis state.
type scope struct {
	a       *Analyzer
	params  map[string]typesystem.GenericParam
	builder *typesystem.SignatureBuilder

	// expansionDepth counts enclosing expansion patterns while lowering a
	// type, so bare pack parameter references can be rejected.
	expansionDepth int

	// failed marks the declaration as unusable. Analysis continues past the
	// first failure to surface as many diagnostics as possible.
	failed bool
}

func (a *Analyzer) analyzeSignature(decl *ast.SignatureDecl) (typesystem.Signature, bool) {
	sc := &scope{a: a, params: make(map[string]typesystem.GenericParam)}

	var order []typesystem.GenericParam
	for _, pd := range decl.Params {
		if _, seen := sc.params[pd.Name.Value]; seen {
			sc.fail(diagnostics.ErrA002, pd.Token, "'"+pd.Name.Value+"'")
			continue
		}
		gp := typesystem.GenericParam{Name: pd.Name.Value, Index: len(order), IsPack: pd.Pack}
		sc.params[pd.Name.Value] = gp
		order = append(order, gp)
	}
	sc.builder = typesystem.NewSignatureBuilder(decl.Name.Value, order)

	for _, req := range decl.Where {
		sc.analyzeRequirement(req)
	}
	for _, stmt := range decl.Stmts {
		sc.analyzeStmt(stmt)
	}

	if sc.failed {
		return typesystem.Signature{}, false
	}
	return sc.builder.Build(), true
}

func (sc *scope) fail(code diagnostics.ErrorCode, tok token.Token, details ...any) {
	sc.failed = true
	sc.a.addError(code, tok, details...)
}

func (sc *scope) analyzeRequirement(req ast.Requirement) {
	switch r := req.(type) {
	case *ast.ShapeRequirement:
		left, lok := sc.resolveShapeOperand(r.Left)
		right, rok := sc.resolveShapeOperand(r.Right)
		if !lok || !rok {
			return
		}
		if err := sc.builder.AddShapeEquality(left, right); err != nil {
			sc.reportConstraintError(r.Token, err)
		}
	case *ast.TypeRequirement:
		left, lok := sc.lowerRequirementType(r.Left)
		right, rok := sc.lowerRequirementType(r.Right)
		if !lok || !rok {
			return
		}
		if err := sc.builder.AddTypeEquality(left, right); err != nil {
			sc.reportConstraintError(r.Token, err)
		}
	}
}

func (sc *scope) resolveShapeOperand(op ast.ShapeOperand) (typesystem.ShapeRef, bool) {
	switch o := op.(type) {
	case *ast.ShapeOf:
		gp, ok := sc.params[o.Param.Value]
		if !ok {
			sc.fail(diagnostics.ErrA001, o.Token, "'"+o.Param.Value+"'")
			return typesystem.ShapeRef{}, false
		}
		if !gp.IsPack {
			sc.fail(diagnostics.ErrA008, o.Token, "'"+gp.Name+"'")
			return typesystem.ShapeRef{}, false
		}
		return gp.CountRef(), true
	case *ast.ArityLit:
		return typesystem.ArityShape(o.Value), true
	}
	return typesystem.ShapeRef{}, false
}

// lowerRequirementType lowers one side of a type requirement. A bare
// parameter reference is legal here, pack or not; an expansion is not,
// there is no element list for it to absorb into.
func (sc *scope) lowerRequirementType(t ast.Type) (typesystem.Type, bool) {
	if exp, ok := t.(*ast.ExpansionType); ok {
		sc.fail(diagnostics.ErrA004, exp.Token, "an expansion cannot appear in a requirement")
		return nil, false
	}
	if n, ok := t.(*ast.NamedType); ok && len(n.Args) == 0 {
		if gp, ok := sc.params[n.Name.Value]; ok {
			return gp.Ref(), true
		}
	}
	return sc.lowerType(t)
}

func (sc *scope) reportConstraintError(tok token.Token, err error) {
	sc.failed = true

	var shapeErr *typesystem.ShapeConflictError
	var typeErr *typesystem.TypeConflictError
	switch {
	case errors.As(err, &shapeErr):
		sc.a.addError(diagnostics.ErrA006, tok, shapeErr.Error())
	case errors.As(err, &typeErr):
		sc.a.addError(diagnostics.ErrA007, tok, typeErr.Error())
	default:
		sc.a.addError(diagnostics.ErrA006, tok, err.Error())
	}
}
