package analyzer

import (
	"github.com/funvibe/packsig/internal/ast"
	"github.com/funvibe/packsig/internal/diagnostics"
	"github.com/funvibe/packsig/internal/token"
	"github.com/funvibe/packsig/internal/typesystem"
)

func (sc *scope) analyzeStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.TupleMatch:
		sc.analyzeTupleMatch(s)
	case *ast.ParamsMatch:
		sc.analyzeParamsMatch(s)
	}
}

func (sc *scope) analyzeTupleMatch(s *ast.TupleMatch) {
	left, lok := sc.lowerTupleElements(s.Left)
	right, rok := sc.lowerTupleElements(s.Right)
	if !lok || !rok {
		return
	}
	if !sc.validTupleSide(s.Left.Token, left) || !sc.validTupleSide(s.Right.Token, right) {
		return
	}

	pairs, err := typesystem.MatchTuples(left, right)
	if err != nil {
		sc.fail(diagnostics.ErrA005, s.Token, err.Error())
		return
	}
	if err := sc.builder.AddMatchedPairs(pairs); err != nil {
		sc.reportConstraintError(s.Token, err)
	}
}

func (sc *scope) analyzeParamsMatch(s *ast.ParamsMatch) {
	left, lok := sc.lowerTypeList(s.Left)
	right, rok := sc.lowerTypeList(s.Right)
	if !lok || !rok {
		return
	}
	if !sc.validParamSide(s.Token, left) || !sc.validParamSide(s.Token, right) {
		return
	}

	pairs, err := typesystem.MatchParams(left, right)
	if err != nil {
		sc.fail(diagnostics.ErrA005, s.Token, err.Error())
		return
	}
	if err := sc.builder.AddMatchedPairs(pairs); err != nil {
		sc.reportConstraintError(s.Token, err)
	}
}

func (sc *scope) lowerTypeList(types []ast.Type) ([]typesystem.Type, bool) {
	var out []typesystem.Type
	for _, t := range types {
		lowered, ok := sc.lowerType(t)
		if !ok {
			return nil, false
		}
		out = append(out, lowered)
	}
	return out, true
}

func (sc *scope) validTupleSide(tok token.Token, elements []typesystem.LabeledElement) bool {
	if err := typesystem.ValidateTupleElements(elements); err != nil {
		sc.fail(diagnostics.ErrA004, tok, err.Error())
		return false
	}
	return true
}

func (sc *scope) validParamSide(tok token.Token, params []typesystem.Type) bool {
	if err := typesystem.ValidateParams(params); err != nil {
		sc.fail(diagnostics.ErrA004, tok, err.Error())
		return false
	}
	return true
}
