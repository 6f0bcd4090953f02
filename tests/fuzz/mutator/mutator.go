// Package mutator applies random structural mutations to parsed signature
// files. Mutated trees are printed back to source and re-parsed by fuzz
// targets; mutations may invalidate the semantics but must keep the tree
// printable.
package mutator

import (
	"math/rand"

	"github.com/funvibe/packsig/internal/ast"
)

// ASTMutator mutates an AST in place using a seeded random source.
type ASTMutator struct {
	rnd *rand.Rand
}

func NewASTMutator(seed int64) *ASTMutator {
	return &ASTMutator{rnd: rand.New(rand.NewSource(seed))}
}

// Mutate applies one random mutation to the file. Files without
// declarations are left alone.
func (m *ASTMutator) Mutate(file *ast.File) {
	if file == nil || len(file.Signatures) == 0 {
		return
	}
	sig := file.Signatures[m.rnd.Intn(len(file.Signatures))]

	switch m.rnd.Intn(4) {
	case 0:
		m.mutateParams(sig)
	case 1:
		m.mutateWhere(sig)
	case 2:
		m.mutateStmts(sig)
	default:
		m.renameSignature(sig)
	}
}

func (m *ASTMutator) renameSignature(sig *ast.SignatureDecl) {
	if sig.Name != nil {
		sig.Name.Value += "X"
	}
}

// mutateParams toggles packness of one parameter. This is the most
// interesting single-bit change: it flips which matching and equivalence
// rules apply to every reference downstream.
func (m *ASTMutator) mutateParams(sig *ast.SignatureDecl) {
	if len(sig.Params) == 0 {
		return
	}
	p := sig.Params[m.rnd.Intn(len(sig.Params))]
	p.Pack = !p.Pack
}

func (m *ASTMutator) mutateWhere(sig *ast.SignatureDecl) {
	if len(sig.Where) == 0 {
		return
	}
	idx := m.rnd.Intn(len(sig.Where))
	if m.rnd.Float64() < 0.3 {
		sig.Where = append(sig.Where[:idx], sig.Where[idx+1:]...)
		return
	}
	switch r := sig.Where[idx].(type) {
	case *ast.TypeRequirement:
		r.Left, r.Right = r.Right, r.Left
	case *ast.ShapeRequirement:
		r.Left, r.Right = r.Right, r.Left
	}
}

func (m *ASTMutator) mutateStmts(sig *ast.SignatureDecl) {
	if len(sig.Stmts) == 0 {
		return
	}
	idx := m.rnd.Intn(len(sig.Stmts))
	if m.rnd.Float64() < 0.2 {
		sig.Stmts = append(sig.Stmts[:idx], sig.Stmts[idx+1:]...)
		return
	}
	switch s := sig.Stmts[idx].(type) {
	case *ast.TupleMatch:
		m.mutateTupleMatch(s)
	case *ast.ParamsMatch:
		m.mutateParamsMatch(s)
	}
}

func (m *ASTMutator) mutateTupleMatch(stmt *ast.TupleMatch) {
	if m.rnd.Float64() < 0.4 {
		stmt.Left, stmt.Right = stmt.Right, stmt.Left
		return
	}
	side := stmt.Left
	if m.rnd.Intn(2) == 0 {
		side = stmt.Right
	}
	m.mutateTupleType(side)
}

func (m *ASTMutator) mutateTupleType(t *ast.TupleType) {
	if t == nil || len(t.Elements) == 0 {
		return
	}
	idx := m.rnd.Intn(len(t.Elements))
	el := t.Elements[idx]
	switch {
	case m.rnd.Float64() < 0.25:
		t.Elements = append(t.Elements[:idx], t.Elements[idx+1:]...)
	case el.Label != nil && m.rnd.Float64() < 0.5:
		// Dropping a label can erase an absorption boundary.
		el.Label = nil
	default:
		el.Type = m.toggleExpansion(el.Type)
	}
}

func (m *ASTMutator) mutateParamsMatch(stmt *ast.ParamsMatch) {
	if m.rnd.Float64() < 0.4 {
		stmt.Left, stmt.Right = stmt.Right, stmt.Left
		return
	}
	side := stmt.Left
	if m.rnd.Intn(2) == 0 {
		side = stmt.Right
	}
	if len(side) == 0 {
		return
	}
	idx := m.rnd.Intn(len(side))
	side[idx] = m.toggleExpansion(side[idx])
}

// toggleExpansion strips '...' from expansions and adds it to anything
// else. Both directions can violate structural rules (two expansions in a
// parameter list, expansion without a boundary) and drive the analyzer's
// error paths.
func (m *ASTMutator) toggleExpansion(t ast.Type) ast.Type {
	if t == nil {
		return t
	}
	if exp, ok := t.(*ast.ExpansionType); ok {
		return exp.Pattern
	}
	return &ast.ExpansionType{Token: t.GetToken(), Pattern: t}
}
