package parser

import (
	"fmt"
	"strconv"

	"github.com/funvibe/packsig/internal/ast"
	"github.com/funvibe/packsig/internal/diagnostics"
	"github.com/funvibe/packsig/internal/pipeline"
	"github.com/funvibe/packsig/internal/token"
)

// Parser is a recursive descent parser over a pre-lexed token stream.
// Parse functions leave curToken on the last token of whatever they
// parsed; callers advance past it. Errors are accumulated as diagnostics
// on the pipeline context, never panicked.
type Parser struct {
	tokens []token.Token
	pos    int
	ctx    *pipeline.PipelineContext

	curToken  token.Token
	peekToken token.Token
}

func New(tokens []token.Token, ctx *pipeline.PipelineContext) *Parser {
	if len(tokens) == 0 {
		tokens = []token.Token{{Type: token.EOF}}
	}
	p := &Parser{tokens: tokens, ctx: ctx}
	// Prime curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else if n := len(p.tokens); n > 0 {
		p.peekToken = p.tokens[n-1] // EOF repeats forever
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(
		diagnostics.ErrP002, p.peekToken,
		fmt.Sprintf("'%s', got '%s'", t, p.peekToken.Lexeme),
	))
}

func (p *Parser) errorAtCur(code diagnostics.ErrorCode, details ...any) {
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(code, p.curToken, details...))
}

// ParseFile parses every signature declaration in the stream.
func (p *Parser) ParseFile() *ast.File {
	file := &ast.File{Path: p.ctx.FilePath}
	for !p.curTokenIs(token.EOF) {
		if !p.curTokenIs(token.SIGNATURE) {
			p.errorAtCur(diagnostics.ErrP001, "'"+p.curToken.Lexeme+"'")
			p.synchronize()
			continue
		}
		decl := p.parseSignatureDecl()
		if decl == nil {
			p.synchronize()
			continue
		}
		file.Signatures = append(file.Signatures, decl)
		p.nextToken()
	}
	return file
}

// synchronize skips ahead to the next signature declaration so one bad
// declaration does not drown the rest of the file in follow-on errors.
func (p *Parser) synchronize() {
	p.nextToken()
	for !p.curTokenIs(token.EOF) && !p.curTokenIs(token.SIGNATURE) {
		p.nextToken()
	}
}

func (p *Parser) parseSignatureDecl() *ast.SignatureDecl {
	decl := &ast.SignatureDecl{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}

	if !p.expectPeek(token.LT) {
		return nil
	}
	params, ok := p.parseGenericParams()
	if !ok {
		return nil
	}
	decl.Params = params

	if p.peekTokenIs(token.WHERE) {
		p.nextToken()
		where, ok := p.parseWhereClause()
		if !ok {
			return nil
		}
		decl.Where = where
	}

	if p.peekTokenIs(token.LBRACE) {
		p.nextToken()
		stmts, ok := p.parseSignatureBody()
		if !ok {
			return nil
		}
		decl.Stmts = stmts
	}
	return decl
}

// parseGenericParams parses the comma separated parameter list between
// '<' and '>'. curToken is on '<' at entry and on '>' at exit.
func (p *Parser) parseGenericParams() ([]*ast.GenericParamDecl, bool) {
	var params []*ast.GenericParamDecl
	for {
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		param := &ast.GenericParamDecl{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
		}
		if p.peekTokenIs(token.ELLIPSIS) {
			p.nextToken()
			param.Pack = true
		}
		params = append(params, param)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.GT) {
			return nil, false
		}
		return params, true
	}
}

// parseWhereClause parses the comma separated requirement list. curToken
// is on 'where' at entry and on the last token of the final requirement at
// exit.
func (p *Parser) parseWhereClause() ([]ast.Requirement, bool) {
	var reqs []ast.Requirement
	for {
		p.nextToken()
		req := p.parseRequirement()
		if req == nil {
			return nil, false
		}
		reqs = append(reqs, req)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		return reqs, true
	}
}

// parseRequirement parses one 'operand == operand' clause. Both operands
// must be types, or both must be shapes; a clause mixing the two has no
// meaning.
func (p *Parser) parseRequirement() ast.Requirement {
	leftType, leftShape := p.parseRequirementOperand()
	if leftType == nil && leftShape == nil {
		return nil
	}

	if !p.expectPeek(token.EQ) {
		return nil
	}
	eqTok := p.curToken

	p.nextToken()
	rightType, rightShape := p.parseRequirementOperand()
	if rightType == nil && rightShape == nil {
		return nil
	}

	switch {
	case leftShape != nil && rightShape != nil:
		return &ast.ShapeRequirement{Token: eqTok, Left: leftShape, Right: rightShape}
	case leftType != nil && rightType != nil:
		return &ast.TypeRequirement{Token: eqTok, Left: leftType, Right: rightType}
	default:
		p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(
			diagnostics.ErrP004, eqTok,
			"one side is a type and the other a shape",
		))
		return nil
	}
}

// parseRequirementOperand parses either a shape operand (T.shape, an
// integer) or a type expression. Exactly one result is non-nil on
// success.
func (p *Parser) parseRequirementOperand() (ast.Type, ast.ShapeOperand) {
	if p.curTokenIs(token.INT) {
		value, err := strconv.Atoi(p.curToken.Literal)
		if err != nil || value < 0 {
			p.errorAtCur(diagnostics.ErrP005, "'"+p.curToken.Lexeme+"'")
			return nil, nil
		}
		return nil, &ast.ArityLit{Token: p.curToken, Value: value}
	}

	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.DOT) {
		nameTok := p.curToken
		name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		p.nextToken() // .
		if !p.expectPeek(token.IDENT) {
			return nil, nil
		}
		if p.curToken.Lexeme != "shape" {
			p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(
				diagnostics.ErrP004, p.curToken,
				fmt.Sprintf("'.%s' is not a shape reference, only '.shape' is", p.curToken.Lexeme),
			))
			return nil, nil
		}
		return nil, &ast.ShapeOf{Token: nameTok, Param: name}
	}

	typ := p.parseType()
	if typ == nil {
		return nil, nil
	}
	return typ, nil
}

// parseSignatureBody parses the statements between '{' and '}'. curToken
// is on '{' at entry and on '}' at exit.
func (p *Parser) parseSignatureBody() ([]ast.Stmt, bool) {
	var stmts []ast.Stmt
	for {
		p.nextToken()
		switch p.curToken.Type {
		case token.RBRACE:
			return stmts, true
		case token.EOF:
			p.errorAtCur(diagnostics.ErrP002, "'}', got end of file")
			return nil, false
		case token.TUPLE:
			stmt := p.parseTupleMatch()
			if stmt == nil {
				return nil, false
			}
			stmts = append(stmts, stmt)
		case token.PARAMS:
			stmt := p.parseParamsMatch()
			if stmt == nil {
				return nil, false
			}
			stmts = append(stmts, stmt)
		default:
			p.errorAtCur(diagnostics.ErrP001, "'"+p.curToken.Lexeme+"', expected 'tuple' or 'params'")
			return nil, false
		}
	}
}

func (p *Parser) parseTupleMatch() *ast.TupleMatch {
	stmt := &ast.TupleMatch{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	stmt.Left = p.parseTupleType()
	if stmt.Left == nil {
		return nil
	}

	if !p.expectPeek(token.TILDE) {
		return nil
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	stmt.Right = p.parseTupleType()
	if stmt.Right == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseParamsMatch() *ast.ParamsMatch {
	stmt := &ast.ParamsMatch{Token: p.curToken}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	left, ok := p.parseTypeList(token.RPAREN)
	if !ok {
		return nil
	}
	stmt.Left = left

	if !p.expectPeek(token.TILDE) {
		return nil
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	right, ok := p.parseTypeList(token.RPAREN)
	if !ok {
		return nil
	}
	stmt.Right = right
	return stmt
}
