package parser

import (
	"github.com/funvibe/packsig/internal/ast"
	"github.com/funvibe/packsig/internal/diagnostics"
	"github.com/funvibe/packsig/internal/token"
)

// parseType parses one type expression. curToken is on the type's first
// token at entry and on its last token at exit. A trailing '...' binds
// to the whole expression, so fn(T) -> U... expands the function type,
// not its result.
func (p *Parser) parseType() ast.Type {
	typ := p.parseTypeAtom()
	if typ == nil {
		return nil
	}

	if p.peekTokenIs(token.ELLIPSIS) {
		p.nextToken()
		typ = &ast.ExpansionType{Token: p.curToken, Pattern: typ}
	}
	return typ
}

func (p *Parser) parseTypeAtom() ast.Type {
	switch p.curToken.Type {
	case token.IDENT:
		return p.parseNamedType()
	case token.LPAREN:
		tt := p.parseTupleType()
		if tt == nil {
			return nil
		}
		return tt
	case token.FN:
		return p.parseFunctionType()
	default:
		p.errorAtCur(diagnostics.ErrP003, "'"+p.curToken.Lexeme+"' does not start a type")
		return nil
	}
}

// parseNamedType parses a name with optional angle bracket arguments:
// Int, T, Array<T>, Map<String, V>.
func (p *Parser) parseNamedType() ast.Type {
	nt := &ast.NamedType{
		Token: p.curToken,
		Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme},
	}
	if !p.peekTokenIs(token.LT) {
		return nt
	}
	p.nextToken() // <
	for {
		p.nextToken()
		arg := p.parseType()
		if arg == nil {
			return nil
		}
		nt.Args = append(nt.Args, arg)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.GT) {
			return nil
		}
		return nt
	}
}

// parseTupleType parses a parenthesized element list with optional
// labels. curToken is on '(' at entry and on ')' at exit.
func (p *Parser) parseTupleType() *ast.TupleType {
	tt := &ast.TupleType{Token: p.curToken}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return tt
	}
	for {
		p.nextToken()
		elt := p.parseTupleElement()
		if elt == nil {
			return nil
		}
		tt.Elements = append(tt.Elements, elt)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return tt
	}
}

func (p *Parser) parseTupleElement() *ast.TupleElement {
	elt := &ast.TupleElement{Token: p.curToken}
	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON) {
		elt.Label = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		p.nextToken() // :
		p.nextToken() // first token of the element type
	}
	elt.Type = p.parseType()
	if elt.Type == nil {
		return nil
	}
	return elt
}

// parseTypeList parses a comma separated list of types up to the closing
// token. curToken is on the opener at entry and on the closer at exit.
func (p *Parser) parseTypeList(end token.TokenType) ([]ast.Type, bool) {
	var list []ast.Type
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}
	for {
		p.nextToken()
		typ := p.parseType()
		if typ == nil {
			return nil, false
		}
		list = append(list, typ)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(end) {
			return nil, false
		}
		return list, true
	}
}

// parseFunctionType parses fn(types) -> type. curToken is on 'fn' at
// entry and on the result type's last token at exit.
func (p *Parser) parseFunctionType() ast.Type {
	ft := &ast.FunctionType{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseTypeList(token.RPAREN)
	if !ok {
		return nil
	}
	ft.Params = params

	if !p.expectPeek(token.ARROW) {
		return nil
	}
	p.nextToken()
	ft.Result = p.parseTypeAtom()
	if ft.Result == nil {
		return nil
	}
	return ft
}
