package parser

import "github.com/ardnew/weft/lang/token"

// parseType parses a type reference: a (qualified) name, an anonymous
// object type, or an array type.
func (p *Parser) parseType() {
	g := p.startNode(KindType)
	defer g.Close()

	switch p.nth(0).Kind {
	case token.LBrace:
		p.parseObjectType()
	case token.LBracket:
		p.parseArrayType()
	default:
		p.parseQualifiedName()
	}
}

// parseObjectType parses `{ name: type, ... }`.
func (p *Parser) parseObjectType() {
	g := p.startNode(KindObjectType)
	defer g.Close()

	p.expect(token.LBrace)

	for p.nth(0).Kind != token.RBrace {
		gm := p.startNode(KindObjectTypeMember)
		p.expect(token.Identifier)
		p.expect(token.Colon)
		p.parseType()
		gm.Close()

		if !p.test(token.Comma) {
			break
		}
	}

	p.expect(token.RBrace)
}

// parseArrayType parses `[ type ]`.
func (p *Parser) parseArrayType() {
	g := p.startNode(KindArrayType)
	defer g.Close()

	p.expect(token.LBracket)
	p.parseType()
	p.expect(token.RBracket)
}

// parseStructDeclaration parses:
//
//	struct Name { field: type, ... }
func (p *Parser) parseStructDeclaration() bool {
	g := p.startNode(KindStructDeclaration)
	defer g.Close()

	p.consume() // "struct"

	{
		gi := p.startNode(KindDeclaredIdentifier)
		ok := p.expect(token.Identifier)
		gi.Close()

		if !ok {
			return false
		}
	}

	if p.peek().Kind == token.ColonEqual {
		p.warning("':=' to declare a struct is deprecated. Remove the ':='")
		p.consume()
	}

	p.parseObjectType()

	return true
}

// parseEnumDeclaration parses:
//
//	enum Name { value, value, ... }
func (p *Parser) parseEnumDeclaration() bool {
	g := p.startNode(KindEnumDeclaration)
	defer g.Close()

	p.consume() // "enum"

	{
		gi := p.startNode(KindDeclaredIdentifier)
		ok := p.expect(token.Identifier)
		gi.Close()

		if !ok {
			return false
		}
	}

	if !p.expect(token.LBrace) {
		return false
	}

	for p.nth(0).Kind != token.RBrace {
		if !p.expect(token.Identifier) {
			return false
		}

		if !p.test(token.Comma) {
			break
		}
	}

	return p.expect(token.RBrace)
}
