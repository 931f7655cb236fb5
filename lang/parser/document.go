package parser

import (
	"strings"

	"github.com/ardnew/weft/lang/token"
)

// ParseDocument parses a whole document and returns its root node.
// The root always covers every input token.
func (p *Parser) ParseDocument() *Node {
	g := p.startNode(KindDocument)
	defer g.Close()

	for {
		if p.test(token.EOF) {
			return g.n
		}

		if p.peek().Kind == token.Semicolon {
			p.error("Extra semicolon. Remove this semicolon")
			p.consume()

			continue
		}

		ok := true

		switch p.peekText() {
		case "export":
			ok = p.parseExport()
		case "import":
			ok = p.parseImportSpecifier()
		case "struct":
			ok = p.parseStructDeclaration()
		case "enum":
			ok = p.parseEnumDeclaration()
		default:
			ok = p.parseComponent()
		}

		if !ok {
			break
		}
	}

	// Always consume the whole document
	for !p.test(token.EOF) {
		p.consume()
	}

	return g.n
}

// parseComponent parses one of the three component forms:
//
//	component Name { ... }
//	component Name inherits Base { ... }
//	Name := Base { ... }
//	global Name { ... }
func (p *Parser) parseComponent() bool {
	simpleComponent := p.nth(1).Kind == token.ColonEqual
	isGlobal := !simpleComponent && p.peekText() == "global"
	isNewComponent := !simpleComponent && p.peekText() == "component"

	if !isGlobal && !simpleComponent && !isNewComponent {
		p.error("Parse error: expected a top-level item such as a component, a struct, or a global")

		return false
	}

	g := p.startNode(KindComponent)
	defer g.Close()

	if isGlobal || isNewComponent {
		p.consume() // "global" or "component"
	}

	{
		gi := p.startNode(KindDeclaredIdentifier)
		ok := p.expect(token.Identifier)
		gi.Close()

		if !ok {
			p.startNode(KindElement).Close()

			return false
		}
	}

	switch {
	case isGlobal:
		if p.peek().Kind == token.ColonEqual {
			p.warning("':=' to declare a global is deprecated. Remove the ':='")
			p.consume()
		}

	case !isNewComponent:
		if p.peek().Kind == token.ColonEqual {
			p.warning("':=' to declare a component is deprecated. The new syntax declares components with 'component MyComponent {'")
		}

		if !p.expect(token.ColonEqual) {
			p.startNode(KindElement).Close()

			return false
		}

	default:
		if p.peekText() == "inherits" {
			p.consume()
		} else if p.peek().Kind == token.LBrace {
			ge := p.startNode(KindElement)
			defer ge.Close()
			p.consume()
			p.parseElementContent()

			return p.expect(token.RBrace)
		} else {
			p.error("Expected '{' or keyword 'inherits'")
			p.startNode(KindElement).Close()

			return false
		}
	}

	if isGlobal && p.peek().Kind == token.LBrace {
		ge := p.startNode(KindElement)
		defer ge.Close()
		p.consume()
		p.parseElementContent()

		return p.expect(token.RBrace)
	}

	return p.parseElement()
}

// parseQualifiedName parses a dotted identifier path like
// Deeply.Nested.Name.
func (p *Parser) parseQualifiedName() bool {
	g := p.startNode(KindQualifiedName)
	defer g.Close()

	if !p.expect(token.Identifier) {
		return false
	}

	for p.nth(0).Kind == token.Dot {
		p.consume()
		p.expect(token.Identifier)
	}

	return true
}

// parseExport parses the export list forms:
//
//	export { Type }
//	export { Type as Foo, AnotherType }
//	export Foo := Item { }
//	export struct Foo { ... }
//	export enum Foo { ... }
//	export * from "path";
func (p *Parser) parseExport() bool {
	g := p.startNode(KindExportsList)
	defer g.Close()

	p.expect(token.Identifier) // "export"

	if p.test(token.LBrace) {
		for {
			p.parseExportSpecifier()

			switch p.nth(0).Kind {
			case token.RBrace:
				p.consume()

				return true
			case token.EOF:
				p.error("Expected comma")

				return false
			case token.Comma:
				p.consume()
			default:
				p.consume()
				p.error("Expected comma")
			}
		}
	}

	switch {
	case p.peekText() == "struct":
		return p.parseStructDeclaration()
	case p.peekText() == "enum":
		return p.parseEnumDeclaration()
	case p.peek().Kind == token.Star:
		gm := p.startNode(KindExportModule)
		defer gm.Close()
		p.consume() // *

		if p.peekText() != "from" {
			p.error("Expected from keyword for export statement")

			return false
		}

		p.consume()

		if !p.testPlainString() {
			return false
		}

		return p.expect(token.Semicolon)
	default:
		return p.parseComponent()
	}
}

func (p *Parser) parseExportSpecifier() bool {
	g := p.startNode(KindExportSpecifier)
	defer g.Close()

	{
		gi := p.startNode(KindExportIdentifier)
		ok := p.expect(token.Identifier)
		gi.Close()

		if !ok {
			return false
		}
	}

	if p.peekText() == "as" {
		p.consume()

		gn := p.startNode(KindExportName)
		ok := p.expect(token.Identifier)
		gn.Close()

		if !ok {
			return false
		}
	}

	return true
}

// parseImportSpecifier parses:
//
//	import { Type1, Type2 } from "path";
//	import "resource.ttf";
func (p *Parser) parseImportSpecifier() bool {
	g := p.startNode(KindImportSpecifier)
	defer g.Close()

	p.expect(token.Identifier) // "import"

	if p.peek().Kind != token.StringLiteral {
		if !p.parseImportIdentifierList() {
			return false
		}

		if p.peekText() != "from" {
			p.error("Expected from keyword for import statement")

			return false
		}

		if !p.expect(token.Identifier) {
			return false
		}
	}

	if !p.testPlainString() {
		return false
	}

	return p.expect(token.Semicolon)
}

func (p *Parser) parseImportIdentifierList() bool {
	g := p.startNode(KindImportIdentifierList)
	defer g.Close()

	if !p.expect(token.LBrace) {
		return false
	}

	if p.test(token.RBrace) {
		return true
	}

	for {
		p.parseImportIdentifier()

		switch p.nth(0).Kind {
		case token.RBrace:
			p.consume()

			return true
		case token.EOF:
			return false
		case token.Comma:
			p.consume()
		default:
			p.consume()
			p.error("Expected comma")
		}
	}
}

func (p *Parser) parseImportIdentifier() bool {
	g := p.startNode(KindImportIdentifier)
	defer g.Close()

	{
		ge := p.startNode(KindExternalName)
		ok := p.expect(token.Identifier)
		ge.Close()

		if !ok {
			return false
		}
	}

	if p.nth(0).Kind == token.Identifier && p.peekText() == "as" {
		p.consume()

		gi := p.startNode(KindInternalName)
		ok := p.expect(token.Identifier)
		gi.Close()

		if !ok {
			return false
		}
	}

	return true
}

// testPlainString consumes a string literal token, verifying it is a
// plain quoted string.
func (p *Parser) testPlainString() bool {
	peek := p.peek()
	if peek.Kind != token.StringLiteral ||
		!strings.HasPrefix(peek.Text, `"`) || !strings.HasSuffix(peek.Text, `"`) {
		p.error("Expected plain string literal")

		return false
	}

	p.consume()

	return true
}
