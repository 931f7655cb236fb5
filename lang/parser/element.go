package parser

import "github.com/ardnew/weft/lang/token"

// parseElement parses a base-type reference followed by a braced body.
func (p *Parser) parseElement() bool {
	g := p.startNode(KindElement)
	defer g.Close()

	if !p.parseQualifiedName() {
		if p.test(token.LBrace) {
			// recover
			p.parseElementContent()

			return p.expect(token.RBrace)
		}

		return false
	}

	if !p.expect(token.LBrace) {
		return false
	}

	p.parseElementContent()

	return p.expect(token.RBrace)
}

// parseElementContent parses everything between an element's braces.
// Dispatch is driven by at most two tokens of lookahead plus the text of
// contextual keywords. The parser only reports the first error of a run
// of unparsable tokens, but always consumes at least one token so the
// loop makes forward progress.
func (p *Parser) parseElementContent() {
	hadParseError := false

	for {
		switch p.nth(0).Kind {
		case token.RBrace, token.EOF:
			return

		case token.Identifier:
			switch kind1 := p.nth(1).Kind; {
			case kind1 == token.Colon:
				p.parsePropertyBinding()

			case kind1 == token.ColonEqual || kind1 == token.LBrace:
				if !p.parseSubElement() {
					hadParseError = true
				}

			case (kind1 == token.FatArrow || kind1 == token.LParen) && p.peekText() != "if":
				p.parseCallbackConnection()

			case kind1 == token.DoubleArrow:
				p.parseTwoWayBinding()

			case kind1 == token.Identifier && p.peekText() == "for":
				p.parseRepeatedElement()

			case kind1 == token.Identifier &&
				(p.peekText() == "callback" ||
					(p.peekText() == "pure" && p.nthText(1) == "callback")):
				p.parseCallbackDeclaration()

			case kind1 == token.Identifier &&
				(p.peekText() == "function" ||
					(isFunctionModifier(p.peekText()) && p.nthText(1) == "function") ||
					(isFunctionModifier(p.nthText(1)) && p.nthText(2) == "function")):
				p.parseFunction()

			case (kind1 == token.Identifier || kind1 == token.Star) && p.peekText() == "animate":
				p.parsePropertyAnimation()

			case kind1 == token.Identifier && p.peekText() == "changed":
				p.parseChangedCallback()

			case (kind1 == token.LAngle || kind1 == token.Identifier) && p.peekText() == "property":
				p.parsePropertyDeclaration()

			case kind1 == token.Identifier && p.nthText(1) == "property" &&
				isPropertyVisibility(p.peekText()):
				p.parsePropertyDeclaration()

			case p.peekText() == "if":
				p.parseIfElement()

			case kind1 == token.LBracket && p.peekText() == "states":
				p.parseStates()

			case kind1 == token.LBracket && p.peekText() == "transitions":
				p.parseTransitions()

			default:
				if p.peekText() == "changed" {
					// Recover a malformed changed-callback.
					p.parseChangedCallback()

					continue
				}

				p.consume()

				if !hadParseError {
					p.error("Parse error")

					hadParseError = true
				}
			}

		case token.At:
			cp := p.checkpoint()
			p.consume()

			if p.peekText() == "children" {
				g := p.startNodeAt(cp, KindChildrenPlaceholder)
				p.consume()
				g.Close()
			} else {
				p.test(token.Identifier)
				p.error("Parse error: Expected @children")
			}

		default:
			if !hadParseError {
				p.error("Parse error")

				hadParseError = true
			}

			p.consume()
		}
	}
}

func isFunctionModifier(s string) bool {
	return s == "public" || s == "pure" || s == "protected"
}

func isPropertyVisibility(s string) bool {
	return s == "in" || s == "out" || s == "in-out" || s == "private"
}

// parseSubElement parses an optionally named child element:
//
//	Bar {}
//	foo := Bar {}
func (p *Parser) parseSubElement() bool {
	g := p.startNode(KindSubElement)
	defer g.Close()

	if p.nth(1).Kind == token.ColonEqual {
		p.expect(token.Identifier)
		p.expect(token.ColonEqual)
	}

	return p.parseElement()
}

// parseRepeatedElement parses:
//
//	for xx in model: Elem { }
//	for xx[idx] in model: Elem { }
//	for [idx] in model: Elem { }
func (p *Parser) parseRepeatedElement() {
	g := p.startNode(KindRepeatedElement)
	defer g.Close()

	p.expect(token.Identifier) // "for"

	if p.nth(0).Kind == token.Identifier {
		gi := p.startNode(KindDeclaredIdentifier)
		p.expect(token.Identifier)
		gi.Close()
	}

	if p.nth(0).Kind == token.LBracket {
		gi := p.startNode(KindRepeatedIndex)
		p.expect(token.LBracket)
		p.expect(token.Identifier)
		p.expect(token.RBracket)
		gi.Close()
	}

	if p.peekText() != "in" {
		p.error("Invalid 'for' syntax: there should be a 'in' token")
		// Synthesize the missing parts so the node keeps its shape.
		p.startNode(KindExpression).Close()

		gs := p.startNode(KindSubElement)
		p.startNode(KindElement).Close()
		gs.Close()

		return
	}

	p.consume() // "in"
	p.parseExpression()
	p.expect(token.Colon)
	p.parseSubElement()
}

// parseIfElement parses:
//
//	if condition : Elem { }
func (p *Parser) parseIfElement() {
	g := p.startNode(KindConditionalElement)
	defer g.Close()

	p.expect(token.Identifier) // "if"
	p.parseExpression()

	if !p.expect(token.Colon) {
		gs := p.startNode(KindSubElement)
		p.startNode(KindElement).Close()
		gs.Close()

		return
	}

	p.parseSubElement()
}

// parsePropertyBinding parses `name: expression-or-block`.
func (p *Parser) parsePropertyBinding() {
	g := p.startNode(KindBinding)
	defer g.Close()

	p.consume()
	p.expect(token.Colon)
	p.parseBindingExpression()
}

// parseBindingExpression parses the right-hand side of a binding: a code
// block or an expression, each with an optional trailing semicolon.
// A '{' opening an object literal is told apart from a code block by the
// ':' after the first member name.
func (p *Parser) parseBindingExpression() bool {
	g := p.startNode(KindBindingExpression)
	defer g.Close()

	if p.nth(0).Kind == token.LBrace && p.nth(2).Kind != token.Colon {
		p.parseCodeBlock()
		p.test(token.Semicolon)

		return true
	}

	if p.parseExpression() {
		return p.expect(token.Semicolon)
	}

	p.test(token.Semicolon)

	return false
}

// parseCodeBlock parses a braced statement list.
func (p *Parser) parseCodeBlock() {
	g := p.startNode(KindCodeBlock)
	defer g.Close()

	p.expect(token.LBrace)

	for p.nth(0).Kind != token.RBrace {
		if !p.parseStatement() {
			break
		}
	}

	p.expect(token.RBrace)
}

// parseCallbackConnection parses:
//
//	clicked => { ... }
//	moved(x, y) => { ... }
func (p *Parser) parseCallbackConnection() {
	g := p.startNode(KindCallbackConnection)
	defer g.Close()

	p.consume() // the callback name

	if p.test(token.LParen) {
		for p.peek().Kind != token.RParen {
			gi := p.startNode(KindDeclaredIdentifier)
			p.expect(token.Identifier)
			gi.Close()

			if !p.test(token.Comma) {
				break
			}
		}

		p.expect(token.RParen)
	}

	p.expect(token.FatArrow)

	if p.nth(0).Kind == token.LBrace && p.nth(2).Kind != token.Colon {
		p.parseCodeBlock()
		p.test(token.Semicolon)
	} else if p.parseExpression() {
		p.expect(token.Semicolon)
	} else {
		p.test(token.Semicolon)
	}
}

// parseTwoWayBinding parses `name <=> other.property;`.
func (p *Parser) parseTwoWayBinding() {
	g := p.startNode(KindTwoWayBinding)
	defer g.Close()

	p.consume() // the property name
	p.expect(token.DoubleArrow)
	p.parseExpression()
	p.expect(token.Semicolon)
}

// parseCallbackDeclaration parses:
//
//	callback name;
//	pure callback name(int, string) -> int;
//	callback name(arg: int);
//	callback name <=> other.name;
func (p *Parser) parseCallbackDeclaration() {
	g := p.startNode(KindCallbackDeclaration)
	defer g.Close()

	if p.peekText() == "pure" {
		p.consume()
	}

	p.expect(token.Identifier) // "callback"

	{
		gi := p.startNode(KindDeclaredIdentifier)
		p.expect(token.Identifier)
		gi.Close()
	}

	if p.test(token.LParen) {
		for p.peek().Kind != token.RParen {
			gp := p.startNode(KindCallbackDeclarationParameter)

			if p.peek().Kind == token.Identifier && p.nth(1).Kind == token.Colon {
				gi := p.startNode(KindDeclaredIdentifier)
				p.expect(token.Identifier)
				gi.Close()
				p.expect(token.Colon)
			}

			p.parseType()
			gp.Close()

			if !p.test(token.Comma) {
				break
			}
		}

		p.expect(token.RParen)

		if p.test(token.Arrow) {
			gr := p.startNode(KindReturnType)
			p.parseType()
			gr.Close()
		}

		if p.peek().Kind == token.DoubleArrow {
			p.error("When declaring a callback alias, one must omit parentheses. e.g. 'callback foo <=> other.bar;'")
		}
	} else if p.test(token.Arrow) {
		p.error("Callback with return value must be declared with parentheses e.g. 'callback foo() -> int;'")
		p.parseType()
	}

	if p.peek().Kind == token.DoubleArrow {
		gt := p.startNode(KindTwoWayBinding)
		p.expect(token.DoubleArrow)
		p.parseExpression()
		gt.Close()
	}

	p.expect(token.Semicolon)
}

// parsePropertyDeclaration parses:
//
//	property<int> name;
//	in property <string> name: "default";
//	property alias <=> two.way;
func (p *Parser) parsePropertyDeclaration() {
	cp := p.checkpoint()

	for isPropertyVisibility(p.peekText()) {
		p.consume()
	}

	if p.peekText() != "property" {
		p.error("Expected 'property' keyword")

		return
	}

	g := p.startNodeAt(cp, KindPropertyDeclaration)
	defer g.Close()

	p.consume() // "property"

	if p.test(token.LAngle) {
		p.parseType()
		p.expect(token.RAngle)
	} else if p.nth(0).Kind == token.Identifier && p.nth(1).Kind != token.DoubleArrow {
		p.error("Missing type. The syntax to declare a property is `property <type> name;`. Only two way bindings can omit the type")
	}

	{
		gi := p.startNode(KindDeclaredIdentifier)
		p.expect(token.Identifier)
		gi.Close()
	}

	switch p.nth(0).Kind {
	case token.Colon:
		p.consume()
		p.parseBindingExpression()

	case token.DoubleArrow:
		gt := p.startNode(KindTwoWayBinding)
		p.consume()
		p.parseExpression()
		p.expect(token.Semicolon)
		gt.Close()

	default:
		p.expect(token.Semicolon)
	}
}

// parsePropertyAnimation parses:
//
//	animate x { duration: 100ms; }
//	animate x, y { }
//	animate * { }
func (p *Parser) parsePropertyAnimation() {
	g := p.startNode(KindPropertyAnimation)
	defer g.Close()

	p.expect(token.Identifier) // "animate"

	if p.nth(0).Kind == token.Star {
		p.consume()
	} else {
		p.parseQualifiedName()

		for p.nth(0).Kind == token.Comma {
			p.consume()
			p.parseQualifiedName()
		}
	}

	p.expect(token.LBrace)

	for {
		switch p.nth(0).Kind {
		case token.RBrace:
			p.consume()

			return

		case token.EOF:
			return

		case token.Identifier:
			if p.nth(1).Kind == token.Colon {
				p.parsePropertyBinding()
			} else {
				p.consume()
				p.error("Only bindings are allowed in animations")
			}

		default:
			p.consume()
			p.error("Only bindings are allowed in animations")
		}
	}
}

// parseChangedCallback parses:
//
//	changed property-name => { ... }
func (p *Parser) parseChangedCallback() {
	g := p.startNode(KindPropertyChangedCallback)
	defer g.Close()

	p.expect(token.Identifier) // "changed"

	{
		gi := p.startNode(KindDeclaredIdentifier)
		p.expect(token.Identifier)
		gi.Close()
	}

	p.expect(token.FatArrow)
	p.parseCodeBlock()
}

// parseStates parses `states [ ... ]`.
func (p *Parser) parseStates() {
	g := p.startNode(KindStates)
	defer g.Close()

	p.expect(token.Identifier) // "states"
	p.expect(token.LBracket)

	for p.parseState() {
	}

	p.expect(token.RBracket)
}

// parseState parses one state entry with an optional `when` guard and a
// braced list of property changes and in/out transitions.
func (p *Parser) parseState() bool {
	if p.nth(0).Kind != token.Identifier {
		return false
	}

	g := p.startNode(KindState)
	defer g.Close()

	{
		gi := p.startNode(KindDeclaredIdentifier)
		p.expect(token.Identifier)
		gi.Close()
	}

	if p.peekText() == "when" {
		p.consume()
		p.parseExpression()
	}

	p.expect(token.Colon)

	if !p.expect(token.LBrace) {
		return false
	}

	for {
		switch p.nth(0).Kind {
		case token.RBrace:
			p.consume()

			return true

		case token.EOF:
			return false

		default:
			if p.nth(1).Kind == token.LBrace && isTransitionDirection(p.peekText()) {
				gt := p.startNode(KindTransition)
				p.consume() // "in", "out" or "in-out"
				p.expect(token.LBrace)
				ok := p.parseTransitionInner()
				gt.Close()

				if !ok {
					return false
				}

				continue
			}

			cp := p.checkpoint()

			if !p.parseQualifiedName() ||
				!p.expect(token.Colon) ||
				!p.parseBindingExpression() {
				p.test(token.RBrace)

				return false
			}

			p.startNodeAt(cp, KindStatePropertyChange).Close()
		}
	}
}

func isTransitionDirection(s string) bool {
	return s == "in" || s == "out" || s == "in-out"
}

// parseTransitions parses `transitions [ ... ]`.
func (p *Parser) parseTransitions() {
	g := p.startNode(KindTransitions)
	defer g.Close()

	p.expect(token.Identifier) // "transitions"
	p.expect(token.LBracket)

	for p.nth(0).Kind != token.RBracket && p.parseTransition() {
	}

	p.expect(token.RBracket)
}

// parseTransition parses `in|out|in-out state-name : { animate ... }`.
func (p *Parser) parseTransition() bool {
	if !isTransitionDirection(p.peekText()) {
		p.error("Expected 'in', 'out', or 'in-out' to declare a transition")

		return false
	}

	g := p.startNode(KindTransition)
	defer g.Close()

	p.consume() // "in", "out" or "in-out"

	{
		gi := p.startNode(KindDeclaredIdentifier)
		p.expect(token.Identifier)
		gi.Close()
	}

	p.expect(token.Colon)

	if !p.expect(token.LBrace) {
		return false
	}

	return p.parseTransitionInner()
}

func (p *Parser) parseTransitionInner() bool {
	for {
		switch p.nth(0).Kind {
		case token.RBrace:
			p.consume()

			return true

		case token.EOF:
			return false

		case token.Identifier:
			if p.peekText() == "animate" {
				p.parsePropertyAnimation()

				continue
			}

			p.consume()
			p.error("Expected 'animate'")

		default:
			p.consume()
			p.error("Expected 'animate'")
		}
	}
}

// parseFunction parses:
//
//	function name(arg: type) -> type { ... }
//	public pure function name() { ... }
func (p *Parser) parseFunction() {
	g := p.startNode(KindFunction)
	defer g.Close()

	if p.peekText() == "public" || p.peekText() == "protected" {
		p.consume()

		if p.peekText() == "pure" {
			p.consume()
		}
	} else if p.peekText() == "pure" {
		p.consume()

		if p.peekText() == "public" || p.peekText() == "protected" {
			p.consume()
		}
	}

	if p.peekText() != "function" {
		p.error("Unexpected identifier")
		p.consume()

		for p.peek().Kind == token.Identifier && p.peekText() != "function" {
			p.consume()
		}
	}

	p.expect(token.Identifier) // "function"

	{
		gi := p.startNode(KindDeclaredIdentifier)
		p.expect(token.Identifier)
		gi.Close()
	}

	if p.expect(token.LParen) {
		for p.peek().Kind != token.RParen {
			ga := p.startNode(KindArgumentDeclaration)

			{
				gi := p.startNode(KindDeclaredIdentifier)
				p.expect(token.Identifier)
				gi.Close()
			}

			p.expect(token.Colon)
			p.parseType()
			ga.Close()

			if !p.test(token.Comma) {
				break
			}
		}

		p.expect(token.RParen)

		if p.test(token.Arrow) {
			gr := p.startNode(KindReturnType)
			p.parseType()
			gr.Close()
		}
	}

	p.parseCodeBlock()
}
