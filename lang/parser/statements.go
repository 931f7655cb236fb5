package parser

import "github.com/ardnew/weft/lang/token"

// parseStatement parses one statement inside a code block:
//
//	;
//	expression ;
//	target = expression ;
//	target += expression ;
//	return [expression] ;
//	if (condition) { ... } else ...
//
// It returns false when the enclosing block should stop, either because
// the closing brace was reached or no progress could be made.
func (p *Parser) parseStatement() bool {
	if p.nth(0).Kind == token.RBrace {
		return false
	}

	if p.test(token.Semicolon) {
		return true
	}

	if p.peekText() == "return" {
		p.parseReturnStatement()

		return true
	}

	if p.peekText() == "if" && p.nth(1).Kind == token.LParen {
		p.parseIfStatement()

		return true
	}

	cp := p.checkpoint()

	if !p.parseExpression() {
		// The expression error already consumed nothing; bail out so the
		// block's recovery takes over.
		return p.nth(0).Kind != token.EOF && progressConsume(p)
	}

	if isAssignmentOperator(p.nth(0).Kind) {
		ga := p.startNodeAt(cp, KindSelfAssignment)
		p.consume()
		p.parseExpression()
		ga.Close()
	}

	if p.nth(0).Kind == token.RBrace {
		return true
	}

	return p.expect(token.Semicolon)
}

func isAssignmentOperator(k token.Kind) bool {
	switch k {
	case token.Equal, token.PlusEqual, token.MinusEqual,
		token.StarEqual, token.DivEqual:
		return true
	default:
		return false
	}
}

// progressConsume consumes one token so statement parsing always moves
// forward after an error.
func progressConsume(p *Parser) bool {
	p.consume()

	return true
}

// parseReturnStatement parses `return;` or `return expression;`.
func (p *Parser) parseReturnStatement() {
	g := p.startNode(KindReturnStatement)
	defer g.Close()

	p.consume() // "return"

	if p.nth(0).Kind != token.Semicolon && p.nth(0).Kind != token.RBrace {
		p.parseExpression()
	}

	p.test(token.Semicolon)
}

// parseIfStatement parses an if statement, represented in the tree as a
// conditional expression whose branches are code blocks:
//
//	if (cond) { ... }
//	if (cond) { ... } else { ... }
//	if (cond) { ... } else if (other) { ... }
//
// A missing else branch is recorded as an empty Expression so the node
// always has condition, true, and false children.
func (p *Parser) parseIfStatement() {
	ge := p.startNode(KindExpression)
	defer ge.Close()

	g := p.startNode(KindConditionalExpression)
	defer g.Close()

	p.consume() // "if"
	p.expect(token.LParen)
	p.parseExpression()
	p.expect(token.RParen)

	{
		gt := p.startNode(KindExpression)
		p.parseCodeBlock()
		gt.Close()
	}

	if p.peekText() == "else" {
		p.consume()

		if p.peekText() == "if" && p.nth(1).Kind == token.LParen {
			p.parseIfStatement()
		} else {
			gf := p.startNode(KindExpression)
			p.parseCodeBlock()
			gf.Close()
		}

		return
	}

	p.startNode(KindExpression).Close()
}
