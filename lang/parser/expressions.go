package parser

import "github.com/ardnew/weft/lang/token"

// precedence orders the expression operator tiers. Parsing at a tier
// only accepts operators of strictly higher tiers as sub-expressions,
// which is what forces parentheses in ambiguous chains.
type precedence uint8

const (
	precDefault  precedence = iota // ?:
	precLogical                    // || &&
	precEquality                   // == != >= <= < >
	precAdd                        // + -
	precMul                        // * /
	precUnary
)

// parseExpression parses a full expression at the lowest precedence.
func (p *Parser) parseExpression() bool {
	p.peek() // consume the whitespace so it isn't part of the Expression node

	return p.parseExpressionHelper(precDefault)
}

//nolint:gocyclo,cyclop,funlen
func (p *Parser) parseExpressionHelper(prec precedence) bool {
	g := p.startNode(KindExpression)
	defer g.Close()

	cp := p.checkpoint()

	switch p.nth(0).Kind {
	case token.Identifier:
		p.parseQualifiedName()

	case token.StringLiteral, token.NumberLiteral, token.ColorLiteral:
		p.consume()

	case token.LParen:
		p.consume()
		p.parseExpression()
		p.expect(token.RParen)

	case token.LBracket:
		p.parseArray()

	case token.LBrace:
		p.parseObjectNotation()

	case token.Plus, token.Minus, token.Bang:
		gu := p.startNode(KindUnaryOpExpression)
		p.consume()
		p.parseExpressionHelper(precUnary)
		gu.Close()

	case token.At:
		p.parseAtKeyword()

	default:
		p.error("invalid expression")

		return false
	}

	// Postfix operators bind tighter than anything else.
postfix:
	for {
		switch p.nth(0).Kind {
		case token.Dot:
			p.startNodeAt(cp, KindExpression).Close()

			gm := p.startNodeAt(cp, KindMemberAccess)
			p.consume() // '.'
			ok := p.expect(token.Identifier)
			gm.Close()

			if !ok {
				return false
			}

		case token.LParen:
			p.startNodeAt(cp, KindExpression).Close()

			gc := p.startNodeAt(cp, KindFunctionCallExpression)
			p.parseFunctionArguments()
			gc.Close()

		case token.LBracket:
			p.startNodeAt(cp, KindExpression).Close()

			gi := p.startNodeAt(cp, KindIndexExpression)
			p.expect(token.LBracket)
			p.parseExpression()
			p.expect(token.RBracket)
			gi.Close()

		default:
			break postfix
		}
	}

	if prec >= precMul {
		return true
	}

	for p.nth(0).Kind == token.Star || p.nth(0).Kind == token.Div {
		p.startNodeAt(cp, KindExpression).Close()

		gb := p.startNodeAt(cp, KindBinaryExpression)
		p.consume()
		p.parseExpressionHelper(precMul)
		gb.Close()
	}

	if p.nth(0).Kind == token.Percent {
		p.error("Unexpected '%'. For the unit, it should be attached to the number. If you're looking for the modulo operator, use the 'mod(x, y)' function")
		p.consume()

		return false
	}

	if prec >= precAdd {
		return true
	}

	for p.nth(0).Kind == token.Plus || p.nth(0).Kind == token.Minus {
		p.startNodeAt(cp, KindExpression).Close()

		gb := p.startNodeAt(cp, KindBinaryExpression)
		p.consume()
		p.parseExpressionHelper(precAdd)
		gb.Close()
	}

	if prec > precEquality {
		return true
	}

	if isComparisonOperator(p.nth(0).Kind) {
		if prec == precEquality {
			p.error("Use parentheses to disambiguate equality expression on the same level")
		}

		p.startNodeAt(cp, KindExpression).Close()

		gb := p.startNodeAt(cp, KindBinaryExpression)
		p.consume()
		p.parseExpressionHelper(precEquality)
		gb.Close()
	}

	if prec >= precLogical {
		return true
	}

	var prevLogicalOp token.Kind

	for p.nth(0).Kind == token.AndAnd || p.nth(0).Kind == token.OrOr {
		if prevLogicalOp != 0 && prevLogicalOp != p.nth(0).Kind {
			p.error("Use parentheses to disambiguate between && and ||")

			prevLogicalOp = 0
		} else {
			prevLogicalOp = p.nth(0).Kind
		}

		p.startNodeAt(cp, KindExpression).Close()

		gb := p.startNodeAt(cp, KindBinaryExpression)
		p.consume()
		p.parseExpressionHelper(precLogical)
		gb.Close()
	}

	if p.nth(0).Kind == token.Question {
		p.startNodeAt(cp, KindExpression).Close()

		gc := p.startNodeAt(cp, KindConditionalExpression)
		p.consume()
		p.parseExpression()
		p.expect(token.Colon)
		p.parseExpression()
		gc.Close()
	}

	return true
}

func isComparisonOperator(k token.Kind) bool {
	switch k {
	case token.LessEqual, token.GreaterEqual, token.EqualEqual,
		token.NotEqual, token.LAngle, token.RAngle:
		return true
	default:
		return false
	}
}

// parseAtKeyword parses the '@' expression forms. Only @image-url is
// supported.
func (p *Parser) parseAtKeyword() {
	switch p.nthText(1) {
	case "image-url":
		p.parseImageURL()
	default:
		p.consume()
		p.test(token.Identifier)
		p.error("Expected 'image-url' after '@'")
	}
}

// parseArray parses `[ expr, expr, ... ]`.
func (p *Parser) parseArray() {
	g := p.startNode(KindArray)
	defer g.Close()

	p.expect(token.LBracket)

	for p.nth(0).Kind != token.RBracket {
		p.parseExpression()

		if !p.test(token.Comma) {
			break
		}
	}

	p.expect(token.RBracket)
}

// parseObjectNotation parses `{ name: expr, ... }`.
func (p *Parser) parseObjectNotation() {
	g := p.startNode(KindObjectLiteral)
	defer g.Close()

	p.expect(token.LBrace)

	for p.nth(0).Kind != token.RBrace {
		gm := p.startNode(KindObjectMember)
		p.expect(token.Identifier)
		p.expect(token.Colon)
		p.parseExpression()
		gm.Close()

		if !p.test(token.Comma) {
			break
		}
	}

	p.expect(token.RBrace)
}

// parseFunctionArguments parses `( expr, expr, ... )`.
func (p *Parser) parseFunctionArguments() {
	p.expect(token.LParen)

	for p.nth(0).Kind != token.RParen {
		p.parseExpression()

		if !p.test(token.Comma) {
			break
		}
	}

	p.expect(token.RParen)
}

// parseImageURL parses `@image-url("path")`.
func (p *Parser) parseImageURL() {
	g := p.startNode(KindAtImageUrl)
	defer g.Close()

	p.consume() // "@"
	p.consume() // "image-url"

	if !p.expect(token.LParen) {
		return
	}

	if p.peek().Kind != token.StringLiteral {
		p.error("@image-url must contain a plain path as a string literal")
		p.until(token.RParen)

		return
	}

	p.expect(token.StringLiteral)

	if !p.test(token.RParen) {
		p.error("Expected ')'")
		p.until(token.RParen)
	}
}
