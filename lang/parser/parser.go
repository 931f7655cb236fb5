// Package parser builds a lossless syntax tree from a token stream.
//
// The parser is a hand-written recursive-descent parser that never fails:
// malformed input produces error diagnostics and a tree that still covers
// every input token, so downstream tooling always has a structure to work
// with. Recovery is local; each grammar rule consumes at least one token
// before giving up so the parser always makes forward progress.
package parser

import (
	"fmt"

	"github.com/ardnew/weft/lang/diag"
	"github.com/ardnew/weft/lang/lexer"
	"github.com/ardnew/weft/lang/token"
)

// Parser holds the token cursor, the in-progress tree, and the
// diagnostics sink for one parse.
type Parser struct {
	tokens []token.Token
	cursor int
	stack  []*Node
	diags  *diag.Sink
}

// Checkpoint marks a position in the in-progress tree where a node may
// later be started retroactively, wrapping everything recorded since.
type Checkpoint struct {
	node  *Node
	index int
}

// New creates a parser over a pre-lexed token stream.
func New(tokens []token.Token, sink *diag.Sink) *Parser {
	return &Parser{tokens: tokens, diags: sink}
}

// Parse lexes and parses a whole document, returning the root node.
// The returned tree covers every input token even when sink records
// errors.
func Parse(source string, sink *diag.Sink) *Node {
	p := New(lexer.Lex(source), sink)

	return p.ParseDocument()
}

// Diagnostics returns the sink the parser reports into.
func (p *Parser) Diagnostics() *diag.Sink { return p.diags }

// guard tracks one started node so grammar rules can close it on every
// exit path with defer.
type guard struct {
	p *Parser
	n *Node
}

// Close finishes the node the guard was created for.
// Each guard must be closed exactly once.
func (g guard) Close() {
	g.p.finishNode(g.n)
}

// startNode opens a new interior node of the given kind.
func (p *Parser) startNode(kind SyntaxKind) guard {
	n := &Node{Kind: kind}
	if len(p.stack) > 0 {
		p.push(Child{Node: n})
	}

	p.stack = append(p.stack, n)

	return guard{p: p, n: n}
}

// startNodeAt opens a new node that adopts everything recorded in the
// checkpoint's node since the checkpoint was taken. The grammar uses
// this to wrap an already-parsed operand into a larger expression.
func (p *Parser) startNodeAt(cp Checkpoint, kind SyntaxKind) guard {
	n := &Node{Kind: kind}
	n.Children = append(n.Children, cp.node.Children[cp.index:]...)
	cp.node.Children = append(cp.node.Children[:cp.index], Child{Node: n})
	p.stack = append(p.stack, n)

	return guard{p: p, n: n}
}

// checkpoint records the current position in the innermost open node.
func (p *Parser) checkpoint() Checkpoint {
	n := p.top()

	return Checkpoint{node: n, index: len(n.Children)}
}

func (p *Parser) finishNode(n *Node) {
	if len(p.stack) == 0 || p.stack[len(p.stack)-1] != n {
		panic("parser: node finished out of order")
	}

	p.stack = p.stack[:len(p.stack)-1]
}

func (p *Parser) top() *Node {
	return p.stack[len(p.stack)-1]
}

func (p *Parser) push(c Child) {
	if len(p.stack) == 0 {
		// Tokens before the document node open (never happens in practice,
		// the root is started first).
		panic("parser: token recorded outside any node")
	}

	n := p.top()
	n.Children = append(n.Children, c)
}

func (p *Parser) current() token.Token {
	if p.cursor < len(p.tokens) {
		return p.tokens[p.cursor]
	}

	end := 0
	if len(p.tokens) > 0 {
		end = p.tokens[len(p.tokens)-1].Span.End()
	}

	return token.Token{Kind: token.EOF, Span: token.Span{Offset: end}}
}

// consumeTrivia records pending whitespace and comments into the
// innermost open node.
func (p *Parser) consumeTrivia() {
	for p.cursor < len(p.tokens) && p.tokens[p.cursor].IsTrivia() {
		p.consume()
	}
}

// nth peeks the n'th upcoming token, not counting whitespace and
// comments. Peeking first records pending trivia into the current node
// so checkpoints taken afterwards exclude it.
func (p *Parser) nth(n int) token.Token {
	p.consumeTrivia()

	c := p.cursor

	for n > 0 {
		n--
		c++

		for c < len(p.tokens) && p.tokens[c].IsTrivia() {
			c++
		}
	}

	if c < len(p.tokens) {
		return p.tokens[c]
	}

	end := 0
	if len(p.tokens) > 0 {
		end = p.tokens[len(p.tokens)-1].Span.End()
	}

	return token.Token{Kind: token.EOF, Span: token.Span{Offset: end}}
}

// peek returns the next significant token.
func (p *Parser) peek() token.Token { return p.nth(0) }

// peekText returns the normalized text of the next significant token.
// Contextual keywords are recognized by comparing this text.
func (p *Parser) peekText() string {
	return token.NormalizeIdentifier(p.peek().Text)
}

// nthText returns the normalized text of the n'th significant token.
func (p *Parser) nthText(n int) string {
	return token.NormalizeIdentifier(p.nth(n).Text)
}

// consume records the current token into the tree and advances.
func (p *Parser) consume() {
	if p.cursor >= len(p.tokens) {
		return
	}

	p.push(Child{Token: p.tokens[p.cursor]})
	p.cursor++
}

// test consumes the next token and returns true if it has the given
// kind; otherwise it leaves the cursor alone and returns false.
func (p *Parser) test(kind token.Kind) bool {
	if p.nth(0).Kind != kind {
		return false
	}

	p.consume()

	return true
}

// expect consumes the next token if it has the given kind, reporting a
// syntax error otherwise. Returns whether the token was consumed.
func (p *Parser) expect(kind token.Kind) bool {
	if !p.test(kind) {
		p.errorf("Syntax error: expected %s", kind)

		return false
	}

	return true
}

// until consumes everything up to and including the next token of the
// given kind.
func (p *Parser) until(kind token.Kind) {
	for {
		k := p.nth(0).Kind
		if k == kind || k == token.EOF {
			break
		}

		p.consume()
	}

	p.expect(kind)
}

// error reports a parse error at the current token.
func (p *Parser) error(msg string) {
	t := p.current()
	p.diags.PushError(msg, t.Span)
}

func (p *Parser) errorf(format string, args ...any) {
	p.error(fmt.Sprintf(format, args...))
}

// warning reports a warning at the current token.
func (p *Parser) warning(msg string) {
	t := p.current()
	p.diags.PushWarning(msg, t.Span)
}
