package parser

import (
	"strings"

	"github.com/ardnew/weft/lang/token"
)

// SyntaxKind identifies the kind of an interior node in the syntax tree.
// Leaves are tokens and carry a [token.Kind] instead.
type SyntaxKind uint8

const (
	KindDocument SyntaxKind = iota
	KindComponent
	KindSubElement
	KindElement
	KindRepeatedElement
	KindRepeatedIndex
	KindConditionalElement
	KindCallbackConnection
	KindCallbackDeclaration
	KindCallbackDeclarationParameter
	KindFunction
	KindArgumentDeclaration
	KindReturnType
	KindBinding
	KindTwoWayBinding
	KindBindingExpression
	KindCodeBlock
	KindReturnStatement
	KindExpression
	KindSelfAssignment
	KindFunctionCallExpression
	KindMemberAccess
	KindIndexExpression
	KindConditionalExpression
	KindBinaryExpression
	KindUnaryOpExpression
	KindArray
	KindObjectLiteral
	KindObjectMember
	KindAtImageUrl
	KindQualifiedName
	KindDeclaredIdentifier
	KindChildrenPlaceholder
	KindPropertyDeclaration
	KindPropertyAnimation
	KindPropertyChangedCallback
	KindStates
	KindState
	KindStatePropertyChange
	KindTransitions
	KindTransition
	KindExportsList
	KindExportSpecifier
	KindExportIdentifier
	KindExportName
	KindExportModule
	KindImportSpecifier
	KindImportIdentifierList
	KindImportIdentifier
	KindExternalName
	KindInternalName
	KindType
	KindObjectType
	KindObjectTypeMember
	KindArrayType
	KindStructDeclaration
	KindEnumDeclaration
)

//nolint:gochecknoglobals
var syntaxKindNames = [...]string{
	KindDocument:                     "Document",
	KindComponent:                    "Component",
	KindSubElement:                   "SubElement",
	KindElement:                      "Element",
	KindRepeatedElement:              "RepeatedElement",
	KindRepeatedIndex:                "RepeatedIndex",
	KindConditionalElement:           "ConditionalElement",
	KindCallbackConnection:           "CallbackConnection",
	KindCallbackDeclaration:          "CallbackDeclaration",
	KindCallbackDeclarationParameter: "CallbackDeclarationParameter",
	KindFunction:                     "Function",
	KindArgumentDeclaration:          "ArgumentDeclaration",
	KindReturnType:                   "ReturnType",
	KindBinding:                      "Binding",
	KindTwoWayBinding:                "TwoWayBinding",
	KindBindingExpression:            "BindingExpression",
	KindCodeBlock:                    "CodeBlock",
	KindReturnStatement:              "ReturnStatement",
	KindExpression:                   "Expression",
	KindSelfAssignment:               "SelfAssignment",
	KindFunctionCallExpression:       "FunctionCallExpression",
	KindMemberAccess:                 "MemberAccess",
	KindIndexExpression:              "IndexExpression",
	KindConditionalExpression:        "ConditionalExpression",
	KindBinaryExpression:             "BinaryExpression",
	KindUnaryOpExpression:            "UnaryOpExpression",
	KindArray:                        "Array",
	KindObjectLiteral:                "ObjectLiteral",
	KindObjectMember:                 "ObjectMember",
	KindAtImageUrl:                   "AtImageUrl",
	KindQualifiedName:                "QualifiedName",
	KindDeclaredIdentifier:           "DeclaredIdentifier",
	KindChildrenPlaceholder:          "ChildrenPlaceholder",
	KindPropertyDeclaration:          "PropertyDeclaration",
	KindPropertyAnimation:            "PropertyAnimation",
	KindPropertyChangedCallback:      "PropertyChangedCallback",
	KindStates:                       "States",
	KindState:                        "State",
	KindStatePropertyChange:          "StatePropertyChange",
	KindTransitions:                  "Transitions",
	KindTransition:                   "Transition",
	KindExportsList:                  "ExportsList",
	KindExportSpecifier:              "ExportSpecifier",
	KindExportIdentifier:             "ExportIdentifier",
	KindExportName:                   "ExportName",
	KindExportModule:                 "ExportModule",
	KindImportSpecifier:              "ImportSpecifier",
	KindImportIdentifierList:         "ImportIdentifierList",
	KindImportIdentifier:             "ImportIdentifier",
	KindExternalName:                 "ExternalName",
	KindInternalName:                 "InternalName",
	KindType:                         "Type",
	KindObjectType:                   "ObjectType",
	KindObjectTypeMember:             "ObjectTypeMember",
	KindArrayType:                    "ArrayType",
	KindStructDeclaration:            "StructDeclaration",
	KindEnumDeclaration:              "EnumDeclaration",
}

// String returns the display name of the kind.
func (k SyntaxKind) String() string {
	if int(k) < len(syntaxKindNames) {
		return syntaxKindNames[k]
	}

	return "SyntaxKind(?)"
}

// Child is one entry in a node's child list: either an interior node or
// a leaf token. Exactly one of the two is meaningful; Node == nil marks
// a leaf.
type Child struct {
	Node  *Node
	Token token.Token
}

// IsNode reports whether the child is an interior node.
func (c Child) IsNode() bool { return c.Node != nil }

// Span returns the source region the child covers.
func (c Child) Span() token.Span {
	if c.Node != nil {
		return c.Node.Span()
	}

	return c.Token.Span
}

// Node is an interior node of the lossless syntax tree.
//
// The tree preserves every token of the source, including whitespace,
// comments, and error tokens, so concatenating the leaf texts of the
// root reproduces the input exactly.
type Node struct {
	Kind     SyntaxKind
	Children []Child
}

// Span returns the source region the node covers. An empty node reports
// a zero-length span positioned at its place in the parent, which the
// builder encodes as the span of the nearest preceding leaf end.
func (n *Node) Span() token.Span {
	first, ok := n.firstLeaf()
	if !ok {
		return token.Span{}
	}

	last, _ := n.lastLeaf()

	return token.Span{
		Offset: first.Span.Offset,
		Len:    last.Span.End() - first.Span.Offset,
	}
}

func (n *Node) firstLeaf() (token.Token, bool) {
	for _, c := range n.Children {
		if c.Node == nil {
			return c.Token, true
		}

		if t, ok := c.Node.firstLeaf(); ok {
			return t, true
		}
	}

	return token.Token{}, false
}

func (n *Node) lastLeaf() (token.Token, bool) {
	for i := len(n.Children) - 1; i >= 0; i-- {
		c := n.Children[i]
		if c.Node == nil {
			return c.Token, true
		}

		if t, ok := c.Node.lastLeaf(); ok {
			return t, true
		}
	}

	return token.Token{}, false
}

// Text returns the concatenated text of every leaf under the node.
func (n *Node) Text() string {
	var sb strings.Builder

	n.writeText(&sb)

	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	for _, c := range n.Children {
		if c.Node != nil {
			c.Node.writeText(sb)
		} else {
			sb.WriteString(c.Token.Text)
		}
	}
}

// ChildNode returns the first child node of the given kind, or nil.
func (n *Node) ChildNode(kind SyntaxKind) *Node {
	for _, c := range n.Children {
		if c.Node != nil && c.Node.Kind == kind {
			return c.Node
		}
	}

	return nil
}

// ChildNodes returns all child nodes of the given kind in order.
func (n *Node) ChildNodes(kind SyntaxKind) []*Node {
	var out []*Node

	for _, c := range n.Children {
		if c.Node != nil && c.Node.Kind == kind {
			out = append(out, c.Node)
		}
	}

	return out
}

// Nodes returns all child nodes in order, regardless of kind.
func (n *Node) Nodes() []*Node {
	var out []*Node

	for _, c := range n.Children {
		if c.Node != nil {
			out = append(out, c.Node)
		}
	}

	return out
}

// ChildToken returns the first leaf of the given token kind.
func (n *Node) ChildToken(kind token.Kind) (token.Token, bool) {
	for _, c := range n.Children {
		if c.Node == nil && c.Token.Kind == kind {
			return c.Token, true
		}
	}

	return token.Token{}, false
}

// ChildTokens returns every direct leaf of the given token kind in order.
func (n *Node) ChildTokens(kind token.Kind) []token.Token {
	var out []token.Token

	for _, c := range n.Children {
		if c.Node == nil && c.Token.Kind == kind {
			out = append(out, c.Token)
		}
	}

	return out
}

// ChildText returns the text of the first leaf of the given token kind.
func (n *Node) ChildText(kind token.Kind) string {
	if t, ok := n.ChildToken(kind); ok {
		return t.Text
	}

	return ""
}

// IdentifierText returns the normalized text of the node's first
// identifier leaf. For DeclaredIdentifier and QualifiedName nodes this
// is the declared or leading name.
func (n *Node) IdentifierText() string {
	return token.NormalizeIdentifier(n.ChildText(token.Identifier))
}

// QualifiedNameText reconstructs a dotted qualified name from its
// identifier leaves, normalized.
func (n *Node) QualifiedNameText() string {
	parts := make([]string, 0, 2)

	for _, t := range n.ChildTokens(token.Identifier) {
		parts = append(parts, token.NormalizeIdentifier(t.Text))
	}

	return strings.Join(parts, ".")
}
