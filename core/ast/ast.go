// Package ast defines the canonical tree representation of a quiz problem.
//
// A problem is made up of components such as paragraphs of text, images,
// code blocks, and response areas. Representing a problem as a typed tree
// does three things: it defines a canonical problem format, it makes
// problems easy to manipulate programmatically, and it means converting
// between N source formats and M output formats needs N parsers and M
// renderers instead of N*M transformers.
//
// Nodes are either internal (an ordered sequence of children, constrained
// by a per-type allowed-child table) or leaves (scalar attributes only).
// The schema is enforced at construction time: placing a child of a
// disallowed type under a parent fails immediately with an
// IllegalChildError.
//
// Two kinds are transient: Blob and ParBreak. Parsers emit them when
// paragraph boundaries cannot be determined locally; Paragraphize resolves
// them, and no canonical tree contains them. Renderers reject trees that do.
//
// Nodes are immutable by convention. Transforms rebuild trees through
// WithChildren rather than mutating shared structure, so the same input
// tree is safe to thread through multiple pipeline runs.
package ast

import (
	"fmt"

	"github.com/coursekit/probconv/core/errors"
)

// Node is a typed element of the problem tree.
type Node interface {
	// Kind reports the concrete node type.
	Kind() Kind

	// Equal reports structural equality: same concrete type, same scalar
	// attributes, and the same children compared recursively in order.
	Equal(other Node) bool

	// Clone returns a deep copy of this node.
	Clone() Node
}

// Container is implemented by internal nodes.
type Container interface {
	Node

	// Children returns the ordered child nodes. The returned slice must not
	// be mutated.
	Children() []Node

	// WithChildren returns a new node of the same concrete type and scalar
	// attributes with the given children, validating each against the
	// allowed-child table.
	WithChildren(children []Node) (Container, error)

	// AppendChild adds a child node, checking that it is a valid type.
	AppendChild(child Node) error
}

// IllegalChildError reports an attempt to place a child of a disallowed type
// under a parent node.
type IllegalChildError struct {
	Parent Kind
	Child  Kind
}

func (e *IllegalChildError) Error() string {
	return fmt.Sprintf("cannot add child of type %s to %s", e.Child, e.Parent)
}

func (e *IllegalChildError) Unwrap() error {
	return errors.ErrIllegalChild
}

// Must panics if err is non-nil, and otherwise returns v. It simplifies
// building literal trees, in the spirit of template.Must:
//
//	tree := ast.Must(ast.NewProblem(ast.Must(ast.NewParagraph(text))))
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// container holds the validated, ordered children of an internal node.
type container struct {
	kind     Kind
	children []Node
}

func newContainer(kind Kind, children []Node) (container, error) {
	c := container{kind: kind}
	for _, child := range children {
		if err := c.append(child); err != nil {
			return container{}, err
		}
	}
	return c, nil
}

func (c *container) append(child Node) error {
	if child == nil {
		return fmt.Errorf("cannot add nil child to %s", c.kind)
	}
	if !c.kind.Allows(child.Kind()) {
		return &IllegalChildError{Parent: c.kind, Child: child.Kind()}
	}
	c.children = append(c.children, child)
	return nil
}

func (c *container) Kind() Kind { return c.kind }

func (c *container) Children() []Node { return c.children }

func (c *container) AppendChild(child Node) error { return c.append(child) }

func (c *container) childrenEqual(other *container) bool {
	if len(c.children) != len(other.children) {
		return false
	}
	for i, child := range c.children {
		if !child.Equal(other.children[i]) {
			return false
		}
	}
	return true
}

func (c *container) clone() container {
	clone := container{kind: c.kind}
	if c.children != nil {
		clone.children = make([]Node, len(c.children))
		for i, child := range c.children {
			clone.children[i] = child.Clone()
		}
	}
	return clone
}

// ContainsTransient reports whether any node in the tree rooted at n is a
// transient kind (Blob or ParBreak). Canonical trees contain none.
func ContainsTransient(n Node) bool {
	if IsTransient(n.Kind()) {
		return true
	}
	if c, ok := n.(Container); ok {
		for _, child := range c.Children() {
			if ContainsTransient(child) {
				return true
			}
		}
	}
	return false
}
