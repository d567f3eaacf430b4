package ast

import "strings"

// Paragraphize resolves the transient nodes in a raw parser tree, producing
// an equivalent canonical tree in which every maximal run of
// paragraph-eligible content is wrapped in Paragraph nodes.
//
// The algorithm, applied to each internal node and then recursively to its
// children:
//
//  1. Explode each Blob child into its own children, in place.
//  2. Partition the resulting sequence into maximal runs of
//     paragraph-eligible and non-eligible nodes. Grouping only happens when
//     the enclosing node permits Paragraph children; inside a Paragraph,
//     children pass through unchanged.
//  3. A ParBreak terminates the current run; consecutive ParBreaks or a
//     ParBreak at a boundary never produce an empty paragraph.
//  4. Wrap each non-empty eligible run in a Paragraph; non-eligible nodes
//     keep their position.
//  5. Strip leading whitespace from a new paragraph's first Text child and
//     trailing whitespace from its last.
//
// The input tree is never modified. Running Paragraphize on a tree that is
// already canonical returns an equal tree.
func Paragraphize(node Container) (Container, error) {
	exploded := explodeBlobs(node.Children())

	var grouped []Node
	if node.Kind().Allows(KindParagraph) {
		var err error
		grouped, err = groupIntoParagraphs(exploded)
		if err != nil {
			return nil, err
		}
	} else {
		for _, child := range exploded {
			if child.Kind() == KindParBreak {
				continue
			}
			grouped = append(grouped, child)
		}
	}

	children := make([]Node, len(grouped))
	for i, child := range grouped {
		if c, ok := child.(Container); ok {
			replacement, err := Paragraphize(c)
			if err != nil {
				return nil, err
			}
			children[i] = replacement
		} else {
			children[i] = child.Clone()
		}
	}

	return node.WithChildren(children)
}

// explodeBlobs replaces each Blob in the sequence with its own children,
// preserving order. Blobs are never nested, so one pass suffices.
func explodeBlobs(children []Node) []Node {
	var out []Node
	for _, child := range children {
		if blob, ok := child.(*Blob); ok {
			out = append(out, blob.Children()...)
		} else {
			out = append(out, child)
		}
	}
	return out
}

// groupIntoParagraphs partitions an exploded child sequence into new
// Paragraph nodes and pass-through children. ParBreaks act as run
// terminators and are consumed.
func groupIntoParagraphs(children []Node) ([]Node, error) {
	var out []Node
	var run []Node

	flush := func() error {
		if len(run) == 0 {
			return nil
		}
		paragraph, err := NewParagraph(trimRunWhitespace(run)...)
		if err != nil {
			return err
		}
		out = append(out, paragraph)
		run = nil
		return nil
	}

	for _, child := range children {
		switch {
		case ParagraphEligible(child.Kind()):
			run = append(run, child)
		case child.Kind() == KindParBreak:
			if err := flush(); err != nil {
				return nil, err
			}
		default:
			if err := flush(); err != nil {
				return nil, err
			}
			out = append(out, child)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// trimRunWhitespace strips leading whitespace from the run's first node and
// trailing whitespace from its last, when those are Text nodes. Interior
// whitespace was already collapsed at Text construction.
func trimRunWhitespace(run []Node) []Node {
	out := make([]Node, len(run))
	copy(out, run)

	if first, ok := out[0].(*Text); ok {
		out[0] = &Text{Text: strings.TrimLeft(first.Text, " "), Bold: first.Bold, Italic: first.Italic}
	}
	if last, ok := out[len(out)-1].(*Text); ok {
		out[len(out)-1] = &Text{Text: strings.TrimRight(last.Text, " "), Bold: last.Bold, Italic: last.Italic}
	}
	return out
}
