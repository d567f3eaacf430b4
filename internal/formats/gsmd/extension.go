package gsmd

// Gradescope-flavored markdown extends standard markdown with inline LaTeX
// math, solution lines, choice lists, inline response boxes, and block
// images. This file defines the goldmark nodes and parsers for those
// constructs; conversion into the problem tree happens in converters.go.

import (
	"bytes"
	"regexp"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// inline math -----------------------------------------------------------------

var kindInlineMath = gast.NewNodeKind("GSMDInlineMath")

// inlineMathNode is inline LaTeX math written $$...$$ on a single line.
type inlineMathNode struct {
	gast.BaseInline
	latex string
}

func (n *inlineMathNode) Kind() gast.NodeKind { return kindInlineMath }

func (n *inlineMathNode) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Latex": n.latex}, nil)
}

type inlineMathParser struct{}

func (inlineMathParser) Trigger() []byte { return []byte{'$'} }

func (inlineMathParser) Parse(parent gast.Node, block text.Reader, pc parser.Context) gast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, []byte("$$")) {
		return nil
	}
	// not greedy: the first closing $$ ends the math
	end := bytes.Index(line[2:], []byte("$$"))
	if end < 0 {
		return nil
	}
	node := &inlineMathNode{latex: string(line[2 : 2+end])}
	block.Advance(end + 4)
	return node
}

// single-line blocks ----------------------------------------------------------

var (
	kindSolution    = gast.NewNodeKind("GSMDSolution")
	kindResponseBox = gast.NewNodeKind("GSMDResponseBox")
	kindBlockImage  = gast.NewNodeKind("GSMDBlockImage")
	kindChoiceList  = gast.NewNodeKind("GSMDChoiceList")
)

// solutionNode is a solution line, [[...]]. The inner markdown is reparsed
// during conversion.
type solutionNode struct {
	gast.BaseBlock
	inner string
}

func (n *solutionNode) Kind() gast.NodeKind { return kindSolution }
func (n *solutionNode) IsRaw() bool         { return true }

func (n *solutionNode) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Inner": n.inner}, nil)
}

// responseBoxNode is an inline response box line, [____](answer).
type responseBoxNode struct {
	gast.BaseBlock
	answer string
}

func (n *responseBoxNode) Kind() gast.NodeKind { return kindResponseBox }
func (n *responseBoxNode) IsRaw() bool         { return true }

func (n *responseBoxNode) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Answer": n.answer}, nil)
}

// blockImageNode is an image alone on its line. Only block images are
// representable in the problem tree; inline images are a parse error.
type blockImageNode struct {
	gast.BaseBlock
	path string
}

func (n *blockImageNode) Kind() gast.NodeKind { return kindBlockImage }
func (n *blockImageNode) IsRaw() bool         { return true }

func (n *blockImageNode) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{"Path": n.path}, nil)
}

// choiceListNode is a run of consecutive choice lines, either ( )/(x) for
// multiple choice or [ ]/[x] for multiple select.
type choiceListNode struct {
	gast.BaseBlock
	rectangle bool
	choices   []choiceLine
}

type choiceLine struct {
	correct bool
	inner   string
}

func (n *choiceListNode) Kind() gast.NodeKind { return kindChoiceList }
func (n *choiceListNode) IsRaw() bool         { return true }

func (n *choiceListNode) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, nil, nil)
}

var (
	solutionLine     = regexp.MustCompile(`^ {0,3}\[\[(.+)\]\]\s*$`)
	responseBoxLine  = regexp.MustCompile(`^ {0,3}\[____\]\((.*)\)\s*$`)
	blockImageLine   = regexp.MustCompile(`^ {0,3}!\[(.*)\]\((.*)\)\s*$`)
	roundChoiceLine  = regexp.MustCompile(`^ {0,3}\(([ x])\) ?(.*?)\s*$`)
	squareChoiceLine = regexp.MustCompile(`^ {0,3}\[([ x])\] ?(.*?)\s*$`)
)

// lineParser implements single-line block constructs.
type lineParser struct {
	re    *regexp.Regexp
	build func(m []string) gast.Node
}

func (p *lineParser) Trigger() []byte { return nil }

func (p *lineParser) Open(parent gast.Node, reader text.Reader, pc parser.Context) (gast.Node, parser.State) {
	line, segment := reader.PeekLine()
	m := p.re.FindStringSubmatch(string(line))
	if m == nil {
		return nil, parser.NoChildren
	}
	reader.Advance(segment.Len() - 1)
	return p.build(m), parser.NoChildren
}

func (p *lineParser) Continue(node gast.Node, reader text.Reader, pc parser.Context) parser.State {
	return parser.Close
}

func (p *lineParser) Close(node gast.Node, reader text.Reader, pc parser.Context) {}

func (p *lineParser) CanInterruptParagraph() bool { return true }

func (p *lineParser) CanAcceptIndentedLine() bool { return false }

func newSolutionParser() parser.BlockParser {
	return &lineParser{re: solutionLine, build: func(m []string) gast.Node {
		return &solutionNode{inner: m[1]}
	}}
}

func newResponseBoxParser() parser.BlockParser {
	return &lineParser{re: responseBoxLine, build: func(m []string) gast.Node {
		return &responseBoxNode{answer: m[1]}
	}}
}

func newBlockImageParser() parser.BlockParser {
	return &lineParser{re: blockImageLine, build: func(m []string) gast.Node {
		return &blockImageNode{path: m[2]}
	}}
}

// choiceListParser consumes a run of consecutive choice lines.
type choiceListParser struct {
	re        *regexp.Regexp
	rectangle bool
}

func (p *choiceListParser) Trigger() []byte { return nil }

func (p *choiceListParser) Open(parent gast.Node, reader text.Reader, pc parser.Context) (gast.Node, parser.State) {
	line, segment := reader.PeekLine()
	m := p.re.FindStringSubmatch(string(line))
	if m == nil {
		return nil, parser.NoChildren
	}
	node := &choiceListNode{rectangle: p.rectangle}
	node.choices = append(node.choices, choiceLine{correct: m[1] == "x", inner: m[2]})
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (p *choiceListParser) Continue(node gast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	m := p.re.FindStringSubmatch(string(line))
	if m == nil {
		return parser.Close
	}
	list := node.(*choiceListNode)
	list.choices = append(list.choices, choiceLine{correct: m[1] == "x", inner: m[2]})
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (p *choiceListParser) Close(node gast.Node, reader text.Reader, pc parser.Context) {}

func (p *choiceListParser) CanInterruptParagraph() bool { return true }

func (p *choiceListParser) CanAcceptIndentedLine() bool { return false }
