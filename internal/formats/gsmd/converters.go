package gsmd

import (
	"strings"

	gast "github.com/yuin/goldmark/ast"

	"github.com/coursekit/probconv/core/ast"
	"github.com/coursekit/probconv/core/errors"
)

// builtinConverters maps goldmark node kind names to converters. Converters
// for constructs that reparse inner markdown are bound per parser in
// newGsmdParser so that caller overrides apply to the reparse as well.
var builtinConverters = map[string]Converter{
	gast.KindDocument.String():        convertDocument,
	gast.KindParagraph.String():       convertParagraph,
	gast.KindText.String():            convertMarkdownText,
	gast.KindEmphasis.String():        convertEmphasis,
	gast.KindCodeSpan.String():        convertCodeSpan,
	gast.KindFencedCodeBlock.String(): convertFencedCode,
	gast.KindImage.String():           convertInlineImage,
	kindInlineMath.String():           convertInlineMath,
	kindBlockImage.String():           convertBlockImage,
}

func convertDocument(node gast.Node, source []byte, convert ConvertFunc) (ast.Node, error) {
	children, err := convertChildren(node, convert)
	if err != nil {
		return nil, err
	}
	prob, err := ast.NewProblem(children...)
	if err != nil {
		return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
	}
	return prob, nil
}

func convertParagraph(node gast.Node, source []byte, convert ConvertFunc) (ast.Node, error) {
	children, err := convertChildren(node, convert)
	if err != nil {
		return nil, err
	}
	par, err := ast.NewParagraph(children...)
	if err != nil {
		return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
	}
	return par, nil
}

// convertMarkdownText converts an inline text segment. A soft line break at
// the end of the segment is kept as whitespace so that adjacent lines of a
// paragraph do not run together.
func convertMarkdownText(node gast.Node, source []byte, convert ConvertFunc) (ast.Node, error) {
	t := node.(*gast.Text)
	value := string(t.Segment.Value(source))
	if t.SoftLineBreak() {
		value += "\n"
	}
	if strings.TrimSpace(value) == "" {
		return ast.Must(ast.NewBlob()), nil
	}
	text, err := ast.NewText(value)
	if err != nil {
		return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
	}
	return ast.Must(ast.NewBlob(text)), nil
}

func convertEmphasis(node gast.Node, source []byte, convert ConvertFunc) (ast.Node, error) {
	em := node.(*gast.Emphasis)
	opt := ast.Italic()
	if em.Level >= 2 {
		opt = ast.Bold()
	}
	text, err := ast.NewText(textOf(em, source), opt)
	if err != nil {
		return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
	}
	return ast.Must(ast.NewBlob(text)), nil
}

func convertCodeSpan(node gast.Node, source []byte, convert ConvertFunc) (ast.Node, error) {
	code := ast.NewInlineCode("text", textOf(node, source))
	return ast.Must(ast.NewBlob(code)), nil
}

func convertFencedCode(node gast.Node, source []byte, convert ConvertFunc) (ast.Node, error) {
	fenced := node.(*gast.FencedCodeBlock)
	language := string(fenced.Language(source))

	var sb strings.Builder
	lines := fenced.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return ast.NewCode(language, sb.String()), nil
}

func convertInlineMath(node gast.Node, source []byte, convert ConvertFunc) (ast.Node, error) {
	math := ast.NewInlineMath(node.(*inlineMathNode).latex)
	return ast.Must(ast.NewBlob(math)), nil
}

func convertBlockImage(node gast.Node, source []byte, convert ConvertFunc) (ast.Node, error) {
	return ast.NewImageFile(node.(*blockImageNode).path), nil
}

func convertInlineImage(node gast.Node, source []byte, convert ConvertFunc) (ast.Node, error) {
	return nil, errors.NewParse(FormatName, "inline images are not supported; place the image on its own line")
}

// bound converters -----------------------------------------------------------

// convertSolution reparses the solution's inner markdown and wraps the
// result in a Solution node.
func (p *gsmdParser) convertSolution(node gast.Node, source []byte, convert ConvertFunc) (ast.Node, error) {
	children, err := p.parseFragment(node.(*solutionNode).inner)
	if err != nil {
		return nil, err
	}
	soln, err := ast.NewSolution(children...)
	if err != nil {
		return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
	}
	return soln, nil
}

// convertChoiceList reparses each choice line's content and builds a
// MultipleChoice or MultipleSelect node.
func (p *gsmdParser) convertChoiceList(node gast.Node, source []byte, convert ConvertFunc) (ast.Node, error) {
	list := node.(*choiceListNode)

	choices := make([]ast.Node, 0, len(list.choices))
	for _, line := range list.choices {
		children, err := p.parseFragment(line.inner)
		if err != nil {
			return nil, err
		}
		choice, err := ast.NewChoice(line.correct, children...)
		if err != nil {
			return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
		}
		choices = append(choices, choice)
	}

	if list.rectangle {
		sel, err := ast.NewMultipleSelect(choices...)
		if err != nil {
			return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
		}
		return sel, nil
	}
	mc, err := ast.NewMultipleChoice(choices...)
	if err != nil {
		return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
	}
	return mc, nil
}

// convertResponseBox reparses the answer of an inline response box. The
// answer must reduce to a single paragraph of inline content.
func (p *gsmdParser) convertResponseBox(node gast.Node, source []byte, convert ConvertFunc) (ast.Node, error) {
	blocks, err := p.parseFragment(node.(*responseBoxNode).answer)
	if err != nil {
		return nil, err
	}
	if len(blocks) != 1 {
		return nil, errors.NewParse(FormatName, "inline response box answer must be a single paragraph")
	}
	par, ok := blocks[0].(*ast.Paragraph)
	if !ok {
		return nil, errors.NewParse(FormatName, "inline response box answer must be a single paragraph")
	}

	// the paragraph's children are blobs of inline content; flatten them
	var children []ast.Node
	for _, child := range par.Children() {
		blob, ok := child.(*ast.Blob)
		if !ok {
			children = append(children, child)
			continue
		}
		children = append(children, blob.Children()...)
	}

	box, err := ast.NewInlineResponseBox(children...)
	if err != nil {
		return nil, errors.NewParse(FormatName, "inline response box answer must be a single paragraph")
	}
	return box, nil
}

// convertChildren converts a node's children in order, dropping nils.
func convertChildren(node gast.Node, convert ConvertFunc) ([]ast.Node, error) {
	var out []ast.Node
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		converted, err := convert(child)
		if err != nil {
			return nil, err
		}
		if converted != nil {
			out = append(out, converted)
		}
	}
	return out, nil
}

// textOf concatenates the text segments directly under a node.
func textOf(node gast.Node, source []byte) string {
	var sb strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*gast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
	}
	return sb.String()
}
