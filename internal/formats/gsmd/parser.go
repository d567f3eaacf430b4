// Package gsmd parses and renders problems written in Gradescope-flavored
// markdown, the markdown dialect Gradescope uses for online quizzes. It
// extends standard markdown with inline LaTeX math, solutions, choice
// lists, inline response boxes, and block images.
package gsmd

import (
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"gopkg.in/yaml.v3"

	"github.com/coursekit/probconv/core/ast"
	"github.com/coursekit/probconv/core/errors"
)

// FormatName identifies this format in error messages and registries.
const FormatName = "gsmd"

// ConvertFunc recursively converts a markdown node into a problem tree
// node. It returns a nil node for content that contributes nothing.
type ConvertFunc func(gast.Node) (ast.Node, error)

// Converter converts one markdown node into a problem tree node. The source
// is the markdown text the node was parsed from; the convert callback
// converts child content.
type Converter func(node gast.Node, source []byte, convert ConvertFunc) (ast.Node, error)

// ParseOption configures Parse.
type ParseOption func(*gsmdParser)

// WithConverter overrides or adds the converter for the named goldmark node
// kind (for example "Paragraph" or "GSMDChoiceList").
func WithConverter(kindName string, fn Converter) ParseOption {
	return func(p *gsmdParser) { p.converters[kindName] = fn }
}

// newMarkdown builds the goldmark instance with the Gradescope extensions.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithParserOptions(
			parser.WithBlockParsers(
				util.Prioritized(newResponseBoxParser(), 50),
				util.Prioritized(newSolutionParser(), 60),
				util.Prioritized(&choiceListParser{re: roundChoiceLine}, 70),
				util.Prioritized(&choiceListParser{re: squareChoiceLine, rectangle: true}, 80),
				util.Prioritized(newBlockImageParser(), 90),
			),
			parser.WithInlineParsers(
				util.Prioritized(inlineMathParser{}, 500),
			),
		),
	)
}

// Parse parses Gradescope-flavored markdown into a canonical problem tree.
// An optional YAML front matter block supplies problem metadata.
func Parse(source string, opts ...ParseOption) (*ast.Problem, error) {
	meta, body, err := splitFrontMatter(source)
	if err != nil {
		return nil, err
	}

	p := newGsmdParser(opts)
	doc := p.md.Parser().Parse(text.NewReader([]byte(body)))

	node, err := p.convertWithSource(doc, []byte(body))
	if err != nil {
		return nil, err
	}
	prob, ok := node.(*ast.Problem)
	if !ok {
		return nil, errors.NewParse(FormatName, "document did not produce a problem")
	}
	prob.Metadata = meta

	canonical, err := ast.Paragraphize(prob)
	if err != nil {
		return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
	}
	return canonical.(*ast.Problem), nil
}

// frontMatter is the YAML metadata block an authoring pipeline may place at
// the top of a problem file.
type frontMatter struct {
	ID   string   `yaml:"id,omitempty"`
	Tags []string `yaml:"tags,omitempty"`
}

// splitFrontMatter strips a leading YAML front matter block, returning the
// parsed metadata and the remaining markdown body.
func splitFrontMatter(source string) (ast.Metadata, string, error) {
	if !strings.HasPrefix(source, "---\n") && source != "---" {
		return ast.Metadata{}, source, nil
	}
	rest := strings.TrimPrefix(source, "---\n")
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return ast.Metadata{}, "", errors.NewParse(FormatName, "unterminated front matter block")
	}
	block := rest[:end]
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return ast.Metadata{}, "", &errors.ParseError{Format: FormatName, Message: "invalid front matter: " + err.Error(), Err: err}
	}
	return ast.Metadata{ID: fm.ID, Tags: fm.Tags}, body, nil
}

type gsmdParser struct {
	md         goldmark.Markdown
	converters map[string]Converter
}

func newGsmdParser(opts []ParseOption) *gsmdParser {
	p := &gsmdParser{
		md:         newMarkdown(),
		converters: make(map[string]Converter, len(builtinConverters)),
	}
	for name, fn := range builtinConverters {
		p.converters[name] = fn
	}
	p.converters[kindSolution.String()] = p.convertSolution
	p.converters[kindChoiceList.String()] = p.convertChoiceList
	p.converters[kindResponseBox.String()] = p.convertResponseBox
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// convertWithSource dispatches a markdown node to its converter, keyed by
// the node's kind name.
func (p *gsmdParser) convertWithSource(node gast.Node, source []byte) (ast.Node, error) {
	fn, ok := p.converters[node.Kind().String()]
	if !ok {
		return nil, errors.NewParsef(FormatName, "unsupported markdown construct %s", node.Kind())
	}
	convert := func(child gast.Node) (ast.Node, error) {
		return p.convertWithSource(child, source)
	}
	return fn(node, source, convert)
}

// parseFragment reparses a piece of markdown extracted from a construct such
// as a choice line or solution, returning the converted block nodes.
func (p *gsmdParser) parseFragment(fragment string) ([]ast.Node, error) {
	doc := p.md.Parser().Parse(text.NewReader([]byte(fragment)))

	var out []ast.Node
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		converted, err := p.convertWithSource(child, []byte(fragment))
		if err != nil {
			return nil, err
		}
		if converted != nil {
			out = append(out, converted)
		}
	}
	return out, nil
}
