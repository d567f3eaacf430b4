// Package dsctex parses and renders problems written in the DSCTeX LaTeX
// dialect.
//
// Parsing is a two step process: the LaTeX source is first structured into a
// generic tree by core/tex, and each command and environment is then
// converted into a problem tree node by a converter function looked up by
// construct name. Callers can override or extend the built-in converters
// with parse options, so custom macros can be supported without modifying
// this package.
package dsctex

import (
	"regexp"
	"strings"

	"github.com/coursekit/probconv/core/ast"
	"github.com/coursekit/probconv/core/errors"
	"github.com/coursekit/probconv/core/tex"
)

// FormatName identifies this format in error messages and registries.
const FormatName = "dsctex"

// ConvertFunc recursively converts a structured LaTeX node into a problem
// tree node. It returns a nil node for content that contributes nothing,
// such as whitespace-only text.
type ConvertFunc func(tex.Node) (ast.Node, error)

// EnvironmentConverter converts a LaTeX environment into a problem tree
// node. The convert callback converts child content.
type EnvironmentConverter func(env *tex.Environment, convert ConvertFunc) (ast.Node, error)

// CommandConverter converts a LaTeX command into a problem tree node.
type CommandConverter func(cmd *tex.Command, convert ConvertFunc) (ast.Node, error)

// ParseOption configures Parse.
type ParseOption func(*parser)

// WithEnvironmentConverter overrides or adds the converter for the named
// environment.
func WithEnvironmentConverter(name string, fn EnvironmentConverter) ParseOption {
	return func(p *parser) { p.envConverters[name] = fn }
}

// WithCommandConverter overrides or adds the converter for the named
// command.
func WithCommandConverter(name string, fn CommandConverter) ParseOption {
	return func(p *parser) { p.cmdConverters[name] = fn }
}

// Parse parses DSCTeX source into a canonical problem tree. The source must
// contain exactly one top-level prob environment.
func Parse(source string, opts ...ParseOption) (*ast.Problem, error) {
	p := newParser(opts)

	root, err := tex.Parse(source)
	if err != nil {
		return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
	}

	probEnv, err := singleProblem(root)
	if err != nil {
		return nil, err
	}

	node, err := p.convert(probEnv)
	if err != nil {
		return nil, err
	}
	prob, ok := node.(*ast.Problem)
	if !ok {
		return nil, errors.NewParse(FormatName, "prob environment did not produce a problem")
	}

	canonical, err := ast.Paragraphize(prob)
	if err != nil {
		return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
	}
	return canonical.(*ast.Problem), nil
}

// singleProblem finds the one prob environment at the top level of the
// document, rejecting any other non-whitespace content.
func singleProblem(root *tex.Environment) (*tex.Environment, error) {
	var probEnv *tex.Environment
	for _, node := range root.Nodes {
		switch n := node.(type) {
		case *tex.Text:
			if strings.TrimSpace(n.Value) != "" {
				return nil, errors.NewParse(FormatName, "text outside of the prob environment")
			}
		case *tex.Environment:
			if n.Name != "prob" {
				return nil, errors.NewParsef(FormatName, "unexpected top-level environment %q", n.Name)
			}
			if probEnv != nil {
				return nil, errors.NewParse(FormatName, "source must contain exactly one prob environment")
			}
			probEnv = n
		default:
			return nil, errors.NewParse(FormatName, "unexpected content outside of the prob environment")
		}
	}
	if probEnv == nil {
		return nil, errors.NewParse(FormatName, "source must contain exactly one prob environment")
	}
	return probEnv, nil
}

type parser struct {
	envConverters map[string]EnvironmentConverter
	cmdConverters map[string]CommandConverter
}

func newParser(opts []ParseOption) *parser {
	p := &parser{
		envConverters: make(map[string]EnvironmentConverter, len(builtinEnvConverters)),
		cmdConverters: make(map[string]CommandConverter, len(builtinCmdConverters)),
	}
	for name, fn := range builtinEnvConverters {
		p.envConverters[name] = fn
	}
	for name, fn := range builtinCmdConverters {
		p.cmdConverters[name] = fn
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// convert dispatches a structured LaTeX node to its converter.
func (p *parser) convert(node tex.Node) (ast.Node, error) {
	switch n := node.(type) {
	case *tex.Text:
		return convertText(n.Value)
	case *tex.Command:
		fn, ok := p.cmdConverters[n.Name]
		if !ok {
			return nil, errors.NewParsef(FormatName, "unknown command \\%s", n.Name)
		}
		return fn(n, p.convert)
	case *tex.Environment:
		fn, ok := p.envConverters[n.Name]
		if !ok {
			return nil, errors.NewParsef(FormatName, "unknown environment %q", n.Name)
		}
		return fn(n, p.convert)
	case *tex.Group:
		return nil, errors.NewParse(FormatName, "unexpected braced group")
	default:
		return nil, errors.NewParsef(FormatName, "unknown LaTeX construct %T", node)
	}
}

// convertNodes converts a sequence of LaTeX nodes, dropping nil results.
func convertNodes(nodes []tex.Node, convert ConvertFunc) ([]ast.Node, error) {
	var out []ast.Node
	for _, n := range nodes {
		converted, err := convert(n)
		if err != nil {
			return nil, err
		}
		if converted != nil {
			out = append(out, converted)
		}
	}
	return out, nil
}

// convertText turns raw interstitial source text into a Blob of Text
// fragments with ParBreak markers at blank lines. Whitespace-only text
// contributes nothing.
func convertText(value string) (ast.Node, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	var children []ast.Node
	for i, fragment := range splitBlankLines(value) {
		if i > 0 {
			children = append(children, ast.NewParBreak())
		}
		if strings.TrimSpace(fragment) == "" {
			continue
		}
		text, err := ast.NewText(fragment)
		if err != nil {
			return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
		}
		children = append(children, text)
	}

	blob, err := ast.NewBlob(children...)
	if err != nil {
		return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
	}
	return blob, nil
}

// blankLines matches a run of one or more blank lines, the only paragraph
// boundary the LaTeX grammar exposes.
var blankLines = regexp.MustCompile(`\n[ \t]*(\n[ \t]*)+`)

// splitBlankLines splits text at runs of one or more blank lines.
func splitBlankLines(s string) []string {
	return blankLines.Split(s, -1)
}
