// Package convert ties the format packages together: it maps format names
// to parsers and renderers and converts problems between formats.
package convert

import (
	"sort"

	"github.com/coursekit/probconv/core/ast"
	"github.com/coursekit/probconv/core/errors"
	"github.com/coursekit/probconv/internal/formats/dsctex"
	"github.com/coursekit/probconv/internal/formats/gsmd"
	"github.com/coursekit/probconv/internal/formats/html"
)

// ParseFunc parses a source document into a canonical problem tree.
type ParseFunc func(source string) (*ast.Problem, error)

// RenderFunc renders a canonical problem tree to a target format.
type RenderFunc func(p *ast.Problem) (string, error)

var parsers = map[string]ParseFunc{
	dsctex.FormatName: func(source string) (*ast.Problem, error) { return dsctex.Parse(source) },
	gsmd.FormatName:   func(source string) (*ast.Problem, error) { return gsmd.Parse(source) },
}

var renderers = map[string]RenderFunc{
	dsctex.FormatName: func(p *ast.Problem) (string, error) { return dsctex.Render(p) },
	gsmd.FormatName:   func(p *ast.Problem) (string, error) { return gsmd.Render(p) },
	html.FormatName:   func(p *ast.Problem) (string, error) { return html.Render(p) },
}

// ParserNames returns the names of the available parsers, sorted.
func ParserNames() []string {
	return sortedKeys(parsers)
}

// RendererNames returns the names of the available renderers, sorted.
func RendererNames() []string {
	return sortedKeys(renderers)
}

// Parser returns the parser registered under the given format name.
func Parser(name string) (ParseFunc, error) {
	fn, ok := parsers[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownFormat,
			"unknown parser %q, valid parsers are %v", name, ParserNames())
	}
	return fn, nil
}

// Renderer returns the renderer registered under the given format name.
func Renderer(name string) (RenderFunc, error) {
	fn, ok := renderers[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownFormat,
			"unknown renderer %q, valid renderers are %v", name, RendererNames())
	}
	return fn, nil
}

// Convert parses the source with the named parser and renders the result
// with the named renderer.
func Convert(source, parserName, rendererName string) (string, error) {
	parse, err := Parser(parserName)
	if err != nil {
		return "", err
	}
	render, err := Renderer(rendererName)
	if err != nil {
		return "", err
	}

	prob, err := parse(source)
	if err != nil {
		return "", err
	}
	return render(prob)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
