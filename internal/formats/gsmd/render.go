package gsmd

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coursekit/probconv/core/ast"
	"github.com/coursekit/probconv/core/errors"
	"github.com/coursekit/probconv/internal/formats/base"
)

// RenderChildFunc renders a child node by dispatching to the renderer for
// its kind.
type RenderChildFunc func(ast.Node) (string, error)

// RenderFunc renders one node to Gradescope-flavored markdown.
type RenderFunc func(node ast.Node, render RenderChildFunc) (string, error)

// RenderOption configures Render.
type RenderOption func(*renderer)

// WithRenderer overrides or adds the render function for a node kind.
func WithRenderer(kind ast.Kind, fn RenderFunc) RenderOption {
	return func(r *renderer) { r.renderers[kind] = fn }
}

// Render renders a canonical problem tree to Gradescope-flavored markdown.
// Problem metadata, when present, is emitted as a YAML front matter block.
func Render(p *ast.Problem, opts ...RenderOption) (string, error) {
	r := newRenderer(opts)
	out, err := r.render(p)
	if err != nil {
		return "", err
	}
	body := strings.TrimSpace(base.CollapseEmptyLines(out))

	if p.Metadata.IsZero() {
		return body, nil
	}
	front, err := renderFrontMatter(p.Metadata)
	if err != nil {
		return "", err
	}
	return front + "\n" + body, nil
}

func renderFrontMatter(meta ast.Metadata) (string, error) {
	fm := frontMatter{ID: meta.ID, Tags: meta.Tags}
	encoded, err := yaml.Marshal(fm)
	if err != nil {
		return "", errors.NewRenderf(FormatName, "cannot encode metadata: %v", err)
	}
	return "---\n" + string(encoded) + "---\n", nil
}

type renderer struct {
	renderers map[ast.Kind]RenderFunc
}

func newRenderer(opts []RenderOption) *renderer {
	r := &renderer{renderers: make(map[ast.Kind]RenderFunc, len(builtinRenderers))}
	for kind, fn := range builtinRenderers {
		r.renderers[kind] = fn
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *renderer) render(node ast.Node) (string, error) {
	if ast.IsTransient(node.Kind()) {
		return "", errors.NewRenderf(FormatName, "tree contains transient %s node", node.Kind())
	}
	if node.Kind() == ast.KindCodeFile {
		return "", errors.NewRender(FormatName, "Gradescope markdown cannot reference code files; inline the file contents first")
	}
	fn, ok := r.renderers[node.Kind()]
	if !ok {
		return "", errors.NewRenderf(FormatName, "no renderer for %s node", node.Kind())
	}
	return fn(node, r.render)
}

var builtinRenderers = map[ast.Kind]RenderFunc{
	ast.KindProblem:           renderProblem,
	ast.KindParagraph:         renderParagraph,
	ast.KindText:              renderText,
	ast.KindInlineMath:        renderInlineMath,
	ast.KindDisplayMath:       renderDisplayMath,
	ast.KindAlignMath:         renderAlignMath,
	ast.KindCode:              renderCode,
	ast.KindInlineCode:        renderInlineCode,
	ast.KindImageFile:         renderImageFile,
	ast.KindSolution:          renderSolution,
	ast.KindMultipleChoice:    renderMultipleChoice,
	ast.KindMultipleSelect:    renderMultipleSelect,
	ast.KindInlineResponseBox: renderInlineResponseBox,
	ast.KindTrueFalse:         renderTrueFalse,
}

func renderChildren(node ast.Container, render RenderChildFunc, sep string) (string, error) {
	parts := make([]string, 0, len(node.Children()))
	for _, child := range node.Children() {
		out, err := render(child)
		if err != nil {
			return "", err
		}
		parts = append(parts, out)
	}
	return strings.Join(parts, sep), nil
}

func renderProblem(node ast.Node, render RenderChildFunc) (string, error) {
	return renderChildren(node.(*ast.Problem), render, "\n")
}

func renderParagraph(node ast.Node, render RenderChildFunc) (string, error) {
	contents, err := renderChildren(node.(*ast.Paragraph), render, "")
	if err != nil {
		return "", err
	}
	return "\n" + contents + "\n", nil
}

func renderText(node ast.Node, render RenderChildFunc) (string, error) {
	text := node.(*ast.Text)
	switch {
	case text.Bold:
		return fmt.Sprintf("**%s**", text.Text), nil
	case text.Italic:
		return fmt.Sprintf("*%s*", text.Text), nil
	default:
		return text.Text, nil
	}
}

func renderInlineMath(node ast.Node, render RenderChildFunc) (string, error) {
	return fmt.Sprintf("$$%s$$", node.(*ast.InlineMath).Latex), nil
}

func renderDisplayMath(node ast.Node, render RenderChildFunc) (string, error) {
	return fmt.Sprintf("\n\n$$%s$$\n\n", strings.TrimSpace(node.(*ast.DisplayMath).Latex)), nil
}

// renderAlignMath wraps the alignment in an aligned environment, the only
// way Gradescope's math delimiters can express one.
func renderAlignMath(node ast.Node, render RenderChildFunc) (string, error) {
	latex := strings.TrimSpace(node.(*ast.AlignMath).Latex)
	return fmt.Sprintf("\n\n$$\\begin{aligned}%s\\end{aligned}$$\n\n", latex), nil
}

func renderCode(node ast.Node, render RenderChildFunc) (string, error) {
	code := node.(*ast.Code)
	return fmt.Sprintf("\n```%s\n%s\n```\n", code.Language, strings.Trim(code.Code, "\n")), nil
}

func renderInlineCode(node ast.Node, render RenderChildFunc) (string, error) {
	return fmt.Sprintf("`%s`", node.(*ast.InlineCode).Code), nil
}

func renderImageFile(node ast.Node, render RenderChildFunc) (string, error) {
	return fmt.Sprintf("\n![](%s)\n", node.(*ast.ImageFile).RelativePath), nil
}

// renderSolution renders the solution contents and wraps each resulting
// line in [[...]], since Gradescope solutions are single-line constructs.
func renderSolution(node ast.Node, render RenderChildFunc) (string, error) {
	contents, err := renderChildren(node.(*ast.Solution), render, "\n")
	if err != nil {
		return "", err
	}
	contents = base.CollapseEmptyLines(contents)

	var wrapped []string
	for _, line := range strings.Split(contents, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		wrapped = append(wrapped, fmt.Sprintf("[[%s]]", line))
	}
	return "\n\n" + strings.Join(wrapped, "\n") + "\n\n", nil
}

func renderTrueFalse(node ast.Node, render RenderChildFunc) (string, error) {
	if node.(*ast.TrueFalse).Solution {
		return "\n(x) True\n( ) False\n", nil
	}
	return "\n( ) True\n(x) False\n", nil
}

func renderChoice(choice *ast.Choice, render RenderChildFunc, rectangle bool) (string, error) {
	contents, err := renderChildren(choice, render, "")
	if err != nil {
		return "", err
	}
	contents = strings.TrimSpace(contents)
	if strings.Contains(contents, "\n") {
		return "", errors.NewRender(FormatName, "Gradescope markdown does not support multi-line choice options")
	}

	marker := "( )"
	if rectangle {
		marker = "[ ]"
	}
	if choice.Correct {
		if rectangle {
			marker = "[x]"
		} else {
			marker = "(x)"
		}
	}
	return marker + " " + contents, nil
}

func renderChoiceList(node ast.Container, render RenderChildFunc, rectangle bool) (string, error) {
	choices := make([]string, 0, len(node.Children()))
	for _, child := range node.Children() {
		choice, ok := child.(*ast.Choice)
		if !ok {
			return "", errors.NewRenderf(FormatName, "no renderer for %s node", child.Kind())
		}
		out, err := renderChoice(choice, render, rectangle)
		if err != nil {
			return "", err
		}
		choices = append(choices, out)
	}
	return "\n\n" + strings.Join(choices, "\n") + "\n\n", nil
}

func renderMultipleChoice(node ast.Node, render RenderChildFunc) (string, error) {
	return renderChoiceList(node.(*ast.MultipleChoice), render, false)
}

func renderMultipleSelect(node ast.Node, render RenderChildFunc) (string, error) {
	return renderChoiceList(node.(*ast.MultipleSelect), render, true)
}

func renderInlineResponseBox(node ast.Node, render RenderChildFunc) (string, error) {
	contents, err := renderChildren(node.(*ast.InlineResponseBox), render, "")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("\n[____](%s)\n", contents), nil
}
