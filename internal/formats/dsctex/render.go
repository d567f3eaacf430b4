package dsctex

import (
	"fmt"
	"strings"

	"github.com/coursekit/probconv/core/ast"
	"github.com/coursekit/probconv/core/errors"
	"github.com/coursekit/probconv/internal/formats/base"
)

// RenderChildFunc renders a child node by dispatching to the renderer for
// its kind.
type RenderChildFunc func(ast.Node) (string, error)

// RenderFunc renders one node to DSCTeX source.
type RenderFunc func(node ast.Node, render RenderChildFunc) (string, error)

// RenderOption configures Render.
type RenderOption func(*renderer)

// WithRenderer overrides or adds the render function for a node kind.
func WithRenderer(kind ast.Kind, fn RenderFunc) RenderOption {
	return func(r *renderer) { r.renderers[kind] = fn }
}

// Render renders a canonical problem tree to DSCTeX source.
func Render(p *ast.Problem, opts ...RenderOption) (string, error) {
	r := newRenderer(opts)
	out, err := r.render(p)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(base.CollapseEmptyLines(out)), nil
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
	fn, ok := r.renderers[node.Kind()]
	if !ok {
		return "", errors.NewRenderf(FormatName, "no renderer for %s node", node.Kind())
	}
	return fn(node, r.render)
}

var builtinRenderers = map[ast.Kind]RenderFunc{
	ast.KindProblem:           renderProblem,
	ast.KindSubproblem:        renderSubproblem,
	ast.KindParagraph:         renderParagraph,
	ast.KindText:              renderText,
	ast.KindInlineMath:        renderInlineMath,
	ast.KindDisplayMath:       renderDisplayMath,
	ast.KindAlignMath:         renderAlignMath,
	ast.KindCode:              renderCode,
	ast.KindInlineCode:        renderInlineCode,
	ast.KindCodeFile:          renderCodeFile,
	ast.KindImageFile:         renderImageFile,
	ast.KindSolution:          renderSolution,
	ast.KindMultipleChoice:    renderMultipleChoice,
	ast.KindMultipleSelect:    renderMultipleSelect,
	ast.KindInlineResponseBox: renderInlineResponseBox,
	ast.KindTrueFalse:         renderTrueFalse,
}

// renderChildren renders each child and joins the results with the
// separator.
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

// renderProblem renders the prob environment. Runs of consecutive
// subproblems are wrapped together in a single subprobset environment.
func renderProblem(node ast.Node, render RenderChildFunc) (string, error) {
	prob := node.(*ast.Problem)

	var parts []string
	var subprobs []string
	flushSubprobs := func() {
		if len(subprobs) == 0 {
			return
		}
		inner := base.Indent(strings.Join(subprobs, "\n"), "    ")
		parts = append(parts, "\n\\begin{subprobset}\n"+inner+"\n\\end{subprobset}\n")
		subprobs = nil
	}

	for _, child := range prob.Children() {
		out, err := render(child)
		if err != nil {
			return "", err
		}
		if child.Kind() == ast.KindSubproblem {
			subprobs = append(subprobs, out)
			continue
		}
		flushSubprobs()
		parts = append(parts, out)
	}
	flushSubprobs()

	contents := base.Indent(strings.Join(parts, "\n"), "    ")
	return "\n\\begin{prob}\n" + contents + "\n\\end{prob}\n", nil
}

func renderSubproblem(node ast.Node, render RenderChildFunc) (string, error) {
	contents, err := renderChildren(node.(*ast.Subproblem), render, "\n")
	if err != nil {
		return "", err
	}
	return "\n\\begin{subprob}\n" + base.Indent(contents, "    ") + "\n\\end{subprob}\n", nil
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
		return fmt.Sprintf(`\textbf{%s}`, text.Text), nil
	case text.Italic:
		return fmt.Sprintf(`\textit{%s}`, text.Text), nil
	default:
		return text.Text, nil
	}
}

func renderInlineMath(node ast.Node, render RenderChildFunc) (string, error) {
	return fmt.Sprintf("$%s$", node.(*ast.InlineMath).Latex), nil
}

func renderDisplayMath(node ast.Node, render RenderChildFunc) (string, error) {
	latex := base.Indent(strings.TrimSpace(node.(*ast.DisplayMath).Latex), "    ")
	return "\n\\[\n" + latex + "\n\\]\n", nil
}

func renderAlignMath(node ast.Node, render RenderChildFunc) (string, error) {
	align := node.(*ast.AlignMath)
	env := "align"
	if align.Starred {
		env = "align*"
	}
	latex := base.Indent(strings.TrimSpace(align.Latex), "    ")
	return fmt.Sprintf("\n\\begin{%s}\n%s\n\\end{%s}\n", env, latex, env), nil
}

func renderCode(node ast.Node, render RenderChildFunc) (string, error) {
	code := node.(*ast.Code)
	return fmt.Sprintf("\n\\begin{minted}{%s}\n%s\n\\end{minted}\n", code.Language, strings.Trim(code.Code, "\n")), nil
}

func renderInlineCode(node ast.Node, render RenderChildFunc) (string, error) {
	code := node.(*ast.InlineCode)
	return fmt.Sprintf(`\mintinline{%s}{%s}`, code.Language, code.Code), nil
}

func renderCodeFile(node ast.Node, render RenderChildFunc) (string, error) {
	file := node.(*ast.CodeFile)
	return fmt.Sprintf("\n\\inputminted{%s}{%s}\n", file.Language, file.RelativePath), nil
}

func renderImageFile(node ast.Node, render RenderChildFunc) (string, error) {
	return fmt.Sprintf("\n\\includegraphics{%s}\n", node.(*ast.ImageFile).RelativePath), nil
}

func renderSolution(node ast.Node, render RenderChildFunc) (string, error) {
	contents, err := renderChildren(node.(*ast.Solution), render, "\n")
	if err != nil {
		return "", err
	}
	return "\n\\begin{soln}\n" + base.Indent(contents, "    ") + "\n\\end{soln}\n", nil
}

func renderTrueFalse(node ast.Node, render RenderChildFunc) (string, error) {
	if node.(*ast.TrueFalse).Solution {
		return "\n\\Tf{}\n", nil
	}
	return "\n\\tF{}\n", nil
}

func renderChoice(choice *ast.Choice, render RenderChildFunc) (string, error) {
	command := `\choice`
	if choice.Correct {
		command = `\correctchoice`
	}
	contents, err := renderChildren(choice, render, "")
	if err != nil {
		return "", err
	}
	return command + " {\n" + base.Indent(contents, "    ") + "\n}", nil
}

func renderChoiceList(node ast.Container, render RenderChildFunc, opt string) (string, error) {
	choices := make([]string, 0, len(node.Children()))
	for _, child := range node.Children() {
		choice, ok := child.(*ast.Choice)
		if !ok {
			return "", errors.NewRenderf(FormatName, "no renderer for %s node", child.Kind())
		}
		out, err := renderChoice(choice, render)
		if err != nil {
			return "", err
		}
		choices = append(choices, out)
	}
	body := base.Indent(strings.Join(choices, "\n"), "    ")
	return fmt.Sprintf("\n\\begin{choices}%s\n%s\n\\end{choices}\n", opt, body), nil
}

func renderMultipleChoice(node ast.Node, render RenderChildFunc) (string, error) {
	return renderChoiceList(node.(*ast.MultipleChoice), render, "")
}

func renderMultipleSelect(node ast.Node, render RenderChildFunc) (string, error) {
	return renderChoiceList(node.(*ast.MultipleSelect), render, "[rectangle]")
}

func renderInlineResponseBox(node ast.Node, render RenderChildFunc) (string, error) {
	contents, err := renderChildren(node.(*ast.InlineResponseBox), render, "")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`\inlineresponsebox{%s}`, contents), nil
}
