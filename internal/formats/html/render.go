// Package html renders problems to standalone HTML fragments suitable for
// embedding in a course page. Solutions render as collapsible details
// elements and inline response boxes as show-answer buttons.
package html

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/google/uuid"

	"github.com/coursekit/probconv/core/ast"
	"github.com/coursekit/probconv/core/errors"
	"github.com/coursekit/probconv/internal/formats/base"
)

// FormatName identifies this format in error messages and registries.
const FormatName = "html"

// newID generates unique element ids for show-answer buttons. Stubbed in
// tests.
var newID = uuid.NewString

// RenderChildFunc renders a child node by dispatching to the renderer for
// its kind.
type RenderChildFunc func(ast.Node) (string, error)

// RenderFunc renders one node to HTML.
type RenderFunc func(node ast.Node, render RenderChildFunc) (string, error)

// RenderOption configures Render.
type RenderOption func(*renderer)

// WithRenderer overrides or adds the render function for a node kind.
func WithRenderer(kind ast.Kind, fn RenderFunc) RenderOption {
	return func(r *renderer) { r.renderers[kind] = fn }
}

// WithHighlighting enables server-side syntax highlighting of code blocks
// using the named chroma style, for example "github" or "monokai".
func WithHighlighting(style string) RenderOption {
	return func(r *renderer) { r.highlightStyle = style }
}

// Render renders a canonical problem tree to an HTML fragment.
func Render(p *ast.Problem, opts ...RenderOption) (string, error) {
	r := newRenderer(opts)
	out, err := r.render(p)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(base.CollapseEmptyLines(out)), nil
}

type renderer struct {
	renderers      map[ast.Kind]RenderFunc
	highlightStyle string
}

func newRenderer(opts []RenderOption) *renderer {
	r := &renderer{renderers: make(map[ast.Kind]RenderFunc, len(builtinRenderers))}
	for kind, fn := range builtinRenderers {
		r.renderers[kind] = fn
	}
	r.renderers[ast.KindProblem] = r.renderProblem
	r.renderers[ast.KindCode] = r.renderCode
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
		return "", errors.NewRender(FormatName, "HTML output cannot reference code files; inline the file contents first")
	}
	fn, ok := r.renderers[node.Kind()]
	if !ok {
		return "", errors.NewRenderf(FormatName, "no renderer for %s node", node.Kind())
	}
	return fn(node, r.render)
}

var builtinRenderers = map[ast.Kind]RenderFunc{
	ast.KindParagraph:         renderParagraph,
	ast.KindText:              renderText,
	ast.KindInlineMath:        renderInlineMath,
	ast.KindDisplayMath:       renderDisplayMath,
	ast.KindAlignMath:         renderAlignMath,
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

// renderProblem numbers subproblems in document order; everything else
// renders in place.
func (r *renderer) renderProblem(node ast.Node, render RenderChildFunc) (string, error) {
	counter := 1
	var parts []string
	for _, child := range node.(*ast.Problem).Children() {
		if sub, ok := child.(*ast.Subproblem); ok {
			out, err := r.renderSubproblem(sub, counter, render)
			if err != nil {
				return "", err
			}
			parts = append(parts, out)
			counter++
			continue
		}
		out, err := render(child)
		if err != nil {
			return "", err
		}
		parts = append(parts, out)
	}
	contents := strings.Join(parts, "\n")

	return fmt.Sprintf("<div class=\"problem\">\n    <div class=\"problem-body\">\n%s\n    </div>\n</div>", contents), nil
}

func (r *renderer) renderSubproblem(sub *ast.Subproblem, counter int, render RenderChildFunc) (string, error) {
	contents, err := renderChildren(sub, render, "\n")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<div class=\"subproblem\">\n    <h3 class=\"subproblem-id\">Part %d)</h3>\n%s\n</div>", counter, contents), nil
}

func renderParagraph(node ast.Node, render RenderChildFunc) (string, error) {
	contents, err := renderChildren(node.(*ast.Paragraph), render, "")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<p>%s</p>", contents), nil
}

func renderText(node ast.Node, render RenderChildFunc) (string, error) {
	text := node.(*ast.Text)
	out := text.Text
	if text.Bold {
		out = fmt.Sprintf("<b>%s</b>", out)
	}
	if text.Italic {
		out = fmt.Sprintf("<i>%s</i>", out)
	}
	return out, nil
}

func renderInlineMath(node ast.Node, render RenderChildFunc) (string, error) {
	return fmt.Sprintf("<span class=\"math\">\\(%s\\)</span>", node.(*ast.InlineMath).Latex), nil
}

func renderDisplayMath(node ast.Node, render RenderChildFunc) (string, error) {
	return fmt.Sprintf("<div class=\"math\">\\[%s\\]</div>", node.(*ast.DisplayMath).Latex), nil
}

func renderAlignMath(node ast.Node, render RenderChildFunc) (string, error) {
	latex := strings.TrimSpace(node.(*ast.AlignMath).Latex)
	return fmt.Sprintf("<div class=\"math\">\\[\\begin{aligned}%s\\end{aligned}\\]</div>", latex), nil
}

// renderCode highlights the block with chroma when a style is configured,
// falling back to a plain pre block.
func (r *renderer) renderCode(node ast.Node, render RenderChildFunc) (string, error) {
	code := node.(*ast.Code)
	if r.highlightStyle != "" {
		var sb strings.Builder
		err := quick.Highlight(&sb, strings.Trim(code.Code, "\n"), code.Language, "html", r.highlightStyle)
		if err != nil {
			return "", errors.NewRenderf(FormatName, "cannot highlight %s code: %v", code.Language, err)
		}
		return fmt.Sprintf("<div class=\"code\">%s</div>", sb.String()), nil
	}
	return fmt.Sprintf("<pre class=\"code\"><code>\n%s\n</code></pre>", strings.Trim(code.Code, "\n")), nil
}

func renderInlineCode(node ast.Node, render RenderChildFunc) (string, error) {
	return fmt.Sprintf("<span class=\"inline-code\"><code>%s</code></span>", node.(*ast.InlineCode).Code), nil
}

func renderImageFile(node ast.Node, render RenderChildFunc) (string, error) {
	return fmt.Sprintf("<center><div class=\"image\"><img src=\"%s\" /></div></center>", node.(*ast.ImageFile).RelativePath), nil
}

func renderSolution(node ast.Node, render RenderChildFunc) (string, error) {
	contents, err := renderChildren(node.(*ast.Solution), render, "\n")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<details>\n    <summary>Solution</summary>\n%s\n</details>", contents), nil
}

func renderTrueFalse(node ast.Node, render RenderChildFunc) (string, error) {
	return "<div class=\"true-false\">\n" +
		"    <input type=\"radio\" name=\"true-false\" value=\"true\" /> True\n" +
		"    <input type=\"radio\" name=\"true-false\" value=\"false\" /> False\n" +
		"</div>", nil
}

func renderChoice(choice *ast.Choice, render RenderChildFunc, input string) (string, error) {
	contents, err := renderChildren(choice, render, "\n")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<div class=\"choice\"><label><input name=\"choice\" class=\"choice\" type=\"%s\" />%s</label></div>", input, contents), nil
}

func renderChoiceList(node ast.Container, render RenderChildFunc, input string) (string, error) {
	choices := make([]string, 0, len(node.Children()))
	for _, child := range node.Children() {
		choice, ok := child.(*ast.Choice)
		if !ok {
			return "", errors.NewRenderf(FormatName, "no renderer for %s node", child.Kind())
		}
		out, err := renderChoice(choice, render, input)
		if err != nil {
			return "", err
		}
		choices = append(choices, out)
	}
	return strings.Join(choices, "\n"), nil
}

func renderMultipleChoice(node ast.Node, render RenderChildFunc) (string, error) {
	contents, err := renderChoiceList(node.(*ast.MultipleChoice), render, "radio")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<div class=\"multiple-choices\"><form>%s</form></div>", contents), nil
}

func renderMultipleSelect(node ast.Node, render RenderChildFunc) (string, error) {
	contents, err := renderChoiceList(node.(*ast.MultipleSelect), render, "checkbox")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<div class=\"multiple-select\">%s</div>", contents), nil
}

// renderInlineResponseBox hides the answer behind a show-answer button. The
// generated element ids keep multiple boxes on one page independent.
func renderInlineResponseBox(node ast.Node, render RenderChildFunc) (string, error) {
	answer, err := renderChildren(node.(*ast.InlineResponseBox), render, "")
	if err != nil {
		return "", err
	}
	id := newID()

	return fmt.Sprintf("<span class=\"inline-response-box\">"+
		"<span id=\"answer-%s\" style=\"display: none\">%s</span>"+
		"<span id=\"button-%s\">"+
		"<button type=\"button\" onclick=\""+
		"document.getElementById('answer-%s').style.display = 'inline-block'; "+
		"document.getElementById('button-%s').style.display = 'none'\">"+
		"Show Answer</button></span></span>",
		id, answer, id, id, id), nil
}
