package dsctex

import (
	"strings"
	"testing"

	"github.com/coursekit/probconv/core/ast"
	"github.com/coursekit/probconv/core/errors"
)

func mustRender(t *testing.T, prob *ast.Problem, opts ...RenderOption) string {
	t.Helper()
	out, err := Render(prob, opts...)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return out
}

func TestRenderSimpleProblem(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.Must(ast.NewParagraph(text(t, "This is the problem."))),
	))

	got := mustRender(t, prob)
	want := "\\begin{prob}\n\n    This is the problem.\n\n\\end{prob}"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderStyledText(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.Must(ast.NewParagraph(
			text(t, "a "),
			text(t, "bold", ast.Bold()),
			text(t, " and "),
			text(t, "italic", ast.Italic()),
			text(t, " word"),
		)),
	))

	got := mustRender(t, prob)
	if !strings.Contains(got, `a \textbf{bold} and \textit{italic} word`) {
		t.Errorf("styled text not rendered: %q", got)
	}
}

func TestRenderMath(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.Must(ast.NewParagraph(
			text(t, "inline "),
			ast.NewInlineMath("x^2"),
		)),
		ast.NewDisplayMath("f(x) = 42"),
		ast.NewAlignMath("x &= 2", true),
	))

	got := mustRender(t, prob)
	for _, want := range []string{
		`inline $x^2$`,
		"\\[\n    f(x) = 42\n\\]",
		"\\begin{align*}\n    x &= 2\n\\end{align*}",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderCode(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.NewCode("python", "def f(x):\n    return x + 1\n"),
		ast.NewCodeFile("python", "code.py"),
		ast.Must(ast.NewParagraph(ast.NewInlineCode("python", "f(1)"))),
	))

	got := mustRender(t, prob)
	for _, want := range []string{
		"\\begin{minted}{python}\ndef f(x):\n    return x + 1\n\\end{minted}",
		`\inputminted{python}{code.py}`,
		`\mintinline{python}{f(1)}`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderChoices(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.Must(ast.NewMultipleChoice(
			ast.Must(ast.NewChoice(false, ast.Must(ast.NewParagraph(text(t, "one"))))),
			ast.Must(ast.NewChoice(true, ast.Must(ast.NewParagraph(text(t, "two"))))),
		)),
	))

	got := mustRender(t, prob)
	if !strings.Contains(got, `\begin{choices}`) || strings.Contains(got, "[rectangle]") {
		t.Errorf("expected a plain choices environment:\n%s", got)
	}
	if !strings.Contains(got, `\choice {`) || !strings.Contains(got, `\correctchoice {`) {
		t.Errorf("choice commands missing:\n%s", got)
	}
	if strings.Index(got, `\choice`) > strings.Index(got, `\correctchoice`) {
		t.Errorf("choices out of order:\n%s", got)
	}
}

func TestRenderMultipleSelectUsesRectangle(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.Must(ast.NewMultipleSelect(
			ast.Must(ast.NewChoice(true, ast.Must(ast.NewParagraph(text(t, "pick me"))))),
		)),
	))

	got := mustRender(t, prob)
	if !strings.Contains(got, `\begin{choices}[rectangle]`) {
		t.Errorf("expected rectangle option:\n%s", got)
	}
}

func TestRenderSubproblemsShareOneSubprobset(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.Must(ast.NewSubproblem(ast.Must(ast.NewParagraph(text(t, "part one"))))),
		ast.Must(ast.NewSubproblem(ast.Must(ast.NewParagraph(text(t, "part two"))))),
	))

	got := mustRender(t, prob)
	if strings.Count(got, `\begin{subprobset}`) != 1 {
		t.Errorf("expected exactly one subprobset:\n%s", got)
	}
	if strings.Count(got, `\begin{subprob}`) != 2 {
		t.Errorf("expected two subprob environments:\n%s", got)
	}
}

func TestRenderSolutionAndTrueFalse(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.NewTrueFalse(true),
		ast.Must(ast.NewSolution(ast.Must(ast.NewParagraph(text(t, "because"))))),
	))

	got := mustRender(t, prob)
	if !strings.Contains(got, `\Tf{}`) {
		t.Errorf("true/false command missing:\n%s", got)
	}
	if !strings.Contains(got, "\\begin{soln}\n\n    because\n\n\\end{soln}") {
		t.Errorf("solution environment missing:\n%s", got)
	}
}

func TestRenderInlineResponseBox(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.Must(ast.NewParagraph(
			ast.Must(ast.NewInlineResponseBox(text(t, "answer"))),
		)),
	))

	got := mustRender(t, prob)
	if !strings.Contains(got, `\inlineresponsebox{answer}`) {
		t.Errorf("inline response box missing:\n%s", got)
	}
}

func TestRenderRejectsTransientNodes(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.Must(ast.NewBlob(text(t, "loose"))),
	))

	_, err := Render(prob)
	if err == nil {
		t.Fatal("expected a render error")
	}
	if !errors.Is(err, errors.ErrRender) {
		t.Errorf("error should unwrap to ErrRender, got %v", err)
	}
}

func TestRenderOverride(t *testing.T) {
	override := func(node ast.Node, render RenderChildFunc) (string, error) {
		return "[IMAGE]", nil
	}

	prob := ast.Must(ast.NewProblem(ast.NewImageFile("x.png")))
	got := mustRender(t, prob, WithRenderer(ast.KindImageFile, override))
	if got != "\\begin{prob}\n    [IMAGE]\n\\end{prob}" {
		t.Errorf("override not applied: %q", got)
	}
}
