package html

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

func text(t *testing.T, s string, opts ...ast.TextOption) *ast.Text {
	t.Helper()
	node, err := ast.NewText(s, opts...)
	if err != nil {
		t.Fatalf("NewText(%q): %v", s, err)
	}
	return node
}

func stubIDs(t *testing.T) {
	t.Helper()
	orig := newID
	newID = func() string { return "test-id" }
	t.Cleanup(func() { newID = orig })
}

func TestRenderSimpleProblem(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.Must(ast.NewParagraph(text(t, "This is the problem."))),
	))

	got := mustRender(t, prob)
	want := "<div class=\"problem\">\n" +
		"    <div class=\"problem-body\">\n" +
		"<p>This is the problem.</p>\n" +
		"    </div>\n" +
		"</div>"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderSubproblemNumbering(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.Must(ast.NewParagraph(text(t, "intro"))),
		ast.Must(ast.NewSubproblem(ast.Must(ast.NewParagraph(text(t, "first"))))),
		ast.Must(ast.NewSubproblem(ast.Must(ast.NewParagraph(text(t, "second"))))),
	))

	got := mustRender(t, prob)
	first := strings.Index(got, "Part 1)")
	second := strings.Index(got, "Part 2)")
	if first < 0 || second < 0 || second < first {
		t.Errorf("subproblems not numbered in order:\n%s", got)
	}
	if strings.Contains(got, "Part 3)") {
		t.Errorf("unexpected extra numbering:\n%s", got)
	}
}

func TestRenderStyledText(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.Must(ast.NewParagraph(
			text(t, "bold", ast.Bold()),
			text(t, " "),
			text(t, "italic", ast.Italic()),
			text(t, " "),
			text(t, "both", ast.Bold(), ast.Italic()),
		)),
	))

	got := mustRender(t, prob)
	for _, want := range []string{"<b>bold</b>", "<i>italic</i>", "<i><b>both</b></i>"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderMath(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.Must(ast.NewParagraph(
			text(t, "compute "),
			ast.NewInlineMath("f(x)"),
		)),
		ast.NewDisplayMath("x = 2"),
		ast.NewAlignMath("x &= 2", true),
	))

	got := mustRender(t, prob)
	for _, want := range []string{
		"<span class=\"math\">\\(f(x)\\)</span>",
		"<div class=\"math\">\\[x = 2\\]</div>",
		"<div class=\"math\">\\[\\begin{aligned}x &= 2\\end{aligned}\\]</div>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderCode(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.NewCode("python", "x = 1\n"),
		ast.Must(ast.NewParagraph(
			ast.NewInlineCode("text", "f()"),
		)),
	))

	got := mustRender(t, prob)
	if !strings.Contains(got, "<pre class=\"code\"><code>\nx = 1\n</code></pre>") {
		t.Errorf("output missing code block:\n%s", got)
	}
	if !strings.Contains(got, "<span class=\"inline-code\"><code>f()</code></span>") {
		t.Errorf("output missing inline code:\n%s", got)
	}
}

func TestRenderCodeHighlighted(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.NewCode("python", "x = 1\n"),
	))

	got := mustRender(t, prob, WithHighlighting("github"))
	if !strings.Contains(got, "<div class=\"code\">") {
		t.Errorf("output missing code wrapper:\n%s", got)
	}
	if !strings.Contains(got, "<pre") {
		t.Errorf("output missing highlighted block:\n%s", got)
	}
}

func TestRenderSolution(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.Must(ast.NewSolution(
			ast.Must(ast.NewParagraph(text(t, "because"))),
		)),
	))

	got := mustRender(t, prob)
	for _, want := range []string{"<details>", "<summary>Solution</summary>", "<p>because</p>"} {
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
		ast.Must(ast.NewMultipleSelect(
			ast.Must(ast.NewChoice(true, ast.Must(ast.NewParagraph(text(t, "red"))))),
		)),
	))

	got := mustRender(t, prob)
	if strings.Count(got, "type=\"radio\"") != 2 {
		t.Errorf("expected two radio inputs:\n%s", got)
	}
	if strings.Count(got, "type=\"checkbox\"") != 1 {
		t.Errorf("expected one checkbox input:\n%s", got)
	}
	if !strings.Contains(got, "<div class=\"multiple-choices\"><form>") {
		t.Errorf("output missing choices wrapper:\n%s", got)
	}
}

func TestRenderTrueFalse(t *testing.T) {
	prob := ast.Must(ast.NewProblem(ast.NewTrueFalse(true)))

	got := mustRender(t, prob)
	if !strings.Contains(got, "value=\"true\" /> True") || !strings.Contains(got, "value=\"false\" /> False") {
		t.Errorf("output missing true/false inputs:\n%s", got)
	}
}

func TestRenderResponseBox(t *testing.T) {
	stubIDs(t)
	prob := ast.Must(ast.NewProblem(
		ast.Must(ast.NewParagraph(
			ast.Must(ast.NewInlineResponseBox(text(t, "42"))),
		)),
	))

	got := mustRender(t, prob)
	for _, want := range []string{
		"<span id=\"answer-test-id\" style=\"display: none\">42</span>",
		"Show Answer",
		"document.getElementById('answer-test-id')",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderImage(t *testing.T) {
	prob := ast.Must(ast.NewProblem(ast.NewImageFile("images/fig.png")))

	got := mustRender(t, prob)
	if !strings.Contains(got, "<img src=\"images/fig.png\" />") {
		t.Errorf("output missing image:\n%s", got)
	}
}

func TestRenderCodeFileIsError(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.NewCodeFile("python", "code/solution.py"),
	))

	_, err := Render(prob)
	if !errors.Is(err, errors.ErrRender) {
		t.Fatalf("expected a render error, got %v", err)
	}
}

func TestRenderRejectsTransientNodes(t *testing.T) {
	prob := ast.Must(ast.NewProblem(
		ast.Must(ast.NewBlob(text(t, "raw"))),
	))

	_, err := Render(prob)
	if !errors.Is(err, errors.ErrRender) {
		t.Fatalf("expected a render error, got %v", err)
	}
}

func TestRenderOverride(t *testing.T) {
	prob := ast.Must(ast.NewProblem(ast.NewImageFile("images/fig.png")))

	got := mustRender(t, prob, WithRenderer(ast.KindImageFile,
		func(node ast.Node, render RenderChildFunc) (string, error) {
			return "[IMAGE]", nil
		}))
	if !strings.Contains(got, "[IMAGE]") {
		t.Errorf("override not applied:\n%s", got)
	}
}
