package ast

import "testing"

func paragraphize(t *testing.T, node Container) Container {
	t.Helper()
	result, err := Paragraphize(node)
	if err != nil {
		t.Fatalf("Paragraphize failed: %v", err)
	}
	return result
}

func TestParagraphizeWrapsLooseTextIntoParagraph(t *testing.T) {
	tree := Must(NewProblem(Must(NewBlob(text(t, "This is text.")))))

	result := paragraphize(t, tree)

	want := Must(NewProblem(
		Must(NewParagraph(text(t, "This is text."))),
	))
	if !result.Equal(want) {
		t.Errorf("result = %#v, want %#v", result, want)
	}
}

func TestParagraphizeMergesAdjacentBlobs(t *testing.T) {
	tree := Must(NewProblem(
		Must(NewBlob(text(t, "This is a "))),
		Must(NewBlob(text(t, "bold", Bold()))),
	))

	result := paragraphize(t, tree)

	want := Must(NewProblem(
		Must(NewParagraph(
			text(t, "This is a "),
			text(t, "bold", Bold()),
		)),
	))
	if !result.Equal(want) {
		t.Errorf("adjacent blobs should merge into one paragraph, got %#v", result)
	}
}

func TestParagraphizeSplitsAtParBreaks(t *testing.T) {
	tree := Must(NewProblem(
		Must(NewBlob(
			text(t, "One"),
			NewParBreak(),
			text(t, "Two"),
			NewParBreak(),
			text(t, "Three"),
		)),
	))

	result := paragraphize(t, tree)

	want := Must(NewProblem(
		Must(NewParagraph(text(t, "One"))),
		Must(NewParagraph(text(t, "Two"))),
		Must(NewParagraph(text(t, "Three"))),
	))
	if !result.Equal(want) {
		t.Errorf("result = %#v, want %#v", result, want)
	}
}

func TestParagraphizeConsumesBoundaryAndConsecutiveParBreaks(t *testing.T) {
	tree := Must(NewProblem(
		Must(NewBlob(
			NewParBreak(),
			text(t, "One"),
			NewParBreak(),
			NewParBreak(),
			text(t, "Two"),
			NewParBreak(),
		)),
	))

	result := paragraphize(t, tree)

	want := Must(NewProblem(
		Must(NewParagraph(text(t, "One"))),
		Must(NewParagraph(text(t, "Two"))),
	))
	if !result.Equal(want) {
		t.Errorf("no empty paragraphs expected, got %#v", result)
	}
}

func TestParagraphizeKeepsStructuredNodesInPlace(t *testing.T) {
	tree := Must(NewProblem(
		Must(NewBlob(text(t, "before"))),
		NewImageFile("fig.png"),
		Must(NewBlob(text(t, "after"))),
	))

	result := paragraphize(t, tree)

	want := Must(NewProblem(
		Must(NewParagraph(text(t, "before"))),
		NewImageFile("fig.png"),
		Must(NewParagraph(text(t, "after"))),
	))
	if !result.Equal(want) {
		t.Errorf("structured node should split paragraphs, got %#v", result)
	}
}

func TestParagraphizePreservesStyling(t *testing.T) {
	tree := Must(NewProblem(
		Must(NewBlob(
			text(t, "This is "),
			text(t, "bold", Bold()),
			text(t, " and "),
			text(t, "italic", Italic()),
		)),
	))

	result := paragraphize(t, tree)

	want := Must(NewProblem(
		Must(NewParagraph(
			text(t, "This is "),
			text(t, "bold", Bold()),
			text(t, " and "),
			text(t, "italic", Italic()),
		)),
	))
	if !result.Equal(want) {
		t.Errorf("styling should survive paragraphization, got %#v", result)
	}
}

func TestParagraphizeTrimsParagraphBoundaries(t *testing.T) {
	tree := Must(NewProblem(
		Must(NewBlob(
			text(t, "  hello "),
			text(t, "there  and "),
			text(t, "goodbye  "),
		)),
	))

	result := paragraphize(t, tree)

	// internal single spaces survive; only the paragraph's outermost
	// whitespace is stripped
	want := Must(NewProblem(
		Must(NewParagraph(
			text(t, "hello "),
			text(t, "there and "),
			text(t, "goodbye"),
		)),
	))
	if !result.Equal(want) {
		t.Errorf("boundary trimming wrong, got %#v", result)
	}
}

func TestParagraphizeEmptyBlobContributesNothing(t *testing.T) {
	tree := Must(NewProblem(
		Must(NewBlob()),
		Must(NewBlob(text(t, "content"))),
		Must(NewBlob()),
	))

	result := paragraphize(t, tree)

	want := Must(NewProblem(
		Must(NewParagraph(text(t, "content"))),
	))
	if !result.Equal(want) {
		t.Errorf("empty blobs should vanish, got %#v", result)
	}
}

func TestParagraphizeIsIdempotentOnCanonicalTrees(t *testing.T) {
	canonical := Must(NewProblem(
		Must(NewParagraph(text(t, "Testing"))),
		NewCode("python", "x = 1"),
		Must(NewMultipleChoice(
			Must(NewChoice(true, Must(NewParagraph(text(t, "yes"))))),
		)),
	))

	result := paragraphize(t, canonical)

	if !result.Equal(canonical) {
		t.Errorf("canonical tree should be unchanged, got %#v", result)
	}
}

func TestParagraphizeRecursesIntoStructuredChildren(t *testing.T) {
	tree := Must(NewProblem(
		Must(NewSolution(
			Must(NewBlob(
				text(t, "First"),
				NewParBreak(),
				text(t, "Second"),
			)),
		)),
	))

	result := paragraphize(t, tree)

	want := Must(NewProblem(
		Must(NewSolution(
			Must(NewParagraph(text(t, "First"))),
			Must(NewParagraph(text(t, "Second"))),
		)),
	))
	if !result.Equal(want) {
		t.Errorf("recursion into Solution failed, got %#v", result)
	}
}

func TestParagraphizeRecursesIntoSubproblemsAndChoices(t *testing.T) {
	tree := Must(NewProblem(
		Must(NewSubproblem(
			Must(NewBlob(text(t, "sub text"))),
			Must(NewMultipleChoice(
				Must(NewChoice(false, Must(NewBlob(text(t, "choice text"))))),
			)),
		)),
	))

	result := paragraphize(t, tree)

	want := Must(NewProblem(
		Must(NewSubproblem(
			Must(NewParagraph(text(t, "sub text"))),
			Must(NewMultipleChoice(
				Must(NewChoice(false, Must(NewParagraph(text(t, "choice text"))))),
			)),
		)),
	))
	if !result.Equal(want) {
		t.Errorf("recursion into subproblem/choice failed, got %#v", result)
	}
}

func TestParagraphizeDoesNotGroupInsideParagraphs(t *testing.T) {
	// A Paragraph cannot contain paragraphs; blobs inside one are exploded
	// in place and the children pass through.
	tree := Must(NewProblem(
		Must(NewParagraph(
			Must(NewBlob(text(t, "a "), NewInlineMath("x"))),
			text(t, " b"),
		)),
	))

	result := paragraphize(t, tree)

	want := Must(NewProblem(
		Must(NewParagraph(
			text(t, "a "),
			NewInlineMath("x"),
			text(t, " b"),
		)),
	))
	if !result.Equal(want) {
		t.Errorf("blob inside paragraph should explode in place, got %#v", result)
	}
}

func TestParagraphizeDoesNotMutateInput(t *testing.T) {
	tree := Must(NewProblem(Must(NewBlob(text(t, "content")))))
	snapshot := tree.Clone()

	paragraphize(t, tree)

	if !tree.Equal(snapshot) {
		t.Error("input tree was mutated")
	}
}

func TestParagraphizePreservesMetadata(t *testing.T) {
	tree := Must(NewProblem(Must(NewBlob(text(t, "content")))))
	tree.Metadata = Metadata{ID: "p1", Tags: []string{"algebra"}}

	result := paragraphize(t, tree).(*Problem)

	if !result.Metadata.Equal(tree.Metadata) {
		t.Errorf("metadata = %+v, want %+v", result.Metadata, tree.Metadata)
	}
}
