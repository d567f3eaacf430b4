package ast

import (
	"errors"
	"regexp"
	"slices"
	"strings"
)

// Metadata carries optional identifying information about a problem.
type Metadata struct {
	// ID is a unique, human-readable identifier for the problem.
	ID string

	// Tags are the tags associated with the problem.
	Tags []string
}

// IsZero returns true if no metadata has been set.
func (m Metadata) IsZero() bool {
	return m.ID == "" && len(m.Tags) == 0
}

// Equal reports whether two metadata values are the same.
func (m Metadata) Equal(other Metadata) bool {
	return m.ID == other.ID && slices.Equal(m.Tags, other.Tags)
}

func (m Metadata) clone() Metadata {
	return Metadata{ID: m.ID, Tags: slices.Clone(m.Tags)}
}

// Problem is the top-level node of a problem tree.
type Problem struct {
	container

	// Metadata is optional problem metadata. A zero value means none.
	Metadata Metadata
}

// NewProblem constructs a Problem with the given children.
func NewProblem(children ...Node) (*Problem, error) {
	c, err := newContainer(KindProblem, children)
	if err != nil {
		return nil, err
	}
	return &Problem{container: c}, nil
}

func (p *Problem) Equal(other Node) bool {
	o, ok := other.(*Problem)
	return ok && p.Metadata.Equal(o.Metadata) && p.childrenEqual(&o.container)
}

func (p *Problem) Clone() Node {
	return &Problem{container: p.container.clone(), Metadata: p.Metadata.clone()}
}

func (p *Problem) WithChildren(children []Node) (Container, error) {
	c, err := newContainer(KindProblem, children)
	if err != nil {
		return nil, err
	}
	return &Problem{container: c, Metadata: p.Metadata.clone()}, nil
}

// Subproblem is one part of a problem. Subproblems cannot be nested.
type Subproblem struct {
	container
}

// NewSubproblem constructs a Subproblem with the given children.
func NewSubproblem(children ...Node) (*Subproblem, error) {
	c, err := newContainer(KindSubproblem, children)
	if err != nil {
		return nil, err
	}
	return &Subproblem{container: c}, nil
}

func (s *Subproblem) Equal(other Node) bool {
	o, ok := other.(*Subproblem)
	return ok && s.childrenEqual(&o.container)
}

func (s *Subproblem) Clone() Node {
	return &Subproblem{container: s.container.clone()}
}

func (s *Subproblem) WithChildren(children []Node) (Container, error) {
	c, err := newContainer(KindSubproblem, children)
	if err != nil {
		return nil, err
	}
	return &Subproblem{container: c}, nil
}

// Paragraph is a paragraph of inline content.
type Paragraph struct {
	container
}

// NewParagraph constructs a Paragraph with the given children.
func NewParagraph(children ...Node) (*Paragraph, error) {
	c, err := newContainer(KindParagraph, children)
	if err != nil {
		return nil, err
	}
	return &Paragraph{container: c}, nil
}

func (p *Paragraph) Equal(other Node) bool {
	o, ok := other.(*Paragraph)
	return ok && p.childrenEqual(&o.container)
}

func (p *Paragraph) Clone() Node {
	return &Paragraph{container: p.container.clone()}
}

func (p *Paragraph) WithChildren(children []Node) (Container, error) {
	c, err := newContainer(KindParagraph, children)
	if err != nil {
		return nil, err
	}
	return &Paragraph{container: c}, nil
}

// Blob is a transient node: a flat run of paragraph-eligible content whose
// paragraph grouping has not been decided yet. Parsers emit Blobs and
// Paragraphize resolves them; a canonical tree never contains one.
type Blob struct {
	container
}

// NewBlob constructs a Blob with the given children.
func NewBlob(children ...Node) (*Blob, error) {
	c, err := newContainer(KindBlob, children)
	if err != nil {
		return nil, err
	}
	return &Blob{container: c}, nil
}

func (b *Blob) Equal(other Node) bool {
	o, ok := other.(*Blob)
	return ok && b.childrenEqual(&o.container)
}

func (b *Blob) Clone() Node {
	return &Blob{container: b.container.clone()}
}

func (b *Blob) WithChildren(children []Node) (Container, error) {
	c, err := newContainer(KindBlob, children)
	if err != nil {
		return nil, err
	}
	return &Blob{container: c}, nil
}

// Choice is one option within a multiple-choice or multiple-select area.
type Choice struct {
	container

	// Correct indicates whether this choice is a correct answer.
	Correct bool
}

// NewChoice constructs a Choice with the given children.
func NewChoice(correct bool, children ...Node) (*Choice, error) {
	c, err := newContainer(KindChoice, children)
	if err != nil {
		return nil, err
	}
	return &Choice{container: c, Correct: correct}, nil
}

func (ch *Choice) Equal(other Node) bool {
	o, ok := other.(*Choice)
	return ok && ch.Correct == o.Correct && ch.childrenEqual(&o.container)
}

func (ch *Choice) Clone() Node {
	return &Choice{container: ch.container.clone(), Correct: ch.Correct}
}

func (ch *Choice) WithChildren(children []Node) (Container, error) {
	c, err := newContainer(KindChoice, children)
	if err != nil {
		return nil, err
	}
	return &Choice{container: c, Correct: ch.Correct}, nil
}

// Solution is a worked solution to a problem or subproblem.
type Solution struct {
	container
}

// NewSolution constructs a Solution with the given children.
func NewSolution(children ...Node) (*Solution, error) {
	c, err := newContainer(KindSolution, children)
	if err != nil {
		return nil, err
	}
	return &Solution{container: c}, nil
}

func (s *Solution) Equal(other Node) bool {
	o, ok := other.(*Solution)
	return ok && s.childrenEqual(&o.container)
}

func (s *Solution) Clone() Node {
	return &Solution{container: s.container.clone()}
}

func (s *Solution) WithChildren(children []Node) (Container, error) {
	c, err := newContainer(KindSolution, children)
	if err != nil {
		return nil, err
	}
	return &Solution{container: c}, nil
}

// MultipleChoice is a choose-one response area. It contains Choice nodes.
type MultipleChoice struct {
	container
}

// NewMultipleChoice constructs a MultipleChoice with the given choices.
func NewMultipleChoice(children ...Node) (*MultipleChoice, error) {
	c, err := newContainer(KindMultipleChoice, children)
	if err != nil {
		return nil, err
	}
	return &MultipleChoice{container: c}, nil
}

func (m *MultipleChoice) Equal(other Node) bool {
	o, ok := other.(*MultipleChoice)
	return ok && m.childrenEqual(&o.container)
}

func (m *MultipleChoice) Clone() Node {
	return &MultipleChoice{container: m.container.clone()}
}

func (m *MultipleChoice) WithChildren(children []Node) (Container, error) {
	c, err := newContainer(KindMultipleChoice, children)
	if err != nil {
		return nil, err
	}
	return &MultipleChoice{container: c}, nil
}

// MultipleSelect is a select-all-that-apply response area. It contains
// Choice nodes.
type MultipleSelect struct {
	container
}

// NewMultipleSelect constructs a MultipleSelect with the given choices.
func NewMultipleSelect(children ...Node) (*MultipleSelect, error) {
	c, err := newContainer(KindMultipleSelect, children)
	if err != nil {
		return nil, err
	}
	return &MultipleSelect{container: c}, nil
}

func (m *MultipleSelect) Equal(other Node) bool {
	o, ok := other.(*MultipleSelect)
	return ok && m.childrenEqual(&o.container)
}

func (m *MultipleSelect) Clone() Node {
	return &MultipleSelect{container: m.container.clone()}
}

func (m *MultipleSelect) WithChildren(children []Node) (Container, error) {
	c, err := newContainer(KindMultipleSelect, children)
	if err != nil {
		return nil, err
	}
	return &MultipleSelect{container: c}, nil
}

// InlineResponseBox is a fill-in-the-blank response area whose answer is a
// single run of inline content.
type InlineResponseBox struct {
	container
}

// NewInlineResponseBox constructs an InlineResponseBox with the given children.
func NewInlineResponseBox(children ...Node) (*InlineResponseBox, error) {
	c, err := newContainer(KindInlineResponseBox, children)
	if err != nil {
		return nil, err
	}
	return &InlineResponseBox{container: c}, nil
}

func (b *InlineResponseBox) Equal(other Node) bool {
	o, ok := other.(*InlineResponseBox)
	return ok && b.childrenEqual(&o.container)
}

func (b *InlineResponseBox) Clone() Node {
	return &InlineResponseBox{container: b.container.clone()}
}

func (b *InlineResponseBox) WithChildren(children []Node) (Container, error) {
	c, err := newContainer(KindInlineResponseBox, children)
	if err != nil {
		return nil, err
	}
	return &InlineResponseBox{container: c}, nil
}

// leaf nodes ---------------------------------------------------------------

// ErrEmptyText is returned when constructing a Text node with no
// non-whitespace content.
var ErrEmptyText = errors.New("text node must contain non-whitespace content")

var whitespaceRun = regexp.MustCompile(`\s+`)

// Text is a run of text, optionally bold and/or italic.
//
// The text is never empty nor all-whitespace, and internal whitespace runs
// (including newlines) are collapsed to single spaces at construction.
type Text struct {
	Text   string
	Bold   bool
	Italic bool
}

// TextOption configures a Text node.
type TextOption func(*Text)

// Bold marks the text as bold.
func Bold() TextOption { return func(t *Text) { t.Bold = true } }

// Italic marks the text as italic.
func Italic() TextOption { return func(t *Text) { t.Italic = true } }

// NewText constructs a Text node, collapsing whitespace runs to single
// spaces. It fails with ErrEmptyText if the text is empty or all whitespace.
func NewText(text string, opts ...TextOption) (*Text, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	t := &Text{Text: whitespaceRun.ReplaceAllString(text, " ")}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *Text) Kind() Kind { return KindText }

func (t *Text) Equal(other Node) bool {
	o, ok := other.(*Text)
	return ok && t.Text == o.Text && t.Bold == o.Bold && t.Italic == o.Italic
}

func (t *Text) Clone() Node {
	clone := *t
	return &clone
}

// ParBreak is a transient marker for a forced paragraph boundary inside a
// Blob. It never appears in a canonical tree.
type ParBreak struct{}

// NewParBreak constructs a ParBreak marker.
func NewParBreak() *ParBreak { return &ParBreak{} }

func (p *ParBreak) Kind() Kind { return KindParBreak }

func (p *ParBreak) Equal(other Node) bool {
	_, ok := other.(*ParBreak)
	return ok
}

func (p *ParBreak) Clone() Node { return &ParBreak{} }

// InlineMath is a run of LaTeX typeset as inline math.
type InlineMath struct {
	Latex string
}

// NewInlineMath constructs an InlineMath node.
func NewInlineMath(latex string) *InlineMath { return &InlineMath{Latex: latex} }

func (m *InlineMath) Kind() Kind { return KindInlineMath }

func (m *InlineMath) Equal(other Node) bool {
	o, ok := other.(*InlineMath)
	return ok && m.Latex == o.Latex
}

func (m *InlineMath) Clone() Node {
	clone := *m
	return &clone
}

// DisplayMath is a block of LaTeX typeset as display math.
type DisplayMath struct {
	Latex string
}

// NewDisplayMath constructs a DisplayMath node.
func NewDisplayMath(latex string) *DisplayMath { return &DisplayMath{Latex: latex} }

func (m *DisplayMath) Kind() Kind { return KindDisplayMath }

func (m *DisplayMath) Equal(other Node) bool {
	o, ok := other.(*DisplayMath)
	return ok && m.Latex == o.Latex
}

func (m *DisplayMath) Clone() Node {
	clone := *m
	return &clone
}

// AlignMath is a block of LaTeX typeset as an align environment.
type AlignMath struct {
	Latex string

	// Starred indicates the unnumbered (align*) variant.
	Starred bool
}

// NewAlignMath constructs an AlignMath node.
func NewAlignMath(latex string, starred bool) *AlignMath {
	return &AlignMath{Latex: latex, Starred: starred}
}

func (m *AlignMath) Kind() Kind { return KindAlignMath }

func (m *AlignMath) Equal(other Node) bool {
	o, ok := other.(*AlignMath)
	return ok && m.Latex == o.Latex && m.Starred == o.Starred
}

func (m *AlignMath) Clone() Node {
	clone := *m
	return &clone
}

// Code is a block of code.
type Code struct {
	// Language determines syntax highlighting in capable targets.
	Language string
	Code     string
}

// NewCode constructs a Code node.
func NewCode(language, code string) *Code {
	return &Code{Language: language, Code: code}
}

func (c *Code) Kind() Kind { return KindCode }

func (c *Code) Equal(other Node) bool {
	o, ok := other.(*Code)
	return ok && c.Language == o.Language && c.Code == o.Code
}

func (c *Code) Clone() Node {
	clone := *c
	return &clone
}

// InlineCode is a run of code displayed inline.
type InlineCode struct {
	Language string
	Code     string
}

// NewInlineCode constructs an InlineCode node.
func NewInlineCode(language, code string) *InlineCode {
	return &InlineCode{Language: language, Code: code}
}

func (c *InlineCode) Kind() Kind { return KindInlineCode }

func (c *InlineCode) Equal(other Node) bool {
	o, ok := other.(*InlineCode)
	return ok && c.Language == o.Language && c.Code == o.Code
}

func (c *InlineCode) Clone() Node {
	clone := *c
	return &clone
}

// CodeFile is a reference to an external code file.
type CodeFile struct {
	Language string

	// RelativePath is the path to the file, relative to the problem's
	// directory.
	RelativePath string
}

// NewCodeFile constructs a CodeFile node.
func NewCodeFile(language, relativePath string) *CodeFile {
	return &CodeFile{Language: language, RelativePath: relativePath}
}

func (c *CodeFile) Kind() Kind { return KindCodeFile }

func (c *CodeFile) Equal(other Node) bool {
	o, ok := other.(*CodeFile)
	return ok && c.Language == o.Language && c.RelativePath == o.RelativePath
}

func (c *CodeFile) Clone() Node {
	clone := *c
	return &clone
}

// ImageFile is a reference to an image file.
type ImageFile struct {
	// RelativePath is the path to the image, relative to the problem's
	// directory.
	RelativePath string
}

// NewImageFile constructs an ImageFile node.
func NewImageFile(relativePath string) *ImageFile {
	return &ImageFile{RelativePath: relativePath}
}

func (i *ImageFile) Kind() Kind { return KindImageFile }

func (i *ImageFile) Equal(other Node) bool {
	o, ok := other.(*ImageFile)
	return ok && i.RelativePath == o.RelativePath
}

func (i *ImageFile) Clone() Node {
	clone := *i
	return &clone
}

// TrueFalse is a true/false question.
type TrueFalse struct {
	// Solution is the correct answer.
	Solution bool
}

// NewTrueFalse constructs a TrueFalse node.
func NewTrueFalse(solution bool) *TrueFalse { return &TrueFalse{Solution: solution} }

func (t *TrueFalse) Kind() Kind { return KindTrueFalse }

func (t *TrueFalse) Equal(other Node) bool {
	o, ok := other.(*TrueFalse)
	return ok && t.Solution == o.Solution
}

func (t *TrueFalse) Clone() Node {
	clone := *t
	return &clone
}
