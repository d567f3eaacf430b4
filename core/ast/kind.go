package ast

// Kind identifies the concrete type of a node in the problem tree.
type Kind int

// Node kind constants.
const (
	KindInvalid Kind = iota

	// internal nodes
	KindProblem
	KindSubproblem
	KindParagraph
	KindBlob
	KindChoice
	KindSolution
	KindMultipleChoice
	KindMultipleSelect
	KindInlineResponseBox

	// leaf nodes
	KindText
	KindParBreak
	KindInlineMath
	KindDisplayMath
	KindAlignMath
	KindCode
	KindInlineCode
	KindCodeFile
	KindImageFile
	KindTrueFalse
)

var kindNames = map[Kind]string{
	KindInvalid:           "Invalid",
	KindProblem:           "Problem",
	KindSubproblem:        "Subproblem",
	KindParagraph:         "Paragraph",
	KindBlob:              "Blob",
	KindChoice:            "Choice",
	KindSolution:          "Solution",
	KindMultipleChoice:    "MultipleChoice",
	KindMultipleSelect:    "MultipleSelect",
	KindInlineResponseBox: "InlineResponseBox",
	KindText:              "Text",
	KindParBreak:          "ParBreak",
	KindInlineMath:        "InlineMath",
	KindDisplayMath:       "DisplayMath",
	KindAlignMath:         "AlignMath",
	KindCode:              "Code",
	KindInlineCode:        "InlineCode",
	KindCodeFile:          "CodeFile",
	KindImageFile:         "ImageFile",
	KindTrueFalse:         "TrueFalse",
}

// String returns the node type name, e.g. "MultipleChoice".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Invalid"
}

// allowedChildren is the static schema table: for each internal node kind,
// the set of kinds it may contain. Leaf kinds have no entry.
var allowedChildren = map[Kind]map[Kind]bool{
	KindProblem: kindSet(
		KindSubproblem, KindParagraph, KindBlob, KindCode, KindCodeFile,
		KindDisplayMath, KindAlignMath, KindImageFile, KindMultipleChoice,
		KindMultipleSelect, KindTrueFalse, KindInlineResponseBox, KindSolution,
	),
	// Subproblems cannot contain subproblems; one level of nesting only.
	KindSubproblem: kindSet(
		KindParagraph, KindBlob, KindCode, KindCodeFile,
		KindDisplayMath, KindAlignMath, KindImageFile, KindMultipleChoice,
		KindMultipleSelect, KindTrueFalse, KindInlineResponseBox, KindSolution,
	),
	KindParagraph: kindSet(
		KindText, KindInlineMath, KindInlineCode, KindInlineResponseBox, KindBlob,
	),
	KindBlob: kindSet(
		KindText, KindInlineMath, KindInlineCode, KindInlineResponseBox, KindParBreak,
	),
	KindChoice: kindSet(
		KindBlob, KindParagraph, KindImageFile, KindCode, KindCodeFile,
		KindDisplayMath, KindAlignMath,
	),
	KindSolution: kindSet(
		KindBlob, KindParagraph, KindImageFile, KindCode, KindCodeFile,
		KindDisplayMath, KindAlignMath,
	),
	KindMultipleChoice:    kindSet(KindChoice),
	KindMultipleSelect:    kindSet(KindChoice),
	KindInlineResponseBox: kindSet(KindText, KindInlineMath, KindInlineCode),
}

func kindSet(kinds ...Kind) map[Kind]bool {
	set := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

// Allows returns true if a node of kind k may contain a child of kind child.
func (k Kind) Allows(child Kind) bool {
	return allowedChildren[k][child]
}

// IsTransient returns true for node kinds that may only appear in raw parser
// output, never in a canonical tree.
func IsTransient(k Kind) bool {
	return k == KindBlob || k == KindParBreak
}

// ParagraphEligible returns true if nodes of this kind belong inside a
// Paragraph: plain or styled text, inline math, inline code, and inline
// response boxes. Transient kinds are not eligible.
func ParagraphEligible(k Kind) bool {
	return allowedChildren[KindParagraph][k] && !IsTransient(k)
}
