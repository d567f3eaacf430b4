package dsctex

import (
	"strings"

	"github.com/coursekit/probconv/core/ast"
	"github.com/coursekit/probconv/core/errors"
	"github.com/coursekit/probconv/core/tex"
	"github.com/coursekit/probconv/internal/formats/base"
)

var builtinEnvConverters = map[string]EnvironmentConverter{
	"prob":        convertProb,
	"subprob":     convertSubprob,
	"soln":        convertSoln,
	"choices":     convertChoices,
	"minted":      convertMinted,
	"$":           convertInlineMath,
	"$$":          convertDollarDollarMath,
	`\[`:          convertDisplayMath,
	"displaymath": convertDisplayMath,
	"align":       convertAlign,
	"align*":      convertAlignStar,
}

var builtinCmdConverters = map[string]CommandConverter{
	"textbf":            convertTextbf,
	"textit":            convertTextit,
	"includegraphics":   convertIncludegraphics,
	"inputminted":       convertInputminted,
	"mintinline":        convertMintinline,
	"Tf":                convertTf,
	"tF":                converttF,
	"inlineresponsebox": convertInlineResponseBox,
}

// problems and subproblems -------------------------------------------------

// convertProb builds the top-level Problem. Subproblems are written inside a
// subprobset environment in the source, but the problem tree holds them
// directly, so subprobsets are exploded into their subproblems here.
func convertProb(env *tex.Environment, convert ConvertFunc) (ast.Node, error) {
	var exploded []tex.Node
	for _, child := range env.Nodes {
		if inner, ok := child.(*tex.Environment); ok && inner.Name == "subprobset" {
			exploded = append(exploded, inner.Nodes...)
			continue
		}
		exploded = append(exploded, child)
	}

	children, err := convertNodes(exploded, convert)
	if err != nil {
		return nil, err
	}
	prob, err := ast.NewProblem(children...)
	if err != nil {
		return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
	}
	return prob, nil
}

func convertSubprob(env *tex.Environment, convert ConvertFunc) (ast.Node, error) {
	children, err := convertNodes(env.Nodes, convert)
	if err != nil {
		return nil, err
	}
	sub, err := ast.NewSubproblem(children...)
	if err != nil {
		return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
	}
	return sub, nil
}

// text formatting ----------------------------------------------------------

func convertTextbf(cmd *tex.Command, convert ConvertFunc) (ast.Node, error) {
	return styledText(cmd, ast.Bold())
}

func convertTextit(cmd *tex.Command, convert ConvertFunc) (ast.Node, error) {
	return styledText(cmd, ast.Italic())
}

func styledText(cmd *tex.Command, opt ast.TextOption) (ast.Node, error) {
	if len(cmd.Args) < 1 {
		return nil, errors.NewParsef(FormatName, `\%s requires an argument`, cmd.Name)
	}
	text, err := ast.NewText(cmd.Args[0].Raw, opt)
	if err != nil {
		return nil, errors.NewParsef(FormatName, `\%s argument must contain text`, cmd.Name)
	}
	return ast.Must(ast.NewBlob(text)), nil
}

// math ---------------------------------------------------------------------

func convertInlineMath(env *tex.Environment, convert ConvertFunc) (ast.Node, error) {
	return ast.Must(ast.NewBlob(ast.NewInlineMath(env.Raw))), nil
}

func convertDollarDollarMath(env *tex.Environment, convert ConvertFunc) (ast.Node, error) {
	return ast.NewDisplayMath(env.Raw), nil
}

func convertDisplayMath(env *tex.Environment, convert ConvertFunc) (ast.Node, error) {
	return ast.NewDisplayMath(env.Raw), nil
}

func convertAlign(env *tex.Environment, convert ConvertFunc) (ast.Node, error) {
	return ast.NewAlignMath(env.Raw, false), nil
}

func convertAlignStar(env *tex.Environment, convert ConvertFunc) (ast.Node, error) {
	return ast.NewAlignMath(env.Raw, true), nil
}

// media ---------------------------------------------------------------------

func convertIncludegraphics(cmd *tex.Command, convert ConvertFunc) (ast.Node, error) {
	if len(cmd.Args) < 1 {
		return nil, errors.NewParse(FormatName, `\includegraphics requires a path argument`)
	}
	return ast.NewImageFile(cmd.Args[0].Raw), nil
}

// code ----------------------------------------------------------------------

func convertMinted(env *tex.Environment, convert ConvertFunc) (ast.Node, error) {
	if len(env.Args) < 1 {
		return nil, errors.NewParse(FormatName, "minted environment requires a language argument")
	}
	return ast.NewCode(env.Args[0].Raw, base.Dedent(env.Raw)), nil
}

func convertInputminted(cmd *tex.Command, convert ConvertFunc) (ast.Node, error) {
	if len(cmd.Args) < 2 {
		return nil, errors.NewParse(FormatName, `\inputminted requires language and path arguments`)
	}
	return ast.NewCodeFile(cmd.Args[0].Raw, cmd.Args[1].Raw), nil
}

func convertMintinline(cmd *tex.Command, convert ConvertFunc) (ast.Node, error) {
	if len(cmd.Args) < 2 {
		return nil, errors.NewParse(FormatName, `\mintinline requires language and code arguments`)
	}
	code := ast.NewInlineCode(cmd.Args[0].Raw, cmd.Args[1].Raw)
	return ast.Must(ast.NewBlob(code)), nil
}

// response areas and solutions ----------------------------------------------

func convertSoln(env *tex.Environment, convert ConvertFunc) (ast.Node, error) {
	children, err := convertNodes(env.Nodes, convert)
	if err != nil {
		return nil, err
	}
	soln, err := ast.NewSolution(children...)
	if err != nil {
		return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
	}
	return soln, nil
}

func convertTf(cmd *tex.Command, convert ConvertFunc) (ast.Node, error) {
	return ast.NewTrueFalse(true), nil
}

func converttF(cmd *tex.Command, convert ConvertFunc) (ast.Node, error) {
	return ast.NewTrueFalse(false), nil
}

// convertChoices segments the contents of a choices environment into Choice
// nodes. Each \choice or \correctchoice marker starts a new choice whose
// content is its brace-argument content, if any, followed by the trailing
// content up to the next marker.
func convertChoices(env *tex.Environment, convert ConvertFunc) (ast.Node, error) {
	type group struct {
		correct bool
		content []tex.Node
	}
	var groups []group

	for _, node := range env.Nodes {
		cmd, isCmd := node.(*tex.Command)
		if isCmd && (cmd.Name == "choice" || cmd.Name == "correctchoice") {
			g := group{correct: cmd.Name == "correctchoice"}
			for _, arg := range cmd.Args {
				g.content = append(g.content, arg.Nodes...)
			}
			groups = append(groups, g)
			continue
		}
		if len(groups) == 0 {
			if text, ok := node.(*tex.Text); ok && strings.TrimSpace(text.Value) == "" {
				continue
			}
			return nil, errors.NewParse(FormatName, "content in choices environment before the first choice")
		}
		groups[len(groups)-1].content = append(groups[len(groups)-1].content, node)
	}

	var choices []ast.Node
	for _, g := range groups {
		children, err := convertNodes(g.content, convert)
		if err != nil {
			return nil, err
		}
		choice, err := ast.NewChoice(g.correct, children...)
		if err != nil {
			return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
		}
		choices = append(choices, choice)
	}

	if len(env.Args) > 0 && strings.TrimSpace(env.Args[0].Raw) == "rectangle" {
		sel, err := ast.NewMultipleSelect(choices...)
		if err != nil {
			return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
		}
		return sel, nil
	}
	mc, err := ast.NewMultipleChoice(choices...)
	if err != nil {
		return nil, &errors.ParseError{Format: FormatName, Message: err.Error(), Err: err}
	}
	return mc, nil
}

// convertInlineResponseBox converts \inlineresponsebox{...}. The answer must
// reduce to a single paragraph of inline content.
func convertInlineResponseBox(cmd *tex.Command, convert ConvertFunc) (ast.Node, error) {
	if len(cmd.Args) < 1 {
		return nil, errors.NewParse(FormatName, `\inlineresponsebox requires an answer argument`)
	}

	converted, err := convertNodes(cmd.Args[0].Nodes, convert)
	if err != nil {
		return nil, err
	}

	// the converted answer is a sequence of blobs and other nodes; flatten
	// the blobs and require that everything left is inline content
	var children []ast.Node
	for _, node := range converted {
		blob, ok := node.(*ast.Blob)
		if !ok {
			children = append(children, node)
			continue
		}
		for _, inner := range blob.Children() {
			if inner.Kind() == ast.KindParBreak {
				return nil, errors.NewParse(FormatName, "inline response box answer must be a single paragraph")
			}
			children = append(children, inner)
		}
	}

	box, err := ast.NewInlineResponseBox(children...)
	if err != nil {
		return nil, errors.NewParse(FormatName, "inline response box answer must be a single paragraph")
	}
	return box, nil
}
