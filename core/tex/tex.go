// Package tex provides a small, generic LaTeX reader: it tokenizes LaTeX
// source and structures it into a tree of Text, Command, Group, and
// Environment nodes. It knows nothing about any particular dialect; the
// dsctex format handler interprets the tree.
//
// Math shorthands ($...$, $$...$$, \[...\]) are surfaced as environments
// named "$", "$$", and "\[" so that dialect converters can dispatch on them
// by name, the same way they dispatch on ordinary environments.
package tex

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Node is an element of the structured LaTeX source tree.
type Node interface{ texNode() }

// Text is a run of plain source text between commands and environments.
type Text struct {
	Value string
}

func (*Text) texNode() {}

// Command is a LaTeX command with its brace/bracket argument groups, e.g.
// \mintinline{python}{code}.
type Command struct {
	// Name is the command name without the leading backslash.
	Name string
	Args []*Group
}

func (*Command) texNode() {}

// Group is a braced {...} or bracketed [...] group.
type Group struct {
	// Optional is true for bracket groups.
	Optional bool
	Nodes    []Node

	// Raw is the exact source text between the delimiters.
	Raw string
}

func (*Group) texNode() {}

// Environment is a \begin{name}...\end{name} block. Verbatim environments
// have Raw set but no structured Nodes.
type Environment struct {
	Name  string
	Args  []*Group
	Nodes []Node

	// Raw is the exact source text between the argument groups and the
	// closing \end.
	Raw string
}

func (*Environment) texNode() {}

// SyntaxError reports malformed LaTeX source.
type SyntaxError struct {
	Offset  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("latex syntax error at offset %d: %s", e.Offset, e.Message)
}

// RootName is the environment name given to the document root.
const RootName = "document"

var texLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `%[^\n]*`},
	{Name: "OpenDisplay", Pattern: `\\\[`},
	{Name: "CloseDisplay", Pattern: `\\\]`},
	{Name: "Command", Pattern: `\\[a-zA-Z]+\*?`},
	{Name: "Escaped", Pattern: `\\[^a-zA-Z]`},
	{Name: "DollarDollar", Pattern: `\$\$`},
	{Name: "Dollar", Pattern: `\$`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "Text", Pattern: `[^\\{}$%\[\]]+`},
})

var symbols = texLexer.Symbols()

var (
	symComment      = symbols["Comment"]
	symOpenDisplay  = symbols["OpenDisplay"]
	symCloseDisplay = symbols["CloseDisplay"]
	symCommand      = symbols["Command"]
	symEscaped      = symbols["Escaped"]
	symDollarDollar = symbols["DollarDollar"]
	symDollar       = symbols["Dollar"]
	symLBrace       = symbols["LBrace"]
	symRBrace       = symbols["RBrace"]
	symLBracket     = symbols["LBracket"]
	symRBracket     = symbols["RBracket"]
	symText         = symbols["Text"]
)

// defaultVerbatim lists environments whose contents are captured raw rather
// than structured. Code listings contain arbitrary braces and backslashes,
// and math environments are consumed as raw LaTeX anyway.
var defaultVerbatim = map[string]bool{
	"minted":      true,
	"displaymath": true,
	"align":       true,
	"align*":      true,
}

// Parse structures LaTeX source into a document-root Environment.
func Parse(source string) (*Environment, error) {
	lex, err := texLexer.LexString("", source)
	if err != nil {
		return nil, &SyntaxError{Offset: 0, Message: err.Error()}
	}
	tokens, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, &SyntaxError{Offset: 0, Message: err.Error()}
	}

	p := &parser{src: source, tokens: tokens, verbatim: defaultVerbatim}
	nodes, err := p.parseNodes("")
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, p.errorf("unexpected %q", p.peek().Value)
	}
	return &Environment{Name: RootName, Nodes: nodes, Raw: source}, nil
}

type parser struct {
	src      string
	tokens   []lexer.Token
	pos      int
	verbatim map[string]bool
}

func (p *parser) atEOF() bool {
	return p.pos >= len(p.tokens) || p.tokens[p.pos].EOF()
}

func (p *parser) peek() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return lexer.EOFToken(lexer.Position{Offset: len(p.src)})
}

func (p *parser) next() lexer.Token {
	tok := p.peek()
	p.pos++
	return tok
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Offset: p.peek().Pos.Offset, Message: fmt.Sprintf(format, args...)}
}

func tokenEnd(tok lexer.Token) int {
	return tok.Pos.Offset + len(tok.Value)
}

// parseNodes reads nodes until EOF (closing == "") or until \end{closing},
// whose tokens it consumes.
func (p *parser) parseNodes(closing string) ([]Node, error) {
	var nodes []Node
	var textRun strings.Builder

	flushText := func() {
		if textRun.Len() > 0 {
			nodes = append(nodes, &Text{Value: textRun.String()})
			textRun.Reset()
		}
	}

	for !p.atEOF() {
		tok := p.peek()
		switch tok.Type {
		case symComment:
			p.next()

		case symText:
			p.next()
			textRun.WriteString(tok.Value)

		case symEscaped:
			p.next()
			textRun.WriteString(tok.Value[1:])

		case symLBracket:
			p.next()
			textRun.WriteString("[")

		case symRBracket:
			p.next()
			textRun.WriteString("]")

		case symDollar, symDollarDollar, symOpenDisplay:
			flushText()
			math, err := p.parseMath(tok.Type)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, math)

		case symCloseDisplay:
			return nil, p.errorf(`\] without matching \[`)

		case symLBrace:
			flushText()
			group, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, group)

		case symRBrace:
			if closing != "" {
				return nil, p.errorf(`unexpected "}" inside environment %q`, closing)
			}
			return nil, p.errorf(`unexpected "}"`)

		case symCommand:
			name := tok.Value[1:]
			switch name {
			case "begin":
				flushText()
				env, err := p.parseEnvironment()
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, env)
			case "end":
				endName, err := p.parseBeginEndName()
				if err != nil {
					return nil, err
				}
				if closing == "" || endName != closing {
					return nil, p.errorf(`unexpected \end{%s}`, endName)
				}
				flushText()
				return nodes, nil
			default:
				flushText()
				p.next()
				args, err := p.parseCommandArgs()
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, &Command{Name: name, Args: args})
			}

		default:
			return nil, p.errorf("unexpected token %q", tok.Value)
		}
	}

	if closing != "" {
		return nil, p.errorf(`missing \end{%s}`, closing)
	}
	flushText()
	return nodes, nil
}

// parseMath consumes an inline or display math region and returns it as an
// environment named "$", "$$", or "\[" with Raw holding the math source.
func (p *parser) parseMath(open lexer.TokenType) (*Environment, error) {
	openTok := p.next()
	start := tokenEnd(openTok)

	close := open
	name := openTok.Value
	if open == symOpenDisplay {
		close = symCloseDisplay
	}

	for !p.atEOF() {
		tok := p.next()
		if tok.Type == close {
			return &Environment{Name: name, Raw: p.src[start:tok.Pos.Offset]}, nil
		}
	}
	return nil, &SyntaxError{Offset: openTok.Pos.Offset, Message: fmt.Sprintf("unterminated math started with %q", name)}
}

// parseGroup consumes a {...} or [...] group, including its delimiters.
func (p *parser) parseGroup() (*Group, error) {
	openTok := p.next()
	optional := openTok.Type == symLBracket
	closeType := symRBrace
	if optional {
		closeType = symRBracket
	}

	start := tokenEnd(openTok)
	var nodes []Node
	var textRun strings.Builder

	flushText := func() {
		if textRun.Len() > 0 {
			nodes = append(nodes, &Text{Value: textRun.String()})
			textRun.Reset()
		}
	}

	for !p.atEOF() {
		tok := p.peek()
		if tok.Type == closeType {
			p.next()
			flushText()
			return &Group{Optional: optional, Nodes: nodes, Raw: p.src[start:tok.Pos.Offset]}, nil
		}

		switch tok.Type {
		case symComment:
			p.next()
		case symText:
			p.next()
			textRun.WriteString(tok.Value)
		case symEscaped:
			p.next()
			textRun.WriteString(tok.Value[1:])
		case symLBracket:
			p.next()
			textRun.WriteString("[")
		case symRBracket:
			p.next()
			textRun.WriteString("]")
		case symDollar, symDollarDollar, symOpenDisplay:
			flushText()
			math, err := p.parseMath(tok.Type)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, math)
		case symLBrace:
			flushText()
			inner, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, inner)
		case symCommand:
			name := tok.Value[1:]
			if name == "begin" {
				flushText()
				env, err := p.parseEnvironment()
				if err != nil {
					return nil, err
				}
				nodes = append(nodes, env)
				continue
			}
			if name == "end" {
				return nil, p.errorf(`\end inside group`)
			}
			flushText()
			p.next()
			args, err := p.parseCommandArgs()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, &Command{Name: name, Args: args})
		default:
			return nil, p.errorf("unexpected token %q in group", tok.Value)
		}
	}
	return nil, &SyntaxError{Offset: openTok.Pos.Offset, Message: "unclosed group"}
}

// parseCommandArgs collects the command's argument groups: consecutive brace
// or bracket groups, permitting whitespace between the command and its
// arguments (the dialect writes both \mintinline{py}{x} and \choice {x}).
func (p *parser) parseCommandArgs() ([]*Group, error) {
	var args []*Group
	for {
		// tolerate a whitespace-only text token before the next group
		skipped := 0
		tok := p.peek()
		if tok.Type == symText && strings.TrimSpace(tok.Value) == "" {
			if p.pos+1 < len(p.tokens) {
				following := p.tokens[p.pos+1]
				if following.Type == symLBrace || following.Type == symLBracket {
					skipped = 1
					tok = following
				}
			}
		}

		if tok.Type != symLBrace && tok.Type != symLBracket {
			return args, nil
		}

		p.pos += skipped
		group, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		args = append(args, group)
	}
}

// parseBeginEndName consumes \begin{name} or \end{name} and returns name.
func (p *parser) parseBeginEndName() (string, error) {
	p.next() // \begin or \end
	tok := p.peek()
	if tok.Type != symLBrace {
		return "", p.errorf(`expected "{" after \begin or \end`)
	}
	group, err := p.parseGroup()
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(group.Raw)
	if name == "" {
		return "", p.errorf("empty environment name")
	}
	return name, nil
}

// parseEnvironment consumes \begin{name}...[args]...\end{name}.
func (p *parser) parseEnvironment() (*Environment, error) {
	beginOffset := p.peek().Pos.Offset
	name, err := p.parseBeginEndName()
	if err != nil {
		return nil, err
	}

	// environment arguments must be adjacent to \begin{name}
	var args []*Group
	for {
		tok := p.peek()
		if tok.Type != symLBrace && tok.Type != symLBracket {
			break
		}
		group, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		args = append(args, group)
	}

	contentStart := p.peek().Pos.Offset

	if p.verbatim[name] {
		endMarker := `\end{` + name + `}`
		idx := strings.Index(p.src[contentStart:], endMarker)
		if idx < 0 {
			return nil, &SyntaxError{Offset: beginOffset, Message: fmt.Sprintf(`missing \end{%s}`, name)}
		}
		contentEnd := contentStart + idx
		for !p.atEOF() && p.peek().Pos.Offset < contentEnd+len(endMarker) {
			p.next()
		}
		return &Environment{Name: name, Args: args, Raw: p.src[contentStart:contentEnd]}, nil
	}

	nodes, err := p.parseNodes(name)
	if err != nil {
		return nil, err
	}

	// Raw extends to the start of the consumed \end{name}
	contentEnd := contentStart
	if p.pos > 0 {
		// the last consumed tokens are \end { name } ; back up to \end
		for i := p.pos - 1; i >= 0; i-- {
			if p.tokens[i].Type == symCommand && p.tokens[i].Value == `\end` {
				contentEnd = p.tokens[i].Pos.Offset
				break
			}
		}
	}
	return &Environment{Name: name, Args: args, Nodes: nodes, Raw: p.src[contentStart:contentEnd]}, nil
}
