// Command probconv converts quiz problems between the supported formats.
// The parser and renderer are chosen from the input and output file
// extensions.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/coursekit/probconv/core/ast"
	"github.com/coursekit/probconv/core/convert"
	"github.com/coursekit/probconv/core/errors"
	"github.com/coursekit/probconv/core/postproc"
	"github.com/coursekit/probconv/internal/logging"
)

const version = "0.2.0"

// CLI defines the command-line interface for probconv.
var CLI struct {
	Input  string `arg:"" help:"Input problem file (.tex or .md)" type:"existingfile"`
	Output string `arg:"" help:"Output file (.tex, .md, or .html)" type:"path"`

	ImagesDir   string `name:"images-dir" help:"Copy referenced images into this directory" type:"path"`
	SubsumeCode bool   `name:"subsume-code" help:"Inline referenced code files into the output"`
	LogLevel    string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
	LogFormat   string `name:"log-format" default:"text" enum:"text,json" help:"Log format (text, json)"`

	Version kong.VersionFlag `help:"Print version information"`
}

// parserForExtension maps an input file extension to a parser name.
func parserForExtension(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tex":
		return "dsctex", nil
	case ".md":
		return "gsmd", nil
	default:
		return "", errors.Wrapf(errors.ErrUnknownFormat,
			"cannot infer input format from %q, expected a .tex or .md file", path)
	}
}

// rendererForExtension maps an output file extension to a renderer name.
func rendererForExtension(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tex":
		return "dsctex", nil
	case ".md":
		return "gsmd", nil
	case ".html":
		return "html", nil
	default:
		return "", errors.Wrapf(errors.ErrUnknownFormat,
			"cannot infer output format from %q, expected a .tex, .md, or .html file", path)
	}
}

// options carries one conversion's settings.
type options struct {
	Input       string
	Output      string
	ImagesDir   string
	SubsumeCode bool
}

// convertFile runs the conversion pipeline: parse, post-process, render,
// write.
func convertFile(opts options) error {
	start := time.Now()

	parserName, err := parserForExtension(opts.Input)
	if err != nil {
		return err
	}
	rendererName, err := rendererForExtension(opts.Output)
	if err != nil {
		return err
	}
	logging.ConversionStart(opts.Input, opts.Output, parserName, rendererName)

	source, err := os.ReadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	parse, err := convert.Parser(parserName)
	if err != nil {
		return err
	}
	prob, err := parse(string(source))
	if err != nil {
		logging.ConversionError("parse", err)
		return err
	}

	var tree ast.Node = prob
	inputDir := filepath.Dir(opts.Input)

	if opts.SubsumeCode {
		tree, err = postproc.SubsumeCode(tree, inputDir)
		if err != nil {
			logging.ConversionError("subsume_code", err)
			return err
		}
		logging.PostprocessEvent("subsume_code")
	}
	if opts.ImagesDir != "" {
		tree, err = postproc.CopyImages(tree, inputDir, opts.ImagesDir)
		if err != nil {
			logging.ConversionError("copy_images", err)
			return err
		}
		logging.PostprocessEvent("copy_images", "dest", opts.ImagesDir)
	}

	render, err := convert.Renderer(rendererName)
	if err != nil {
		return err
	}
	out, err := render(tree.(*ast.Problem))
	if err != nil {
		logging.ConversionError("render", err)
		return err
	}

	if dir := filepath.Dir(opts.Output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(opts.Output, []byte(out+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logging.ConversionDone(opts.Input, opts.Output, time.Since(start))
	return nil
}

// domainError reports whether err is one of the recognized conversion
// failures, which get a one-line report instead of a full diagnostic.
func domainError(err error) bool {
	return errors.Is(err, errors.ErrParse) ||
		errors.Is(err, errors.ErrRender) ||
		errors.Is(err, errors.ErrUnknownFormat)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("probconv"),
		kong.Description("Convert quiz problems between LaTeX, Gradescope markdown, and HTML"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{"version": version},
	)

	level, err := logging.ParseLevel(CLI.LogLevel)
	ctx.FatalIfErrorf(err)
	format, err := logging.ParseFormat(CLI.LogFormat)
	ctx.FatalIfErrorf(err)
	logging.InitLogger(level, format)

	err = convertFile(options{
		Input:       CLI.Input,
		Output:      CLI.Output,
		ImagesDir:   CLI.ImagesDir,
		SubsumeCode: CLI.SubsumeCode,
	})
	if err == nil {
		return
	}
	if domainError(err) {
		fmt.Fprintf(os.Stderr, "probconv: %v\n", err)
		os.Exit(1)
	}
	ctx.FatalIfErrorf(err)
}
