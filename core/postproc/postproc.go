// Package postproc transforms canonical problem trees after parsing:
// copying referenced images to an output directory and inlining referenced
// code files. Both transforms return a new tree and leave the input intact.
package postproc

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/coursekit/probconv/core/ast"
	"github.com/coursekit/probconv/internal/fileutil"
	"github.com/coursekit/probconv/internal/validation"
)

// ImageOption configures CopyImages.
type ImageOption func(*imageOptions)

type imageOptions struct {
	transform func(string) string
}

// WithPathTransform rewrites each image's relative path. The transformed
// path decides both the copy destination under destDir and the path stored
// in the returned tree.
func WithPathTransform(fn func(string) string) ImageOption {
	return func(o *imageOptions) { o.transform = fn }
}

// CopyImages copies every image referenced by the tree from srcDir into
// destDir, creating intermediate directories as needed. Each copy is
// verified against the source by content hash. The returned tree's image
// paths reflect the configured path transform.
func CopyImages(root ast.Node, srcDir, destDir string, opts ...ImageOption) (ast.Node, error) {
	options := imageOptions{transform: func(p string) string { return p }}
	for _, opt := range opts {
		opt(&options)
	}
	return copyImages(root, srcDir, destDir, &options)
}

func copyImages(node ast.Node, srcDir, destDir string, options *imageOptions) (ast.Node, error) {
	if img, ok := node.(*ast.ImageFile); ok {
		srcRel, err := validation.SanitizePath(srcDir, img.RelativePath)
		if err != nil {
			return nil, fmt.Errorf("unsafe image path %q: %w", img.RelativePath, err)
		}
		newPath := options.transform(img.RelativePath)
		destRel, err := validation.SanitizePath(destDir, newPath)
		if err != nil {
			return nil, fmt.Errorf("unsafe image destination %q: %w", newPath, err)
		}
		src := filepath.Join(srcDir, srcRel)
		dest := filepath.Join(destDir, destRel)

		if err := fileutil.CopyFile(src, dest); err != nil {
			return nil, fmt.Errorf("failed to copy image %s: %w", img.RelativePath, err)
		}
		if err := verifyCopy(src, dest); err != nil {
			return nil, err
		}
		return ast.NewImageFile(newPath), nil
	}

	container, ok := node.(ast.Container)
	if !ok {
		return node.Clone(), nil
	}
	children := make([]ast.Node, len(container.Children()))
	for i, child := range container.Children() {
		replacement, err := copyImages(child, srcDir, destDir, options)
		if err != nil {
			return nil, err
		}
		children[i] = replacement
	}
	return container.WithChildren(children)
}

// verifyCopy compares BLAKE3 hashes of the source and the copy.
func verifyCopy(src, dest string) error {
	srcHash, err := hashFile(src)
	if err != nil {
		return err
	}
	destHash, err := hashFile(dest)
	if err != nil {
		return err
	}
	if srcHash != destHash {
		return fmt.Errorf("copied image %s does not match source %s: hash %s != %s", dest, src, destHash, srcHash)
	}
	return nil
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:]), nil
}

// SubsumeCode replaces every CodeFile node with a Code node holding the
// referenced file's contents, read relative to rootDir.
func SubsumeCode(root ast.Node, rootDir string) (ast.Node, error) {
	if file, ok := root.(*ast.CodeFile); ok {
		rel, err := validation.SanitizePath(rootDir, file.RelativePath)
		if err != nil {
			return nil, fmt.Errorf("unsafe code file path %q: %w", file.RelativePath, err)
		}
		data, err := os.ReadFile(filepath.Join(rootDir, rel))
		if err != nil {
			return nil, fmt.Errorf("failed to read code file %s: %w", file.RelativePath, err)
		}
		return ast.NewCode(file.Language, string(data)), nil
	}

	container, ok := root.(ast.Container)
	if !ok {
		return root.Clone(), nil
	}
	children := make([]ast.Node, len(container.Children()))
	for i, child := range container.Children() {
		replacement, err := SubsumeCode(child, rootDir)
		if err != nil {
			return nil, err
		}
		children[i] = replacement
	}
	return container.WithChildren(children)
}
