package python

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/viant/afs"
	"github.com/viant/umlgraph/inspector/info"
	"github.com/viant/umlgraph/model"
)

var (
	// ErrSyntax is returned when source does not parse
	ErrSyntax = errors.New("syntax error")
	// ErrEncoding is returned when source is not valid UTF-8
	ErrEncoding = errors.New("invalid encoding")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Inspector provides functionality to inspect Python code and extract class skeletons
type Inspector struct {
	config *info.Config
	fs     afs.Service
}

// NewInspector creates a new Python Inspector with the provided configuration
func NewInspector(config *info.Config) *Inspector {
	if config == nil {
		config = info.DefaultConfig()
	}
	return &Inspector{config: config, fs: afs.New()}
}

// InspectFile reads and inspects a source file, relPath is the path relative to the inspected root
func (i *Inspector) InspectFile(ctx context.Context, location, relPath string) (*info.FileResult, error) {
	src, err := i.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", location, err)
	}
	return i.InspectSource(ctx, src, relPath)
}

// InspectSource parses Python source code and extracts classes and imports
func (i *Inspector) InspectSource(ctx context.Context, src []byte, relPath string) (*info.FileResult, error) {
	src = bytes.TrimPrefix(src, utf8BOM)
	relPath = model.NormalizePath(relPath)
	if !utf8.Valid(src) {
		return nil, fmt.Errorf("%w: %s", ErrEncoding, relPath)
	}
	hash, err := model.HashHex(src)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", relPath, err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source %s: %w", relPath, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if node := firstError(root); node != nil {
			point := node.StartPoint()
			return nil, fmt.Errorf("%w: %s: line %d, column %d", ErrSyntax, relPath, point.Row+1, point.Column+1)
		}
		return nil, fmt.Errorf("%w: %s", ErrSyntax, relPath)
	}

	result := &info.FileResult{
		Path:      relPath,
		Module:    ModuleName(relPath),
		Hash:      hash,
		Docstring: extractDocstring(root, src),
		Imports:   extractImports(root, src),
	}
	decls := &declarations{
		source:        src,
		path:          relPath,
		module:        result.Module,
		hash:          hash,
		includeBodies: i.config.IncludeBodies,
	}
	decls.visit(root, nil)
	result.Classes = decls.classes
	return result, nil
}

// ModuleName returns dotted module path for a relative file path, package __init__ files name their directory
func ModuleName(relPath string) string {
	relPath = model.NormalizePath(relPath)
	relPath = strings.TrimSuffix(relPath, path.Ext(relPath))
	parts := strings.Split(relPath, "/")
	if len(parts) > 1 && parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, ".")
}

// firstError returns the first error or missing node in document order
func firstError(node *sitter.Node) *sitter.Node {
	if node.Type() == "ERROR" || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := firstError(child); found != nil {
			return found
		}
	}
	return nil
}
