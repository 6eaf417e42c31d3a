package python

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/umlgraph/model"
)

// extractImports collects module level imports, including those nested in if/try blocks
func extractImports(node *sitter.Node, source []byte) []*model.Import {
	var imports []*model.Import
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "import_statement":
			imports = append(imports, parseImportStatement(child, source)...)
		case "import_from_statement", "future_import_statement":
			if anImport := parseImportFromStatement(child, source); anImport != nil {
				imports = append(imports, anImport)
			}
		case "function_definition", "class_definition", "decorated_definition":
		default:
			imports = append(imports, extractImports(child, source)...)
		}
	}
	return imports
}

// parseImportStatement handles import a.b, import a.b as c
func parseImportStatement(node *sitter.Node, source []byte) []*model.Import {
	var imports []*model.Import
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			imports = append(imports, &model.Import{Module: child.Content(source), Symbols: []string{}})
		case "aliased_import":
			name := child.ChildByFieldName("name")
			if name == nil {
				continue
			}
			anImport := &model.Import{Module: name.Content(source), Symbols: []string{}}
			if alias := child.ChildByFieldName("alias"); alias != nil {
				anImport.Alias = alias.Content(source)
			}
			imports = append(imports, anImport)
		}
	}
	return imports
}

// parseImportFromStatement handles from a import x, y as z and from . import *
func parseImportFromStatement(node *sitter.Node, source []byte) *model.Import {
	anImport := &model.Import{Symbols: []string{}}
	moduleNode := node.ChildByFieldName("module_name")
	if node.Type() == "future_import_statement" {
		anImport.Module = "__future__"
	} else if moduleNode != nil {
		anImport.Module = moduleNode.Content(source)
	}
	if anImport.Module == "" {
		return nil
	}
	var aliases []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if moduleNode != nil && child.StartByte() == moduleNode.StartByte() && child.EndByte() == moduleNode.EndByte() {
			continue
		}
		switch child.Type() {
		case "dotted_name":
			anImport.Symbols = append(anImport.Symbols, child.Content(source))
		case "wildcard_import":
			anImport.Symbols = append(anImport.Symbols, "*")
		case "aliased_import":
			name := child.ChildByFieldName("name")
			if name == nil {
				continue
			}
			anImport.Symbols = append(anImport.Symbols, name.Content(source))
			if alias := child.ChildByFieldName("alias"); alias != nil {
				aliases = append(aliases, alias.Content(source))
			}
		}
	}
	if len(anImport.Symbols) == 1 && len(aliases) == 1 {
		anImport.Alias = aliases[0]
	}
	return anImport
}
