package info

import "github.com/viant/umlgraph/model"

// FileResult represents the structural skeleton extracted from one source file
type FileResult struct {
	Path      string          // File path relative to the inspected root, slash separated
	Module    string          // Dotted module path, e.g. services.auth.tokens
	Hash      string          // Content fingerprint
	Docstring string          // Module docstring
	Classes   []*model.Class  // Classes in source order, nested classes follow their parent
	Imports   []*model.Import // Module level imports
}

// Clone creates a deep copy of the file result
func (f *FileResult) Clone() *FileResult {
	ret := &FileResult{Path: f.Path, Module: f.Module, Hash: f.Hash, Docstring: f.Docstring}
	if f.Classes != nil {
		ret.Classes = make([]*model.Class, len(f.Classes))
		for i, class := range f.Classes {
			ret.Classes[i] = class.Clone()
		}
	}
	if f.Imports != nil {
		ret.Imports = make([]*model.Import, len(f.Imports))
		for i, anImport := range f.Imports {
			clone := *anImport
			if anImport.Symbols != nil {
				clone.Symbols = append([]string{}, anImport.Symbols...)
			}
			ret.Imports[i] = &clone
		}
	}
	return ret
}
