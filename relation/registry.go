package relation

import (
	"path"
	"sort"
	"strings"

	"github.com/viant/umlgraph/model"
)

// Registry indexes known classes by name and identifier
type Registry struct {
	classes []*model.Class
	byName  map[string][]*model.Class
	byID    map[string]*model.Class
}

// NewRegistry creates a registry, classes are ordered by source file keeping declaration order within a file
func NewRegistry(classes []*model.Class) *Registry {
	ordered := append([]*model.Class{}, classes...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SourceFile() < ordered[j].SourceFile()
	})
	r := &Registry{
		classes: ordered,
		byName:  make(map[string][]*model.Class, len(ordered)),
		byID:    make(map[string]*model.Class, len(ordered)),
	}
	for _, class := range ordered {
		r.byID[class.ID] = class
		r.byName[class.Name] = append(r.byName[class.Name], class)
		if qualified := class.QualifiedName(); qualified != class.Name {
			r.byName[qualified] = append(r.byName[qualified], class)
		}
	}
	return r
}

// Classes returns registered classes in registry order
func (r *Registry) Classes() []*model.Class {
	return r.classes
}

// Lookup returns class by identifier
func (r *Registry) Lookup(id string) *model.Class {
	return r.byID[id]
}

// Candidates returns classes declared with the name
func (r *Registry) Candidates(name string) []*model.Class {
	return r.byName[name]
}

// Resolve returns the class a (possibly dotted) name refers to from within the given class, or nil for external names.
// A dotted name only matches classes whose module is the qualifier or ends with it.
func (r *Registry) Resolve(name string, from *model.Class) *model.Class {
	return r.resolve(name, "", from, nil)
}

// ResolveType returns the class referenced by a bare type reference
func (r *Registry) ResolveType(ref *model.TypeReference, from *model.Class) *model.Class {
	if ref.IsUnknown() || len(ref.TypeArguments) > 0 {
		return nil
	}
	return r.resolve(ref.Name, ref.Module, from, nil)
}

// ResolveBase returns the class a base name refers to, the declaring class is never its own base
func (r *Registry) ResolveBase(name string, from *model.Class) *model.Class {
	return r.resolve(name, "", from, from)
}

func (r *Registry) resolve(name, module string, from, exclude *model.Class) *model.Class {
	candidates := r.byName[name]
	if len(candidates) == 0 && module == "" {
		if index := strings.LastIndex(name, "."); index != -1 {
			module, name = name[:index], name[index+1:]
			candidates = r.byName[name]
		}
	}
	if module != "" {
		var narrowed []*model.Class
		for _, candidate := range candidates {
			if candidateModule := candidate.Module(); candidateModule == module || strings.HasSuffix(candidateModule, "."+module) {
				narrowed = append(narrowed, candidate)
			}
		}
		// a qualified name from an unknown module is external even when a local class shares its name
		candidates = narrowed
	}
	if exclude != nil {
		var filtered []*model.Class
		for _, candidate := range candidates {
			if candidate.ID != exclude.ID {
				filtered = append(filtered, candidate)
			}
		}
		candidates = filtered
	}
	return pick(candidates, from)
}

// pick resolves ambiguous names: same file first, then same package, then registry order
func pick(candidates []*model.Class, from *model.Class) *model.Class {
	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return candidates[0]
	}
	if from == nil {
		return candidates[0]
	}
	for _, candidate := range candidates {
		if candidate.SourceFile() == from.SourceFile() {
			return candidate
		}
	}
	fromPackage := path.Dir(from.SourceFile())
	for _, candidate := range candidates {
		if path.Dir(candidate.SourceFile()) == fromPackage {
			return candidate
		}
	}
	return candidates[0]
}
