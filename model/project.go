package model

import "sort"

// DefaultVersion is the document version assigned to new projects
const DefaultVersion = "1.0.0"

// Project represents the whole extracted model
type Project struct {
	ID       string            `json:"id" yaml:"id"`
	Name     string            `json:"name" yaml:"name"`
	Version  string            `json:"version" yaml:"version"`
	Packages []*Package        `json:"packages" yaml:"packages"`
	Metadata map[string]string `json:"metadata" yaml:"metadata"`

	packageMap map[string]int // position
}

// NewProject creates a project with a stable identifier
func NewProject(name string) *Project {
	return &Project{
		ID:       ProjectID(name),
		Name:     name,
		Version:  DefaultVersion,
		Metadata: map[string]string{},
	}
}

// LookupPackage retrieves a package by name
func (p *Project) LookupPackage(name string) *Package {
	if len(p.packageMap) != len(p.Packages) {
		p.packageMap = make(map[string]int, len(p.Packages))
		for i, pkg := range p.Packages {
			p.packageMap[pkg.Name] = i
		}
	}
	if idx, ok := p.packageMap[name]; ok && idx < len(p.Packages) {
		return p.Packages[idx]
	}
	return nil
}

// Classes returns all project classes in package order
func (p *Project) Classes() []*Class {
	var result []*Class
	for _, pkg := range p.Packages {
		result = append(result, pkg.Classes...)
	}
	return result
}

// Relationships returns all project relationships in package order
func (p *Project) Relationships() []*Relationship {
	var result []*Relationship
	for _, pkg := range p.Packages {
		result = append(result, pkg.Relationships...)
	}
	return result
}

// LookupClass retrieves a class by identifier
func (p *Project) LookupClass(id string) *Class {
	for _, pkg := range p.Packages {
		for _, class := range pkg.Classes {
			if class.ID == id {
				return class
			}
		}
	}
	return nil
}

// ApplyPositions sets diagram geometry keyed by class identifier, it returns ids that matched no class
func (p *Project) ApplyPositions(positions map[string]Position) []string {
	matched := map[string]bool{}
	for _, pkg := range p.Packages {
		for _, class := range pkg.Classes {
			position, ok := positions[class.ID]
			if !ok {
				continue
			}
			position = position.Clone()
			class.Position = &position
			matched[class.ID] = true
		}
	}
	var orphaned []string
	for id := range positions {
		if !matched[id] {
			orphaned = append(orphaned, id)
		}
	}
	sort.Strings(orphaned)
	return orphaned
}

// Package represents a dotted module path grouping classes
type Package struct {
	ID            string          `json:"id" yaml:"id"`
	Name          string          `json:"name" yaml:"name"` // Dotted path, e.g. services.auth
	Classes       []*Class        `json:"classes" yaml:"classes"`
	Relationships []*Relationship `json:"relationships" yaml:"relationships"` // Relationships whose source class belongs to this package
	Imports       []*Import       `json:"imports" yaml:"imports"`
	Docstring     string          `json:"docstring,omitempty" yaml:"docstring,omitempty"`
}

// NewPackage creates a package with a stable identifier
func NewPackage(name string) *Package {
	return &Package{ID: PackageID(name), Name: name}
}

// LookupClass retrieves the first class with the given name
func (p *Package) LookupClass(name string) *Class {
	for _, class := range p.Classes {
		if class.Name == name {
			return class
		}
	}
	return nil
}

// AddImport adds import unless an identical one is already present
func (p *Package) AddImport(anImport *Import) {
	key := anImport.Key()
	for _, candidate := range p.Imports {
		if candidate.Key() == key {
			return
		}
	}
	p.Imports = append(p.Imports, anImport)
}

// Import represents an import statement
type Import struct {
	Module  string   `json:"module" yaml:"module"`
	Symbols []string `json:"symbols" yaml:"symbols"`
	Alias   string   `json:"alias,omitempty" yaml:"alias,omitempty"`
}

// Key returns import identity key
func (i *Import) Key() string {
	key := i.Module + "|" + i.Alias
	for _, symbol := range i.Symbols {
		key += "|" + symbol
	}
	return key
}
