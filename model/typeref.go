package model

import "strings"

// UnknownType names an annotation that could not be structurally resolved
const UnknownType = "?"

// TypeReference represents a possibly generic, possibly optional type annotation
type TypeReference struct {
	Name          string           `json:"name" yaml:"name"`                                       // Bare type name, e.g. List
	Module        string           `json:"module,omitempty" yaml:"module,omitempty"`               // Qualifying module, e.g. typing
	TypeArguments []*TypeReference `json:"type_arguments,omitempty" yaml:"type_arguments,omitempty"` // Generic arguments in declaration order
	IsOptional    bool             `json:"is_optional" yaml:"is_optional"`
}

// NewTypeReference creates a type reference with optional type arguments
func NewTypeReference(name string, args ...*TypeReference) *TypeReference {
	return &TypeReference{Name: name, TypeArguments: args}
}

// IsUnknown returns true for opaque references
func (t *TypeReference) IsUnknown() bool {
	return t == nil || t.Name == UnknownType
}

// QualifiedName returns module qualified type name
func (t *TypeReference) QualifiedName() string {
	if t.Module == "" {
		return t.Name
	}
	return t.Module + "." + t.Name
}

// String returns annotation like representation, i.e. Dict[str, List[int]] | None
func (t *TypeReference) String() string {
	if t == nil {
		return ""
	}
	builder := &strings.Builder{}
	t.write(builder)
	if t.IsOptional {
		builder.WriteString(" | None")
	}
	return builder.String()
}

func (t *TypeReference) write(builder *strings.Builder) {
	builder.WriteString(t.Name)
	if len(t.TypeArguments) == 0 {
		return
	}
	builder.WriteString("[")
	for i, arg := range t.TypeArguments {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(arg.String())
	}
	builder.WriteString("]")
}

// Depth returns nesting depth of the reference, a bare name has depth 1
func (t *TypeReference) Depth() int {
	if t == nil {
		return 0
	}
	depth := 0
	for _, arg := range t.TypeArguments {
		if d := arg.Depth(); d > depth {
			depth = d
		}
	}
	return depth + 1
}

// Clone creates a deep copy of the type reference
func (t *TypeReference) Clone() *TypeReference {
	if t == nil {
		return nil
	}
	ret := &TypeReference{Name: t.Name, Module: t.Module, IsOptional: t.IsOptional}
	if t.TypeArguments != nil {
		ret.TypeArguments = make([]*TypeReference, len(t.TypeArguments))
		for i, arg := range t.TypeArguments {
			ret.TypeArguments[i] = arg.Clone()
		}
	}
	return ret
}
