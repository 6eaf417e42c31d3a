package relation

import (
	"github.com/viant/umlgraph/model"
)

// Relationship roles
const (
	RoleDerived = "derived"
	RoleBase    = "base"
	RoleOwns    = "owns"
	RoleHas     = "has"
	RoleUses    = "uses"
)

// DefaultContainers lists single element container generics producing many-valued aggregation
var DefaultContainers = []string{
	"list", "List",
	"set", "Set",
	"frozenset", "FrozenSet",
	"Sequence", "MutableSequence",
	"Iterable", "Iterator",
	"Collection",
	"tuple", "Tuple",
	"deque", "Deque",
	"AbstractSet", "MutableSet",
}

// Inferrer infers relationships between registered classes
type Inferrer struct {
	registry   *Registry
	containers map[string]bool
}

// Option represents inferrer option
type Option func(i *Inferrer)

// WithContainers replaces recognized container generic names
func WithContainers(names ...string) Option {
	return func(i *Inferrer) {
		i.containers = make(map[string]bool, len(names))
		for _, name := range names {
			i.containers[name] = true
		}
	}
}

// NewInferrer creates an inferrer over the complete class set
func NewInferrer(classes []*model.Class, opts ...Option) *Inferrer {
	ret := &Inferrer{registry: NewRegistry(classes)}
	WithContainers(DefaultContainers...)(ret)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Registry returns class registry
func (i *Inferrer) Registry() *Registry {
	return i.registry
}

// Infer returns deduplicated relationships in registry order
func (i *Inferrer) Infer() []*model.Relationship {
	var result []*model.Relationship
	seen := map[string]bool{}
	add := func(rel *model.Relationship) {
		if key := rel.Key(); !seen[key] {
			seen[key] = true
			result = append(result, rel)
		}
	}
	for _, class := range i.registry.Classes() {
		for _, rel := range i.inferClass(class) {
			add(rel)
		}
	}
	return result
}

func (i *Inferrer) inferClass(class *model.Class) []*model.Relationship {
	var result []*model.Relationship
	connected := map[string]bool{}

	for _, base := range class.BaseClasses {
		target := i.registry.ResolveBase(base, class)
		if target == nil {
			continue
		}
		rel := model.NewRelationship(model.Inheritance, class.ID, target.ID)
		rel.SourceRole = RoleDerived
		rel.TargetRole = RoleBase
		result = append(result, rel)
		connected[target.ID] = true
	}

	for _, attribute := range class.Attributes {
		target, kind, multiplicity := i.classify(attribute.Type, class)
		if target == nil {
			continue
		}
		rel := model.NewRelationship(kind, class.ID, target.ID)
		rel.SourceRole = RoleHas
		if kind == model.Composition {
			rel.SourceRole = RoleOwns
		}
		rel.TargetRole = attribute.Name
		rel.TargetMultiplicity = multiplicity
		result = append(result, rel)
		connected[target.ID] = true
	}

	for _, method := range class.Methods {
		for _, ref := range signatureTypes(method) {
			target, _, _ := i.classify(ref, class)
			if target == nil || connected[target.ID] {
				continue
			}
			rel := model.NewRelationship(model.Dependency, class.ID, target.ID)
			rel.SourceRole = RoleUses
			result = append(result, rel)
			connected[target.ID] = true
		}
	}
	return result
}

// classify returns attribute edge target, kind and target multiplicity, target is nil when no edge applies
func (i *Inferrer) classify(ref *model.TypeReference, from *model.Class) (*model.Class, model.RelationshipKind, model.Multiplicity) {
	if ref.IsUnknown() {
		return nil, "", ""
	}
	if len(ref.TypeArguments) == 0 {
		target := i.registry.ResolveType(ref, from)
		if target == nil {
			return nil, "", ""
		}
		if ref.IsOptional {
			return target, model.Aggregation, model.ZeroToOne
		}
		return target, model.Composition, model.One
	}
	element := i.containerElement(ref)
	if element == nil {
		return nil, "", ""
	}
	if target := i.registry.ResolveType(element, from); target != nil {
		return target, model.Aggregation, model.Many
	}
	return nil, "", ""
}

// containerElement returns the sole element type of a recognized container, Tuple[X, ...] is homogeneous
func (i *Inferrer) containerElement(ref *model.TypeReference) *model.TypeReference {
	if !i.containers[ref.Name] {
		return nil
	}
	switch len(ref.TypeArguments) {
	case 1:
		return ref.TypeArguments[0]
	case 2:
		if (ref.Name == "tuple" || ref.Name == "Tuple") && ref.TypeArguments[1].Name == "..." {
			return ref.TypeArguments[0]
		}
	}
	return nil
}

func signatureTypes(method *model.Method) []*model.TypeReference {
	var result []*model.TypeReference
	for _, parameter := range method.Parameters {
		if parameter.Type != nil {
			result = append(result, parameter.Type)
		}
	}
	if method.ReturnType != nil {
		result = append(result, method.ReturnType)
	}
	return result
}
