package relation

import (
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/umlgraph/model"
)

func newClass(sourceFile, name string, bases ...string) *model.Class {
	module := strings.ReplaceAll(strings.TrimSuffix(sourceFile, path.Ext(sourceFile)), "/", ".")
	return &model.Class{
		ID:          model.ClassID(sourceFile, name),
		Name:        name,
		BaseClasses: bases,
		Metadata: map[string]string{
			model.MetaSourceFile:    sourceFile,
			model.MetaQualifiedName: name,
			model.MetaModule:        module,
		},
	}
}

func withAttribute(class *model.Class, name string, ref *model.TypeReference) *model.Class {
	class.Attributes = append(class.Attributes, &model.Attribute{Name: name, Type: ref, Visibility: model.VisibilityOf(name)})
	return class
}

func withMethod(class *model.Class, name string, returnType *model.TypeReference, params ...*model.TypeReference) *model.Class {
	method := &model.Method{Name: name, ReturnType: returnType}
	for i, param := range params {
		method.Parameters = append(method.Parameters, &model.Parameter{Name: "p" + string(rune('a'+i)), Type: param, Kind: model.Positional})
	}
	class.Methods = append(class.Methods, method)
	return class
}

func optional(name string) *model.TypeReference {
	return &model.TypeReference{Name: name, IsOptional: true}
}

func ref(name string, args ...*model.TypeReference) *model.TypeReference {
	return model.NewTypeReference(name, args...)
}

func countKinds(relationships []*model.Relationship) map[model.RelationshipKind]int {
	result := map[model.RelationshipKind]int{}
	for _, rel := range relationships {
		result[rel.Kind]++
	}
	return result
}

func TestInferrer_InheritanceWithOptionalAttribute(t *testing.T) {
	base := newClass("base.py", "Base")
	child := withAttribute(newClass("child.py", "Child", "Base"), "item", optional("Base"))
	child = withMethod(child, "replace", ref("Base"), ref("Base"))

	relationships := NewInferrer([]*model.Class{child, base}).Infer()
	assert.Equal(t, map[model.RelationshipKind]int{model.Inheritance: 1, model.Aggregation: 1}, countKinds(relationships))

	inheritance := relationships[0]
	assert.Equal(t, model.Inheritance, inheritance.Kind)
	assert.Equal(t, child.ID, inheritance.SourceID)
	assert.Equal(t, base.ID, inheritance.TargetID)
	assert.Equal(t, RoleDerived, inheritance.SourceRole)
	assert.Equal(t, RoleBase, inheritance.TargetRole)

	aggregation := relationships[1]
	assert.Equal(t, model.ZeroToOne, aggregation.TargetMultiplicity)
	assert.Equal(t, RoleHas, aggregation.SourceRole)
	assert.Equal(t, "item", aggregation.TargetRole)
	assert.True(t, aggregation.IsNavigableFromSource)
	assert.False(t, aggregation.IsNavigableFromTarget)
	assert.Equal(t, model.RelationshipID(model.Aggregation, child.ID, base.ID), aggregation.ID)
}

func TestInferrer_AttributeClassification(t *testing.T) {
	tests := []struct {
		name         string
		ref          *model.TypeReference
		wantKind     model.RelationshipKind
		multiplicity model.Multiplicity
	}{
		{name: "composition", ref: ref("Foo"), wantKind: model.Composition, multiplicity: model.One},
		{name: "optional", ref: optional("Foo"), wantKind: model.Aggregation, multiplicity: model.ZeroToOne},
		{name: "list", ref: ref("List", ref("Foo")), wantKind: model.Aggregation, multiplicity: model.Many},
		{name: "builtin set", ref: ref("set", ref("Foo")), wantKind: model.Aggregation, multiplicity: model.Many},
		{name: "optional list", ref: &model.TypeReference{Name: "List", TypeArguments: []*model.TypeReference{ref("Foo")}, IsOptional: true}, wantKind: model.Aggregation, multiplicity: model.Many},
		{name: "homogeneous tuple", ref: ref("Tuple", ref("Foo"), ref("...")), wantKind: model.Aggregation, multiplicity: model.Many},
		{name: "qualified", ref: &model.TypeReference{Name: "Foo", Module: "pkg.foo"}, wantKind: model.Composition, multiplicity: model.One},
		{name: "qualified by package", ref: &model.TypeReference{Name: "Foo", Module: "foo"}, wantKind: model.Composition, multiplicity: model.One},
		{name: "foreign module", ref: &model.TypeReference{Name: "Foo", Module: "vendor.foo"}},
		{name: "dict", ref: ref("Dict", ref("str"), ref("Foo"))},
		{name: "pair tuple", ref: ref("Tuple", ref("Foo"), ref("Foo"))},
		{name: "nested list", ref: ref("List", ref("List", ref("Foo")))},
		{name: "unknown generic", ref: ref("Box", ref("Foo"))},
		{name: "external", ref: ref("Decimal")},
		{name: "opaque", ref: ref(model.UnknownType)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			foo := newClass("pkg/foo.py", "Foo")
			owner := withAttribute(newClass("pkg/owner.py", "Owner"), "value", tc.ref)
			relationships := NewInferrer([]*model.Class{foo, owner}).Infer()
			if tc.wantKind == "" {
				assert.Empty(t, relationships)
				return
			}
			if !assert.Len(t, relationships, 1) {
				return
			}
			rel := relationships[0]
			assert.Equal(t, tc.wantKind, rel.Kind)
			assert.Equal(t, owner.ID, rel.SourceID)
			assert.Equal(t, foo.ID, rel.TargetID)
			assert.Equal(t, tc.multiplicity, rel.TargetMultiplicity)
			assert.Equal(t, "value", rel.TargetRole)
		})
	}
}

func TestInferrer_Dependencies(t *testing.T) {
	foo := newClass("app/foo.py", "Foo")
	bar := newClass("app/bar.py", "Bar")
	baz := newClass("app/baz.py", "Baz")
	service := withAttribute(newClass("app/service.py", "Service"), "foo", ref("Foo"))
	service = withMethod(service, "handle", ref("Bar"), ref("Foo"), ref("List", ref("Baz")))
	service = withMethod(service, "other", nil, ref("Bar"), ref("Service"), ref("Unknown"))

	relationships := NewInferrer([]*model.Class{foo, bar, baz, service}).Infer()
	assert.Equal(t, map[model.RelationshipKind]int{model.Composition: 1, model.Dependency: 3}, countKinds(relationships))

	var targets []string
	for _, rel := range relationships {
		if rel.Kind == model.Dependency {
			assert.Equal(t, RoleUses, rel.SourceRole)
			targets = append(targets, rel.TargetID)
		}
	}
	assert.Equal(t, []string{baz.ID, bar.ID, service.ID}, targets)
}

func TestInferrer_SelfReference(t *testing.T) {
	tests := []struct {
		name  string
		class *model.Class
		want  model.RelationshipKind
	}{
		{
			name:  "owned self suppresses dependency",
			class: withMethod(withAttribute(newClass("node.py", "Node", "Node"), "next", optional("Node")), "copy", ref("Node")),
			want:  model.Aggregation,
		},
		{
			name:  "signature self",
			class: withMethod(newClass("money.py", "Money"), "merge", ref("Money"), ref("Money")),
			want:  model.Dependency,
		},
		{
			name:  "factory return",
			class: withMethod(newClass("config.py", "Config"), "load", ref("Config"), ref("str")),
			want:  model.Dependency,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			relationships := NewInferrer([]*model.Class{tc.class}).Infer()
			if !assert.Len(t, relationships, 1) {
				return
			}
			assert.Equal(t, tc.want, relationships[0].Kind)
			assert.Equal(t, tc.class.ID, relationships[0].SourceID)
			assert.Equal(t, tc.class.ID, relationships[0].TargetID)
		})
	}
}

func TestInferrer_Deduplication(t *testing.T) {
	foo := newClass("foo.py", "Foo")
	owner := newClass("owner.py", "Owner")
	owner = withAttribute(owner, "first", ref("Foo"))
	owner = withAttribute(owner, "second", ref("Foo"))
	owner = withAttribute(owner, "many", ref("List", ref("Foo")))
	relationships := NewInferrer([]*model.Class{foo, owner}).Infer()
	assert.Equal(t, map[model.RelationshipKind]int{model.Composition: 1, model.Aggregation: 1}, countKinds(relationships))
	assert.Equal(t, "first", relationships[0].TargetRole)
}

func TestInferrer_UnresolvedBase(t *testing.T) {
	class := newClass("a.py", "A", "ABC", "external.Mixin", "Generic")
	class = withAttribute(class, "value", ref("int"))
	relationships := NewInferrer([]*model.Class{class}).Infer()
	assert.Empty(t, relationships)
	assert.Equal(t, []string{"ABC", "external.Mixin", "Generic"}, class.BaseClasses)

	local := newClass("app/models.py", "Model")
	user := newClass("app/user.py", "User", "django.db.models.Model")
	relationships = NewInferrer([]*model.Class{local, user}).Infer()
	assert.Empty(t, relationships)
	assert.Equal(t, []string{"django.db.models.Model"}, user.BaseClasses)

	admin := newClass("app/admin.py", "Admin", "models.Model")
	relationships = NewInferrer([]*model.Class{local, admin}).Infer()
	if assert.Len(t, relationships, 1) {
		assert.Equal(t, model.Inheritance, relationships[0].Kind)
		assert.Equal(t, local.ID, relationships[0].TargetID)
	}
}

func TestRegistry_Ambiguous(t *testing.T) {
	first := newClass("a/models.py", "Foo")
	second := newClass("b/models.py", "Foo")
	sameFile := newClass("b/user.py", "Foo")
	registry := NewRegistry([]*model.Class{sameFile, second, first})

	tests := []struct {
		name string
		from *model.Class
		want *model.Class
	}{
		{name: "same file", from: newClass("b/user.py", "User"), want: sameFile},
		{name: "same package", from: newClass("b/other.py", "Other"), want: second},
		{name: "registry order", from: newClass("c/other.py", "Other"), want: first},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, registry.Resolve("Foo", tc.from))
		})
	}

	assert.Equal(t, second, registry.ResolveType(&model.TypeReference{Name: "Foo", Module: "b.models"}, newClass("c/x.py", "X")))
	assert.Equal(t, second, registry.Resolve("b.models.Foo", newClass("c/x.py", "X")))
	assert.Nil(t, registry.Resolve("Bar", nil))
	assert.Len(t, registry.Candidates("Foo"), 3)
	assert.Equal(t, first, registry.Classes()[0])
}

func TestRegistry_BaseExcludesSelf(t *testing.T) {
	local := newClass("app/form.py", "Form", "forms.Form")
	registry := NewRegistry([]*model.Class{local})
	assert.Nil(t, registry.ResolveBase("forms.Form", local))

	external := newClass("lib/forms.py", "Form")
	registry = NewRegistry([]*model.Class{local, external})
	assert.Equal(t, external, registry.ResolveBase("forms.Form", local))
}

func TestRegistry_NestedClass(t *testing.T) {
	outer := newClass("a.py", "Outer")
	inner := newClass("a.py", "Inner")
	inner.ID = model.ClassID("a.py", "Outer.Inner")
	inner.Metadata[model.MetaQualifiedName] = "Outer.Inner"
	registry := NewRegistry([]*model.Class{outer, inner})
	assert.Equal(t, inner, registry.Resolve("Outer.Inner", nil))
	assert.Equal(t, inner, registry.Resolve("Inner", outer))
	assert.Equal(t, inner, registry.Lookup(inner.ID))
}

func TestInferrer_Deterministic(t *testing.T) {
	build := func() []*model.Class {
		base := newClass("z/base.py", "Base")
		child := withAttribute(newClass("a/child.py", "Child", "Base"), "items", ref("List", ref("Base")))
		other := withMethod(newClass("m/other.py", "Other"), "use", nil, ref("Child"))
		return []*model.Class{base, child, other}
	}
	classes := build()
	reversed := []*model.Class{classes[2], classes[1], classes[0]}
	first := NewInferrer(build()).Infer()
	second := NewInferrer(reversed).Infer()
	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}
