package python

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/viant/umlgraph/model"
)

// maxTypeDepth bounds annotation nesting, expressions at this depth become opaque
const maxTypeDepth = 32

const (
	typeAny      = "Any"
	typeNone     = "None"
	typeOptional = "Optional"
	typeUnion    = "Union"
	typeClassVar = "ClassVar"
	typeLiteral  = "Literal"
	typeAnnotate = "Annotated"
)

// ResolveAnnotation resolves annotation text, i.e. a forward reference, into a type reference
func ResolveAnnotation(text string) *model.TypeReference {
	ref, _ := resolveText(text, 1)
	return ref
}

// resolveType resolves annotation node, ClassVar wrapper is unwrapped
func resolveType(node *sitter.Node, source []byte) *model.TypeReference {
	ref, _ := resolveAnnotation(node, source)
	return ref
}

// resolveAnnotation resolves annotation node, it returns true if annotation was wrapped with ClassVar
func resolveAnnotation(node *sitter.Node, source []byte) (*model.TypeReference, bool) {
	node = unwrapType(node)
	if node == nil {
		return unknownType(), false
	}
	switch node.Type() {
	case "identifier", "attribute", "member_type":
		if name, _ := typeName(node, source); name == typeClassVar {
			return &model.TypeReference{Name: typeAny}, true
		}
	case "subscript", "generic_type":
		base, args := genericParts(node)
		if name, _ := typeName(unwrapType(base), source); name == typeClassVar {
			if len(args) != 1 {
				return &model.TypeReference{Name: typeAny}, true
			}
			return resolve(args[0], source, 2), true
		}
	case "string":
		return resolveText(stringContent(node.Content(source)), 1)
	}
	return resolve(node, source, 1), false
}

func resolve(node *sitter.Node, source []byte, depth int) *model.TypeReference {
	if node == nil || depth >= maxTypeDepth {
		return unknownType()
	}
	switch node.Type() {
	case "type", "parenthesized_expression":
		if inner := unwrapType(node); inner != nil && inner != node {
			return resolve(inner, source, depth)
		}
		return unknownType()
	case "identifier", "attribute", "member_type":
		name, module := typeName(node, source)
		if name == "" {
			return unknownType()
		}
		return &model.TypeReference{Name: name, Module: module}
	case "none":
		return &model.TypeReference{Name: typeNone}
	case "ellipsis":
		return &model.TypeReference{Name: "..."}
	case "subscript", "generic_type":
		base, args := genericParts(node)
		return resolveGeneric(base, args, source, depth)
	case "binary_operator":
		if operator := node.ChildByFieldName("operator"); operator == nil || operator.Type() != "|" {
			return unknownType()
		}
		return unionOf(unionMembers(node, source, depth))
	case "union_type":
		return unionOf(unionMembers(node, source, depth))
	case "string":
		ref, _ := resolveText(stringContent(node.Content(source)), depth+1)
		return ref
	}
	return unknownType()
}

func resolveGeneric(base *sitter.Node, args []*sitter.Node, source []byte, depth int) *model.TypeReference {
	name, module := typeName(unwrapType(base), source)
	if name == "" {
		return unknownType()
	}
	switch name {
	case typeOptional:
		if len(args) != 1 {
			return unknownType()
		}
		ref := resolve(args[0], source, depth+1)
		if !ref.IsUnknown() {
			ref.IsOptional = true
		}
		return ref
	case typeUnion:
		var members []*model.TypeReference
		for _, arg := range args {
			members = append(members, unionMembers(arg, source, depth+1)...)
		}
		return unionOf(members)
	case typeAnnotate:
		if len(args) == 0 {
			return unknownType()
		}
		return resolve(args[0], source, depth)
	}
	ref := &model.TypeReference{Name: name, Module: module}
	for _, arg := range args {
		if name == typeLiteral {
			ref.TypeArguments = append(ref.TypeArguments, &model.TypeReference{Name: arg.Content(source)})
			continue
		}
		ref.TypeArguments = append(ref.TypeArguments, resolve(arg, source, depth+1))
	}
	return ref
}

// unionMembers flattens A | B | C and nested Union members
func unionMembers(node *sitter.Node, source []byte, depth int) []*model.TypeReference {
	if depth > maxTypeDepth {
		return []*model.TypeReference{unknownType()}
	}
	node = unwrapType(node)
	if node == nil {
		return []*model.TypeReference{unknownType()}
	}
	switch node.Type() {
	case "binary_operator":
		operator := node.ChildByFieldName("operator")
		if operator != nil && operator.Type() == "|" {
			return append(unionMembers(node.ChildByFieldName("left"), source, depth+1),
				unionMembers(node.ChildByFieldName("right"), source, depth+1)...)
		}
	case "union_type":
		var result []*model.TypeReference
		for i := 0; i < int(node.NamedChildCount()); i++ {
			result = append(result, unionMembers(node.NamedChild(i), source, depth+1)...)
		}
		return result
	}
	return []*model.TypeReference{resolve(node, source, depth)}
}

// unionOf collapses X | None into optional X, other unions keep their non None members
func unionOf(members []*model.TypeReference) *model.TypeReference {
	var rest []*model.TypeReference
	hasNone := false
	for _, member := range members {
		if member.Name == typeNone && member.Module == "" && len(member.TypeArguments) == 0 {
			hasNone = true
			continue
		}
		rest = append(rest, member)
	}
	switch len(rest) {
	case 0:
		return &model.TypeReference{Name: typeNone}
	case 1:
		ref := rest[0]
		if hasNone && !ref.IsUnknown() {
			ref.IsOptional = true
		}
		return ref
	}
	return &model.TypeReference{Name: typeUnion, TypeArguments: rest, IsOptional: hasNone}
}

// resolveText parses annotation text as a python expression
func resolveText(text string, depth int) (*model.TypeReference, bool) {
	text = strings.TrimSpace(text)
	if text == "" || depth > maxTypeDepth {
		return unknownType(), false
	}
	src := []byte(text)
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return unknownType(), false
	}
	defer tree.Close()
	root := tree.RootNode()
	if root == nil || root.HasError() || root.NamedChildCount() != 1 {
		return unknownType(), false
	}
	statement := root.NamedChild(0)
	if statement.Type() != "expression_statement" || statement.NamedChildCount() != 1 {
		return unknownType(), false
	}
	expression := statement.NamedChild(0)
	if depth == 1 {
		return resolveAnnotation(expression, src)
	}
	return resolve(expression, src, depth), false
}

// genericParts returns subscripted base and its arguments
func genericParts(node *sitter.Node) (*sitter.Node, []*sitter.Node) {
	var base *sitter.Node
	var args []*sitter.Node
	switch node.Type() {
	case "subscript":
		base = node.ChildByFieldName("value")
		for i := 1; i < int(node.NamedChildCount()); i++ {
			if child := node.NamedChild(i); child.Type() != "comment" {
				args = append(args, child)
			}
		}
	case "generic_type":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch child.Type() {
			case "type_parameter":
				for j := 0; j < int(child.NamedChildCount()); j++ {
					if arg := child.NamedChild(j); arg.Type() != "comment" {
						args = append(args, arg)
					}
				}
			case "comment":
			default:
				if base == nil {
					base = child
				}
			}
		}
	}
	return base, args
}

// typeName returns bare name and qualifying module of a (dotted) name node
func typeName(node *sitter.Node, source []byte) (string, string) {
	if node == nil {
		return "", ""
	}
	switch node.Type() {
	case "identifier":
		return node.Content(source), ""
	case "attribute":
		object := node.ChildByFieldName("object")
		attribute := node.ChildByFieldName("attribute")
		if object == nil || attribute == nil || !isDottedName(object) {
			return "", ""
		}
		return attribute.Content(source), object.Content(source)
	case "member_type":
		count := int(node.NamedChildCount())
		if count < 2 {
			return "", ""
		}
		return node.NamedChild(count - 1).Content(source), node.NamedChild(0).Content(source)
	}
	return "", ""
}

func isDottedName(node *sitter.Node) bool {
	switch node.Type() {
	case "identifier":
		return true
	case "attribute":
		object := node.ChildByFieldName("object")
		return object != nil && isDottedName(object)
	}
	return false
}

func unwrapType(node *sitter.Node) *sitter.Node {
	for node != nil && (node.Type() == "type" || node.Type() == "parenthesized_expression") {
		if node.NamedChildCount() != 1 {
			return node
		}
		node = node.NamedChild(0)
	}
	return node
}

func unknownType() *model.TypeReference {
	return &model.TypeReference{Name: model.UnknownType}
}
