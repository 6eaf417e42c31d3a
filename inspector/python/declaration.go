package python

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/umlgraph/model"
)

var (
	abstractBases      = map[string]bool{"ABC": true, "ABCMeta": true}
	abstractDecorators = map[string]bool{
		"abstractmethod":       true,
		"abstractproperty":     true,
		"abstractclassmethod":  true,
		"abstractstaticmethod": true,
	}
	initializers = map[string]bool{"__init__": true, "__post_init__": true}
)

// declarations collects class declarations of a single file
type declarations struct {
	source        []byte
	path          string
	module        string
	hash          string
	includeBodies bool
	classes       []*model.Class
}

// visit walks node children tracking enclosing class and function names
func (d *declarations) visit(node *sitter.Node, scope []string) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		d.visitNode(node.NamedChild(i), nil, scope)
	}
}

func (d *declarations) visitNode(node *sitter.Node, decorated *sitter.Node, scope []string) {
	switch node.Type() {
	case "decorated_definition":
		if definition := node.ChildByFieldName("definition"); definition != nil {
			d.visitNode(definition, node, scope)
		}
	case "class_definition":
		class := d.parseClass(node, decorated, scope)
		if class == nil {
			return
		}
		d.classes = append(d.classes, class)
		if body := node.ChildByFieldName("body"); body != nil {
			d.visit(body, nested(scope, class.Name))
		}
	case "function_definition":
		name := node.ChildByFieldName("name")
		body := node.ChildByFieldName("body")
		if name != nil && body != nil {
			d.visit(body, nested(scope, name.Content(d.source)))
		}
	case "comment", "string", "identifier", "import_statement", "import_from_statement":
	default:
		d.visit(node, scope)
	}
}

// parseClass extracts class declaration, decorated is the enclosing decorated_definition if any
func (d *declarations) parseClass(node *sitter.Node, decorated *sitter.Node, scope []string) *model.Class {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nameNode.Content(d.source)
	qualifiedName := strings.Join(nested(scope, name), ".")
	class := &model.Class{
		ID:         model.ClassID(d.path, qualifiedName),
		Name:       name,
		Decorators: parseDecorators(decorated, d.source),
		Metadata: map[string]string{
			model.MetaSourceFile:    d.path,
			model.MetaQualifiedName: qualifiedName,
			model.MetaLine:          strconv.Itoa(int(node.StartPoint().Row) + 1),
			model.MetaModule:        d.module,
			model.MetaSourceHash:    d.hash,
		},
	}
	class.BaseClasses, class.IsAbstract = d.parseBases(node.ChildByFieldName("superclasses"))

	body := node.ChildByFieldName("body")
	if body == nil {
		return class
	}
	class.Docstring = extractDocstring(body, d.source)
	attributes := &attributeSet{}
	var initMethods []*sitter.Node
	d.parseClassBody(body, class, attributes, &initMethods)
	for _, initMethod := range initMethods {
		receiver := receiverName(initMethod.ChildByFieldName("parameters"), d.source)
		if receiver == "" {
			continue
		}
		d.collectReceiverAttributes(initMethod.ChildByFieldName("body"), receiver, attributes)
	}
	class.Attributes = attributes.items
	return class
}

// parseClassBody collects members of a class body, statements guarded by if, try or with blocks belong to the class too
func (d *declarations) parseClassBody(body *sitter.Node, class *model.Class, attributes *attributeSet, initMethods *[]*sitter.Node) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		var decoratedMethod *sitter.Node
		if child.Type() == "decorated_definition" {
			decoratedMethod = child
			child = child.ChildByFieldName("definition")
			if child == nil {
				continue
			}
		}
		switch child.Type() {
		case "function_definition":
			method := d.parseMethod(child, decoratedMethod)
			if method == nil {
				continue
			}
			class.Methods = append(class.Methods, method)
			class.IsAbstract = class.IsAbstract || method.IsAbstract
			if initializers[method.Name] && !method.IsStatic {
				*initMethods = append(*initMethods, child)
			}
		case "expression_statement":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if assignment := child.NamedChild(j); assignment.Type() == "assignment" {
					d.parseClassAttribute(assignment, attributes)
				}
			}
		case "if_statement", "elif_clause", "else_clause", "try_statement", "except_clause", "except_group_clause",
			"finally_clause", "with_statement", "block":
			d.parseClassBody(child, class, attributes, initMethods)
		}
	}
}

// parseBases returns base class names and abstract marker
func (d *declarations) parseBases(node *sitter.Node) ([]string, bool) {
	if node == nil {
		return nil, false
	}
	var bases []string
	isAbstract := false
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "comment", "list_splat", "dictionary_splat":
			continue
		case "keyword_argument":
			name := child.ChildByFieldName("name")
			value := child.ChildByFieldName("value")
			if name != nil && value != nil && name.Content(d.source) == "metaclass" && isAbstractBase(value.Content(d.source)) {
				isAbstract = true
			}
			continue
		case "subscript":
			if value := child.ChildByFieldName("value"); value != nil {
				child = value
			}
		}
		base := child.Content(d.source)
		bases = append(bases, base)
		if isAbstractBase(base) {
			isAbstract = true
		}
	}
	return bases, isAbstract
}

func isAbstractBase(name string) bool {
	if index := strings.LastIndex(name, "."); index != -1 {
		name = name[index+1:]
	}
	return abstractBases[name]
}

// parseMethod extracts method declaration
func (d *declarations) parseMethod(node *sitter.Node, decorated *sitter.Node) *model.Method {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nameNode.Content(d.source)
	method := &model.Method{
		Name:       name,
		Visibility: model.VisibilityOf(name),
		Decorators: parseDecorators(decorated, d.source),
		IsAsync:    node.ChildCount() > 0 && node.Child(0).Type() == "async",
	}
	for _, decorator := range method.Decorators {
		switch {
		case decorator.Name == "staticmethod":
			method.IsStatic = true
		case decorator.Name == "classmethod":
			method.IsClassMethod = true
		case abstractDecorators[decorator.Name]:
			method.IsAbstract = true
			if decorator.Name == "abstractstaticmethod" {
				method.IsStatic = true
			} else if decorator.Name == "abstractclassmethod" {
				method.IsClassMethod = true
			}
		}
	}
	method.Parameters = parseParameters(node.ChildByFieldName("parameters"), d.source, !method.IsStatic)
	if returnType := node.ChildByFieldName("return_type"); returnType != nil {
		method.ReturnType = resolveType(returnType, d.source)
	}
	if body := node.ChildByFieldName("body"); body != nil {
		method.Docstring = extractDocstring(body, d.source)
		if d.includeBodies {
			method.Body = body.Content(d.source)
		}
	}
	return method
}

// parseParameters extracts parameters, skipReceiver drops the leading self/cls parameter
func parseParameters(node *sitter.Node, source []byte, skipReceiver bool) []*model.Parameter {
	if node == nil {
		return nil
	}
	var parameters []*model.Parameter
	kind := model.Positional
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		parameter := &model.Parameter{Kind: kind}
		switch child.Type() {
		case "keyword_separator", "*":
			kind = model.Keyword
			continue
		case "identifier":
			parameter.Name = child.Content(source)
		case "typed_parameter":
			if child.NamedChildCount() == 0 {
				continue
			}
			inner := child.NamedChild(0)
			parameter.Name = splatName(inner, source)
			switch inner.Type() {
			case "list_splat_pattern":
				parameter.Kind = model.VarPositional
				kind = model.Keyword
			case "dictionary_splat_pattern":
				parameter.Kind = model.VarKeyword
			}
			if typeNode := child.ChildByFieldName("type"); typeNode != nil {
				parameter.Type = resolveType(typeNode, source)
			}
		case "default_parameter", "typed_default_parameter":
			name := child.ChildByFieldName("name")
			if name == nil {
				continue
			}
			parameter.Name = name.Content(source)
			if value := child.ChildByFieldName("value"); value != nil {
				parameter.DefaultValue = value.Content(source)
			}
			if typeNode := child.ChildByFieldName("type"); typeNode != nil {
				parameter.Type = resolveType(typeNode, source)
			}
		case "list_splat_pattern":
			parameter.Name = splatName(child, source)
			parameter.Kind = model.VarPositional
			kind = model.Keyword
		case "dictionary_splat_pattern":
			parameter.Name = splatName(child, source)
			parameter.Kind = model.VarKeyword
		default:
			continue
		}
		if skipReceiver {
			skipReceiver = false
			if parameter.Kind == model.Positional {
				continue
			}
		}
		parameters = append(parameters, parameter)
	}
	return parameters
}

func splatName(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "list_splat_pattern", "dictionary_splat_pattern":
		if node.NamedChildCount() > 0 {
			return node.NamedChild(0).Content(source)
		}
		return strings.TrimLeft(node.Content(source), "*")
	}
	return node.Content(source)
}

// receiverName returns the first parameter name of a method
func receiverName(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "identifier":
			return child.Content(source)
		case "typed_parameter":
			if child.NamedChildCount() > 0 && child.NamedChild(0).Type() == "identifier" {
				return child.NamedChild(0).Content(source)
			}
			return ""
		case "default_parameter", "typed_default_parameter":
			if name := child.ChildByFieldName("name"); name != nil {
				return name.Content(source)
			}
			return ""
		case "comment":
			continue
		default:
			return ""
		}
	}
	return ""
}

// parseClassAttribute handles class body name: T = v and name = v
func (d *declarations) parseClassAttribute(node *sitter.Node, attributes *attributeSet) {
	left := node.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return
	}
	attribute := &model.Attribute{
		Name:          left.Content(d.source),
		IsClassScoped: true,
	}
	attribute.Visibility = model.VisibilityOf(attribute.Name)
	value := assignedValue(node)
	if value != nil {
		attribute.DefaultValue = value.Content(d.source)
	}
	annotated := false
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		attribute.Type, attribute.IsStatic = resolveAnnotation(typeNode, d.source)
		annotated = true
	} else {
		attribute.Type = inferType(value, d.source)
		attribute.IsStatic = true
	}
	attributes.add(attribute, annotated)
}

// collectReceiverAttributes handles receiver.x: T = v and receiver.x = v, nested functions and classes are not visited
func (d *declarations) collectReceiverAttributes(node *sitter.Node, receiver string, attributes *attributeSet) {
	if node == nil {
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "function_definition", "class_definition", "decorated_definition", "lambda":
			continue
		case "assignment":
			d.parseReceiverAssignment(child, receiver, attributes)
		}
		d.collectReceiverAttributes(child, receiver, attributes)
	}
}

func (d *declarations) parseReceiverAssignment(node *sitter.Node, receiver string, attributes *attributeSet) {
	left := node.ChildByFieldName("left")
	if left == nil {
		return
	}
	value := assignedValue(node)
	switch left.Type() {
	case "attribute":
		name := receiverAttribute(left, receiver, d.source)
		if name == "" {
			return
		}
		attribute := &model.Attribute{Name: name, Visibility: model.VisibilityOf(name)}
		if value != nil {
			attribute.DefaultValue = value.Content(d.source)
		}
		annotated := false
		if typeNode := node.ChildByFieldName("type"); typeNode != nil {
			attribute.Type = resolveType(typeNode, d.source)
			annotated = true
		} else {
			attribute.Type = inferType(value, d.source)
		}
		attributes.add(attribute, annotated)
	case "pattern_list", "tuple_pattern":
		for i := 0; i < int(left.NamedChildCount()); i++ {
			element := left.NamedChild(i)
			if element.Type() != "attribute" {
				continue
			}
			if name := receiverAttribute(element, receiver, d.source); name != "" {
				attributes.add(&model.Attribute{Name: name, Visibility: model.VisibilityOf(name), Type: &model.TypeReference{Name: typeAny}}, false)
			}
		}
	}
}

func receiverAttribute(node *sitter.Node, receiver string, source []byte) string {
	object := node.ChildByFieldName("object")
	attribute := node.ChildByFieldName("attribute")
	if object == nil || attribute == nil || object.Type() != "identifier" || object.Content(source) != receiver {
		return ""
	}
	return attribute.Content(source)
}

// assignedValue returns right hand side, for chained assignment the innermost value
func assignedValue(node *sitter.Node) *sitter.Node {
	value := node.ChildByFieldName("right")
	for value != nil && value.Type() == "assignment" {
		value = value.ChildByFieldName("right")
	}
	return value
}

// inferType returns literal based type of an unannotated value
func inferType(value *sitter.Node, source []byte) *model.TypeReference {
	name := typeAny
	if value != nil {
		switch value.Type() {
		case "integer":
			name = "int"
		case "float":
			name = "float"
		case "true", "false":
			name = "bool"
		case "none":
			name = typeNone
		case "string", "concatenated_string":
			name = "str"
			prefix := strings.ToLower(value.Content(source))
			if index := strings.IndexAny(prefix, `"'`); index > 0 && strings.Contains(prefix[:index], "b") {
				name = "bytes"
			}
		case "list", "list_comprehension":
			name = "list"
		case "dictionary", "dictionary_comprehension":
			name = "dict"
		case "set", "set_comprehension":
			name = "set"
		case "tuple":
			name = "tuple"
		}
	}
	return &model.TypeReference{Name: name}
}

// attributeSet keeps the first occurrence of each attribute name
type attributeSet struct {
	items     []*model.Attribute
	index     map[string]int
	annotated map[string]bool
}

func (s *attributeSet) add(attribute *model.Attribute, annotated bool) {
	if s.index == nil {
		s.index = map[string]int{}
		s.annotated = map[string]bool{}
	}
	if idx, ok := s.index[attribute.Name]; ok {
		if annotated && !s.annotated[attribute.Name] {
			s.items[idx].Type = attribute.Type
			s.annotated[attribute.Name] = true
		}
		return
	}
	s.index[attribute.Name] = len(s.items)
	s.annotated[attribute.Name] = annotated
	s.items = append(s.items, attribute)
}

func nested(scope []string, name string) []string {
	result := make([]string, 0, len(scope)+1)
	result = append(result, scope...)
	return append(result, name)
}
