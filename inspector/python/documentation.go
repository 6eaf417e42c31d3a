package python

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/viant/umlgraph/model"
)

// extractDocstring returns cleaned docstring of a module or block node
func extractDocstring(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		if child.Type() != "expression_statement" || child.NamedChildCount() != 1 {
			return ""
		}
		literal := child.NamedChild(0)
		switch literal.Type() {
		case "string":
			return cleanDoc(stringContent(literal.Content(source)))
		case "concatenated_string":
			builder := strings.Builder{}
			for j := 0; j < int(literal.NamedChildCount()); j++ {
				if part := literal.NamedChild(j); part.Type() == "string" {
					builder.WriteString(stringContent(part.Content(source)))
				}
			}
			return cleanDoc(builder.String())
		}
		return ""
	}
	return ""
}

// stringContent strips prefix and quotes of a python string literal
func stringContent(literal string) string {
	literal = strings.TrimLeft(literal, "rRbBuUfF")
	for _, quote := range []string{`"""`, `'''`, `"`, `'`} {
		if len(literal) >= 2*len(quote) && strings.HasPrefix(literal, quote) && strings.HasSuffix(literal, quote) {
			return literal[len(quote) : len(literal)-len(quote)]
		}
	}
	return literal
}

// cleanDoc removes docstring indentation the way python tooling does
func cleanDoc(doc string) string {
	lines := strings.Split(strings.ReplaceAll(doc, "\t", "        "), "\n")
	margin := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		if indent := len(line) - len(trimmed); margin == -1 || indent < margin {
			margin = indent
		}
	}
	lines[0] = strings.TrimLeft(lines[0], " ")
	if margin > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= margin {
				lines[i] = lines[i][margin:]
			} else {
				lines[i] = strings.TrimLeft(lines[i], " ")
			}
		}
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \r")
	}
	return strings.Join(lines, "\n")
}

// parseDecorators extracts decorators of a decorated_definition node
func parseDecorators(node *sitter.Node, source []byte) []*model.Decorator {
	if node == nil || node.Type() != "decorated_definition" {
		return nil
	}
	var decorators []*model.Decorator
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "decorator" || child.NamedChildCount() == 0 {
			continue
		}
		if decorator := parseDecorator(child.NamedChild(0), source); decorator != nil {
			decorators = append(decorators, decorator)
		}
	}
	return decorators
}

func parseDecorator(expression *sitter.Node, source []byte) *model.Decorator {
	switch expression.Type() {
	case "identifier", "attribute":
		return namedDecorator(expression, source)
	case "call":
		function := expression.ChildByFieldName("function")
		if function == nil {
			return nil
		}
		decorator := namedDecorator(function, source)
		decorator.Arguments = parseArguments(expression.ChildByFieldName("arguments"), source)
		return decorator
	}
	return &model.Decorator{Name: expression.Content(source)}
}

func namedDecorator(node *sitter.Node, source []byte) *model.Decorator {
	if name, module := typeName(node, source); name != "" {
		return &model.Decorator{Name: name, Module: module}
	}
	return &model.Decorator{Name: node.Content(source)}
}

// parseArguments captures call arguments as text, positional arguments are keyed arg0, arg1...
func parseArguments(node *sitter.Node, source []byte) map[string]string {
	if node == nil {
		return nil
	}
	if node.Type() != "argument_list" {
		return map[string]string{"arg0": node.Content(source)}
	}
	var arguments map[string]string
	positional := 0
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		key := ""
		value := child.Content(source)
		switch child.Type() {
		case "comment":
			continue
		case "keyword_argument":
			name := child.ChildByFieldName("name")
			valueNode := child.ChildByFieldName("value")
			if name == nil || valueNode == nil {
				continue
			}
			key, value = name.Content(source), valueNode.Content(source)
		case "list_splat":
			key, value = "*", strings.TrimPrefix(value, "*")
		case "dictionary_splat":
			key, value = "**", strings.TrimPrefix(value, "**")
		default:
			key = "arg" + strconv.Itoa(positional)
			positional++
		}
		if arguments == nil {
			arguments = map[string]string{}
		}
		arguments[key] = value
	}
	return arguments
}
