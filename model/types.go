package model

// Class metadata keys written by the extractor
const (
	MetaSourceFile    = "source_file"
	MetaQualifiedName = "qualified_name"
	MetaLine          = "line"
	MetaSourceHash    = "source_hash"
	MetaModule        = "module"
)

// Class represents a class declaration with its members
type Class struct {
	ID          string            `json:"id" yaml:"id"` // Stable identifier, see ClassID
	Name        string            `json:"name" yaml:"name"`
	Attributes  []*Attribute      `json:"attributes" yaml:"attributes"`
	Methods     []*Method         `json:"methods" yaml:"methods"`
	BaseClasses []string          `json:"base_classes" yaml:"base_classes"` // Declared base names, not resolved
	Decorators  []*Decorator      `json:"decorators" yaml:"decorators"`
	IsAbstract  bool              `json:"is_abstract" yaml:"is_abstract"`
	Docstring   string            `json:"docstring,omitempty" yaml:"docstring,omitempty"`
	Position    *Position         `json:"position,omitempty" yaml:"position,omitempty"` // Owned by the diagram layer
	Metadata    map[string]string `json:"metadata" yaml:"metadata"`

	attributeMap map[string]int
	methodMap    map[string]int
}

// SourceFile returns originating file path relative to the inspected root
func (c *Class) SourceFile() string {
	return c.Metadata[MetaSourceFile]
}

// QualifiedName returns name including enclosing scopes, defaults to Name
func (c *Class) QualifiedName() string {
	if name := c.Metadata[MetaQualifiedName]; name != "" {
		return name
	}
	return c.Name
}

// Module returns dotted module path of the originating file
func (c *Class) Module() string {
	return c.Metadata[MetaModule]
}

// LookupAttribute retrieves an attribute by name
func (c *Class) LookupAttribute(name string) *Attribute {
	if len(c.attributeMap) != len(c.Attributes) {
		c.attributeMap = make(map[string]int, len(c.Attributes))
		for i, attr := range c.Attributes {
			if _, ok := c.attributeMap[attr.Name]; !ok {
				c.attributeMap[attr.Name] = i
			}
		}
	}
	if idx, ok := c.attributeMap[name]; ok && idx < len(c.Attributes) {
		return c.Attributes[idx]
	}
	return nil
}

// LookupMethod retrieves a method by name
func (c *Class) LookupMethod(name string) *Method {
	if len(c.methodMap) != len(c.Methods) {
		c.methodMap = make(map[string]int, len(c.Methods))
		for i, method := range c.Methods {
			if _, ok := c.methodMap[method.Name]; !ok {
				c.methodMap[method.Name] = i
			}
		}
	}
	if idx, ok := c.methodMap[name]; ok && idx < len(c.Methods) {
		return c.Methods[idx]
	}
	return nil
}

// HasDecorator returns true if class is decorated with name
func (c *Class) HasDecorator(name string) bool {
	return hasDecorator(c.Decorators, name)
}

// Clone creates a deep copy of the class
func (c *Class) Clone() *Class {
	ret := &Class{
		ID:         c.ID,
		Name:       c.Name,
		IsAbstract: c.IsAbstract,
		Docstring:  c.Docstring,
		Decorators: cloneDecorators(c.Decorators),
	}
	if c.BaseClasses != nil {
		ret.BaseClasses = append([]string{}, c.BaseClasses...)
	}
	if c.Attributes != nil {
		ret.Attributes = make([]*Attribute, len(c.Attributes))
		for i, attr := range c.Attributes {
			ret.Attributes[i] = attr.Clone()
		}
	}
	if c.Methods != nil {
		ret.Methods = make([]*Method, len(c.Methods))
		for i, method := range c.Methods {
			ret.Methods[i] = method.Clone()
		}
	}
	if c.Position != nil {
		position := c.Position.Clone()
		ret.Position = &position
	}
	if c.Metadata != nil {
		ret.Metadata = make(map[string]string, len(c.Metadata))
		for k, v := range c.Metadata {
			ret.Metadata[k] = v
		}
	}
	return ret
}

// Attribute represents a class or instance attribute
type Attribute struct {
	Name          string         `json:"name" yaml:"name"`
	Type          *TypeReference `json:"type" yaml:"type"`
	Visibility    Visibility     `json:"visibility" yaml:"visibility"`
	IsStatic      bool           `json:"is_static" yaml:"is_static"`             // ClassVar or unannotated class body assignment
	IsClassScoped bool           `json:"is_class_scoped" yaml:"is_class_scoped"` // Declared in class body rather than on the receiver
	DefaultValue  string         `json:"default_value,omitempty" yaml:"default_value,omitempty"`
	Decorators    []*Decorator   `json:"decorators" yaml:"decorators"`
}

// Clone creates a deep copy of the attribute
func (a *Attribute) Clone() *Attribute {
	ret := *a
	ret.Type = a.Type.Clone()
	ret.Decorators = cloneDecorators(a.Decorators)
	return &ret
}

// Method represents a class method
type Method struct {
	Name          string         `json:"name" yaml:"name"`
	Parameters    []*Parameter   `json:"parameters" yaml:"parameters"` // Receiver excluded
	ReturnType    *TypeReference `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	Visibility    Visibility     `json:"visibility" yaml:"visibility"`
	IsStatic      bool           `json:"is_static" yaml:"is_static"`
	IsClassMethod bool           `json:"is_class_method" yaml:"is_class_method"`
	IsAbstract    bool           `json:"is_abstract" yaml:"is_abstract"`
	IsAsync       bool           `json:"is_async" yaml:"is_async"`
	Decorators    []*Decorator   `json:"decorators" yaml:"decorators"`
	Docstring     string         `json:"docstring,omitempty" yaml:"docstring,omitempty"`
	Body          string         `json:"body,omitempty" yaml:"body,omitempty"`
}

// HasDecorator returns true if method is decorated with name
func (m *Method) HasDecorator(name string) bool {
	return hasDecorator(m.Decorators, name)
}

// Clone creates a deep copy of the method
func (m *Method) Clone() *Method {
	ret := *m
	ret.ReturnType = m.ReturnType.Clone()
	ret.Decorators = cloneDecorators(m.Decorators)
	if m.Parameters != nil {
		ret.Parameters = make([]*Parameter, len(m.Parameters))
		for i, param := range m.Parameters {
			clone := *param
			clone.Type = param.Type.Clone()
			ret.Parameters[i] = &clone
		}
	}
	return &ret
}

// Parameter represents a method parameter
type Parameter struct {
	Name         string         `json:"name" yaml:"name"`
	Type         *TypeReference `json:"type,omitempty" yaml:"type,omitempty"`
	DefaultValue string         `json:"default_value,omitempty" yaml:"default_value,omitempty"`
	Kind         ParameterKind  `json:"kind" yaml:"kind"`
}

// Decorator represents a decorator with its textual arguments
type Decorator struct {
	Name      string            `json:"name" yaml:"name"`
	Module    string            `json:"module,omitempty" yaml:"module,omitempty"`
	Arguments map[string]string `json:"arguments,omitempty" yaml:"arguments,omitempty"` // Positional arguments keyed arg0, arg1...
}

// Clone creates a deep copy of the decorator
func (d *Decorator) Clone() *Decorator {
	ret := &Decorator{Name: d.Name, Module: d.Module}
	if d.Arguments != nil {
		ret.Arguments = make(map[string]string, len(d.Arguments))
		for k, v := range d.Arguments {
			ret.Arguments[k] = v
		}
	}
	return ret
}

// Position represents diagram geometry, it is never used for inference
type Position struct {
	X      float64  `json:"x" yaml:"x"`
	Y      float64  `json:"y" yaml:"y"`
	Width  *float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height *float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

// Clone creates a copy of the position
func (p Position) Clone() Position {
	ret := Position{X: p.X, Y: p.Y}
	if p.Width != nil {
		width := *p.Width
		ret.Width = &width
	}
	if p.Height != nil {
		height := *p.Height
		ret.Height = &height
	}
	return ret
}

func cloneDecorators(decorators []*Decorator) []*Decorator {
	if decorators == nil {
		return nil
	}
	ret := make([]*Decorator, len(decorators))
	for i, decorator := range decorators {
		ret[i] = decorator.Clone()
	}
	return ret
}

func hasDecorator(decorators []*Decorator, name string) bool {
	for _, decorator := range decorators {
		if decorator.Name == name || decorator.Module+"."+decorator.Name == name {
			return true
		}
	}
	return false
}
