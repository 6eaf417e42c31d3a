package model

// Normalize brings the project to its document form: collections encoded without omitempty are non-nil,
// omitempty collections are nil when empty. Decoded documents are always normalized, so a normalized
// project decodes back equal to itself in every format.
func (p *Project) Normalize() *Project {
	if p.Packages == nil {
		p.Packages = []*Package{}
	}
	if p.Metadata == nil {
		p.Metadata = map[string]string{}
	}
	for _, pkg := range p.Packages {
		pkg.normalize()
	}
	return p
}

func (p *Package) normalize() {
	if p.Classes == nil {
		p.Classes = []*Class{}
	}
	if p.Relationships == nil {
		p.Relationships = []*Relationship{}
	}
	if p.Imports == nil {
		p.Imports = []*Import{}
	}
	for _, class := range p.Classes {
		class.normalize()
	}
	for _, anImport := range p.Imports {
		if anImport.Symbols == nil {
			anImport.Symbols = []string{}
		}
	}
}

func (c *Class) normalize() {
	if c.Attributes == nil {
		c.Attributes = []*Attribute{}
	}
	if c.Methods == nil {
		c.Methods = []*Method{}
	}
	if c.BaseClasses == nil {
		c.BaseClasses = []string{}
	}
	if c.Metadata == nil {
		c.Metadata = map[string]string{}
	}
	c.Decorators = normalizeDecorators(c.Decorators)
	for _, attribute := range c.Attributes {
		attribute.Decorators = normalizeDecorators(attribute.Decorators)
		attribute.Type.normalize()
	}
	for _, method := range c.Methods {
		if method.Parameters == nil {
			method.Parameters = []*Parameter{}
		}
		method.Decorators = normalizeDecorators(method.Decorators)
		method.ReturnType.normalize()
		for _, parameter := range method.Parameters {
			parameter.Type.normalize()
		}
	}
}

func (t *TypeReference) normalize() {
	if t == nil {
		return
	}
	if len(t.TypeArguments) == 0 {
		t.TypeArguments = nil
	}
	for _, arg := range t.TypeArguments {
		arg.normalize()
	}
}

func normalizeDecorators(decorators []*Decorator) []*Decorator {
	if decorators == nil {
		decorators = []*Decorator{}
	}
	for _, decorator := range decorators {
		if len(decorator.Arguments) == 0 {
			decorator.Arguments = nil
		}
	}
	return decorators
}
