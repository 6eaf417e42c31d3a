package model

import "strings"

// Visibility represents member visibility derived from naming conventions
type Visibility string

const (
	Public    Visibility = "public"    // no leading underscore
	Protected Visibility = "protected" // single leading underscore
	Private   Visibility = "private"   // double leading underscore, not a dunder
)

// VisibilityOf returns visibility for a python member name
func VisibilityOf(name string) Visibility {
	switch {
	case strings.HasPrefix(name, "__") && !strings.HasSuffix(name, "__"):
		return Private
	case strings.HasPrefix(name, "_"):
		return Protected
	default:
		return Public
	}
}

// RelationshipKind indicates UML relationship type
type RelationshipKind string

const (
	Inheritance RelationshipKind = "inheritance"
	Association RelationshipKind = "association"
	Aggregation RelationshipKind = "aggregation"
	Composition RelationshipKind = "composition"
	Dependency  RelationshipKind = "dependency"
	Realization RelationshipKind = "realization" // interface implementation
)

// ParameterKind indicates how an argument binds to a parameter
type ParameterKind string

const (
	Positional    ParameterKind = "positional"
	Keyword       ParameterKind = "keyword" // keyword only, declared after * or *args
	VarPositional ParameterKind = "var_positional"
	VarKeyword    ParameterKind = "var_keyword"
)

// Multiplicity represents relationship end cardinality
type Multiplicity string

const (
	ZeroToOne  Multiplicity = "0..1"
	One        Multiplicity = "1"
	ZeroToMany Multiplicity = "0..*"
	OneToMany  Multiplicity = "1..*"
	Many       Multiplicity = "*"
)
