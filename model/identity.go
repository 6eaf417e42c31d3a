package model

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Namespaces for name based (version 5) identifiers, changing them changes every emitted id
var (
	ClassNamespace        = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/viant/umlgraph/class"))
	PackageNamespace      = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/viant/umlgraph/package"))
	ProjectNamespace      = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/viant/umlgraph/project"))
	RelationshipNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/viant/umlgraph/relationship"))
)

// ClassID returns stable class identifier for a file path relative to the inspected root and a qualified class name
func ClassID(relPath, qualifiedName string) string {
	return stableID(ClassNamespace, NormalizePath(relPath)+":"+qualifiedName)
}

// PackageID returns stable package identifier
func PackageID(name string) string {
	return stableID(PackageNamespace, name)
}

// ProjectID returns stable project identifier
func ProjectID(name string) string {
	return stableID(ProjectNamespace, name)
}

// RelationshipID returns stable relationship identifier
func RelationshipID(kind RelationshipKind, sourceID, targetID string) string {
	return stableID(RelationshipNamespace, sourceID+":"+string(kind)+":"+targetID)
}

// NormalizePath converts path to forward slash form without leading ./
func NormalizePath(aPath string) string {
	aPath = filepath.ToSlash(aPath)
	return strings.TrimPrefix(aPath, "./")
}

func stableID(namespace uuid.UUID, name string) string {
	return uuid.NewSHA1(namespace, []byte(name)).String()
}
