package info

import (
	"fmt"
	"sort"
)

// DiagnosticKind indicates why a file was skipped
type DiagnosticKind string

const (
	KindSyntax   DiagnosticKind = "syntax"
	KindRead     DiagnosticKind = "read"
	KindEncoding DiagnosticKind = "encoding"
)

// Diagnostic represents a recoverable per-file failure
type Diagnostic struct {
	Path    string         `json:"path" yaml:"path"` // Relative to the inspected root
	Message string         `json:"message" yaml:"message"`
	Kind    DiagnosticKind `json:"kind" yaml:"kind"`
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Path, d.Kind, d.Message)
}

// Diagnostics represents collected diagnostics
type Diagnostics []*Diagnostic

// Add appends a diagnostic
func (d *Diagnostics) Add(kind DiagnosticKind, path string, err error) {
	*d = append(*d, &Diagnostic{Path: path, Kind: kind, Message: err.Error()})
}

// Sort orders diagnostics by path then kind
func (d Diagnostics) Sort() {
	sort.SliceStable(d, func(i, j int) bool {
		if d[i].Path == d[j].Path {
			return d[i].Kind < d[j].Kind
		}
		return d[i].Path < d[j].Path
	})
}

// Paths returns diagnosed file paths
func (d Diagnostics) Paths() []string {
	var result []string
	for _, item := range d {
		result = append(result, item.Path)
	}
	return result
}
