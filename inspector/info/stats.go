package info

import (
	"fmt"
	"time"
)

// Stats represents inspection counters
type Stats struct {
	Files         int           `json:"files" yaml:"files"`         // Discovered source files
	Inspected     int           `json:"inspected" yaml:"inspected"` // Successfully extracted files
	Skipped       int           `json:"skipped" yaml:"skipped"`
	CacheHits     int           `json:"cache_hits" yaml:"cache_hits"`
	Packages      int           `json:"packages" yaml:"packages"`
	Classes       int           `json:"classes" yaml:"classes"`
	Relationships int           `json:"relationships" yaml:"relationships"`
	Elapsed       time.Duration `json:"elapsed" yaml:"elapsed"`
}

func (s *Stats) String() string {
	return fmt.Sprintf("files: %d, inspected: %d, skipped: %d, cache hits: %d, packages: %d, classes: %d, relationships: %d, elapsed: %s",
		s.Files, s.Inspected, s.Skipped, s.CacheHits, s.Packages, s.Classes, s.Relationships, s.Elapsed)
}
