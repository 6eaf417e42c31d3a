package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/umlgraph/inspector/info"
)

// Source represents a discovered source file
type Source struct {
	Path    string // Absolute file location
	RelPath string // Slash separated path relative to the inspected root
}

// HasFileWithSuffixes checks if a directory contains files with one of the inclusion suffixes
func HasFileWithSuffixes(dirPath string, inclusionSuffix, exclusionSuffix []string) (bool, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return false, err
	}

outer:
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		for _, suffix := range inclusionSuffix {
			if strings.HasSuffix(entry.Name(), suffix) {
				for _, exclusion := range exclusionSuffix {
					if strings.HasSuffix(entry.Name(), exclusion) {
						continue outer
					}
				}
				return true, nil
			}
		}
	}
	return false, nil
}

// readDir lists directory entries
var readDir = os.ReadDir

// DiscoverSources returns source files under root sorted by relative path, root may be a single file.
// An unreadable root is an error, unreadable subdirectories are reported as read diagnostics and skipped.
func DiscoverSources(root string, config *info.Config) ([]*Source, info.Diagnostics, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, err
	}
	fileInfo, err := os.Stat(absRoot)
	if err != nil {
		return nil, nil, err
	}
	if !fileInfo.IsDir() {
		return []*Source{{Path: absRoot, RelPath: filepath.Base(absRoot)}}, nil, nil
	}
	var diagnostics info.Diagnostics
	sources, err := readSourcesRecursively(absRoot, absRoot, config, &diagnostics)
	if err != nil {
		return nil, nil, err
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].RelPath < sources[j].RelPath
	})
	diagnostics.Sort()
	return sources, diagnostics, nil
}

func readSourcesRecursively(rootDir, dir string, config *info.Config, diagnostics *info.Diagnostics) ([]*Source, error) {
	entries, err := readDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	extensions := config.Extensions()
	var sources []*Source
	var subFolders []string
	for _, entry := range entries {
		if entry.IsDir() {
			if !config.IsExcluded(entry.Name()) {
				subFolders = append(subFolders, entry.Name())
			}
			continue
		}
		if !entry.Type().IsRegular() || !hasExtension(entry.Name(), extensions) {
			continue
		}
		filePath := filepath.Join(dir, entry.Name())
		relPath, err := filepath.Rel(rootDir, filePath)
		if err != nil {
			return nil, err
		}
		sources = append(sources, &Source{Path: filePath, RelPath: filepath.ToSlash(relPath)})
	}

	for _, subFolder := range subFolders {
		subDir := filepath.Join(dir, subFolder)
		subSources, err := readSourcesRecursively(rootDir, subDir, config, diagnostics)
		if err != nil {
			relPath, relErr := filepath.Rel(rootDir, subDir)
			if relErr != nil {
				relPath = subDir
			}
			diagnostics.Add(info.KindRead, filepath.ToSlash(relPath), err)
			continue
		}
		sources = append(sources, subSources...)
	}
	return sources, nil
}

func hasExtension(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
