package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/umlgraph/inspector/info"
)

func relPaths(sources []*Source) []string {
	var result []string
	for _, source := range sources {
		result = append(result, source.RelPath)
	}
	return result
}

func TestDiscoverSources(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"main.py":                         "",
		"README.md":                       "",
		"app/__init__.py":                 "",
		"app/models.py":                   "",
		"app/models.pyi":                  "",
		"app/sub/deep.py":                 "",
		".venv/lib/site.py":               "",
		"__pycache__/main.cpython-311.py": "",
		"shop.egg-info/setup.py":          "",
		"vendor/lib.py":                   "",
	})

	tests := []struct {
		name   string
		config func(c *info.Config)
		expect []string
	}{
		{
			name:   "defaults",
			expect: []string{"app/__init__.py", "app/models.py", "app/sub/deep.py", "main.py", "vendor/lib.py"},
		},
		{
			name:   "stubs",
			config: func(c *info.Config) { c.IncludeStubs = true },
			expect: []string{"app/__init__.py", "app/models.py", "app/models.pyi", "app/sub/deep.py", "main.py", "vendor/lib.py"},
		},
		{
			name:   "custom exclusion",
			config: func(c *info.Config) { c.ExcludeDirs = append(c.ExcludeDirs, "vendor", "sub") },
			expect: []string{"app/__init__.py", "app/models.py", "main.py"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := info.DefaultConfig()
			if tc.config != nil {
				tc.config(config)
			}
			sources, diagnostics, err := DiscoverSources(root, config)
			if !assert.NoError(t, err) {
				return
			}
			assert.Empty(t, diagnostics)
			assert.Equal(t, tc.expect, relPaths(sources))
			for _, source := range sources {
				assert.Equal(t, filepath.Join(root, filepath.FromSlash(source.RelPath)), source.Path)
			}
		})
	}
}

func TestDiscoverSources_SingleFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"pkg/module.py": "class A: pass\n"})
	sources, _, err := DiscoverSources(filepath.Join(root, "pkg", "module.py"), info.DefaultConfig())
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, []string{"module.py"}, relPaths(sources))
}

func TestDiscoverSources_Missing(t *testing.T) {
	_, _, err := DiscoverSources(filepath.Join(t.TempDir(), "absent"), info.DefaultConfig())
	assert.Error(t, err)
}

func TestDiscoverSources_UnreadableDirectory(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"main.py":            "",
		"app/models.py":      "",
		"app/locked/deep.py": "",
		"app/locked/x/y.py":  "",
		"other/util.py":      "",
	})
	denied := errors.New("permission denied")
	fails := func(failing ...string) func(name string) ([]os.DirEntry, error) {
		return func(name string) ([]os.DirEntry, error) {
			for _, candidate := range failing {
				if name == candidate {
					return nil, denied
				}
			}
			return os.ReadDir(name)
		}
	}
	defer func(fn func(name string) ([]os.DirEntry, error)) { readDir = fn }(readDir)

	readDir = fails(filepath.Join(root, "app", "locked"), filepath.Join(root, "other"))
	sources, diagnostics, err := DiscoverSources(root, info.DefaultConfig())
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, []string{"app/models.py", "main.py"}, relPaths(sources))
	assert.Equal(t, []string{"app/locked", "other"}, diagnostics.Paths())
	for _, diagnostic := range diagnostics {
		assert.Equal(t, info.KindRead, diagnostic.Kind)
		assert.Contains(t, diagnostic.Message, "permission denied")
	}

	readDir = fails(root)
	_, _, err = DiscoverSources(root, info.DefaultConfig())
	assert.True(t, errors.Is(err, denied))
}

func TestHasFileWithSuffixes(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a_test.py": "", "notes.txt": ""})
	has, err := HasFileWithSuffixes(root, []string{".py"}, nil)
	assert.NoError(t, err)
	assert.True(t, has)
	has, err = HasFileWithSuffixes(root, []string{".py"}, []string{"_test.py"})
	assert.NoError(t, err)
	assert.False(t, has)
}
