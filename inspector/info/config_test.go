package info

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsExcluded(t *testing.T) {
	config := DefaultConfig()
	tests := []struct {
		dir  string
		want bool
	}{
		{dir: ".venv", want: true},
		{dir: "__pycache__", want: true},
		{dir: "site-packages", want: true},
		{dir: "mypkg.egg-info", want: true},
		{dir: "services", want: false},
		{dir: "environment", want: false},
	}
	for _, tc := range tests {
		t.Run(tc.dir, func(t *testing.T) {
			assert.Equal(t, tc.want, config.IsExcluded(tc.dir))
		})
	}
}

func TestConfig_Extensions(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, []string{".py"}, config.Extensions())
	config.IncludeStubs = true
	assert.Equal(t, []string{".py", ".pyi"}, config.Extensions())
}

func TestConfig_FromEnv(t *testing.T) {
	t.Run("overlay", func(t *testing.T) {
		t.Setenv(EnvWorkers, "3")
		t.Setenv(EnvCacheSize, "0")
		t.Setenv(EnvExclude, "generated, fixtures")
		t.Setenv(EnvIncludeBodies, "true")
		t.Setenv(EnvIncludeStubs, "")
		config := DefaultConfig()
		assert.NoError(t, config.FromEnv(filepath.Join(t.TempDir(), "missing.env")))
		assert.Equal(t, 3, config.Workers)
		assert.Equal(t, 0, config.CacheSize)
		assert.True(t, config.IncludeBodies)
		assert.False(t, config.IncludeStubs)
		assert.True(t, config.IsExcluded("generated"))
		assert.True(t, config.IsExcluded("fixtures"))
	})

	t.Run("env file", func(t *testing.T) {
		t.Setenv(EnvWorkers, "")
		envFile := filepath.Join(t.TempDir(), "test.env")
		assert.NoError(t, os.WriteFile(envFile, []byte("UMLGRAPH_INCLUDE_STUBS=1\n"), 0o644))
		t.Setenv(EnvIncludeStubs, "")
		os.Unsetenv(EnvIncludeStubs)
		config := DefaultConfig()
		assert.NoError(t, config.FromEnv(envFile))
		assert.True(t, config.IncludeStubs)
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv(EnvWorkers, "zero")
		err := DefaultConfig().FromEnv(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})
}

func TestDiagnostics(t *testing.T) {
	var diagnostics Diagnostics
	diagnostics.Add(KindSyntax, "b.py", errors.New("unexpected token"))
	diagnostics.Add(KindRead, "a.py", errors.New("permission denied"))
	diagnostics.Sort()
	assert.Equal(t, []string{"a.py", "b.py"}, diagnostics.Paths())
	assert.Equal(t, "b.py: syntax: unexpected token", diagnostics[1].String())
}
