package info

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables overlaid by FromEnv
const (
	EnvWorkers       = "UMLGRAPH_WORKERS"
	EnvExclude       = "UMLGRAPH_EXCLUDE"
	EnvCacheSize     = "UMLGRAPH_CACHE_SIZE"
	EnvIncludeStubs  = "UMLGRAPH_INCLUDE_STUBS"
	EnvIncludeBodies = "UMLGRAPH_INCLUDE_BODIES"
)

// DefaultCacheSize is the default number of cached file extractions
const DefaultCacheSize = 512

// DefaultExcludeDirs lists directory names never descended into
var DefaultExcludeDirs = []string{
	".git", ".hg", ".svn", "__pycache__",
	".venv", "venv", "env", ".env",
	"node_modules", ".tox", ".nox",
	"build", "dist", ".eggs",
	".pytest_cache", ".mypy_cache", ".ruff_cache",
	"site-packages",
}

// EggInfoSuffix marks setuptools metadata directories, they are always excluded
const EggInfoSuffix = ".egg-info"

type Config struct {
	ExcludeDirs   []string
	Workers       int
	CacheSize     int  // 0 disables extraction cache
	IncludeStubs  bool // also inspect .pyi files
	IncludeBodies bool // keep method body text
}

func DefaultConfig() *Config {
	return &Config{
		ExcludeDirs: append([]string{}, DefaultExcludeDirs...),
		Workers:     runtime.NumCPU(),
		CacheSize:   DefaultCacheSize,
	}
}

// Extensions returns inspected source file extensions
func (c *Config) Extensions() []string {
	if c.IncludeStubs {
		return []string{".py", ".pyi"}
	}
	return []string{".py"}
}

// IsExcluded returns true if directory name should be skipped
func (c *Config) IsExcluded(dirName string) bool {
	if strings.HasSuffix(dirName, EggInfoSuffix) {
		return true
	}
	for _, candidate := range c.ExcludeDirs {
		if candidate == dirName {
			return true
		}
	}
	return false
}

// FromEnv loads optional env files (.env by default) and overlays UMLGRAPH_* variables
func (c *Config) FromEnv(envFiles ...string) error {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env: %w", err)
	}
	if value := strings.TrimSpace(os.Getenv(EnvWorkers)); value != "" {
		workers, err := strconv.Atoi(value)
		if err != nil || workers < 1 {
			return fmt.Errorf("invalid %s: %q", EnvWorkers, value)
		}
		c.Workers = workers
	}
	if value := strings.TrimSpace(os.Getenv(EnvCacheSize)); value != "" {
		size, err := strconv.Atoi(value)
		if err != nil || size < 0 {
			return fmt.Errorf("invalid %s: %q", EnvCacheSize, value)
		}
		c.CacheSize = size
	}
	if value := strings.TrimSpace(os.Getenv(EnvExclude)); value != "" {
		c.ExcludeDirs = append(c.ExcludeDirs, SplitList(value)...)
	}
	var err error
	if c.IncludeStubs, err = envBool(EnvIncludeStubs, c.IncludeStubs); err != nil {
		return err
	}
	if c.IncludeBodies, err = envBool(EnvIncludeBodies, c.IncludeBodies); err != nil {
		return err
	}
	return nil
}

// SplitList splits comma separated list skipping blanks
func SplitList(value string) []string {
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func envBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	ret, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %q", key, value)
	}
	return ret, nil
}
