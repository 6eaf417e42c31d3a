package repository

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/viant/afs"
)

const (
	TypePython  = "python"
	TypeGit     = "git"
	TypeUnknown = "unknown"
)

var (
	sectionRegex   = regexp.MustCompile(`^\s*\[([^\]]+)\]\s*$`)
	tomlNameRegex  = regexp.MustCompile(`^\s*name\s*=\s*["']([^"']+)["']`)
	iniNameRegex   = regexp.MustCompile(`^\s*name\s*=\s*(\S+)`)
	setupNameRegex = regexp.MustCompile(`name\s*=\s*["']([^"']+)["']`)
)

// Detector identifies project root folders and provides project-related information
type Detector struct {
	// Common project root marker files/directories
	markers []string
	fs      afs.Service
}

// New creates a new project detector instance
func New() *Detector {
	return &Detector{
		markers: []string{
			"pyproject.toml",   // PEP 518 projects
			"setup.py",         // setuptools projects
			"setup.cfg",        // setuptools declarative projects
			"requirements.txt", // pip projects
			"Pipfile",          // pipenv projects
			".git",             // Generic VCS marker
		},
		fs: afs.New(),
	}
}

// DetectProject identifies the project root for the given file path and returns project info
func (d *Detector) DetectProject(filePath string, baseURL ...string) (*Project, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}

	// If it's a file, start from its parent directory
	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	rootPath, projectType := d.findProjectRoot(startDir)
	info := &Project{
		Type:     TypeUnknown,
		RootPath: startDir,
	}
	if rootPath == "" && len(baseURL) > 0 && baseURL[0] != "" {
		info.RootPath = baseURL[0]
	} else if rootPath != "" {
		info.RootPath = rootPath
		info.Type = projectType
	}
	if info.Type == TypeUnknown {
		if ok, _ := HasFileWithSuffixes(startDir, []string{".py", ".pyi"}, nil); ok {
			info.Type = TypePython
		}
	}

	relPath, err := filepath.Rel(info.RootPath, absPath)
	if err != nil {
		relPath = filepath.Base(absPath)
	}
	info.RelativePath = filepath.ToSlash(relPath)
	info.Name = d.extractProjectName(info.RootPath, projectType)
	return info, nil
}

// DetectRepository identifies the repository containing the given file path
func (d *Detector) DetectRepository(filePath string) (*Repository, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	info, err := d.DetectProject(filePath)
	if err != nil {
		return nil, err
	}
	if gitRoot := d.findGitRoot(startDir); gitRoot != "" {
		return &Repository{
			Kind:   TypeGit,
			Root:   gitRoot,
			Origin: d.extractGitOrigin(gitRoot),
			Info:   info,
		}, nil
	}
	return &Repository{
		Kind: info.Type,
		Root: info.RootPath,
		Info: info,
	}, nil
}

// findProjectRoot searches up from the current directory for project markers
func (d *Detector) findProjectRoot(startDir string) (string, string) {
	dir := startDir
	for {
		for _, marker := range d.markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, determineProjectType(marker)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ""
}

// findGitRoot finds the root of the git repository containing the given directory
func (d *Detector) findGitRoot(startDir string) string {
	dir := startDir
	homeDir := os.Getenv("HOME")
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir || parent == homeDir {
			break
		}
		dir = parent
	}
	return ""
}

// extractGitOrigin extracts the origin URL from git config
func (d *Detector) extractGitOrigin(gitRoot string) string {
	data := d.download(filepath.Join(gitRoot, ".git", "config"))
	scanner := bufio.NewScanner(bytes.NewReader(data))
	foundRemote := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, "[remote \"origin\"]") {
			foundRemote = true
			continue
		}
		if foundRemote && strings.HasPrefix(line, "url = ") {
			return strings.TrimPrefix(line, "url = ")
		}
	}
	return ""
}

// extractProjectName attempts to extract a project name from configuration files
func (d *Detector) extractProjectName(rootPath string, projectType string) string {
	switch projectType {
	case TypePython:
		if name := d.extractPyProjectName(filepath.Join(rootPath, "pyproject.toml")); name != "" {
			return name
		}
		if name := d.extractSetupCfgName(filepath.Join(rootPath, "setup.cfg")); name != "" {
			return name
		}
		if name := d.extractSetupPyName(filepath.Join(rootPath, "setup.py")); name != "" {
			return name
		}
	case TypeGit:
		if origin := d.extractGitOrigin(rootPath); origin != "" {
			parts := strings.Split(strings.TrimSuffix(origin, ".git"), "/")
			return parts[len(parts)-1]
		}
	}
	return filepath.Base(rootPath)
}

// extractPyProjectName reads name from [project] or [tool.poetry] section
func (d *Detector) extractPyProjectName(pyprojectPath string) string {
	return sectionValue(d.download(pyprojectPath), tomlNameRegex, "project", "tool.poetry")
}

// extractSetupCfgName reads name from [metadata] section
func (d *Detector) extractSetupCfgName(setupCfgPath string) string {
	return sectionValue(d.download(setupCfgPath), iniNameRegex, "metadata")
}

func (d *Detector) extractSetupPyName(setupPath string) string {
	if matches := setupNameRegex.FindSubmatch(d.download(setupPath)); len(matches) >= 2 {
		return string(matches[1])
	}
	return ""
}

func (d *Detector) download(location string) []byte {
	if _, err := os.Stat(location); err != nil {
		return nil
	}
	data, _ := d.fs.DownloadWithURL(context.Background(), location)
	return data
}

// sectionValue returns the first value matched within one of the sections
func sectionValue(data []byte, valueRegex *regexp.Regexp, sections ...string) string {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	active := false
	for scanner.Scan() {
		line := scanner.Text()
		if matches := sectionRegex.FindStringSubmatch(line); len(matches) == 2 {
			active = false
			for _, section := range sections {
				if strings.TrimSpace(matches[1]) == section {
					active = true
				}
			}
			continue
		}
		if !active {
			continue
		}
		if matches := valueRegex.FindStringSubmatch(line); len(matches) == 2 {
			return matches[1]
		}
	}
	return ""
}

// determineProjectType identifies the type of project based on the marker file
func determineProjectType(marker string) string {
	switch marker {
	case "pyproject.toml", "setup.py", "setup.cfg", "requirements.txt", "Pipfile":
		return TypePython
	case ".git":
		return TypeGit
	default:
		return TypeUnknown
	}
}
