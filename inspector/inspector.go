package inspector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/viant/afs"
	"github.com/viant/umlgraph/inspector/info"
	"github.com/viant/umlgraph/inspector/python"
	"github.com/viant/umlgraph/inspector/repository"
	"github.com/viant/umlgraph/model"
	"github.com/viant/umlgraph/relation"
	"golang.org/x/sync/errgroup"
)

// Generator identifies the producer in project metadata
const Generator = "umlgraph"

// Project metadata keys
const (
	MetaRoot        = "root"
	MetaProjectType = "project_type"
	MetaFiles       = "files"
	MetaSkipped     = "skipped"
	MetaGenerator   = "generator"
	MetaOrigin      = "origin"
)

// ErrRootNotFound is returned when the inspected location does not exist or cannot be read
var ErrRootNotFound = errors.New("root not found")

// Result represents an inspection outcome
type Result struct {
	Project     *model.Project
	Diagnostics info.Diagnostics
	Stats       info.Stats
}

// Inspector extracts a class diagram model from a Python file or source tree
type Inspector struct {
	config   *info.Config
	logger   *slog.Logger
	name     string
	fs       afs.Service
	python   *python.Inspector
	detector *repository.Detector
	cache    *cache
	options  []relation.Option
	discover func(root string, config *info.Config) ([]*repository.Source, info.Diagnostics, error)
}

// Option represents inspector option
type Option func(i *Inspector)

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(i *Inspector) {
		i.logger = logger
	}
}

// WithName overrides detected project name
func WithName(name string) Option {
	return func(i *Inspector) {
		i.name = name
	}
}

// WithRelationOptions sets relationship inference options
func WithRelationOptions(options ...relation.Option) Option {
	return func(i *Inspector) {
		i.options = options
	}
}

// New creates an inspector
func New(config *info.Config, opts ...Option) (*Inspector, error) {
	if config == nil {
		config = info.DefaultConfig()
	}
	ret := &Inspector{
		config:   config,
		logger:   slog.Default(),
		fs:       afs.New(),
		python:   python.NewInspector(config),
		detector: repository.New(),
		discover: repository.DiscoverSources,
	}
	for _, opt := range opts {
		opt(ret)
	}
	var err error
	if ret.cache, err = newCache(config.CacheSize); err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return ret, nil
}

// fileOutcome holds one extraction task result
type fileOutcome struct {
	result   *info.FileResult
	err      error
	cacheHit bool
}

// Inspect extracts classes from every source under location and infers relationships between them
func (i *Inspector) Inspect(ctx context.Context, location string) (*Result, error) {
	started := time.Now()
	root, err := filepath.Abs(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootNotFound, location, err)
	}
	rootInfo, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootNotFound, location, err)
	}
	sources, skipped, err := i.discover(root, i.config)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRootNotFound, location, err)
	}
	i.logger.Debug("discovered sources", "root", root, "files", len(sources))

	outcomes := i.extract(ctx, sources)
	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("inspection cancelled: %w", err)
	}

	result := &Result{}
	result.Stats.Files = len(sources)
	for _, diagnostic := range skipped {
		result.Diagnostics = append(result.Diagnostics, diagnostic)
		i.logger.Warn("skipped directory", "path", diagnostic.Path, "kind", string(diagnostic.Kind), "err", diagnostic.Message)
	}
	var files []*info.FileResult
	for idx, outcome := range outcomes {
		if outcome.err != nil {
			kind := diagnosticKind(outcome.err)
			result.Diagnostics.Add(kind, sources[idx].RelPath, outcome.err)
			i.logger.Warn("skipped file", "path", sources[idx].RelPath, "kind", string(kind), "err", outcome.err)
			continue
		}
		if outcome.cacheHit {
			result.Stats.CacheHits++
		}
		files = append(files, outcome.result)
	}
	result.Diagnostics.Sort()
	result.Stats.Inspected = len(files)
	result.Stats.Skipped = len(result.Diagnostics)

	rootPackage := filepath.Base(root)
	if !rootInfo.IsDir() {
		rootPackage = strings.TrimSuffix(rootPackage, filepath.Ext(rootPackage))
	}
	project := i.newProject(root, rootPackage)
	project.Packages = assemblePackages(files, rootPackage)

	var classes []*model.Class
	packageOf := map[string]*model.Package{}
	for _, pkg := range project.Packages {
		for _, class := range pkg.Classes {
			classes = append(classes, class)
			packageOf[class.ID] = pkg
		}
	}
	relationships := relation.NewInferrer(classes, i.options...).Infer()
	for _, rel := range relationships {
		pkg := packageOf[rel.SourceID]
		pkg.Relationships = append(pkg.Relationships, rel)
	}

	project.Metadata[MetaFiles] = strconv.Itoa(result.Stats.Files)
	project.Metadata[MetaSkipped] = strconv.Itoa(result.Stats.Skipped)
	result.Project = project.Normalize()
	result.Stats.Packages = len(project.Packages)
	result.Stats.Classes = len(classes)
	result.Stats.Relationships = len(relationships)
	result.Stats.Elapsed = time.Since(started)
	i.logger.Debug("inspected project", "root", root, "stats", result.Stats.String())
	return result, nil
}

// extract inspects sources in parallel, outcomes are positioned as sources
func (i *Inspector) extract(ctx context.Context, sources []*repository.Source) []*fileOutcome {
	outcomes := make([]*fileOutcome, len(sources))
	workers := i.config.Workers
	if workers < 1 {
		workers = 1
	}
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for idx, source := range sources {
		idx, source := idx, source
		g.Go(func() error {
			outcomes[idx] = i.extractFile(ctx, source)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (i *Inspector) extractFile(ctx context.Context, source *repository.Source) *fileOutcome {
	if err := ctx.Err(); err != nil {
		return &fileOutcome{err: err}
	}
	src, err := i.fs.DownloadWithURL(ctx, source.Path)
	if err != nil {
		return &fileOutcome{err: fmt.Errorf("failed to read file %s: %w", source.RelPath, err)}
	}
	hash, err := model.HashHex(src)
	if err != nil {
		return &fileOutcome{err: fmt.Errorf("failed to hash %s: %w", source.RelPath, err)}
	}
	key := cacheKey(source.RelPath, hash)
	if cached, ok := i.cache.get(key); ok {
		return &fileOutcome{result: cached, cacheHit: true}
	}
	result, err := i.python.InspectSource(ctx, src, source.RelPath)
	if err != nil {
		return &fileOutcome{err: err}
	}
	i.cache.put(key, result)
	return &fileOutcome{result: result}
}

func (i *Inspector) newProject(root, rootPackage string) *model.Project {
	name := i.name
	projectType := repository.TypeUnknown
	origin := ""
	if repo, err := i.detector.DetectRepository(root); err == nil {
		projectType = repo.Info.Type
		origin = repo.Origin
		if name == "" && repo.Info.RootPath == root {
			name = repo.Info.Name
		}
	}
	if name == "" {
		name = rootPackage
	}
	project := model.NewProject(name)
	project.Packages = []*model.Package{}
	project.Metadata[MetaRoot] = root
	project.Metadata[MetaProjectType] = projectType
	project.Metadata[MetaGenerator] = Generator
	if origin != "" {
		project.Metadata[MetaOrigin] = origin
	}
	return project
}

// assemblePackages groups file results by directory, files are expected in relative path order
func assemblePackages(files []*info.FileResult, rootPackage string) []*model.Package {
	packages := []*model.Package{}
	byName := map[string]*model.Package{}
	counts := map[string]int{}
	for _, file := range files {
		name := packageName(file.Path, rootPackage)
		pkg, ok := byName[name]
		if !ok {
			pkg = model.NewPackage(name)
			pkg.Classes = []*model.Class{}
			pkg.Relationships = []*model.Relationship{}
			pkg.Imports = []*model.Import{}
			byName[name] = pkg
			packages = append(packages, pkg)
		}
		counts[name]++
		pkg.Classes = append(pkg.Classes, file.Classes...)
		for _, anImport := range file.Imports {
			pkg.AddImport(anImport)
		}
	}
	for _, pkg := range packages {
		pkg.Docstring = fmt.Sprintf("Package from %d Python file(s)", counts[pkg.Name])
	}
	sort.SliceStable(packages, func(i, j int) bool {
		return packages[i].Name < packages[j].Name
	})
	return packages
}

// packageName returns dotted directory path, files in the inspected root belong to the root package
func packageName(relPath, rootPackage string) string {
	dir := path.Dir(model.NormalizePath(relPath))
	if dir == "." || dir == "" {
		return rootPackage
	}
	return strings.ReplaceAll(dir, "/", ".")
}

func diagnosticKind(err error) info.DiagnosticKind {
	switch {
	case errors.Is(err, python.ErrSyntax):
		return info.KindSyntax
	case errors.Is(err, python.ErrEncoding):
		return info.KindEncoding
	default:
		return info.KindRead
	}
}
