package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/viant/umlgraph/inspector"
	"github.com/viant/umlgraph/inspector/info"
	"github.com/viant/umlgraph/model"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	format        string
	output        string
	stats         bool
	name          string
	workers       int
	exclude       string
	includeBodies bool
	includeStubs  bool
	logLevel      string
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	flags := flag.NewFlagSet("umlgraph", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opts.format, "format", string(model.FormatJSON), "Output format: json or yaml")
	flags.StringVar(&opts.output, "o", "", "Output file (defaults to stdout)")
	flags.BoolVar(&opts.stats, "stats", false, "Print inspection statistics to stderr")
	flags.StringVar(&opts.name, "name", "", "Project name (defaults to detected project name)")
	flags.IntVar(&opts.workers, "workers", 0, "Number of parallel file workers (defaults to number of CPUs)")
	flags.StringVar(&opts.exclude, "exclude", "", "Comma separated directory names to skip in addition to defaults")
	flags.BoolVar(&opts.includeBodies, "include-bodies", false, "Keep method body source text")
	flags.BoolVar(&opts.includeStubs, "include-stubs", false, "Also inspect .pyi stub files")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: umlgraph [options] <path>\n\nExtracts a class diagram model from a Python file or source tree.\n\nOptions:\n")
		flags.PrintDefaults()
	}
	return flags
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &options{}
	flags := newFlagSet(opts, stderr)
	flagArgs, positional := reorderArgs(args)
	if err := flags.Parse(flagArgs); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}
	positional = append(positional, flags.Args()...)
	if len(positional) != 1 {
		flags.Usage()
		return 1
	}

	level, err := parseLogLevel(opts.logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid log level %q: %v\n", opts.logLevel, err)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	format, err := model.ParseFormat(opts.format)
	if err != nil {
		logger.Error("invalid format", "format", opts.format, "err", err)
		return 1
	}

	config := info.DefaultConfig()
	if err = config.FromEnv(); err != nil {
		logger.Error("invalid environment", "err", err)
		return 1
	}
	var setErr error
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			if opts.workers < 1 {
				setErr = fmt.Errorf("invalid workers: %d", opts.workers)
			}
			config.Workers = opts.workers
		case "exclude":
			config.ExcludeDirs = append(config.ExcludeDirs, info.SplitList(opts.exclude)...)
		case "include-bodies":
			config.IncludeBodies = opts.includeBodies
		case "include-stubs":
			config.IncludeStubs = opts.includeStubs
		}
	})
	if setErr != nil {
		logger.Error("invalid flag", "err", setErr)
		return 1
	}

	anInspector, err := inspector.New(config, inspector.WithLogger(logger), inspector.WithName(opts.name))
	if err != nil {
		logger.Error("failed to create inspector", "err", err)
		return 1
	}
	location := positional[0]
	result, err := anInspector.Inspect(ctx, location)
	if err != nil {
		logger.Error("inspection failed", "path", location, "err", err)
		return 1
	}
	if len(result.Diagnostics) > 0 {
		logger.Warn("some files were skipped", "count", len(result.Diagnostics), "paths", strings.Join(result.Diagnostics.Paths(), ","))
	}

	if opts.output == "" {
		var data []byte
		if data, err = model.Marshal(result.Project, format); err == nil {
			_, err = stdout.Write(data)
		}
	} else {
		err = writeAtomically(ctx, opts.output, result.Project, format)
	}
	if err != nil {
		logger.Error("failed to write output", "output", opts.output, "err", err)
		return 1
	}
	if opts.stats {
		fmt.Fprintln(stderr, result.Stats.String())
	}
	return 0
}

// reorderArgs separates flags and positional arguments so flags can follow the inspected path
func reorderArgs(args []string) (flags, positional []string) {
	valueFlagSet := map[string]bool{
		"-format": true, "-o": true, "-name": true,
		"-workers": true, "-exclude": true, "-log-level": true,
	}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			flags = append(flags, arg)
			if !strings.Contains(arg, "=") && valueFlagSet["-"+strings.TrimLeft(arg, "-")] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, arg)
		}
	}
	return flags, positional
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s (valid: debug, info, warn, error)", s)
	}
}
