package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/umlgraph/model"
)

const sampleSource = "from typing import Optional\n\n\nclass Base:\n    pass\n\n\nclass Child(Base):\n    item: Optional[Base]\n\n    def run(self) -> None:\n        print('run')\n"

func writeSample(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if !assert.NoError(t, os.WriteFile(filepath.Join(root, "sample.py"), []byte(sampleSource), 0o644)) {
		t.FailNow()
	}
	if !assert.NoError(t, os.WriteFile(filepath.Join(root, "broken.py"), []byte("def broken(:\n"), 0o644)) {
		t.FailNow()
	}
	return root
}

func TestRun(t *testing.T) {
	root := writeSample(t)
	tests := []struct {
		name     string
		args     []string
		format   model.Format
		wantCode int
		bodies   bool
	}{
		{name: "json", args: []string{root}, format: model.FormatJSON},
		{name: "yaml", args: []string{"-format", "yaml", "-workers", "2", root}, format: model.FormatYAML},
		{name: "flags after path", args: []string{root, "-format=yaml", "-log-level", "debug"}, format: model.FormatYAML},
		{name: "bodies", args: []string{"-include-bodies", "-name", "sample", root}, format: model.FormatJSON, bodies: true},
		{name: "bad format", args: []string{"-format", "xml", root}, wantCode: 1},
		{name: "bad workers", args: []string{"-workers", "0", root}, wantCode: 1},
		{name: "bad log level", args: []string{"-log-level", "loud", root}, wantCode: 1},
		{name: "missing path", args: []string{}, wantCode: 1},
		{name: "missing root", args: []string{filepath.Join(root, "absent")}, wantCode: 1},
		{name: "help", args: []string{"-h"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
			code := run(context.Background(), tc.args, stdout, stderr)
			if !assert.Equal(t, tc.wantCode, code, stderr.String()) {
				return
			}
			if tc.format == "" {
				return
			}
			project, err := model.Decode(stdout, tc.format)
			if !assert.NoError(t, err) {
				return
			}
			child := project.LookupPackage(filepath.Base(root)).LookupClass("Child")
			if !assert.NotNil(t, child) {
				return
			}
			assert.Equal(t, tc.bodies, child.LookupMethod("run").Body != "")
			assert.Len(t, project.Relationships(), 2)
			assert.Contains(t, stderr.String(), "broken.py")
		})
	}
}

func TestRun_Output(t *testing.T) {
	root := writeSample(t)
	outDir := t.TempDir()
	destination := filepath.Join(outDir, "model.yaml")
	stderr := new(bytes.Buffer)

	code := run(context.Background(), []string{"-format", "yaml", "-o", destination, "-stats", root}, new(bytes.Buffer), stderr)
	if !assert.Equal(t, 0, code, stderr.String()) {
		return
	}
	assert.Contains(t, stderr.String(), "files: 2, inspected: 1, skipped: 1")

	data, err := os.ReadFile(destination)
	if !assert.NoError(t, err) {
		return
	}
	project, err := model.Unmarshal(data, model.FormatYAML)
	if !assert.NoError(t, err) {
		return
	}
	assert.Len(t, project.Classes(), 2)

	entries, err := os.ReadDir(outDir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRun_OutputFailure(t *testing.T) {
	root := writeSample(t)
	outDir := t.TempDir()
	blocker := filepath.Join(outDir, "blocker")
	if !assert.NoError(t, os.WriteFile(blocker, []byte("keep"), 0o644)) {
		return
	}

	code := run(context.Background(), []string{"-o", filepath.Join(blocker, "model.json"), root}, new(bytes.Buffer), new(bytes.Buffer))
	assert.Equal(t, 1, code)

	data, err := os.ReadFile(blocker)
	assert.NoError(t, err)
	assert.Equal(t, "keep", string(data))
	entries, err := os.ReadDir(outDir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}

type recordingWriter struct {
	writes int
	data   bytes.Buffer
	err    error
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.err != nil {
		return 0, w.err
	}
	return w.data.Write(p)
}

func TestRun_Stdout(t *testing.T) {
	root := writeSample(t)
	tests := []struct {
		name     string
		format   model.Format
		err      error
		wantCode int
	}{
		{name: "json", format: model.FormatJSON},
		{name: "yaml", format: model.FormatYAML},
		{name: "closed pipe", format: model.FormatYAML, err: errors.New("broken pipe"), wantCode: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stdout, stderr := &recordingWriter{err: tc.err}, new(bytes.Buffer)
			code := run(context.Background(), []string{"-format", string(tc.format), root}, stdout, stderr)
			assert.Equal(t, tc.wantCode, code, stderr.String())
			assert.Equal(t, 1, stdout.writes)
			if tc.err != nil {
				assert.Contains(t, stderr.String(), "broken pipe")
				assert.Zero(t, stdout.data.Len())
				return
			}
			project, err := model.Unmarshal(stdout.data.Bytes(), tc.format)
			if assert.NoError(t, err) {
				assert.Len(t, project.Classes(), 2)
			}
		})
	}
}

func TestReorderArgs(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantFlags      []string
		wantPositional []string
	}{
		{name: "empty"},
		{name: "flags first", args: []string{"-format", "yaml", "src"}, wantFlags: []string{"-format", "yaml"}, wantPositional: []string{"src"}},
		{name: "flags last", args: []string{"src", "-o", "out.json", "-stats"}, wantFlags: []string{"-o", "out.json", "-stats"}, wantPositional: []string{"src"}},
		{name: "equals syntax", args: []string{"--workers=2", "src"}, wantFlags: []string{"--workers=2"}, wantPositional: []string{"src"}},
		{name: "boolean does not consume", args: []string{"-include-bodies", "src"}, wantFlags: []string{"-include-bodies"}, wantPositional: []string{"src"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			flags, positional := reorderArgs(tc.args)
			assert.Equal(t, tc.wantFlags, flags)
			assert.Equal(t, tc.wantPositional, positional)
		})
	}
}
