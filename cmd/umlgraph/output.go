package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/viant/afs"
	"github.com/viant/umlgraph/model"
)

const outputMode = 0o644

// writeAtomically encodes project into a sibling temporary file and moves it over destination
func writeAtomically(ctx context.Context, destination string, project *model.Project, format model.Format) error {
	buffer := new(bytes.Buffer)
	if err := model.Encode(buffer, project, format); err != nil {
		return err
	}
	destination, err := filepath.Abs(destination)
	if err != nil {
		return err
	}
	fs := afs.New()
	temp := filepath.Join(filepath.Dir(destination), "."+filepath.Base(destination)+".tmp-"+strconv.FormatInt(time.Now().UnixNano(), 36))
	if err = fs.Upload(ctx, temp, outputMode, buffer); err != nil {
		_ = fs.Delete(ctx, temp)
		return fmt.Errorf("failed to write %s: %w", temp, err)
	}
	if err = fs.Move(ctx, temp, destination); err != nil {
		_ = fs.Delete(ctx, temp)
		return fmt.Errorf("failed to move %s to %s: %w", temp, destination, err)
	}
	return nil
}
