// Package export writes pipeline artifacts to the local filesystem.
//
// The [Exporter] saves Markdown documents and prettified JSON under a
// controlled directory layout (exports/markdown and exports/json by
// default). It is a downstream consumer of pipeline artifacts only: the
// orchestrator never calls it, the CLI wires it in after a successful run.
//
// Writes are atomic (temp file plus rename) so a crash mid-export never
// leaves a truncated artifact behind.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for export argument validation.
var (
	// ErrMissingFilename indicates an empty filename argument.
	ErrMissingFilename = errors.New("filename is required")

	// ErrMissingContent indicates an absent content or data argument.
	ErrMissingContent = errors.New("content is required")

	// ErrBadExtension indicates the filename extension does not match the
	// export format.
	ErrBadExtension = errors.New("unexpected filename extension")
)

// Result reports a completed export.
type Result struct {
	// Status is "success" for completed writes.
	Status string `json:"status"`

	// Path is the full path of the written file.
	Path string `json:"path"`

	// BytesWritten is the number of bytes written.
	BytesWritten int `json:"bytes_written"`
}

// Exporter saves artifacts under a base directory.
//
// Create with [NewExporter]. Markdown lands in <base>/markdown, JSON in
// <base>/json; directories are created on first use.
type Exporter struct {
	baseDir string
}

// DefaultBaseDir is the export root used when none is configured.
const DefaultBaseDir = "exports"

// NewExporter creates an [Exporter] rooted at baseDir. An empty baseDir
// uses [DefaultBaseDir].
func NewExporter(baseDir string) *Exporter {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	return &Exporter{baseDir: baseDir}
}

// SaveMarkdown writes Markdown content to <base>/markdown/<filename>.
//
// The filename must be non-empty and end in ".md". Returns the write
// [Result] or a validation/IO error.
func (e *Exporter) SaveMarkdown(filename, content string) (*Result, error) {
	if filename == "" {
		return nil, ErrMissingFilename
	}
	if !strings.HasSuffix(filename, ".md") {
		return nil, fmt.Errorf("%q must end with .md: %w", filename, ErrBadExtension)
	}

	return e.write(filepath.Join(e.baseDir, "markdown"), filename, []byte(content))
}

// SaveJSON writes data as prettified JSON to <base>/json/<filename>.
//
// The filename must be non-empty and end in ".json"; data must be non-nil.
// Returns the write [Result] or a validation/IO error.
func (e *Exporter) SaveJSON(filename string, data any) (*Result, error) {
	if filename == "" {
		return nil, ErrMissingFilename
	}
	if !strings.HasSuffix(filename, ".json") {
		return nil, fmt.Errorf("%q must end with .json: %w", filename, ErrBadExtension)
	}
	if data == nil {
		return nil, ErrMissingContent
	}

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export data: %w", err)
	}

	return e.write(filepath.Join(e.baseDir, "json"), filename, encoded)
}

// write creates the target directory and writes the file atomically.
func (e *Exporter) write(dir, filename string, data []byte) (*Result, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	fullPath := filepath.Join(dir, filename)
	tmpPath := fullPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to write export: %w", err)
	}

	return &Result{
		Status:       "success",
		Path:         fullPath,
		BytesWritten: len(data),
	}, nil
}
