// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ExtractionRequest describes one extraction run: which directory to read,
// where copies go, and how they are placed.
type ExtractionRequest struct {
	// Source is the directory files are extracted from. Must exist.
	Source string `json:"source" yaml:"source"`

	// Destination is the directory that receives copies. Created on demand,
	// including intermediate segments.
	Destination string `json:"destination" yaml:"destination"`

	// Filter is an optional glob pattern matched case-insensitively against
	// file basenames (e.g. "*.java"). Empty means match everything.
	Filter string `json:"filter,omitempty" yaml:"filter,omitempty"`

	// Flatten places every matched file directly under Destination instead
	// of reproducing its source-relative path.
	Flatten bool `json:"flatten" yaml:"flatten"`
}

// FileFailure records a single file that could not be copied.
type FileFailure struct {
	// Path is the source path of the file that failed.
	Path string `json:"path" yaml:"path"`

	// Reason is the error text for the failure.
	Reason string `json:"reason" yaml:"reason"`
}

// Collision records a basename clash resolved during a flatten run.
type Collision struct {
	// Source is the path of the later file whose basename clashed.
	Source string `json:"source" yaml:"source"`

	// Original is the basename both files wanted.
	Original string `json:"original" yaml:"original"`

	// Renamed is the disambiguated name the later file received.
	Renamed string `json:"renamed" yaml:"renamed"`
}

// ExtractionResult summarizes one extraction run.
type ExtractionResult struct {
	// Copied is the number of files copied successfully.
	Copied int `json:"copied" yaml:"copied"`

	// Filtered is the number of files skipped by the filter pattern.
	Filtered int `json:"filtered" yaml:"filtered"`

	// TotalBytes is the byte count of all copied files.
	TotalBytes int64 `json:"total_bytes" yaml:"total_bytes"`

	// Failures lists files that could not be copied.
	Failures []FileFailure `json:"failures,omitempty" yaml:"failures,omitempty"`

	// Collisions lists basename clashes resolved in flatten mode.
	Collisions []Collision `json:"collisions,omitempty" yaml:"collisions,omitempty"`
}

// Attempted returns the number of files the run tried to copy.
func (r ExtractionResult) Attempted() int {
	return r.Copied + len(r.Failures)
}

// HasFailures reports whether any individual file failed to copy.
func (r ExtractionResult) HasFailures() bool {
	return len(r.Failures) > 0
}

// PartialCopyError aggregates per-file copy failures. It is returned only
// when a run attempted at least one file and none succeeded; otherwise the
// run reports success with a non-empty failure list.
type PartialCopyError struct {
	Failures []FileFailure
}

// Error implements the error interface.
func (e *PartialCopyError) Error() string {
	if len(e.Failures) == 1 {
		return fmt.Sprintf("copy failed for %s: %s", e.Failures[0].Path, e.Failures[0].Reason)
	}
	return fmt.Sprintf("copy failed for all %d files (first: %s: %s)",
		len(e.Failures), e.Failures[0].Path, e.Failures[0].Reason)
}
