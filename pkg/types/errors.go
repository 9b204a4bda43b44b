// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// Sentinel errors shared by the extraction engine and the project registry.
// Callers classify failures with errors.Is.
var (
	// ErrNotFound indicates a missing source directory or project name.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a malformed request: empty project name,
	// missing source, or a bad filter pattern.
	ErrValidation = errors.New("validation failed")
)
