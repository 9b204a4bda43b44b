// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Project is a named, persisted combination of extraction arguments,
// replayable by name. Names are case-sensitive and unique within a registry.
type Project struct {
	// Name is the unique lookup key. Never empty.
	Name string `json:"name" yaml:"name"`

	// Source is the directory files are extracted from.
	Source string `json:"source" yaml:"source"`

	// Destination is the directory that receives copies.
	Destination string `json:"destination" yaml:"destination"`

	// Filter is an optional basename glob pattern.
	Filter string `json:"filter,omitempty" yaml:"filter,omitempty"`

	// Flatten discards the relative directory structure when true.
	Flatten bool `json:"flatten" yaml:"flatten"`
}

// Validate checks the fields a registry requires before persisting.
func (p Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("project name is empty: %w", ErrValidation)
	}
	if p.Source == "" {
		return fmt.Errorf("project %q has no source directory: %w", p.Name, ErrValidation)
	}
	return nil
}

// Request converts the stored record into an extraction request.
func (p Project) Request() ExtractionRequest {
	return ExtractionRequest{
		Source:      p.Source,
		Destination: p.Destination,
		Filter:      p.Filter,
		Flatten:     p.Flatten,
	}
}
