// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RegistryConfig holds settings for the project registry.
type RegistryConfig struct {
	// Path is the registry file location (e.g.
	// "~/.config/filedump/projects.yaml"). The file is a single YAML
	// document holding all saved projects.
	Path string `json:"path" yaml:"path"`
}

// HistoryConfig holds settings for the run-history journal.
type HistoryConfig struct {
	// Dir is the directory holding the history database (history.db).
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of listed runs (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
