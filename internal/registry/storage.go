// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/filedump/pkg/types"
)

// registryFile is the on-disk shape of the registry: one YAML document with
// a name-keyed mapping of projects, editable by hand.
type registryFile struct {
	Projects map[string]types.Project `yaml:"projects"`
}

// FileStorage persists the registry as a single YAML file. Writes go to a
// temporary file in the same directory and are renamed into place, so a
// crashed write never leaves the registry truncated.
type FileStorage struct {
	path string
}

// NewFileStorage creates a FileStorage backed by the file at cfg.Path. The
// file need not exist yet.
func NewFileStorage(cfg types.RegistryConfig) *FileStorage {
	return &FileStorage{path: cfg.Path}
}

// Load reads the full record set. A missing file is an empty registry, not
// an error.
func (s *FileStorage) Load() (map[string]types.Project, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]types.Project{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	if file.Projects == nil {
		file.Projects = map[string]types.Project{}
	}

	// A hand-edited file may omit the redundant name field; the map key is
	// authoritative.
	for name, p := range file.Projects {
		if p.Name == "" {
			p.Name = name
			file.Projects[name] = p
		}
	}

	return file.Projects, nil
}

// Store atomically replaces the registry file with the given record set.
func (s *FileStorage) Store(projects map[string]types.Project) error {
	data, err := yaml.Marshal(registryFile{Projects: projects})
	if err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".projects-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp registry file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing temp registry file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp registry file: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("setting registry file mode: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}

	return nil
}

// MemStorage is an in-memory Storage for tests.
type MemStorage struct {
	projects map[string]types.Project
}

// NewMemStorage creates an empty in-memory storage.
func NewMemStorage() *MemStorage {
	return &MemStorage{projects: map[string]types.Project{}}
}

// Load returns a copy of the held record set.
func (s *MemStorage) Load() (map[string]types.Project, error) {
	out := make(map[string]types.Project, len(s.projects))
	for k, v := range s.projects {
		out[k] = v
	}
	return out, nil
}

// Store replaces the held record set with a copy of projects.
func (s *MemStorage) Store(projects map[string]types.Project) error {
	out := make(map[string]types.Project, len(projects))
	for k, v := range projects {
		out[k] = v
	}
	s.projects = out
	return nil
}
