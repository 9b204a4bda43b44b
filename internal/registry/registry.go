// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry is the durable store of saved extraction projects, keyed
// by unique name. All records live in a single backing document that is read
// fully on first access and rewritten fully on every mutation, so the
// in-memory view and the stored file never diverge across a successful call.
//
// The backing file carries no lock: two processes mutating the registry at
// the same time may race, a known constraint of a single-user local tool.
package registry

import (
	"fmt"
	"sort"

	"github.com/pdiddy/filedump/pkg/types"
)

// Storage abstracts the durable backing of a Registry so tests can use an
// in-memory fake. Load returns the full record set; Store replaces it.
type Storage interface {
	Load() (map[string]types.Project, error)
	Store(projects map[string]types.Project) error
}

// Registry holds the full set of saved projects as a name-keyed mapping.
type Registry struct {
	storage  Storage
	projects map[string]types.Project
	loaded   bool
}

// New creates a Registry on top of the given storage backend. Records are
// loaded lazily on first access.
func New(storage Storage) *Registry {
	return &Registry{storage: storage}
}

// load fetches the record set from storage once per Registry lifetime.
func (r *Registry) load() error {
	if r.loaded {
		return nil
	}
	projects, err := r.storage.Load()
	if err != nil {
		return fmt.Errorf("loading registry: %w", err)
	}
	if projects == nil {
		projects = make(map[string]types.Project)
	}
	r.projects = projects
	r.loaded = true
	return nil
}

// flush writes the full record set back to storage.
func (r *Registry) flush() error {
	if err := r.storage.Store(r.projects); err != nil {
		return fmt.Errorf("storing registry: %w", err)
	}
	return nil
}

// List returns all saved project names, sorted lexically.
func (r *Registry) List() ([]string, error) {
	if err := r.load(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(r.projects))
	for name := range r.projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Get returns the project saved under name.
func (r *Registry) Get(name string) (types.Project, error) {
	if err := r.load(); err != nil {
		return types.Project{}, err
	}
	p, ok := r.projects[name]
	if !ok {
		return types.Project{}, fmt.Errorf("project %q: %w", name, types.ErrNotFound)
	}
	return p, nil
}

// Save inserts a new project or fully overwrites an existing one with the
// same name. The record is validated first and persisted before Save returns.
func (r *Registry) Save(p types.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := r.load(); err != nil {
		return err
	}
	r.projects[p.Name] = p
	return r.flush()
}

// Delete removes the project saved under name.
func (r *Registry) Delete(name string) error {
	if err := r.load(); err != nil {
		return err
	}
	if _, ok := r.projects[name]; !ok {
		return fmt.Errorf("project %q: %w", name, types.ErrNotFound)
	}
	delete(r.projects, name)
	return r.flush()
}

// Update holds partial field overrides for Edit. Nil fields keep the stored
// value.
type Update struct {
	Source      *string
	Destination *string
	Filter      *string
	Flatten     *bool
}

// Edit loads the project saved under name, applies the non-nil overrides,
// re-validates, persists, and returns the updated record.
func (r *Registry) Edit(name string, upd Update) (types.Project, error) {
	p, err := r.Get(name)
	if err != nil {
		return types.Project{}, err
	}

	if upd.Source != nil {
		p.Source = *upd.Source
	}
	if upd.Destination != nil {
		p.Destination = *upd.Destination
	}
	if upd.Filter != nil {
		p.Filter = *upd.Filter
	}
	if upd.Flatten != nil {
		p.Flatten = *upd.Flatten
	}

	if err := p.Validate(); err != nil {
		return types.Project{}, err
	}

	r.projects[name] = p
	if err := r.flush(); err != nil {
		return types.Project{}, err
	}
	return p, nil
}
