// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package material

import "fmt"

// DefaultScheme is the scheme techniques belong to unless set otherwise.
const DefaultScheme = "Default"

// Manager registers materials by name and holds the active material
// scheme.
type Manager struct {
	materials    map[string]*Material
	schemes      map[string]int
	activeScheme string
}

// NewManager creates an empty manager with DefaultScheme active.
func NewManager() *Manager {
	return &Manager{
		materials:    make(map[string]*Material),
		schemes:      map[string]int{DefaultScheme: 0},
		activeScheme: DefaultScheme,
	}
}

// Create registers a new empty material.
func (mgr *Manager) Create(name string) (*Material, error) {
	if _, ok := mgr.materials[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrMaterialExists, name)
	}
	m := &Material{name: name, manager: mgr}
	mgr.materials[name] = m
	return m, nil
}

// Get returns the material registered under name, or nil.
func (mgr *Manager) Get(name string) *Material {
	return mgr.materials[name]
}

// Remove unregisters and unloads a material.
func (mgr *Manager) Remove(name string) {
	if m, ok := mgr.materials[name]; ok {
		m.Unload()
		delete(mgr.materials, name)
	}
}

// Len returns the number of registered materials.
func (mgr *Manager) Len() int { return len(mgr.materials) }

// ActiveScheme returns the scheme used to pick techniques.
func (mgr *Manager) ActiveScheme() string { return mgr.activeScheme }

// SetActiveScheme changes the scheme used to pick techniques.
func (mgr *Manager) SetActiveScheme(scheme string) {
	mgr.SchemeIndex(scheme)
	mgr.activeScheme = scheme
}

// SchemeIndex returns the index of scheme, registering it if needed. The
// empty scheme maps to the default scheme.
func (mgr *Manager) SchemeIndex(scheme string) int {
	if scheme == "" {
		scheme = DefaultScheme
	}
	if idx, ok := mgr.schemes[scheme]; ok {
		return idx
	}
	idx := len(mgr.schemes)
	mgr.schemes[scheme] = idx
	return idx
}
