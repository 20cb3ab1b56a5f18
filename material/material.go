// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package material

import (
	"fmt"
	"sort"
)

// Material is a named set of techniques.
type Material struct {
	name    string
	manager *Manager

	techniques []*Technique
	supported  []*Technique

	// best maps scheme index -> lod index -> technique.
	best   map[int]map[int]*Technique
	loaded bool
}

// New creates a material that is not registered with any Manager.
func New(name string) *Material {
	return &Material{name: name}
}

// Name returns the material name.
func (m *Material) Name() string { return m.name }

// Manager returns the owning manager, or nil for detached materials.
func (m *Material) Manager() *Manager { return m.manager }

// CreateTechnique appends a technique for the default scheme.
func (m *Material) CreateTechnique() *Technique {
	t := &Technique{parent: m, SchemeName: DefaultScheme}
	m.techniques = append(m.techniques, t)
	m.loaded = false
	return t
}

// Technique returns the i-th technique, or nil if out of range.
func (m *Material) Technique(i int) *Technique {
	if i < 0 || i >= len(m.techniques) {
		return nil
	}
	return m.techniques[i]
}

// NumTechniques returns the number of techniques.
func (m *Material) NumTechniques() int { return len(m.techniques) }

// RemoveAllTechniques empties the material and unloads it.
func (m *Material) RemoveAllTechniques() {
	m.techniques = nil
	m.Unload()
}

// IsLoaded reports whether Load has run since the last change.
func (m *Material) IsLoaded() bool { return m.loaded }

// Load compiles technique programs and determines supported techniques.
// A technique whose program fails to compile is unsupported; Load only
// fails for a material with no techniques.
func (m *Material) Load() error {
	if m.loaded {
		return nil
	}
	if len(m.techniques) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyMaterial, m.name)
	}
	m.supported = m.supported[:0]
	m.best = make(map[int]map[int]*Technique)
	for _, t := range m.techniques {
		if err := t.compile(); err != nil {
			t.supported = false
			Logger().Debug("technique unsupported", "material", m.name, "error", err)
			continue
		}
		t.supported = true
		m.supported = append(m.supported, t)

		idx := m.schemeIndex(t.SchemeName)
		lods := m.best[idx]
		if lods == nil {
			lods = make(map[int]*Technique)
			m.best[idx] = lods
		}
		if _, ok := lods[t.LodIndex]; !ok {
			lods[t.LodIndex] = t
		}
	}
	m.loaded = true
	return nil
}

// Unload drops supported technique state. Compiled programs are kept.
func (m *Material) Unload() {
	m.supported = nil
	m.best = nil
	m.loaded = false
}

// SupportedTechniques returns the techniques usable after Load.
func (m *Material) SupportedTechniques() []*Technique { return m.supported }

// BestTechnique returns the supported technique for the active scheme and
// the given level of detail, or nil if nothing is supported.
//
// When the active scheme has no technique, the scheme with the lowest index
// that has one is used. Within a scheme the exact lod is preferred, then
// the closest lower lod, then the lowest lod.
func (m *Material) BestTechnique(lod int) *Technique {
	if !m.loaded || len(m.supported) == 0 {
		return nil
	}
	lods, ok := m.best[m.schemeIndex(m.activeScheme())]
	if !ok {
		schemes := make([]int, 0, len(m.best))
		for idx := range m.best {
			schemes = append(schemes, idx)
		}
		sort.Ints(schemes)
		lods = m.best[schemes[0]]
	}
	if t, ok := lods[lod]; ok {
		return t
	}
	indexes := make([]int, 0, len(lods))
	for idx := range lods {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	best := indexes[0]
	for _, idx := range indexes {
		if idx <= lod {
			best = idx
		}
	}
	return lods[best]
}

// Clone returns a detached deep copy named name.
func (m *Material) Clone(name string) *Material {
	c := New(name)
	for _, t := range m.techniques {
		ct := c.CreateTechnique()
		ct.SchemeName = t.SchemeName
		ct.LodIndex = t.LodIndex
		for _, p := range t.passes {
			p.CopyTo(ct.CreatePass())
		}
	}
	return c
}

func (m *Material) activeScheme() string {
	if m.manager == nil {
		return DefaultScheme
	}
	return m.manager.ActiveScheme()
}

// schemeIndex returns the manager's index for scheme. Detached materials
// number schemes by first appearance, with the default scheme first.
func (m *Material) schemeIndex(scheme string) int {
	if m.manager != nil {
		return m.manager.SchemeIndex(scheme)
	}
	if scheme == DefaultScheme || scheme == "" {
		return 0
	}
	seen := map[string]bool{DefaultScheme: true}
	idx := 0
	for _, t := range m.techniques {
		if seen[t.SchemeName] {
			continue
		}
		seen[t.SchemeName] = true
		idx++
		if t.SchemeName == scheme {
			return idx
		}
	}
	return idx + 1
}
