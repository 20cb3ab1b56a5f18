// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"sort"
	"sync"
)

// Default memory limits.
const (
	// DefaultMaxMemoryMB is the default texture memory budget (256 MB).
	DefaultMaxMemoryMB = 256

	// MinMemoryMB is the minimum allowed memory budget (16 MB).
	MinMemoryMB = 16
)

// MemoryStats contains texture memory usage statistics.
type MemoryStats struct {
	// TotalBytes is the total memory budget in bytes.
	TotalBytes uint64

	// UsedBytes is the currently allocated memory in bytes.
	UsedBytes uint64

	// AvailableBytes is the remaining memory budget.
	AvailableBytes uint64

	// PeakBytes is the highest UsedBytes observed.
	PeakBytes uint64

	// TextureCount is the number of live textures.
	TextureCount int

	// Utilization is the fraction of budget used (0.0 to 1.0).
	Utilization float64
}

// String returns a human-readable string of memory stats.
func (s MemoryStats) String() string {
	return fmt.Sprintf("Memory[%.1f%% used, %d/%d MB, peak %d MB, %d textures]",
		s.Utilization*100,
		s.UsedBytes/(1024*1024),
		s.TotalBytes/(1024*1024),
		s.PeakBytes/(1024*1024),
		s.TextureCount)
}

// TextureManagerOption configures a TextureManager.
type TextureManagerOption func(*textureManagerOptions)

type textureManagerOptions struct {
	maxMemoryMB int
}

// WithMaxMemoryMB sets the texture memory budget in megabytes.
// Values below MinMemoryMB are raised to MinMemoryMB.
func WithMaxMemoryMB(mb int) TextureManagerOption {
	return func(o *textureManagerOptions) {
		o.maxMemoryMB = mb
	}
}

// TextureManager owns textures and multi render targets by name and tracks
// their memory against a budget.
//
// Registration methods are not safe for concurrent use; Stats is.
type TextureManager struct {
	allocator Allocator

	textures map[string]*Texture
	targets  map[string]*RenderTarget

	mu          sync.RWMutex
	budgetBytes uint64
	usedBytes   uint64
	peakBytes   uint64
	count       int
}

// NewTextureManager creates a manager allocating storage with alloc.
func NewTextureManager(alloc Allocator, opts ...TextureManagerOption) *TextureManager {
	o := textureManagerOptions{maxMemoryMB: DefaultMaxMemoryMB}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxMemoryMB < MinMemoryMB {
		o.maxMemoryMB = MinMemoryMB
	}
	//nolint:gosec // G115: bounded below by MinMemoryMB
	return &TextureManager{
		allocator:   alloc,
		textures:    make(map[string]*Texture),
		targets:     make(map[string]*RenderTarget),
		budgetBytes: uint64(o.maxMemoryMB) * 1024 * 1024,
	}
}

// CreateManual creates a render texture and its render target.
func (m *TextureManager) CreateManual(desc TextureDescriptor) (*Texture, error) {
	if _, ok := m.textures[desc.Name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrTextureExists, desc.Name)
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("%w: %q is %dx%d", ErrInvalidSize, desc.Name, desc.Width, desc.Height)
	}
	//nolint:gosec // G115: dimensions checked positive above
	size := uint64(desc.Width) * uint64(desc.Height) * uint64(BytesPerPixel(desc.Format))
	samples := uint64(1)
	if desc.FSAA > 1 {
		samples += uint64(desc.FSAA)
	}
	size *= samples

	m.mu.Lock()
	if m.usedBytes+size > m.budgetBytes {
		used := m.usedBytes
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %q needs %d bytes, %d of %d in use",
			ErrBudgetExceeded, desc.Name, size, used, m.budgetBytes)
	}
	m.mu.Unlock()

	surface, err := m.allocator.Allocate(&desc)
	if err != nil {
		return nil, err
	}

	tex := &Texture{
		name:     desc.Name,
		width:    desc.Width,
		height:   desc.Height,
		format:   desc.Format,
		fsaa:     desc.FSAA,
		fsaaHint: desc.FSAAHint,
		hwGamma:  desc.HWGamma,
		usage:    desc.usage(),
		size:     size,
		surface:  surface,
	}
	tex.target = &RenderTarget{
		name:        desc.Name,
		kind:        TargetTexture,
		width:       desc.Width,
		height:      desc.Height,
		FSAA:        desc.FSAA,
		FSAAHint:    desc.FSAAHint,
		HWGamma:     desc.HWGamma,
		AutoUpdated: true,
		texture:     tex,
		format:      desc.Format,
	}
	m.textures[desc.Name] = tex

	m.mu.Lock()
	m.usedBytes += size
	m.count++
	if m.usedBytes > m.peakBytes {
		m.peakBytes = m.usedBytes
	}
	m.mu.Unlock()

	Logger().Debug("texture created",
		"name", desc.Name, "width", desc.Width, "height", desc.Height,
		"format", desc.Format.String(), "fsaa", desc.FSAA)
	return tex, nil
}

// Get returns the texture registered under name, or nil.
func (m *TextureManager) Get(name string) *Texture {
	return m.textures[name]
}

// Remove destroys the texture registered under name.
func (m *TextureManager) Remove(name string) error {
	tex, ok := m.textures[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTextureNotFound, name)
	}
	delete(m.textures, name)
	if tex.surface != nil {
		tex.surface.Release()
	}
	tex.target.RemoveAllViewports()

	m.mu.Lock()
	m.usedBytes -= tex.size
	m.count--
	m.mu.Unlock()

	Logger().Debug("texture removed", "name", name)
	return nil
}

// Names returns the registered texture names in sorted order.
func (m *TextureManager) Names() []string {
	names := make([]string, 0, len(m.textures))
	for name := range m.textures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered textures.
func (m *TextureManager) Len() int { return len(m.textures) }

// CreateMultiRenderTarget creates an empty multi render target. Surfaces
// are attached with RenderTarget.BindSurface.
func (m *TextureManager) CreateMultiRenderTarget(name string) (*RenderTarget, error) {
	if _, ok := m.targets[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrRenderTargetExists, name)
	}
	rt := &RenderTarget{name: name, kind: TargetMulti, AutoUpdated: true}
	m.targets[name] = rt
	return rt, nil
}

// RenderTarget returns the multi render target registered under name, or nil.
func (m *TextureManager) RenderTarget(name string) *RenderTarget {
	return m.targets[name]
}

// DestroyRenderTarget unregisters a multi render target. Bound surfaces
// are detached but not destroyed.
func (m *TextureManager) DestroyRenderTarget(name string) {
	rt, ok := m.targets[name]
	if !ok {
		return
	}
	delete(m.targets, name)
	rt.surfaces = nil
	rt.RemoveAllViewports()
}

// Stats returns current memory usage statistics.
func (m *TextureManager) Stats() MemoryStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var utilization float64
	if m.budgetBytes > 0 {
		utilization = float64(m.usedBytes) / float64(m.budgetBytes)
	}
	return MemoryStats{
		TotalBytes:     m.budgetBytes,
		UsedBytes:      m.usedBytes,
		AvailableBytes: m.budgetBytes - m.usedBytes,
		PeakBytes:      m.peakBytes,
		TextureCount:   m.count,
		Utilization:    utilization,
	}
}
