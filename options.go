// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"github.com/gogpu/compositor/material"
	"github.com/gogpu/compositor/render"
	"github.com/gogpu/gputypes"
)

// Option configures a Manager during creation.
//
// Example:
//
//	// CPU textures with a 64 MB budget
//	mgr := compositor.NewManager(compositor.WithMemoryBudget(64))
//
//	// GPU textures on a host-provided device
//	textures := render.NewTextureManager(render.NewHALAllocator(device))
//	mgr := compositor.NewManager(compositor.WithTextureManager(textures))
type Option func(*options)

// options holds optional configuration for Manager creation.
type options struct {
	textures  *render.TextureManager
	materials *material.Manager
	caps      Capabilities
	budgetMB  int
	sceneName string
}

// defaultOptions returns the default manager options.
func defaultOptions() options {
	return options{
		caps:      DefaultCapabilities(),
		budgetMB:  render.DefaultMaxMemoryMB,
		sceneName: SceneCompositorName,
	}
}

// WithTextureManager sets the texture manager compositor textures are
// created in. By default a CPU-backed manager is created.
func WithTextureManager(tm *render.TextureManager) Option {
	return func(o *options) {
		o.textures = tm
	}
}

// WithMaterialManager sets the material manager quad pass materials are
// looked up in. By default an empty manager is created.
func WithMaterialManager(mm *material.Manager) Option {
	return func(o *options) {
		o.materials = mm
	}
}

// WithCapabilities sets the render system capabilities used to select
// supported techniques.
func WithCapabilities(c Capabilities) Option {
	return func(o *options) {
		o.caps = c
	}
}

// WithMemoryBudget sets the budget of the default texture manager in
// megabytes. It has no effect together with WithTextureManager.
func WithMemoryBudget(mb int) Option {
	return func(o *options) {
		o.budgetMB = mb
	}
}

// WithSceneCompositorName renames the built-in compositor that renders the
// original scene at the start of every chain.
func WithSceneCompositorName(name string) Option {
	return func(o *options) {
		o.sceneName = name
	}
}

// Capabilities describes what the render system can render to.
type Capabilities struct {
	// MaxMultiRenderTargets is the maximum number of MRT attachments.
	MaxMultiRenderTargets int

	// Formats lists the renderable formats. Nil means every uncompressed
	// format is renderable.
	Formats []gputypes.TextureFormat
}

// DefaultCapabilities returns capabilities with 8 MRT attachments and
// every uncompressed format.
func DefaultCapabilities() Capabilities {
	return Capabilities{MaxMultiRenderTargets: 8}
}

func (c Capabilities) supportsFormat(f gputypes.TextureFormat, allowDegradation bool) bool {
	if f == gputypes.TextureFormatUndefined || render.IsCompressedFormat(f) {
		return false
	}
	if c.Formats == nil {
		return true
	}
	for _, sf := range c.Formats {
		if sf == f {
			return true
		}
	}
	if !allowDegradation {
		return false
	}
	// An equivalent format stores the same texel size with the same kind of
	// channels.
	for _, sf := range c.Formats {
		if render.BytesPerPixel(sf) == render.BytesPerPixel(f) &&
			sf.IsDepthStencil() == f.IsDepthStencil() &&
			render.IsFloatFormat(sf) == render.IsFloatFormat(f) {
			return true
		}
	}
	return false
}
