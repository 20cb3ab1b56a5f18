// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/gputypes"
)

// Texture is a named 2D texture usable as a render target and a sampler
// source.
type Texture struct {
	name     string
	width    int
	height   int
	format   gputypes.TextureFormat
	fsaa     uint32
	fsaaHint string
	hwGamma  bool
	usage    gputypes.TextureUsage
	size     uint64

	surface Surface
	target  *RenderTarget
	refs    int
}

// Name returns the unique texture name.
func (t *Texture) Name() string { return t.name }

// Width returns the width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the height in pixels.
func (t *Texture) Height() int { return t.height }

// Format returns the declared pixel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// FSAA returns the multisample count.
func (t *Texture) FSAA() uint32 { return t.fsaa }

// FSAAHint returns the multisampling hint.
func (t *Texture) FSAAHint() string { return t.fsaaHint }

// HWGamma reports whether writes are gamma corrected.
func (t *Texture) HWGamma() bool { return t.hwGamma }

// Usage returns the usage flags the texture was allocated with.
func (t *Texture) Usage() gputypes.TextureUsage { return t.usage }

// SizeBytes returns the estimated storage size.
func (t *Texture) SizeBytes() uint64 { return t.size }

// Surface returns the allocator-specific storage.
func (t *Texture) Surface() Surface { return t.surface }

// RenderTarget returns the render target writing into the texture.
func (t *Texture) RenderTarget() *RenderTarget { return t.target }

// Image returns the CPU pixels, or nil when the storage is GPU-only.
func (t *Texture) Image() *image.RGBA {
	if s, ok := t.surface.(*ImageSurface); ok {
		return s.RGBA
	}
	return nil
}

// Acquire records a user of the texture.
func (t *Texture) Acquire() { t.refs++ }

// Release drops a user recorded by Acquire and returns the remaining count.
func (t *Texture) Release() int {
	if t.refs > 0 {
		t.refs--
	}
	return t.refs
}

// RefCount returns the number of users recorded by Acquire.
func (t *Texture) RefCount() int { return t.refs }
