// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/gputypes"
)

// TargetKind distinguishes how a RenderTarget stores its pixels.
type TargetKind uint8

const (
	// TargetWindow is a primary output owning its own CPU image.
	TargetWindow TargetKind = iota

	// TargetTexture renders into a single Texture.
	TargetTexture

	// TargetMulti renders into several bound surface textures at once.
	TargetMulti
)

// String returns the kind name.
func (k TargetKind) String() string {
	switch k {
	case TargetWindow:
		return "Window"
	case TargetTexture:
		return "Texture"
	case TargetMulti:
		return "Multi"
	default:
		return "Unknown"
	}
}

// RenderTarget is a destination for rendering with one or more viewports.
//
// Texture targets are created by TextureManager.CreateManual, multi render
// targets by TextureManager.CreateMultiRenderTarget, and window targets by
// NewWindowTarget.
type RenderTarget struct {
	name   string
	kind   TargetKind
	width  int
	height int

	// FSAA is the multisample count (0 or 1 means none).
	FSAA uint32

	// FSAAHint is a back-end specific multisampling hint.
	FSAAHint string

	// HWGamma reports whether writes are gamma corrected in hardware.
	HWGamma bool

	// DepthBufferPool selects the shared depth buffer pool (0 = no depth).
	DepthBufferPool uint16

	// AutoUpdated targets are rendered by the application loop. Compositor
	// owned targets are not; their chain renders them explicitly.
	AutoUpdated bool

	viewports []*Viewport
	texture   *Texture
	surfaces  []*Texture
	image     *image.RGBA
	format    gputypes.TextureFormat
}

// NewWindowTarget creates a primary output target backed by a CPU image.
func NewWindowTarget(name string, width, height int) *RenderTarget {
	return &RenderTarget{
		name:        name,
		kind:        TargetWindow,
		width:       width,
		height:      height,
		AutoUpdated: true,
		image:       image.NewRGBA(image.Rect(0, 0, width, height)),
		format:      gputypes.TextureFormatRGBA8Unorm,
	}
}

// Name returns the target name.
func (t *RenderTarget) Name() string { return t.name }

// Kind returns the storage kind.
func (t *RenderTarget) Kind() TargetKind { return t.kind }

// Width returns the width in pixels.
func (t *RenderTarget) Width() int { return t.width }

// Height returns the height in pixels.
func (t *RenderTarget) Height() int { return t.height }

// Format returns the pixel format of the first color surface.
func (t *RenderTarget) Format() gputypes.TextureFormat {
	if t.kind == TargetMulti && len(t.surfaces) > 0 && t.surfaces[0] != nil {
		return t.surfaces[0].Format()
	}
	return t.format
}

// Resize changes the size of a window target, discarding its contents.
// Texture backed targets are resized by recreating the texture.
func (t *RenderTarget) Resize(width, height int) {
	if t.kind != TargetWindow {
		return
	}
	t.width, t.height = width, height
	t.image = image.NewRGBA(image.Rect(0, 0, width, height))
}

// AddViewport adds a full-size viewport rendered from cam on top of any
// existing viewports.
func (t *RenderTarget) AddViewport(cam *Camera) *Viewport {
	vp := newViewport(t, cam, len(t.viewports))
	t.viewports = append(t.viewports, vp)
	return vp
}

// NumViewports returns the number of viewports.
func (t *RenderTarget) NumViewports() int { return len(t.viewports) }

// Viewport returns the i-th viewport, or nil if out of range.
func (t *RenderTarget) Viewport(i int) *Viewport {
	if i < 0 || i >= len(t.viewports) {
		return nil
	}
	return t.viewports[i]
}

// RemoveAllViewports detaches every viewport.
func (t *RenderTarget) RemoveAllViewports() {
	t.viewports = nil
}

// Texture returns the backing texture of a texture target.
func (t *RenderTarget) Texture() *Texture { return t.texture }

// BindSurface attaches tex as the color surface at attachment index i of a
// multi render target.
func (t *RenderTarget) BindSurface(i int, tex *Texture) {
	if t.kind != TargetMulti || i < 0 {
		return
	}
	for len(t.surfaces) <= i {
		t.surfaces = append(t.surfaces, nil)
	}
	t.surfaces[i] = tex
	if i == 0 && tex != nil {
		t.width, t.height = tex.Width(), tex.Height()
	}
}

// UnbindSurface detaches the surface at attachment index i.
func (t *RenderTarget) UnbindSurface(i int) {
	if i >= 0 && i < len(t.surfaces) {
		t.surfaces[i] = nil
	}
}

// NumSurfaces returns the number of attachment slots of a multi render
// target.
func (t *RenderTarget) NumSurfaces() int { return len(t.surfaces) }

// Surface returns the texture bound at attachment index i.
func (t *RenderTarget) Surface(i int) *Texture {
	if i < 0 || i >= len(t.surfaces) {
		return nil
	}
	return t.surfaces[i]
}

// Image returns the primary CPU color image, or nil for GPU-only storage.
func (t *RenderTarget) Image() *image.RGBA {
	images := t.Images()
	if len(images) == 0 {
		return nil
	}
	return images[0]
}

// Images returns every CPU color image written by the target, in
// attachment order.
func (t *RenderTarget) Images() []*image.RGBA {
	switch t.kind {
	case TargetWindow:
		if t.image != nil {
			return []*image.RGBA{t.image}
		}
	case TargetTexture:
		if img := t.texture.Image(); img != nil {
			return []*image.RGBA{img}
		}
	case TargetMulti:
		var out []*image.RGBA
		for _, s := range t.surfaces {
			if s == nil {
				continue
			}
			if img := s.Image(); img != nil {
				out = append(out, img)
			}
		}
		return out
	}
	return nil
}
