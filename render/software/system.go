// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"image"
	"image/color"

	"github.com/gogpu/compositor/render"
	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"
)

// RenderSystem is a CPU render system. It is not safe for concurrent use.
type RenderSystem struct {
	textures *render.TextureManager
	viewport *render.Viewport

	stencilCheck bool
	stencil      render.StencilState

	// Clears counts ClearFrameBuffer calls that touched color.
	Clears int
}

// NewRenderSystem returns a render system sampling textures from tm.
func NewRenderSystem(tm *render.TextureManager) *RenderSystem {
	return &RenderSystem{textures: tm}
}

// Textures returns the texture manager quads sample from.
func (rs *RenderSystem) Textures() *render.TextureManager { return rs.textures }

// SetViewport makes vp the viewport subsequent calls render into.
func (rs *RenderSystem) SetViewport(vp *render.Viewport) { rs.viewport = vp }

// Viewport implements render.RenderSystem.
func (rs *RenderSystem) Viewport() *render.Viewport { return rs.viewport }

// HorizontalTexelOffset implements render.RenderSystem. Pixel centres are
// aligned, so the offset is zero.
func (rs *RenderSystem) HorizontalTexelOffset() float64 { return 0 }

// VerticalTexelOffset implements render.RenderSystem.
func (rs *RenderSystem) VerticalTexelOffset() float64 { return 0 }

// SetStencilCheckEnabled implements render.RenderSystem.
func (rs *RenderSystem) SetStencilCheckEnabled(enabled bool) { rs.stencilCheck = enabled }

// SetStencilBufferParams implements render.RenderSystem.
func (rs *RenderSystem) SetStencilBufferParams(s render.StencilState) { rs.stencil = s }

// StencilCheckEnabled reports the last stencil test toggle.
func (rs *RenderSystem) StencilCheckEnabled() bool { return rs.stencilCheck }

// StencilBufferParams returns the last stencil configuration.
func (rs *RenderSystem) StencilBufferParams() render.StencilState { return rs.stencil }

// ClearFrameBuffer implements render.RenderSystem. Only the color buffer
// exists on the CPU; depth and stencil clears are no-ops.
func (rs *RenderSystem) ClearFrameBuffer(buffers render.FrameBufferType, c gputypes.Color, _ float64, _ uint32) {
	if rs.viewport == nil || !buffers.Has(render.FrameBufferColor) {
		return
	}
	src := image.NewUniform(toRGBA(c))
	bounds := viewportBounds(rs.viewport)
	for _, img := range rs.viewport.Target().Images() {
		xdraw.Draw(img, bounds, src, image.Point{}, xdraw.Src)
	}
	rs.Clears++
}

// viewportBounds returns the pixel rectangle of vp on its target.
func viewportBounds(vp *render.Viewport) image.Rectangle {
	x, y := vp.ActualLeft(), vp.ActualTop()
	return image.Rect(x, y, x+vp.ActualWidth(), y+vp.ActualHeight())
}

// toRGBA converts a linear float color to premultiplied 8-bit RGBA.
func toRGBA(c gputypes.Color) color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: to8(clamp01(c.R) * a),
		G: to8(clamp01(c.G) * a),
		B: to8(clamp01(c.B) * a),
		A: to8(a),
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

func to8(v float64) uint8 {
	//nolint:gosec // G115: v is clamped to [0, 1]
	return uint8(v*255 + 0.5)
}
