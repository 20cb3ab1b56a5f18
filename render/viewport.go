// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/gputypes"

// Viewport is a rectangular region of a RenderTarget rendered from a Camera.
type Viewport struct {
	target *RenderTarget
	camera *Camera
	zOrder int

	// Left, Top, Width and Height are relative to the target size (0..1).
	Left, Top, Width, Height float64

	// ClearEveryFrame clears ClearBuffers to BackgroundColor before the
	// scene renders.
	ClearEveryFrame bool
	ClearBuffers    FrameBufferType
	BackgroundColor gputypes.Color
	DepthClear      float64

	ShowOverlays   bool
	VisibilityMask uint32
	MaterialScheme string
	ShadowsEnabled bool
}

func newViewport(target *RenderTarget, cam *Camera, zOrder int) *Viewport {
	vp := &Viewport{
		target:          target,
		zOrder:          zOrder,
		Width:           1,
		Height:          1,
		ClearEveryFrame: true,
		ClearBuffers:    FrameBufferColor | FrameBufferDepth,
		BackgroundColor: gputypes.ColorBlack,
		DepthClear:      1,
		ShowOverlays:    true,
		VisibilityMask:  0xFFFFFFFF,
		ShadowsEnabled:  true,
	}
	vp.SetCamera(cam)
	return vp
}

// Target returns the render target the viewport belongs to.
func (vp *Viewport) Target() *RenderTarget { return vp.target }

// Camera returns the camera rendering into the viewport.
func (vp *Viewport) Camera() *Camera { return vp.camera }

// ZOrder returns the viewport's position in its target.
func (vp *Viewport) ZOrder() int { return vp.zOrder }

// SetCamera attaches cam. An auto-aspect camera adopts the viewport's
// aspect ratio, and the camera records the viewport as its current one.
func (vp *Viewport) SetCamera(cam *Camera) {
	vp.camera = cam
	if cam == nil {
		return
	}
	if cam.AutoAspectRatio && vp.ActualHeight() > 0 {
		cam.SetAspectRatio(float64(vp.ActualWidth()) / float64(vp.ActualHeight()))
	}
	cam.NotifyViewport(vp)
}

// ActualLeft returns the left edge in pixels.
func (vp *Viewport) ActualLeft() int { return int(vp.Left * float64(vp.target.Width())) }

// ActualTop returns the top edge in pixels.
func (vp *Viewport) ActualTop() int { return int(vp.Top * float64(vp.target.Height())) }

// ActualWidth returns the width in pixels.
func (vp *Viewport) ActualWidth() int { return int(vp.Width * float64(vp.target.Width())) }

// ActualHeight returns the height in pixels.
func (vp *Viewport) ActualHeight() int { return int(vp.Height * float64(vp.target.Height())) }
