// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/compositor/material"
	"github.com/gogpu/gputypes"
)

// StencilState holds the stencil test configuration.
type StencilState struct {
	Compare     gputypes.CompareFunction
	Reference   uint32
	Mask        uint32
	FailOp      gputypes.StencilOperation
	DepthFailOp gputypes.StencilOperation
	PassOp      gputypes.StencilOperation
	TwoSided    bool
}

// RenderSystem is the low-level state and draw interface.
type RenderSystem interface {
	// ClearFrameBuffer clears the selected buffers of the current viewport.
	ClearFrameBuffer(buffers FrameBufferType, color gputypes.Color, depth float64, stencil uint32)

	// SetStencilCheckEnabled toggles the stencil test.
	SetStencilCheckEnabled(enabled bool)

	// SetStencilBufferParams configures the stencil test.
	SetStencilBufferParams(s StencilState)

	// Viewport returns the viewport currently rendered into.
	Viewport() *Viewport

	// HorizontalTexelOffset and VerticalTexelOffset return the texel to
	// pixel alignment offset of the back end, in pixels.
	HorizontalTexelOffset() float64
	VerticalTexelOffset() float64
}

// RenderQueueListener observes render queue group processing.
type RenderQueueListener interface {
	// RenderQueueStarted is called before group id renders. Returning true
	// skips the group's geometry.
	RenderQueueStarted(id QueueGroupID) (skip bool)

	// RenderQueueEnded is called after group id renders.
	RenderQueueEnded(id QueueGroupID)
}

// SceneManager renders scene geometry and accepts injected draws.
type SceneManager interface {
	// RenderSystem returns the render system the scene manager draws with.
	RenderSystem() RenderSystem

	// RenderViewport renders the scene seen by vp's camera into vp,
	// notifying every registered RenderQueueListener per queue group.
	RenderViewport(vp *Viewport) error

	// InjectRenderWithPass draws r with pass immediately.
	InjectRenderWithPass(pass *material.Pass, r *Rectangle2D) error

	LateMaterialResolving() bool
	SetLateMaterialResolving(late bool)

	VisibilityMask() uint32
	SetVisibilityMask(mask uint32)

	FindVisibleObjects() bool
	SetFindVisibleObjects(find bool)

	AddRenderQueueListener(l RenderQueueListener)
	RemoveRenderQueueListener(l RenderQueueListener)
}

// Rectangle2D is a screen-space quad in normalized device coordinates with
// optional per-corner normals.
type Rectangle2D struct {
	left, top, right, bottom float64

	// Normals are ordered top-left, bottom-left, top-right, bottom-right.
	normals [4]Vector3
}

// NewRectangle2D returns a full-screen quad.
func NewRectangle2D() *Rectangle2D {
	return &Rectangle2D{left: -1, top: 1, right: 1, bottom: -1}
}

// SetCorners sets the quad edges in normalized device coordinates.
func (r *Rectangle2D) SetCorners(left, top, right, bottom float64) {
	r.left, r.top, r.right, r.bottom = left, top, right, bottom
}

// Corners returns the quad edges.
func (r *Rectangle2D) Corners() (left, top, right, bottom float64) {
	return r.left, r.top, r.right, r.bottom
}

// SetNormals sets the per-corner normals.
func (r *Rectangle2D) SetNormals(topLeft, bottomLeft, topRight, bottomRight Vector3) {
	r.normals = [4]Vector3{topLeft, bottomLeft, topRight, bottomRight}
}

// Normals returns the per-corner normals.
func (r *Rectangle2D) Normals() [4]Vector3 { return r.normals }
