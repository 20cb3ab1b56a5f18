// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package rendertest provides recording implementations of the render
// interfaces for tests.
package rendertest

import (
	"errors"

	"github.com/gogpu/compositor/material"
	"github.com/gogpu/compositor/render"
	"github.com/gogpu/gputypes"
)

// Clear is a recorded ClearFrameBuffer call.
type Clear struct {
	Buffers render.FrameBufferType
	Color   gputypes.Color
	Depth   float64
	Stencil uint32
}

// RenderSystem records the calls it receives.
type RenderSystem struct {
	// Calls lists method names in call order.
	Calls []string

	Clears       []Clear
	StencilCheck bool
	Stencil      render.StencilState

	// Current is returned by Viewport.
	Current *render.Viewport

	HOffset, VOffset float64
}

// ClearFrameBuffer implements render.RenderSystem.
func (rs *RenderSystem) ClearFrameBuffer(buffers render.FrameBufferType, c gputypes.Color, depth float64, stencil uint32) {
	rs.Calls = append(rs.Calls, "ClearFrameBuffer")
	rs.Clears = append(rs.Clears, Clear{Buffers: buffers, Color: c, Depth: depth, Stencil: stencil})
}

// SetStencilCheckEnabled implements render.RenderSystem.
func (rs *RenderSystem) SetStencilCheckEnabled(enabled bool) {
	rs.Calls = append(rs.Calls, "SetStencilCheckEnabled")
	rs.StencilCheck = enabled
}

// SetStencilBufferParams implements render.RenderSystem.
func (rs *RenderSystem) SetStencilBufferParams(s render.StencilState) {
	rs.Calls = append(rs.Calls, "SetStencilBufferParams")
	rs.Stencil = s
}

// Viewport implements render.RenderSystem.
func (rs *RenderSystem) Viewport() *render.Viewport { return rs.Current }

// HorizontalTexelOffset implements render.RenderSystem.
func (rs *RenderSystem) HorizontalTexelOffset() float64 { return rs.HOffset }

// VerticalTexelOffset implements render.RenderSystem.
func (rs *RenderSystem) VerticalTexelOffset() float64 { return rs.VOffset }

// Injection is a recorded InjectRenderWithPass call.
type Injection struct {
	Pass     *material.Pass
	Textures []string
	Corners  [4]float64
	Normals  [4]render.Vector3
}

// SceneManager records renders and injected quads. RenderViewport
// announces every queue group to the listeners and records which were
// not skipped.
type SceneManager struct {
	RS *RenderSystem

	Late     bool
	Mask     uint32
	Find     bool
	Rendered []*render.Viewport

	// Queues lists the queue groups rendered by the last RenderViewport.
	Queues []render.QueueGroupID

	Injections []Injection

	listeners []render.RenderQueueListener
}

// NewSceneManager returns a scene manager recording into a new
// RenderSystem.
func NewSceneManager() *SceneManager {
	return &SceneManager{RS: &RenderSystem{}, Mask: 0xFFFFFFFF, Find: true}
}

// RenderSystem implements render.SceneManager.
func (sm *SceneManager) RenderSystem() render.RenderSystem { return sm.RS }

// RenderViewport implements render.SceneManager.
func (sm *SceneManager) RenderViewport(vp *render.Viewport) error {
	if vp == nil {
		return errors.New("rendertest: nil viewport")
	}
	sm.RS.Current = vp
	sm.Rendered = append(sm.Rendered, vp)
	sm.Queues = sm.Queues[:0]
	for q := 0; q < render.QueueGroupCount; q++ {
		id := render.QueueGroupID(q)
		skip := false
		for _, l := range sm.listeners {
			if l.RenderQueueStarted(id) {
				skip = true
			}
		}
		if !skip {
			sm.Queues = append(sm.Queues, id)
		}
		for _, l := range sm.listeners {
			l.RenderQueueEnded(id)
		}
	}
	return nil
}

// InjectRenderWithPass implements render.SceneManager.
func (sm *SceneManager) InjectRenderWithPass(pass *material.Pass, r *render.Rectangle2D) error {
	in := Injection{Pass: pass, Normals: r.Normals()}
	in.Corners[0], in.Corners[1], in.Corners[2], in.Corners[3] = r.Corners()
	for i := 0; i < pass.NumTextureUnitStates(); i++ {
		in.Textures = append(in.Textures, pass.TextureUnitState(i).TextureName())
	}
	sm.Injections = append(sm.Injections, in)
	return nil
}

// LateMaterialResolving implements render.SceneManager.
func (sm *SceneManager) LateMaterialResolving() bool { return sm.Late }

// SetLateMaterialResolving implements render.SceneManager.
func (sm *SceneManager) SetLateMaterialResolving(late bool) { sm.Late = late }

// VisibilityMask implements render.SceneManager.
func (sm *SceneManager) VisibilityMask() uint32 { return sm.Mask }

// SetVisibilityMask implements render.SceneManager.
func (sm *SceneManager) SetVisibilityMask(mask uint32) { sm.Mask = mask }

// FindVisibleObjects implements render.SceneManager.
func (sm *SceneManager) FindVisibleObjects() bool { return sm.Find }

// SetFindVisibleObjects implements render.SceneManager.
func (sm *SceneManager) SetFindVisibleObjects(find bool) { sm.Find = find }

// AddRenderQueueListener implements render.SceneManager.
func (sm *SceneManager) AddRenderQueueListener(l render.RenderQueueListener) {
	sm.listeners = append(sm.listeners, l)
}

// RemoveRenderQueueListener implements render.SceneManager.
func (sm *SceneManager) RemoveRenderQueueListener(l render.RenderQueueListener) {
	for i, x := range sm.listeners {
		if x == l {
			sm.listeners = append(sm.listeners[:i], sm.listeners[i+1:]...)
			return
		}
	}
}

// NumListeners returns the number of registered queue listeners.
func (sm *SceneManager) NumListeners() int { return len(sm.listeners) }
