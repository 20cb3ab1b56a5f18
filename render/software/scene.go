// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/compositor/material"
	"github.com/gogpu/compositor/render"
	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"
)

// ErrNoViewport is returned when rendering without a viewport.
var ErrNoViewport = errors.New("software: no viewport")

// Object is a flat coloured rectangle of the scene.
type Object struct {
	Name string

	// Queue is the render queue group the object renders in.
	Queue render.QueueGroupID

	// Left, Top, Right and Bottom are viewport-relative edges in [0, 1].
	Left, Top, Right, Bottom float64

	Color color.RGBA

	// VisibilityFlags are ANDed with the scene and viewport masks. The
	// object renders when the result is non-zero.
	VisibilityFlags uint32
}

// SceneManager renders Objects with a RenderSystem. It is not safe for
// concurrent use.
type SceneManager struct {
	rs        *RenderSystem
	objects   []*Object
	listeners []render.RenderQueueListener

	visibilityMask uint32
	findVisible    bool
	lateMaterial   bool

	// Stats of the last RenderViewport call.
	RenderedObjects int
	SkippedQueues   int

	// InjectedQuads counts quads drawn since creation.
	InjectedQuads int
}

// NewSceneManager returns an empty scene drawn with rs.
func NewSceneManager(rs *RenderSystem) *SceneManager {
	return &SceneManager{
		rs:             rs,
		visibilityMask: 0xFFFFFFFF,
		findVisible:    true,
	}
}

// AddObject appends o to the scene.
func (sm *SceneManager) AddObject(o *Object) {
	if o.VisibilityFlags == 0 {
		o.VisibilityFlags = 0xFFFFFFFF
	}
	sm.objects = append(sm.objects, o)
}

// Objects returns the scene objects.
func (sm *SceneManager) Objects() []*Object { return sm.objects }

// RenderSystem implements render.SceneManager.
func (sm *SceneManager) RenderSystem() render.RenderSystem { return sm.rs }

// LateMaterialResolving implements render.SceneManager.
func (sm *SceneManager) LateMaterialResolving() bool { return sm.lateMaterial }

// SetLateMaterialResolving implements render.SceneManager.
func (sm *SceneManager) SetLateMaterialResolving(late bool) { sm.lateMaterial = late }

// VisibilityMask implements render.SceneManager.
func (sm *SceneManager) VisibilityMask() uint32 { return sm.visibilityMask }

// SetVisibilityMask implements render.SceneManager.
func (sm *SceneManager) SetVisibilityMask(mask uint32) { sm.visibilityMask = mask }

// FindVisibleObjects implements render.SceneManager.
func (sm *SceneManager) FindVisibleObjects() bool { return sm.findVisible }

// SetFindVisibleObjects implements render.SceneManager.
func (sm *SceneManager) SetFindVisibleObjects(find bool) { sm.findVisible = find }

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

// RenderViewport implements render.SceneManager. Every queue group from
// Background to Max is announced to the listeners, which may skip its
// geometry.
func (sm *SceneManager) RenderViewport(vp *render.Viewport) error {
	if vp == nil {
		return ErrNoViewport
	}
	sm.rs.SetViewport(vp)
	if vp.ClearEveryFrame {
		sm.rs.ClearFrameBuffer(vp.ClearBuffers, vp.BackgroundColor, vp.DepthClear, 0)
	}

	sm.RenderedObjects = 0
	sm.SkippedQueues = 0
	mask := sm.visibilityMask & vp.VisibilityMask
	for q := 0; q < render.QueueGroupCount; q++ {
		id := render.QueueGroupID(q)
		skip := false
		for _, l := range sm.listeners {
			if l.RenderQueueStarted(id) {
				skip = true
			}
		}
		if skip {
			sm.SkippedQueues++
		} else if sm.findVisible {
			sm.renderQueue(vp, id, mask)
		}
		for _, l := range sm.listeners {
			l.RenderQueueEnded(id)
		}
	}
	render.Logger().Debug("viewport rendered",
		"target", vp.Target().Name(), "objects", sm.RenderedObjects, "skipped", sm.SkippedQueues)
	return nil
}

func (sm *SceneManager) renderQueue(vp *render.Viewport, id render.QueueGroupID, mask uint32) {
	bounds := viewportBounds(vp)
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	for _, o := range sm.objects {
		if o.Queue != id || o.VisibilityFlags&mask == 0 {
			continue
		}
		r := image.Rect(
			bounds.Min.X+int(math.Round(o.Left*w)),
			bounds.Min.Y+int(math.Round(o.Top*h)),
			bounds.Min.X+int(math.Round(o.Right*w)),
			bounds.Min.Y+int(math.Round(o.Bottom*h)),
		).Intersect(bounds)
		src := image.NewUniform(o.Color)
		for _, img := range vp.Target().Images() {
			xdraw.Draw(img, r, src, image.Point{}, xdraw.Over)
		}
		sm.RenderedObjects++
	}
}

// InjectRenderWithPass implements render.SceneManager. Texture unit 0 is
// scaled onto the quad with the pass blend; later units are composited
// over it. A pass without texture units draws nothing.
func (sm *SceneManager) InjectRenderWithPass(pass *material.Pass, r *render.Rectangle2D) error {
	vp := sm.rs.Viewport()
	if vp == nil {
		return ErrNoViewport
	}
	dr := quadBounds(vp, r)
	if dr.Empty() {
		return nil
	}
	for i := 0; i < pass.NumTextureUnitStates(); i++ {
		unit := pass.TextureUnitState(i)
		tex := sm.rs.textures.Get(unit.TextureName())
		if tex == nil {
			return fmt.Errorf("%w: %q", render.ErrTextureNotFound, unit.TextureName())
		}
		src := tex.Image()
		if src == nil {
			return fmt.Errorf("%w: %q has no CPU image", render.ErrUnsupportedFormat, tex.Name())
		}
		op := xdraw.Over
		if i == 0 && pass.Blend == material.BlendReplace {
			op = xdraw.Src
		}
		var scaler xdraw.Scaler = xdraw.BiLinear
		if unit.Filter == gputypes.FilterModeNearest {
			scaler = xdraw.NearestNeighbor
		}
		for _, img := range vp.Target().Images() {
			if img == src {
				continue
			}
			scaler.Scale(img, dr, src, src.Bounds(), op, nil)
		}
	}
	sm.InjectedQuads++
	return nil
}

// quadBounds maps the normalized device coordinates of r onto the pixels
// of vp.
func quadBounds(vp *render.Viewport, r *render.Rectangle2D) image.Rectangle {
	bounds := viewportBounds(vp)
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	left, top, right, bottom := r.Corners()
	x0 := bounds.Min.X + int(math.Round((left+1)/2*w))
	x1 := bounds.Min.X + int(math.Round((right+1)/2*w))
	y0 := bounds.Min.Y + int(math.Round((1-top)/2*h))
	y1 := bounds.Min.Y + int(math.Round((1-bottom)/2*h))
	return image.Rect(x0, y0, x1, y1).Intersect(bounds)
}
