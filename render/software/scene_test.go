// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/compositor/material"
	"github.com/gogpu/compositor/render"
	"github.com/gogpu/gputypes"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

func newScene(t *testing.T, w, h int) (*SceneManager, *render.Viewport) {
	t.Helper()
	tm := render.NewTextureManager(render.ImageAllocator{})
	sm := NewSceneManager(NewRenderSystem(tm))
	vp := render.NewWindowTarget("win", w, h).AddViewport(render.NewCamera("cam"))
	return sm, vp
}

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

type skipListener struct {
	skip  render.QueueGroupID
	ended int
}

func (l *skipListener) RenderQueueStarted(id render.QueueGroupID) bool { return id == l.skip }
func (l *skipListener) RenderQueueEnded(render.QueueGroupID)           { l.ended++ }

func TestRenderViewportClear(t *testing.T) {
	sm, vp := newScene(t, 4, 2)
	vp.Left, vp.Width = 0.5, 0.5
	vp.BackgroundColor = gputypes.Color{R: 1, A: 1}

	if err := sm.RenderViewport(vp); err != nil {
		t.Fatalf("RenderViewport() error = %v", err)
	}
	img := vp.Target().Image()
	if got := img.RGBAAt(3, 1); got != red {
		t.Errorf("pixel inside viewport = %v, want %v", got, red)
	}
	if got := img.RGBAAt(1, 1); got != (color.RGBA{}) {
		t.Errorf("pixel outside viewport = %v, want untouched", got)
	}
	if sm.rs.Clears != 1 || sm.RenderSystem().Viewport() != vp {
		t.Errorf("Clears = %d, viewport %v", sm.rs.Clears, sm.RenderSystem().Viewport())
	}

	sm.rs.ClearFrameBuffer(render.FrameBufferDepth|render.FrameBufferStencil, gputypes.ColorWhite, 1, 0)
	if sm.rs.Clears != 1 {
		t.Error("depth and stencil clear touched color")
	}

	vp.ClearEveryFrame = false
	fill(img, blue)
	_ = sm.RenderViewport(vp)
	if got := img.RGBAAt(3, 1); got != blue {
		t.Errorf("pixel = %v, want %v kept without ClearEveryFrame", got, blue)
	}
}

func TestRenderViewportObjects(t *testing.T) {
	tests := []struct {
		name      string
		sceneMask uint32
		vpMask    uint32
		find      bool
		want      int
	}{
		{"all visible", 0xFFFFFFFF, 0xFFFFFFFF, true, 2},
		{"scene mask", 0x2, 0xFFFFFFFF, true, 1},
		{"viewport mask", 0xFFFFFFFF, 0x1, true, 1},
		{"masks disjoint", 0x2, 0x1, true, 0},
		{"find visible off", 0xFFFFFFFF, 0xFFFFFFFF, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm, vp := newScene(t, 4, 4)
			sm.AddObject(&Object{Name: "left", Queue: render.QueueMain, Right: 0.5, Bottom: 1, Color: red, VisibilityFlags: 0x1})
			sm.AddObject(&Object{Name: "right", Queue: render.QueueOverlay, Left: 0.5, Right: 1, Bottom: 1, Color: green, VisibilityFlags: 0x2})
			sm.SetVisibilityMask(tt.sceneMask)
			sm.SetFindVisibleObjects(tt.find)
			vp.VisibilityMask = tt.vpMask

			if err := sm.RenderViewport(vp); err != nil {
				t.Fatalf("RenderViewport() error = %v", err)
			}
			if sm.RenderedObjects != tt.want {
				t.Errorf("RenderedObjects = %d, want %d", sm.RenderedObjects, tt.want)
			}
		})
	}
}

func TestRenderViewportObjectPixels(t *testing.T) {
	sm, vp := newScene(t, 4, 4)
	obj := &Object{Queue: render.QueueMain, Left: 0.25, Top: 0.25, Right: 0.75, Bottom: 0.75, Color: green}
	sm.AddObject(obj)
	if obj.VisibilityFlags != 0xFFFFFFFF {
		t.Errorf("AddObject() flags = %#x, want all bits", obj.VisibilityFlags)
	}
	if len(sm.Objects()) != 1 {
		t.Fatalf("len(Objects()) = %d, want 1", len(sm.Objects()))
	}

	_ = sm.RenderViewport(vp)
	img := vp.Target().Image()
	black := color.RGBA{A: 255}
	if got := img.RGBAAt(1, 2); got != green {
		t.Errorf("pixel inside object = %v, want %v", got, green)
	}
	if got := img.RGBAAt(0, 0); got != black {
		t.Errorf("pixel outside object = %v, want %v", got, black)
	}
}

func TestRenderViewportListeners(t *testing.T) {
	sm, vp := newScene(t, 2, 2)
	sm.AddObject(&Object{Queue: render.QueueMain, Right: 1, Bottom: 1, Color: red})
	l := &skipListener{skip: render.QueueMain}
	sm.AddRenderQueueListener(l)

	_ = sm.RenderViewport(vp)
	if sm.SkippedQueues != 1 || sm.RenderedObjects != 0 {
		t.Errorf("SkippedQueues = %d, RenderedObjects = %d, want 1, 0", sm.SkippedQueues, sm.RenderedObjects)
	}
	if l.ended != render.QueueGroupCount {
		t.Errorf("RenderQueueEnded calls = %d, want %d", l.ended, render.QueueGroupCount)
	}

	sm.RemoveRenderQueueListener(l)
	_ = sm.RenderViewport(vp)
	if sm.SkippedQueues != 0 || sm.RenderedObjects != 1 {
		t.Errorf("after removal SkippedQueues = %d, RenderedObjects = %d, want 0, 1", sm.SkippedQueues, sm.RenderedObjects)
	}
}

func TestSceneManagerFlags(t *testing.T) {
	sm, _ := newScene(t, 1, 1)
	if sm.LateMaterialResolving() || !sm.FindVisibleObjects() || sm.VisibilityMask() != 0xFFFFFFFF {
		t.Error("unexpected defaults")
	}
	sm.SetLateMaterialResolving(true)
	if !sm.LateMaterialResolving() {
		t.Error("SetLateMaterialResolving(true) not stored")
	}
}

func newSource(t *testing.T, sm *SceneManager, name string, c color.RGBA) {
	t.Helper()
	tex, err := sm.rs.Textures().CreateManual(render.TextureDescriptor{
		Name: name, Width: 2, Height: 2, Format: gputypes.TextureFormatRGBA8Unorm,
	})
	if err != nil {
		t.Fatalf("CreateManual() error = %v", err)
	}
	fill(tex.Image(), c)
}

func TestInjectRenderWithPass(t *testing.T) {
	sm, vp := newScene(t, 4, 4)
	newSource(t, sm, "src", green)
	sm.rs.SetViewport(vp)

	pass := material.New("m").CreateTechnique().CreatePass()
	pass.CreateTextureUnitState("src").Filter = gputypes.FilterModeNearest

	quad := render.NewRectangle2D()
	quad.SetCorners(-1, 1, 0, -1)
	if err := sm.InjectRenderWithPass(pass, quad); err != nil {
		t.Fatalf("InjectRenderWithPass() error = %v", err)
	}
	img := vp.Target().Image()
	if got := img.RGBAAt(1, 3); got != green {
		t.Errorf("pixel inside quad = %v, want %v", got, green)
	}
	if got := img.RGBAAt(2, 0); got != (color.RGBA{}) {
		t.Errorf("pixel outside quad = %v, want untouched", got)
	}
	if sm.InjectedQuads != 1 {
		t.Errorf("InjectedQuads = %d, want 1", sm.InjectedQuads)
	}
}

func TestInjectRenderWithPassBlend(t *testing.T) {
	tests := []struct {
		name  string
		blend material.SceneBlend
		want  color.RGBA
	}{
		{"replace", material.BlendReplace, color.RGBA{}},
		{"alpha", material.BlendAlpha, red},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm, vp := newScene(t, 2, 2)
			newSource(t, sm, "clear", color.RGBA{})
			fill(vp.Target().Image(), red)
			sm.rs.SetViewport(vp)

			pass := material.New("m").CreateTechnique().CreatePass()
			pass.Blend = tt.blend
			pass.CreateTextureUnitState("clear")
			if err := sm.InjectRenderWithPass(pass, render.NewRectangle2D()); err != nil {
				t.Fatalf("InjectRenderWithPass() error = %v", err)
			}
			if got := vp.Target().Image().RGBAAt(0, 0); got != tt.want {
				t.Errorf("pixel = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInjectRenderWithPassErrors(t *testing.T) {
	sm, vp := newScene(t, 2, 2)
	pass := material.New("m").CreateTechnique().CreatePass()
	pass.CreateTextureUnitState("missing")

	if err := sm.InjectRenderWithPass(pass, render.NewRectangle2D()); !errors.Is(err, ErrNoViewport) {
		t.Errorf("without viewport error = %v, want %v", err, ErrNoViewport)
	}
	sm.rs.SetViewport(vp)
	if err := sm.InjectRenderWithPass(pass, render.NewRectangle2D()); !errors.Is(err, render.ErrTextureNotFound) {
		t.Errorf("missing texture error = %v, want %v", err, render.ErrTextureNotFound)
	}
	if err := sm.RenderViewport(nil); !errors.Is(err, ErrNoViewport) {
		t.Errorf("RenderViewport(nil) error = %v, want %v", err, ErrNoViewport)
	}
	if sm.InjectedQuads != 0 {
		t.Errorf("InjectedQuads = %d after failures, want 0", sm.InjectedQuads)
	}
}

func TestRenderSystemState(t *testing.T) {
	rs := NewRenderSystem(render.NewTextureManager(render.ImageAllocator{}))
	if rs.HorizontalTexelOffset() != 0 || rs.VerticalTexelOffset() != 0 {
		t.Error("texel offsets are not zero")
	}
	rs.ClearFrameBuffer(render.FrameBufferAll, gputypes.ColorWhite, 1, 0)
	if rs.Clears != 0 {
		t.Error("clear without viewport counted")
	}

	s := render.StencilState{Compare: gputypes.CompareFunctionEqual, Reference: 1, Mask: 0xFF}
	rs.SetStencilCheckEnabled(true)
	rs.SetStencilBufferParams(s)
	if !rs.StencilCheckEnabled() || rs.StencilBufferParams() != s {
		t.Error("stencil state not recorded")
	}
}

func TestToRGBA(t *testing.T) {
	tests := []struct {
		in   gputypes.Color
		want color.RGBA
	}{
		{gputypes.ColorBlack, color.RGBA{A: 255}},
		{gputypes.Color{R: 1, G: 0, B: 0, A: 0.5}, color.RGBA{R: 128, A: 128}},
		{gputypes.Color{R: 2, G: -1, B: 0.5, A: 1}, color.RGBA{R: 255, B: 128, A: 255}},
	}
	for _, tt := range tests {
		if got := toRGBA(tt.in); got != tt.want {
			t.Errorf("toRGBA(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
