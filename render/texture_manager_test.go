// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
)

func rgbaDesc(name string, w, h int) TextureDescriptor {
	return TextureDescriptor{Name: name, Width: w, Height: h, Format: gputypes.TextureFormatRGBA8Unorm}
}

func TestTextureManagerCreateManual(t *testing.T) {
	m := NewTextureManager(ImageAllocator{})
	desc := rgbaDesc("rt", 64, 32)
	desc.FSAA = 4
	desc.FSAAHint = "quality"
	desc.HWGamma = true

	tex, err := m.CreateManual(desc)
	if err != nil {
		t.Fatalf("CreateManual() error = %v", err)
	}
	if tex.Name() != "rt" || tex.Width() != 64 || tex.Height() != 32 {
		t.Errorf("texture = %s %dx%d, want rt 64x32", tex.Name(), tex.Width(), tex.Height())
	}
	if tex.FSAA() != 4 || tex.FSAAHint() != "quality" || !tex.HWGamma() {
		t.Errorf("FSAA() = %d, FSAAHint() = %q, HWGamma() = %v", tex.FSAA(), tex.FSAAHint(), tex.HWGamma())
	}
	want := gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding
	if tex.Usage() != want {
		t.Errorf("Usage() = %v, want %v", tex.Usage(), want)
	}
	// 4 bytes per pixel, resolve plus four samples.
	if got := tex.SizeBytes(); got != 64*32*4*5 {
		t.Errorf("SizeBytes() = %d, want %d", got, 64*32*4*5)
	}
	if img := tex.Image(); img == nil || img.Bounds().Dx() != 64 {
		t.Error("Image() missing or wrong size")
	}

	rt := tex.RenderTarget()
	if rt.Kind() != TargetTexture || rt.Texture() != tex || !rt.AutoUpdated {
		t.Errorf("render target kind %v, auto %v", rt.Kind(), rt.AutoUpdated)
	}
	if rt.FSAA != 4 || !rt.HWGamma || rt.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Error("render target does not mirror the texture settings")
	}
	if len(rt.Images()) != 1 || rt.Image() != tex.Image() {
		t.Error("render target does not write the texture image")
	}
	if m.Get("rt") != tex || m.Len() != 1 {
		t.Error("texture not registered")
	}
}

func TestTextureManagerCreateManualErrors(t *testing.T) {
	tests := []struct {
		name string
		desc TextureDescriptor
		want error
	}{
		{"duplicate", rgbaDesc("taken", 8, 8), ErrTextureExists},
		{"zero width", rgbaDesc("a", 0, 8), ErrInvalidSize},
		{"negative height", rgbaDesc("b", 8, -1), ErrInvalidSize},
		{"over budget", rgbaDesc("c", 4096, 4096), ErrBudgetExceeded},
		{"depth on CPU", TextureDescriptor{Name: "d", Width: 8, Height: 8, Format: gputypes.TextureFormatDepth32Float}, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewTextureManager(ImageAllocator{}, WithMaxMemoryMB(MinMemoryMB))
			if _, err := m.CreateManual(rgbaDesc("taken", 8, 8)); err != nil {
				t.Fatalf("CreateManual(taken) error = %v", err)
			}
			if _, err := m.CreateManual(tt.desc); !errors.Is(err, tt.want) {
				t.Errorf("CreateManual() error = %v, want %v", err, tt.want)
			}
			if m.Len() != 1 {
				t.Errorf("Len() = %d after failure, want 1", m.Len())
			}
		})
	}
}

func TestTextureManagerRemove(t *testing.T) {
	m := NewTextureManager(ImageAllocator{})
	tex, _ := m.CreateManual(rgbaDesc("rt", 16, 16))
	tex.RenderTarget().AddViewport(NewCamera("cam"))
	img := tex.Surface().(*ImageSurface)

	if err := m.Remove("rt"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if img.RGBA != nil {
		t.Error("surface not released")
	}
	if tex.RenderTarget().NumViewports() != 0 {
		t.Error("viewports not detached")
	}
	if m.Get("rt") != nil || m.Len() != 0 {
		t.Error("texture still registered")
	}
	if s := m.Stats(); s.UsedBytes != 0 || s.TextureCount != 0 {
		t.Errorf("Stats() = %v, want empty", s)
	}
	if err := m.Remove("rt"); !errors.Is(err, ErrTextureNotFound) {
		t.Errorf("second Remove() error = %v, want %v", err, ErrTextureNotFound)
	}
}

func TestTextureManagerStats(t *testing.T) {
	m := NewTextureManager(ImageAllocator{}, WithMaxMemoryMB(1))
	s := m.Stats()
	if s.TotalBytes != MinMemoryMB*1024*1024 {
		t.Errorf("TotalBytes = %d, want the %d MB minimum", s.TotalBytes, MinMemoryMB)
	}

	_, _ = m.CreateManual(rgbaDesc("a", 1024, 1024))
	_, _ = m.CreateManual(rgbaDesc("b", 1024, 1024))
	_ = m.Remove("a")

	s = m.Stats()
	const mb = 1024 * 1024
	if s.UsedBytes != 4*mb || s.PeakBytes != 8*mb || s.TextureCount != 1 {
		t.Errorf("Stats() = used %d, peak %d, count %d, want 4 MB, 8 MB, 1", s.UsedBytes, s.PeakBytes, s.TextureCount)
	}
	if s.AvailableBytes != s.TotalBytes-s.UsedBytes {
		t.Errorf("AvailableBytes = %d, want %d", s.AvailableBytes, s.TotalBytes-s.UsedBytes)
	}
	if s.Utilization != 0.25 {
		t.Errorf("Utilization = %v, want 0.25", s.Utilization)
	}
	if str := s.String(); !strings.Contains(str, "25.0% used") || !strings.Contains(str, "1 textures") {
		t.Errorf("String() = %q", str)
	}
	if got := m.Names(); !slices.Equal(got, []string{"b"}) {
		t.Errorf("Names() = %v, want [b]", got)
	}
}

func TestTextureManagerMultiRenderTarget(t *testing.T) {
	m := NewTextureManager(ImageAllocator{})
	mrt, err := m.CreateMultiRenderTarget("gbuf")
	if err != nil {
		t.Fatalf("CreateMultiRenderTarget() error = %v", err)
	}
	if _, err := m.CreateMultiRenderTarget("gbuf"); !errors.Is(err, ErrRenderTargetExists) {
		t.Errorf("duplicate error = %v, want %v", err, ErrRenderTargetExists)
	}
	if mrt.Kind() != TargetMulti || m.RenderTarget("gbuf") != mrt {
		t.Fatal("multi render target not registered")
	}

	albedo, _ := m.CreateManual(rgbaDesc("gbuf/0", 32, 16))
	normal, _ := m.CreateManual(TextureDescriptor{Name: "gbuf/1", Width: 32, Height: 16, Format: gputypes.TextureFormatRGBA16Float})
	mrt.BindSurface(0, albedo)
	mrt.BindSurface(1, normal)

	if mrt.NumSurfaces() != 2 || mrt.Surface(0) != albedo || mrt.Surface(1) != normal || mrt.Surface(2) != nil {
		t.Error("surfaces not bound in order")
	}
	if mrt.Width() != 32 || mrt.Height() != 16 || mrt.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("MRT = %dx%d %v, want 32x16 of surface 0", mrt.Width(), mrt.Height(), mrt.Format())
	}
	if len(mrt.Images()) != 2 {
		t.Errorf("len(Images()) = %d, want 2", len(mrt.Images()))
	}

	mrt.UnbindSurface(1)
	if mrt.Surface(1) != nil {
		t.Error("UnbindSurface did not detach")
	}

	m.DestroyRenderTarget("gbuf")
	if m.RenderTarget("gbuf") != nil || mrt.NumSurfaces() != 0 {
		t.Error("DestroyRenderTarget left the target registered or bound")
	}
	if m.Get("gbuf/0") == nil {
		t.Error("DestroyRenderTarget destroyed a surface texture")
	}
}

func TestTextureAcquireRelease(t *testing.T) {
	m := NewTextureManager(ImageAllocator{})
	tex, _ := m.CreateManual(rgbaDesc("shared", 4, 4))
	tex.Acquire()
	tex.Acquire()
	if tex.RefCount() != 2 {
		t.Errorf("RefCount() = %d, want 2", tex.RefCount())
	}
	if n := tex.Release(); n != 1 {
		t.Errorf("Release() = %d, want 1", n)
	}
	tex.Release()
	if n := tex.Release(); n != 0 {
		t.Errorf("Release() past zero = %d, want 0", n)
	}
}

func TestFormatHelpers(t *testing.T) {
	tests := []struct {
		format     gputypes.TextureFormat
		bytes      int
		float      bool
		compressed bool
	}{
		{gputypes.TextureFormatR8Unorm, 1, false, false},
		{gputypes.TextureFormatR16Float, 2, true, false},
		{gputypes.TextureFormatRGBA8Unorm, 4, false, false},
		{gputypes.TextureFormatR32Float, 4, true, false},
		{gputypes.TextureFormatRGBA16Float, 8, true, false},
		{gputypes.TextureFormatRGBA32Float, 16, true, false},
		{gputypes.TextureFormatBC1RGBAUnorm, 0, false, true},
		{gputypes.TextureFormatUndefined, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := BytesPerPixel(tt.format); got != tt.bytes {
				t.Errorf("BytesPerPixel() = %d, want %d", got, tt.bytes)
			}
			if got := IsFloatFormat(tt.format); got != tt.float {
				t.Errorf("IsFloatFormat() = %v, want %v", got, tt.float)
			}
			if got := IsCompressedFormat(tt.format); got != tt.compressed {
				t.Errorf("IsCompressedFormat() = %v, want %v", got, tt.compressed)
			}
		})
	}
}
