// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// HALAllocator allocates GPU textures on a wgpu HAL device. The device is
// provided by the host application; the allocator never creates one.
//
// Multisampled requests get a multisampled render attachment plus a
// single-sample resolve texture that shaders sample from.
type HALAllocator struct {
	device hal.Device
}

// NewHALAllocator creates an allocator for device.
func NewHALAllocator(device hal.Device) *HALAllocator {
	return &HALAllocator{device: device}
}

// HALSurface is GPU texture storage.
type HALSurface struct {
	device hal.Device

	// Texture and View are the single-sample texture that is sampled.
	Texture hal.Texture
	View    hal.TextureView

	// MSAATexture and MSAAView are the multisampled attachment, nil when
	// the texture is not multisampled.
	MSAATexture hal.Texture
	MSAAView    hal.TextureView

	// Format is the stored format, after sRGB promotion.
	Format gputypes.TextureFormat
}

// Allocate implements Allocator.
func (a *HALAllocator) Allocate(desc *TextureDescriptor) (Surface, error) {
	format := desc.storageFormat()
	size := hal.Extent3D{
		Width:              uint32(desc.Width),  //nolint:gosec // sizes validated by TextureManager
		Height:             uint32(desc.Height), //nolint:gosec // sizes validated by TextureManager
		DepthOrArrayLayers: 1,
	}
	s := &HALSurface{device: a.device, Format: format}

	tex, err := a.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Name,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         desc.usage(),
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %q: %w", desc.Name, err)
	}
	s.Texture = tex

	view, err := a.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           desc.Name + "_view",
		Format:          format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		s.Release()
		return nil, fmt.Errorf("create texture view %q: %w", desc.Name, err)
	}
	s.View = view

	if desc.FSAA > 1 {
		msaa, err := a.device.CreateTexture(&hal.TextureDescriptor{
			Label:         desc.Name + "_msaa",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   desc.FSAA,
			Dimension:     gputypes.TextureDimension2D,
			Format:        format,
			Usage:         gputypes.TextureUsageRenderAttachment,
		})
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("create MSAA texture %q: %w", desc.Name, err)
		}
		s.MSAATexture = msaa

		msaaView, err := a.device.CreateTextureView(msaa, &hal.TextureViewDescriptor{
			Label: desc.Name + "_msaa_view",
		})
		if err != nil {
			s.Release()
			return nil, fmt.Errorf("create MSAA view %q: %w", desc.Name, err)
		}
		s.MSAAView = msaaView
	}
	return s, nil
}

// Release destroys the views and textures.
func (s *HALSurface) Release() {
	if s.MSAAView != nil {
		s.device.DestroyTextureView(s.MSAAView)
		s.MSAAView = nil
	}
	if s.MSAATexture != nil {
		s.device.DestroyTexture(s.MSAATexture)
		s.MSAATexture = nil
	}
	if s.View != nil {
		s.device.DestroyTextureView(s.View)
		s.View = nil
	}
	if s.Texture != nil {
		s.device.DestroyTexture(s.Texture)
		s.Texture = nil
	}
}
