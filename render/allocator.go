// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
)

// TextureDescriptor describes a texture to allocate.
type TextureDescriptor struct {
	Name     string
	Width    int
	Height   int
	Format   gputypes.TextureFormat
	FSAA     uint32
	FSAAHint string
	HWGamma  bool

	// Usage defaults to RenderAttachment | TextureBinding when zero.
	Usage gputypes.TextureUsage
}

func (d *TextureDescriptor) usage() gputypes.TextureUsage {
	if d.Usage == 0 {
		return gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding
	}
	return d.Usage
}

// storageFormat returns the format actually stored. Gamma corrected 8-bit
// formats use their sRGB variant.
func (d *TextureDescriptor) storageFormat() gputypes.TextureFormat {
	if !d.HWGamma {
		return d.Format
	}
	switch d.Format {
	case gputypes.TextureFormatRGBA8Unorm:
		return gputypes.TextureFormatRGBA8UnormSrgb
	case gputypes.TextureFormatBGRA8Unorm:
		return gputypes.TextureFormatBGRA8UnormSrgb
	default:
		return d.Format
	}
}

// Surface is allocator-specific texture storage.
type Surface interface {
	// Release frees the storage. It must be safe to call more than once.
	Release()
}

// Allocator creates texture storage.
type Allocator interface {
	Allocate(desc *TextureDescriptor) (Surface, error)
}

// ImageSurface stores a texture as CPU pixels.
type ImageSurface struct {
	*image.RGBA
}

// Release drops the pixel buffer.
func (s *ImageSurface) Release() {
	s.RGBA = nil
}

// ImageAllocator allocates CPU *image.RGBA storage for color formats.
// Every color format is stored as 8-bit RGBA.
type ImageAllocator struct{}

// Allocate implements Allocator.
func (ImageAllocator) Allocate(desc *TextureDescriptor) (Surface, error) {
	if desc.Format.IsDepthStencil() || IsCompressedFormat(desc.Format) {
		return nil, fmt.Errorf("%w: %s on CPU storage", ErrUnsupportedFormat, desc.Format)
	}
	return &ImageSurface{RGBA: image.NewRGBA(image.Rect(0, 0, desc.Width, desc.Height))}, nil
}

// IsCompressedFormat reports whether f is a block-compressed format, which
// cannot be rendered to.
func IsCompressedFormat(f gputypes.TextureFormat) bool {
	return f >= gputypes.TextureFormatBC1RGBAUnorm
}

// IsFloatFormat reports whether f stores floating point channels.
func IsFloatFormat(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatR16Float,
		gputypes.TextureFormatR32Float,
		gputypes.TextureFormatRG16Float,
		gputypes.TextureFormatRG32Float,
		gputypes.TextureFormatRG11B10Ufloat,
		gputypes.TextureFormatRGB9E5Ufloat,
		gputypes.TextureFormatRGBA16Float,
		gputypes.TextureFormatRGBA32Float,
		gputypes.TextureFormatDepth32Float,
		gputypes.TextureFormatDepth32FloatStencil8:
		return true
	default:
		return false
	}
}

// BytesPerPixel returns the storage size of one texel of f, or 0 for
// compressed and undefined formats.
func BytesPerPixel(f gputypes.TextureFormat) int {
	switch f {
	case gputypes.TextureFormatR8Unorm, gputypes.TextureFormatR8Snorm,
		gputypes.TextureFormatR8Uint, gputypes.TextureFormatR8Sint,
		gputypes.TextureFormatStencil8:
		return 1
	case gputypes.TextureFormatR16Unorm, gputypes.TextureFormatR16Snorm,
		gputypes.TextureFormatR16Uint, gputypes.TextureFormatR16Sint,
		gputypes.TextureFormatR16Float, gputypes.TextureFormatRG8Unorm,
		gputypes.TextureFormatRG8Snorm, gputypes.TextureFormatRG8Uint,
		gputypes.TextureFormatRG8Sint, gputypes.TextureFormatDepth16Unorm:
		return 2
	case gputypes.TextureFormatRG32Float, gputypes.TextureFormatRG32Uint,
		gputypes.TextureFormatRG32Sint, gputypes.TextureFormatRGBA16Unorm,
		gputypes.TextureFormatRGBA16Snorm, gputypes.TextureFormatRGBA16Uint,
		gputypes.TextureFormatRGBA16Sint, gputypes.TextureFormatRGBA16Float,
		gputypes.TextureFormatDepth32FloatStencil8:
		return 8
	case gputypes.TextureFormatRGBA32Float, gputypes.TextureFormatRGBA32Uint,
		gputypes.TextureFormatRGBA32Sint:
		return 16
	case gputypes.TextureFormatUndefined:
		return 0
	}
	if IsCompressedFormat(f) {
		return 0
	}
	return 4
}
