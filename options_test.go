// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.textures != nil || o.materials != nil {
		t.Error("default options carry managers")
	}
	if o.caps.MaxMultiRenderTargets != 8 || o.caps.Formats != nil {
		t.Errorf("caps = %+v, want 8 MRT attachments and every format", o.caps)
	}
	if o.sceneName != SceneCompositorName {
		t.Errorf("sceneName = %q, want %q", o.sceneName, SceneCompositorName)
	}
}

func TestCapabilitiesSupportsFormat(t *testing.T) {
	limited := Capabilities{Formats: []gputypes.TextureFormat{
		gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureFormatRGBA16Float,
		gputypes.TextureFormatDepth24Plus,
	}}

	tests := []struct {
		name    string
		caps    Capabilities
		format  gputypes.TextureFormat
		degrade bool
		want    bool
	}{
		{"all formats", DefaultCapabilities(), gputypes.TextureFormatRG32Float, false, true},
		{"undefined", DefaultCapabilities(), gputypes.TextureFormatUndefined, true, false},
		{"compressed", DefaultCapabilities(), gputypes.TextureFormatBC1RGBAUnorm, true, false},
		{"listed", limited, gputypes.TextureFormatRGBA8Unorm, false, true},
		{"unlisted", limited, gputypes.TextureFormatBGRA8Unorm, false, false},
		{"degraded to same size", limited, gputypes.TextureFormatBGRA8Unorm, true, true},
		{"degraded float", limited, gputypes.TextureFormatRG32Float, true, true},
		{"no float equivalent", limited, gputypes.TextureFormatR32Float, true, false},
		{"no size equivalent", limited, gputypes.TextureFormatR8Unorm, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.caps.supportsFormat(tt.format, tt.degrade); got != tt.want {
				t.Errorf("supportsFormat(%v, %v) = %v, want %v", tt.format, tt.degrade, got, tt.want)
			}
		})
	}
}
