// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"testing"

	"github.com/gogpu/compositor/render"
	"github.com/gogpu/gputypes"
)

var rgba8 = []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm}

// newTestViewport returns a full-size viewport on a new window target.
func newTestViewport(name string, width, height int) *render.Viewport {
	rt := render.NewWindowTarget(name, width, height)
	return rt.AddViewport(render.NewCamera(name + "-cam"))
}

// newTestManager returns a manager with a "Copy" material that samples one
// texture.
func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager()
	mat, err := m.Materials().Create("Copy")
	if err != nil {
		t.Fatalf("Create(Copy) error = %v", err)
	}
	mat.CreateTechnique().CreatePass().CreateTextureUnitState("")
	return m
}

// mustCompositor creates a compositor with one technique.
func mustCompositor(t *testing.T, m *Manager, name string) (*Compositor, *Technique) {
	t.Helper()
	c, err := m.CreateCompositor(name)
	if err != nil {
		t.Fatalf("CreateCompositor(%q) error = %v", name, err)
	}
	return c, c.CreateTechnique()
}

// mustEnable adds compositor name to the chain of vp and enables it.
func mustEnable(t *testing.T, m *Manager, vp *render.Viewport, name string) *Instance {
	t.Helper()
	inst, err := m.AddCompositor(vp, name, -1)
	if err != nil {
		t.Fatalf("AddCompositor(%q) error = %v", name, err)
	}
	if err := inst.SetEnabled(true); err != nil {
		t.Fatalf("SetEnabled(%q) error = %v", name, err)
	}
	return inst
}

// defineBloom declares the compositor of the bloom scenario: rt0 at
// viewport size receives the previous output, which is the scene, and the
// output samples it.
func defineBloom(t *testing.T, m *Manager) *Compositor {
	t.Helper()
	c, tech := mustCompositor(t, m, "Bloom")
	def := tech.CreateTextureDefinition("rt0")
	def.Formats = rgba8

	tp := tech.CreateTargetPass()
	tp.OutputName = "rt0"
	tp.InputMode = InputPrevious

	quad := tech.OutputTargetPass().CreatePass(PassRenderQuad)
	quad.MaterialName = "Copy"
	quad.SetInput(0, "rt0", 0)
	return c
}

// definePostEffect declares a compositor that copies the previous output
// into texture name, which is pooled when pooled is set, and samples it
// into the output.
func definePostEffect(t *testing.T, m *Manager, compName, texName string, pooled bool) *Compositor {
	t.Helper()
	c, tech := mustCompositor(t, m, compName)
	def := tech.CreateTextureDefinition(texName)
	def.Formats = rgba8
	def.Pooled = pooled

	tp := tech.CreateTargetPass()
	tp.OutputName = texName
	tp.InputMode = InputPrevious

	quad := tech.OutputTargetPass().CreatePass(PassRenderQuad)
	quad.MaterialName = "Copy"
	quad.SetInput(0, texName, 0)
	return c
}

// operationsOf returns the operations of op with the given kind.
func operationsOf[T Operation](op *TargetOperation) []T {
	var out []T
	for _, q := range op.Operations {
		if o, ok := q.Op.(T); ok {
			out = append(out, o)
		}
	}
	return out
}
