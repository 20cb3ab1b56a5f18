// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"errors"
	"testing"

	"github.com/gogpu/compositor/material"
	"github.com/gogpu/compositor/render"
	"github.com/gogpu/compositor/render/rendertest"
	"github.com/gogpu/gputypes"
)

type unknownOp struct{}

func (unknownOp) Kind() OperationKind { return OperationKind(99) }

func TestOperationKindString(t *testing.T) {
	tests := []struct {
		kind OperationKind
		want string
	}{
		{OpClear, "Clear"},
		{OpStencil, "Stencil"},
		{OpSetScheme, "SetScheme"},
		{OpRestoreScheme, "RestoreScheme"},
		{OpQuad, "Quad"},
		{OpCustom, "Custom"},
		{OperationKind(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("OperationKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestExecuteClearAndStencil(t *testing.T) {
	sm := rendertest.NewSceneManager()
	rs := sm.RS
	color := gputypes.Color{R: 0.5, G: 0.25, A: 1}

	if err := Execute(&ClearOperation{Buffers: render.FrameBufferAll, Color: color, Depth: 1, Stencil: 2}, sm, rs); err != nil {
		t.Fatalf("Execute(clear) error = %v", err)
	}
	want := rendertest.Clear{Buffers: render.FrameBufferAll, Color: color, Depth: 1, Stencil: 2}
	if len(rs.Clears) != 1 || rs.Clears[0] != want {
		t.Errorf("clears = %+v, want [%+v]", rs.Clears, want)
	}

	state := render.StencilState{Compare: gputypes.CompareFunctionEqual, Reference: 1, Mask: 0xFF}
	if err := Execute(&StencilOperation{Check: true, State: state}, sm, rs); err != nil {
		t.Fatalf("Execute(stencil) error = %v", err)
	}
	if !rs.StencilCheck || rs.Stencil != state {
		t.Errorf("stencil = %v %+v, want true %+v", rs.StencilCheck, rs.Stencil, state)
	}
}

func TestExecuteSchemeBracket(t *testing.T) {
	materials := material.NewManager()
	sm := rendertest.NewSceneManager()
	set := &SetSchemeOperation{SchemeName: "gbuffer", materials: materials}

	if err := Execute(set, sm, sm.RS); err != nil {
		t.Fatalf("Execute(set) error = %v", err)
	}
	if materials.ActiveScheme() != "gbuffer" || !sm.Late {
		t.Errorf("after set scheme = %q, late = %v, want gbuffer, true", materials.ActiveScheme(), sm.Late)
	}
	if set.PreviousScheme() != material.DefaultScheme || set.PreviousLateResolving() {
		t.Errorf("saved %q, %v, want %q, false", set.PreviousScheme(), set.PreviousLateResolving(), material.DefaultScheme)
	}

	if err := Execute(&RestoreSchemeOperation{Set: set}, sm, sm.RS); err != nil {
		t.Fatalf("Execute(restore) error = %v", err)
	}
	if materials.ActiveScheme() != material.DefaultScheme || sm.Late {
		t.Errorf("after restore scheme = %q, late = %v, want %q, false", materials.ActiveScheme(), sm.Late, material.DefaultScheme)
	}
}

func TestExecuteCustomAndUnknown(t *testing.T) {
	sm := rendertest.NewSceneManager()
	ran := false
	op := &CustomOp{Handler: CustomOperationFunc(func(render.SceneManager, render.RenderSystem) error {
		ran = true
		return nil
	})}
	if err := Execute(op, sm, sm.RS); err != nil || !ran {
		t.Errorf("Execute(custom) = %v, ran = %v, want nil, true", err, ran)
	}
	if err := Execute(&CustomOp{}, sm, sm.RS); !errors.Is(err, ErrNoCustomOperation) {
		t.Errorf("Execute(custom without handler) error = %v, want %v", err, ErrNoCustomOperation)
	}
	if err := Execute(unknownOp{}, sm, sm.RS); !errors.Is(err, ErrUnknownOperation) {
		t.Errorf("Execute(unknown) error = %v, want %v", err, ErrUnknownOperation)
	}
}

// compiledQuad compiles the bloom scenario and returns its output quad.
func compiledQuad(t *testing.T, configure func(p *Pass)) (*QuadOperation, *Instance, *render.Viewport) {
	t.Helper()
	m := newTestManager(t)
	c := defineBloom(t, m)
	if configure != nil {
		configure(c.Technique(0).OutputTargetPass().Pass(0))
	}
	vp := newTestViewport("window", 64, 32)
	inst := mustEnable(t, m, vp, "Bloom")
	compileChain(t, m.Chain(vp))
	quads := operationsOf[*QuadOperation](m.Chain(vp).OutputOperation())
	if len(quads) != 1 {
		t.Fatalf("quads = %d, want 1", len(quads))
	}
	return quads[0], inst, vp
}

func TestExecuteQuadTexelOffsets(t *testing.T) {
	tests := []struct {
		name      string
		configure func(p *Pass)
		want      [4]float64
	}{
		{"full screen", nil, [4]float64{-1 + 1.0/64, 1 - 1.0/32, 1 + 1.0/64, -1 - 1.0/32}},
		{"custom corners", func(p *Pass) { p.SetQuadCorners(-0.5, 0.5, 0.5, -0.5) },
			[4]float64{-0.5 + 1.0/64, 0.5 - 1.0/32, 0.5 + 1.0/64, -0.5 - 1.0/32}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quad, inst, vp := compiledQuad(t, tt.configure)
			l := &recordingListener{}
			inst.AddListener(l)

			sm := rendertest.NewSceneManager()
			sm.RS.Current = vp
			sm.RS.HOffset, sm.RS.VOffset = 0.5, 0.5
			if err := Execute(quad, sm, sm.RS); err != nil {
				t.Fatalf("Execute(quad) error = %v", err)
			}
			if len(sm.Injections) != 1 {
				t.Fatalf("len(Injections) = %d, want 1", len(sm.Injections))
			}
			if got := sm.Injections[0].Corners; got != tt.want {
				t.Errorf("corners = %v, want %v", got, tt.want)
			}
			if len(l.renders) != 1 {
				t.Errorf("MaterialRender calls = %d, want 1", len(l.renders))
			}
		})
	}
}

func TestExecuteQuadFarCorners(t *testing.T) {
	tests := []struct {
		name      string
		viewSpace bool
	}{
		{"world space", false},
		{"view space", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quad, _, vp := compiledQuad(t, func(p *Pass) {
				p.QuadFarCorners = true
				p.QuadFarCornersViewSpace = tt.viewSpace
			})
			cam := vp.Camera()
			cam.Position = render.Vector3{X: 1, Y: 2, Z: 3}

			sm := rendertest.NewSceneManager()
			sm.RS.Current = vp
			if err := Execute(quad, sm, sm.RS); err != nil {
				t.Fatalf("Execute(quad) error = %v", err)
			}

			c := cam.WorldSpaceCorners()
			want := [4]render.Vector3{c[5], c[6], c[4], c[7]}
			if tt.viewSpace {
				for i := range want {
					want[i] = want[i].Sub(cam.Position)
				}
			}
			got := sm.Injections[0].Normals
			for i := range want {
				if got[i].Sub(want[i]).Length() > 1e-9 {
					t.Errorf("normal %d = %v, want %v", i, got[i], want[i])
				}
			}
		})
	}
}
