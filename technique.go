// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"github.com/gogpu/compositor/render"
	"github.com/gogpu/gputypes"
)

// TextureScope controls who may reference a texture definition.
type TextureScope uint8

const (
	// ScopeLocal textures are visible only inside their own compositor.
	ScopeLocal TextureScope = iota

	// ScopeChain textures may be referenced by later compositors in the
	// same chain.
	ScopeChain

	// ScopeGlobal textures belong to the compositor and are shared by all
	// of its instances.
	ScopeGlobal
)

var textureScopeNames = [...]string{
	ScopeLocal:  "Local",
	ScopeChain:  "Chain",
	ScopeGlobal: "Global",
}

// String returns the scope name.
func (s TextureScope) String() string {
	if int(s) < len(textureScopeNames) {
		return textureScopeNames[s]
	}
	return "Unknown"
}

// TextureDefinition declares a named texture of a technique.
type TextureDefinition struct {
	Name string

	// Width and Height are absolute sizes. Zero means the size is
	// WidthFactor or HeightFactor times the viewport size.
	Width, Height             int
	WidthFactor, HeightFactor float64

	// Formats lists one format per surface. More than one format makes the
	// definition a multi render target.
	Formats []gputypes.TextureFormat

	// FSAA allows inheriting multisampling from the viewport target.
	FSAA bool

	// HWGammaWrite requests gamma corrected writes.
	HWGammaWrite bool

	// DepthBufferID selects the depth buffer pool of the render target.
	DepthBufferID uint16

	Pooled bool
	Scope  TextureScope

	// ReferenceCompositor and ReferenceTexture make the definition an alias
	// of a texture of another compositor. Size, formats and pooling are
	// then ignored.
	ReferenceCompositor string
	ReferenceTexture    string
}

// IsReference reports whether the definition aliases another compositor's
// texture.
func (d *TextureDefinition) IsReference() bool { return d.ReferenceCompositor != "" }

// IsViewportRelative reports whether the size depends on the viewport.
func (d *TextureDefinition) IsViewportRelative() bool { return d.Width == 0 || d.Height == 0 }

// IsMRT reports whether the definition is a multi render target.
func (d *TextureDefinition) IsMRT() bool { return len(d.Formats) > 1 }

// InputMode selects what a target pass starts from.
type InputMode uint8

const (
	// InputNone starts from the target's current contents.
	InputNone InputMode = iota

	// InputPrevious starts from the output of the previous compositor in
	// the chain.
	InputPrevious
)

// String returns the mode name.
func (m InputMode) String() string {
	if m == InputPrevious {
		return "Previous"
	}
	return "None"
}

// PassType identifies the kind of a Pass.
type PassType uint8

const (
	PassClear        PassType = iota // Clear buffers
	PassStencil                      // Configure the stencil test
	PassRenderScene                  // Render a range of scene queue groups
	PassRenderQuad                   // Render a full-screen quad with a material
	PassRenderCustom                 // Run a registered custom pass
)

var passTypeNames = [...]string{
	PassClear:        "Clear",
	PassStencil:      "Stencil",
	PassRenderScene:  "RenderScene",
	PassRenderQuad:   "RenderQuad",
	PassRenderCustom: "RenderCustom",
}

// String returns the pass type name.
func (t PassType) String() string {
	if int(t) < len(passTypeNames) {
		return passTypeNames[t]
	}
	return "Unknown"
}

// PassInput names a texture sampled by a quad pass. MRTIndex selects the
// surface of a multi render target.
type PassInput struct {
	Name     string
	MRTIndex int
}

// Pass is one primitive operation of a target pass. Only the fields of its
// type are used.
type Pass struct {
	parent *TargetPass
	typ    PassType

	// Identifier is passed to Listener material callbacks.
	Identifier uint32

	// Clear.
	ClearBuffers render.FrameBufferType
	ClearColor   gputypes.Color
	ClearDepth   float64
	ClearStencil uint32

	// Stencil.
	StencilCheck       bool
	StencilFunc        gputypes.CompareFunction
	StencilRefValue    uint32
	StencilMask        uint32
	StencilFailOp      gputypes.StencilOperation
	StencilDepthFailOp gputypes.StencilOperation
	StencilPassOp      gputypes.StencilOperation
	StencilTwoSided    bool

	// RenderScene. Queue groups in [FirstRenderQueue, LastRenderQueue)
	// render, using MaterialScheme when it is set.
	FirstRenderQueue render.QueueGroupID
	LastRenderQueue  render.QueueGroupID
	MaterialScheme   string

	// RenderQuad.
	MaterialName            string
	QuadFarCorners          bool
	QuadFarCornersViewSpace bool

	// RenderCustom.
	CustomType string

	inputs      []PassInput
	quadCorners bool
	quadLeft    float64
	quadTop     float64
	quadRight   float64
	quadBottom  float64
}

func newPass(parent *TargetPass, typ PassType) *Pass {
	return &Pass{
		parent:             parent,
		typ:                typ,
		ClearBuffers:       render.FrameBufferColor | render.FrameBufferDepth,
		ClearDepth:         1,
		StencilFunc:        gputypes.CompareFunctionAlways,
		StencilMask:        0xFFFFFFFF,
		StencilFailOp:      gputypes.StencilOperationKeep,
		StencilDepthFailOp: gputypes.StencilOperationKeep,
		StencilPassOp:      gputypes.StencilOperationKeep,
		FirstRenderQueue:   render.QueueBackground,
		LastRenderQueue:    render.QueueSkiesLate + 1,
	}
}

// Type returns the pass type.
func (p *Pass) Type() PassType { return p.typ }

// Parent returns the target pass owning the pass.
func (p *Pass) Parent() *TargetPass { return p.parent }

// SetInput binds input slot id to a local texture name. mrtIndex selects a
// surface when the texture is a multi render target.
func (p *Pass) SetInput(id int, name string, mrtIndex int) {
	for len(p.inputs) <= id {
		p.inputs = append(p.inputs, PassInput{})
	}
	p.inputs[id] = PassInput{Name: name, MRTIndex: mrtIndex}
}

// Input returns the input bound to slot id.
func (p *Pass) Input(id int) PassInput {
	if id < 0 || id >= len(p.inputs) {
		return PassInput{}
	}
	return p.inputs[id]
}

// NumInputs returns the number of input slots.
func (p *Pass) NumInputs() int { return len(p.inputs) }

// ClearAllInputs unbinds every input.
func (p *Pass) ClearAllInputs() { p.inputs = nil }

// SetQuadCorners overrides the quad edges in normalized device coordinates.
func (p *Pass) SetQuadCorners(left, top, right, bottom float64) {
	p.quadCorners = true
	p.quadLeft, p.quadTop, p.quadRight, p.quadBottom = left, top, right, bottom
}

// QuadCorners returns the quad edges and whether they were overridden.
func (p *Pass) QuadCorners() (left, top, right, bottom float64, ok bool) {
	return p.quadLeft, p.quadTop, p.quadRight, p.quadBottom, p.quadCorners
}

// TargetPass is the work rendered into one texture, or into the final
// output for the technique's output target pass.
type TargetPass struct {
	parent *Technique
	passes []*Pass

	InputMode InputMode

	// OutputName is the local texture written. Unused for the output target.
	OutputName string

	// OnlyInitial renders the target once and keeps the result.
	OnlyInitial bool

	VisibilityMask uint32
	LodBias        float64
	MaterialScheme string
	ShadowsEnabled bool
}

func newTargetPass(parent *Technique) *TargetPass {
	return &TargetPass{
		parent:         parent,
		VisibilityMask: 0xFFFFFFFF,
		LodBias:        1,
		ShadowsEnabled: true,
	}
}

// Parent returns the technique owning the target pass.
func (tp *TargetPass) Parent() *Technique { return tp.parent }

// CreatePass appends a pass of the given type.
func (tp *TargetPass) CreatePass(typ PassType) *Pass {
	p := newPass(tp, typ)
	tp.passes = append(tp.passes, p)
	return p
}

// Pass returns the i-th pass, or nil if out of range.
func (tp *TargetPass) Pass(i int) *Pass {
	if i < 0 || i >= len(tp.passes) {
		return nil
	}
	return tp.passes[i]
}

// Passes returns the passes in order.
func (tp *TargetPass) Passes() []*Pass { return tp.passes }

// NumPasses returns the number of passes.
func (tp *TargetPass) NumPasses() int { return len(tp.passes) }

// RemoveAllPasses empties the target pass.
func (tp *TargetPass) RemoveAllPasses() { tp.passes = nil }

// Technique is one way of realizing a compositor.
type Technique struct {
	parent       *Compositor
	textureDefs  []*TextureDefinition
	targetPasses []*TargetPass
	output       *TargetPass

	// SchemeName selects the technique by compositor scheme. Empty is the
	// fallback for every scheme.
	SchemeName string

	// LogicName names a registered Logic notified about instances.
	LogicName string
}

// Parent returns the compositor owning the technique.
func (t *Technique) Parent() *Compositor { return t.parent }

// CreateTextureDefinition appends a texture definition with default
// settings: viewport sized, local scope, FSAA allowed, depth pool 1.
func (t *Technique) CreateTextureDefinition(name string) *TextureDefinition {
	def := &TextureDefinition{
		Name:          name,
		WidthFactor:   1,
		HeightFactor:  1,
		FSAA:          true,
		DepthBufferID: 1,
		Scope:         ScopeLocal,
	}
	t.textureDefs = append(t.textureDefs, def)
	return def
}

// TextureDefinition returns the definition named name, or nil.
func (t *Technique) TextureDefinition(name string) *TextureDefinition {
	for _, def := range t.textureDefs {
		if def.Name == name {
			return def
		}
	}
	return nil
}

// TextureDefinitions returns the definitions in declaration order.
func (t *Technique) TextureDefinitions() []*TextureDefinition { return t.textureDefs }

// RemoveTextureDefinition deletes the definition named name.
func (t *Technique) RemoveTextureDefinition(name string) {
	for i, def := range t.textureDefs {
		if def.Name == name {
			t.textureDefs = append(t.textureDefs[:i], t.textureDefs[i+1:]...)
			return
		}
	}
}

// CreateTargetPass appends an intermediate target pass.
func (t *Technique) CreateTargetPass() *TargetPass {
	tp := newTargetPass(t)
	t.targetPasses = append(t.targetPasses, tp)
	return tp
}

// TargetPasses returns the intermediate target passes in order.
func (t *Technique) TargetPasses() []*TargetPass { return t.targetPasses }

// OutputTargetPass returns the target pass rendering the final output.
func (t *Technique) OutputTargetPass() *TargetPass { return t.output }

// IsSupported reports whether the render system can create every texture
// of the technique. With allowDegradation, formats may fall back to an
// equivalent supported format.
func (t *Technique) IsSupported(caps Capabilities, allowDegradation bool) bool {
	for _, def := range t.textureDefs {
		if def.IsReference() {
			continue
		}
		if len(def.Formats) == 0 || len(def.Formats) > caps.MaxMultiRenderTargets {
			return false
		}
		for _, f := range def.Formats {
			if !caps.supportsFormat(f, allowDegradation) {
				return false
			}
		}
	}
	return true
}
