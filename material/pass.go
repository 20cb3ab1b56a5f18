// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package material

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// SceneBlend selects how a pass combines with the existing target pixels.
type SceneBlend uint8

const (
	// BlendReplace overwrites the target.
	BlendReplace SceneBlend = iota

	// BlendAlpha composites source over target by source alpha.
	BlendAlpha
)

// TextureUnitState binds one texture to a pass sampler slot.
type TextureUnitState struct {
	textureName string

	AddressMode gputypes.AddressMode
	Filter      gputypes.FilterMode
}

// TextureName returns the bound texture name.
func (t *TextureUnitState) TextureName() string { return t.textureName }

// SetTextureName binds the texture registered under name.
func (t *TextureUnitState) SetTextureName(name string) { t.textureName = name }

// Pass is one rendering of geometry with a fixed state.
type Pass struct {
	parent *Technique

	Name  string
	Blend SceneBlend

	// FragmentSource is WGSL source for the fragment stage. Empty means the
	// back end's fixed texturing path is used.
	FragmentSource string

	units []*TextureUnitState
	spirv []byte
}

// Parent returns the technique owning the pass.
func (p *Pass) Parent() *Technique { return p.parent }

// CreateTextureUnitState appends a texture unit bound to textureName.
func (p *Pass) CreateTextureUnitState(textureName string) *TextureUnitState {
	tu := &TextureUnitState{
		textureName: textureName,
		AddressMode: gputypes.AddressModeClampToEdge,
		Filter:      gputypes.FilterModeLinear,
	}
	p.units = append(p.units, tu)
	return tu
}

// TextureUnitState returns the i-th texture unit, or nil if out of range.
func (p *Pass) TextureUnitState(i int) *TextureUnitState {
	if i < 0 || i >= len(p.units) {
		return nil
	}
	return p.units[i]
}

// NumTextureUnitStates returns the number of texture units.
func (p *Pass) NumTextureUnitStates() int { return len(p.units) }

// Program returns the compiled SPIR-V of the fragment program, or nil.
func (p *Pass) Program() []byte { return p.spirv }

// compile builds the fragment program if there is one and it is not yet
// compiled.
func (p *Pass) compile() error {
	if p.FragmentSource == "" || p.spirv != nil {
		return nil
	}
	code, err := naga.Compile(p.FragmentSource)
	if err != nil {
		return fmt.Errorf("%w: pass %q: %w", ErrProgramCompile, p.Name, err)
	}
	if len(code) < 4 || binary.LittleEndian.Uint32(code) != spirvMagic {
		return fmt.Errorf("%w: pass %q: invalid SPIR-V header", ErrProgramCompile, p.Name)
	}
	p.spirv = code
	return nil
}

// CopyTo makes dst a deep copy of p. The destination keeps its parent.
func (p *Pass) CopyTo(dst *Pass) {
	dst.Name = p.Name
	dst.Blend = p.Blend
	dst.FragmentSource = p.FragmentSource
	dst.spirv = p.spirv
	dst.units = make([]*TextureUnitState, len(p.units))
	for i, tu := range p.units {
		cp := *tu
		dst.units[i] = &cp
	}
}
