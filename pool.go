// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"fmt"

	"github.com/gogpu/compositor/render"
	"github.com/gogpu/gputypes"
)

// poolKey identifies interchangeable pooled textures.
type poolKey struct {
	width, height int
	format        gputypes.TextureFormat
	fsaa          uint32
	fsaaHint      string
	hwGamma       bool
}

func newPoolKey(desc *render.TextureDescriptor) poolKey {
	return poolKey{
		width:    desc.Width,
		height:   desc.Height,
		format:   desc.Format,
		fsaa:     desc.FSAA,
		fsaaHint: desc.FSAAHint,
		hwGamma:  desc.HWGamma,
	}
}

// chainPoolKey identifies a chain scoped texture definition. All chains
// share one texture per definition and size.
type chainPoolKey struct {
	compositor string
	localName  string
}

// pooledTexture returns a pooled texture matching desc for inst, creating
// it when no pooled texture can be reused.
//
// A texture is never handed out twice within one resource creation pass
// (assigned), and never shared between an instance's input previous
// target and the previous instance's output inputs, or between the
// instance's output inputs and the next instance's input previous target.
func (m *Manager) pooledTexture(desc render.TextureDescriptor, localName string,
	assigned *[]*render.Texture, inst *Instance, scope TextureScope) (*render.Texture, error) {
	if scope == ScopeGlobal {
		return nil, fmt.Errorf("%w: %q", ErrGlobalPooled, localName)
	}
	key := newPoolKey(&desc)

	if scope == ScopeChain {
		ck := chainPoolKey{compositor: inst.compositor.name, localName: localName}
		byDef := m.chainTextures[ck]
		if byDef == nil {
			byDef = make(map[poolKey]*render.Texture)
			m.chainTextures[ck] = byDef
		}
		if tex, ok := byDef[key]; ok {
			return tex, nil
		}
		tex, err := m.textures.CreateManual(desc)
		if err != nil {
			return nil, err
		}
		byDef[key] = tex
		return tex, nil
	}

	previous := inst.chain.PreviousInstance(inst, true)
	next := inst.chain.NextInstance(inst, true)

	var found *render.Texture
	for _, tex := range m.texturesByDef[key] {
		if containsTexture(*assigned, tex) {
			continue
		}
		allow := true
		if isInputPreviousTarget(inst, localName) && previous != nil && isInputToOutputTexture(previous, tex) {
			allow = false
		}
		if isInputToOutputTarget(inst, localName) && next != nil && isInputPreviousTexture(next, tex) {
			allow = false
		}
		if allow {
			found = tex
			break
		}
	}
	if found == nil {
		tex, err := m.textures.CreateManual(desc)
		if err != nil {
			return nil, err
		}
		m.texturesByDef[key] = append(m.texturesByDef[key], tex)
		found = tex
	}
	*assigned = append(*assigned, found)
	return found, nil
}

// FreePooledTextures destroys pooled textures. With onlyIfUnreferenced
// only textures no instance holds are destroyed.
func (m *Manager) FreePooledTextures(onlyIfUnreferenced bool) {
	for key, list := range m.texturesByDef {
		kept := list[:0]
		for _, tex := range list {
			if onlyIfUnreferenced && tex.RefCount() > 0 {
				kept = append(kept, tex)
				continue
			}
			m.removePooled(tex)
		}
		if len(kept) == 0 {
			delete(m.texturesByDef, key)
		} else {
			m.texturesByDef[key] = kept
		}
	}
	for ck, byDef := range m.chainTextures {
		for key, tex := range byDef {
			if onlyIfUnreferenced && tex.RefCount() > 0 {
				continue
			}
			m.removePooled(tex)
			delete(byDef, key)
		}
		if len(byDef) == 0 {
			delete(m.chainTextures, ck)
		}
	}
}

func (m *Manager) removePooled(tex *render.Texture) {
	if err := m.textures.Remove(tex.Name()); err != nil {
		Logger().Warn("pooled texture release failed", "texture", tex.Name(), "error", err)
		return
	}
	Logger().Debug("pooled texture released", "texture", tex.Name())
}

// PooledTextureCount returns the number of textures held by the pool.
func (m *Manager) PooledTextureCount() int {
	n := 0
	for _, list := range m.texturesByDef {
		n += len(list)
	}
	for _, byDef := range m.chainTextures {
		n += len(byDef)
	}
	return n
}

func containsTexture(list []*render.Texture, tex *render.Texture) bool {
	for _, t := range list {
		if t == tex {
			return true
		}
	}
	return false
}

// isInputPreviousTarget reports whether an input previous target pass of
// inst writes localName.
func isInputPreviousTarget(inst *Instance, localName string) bool {
	for _, tp := range inst.technique.targetPasses {
		if tp.InputMode == InputPrevious && tp.OutputName == localName {
			return true
		}
	}
	return false
}

// isInputPreviousTexture reports whether an input previous target pass of
// inst writes tex.
func isInputPreviousTexture(inst *Instance, tex *render.Texture) bool {
	for _, tp := range inst.technique.targetPasses {
		if tp.InputMode != InputPrevious {
			continue
		}
		// An MRT cannot be an input previous target.
		if t, err := inst.TextureInstance(tp.OutputName, 0); err == nil && t == tex {
			return true
		}
	}
	return false
}

// isInputToOutputTarget reports whether the output target pass of inst
// samples localName.
func isInputToOutputTarget(inst *Instance, localName string) bool {
	for _, p := range inst.technique.output.passes {
		for _, in := range p.inputs {
			if in.Name == localName {
				return true
			}
		}
	}
	return false
}

// isInputToOutputTexture reports whether the output target pass of inst
// samples tex.
func isInputToOutputTexture(inst *Instance, tex *render.Texture) bool {
	for _, p := range inst.technique.output.passes {
		for _, in := range p.inputs {
			if in.Name == "" {
				continue
			}
			if t, err := inst.TextureInstance(in.Name, 0); err == nil && t == tex {
				return true
			}
		}
	}
	return false
}
