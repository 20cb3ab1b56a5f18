// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"fmt"

	"github.com/gogpu/compositor/render"
)

// TextureInstanceName returns the texture name bound to local texture name.
// References to other compositors are resolved; mrtIndex selects the
// surface of a multi render target.
func (i *Instance) TextureInstanceName(name string, mrtIndex int) (string, error) {
	tex, err := i.TextureInstance(name, mrtIndex)
	if err != nil {
		return "", err
	}
	return tex.Name(), nil
}

// TextureInstance returns the texture bound to local texture name.
func (i *Instance) TextureInstance(name string, mrtIndex int) (*render.Texture, error) {
	def := i.technique.TextureDefinition(name)
	if def == nil {
		return nil, fmt.Errorf("%w: %q in %q", ErrTextureDefinitionNotFound, name, i.compositor.name)
	}
	if def.IsReference() {
		inst, comp, err := i.resolveReference(def)
		if err != nil {
			return nil, err
		}
		if inst != nil {
			return inst.TextureInstance(def.ReferenceTexture, mrtIndex)
		}
		return comp.TextureInstance(def.ReferenceTexture, mrtIndex)
	}

	local := name
	if def.IsMRT() {
		local = mrtLocalName(name, mrtIndex)
	}
	tex, ok := i.localTextures[local]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %q", ErrTextureNotFound, local, i.compositor.name)
	}
	return tex, nil
}

// RenderTarget returns the render target of local texture or MRT name.
func (i *Instance) RenderTarget(name string) (*render.RenderTarget, error) {
	if tex, ok := i.localTextures[name]; ok {
		return tex.RenderTarget(), nil
	}
	if mrt, ok := i.localMRTs[name]; ok {
		return mrt, nil
	}
	if def := i.technique.TextureDefinition(name); def != nil && def.IsReference() {
		inst, comp, err := i.resolveReference(def)
		if err != nil {
			return nil, err
		}
		if inst != nil {
			return inst.RenderTarget(def.ReferenceTexture)
		}
		return comp.RenderTarget(def.ReferenceTexture)
	}
	return nil, fmt.Errorf("%w: target %q in %q", ErrTextureNotFound, name, i.compositor.name)
}

// resolveReference finds the owner of a referenced texture. Chain scoped
// textures resolve to an enabled instance earlier in the chain; global
// textures resolve to the compositor itself.
func (i *Instance) resolveReference(def *TextureDefinition) (*Instance, *Compositor, error) {
	ref := i.manager().Compositor(def.ReferenceCompositor)
	if ref == nil {
		return nil, nil, fmt.Errorf("%w: %q referenced by %q", ErrCompositorNotFound, def.ReferenceCompositor, i.compositor.name)
	}
	tech := ref.SupportedTechnique("")
	var refDef *TextureDefinition
	if tech != nil {
		refDef = tech.TextureDefinition(def.ReferenceTexture)
	}
	if refDef == nil {
		return nil, nil, fmt.Errorf("%w: %q in %q", ErrTextureDefinitionNotFound, def.ReferenceTexture, ref.name)
	}

	switch refDef.Scope {
	case ScopeChain:
		var owner *Instance
		beforeMe := true
		for _, other := range i.chain.instances {
			if other.compositor.name == def.ReferenceCompositor {
				owner = other
				break
			}
			if other == i {
				beforeMe = false
			}
		}
		if owner == nil || !owner.Enabled() {
			return nil, nil, fmt.Errorf("%w: %q", ErrInactiveReference, def.ReferenceCompositor)
		}
		if !beforeMe {
			return nil, nil, fmt.Errorf("%w: %q follows %q", ErrChainOrder, def.ReferenceCompositor, i.compositor.name)
		}
		return owner, nil, nil
	case ScopeGlobal:
		return nil, ref, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q of %q", ErrLocalTextureReference, def.ReferenceTexture, ref.name)
	}
}
