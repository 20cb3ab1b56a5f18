// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"fmt"
	"strings"

	"github.com/gogpu/compositor/render"
	"github.com/gogpu/gputypes"
)

// CreateResources creates the textures of the active technique. With
// forResizeOnly only viewport sized textures are created.
//
// Global definitions link to the compositor's textures. Pooled definitions
// take a texture from the manager's pool. Every other definition gets a
// new texture named c<n>/<definition>/<viewport target>.
func (i *Instance) CreateResources(forResizeOnly bool) error {
	m := i.manager()
	vp := i.chain.viewport
	var assigned []*render.Texture

	for _, def := range i.technique.textureDefs {
		if def.IsReference() {
			continue
		}
		if def.Scope == ScopeGlobal {
			if err := i.linkGlobal(def); err != nil {
				return err
			}
			continue
		}
		if forResizeOnly && !def.IsViewportRelative() {
			continue
		}
		if len(def.Formats) == 0 {
			return fmt.Errorf("%w: %q of %q has no formats", ErrInvalidTextureDefinition, def.Name, i.compositor.name)
		}

		width, height := def.Width, def.Height
		if width == 0 {
			width = int(float64(vp.ActualWidth()) * def.WidthFactor)
		}
		if height == 0 {
			height = int(float64(vp.ActualHeight()) * def.HeightFactor)
		}

		hwGamma, fsaa, fsaaHint := i.DeriveTextureRenderTargetOptions(def.Name)
		if !def.FSAA {
			fsaa, fsaaHint = 0, ""
		}
		hwGamma = hwGamma || def.HWGammaWrite

		var rt *render.RenderTarget
		if def.IsMRT() {
			base := fmt.Sprintf("c%d/%s/%s", m.nextID(), def.Name, vp.Target().Name())
			mrt, err := m.textures.CreateMultiRenderTarget(base)
			if err != nil {
				return err
			}
			i.localMRTs[def.Name] = mrt
			for j, f := range def.Formats {
				tex, err := i.acquireTexture(def, render.TextureDescriptor{
					Name:     mrtLocalName(base, j),
					Width:    width,
					Height:   height,
					Format:   f,
					FSAA:     fsaa,
					FSAAHint: fsaaHint,
					HWGamma:  hwGamma && !render.IsFloatFormat(f),
				}, mrtLocalName(def.Name, j), &assigned)
				if err != nil {
					return err
				}
				tex.RenderTarget().AutoUpdated = false
				mrt.BindSurface(j, tex)
				i.setLocalTexture(mrtLocalName(def.Name, j), tex)
			}
			rt = mrt
		} else {
			name := strings.ReplaceAll(fmt.Sprintf("c%d/%s/%s", m.nextID(), def.Name, vp.Target().Name()), " ", "_")
			f := def.Formats[0]
			tex, err := i.acquireTexture(def, render.TextureDescriptor{
				Name:     name,
				Width:    width,
				Height:   height,
				Format:   f,
				FSAA:     fsaa,
				FSAAHint: fsaaHint,
				HWGamma:  hwGamma && !render.IsFloatFormat(f),
			}, def.Name, &assigned)
			if err != nil {
				return err
			}
			rt = tex.RenderTarget()
			i.setLocalTexture(def.Name, tex)
		}

		rt.DepthBufferPool = def.DepthBufferID
		if rt.NumViewports() == 0 {
			v := attachCamera(rt, vp.Camera())
			v.ClearEveryFrame = false
			v.ShowOverlays = false
			v.BackgroundColor = gputypes.Color{}
		}
		rt.AutoUpdated = false
	}

	Logger().Debug("compositor resources created",
		"compositor", i.compositor.name, "resize", forResizeOnly, "textures", len(i.localTextures))
	i.fireResourcesCreated(forResizeOnly)
	return nil
}

// acquireTexture returns a pooled texture or creates a new one.
func (i *Instance) acquireTexture(def *TextureDefinition, desc render.TextureDescriptor,
	localName string, assigned *[]*render.Texture) (*render.Texture, error) {
	if def.Pooled {
		return i.manager().pooledTexture(desc, localName, assigned, i, def.Scope)
	}
	return i.manager().textures.CreateManual(desc)
}

// linkGlobal records the compositor's global texture of def as local.
func (i *Instance) linkGlobal(def *TextureDefinition) error {
	if def.IsMRT() {
		mrt, err := i.compositor.RenderTarget(def.Name)
		if err != nil {
			return err
		}
		i.localMRTs[def.Name] = mrt
		for j := range def.Formats {
			tex, err := i.compositor.TextureInstance(def.Name, j)
			if err != nil {
				return err
			}
			i.setLocalTexture(mrtLocalName(def.Name, j), tex)
		}
		return nil
	}
	tex, err := i.compositor.TextureInstance(def.Name, 0)
	if err != nil {
		return err
	}
	i.setLocalTexture(def.Name, tex)
	return nil
}

// attachCamera adds a viewport for cam to rt. The camera keeps its aspect
// ratio and its current viewport.
func attachCamera(rt *render.RenderTarget, cam *render.Camera) *render.Viewport {
	if cam == nil {
		return rt.AddViewport(nil)
	}
	aspect := cam.AspectRatio()
	prev := cam.Viewport()
	v := rt.AddViewport(cam)
	cam.SetAspectRatio(aspect)
	cam.NotifyViewport(prev)
	return v
}

// FreeResources releases the textures of the active technique. With
// forResizeOnly only viewport sized textures are released. clearReserved
// also drops the textures reserved by SetTechnique.
func (i *Instance) FreeResources(forResizeOnly, clearReserved bool) {
	m := i.manager()
	for _, def := range i.technique.textureDefs {
		if def.IsReference() {
			continue
		}
		if forResizeOnly && !def.IsViewportRelative() {
			continue
		}
		surfaces := 1
		if def.IsMRT() {
			surfaces = len(def.Formats)
		}
		for j := 0; j < surfaces; j++ {
			name := def.Name
			if def.IsMRT() {
				name = mrtLocalName(def.Name, j)
			}
			tex := i.dropLocalTexture(name)
			if tex == nil {
				continue
			}
			if !def.Pooled && def.Scope != ScopeGlobal {
				if err := m.textures.Remove(tex.Name()); err != nil {
					Logger().Warn("compositor texture release failed",
						"compositor", i.compositor.name, "texture", tex.Name(), "error", err)
				}
			}
		}
		if def.IsMRT() {
			if mrt, ok := i.localMRTs[def.Name]; ok {
				if def.Scope != ScopeGlobal {
					m.textures.DestroyRenderTarget(mrt.Name())
				}
				delete(i.localMRTs, def.Name)
			}
		}
	}

	if clearReserved {
		for def, tex := range i.reserved {
			if forResizeOnly && !def.IsViewportRelative() {
				continue
			}
			tex.Release()
			delete(i.reserved, def)
		}
	}

	m.FreePooledTextures(true)
}

// DeriveTextureRenderTargetOptions returns the gamma and multisampling
// settings texture texName inherits from the viewport target. Only
// textures the original scene renders into inherit them: those written by
// a render scene pass, or by an input previous pass when no enabled
// instance precedes this one.
func (i *Instance) DeriveTextureRenderTargetOptions(texName string) (hwGamma bool, fsaa uint32, fsaaHint string) {
	renderingScene := false
	for _, tp := range i.technique.targetPasses {
		if tp.OutputName != texName {
			continue
		}
		if tp.InputMode == InputPrevious {
			renderingScene = true
			for _, other := range i.chain.instances {
				if other == i {
					break
				}
				if other.Enabled() {
					renderingScene = false
				}
			}
			if renderingScene {
				break
			}
			continue
		}
		for _, p := range tp.passes {
			if p.typ == PassRenderScene {
				renderingScene = true
				break
			}
		}
	}
	if !renderingScene {
		return false, 0, ""
	}
	target := i.chain.viewport.Target()
	return target.HWGamma, target.FSAA, target.FSAAHint
}
