// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"fmt"
	"strings"

	"github.com/gogpu/compositor/render"
)

// Compositor is a named post-processing effect. It is created by
// Manager.CreateCompositor and applied to viewports through chains.
type Compositor struct {
	name    string
	manager *Manager

	techniques []*Technique
	supported  []*Technique
	compiled   bool

	globalTextures map[string]*render.Texture
	globalMRTs     map[string]*render.RenderTarget
	loaded         bool
}

func newCompositor(name string, m *Manager) *Compositor {
	return &Compositor{
		name:           name,
		manager:        m,
		globalTextures: make(map[string]*render.Texture),
		globalMRTs:     make(map[string]*render.RenderTarget),
	}
}

// Name returns the compositor name.
func (c *Compositor) Name() string { return c.name }

// Manager returns the manager the compositor is registered with.
func (c *Compositor) Manager() *Manager { return c.manager }

// CreateTechnique appends a technique with an empty output target pass.
func (c *Compositor) CreateTechnique() *Technique {
	t := &Technique{parent: c}
	t.output = newTargetPass(t)
	c.techniques = append(c.techniques, t)
	c.compiled = false
	return t
}

// Technique returns the i-th technique, or nil if out of range.
func (c *Compositor) Technique(i int) *Technique {
	if i < 0 || i >= len(c.techniques) {
		return nil
	}
	return c.techniques[i]
}

// Techniques returns every technique in declaration order.
func (c *Compositor) Techniques() []*Technique { return c.techniques }

// RemoveTechnique deletes the i-th technique.
func (c *Compositor) RemoveTechnique(i int) {
	if i < 0 || i >= len(c.techniques) {
		return
	}
	c.techniques = append(c.techniques[:i], c.techniques[i+1:]...)
	c.compiled = false
}

// RemoveAllTechniques deletes every technique.
func (c *Compositor) RemoveAllTechniques() {
	c.techniques = nil
	c.supported = nil
	c.compiled = false
}

// SupportedTechniques returns the techniques the render system supports.
// When none is supported natively, techniques supported with format
// degradation are returned instead.
func (c *Compositor) SupportedTechniques() []*Technique {
	if !c.compiled {
		c.compile()
	}
	return c.supported
}

func (c *Compositor) compile() {
	c.supported = c.supported[:0]
	caps := c.manager.caps
	for _, t := range c.techniques {
		if t.IsSupported(caps, false) {
			c.supported = append(c.supported, t)
		}
	}
	if len(c.supported) == 0 {
		for _, t := range c.techniques {
			if t.IsSupported(caps, true) {
				c.supported = append(c.supported, t)
			}
		}
	}
	c.compiled = true
}

// SupportedTechnique returns the first supported technique of scheme,
// falling back to the first supported technique without a scheme. It
// returns nil when neither exists.
func (c *Compositor) SupportedTechnique(scheme string) *Technique {
	supported := c.SupportedTechniques()
	for _, t := range supported {
		if t.SchemeName == scheme {
			return t
		}
	}
	for _, t := range supported {
		if t.SchemeName == "" {
			return t
		}
	}
	return nil
}

// Load selects supported techniques and creates global textures. It is
// called when the compositor is first added to a chain.
func (c *Compositor) Load() error {
	if c.loaded {
		return nil
	}
	c.compile()
	if err := c.createGlobalTextures(); err != nil {
		c.freeGlobalTextures()
		return err
	}
	c.loaded = true
	return nil
}

// Unload destroys global textures. Instances must be removed first.
func (c *Compositor) Unload() {
	c.freeGlobalTextures()
	c.loaded = false
}

// IsLoaded reports whether Load succeeded.
func (c *Compositor) IsLoaded() bool { return c.loaded }

// createGlobalTextures creates the global textures of the first supported
// technique. Every other supported technique must declare the same set.
func (c *Compositor) createGlobalTextures() error {
	if len(c.supported) == 0 {
		return nil
	}
	names := make(map[string]bool)
	for _, def := range c.supported[0].textureDefs {
		if def.Scope != ScopeGlobal {
			continue
		}
		if def.IsReference() {
			return fmt.Errorf("%w: %q of %q is a reference", ErrInvalidGlobalTexture, def.Name, c.name)
		}
		if def.IsViewportRelative() {
			return fmt.Errorf("%w: %q of %q must have absolute size", ErrInvalidGlobalTexture, def.Name, c.name)
		}
		if len(def.Formats) == 0 {
			return fmt.Errorf("%w: %q of %q has no formats", ErrInvalidTextureDefinition, def.Name, c.name)
		}
		if def.Pooled {
			Logger().Warn("pooling global compositor textures has no effect",
				"compositor", c.name, "texture", def.Name)
		}
		names[def.Name] = true

		var rt *render.RenderTarget
		if def.IsMRT() {
			base := fmt.Sprintf("mrt/c%d/%s/%s", c.manager.nextID(), c.name, def.Name)
			mrt, err := c.manager.textures.CreateMultiRenderTarget(base)
			if err != nil {
				return err
			}
			c.globalMRTs[def.Name] = mrt
			for i, f := range def.Formats {
				tex, err := c.manager.textures.CreateManual(render.TextureDescriptor{
					Name:    fmt.Sprintf("%s/%d", base, i),
					Width:   def.Width,
					Height:  def.Height,
					Format:  f,
					HWGamma: def.HWGammaWrite,
				})
				if err != nil {
					return err
				}
				tex.RenderTarget().AutoUpdated = false
				mrt.BindSurface(i, tex)
				c.globalTextures[mrtLocalName(def.Name, i)] = tex
			}
			rt = mrt
		} else {
			name := strings.ReplaceAll(fmt.Sprintf("c%d/%s/%s", c.manager.nextID(), c.name, def.Name), " ", "_")
			tex, err := c.manager.textures.CreateManual(render.TextureDescriptor{
				Name:    name,
				Width:   def.Width,
				Height:  def.Height,
				Format:  def.Formats[0],
				HWGamma: def.HWGammaWrite,
			})
			if err != nil {
				return err
			}
			rt = tex.RenderTarget()
			c.globalTextures[def.Name] = tex
		}
		rt.DepthBufferPool = def.DepthBufferID
		rt.AutoUpdated = false
	}

	for _, t := range c.supported[1:] {
		count := 0
		for _, def := range t.textureDefs {
			if def.Scope != ScopeGlobal {
				continue
			}
			if !names[def.Name] {
				return fmt.Errorf("%w: %q in %q", ErrInconsistentGlobals, def.Name, c.name)
			}
			count++
		}
		if count != len(names) {
			return fmt.Errorf("%w: %q", ErrInconsistentGlobals, c.name)
		}
	}
	return nil
}

func (c *Compositor) freeGlobalTextures() {
	for name, tex := range c.globalTextures {
		if err := c.manager.textures.Remove(tex.Name()); err != nil {
			Logger().Warn("global texture release failed", "compositor", c.name, "texture", name, "error", err)
		}
	}
	clear(c.globalTextures)
	for _, mrt := range c.globalMRTs {
		c.manager.textures.DestroyRenderTarget(mrt.Name())
	}
	clear(c.globalMRTs)
}

// TextureInstanceName returns the texture name of a global texture.
func (c *Compositor) TextureInstanceName(name string, mrtIndex int) (string, error) {
	tex, err := c.TextureInstance(name, mrtIndex)
	if err != nil {
		return "", err
	}
	return tex.Name(), nil
}

// TextureInstance returns a global texture. mrtIndex selects the surface of
// a multi render target.
func (c *Compositor) TextureInstance(name string, mrtIndex int) (*render.Texture, error) {
	if tex, ok := c.globalTextures[name]; ok {
		return tex, nil
	}
	if tex, ok := c.globalTextures[mrtLocalName(name, mrtIndex)]; ok {
		return tex, nil
	}
	return nil, fmt.Errorf("%w: global texture %q of %q", ErrTextureNotFound, name, c.name)
}

// RenderTarget returns the render target of a global texture or MRT.
func (c *Compositor) RenderTarget(name string) (*render.RenderTarget, error) {
	if tex, ok := c.globalTextures[name]; ok {
		return tex.RenderTarget(), nil
	}
	if mrt, ok := c.globalMRTs[name]; ok {
		return mrt, nil
	}
	return nil, fmt.Errorf("%w: global target %q of %q", ErrTextureNotFound, name, c.name)
}

// mrtLocalName returns the local name of surface i of an MRT definition.
func mrtLocalName(base string, i int) string {
	return fmt.Sprintf("%s/%d", base, i)
}
