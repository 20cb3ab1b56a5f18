// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"fmt"

	"github.com/gogpu/compositor/material"
	"github.com/gogpu/compositor/render"
)

// InstanceState is the resource state of an Instance.
type InstanceState uint8

const (
	// StateDisabled instances own no textures and are skipped by compilation.
	StateDisabled InstanceState = iota

	// StateResourcesCreated instances own their textures and take part in
	// the chain.
	StateResourcesCreated
)

// String returns the state name.
func (s InstanceState) String() string {
	if s == StateResourcesCreated {
		return "ResourcesCreated"
	}
	return "Disabled"
}

// Listener receives notifications about an instance.
type Listener interface {
	// MaterialSetup is called once when a quad pass material is created.
	MaterialSetup(passID uint32, mat *material.Material)

	// MaterialRender is called each time before a quad pass renders.
	MaterialRender(passID uint32, mat *material.Material)

	// ResourcesCreated is called after the instance created its textures.
	ResourcesCreated(forResizeOnly bool)
}

// Instance is a compositor applied to one chain. It owns the textures of
// the selected technique while enabled.
type Instance struct {
	compositor *Compositor
	technique  *Technique
	chain      *Chain
	state      InstanceState

	// scheme is the scheme the technique was selected for.
	scheme string

	localTextures map[string]*render.Texture
	localMRTs     map[string]*render.RenderTarget

	// reserved keeps pooled textures alive across a technique switch.
	reserved map[*TextureDefinition]*render.Texture

	// previous is the preceding enabled instance, set by chain compilation.
	previous *Instance

	listeners []Listener
}

func newInstance(tech *Technique, chain *Chain) *Instance {
	return &Instance{
		compositor:    tech.parent,
		technique:     tech,
		chain:         chain,
		scheme:        tech.SchemeName,
		localTextures: make(map[string]*render.Texture),
		localMRTs:     make(map[string]*render.RenderTarget),
		reserved:      make(map[*TextureDefinition]*render.Texture),
	}
}

// Compositor returns the compositor the instance applies.
func (i *Instance) Compositor() *Compositor { return i.compositor }

// Technique returns the active technique.
func (i *Instance) Technique() *Technique { return i.technique }

// Chain returns the chain holding the instance.
func (i *Instance) Chain() *Chain { return i.chain }

// State returns the resource state.
func (i *Instance) State() InstanceState { return i.state }

// Enabled reports whether the instance takes part in its chain.
func (i *Instance) Enabled() bool { return i.state == StateResourcesCreated }

// Scheme returns the scheme the technique was selected for.
func (i *Instance) Scheme() string { return i.scheme }

// Previous returns the enabled instance before this one as of the last
// chain compilation.
func (i *Instance) Previous() *Instance { return i.previous }

func (i *Instance) manager() *Manager { return i.compositor.manager }

// SetEnabled creates or frees the instance's textures and marks the chain
// for recompilation. When creation fails the instance stays disabled.
func (i *Instance) SetEnabled(enabled bool) error {
	if enabled == i.Enabled() {
		return nil
	}
	if enabled {
		i.state = StateResourcesCreated
		if err := i.CreateResources(false); err != nil {
			i.FreeResources(false, true)
			i.state = StateDisabled
			return err
		}
	} else {
		i.FreeResources(false, true)
		i.state = StateDisabled
	}
	Logger().Debug("compositor instance toggled",
		"compositor", i.compositor.name, "enabled", enabled)
	i.chain.MarkDirty()
	return nil
}

// SetTechnique switches to tech. With reuseTextures, pooled textures of the
// current technique are reserved so the new technique can pick them up
// without reallocation.
func (i *Instance) SetTechnique(tech *Technique, reuseTextures bool) error {
	if tech == nil || tech == i.technique {
		return nil
	}
	if reuseTextures {
		for _, def := range i.technique.textureDefs {
			if !def.Pooled {
				continue
			}
			if tex, ok := i.localTextures[def.Name]; ok {
				i.reserve(def, tex)
			}
		}
	}
	i.technique = tech
	if !i.Enabled() {
		return nil
	}
	i.FreeResources(false, !reuseTextures)
	err := i.CreateResources(false)
	if err != nil {
		i.FreeResources(false, true)
		i.state = StateDisabled
	}
	i.chain.MarkDirty()
	return err
}

// SetScheme switches to the supported technique of scheme.
func (i *Instance) SetScheme(scheme string, reuseTextures bool) error {
	tech := i.compositor.SupportedTechnique(scheme)
	if tech == nil {
		return fmt.Errorf("%w: %q for scheme %q", ErrNoSupportedTechnique, i.compositor.name, scheme)
	}
	i.scheme = scheme
	return i.SetTechnique(tech, reuseTextures)
}

// NotifyResized recreates the viewport sized textures.
func (i *Instance) NotifyResized() error {
	if !i.Enabled() {
		return nil
	}
	i.FreeResources(true, true)
	return i.CreateResources(true)
}

// NotifyCameraChanged rebinds the viewports of the instance's targets to
// cam.
func (i *Instance) NotifyCameraChanged(cam *render.Camera) {
	if cam == nil {
		return
	}
	for _, tex := range i.localTextures {
		// MRT surfaces have no viewport of their own.
		if rt := tex.RenderTarget(); rt.NumViewports() == 1 {
			bindCamera(rt.Viewport(0), cam)
		}
	}
	for _, mrt := range i.localMRTs {
		if mrt.NumViewports() > 0 {
			bindCamera(mrt.Viewport(0), cam)
		}
	}
}

// AddListener registers l for notifications.
func (i *Instance) AddListener(l Listener) {
	i.listeners = append(i.listeners, l)
}

// RemoveListener unregisters l.
func (i *Instance) RemoveListener(l Listener) {
	for j, x := range i.listeners {
		if x == l {
			i.listeners = append(i.listeners[:j], i.listeners[j+1:]...)
			return
		}
	}
}

func (i *Instance) fireMaterialSetup(passID uint32, mat *material.Material) {
	for _, l := range i.listeners {
		l.MaterialSetup(passID, mat)
	}
}

func (i *Instance) fireMaterialRender(passID uint32, mat *material.Material) {
	for _, l := range i.listeners {
		l.MaterialRender(passID, mat)
	}
}

func (i *Instance) fireResourcesCreated(forResizeOnly bool) {
	for _, l := range i.listeners {
		l.ResourcesCreated(forResizeOnly)
	}
}

func (i *Instance) setLocalTexture(name string, tex *render.Texture) {
	tex.Acquire()
	if old, ok := i.localTextures[name]; ok {
		old.Release()
	}
	i.localTextures[name] = tex
}

func (i *Instance) dropLocalTexture(name string) *render.Texture {
	tex, ok := i.localTextures[name]
	if !ok {
		return nil
	}
	delete(i.localTextures, name)
	tex.Release()
	return tex
}

func (i *Instance) reserve(def *TextureDefinition, tex *render.Texture) {
	tex.Acquire()
	if old, ok := i.reserved[def]; ok {
		old.Release()
	}
	i.reserved[def] = tex
}

// activate notifies the technique's logic that the instance exists.
func (i *Instance) activate() {
	if logic := i.manager().logic(i.technique.LogicName); logic != nil {
		logic.InstanceCreated(i)
	}
}

// destroy frees every resource and notifies the technique's logic.
func (i *Instance) destroy() {
	if i.Enabled() {
		i.FreeResources(false, true)
		i.state = StateDisabled
	}
	if logic := i.manager().logic(i.technique.LogicName); logic != nil {
		logic.InstanceDestroyed(i)
	}
}
