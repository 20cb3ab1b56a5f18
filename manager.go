// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gogpu/compositor/material"
	"github.com/gogpu/compositor/render"
	"github.com/gogpu/gpucontext"
)

// SceneCompositorName is the default name of the built-in compositor that
// renders the original scene at the start of every chain.
const SceneCompositorName = "gogpu/Scene"

// Manager registers compositors, owns the chain of every viewport and
// pools compositor textures.
//
// Manager is not safe for concurrent use. It is driven from the render
// loop.
type Manager struct {
	textures  *render.TextureManager
	materials *material.Manager
	caps      Capabilities

	compositors map[string]*Compositor
	scene       *Compositor

	chains     map[*render.Viewport]*Chain
	chainOrder []*Chain

	customPasses *gpucontext.Registry[CustomPass]
	logics       *gpucontext.Registry[Logic]

	texturesByDef map[poolKey][]*render.Texture
	chainTextures map[chainPoolKey]map[poolKey]*render.Texture

	rect    *render.Rectangle2D
	counter uint64
}

// NewManager creates a manager with the built-in scene compositor.
func NewManager(opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.textures == nil {
		o.textures = render.NewTextureManager(render.ImageAllocator{}, render.WithMaxMemoryMB(o.budgetMB))
	}
	if o.materials == nil {
		o.materials = material.NewManager()
	}
	m := &Manager{
		textures:      o.textures,
		materials:     o.materials,
		caps:          o.caps,
		compositors:   make(map[string]*Compositor),
		chains:        make(map[*render.Viewport]*Chain),
		customPasses:  gpucontext.NewRegistry[CustomPass](),
		logics:        gpucontext.NewRegistry[Logic](),
		texturesByDef: make(map[poolKey][]*render.Texture),
		chainTextures: make(map[chainPoolKey]map[poolKey]*render.Texture),
		rect:          render.NewRectangle2D(),
	}
	m.scene = m.createSceneCompositor(o.sceneName)
	return m
}

// createSceneCompositor registers the compositor that renders the
// original scene. Chains use private copies of its technique.
func (m *Manager) createSceneCompositor(name string) *Compositor {
	c := newCompositor(name, m)
	c.techniques = append(c.techniques, newSceneTechnique(c))
	c.compile()
	c.loaded = true
	m.compositors[name] = c
	return c
}

// newSceneTechnique returns a technique whose output clears the target and
// renders the scene up to the late skies.
func newSceneTechnique(c *Compositor) *Technique {
	t := &Technique{parent: c}
	t.output = newTargetPass(t)
	t.output.CreatePass(PassClear)
	t.output.CreatePass(PassRenderScene)
	return t
}

// nextID returns a fresh number for unique resource names.
func (m *Manager) nextID() uint64 {
	id := m.counter
	m.counter++
	return id
}

// Textures returns the texture manager compositor textures live in.
func (m *Manager) Textures() *render.TextureManager { return m.textures }

// Materials returns the material manager quad passes use.
func (m *Manager) Materials() *material.Manager { return m.materials }

// Capabilities returns the render system capabilities.
func (m *Manager) Capabilities() Capabilities { return m.caps }

// SceneCompositor returns the built-in scene compositor.
func (m *Manager) SceneCompositor() *Compositor { return m.scene }

// CreateCompositor registers an empty compositor under name.
func (m *Manager) CreateCompositor(name string) (*Compositor, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, ok := m.compositors[name]; ok {
		return nil, fmt.Errorf("%w: compositor %q", ErrDuplicateName, name)
	}
	c := newCompositor(name, m)
	m.compositors[name] = c
	return c, nil
}

// Compositor returns the compositor registered under name, or nil.
func (m *Manager) Compositor(name string) *Compositor {
	return m.compositors[name]
}

// CompositorNames returns the registered compositor names in sorted order.
func (m *Manager) CompositorNames() []string {
	names := make([]string, 0, len(m.compositors))
	for name := range m.compositors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RemoveCompositor unloads and unregisters a compositor. Instances of it
// must have been removed from every chain.
func (m *Manager) RemoveCompositor(name string) error {
	c, ok := m.compositors[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrCompositorNotFound, name)
	}
	if c == m.scene {
		return fmt.Errorf("%w: %q", ErrBuiltinCompositor, name)
	}
	c.Unload()
	delete(m.compositors, name)
	return nil
}

// Chain returns the chain of vp, creating it on first use.
func (m *Manager) Chain(vp *render.Viewport) *Chain {
	if c, ok := m.chains[vp]; ok {
		return c
	}
	c := newChain(m, vp)
	m.chains[vp] = c
	m.chainOrder = append(m.chainOrder, c)
	return c
}

// HasChain reports whether vp has a chain.
func (m *Manager) HasChain(vp *render.Viewport) bool {
	_, ok := m.chains[vp]
	return ok
}

// RemoveChain destroys the chain of vp and every instance in it.
func (m *Manager) RemoveChain(vp *render.Viewport) {
	c, ok := m.chains[vp]
	if !ok {
		return
	}
	c.destroy()
	delete(m.chains, vp)
	for i, x := range m.chainOrder {
		if x == c {
			m.chainOrder = append(m.chainOrder[:i], m.chainOrder[i+1:]...)
			break
		}
	}
}

// AddCompositor appends compositor name to the chain of vp at position
// pos, or at the end when pos is negative. The instance starts disabled.
func (m *Manager) AddCompositor(vp *render.Viewport, name string, pos int) (*Instance, error) {
	c := m.compositors[name]
	if c == nil {
		return nil, fmt.Errorf("%w: %q", ErrCompositorNotFound, name)
	}
	return m.Chain(vp).AddCompositor(c, pos, "")
}

// RemoveCompositorFromViewport removes the first instance of compositor
// name from the chain of vp.
func (m *Manager) RemoveCompositorFromViewport(vp *render.Viewport, name string) {
	c, ok := m.chains[vp]
	if !ok {
		return
	}
	if pos := c.Position(name); pos >= 0 {
		c.RemoveCompositor(pos)
	}
}

// SetCompositorEnabled enables or disables the first instance of
// compositor name in the chain of vp.
func (m *Manager) SetCompositorEnabled(vp *render.Viewport, name string, enabled bool) error {
	c, ok := m.chains[vp]
	if !ok {
		return fmt.Errorf("%w: %q has no chain", ErrCompositorNotFound, name)
	}
	pos := c.Position(name)
	if pos < 0 {
		return fmt.Errorf("%w: %q not in chain", ErrCompositorNotFound, name)
	}
	return c.SetCompositorEnabled(pos, enabled)
}

// ReconstructAllResources recreates the textures of every enabled instance,
// for example after the device was lost. Every instance is disabled first
// so shared textures are released before any is recreated.
func (m *Manager) ReconstructAllResources() error {
	var reenable []*Instance
	for _, c := range m.chainOrder {
		for _, inst := range c.instances {
			if inst.Enabled() {
				_ = inst.SetEnabled(false)
				reenable = append(reenable, inst)
			}
		}
	}
	var errs []error
	for _, inst := range reenable {
		if err := inst.SetEnabled(true); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RegisterCustomPass registers p for render custom passes of type name.
func (m *Manager) RegisterCustomPass(name string, p CustomPass) error {
	if name == "" {
		return ErrEmptyName
	}
	if m.customPasses.Has(name) {
		return fmt.Errorf("%w: custom pass %q", ErrDuplicateName, name)
	}
	m.customPasses.Register(name, func() CustomPass { return p })
	return nil
}

// CustomPass returns the custom pass registered under name, or nil.
func (m *Manager) CustomPass(name string) CustomPass {
	return m.customPasses.Get(name)
}

// CustomPassNames returns the registered custom pass types.
func (m *Manager) CustomPassNames() []string {
	return m.customPasses.Available()
}

// RegisterLogic registers l for techniques with LogicName name.
func (m *Manager) RegisterLogic(name string, l Logic) error {
	if name == "" {
		return ErrEmptyName
	}
	if m.logics.Has(name) {
		return fmt.Errorf("%w: logic %q", ErrDuplicateName, name)
	}
	m.logics.Register(name, func() Logic { return l })
	return nil
}

// Logic returns the logic registered under name, or nil.
func (m *Manager) Logic(name string) Logic {
	return m.logics.Get(name)
}

func (m *Manager) logic(name string) Logic {
	if name == "" {
		return nil
	}
	return m.logics.Get(name)
}

// texturedRectangle returns the shared full-screen quad, reset to cover
// the current viewport with the render system's texel offsets.
func (m *Manager) texturedRectangle(rs render.RenderSystem) *render.Rectangle2D {
	hOffset, vOffset := 0.0, 0.0
	if vp := rs.Viewport(); vp != nil && vp.ActualWidth() > 0 && vp.ActualHeight() > 0 {
		hOffset = rs.HorizontalTexelOffset() / (0.5 * float64(vp.ActualWidth()))
		vOffset = rs.VerticalTexelOffset() / (0.5 * float64(vp.ActualHeight()))
	}
	m.rect.SetCorners(-1+hOffset, 1-vOffset, 1+hOffset, -1-vOffset)
	return m.rect
}

// Close destroys every chain, unloads every compositor and releases the
// texture pool.
func (m *Manager) Close() {
	for _, c := range m.chainOrder {
		c.destroy()
	}
	clear(m.chains)
	m.chainOrder = nil
	for _, c := range m.compositors {
		if c != m.scene {
			c.Unload()
		}
	}
	m.FreePooledTextures(false)
}
