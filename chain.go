// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"fmt"

	"github.com/gogpu/compositor/material"
	"github.com/gogpu/compositor/render"
)

// Chain is the ordered list of compositor instances applied to one
// viewport. The first link is always the original scene.
type Chain struct {
	manager  *Manager
	viewport *render.Viewport

	originalScene *Instance
	instances     []*Instance

	dirty      bool
	anyEnabled bool

	compiled []*TargetOperation
	output   *TargetOperation

	// operations holds every operation of the current compile for release.
	operations []Operation

	// rendered records OnlyInitial targets across recompiles.
	rendered map[*render.RenderTarget]bool

	listener *QueueListener
	saved    savedState

	oldClearEveryFrame bool
	oldClearBuffers    render.FrameBufferType
}

// savedState is the scene manager and viewport state changed around a
// target operation.
type savedState struct {
	visibilityMask     uint32
	findVisibleObjects bool
	lodBias            float64
	materialScheme     string
	shadowsEnabled     bool
}

func newChain(m *Manager, vp *render.Viewport) *Chain {
	c := &Chain{
		manager:  m,
		viewport: vp,
		dirty:    true,
		rendered: make(map[*render.RenderTarget]bool),
		listener: &QueueListener{},
	}
	c.originalScene = newInstance(newSceneTechnique(m.scene), c)
	c.originalScene.state = StateResourcesCreated
	c.output = NewTargetOperation(vp.Target())
	return c
}

// Viewport returns the viewport the chain renders into.
func (c *Chain) Viewport() *render.Viewport { return c.viewport }

// OriginalScene returns the instance rendering the scene at the start of
// the chain.
func (c *Chain) OriginalScene() *Instance { return c.originalScene }

// Instances returns the instances in chain order, excluding the original
// scene.
func (c *Chain) Instances() []*Instance { return c.instances }

// NumCompositors returns the number of instances.
func (c *Chain) NumCompositors() int { return len(c.instances) }

// Instance returns the instance at pos, or nil.
func (c *Chain) Instance(pos int) *Instance {
	if pos < 0 || pos >= len(c.instances) {
		return nil
	}
	return c.instances[pos]
}

// Position returns the position of the first instance of compositor name,
// or -1.
func (c *Chain) Position(name string) int {
	for i, inst := range c.instances {
		if inst.compositor.name == name {
			return i
		}
	}
	return -1
}

// AddCompositor inserts a disabled instance of comp at pos, or at the end
// when pos is negative. The technique is the supported technique of scheme.
func (c *Chain) AddCompositor(comp *Compositor, pos int, scheme string) (*Instance, error) {
	if pos > len(c.instances) {
		return nil, fmt.Errorf("%w: %d of %d", ErrPositionOutOfRange, pos, len(c.instances))
	}
	if err := comp.Load(); err != nil {
		return nil, err
	}
	tech := comp.SupportedTechnique(scheme)
	if tech == nil {
		return nil, fmt.Errorf("%w: %q for scheme %q", ErrNoSupportedTechnique, comp.name, scheme)
	}
	if tech.LogicName != "" && !c.manager.logics.Has(tech.LogicName) {
		return nil, fmt.Errorf("%w: %q of %q", ErrLogicNotRegistered, tech.LogicName, comp.name)
	}

	inst := newInstance(tech, c)
	inst.scheme = scheme
	if pos < 0 {
		pos = len(c.instances)
	}
	c.instances = append(c.instances, nil)
	copy(c.instances[pos+1:], c.instances[pos:])
	c.instances[pos] = inst

	inst.activate()
	c.MarkDirty()
	return inst, nil
}

// RemoveCompositor destroys the instance at pos.
func (c *Chain) RemoveCompositor(pos int) {
	if pos < 0 || pos >= len(c.instances) {
		return
	}
	inst := c.instances[pos]
	c.instances = append(c.instances[:pos], c.instances[pos+1:]...)
	inst.destroy()
	c.MarkDirty()
}

// RemoveAllCompositors destroys every instance.
func (c *Chain) RemoveAllCompositors() {
	instances := c.instances
	c.instances = nil
	for _, inst := range instances {
		inst.destroy()
	}
	c.MarkDirty()
}

// SetCompositorEnabled enables or disables the instance at pos.
//
// Disabling makes the neighbours of the instance adjacent. The next enabled
// instance then recreates its pooled input previous textures, which may
// have been shared with the new neighbour.
func (c *Chain) SetCompositorEnabled(pos int, enabled bool) error {
	inst := c.Instance(pos)
	if inst == nil {
		return fmt.Errorf("%w: %d of %d", ErrPositionOutOfRange, pos, len(c.instances))
	}
	wasEnabled := inst.Enabled()
	if err := inst.SetEnabled(enabled); err != nil {
		return err
	}
	if enabled || !wasEnabled {
		return nil
	}
	next := c.NextInstance(inst, true)
	if next == nil {
		return nil
	}
	for _, tp := range next.technique.targetPasses {
		if tp.InputMode != InputPrevious {
			continue
		}
		if def := next.technique.TextureDefinition(tp.OutputName); def != nil && def.Pooled {
			next.FreeResources(false, true)
			if err := next.CreateResources(false); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

// PreviousInstance returns the instance before inst, skipping disabled
// instances when activeOnly is set.
func (c *Chain) PreviousInstance(inst *Instance, activeOnly bool) *Instance {
	var prev *Instance
	for _, x := range c.instances {
		if x == inst {
			return prev
		}
		if !activeOnly || x.Enabled() {
			prev = x
		}
	}
	return nil
}

// NextInstance returns the instance after inst, skipping disabled
// instances when activeOnly is set.
func (c *Chain) NextInstance(inst *Instance, activeOnly bool) *Instance {
	found := false
	for _, x := range c.instances {
		if found && (!activeOnly || x.Enabled()) {
			return x
		}
		if x == inst {
			found = true
		}
	}
	return nil
}

// MarkDirty schedules a recompile before the next update.
func (c *Chain) MarkDirty() { c.dirty = true }

// IsDirty reports whether a recompile is pending.
func (c *Chain) IsDirty() bool { return c.dirty }

// AnyEnabled reports whether an instance was enabled at the last compile.
func (c *Chain) AnyEnabled() bool { return c.anyEnabled }

// CompiledState returns the intermediate target operations of the last
// compile in render order.
func (c *Chain) CompiledState() []*TargetOperation { return c.compiled }

// OutputOperation returns the operation rendering into the viewport.
func (c *Chain) OutputOperation() *TargetOperation { return c.output }

// Compile links the enabled instances and compiles their operations.
//
// Materials resolve under the default scheme while compiling. The scene
// clear copies the viewport clear settings. While any instance is enabled
// the viewport does not clear itself.
func (c *Chain) Compile() error {
	c.clearCompiledState()

	materials := c.manager.materials
	prevScheme := materials.ActiveScheme()
	materials.SetActiveScheme(material.DefaultScheme)
	defer materials.SetActiveScheme(prevScheme)

	c.syncSceneClear()

	last := c.originalScene
	c.originalScene.previous = nil
	anyEnabled := false
	for _, inst := range c.instances {
		if inst.Enabled() {
			anyEnabled = true
			inst.previous = last
			last = inst
		} else {
			inst.previous = nil
		}
	}

	compiled, err := last.CompileTargetOperations(nil)
	if err != nil {
		return err
	}
	output := NewTargetOperation(c.viewport.Target())
	if err := last.CompileOutputOperation(output); err != nil {
		return err
	}
	c.compiled = compiled
	c.output = output

	live := make(map[*render.RenderTarget]bool, len(compiled))
	for _, op := range compiled {
		op.HasBeenRendered = c.rendered[op.Target]
		live[op.Target] = true
	}
	for rt := range c.rendered {
		if !live[rt] {
			delete(c.rendered, rt)
		}
	}

	if anyEnabled != c.anyEnabled {
		c.anyEnabled = anyEnabled
		if anyEnabled {
			c.oldClearEveryFrame = c.viewport.ClearEveryFrame
			c.oldClearBuffers = c.viewport.ClearBuffers
			c.viewport.ClearEveryFrame = false
		} else {
			c.viewport.ClearEveryFrame = c.oldClearEveryFrame
			c.viewport.ClearBuffers = c.oldClearBuffers
		}
	}
	c.dirty = false

	Logger().Info("compositor chain compiled",
		"target", c.viewport.Target().Name(), "targets", len(compiled),
		"operations", len(c.operations), "enabled", anyEnabled)
	return nil
}

// syncSceneClear copies the viewport clear settings into the scene clear.
func (c *Chain) syncSceneClear() {
	p := c.originalScene.technique.output.Pass(0)
	p.ClearBuffers = c.viewport.ClearBuffers
	p.ClearColor = c.viewport.BackgroundColor
	p.ClearDepth = c.viewport.DepthClear
}

// syncScene copies the viewport settings into the original scene and
// reports whether anything changed.
func (c *Chain) syncScene() bool {
	tp := c.originalScene.technique.output
	p := tp.Pass(0)
	vp := c.viewport
	if p.ClearBuffers == vp.ClearBuffers &&
		p.ClearColor == vp.BackgroundColor &&
		p.ClearDepth == vp.DepthClear &&
		tp.VisibilityMask == vp.VisibilityMask &&
		tp.MaterialScheme == vp.MaterialScheme &&
		tp.ShadowsEnabled == vp.ShadowsEnabled {
		return false
	}
	c.syncSceneClear()
	tp.VisibilityMask = vp.VisibilityMask
	tp.MaterialScheme = vp.MaterialScheme
	tp.ShadowsEnabled = vp.ShadowsEnabled
	return true
}

// queuedOperation registers an operation of the current compile.
func (c *Chain) queuedOperation(op Operation) {
	c.operations = append(c.operations, op)
}

func (c *Chain) clearCompiledState() {
	for _, op := range c.operations {
		if q, ok := op.(*QuadOperation); ok {
			q.release()
		}
	}
	c.operations = nil
	c.compiled = nil
	c.output = NewTargetOperation(c.viewport.Target())
}

// Update renders one frame of the chain. Intermediate targets render first
// in compiled order, skipping OnlyInitial targets already rendered. The
// viewport then renders with the output operation.
func (c *Chain) Update(sm render.SceneManager) error {
	if c.dirty {
		if err := c.Compile(); err != nil {
			return err
		}
	}
	if !c.anyEnabled {
		return sm.RenderViewport(c.viewport)
	}

	for _, op := range c.compiled {
		if op.OnlyInitial && op.HasBeenRendered {
			continue
		}
		op.HasBeenRendered = true
		c.rendered[op.Target] = true

		vp := op.Target.Viewport(0)
		if vp == nil {
			continue
		}
		if err := c.renderTarget(sm, op, vp); err != nil {
			return err
		}
	}

	if c.syncScene() {
		if err := c.Compile(); err != nil {
			return err
		}
	}
	return c.renderTarget(sm, c.output, c.viewport)
}

func (c *Chain) renderTarget(sm render.SceneManager, op *TargetOperation, vp *render.Viewport) error {
	if cam := c.viewport.Camera(); cam != nil && vp.Camera() != cam {
		bindCamera(vp, cam)
	}
	c.beforeTarget(sm, op, vp)
	err := sm.RenderViewport(vp)
	if ferr := c.afterTarget(sm, vp); err == nil {
		err = ferr
	}
	return err
}

// beforeTarget attaches the queue listener and applies the operation's
// scene settings.
func (c *Chain) beforeTarget(sm render.SceneManager, op *TargetOperation, vp *render.Viewport) {
	c.listener.SetOperation(op, sm, sm.RenderSystem())
	c.listener.NotifyViewport(vp)
	sm.AddRenderQueueListener(c.listener)

	c.saved = savedState{
		visibilityMask:     sm.VisibilityMask(),
		findVisibleObjects: sm.FindVisibleObjects(),
		materialScheme:     vp.MaterialScheme,
		shadowsEnabled:     vp.ShadowsEnabled,
	}
	sm.SetVisibilityMask(op.VisibilityMask)
	sm.SetFindVisibleObjects(op.FindVisibleObjects)
	if cam := vp.Camera(); cam != nil {
		c.saved.lodBias = cam.LodBias
		cam.LodBias *= op.LodBias
	}
	vp.MaterialScheme = op.MaterialScheme
	vp.ShadowsEnabled = op.ShadowsEnabled
}

// afterTarget runs operations queued past the last queue group, detaches
// the listener and restores what beforeTarget changed.
func (c *Chain) afterTarget(sm render.SceneManager, vp *render.Viewport) error {
	c.listener.FlushAll()
	err := c.listener.Err()
	sm.RemoveRenderQueueListener(c.listener)
	c.listener.SetOperation(nil, nil, nil)

	sm.SetVisibilityMask(c.saved.visibilityMask)
	sm.SetFindVisibleObjects(c.saved.findVisibleObjects)
	if cam := vp.Camera(); cam != nil {
		cam.LodBias = c.saved.lodBias
	}
	vp.MaterialScheme = c.saved.materialScheme
	vp.ShadowsEnabled = c.saved.shadowsEnabled
	return err
}

// bindCamera points vp at cam without changing the camera's aspect ratio
// or current viewport.
func bindCamera(vp *render.Viewport, cam *render.Camera) {
	aspect := cam.AspectRatio()
	prev := cam.Viewport()
	vp.SetCamera(cam)
	cam.SetAspectRatio(aspect)
	cam.NotifyViewport(prev)
}

// NotifyResized recreates the viewport sized textures of every enabled
// instance.
func (c *Chain) NotifyResized() error {
	for _, inst := range c.instances {
		if err := inst.NotifyResized(); err != nil {
			return err
		}
	}
	c.MarkDirty()
	return nil
}

// NotifyCameraChanged rebinds the targets of every instance to cam.
func (c *Chain) NotifyCameraChanged(cam *render.Camera) {
	for _, inst := range c.instances {
		inst.NotifyCameraChanged(cam)
	}
}

// destroy removes every instance and releases compiled operations.
func (c *Chain) destroy() {
	c.RemoveAllCompositors()
	c.clearCompiledState()
	if c.anyEnabled {
		c.viewport.ClearEveryFrame = c.oldClearEveryFrame
		c.viewport.ClearBuffers = c.oldClearBuffers
		c.anyEnabled = false
	}
}

// QueueListener runs the operations of a target operation as the scene
// manager starts render queue groups. It also tells the scene manager to
// skip queue groups the operation does not render.
type QueueListener struct {
	op       *TargetOperation
	sm       render.SceneManager
	rs       render.RenderSystem
	viewport *render.Viewport
	next     int
	err      error
}

// SetOperation starts executing op from its first operation.
func (l *QueueListener) SetOperation(op *TargetOperation, sm render.SceneManager, rs render.RenderSystem) {
	l.op, l.sm, l.rs = op, sm, rs
	l.next = 0
	l.err = nil
}

// NotifyViewport sets the viewport the listener acts on.
func (l *QueueListener) NotifyViewport(vp *render.Viewport) { l.viewport = vp }

// RenderQueueStarted implements render.RenderQueueListener. Events of
// other viewports, such as nested shadow renders, are ignored.
func (l *QueueListener) RenderQueueStarted(id render.QueueGroupID) bool {
	if l.op == nil || l.rs.Viewport() != l.viewport {
		return false
	}
	l.FlushUpTo(id)
	// Overlays are rendered separately and never skipped.
	return !l.op.RenderQueues.Contains(id) && id != render.QueueOverlay
}

// RenderQueueEnded implements render.RenderQueueListener.
func (l *QueueListener) RenderQueueEnded(render.QueueGroupID) {}

// FlushUpTo executes the pending operations tagged with queue group id or
// earlier.
func (l *QueueListener) FlushUpTo(id render.QueueGroupID) {
	if l.op == nil {
		return
	}
	for l.next < len(l.op.Operations) && l.op.Operations[l.next].QueueID <= id {
		l.execute(l.op.Operations[l.next].Op)
		l.next++
	}
}

// FlushAll executes every pending operation.
func (l *QueueListener) FlushAll() {
	if l.op == nil {
		return
	}
	for ; l.next < len(l.op.Operations); l.next++ {
		l.execute(l.op.Operations[l.next].Op)
	}
}

// Err returns the first error of an executed operation.
func (l *QueueListener) Err() error { return l.err }

func (l *QueueListener) execute(op Operation) {
	if err := Execute(op, l.sm, l.rs); err != nil {
		Logger().Warn("compositor operation failed", "op", op.Kind().String(), "error", err)
		if l.err == nil {
			l.err = err
		}
	}
}
