// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"fmt"

	"github.com/gogpu/compositor/material"
	"github.com/gogpu/compositor/render"
)

// CollectPasses converts the passes of tp into operations on op.
//
// Render scene passes add their queue range to the render queues and move
// the queue cursor past it. A pass starting before the cursor is compiled
// with a warning. Quad passes whose material is missing, fails to load or
// has no supported technique are skipped with a warning.
func (i *Instance) CollectPasses(op *TargetOperation, tp *TargetPass) error {
	for _, pass := range tp.passes {
		switch pass.typ {
		case PassClear:
			i.queueOperation(op, &ClearOperation{
				Buffers: pass.ClearBuffers,
				Color:   pass.ClearColor,
				Depth:   pass.ClearDepth,
				Stencil: pass.ClearStencil,
			})

		case PassStencil:
			i.queueOperation(op, &StencilOperation{
				Check: pass.StencilCheck,
				State: render.StencilState{
					Compare:     pass.StencilFunc,
					Reference:   pass.StencilRefValue,
					Mask:        pass.StencilMask,
					FailOp:      pass.StencilFailOp,
					DepthFailOp: pass.StencilDepthFailOp,
					PassOp:      pass.StencilPassOp,
					TwoSided:    pass.StencilTwoSided,
				},
			})

		case PassRenderScene:
			i.collectRenderScene(op, tp, pass)

		case PassRenderQuad:
			if err := i.collectRenderQuad(op, pass); err != nil {
				return err
			}

		case PassRenderCustom:
			custom := i.manager().CustomPass(pass.CustomType)
			if custom == nil {
				return fmt.Errorf("%w: %q in %q", ErrCustomPassNotRegistered, pass.CustomType, i.compositor.name)
			}
			handler := custom.CreateOperation(i, pass)
			if handler == nil {
				return fmt.Errorf("%w: %q in %q", ErrNoCustomOperation, pass.CustomType, i.compositor.name)
			}
			i.queueOperation(op, &CustomOp{Handler: handler})
		}
	}
	return nil
}

func (i *Instance) collectRenderScene(op *TargetOperation, tp *TargetPass, pass *Pass) {
	if pass.FirstRenderQueue < op.CurrentQueueGroupID {
		Logger().Warn("render queue requested before current queue",
			"compositor", i.compositor.name,
			"first", pass.FirstRenderQueue, "current", op.CurrentQueueGroupID)
	}

	var set *SetSchemeOperation
	if pass.MaterialScheme != "" {
		op.CurrentQueueGroupID = pass.FirstRenderQueue
		set = &SetSchemeOperation{SchemeName: pass.MaterialScheme, materials: i.manager().materials}
		i.queueOperation(op, set)
	}

	op.RenderQueues.AddRange(pass.FirstRenderQueue, pass.LastRenderQueue)
	if pass.LastRenderQueue < render.QueueMax {
		op.CurrentQueueGroupID = pass.LastRenderQueue + 1
	} else {
		// Past every group; the uint8 cursor must not wrap to Background.
		op.CurrentQueueGroupID = render.QueueMax + 1
	}

	if set != nil {
		i.queueOperation(op, &RestoreSchemeOperation{Set: set})
	}

	op.FindVisibleObjects = true
	op.MaterialScheme = tp.MaterialScheme
	op.ShadowsEnabled = tp.ShadowsEnabled
}

func (i *Instance) collectRenderQuad(op *TargetOperation, pass *Pass) error {
	src := i.manager().materials.Get(pass.MaterialName)
	if src == nil {
		Logger().Warn("no material for quad pass",
			"compositor", i.compositor.name, "material", pass.MaterialName)
		return nil
	}
	if err := src.Load(); err != nil {
		Logger().Warn("quad pass material failed to load",
			"compositor", i.compositor.name, "material", src.Name(), "error", err)
		return nil
	}
	if len(src.SupportedTechniques()) == 0 {
		Logger().Warn("quad pass material has no supported techniques",
			"compositor", i.compositor.name, "material", src.Name())
		return nil
	}
	srcTech := src.BestTechnique(0)

	mat := i.createLocalMaterial(src.Name())
	for _, srcPass := range srcTech.Passes() {
		dst := mat.Technique(0).CreatePass()
		srcPass.CopyTo(dst)
		for x, in := range pass.inputs {
			if in.Name == "" {
				continue
			}
			if x >= dst.NumTextureUnitStates() {
				Logger().Warn("quad pass input has no texture unit",
					"compositor", i.compositor.name, "material", src.Name(), "unit", x)
				continue
			}
			texName, err := i.TextureInstanceName(in.Name, in.MRTIndex)
			if err != nil {
				return err
			}
			dst.TextureUnitState(x).SetTextureName(texName)
		}
	}

	quad, err := newQuadOperation(i, pass.Identifier, mat)
	if err != nil {
		return err
	}
	if l, t, r, b, ok := pass.QuadCorners(); ok {
		quad.SetQuadCorners(l, t, r, b)
	}
	quad.SetQuadFarCorners(pass.QuadFarCorners, pass.QuadFarCornersViewSpace)
	i.queueOperation(op, quad)
	return nil
}

// createLocalMaterial returns a detached material with one empty technique.
func (i *Instance) createLocalMaterial(srcName string) *material.Material {
	mat := material.New(fmt.Sprintf("c%d/%s", i.manager().nextID(), srcName))
	mat.CreateTechnique()
	return mat
}

// queueOperation tags o with the current queue group and hands it to the
// chain for release.
func (i *Instance) queueOperation(op *TargetOperation, o Operation) {
	op.Operations = append(op.Operations, QueuedOperation{QueueID: op.CurrentQueueGroupID, Op: o})
	i.chain.queuedOperation(o)
}
