// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"fmt"

	"github.com/gogpu/compositor/material"
	"github.com/gogpu/compositor/render"
	"github.com/gogpu/gputypes"
)

// OperationKind identifies the type of an Operation.
type OperationKind uint8

const (
	OpClear         OperationKind = iota // Clear frame buffers
	OpStencil                            // Configure the stencil test
	OpSetScheme                          // Switch the active material scheme
	OpRestoreScheme                      // Restore the scheme saved by OpSetScheme
	OpQuad                               // Render a full-screen quad
	OpCustom                             // Run a custom pass
)

var operationKindNames = [...]string{
	OpClear:         "Clear",
	OpStencil:       "Stencil",
	OpSetScheme:     "SetScheme",
	OpRestoreScheme: "RestoreScheme",
	OpQuad:          "Quad",
	OpCustom:        "Custom",
}

// String returns the kind name.
func (k OperationKind) String() string {
	if int(k) < len(operationKindNames) {
		return operationKindNames[k]
	}
	return "Unknown"
}

// Operation is a compiled render system operation. The set of operation
// types is closed; custom behavior plugs in through CustomOperation.
type Operation interface {
	// Kind returns the OperationKind of the operation.
	Kind() OperationKind
}

// ClearOperation clears frame buffers of the current viewport.
type ClearOperation struct {
	Buffers render.FrameBufferType
	Color   gputypes.Color
	Depth   float64
	Stencil uint32
}

// StencilOperation configures the stencil test.
type StencilOperation struct {
	Check bool
	State render.StencilState
}

// SetSchemeOperation switches the active material scheme and enables late
// material resolving, saving the previous values.
type SetSchemeOperation struct {
	SchemeName string

	materials   *material.Manager
	prevScheme  string
	prevLateRes bool
}

// PreviousScheme returns the scheme active before the last Execute.
func (o *SetSchemeOperation) PreviousScheme() string { return o.prevScheme }

// PreviousLateResolving returns the late resolving flag before the last
// Execute.
func (o *SetSchemeOperation) PreviousLateResolving() bool { return o.prevLateRes }

// RestoreSchemeOperation restores what its SetSchemeOperation saved.
type RestoreSchemeOperation struct {
	Set *SetSchemeOperation
}

// CustomOp wraps the operation created by a CustomPass.
type CustomOp struct {
	Handler CustomOperation
}

// Kind implements Operation.
func (*ClearOperation) Kind() OperationKind { return OpClear }

// Kind implements Operation.
func (*StencilOperation) Kind() OperationKind { return OpStencil }

// Kind implements Operation.
func (*SetSchemeOperation) Kind() OperationKind { return OpSetScheme }

// Kind implements Operation.
func (*RestoreSchemeOperation) Kind() OperationKind { return OpRestoreScheme }

// Kind implements Operation.
func (*QuadOperation) Kind() OperationKind { return OpQuad }

// Kind implements Operation.
func (*CustomOp) Kind() OperationKind { return OpCustom }

// Execute runs op against a scene manager and render system.
func Execute(op Operation, sm render.SceneManager, rs render.RenderSystem) error {
	switch o := op.(type) {
	case *ClearOperation:
		rs.ClearFrameBuffer(o.Buffers, o.Color, o.Depth, o.Stencil)
	case *StencilOperation:
		rs.SetStencilCheckEnabled(o.Check)
		rs.SetStencilBufferParams(o.State)
	case *SetSchemeOperation:
		o.prevScheme = o.materials.ActiveScheme()
		o.materials.SetActiveScheme(o.SchemeName)
		o.prevLateRes = sm.LateMaterialResolving()
		sm.SetLateMaterialResolving(true)
	case *RestoreSchemeOperation:
		o.Set.materials.SetActiveScheme(o.Set.prevScheme)
		sm.SetLateMaterialResolving(o.Set.prevLateRes)
	case *QuadOperation:
		return o.execute(sm, rs)
	case *CustomOp:
		if o.Handler == nil {
			return ErrNoCustomOperation
		}
		return o.Handler.Execute(sm, rs)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownOperation, op)
	}
	return nil
}

// QuadOperation renders a full-screen quad with a material cloned for one
// compositor pass.
type QuadOperation struct {
	Material  *material.Material
	Technique *material.Technique
	PassID    uint32

	instance *Instance

	cornersModified          bool
	left, top, right, bottom float64

	farCorners          bool
	farCornersViewSpace bool
}

func newQuadOperation(inst *Instance, passID uint32, mat *material.Material) (*QuadOperation, error) {
	if err := mat.Load(); err != nil {
		return nil, err
	}
	op := &QuadOperation{
		Material:  mat,
		Technique: mat.Technique(0),
		PassID:    passID,
		instance:  inst,
		left:      -1,
		top:       1,
		right:     1,
		bottom:    -1,
	}
	inst.fireMaterialSetup(passID, mat)
	return op, nil
}

// SetQuadCorners overrides the quad edges.
func (o *QuadOperation) SetQuadCorners(left, top, right, bottom float64) {
	o.left, o.top, o.right, o.bottom = left, top, right, bottom
	o.cornersModified = true
}

// QuadCorners returns the quad edges.
func (o *QuadOperation) QuadCorners() (left, top, right, bottom float64) {
	return o.left, o.top, o.right, o.bottom
}

// SetQuadFarCorners makes the quad carry the camera's far frustum corners
// as normals, in view space when viewSpace is set.
func (o *QuadOperation) SetQuadFarCorners(farCorners, viewSpace bool) {
	o.farCorners = farCorners
	o.farCornersViewSpace = viewSpace
}

func (o *QuadOperation) execute(sm render.SceneManager, rs render.RenderSystem) error {
	o.instance.fireMaterialRender(o.PassID, o.Material)

	vp := rs.Viewport()
	rect := o.instance.manager().texturedRectangle(rs)
	if o.cornersModified && vp != nil {
		hOffset := rs.HorizontalTexelOffset() / (0.5 * float64(vp.ActualWidth()))
		vOffset := rs.VerticalTexelOffset() / (0.5 * float64(vp.ActualHeight()))
		rect.SetCorners(o.left+hOffset, o.top-vOffset, o.right+hOffset, o.bottom-vOffset)
	}
	if o.farCorners && vp != nil && vp.Camera() != nil {
		cam := vp.Camera()
		c := cam.WorldSpaceCorners()
		if o.farCornersViewSpace {
			view := cam.ViewMatrix()
			rect.SetNormals(view.TransformPoint(c[5]), view.TransformPoint(c[6]),
				view.TransformPoint(c[4]), view.TransformPoint(c[7]))
		} else {
			rect.SetNormals(c[5], c[6], c[4], c[7])
		}
	}
	for _, pass := range o.Technique.Passes() {
		if err := sm.InjectRenderWithPass(pass, rect); err != nil {
			return err
		}
	}
	return nil
}

// release unloads the cloned material once the operation is discarded.
func (o *QuadOperation) release() {
	o.Material.Unload()
}
