// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

// CompileTargetOperations appends the target operations of every enabled
// instance up to and including this one, earliest instance first. Each
// intermediate target pass becomes one operation. An input previous pass
// first receives the previous instance's output operations.
func (i *Instance) CompileTargetOperations(list []*TargetOperation) ([]*TargetOperation, error) {
	if i.previous != nil {
		var err error
		if list, err = i.previous.CompileTargetOperations(list); err != nil {
			return list, err
		}
	}
	for _, tp := range i.technique.targetPasses {
		rt, err := i.RenderTarget(tp.OutputName)
		if err != nil {
			return list, err
		}
		op := NewTargetOperation(rt)
		op.OnlyInitial = tp.OnlyInitial
		op.VisibilityMask = tp.VisibilityMask
		op.LodBias = tp.LodBias
		op.MaterialScheme = tp.MaterialScheme
		op.ShadowsEnabled = tp.ShadowsEnabled
		if tp.InputMode == InputPrevious && i.previous != nil {
			if err := i.previous.CompileOutputOperation(op); err != nil {
				return list, err
			}
		}
		if err := i.CollectPasses(op, tp); err != nil {
			return list, err
		}
		list = append(list, op)
	}
	return list, nil
}

// CompileOutputOperation merges the output target pass into final. The
// visibility mask is ANDed and the LOD bias multiplied, so the result
// combines every instance feeding the output.
func (i *Instance) CompileOutputOperation(final *TargetOperation) error {
	tp := i.technique.output
	final.VisibilityMask &= tp.VisibilityMask
	final.LodBias *= tp.LodBias
	if tp.InputMode == InputPrevious && i.previous != nil {
		if err := i.previous.CompileOutputOperation(final); err != nil {
			return err
		}
	}
	return i.CollectPasses(final, tp)
}
