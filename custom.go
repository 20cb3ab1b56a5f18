// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import "github.com/gogpu/compositor/render"

// CustomPass creates the operation of a render custom pass. Implementations
// are registered with Manager.RegisterCustomPass under the pass's
// CustomType.
type CustomPass interface {
	CreateOperation(inst *Instance, pass *Pass) CustomOperation
}

// CustomOperation is the compiled form of a render custom pass.
type CustomOperation interface {
	Execute(sm render.SceneManager, rs render.RenderSystem) error
}

// Logic is notified about instances of techniques naming it. Logics are
// registered with Manager.RegisterLogic.
type Logic interface {
	InstanceCreated(inst *Instance)
	InstanceDestroyed(inst *Instance)
}

// CustomPassFunc adapts a function to CustomPass.
type CustomPassFunc func(inst *Instance, pass *Pass) CustomOperation

// CreateOperation calls f.
func (f CustomPassFunc) CreateOperation(inst *Instance, pass *Pass) CustomOperation {
	return f(inst, pass)
}

// CustomOperationFunc adapts a function to CustomOperation.
type CustomOperationFunc func(sm render.SceneManager, rs render.RenderSystem) error

// Execute calls f.
func (f CustomOperationFunc) Execute(sm render.SceneManager, rs render.RenderSystem) error {
	return f(sm, rs)
}
