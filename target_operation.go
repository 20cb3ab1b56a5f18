// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import "github.com/gogpu/compositor/render"

// QueuedOperation is an operation scheduled to run when its render queue
// group starts.
type QueuedOperation struct {
	QueueID render.QueueGroupID
	Op      Operation
}

// TargetOperation is the compiled work for one render target.
type TargetOperation struct {
	// Target is the render target written.
	Target *render.RenderTarget

	// CurrentQueueGroupID is the compile cursor. Operations queued next are
	// tagged with it.
	CurrentQueueGroupID render.QueueGroupID

	// Operations run in order as their queue groups start.
	Operations []QueuedOperation

	// VisibilityMask is ANDed down the chain.
	VisibilityMask uint32

	// LodBias is multiplied down the chain.
	LodBias float64

	// RenderQueues holds the queue groups whose scene geometry renders.
	RenderQueues render.QueueSet

	// OnlyInitial targets render once. HasBeenRendered records that.
	OnlyInitial     bool
	HasBeenRendered bool

	// FindVisibleObjects is set when a pass renders scene geometry.
	FindVisibleObjects bool

	MaterialScheme string
	ShadowsEnabled bool
}

// NewTargetOperation returns an operation for target with every object
// visible and no LOD bias.
func NewTargetOperation(target *render.RenderTarget) *TargetOperation {
	return &TargetOperation{
		Target:         target,
		VisibilityMask: 0xFFFFFFFF,
		LodBias:        1,
		ShadowsEnabled: true,
	}
}
