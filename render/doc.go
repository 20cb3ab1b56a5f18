// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render is the render-system layer that compositors drive.
//
// It provides the concrete resources a compositor chain allocates and binds
// (Texture, RenderTarget, Viewport, Camera), the TextureManager that owns
// textures by name, and the RenderSystem and SceneManager interfaces that
// compiled compositor operations execute against.
//
// # Texture Storage
//
// Textures are backed by a pluggable Allocator:
//
//   - ImageAllocator: CPU *image.RGBA storage, used by render/software
//   - HALAllocator: GPU textures and views on a wgpu hal.Device
//
// # Render Queues
//
// Scene geometry is bucketed into render queue groups (QueueGroupID). A
// compositor restricts which groups a scene pass renders with a QueueSet,
// and injects its own operations between groups through a
// RenderQueueListener registered on the SceneManager.
//
// # Thread Safety
//
// Resources are NOT thread-safe. TextureManager statistics may be read from
// any goroutine.
package render
