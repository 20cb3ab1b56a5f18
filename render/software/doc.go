// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software is a CPU reference back end for compositor chains.
//
// RenderSystem clears and composites into the CPU images of render
// targets created with render.ImageAllocator. SceneManager draws a flat
// scene of coloured rectangles, one render queue group at a time, and
// renders injected quads by sampling their material's texture units with
// golang.org/x/image/draw.
//
// The back end is meant for tests, tools and headless previews. It
// ignores depth and stencil state beyond recording it.
package software
