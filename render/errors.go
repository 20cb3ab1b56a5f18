// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "errors"

// Resource errors.
var (
	// ErrTextureExists is returned when a texture name is already registered.
	ErrTextureExists = errors.New("render: texture already exists")

	// ErrTextureNotFound is returned when a texture name is not registered.
	ErrTextureNotFound = errors.New("render: texture not found")

	// ErrRenderTargetExists is returned when a render target name is taken.
	ErrRenderTargetExists = errors.New("render: render target already exists")

	// ErrInvalidSize is returned for zero or negative texture dimensions.
	ErrInvalidSize = errors.New("render: invalid texture size")

	// ErrUnsupportedFormat is returned when an allocator cannot store a format.
	ErrUnsupportedFormat = errors.New("render: unsupported texture format")

	// ErrBudgetExceeded is returned when an allocation would exceed the
	// texture manager memory budget.
	ErrBudgetExceeded = errors.New("render: memory budget exceeded")
)
