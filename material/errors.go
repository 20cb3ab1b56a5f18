// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package material

import "errors"

// Material errors.
var (
	// ErrMaterialExists is returned when a material name is already registered.
	ErrMaterialExists = errors.New("material: material already exists")

	// ErrEmptyMaterial is returned when loading a material without techniques.
	ErrEmptyMaterial = errors.New("material: material has no techniques")

	// ErrProgramCompile is returned when a fragment program fails to compile.
	ErrProgramCompile = errors.New("material: program compilation failed")
)
