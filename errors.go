// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import "errors"

// Resolution errors. These abort resource creation or compilation of the
// instance that hit them.
var (
	// ErrCompositorNotFound is returned for a reference to an unknown compositor.
	ErrCompositorNotFound = errors.New("compositor: compositor not found")

	// ErrTextureDefinitionNotFound is returned for a reference to a texture
	// the referenced compositor does not declare.
	ErrTextureDefinitionNotFound = errors.New("compositor: texture definition not found")

	// ErrTextureNotFound is returned when a local texture or target was never
	// created, commonly because its instance is disabled.
	ErrTextureNotFound = errors.New("compositor: texture not created")

	// ErrLocalTextureReference is returned for a reference to a texture of
	// local scope in another compositor.
	ErrLocalTextureReference = errors.New("compositor: cannot reference local texture")

	// ErrChainOrder is returned when a chain reference points at a compositor
	// that comes later in the chain.
	ErrChainOrder = errors.New("compositor: referenced compositor is later in chain")

	// ErrInactiveReference is returned when a chain reference points at a
	// compositor that is missing from the chain or disabled.
	ErrInactiveReference = errors.New("compositor: referenced compositor is not active")

	// ErrInvalidTextureDefinition is returned for a definition without formats.
	ErrInvalidTextureDefinition = errors.New("compositor: invalid texture definition")
)

// Configuration errors.
var (
	// ErrDuplicateName is returned when registering a name twice.
	ErrDuplicateName = errors.New("compositor: duplicate name")

	// ErrEmptyName is returned when registering an empty name.
	ErrEmptyName = errors.New("compositor: empty name")

	// ErrNoSupportedTechnique is returned when a compositor has no technique
	// the render system supports for the requested scheme.
	ErrNoSupportedTechnique = errors.New("compositor: no supported technique")

	// ErrInvalidGlobalTexture is returned for a global texture that is a
	// reference or is sized relative to the viewport.
	ErrInvalidGlobalTexture = errors.New("compositor: invalid global texture")

	// ErrInconsistentGlobals is returned when techniques of one compositor
	// declare different global textures.
	ErrInconsistentGlobals = errors.New("compositor: techniques define different global textures")

	// ErrCustomPassNotRegistered is returned for a custom pass type with no
	// registered CustomPass.
	ErrCustomPassNotRegistered = errors.New("compositor: custom pass not registered")

	// ErrNoCustomOperation is returned when a CustomPass creates no
	// operation.
	ErrNoCustomOperation = errors.New("compositor: custom pass created no operation")

	// ErrLogicNotRegistered is returned for a technique logic name with no
	// registered Logic.
	ErrLogicNotRegistered = errors.New("compositor: compositor logic not registered")

	// ErrGlobalPooled is returned when requesting a pooled texture of global
	// scope.
	ErrGlobalPooled = errors.New("compositor: global textures cannot be pooled")

	// ErrPositionOutOfRange is returned for a chain position past the end.
	ErrPositionOutOfRange = errors.New("compositor: chain position out of range")

	// ErrBuiltinCompositor is returned when removing the scene compositor.
	ErrBuiltinCompositor = errors.New("compositor: cannot remove built-in compositor")

	// ErrUnknownOperation is returned by Execute for an unknown operation type.
	ErrUnknownOperation = errors.New("compositor: unknown operation")
)
