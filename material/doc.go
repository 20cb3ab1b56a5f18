// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package material describes how surfaces are shaded.
//
// A Material holds Techniques, alternative ways of rendering it that are
// selected by material scheme and level of detail. Each Technique holds
// Passes, and each Pass holds TextureUnitStates naming the textures it
// samples plus an optional WGSL fragment program.
//
// Programs are compiled to SPIR-V with naga when a material is loaded. A
// technique whose program does not compile is unsupported and is never
// returned by BestTechnique.
//
// Compositors clone materials per quad pass and rebind texture unit names
// to their own render textures, so materials support deep copies through
// Pass.CopyTo and Material.Clone.
package material
