// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package compositor sequences post-processing effects over a viewport's
// rendered scene.
//
// A Compositor is a named effect made of Techniques. A Technique declares
// textures (TextureDefinition) and target passes (TargetPass), each target
// pass writing a list of Passes into one texture or into the final output.
// Applying a compositor to a viewport creates an Instance in the viewport's
// Chain. The chain compiles its enabled instances into TargetOperations,
// ordered lists of render system operations that run while the scene
// renders each target.
//
// # Quick Start
//
//	mgr := compositor.NewManager(compositor.WithTextureManager(textures))
//
//	bloom, _ := mgr.CreateCompositor("Bloom")
//	tech := bloom.CreateTechnique()
//	def := tech.CreateTextureDefinition("rt0")
//	def.Formats = []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm}
//
//	tp := tech.CreateTargetPass()
//	tp.OutputName = "rt0"
//	tp.CreatePass(compositor.PassRenderScene)
//
//	quad := tech.OutputTargetPass().CreatePass(compositor.PassRenderQuad)
//	quad.MaterialName = "Bloom/Combine"
//	quad.SetInput(0, "rt0", 0)
//
//	inst, _ := mgr.AddCompositor(viewport, "Bloom", compositor.LastPosition)
//	_ = inst.SetEnabled(true)
//
//	chain := mgr.Chain(viewport)
//	_ = chain.Update(sceneManager)
//
// # Texture Scopes
//
// Local textures are private to one instance. Chain textures may be
// referenced by later instances in the same chain. Global textures belong
// to the compositor itself and are shared by every instance.
//
// # Pooling
//
// Pooled texture definitions share storage across instances and chains when
// size and format match. A texture is never shared between an instance and
// the neighbour it reads from or writes to.
//
// # Errors
//
// Malformed references and lookups of textures that were never created are
// returned as errors wrapping the package sentinels. Problems that only
// affect one pass, such as a quad pass whose material has no supported
// technique, are logged as warnings and the pass is skipped.
//
// # Thread Safety
//
// Compositors, chains and instances must be used from a single goroutine,
// normally the render loop.
package compositor
