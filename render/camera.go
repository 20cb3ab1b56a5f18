// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "math"

// Camera is a perspective viewpoint looking down -Z from Position.
type Camera struct {
	// Name identifies the camera in logs.
	Name string

	// Position is the camera origin in world space.
	Position Vector3

	// FOVy is the vertical field of view in radians.
	FOVy float64

	// Near and Far are the clip plane distances.
	Near, Far float64

	// AutoAspectRatio makes the camera adopt the aspect ratio of every
	// viewport it is attached to.
	AutoAspectRatio bool

	// LodBias scales level-of-detail selection; higher values keep detail
	// further away.
	LodBias float64

	aspect   float64
	viewport *Viewport
}

// NewCamera creates a camera with a 45 degree field of view and a 4:3
// aspect ratio.
func NewCamera(name string) *Camera {
	return &Camera{
		Name:    name,
		FOVy:    math.Pi / 4,
		Near:    0.1,
		Far:     1000,
		LodBias: 1,
		aspect:  4.0 / 3.0,
	}
}

// AspectRatio returns width / height.
func (c *Camera) AspectRatio() float64 { return c.aspect }

// SetAspectRatio sets width / height.
func (c *Camera) SetAspectRatio(r float64) { c.aspect = r }

// Viewport returns the viewport the camera last rendered into.
func (c *Camera) Viewport() *Viewport { return c.viewport }

// NotifyViewport records the viewport the camera is rendering into.
func (c *Camera) NotifyViewport(vp *Viewport) { c.viewport = vp }

// ViewMatrix returns the world-to-view transform.
func (c *Camera) ViewMatrix() Matrix4 {
	return Translation4(Vector3{-c.Position.X, -c.Position.Y, -c.Position.Z})
}

// WorldSpaceCorners returns the eight frustum corners in world space.
// Indices 0-3 are the near plane and 4-7 the far plane, each ordered
// top-right, top-left, bottom-left, bottom-right.
func (c *Camera) WorldSpaceCorners() [8]Vector3 {
	var corners [8]Vector3
	t := math.Tan(c.FOVy / 2)
	for i, d := range [2]float64{c.Near, c.Far} {
		h := d * t
		w := h * c.aspect
		base := i * 4
		corners[base+0] = Vector3{w, h, -d}
		corners[base+1] = Vector3{-w, h, -d}
		corners[base+2] = Vector3{-w, -h, -d}
		corners[base+3] = Vector3{w, -h, -d}
	}
	for i := range corners {
		corners[i] = corners[i].Add(c.Position)
	}
	return corners
}
