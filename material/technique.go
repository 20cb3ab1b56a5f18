// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package material

// Technique is one way of rendering a material.
type Technique struct {
	parent *Material

	// SchemeName selects the material scheme the technique belongs to.
	SchemeName string

	// LodIndex is the level of detail the technique serves (0 = highest).
	LodIndex int

	passes    []*Pass
	supported bool
}

// Parent returns the material owning the technique.
func (t *Technique) Parent() *Material { return t.parent }

// CreatePass appends an empty pass.
func (t *Technique) CreatePass() *Pass {
	p := &Pass{parent: t}
	t.passes = append(t.passes, p)
	return p
}

// Pass returns the i-th pass, or nil if out of range.
func (t *Technique) Pass(i int) *Pass {
	if i < 0 || i >= len(t.passes) {
		return nil
	}
	return t.passes[i]
}

// Passes returns the passes in render order.
func (t *Technique) Passes() []*Pass { return t.passes }

// NumPasses returns the number of passes.
func (t *Technique) NumPasses() int { return len(t.passes) }

// RemoveAllPasses empties the technique.
func (t *Technique) RemoveAllPasses() { t.passes = nil }

// IsSupported reports whether every pass program compiled on the last
// Load.
func (t *Technique) IsSupported() bool { return t.supported }

func (t *Technique) compile() error {
	for _, p := range t.passes {
		if err := p.compile(); err != nil {
			return err
		}
	}
	return nil
}
