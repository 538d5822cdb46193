package bvh

import (
	"github.com/golang/geo/r3"
)

// OBBRSS is a composite volume storing an oriented box and a
// rectangle-swept sphere fit to the same points, side by side. The box serves
// overlap culling; the swept sphere is the better shape for distance-style
// bounds. Both members are refit from scratch on every fit call.
type OBBRSS struct {
	obb OBB
	rss RSS
}

// Center returns the oriented box center.
func (c OBBRSS) Center() r3.Vector { return c.obb.Center() }

// Width returns the oriented box extent along its principal axis.
func (c OBBRSS) Width() float64 { return c.obb.Width() }

// Height returns the oriented box extent along its second axis.
func (c OBBRSS) Height() float64 { return c.obb.Height() }

// Depth returns the oriented box extent along its third axis.
func (c OBBRSS) Depth() float64 { return c.obb.Depth() }

// PrincipalAxis returns the principal axis of the oriented box member.
func (c OBBRSS) PrincipalAxis() r3.Vector { return c.obb.PrincipalAxis() }

// OBB returns the oriented box member.
func (c OBBRSS) OBB() OBB { return c.obb }

// RSS returns the rectangle-swept sphere member.
func (c OBBRSS) RSS() RSS { return c.rss }

// Overlaps uses the oriented box members' separating axis test.
func (c OBBRSS) Overlaps(other OBBRSS) bool {
	return c.obb.Overlaps(other.obb)
}
