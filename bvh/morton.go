package bvh

import (
	"math/big"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Morton key generators map a point inside a reference box to an integer
// whose bits interleave the per-axis quantized coordinates, giving a 1D
// ordering that preserves spatial locality. They are pure functions of
// (point, box, width) and are used to pre-sort primitives before hierarchy
// construction.
//
// A reference box with zero extent on an axis produces an undefined (but
// non-crashing) quantized value on that axis; callers must not rely on the
// result in that case.

// quantize maps a normalized coordinate in [0,1) to one of n buckets,
// clamped into [0, n-1].
func quantize(x float64, n uint32) uint32 {
	v := int64(x * float64(n))
	if v < 0 {
		return 0
	}
	if v > int64(n-1) {
		return n - 1
	}
	return uint32(v)
}

// spreadBits3 spaces the low 10 bits of x three apart using magic-mask shifts.
func spreadBits3(x uint32) uint32 {
	x = (x | (x << 16)) & 0x030000FF
	x = (x | (x << 8)) & 0x0300F00F
	x = (x | (x << 4)) & 0x030C30C3
	x = (x | (x << 2)) & 0x09249249
	return x
}

// mortonCode30 interleaves three 10-bit axis values into a 30-bit key.
func mortonCode30(x, y, z uint32) uint32 {
	return spreadBits3(x) | spreadBits3(y)<<1 | spreadBits3(z)<<2
}

// mortonCode60 interleaves three 20-bit axis values by splitting each into
// 10-bit halves, interleaving the halves independently, and concatenating.
func mortonCode60(x, y, z uint32) uint64 {
	loX, loY, loZ := x&1023, y&1023, z&1023
	hiX, hiY, hiZ := x>>10, y>>10, z>>10
	return uint64(mortonCode30(hiX, hiY, hiZ))<<30 | uint64(mortonCode30(loX, loY, loZ))
}

// mortonScaler normalizes points into the reference box's unit cube.
type mortonScaler struct {
	base r3.Vector
	inv  r3.Vector
}

func newMortonScaler(bbox AABB) mortonScaler {
	return mortonScaler{
		base: bbox.Min,
		inv: r3.Vector{
			X: 1 / (bbox.Max.X - bbox.Min.X),
			Y: 1 / (bbox.Max.Y - bbox.Min.Y),
			Z: 1 / (bbox.Max.Z - bbox.Min.Z),
		},
	}
}

func (m mortonScaler) normalize(p r3.Vector) (x, y, z float64) {
	return (p.X - m.base.X) * m.inv.X, (p.Y - m.base.Y) * m.inv.Y, (p.Z - m.base.Z) * m.inv.Z
}

// Morton30 produces 30-bit keys (10 bits per axis) relative to a reference box.
type Morton30 struct {
	scale mortonScaler
}

// NewMorton30 precomputes the normalization for the given reference box.
func NewMorton30(bbox AABB) Morton30 {
	return Morton30{scale: newMortonScaler(bbox)}
}

// Code returns the 30-bit interleaved key for the point.
func (m Morton30) Code(p r3.Vector) uint32 {
	x, y, z := m.scale.normalize(p)
	return mortonCode30(quantize(x, 1024), quantize(y, 1024), quantize(z, 1024))
}

// Bits returns the key width.
func (m Morton30) Bits() int { return 30 }

// Morton60 produces 60-bit keys (20 bits per axis) relative to a reference box.
type Morton60 struct {
	scale mortonScaler
}

// NewMorton60 precomputes the normalization for the given reference box.
func NewMorton60(bbox AABB) Morton60 {
	return Morton60{scale: newMortonScaler(bbox)}
}

// Code returns the 60-bit interleaved key for the point.
func (m Morton60) Code(p r3.Vector) uint64 {
	x, y, z := m.scale.normalize(p)
	const n = 1 << 20
	return mortonCode60(quantize(x, n), quantize(y, n), quantize(z, n))
}

// Bits returns the key width.
func (m Morton60) Bits() int { return 60 }

// MortonN produces keys of an arbitrary width that must be a multiple of 3,
// for matching an externally chosen hierarchy depth. Bits are emitted from
// the top down by radix-2 expansion of the normalized coordinates.
type MortonN struct {
	scale mortonScaler
	bits  int
}

// NewMortonN precomputes the normalization for the given reference box and
// key width. Widths that are not positive multiples of 3 are a configuration
// error.
func NewMortonN(bbox AABB, bits int) (MortonN, error) {
	if bits <= 0 || bits%3 != 0 {
		return MortonN{}, errors.Errorf("morton key width must be a positive multiple of 3, got %d", bits)
	}
	return MortonN{scale: newMortonScaler(bbox), bits: bits}, nil
}

// Code returns the interleaved key for the point, most significant bit at
// position bits-1.
func (m MortonN) Code(p r3.Vector) *big.Int {
	x, y, z := m.scale.normalize(p)
	x, y, z = 2*x, 2*y, 2*z

	code := new(big.Int)
	bit := m.bits - 1
	for i := 0; i < m.bits/3; i++ {
		if z >= 1 {
			code.SetBit(code, bit, 1)
		}
		bit--
		if y >= 1 {
			code.SetBit(code, bit, 1)
		}
		bit--
		if x >= 1 {
			code.SetBit(code, bit, 1)
		}
		bit--
		x = radixStep(x)
		y = radixStep(y)
		z = radixStep(z)
	}
	return code
}

// Bits returns the key width.
func (m MortonN) Bits() int { return m.bits }

func radixStep(v float64) float64 {
	if v >= 1 {
		return 2 * (v - 1)
	}
	return 2 * v
}
