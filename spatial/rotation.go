// Package spatial provides the rigid-body math shared by the hierarchy and
// narrow-phase packages: rotation matrices, rigid transforms, triangles, and
// closest-point helpers.
package spatial

import (
	"math"

	"github.com/golang/geo/r3"
)

// RotationMatrix is a 3x3 rotation matrix stored in row-major order.
type RotationMatrix struct {
	mat [9]float64
}

// NewRotationMatrix creates a rotation matrix from row-major components.
func NewRotationMatrix(m [9]float64) *RotationMatrix {
	return &RotationMatrix{m}
}

// NewIdentityRotation returns the identity rotation.
func NewIdentityRotation() *RotationMatrix {
	return &RotationMatrix{[9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// NewRotationFromAxisAngle returns the rotation of theta radians about the given axis.
// The axis need not be normalized; a zero axis yields the identity rotation.
func NewRotationFromAxisAngle(axis r3.Vector, theta float64) *RotationMatrix {
	n := axis.Norm()
	if n == 0 {
		return NewIdentityRotation()
	}
	u := axis.Mul(1 / n)
	c, s := math.Cos(theta), math.Sin(theta)
	t := 1 - c
	return &RotationMatrix{[9]float64{
		c + u.X*u.X*t, u.X*u.Y*t - u.Z*s, u.X*u.Z*t + u.Y*s,
		u.Y*u.X*t + u.Z*s, c + u.Y*u.Y*t, u.Y*u.Z*t - u.X*s,
		u.Z*u.X*t - u.Y*s, u.Z*u.Y*t + u.X*s, c + u.Z*u.Z*t,
	}}
}

// NewRotationFromCols builds a rotation matrix whose columns are the given vectors.
// The caller is responsible for supplying an orthonormal right-handed set.
func NewRotationFromCols(c0, c1, c2 r3.Vector) *RotationMatrix {
	return &RotationMatrix{[9]float64{
		c0.X, c1.X, c2.X,
		c0.Y, c1.Y, c2.Y,
		c0.Z, c1.Z, c2.Z,
	}}
}

// At returns the value at the given row and column.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat[row*3+col]
}

// Row returns the a vector from the matrix given a row index.
func (rm *RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm.mat[row*3], Y: rm.mat[row*3+1], Z: rm.mat[row*3+2]}
}

// Col returns a vector from the matrix given a column index.
func (rm *RotationMatrix) Col(col int) r3.Vector {
	return r3.Vector{X: rm.mat[col], Y: rm.mat[col+3], Z: rm.mat[col+6]}
}

// Transpose returns the transposed matrix.
func (rm *RotationMatrix) Transpose() *RotationMatrix {
	m := rm.mat
	return &RotationMatrix{[9]float64{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}}
}

// Mul returns the matrix product rm * other.
func (rm *RotationMatrix) Mul(other *RotationMatrix) *RotationMatrix {
	var out [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i*3+j] = rm.At(i, 0)*other.At(0, j) + rm.At(i, 1)*other.At(1, j) + rm.At(i, 2)*other.At(2, j)
		}
	}
	return &RotationMatrix{out}
}

// MulVec returns the rotated vector rm * v.
func (rm *RotationMatrix) MulVec(v r3.Vector) r3.Vector {
	return r3.Vector{X: rm.Row(0).Dot(v), Y: rm.Row(1).Dot(v), Z: rm.Row(2).Dot(v)}
}

// TransposeMulVec returns the inversely rotated vector rm^T * v.
func (rm *RotationMatrix) TransposeMulVec(v r3.Vector) r3.Vector {
	return r3.Vector{X: rm.Col(0).Dot(v), Y: rm.Col(1).Dot(v), Z: rm.Col(2).Dot(v)}
}
