package spatial

import (
	"github.com/golang/geo/r3"
)

// Transform is a rigid pose in 3D space: a rotation followed by a translation.
type Transform struct {
	rot   *RotationMatrix
	trans r3.Vector
}

// NewTransform creates a transform from a rotation and a translation.
func NewTransform(rot *RotationMatrix, trans r3.Vector) Transform {
	if rot == nil {
		rot = NewIdentityRotation()
	}
	return Transform{rot: rot, trans: trans}
}

// NewTransformFromPoint creates a pure translation with no rotation.
func NewTransformFromPoint(trans r3.Vector) Transform {
	return Transform{rot: NewIdentityRotation(), trans: trans}
}

// NewZeroTransform returns the identity transform.
func NewZeroTransform() Transform {
	return Transform{rot: NewIdentityRotation()}
}

// Rotation returns the rotation component.
func (tf Transform) Rotation() *RotationMatrix {
	if tf.rot == nil {
		return NewIdentityRotation()
	}
	return tf.rot
}

// Point returns the translation component.
func (tf Transform) Point() r3.Vector {
	return tf.trans
}

// Apply maps a point through the transform.
func (tf Transform) Apply(p r3.Vector) r3.Vector {
	return tf.Rotation().MulVec(p).Add(tf.trans)
}

// Compose returns the transform equivalent to applying other first and then tf.
func (tf Transform) Compose(other Transform) Transform {
	return Transform{
		rot:   tf.Rotation().Mul(other.Rotation()),
		trans: tf.Apply(other.trans),
	}
}
