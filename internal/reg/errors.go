package reg

import (
	"fmt"

	"github.com/decorr-ml/decorr/internal/tensor"
)

// ShapeError reports an activation batch that cannot be reduced to a
// covariance or correlation matrix: fewer than 2 axes, or a sample axis
// shorter than 2. It indicates malformed upstream data, so callers should
// abort the training replicate rather than retry.
type ShapeError struct {
	Op     string
	Shape  tensor.Shape
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: invalid shape %v: %s", e.Op, e.Shape, e.Reason)
}

func checkMatrix(op string, shape tensor.Shape) error {
	if len(shape) < 2 {
		return &ShapeError{Op: op, Shape: shape.Clone(), Reason: "input must have at least 2 axes"}
	}
	if shape[len(shape)-1] < 2 {
		return &ShapeError{Op: op, Shape: shape.Clone(), Reason: "sample axis must have length >= 2"}
	}
	return nil
}
