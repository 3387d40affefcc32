// Package reg implements activity regularization for hidden-layer
// representations: a covariance/correlation kernel and the DeCov, DeCorr,
// and HalfCorr penalties built on it.
//
// Every function is expressed in backend tensor operations only, so when the
// inputs live on an autodiff backend the penalties are differentiable with
// respect to the activations and can join the training loss.
package reg

import (
	"github.com/pkg/errors"

	"github.com/decorr-ml/decorr/internal/tensor"
)

// DefaultEps is the default denominator stabilizer for CorrelationSquared.
const DefaultEps = 1e-3

// Covariance computes the unbiased sample covariance over the last two axes:
//
//	C = 1/(N-1) · Xc @ Xcᵀ
//
// The last axis is the sample axis (length N ≥ 2); rows are features. Any
// leading axes are treated as batch axes. Returns a ShapeError for inputs
// with fewer than 2 axes or fewer than 2 samples.
func Covariance[B tensor.Backend](x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	shape := x.Shape()
	if err := checkMatrix("covariance", shape); err != nil {
		return nil, err
	}

	n := shape[len(shape)-1]
	mean := x.MeanDim(-1, true)
	xc := x.Sub(mean)

	var cov *tensor.Tensor[float32, B]
	if len(shape) == 2 {
		cov = xc.MatMul(xc.T())
	} else {
		cov = xc.BatchMatMul(swapLastTwo(xc))
	}

	return cov.MulScalar(1.0 / float32(n-1)), nil
}

// CorrelationSquared computes the squared Pearson correlation matrix with an
// eps-stabilized denominator. For centered rows x_i, x_j of a [F, N] input:
//
//	(i, j) = ((x_i · x_j) / (N-1))² / ((var_i + eps)(var_j + eps))
//
// With eps = 0 this is the exact squared correlation; near-zero-variance rows
// then produce very large entries, which is a documented hazard rather than
// an error. eps must be >= 0.
func CorrelationSquared[B tensor.Backend](x *tensor.Tensor[float32, B], eps float32) (*tensor.Tensor[float32, B], error) {
	shape := x.Shape()
	if err := checkMatrix("correlation_squared", shape); err != nil {
		return nil, err
	}
	if len(shape) != 2 {
		return nil, &ShapeError{Op: "correlation_squared", Shape: shape.Clone(), Reason: "input must be a 2D [features, samples] matrix"}
	}
	if eps < 0 {
		return nil, errors.Errorf("correlation_squared: eps must be non-negative, got %v", eps)
	}

	n := shape[1]
	mean := x.MeanDim(-1, true)
	xc := x.Sub(mean)

	// Unbiased per-row variance, stabilized: [F, 1]
	variance := xc.Mul(xc).SumDim(-1, true).MulScalar(1.0 / float32(n-1)).AddScalar(eps)

	inner := xc.MatMul(xc.T())
	corrSq := inner.Mul(inner)
	corrSq = corrSq.Div(variance.MatMul(variance.T())) // outer(var, var)
	return corrSq.MulScalar(1.0 / float32((n-1)*(n-1))), nil
}

// zeroDiagonal multiplies a square [F, F] matrix by (ones - eye), removing
// self terms while keeping the operation differentiable.
func zeroDiagonal[B tensor.Backend](m *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	f := m.Shape()[0]
	backend := m.Backend()
	mask := tensor.Ones[float32](tensor.Shape{f, f}, backend)
	maskData := mask.Data()
	for i := 0; i < f; i++ {
		maskData[i*f+i] = 0
	}
	return m.Mul(mask)
}

func swapLastTwo[B tensor.Backend](t *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	ndim := len(t.Shape())
	axes := make([]int, ndim)
	for i := range axes {
		axes[i] = i
	}
	axes[ndim-2], axes[ndim-1] = axes[ndim-1], axes[ndim-2]
	return t.Transpose(axes...)
}
