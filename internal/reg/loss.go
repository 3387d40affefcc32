package reg

import (
	"math"

	"github.com/decorr-ml/decorr/internal/tensor"
)

// DeCov penalizes raw covariance between hidden units (Cogswell et al.,
// ICLR 2016). Activations are sample-major [N, F] as produced by a network
// forward pass; they are transposed to feature-major internally. The result
// is the sum of squared off-diagonal covariance entries, a non-negative
// rank-0 scalar.
func DeCov[B tensor.Backend](activations *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if len(activations.Shape()) != 2 {
		return nil, &ShapeError{Op: "decov", Shape: activations.Shape().Clone(), Reason: "activations must be a 2D [samples, features] matrix"}
	}

	cov, err := Covariance(activations.T())
	if err != nil {
		return nil, err
	}

	offDiag := zeroDiagonal(cov)
	return offDiag.Mul(offDiag).Sum(), nil
}

// DeCorr penalizes normalized squared correlation between hidden units,
// which unlike DeCov is invariant to per-unit scale. Activations are
// feature-major [F, N]. The result is the sum of off-diagonal
// correlation-squared entries.
func DeCorr[B tensor.Backend](activations *tensor.Tensor[float32, B], eps float32) (*tensor.Tensor[float32, B], error) {
	corrSq, err := CorrelationSquared(activations, eps)
	if err != nil {
		return nil, err
	}
	return zeroDiagonal(corrSq).Sum(), nil
}

// HalfCorr applies DeCorr to only the second half of the feature axis
// (rows round(F/2) to F), leaving the first half unconstrained. The
// restricted rows are extracted with a constant selector matrix so the
// penalty stays differentiable with respect to the full activation input.
func HalfCorr[B tensor.Backend](activations *tensor.Tensor[float32, B], eps float32) (*tensor.Tensor[float32, B], error) {
	shape := activations.Shape()
	if len(shape) != 2 {
		return nil, &ShapeError{Op: "halfcorr", Shape: shape.Clone(), Reason: "activations must be a 2D [features, samples] matrix"}
	}
	if err := checkMatrix("halfcorr", shape); err != nil {
		return nil, err
	}

	f := shape[0]
	half := int(math.Round(float64(f) / 2))
	backend := activations.Backend()

	// A single feature leaves no rows past the split point and no
	// off-diagonal correlations to penalize.
	if f-half == 0 {
		return tensor.Zeros[float32](tensor.Shape{}, backend), nil
	}

	// selector[i, half+i] = 1 picks rows half..F: [F-half, N] = S @ X.
	selector := tensor.Zeros[float32](tensor.Shape{f - half, f}, backend)
	selData := selector.Data()
	for i := 0; i < f-half; i++ {
		selData[i*f+half+i] = 1
	}

	return DeCorr(selector.MatMul(activations), eps)
}
