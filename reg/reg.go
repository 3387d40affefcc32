// Copyright 2026 The DeCorr Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package reg provides activity regularization penalties over hidden-layer
// activation batches: DeCov, DeCorr, and HalfCorr, plus the underlying
// covariance/correlation kernel.
//
// All functions are pure tensor computations; run them on an autodiff
// backend to make the penalties differentiable parts of a training loss.
package reg

import (
	"github.com/decorr-ml/decorr/internal/reg"
	"github.com/decorr-ml/decorr/internal/tensor"
)

// DefaultEps is the default denominator stabilizer for correlation-based
// penalties.
const DefaultEps = reg.DefaultEps

// ShapeError reports an activation batch with too few axes or samples.
type ShapeError = reg.ShapeError

// Covariance computes the unbiased sample covariance over the last two axes
// of a feature-major input.
func Covariance[B tensor.Backend](x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	return reg.Covariance(x)
}

// CorrelationSquared computes the eps-stabilized squared correlation matrix
// of a [features, samples] input.
func CorrelationSquared[B tensor.Backend](x *tensor.Tensor[float32, B], eps float32) (*tensor.Tensor[float32, B], error) {
	return reg.CorrelationSquared(x, eps)
}

// DeCov penalizes off-diagonal covariance of sample-major [samples, features]
// activations.
func DeCov[B tensor.Backend](activations *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	return reg.DeCov(activations)
}

// DeCorr penalizes off-diagonal squared correlation of feature-major
// [features, samples] activations.
func DeCorr[B tensor.Backend](activations *tensor.Tensor[float32, B], eps float32) (*tensor.Tensor[float32, B], error) {
	return reg.DeCorr(activations, eps)
}

// HalfCorr applies DeCorr to the second half of the feature axis only.
func HalfCorr[B tensor.Backend](activations *tensor.Tensor[float32, B], eps float32) (*tensor.Tensor[float32, B], error) {
	return reg.HalfCorr(activations, eps)
}
