// Package ops defines the differentiable operations recorded on the
// gradient tape. Each operation stores its inputs and output during the
// forward pass and computes input gradients during the backward pass.
package ops

import "github.com/decorr-ml/decorr/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for the inputs given the output gradient.
	// The returned slice corresponds to Inputs() position by position; a nil
	// entry means no gradient flows to that input.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors of this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
