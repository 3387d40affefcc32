// Package nn implements neural network building blocks.
//
// Provided components:
//   - Module interface: base interface for all NN components
//   - Parameter: named trainable tensors
//   - Linear: fully connected layer
//   - Activations: ReLU, Sigmoid, Tanh, Identity
//   - CrossEntropyLoss: classification loss
//   - Sequential: container for stacking layers
//   - MLP, TwoTaskMLP: feed-forward classifiers exposing hidden activations
//
// All weight initialization takes an explicit *rand.Rand so that replicated
// experiments are reproducible from a seed.
package nn

import (
	"github.com/decorr-ml/decorr/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules compose into larger architectures:
//
//	model := nn.NewSequential[B](
//	    nn.NewLinear(784, 50, rng, backend),
//	    nn.NewReLU[B](),
//	    nn.NewLinear(50, 10, rng, backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the module output for the given input.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters, including those of
	// nested modules. Modules without parameters return an empty slice.
	Parameters() []*Parameter[B]
}
