// Package optim implements gradient-based parameter optimizers.
package optim

import (
	"github.com/decorr-ml/decorr/internal/tensor"
)

// Optimizer applies one update step given the gradients produced by a
// backward pass. Gradients are keyed by the parameter's RawTensor, matching
// the map returned from the gradient tape.
type Optimizer interface {
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)
}
