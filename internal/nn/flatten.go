package nn

import (
	"fmt"

	"github.com/decorr-ml/decorr/internal/tensor"
)

// Flatten collapses all axes after the batch axis into one, turning
// [batch, d1, d2, ...] into [batch, d1*d2*...]. Image tensors pass through it
// before the first Linear layer.
type Flatten[B tensor.Backend] struct{}

// NewFlatten creates a Flatten module.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return &Flatten[B]{}
}

func (f *Flatten[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) < 2 {
		panic(fmt.Sprintf("Flatten.Forward: expected at least 2 axes, got shape %v", shape))
	}
	if len(shape) == 2 {
		return input
	}

	features := 1
	for _, dim := range shape[1:] {
		features *= dim
	}
	return input.Reshape(shape[0], features)
}

func (f *Flatten[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{}
}
