package nn

import (
	"github.com/decorr-ml/decorr/internal/tensor"
)

// CrossEntropyLoss computes the mean softmax cross-entropy between logits
// and integer class targets.
//
// Shapes:
//   - logits: [batch, classes]
//   - targets: [batch], int32 class indices
//
// Returns a Shape{1} tensor holding the mean loss over the batch.
type CrossEntropyLoss[B tensor.Backend] struct {
	backend B
}

// NewCrossEntropyLoss creates a CrossEntropyLoss on the given backend.
func NewCrossEntropyLoss[B tensor.Backend](backend B) *CrossEntropyLoss[B] {
	return &CrossEntropyLoss[B]{backend: backend}
}

// Forward computes the loss.
func (l *CrossEntropyLoss[B]) Forward(logits *tensor.Tensor[float32, B], targets *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	raw := l.backend.CrossEntropy(logits.Raw(), targets.Raw())
	return tensor.New[float32, B](raw, l.backend)
}
