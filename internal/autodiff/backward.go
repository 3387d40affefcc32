package autodiff

import (
	"fmt"

	"github.com/decorr-ml/decorr/internal/tensor"
)

// Backward seeds d(loss)/d(loss) = 1 and walks the tape, returning the
// gradient of every taped tensor with respect to loss. The loss must hold a
// single element (rank-0 or Shape{1}).
//
// Gradient arithmetic runs on the inner backend so it is never recorded.
func (b *AutodiffBackend[B]) Backward(loss *tensor.RawTensor) map[*tensor.RawTensor]*tensor.RawTensor {
	if loss.NumElements() != 1 {
		panic(fmt.Sprintf("backward: loss must be a single element, got shape %v", loss.Shape()))
	}

	seed, err := tensor.NewRaw(loss.Shape(), loss.DType(), loss.Device())
	if err != nil {
		panic(fmt.Sprintf("backward: %v", err))
	}
	switch loss.DType() {
	case tensor.Float32:
		seed.AsFloat32()[0] = 1
	case tensor.Float64:
		seed.AsFloat64()[0] = 1
	default:
		panic(fmt.Sprintf("backward: unsupported loss dtype %s", loss.DType()))
	}

	return b.tape.Backward(loss, seed, b.inner)
}
