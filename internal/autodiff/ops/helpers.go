package ops

import (
	"fmt"

	"github.com/decorr-ml/decorr/internal/tensor"
)

// reduceBroadcast sums a gradient over the axes that were broadcast during
// the forward pass so it matches the original input shape. Needed whenever an
// input of shape e.g. [1, F] participated in an op with output [N, F].
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(targetShape) {
		return grad
	}

	// Leading axes absent from the target are summed away.
	for len(grad.Shape()) > len(targetShape) {
		grad = backend.SumDim(grad, 0, false)
	}

	// Axes of size 1 in the target were broadcast; sum with keepDim.
	for d := 0; d < len(targetShape); d++ {
		if targetShape[d] == 1 && grad.Shape()[d] > 1 {
			grad = backend.SumDim(grad, d, true)
		}
	}

	return grad
}

// broadcastTo materializes a tensor broadcast to the target shape.
// A rank-0 scalar broadcasts to any shape.
func broadcastTo(t *tensor.RawTensor, targetShape tensor.Shape) *tensor.RawTensor {
	if t.Shape().Equal(targetShape) {
		return t.Clone()
	}

	result, err := tensor.NewRaw(targetShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("broadcastTo: %v", err))
	}

	switch t.DType() {
	case tensor.Float32:
		broadcastData(t.AsFloat32(), result.AsFloat32(), t.Shape(), targetShape)
	case tensor.Float64:
		broadcastData(t.AsFloat64(), result.AsFloat64(), t.Shape(), targetShape)
	default:
		panic(fmt.Sprintf("broadcastTo: unsupported dtype %s", t.DType()))
	}

	return result
}

func broadcastData[T float32 | float64](src, dst []T, srcShape, dstShape tensor.Shape) {
	srcStrides := srcShape.ComputeStrides()
	dstStrides := dstShape.ComputeStrides()
	shift := len(dstShape) - len(srcShape)

	for i := range dst {
		srcIdx := 0
		temp := i
		for d := 0; d < len(dstShape); d++ {
			coord := temp / dstStrides[d]
			temp %= dstStrides[d]

			srcDim := d - shift
			if srcDim < 0 {
				continue
			}
			if srcShape[srcDim] == 1 {
				coord = 0
			}
			srcIdx += coord * srcStrides[srcDim]
		}
		dst[i] = src[srcIdx]
	}
}

// unsqueeze returns the tensor reshaped with a size-1 axis inserted at dim.
// The data layout is unchanged; only the shape metadata differs.
func unsqueeze(t *tensor.RawTensor, dim int) *tensor.RawTensor {
	oldShape := t.Shape()
	if dim < 0 {
		dim = len(oldShape) + 1 + dim
	}

	newShape := make(tensor.Shape, 0, len(oldShape)+1)
	newShape = append(newShape, oldShape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, oldShape[dim:]...)

	result, err := tensor.NewRaw(newShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("unsqueeze: %v", err))
	}
	copy(result.Data(), t.Data())
	return result
}
