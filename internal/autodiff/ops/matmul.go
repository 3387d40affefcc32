package ops

import "github.com/decorr-ml/decorr/internal/tensor"

// MatMulOp records output = A @ B for 2D matrices.
//
// Backward:
//
//	grad_A = grad @ Bᵀ
//	grad_B = Aᵀ @ grad
type MatMulOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor
}

// NewMatMulOp creates a new MatMulOp.
func NewMatMulOp(a, b, output *tensor.RawTensor) *MatMulOp {
	return &MatMulOp{inputs: []*tensor.RawTensor{a, b}, output: output}
}

func (op *MatMulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	gradA := backend.MatMul(outputGrad, backend.Transpose(b))
	gradB := backend.MatMul(backend.Transpose(a), outputGrad)
	return []*tensor.RawTensor{gradA, gradB}
}

func (op *MatMulOp) Inputs() []*tensor.RawTensor { return op.inputs }
func (op *MatMulOp) Output() *tensor.RawTensor   { return op.output }

// BatchMatMulOp records batched matrix multiplication over the last two axes.
//
// Backward mirrors MatMulOp per batch:
//
//	grad_A = grad @ B.swap(-1, -2)
//	grad_B = A.swap(-1, -2) @ grad
type BatchMatMulOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor
}

// NewBatchMatMulOp creates a new BatchMatMulOp.
func NewBatchMatMulOp(a, b, output *tensor.RawTensor) *BatchMatMulOp {
	return &BatchMatMulOp{inputs: []*tensor.RawTensor{a, b}, output: output}
}

func (op *BatchMatMulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	gradA := backend.BatchMatMul(outputGrad, swapLastTwo(b, backend))
	gradB := backend.BatchMatMul(swapLastTwo(a, backend), outputGrad)
	return []*tensor.RawTensor{gradA, gradB}
}

func (op *BatchMatMulOp) Inputs() []*tensor.RawTensor { return op.inputs }
func (op *BatchMatMulOp) Output() *tensor.RawTensor   { return op.output }

// swapLastTwo transposes the last two axes, leaving batch axes in place.
func swapLastTwo(t *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	ndim := len(t.Shape())
	axes := make([]int, ndim)
	for i := range axes {
		axes[i] = i
	}
	axes[ndim-2], axes[ndim-1] = axes[ndim-1], axes[ndim-2]
	return backend.Transpose(t, axes...)
}
