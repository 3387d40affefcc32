package ops

import "github.com/decorr-ml/decorr/internal/tensor"

// SumOp records a full reduction to a rank-0 scalar: output = sum(x).
//
// Backward: the scalar gradient broadcasts to every input element.
type SumOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor
}

// NewSumOp creates a new SumOp.
func NewSumOp(x, output *tensor.RawTensor) *SumOp {
	return &SumOp{inputs: []*tensor.RawTensor{x}, output: output}
}

func (op *SumOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{broadcastTo(outputGrad, op.inputs[0].Shape())}
}

func (op *SumOp) Inputs() []*tensor.RawTensor { return op.inputs }
func (op *SumOp) Output() *tensor.RawTensor   { return op.output }

// SumDimOp records output = sum(x, dim, keepDim).
//
// Backward: each input element contributes exactly once to the output, so
// the gradient broadcasts back along the reduced axis.
type SumDimOp struct {
	inputs  []*tensor.RawTensor // [x]
	output  *tensor.RawTensor
	dim     int
	keepDim bool
}

// NewSumDimOp creates a new SumDimOp. dim must already be normalized.
func NewSumDimOp(x, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{inputs: []*tensor.RawTensor{x}, output: output, dim: dim, keepDim: keepDim}
}

func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	grad := outputGrad
	if !op.keepDim {
		grad = unsqueeze(grad, op.dim)
	}
	return []*tensor.RawTensor{broadcastTo(grad, op.inputs[0].Shape())}
}

func (op *SumDimOp) Inputs() []*tensor.RawTensor { return op.inputs }
func (op *SumDimOp) Output() *tensor.RawTensor   { return op.output }

// MeanDimOp records output = mean(x, dim, keepDim).
//
// Backward: like SumDimOp, scaled by 1/dimSize.
type MeanDimOp struct {
	inputs  []*tensor.RawTensor // [x]
	output  *tensor.RawTensor
	dim     int
	keepDim bool
}

// NewMeanDimOp creates a new MeanDimOp. dim must already be normalized.
func NewMeanDimOp(x, output *tensor.RawTensor, dim int, keepDim bool) *MeanDimOp {
	return &MeanDimOp{inputs: []*tensor.RawTensor{x}, output: output, dim: dim, keepDim: keepDim}
}

func (op *MeanDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	grad := outputGrad
	if !op.keepDim {
		grad = unsqueeze(grad, op.dim)
	}
	grad = broadcastTo(grad, x.Shape())
	grad = backend.DivScalar(grad, float64(x.Shape()[op.dim]))
	return []*tensor.RawTensor{grad}
}

func (op *MeanDimOp) Inputs() []*tensor.RawTensor { return op.inputs }
func (op *MeanDimOp) Output() *tensor.RawTensor   { return op.output }
