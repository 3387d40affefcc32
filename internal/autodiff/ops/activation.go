package ops

import (
	"fmt"

	"github.com/decorr-ml/decorr/internal/tensor"
)

// ReLUOp records output = max(0, x).
//
// Backward: gradient passes through where the input was positive.
type ReLUOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(x, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{inputs: []*tensor.RawTensor{x}, output: output}
}

func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	x := op.inputs[0]
	grad := mustRaw(x.Shape(), x.DType(), x.Device())

	switch x.DType() {
	case tensor.Float32:
		xData, gData, oData := x.AsFloat32(), grad.AsFloat32(), outputGrad.AsFloat32()
		for i, v := range xData {
			if v > 0 {
				gData[i] = oData[i]
			}
		}
	case tensor.Float64:
		xData, gData, oData := x.AsFloat64(), grad.AsFloat64(), outputGrad.AsFloat64()
		for i, v := range xData {
			if v > 0 {
				gData[i] = oData[i]
			}
		}
	}

	return []*tensor.RawTensor{grad}
}

func (op *ReLUOp) Inputs() []*tensor.RawTensor { return op.inputs }
func (op *ReLUOp) Output() *tensor.RawTensor   { return op.output }

// SigmoidOp records output = σ(x).
//
// Backward: grad_x = grad * σ(x) * (1 - σ(x)), computed from the saved output.
type SigmoidOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor
}

// NewSigmoidOp creates a new SigmoidOp.
func NewSigmoidOp(x, output *tensor.RawTensor) *SigmoidOp {
	return &SigmoidOp{inputs: []*tensor.RawTensor{x}, output: output}
}

func (op *SigmoidOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	s := op.output
	oneMinusS := backend.SubScalar(backend.MulScalar(s, -1.0), -1.0) // 1 - s
	grad := backend.Mul(outputGrad, backend.Mul(s, oneMinusS))
	return []*tensor.RawTensor{grad}
}

func (op *SigmoidOp) Inputs() []*tensor.RawTensor { return op.inputs }
func (op *SigmoidOp) Output() *tensor.RawTensor   { return op.output }

// TanhOp records output = tanh(x).
//
// Backward: grad_x = grad * (1 - tanh²(x)).
type TanhOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor
}

// NewTanhOp creates a new TanhOp.
func NewTanhOp(x, output *tensor.RawTensor) *TanhOp {
	return &TanhOp{inputs: []*tensor.RawTensor{x}, output: output}
}

func (op *TanhOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	t := op.output
	tSq := backend.Mul(t, t)
	oneMinusTSq := backend.SubScalar(backend.MulScalar(tSq, -1.0), -1.0) // 1 - t²
	grad := backend.Mul(outputGrad, oneMinusTSq)
	return []*tensor.RawTensor{grad}
}

func (op *TanhOp) Inputs() []*tensor.RawTensor { return op.inputs }
func (op *TanhOp) Output() *tensor.RawTensor   { return op.output }

// SoftmaxOp records output = softmax(x, dim).
//
// Backward: grad_x = s * (grad - sum(grad * s, dim, keepDim)), where s is
// the saved softmax output.
type SoftmaxOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor
	dim    int
}

// NewSoftmaxOp creates a new SoftmaxOp. dim must already be normalized.
func NewSoftmaxOp(x, output *tensor.RawTensor, dim int) *SoftmaxOp {
	return &SoftmaxOp{inputs: []*tensor.RawTensor{x}, output: output, dim: dim}
}

func (op *SoftmaxOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	s := op.output
	gs := backend.Mul(outputGrad, s)
	sumGS := backend.SumDim(gs, op.dim, true)
	grad := backend.Mul(s, backend.Sub(outputGrad, sumGS))
	return []*tensor.RawTensor{grad}
}

func (op *SoftmaxOp) Inputs() []*tensor.RawTensor { return op.inputs }
func (op *SoftmaxOp) Output() *tensor.RawTensor   { return op.output }

func mustRaw(shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	raw, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(fmt.Sprintf("ops: %v", err))
	}
	return raw
}
