package ops

import "github.com/decorr-ml/decorr/internal/tensor"

// ScalarOp records an element-wise operation between a tensor and a Go
// scalar: output = f(x, s). The scalar is a constant, so only the tensor
// input receives a gradient.
type ScalarOp struct {
	inputs []*tensor.RawTensor // [x]
	output *tensor.RawTensor
	kind   scalarKind
	scalar float64
}

type scalarKind int

const (
	scalarMul scalarKind = iota
	scalarAdd
	scalarSub
	scalarDiv
)

// NewMulScalarOp records output = x * s.
func NewMulScalarOp(x, output *tensor.RawTensor, scalar float64) *ScalarOp {
	return &ScalarOp{inputs: []*tensor.RawTensor{x}, output: output, kind: scalarMul, scalar: scalar}
}

// NewAddScalarOp records output = x + s.
func NewAddScalarOp(x, output *tensor.RawTensor, scalar float64) *ScalarOp {
	return &ScalarOp{inputs: []*tensor.RawTensor{x}, output: output, kind: scalarAdd, scalar: scalar}
}

// NewSubScalarOp records output = x - s.
func NewSubScalarOp(x, output *tensor.RawTensor, scalar float64) *ScalarOp {
	return &ScalarOp{inputs: []*tensor.RawTensor{x}, output: output, kind: scalarSub, scalar: scalar}
}

// NewDivScalarOp records output = x / s.
func NewDivScalarOp(x, output *tensor.RawTensor, scalar float64) *ScalarOp {
	return &ScalarOp{inputs: []*tensor.RawTensor{x}, output: output, kind: scalarDiv, scalar: scalar}
}

func (op *ScalarOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	switch op.kind {
	case scalarMul:
		return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.scalar)}
	case scalarDiv:
		return []*tensor.RawTensor{backend.DivScalar(outputGrad, op.scalar)}
	default: // add and sub shift by a constant, gradient passes through
		return []*tensor.RawTensor{outputGrad.Clone()}
	}
}

func (op *ScalarOp) Inputs() []*tensor.RawTensor { return op.inputs }
func (op *ScalarOp) Output() *tensor.RawTensor   { return op.output }
