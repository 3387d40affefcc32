package ops

import (
	"math"

	"github.com/decorr-ml/decorr/internal/tensor"
)

// CrossEntropyOp records the fused softmax + negative log likelihood loss.
//
// Forward: loss = mean(-log softmax(logits)[targets]), a Shape{1} tensor.
//
// Backward:
//
//	grad_logits = (softmax(logits) - onehot(targets)) / batchSize * grad
//
// Targets are integer class indices and receive no gradient.
type CrossEntropyOp struct {
	inputs []*tensor.RawTensor // [logits, targets]
	output *tensor.RawTensor
}

// NewCrossEntropyOp creates a new CrossEntropyOp.
func NewCrossEntropyOp(logits, targets, output *tensor.RawTensor) *CrossEntropyOp {
	return &CrossEntropyOp{inputs: []*tensor.RawTensor{logits, targets}, output: output}
}

func (op *CrossEntropyOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	logits, targets := op.inputs[0], op.inputs[1]
	shape := logits.Shape()
	n, c := shape[0], shape[1]
	classes := targets.AsInt32()

	grad := mustRaw(shape, logits.DType(), logits.Device())

	switch logits.DType() {
	case tensor.Float32:
		scale := outputGrad.AsFloat32()[0] / float32(n)
		crossEntropyGrad(grad.AsFloat32(), logits.AsFloat32(), classes, n, c, scale)
	case tensor.Float64:
		scale := outputGrad.AsFloat64()[0] / float64(n)
		crossEntropyGrad(grad.AsFloat64(), logits.AsFloat64(), classes, n, c, scale)
	}

	// nil: no gradient flows to the integer targets
	return []*tensor.RawTensor{grad, nil}
}

func (op *CrossEntropyOp) Inputs() []*tensor.RawTensor { return op.inputs }
func (op *CrossEntropyOp) Output() *tensor.RawTensor   { return op.output }

func crossEntropyGrad[T float32 | float64](dst, logits []T, classes []int32, n, c int, scale T) {
	for i := 0; i < n; i++ {
		row := logits[i*c : (i+1)*c]
		out := dst[i*c : (i+1)*c]

		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}
		var sumExp float64
		for _, v := range row {
			sumExp += math.Exp(float64(v - maxVal))
		}
		for j, v := range row {
			out[j] = T(math.Exp(float64(v-maxVal))/sumExp) * scale
		}
		out[classes[i]] -= scale
	}
}
