package cpu

import (
	"fmt"
	"math"

	"github.com/decorr-ml/decorr/internal/parallel"
	"github.com/decorr-ml/decorr/internal/tensor"
)

// ReLU applies max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("relu", x, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Sigmoid applies 1/(1+exp(-x)) element-wise.
func (cpu *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("sigmoid", x, func(v float64) float64 {
		return 1.0 / (1.0 + math.Exp(-v))
	})
}

// Tanh applies the hyperbolic tangent element-wise.
func (cpu *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("tanh", x, math.Tanh)
}

func (cpu *CPUBackend) unary(name string, x *tensor.RawTensor, f func(v float64) float64) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	switch x.DType() {
	case tensor.Float32:
		src, dst := x.AsFloat32(), result.AsFloat32()
		parallel.For(len(src), func(i int) {
			dst[i] = float32(f(float64(src[i])))
		}, cpu.par)
	case tensor.Float64:
		src, dst := x.AsFloat64(), result.AsFloat64()
		parallel.For(len(src), func(i int) {
			dst[i] = f(src[i])
		}, cpu.par)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return result
}

// Softmax computes softmax along the given axis with max-subtraction for
// numerical stability.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim = shape.NormalizeDim(dim)

	result, err := tensor.NewRaw(shape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("softmax: %v", err))
	}

	outer, dimSize, inner := 1, shape[dim], 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}

	switch x.DType() {
	case tensor.Float32:
		softmaxAxis(result.AsFloat32(), x.AsFloat32(), outer, dimSize, inner, cpu.par)
	case tensor.Float64:
		softmaxAxis(result.AsFloat64(), x.AsFloat64(), outer, dimSize, inner, cpu.par)
	default:
		panic(fmt.Sprintf("softmax: unsupported dtype %s", x.DType()))
	}

	return result
}

func softmaxAxis[T float32 | float64](dst, src []T, outer, dimSize, inner int, par parallel.Config) {
	parallel.For(outer*inner, func(oi int) {
		o, in := oi/inner, oi%inner
		base := o*dimSize*inner + in

		maxVal := src[base]
		for d := 1; d < dimSize; d++ {
			if v := src[base+d*inner]; v > maxVal {
				maxVal = v
			}
		}

		var total T
		for d := 0; d < dimSize; d++ {
			e := T(math.Exp(float64(src[base+d*inner] - maxVal)))
			dst[base+d*inner] = e
			total += e
		}
		for d := 0; d < dimSize; d++ {
			dst[base+d*inner] /= total
		}
	}, parallel.Config{Enabled: par.Enabled, NumWorkers: par.NumWorkers, MinChunkSize: 1})
}

// CrossEntropy computes the mean cross-entropy between logits (N, C) and
// int32 class targets (N). The result is a Shape{1} tensor. Softmax is fused
// via log-sum-exp so that no probability ever hits exactly zero.
func (cpu *CPUBackend) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	lShape := logits.Shape()
	tShape := targets.Shape()

	if len(lShape) != 2 {
		panic(fmt.Sprintf("crossentropy: expected 2D logits, got %v", lShape))
	}
	if len(tShape) != 1 || tShape[0] != lShape[0] {
		panic(fmt.Sprintf("crossentropy: expected targets shape [%d], got %v", lShape[0], tShape))
	}
	if targets.DType() != tensor.Int32 {
		panic(fmt.Sprintf("crossentropy: expected int32 targets, got %s", targets.DType()))
	}

	result, err := tensor.NewRaw(tensor.Shape{1}, logits.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("crossentropy: %v", err))
	}

	n, c := lShape[0], lShape[1]
	classes := targets.AsInt32()

	switch logits.DType() {
	case tensor.Float32:
		result.AsFloat32()[0] = float32(crossEntropyMean(logits.AsFloat32(), classes, n, c))
	case tensor.Float64:
		result.AsFloat64()[0] = crossEntropyMean(logits.AsFloat64(), classes, n, c)
	default:
		panic(fmt.Sprintf("crossentropy: unsupported dtype %s", logits.DType()))
	}

	return result
}

func crossEntropyMean[T float32 | float64](logits []T, classes []int32, n, c int) float64 {
	var total float64
	for i := 0; i < n; i++ {
		row := logits[i*c : (i+1)*c]
		cls := int(classes[i])
		if cls < 0 || cls >= c {
			panic(fmt.Sprintf("crossentropy: target class %d out of range [0, %d)", cls, c))
		}

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
		// -log softmax[cls] = log(sum exp(x - max)) - (x[cls] - max)
		total += math.Log(sumExp) - float64(row[cls]-maxVal)
	}
	return total / float64(n)
}
