package cpu

import (
	"fmt"

	"github.com/decorr-ml/decorr/internal/parallel"
	"github.com/decorr-ml/decorr/internal/tensor"
)

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) -> (M, N).
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: expected 2D tensors, got %v @ %v", aShape, bShape))
	}
	if aShape[1] != bShape[0] {
		panic(fmt.Sprintf("matmul: inner dimensions must match: %v @ %v", aShape, bShape))
	}

	m, k, n := aShape[0], aShape[1], bShape[1]
	result, err := tensor.NewRaw(tensor.Shape{m, n}, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("matmul: %v", err))
	}

	switch a.DType() {
	case tensor.Float32:
		matmulRows(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n, cpu.par)
	case tensor.Float64:
		matmulRows(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n, cpu.par)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}

	return result
}

// matmulRows computes C = A @ B, parallelized over rows of A.
// The inner loops are ordered i-k-j so that both B and C are walked
// sequentially, which is what makes this cache-friendly.
func matmulRows[T float32 | float64](c, a, b []T, m, k, n int, par parallel.Config) {
	parallel.For(m, func(i int) {
		cRow := c[i*n : (i+1)*n]
		for kk := 0; kk < k; kk++ {
			aik := a[i*k+kk]
			if aik == 0 {
				continue
			}
			bRow := b[kk*n : (kk+1)*n]
			for j := range cRow {
				cRow[j] += aik * bRow[j]
			}
		}
	}, par)
}

// BatchMatMul performs batched matrix multiplication over the last two axes.
// Supports 3D (B, M, K) @ (B, K, N) and 4D (B, H, M, K) @ (B, H, K, N).
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != len(bShape) || (len(aShape) != 3 && len(aShape) != 4) {
		panic(fmt.Sprintf("batchmatmul: expected matching 3D or 4D tensors, got %v @ %v", aShape, bShape))
	}

	batch := 1
	for d := 0; d < len(aShape)-2; d++ {
		if aShape[d] != bShape[d] {
			panic(fmt.Sprintf("batchmatmul: batch dimensions must match: %v @ %v", aShape, bShape))
		}
		batch *= aShape[d]
	}

	m, k := aShape[len(aShape)-2], aShape[len(aShape)-1]
	if bShape[len(bShape)-2] != k {
		panic(fmt.Sprintf("batchmatmul: inner dimensions must match: %v @ %v", aShape, bShape))
	}
	n := bShape[len(bShape)-1]

	outShape := aShape.Clone()
	outShape[len(outShape)-1] = n
	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("batchmatmul: %v", err))
	}

	switch a.DType() {
	case tensor.Float32:
		batchMatmul(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), batch, m, k, n, cpu.par)
	case tensor.Float64:
		batchMatmul(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), batch, m, k, n, cpu.par)
	default:
		panic(fmt.Sprintf("batchmatmul: unsupported dtype %s", a.DType()))
	}

	return result
}

// batchMatmul parallelizes over batches, each batch a sequential matmul.
func batchMatmul[T float32 | float64](c, a, b []T, batch, m, k, n int, par parallel.Config) {
	parallel.For(batch, func(bi int) {
		aMat := a[bi*m*k : (bi+1)*m*k]
		bMat := b[bi*k*n : (bi+1)*k*n]
		cMat := c[bi*m*n : (bi+1)*m*n]
		for i := 0; i < m; i++ {
			cRow := cMat[i*n : (i+1)*n]
			for kk := 0; kk < k; kk++ {
				aik := aMat[i*k+kk]
				if aik == 0 {
					continue
				}
				bRow := bMat[kk*n : (kk+1)*n]
				for j := range cRow {
					cRow[j] += aik * bRow[j]
				}
			}
		}
	}, parallel.Config{Enabled: par.Enabled, NumWorkers: par.NumWorkers, MinChunkSize: 1})
}
