// Copyright 2026 The DeCorr Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"math/rand"
	"testing"

	"github.com/decorr-ml/decorr/backend/cpu"
	"github.com/decorr-ml/decorr/tensor"
)

func TestPublicTensorOps(t *testing.T) {
	backend := cpu.New()

	x := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
	y := x.MulScalar(2).Add(x)

	for i, v := range y.Data() {
		if v != 3 {
			t.Errorf("y[%d] = %f, want 3", i, v)
		}
	}
}

func TestPublicCreationAndMatMul(t *testing.T) {
	backend := cpu.New()

	eye := tensor.Eye[float32](3, backend)
	x := tensor.Randn[float32](tensor.Shape{3, 3}, rand.New(rand.NewSource(1)), backend)

	y := x.MatMul(eye)
	for i := range x.Data() {
		if x.Data()[i] != y.Data()[i] {
			t.Fatalf("identity matmul changed element %d", i)
		}
	}
}
