// Copyright 2026 The DeCorr Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// It wraps any backend with a gradient tape:
//
//	base := cpu.New()
//	backend := autodiff.New(base)
//	backend.Tape().StartRecording()
//
//	loss := ... // forward pass on backend
//	grads := backend.Backward(loss.Raw())
package autodiff

import (
	"github.com/decorr-ml/decorr/internal/autodiff"
	"github.com/decorr-ml/decorr/internal/tensor"
)

// Backend is the autodiff-enabled backend decorator.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// GradientTape records operations for backpropagation.
type GradientTape = autodiff.GradientTape

// New creates an autodiff backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}
