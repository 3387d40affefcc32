// Copyright 2026 The DeCorr Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks: layers, activations,
// losses, and the MLP architectures whose hidden activations feed the reg
// package's penalties.
package nn

import (
	"math/rand"

	"github.com/decorr-ml/decorr/internal/nn"
	"github.com/decorr-ml/decorr/internal/tensor"
)

// Module is the base interface for all NN components.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a named trainable tensor.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Linear is a fully connected layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a Linear layer with Xavier-initialized weights.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, rng *rand.Rand, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, rng, backend)
}

// Activation and shape modules.
type (
	ReLU[B tensor.Backend]     = nn.ReLU[B]
	Sigmoid[B tensor.Backend]  = nn.Sigmoid[B]
	Tanh[B tensor.Backend]     = nn.Tanh[B]
	Identity[B tensor.Backend] = nn.Identity[B]
	Flatten[B tensor.Backend]  = nn.Flatten[B]
)

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] { return nn.NewReLU[B]() }

// NewSigmoid creates a Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] { return nn.NewSigmoid[B]() }

// NewTanh creates a Tanh activation module.
func NewTanh[B tensor.Backend]() *Tanh[B] { return nn.NewTanh[B]() }

// NewIdentity creates an Identity module.
func NewIdentity[B tensor.Backend]() *Identity[B] { return nn.NewIdentity[B]() }

// NewFlatten creates a Flatten module.
func NewFlatten[B tensor.Backend]() *Flatten[B] { return nn.NewFlatten[B]() }

// Sequential chains modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// CrossEntropyLoss is the mean softmax cross-entropy loss.
type CrossEntropyLoss[B tensor.Backend] = nn.CrossEntropyLoss[B]

// NewCrossEntropyLoss creates a CrossEntropyLoss on the given backend.
func NewCrossEntropyLoss[B tensor.Backend](backend B) *CrossEntropyLoss[B] {
	return nn.NewCrossEntropyLoss(backend)
}

// MLP is a single-task feed-forward classifier exposing hidden activations.
type MLP[B tensor.Backend] = nn.MLP[B]

// MLPConfig configures an MLP.
type MLPConfig[B tensor.Backend] = nn.MLPConfig[B]

// NewMLP builds an MLP, drawing initial weights from rng.
func NewMLP[B tensor.Backend](cfg MLPConfig[B], rng *rand.Rand, backend B) *MLP[B] {
	return nn.NewMLP(cfg, rng, backend)
}

// TwoTaskMLP shares a hidden trunk between two classification heads.
type TwoTaskMLP[B tensor.Backend] = nn.TwoTaskMLP[B]

// TwoTaskMLPConfig configures a TwoTaskMLP.
type TwoTaskMLPConfig[B tensor.Backend] = nn.TwoTaskMLPConfig[B]

// NewTwoTaskMLP builds a TwoTaskMLP, drawing initial weights from rng.
func NewTwoTaskMLP[B tensor.Backend](cfg TwoTaskMLPConfig[B], rng *rand.Rand, backend B) *TwoTaskMLP[B] {
	return nn.NewTwoTaskMLP(cfg, rng, backend)
}

// Xavier initializes a tensor with Glorot uniform values from rng.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, rng, backend)
}
