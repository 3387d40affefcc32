// Copyright 2026 The DeCorr Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides gradient-based optimizers.
package optim

import (
	"github.com/decorr-ml/decorr/internal/nn"
	"github.com/decorr-ml/decorr/internal/optim"
	"github.com/decorr-ml/decorr/internal/tensor"
)

// Optimizer is the common optimizer interface.
type Optimizer = optim.Optimizer

// SGD is stochastic gradient descent with momentum and weight decay.
type SGD[B tensor.Backend] = optim.SGD[B]

// SGDConfig holds SGD hyperparameters.
type SGDConfig = optim.SGDConfig

// NewSGD creates an SGD optimizer.
//
// Example:
//
//	opt := optim.NewSGD(model.Parameters(), optim.SGDConfig{
//	    LR:       0.1,
//	    Momentum: 0.9,
//	})
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig) *SGD[B] {
	return optim.NewSGD(params, config)
}
