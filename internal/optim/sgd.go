package optim

import (
	"github.com/decorr-ml/decorr/internal/nn"
	"github.com/decorr-ml/decorr/internal/tensor"
)

// SGD implements stochastic gradient descent with optional momentum and
// L2 weight decay.
//
// Update rule:
//
//	g = grad + weightDecay * param
//	v = momentum * v + g
//	param -= lr * v
//
// Without momentum v degenerates to g and no velocity state is kept.
type SGD[B tensor.Backend] struct {
	params      []*nn.Parameter[B]
	lr          float32
	momentum    float32
	weightDecay float32
	velocities  map[*nn.Parameter[B]][]float32
}

// SGDConfig holds SGD hyperparameters.
type SGDConfig struct {
	LR          float32 // learning rate (default 0.01)
	Momentum    float32 // momentum factor in [0, 1)
	WeightDecay float32 // L2 penalty coefficient
}

// NewSGD creates an SGD optimizer over the given parameters.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], config SGDConfig) *SGD[B] {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD[B]{
		params:      params,
		lr:          config.LR,
		momentum:    config.Momentum,
		weightDecay: config.WeightDecay,
		velocities:  make(map[*nn.Parameter[B]][]float32),
	}
}

// Step applies one update to every parameter that received a gradient.
// Parameters absent from the map did not participate in the forward pass and
// are skipped.
func (s *SGD[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, param := range s.params {
		grad, ok := grads[param.Tensor().Raw()]
		if !ok {
			continue
		}

		paramData := param.Tensor().Raw().AsFloat32()
		gradData := grad.AsFloat32()

		if s.momentum == 0 {
			for i := range paramData {
				g := gradData[i] + s.weightDecay*paramData[i]
				paramData[i] -= s.lr * g
			}
			continue
		}

		velocity, exists := s.velocities[param]
		if !exists {
			velocity = make([]float32, len(paramData))
			s.velocities[param] = velocity
		}
		for i := range paramData {
			g := gradData[i] + s.weightDecay*paramData[i]
			velocity[i] = s.momentum*velocity[i] + g
			paramData[i] -= s.lr * velocity[i]
		}
	}
}

// LR returns the current learning rate.
func (s *SGD[B]) LR() float32 {
	return s.lr
}

// SetLR updates the learning rate, for schedules.
func (s *SGD[B]) SetLR(lr float32) {
	s.lr = lr
}
