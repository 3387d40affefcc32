package optim_test

import (
	"math"
	"testing"

	"github.com/decorr-ml/decorr/internal/backend/cpu"
	"github.com/decorr-ml/decorr/internal/nn"
	"github.com/decorr-ml/decorr/internal/optim"
	"github.com/decorr-ml/decorr/internal/tensor"
)

type be = *cpu.CPUBackend

func floatEqual(a, b, epsilon float32) bool {
	return math.Abs(float64(a-b)) < float64(epsilon)
}

func newParam(t *testing.T, backend be, data []float32) *nn.Parameter[be] {
	t.Helper()
	x, err := tensor.FromSlice(data, tensor.Shape{len(data)}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	return nn.NewParameter("p", x)
}

func newGrad(t *testing.T, backend be, data []float32) *tensor.RawTensor {
	t.Helper()
	g, err := tensor.FromSlice(data, tensor.Shape{len(data)}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	return g.Raw()
}

func TestSGDPlainStep(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, []float32{1, 2, 3})
	opt := optim.NewSGD([]*nn.Parameter[be]{param}, optim.SGDConfig{LR: 0.1})

	grads := map[*tensor.RawTensor]*tensor.RawTensor{
		param.Tensor().Raw(): newGrad(t, backend, []float32{1, 1, 1}),
	}
	opt.Step(grads)

	want := []float32{0.9, 1.9, 2.9}
	for i, w := range want {
		if !floatEqual(param.Tensor().Data()[i], w, 1e-6) {
			t.Errorf("param[%d] = %f, want %f", i, param.Tensor().Data()[i], w)
		}
	}
}

func TestSGDMomentumAccumulates(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, []float32{0})
	opt := optim.NewSGD([]*nn.Parameter[be]{param}, optim.SGDConfig{LR: 1, Momentum: 0.5})

	grads := map[*tensor.RawTensor]*tensor.RawTensor{
		param.Tensor().Raw(): newGrad(t, backend, []float32{1}),
	}

	// Step 1: v = 1, param = -1.
	opt.Step(grads)
	if !floatEqual(param.Tensor().Data()[0], -1, 1e-6) {
		t.Fatalf("after step 1: %f, want -1", param.Tensor().Data()[0])
	}

	// Step 2: v = 0.5*1 + 1 = 1.5, param = -2.5.
	grads[param.Tensor().Raw()] = newGrad(t, backend, []float32{1})
	opt.Step(grads)
	if !floatEqual(param.Tensor().Data()[0], -2.5, 1e-6) {
		t.Errorf("after step 2: %f, want -2.5", param.Tensor().Data()[0])
	}
}

func TestSGDWeightDecay(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, []float32{2})
	opt := optim.NewSGD([]*nn.Parameter[be]{param}, optim.SGDConfig{LR: 0.1, WeightDecay: 0.5})

	grads := map[*tensor.RawTensor]*tensor.RawTensor{
		param.Tensor().Raw(): newGrad(t, backend, []float32{0}),
	}
	opt.Step(grads)

	// g = 0 + 0.5*2 = 1, param = 2 - 0.1 = 1.9
	if !floatEqual(param.Tensor().Data()[0], 1.9, 1e-6) {
		t.Errorf("param = %f, want 1.9", param.Tensor().Data()[0])
	}
}

func TestSGDSkipsParamsWithoutGradients(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, []float32{5})
	opt := optim.NewSGD([]*nn.Parameter[be]{param}, optim.SGDConfig{LR: 0.1})

	opt.Step(map[*tensor.RawTensor]*tensor.RawTensor{})

	if param.Tensor().Data()[0] != 5 {
		t.Errorf("param = %f, want untouched 5", param.Tensor().Data()[0])
	}
}

func TestSGDDefaultLR(t *testing.T) {
	backend := cpu.New()
	param := newParam(t, backend, []float32{1})
	opt := optim.NewSGD([]*nn.Parameter[be]{param}, optim.SGDConfig{})

	if !floatEqual(opt.LR(), 0.01, 1e-9) {
		t.Errorf("LR = %f, want default 0.01", opt.LR())
	}

	opt.SetLR(0.2)
	if !floatEqual(opt.LR(), 0.2, 1e-9) {
		t.Errorf("LR = %f after SetLR, want 0.2", opt.LR())
	}
}
