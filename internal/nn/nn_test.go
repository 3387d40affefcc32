package nn_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/decorr-ml/decorr/internal/backend/cpu"
	"github.com/decorr-ml/decorr/internal/nn"
	"github.com/decorr-ml/decorr/internal/tensor"
)

type be = *cpu.CPUBackend

func floatEqual(a, b, epsilon float32) bool {
	return math.Abs(float64(a-b)) < float64(epsilon)
}

func fromSlice(t *testing.T, backend be, data []float32, shape tensor.Shape) *tensor.Tensor[float32, be] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}
	return x
}

func TestLinearForwardKnownWeights(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear[be](2, 3, rand.New(rand.NewSource(1)), backend)

	// Overwrite the random init with fixed values.
	copy(layer.Weight().Tensor().Data(), []float32{1, 0, 0, 1, 1, 1})
	copy(layer.Bias().Tensor().Data(), []float32{10, 20, 30})

	input := fromSlice(t, backend, []float32{2, 3}, tensor.Shape{1, 2})
	out := layer.Forward(input)

	if !out.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("shape = %v, want [1 3]", out.Shape())
	}
	want := []float32{12, 23, 35}
	for i, w := range want {
		if !floatEqual(out.Data()[i], w, 1e-5) {
			t.Errorf("out[%d] = %f, want %f", i, out.Data()[i], w)
		}
	}
}

func TestLinearSeededInitIsDeterministic(t *testing.T) {
	backend := cpu.New()
	a := nn.NewLinear[be](4, 3, rand.New(rand.NewSource(7)), backend)
	b := nn.NewLinear[be](4, 3, rand.New(rand.NewSource(7)), backend)

	aw := a.Weight().Tensor().Data()
	bw := b.Weight().Tensor().Data()
	for i := range aw {
		if aw[i] != bw[i] {
			t.Fatalf("weights diverge at %d: %f vs %f", i, aw[i], bw[i])
		}
	}
}

func TestLinearForwardPanicsOnWrongWidth(t *testing.T) {
	backend := cpu.New()
	layer := nn.NewLinear[be](3, 2, rand.New(rand.NewSource(1)), backend)
	input := fromSlice(t, backend, []float32{1, 2}, tensor.Shape{1, 2})

	defer func() {
		if recover() == nil {
			t.Error("expected panic for mismatched feature width")
		}
	}()
	layer.Forward(input)
}

func TestMLPForwardHidden(t *testing.T) {
	backend := cpu.New()
	model := nn.NewMLP(nn.MLPConfig[be]{
		InputSize:   8,
		HiddenSizes: []int{6, 4},
		OutputSize:  3,
	}, rand.New(rand.NewSource(2)), backend)

	input := fromSlice(t, backend, make([]float32, 5*8), tensor.Shape{5, 8})
	hidden, logits := model.ForwardHidden(input)

	if len(hidden) != 2 {
		t.Fatalf("got %d hidden tensors, want 2", len(hidden))
	}
	if !hidden[0].Shape().Equal(tensor.Shape{5, 6}) {
		t.Errorf("hidden[0] shape = %v, want [5 6]", hidden[0].Shape())
	}
	if !hidden[1].Shape().Equal(tensor.Shape{5, 4}) {
		t.Errorf("hidden[1] shape = %v, want [5 4]", hidden[1].Shape())
	}
	if !logits.Shape().Equal(tensor.Shape{5, 3}) {
		t.Errorf("logits shape = %v, want [5 3]", logits.Shape())
	}
}

func TestMLPDefaultActivationsAreReLU(t *testing.T) {
	backend := cpu.New()
	model := nn.NewMLP(nn.MLPConfig[be]{
		InputSize:   4,
		HiddenSizes: []int{16},
		OutputSize:  2,
	}, rand.New(rand.NewSource(3)), backend)

	input := fromSlice(t, backend, []float32{-5, -5, -5, -5}, tensor.Shape{1, 4})
	hidden, _ := model.ForwardHidden(input)

	for i, v := range hidden[0].Data() {
		if v < 0 {
			t.Errorf("hidden[0][%d] = %f, ReLU output must be non-negative", i, v)
		}
	}
}

func TestMLPParameterCount(t *testing.T) {
	backend := cpu.New()
	model := nn.NewMLP(nn.MLPConfig[be]{
		InputSize:   4,
		HiddenSizes: []int{5, 6},
		OutputSize:  3,
	}, rand.New(rand.NewSource(1)), backend)

	// Three layers, weight + bias each.
	if got := len(model.Parameters()); got != 6 {
		t.Errorf("got %d parameters, want 6", got)
	}
}

func TestMLPActivationCountMismatchPanics(t *testing.T) {
	backend := cpu.New()
	defer func() {
		if recover() == nil {
			t.Error("expected panic for wrong activation count")
		}
	}()
	nn.NewMLP(nn.MLPConfig[be]{
		InputSize:   4,
		HiddenSizes: []int{5},
		OutputSize:  2,
		Activations: []nn.Module[be]{nn.NewReLU[be]()},
	}, rand.New(rand.NewSource(1)), backend)
}

func TestTwoTaskMLPForwardBoth(t *testing.T) {
	backend := cpu.New()
	model := nn.NewTwoTaskMLP(nn.TwoTaskMLPConfig[be]{
		InputSize:   8,
		HiddenSizes: []int{6},
		OutputSize1: 10,
		OutputSize2: 4,
	}, rand.New(rand.NewSource(5)), backend)

	input := fromSlice(t, backend, make([]float32, 3*8), tensor.Shape{3, 8})
	hidden, logits1, logits2 := model.ForwardBoth(input)

	if len(hidden) != 1 {
		t.Fatalf("got %d hidden tensors, want 1", len(hidden))
	}
	if !hidden[0].Shape().Equal(tensor.Shape{3, 6}) {
		t.Errorf("hidden shape = %v, want [3 6]", hidden[0].Shape())
	}
	if !logits1.Shape().Equal(tensor.Shape{3, 10}) {
		t.Errorf("logits1 shape = %v, want [3 10]", logits1.Shape())
	}
	if !logits2.Shape().Equal(tensor.Shape{3, 4}) {
		t.Errorf("logits2 shape = %v, want [3 4]", logits2.Shape())
	}
}

func TestTwoTaskMLPRequiresHiddenLayer(t *testing.T) {
	backend := cpu.New()
	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty trunk")
		}
	}()
	nn.NewTwoTaskMLP(nn.TwoTaskMLPConfig[be]{
		InputSize:   4,
		OutputSize1: 2,
		OutputSize2: 2,
	}, rand.New(rand.NewSource(1)), backend)
}

func TestSequentialForward(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(1))
	model := nn.NewSequential[be](
		nn.NewLinear[be](4, 8, rng, backend),
		nn.NewReLU[be](),
		nn.NewLinear[be](8, 2, rng, backend),
	)

	input := fromSlice(t, backend, make([]float32, 2*4), tensor.Shape{2, 4})
	out := model.Forward(input)

	if !out.Shape().Equal(tensor.Shape{2, 2}) {
		t.Errorf("shape = %v, want [2 2]", out.Shape())
	}
	if got := len(model.Parameters()); got != 4 {
		t.Errorf("got %d parameters, want 4", got)
	}
}

func TestActivationModules(t *testing.T) {
	backend := cpu.New()
	input := fromSlice(t, backend, []float32{-1, 0, 1}, tensor.Shape{3})

	relu := nn.NewReLU[be]().Forward(input)
	want := []float32{0, 0, 1}
	for i, w := range want {
		if !floatEqual(relu.Data()[i], w, 1e-6) {
			t.Errorf("relu[%d] = %f, want %f", i, relu.Data()[i], w)
		}
	}

	id := nn.NewIdentity[be]().Forward(input)
	for i, w := range []float32{-1, 0, 1} {
		if !floatEqual(id.Data()[i], w, 1e-6) {
			t.Errorf("identity[%d] = %f, want %f", i, id.Data()[i], w)
		}
	}

	sig := nn.NewSigmoid[be]().Forward(input)
	if !floatEqual(sig.Data()[1], 0.5, 1e-6) {
		t.Errorf("sigmoid(0) = %f, want 0.5", sig.Data()[1])
	}

	th := nn.NewTanh[be]().Forward(input)
	if !floatEqual(th.Data()[2], float32(math.Tanh(1)), 1e-5) {
		t.Errorf("tanh(1) = %f, want %f", th.Data()[2], math.Tanh(1))
	}
}

func TestFlattenCollapsesTrailingAxes(t *testing.T) {
	backend := cpu.New()
	input := fromSlice(t, backend, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 2, 2})

	out := nn.NewFlatten[be]().Forward(input)
	if !out.Shape().Equal(tensor.Shape{2, 4}) {
		t.Fatalf("shape = %v, want [2 4]", out.Shape())
	}
	for i, w := range []float32{1, 2, 3, 4, 5, 6, 7, 8} {
		if out.Data()[i] != w {
			t.Errorf("out[%d] = %f, want %f", i, out.Data()[i], w)
		}
	}

	// Already-flat input passes through unchanged.
	flat := fromSlice(t, backend, []float32{1, 2}, tensor.Shape{1, 2})
	if got := nn.NewFlatten[be]().Forward(flat); got != flat {
		t.Error("2D input must pass through without reshaping")
	}
}

func TestCrossEntropyLossUniformLogits(t *testing.T) {
	backend := cpu.New()
	criterion := nn.NewCrossEntropyLoss(backend)

	logits := fromSlice(t, backend, make([]float32, 2*4), tensor.Shape{2, 4})
	targets, err := tensor.FromSlice([]int32{1, 3}, tensor.Shape{2}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	loss := criterion.Forward(logits, targets)
	if !floatEqual(loss.Item(), float32(math.Log(4)), 1e-5) {
		t.Errorf("loss = %f, want ln 4", loss.Item())
	}
}
