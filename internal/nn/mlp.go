package nn

import (
	"fmt"
	"math/rand"

	"github.com/decorr-ml/decorr/internal/tensor"
)

// MLPConfig configures a feed-forward classifier.
//
// Activations is optional: when nil, every hidden layer gets ReLU and the
// output layer gets Identity, so the logits feed directly into
// CrossEntropyLoss. When set, it must hold one module per layer
// (len(HiddenSizes)+1 entries).
type MLPConfig[B tensor.Backend] struct {
	InputSize   int
	HiddenSizes []int
	OutputSize  int
	Activations []Module[B]
}

// MLP is a fully connected classifier whose hidden activations are observable.
//
// The network is InputSize -> HiddenSizes... -> OutputSize, each layer
// followed by its activation. ForwardHidden exposes the post-activation
// hidden tensors so activity regularizers can penalize them.
type MLP[B tensor.Backend] struct {
	layers []*Linear[B]
	acts   []Module[B]
}

// NewMLP builds an MLP from the config, drawing initial weights from rng.
func NewMLP[B tensor.Backend](cfg MLPConfig[B], rng *rand.Rand, backend B) *MLP[B] {
	sizes := layerSizes(cfg.InputSize, cfg.HiddenSizes, cfg.OutputSize)
	acts := resolveActivations[B](cfg.Activations, len(sizes)-1)

	layers := make([]*Linear[B], len(sizes)-1)
	for i := range layers {
		layers[i] = NewLinear(sizes[i], sizes[i+1], rng, backend)
	}

	return &MLP[B]{layers: layers, acts: acts}
}

// Forward returns the output logits.
func (m *MLP[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	_, logits := m.ForwardHidden(input)
	return logits
}

// ForwardHidden returns the post-activation hidden tensors, one per hidden
// layer in order, along with the output logits.
func (m *MLP[B]) ForwardHidden(input *tensor.Tensor[float32, B]) ([]*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	hidden := make([]*tensor.Tensor[float32, B], 0, len(m.layers)-1)
	x := input
	for i, layer := range m.layers {
		x = m.acts[i].Forward(layer.Forward(x))
		if i < len(m.layers)-1 {
			hidden = append(hidden, x)
		}
	}
	return hidden, x
}

// Parameters returns weights and biases of all layers, input to output.
func (m *MLP[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, layer := range m.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// Layers returns the linear layers, input to output.
func (m *MLP[B]) Layers() []*Linear[B] {
	return m.layers
}

// TwoTaskMLPConfig configures a shared-trunk network with two output heads.
//
// Activations covers the trunk only (one module per hidden layer); both
// heads emit raw logits.
type TwoTaskMLPConfig[B tensor.Backend] struct {
	InputSize   int
	HiddenSizes []int
	OutputSize1 int
	OutputSize2 int
	Activations []Module[B]
}

// TwoTaskMLP shares hidden layers between two classification heads.
// Both tasks see the same hidden representation, which is what lets a
// decorrelation penalty on that representation affect both of them.
type TwoTaskMLP[B tensor.Backend] struct {
	trunk []*Linear[B]
	acts  []Module[B]
	head1 *Linear[B]
	head2 *Linear[B]
}

// NewTwoTaskMLP builds a TwoTaskMLP from the config.
func NewTwoTaskMLP[B tensor.Backend](cfg TwoTaskMLPConfig[B], rng *rand.Rand, backend B) *TwoTaskMLP[B] {
	if len(cfg.HiddenSizes) == 0 {
		panic("NewTwoTaskMLP: at least one hidden layer is required")
	}

	sizes := append([]int{cfg.InputSize}, cfg.HiddenSizes...)
	acts := resolveTrunkActivations[B](cfg.Activations, len(cfg.HiddenSizes))

	trunk := make([]*Linear[B], len(sizes)-1)
	for i := range trunk {
		trunk[i] = NewLinear(sizes[i], sizes[i+1], rng, backend)
	}

	last := sizes[len(sizes)-1]
	return &TwoTaskMLP[B]{
		trunk: trunk,
		acts:  acts,
		head1: NewLinear(last, cfg.OutputSize1, rng, backend),
		head2: NewLinear(last, cfg.OutputSize2, rng, backend),
	}
}

// Forward returns the first head's logits, satisfying the Module interface.
func (m *TwoTaskMLP[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	_, logits1, _ := m.ForwardBoth(input)
	return logits1
}

// ForwardBoth runs the shared trunk once and both heads on its output.
// Returns the post-activation hidden tensors and the two heads' logits.
func (m *TwoTaskMLP[B]) ForwardBoth(input *tensor.Tensor[float32, B]) (hidden []*tensor.Tensor[float32, B], logits1, logits2 *tensor.Tensor[float32, B]) {
	hidden = make([]*tensor.Tensor[float32, B], 0, len(m.trunk))
	x := input
	for i, layer := range m.trunk {
		x = m.acts[i].Forward(layer.Forward(x))
		hidden = append(hidden, x)
	}
	return hidden, m.head1.Forward(x), m.head2.Forward(x)
}

// Parameters returns trunk parameters followed by both heads'.
func (m *TwoTaskMLP[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, layer := range m.trunk {
		params = append(params, layer.Parameters()...)
	}
	params = append(params, m.head1.Parameters()...)
	params = append(params, m.head2.Parameters()...)
	return params
}

func layerSizes(in int, hidden []int, out int) []int {
	sizes := make([]int, 0, len(hidden)+2)
	sizes = append(sizes, in)
	sizes = append(sizes, hidden...)
	sizes = append(sizes, out)
	return sizes
}

// resolveActivations fills in the default stack: ReLU on hidden layers,
// Identity on the output layer.
func resolveActivations[B tensor.Backend](acts []Module[B], numLayers int) []Module[B] {
	if acts == nil {
		acts = make([]Module[B], numLayers)
		for i := 0; i < numLayers-1; i++ {
			acts[i] = NewReLU[B]()
		}
		acts[numLayers-1] = NewIdentity[B]()
		return acts
	}
	if len(acts) != numLayers {
		panic(fmt.Sprintf("NewMLP: expected %d activations (one per layer), got %d", numLayers, len(acts)))
	}
	return acts
}

// resolveTrunkActivations defaults every trunk layer to ReLU.
func resolveTrunkActivations[B tensor.Backend](acts []Module[B], numHidden int) []Module[B] {
	if acts == nil {
		acts = make([]Module[B], numHidden)
		for i := range acts {
			acts[i] = NewReLU[B]()
		}
		return acts
	}
	if len(acts) != numHidden {
		panic(fmt.Sprintf("NewTwoTaskMLP: expected %d activations (one per hidden layer), got %d", numHidden, len(acts)))
	}
	return acts
}
