package tensor_test

import (
	"math/rand"
	"testing"

	"github.com/decorr-ml/decorr/internal/backend/cpu"
	"github.com/decorr-ml/decorr/internal/tensor"
)

func TestFromSliceAndAt(t *testing.T) {
	backend := cpu.New()
	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice: %v", err)
	}

	if got := x.At(0, 0); got != 1 {
		t.Errorf("At(0,0) = %f, want 1", got)
	}
	if got := x.At(1, 2); got != 6 {
		t.Errorf("At(1,2) = %f, want 6", got)
	}

	x.Set(42, 1, 0)
	if got := x.At(1, 0); got != 42 {
		t.Errorf("At(1,0) = %f after Set, want 42", got)
	}
}

func TestFromSliceLengthMismatch(t *testing.T) {
	backend := cpu.New()
	_, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{2, 2}, backend)
	if err == nil {
		t.Error("expected error for mismatched length")
	}
}

func TestCreationHelpers(t *testing.T) {
	backend := cpu.New()

	zeros := tensor.Zeros[float32](tensor.Shape{2, 2}, backend)
	for i, v := range zeros.Data() {
		if v != 0 {
			t.Errorf("zeros[%d] = %f", i, v)
		}
	}

	ones := tensor.Ones[float32](tensor.Shape{3}, backend)
	for i, v := range ones.Data() {
		if v != 1 {
			t.Errorf("ones[%d] = %f", i, v)
		}
	}

	full := tensor.Full[float32](tensor.Shape{2}, 7, backend)
	for i, v := range full.Data() {
		if v != 7 {
			t.Errorf("full[%d] = %f", i, v)
		}
	}

	eye := tensor.Eye[float32](3, backend)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := float32(0)
			if i == j {
				want = 1
			}
			if got := eye.At(i, j); got != want {
				t.Errorf("eye(%d,%d) = %f, want %f", i, j, got, want)
			}
		}
	}

	ar := tensor.Arange[int32](4, backend)
	for i, v := range ar.Data() {
		if v != int32(i) {
			t.Errorf("arange[%d] = %d", i, v)
		}
	}
}

func TestRandnIsSeedDeterministic(t *testing.T) {
	backend := cpu.New()
	a := tensor.Randn[float32](tensor.Shape{10}, rand.New(rand.NewSource(3)), backend)
	b := tensor.Randn[float32](tensor.Shape{10}, rand.New(rand.NewSource(3)), backend)

	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			t.Fatalf("values diverge at %d", i)
		}
	}
}

func TestItemRequiresSingleElement(t *testing.T) {
	backend := cpu.New()
	x := tensor.Zeros[float32](tensor.Shape{2}, backend)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for Item on multi-element tensor")
		}
	}()
	x.Item()
}

func TestRawCloneSharesBuffer(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{4}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}
	if !raw.IsUnique() {
		t.Fatal("fresh tensor must be unique")
	}

	clone := raw.Clone()
	if raw.IsUnique() || clone.IsUnique() {
		t.Error("clone must share the buffer")
	}

	clone.Release()
	if !raw.IsUnique() {
		t.Error("releasing the clone must restore uniqueness")
	}
}

func TestForceNonUnique(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{2}, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw: %v", err)
	}

	restore := raw.ForceNonUnique()
	if raw.IsUnique() {
		t.Error("ForceNonUnique must pin the buffer")
	}
	restore()
	if !raw.IsUnique() {
		t.Error("restore must release the pin")
	}
}

func TestShapeHelpers(t *testing.T) {
	s := tensor.Shape{2, 3, 4}
	if s.NumElements() != 24 {
		t.Errorf("NumElements = %d, want 24", s.NumElements())
	}
	if got := s.NormalizeDim(-1); got != 2 {
		t.Errorf("NormalizeDim(-1) = %d, want 2", got)
	}

	strides := s.ComputeStrides()
	want := []int{12, 4, 1}
	for i, w := range want {
		if strides[i] != w {
			t.Errorf("strides[%d] = %d, want %d", i, strides[i], w)
		}
	}

	if (tensor.Shape{}).NumElements() != 1 {
		t.Error("rank-0 shape must hold one element")
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b, want tensor.Shape
		wantErr    bool
	}{
		{a: tensor.Shape{2, 3}, b: tensor.Shape{2, 3}, want: tensor.Shape{2, 3}},
		{a: tensor.Shape{2, 3}, b: tensor.Shape{1, 3}, want: tensor.Shape{2, 3}},
		{a: tensor.Shape{2, 3}, b: tensor.Shape{3}, want: tensor.Shape{2, 3}},
		{a: tensor.Shape{4, 1}, b: tensor.Shape{1, 5}, want: tensor.Shape{4, 5}},
		{a: tensor.Shape{2, 3}, b: tensor.Shape{2, 4}, wantErr: true},
	}

	for _, tt := range tests {
		got, _, err := tensor.BroadcastShapes(tt.a, tt.b)
		if tt.wantErr {
			if err == nil {
				t.Errorf("BroadcastShapes(%v, %v): expected error", tt.a, tt.b)
			}
			continue
		}
		if err != nil {
			t.Errorf("BroadcastShapes(%v, %v): %v", tt.a, tt.b, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("BroadcastShapes(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
