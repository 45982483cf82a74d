package tensor

import (
	"math"
	"testing"
)

func assertEqualFloat32(t *testing.T, expected, actual float32, msg string) {
	t.Helper()
	if math.Abs(float64(expected-actual)) > 1e-6 {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

func TestFromSlice(t *testing.T) {
	backend := NewMockBackend()
	data := []float32{1, 2, 3, 4, 5, 6}

	tt, err := FromSlice(data, Shape{2, 3}, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	if !tt.Shape().Equal(Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", tt.Shape())
	}
	for i, want := range data {
		if tt.Data()[i] != want {
			t.Errorf("Data()[%d] = %f, want %f", i, tt.Data()[i], want)
		}
	}

	// FromSlice copies the input: later mutation of the source slice
	// must not leak into the tensor.
	data[0] = 99
	if tt.Data()[0] != 1 {
		t.Error("FromSlice should copy the source slice")
	}
}

func TestFromSlice_WrongLength(t *testing.T) {
	backend := NewMockBackend()

	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 2}, backend); err == nil {
		t.Error("FromSlice with mismatched length should fail")
	}
}

func TestZerosOnesFull(t *testing.T) {
	backend := NewMockBackend()

	zeros := Zeros[float32](Shape{2, 2}, backend)
	for _, v := range zeros.Data() {
		if v != 0 {
			t.Error("Zeros should contain only zeros")
			break
		}
	}

	ones := Ones[float32](Shape{2, 2}, backend)
	for _, v := range ones.Data() {
		if v != 1 {
			t.Error("Ones should contain only ones")
			break
		}
	}

	full := Full[float32](Shape{3}, 3.14, backend)
	for _, v := range full.Data() {
		assertEqualFloat32(t, 3.14, v, "Full value")
	}
}

func TestArange(t *testing.T) {
	backend := NewMockBackend()

	tt := Arange[int32](0, 5, backend)
	if !tt.Shape().Equal(Shape{5}) {
		t.Fatalf("Shape() = %v, want [5]", tt.Shape())
	}
	for i := int32(0); i < 5; i++ {
		if tt.Data()[i] != i {
			t.Errorf("Arange[%d] = %d, want %d", i, tt.Data()[i], i)
		}
	}
}

func TestRandnSeed_Deterministic(t *testing.T) {
	backend := NewMockBackend()

	a := RandnSeed[float32](Shape{4, 4}, 42, backend)
	b := RandnSeed[float32](Shape{4, 4}, 42, backend)
	c := RandnSeed[float32](Shape{4, 4}, 7, backend)

	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			t.Fatal("same seed should produce identical tensors")
		}
	}

	same := true
	for i := range a.Data() {
		if a.Data()[i] != c.Data()[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds should produce different tensors")
	}
}

func TestTensor_AtSetItem(t *testing.T) {
	backend := NewMockBackend()

	tt, _ := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, backend)

	assertEqualFloat32(t, 1, tt.At(0, 0), "At(0, 0)")
	assertEqualFloat32(t, 6, tt.At(1, 2), "At(1, 2)")

	tt.Set(42, 1, 1)
	assertEqualFloat32(t, 42, tt.At(1, 1), "At(1, 1) after Set")

	scalar, _ := FromSlice([]float32{2.5}, Shape{1}, backend)
	assertEqualFloat32(t, 2.5, scalar.Item(), "Item()")
}

func TestTensor_ItemPanicsOnNonScalar(t *testing.T) {
	backend := NewMockBackend()
	tt, _ := FromSlice([]float32{1, 2}, Shape{2}, backend)

	defer func() {
		if recover() == nil {
			t.Error("Item() on a non-scalar tensor should panic")
		}
	}()
	tt.Item()
}

func TestTensor_Detach(t *testing.T) {
	backend := NewMockBackend()
	tt, _ := FromSlice([]float32{1, 2}, Shape{2}, backend)

	detached := tt.Detach()

	// Detach shares data but is a distinct tensor object
	detached.Data()[0] = 9
	assertEqualFloat32(t, 9, tt.Data()[0], "Detach should share data")

	if detached.Raw() == tt.Raw() {
		t.Error("Detach should produce a distinct RawTensor reference")
	}
}

func TestTensor_IsFinite(t *testing.T) {
	backend := NewMockBackend()

	finite, _ := FromSlice([]float32{1, -2, 0.5}, Shape{3}, backend)
	if !finite.IsFinite() {
		t.Error("finite tensor reported as non-finite")
	}

	withNaN, _ := FromSlice([]float32{1, float32(math.NaN())}, Shape{2}, backend)
	if withNaN.IsFinite() {
		t.Error("tensor containing NaN reported as finite")
	}

	withInf, _ := FromSlice([]float32{1, float32(math.Inf(-1))}, Shape{2}, backend)
	if withInf.IsFinite() {
		t.Error("tensor containing -Inf reported as finite")
	}
}

func TestTensor_OpsViaBackend(t *testing.T) {
	backend := NewMockBackend()

	a, _ := FromSlice([]float32{1, 2, 3, 4}, Shape{2, 2}, backend)
	b, _ := FromSlice([]float32{5, 6, 7, 8}, Shape{2, 2}, backend)

	sum := a.Add(b)
	for i, want := range []float32{6, 8, 10, 12} {
		assertEqualFloat32(t, want, sum.Data()[i], "Add")
	}

	prod := a.MatMul(b)
	for i, want := range []float32{19, 22, 43, 50} {
		assertEqualFloat32(t, want, prod.Data()[i], "MatMul")
	}

	reshaped := a.Reshape(4)
	if !reshaped.Shape().Equal(Shape{4}) {
		t.Errorf("Reshape shape = %v, want [4]", reshaped.Shape())
	}

	transposed := a.T()
	for i, want := range []float32{1, 3, 2, 4} {
		assertEqualFloat32(t, want, transposed.Data()[i], "T")
	}
}
