package cpu

import (
	"math"
	"testing"

	"github.com/slate-ml/slate/internal/tensor"
)

func TestExp(t *testing.T) {
	backend := New()

	x := newFloat32(t, []float32{0, 1, -1}, tensor.Shape{3})
	result := backend.Exp(x)

	want := []float32{1, float32(math.E), float32(1 / math.E)}
	got := result.AsFloat32()
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("Exp[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestLog(t *testing.T) {
	backend := New()

	x := newFloat32(t, []float32{1, float32(math.E), 10}, tensor.Shape{3})
	result := backend.Log(x)

	want := []float32{0, 1, float32(math.Log(10))}
	got := result.AsFloat32()
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("Log[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestLogExp_Roundtrip(t *testing.T) {
	backend := New()

	x := newFloat32(t, []float32{0.1, 0.5, 2.5}, tensor.Shape{3})
	result := backend.Log(backend.Exp(x))

	got := result.AsFloat32()
	for i, want := range []float32{0.1, 0.5, 2.5} {
		if math.Abs(float64(got[i]-want)) > 1e-5 {
			t.Errorf("log(exp(x))[%d] = %f, want %f", i, got[i], want)
		}
	}
}

func TestMulScalar(t *testing.T) {
	backend := New()

	x := newFloat32(t, []float32{1, 2, 3}, tensor.Shape{3})

	// Accepts float32, float64 and int scalars
	assertFloat32Slice(t, []float32{2, 4, 6}, backend.MulScalar(x, float32(2)).AsFloat32(), "float32 scalar")
	assertFloat32Slice(t, []float32{0.5, 1, 1.5}, backend.MulScalar(x, 0.5).AsFloat32(), "float64 scalar")
	assertFloat32Slice(t, []float32{3, 6, 9}, backend.MulScalar(x, 3).AsFloat32(), "int scalar")
}

func TestAddScalar(t *testing.T) {
	backend := New()

	x := newFloat32(t, []float32{1, 2, 3}, tensor.Shape{3})
	assertFloat32Slice(t, []float32{11, 12, 13}, backend.AddScalar(x, 10).AsFloat32(), "add scalar")
}

func TestScalar_UnsupportedTypePanic(t *testing.T) {
	backend := New()
	x := newFloat32(t, []float32{1}, tensor.Shape{1})

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("MulScalar with a string scalar should panic")
		}
	}()
	backend.MulScalar(x, "2")
}
