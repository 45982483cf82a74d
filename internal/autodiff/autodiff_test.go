package autodiff_test

import (
	"math"
	"testing"

	"github.com/slate-ml/slate/internal/autodiff"
	"github.com/slate-ml/slate/internal/backend/cpu"
	"github.com/slate-ml/slate/internal/tensor"
)

// TestAutodiffBackend_Name tests the Name method.
func TestAutodiffBackend_Name(t *testing.T) {
	backend := autodiff.New(cpu.New())
	expected := "Autodiff(CPU)"
	if backend.Name() != expected {
		t.Errorf("Name() = %s, want %s", backend.Name(), expected)
	}
}

// TestAutodiffBackend_Device tests the Device method.
func TestAutodiffBackend_Device(t *testing.T) {
	backend := autodiff.New(cpu.New())
	if backend.Device() != tensor.CPU {
		t.Errorf("Device() = %v, want %v", backend.Device(), tensor.CPU)
	}
}

// TestTape_Recording tests tape recording on/off.
func TestTape_Recording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	// Initially not recording
	if tape.IsRecording() {
		t.Error("Tape should not be recording initially")
	}

	tape.StartRecording()
	if !tape.IsRecording() {
		t.Error("Tape should be recording after StartRecording()")
	}

	tape.StopRecording()
	if tape.IsRecording() {
		t.Error("Tape should not be recording after StopRecording()")
	}
}

// TestTape_Clear tests that Clear drops operations but preserves the
// recording state, so a training loop can clear between batches without
// restarting the recorder.
func TestTape_Clear(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	tape.StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	b, _ := tensor.FromSlice([]float32{3, 4}, tensor.Shape{2}, backend)
	backend.Add(a.Raw(), b.Raw())

	if tape.NumOps() == 0 {
		t.Error("Tape should have recorded operations")
	}

	tape.Clear()

	if tape.NumOps() != 0 {
		t.Errorf("Tape should be empty after Clear(), got %d ops", tape.NumOps())
	}
	if !tape.IsRecording() {
		t.Error("Tape should still be recording after Clear()")
	}
}

// TestAutodiffBackend_RecordsWhileRecording verifies that operations land
// on the tape only while recording is active.
func TestAutodiffBackend_RecordsWhileRecording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()

	a, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	b, _ := tensor.FromSlice([]float32{3, 4}, tensor.Shape{2}, backend)

	// Not recording: nothing lands on the tape
	backend.Add(a.Raw(), b.Raw())
	if tape.NumOps() != 0 {
		t.Errorf("expected 0 ops while not recording, got %d", tape.NumOps())
	}

	tape.StartRecording()
	backend.Add(a.Raw(), b.Raw())
	backend.Mul(a.Raw(), b.Raw())
	if tape.NumOps() != 2 {
		t.Errorf("expected 2 ops while recording, got %d", tape.NumOps())
	}
}

// TestAutodiffBackend_PreservesInputs verifies that recorded operations do
// not destroy their operands: the cpu backend's inplace fast path must be
// suppressed while recording, or backward would see corrupted inputs.
func TestAutodiffBackend_PreservesInputs(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	b, _ := tensor.FromSlice([]float32{3, 4}, tensor.Shape{2}, backend)

	result := backend.Add(a.Raw(), b.Raw())

	if result == a.Raw() {
		t.Fatal("recorded Add must not reuse its left operand")
	}

	wantA := []float32{1, 2}
	for i, v := range a.Raw().AsFloat32() {
		if v != wantA[i] {
			t.Errorf("operand a[%d] = %f, want %f", i, v, wantA[i])
		}
	}

	wantResult := []float32{4, 6}
	for i, v := range result.AsFloat32() {
		if v != wantResult[i] {
			t.Errorf("result[%d] = %f, want %f", i, v, wantResult[i])
		}
	}
}

// TestBackward_Square tests d(x²)/dx = 2x.
func TestBackward_Square(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{3}, tensor.Shape{1}, backend)
	y := x.Mul(x)

	grads := autodiff.Backward(y, backend)

	grad, ok := grads[x.Raw()]
	if !ok {
		t.Fatal("gradient map should contain the input tensor")
	}
	if got := grad.AsFloat32()[0]; math.Abs(float64(got-6)) > 1e-5 {
		t.Errorf("d(x²)/dx at x=3 = %f, want 6", got)
	}
}

// TestBackward_SharedInputAccumulates verifies the multivariate chain rule:
// when a tensor feeds several operations, its gradients sum.
func TestBackward_SharedInputAccumulates(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{5}, tensor.Shape{1}, backend)
	a, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)
	b, _ := tensor.FromSlice([]float32{7}, tensor.Shape{1}, backend)

	// y = x*a + x*b, dy/dx = a + b = 9
	y := x.Mul(a).Add(x.Mul(b))

	grads := autodiff.Backward(y, backend)

	if got := grads[x.Raw()].AsFloat32()[0]; math.Abs(float64(got-9)) > 1e-5 {
		t.Errorf("shared-input gradient = %f, want 9", got)
	}
	if got := grads[a.Raw()].AsFloat32()[0]; math.Abs(float64(got-5)) > 1e-5 {
		t.Errorf("gradient of a = %f, want 5", got)
	}
}

// TestBackward_DoesNotRecord verifies that the gradient arithmetic inside
// the backward pass does not append to the tape.
func TestBackward_DoesNotRecord(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	tape.StartRecording()

	x, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1}, backend)
	y := x.Mul(x)

	opsBefore := tape.NumOps()
	autodiff.Backward(y, backend)

	if tape.NumOps() != opsBefore {
		t.Errorf("backward pass changed tape length: %d -> %d", opsBefore, tape.NumOps())
	}
	if !tape.IsRecording() {
		t.Error("recording state should be restored after backward")
	}
}

// TestBackward_EmptyTapePanics tests that Backward on an empty tape panics
// with a *GraphError.
func TestBackward_EmptyTapePanics(t *testing.T) {
	backend := autodiff.New(cpu.New())

	x, _ := tensor.FromSlice([]float32{1}, tensor.Shape{1}, backend)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Backward on an empty tape should panic")
		}
		if _, ok := r.(*autodiff.GraphError); !ok {
			t.Errorf("panic value type = %T, want *autodiff.GraphError", r)
		}
	}()
	autodiff.Backward(x, backend)
}

// TestTape_BackwardEmptyReturnsEmptyMap: the tape itself is lenient, the
// Backward helper is the one that treats an empty tape as a usage error.
func TestTape_BackwardEmptyReturnsEmptyMap(t *testing.T) {
	backend := autodiff.New(cpu.New())

	seed, _ := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, tensor.CPU)
	grads := backend.Tape().Backward(seed, backend)

	if len(grads) != 0 {
		t.Errorf("empty tape should yield an empty gradient map, got %d entries", len(grads))
	}
}

// TestTape_SeedShapeMismatchPanics tests the seed-shape check.
func TestTape_SeedShapeMismatchPanics(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	a, _ := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2}, backend)
	b, _ := tensor.FromSlice([]float32{3, 4}, tensor.Shape{2}, backend)
	backend.Add(a.Raw(), b.Raw())

	badSeed, _ := tensor.NewRaw(tensor.Shape{3}, tensor.Float32, tensor.CPU)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("mismatched seed shape should panic")
		}
		if _, ok := r.(*autodiff.GraphError); !ok {
			t.Errorf("panic value type = %T, want *autodiff.GraphError", r)
		}
	}()
	backend.Tape().Backward(badSeed, backend)
}

// TestAutodiffBackend_ReLU tests the ReLU forward pass and recording.
func TestAutodiffBackend_ReLU(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	tape.StartRecording()

	x, _ := tensor.FromSlice([]float32{-2, -0.5, 0, 0.5, 2}, tensor.Shape{5}, backend)
	result := backend.ReLU(x.Raw())

	want := []float32{0, 0, 0, 0.5, 2}
	for i, v := range result.AsFloat32() {
		if v != want[i] {
			t.Errorf("ReLU[%d] = %f, want %f", i, v, want[i])
		}
	}
	if tape.NumOps() != 1 {
		t.Errorf("expected 1 recorded op, got %d", tape.NumOps())
	}
}

// TestAutodiffBackend_Sigmoid tests the sigmoid forward pass.
func TestAutodiffBackend_Sigmoid(t *testing.T) {
	backend := autodiff.New(cpu.New())

	x, _ := tensor.FromSlice([]float32{0, 2, -2}, tensor.Shape{3}, backend)
	result := backend.Sigmoid(x.Raw())

	got := result.AsFloat32()
	if math.Abs(float64(got[0]-0.5)) > 1e-6 {
		t.Errorf("sigmoid(0) = %f, want 0.5", got[0])
	}
	// σ(x) + σ(-x) = 1
	if math.Abs(float64(got[1]+got[2]-1)) > 1e-6 {
		t.Errorf("sigmoid(2) + sigmoid(-2) = %f, want 1", got[1]+got[2])
	}
}

// TestAutodiffBackend_NLLLoss tests the loss forward value for known
// log-probabilities.
func TestAutodiffBackend_NLLLoss(t *testing.T) {
	backend := autodiff.New(cpu.New())

	// Two examples, three classes. Targets pick out known entries.
	logProbs, _ := tensor.FromSlice([]float32{
		-0.5, -1.5, -2.0,
		-3.0, -0.1, -2.5,
	}, tensor.Shape{2, 3}, backend)
	targets, _ := tensor.FromSlice([]int32{0, 1}, tensor.Shape{2}, backend)

	loss := backend.NLLLoss(logProbs.Raw(), targets.Raw())

	// mean(0.5, 0.1) = 0.3
	if got := loss.AsFloat32()[0]; math.Abs(float64(got-0.3)) > 1e-6 {
		t.Errorf("NLLLoss = %f, want 0.3", got)
	}
}

// TestAutodiffBackend_CrossEntropy verifies that CrossEntropy on raw logits
// matches LogSoftmax followed by NLLLoss.
func TestAutodiffBackend_CrossEntropy(t *testing.T) {
	backend := autodiff.New(cpu.New())

	logits, _ := tensor.FromSlice([]float32{
		2.0, 1.0, 0.1,
		0.5, 2.5, -1.0,
	}, tensor.Shape{2, 3}, backend)
	targets, _ := tensor.FromSlice([]int32{0, 1}, tensor.Shape{2}, backend)

	ce := backend.CrossEntropy(logits.Raw(), targets.Raw()).AsFloat32()[0]

	logProbs := backend.LogSoftmax(logits.Raw())
	nll := backend.NLLLoss(logProbs, targets.Raw()).AsFloat32()[0]

	if math.Abs(float64(ce-nll)) > 1e-5 {
		t.Errorf("CrossEntropy = %f, LogSoftmax+NLL = %f, want equal", ce, nll)
	}
}

// TestBackward_ReshapeRestoresShape verifies that the gradient flowing
// through a reshape comes back in the original shape.
func TestBackward_ReshapeRestoresShape(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	y := x.Reshape(3, 2)

	grads := autodiff.Backward(y, backend)

	grad := grads[x.Raw()]
	if !grad.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("reshape gradient shape = %v, want [2 3]", grad.Shape())
	}
	for i, v := range grad.AsFloat32() {
		if v != 1 {
			t.Errorf("reshape gradient[%d] = %f, want 1", i, v)
		}
	}
}

// TestBackward_BiasBroadcast verifies gradient reduction over a broadcast
// dimension: a (1, 3) bias added to a (2, 3) matrix receives the column sums.
func TestBackward_BiasBroadcast(t *testing.T) {
	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()

	m, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	bias, _ := tensor.FromSlice([]float32{10, 20, 30}, tensor.Shape{1, 3}, backend)

	y := m.Add(bias)
	grads := autodiff.Backward(y, backend)

	biasGrad := grads[bias.Raw()]
	if !biasGrad.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("bias gradient shape = %v, want [1 3]", biasGrad.Shape())
	}
	// Each bias element contributed to 2 rows, so grad = 2 with a ones seed.
	for i, v := range biasGrad.AsFloat32() {
		if v != 2 {
			t.Errorf("bias gradient[%d] = %f, want 2", i, v)
		}
	}
}
