// Package cpu implements the pure-Go CPU backend.
package cpu

import (
	"github.com/slate-ml/slate/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
type CPUBackend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("add", a, b,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y },
	)
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("sub", a, b,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y },
	)
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("mul", a, b,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y },
	)
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("div", a, b,
		func(x, y float32) float32 { return x / y },
		func(x, y float64) float64 { return x / y },
	)
}

// binaryOp dispatches an element-wise binary operation.
//
// Fast path: identical shapes and a uniquely-referenced left operand allow an
// inplace update of a's buffer. The autodiff backend defeats this path via
// ForceNonUnique so recorded inputs stay intact.
func (cpu *CPUBackend) binaryOp(
	opName string,
	a, b *tensor.RawTensor,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(&tensor.NumericError{Op: opName, Detail: "operand dtypes differ: " + a.DType().String() + " vs " + b.DType().String()})
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(&tensor.ShapeMismatchError{Op: opName, A: a.Shape(), B: b.Shape()})
	}

	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		if a.IsUnique() {
			applySameShape(a, a, b, f32, f64)
			return a
		}
		result := mustNewRaw(outShape, a.DType(), cpu.device)
		applySameShape(result, a, b, f32, f64)
		return result
	}

	result := mustNewRaw(outShape, a.DType(), cpu.device)
	applyBroadcast(result, a, b, outShape, f32, f64)
	return result
}

// applySameShape runs the op element-by-element over identically shaped operands.
// dst may alias a.
func applySameShape(
	dst, a, b *tensor.RawTensor,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) {
	switch a.DType() {
	case tensor.Float32:
		aData, bData, dstData := a.AsFloat32(), b.AsFloat32(), dst.AsFloat32()
		for i := range dstData {
			dstData[i] = f32(aData[i], bData[i])
		}
	case tensor.Float64:
		aData, bData, dstData := a.AsFloat64(), b.AsFloat64(), dst.AsFloat64()
		for i := range dstData {
			dstData[i] = f64(aData[i], bData[i])
		}
	default:
		panic("cpu: element-wise ops only support float32 and float64")
	}
}

// applyBroadcast runs the op with NumPy-style broadcasting.
//
// For each output element the multi-index is mapped back to each operand,
// treating broadcast (size-1 or missing) dimensions as stride 0.
func applyBroadcast(
	dst, a, b *tensor.RawTensor,
	outShape tensor.Shape,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) {
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)
	n := outShape.NumElements()
	outStrides := outShape.ComputeStrides()

	switch a.DType() {
	case tensor.Float32:
		aData, bData, dstData := a.AsFloat32(), b.AsFloat32(), dst.AsFloat32()
		for i := 0; i < n; i++ {
			ai, bi := sourceOffsets(i, outStrides, aStrides, bStrides)
			dstData[i] = f32(aData[ai], bData[bi])
		}
	case tensor.Float64:
		aData, bData, dstData := a.AsFloat64(), b.AsFloat64(), dst.AsFloat64()
		for i := 0; i < n; i++ {
			ai, bi := sourceOffsets(i, outStrides, aStrides, bStrides)
			dstData[i] = f64(aData[ai], bData[bi])
		}
	default:
		panic("cpu: element-wise ops only support float32 and float64")
	}
}

// broadcastStrides returns per-output-dimension strides into a tensor of shape
// `in` when broadcast to `out`. Broadcast dimensions get stride 0.
func broadcastStrides(in, out tensor.Shape) []int {
	inStrides := in.ComputeStrides()
	strides := make([]int, len(out))
	for i := range out {
		inIdx := len(in) - len(out) + i
		if inIdx < 0 || in[inIdx] == 1 {
			strides[i] = 0
		} else {
			strides[i] = inStrides[inIdx]
		}
	}
	return strides
}

// sourceOffsets decomposes a flat output index and recomposes flat offsets
// into both operands.
func sourceOffsets(flat int, outStrides, aStrides, bStrides []int) (int, int) {
	ai, bi := 0, 0
	rem := flat
	for d := range outStrides {
		idx := rem / outStrides[d]
		rem %= outStrides[d]
		ai += idx * aStrides[d]
		bi += idx * bStrides[d]
	}
	return ai, bi
}

// mustNewRaw allocates a RawTensor or panics; shape validity is established
// by the caller.
func mustNewRaw(shape tensor.Shape, dtype tensor.DataType, device tensor.Device) *tensor.RawTensor {
	raw, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		panic(err)
	}
	return raw
}
