package cpu

import (
	"fmt"

	"github.com/slate-ml/slate/internal/tensor"
)

// Reshape returns a tensor with the same elements and a new shape.
// The element count must be preserved; the data is copied into a fresh
// contiguous buffer.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(&tensor.ShapeMismatchError{Op: "reshape", A: t.Shape(), B: newShape})
	}
	if t.NumElements() != newShape.NumElements() {
		panic(&tensor.ShapeMismatchError{Op: "reshape", A: t.Shape(), B: newShape})
	}

	result := mustNewRaw(newShape, t.DType(), cpu.device)
	copy(result.Data(), t.Data())
	return result
}

// Transpose permutes the tensor's dimensions, materializing the result into a
// contiguous buffer. Empty axes reverse all dimensions (standard 2-D transpose).
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: expected %d axes, got %d", ndim, len(axes)))
	}

	seen := make([]bool, ndim)
	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid axes permutation %v for %dD tensor", axes, ndim))
		}
		seen[ax] = true
		newShape[i] = shape[ax]
	}

	result := mustNewRaw(newShape, t.DType(), cpu.device)

	oldStrides := shape.ComputeStrides()
	newStrides := newShape.ComputeStrides()
	n := t.NumElements()

	// Map each output element back to its source offset under the permutation.
	srcOffset := func(flat int) int {
		src := 0
		rem := flat
		for d := 0; d < ndim; d++ {
			idx := rem / newStrides[d]
			rem %= newStrides[d]
			src += idx * oldStrides[axes[d]]
		}
		return src
	}

	switch t.DType() {
	case tensor.Float32:
		src, dst := t.AsFloat32(), result.AsFloat32()
		for i := 0; i < n; i++ {
			dst[i] = src[srcOffset(i)]
		}
	case tensor.Float64:
		src, dst := t.AsFloat64(), result.AsFloat64()
		for i := 0; i < n; i++ {
			dst[i] = src[srcOffset(i)]
		}
	case tensor.Int32:
		src, dst := t.AsInt32(), result.AsInt32()
		for i := 0; i < n; i++ {
			dst[i] = src[srcOffset(i)]
		}
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", t.DType()))
	}

	return result
}
