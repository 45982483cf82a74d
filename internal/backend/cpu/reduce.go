package cpu

import (
	"fmt"

	"github.com/slate-ml/slate/internal/tensor"
)

// Sum computes the total sum of all elements, returning a shape-{1} tensor.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := mustNewRaw(tensor.Shape{1}, x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		var sum float32
		for _, v := range x.AsFloat32() {
			sum += v
		}
		result.AsFloat32()[0] = sum
	case tensor.Float64:
		var sum float64
		for _, v := range x.AsFloat64() {
			sum += v
		}
		result.AsFloat64()[0] = sum
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}

	return result
}

// Argmax returns the index of the maximum value along the given dimension.
// Supports 2D float tensors with dim=1 (per-row argmax), which is what
// classifier evaluation needs. The result is an int32 tensor of shape [rows].
func (cpu *CPUBackend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 2 || dim != 1 {
		panic(fmt.Sprintf("argmax: only 2D tensors with dim=1 supported, got shape %v dim %d", shape, dim))
	}

	rows, cols := shape[0], shape[1]
	result := mustNewRaw(tensor.Shape{rows}, tensor.Int32, cpu.device)
	out := result.AsInt32()

	switch x.DType() {
	case tensor.Float32:
		data := x.AsFloat32()
		for r := 0; r < rows; r++ {
			best := 0
			for c := 1; c < cols; c++ {
				if data[r*cols+c] > data[r*cols+best] {
					best = c
				}
			}
			out[r] = int32(best)
		}
	case tensor.Float64:
		data := x.AsFloat64()
		for r := 0; r < rows; r++ {
			best := 0
			for c := 1; c < cols; c++ {
				if data[r*cols+c] > data[r*cols+best] {
					best = c
				}
			}
			out[r] = int32(best)
		}
	default:
		panic(fmt.Sprintf("argmax: unsupported dtype %s", x.DType()))
	}

	return result
}
