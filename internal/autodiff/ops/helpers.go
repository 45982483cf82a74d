package ops

import (
	"github.com/slate-ml/slate/internal/tensor"
)

// reduceBroadcast reduces a gradient back to the shape of a broadcasted input.
//
// When a forward op broadcast an input up to a larger shape, the chain rule
// requires summing the output gradient over every broadcast dimension, because
// each input element contributed to several output elements.
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	gradShape := grad.Shape()
	if gradShape.Equal(targetShape) {
		return grad
	}

	result, err := tensor.NewRaw(targetShape, grad.DType(), backend.Device())
	if err != nil {
		panic(err)
	}

	gradStrides := gradShape.ComputeStrides()
	targetStrides := targetStridesFor(targetShape, gradShape)
	n := gradShape.NumElements()

	// Sum each gradient element into the target position it broadcast from.
	switch grad.DType() {
	case tensor.Float32:
		src, dst := grad.AsFloat32(), result.AsFloat32()
		for i := 0; i < n; i++ {
			dst[targetOffset(i, gradStrides, targetStrides)] += src[i]
		}
	case tensor.Float64:
		src, dst := grad.AsFloat64(), result.AsFloat64()
		for i := 0; i < n; i++ {
			dst[targetOffset(i, gradStrides, targetStrides)] += src[i]
		}
	default:
		panic("reduceBroadcast: only supports float32 and float64")
	}

	return result
}

// targetStridesFor aligns the target's strides to the gradient's dimensions,
// with stride 0 for dimensions the target was broadcast along.
func targetStridesFor(target, grad tensor.Shape) []int {
	tStrides := target.ComputeStrides()
	strides := make([]int, len(grad))
	for i := range grad {
		tIdx := len(target) - len(grad) + i
		if tIdx < 0 || target[tIdx] == 1 {
			strides[i] = 0
		} else {
			strides[i] = tStrides[tIdx]
		}
	}
	return strides
}

func targetOffset(flat int, gradStrides, targetStrides []int) int {
	off := 0
	rem := flat
	for d := range gradStrides {
		idx := rem / gradStrides[d]
		rem %= gradStrides[d]
		off += idx * targetStrides[d]
	}
	return off
}

// onesLike creates a tensor of ones with the same shape and dtype as t.
func onesLike(t *tensor.RawTensor, backend tensor.Backend) *tensor.RawTensor {
	ones, err := tensor.NewRaw(t.Shape(), t.DType(), backend.Device())
	if err != nil {
		panic(err)
	}

	switch t.DType() {
	case tensor.Float32:
		data := ones.AsFloat32()
		for i := range data {
			data[i] = 1.0
		}
	case tensor.Float64:
		data := ones.AsFloat64()
		for i := range data {
			data[i] = 1.0
		}
	default:
		panic("onesLike: only supports float32 and float64")
	}

	return ones
}
