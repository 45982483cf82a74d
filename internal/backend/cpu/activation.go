package cpu

import (
	"math"

	"github.com/slate-ml/slate/internal/tensor"
)

// Softmax applies softmax along the last dimension.
//
// For each row:
//
//	softmax(x)_i = exp(x_i - max(x)) / Σ_j exp(x_j - max(x))
//
// The max-shifting prevents overflow for large logits.
// Supports 2D tensors [batch_size, num_classes].
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor) *tensor.RawTensor {
	batchSize, numClasses := rows2D("softmax", x)
	result := mustNewRaw(x.Shape(), x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		softmaxFloat32(x.AsFloat32(), result.AsFloat32(), batchSize, numClasses)
	case tensor.Float64:
		softmaxFloat64(x.AsFloat64(), result.AsFloat64(), batchSize, numClasses)
	default:
		panic("softmax: only supports float32 and float64")
	}

	return result
}

// LogSoftmax applies log-softmax along the last dimension.
//
// For each row:
//
//	log_softmax(x)_i = x_i - max(x) - log(Σ_j exp(x_j - max(x)))
//
// This is more numerically stable than computing softmax then log.
// Supports 2D tensors [batch_size, num_classes].
func (cpu *CPUBackend) LogSoftmax(x *tensor.RawTensor) *tensor.RawTensor {
	batchSize, numClasses := rows2D("logsoftmax", x)
	result := mustNewRaw(x.Shape(), x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		logSoftmaxFloat32(x.AsFloat32(), result.AsFloat32(), batchSize, numClasses)
	case tensor.Float64:
		logSoftmaxFloat64(x.AsFloat64(), result.AsFloat64(), batchSize, numClasses)
	default:
		panic("logsoftmax: only supports float32 and float64")
	}

	return result
}

// rows2D validates a [batch, classes] shape and returns its two dimensions.
func rows2D(opName string, x *tensor.RawTensor) (int, int) {
	shape := x.Shape()
	if len(shape) != 2 {
		panic(&tensor.ShapeMismatchError{Op: opName, A: shape})
	}
	return shape[0], shape[1]
}

func softmaxFloat32(inputData, outputData []float32, batchSize, numClasses int) {
	for b := 0; b < batchSize; b++ {
		offset := b * numClasses
		maxVal := inputData[offset]
		for j := 1; j < numClasses; j++ {
			if inputData[offset+j] > maxVal {
				maxVal = inputData[offset+j]
			}
		}

		sumExp := float32(0.0)
		for j := 0; j < numClasses; j++ {
			idx := offset + j
			outputData[idx] = float32(math.Exp(float64(inputData[idx] - maxVal)))
			sumExp += outputData[idx]
		}

		for j := 0; j < numClasses; j++ {
			outputData[offset+j] /= sumExp
		}
	}
}

func softmaxFloat64(inputData, outputData []float64, batchSize, numClasses int) {
	for b := 0; b < batchSize; b++ {
		offset := b * numClasses
		maxVal := inputData[offset]
		for j := 1; j < numClasses; j++ {
			if inputData[offset+j] > maxVal {
				maxVal = inputData[offset+j]
			}
		}

		sumExp := 0.0
		for j := 0; j < numClasses; j++ {
			idx := offset + j
			outputData[idx] = math.Exp(inputData[idx] - maxVal)
			sumExp += outputData[idx]
		}

		for j := 0; j < numClasses; j++ {
			outputData[offset+j] /= sumExp
		}
	}
}

func logSoftmaxFloat32(inputData, outputData []float32, batchSize, numClasses int) {
	for b := 0; b < batchSize; b++ {
		offset := b * numClasses
		maxVal := inputData[offset]
		for j := 1; j < numClasses; j++ {
			if inputData[offset+j] > maxVal {
				maxVal = inputData[offset+j]
			}
		}

		sumExp := 0.0
		for j := 0; j < numClasses; j++ {
			sumExp += math.Exp(float64(inputData[offset+j] - maxVal))
		}
		logSumExp := float32(math.Log(sumExp))

		for j := 0; j < numClasses; j++ {
			idx := offset + j
			outputData[idx] = inputData[idx] - maxVal - logSumExp
		}
	}
}

func logSoftmaxFloat64(inputData, outputData []float64, batchSize, numClasses int) {
	for b := 0; b < batchSize; b++ {
		offset := b * numClasses
		maxVal := inputData[offset]
		for j := 1; j < numClasses; j++ {
			if inputData[offset+j] > maxVal {
				maxVal = inputData[offset+j]
			}
		}

		sumExp := 0.0
		for j := 0; j < numClasses; j++ {
			sumExp += math.Exp(inputData[offset+j] - maxVal)
		}
		logSumExp := math.Log(sumExp)

		for j := 0; j < numClasses; j++ {
			idx := offset + j
			outputData[idx] = inputData[idx] - maxVal - logSumExp
		}
	}
}
