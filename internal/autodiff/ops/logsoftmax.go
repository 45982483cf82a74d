package ops

import (
	"math"

	"github.com/slate-ml/slate/internal/tensor"
)

// LogSoftmaxOp represents the log-softmax operation along the last dimension.
//
// Forward (for each row):
//
//	log_softmax(x)_i = x_i - max(x) - log(Σ_j exp(x_j - max(x)))
//
// This is more numerically stable than computing softmax then log.
//
// Backward:
//
//	∂L/∂x[b,j] = ∂L/∂log_softmax[b,j] - softmax[b,j] * Σ_i ∂L/∂log_softmax[b,i]
//
// The softmax needed for backward is recovered as exp(output).
//
// Assumptions:
//   - Input shape: [batch_size, num_classes] (2D)
type LogSoftmaxOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor // log_softmax output
}

// NewLogSoftmaxOp creates a new log-softmax operation.
func NewLogSoftmaxOp(input, output *tensor.RawTensor) *LogSoftmaxOp {
	return &LogSoftmaxOp{
		input:  input,
		output: output,
	}
}

// Inputs returns the input tensors.
func (op *LogSoftmaxOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *LogSoftmaxOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward computes the gradient for log-softmax.
func (op *LogSoftmaxOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	shape := op.input.Shape()
	if len(shape) != 2 {
		panic("LogSoftmaxOp: backward only supports 2D tensors [batch_size, num_classes]")
	}

	batchSize := shape[0]
	numClasses := shape[1]

	inputGrad, err := tensor.NewRaw(shape, op.input.DType(), op.input.Device())
	if err != nil {
		panic(err)
	}

	switch op.input.DType() {
	case tensor.Float32:
		logProbs := op.output.AsFloat32()
		outGradData := outputGrad.AsFloat32()
		inGradData := inputGrad.AsFloat32()

		for b := 0; b < batchSize; b++ {
			// Sum gradient over classes: Σ_i ∂L/∂log_softmax[i]
			gradSum := float32(0.0)
			for j := 0; j < numClasses; j++ {
				gradSum += outGradData[b*numClasses+j]
			}

			for j := 0; j < numClasses; j++ {
				idx := b*numClasses + j
				softmax := float32(math.Exp(float64(logProbs[idx])))
				inGradData[idx] = outGradData[idx] - softmax*gradSum
			}
		}

	default:
		panic("LogSoftmaxOp: backward only supports float32 for now")
	}

	return []*tensor.RawTensor{inputGrad}
}
