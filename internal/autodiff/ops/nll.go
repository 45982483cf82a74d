package ops

import (
	"github.com/slate-ml/slate/internal/tensor"
)

// NLLOp represents the negative-log-likelihood loss over log-probabilities.
//
// Forward:
//
//	Loss = mean_b(-logProbs[b, targets[b]])
//
// The input is expected to already be log-softmax output; NLLOp only gathers
// the true-class log-probability, negates, and averages over the batch.
//
// Backward:
//
//	∂L/∂logProbs[b,i] = -outputGrad / batch_size  if i == targets[b], else 0
//
// Assumptions:
//   - logProbs shape: [batch_size, num_classes] (2D, float32)
//   - targets shape: [batch_size] (1D, int32 class indices)
//   - Output: scalar loss (mean over batch)
type NLLOp struct {
	logProbs *tensor.RawTensor // [batch_size, num_classes]
	targets  *tensor.RawTensor // [batch_size]
	output   *tensor.RawTensor // scalar loss
}

// NewNLLOp creates a new negative-log-likelihood operation.
func NewNLLOp(logProbs, targets, output *tensor.RawTensor) *NLLOp {
	return &NLLOp{
		logProbs: logProbs,
		targets:  targets,
		output:   output,
	}
}

// Inputs returns the differentiable input tensors (targets are not differentiated).
func (op *NLLOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.logProbs}
}

// Output returns the scalar loss tensor.
func (op *NLLOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward routes -outputGrad/batch to each example's true-class entry.
func (op *NLLOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	shape := op.logProbs.Shape()
	if len(shape) != 2 {
		panic("NLLOp: backward only supports 2D log-probabilities [batch_size, num_classes]")
	}

	batchSize := shape[0]
	numClasses := shape[1]

	inputGrad, err := tensor.NewRaw(shape, op.logProbs.DType(), op.logProbs.Device())
	if err != nil {
		panic(err)
	}

	switch op.logProbs.DType() {
	case tensor.Float32:
		targets := op.targets.AsInt32()
		scale := -outputGrad.AsFloat32()[0] / float32(batchSize)
		gradData := inputGrad.AsFloat32()

		for b := 0; b < batchSize; b++ {
			gradData[b*numClasses+int(targets[b])] = scale
		}

	default:
		panic("NLLOp: backward only supports float32 for now")
	}

	return []*tensor.RawTensor{inputGrad}
}

// NLLForward computes the mean negative log-likelihood (helper function).
//
// This is shared by the autodiff backend's forward pass and by callers that
// only need the value.
func NLLForward(logProbs, targets *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	shape := logProbs.Shape()
	if len(shape) != 2 {
		panic(&tensor.ShapeMismatchError{Op: "nll", A: shape})
	}

	batchSize := shape[0]
	numClasses := shape[1]

	targetData := targets.AsInt32()
	if len(targetData) != batchSize {
		panic(&tensor.ShapeMismatchError{Op: "nll", A: shape, B: targets.Shape()})
	}

	logProbData := logProbs.AsFloat32()

	totalLoss := float32(0.0)
	for b := 0; b < batchSize; b++ {
		target := int(targetData[b])
		if target < 0 || target >= numClasses {
			panic(&tensor.NumericError{Op: "nll", Detail: "target index out of bounds"})
		}
		totalLoss += -logProbData[b*numClasses+target]
	}

	output, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, device)
	if err != nil {
		panic(err)
	}
	output.AsFloat32()[0] = totalLoss / float32(batchSize)

	return output
}
