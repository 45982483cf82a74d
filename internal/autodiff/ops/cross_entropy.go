package ops

import (
	"math"

	"github.com/slate-ml/slate/internal/tensor"
)

// CrossEntropyOp represents the fused cross-entropy loss operation.
//
// Forward:
//
//	Loss = mean(-log_softmax(logits)[targets])
//
// Where log_softmax uses the log-sum-exp trick for numerical stability:
//
//	log_softmax(z) = z - (max(z) + log(Σ exp(z - max(z))))
//
// Backward:
//
//	∂L/∂logits = (softmax(logits) - y_one_hot) / batch_size
//
// This fused gradient is the reason softmax and cross-entropy are usually
// combined in one op rather than chained.
//
// Assumptions:
//   - Logits shape: [batch_size, num_classes] (2D, float32)
//   - Targets shape: [batch_size] (1D, int32 class indices)
//   - Output: scalar loss (mean over batch)
type CrossEntropyOp struct {
	logits  *tensor.RawTensor
	targets *tensor.RawTensor
	output  *tensor.RawTensor
}

// NewCrossEntropyOp creates a new cross-entropy operation.
func NewCrossEntropyOp(logits, targets, output *tensor.RawTensor) *CrossEntropyOp {
	return &CrossEntropyOp{
		logits:  logits,
		targets: targets,
		output:  output,
	}
}

// Inputs returns the differentiable input tensors.
func (op *CrossEntropyOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.logits}
}

// Output returns the scalar loss tensor.
func (op *CrossEntropyOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward computes the gradient with respect to logits:
//
//	∂L/∂logits[b,i] = outputGrad * (softmax(logits[b])[i] - y_one_hot[b,i]) / batch_size
func (op *CrossEntropyOp) Backward(outputGrad *tensor.RawTensor, _ tensor.Backend) []*tensor.RawTensor {
	logitsShape := op.logits.Shape()
	if len(logitsShape) != 2 {
		panic("CrossEntropyOp: backward only supports 2D logits [batch_size, num_classes]")
	}

	batchSize := logitsShape[0]
	numClasses := logitsShape[1]

	logitsGrad, err := tensor.NewRaw(logitsShape, op.logits.DType(), op.logits.Device())
	if err != nil {
		panic(err)
	}

	switch op.logits.DType() {
	case tensor.Float32:
		logits := op.logits.AsFloat32()
		targets := op.targets.AsInt32()
		scale := outputGrad.AsFloat32()[0] / float32(batchSize)
		gradData := logitsGrad.AsFloat32()

		for b := 0; b < batchSize; b++ {
			offset := b * numClasses
			row := logits[offset : offset+numClasses]

			maxVal := row[0]
			for _, v := range row[1:] {
				if v > maxVal {
					maxVal = v
				}
			}

			sumExp := 0.0
			for _, v := range row {
				sumExp += math.Exp(float64(v - maxVal))
			}

			for j := 0; j < numClasses; j++ {
				softmax := float32(math.Exp(float64(row[j]-maxVal)) / sumExp)
				grad := softmax
				if int32(j) == targets[b] {
					grad -= 1.0
				}
				gradData[offset+j] = scale * grad
			}
		}

	default:
		panic("CrossEntropyOp: backward only supports float32 for now")
	}

	return []*tensor.RawTensor{logitsGrad}
}

// CrossEntropyForward computes the mean cross-entropy loss (helper function).
func CrossEntropyForward(logits, targets *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	shape := logits.Shape()
	if len(shape) != 2 {
		panic(&tensor.ShapeMismatchError{Op: "cross_entropy", A: shape})
	}

	batchSize := shape[0]
	numClasses := shape[1]

	targetData := targets.AsInt32()
	if len(targetData) != batchSize {
		panic(&tensor.ShapeMismatchError{Op: "cross_entropy", A: shape, B: targets.Shape()})
	}

	logitsData := logits.AsFloat32()

	totalLoss := 0.0
	for b := 0; b < batchSize; b++ {
		offset := b * numClasses
		row := logitsData[offset : offset+numClasses]

		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}

		sumExp := 0.0
		for _, v := range row {
			sumExp += math.Exp(float64(v - maxVal))
		}
		logSumExp := float64(maxVal) + math.Log(sumExp)

		target := int(targetData[b])
		if target < 0 || target >= numClasses {
			panic(&tensor.NumericError{Op: "cross_entropy", Detail: "target index out of bounds"})
		}
		totalLoss += logSumExp - float64(row[target])
	}

	output, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, device)
	if err != nil {
		panic(err)
	}
	output.AsFloat32()[0] = float32(totalLoss / float64(batchSize))

	return output
}
