package nn

import (
	"github.com/slate-ml/slate/internal/tensor"
)

// CrossEntropyLoss computes cross-entropy loss for multi-class classification
// directly from raw logits.
//
// It fuses log-softmax and negative log-likelihood:
//
//	Loss = -log_softmax(logits)[target]
//
// with the gradient
//
//	∂L/∂logits = (softmax(logits) - y_one_hot) / batch_size
//
// The fused form is both cheaper and more stable than composing a
// Softmax layer with a log-based loss. Models that end in an explicit
// LogSoftmax layer should use NLLLoss instead.
//
// Usage:
//
//	criterion := nn.NewCrossEntropyLoss[Backend](backend)
//	logits := model.Forward(input)         // [batch_size, num_classes]
//	loss := criterion.Forward(logits, targets) // targets: [batch_size]
type CrossEntropyLoss[B tensor.Backend] struct {
	backend B
}

// NewCrossEntropyLoss creates a new cross-entropy loss function.
func NewCrossEntropyLoss[B tensor.Backend](backend B) *CrossEntropyLoss[B] {
	return &CrossEntropyLoss[B]{
		backend: backend,
	}
}

// Forward computes cross-entropy loss.
//
// Parameters:
//   - logits: unnormalized scores with shape [batch_size, num_classes]
//   - targets: class indices with shape [batch_size]
//
// Returns a scalar loss tensor (mean over batch). With an autodiff-aware
// backend the fused operation is recorded on the tape.
func (c *CrossEntropyLoss[B]) Forward(
	logits *tensor.Tensor[float32, B],
	targets *tensor.Tensor[int32, B],
) *tensor.Tensor[float32, B] {
	type CrossEntropyBackend interface {
		CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor
	}

	if adBackend, ok := any(c.backend).(CrossEntropyBackend); ok {
		resultRaw := adBackend.CrossEntropy(logits.Raw(), targets.Raw())
		return tensor.New[float32, B](resultRaw, c.backend)
	}

	// Manual computation for non-autodiff backends.
	shape := logits.Shape()
	if len(shape) != 2 {
		panic("CrossEntropyLoss: logits must be 2D [batch_size, num_classes]")
	}

	batchSize := shape[0]
	numClasses := shape[1]

	targetsData := targets.Raw().AsInt32()
	if len(targetsData) != batchSize {
		panic("CrossEntropyLoss: targets must have shape [batch_size]")
	}

	logitsData := logits.Raw().AsFloat32()

	totalLoss := float32(0.0)
	for b := 0; b < batchSize; b++ {
		sampleLogits := logitsData[b*numClasses : (b+1)*numClasses]
		logProbs := logSoftmax(sampleLogits)

		target := int(targetsData[b])
		if target < 0 || target >= numClasses {
			panic("CrossEntropyLoss: target index out of bounds")
		}
		totalLoss += -logProbs[target]
	}

	lossRaw, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, c.backend.Device())
	if err != nil {
		panic(err)
	}
	lossRaw.AsFloat32()[0] = totalLoss / float32(batchSize)

	return tensor.New[float32, B](lossRaw, c.backend)
}

// Parameters returns nil (loss functions have no trainable parameters).
func (c *CrossEntropyLoss[B]) Parameters() []*Parameter[B] {
	return nil
}
