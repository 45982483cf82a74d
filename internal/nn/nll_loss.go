package nn

import (
	"math"

	"github.com/slate-ml/slate/internal/tensor"
)

// NLLLoss computes the mean negative log-likelihood over a batch.
//
// It consumes the log-probabilities produced by a LogSoftmax output layer:
//
//	Loss = mean over batch of -log_probs[b, targets[b]]
//
// Pairing LogSoftmax with NLLLoss is the numerically stable decomposition
// of cross-entropy; the fused CrossEntropyLoss below does both at once
// from raw logits.
//
// Usage:
//
//	criterion := nn.NewNLLLoss[Backend](backend)
//	logProbs := model.Forward(input)          // [batch_size, num_classes]
//	loss := criterion.Forward(logProbs, targets) // targets: [batch_size]
type NLLLoss[B tensor.Backend] struct {
	backend B
}

// NewNLLLoss creates a new negative log-likelihood loss function.
func NewNLLLoss[B tensor.Backend](backend B) *NLLLoss[B] {
	return &NLLLoss[B]{
		backend: backend,
	}
}

// Forward computes the mean NLL of logProbs against integer class targets.
//
// Parameters:
//   - logProbs: log-softmax output with shape [batch_size, num_classes]
//   - targets: class indices with shape [batch_size]
//
// Returns a scalar loss tensor (mean over batch).
//
// Panics with *tensor.NumericError when the resulting loss is NaN or Inf,
// which indicates the inputs were not valid log-probabilities.
func (l *NLLLoss[B]) Forward(
	logProbs *tensor.Tensor[float32, B],
	targets *tensor.Tensor[int32, B],
) *tensor.Tensor[float32, B] {
	// Autodiff-aware backends record the operation on the tape.
	type NLLBackend interface {
		NLLLoss(logProbs, targets *tensor.RawTensor) *tensor.RawTensor
	}

	var loss *tensor.Tensor[float32, B]
	if adBackend, ok := any(l.backend).(NLLBackend); ok {
		resultRaw := adBackend.NLLLoss(logProbs.Raw(), targets.Raw())
		loss = tensor.New[float32, B](resultRaw, l.backend)
	} else {
		loss = l.forwardManual(logProbs, targets)
	}

	if !loss.IsFinite() {
		panic(&tensor.NumericError{
			Op:     "nll_loss",
			Detail: "loss is not finite; inputs are not valid log-probabilities",
		})
	}

	return loss
}

// forwardManual computes the loss directly for non-autodiff backends.
func (l *NLLLoss[B]) forwardManual(
	logProbs *tensor.Tensor[float32, B],
	targets *tensor.Tensor[int32, B],
) *tensor.Tensor[float32, B] {
	shape := logProbs.Shape()
	if len(shape) != 2 {
		panic("NLLLoss: logProbs must be 2D [batch_size, num_classes]")
	}

	batchSize := shape[0]
	numClasses := shape[1]

	targetsData := targets.Raw().AsInt32()
	if len(targetsData) != batchSize {
		panic("NLLLoss: targets must have shape [batch_size]")
	}

	logProbsData := logProbs.Raw().AsFloat32()

	totalLoss := float32(0.0)
	for b := 0; b < batchSize; b++ {
		target := int(targetsData[b])
		if target < 0 || target >= numClasses {
			panic("NLLLoss: target index out of bounds")
		}
		totalLoss += -logProbsData[b*numClasses+target]
	}

	lossRaw, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, l.backend.Device())
	if err != nil {
		panic(err)
	}
	lossRaw.AsFloat32()[0] = totalLoss / float32(batchSize)

	return tensor.New[float32, B](lossRaw, l.backend)
}

// Parameters returns nil (loss functions have no trainable parameters).
func (l *NLLLoss[B]) Parameters() []*Parameter[B] {
	return nil
}

// argmax returns the index of the maximum value in the slice.
func argmax(z []float32) int {
	maxIdx := 0
	maxVal := z[0]
	for i := 1; i < len(z); i++ {
		if z[i] > maxVal {
			maxVal = z[i]
			maxIdx = i
		}
	}
	return maxIdx
}

// Accuracy computes classification accuracy for a batch.
//
// Works on either raw logits or log-probabilities: argmax is invariant
// under the monotone log-softmax transform.
//
// Parameters:
//   - scores: model output [batch_size, num_classes]
//   - targets: ground truth class indices [batch_size]
//
// Returns accuracy in [0, 1].
func Accuracy[B tensor.Backend](
	scores *tensor.Tensor[float32, B],
	targets *tensor.Tensor[int32, B],
) float32 {
	shape := scores.Shape()
	batchSize := shape[0]
	numClasses := shape[1]

	scoresData := scores.Raw().AsFloat32()
	targetsData := targets.Raw().AsInt32()

	correct := 0
	for b := 0; b < batchSize; b++ {
		row := scoresData[b*numClasses : (b+1)*numClasses]
		if argmax(row) == int(targetsData[b]) {
			correct++
		}
	}

	return float32(correct) / float32(batchSize)
}

// logSoftmax computes log(softmax(z)) in a numerically stable way.
//
// LogSoftmax(z)[i] = z[i] - (max(z) + log(Σ exp(z - max(z))))
//
// Subtracting max(z) before exponentiating prevents overflow for large
// logits and underflow when all logits are very negative.
func logSoftmax(z []float32) []float32 {
	n := len(z)
	result := make([]float32, n)

	maxZ := z[0]
	for i := 1; i < n; i++ {
		if z[i] > maxZ {
			maxZ = z[i]
		}
	}

	sumExp := float32(0.0)
	for i := 0; i < n; i++ {
		sumExp += float32(math.Exp(float64(z[i] - maxZ)))
	}

	logSumExp := maxZ + float32(math.Log(float64(sumExp)))

	for i := 0; i < n; i++ {
		result[i] = z[i] - logSumExp
	}

	return result
}
