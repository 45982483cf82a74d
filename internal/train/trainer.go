package train

import (
	"github.com/slate-ml/slate/internal/autodiff"
	"github.com/slate-ml/slate/internal/nn"
	"github.com/slate-ml/slate/internal/optim"
	"github.com/slate-ml/slate/internal/tensor"
)

// TrainConfig configures the training loop.
type TrainConfig struct {
	Epochs int // Number of passes over the data (default: 1)

	// SmoothingFactor blends per-batch losses into a running average:
	// avg = factor*avg + (1-factor)*loss. Default: 0.9.
	SmoothingFactor float32
}

// EpochStats summarizes one epoch of training.
type EpochStats struct {
	Epoch       int     // Zero-based epoch index
	MeanLoss    float32 // Mean batch loss over the epoch
	SmoothLoss  float32 // Exponential moving average after the last batch
	NumBatches  int     // Batches consumed
	NumExamples int     // Examples consumed
}

// Trainer runs the training cycle for a model on an autodiff backend:
//
//	zero gradients → record forward → loss → backward → accumulate → step
//
// Execution is single-threaded; the backend, tape and parameters are not
// shared across goroutines. The computation graph is rebuilt for every
// batch, so the tape is cleared between iterations and parameters are the
// only state that survives from one batch to the next.
type Trainer[B tensor.Backend] struct {
	model     nn.Module[*autodiff.AutodiffBackend[B]]
	criterion *nn.NLLLoss[*autodiff.AutodiffBackend[B]]
	optimizer optim.Optimizer
	backend   *autodiff.AutodiffBackend[B]
	config    TrainConfig

	smoothLoss float32
	hasSmooth  bool
}

// NewTrainer wires a model, optimizer and backend into a training loop.
// The loss is negative log-likelihood, so the model's forward output must
// be log-probabilities (end the model with a LogSoftmax layer).
func NewTrainer[B tensor.Backend](
	model nn.Module[*autodiff.AutodiffBackend[B]],
	optimizer optim.Optimizer,
	backend *autodiff.AutodiffBackend[B],
	config TrainConfig,
) *Trainer[B] {
	if config.Epochs == 0 {
		config.Epochs = 1
	}
	if config.SmoothingFactor == 0 {
		config.SmoothingFactor = 0.9
	}

	return &Trainer[B]{
		model:     model,
		criterion: nn.NewNLLLoss(backend),
		optimizer: optimizer,
		backend:   backend,
		config:    config,
	}
}

// TrainStep runs one batch through the full update cycle and returns the
// batch loss.
func (t *Trainer[B]) TrainStep(batch *Batch[*autodiff.AutodiffBackend[B]]) float32 {
	tape := t.backend.Tape()

	t.optimizer.ZeroGrad()
	tape.Clear()
	tape.StartRecording()

	logProbs := t.model.Forward(batch.Inputs)
	loss := t.criterion.Forward(logProbs, batch.Targets)

	grads := autodiff.Backward(loss, t.backend)

	tape.StopRecording()
	tape.Clear()

	t.optimizer.Accumulate(grads)
	t.optimizer.Step()

	return loss.Item()
}

// TrainEpoch consumes one full pass of the loader and returns its stats.
func (t *Trainer[B]) TrainEpoch(epoch int, loader DataLoader[*autodiff.AutodiffBackend[B]]) EpochStats {
	stats := EpochStats{Epoch: epoch}
	totalLoss := float32(0.0)

	loader.Reset()
	for {
		batch, ok := loader.Next()
		if !ok {
			break
		}

		loss := t.TrainStep(batch)
		totalLoss += loss
		stats.NumBatches++
		stats.NumExamples += batch.Inputs.Shape()[0]

		if !t.hasSmooth {
			t.smoothLoss = loss
			t.hasSmooth = true
		} else {
			f := t.config.SmoothingFactor
			t.smoothLoss = f*t.smoothLoss + (1-f)*loss
		}
	}

	if stats.NumBatches > 0 {
		stats.MeanLoss = totalLoss / float32(stats.NumBatches)
	}
	stats.SmoothLoss = t.smoothLoss

	return stats
}

// Train runs the configured number of epochs and returns per-epoch stats.
func (t *Trainer[B]) Train(loader DataLoader[*autodiff.AutodiffBackend[B]]) []EpochStats {
	history := make([]EpochStats, 0, t.config.Epochs)
	for epoch := 0; epoch < t.config.Epochs; epoch++ {
		history = append(history, t.TrainEpoch(epoch, loader))
	}
	return history
}

// Evaluate computes classification accuracy over the loader.
//
// Runs with recording off: evaluation builds no graph and leaves no
// gradients behind. The previous recording state is restored on return.
func (t *Trainer[B]) Evaluate(loader DataLoader[*autodiff.AutodiffBackend[B]]) float32 {
	tape := t.backend.Tape()
	wasRecording := tape.IsRecording()
	tape.StopRecording()
	defer func() {
		if wasRecording {
			tape.StartRecording()
		}
	}()

	correct := 0
	total := 0

	loader.Reset()
	for {
		batch, ok := loader.Next()
		if !ok {
			break
		}

		logProbs := t.model.Forward(batch.Inputs)
		predictions := logProbs.Argmax(1)

		predData := predictions.Data()
		targetData := batch.Targets.Data()
		for i := range predData {
			if predData[i] == targetData[i] {
				correct++
			}
		}
		total += len(predData)
	}

	if total == 0 {
		return 0
	}
	return float32(correct) / float32(total)
}
