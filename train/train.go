// Copyright 2025 Slate ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train provides the single-threaded training loop for Slate.
//
// # Basic Usage
//
//	import (
//	    "github.com/slate-ml/slate/autodiff"
//	    "github.com/slate-ml/slate/backend/cpu"
//	    "github.com/slate-ml/slate/nn"
//	    "github.com/slate-ml/slate/optim"
//	    "github.com/slate-ml/slate/train"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    model := nn.NewMLP(nn.DefaultMLPConfig(), backend)
//	    optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.01}, backend)
//
//	    trainer := train.NewTrainer(model, optimizer, backend, train.TrainConfig{Epochs: 3})
//	    history := trainer.Train(loader)
//	    accuracy := trainer.Evaluate(testLoader)
//	    _ = history
//	    _ = accuracy
//	}
package train

import (
	"github.com/slate-ml/slate/internal/autodiff"
	"github.com/slate-ml/slate/internal/nn"
	"github.com/slate-ml/slate/internal/optim"
	"github.com/slate-ml/slate/internal/tensor"
	"github.com/slate-ml/slate/internal/train"
)

// Batch is one unit of training data.
type Batch[B tensor.Backend] = train.Batch[B]

// DataLoader is a lazy, restartable sequence of batches.
type DataLoader[B tensor.Backend] = train.DataLoader[B]

// SliceLoader serves pre-built batches from memory.
type SliceLoader[B tensor.Backend] = train.SliceLoader[B]

// NewSliceLoader creates a loader over the given batches.
func NewSliceLoader[B tensor.Backend](batches ...*Batch[B]) *SliceLoader[B] {
	return train.NewSliceLoader(batches...)
}

// TrainConfig configures the training loop.
type TrainConfig = train.TrainConfig

// EpochStats summarizes one epoch of training.
type EpochStats = train.EpochStats

// Trainer runs the zero-grads / forward / backward / step cycle.
type Trainer[B tensor.Backend] = train.Trainer[B]

// NewTrainer wires a model, optimizer and autodiff backend into a training
// loop. The model's output must be log-probabilities (end with LogSoftmax).
func NewTrainer[B tensor.Backend](
	model nn.Module[*autodiff.AutodiffBackend[B]],
	optimizer optim.Optimizer,
	backend *autodiff.AutodiffBackend[B],
	config TrainConfig,
) *Trainer[B] {
	return train.NewTrainer(model, optimizer, backend, config)
}
