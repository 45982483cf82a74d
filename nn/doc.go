// Copyright 2025 Slate ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks for Slate.
//
// # Overview
//
// This package contains:
//   - Module interface and Parameter type
//   - Linear: fully connected layer
//   - ReLU, Sigmoid, LogSoftmax: activation modules
//   - NLLLoss, CrossEntropyLoss: classification losses
//   - Sequential: module container
//   - MLP: three-layer feed-forward classifier
//
// # Basic Usage
//
//	import (
//	    "github.com/slate-ml/slate/nn"
//	    "github.com/slate-ml/slate/autodiff"
//	    "github.com/slate-ml/slate/backend/cpu"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//
//	    model := nn.NewMLP(nn.DefaultMLPConfig(), backend)
//	    criterion := nn.NewNLLLoss(backend)
//
//	    backend.Tape().StartRecording()
//	    logProbs := model.Forward(images)
//	    loss := criterion.Forward(logProbs, labels)
//	    grads := autodiff.Backward(loss, backend)
//	    // feed grads to an optimizer
//	}
//
// # Gradient Accumulation
//
// Parameter gradient buffers accumulate: repeated backward passes sum
// their gradients until ZeroGrad is called. Zero gradients explicitly at
// the start of each training iteration.
package nn
