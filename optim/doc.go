// Copyright 2025 Slate ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training neural networks.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// # Training Loop Pattern
//
//	for epoch := range numEpochs {
//	    for batch := range batches {
//	        // 1. Zero gradients and clear the tape
//	        optimizer.ZeroGrad()
//	        backend.Tape().Clear()
//	        backend.Tape().StartRecording()
//
//	        // 2. Forward pass
//	        output := model.Forward(batch.Input)
//	        loss := criterion.Forward(output, batch.Target)
//
//	        // 3. Backward pass
//	        grads := autodiff.Backward(loss, backend)
//	        backend.Tape().StopRecording()
//
//	        // 4. Update parameters
//	        optimizer.Accumulate(grads)
//	        optimizer.Step()
//	    }
//	}
//
// Accumulate and Step are split so several backward passes can be folded
// into one update (gradient accumulation across micro-batches). Skipping
// ZeroGrad between iterations doubles the gradient by design.
package optim
