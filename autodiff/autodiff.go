// Copyright 2025 Slate ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides automatic differentiation capabilities.
//
// This package implements reverse-mode automatic differentiation
// (backpropagation) using a gradient tape. It wraps any backend to add
// gradient tracking.
//
// Example:
//
//	import (
//	    "github.com/slate-ml/slate/autodiff"
//	    "github.com/slate-ml/slate/backend/cpu"
//	    "github.com/slate-ml/slate/tensor"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    backend.Tape().StartRecording()
//
//	    x := tensor.Ones[float32](tensor.Shape{2}, backend)
//	    y := x.Mul(x) // y = x², recorded on the tape
//
//	    grads := autodiff.Backward(y, backend)
//	    _ = grads[x.Raw()] // dy/dx = 2x
//	}
package autodiff

import (
	"github.com/slate-ml/slate/internal/autodiff"
	"github.com/slate-ml/slate/internal/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
//
// Example:
//
//	base := cpu.New()
//	backend := autodiff.New(base)
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// GraphError is the panic value raised on malformed backward requests:
// an empty tape, or a seed gradient whose shape does not match the output.
type GraphError = autodiff.GraphError

// BackwardCapable is the interface for backends that support backpropagation.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes gradients via backpropagation.
//
// Gradients accumulate: a tensor feeding multiple consumers receives the
// sum of its downstream gradients, and repeated Backward calls without
// clearing the tape keep summing.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
