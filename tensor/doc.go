// Copyright 2025 Slate ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for Slate.
//
// # Overview
//
// Tensors are the fundamental data structure in Slate. This package provides:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting
//   - Zero-copy typed views over shared buffers
//   - Device abstraction (CPU)
//
// # Basic Usage
//
//	import (
//	    "github.com/slate-ml/slate/tensor"
//	    "github.com/slate-ml/slate/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	    y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//
//	    z := x.Add(y)
//	    result := x.MatMul(y.Transpose())
//	}
//
// # Supported Data Types
//
// The tensor package supports the following data types via the DType constraint:
//   - float32, float64 (floating-point)
//   - int32 (class labels, argmax indices)
//   - uint8 (raw image bytes)
//
// # Broadcasting
//
// Tensor operations follow NumPy broadcasting rules:
//
//	a := tensor.Zeros[float32](tensor.Shape{3, 1}, backend) // (3, 1)
//	b := tensor.Ones[float32](tensor.Shape{3, 4}, backend)  // (3, 4)
//	c := a.Add(b)                                            // (3, 4)
//
// Incompatible shapes panic with *ShapeMismatchError; there is never a
// silently wrong result.
//
// # Memory Management
//
// The underlying buffers are reference-counted with copy-on-write
// semantics: Clone is cheap, and backends may update a buffer in place
// only while it has a single reference. Shapes are fixed at creation; only
// element values change, and only through backend operations or optimizer
// updates.
package tensor
