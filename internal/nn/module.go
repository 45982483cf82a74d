// Package nn implements neural network modules for the Slate ML library.
//
// This package provides building blocks for constructing classifiers:
//   - Module interface: Base interface for all NN components
//   - Parameter: Trainable parameters with persistent gradient buffers
//   - Linear: Fully connected layer
//   - Activations: ReLU, Sigmoid, LogSoftmax
//   - Loss functions: NLLLoss, CrossEntropyLoss
//   - Sequential: Container for stacking layers
//   - MLP: Three affine layers with nonlinearities and log-softmax output
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/slate-ml/slate/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build architectures:
//
//	model := nn.NewSequential[Backend](
//	    nn.NewLinear(784, 128, backend),
//	    nn.NewReLU[Backend](),
//	    nn.NewLinear(128, 10, backend),
//	)
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor should have the appropriate shape for this module.
	// For example, Linear expects [batch_size, in_features].
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module.
	//
	// This includes weights, biases, and any nested module parameters.
	// Returns an empty slice for modules without trainable parameters
	// (e.g., activation functions).
	Parameters() []*Parameter[B]
}
