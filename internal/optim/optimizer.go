// Package optim implements optimization algorithms for training neural networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Design inspired by PyTorch's torch.optim but adapted for Go with type safety.
//
// The update cycle separates gradient delivery from the parameter update:
// Accumulate folds a backward pass's gradient map into each parameter's
// persistent gradient buffer (summing with whatever is already there), and
// Step reads each parameter's value and accumulated gradient to update the
// value in place. Calling Accumulate twice without ZeroGrad doubles the
// gradient, which is the documented accumulation contract.
//
// Example usage:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	}, backend)
//
//	for epoch := range epochs {
//	    optimizer.ZeroGrad()
//	    backend.Tape().StartRecording()
//	    output := model.Forward(input)
//	    loss := criterion.Forward(output, targets)
//	    grads := autodiff.Backward(loss, backend)
//	    backend.Tape().StopRecording()
//	    backend.Tape().Clear()
//
//	    optimizer.Accumulate(grads)
//	    optimizer.Step()
//	}
package optim

import (
	"github.com/slate-ml/slate/internal/nn"
	"github.com/slate-ml/slate/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Accumulate folds a gradient map from Backward() into the parameters'
	// gradient buffers, summing with previously accumulated gradients.
	// Parameters absent from the map are left untouched.
	Accumulate(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// Step updates all parameters in place from their accumulated
	// gradients. Parameters with no accumulated gradient are skipped.
	Step()

	// ZeroGrad clears all parameter gradient buffers.
	//
	// This must be called before each backward pass that wants fresh
	// gradients; without it, Accumulate keeps summing.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float32 // Learning rate
}

// accumulate folds a gradient map into the parameters' gradient buffers.
// Shared by all optimizers.
func accumulate[B tensor.Backend](params []*nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor, backend B) {
	for _, param := range params {
		if param == nil {
			continue
		}
		gradRaw, ok := grads[param.Tensor().Raw()]
		if !ok {
			// Parameter did not participate in the forward pass.
			continue
		}
		param.AccumulateGrad(tensor.New[float32, B](gradRaw, backend))
	}
}
