package nn

import (
	"fmt"

	"github.com/slate-ml/slate/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// Parameters are the only state that persists across training batches:
// the computation graph is rebuilt every forward pass, but parameter
// values (and their gradient buffers) live for the whole training run.
//
// The gradient buffer accumulates: AccumulateGrad sums new gradients
// into it, and only ZeroGrad resets it. Callers that want per-batch
// gradients must zero between iterations.
//
// Example:
//
//	weight := nn.NewParameter("weight", weightTensor)
//	w := weight.Tensor()
//	grad := weight.Grad() // nil until the first AccumulateGrad
type Parameter[B tensor.Backend] struct {
	name   string                     // Parameter name (e.g., "linear1.weight")
	tensor *tensor.Tensor[float32, B] // The parameter tensor
	grad   *tensor.Tensor[float32, B] // Accumulated gradient buffer
}

// NewParameter creates a new trainable parameter.
//
// The parameter tensor should be initialized before creating the Parameter.
// The gradient buffer is allocated lazily on the first AccumulateGrad.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:   name,
		tensor: t,
		grad:   nil,
	}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Grad returns the accumulated gradient tensor.
//
// Returns nil if no gradient has been accumulated since the last ZeroGrad.
func (p *Parameter[B]) Grad() *tensor.Tensor[float32, B] {
	return p.grad
}

// AccumulateGrad sums a gradient into the parameter's gradient buffer.
//
// On the first call after ZeroGrad the gradient is copied into a fresh
// buffer; subsequent calls add element-wise. Accumulation uses plain
// slice arithmetic so it never touches the gradient tape.
//
// Panics if the gradient shape does not match the parameter shape.
func (p *Parameter[B]) AccumulateGrad(grad *tensor.Tensor[float32, B]) {
	if !grad.Shape().Equal(p.tensor.Shape()) {
		panic(fmt.Sprintf("Parameter %q: gradient shape %v does not match parameter shape %v",
			p.name, grad.Shape(), p.tensor.Shape()))
	}

	if p.grad == nil {
		// Deep copy: the buffer may still be referenced by the gradient map.
		p.grad = tensor.New[float32, B](grad.Raw().Copy(), grad.Backend())
		return
	}

	dst := p.grad.Data()
	src := grad.Data()
	for i := range dst {
		dst[i] += src[i]
	}
}

// SetGrad replaces the gradient buffer.
//
// Most callers want AccumulateGrad; SetGrad exists for tests and for
// optimizers that manage gradients themselves.
func (p *Parameter[B]) SetGrad(grad *tensor.Tensor[float32, B]) {
	p.grad = grad
}

// ZeroGrad clears the gradient buffer.
//
// This must be called before each training iteration that wants a fresh
// gradient; without it, backward passes keep summing into the buffer.
func (p *Parameter[B]) ZeroGrad() {
	p.grad = nil
}
