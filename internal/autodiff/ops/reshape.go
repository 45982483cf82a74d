package ops

import "github.com/slate-ml/slate/internal/tensor"

// ReshapeOp represents a reshape operation.
//
// Reshape does not change element values, so the backward pass simply
// reshapes the output gradient back to the input's shape. Without recording
// this op, gradients computed for a reshaped view would never reach the
// original tensor (a bias reshaped for broadcasting, for example).
type ReshapeOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReshapeOp creates a new ReshapeOp.
func NewReshapeOp(input, output *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{
		input:  input,
		output: output,
	}
}

// Backward reshapes the output gradient back to the input shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradInput := backend.Reshape(outputGrad, op.input.Shape())
	return []*tensor.RawTensor{gradInput}
}

// Inputs returns the input tensor.
func (op *ReshapeOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the reshaped output tensor.
func (op *ReshapeOp) Output() *tensor.RawTensor {
	return op.output
}
