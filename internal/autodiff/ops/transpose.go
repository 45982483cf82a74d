package ops

import "github.com/slate-ml/slate/internal/tensor"

// TransposeOp represents a dimension permutation.
//
// Even though transpose is conceptually a view, the backend materializes a
// new tensor, so the op must be recorded: otherwise the backward pass would
// compute a gradient for the transposed copy and the original parameter
// (a Linear weight, say) would never receive one.
//
// Backward applies the inverse permutation to the output gradient.
type TransposeOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	axes   []int
}

// NewTransposeOp creates a new TransposeOp. axes must be the resolved
// permutation used in the forward pass.
func NewTransposeOp(input, output *tensor.RawTensor, axes []int) *TransposeOp {
	return &TransposeOp{
		input:  input,
		output: output,
		axes:   axes,
	}
}

// Backward applies the inverse axes permutation to the output gradient.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inverse := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverse[ax] = i
	}

	gradInput := backend.Transpose(outputGrad, inverse...)
	return []*tensor.RawTensor{gradInput}
}

// Inputs returns the input tensor.
func (op *TransposeOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the transposed output tensor.
func (op *TransposeOp) Output() *tensor.RawTensor {
	return op.output
}
