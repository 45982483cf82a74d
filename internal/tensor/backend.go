package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - cpu.CPUBackend: pure Go reference implementation
//   - autodiff.AutodiffBackend: decorator that records operations for backprop
type Backend interface {
	// Element-wise binary operations (with NumPy-style broadcasting)
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations (2-D only)
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Scalar operations (element-wise with scalar)
	MulScalar(x *RawTensor, scalar any) *RawTensor
	AddScalar(x *RawTensor, scalar any) *RawTensor

	// Math operations (element-wise)
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor

	// Activation / normalization
	Softmax(x *RawTensor) *RawTensor    // softmax along last dimension
	LogSoftmax(x *RawTensor) *RawTensor // numerically stable log-softmax along last dimension

	// Reduction operations
	Sum(x *RawTensor) *RawTensor         // total sum (scalar result, shape {1})
	Argmax(x *RawTensor, dim int) *RawTensor // index of maximum value along dimension

	// Metadata
	Name() string
	Device() Device
}
