package tensor

import "fmt"

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a minimal backend for testing the tensor package itself.
// It implements the element-wise and matrix operations naively for float32
// and panics on everything a tensor-level test never needs. Real numeric
// coverage lives in the cpu backend tests.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// Add performs element-wise addition.
func (m *MockBackend) Add(a, b *RawTensor) *RawTensor {
	return m.elementWise("add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction.
func (m *MockBackend) Sub(a, b *RawTensor) *RawTensor {
	return m.elementWise("sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication.
func (m *MockBackend) Mul(a, b *RawTensor) *RawTensor {
	return m.elementWise("mul", a, b, func(x, y float32) float32 { return x * y })
}

// Div performs element-wise division.
func (m *MockBackend) Div(a, b *RawTensor) *RawTensor {
	return m.elementWise("div", a, b, func(x, y float32) float32 { return x / y })
}

func (m *MockBackend) elementWise(opName string, a, b *RawTensor, f func(float32, float32) float32) *RawTensor {
	if !a.Shape().Equal(b.Shape()) {
		panic(&ShapeMismatchError{Op: opName, A: a.Shape(), B: b.Shape()})
	}
	if a.DType() != Float32 {
		panic(fmt.Sprintf("mock %s: only float32 supported", opName))
	}

	result := mustRaw(a.Shape(), a.DType())
	aData, bData, out := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
	for i := range out {
		out[i] = f(aData[i], bData[i])
	}
	return result
}

// MatMul performs naive 2-D float32 matrix multiplication.
func (m *MockBackend) MatMul(a, b *RawTensor) *RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 || aShape[1] != bShape[0] {
		panic(&ShapeMismatchError{Op: "matmul", A: aShape, B: bShape})
	}

	rows, inner, cols := aShape[0], aShape[1], bShape[1]
	result := mustRaw(Shape{rows, cols}, Float32)
	aData, bData, out := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			var sum float32
			for k := 0; k < inner; k++ {
				sum += aData[i*inner+k] * bData[k*cols+j]
			}
			out[i*cols+j] = sum
		}
	}
	return result
}

// Reshape copies the data into a tensor with the new shape.
func (m *MockBackend) Reshape(t *RawTensor, newShape Shape) *RawTensor {
	if t.NumElements() != newShape.NumElements() {
		panic(&ShapeMismatchError{Op: "reshape", A: t.Shape(), B: newShape})
	}
	result := mustRaw(newShape, t.DType())
	copy(result.Data(), t.Data())
	return result
}

// Transpose supports only the plain 2-D float32 transpose.
func (m *MockBackend) Transpose(t *RawTensor, axes ...int) *RawTensor {
	shape := t.Shape()
	if len(shape) != 2 {
		panic("mock transpose: only 2D supported")
	}
	rows, cols := shape[0], shape[1]
	result := mustRaw(Shape{cols, rows}, Float32)
	src, dst := t.AsFloat32(), result.AsFloat32()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			dst[j*rows+i] = src[i*cols+j]
		}
	}
	return result
}

// MulScalar multiplies every element by a scalar.
func (m *MockBackend) MulScalar(x *RawTensor, scalar any) *RawTensor {
	s := scalar.(float32)
	return m.unary(x, func(v float32) float32 { return v * s })
}

// AddScalar adds a scalar to every element.
func (m *MockBackend) AddScalar(x *RawTensor, scalar any) *RawTensor {
	s := scalar.(float32)
	return m.unary(x, func(v float32) float32 { return v + s })
}

// Exp is not implemented on the mock.
func (m *MockBackend) Exp(x *RawTensor) *RawTensor {
	panic("mock: Exp not implemented")
}

// Log is not implemented on the mock.
func (m *MockBackend) Log(x *RawTensor) *RawTensor {
	panic("mock: Log not implemented")
}

// Softmax is not implemented on the mock.
func (m *MockBackend) Softmax(x *RawTensor) *RawTensor {
	panic("mock: Softmax not implemented")
}

// LogSoftmax is not implemented on the mock.
func (m *MockBackend) LogSoftmax(x *RawTensor) *RawTensor {
	panic("mock: LogSoftmax not implemented")
}

// Sum computes the total sum of all elements.
func (m *MockBackend) Sum(x *RawTensor) *RawTensor {
	result := mustRaw(Shape{1}, Float32)
	var sum float32
	for _, v := range x.AsFloat32() {
		sum += v
	}
	result.AsFloat32()[0] = sum
	return result
}

// Argmax is not implemented on the mock.
func (m *MockBackend) Argmax(x *RawTensor, dim int) *RawTensor {
	panic("mock: Argmax not implemented")
}

func (m *MockBackend) unary(x *RawTensor, f func(float32) float32) *RawTensor {
	result := mustRaw(x.Shape(), Float32)
	src, dst := x.AsFloat32(), result.AsFloat32()
	for i := range dst {
		dst[i] = f(src[i])
	}
	return result
}

func mustRaw(shape Shape, dtype DataType) *RawTensor {
	raw, err := NewRaw(shape, dtype, CPU)
	if err != nil {
		panic(err)
	}
	return raw
}
