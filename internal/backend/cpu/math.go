package cpu

import (
	"fmt"
	"math"

	"github.com/slate-ml/slate/internal/tensor"
)

// Exp computes the element-wise exponential.
func (cpu *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("exp", x, func(v float64) float64 { return math.Exp(v) })
}

// Log computes the element-wise natural logarithm.
// Input values must be positive; non-positive inputs yield -Inf/NaN, which a
// later finite-check will reject.
func (cpu *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unaryOp("log", x, func(v float64) float64 { return math.Log(v) })
}

// MulScalar multiplies every element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat64("mulscalar", scalar)
	return cpu.unaryOp("mulscalar", x, func(v float64) float64 { return v * s })
}

// AddScalar adds a scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat64("addscalar", scalar)
	return cpu.unaryOp("addscalar", x, func(v float64) float64 { return v + s })
}

// unaryOp applies f to every element into a fresh tensor.
func (cpu *CPUBackend) unaryOp(opName string, x *tensor.RawTensor, f func(float64) float64) *tensor.RawTensor {
	result := mustNewRaw(x.Shape(), x.DType(), cpu.device)

	switch x.DType() {
	case tensor.Float32:
		xData, resData := x.AsFloat32(), result.AsFloat32()
		for i, v := range xData {
			resData[i] = float32(f(float64(v)))
		}
	case tensor.Float64:
		xData, resData := x.AsFloat64(), result.AsFloat64()
		for i, v := range xData {
			resData[i] = f(v)
		}
	default:
		panic(fmt.Sprintf("%s: only supports float32 and float64, got %s", opName, x.DType()))
	}

	return result
}

func toFloat64(opName string, scalar any) float64 {
	switch s := scalar.(type) {
	case float32:
		return float64(s)
	case float64:
		return s
	case int:
		return float64(s)
	case int32:
		return float64(s)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", opName, scalar))
	}
}
