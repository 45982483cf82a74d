package nn

import (
	"math"
	"math/rand"

	"github.com/slate-ml/slate/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Draws values from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// This keeps the variance of activations roughly constant across layers.
// The rng argument makes initialization reproducible: pass
// rand.New(rand.NewSource(seed)) for a fixed draw, or nil for the
// shared global source.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t, err := tensor.NewRaw(shape, tensor.Float32, backend.Device())
	if err != nil {
		panic(err)
	}

	uniform := rand.Float64
	if rng != nil {
		uniform = rng.Float64
	}

	data := t.AsFloat32()
	for i := range data {
		//nolint:gosec // math/rand is fine for weight initialization
		data[i] = float32((uniform()*2.0 - 1.0) * bound)
	}

	return tensor.New[float32, B](t, backend)
}

// ScaledNormal initializes weights from N(0, scale²).
//
// A small scale (e.g. 0.01, or 1/sqrt(fan_in)) keeps early activations in
// the linear region of the nonlinearities. Pass a seeded rng for
// reproducible draws, or nil for the global source.
func ScaledNormal[B tensor.Backend](shape tensor.Shape, scale float64, rng *rand.Rand, backend B) *tensor.Tensor[float32, B] {
	t, err := tensor.NewRaw(shape, tensor.Float32, backend.Device())
	if err != nil {
		panic(err)
	}

	normal := rand.NormFloat64
	if rng != nil {
		normal = rng.NormFloat64
	}

	data := t.AsFloat32()
	for i := range data {
		//nolint:gosec // math/rand is fine for weight initialization
		data[i] = float32(normal() * scale)
	}

	return tensor.New[float32, B](t, backend)
}

// Zeros creates a tensor filled with zeros.
//
// This is commonly used for bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}

// Ones creates a tensor filled with ones.
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Ones[float32](shape, backend)
}

// Randn creates a tensor with values from the standard normal distribution.
func Randn[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Randn[float32](shape, backend)
}
