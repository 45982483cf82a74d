package nn

import (
	"math/rand"

	"github.com/slate-ml/slate/internal/tensor"
)

// MLPConfig configures a feed-forward classifier.
//
// The zero value is not usable; call DefaultMLPConfig for the standard
// MNIST-sized network.
type MLPConfig struct {
	InputSize  int   // Flattened input features (784 for 28x28 images)
	Hidden1    int   // First hidden layer width
	Hidden2    int   // Second hidden layer width
	NumClasses int   // Output classes
	Seed       int64 // Parameter initialization seed
	UseSigmoid bool  // Sigmoid nonlinearities instead of ReLU
}

// DefaultMLPConfig returns the standard MNIST classifier configuration:
// 784 → 128 → 64 → 10 with ReLU activations.
func DefaultMLPConfig() MLPConfig {
	return MLPConfig{
		InputSize:  784,
		Hidden1:    128,
		Hidden2:    64,
		NumClasses: 10,
		Seed:       42,
	}
}

// MLP is a three-layer feed-forward classifier:
//
//	input → Linear → nonlinearity → Linear → nonlinearity → Linear → LogSoftmax
//
// The output holds per-class log-probabilities; each row of exp(output)
// sums to 1. Parameters are drawn from a seeded source, so two MLPs built
// with the same config start identical.
type MLP[B tensor.Backend] struct {
	layers *Sequential[B]
	config MLPConfig
}

// NewMLP builds the classifier described by config.
func NewMLP[B tensor.Backend](config MLPConfig, backend B) *MLP[B] {
	rng := rand.New(rand.NewSource(config.Seed)) //nolint:gosec // reproducible init

	var act1, act2 Module[B]
	if config.UseSigmoid {
		act1, act2 = NewSigmoid[B](), NewSigmoid[B]()
	} else {
		act1, act2 = NewReLU[B](), NewReLU[B]()
	}

	layers := NewSequential[B](
		NewLinearRand[B](config.InputSize, config.Hidden1, rng, backend),
		act1,
		NewLinearRand[B](config.Hidden1, config.Hidden2, rng, backend),
		act2,
		NewLinearRand[B](config.Hidden2, config.NumClasses, rng, backend),
		NewLogSoftmax[B](),
	)

	return &MLP[B]{
		layers: layers,
		config: config,
	}
}

// Forward maps a batch of flattened inputs to log-probabilities.
//
// Input shape: [batch_size, InputSize]
// Output shape: [batch_size, NumClasses]
func (m *MLP[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return m.layers.Forward(input)
}

// Parameters returns all six trainable parameters (three weight/bias pairs).
func (m *MLP[B]) Parameters() []*Parameter[B] {
	return m.layers.Parameters()
}

// Config returns the configuration the network was built with.
func (m *MLP[B]) Config() MLPConfig {
	return m.config
}
