// Package train implements the single-threaded training loop: it wires a
// model, a loss, an optimizer and a data source into the
// zero-grads / forward / backward / accumulate / step cycle.
package train

import (
	"github.com/slate-ml/slate/internal/tensor"
)

// Batch is one unit of training data: a 2-D float32 input block and the
// matching int32 class labels.
type Batch[B tensor.Backend] struct {
	Inputs  *tensor.Tensor[float32, B] // [batch_size, features]
	Targets *tensor.Tensor[int32, B]   // [batch_size]
}

// DataLoader is a lazy, restartable sequence of batches.
//
// The training loop pulls batches one at a time:
//
//	loader.Reset()
//	for {
//	    batch, ok := loader.Next()
//	    if !ok {
//	        break
//	    }
//	    // use batch
//	}
//
// Implementations own batching and ordering; the loop never sees the
// dataset as a whole.
type DataLoader[B tensor.Backend] interface {
	// Reset rewinds the loader to the first batch.
	Reset()

	// Next returns the next batch, or ok=false when the epoch is exhausted.
	Next() (batch *Batch[B], ok bool)
}

// SliceLoader serves pre-built batches from memory. Useful for tests and
// small synthetic datasets.
type SliceLoader[B tensor.Backend] struct {
	batches []*Batch[B]
	pos     int
}

// NewSliceLoader creates a loader over the given batches.
func NewSliceLoader[B tensor.Backend](batches ...*Batch[B]) *SliceLoader[B] {
	return &SliceLoader[B]{batches: batches}
}

// Reset rewinds to the first batch.
func (l *SliceLoader[B]) Reset() {
	l.pos = 0
}

// Next returns the next batch in order.
func (l *SliceLoader[B]) Next() (*Batch[B], bool) {
	if l.pos >= len(l.batches) {
		return nil, false
	}
	b := l.batches[l.pos]
	l.pos++
	return b, true
}

// Len returns the number of batches per epoch.
func (l *SliceLoader[B]) Len() int {
	return len(l.batches)
}
