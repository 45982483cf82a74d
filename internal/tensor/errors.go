package tensor

import "fmt"

// ShapeMismatchError reports operand shapes that are incompatible with the
// requested operation. Backend operations panic with this value; it is a
// programming error, never a transient condition.
type ShapeMismatchError struct {
	Op string // operation name, e.g. "matmul"
	A  Shape
	B  Shape
}

func (e *ShapeMismatchError) Error() string {
	if e.B == nil {
		return fmt.Sprintf("%s: incompatible shape %v", e.Op, e.A)
	}
	return fmt.Sprintf("%s: incompatible shapes %v and %v", e.Op, e.A, e.B)
}

// NumericError reports non-finite values (NaN or ±Inf) produced by an
// operation. Non-finite values are signaled at the point they are detected
// rather than silently propagated into later computations.
type NumericError struct {
	Op     string
	Detail string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("%s: numeric instability: %s", e.Op, e.Detail)
}
