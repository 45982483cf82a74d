package autodiff

// GraphError reports an incorrectly used computation graph: backward invoked
// with nothing recorded, or with a seed gradient that does not match the
// recorded output. It is a programming error; backend code panics with it.
type GraphError struct {
	Reason string
}

func (e *GraphError) Error() string {
	return "autodiff: " + e.Reason
}
