package syncutil

// InitBarrier wraps around a channel to guard an initialization which must happen at most once.
type InitBarrier chan struct{}

// NewInitBarrier creates a new populated initialization barrier which will allow a single goroutine to perform
// initialization.
func NewInitBarrier() InitBarrier {
	barrier := make(chan struct{}, 1)
	barrier <- struct{}{}

	return barrier
}

// TryClaim returns a boolean indicating whether the caller is the initializing goroutine. It never waits; a caller
// which arrives whilst another initialization is in progress, or after it completed, gets false.
func (i InitBarrier) TryClaim() bool {
	select {
	case _, ok := <-i:
		return ok
	default:
		return false
	}
}

// Success indicates that the initialization was a success.
func (i InitBarrier) Success() {
	close(i)
}
