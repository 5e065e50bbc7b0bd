package api

import "fmt"

// RunBlocking invokes work and parks the calling goroutine until the
// work's completion fires, bridging an asynchronous unit of work to a
// synchronous caller.
//
// It returns nil if the eventual completion carried no failure, and
// the recorded failure wrapped with %w otherwise. Panics raised by
// work are contained and surface as a *PanicError in the returned
// error. The caller must be on a goroutine that is allowed to block.
func RunBlocking(work Work) error {
	var failure error
	signal := make(chan struct{})

	Recover(work)(Once(func(err error) {
		failure = err
		close(signal)
	}))

	<-signal
	if failure != nil {
		return fmt.Errorf("sekvo: blocking run failed: %w", failure)
	}
	return nil
}
