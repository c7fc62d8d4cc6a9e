//go:build !tinygo

package irknob

import "sync"

// hostIRQ stands in for the interrupt mask on regular Go, where the tick
// handler runs on its own goroutine.
var hostIRQ sync.Mutex

type irqState struct{}

// disableInterrupts enters the critical section. It does not nest.
func disableInterrupts() irqState {
	hostIRQ.Lock()
	return irqState{}
}

// restoreInterrupts leaves the critical section.
func restoreInterrupts(irqState) {
	hostIRQ.Unlock()
}
