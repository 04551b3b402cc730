package engine

import (
	"sync"
)

// dispatcher runs collaborator calls in submission order on one goroutine
// so a slow notifier or speech engine never holds the state lock.
type dispatcher struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

func newDispatcher() *dispatcher {
	dispatcher := &dispatcher{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go dispatcher.run()
	return dispatcher
}

func (dispatcher *dispatcher) post(call func()) {
	dispatcher.mu.Lock()
	if dispatcher.closed {
		dispatcher.mu.Unlock()
		return
	}
	dispatcher.queue = append(dispatcher.queue, call)
	dispatcher.mu.Unlock()

	select {
	case dispatcher.wake <- struct{}{}:
	default:
	}
}

// close runs the calls already queued and stops the goroutine.
func (dispatcher *dispatcher) close() {
	dispatcher.mu.Lock()
	if dispatcher.closed {
		dispatcher.mu.Unlock()
		<-dispatcher.done
		return
	}
	dispatcher.closed = true
	dispatcher.mu.Unlock()

	select {
	case dispatcher.wake <- struct{}{}:
	default:
	}
	<-dispatcher.done
}

func (dispatcher *dispatcher) run() {
	defer close(dispatcher.done)
	for range dispatcher.wake {
		dispatcher.mu.Lock()
		calls := dispatcher.queue
		dispatcher.queue = nil
		closed := dispatcher.closed
		dispatcher.mu.Unlock()

		for _, call := range calls {
			call()
		}
		if closed {
			return
		}
	}
}
