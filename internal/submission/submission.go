// Package submission tracks the lifecycle of one user-initiated request:
// Idle → Submitting → Succeeded or Failed → Idle. At most one submission is
// in flight at a time; a second attempt is rejected without running.
package submission

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrBusy is returned when a submission is already in flight.
var ErrBusy = errors.New("a request is already in progress")

// State is the lifecycle state of a submission.
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Snapshot is a consistent view of a submission.
type Snapshot[T any] struct {
	State   State
	Result  T
	Message string
}

// Submission holds the state machine and the last outcome.
type Submission[T any] struct {
	mu      sync.Mutex
	state   State
	result  T
	message string

	// OnTransition, when set, is called (outside the lock) after every
	// state change.
	OnTransition func(from, to State)
}

// Snapshot returns the current state and outcome.
func (s *Submission[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot[T]{State: s.state, Result: s.result, Message: s.message}
}

// State returns the current state.
func (s *Submission[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether a request is in flight.
func (s *Submission[T]) Busy() bool {
	return s.State() == Submitting
}

// Begin moves to Submitting. A settled submission passes through Idle
// first. It returns ErrBusy if a request is already in flight.
func (s *Submission[T]) Begin() error {
	s.mu.Lock()
	if s.state == Submitting {
		s.mu.Unlock()
		return ErrBusy
	}
	var steps [][2]State
	if s.state != Idle {
		steps = append(steps, [2]State{s.state, Idle})
	}
	steps = append(steps, [2]State{Idle, Submitting})
	s.state = Submitting
	s.mu.Unlock()

	for _, st := range steps {
		s.notify(st[0], st[1])
	}
	return nil
}

// Succeed settles an in-flight submission with result.
func (s *Submission[T]) Succeed(result T) {
	s.settle(Succeeded, result, "")
}

// Fail settles an in-flight submission with a user-facing message. The
// previous result is kept so callers can still show it.
func (s *Submission[T]) Fail(message string) {
	s.mu.Lock()
	result := s.result
	s.mu.Unlock()
	s.settle(Failed, result, message)
}

func (s *Submission[T]) settle(to State, result T, message string) {
	s.mu.Lock()
	if s.state != Submitting {
		s.mu.Unlock()
		return
	}
	s.state = to
	s.result = result
	s.message = message
	s.mu.Unlock()
	s.notify(Submitting, to)
}

// Reset returns a settled submission to Idle, clearing its outcome. It has
// no effect while a request is in flight.
func (s *Submission[T]) Reset() {
	s.mu.Lock()
	from := s.state
	if from == Submitting || from == Idle {
		s.mu.Unlock()
		return
	}
	var zero T
	s.state = Idle
	s.result = zero
	s.message = ""
	s.mu.Unlock()
	s.notify(from, Idle)
}

func (s *Submission[T]) notify(from, to State) {
	if s.OnTransition != nil {
		s.OnTransition(from, to)
	}
}

// Run executes fn as one submission. fn returns the result, or an error
// together with the user-facing message to record. The submission is
// always settled, even if fn panics.
func (s *Submission[T]) Run(ctx context.Context, fn func(context.Context) (T, string, error)) (result T, err error) {
	if err := s.Begin(); err != nil {
		return result, err
	}

	settled := false
	defer func() {
		if settled {
			return
		}
		if r := recover(); r != nil {
			s.Fail(fmt.Sprintf("unexpected failure: %v", r))
			panic(r)
		}
	}()

	result, message, err := fn(ctx)
	if err != nil {
		if message == "" {
			message = err.Error()
		}
		s.Fail(message)
	} else {
		s.Succeed(result)
	}
	settled = true
	return result, err
}
