package views

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is the phase of a controller plus, when failed, the user-facing
// reason. The zero value is Idle.
type State struct {
	phase  Phase
	reason string
}

func Idle() State                { return State{phase: PhaseIdle} }
func Loading() State             { return State{phase: PhaseLoading} }
func Loaded() State              { return State{phase: PhaseLoaded} }
func Failed(reason string) State { return State{phase: PhaseFailed, reason: reason} }

func (s State) Phase() Phase { return s.phase }

// Reason is the failure message; empty unless the phase is PhaseFailed.
func (s State) Reason() string { return s.reason }

func (s State) IsLoading() bool { return s.phase == PhaseLoading }
func (s State) IsFailed() bool  { return s.phase == PhaseFailed }

func (s State) String() string {
	if s.phase == PhaseFailed {
		return fmt.Sprintf("failed(%s)", s.reason)
	}
	return s.phase.String()
}

var (
	// ErrBusy is returned when an action is started while the controller is
	// still loading or submitting.
	ErrBusy = errors.New("request already in progress")

	// ErrClosed is returned when the controller was closed before the
	// response arrived. The response is discarded.
	ErrClosed = errors.New("view closed")
)

// lifecycle ties requests to the life of a controller.
type lifecycle struct {
	once   sync.Once
	ctx    context.Context
	cancel context.CancelFunc
}

func (l *lifecycle) init() {
	l.once.Do(func() {
		l.ctx, l.cancel = context.WithCancel(context.Background())
	})
}

// bind derives a request context that ends when either parent or the
// lifecycle ends.
func (l *lifecycle) bind(parent context.Context) (context.Context, context.CancelFunc) {
	l.init()
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(l.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (l *lifecycle) closed() bool {
	l.init()
	return l.ctx.Err() != nil
}

func (l *lifecycle) close() {
	l.init()
	l.cancel()
}
