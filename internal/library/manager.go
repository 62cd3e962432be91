package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned once the Manager or Coordinator has been closed
var ErrClosed = errors.New("library closed")

// Transition computes the next state from the current one. On error the
// current state is kept. Transitions run on the manager's goroutine and must not block.
type Transition func(State) (State, error)

type applyReq struct {
	fn    Transition
	reply chan applyResult
}

type applyResult struct {
	state State
	err   error
}

// Manager owns the single live library state.
//
// Concurrency model: one goroutine applies every transition in arrival order,
// so no two transitions interleave. Readers get the latest published snapshot
// without going through the loop.
type Manager struct {
	applyCh chan applyReq
	current atomic.Pointer[State]
	logger  *slog.Logger

	subMu       sync.Mutex
	subscribers map[chan State]struct{}

	stopCh    chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewManager starts a manager holding an empty library
func NewManager(pageSize int, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		applyCh:     make(chan applyReq),
		logger:      logger,
		subscribers: make(map[chan State]struct{}),
		stopCh:      make(chan struct{}),
		stopped:     make(chan struct{}),
	}
	initial := NewState(pageSize)
	m.current.Store(&initial)

	go m.run(initial)
	return m
}

func (m *Manager) run(state State) {
	defer close(m.stopped)
	for {
		select {
		case req := <-m.applyCh:
			next, err := req.fn(state)
			if err == nil {
				state = next
				m.current.Store(&next)
				m.publish(next)
			}
			req.reply <- applyResult{state: state, err: err}
		case <-m.stopCh:
			return
		}
	}
}

// Apply runs fn atomically against the live state and returns the resulting state.
// Once accepted by the loop the transition always completes, even if ctx is cancelled.
func (m *Manager) Apply(ctx context.Context, fn Transition) (State, error) {
	req := applyReq{fn: fn, reply: make(chan applyResult, 1)}
	select {
	case m.applyCh <- req:
	case <-ctx.Done():
		return m.State(), ctx.Err()
	case <-m.stopCh:
		return m.State(), ErrClosed
	}
	res := <-req.reply
	return res.state, res.err
}

// Dispatch reduces a single action against the live state
func (m *Manager) Dispatch(ctx context.Context, action Action) (State, error) {
	state, err := m.Apply(ctx, func(s State) (State, error) {
		return Reduce(s, action)
	})
	if err != nil {
		m.logger.Debug("action rejected", "action", actionName(action), "error", err)
	} else {
		m.logger.Debug("action applied", "action", actionName(action),
			"page", state.CurrentPage, "totalPages", state.TotalPages)
	}
	return state, err
}

// State returns the latest settled snapshot
func (m *Manager) State() State {
	return *m.current.Load()
}

// Subscribe returns a channel that receives the newest state after every
// applied transition. Slow readers skip intermediate states. Call cancel to stop.
func (m *Manager) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	cancel := func() {
		m.subMu.Lock()
		delete(m.subscribers, ch)
		m.subMu.Unlock()
	}
	return ch, cancel
}

func (m *Manager) publish(s State) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for ch := range m.subscribers {
		// Only this goroutine sends, so dropping the stale value keeps the send non-blocking.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

// Close stops the loop. Pending Apply calls return ErrClosed.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.stopCh)
		<-m.stopped
	})
}

func actionName(a Action) string {
	return fmt.Sprintf("%T", a)
}
