package session

import (
	"context"
	"sync"
	"time"

	"github.com/elaralabs/elara/backend/internal/model/chat"
)

// Relayer sends a transcript to the relay and returns the assistant reply.
type Relayer interface {
	Relay(ctx context.Context, messages []chat.Message) (string, error)
}

// DefaultTickInterval paces the typewriter reveal.
const DefaultTickInterval = 35 * time.Millisecond

// Update is a snapshot emitted to the renderer after every transition and
// every reveal tick.
type Update struct {
	State      State
	TurnCount  int
	Transcript chat.Transcript
	// Revealed is the visible prefix of the assistant turn being typed out.
	// It is empty until the reveal starts; the settling snapshot carries the
	// turn's full text.
	Revealed string
}

// Runner drives a Session against a Relayer, owning the goroutine and timer
// lifecycle the pure state machine deliberately avoids. At most one relay
// call is in flight at a time; Close tears the runner down safely even while
// a call is pending or a reveal is in progress.
type Runner struct {
	mu       sync.Mutex
	session  *Session
	relayer  Relayer
	tw       *Typewriter
	interval time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	updates chan Update
	wg      sync.WaitGroup

	closeOnce sync.Once
}

// NewRunner wraps the session. A non-positive interval falls back to
// DefaultTickInterval.
func NewRunner(s *Session, relayer Relayer, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		session:  s,
		relayer:  relayer,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		updates:  make(chan Update, 64),
	}
}

// Updates delivers state snapshots. The channel is closed by Close.
func (r *Runner) Updates() <-chan Update {
	return r.updates
}

// State returns the session's current state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.State()
}

// InputEnabled reports whether Submit would currently be accepted.
func (r *Runner) InputEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.InputEnabled()
}

// Submit feeds user input into the session and, when accepted, dispatches the
// relay call. Validation errors (ErrEmptyInput, ErrTurnsExhausted,
// ErrRequestPending) are returned without side effects.
func (r *Runner) Submit(text string) error {
	r.mu.Lock()
	messages, err := r.session.Submit(text)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	snapshot := r.snapshotLocked("")
	r.mu.Unlock()

	r.emit(snapshot)

	r.wg.Add(1)
	go r.await(messages)
	return nil
}

// Close cancels any in-flight relay call and reveal timer, waits for the
// worker to stop and closes the updates channel. Safe to call more than once.
func (r *Runner) Close() {
	r.closeOnce.Do(func() {
		r.cancel()
		r.wg.Wait()
		close(r.updates)
	})
}

func (r *Runner) await(messages []chat.Message) {
	defer r.wg.Done()

	reply, err := r.relayer.Relay(r.ctx, messages)

	// The runner may have been closed while the call was in flight; the
	// response must not touch torn-down state.
	if r.ctx.Err() != nil {
		return
	}

	r.mu.Lock()
	if err != nil {
		if applyErr := r.session.FailReply(); applyErr != nil {
			r.mu.Unlock()
			return
		}
		snapshot := r.snapshotLocked("")
		r.mu.Unlock()
		r.emit(snapshot)
		return
	}

	if applyErr := r.session.AcceptReply(reply); applyErr != nil {
		r.mu.Unlock()
		return
	}
	r.tw = NewTypewriter(reply)
	snapshot := r.snapshotLocked("")
	r.mu.Unlock()
	r.emit(snapshot)

	r.reveal()
}

func (r *Runner) reveal() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			r.mu.Lock()
			r.tw.Cancel()
			r.mu.Unlock()
			return
		case <-ticker.C:
			r.mu.Lock()
			revealed, done := r.tw.Tick()
			if done {
				if err := r.session.FinishReveal(); err != nil {
					r.mu.Unlock()
					return
				}
			}
			snapshot := r.snapshotLocked(revealed)
			r.mu.Unlock()

			r.emit(snapshot)
			if done {
				return
			}
		}
	}
}

func (r *Runner) snapshotLocked(revealed string) Update {
	return Update{
		State:      r.session.State(),
		TurnCount:  r.session.TurnCount(),
		Transcript: r.session.Transcript(),
		Revealed:   revealed,
	}
}

func (r *Runner) emit(u Update) {
	select {
	case r.updates <- u:
	case <-r.ctx.Done():
	}
}
