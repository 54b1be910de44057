package session

import (
	"context"
	"log/slog"
	"time"
)

// Submitter sends the complete answer map to the scoring service once and
// returns the new attempt id.
type Submitter interface {
	Submit(ctx context.Context, testID string, answers map[string]string) (string, error)
}

type EventType int

const (
	EventTick EventType = iota
	EventSubmitted
	EventSubmitFailed
)

type Event struct {
	Type      EventType
	TimeLeft  int
	AttemptID string
	Err       error
}

type command struct {
	setAnswer  bool
	questionID string
	value      string

	navigate bool
	index    int

	submit bool
}

// Runner owns a Session and runs it as a single-threaded event loop: one
// goroutine reacts to the countdown tick and to user commands, so no two
// bodies of session logic ever run concurrently. The submit call is the
// only blocking operation; ticks are purely local.
type Runner struct {
	testID    string
	sess      *Session
	submitter Submitter
	interval  time.Duration
	cmds      chan command
	events    chan Event
	done      chan struct{}
	log       *slog.Logger
}

type RunnerOption func(*Runner)

// WithTickInterval shrinks the countdown tick, used by tests.
func WithTickInterval(d time.Duration) RunnerOption {
	return func(r *Runner) { r.interval = d }
}

func WithLogger(log *slog.Logger) RunnerOption {
	return func(r *Runner) { r.log = log }
}

func NewRunner(testID string, questions []Question, durationMinutes int, submitter Submitter, opts ...RunnerOption) *Runner {
	r := &Runner{
		testID:    testID,
		sess:      New(),
		submitter: submitter,
		interval:  time.Second,
		cmds:      make(chan command),
		events:    make(chan Event),
		done:      make(chan struct{}),
		log:       slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	r.sess.Initialize(questions, durationMinutes)
	return r
}

// Run drives the session until it terminates successfully or the context is
// cancelled. The returned channel is closed when the loop exits.
func (r *Runner) Run(ctx context.Context) <-chan Event {
	go r.loop(ctx)
	return r.events
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.events)
	defer close(r.done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			expired := r.sess.Tick()
			r.emit(ctx, Event{Type: EventTick, TimeLeft: r.sess.TimeLeft()})
			if expired && r.sess.BeginSubmit() {
				r.log.Info("time expired, auto-submitting", "test_id", r.testID)
				if r.doSubmit(ctx) {
					return
				}
			}

		case cmd := <-r.cmds:
			switch {
			case cmd.setAnswer:
				r.sess.SetAnswer(cmd.questionID, cmd.value)
			case cmd.navigate:
				r.sess.SetCurrentQuestion(cmd.index)
			case cmd.submit:
				// no-op while another submission is pending
				if r.sess.BeginSubmit() {
					if r.doSubmit(ctx) {
						return
					}
				}
			}
		}
	}
}

// doSubmit performs the single network call. It reports whether the session
// reached its terminal state; on failure the session reverts to Active with
// answers intact so a retry re-sends the identical map.
func (r *Runner) doSubmit(ctx context.Context) (done bool) {
	attemptID, err := r.submitter.Submit(ctx, r.testID, r.sess.Answers())
	if err != nil {
		r.sess.FailSubmit()
		r.log.Warn("submission failed", "test_id", r.testID, "err", err)
		r.emit(ctx, Event{Type: EventSubmitFailed, TimeLeft: r.sess.TimeLeft(), Err: err})
		return false
	}
	r.sess.CompleteSubmit(attemptID)
	r.emit(ctx, Event{Type: EventSubmitted, AttemptID: attemptID})
	return true
}

func (r *Runner) emit(ctx context.Context, e Event) {
	// Ticks are advisory; dropping one when the consumer is busy keeps the
	// loop free to receive commands. Submission outcomes always land.
	if e.Type == EventTick {
		select {
		case r.events <- e:
		default:
		}
		return
	}
	select {
	case r.events <- e:
	case <-ctx.Done():
	}
}

// SetAnswer records an answer for a question; re-answering overwrites.
func (r *Runner) SetAnswer(questionID, value string) {
	r.send(command{setAnswer: true, questionID: questionID, value: value})
}

// SetCurrentQuestion moves the navigation pointer.
func (r *Runner) SetCurrentQuestion(index int) {
	r.send(command{navigate: true, index: index})
}

// Submit asks for an explicit submission. Duplicate triggers while one is
// in flight are no-ops.
func (r *Runner) Submit() {
	r.send(command{submit: true})
}

// send drops the command if the loop has already exited.
func (r *Runner) send(cmd command) {
	select {
	case r.cmds <- cmd:
	case <-r.done:
	}
}
