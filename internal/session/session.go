// Package session drives the exam-taking experience on the client side:
// question navigation, local answer capture, the countdown, and the single
// submission hand-off. Nothing here talks to the network; the Runner owns
// the one submit call.
package session

// State of one attempt session.
type State int

const (
	StateUninitialized State = iota
	StateActive
	StateSubmitting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateSubmitting:
		return "submitting"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Question is the student-safe view rendered during an attempt. Correctness
// data never reaches the client.
type Question struct {
	ID      string
	Prompt  string
	Marks   int
	Choices []Choice
}

type Choice struct {
	ID   string
	Text string
}

// Session is the volatile state of one in-progress attempt. It is a plain
// value owned by whoever runs the session; every method is a pure local
// transition, and none of them are safe for concurrent use.
type Session struct {
	state        State
	questions    []Question
	answers      map[string]string
	currentIndex int
	timeLeft     int // seconds
	attemptID    string
}

func New() *Session {
	return &Session{answers: map[string]string{}}
}

// Initialize loads the immutable question list and starts the countdown.
// Calling it again begins a fresh session over the same value.
func (s *Session) Initialize(questions []Question, durationMinutes int) {
	s.questions = questions
	s.timeLeft = durationMinutes * 60
	s.answers = map[string]string{}
	s.currentIndex = 0
	s.attemptID = ""
	s.state = StateActive
}

// Tick burns one second off the clock, floored at zero. It reports whether
// the session just ran out of time and should auto-submit.
func (s *Session) Tick() (expired bool) {
	if s.state != StateActive {
		return false
	}
	if s.timeLeft > 0 {
		s.timeLeft--
	}
	return s.timeLeft == 0
}

// SetAnswer upserts the local answer for a question; re-answering
// overwrites. Ignored outside the Active state.
func (s *Session) SetAnswer(questionID, value string) {
	if s.state != StateActive {
		return
	}
	s.answers[questionID] = value
}

// SetCurrentQuestion moves the pointer, clamped to the question range.
// Navigation is unrestricted: any question, any order, any number of times.
func (s *Session) SetCurrentQuestion(index int) {
	if s.state != StateActive || len(s.questions) == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(s.questions)-1 {
		index = len(s.questions) - 1
	}
	s.currentIndex = index
}

// BeginSubmit transitions Active → Submitting. It returns false if a
// submission is already in flight or the session is finished, which is the
// guard that keeps a timer-driven auto-submit and a manual click from both
// proceeding.
func (s *Session) BeginSubmit() bool {
	if s.state != StateActive {
		return false
	}
	s.state = StateSubmitting
	return true
}

// CompleteSubmit records the committed attempt id; the session is final.
func (s *Session) CompleteSubmit(attemptID string) {
	if s.state != StateSubmitting {
		return
	}
	s.attemptID = attemptID
	s.state = StateDone
}

// FailSubmit returns the session to Active so the student can retry.
// Answers and remaining time are preserved.
func (s *Session) FailSubmit() {
	if s.state != StateSubmitting {
		return
	}
	s.state = StateActive
}

// Answers returns a copy of the current answer map, safe to hand to the
// submission call while the session keeps mutating its own copy.
func (s *Session) Answers() map[string]string {
	out := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

func (s *Session) State() State      { return s.state }
func (s *Session) TimeLeft() int     { return s.timeLeft }
func (s *Session) CurrentIndex() int { return s.currentIndex }
func (s *Session) AttemptID() string { return s.attemptID }
func (s *Session) QuestionCount() int { return len(s.questions) }

// Current returns the question under the pointer, or a zero Question when
// the session holds none.
func (s *Session) Current() Question {
	if len(s.questions) == 0 {
		return Question{}
	}
	return s.questions[s.currentIndex]
}
