// Package engine walks a student through an ordered question set and
// scores the attempt. It performs no I/O; callers persist results and
// serialize access to a Session.
package engine

import (
	"errors"
	"slices"
)

// Mode selects exam or practice behaviour.
type Mode string

const (
	ModeExam     Mode = "exam"
	ModePractice Mode = "practice"
)

// State is the lifecycle state of a Session.
type State string

const (
	StateLoading    State = "loading"
	StateInProgress State = "in_progress"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
	StateFinished   State = "finished"
	StateEmpty      State = "empty"
)

// Feedback is the practice-mode verdict on a selected option.
type Feedback string

const (
	FeedbackCorrect   Feedback = "correct"
	FeedbackIncorrect Feedback = "incorrect"
)

// Question is the engine's view of one multiple-choice item.
type Question struct {
	ID            string
	Options       []string
	CorrectAnswer string
}

var (
	ErrNoContent       = errors.New("session has no questions")
	ErrNotInProgress   = errors.New("session is not in progress")
	ErrWrongMode       = errors.New("operation not available in this mode")
	ErrInvalidOption   = errors.New("option is not one of the question's options")
	ErrLocked          = errors.New("question already answered")
	ErrUnanswered      = errors.New("current question has no answer")
	ErrIncomplete      = errors.New("not every question is answered")
	ErrNotLastQuestion = errors.New("practice can only be finished from the last question")
	ErrSubmitInFlight  = errors.New("submission already in progress")
	ErrNotSubmitting   = errors.New("no submission in progress")
	ErrTimeExpired     = errors.New("exam time has expired")
)

// Session is a single attempt over a fixed question set.
type Session struct {
	mode      Mode
	state     State
	questions []Question
	index     int
	answers   map[string]string
	feedback  map[string]Feedback
	expired   bool
}

// New returns a session in the loading state.
func New(mode Mode) *Session {
	return &Session{
		mode:     mode,
		state:    StateLoading,
		answers:  make(map[string]string),
		feedback: make(map[string]Feedback),
	}
}

// Load installs the question set. Zero questions is terminal.
func (s *Session) Load(questions []Question) {
	s.questions = questions
	s.reset()
	if len(questions) == 0 {
		s.state = StateEmpty
	}
}

func (s *Session) reset() {
	s.index = 0
	s.answers = make(map[string]string)
	s.feedback = make(map[string]Feedback)
	s.state = StateInProgress
}

// Mode reports whether the session is an exam or a practice attempt.
func (s *Session) Mode() Mode { return s.mode }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Index returns the zero-based position of the cursor.
func (s *Session) Index() int { return s.index }

// Len returns the number of loaded questions.
func (s *Session) Len() int { return len(s.questions) }

// Expire freezes an exam's answers at the deadline. From then on answers
// and the cursor are fixed and any submission skips the all-answered
// requirement. It has no effect in practice mode.
func (s *Session) Expire() {
	if s.mode == ModeExam {
		s.expired = true
	}
}

// Expired reports whether the deadline has frozen the session.
func (s *Session) Expired() bool { return s.expired }

// Current returns the question under the cursor.
func (s *Session) Current() (Question, bool) {
	if len(s.questions) == 0 {
		return Question{}, false
	}
	return s.questions[s.index], true
}

// Answers returns a copy of the recorded answers keyed by question ID.
func (s *Session) Answers() map[string]string {
	out := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// Select records option for the current question. In practice mode the
// question is graded immediately and locked until Restart.
func (s *Session) Select(option string) (Feedback, error) {
	if s.state == StateEmpty {
		return "", ErrNoContent
	}
	if s.state != StateInProgress {
		return "", ErrNotInProgress
	}
	if s.expired {
		return "", ErrTimeExpired
	}
	q := s.questions[s.index]
	if !slices.Contains(q.Options, option) {
		return "", ErrInvalidOption
	}

	if s.mode == ModeExam {
		s.answers[q.ID] = option
		return "", nil
	}

	if _, locked := s.feedback[q.ID]; locked {
		return "", ErrLocked
	}
	s.answers[q.ID] = option
	fb := FeedbackIncorrect
	if option == q.CorrectAnswer {
		fb = FeedbackCorrect
	}
	s.feedback[q.ID] = fb
	return fb, nil
}

func (s *Session) navigable() error {
	switch {
	case s.state == StateEmpty:
		return ErrNoContent
	case s.state == StateInProgress && s.expired:
		return ErrTimeExpired
	case s.state == StateInProgress:
		return nil
	case s.state == StateFinished && s.mode == ModePractice:
		return nil
	default:
		return ErrNotInProgress
	}
}

// Next advances the cursor. It is a no-op on the last question.
func (s *Session) Next() error {
	if err := s.navigable(); err != nil {
		return err
	}
	if s.mode == ModePractice && s.state == StateInProgress && !s.answered(s.index) {
		return ErrUnanswered
	}
	if s.index < len(s.questions)-1 {
		s.index++
	}
	return nil
}

// Previous moves the cursor back. It is a no-op on the first question.
func (s *Session) Previous() error {
	if err := s.navigable(); err != nil {
		return err
	}
	if s.index > 0 {
		s.index--
	}
	return nil
}

func (s *Session) answered(i int) bool {
	_, ok := s.answers[s.questions[i].ID]
	return ok
}

// CanSubmit reports whether an exam submission is allowed. After expiry
// the frozen answers may always be submitted.
func (s *Session) CanSubmit() bool {
	if s.mode != ModeExam || s.state != StateInProgress {
		return false
	}
	if s.expired {
		return true
	}
	for i := range s.questions {
		if !s.answered(i) {
			return false
		}
	}
	return true
}

// BeginSubmit raises the in-flight guard. force skips the all-answered
// requirement and is used when the countdown expires. An expired session
// always submits as if forced.
func (s *Session) BeginSubmit(force bool) error {
	if s.mode != ModeExam {
		return ErrWrongMode
	}
	switch s.state {
	case StateSubmitting:
		return ErrSubmitInFlight
	case StateEmpty:
		return ErrNoContent
	case StateInProgress:
	default:
		return ErrNotInProgress
	}
	if !force && !s.CanSubmit() {
		return ErrIncomplete
	}
	s.state = StateSubmitting
	return nil
}

// CompleteSubmit marks the in-flight submission as persisted.
func (s *Session) CompleteSubmit() error {
	if s.state != StateSubmitting {
		return ErrNotSubmitting
	}
	s.state = StateSubmitted
	return nil
}

// FailSubmit lowers the guard so the student may retry. An expired
// session stays expired, so the retry carries the same answers.
func (s *Session) FailSubmit() error {
	if s.state != StateSubmitting {
		return ErrNotSubmitting
	}
	s.state = StateInProgress
	return nil
}

// CheckFinish validates that a practice attempt may be finalized.
func (s *Session) CheckFinish() error {
	if s.mode != ModePractice {
		return ErrWrongMode
	}
	if s.state == StateEmpty {
		return ErrNoContent
	}
	if s.state != StateInProgress {
		return ErrNotInProgress
	}
	if s.index != len(s.questions)-1 {
		return ErrNotLastQuestion
	}
	if !s.answered(s.index) {
		return ErrUnanswered
	}
	return nil
}

// MarkFinished moves a practice attempt into review. Call after the
// result has been persisted.
func (s *Session) MarkFinished() error {
	if err := s.CheckFinish(); err != nil {
		return err
	}
	s.state = StateFinished
	return nil
}

// Restart clears every answer, lock and the cursor of a practice attempt.
func (s *Session) Restart() error {
	if s.mode != ModePractice {
		return ErrWrongMode
	}
	if s.state == StateEmpty {
		return ErrNoContent
	}
	if s.state != StateInProgress && s.state != StateFinished {
		return ErrNotInProgress
	}
	s.reset()
	return nil
}

// Score counts correct answers recorded so far.
func (s *Session) Score() int {
	return Score(s.questions, s.answers)
}

// Snapshot is a serializable view of a session.
type Snapshot struct {
	Mode      Mode                `json:"mode"`
	State     State               `json:"state"`
	Index     int                 `json:"index"`
	Total     int                 `json:"total"`
	Answered  int                 `json:"answered"`
	Answers   map[string]string   `json:"answers"`
	Feedback  map[string]Feedback `json:"feedback,omitempty"`
	CanSubmit bool                `json:"can_submit"`
	Expired   bool                `json:"expired"`
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	fb := make(map[string]Feedback, len(s.feedback))
	for k, v := range s.feedback {
		fb[k] = v
	}
	return Snapshot{
		Mode:      s.mode,
		State:     s.state,
		Index:     s.index,
		Total:     len(s.questions),
		Answered:  len(s.answers),
		Answers:   s.Answers(),
		Feedback:  fb,
		CanSubmit: s.CanSubmit(),
		Expired:   s.expired,
	}
}
