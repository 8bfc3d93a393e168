package websocket

import (
	"github.com/farisarabic/faris-backend/internal/engine"
	"github.com/farisarabic/faris-backend/internal/model"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSelect  Action = "select"
	ActionNext    Action = "next"
	ActionPrev    Action = "prev"
	ActionSubmit  Action = "submit"
	ActionFinish  Action = "finish"
	ActionRestart Action = "restart"
	ActionState   Action = "state"
	ActionPing    Action = "ping"
)

// Request is every client message. Option is only read by select.
type Request struct {
	Action Action `json:"action"`
	Option string `json:"option,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState     Event = "state"
	EventFeedback  Event = "feedback"
	EventTick      Event = "tick"
	EventCompleted Event = "completed"
	EventGraded    Event = "graded"
	EventFinished  Event = "finished"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

// StateResponse carries the engine snapshot plus the question under the
// cursor. Exam questions never include the correct answer.
type StateResponse struct {
	Event            Event                     `json:"event"`
	Session          engine.Snapshot           `json:"session"`
	Question         *model.QuestionForStudent `json:"question,omitempty"`
	RemainingSeconds *int                      `json:"remaining_seconds,omitempty"`
}

// FeedbackResponse answers a practice select.
type FeedbackResponse struct {
	Event         Event           `json:"event"`
	QuestionID    string          `json:"question_id"`
	Selected      string          `json:"selected"`
	Feedback      engine.Feedback `json:"feedback"`
	CorrectAnswer string          `json:"correct_answer"`
	Explanation   *string         `json:"explanation,omitempty"`
}

// TickResponse reports the exam countdown.
type TickResponse struct {
	Event            Event `json:"event"`
	RemainingSeconds int   `json:"remaining_seconds"`
}

// CompletedResponse is sent when the exam was already submitted, either
// before this connection or by another one.
type CompletedResponse struct {
	Event    Event   `json:"event"`
	ResultID *string `json:"result_id,omitempty"`
}

// GradedResponse confirms a stored exam result. The score is withheld
// until the admin publishes results.
type GradedResponse struct {
	Event       Event  `json:"event"`
	ResultID    string `json:"result_id"`
	Total       int    `json:"total_questions"`
	AutoSubmit  bool   `json:"auto_submit"`
	SubmittedAt string `json:"submitted_at"`
}

// FinishedResponse closes a practice attempt with its score.
type FinishedResponse struct {
	Event      Event  `json:"event"`
	ResultID   string `json:"result_id"`
	Score      int    `json:"score"`
	Total      int    `json:"total_questions"`
	Percentage int    `json:"percentage"`
	Passed     bool   `json:"passed"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
