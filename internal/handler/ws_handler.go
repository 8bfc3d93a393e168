package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/engine"
	"github.com/farisarabic/faris-backend/internal/middleware"
	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/response"
	"github.com/farisarabic/faris-backend/internal/service"
	ws "github.com/farisarabic/faris-backend/internal/websocket"
)

const submitTimeout = 15 * time.Second

// WSHandler drives exam and practice attempts over a WebSocket. The
// attempt lives exactly as long as the connection; closing it discards
// every unsubmitted answer.
type WSHandler struct {
	attemptService *service.AttemptService
	clock          engine.Clock
	tickInterval   time.Duration
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(attemptService *service.AttemptService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		attemptService: attemptService,
		clock:          engine.SystemClock,
		tickInterval:   time.Second,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       ws.NewUpgrader(allowedOrigins),
	}
}

// stream is one connected attempt. mu guards sess and autoPending;
// writeMu serializes frames because the countdown writes from its own
// goroutine.
type stream struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	mu        sync.Mutex
	sess      *engine.Session
	questions []model.Question
	countdown *engine.Countdown
	log       zerolog.Logger

	// autoPending is set when the deadline passed while a manual submit
	// was in flight. If that submit fails, the forced one runs instead.
	autoPending bool
}

// expireIfDue freezes the session once the deadline has passed, even if
// the countdown callback has not run yet. Caller holds s.mu.
func (s *stream) expireIfDue() {
	if s.countdown != nil && s.countdown.Remaining() <= 0 {
		s.sess.Expire()
	}
}

func (s *stream) write(v interface{}) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := ws.WriteTyped(s.conn, v); err != nil {
		s.log.Debug().Err(err).Msg("Write failed")
	}
}

func (s *stream) fail(err error) {
	code := wsErrorCode(err)
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if werr := ws.WriteError(s.conn, string(code), response.GetMessage(code)); werr != nil {
		s.log.Debug().Err(werr).Msg("Write failed")
	}
}

func remainingSeconds(c *engine.Countdown) int {
	return int(math.Ceil(c.Remaining().Seconds()))
}

// stateLocked builds the state frame. Caller holds s.mu.
func (s *stream) stateLocked() ws.StateResponse {
	st := ws.StateResponse{Event: ws.EventState, Session: s.sess.Snapshot()}
	if s.sess.Len() > 0 {
		q := s.questions[s.sess.Index()]
		st.Question = &model.QuestionForStudent{ID: q.ID, Text: q.Text, Options: q.Options}
	}
	if s.countdown != nil {
		left := remainingSeconds(s.countdown)
		st.RemainingSeconds = &left
	}
	return st
}

func (s *stream) sendState() {
	s.mu.Lock()
	st := s.stateLocked()
	s.mu.Unlock()
	s.write(st)
}

// step runs an engine operation and answers with the new state.
func (s *stream) step(op func() error) {
	s.mu.Lock()
	err := op()
	st := s.stateLocked()
	s.mu.Unlock()
	if err != nil {
		s.fail(err)
		return
	}
	s.write(st)
}

// wsErrorCode maps engine and service errors onto envelope codes.
func wsErrorCode(err error) response.ErrCode {
	switch {
	case errors.Is(err, service.ErrAlreadySubmitted):
		return response.ErrAlreadySubmitted
	case errors.Is(err, engine.ErrNoContent):
		return response.ErrNoContent
	case errors.Is(err, engine.ErrIncomplete):
		return response.ErrIncompleteAnswers
	case errors.Is(err, engine.ErrTimeExpired):
		return response.ErrTimeExpired
	case errors.Is(err, engine.ErrNotInProgress),
		errors.Is(err, engine.ErrWrongMode),
		errors.Is(err, engine.ErrInvalidOption),
		errors.Is(err, engine.ErrLocked),
		errors.Is(err, engine.ErrUnanswered),
		errors.Is(err, engine.ErrNotLastQuestion),
		errors.Is(err, engine.ErrSubmitInFlight),
		errors.Is(err, errUnknownAction):
		return response.ErrInvalidPayload
	default:
		return response.ErrInternal
	}
}

var errUnknownAction = errors.New("unknown action")

// readLoop decodes client frames until the connection closes.
func (s *stream) readLoop(handle func(ws.Request)) {
	for {
		var msg ws.Request
		if err := ws.ReadJSON(s.conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("Unexpected close")
			} else {
				s.log.Debug().Msg("Connection closed")
			}
			return
		}
		switch msg.Action {
		case ws.ActionPing:
			s.write(ws.PongResponse{Event: ws.EventPong})
		case ws.ActionState:
			s.sendState()
		case ws.ActionNext:
			s.step(func() error {
				s.expireIfDue()
				return s.sess.Next()
			})
		case ws.ActionPrev:
			s.step(func() error {
				s.expireIfDue()
				return s.sess.Previous()
			})
		default:
			handle(msg)
		}
	}
}

// ExamStream godoc
// WS /ws/v1/student/exams/:exam_id/stream
// Streams an exam attempt with a server-side countdown. Expiry submits
// the current answers once.
func (h *WSHandler) ExamStream(c *gin.Context) {
	examID, ok := paramID(c, "exam_id")
	if !ok {
		return
	}
	student := middleware.GetUser(c)

	att, err := h.attemptService.PrepareExam(c.Request.Context(), student, examID)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	if att.Completed == nil && att.Exam.Type != model.ExamTypeMCQ {
		response.Fail(c, http.StatusBadRequest, response.ErrWrongExamType)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	s := &stream{
		conn:      conn,
		sess:      engine.New(engine.ModeExam),
		questions: att.Questions,
		log: h.log.With().
			Str("student_id", student.ID.String()).
			Str("exam_id", examID.String()).
			Logger(),
	}

	if att.Completed != nil {
		id := att.Completed.ID.String()
		s.write(ws.CompletedResponse{Event: ws.EventCompleted, ResultID: &id})
		return
	}

	s.sess.Load(service.EngineQuestions(att.Questions))
	if s.sess.State() == engine.StateEmpty {
		s.sendState()
		return
	}

	var submit func(force bool)
	submit = func(force bool) {
		s.mu.Lock()
		s.expireIfDue()
		auto := force || s.sess.Expired()
		err := s.sess.BeginSubmit(force)
		answers := s.sess.Answers()
		if force && errors.Is(err, engine.ErrSubmitInFlight) {
			s.autoPending = true
		}
		s.mu.Unlock()
		if err != nil {
			if !force {
				s.fail(err)
			}
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		res, err := h.attemptService.SubmitExam(ctx, student, att.Exam, att.Questions, answers)

		s.mu.Lock()
		defer s.mu.Unlock()
		switch {
		case errors.Is(err, service.ErrAlreadySubmitted):
			// Another tab won. This attempt is over either way.
			_ = s.sess.CompleteSubmit()
			s.countdown.Stop()
			s.write(ws.CompletedResponse{Event: ws.EventCompleted})
		case err != nil:
			s.log.Error().Err(err).Bool("auto", auto).Msg("Submission failed")
			_ = s.sess.FailSubmit()
			s.fail(err)
			if s.autoPending {
				s.autoPending = false
				go submit(true)
			}
		default:
			_ = s.sess.CompleteSubmit()
			s.countdown.Stop()
			s.write(ws.GradedResponse{
				Event:       ws.EventGraded,
				ResultID:    res.ID.String(),
				Total:       res.TotalQuestions,
				AutoSubmit:  auto,
				SubmittedAt: res.SubmittedAt.UTC().Format(time.RFC3339),
			})
		}
	}

	// The countdown callback may run before StartCountdown returns, so the
	// assignment happens under the same lock submit takes.
	s.mu.Lock()
	duration := 0
	if att.Exam.Duration != nil {
		duration = *att.Exam.Duration
	}
	s.countdown = engine.StartCountdown(h.clock, engine.ExamDuration(duration), func() {
		s.log.Info().Msg("Time expired, submitting")
		go func() {
			s.mu.Lock()
			s.sess.Expire()
			s.mu.Unlock()
			submit(true)
		}()
	})
	s.mu.Unlock()
	defer s.countdown.Stop()

	done := make(chan struct{})
	defer close(done)
	go h.tick(s, done)

	s.log.Info().Int("questions", len(att.Questions)).Msg("Exam stream opened")
	s.sendState()

	s.readLoop(func(msg ws.Request) {
		switch msg.Action {
		case ws.ActionSelect:
			s.step(func() error {
				s.expireIfDue()
				_, err := s.sess.Select(msg.Option)
				return err
			})
		case ws.ActionSubmit:
			submit(false)
		default:
			s.fail(errUnknownAction)
		}
	})
}

// tick reports the remaining time until the attempt leaves in_progress.
func (h *WSHandler) tick(s *stream, done <-chan struct{}) {
	t := time.NewTicker(h.tickInterval)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			s.mu.Lock()
			active := s.sess.State() == engine.StateInProgress
			s.mu.Unlock()
			if !active {
				continue
			}
			s.write(ws.TickResponse{Event: ws.EventTick, RemainingSeconds: remainingSeconds(s.countdown)})
		}
	}
}

// PracticeStream godoc
// WS /ws/v1/student/practice/:practice_id/stream
// Streams a practice attempt with immediate per-question feedback.
func (h *WSHandler) PracticeStream(c *gin.Context) {
	practiceID, ok := paramID(c, "practice_id")
	if !ok {
		return
	}
	student := middleware.GetUser(c)

	practice, qs, err := h.attemptService.PreparePractice(c.Request.Context(), student, practiceID)
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	s := &stream{
		conn:      conn,
		sess:      engine.New(engine.ModePractice),
		questions: qs,
		log: h.log.With().
			Str("student_id", student.ID.String()).
			Str("practice_id", practiceID.String()).
			Logger(),
	}
	s.sess.Load(service.EngineQuestions(qs))
	s.sendState()
	if s.sess.State() == engine.StateEmpty {
		return
	}

	s.readLoop(func(msg ws.Request) {
		switch msg.Action {
		case ws.ActionSelect:
			s.mu.Lock()
			fb, err := s.sess.Select(msg.Option)
			q := s.questions[s.sess.Index()]
			s.mu.Unlock()
			if err != nil {
				s.fail(err)
				return
			}
			s.write(ws.FeedbackResponse{
				Event:         ws.EventFeedback,
				QuestionID:    q.ID.String(),
				Selected:      msg.Option,
				Feedback:      fb,
				CorrectAnswer: q.CorrectAnswer,
				Explanation:   q.Explanation,
			})
		case ws.ActionFinish:
			h.finishPractice(s, student, practice)
		case ws.ActionRestart:
			s.step(s.sess.Restart)
		default:
			s.fail(errUnknownAction)
		}
	})
}

// finishPractice stores the attempt and only then locks it for review, so
// a failed write leaves the attempt open for another try.
func (h *WSHandler) finishPractice(s *stream, student *model.User, practice *model.Practice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sess.CheckFinish(); err != nil {
		s.fail(err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()
	pr, err := h.attemptService.SubmitPractice(ctx, student, practice, s.questions, s.sess.Answers())
	if err != nil {
		s.log.Error().Err(err).Msg("Practice submission failed")
		s.fail(err)
		return
	}
	_ = s.sess.MarkFinished()

	view := service.PracticeResultOf(*pr)
	s.write(ws.FinishedResponse{
		Event:      ws.EventFinished,
		ResultID:   pr.ID.String(),
		Score:      pr.Score,
		Total:      pr.TotalQuestions,
		Percentage: view.Percentage,
		Passed:     view.Passed,
	})
}
