package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var opts = []string{"أ", "ب", "ج", "د"}

func sampleQuestions() []Question {
	return []Question{
		{ID: "q1", Options: opts, CorrectAnswer: "أ"},
		{ID: "q2", Options: opts, CorrectAnswer: "ب"},
		{ID: "q3", Options: opts, CorrectAnswer: "ج"},
		{ID: "q4", Options: opts, CorrectAnswer: "د"},
	}
}

func loaded(mode Mode, qs []Question) *Session {
	s := New(mode)
	s.Load(qs)
	return s
}

func TestScore(t *testing.T) {
	qs := sampleQuestions()

	assert.Equal(t, 0, Score(qs, nil))
	assert.Equal(t, 0, Score(qs, map[string]string{}))
	assert.Equal(t, 2, Score(qs, map[string]string{"q1": "أ", "q2": "ب"}))
	assert.Equal(t, 1, Score(qs, map[string]string{"q1": "أ", "q2": "د", "ghost": "أ"}))
	assert.Equal(t, 4, Score(qs, map[string]string{"q1": "أ", "q2": "ب", "q3": "ج", "q4": "د"}))
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total, want int
	}{
		{0, 0, 0},
		{3, 4, 75},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{5, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.score, tt.total), "Percentage(%d, %d)", tt.score, tt.total)
	}
}

func TestPassed(t *testing.T) {
	assert.True(t, Passed(50))
	assert.False(t, Passed(49))
	assert.True(t, Passed(100))
}

func TestLoadEmpty(t *testing.T) {
	s := New(ModeExam)
	assert.Equal(t, StateLoading, s.State())

	s.Load(nil)
	assert.Equal(t, StateEmpty, s.State())

	_, err := s.Select("أ")
	assert.ErrorIs(t, err, ErrNoContent)
	assert.ErrorIs(t, s.Next(), ErrNoContent)
	assert.ErrorIs(t, s.BeginSubmit(true), ErrNoContent)
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestExamNavigationBoundaries(t *testing.T) {
	s := loaded(ModeExam, sampleQuestions())

	require.NoError(t, s.Previous())
	assert.Equal(t, 0, s.Index())

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Next())
	}
	assert.Equal(t, 3, s.Index())
}

func TestExamAnswersSurviveNavigationAndCanChange(t *testing.T) {
	s := loaded(ModeExam, sampleQuestions())

	_, err := s.Select("ب")
	require.NoError(t, err)
	require.NoError(t, s.Next())
	require.NoError(t, s.Previous())
	assert.Equal(t, "ب", s.Answers()["q1"])

	_, err = s.Select("أ")
	require.NoError(t, err)
	assert.Equal(t, "أ", s.Answers()["q1"])

	_, err = s.Select("هـ")
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestExamSubmitGuard(t *testing.T) {
	s := loaded(ModeExam, sampleQuestions())

	assert.ErrorIs(t, s.BeginSubmit(false), ErrIncomplete)

	for i := 0; i < s.Len(); i++ {
		_, err := s.Select(opts[i])
		require.NoError(t, err)
		require.NoError(t, s.Next())
	}
	assert.True(t, s.CanSubmit())

	require.NoError(t, s.BeginSubmit(false))
	assert.Equal(t, StateSubmitting, s.State())
	assert.ErrorIs(t, s.BeginSubmit(true), ErrSubmitInFlight)

	_, err := s.Select("أ")
	assert.ErrorIs(t, err, ErrNotInProgress)

	require.NoError(t, s.FailSubmit())
	assert.Equal(t, StateInProgress, s.State())

	require.NoError(t, s.BeginSubmit(false))
	require.NoError(t, s.CompleteSubmit())
	assert.Equal(t, StateSubmitted, s.State())
	assert.Equal(t, 4, s.Score())
	assert.ErrorIs(t, s.BeginSubmit(true), ErrNotInProgress)
}

func TestExamForcedSubmitWithPartialAnswers(t *testing.T) {
	s := loaded(ModeExam, sampleQuestions())
	_, err := s.Select("أ")
	require.NoError(t, err)

	require.NoError(t, s.BeginSubmit(true))
	require.NoError(t, s.CompleteSubmit())
	assert.Equal(t, 1, s.Score())
}

func TestExpiredExamFreezesAnswersAcrossFailedSubmit(t *testing.T) {
	s := loaded(ModeExam, sampleQuestions())
	_, err := s.Select("أ")
	require.NoError(t, err)

	s.Expire()
	assert.True(t, s.Expired())
	assert.True(t, s.CanSubmit())

	_, err = s.Select("ب")
	assert.ErrorIs(t, err, ErrTimeExpired)
	assert.ErrorIs(t, s.Next(), ErrTimeExpired)
	assert.ErrorIs(t, s.Previous(), ErrTimeExpired)

	// A manual submit after the deadline goes through without every answer.
	require.NoError(t, s.BeginSubmit(false))
	require.NoError(t, s.FailSubmit())
	assert.Equal(t, StateInProgress, s.State())
	assert.True(t, s.Snapshot().Expired)

	_, err = s.Select("ب")
	assert.ErrorIs(t, err, ErrTimeExpired)
	assert.Equal(t, map[string]string{"q1": "أ"}, s.Answers())

	require.NoError(t, s.BeginSubmit(false))
	require.NoError(t, s.CompleteSubmit())
	assert.Equal(t, 1, s.Score())
}

func TestExpiryDuringSubmitSurvivesFailure(t *testing.T) {
	s := loaded(ModeExam, sampleQuestions())
	for i := 0; i < s.Len(); i++ {
		_, err := s.Select(opts[0])
		require.NoError(t, err)
		require.NoError(t, s.Next())
	}
	require.NoError(t, s.BeginSubmit(false))

	s.Expire()
	assert.ErrorIs(t, s.BeginSubmit(true), ErrSubmitInFlight)

	require.NoError(t, s.FailSubmit())
	assert.ErrorIs(t, s.Previous(), ErrTimeExpired)
	require.NoError(t, s.BeginSubmit(true))
}

func TestExpireIgnoredInPractice(t *testing.T) {
	s := loaded(ModePractice, sampleQuestions())
	s.Expire()
	assert.False(t, s.Expired())
	_, err := s.Select("أ")
	assert.NoError(t, err)
}

func TestPracticeFeedbackAndLock(t *testing.T) {
	s := loaded(ModePractice, sampleQuestions())

	assert.ErrorIs(t, s.Next(), ErrUnanswered)

	fb, err := s.Select("ب")
	require.NoError(t, err)
	assert.Equal(t, FeedbackIncorrect, fb)

	_, err = s.Select("أ")
	assert.ErrorIs(t, err, ErrLocked)
	assert.Equal(t, "ب", s.Answers()["q1"])

	require.NoError(t, s.Next())
	fb, err = s.Select("ب")
	require.NoError(t, err)
	assert.Equal(t, FeedbackCorrect, fb)
}

func TestPracticeFinishAndRestart(t *testing.T) {
	s := loaded(ModePractice, sampleQuestions())

	_, err := s.Select("أ")
	require.NoError(t, err)
	assert.ErrorIs(t, s.CheckFinish(), ErrNotLastQuestion)

	for i := 1; i < s.Len(); i++ {
		require.NoError(t, s.Next())
		_, err := s.Select(opts[i])
		require.NoError(t, err)
	}
	require.NoError(t, s.MarkFinished())
	assert.Equal(t, StateFinished, s.State())
	assert.Equal(t, 4, s.Score())

	// review navigation keeps the locked choices
	require.NoError(t, s.Previous())
	_, err = s.Select("د")
	assert.ErrorIs(t, err, ErrNotInProgress)

	require.NoError(t, s.Restart())
	fresh := loaded(ModePractice, sampleQuestions())
	assert.Equal(t, fresh.Snapshot(), s.Snapshot())
	assert.Empty(t, s.Answers())
	assert.Equal(t, 0, s.Index())

	fb, err := s.Select("ب")
	require.NoError(t, err)
	assert.Equal(t, FeedbackIncorrect, fb)
}

func TestModeRestrictions(t *testing.T) {
	exam := loaded(ModeExam, sampleQuestions())
	assert.ErrorIs(t, exam.Restart(), ErrWrongMode)
	assert.ErrorIs(t, exam.CheckFinish(), ErrWrongMode)

	practice := loaded(ModePractice, sampleQuestions())
	assert.ErrorIs(t, practice.BeginSubmit(true), ErrWrongMode)
	assert.False(t, practice.CanSubmit())
}

// fakeClock fires timers only when advanced.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.at.After(c.now) {
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.f()
	}
}

// fireAll invokes every armed callback regardless of time, twice, to
// simulate a timer racing a duplicate delivery.
func (c *fakeClock) fireAll() {
	for _, t := range c.timers {
		t.f()
		t.f()
	}
}

func TestCountdownFiresExactlyOnce(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	fired := 0
	c := StartCountdown(clock, ExamDuration(1), func() { fired++ })

	clock.Advance(59 * time.Second)
	assert.Equal(t, 0, fired)
	assert.Equal(t, time.Second, c.Remaining())

	clock.Advance(time.Second)
	assert.Equal(t, 1, fired)
	assert.Equal(t, time.Duration(0), c.Remaining())

	clock.fireAll()
	clock.Advance(time.Hour)
	assert.Equal(t, 1, fired)
}

func TestCountdownStopPreventsFire(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	fired := 0
	c := StartCountdown(clock, time.Minute, func() { fired++ })

	c.Stop()
	clock.fireAll()
	assert.Equal(t, 0, fired)
	c.Stop()
}

func TestCountdownStopInsideCallback(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	fired := 0
	var c *Countdown
	c = StartCountdown(clock, time.Minute, func() {
		fired++
		c.Stop()
	})

	clock.Advance(time.Minute)
	clock.fireAll()
	assert.Equal(t, 1, fired)
}

func TestCountdownAutoSubmitUsesCurrentAnswers(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := loaded(ModeExam, sampleQuestions())

	var submitted []int
	StartCountdown(clock, ExamDuration(1), func() {
		if err := s.BeginSubmit(true); err != nil {
			return
		}
		submitted = append(submitted, s.Score())
		_ = s.CompleteSubmit()
	})

	_, err := s.Select("أ")
	require.NoError(t, err)
	require.NoError(t, s.Next())
	_, err = s.Select("ب")
	require.NoError(t, err)

	clock.Advance(ExamDuration(1))
	clock.fireAll()
	assert.Equal(t, []int{2}, submitted)
	assert.Equal(t, StateSubmitted, s.State())
}

func TestSystemClockCountdown(t *testing.T) {
	done := make(chan struct{})
	c := StartCountdown(SystemClock, 10*time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown never fired")
	}
	c.Stop()
}
