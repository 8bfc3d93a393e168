package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farisarabic/faris-backend/internal/middleware"
	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/response"
	"github.com/farisarabic/faris-backend/internal/service"
	"github.com/farisarabic/faris-backend/internal/storage"
	"github.com/farisarabic/faris-backend/internal/validator"
)

var nopLog = zerolog.Nop()

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	os.Exit(m.Run())
}

// testEnv wires the attempt stack over in-memory stores.
type testEnv struct {
	exams           *memExams
	practices       *memPractices
	questions       *memQuestions
	results         *memResults
	practiceResults *memPracticeResults

	attempts *service.AttemptService
	student  *model.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := &testEnv{
		exams:           &memExams{byID: map[uuid.UUID]*model.Exam{}},
		practices:       &memPractices{byID: map[uuid.UUID]*model.Practice{}},
		questions:       &memQuestions{},
		results:         &memResults{},
		practiceResults: &memPracticeResults{},
		student: &model.User{
			ID:     uuid.New(),
			Email:  "student@example.com",
			Grade:  "sec_1",
			Role:   model.RoleStudent,
			Status: model.UserStatusActive,
		},
	}

	questionSvc := service.NewQuestionService(env.questions, env.exams, env.practices, rdb, time.Minute, nopLog)
	catalog := service.NewCatalogService(env.exams, env.practices, nil, nil, env.results, nopLog)
	env.attempts = service.NewAttemptService(catalog, questionSvc, env.results, env.practiceResults, nil, rdb, 1<<20, nopLog)
	return env
}

// addExam stores a timed multiple-choice exam with n questions whose
// correct answer is always the first option.
func (e *testEnv) addExam(grade string, n int) (*model.Exam, []model.Question) {
	d := 30
	exam := &model.Exam{
		ID:        uuid.New(),
		Title:     "اختبار النحو",
		Grade:     grade,
		Type:      model.ExamTypeMCQ,
		Duration:  &d,
		Questions: n,
		CreatedAt: time.Now(),
	}
	e.exams.byID[exam.ID] = exam
	return exam, e.addQuestions(model.ParentExam, exam.ID, n)
}

func (e *testEnv) addPractice(grade string, n int) (*model.Practice, []model.Question) {
	p := &model.Practice{
		ID:        uuid.New(),
		Title:     "تدريب الإعراب",
		Grade:     grade,
		Type:      model.ExamTypeMCQ,
		CreatedAt: time.Now(),
	}
	e.practices.byID[p.ID] = p
	return p, e.addQuestions(model.ParentPractice, p.ID, n)
}

func (e *testEnv) addQuestions(parent model.QuestionParent, parentID uuid.UUID, n int) []model.Question {
	explanation := "الفاعل مرفوع دائمًا"
	out := make([]model.Question, 0, n)
	for i := 0; i < n; i++ {
		id := parentID
		q := model.Question{
			ID:            uuid.New(),
			Text:          fmt.Sprintf("السؤال رقم %d", i+1),
			Options:       []string{"مرفوع", "منصوب", "مجرور", "مجزوم"},
			CorrectAnswer: "مرفوع",
			Explanation:   &explanation,
			CreatedAt:     time.Now().Add(time.Duration(i) * time.Second),
		}
		if parent == model.ParentExam {
			q.ExamID = &id
		} else {
			q.PracticeID = &id
		}
		e.questions.items = append(e.questions.items, q)
		out = append(out, q)
	}
	return out
}

// asUser stands in for RequireRole by placing a loaded profile on the context.
func asUser(u *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUser, u)
		c.Next()
	}
}

func (e *testEnv) attemptRouter() *gin.Engine {
	h := NewAttemptHandler(e.attempts, nopLog)
	r := gin.New()
	g := r.Group("/api/v1/student", asUser(e.student))
	g.GET("/exams/:exam_id", h.StartExam)
	g.POST("/exams/:exam_id/submit", h.SubmitExam)
	g.GET("/practice/:practice_id", h.StartPractice)
	g.POST("/practice/:practice_id/submit", h.SubmitPractice)
	return r
}

type envelope struct {
	Data  json.RawMessage     `json:"data"`
	Error *response.ErrorBody `json:"error"`
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func answersFor(qs []model.Question, pick string) map[string]string {
	out := make(map[string]string, len(qs))
	for _, q := range qs {
		out[q.ID.String()] = pick
	}
	return out
}

func TestFailWithMapsSentinels(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   response.ErrCode
	}{
		{fmt.Errorf("submit: %w", service.ErrAlreadySubmitted), http.StatusConflict, response.ErrAlreadySubmitted},
		{service.ErrExamNotFound, http.StatusNotFound, response.ErrExamNotFound},
		{service.ErrIncompleteAnswers, http.StatusBadRequest, response.ErrIncompleteAnswers},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
		{storage.ErrFileTooLarge, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge},
		{fmt.Errorf("boom"), http.StatusInternalServerError, response.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			failWith(c, nopLog, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var env envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestListGrades(t *testing.T) {
	h := NewPublicHandler(nil, nopLog)
	r := gin.New()
	r.GET("/grades", h.ListGrades)

	w, env := doJSON(t, r, http.MethodGet, "/grades", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Grades []struct {
			Code  string `json:"code"`
			Label string `json:"label"`
		} `json:"grades"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Grades, 10)
	assert.Equal(t, "prep_1", data.Grades[0].Code)
	assert.Equal(t, "culture_ministry", data.Grades[9].Code)
}

func TestStartExamHidesCorrectAnswers(t *testing.T) {
	env := newTestEnv(t)
	exam, _ := env.addExam("sec_1", 2)
	r := env.attemptRouter()

	w, body := doJSON(t, r, http.MethodGet, "/api/v1/student/exams/"+exam.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view service.ExamView
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Equal(t, service.AttemptReady, view.Status)
	assert.Len(t, view.Questions, 2)
	assert.Equal(t, 30*60, view.DurationSeconds)
	assert.NotContains(t, string(body.Data), "correct_answer")
}

func TestStartExamOtherGradeIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	exam, _ := env.addExam("prep_2", 1)
	r := env.attemptRouter()

	w, body := doJSON(t, r, http.MethodGet, "/api/v1/student/exams/"+exam.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrExamNotFound, body.Error.Code)
}

func TestStartExamInvalidID(t *testing.T) {
	env := newTestEnv(t)
	r := env.attemptRouter()

	w, body := doJSON(t, r, http.MethodGet, "/api/v1/student/exams/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrInvalidID, body.Error.Code)
}

func TestSubmitExamOnce(t *testing.T) {
	env := newTestEnv(t)
	exam, qs := env.addExam("sec_1", 3)
	r := env.attemptRouter()
	path := "/api/v1/student/exams/" + exam.ID.String() + "/submit"

	// Submitting a timed exam that was never opened is refused.
	w, body := doJSON(t, r, http.MethodPost, path, model.SubmitAnswersRequest{Answers: answersFor(qs, "مرفوع")})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrExamNotStarted, body.Error.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/student/exams/"+exam.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Missing one answer.
	partial := answersFor(qs[:2], "مرفوع")
	w, body = doJSON(t, r, http.MethodPost, path, model.SubmitAnswersRequest{Answers: partial})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrIncompleteAnswers, body.Error.Code)
	assert.Zero(t, env.results.count())

	w, body = doJSON(t, r, http.MethodPost, path, model.SubmitAnswersRequest{Answers: answersFor(qs, "مرفوع")})
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.NotEmpty(t, created["result_id"])
	assert.EqualValues(t, 3, created["total_questions"])
	assert.NotContains(t, created, "score")

	w, body = doJSON(t, r, http.MethodPost, path, model.SubmitAnswersRequest{Answers: answersFor(qs, "منصوب")})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrAlreadySubmitted, body.Error.Code)
	assert.Equal(t, 1, env.results.count())

	w, body = doJSON(t, r, http.MethodGet, "/api/v1/student/exams/"+exam.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view service.ExamView
	require.NoError(t, json.Unmarshal(body.Data, &view))
	assert.Equal(t, service.AttemptCompleted, view.Status)
	assert.Empty(t, view.Questions)
}

func TestSubmitPracticeAllowsRetakes(t *testing.T) {
	env := newTestEnv(t)
	p, qs := env.addPractice("sec_1", 2)
	r := env.attemptRouter()
	path := "/api/v1/student/practice/" + p.ID.String() + "/submit"

	answers := answersFor(qs, "مرفوع")
	answers[qs[1].ID.String()] = "مجرور"

	for i := 0; i < 2; i++ {
		w, body := doJSON(t, r, http.MethodPost, path, model.SubmitAnswersRequest{Answers: answers})
		require.Equal(t, http.StatusCreated, w.Code)

		var data struct {
			Result service.PracticeResultView `json:"result"`
		}
		require.NoError(t, json.Unmarshal(body.Data, &data))
		assert.Equal(t, 1, data.Result.Score)
		assert.Equal(t, 50, data.Result.Percentage)
	}
	assert.Equal(t, 2, env.practiceResults.count())
}
