package service

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/farisarabic/faris-backend/internal/config"
	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/repository"
	"github.com/farisarabic/faris-backend/internal/storage"
)

var nopLog = zerolog.Nop()

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func testConfig() *config.Config {
	return &config.Config{
		AppName:          "Faris",
		JWTSecret:        "test-secret",
		JWTExpiry:        time.Hour,
		BcryptCost:       4,
		PasswordResetTTL: 30 * time.Minute,
		PasswordResetURL: "http://localhost:3000/reset-password",
		MaxUploadBytes:   1 << 20,
		MaxImageBytes:    1 << 20,
		QuestionCacheTTL: time.Minute,
	}
}

// ─── users ──────────────────────────────────────────────────────────────────

type fakeUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*model.User
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[uuid.UUID]*model.User{}} }

func (f *fakeUsers) add(u *model.User) *model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	f.byID[u.ID] = &cp
	return u
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return repository.ErrEmailTaken
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id uuid.UUID, username, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Username, u.Phone = username, phone
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsers) UpdateStatus(_ context.Context, id uuid.UUID, status model.UserStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Status = status
	return nil
}

func (f *fakeUsers) ListStudentsPaginated(_ context.Context, status string, limit, offset int) ([]model.User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.byID {
		if u.Role == model.RoleStudent && (status == "" || string(u.Status) == status) {
			out = append(out, *u)
		}
	}
	total := len(out)
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

// ─── exams, practice, questions ─────────────────────────────────────────────

type fakeExams struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*model.Exam
	err   error
	calls int
}

func newFakeExams(exams ...*model.Exam) *fakeExams {
	f := &fakeExams{byID: map[uuid.UUID]*model.Exam{}}
	for _, e := range exams {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeExams) GetByID(_ context.Context, id uuid.UUID) (*model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (f *fakeExams) ListByGrade(_ context.Context, grade string) ([]model.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Exam
	for _, e := range f.byID {
		if e.Grade == grade {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeExams) ListPaginated(_ context.Context, grade string, limit, offset int) ([]model.Exam, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Exam
	for _, e := range f.byID {
		if grade == "" || e.Grade == grade {
			out = append(out, *e)
		}
	}
	return out, len(out), nil
}

func (f *fakeExams) Create(_ context.Context, e *model.Exam) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeExams) Update(_ context.Context, e *model.Exam) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[e.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeExams) PublishResults(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	e.ResultsPublished = true
	return nil
}

func (f *fakeExams) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

type fakePractices struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*model.Practice
}

func newFakePractices(ps ...*model.Practice) *fakePractices {
	f := &fakePractices{byID: map[uuid.UUID]*model.Practice{}}
	for _, p := range ps {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakePractices) GetByID(_ context.Context, id uuid.UUID) (*model.Practice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakePractices) ListByGrade(_ context.Context, grade string) ([]model.Practice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Practice
	for _, p := range f.byID {
		if p.Grade == grade {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePractices) ListAll(_ context.Context) ([]model.Practice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Practice
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePractices) Create(_ context.Context, p *model.Practice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.New()
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakePractices) Update(_ context.Context, p *model.Practice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakePractices) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

type fakeQuestions struct {
	mu        sync.Mutex
	items     []*model.Question
	listCalls int
}

func (f *fakeQuestions) ListByParent(_ context.Context, parent model.QuestionParent, parentID uuid.UUID) ([]model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	var out []model.Question
	for _, q := range f.items {
		var pid *uuid.UUID
		if parent == model.ParentExam {
			pid = q.ExamID
		} else {
			pid = q.PracticeID
		}
		if pid != nil && *pid == parentID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeQuestions) GetByID(_ context.Context, id uuid.UUID) (*model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.items {
		if q.ID == id {
			cp := *q
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeQuestions) Create(_ context.Context, q *model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	q.CreatedAt = time.Now()
	cp := *q
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeQuestions) Update(_ context.Context, q *model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.items {
		if existing.ID == q.ID {
			cp := *q
			f.items[i] = &cp
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeQuestions) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, q := range f.items {
		if q.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

// ─── results ────────────────────────────────────────────────────────────────

type fakeResults struct {
	mu    sync.Mutex
	items []*model.Result
	exams *fakeExams
	// hideFromLookup makes FindByStudentAndExam miss, so only the unique
	// constraint in Create catches a duplicate.
	hideFromLookup bool
}

func (f *fakeResults) Create(_ context.Context, res *model.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.items {
		if r.StudentID == res.StudentID && r.ExamID == res.ExamID {
			return repository.ErrDuplicateResult
		}
	}
	res.ID = uuid.New()
	res.SubmittedAt = time.Now()
	cp := *res
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeResults) GetByID(_ context.Context, id uuid.UUID) (*model.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.items {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeResults) FindByStudentAndExam(_ context.Context, studentID, examID uuid.UUID) (*model.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hideFromLookup {
		return nil, pgx.ErrNoRows
	}
	for _, r := range f.items {
		if r.StudentID == studentID && r.ExamID == examID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeResults) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.StudentResultRow, error) {
	f.mu.Lock()
	items := append([]*model.Result(nil), f.items...)
	f.mu.Unlock()

	var out []model.StudentResultRow
	for _, r := range items {
		if r.StudentID != studentID {
			continue
		}
		row := model.StudentResultRow{Result: *r}
		if f.exams != nil {
			if e, err := f.exams.GetByID(ctx, r.ExamID); err == nil {
				row.ExamExists = true
				row.ResultsPublished = e.ResultsPublished
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeResults) ListPaginated(_ context.Context, examID *uuid.UUID, limit, offset int) ([]model.Result, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Result
	for _, r := range f.items {
		if examID == nil || r.ExamID == *examID {
			out = append(out, *r)
		}
	}
	return out, len(out), nil
}

func (f *fakeResults) SetGrade(_ context.Context, id uuid.UUID, grade string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.items {
		if r.ID == id {
			g := grade
			r.Grade = &g
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakePracticeResults struct {
	mu    sync.Mutex
	items []model.PracticeResult
}

func (f *fakePracticeResults) Create(_ context.Context, pr *model.PracticeResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pr.ID = uuid.New()
	pr.SubmittedAt = time.Now()
	f.items = append(f.items, *pr)
	return nil
}

func (f *fakePracticeResults) ListByStudent(_ context.Context, studentID uuid.UUID) ([]model.PracticeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.PracticeResult
	for _, pr := range f.items {
		if pr.StudentID == studentID {
			out = append(out, pr)
		}
	}
	return out, nil
}

func (f *fakePracticeResults) ListPaginated(_ context.Context, limit, offset int) ([]model.PracticeResult, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.PracticeResult(nil), f.items...), len(f.items), nil
}

// ─── blobs ──────────────────────────────────────────────────────────────────

type memBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemBlobs() *memBlobs { return &memBlobs{objects: map[string][]byte{}} }

func (m *memBlobs) Put(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return "http://blobs.test/" + key, nil
}

func (m *memBlobs) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return storage.ErrNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *memBlobs) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// ─── fixtures ───────────────────────────────────────────────────────────────

func mcqExam(grade string, published bool) *model.Exam {
	d := 30
	return &model.Exam{
		ID:               uuid.New(),
		Title:            "اختبار النحو",
		Description:      "اختبار في أبواب النحو",
		Grade:            grade,
		Type:             model.ExamTypeMCQ,
		Duration:         &d,
		Questions:        3,
		ResultsPublished: published,
		CreatedAt:        time.Now(),
	}
}

func addQuestions(t *testing.T, qs *fakeQuestions, parent model.QuestionParent, parentID uuid.UUID, n int) []model.Question {
	t.Helper()
	out := make([]model.Question, 0, n)
	for i := 0; i < n; i++ {
		id := parentID
		q := &model.Question{
			ID:            uuid.New(),
			Text:          "ما إعراب الكلمة؟",
			Options:       []string{"أ", "ب", "ج", "د"},
			CorrectAnswer: "أ",
		}
		if parent == model.ParentExam {
			q.ExamID = &id
		} else {
			q.PracticeID = &id
		}
		require.NoError(t, qs.Create(context.Background(), q))
		out = append(out, *q)
	}
	return out
}

func student(grade string) *model.User {
	return &model.User{
		ID:     uuid.New(),
		Email:  "student@example.com",
		Grade:  grade,
		Role:   model.RoleStudent,
		Status: model.UserStatusActive,
	}
}
