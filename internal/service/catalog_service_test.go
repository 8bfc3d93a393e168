package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farisarabic/faris-backend/internal/model"
)

func TestListExamsFiltersByGradeAndDerivesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := student("sec_1")

	available := mcqExam("sec_1", false)
	pending := mcqExam("sec_1", false)
	completed := mcqExam("sec_1", true)
	other := mcqExam("sec_2", false)
	for _, e := range []*model.Exam{available, other} {
		f.exams.byID[e.ID] = e
	}
	submitted(t, f, s, pending, 1, 1)
	submitted(t, f, s, completed, 1, 1)

	items, err := f.catalog.ListExams(ctx, s)
	require.NoError(t, err)
	require.Len(t, items, 3)

	got := map[uuid.UUID]ExamStatus{}
	for _, it := range items {
		assert.Equal(t, "sec_1", it.Grade)
		got[it.ID] = it.Status
	}
	assert.Equal(t, ExamStatusAvailable, got[available.ID])
	assert.Equal(t, ExamStatusPending, got[pending.ID])
	assert.Equal(t, ExamStatusCompleted, got[completed.ID])
}

func TestFileExamStatusFollowsGrade(t *testing.T) {
	row := model.StudentResultRow{Result: model.Result{Type: model.ExamTypeFile}, ExamExists: true}
	assert.Equal(t, ExamStatusPending, statusOf(row))

	g := "جيد"
	row.Grade = &g
	assert.Equal(t, ExamStatusCompleted, statusOf(row))
}

func TestListExamsFailsClosed(t *testing.T) {
	f := newFixture(t)
	f.exams.byID[uuid.New()] = mcqExam("sec_1", false)
	f.exams.err = errors.New("connection reset")

	items, err := f.catalog.ListExams(context.Background(), student("sec_1"))
	assert.Error(t, err)
	assert.Nil(t, items)
}

type stubExplanations struct {
	items []model.Explanation
}

func (s *stubExplanations) List(_ context.Context, grade string) ([]model.Explanation, error) {
	var out []model.Explanation
	for _, e := range s.items {
		if grade == "" || e.Grade == grade {
			out = append(out, e)
		}
	}
	return out, nil
}
func (s *stubExplanations) Create(context.Context, *model.Explanation) error { return nil }
func (s *stubExplanations) Delete(context.Context, uuid.UUID) error          { return nil }

func TestListExplanationsAddsEmbedID(t *testing.T) {
	ex := &stubExplanations{items: []model.Explanation{
		{ID: uuid.New(), Grade: "prep_3", VideoURL: "https://youtu.be/dQw4w9WgXcQ"},
		{ID: uuid.New(), Grade: "prep_2", VideoURL: "https://www.youtube.com/watch?v=aaaaaaaaaaa"},
	}}
	c := NewCatalogService(nil, nil, nil, ex, nil, nopLog)

	items, err := c.ListExplanations(context.Background(), "prep_3")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "dQw4w9WgXcQ", items[0].EmbedID)
}
