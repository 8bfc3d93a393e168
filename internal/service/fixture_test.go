package service

import (
	"testing"
)

type fixture struct {
	exams           *fakeExams
	practices       *fakePractices
	questions       *fakeQuestions
	results         *fakeResults
	practiceResults *fakePracticeResults
	blobs           *memBlobs

	questionSvc *QuestionService
	catalog     *CatalogService
	attempts    *AttemptService
	resultSvc   *ResultService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	_, rdb := newRedis(t)
	cfg := testConfig()

	f := &fixture{
		exams:           newFakeExams(),
		practices:       newFakePractices(),
		questions:       &fakeQuestions{},
		practiceResults: &fakePracticeResults{},
		blobs:           newMemBlobs(),
	}
	f.results = &fakeResults{exams: f.exams}

	f.questionSvc = NewQuestionService(f.questions, f.exams, f.practices, rdb, cfg.QuestionCacheTTL, nopLog)
	f.catalog = NewCatalogService(f.exams, f.practices, nil, nil, f.results, nopLog)
	f.attempts = NewAttemptService(f.catalog, f.questionSvc, f.results, f.practiceResults, f.blobs, rdb, cfg.MaxUploadBytes, nopLog)
	f.resultSvc = NewResultService(f.results, f.practiceResults, f.exams, f.questionSvc, nopLog)
	return f
}
