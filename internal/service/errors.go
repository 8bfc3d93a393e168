package service

import "errors"

// Domain errors shared across services. Handlers map them to response codes.
var (
	ErrNotFound          = errors.New("not found")
	ErrExamNotFound      = errors.New("exam not found")
	ErrAlreadySubmitted  = errors.New("exam already submitted")
	ErrExamNotEditable   = errors.New("file exams cannot be edited")
	ErrNoContent         = errors.New("no questions available")
	ErrIncompleteAnswers = errors.New("every question must be answered")
	ErrWrongExamType     = errors.New("operation not supported for this exam type")
	ErrResultNotGradable = errors.New("only file exam results take a manual grade")
	ErrFileRequired      = errors.New("file upload required")
	ErrEmptyGrade        = errors.New("grade must not be blank")
	ErrExamNotStarted    = errors.New("exam was never opened")
	ErrTimeExpired       = errors.New("exam time has expired")
)
