package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/response"
	"github.com/farisarabic/faris-backend/internal/service"
	"github.com/farisarabic/faris-backend/internal/storage"
)

// errorStatus pairs a sentinel with the HTTP status and code it surfaces as.
type errorStatus struct {
	err    error
	status int
	code   response.ErrCode
}

var errorTable = []errorStatus{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
	{service.ErrAccountPending, http.StatusForbidden, response.ErrAccountPending},
	{service.ErrAccountInactive, http.StatusForbidden, response.ErrAccountInactive},
	{service.ErrSessionInvalid, http.StatusUnauthorized, response.ErrSessionInvalidated},
	{service.ErrReauthFailed, http.StatusForbidden, response.ErrReauthFailed},
	{service.ErrInvalidResetToken, http.StatusBadRequest, response.ErrInvalidResetToken},
	{service.ErrEmailTaken, http.StatusConflict, response.ErrEmailTaken},

	{service.ErrExamNotFound, http.StatusNotFound, response.ErrExamNotFound},
	{service.ErrNotFound, http.StatusNotFound, response.ErrNotFound},
	{pgx.ErrNoRows, http.StatusNotFound, response.ErrNotFound},
	{service.ErrAlreadySubmitted, http.StatusConflict, response.ErrAlreadySubmitted},
	{service.ErrExamNotEditable, http.StatusBadRequest, response.ErrExamNotEditable},
	{service.ErrNoContent, http.StatusBadRequest, response.ErrNoContent},
	{service.ErrIncompleteAnswers, http.StatusBadRequest, response.ErrIncompleteAnswers},
	{service.ErrExamNotStarted, http.StatusBadRequest, response.ErrExamNotStarted},
	{service.ErrTimeExpired, http.StatusForbidden, response.ErrTimeExpired},
	{service.ErrWrongExamType, http.StatusBadRequest, response.ErrWrongExamType},
	{service.ErrResultNotGradable, http.StatusBadRequest, response.ErrResultNotGradable},
	{service.ErrEmptyGrade, http.StatusBadRequest, response.ErrValidation},

	{service.ErrFileRequired, http.StatusBadRequest, response.ErrFileRequired},
	{storage.ErrUnsupportedFileType, http.StatusBadRequest, response.ErrUnsupportedFile},
	{storage.ErrFileTooLarge, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge},
}

// failWith maps a service error onto the response envelope. Anything not in
// the table is logged and reported as INTERNAL_ERROR.
func failWith(c *gin.Context, log zerolog.Logger, err error) {
	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			response.Fail(c, e.status, e.code)
			return
		}
	}
	log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("Request failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// paramID parses a UUID path parameter, writing INVALID_ID when malformed.
func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func pageQuery(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "10"))
	return page, perPage
}

// upload opens the multipart file under field. ok is false when the field
// is missing; the caller decides whether that is an error.
func upload(c *gin.Context, field string) (*service.Upload, func(), bool) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		return nil, func() {}, false
	}
	return &service.Upload{Filename: header.Filename, Reader: file}, func() { file.Close() }, true
}
