package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key holding the active JWT ID of a user.
func (r *CacheKeyStruct) UserSessionKey(userID string) string {
	return fmt.Sprintf("login:%s", userID)
}

// PasswordResetKey returns the cache key mapping a reset token to its user.
func (r *CacheKeyStruct) PasswordResetKey(token string) string {
	return fmt.Sprintf("password_reset:%s", token)
}

// ExamQuestionsKey returns the cache key for an exam's ordered question set.
func (r *CacheKeyStruct) ExamQuestionsKey(examID string) string {
	return fmt.Sprintf("exam:%s:questions", examID)
}

// PracticeQuestionsKey returns the cache key for a practice set's questions.
func (r *CacheKeyStruct) PracticeQuestionsKey(practiceID string) string {
	return fmt.Sprintf("practice:%s:questions", practiceID)
}

// ExamStartKey returns the key holding when a student first opened a timed
// exam, in Unix milliseconds.
func (r *CacheKeyStruct) ExamStartKey(examID, studentID string) string {
	return fmt.Sprintf("exam:%s:start:%s", examID, studentID)
}

// RateLimitKey returns the counter key of one client in one rate-limit window.
func (r *CacheKeyStruct) RateLimitKey(scope, clientIP string, window int64) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", scope, clientIP, window)
}

var CacheKey = NewCacheKeyStruct()
