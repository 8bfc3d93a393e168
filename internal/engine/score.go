package engine

import "math"

// PassThreshold is the minimum percentage counted as a pass.
const PassThreshold = 50

// Score counts the questions whose recorded answer equals the correct
// answer. Unanswered questions never count.
func Score(questions []Question, answers map[string]string) int {
	score := 0
	for _, q := range questions {
		if a, ok := answers[q.ID]; ok && a == q.CorrectAnswer {
			score++
		}
	}
	return score
}

// Percentage returns round(score/total*100), or 0 when total is zero.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// Passed reports whether a percentage meets the pass threshold.
func Passed(percentage int) bool {
	return percentage >= PassThreshold
}
