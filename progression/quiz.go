package progression

import (
	"math"
	"strings"

	"learnhub/models/course"
)

// PassThreshold is the minimum percentage that passes a quiz.
const PassThreshold = 70.0

// QuestionResult is the outcome for one question.
type QuestionResult struct {
	QuestionID    uint    `json:"question_id"`
	Selected      string  `json:"selected"`
	CorrectAnswer *string `json:"correct_answer"` // nil when the answer key could not be resolved
	IsCorrect     bool    `json:"is_correct"`
}

// GradeResult is the outcome of grading one attempt.
type GradeResult struct {
	RawScore   int              `json:"raw_score"`
	Total      int              `json:"total"`
	Percentage float64          `json:"percentage"`
	Passed     bool             `json:"passed"`
	Results    []QuestionResult `json:"results"`
}

// ResolveCorrectAnswer derives the correct answer of q. Rules are tried in
// order and the first one that yields an answer wins: explicit answer string,
// 0-based index, 1-based option number, per-option flag.
//
// TODO: drop the index and option-number encodings once the backend serves
// correct_answer for every question.
func ResolveCorrectAnswer(q course.Question) (string, bool) {
	if q.CorrectAnswer != nil {
		if a := strings.TrimSpace(*q.CorrectAnswer); a != "" {
			return a, true
		}
	}
	if q.CorrectIndex != nil {
		if a, ok := optionText(q.Options, *q.CorrectIndex); ok {
			return a, true
		}
	}
	if q.CorrectOption != nil {
		if a, ok := optionText(q.Options, *q.CorrectOption-1); ok {
			return a, true
		}
	}
	for i, opt := range q.Options {
		if opt.IsCorrect {
			if a, ok := optionText(q.Options, i); ok {
				return a, true
			}
		}
	}
	return "", false
}

// optionText returns the trimmed text of options[i]; blank options never resolve.
func optionText(options []course.QuizOption, i int) (string, bool) {
	if i < 0 || i >= len(options) {
		return "", false
	}
	a := strings.TrimSpace(options[i].Text)
	return a, a != ""
}

// Grade scores answers (question id -> selected option text) against quiz.
// It has no side effects.
func Grade(quiz course.Quiz, answers map[uint]string) GradeResult {
	res := GradeResult{
		Total:   len(quiz.Questions),
		Results: make([]QuestionResult, 0, len(quiz.Questions)),
	}

	for _, q := range quiz.Questions {
		qr := QuestionResult{QuestionID: q.ID, Selected: answers[q.ID]}
		if correct, ok := ResolveCorrectAnswer(q); ok {
			c := correct
			qr.CorrectAnswer = &c
			qr.IsCorrect = strings.TrimSpace(qr.Selected) == correct
		}
		if qr.IsCorrect {
			res.RawScore++
		}
		res.Results = append(res.Results, qr)
	}

	res.Percentage = Percentage(res.RawScore, res.Total)
	res.Passed = res.Percentage >= PassThreshold
	return res
}

// Percentage is raw/total*100 rounded to one decimal, 0 for an empty quiz.
func Percentage(raw, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(raw)/float64(total)*1000) / 10
}
