// Package submission checks a respondent's answers against a questionnaire's
// required questions.
package submission

import (
	"strings"

	"github.com/surveyforge/survey-service/internal/models"
)

// Validate returns the ids of every required question whose answer is
// missing or blank, in question order so callers can highlight all offenders
// at once. An empty result means the submission is accepted.
//
// Per type: short_text answers are trimmed before the emptiness check,
// multiple_choice requires at least one selection, single_choice and rating
// require a non-empty value. Non-required questions never violate.
func Validate(q *models.Questionnaire, answers models.AnswerSet) []string {
	var violations []string
	for _, question := range q.Questions {
		if !question.Required {
			continue
		}
		answer, ok := answers[question.ID]
		if !ok || !answered(question.Type, answer) {
			violations = append(violations, question.ID)
		}
	}
	return violations
}

func answered(t models.QuestionType, answer models.Answer) bool {
	switch t {
	case models.ShortText:
		return strings.TrimSpace(answer.Text) != ""
	case models.MultipleChoice:
		return len(answer.Selections) > 0
	default: // single_choice, rating
		return answer.Text != ""
	}
}
