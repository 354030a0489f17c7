// Package editor implements the structural edit operations on a draft
// questionnaire. Every operation is a pure transform: it deep-copies its
// input and returns a new snapshot, leaving the argument untouched, so the
// draft store always holds immutable snapshots.
package editor

import (
	"errors"

	"github.com/surveyforge/survey-service/internal/models"
)

type Position string

const (
	Above Position = "above"
	Below Position = "below"
)

var (
	ErrQuestionNotFound = errors.New("question not found in draft")
	ErrInvalidType      = errors.New("invalid question type")
	ErrInvalidPosition  = errors.New("position must be above or below")
)

// FieldPatch carries a partial update for a question. Nil fields are left
// unchanged.
type FieldPatch struct {
	Text     *string `json:"text"`
	Required *bool   `json:"required"`
}

// InsertQuestion adds a new question of templateType next to the question at
// index: at index itself for Above, at index+1 for Below. The new question
// gets a fresh id, default text, required=false and type-derived options.
// All other questions keep their relative order.
func InsertQuestion(q *models.Questionnaire, index int, position Position, templateType models.QuestionType) (*models.Questionnaire, error) {
	if !templateType.Valid() {
		return nil, ErrInvalidType
	}
	if position != Above && position != Below {
		return nil, ErrInvalidPosition
	}

	next := q.Clone()
	at := index
	if position == Below {
		at = index + 1
	}
	if at < 0 {
		at = 0
	}
	if at > len(next.Questions) {
		at = len(next.Questions)
	}

	question := models.Question{
		ID:      models.NewQuestionID(),
		Type:    templateType,
		Text:    "New question",
		Options: models.DefaultOptions(templateType),
	}

	next.Questions = append(next.Questions, models.Question{})
	copy(next.Questions[at+1:], next.Questions[at:])
	next.Questions[at] = question
	return next, nil
}

// ChangeType retypes the identified question and re-derives its options:
// types without options drop them, types with options keep previously
// entered ones when present and fall back to the type's defaults otherwise.
func ChangeType(q *models.Questionnaire, id string, newType models.QuestionType) (*models.Questionnaire, error) {
	if !newType.Valid() {
		return nil, ErrInvalidType
	}

	next := q.Clone()
	i := next.QuestionByID(id)
	if i < 0 {
		return nil, ErrQuestionNotFound
	}

	question := &next.Questions[i]
	question.Type = newType
	if !newType.HasOptions() {
		question.Options = nil
	} else if len(question.Options) == 0 {
		question.Options = models.DefaultOptions(newType)
	}
	return next, nil
}

// UpdateField applies a partial update to the identified question.
func UpdateField(q *models.Questionnaire, id string, patch FieldPatch) (*models.Questionnaire, error) {
	next := q.Clone()
	i := next.QuestionByID(id)
	if i < 0 {
		return nil, ErrQuestionNotFound
	}

	if patch.Text != nil {
		next.Questions[i].Text = *patch.Text
	}
	if patch.Required != nil {
		next.Questions[i].Required = *patch.Required
	}
	return next, nil
}

// UpdateOption replaces one option string of the identified question. An
// out-of-bounds index leaves the draft unchanged.
func UpdateOption(q *models.Questionnaire, id string, index int, value string) (*models.Questionnaire, error) {
	next := q.Clone()
	i := next.QuestionByID(id)
	if i < 0 {
		return nil, ErrQuestionNotFound
	}

	if index >= 0 && index < len(next.Questions[i].Options) {
		next.Questions[i].Options[index] = value
	}
	return next, nil
}

// UpdateTitle replaces the questionnaire title.
func UpdateTitle(q *models.Questionnaire, title string) *models.Questionnaire {
	next := q.Clone()
	next.Title = title
	return next
}

// UpdateIntro replaces the questionnaire intro.
func UpdateIntro(q *models.Questionnaire, intro string) *models.Questionnaire {
	next := q.Clone()
	next.Intro = intro
	return next
}
