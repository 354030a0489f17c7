package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	Rating         QuestionType = "rating"
	ShortText      QuestionType = "short_text"
)

// QuestionTypes lists every supported type in rotation order. The fallback
// generator and the type validator both iterate this slice.
var QuestionTypes = []QuestionType{SingleChoice, MultipleChoice, Rating, ShortText}

func (t QuestionType) Valid() bool {
	for _, known := range QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// HasOptions reports whether questions of this type carry an options list.
func (t QuestionType) HasOptions() bool {
	return t == SingleChoice || t == MultipleChoice || t == Rating
}

// DefaultOptions returns the option set a freshly created or retyped question
// of the given type must carry: ratings get a fixed 1-5 scale, choice types
// get an editable placeholder pair, short text carries none.
func DefaultOptions(t QuestionType) []string {
	switch t {
	case Rating:
		return []string{"1", "2", "3", "4", "5"}
	case SingleChoice, MultipleChoice:
		return []string{"Option 1", "Option 2"}
	default:
		return nil
	}
}

type Question struct {
	ID       string       `json:"id"`
	Type     QuestionType `json:"type"`
	Text     string       `json:"text"`
	Required bool         `json:"required"`
	Options  []string     `json:"options,omitempty"`
}

type Questionnaire struct {
	Title     string     `json:"title"`
	Intro     string     `json:"intro"`
	Questions []Question `json:"questions"`
}

// GenerationRequest carries the user's survey brief. QuestionCount has a
// recommended set of values (5, 8, 10, 12, 15) but any positive count is
// accepted.
type GenerationRequest struct {
	Goal          string `json:"goal"`
	Audience      string `json:"audience"`
	Tone          string `json:"tone"`
	Language      string `json:"language"`
	QuestionCount int    `json:"question_count" validate:"required,min=1"`
}

// RecentEntry is an immutable snapshot recorded each time a generated
// questionnaire is adopted as the current draft. Never mutated after creation.
type RecentEntry struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	CreatedAt     time.Time     `json:"created_at"`
	Questionnaire Questionnaire `json:"questionnaire"`
}

// Answer is a respondent's input for one question: Text for single_choice,
// rating and short_text, Selections for multiple_choice.
type Answer struct {
	Text       string   `json:"text,omitempty"`
	Selections []string `json:"selections,omitempty"`
}

// AnswerSet maps question id to the respondent's answer. Ephemeral; never
// persisted beyond the current session.
type AnswerSet map[string]Answer

func NewQuestionID() string {
	return uuid.NewString()[:8]
}

// Clone returns a deep copy. Editor transforms operate on clones so that
// every edit yields a fresh snapshot and adopted drafts are never aliased.
func (q *Questionnaire) Clone() *Questionnaire {
	out := &Questionnaire{
		Title:     q.Title,
		Intro:     q.Intro,
		Questions: make([]Question, len(q.Questions)),
	}
	for i, question := range q.Questions {
		out.Questions[i] = question
		if question.Options != nil {
			out.Questions[i].Options = append([]string(nil), question.Options...)
		}
	}
	return out
}

// QuestionByID returns the index of the question with the given id, or -1.
func (q *Questionnaire) QuestionByID(id string) int {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return i
		}
	}
	return -1
}

// Normalize coerces a questionnaire decoded from an untrusted source
// (generator output, persisted storage) into invariant-true form:
// unknown types become short_text, missing or duplicate ids are replaced,
// and each question's options are re-derived from its type.
func (q *Questionnaire) Normalize() {
	seen := make(map[string]bool, len(q.Questions))
	for i := range q.Questions {
		question := &q.Questions[i]
		if !question.Type.Valid() {
			question.Type = ShortText
			question.Options = nil
		}
		if question.ID == "" || seen[question.ID] {
			question.ID = NewQuestionID()
		}
		seen[question.ID] = true

		if !question.Type.HasOptions() {
			question.Options = nil
		} else if len(question.Options) == 0 {
			question.Options = DefaultOptions(question.Type)
		}
	}
}

// Validate reports the first structural invariant violation, if any.
// Normalized questionnaires always pass.
func (q *Questionnaire) Validate() error {
	seen := make(map[string]bool, len(q.Questions))
	for i := range q.Questions {
		question := &q.Questions[i]
		if question.ID == "" {
			return fmt.Errorf("question %d: empty id", i)
		}
		if seen[question.ID] {
			return fmt.Errorf("question %d: duplicate id %q", i, question.ID)
		}
		seen[question.ID] = true
		if !question.Type.Valid() {
			return fmt.Errorf("question %q: unknown type %q", question.ID, question.Type)
		}
		if question.Type.HasOptions() && len(question.Options) == 0 {
			return fmt.Errorf("question %q: type %s requires options", question.ID, question.Type)
		}
		if !question.Type.HasOptions() && len(question.Options) > 0 {
			return fmt.Errorf("question %q: type %s must not carry options", question.ID, question.Type)
		}
	}
	return nil
}

// DecodeQuestionnaire parses and normalizes a questionnaire from untrusted
// JSON. Callers at the storage boundary treat an error as absence of the
// record; the generator contract treats it as a malformed upstream response.
func DecodeQuestionnaire(data []byte) (*Questionnaire, error) {
	var q Questionnaire
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("decode questionnaire: %w", err)
	}
	if q.Questions == nil {
		return nil, fmt.Errorf("decode questionnaire: missing questions")
	}
	q.Normalize()
	return &q, nil
}
