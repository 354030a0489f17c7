package editor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surveyforge/survey-service/internal/models"
)

func fiveQuestionDraft() *models.Questionnaire {
	q := &models.Questionnaire{Title: "T", Intro: "I"}
	for i := 1; i <= 5; i++ {
		q.Questions = append(q.Questions, models.Question{
			ID:   fmt.Sprintf("q%d", i),
			Type: models.ShortText,
			Text: fmt.Sprintf("question %d", i),
		})
	}
	return q
}

func questionIDs(q *models.Questionnaire) []string {
	ids := make([]string, len(q.Questions))
	for i, question := range q.Questions {
		ids[i] = question.ID
	}
	return ids
}

func TestInsertQuestion_AboveAtIndex(t *testing.T) {
	orig := fiveQuestionDraft()
	next, err := InsertQuestion(orig, 2, Above, models.Rating)
	require.NoError(t, err)

	require.Len(t, next.Questions, 6)
	inserted := next.Questions[2]
	assert.Equal(t, models.Rating, inserted.Type)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, inserted.Options)
	assert.False(t, inserted.Required)
	assert.NotEmpty(t, inserted.ID)

	assert.Equal(t, []string{"q1", "q2"}, questionIDs(next)[:2])
	assert.Equal(t, []string{"q3", "q4", "q5"}, questionIDs(next)[3:])
	require.NoError(t, next.Validate())

	// Input untouched.
	assert.Len(t, orig.Questions, 5)
}

func TestInsertQuestion_BelowAtIndex(t *testing.T) {
	next, err := InsertQuestion(fiveQuestionDraft(), 2, Below, models.SingleChoice)
	require.NoError(t, err)

	require.Len(t, next.Questions, 6)
	assert.Equal(t, models.SingleChoice, next.Questions[3].Type)
	assert.NotEmpty(t, next.Questions[3].Options)
	assert.Equal(t, "q3", next.Questions[2].ID)
	assert.Equal(t, "q4", next.Questions[4].ID)
}

func TestInsertQuestion_ClampsOutOfRangeIndex(t *testing.T) {
	next, err := InsertQuestion(fiveQuestionDraft(), 99, Below, models.ShortText)
	require.NoError(t, err)
	assert.Equal(t, models.ShortText, next.Questions[5].Type)

	next, err = InsertQuestion(fiveQuestionDraft(), -3, Above, models.ShortText)
	require.NoError(t, err)
	assert.Equal(t, models.ShortText, next.Questions[0].Type)
}

func TestInsertQuestion_RejectsBadInput(t *testing.T) {
	_, err := InsertQuestion(fiveQuestionDraft(), 0, Above, "essay")
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = InsertQuestion(fiveQuestionDraft(), 0, "beside", models.Rating)
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestChangeType_DerivesOptions(t *testing.T) {
	q := fiveQuestionDraft()

	next, err := ChangeType(q, "q1", models.Rating)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, next.Questions[0].Options)

	next, err = ChangeType(next, "q1", models.ShortText)
	require.NoError(t, err)
	assert.Nil(t, next.Questions[0].Options)
}

func TestChangeType_PreservesExistingOptions(t *testing.T) {
	q := fiveQuestionDraft()
	q.Questions[0].Type = models.SingleChoice
	q.Questions[0].Options = []string{"red", "green", "blue"}

	next, err := ChangeType(q, "q1", models.MultipleChoice)
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "green", "blue"}, next.Questions[0].Options)
}

func TestChangeType_RoundTripLosesOptionsThroughShortText(t *testing.T) {
	q := fiveQuestionDraft()
	q.Questions[0].Type = models.SingleChoice
	q.Questions[0].Options = []string{"red", "green", "blue"}

	next, err := ChangeType(q, "q1", models.ShortText)
	require.NoError(t, err)
	next, err = ChangeType(next, "q1", models.SingleChoice)
	require.NoError(t, err)

	// Options were dropped by the retype to short_text; the round trip
	// restores defaults, not the original set.
	assert.Equal(t, models.DefaultOptions(models.SingleChoice), next.Questions[0].Options)
}

func TestChangeType_UnknownQuestion(t *testing.T) {
	_, err := ChangeType(fiveQuestionDraft(), "nope", models.Rating)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestUpdateField_PatchesOnlyGivenFields(t *testing.T) {
	q := fiveQuestionDraft()

	text := "updated text"
	next, err := UpdateField(q, "q2", FieldPatch{Text: &text})
	require.NoError(t, err)
	assert.Equal(t, "updated text", next.Questions[1].Text)
	assert.False(t, next.Questions[1].Required)

	required := true
	next, err = UpdateField(next, "q2", FieldPatch{Required: &required})
	require.NoError(t, err)
	assert.Equal(t, "updated text", next.Questions[1].Text)
	assert.True(t, next.Questions[1].Required)

	// Other questions unchanged.
	assert.Equal(t, "question 1", next.Questions[0].Text)
}

func TestUpdateOption(t *testing.T) {
	q := fiveQuestionDraft()
	q.Questions[0].Type = models.SingleChoice
	q.Questions[0].Options = []string{"a", "b"}

	next, err := UpdateOption(q, "q1", 1, "beta")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "beta"}, next.Questions[0].Options)

	// Out-of-bounds index is a no-op.
	next, err = UpdateOption(q, "q1", 5, "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, next.Questions[0].Options)

	next, err = UpdateOption(q, "q1", -1, "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, next.Questions[0].Options)
}

func TestUpdateTitleAndIntro(t *testing.T) {
	q := fiveQuestionDraft()
	next := UpdateTitle(q, "New Title")
	assert.Equal(t, "New Title", next.Title)
	assert.Equal(t, "T", q.Title)

	next = UpdateIntro(next, "New intro")
	assert.Equal(t, "New intro", next.Intro)
	assert.Equal(t, "New Title", next.Title)
}
