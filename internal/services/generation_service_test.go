package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surveyforge/survey-service/internal/events"
	"github.com/surveyforge/survey-service/internal/generator"
	"github.com/surveyforge/survey-service/internal/models"
	"github.com/surveyforge/survey-service/internal/store"
	"github.com/surveyforge/survey-service/internal/utils"
)

type capturingPublisher struct {
	published []events.EventType
	payloads  []interface{}
}

func (p *capturingPublisher) Publish(_ context.Context, t events.EventType, data interface{}) error {
	p.published = append(p.published, t)
	p.payloads = append(p.payloads, data)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func newGenerationFixture() (GenerationService, *store.Manager, *capturingPublisher) {
	stores := store.NewManager(store.NewMemoryStorage(), store.NewMemoryStorage())
	publisher := &capturingPublisher{}
	contract := generator.NewContract(nil, testSlog())
	svc := NewGenerationService(contract, stores, publisher, utils.NewValidator(), testSlog())
	return svc, stores, publisher
}

func TestGenerationService_FallbackEndToEnd(t *testing.T) {
	svc, stores, publisher := newGenerationFixture()

	q, err := svc.Generate(context.Background(), "sess-1", &models.GenerationRequest{
		Goal:          "improve onboarding",
		Audience:      "new users",
		Tone:          "friendly",
		Language:      "en",
		QuestionCount: 5,
	})
	require.NoError(t, err)
	require.Len(t, q.Questions, 5)
	require.NoError(t, q.Validate())

	// Adopted as current draft and recorded as the sole recent entry.
	draftStore := stores.ForSession("sess-1")
	assert.Equal(t, q.Title, draftStore.Current().Title)
	recent, err := draftStore.Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, q.Title, recent[0].Title)

	// Seed params remembered as entered.
	seed, err := draftStore.SeedParams(context.Background())
	require.NoError(t, err)
	require.NotNil(t, seed)
	assert.Equal(t, "improve onboarding", seed.Goal)
	assert.Equal(t, "5", seed.QuestionCount)

	// Generation event published with the fallback flag set.
	require.Len(t, publisher.published, 1)
	assert.Equal(t, events.EventQuestionnaireGenerated, publisher.published[0])
	payload := publisher.payloads[0].(events.QuestionnaireGeneratedEvent)
	assert.True(t, payload.UsedFallback)
	assert.Equal(t, 5, payload.QuestionCount)
}

func TestGenerationService_DefaultsQuestionCount(t *testing.T) {
	svc, _, _ := newGenerationFixture()

	q, err := svc.Generate(context.Background(), "sess-1", &models.GenerationRequest{Goal: "g", Language: "en"})
	require.NoError(t, err)
	assert.Len(t, q.Questions, DefaultQuestionCount)
}

func TestGenerationService_RejectsNegativeCount(t *testing.T) {
	svc, _, _ := newGenerationFixture()

	_, err := svc.Generate(context.Background(), "sess-1", &models.GenerationRequest{Goal: "g", QuestionCount: -2})
	assert.Error(t, err)
}

func TestGenerationService_SessionsAreIsolated(t *testing.T) {
	svc, stores, _ := newGenerationFixture()

	_, err := svc.Generate(context.Background(), "sess-a", &models.GenerationRequest{Goal: "a", Language: "en", QuestionCount: 3})
	require.NoError(t, err)

	assert.Nil(t, stores.ForSession("sess-b").Current())
}
