package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surveyforge/survey-service/internal/models"
)

func newTestStore(t *testing.T) (*DraftStore, *MemoryStorage, *MemoryStorage) {
	t.Helper()
	durable := NewMemoryStorage()
	volatile := NewMemoryStorage()
	s := NewDraftStore("sess-1", durable, volatile)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	i := 0
	s.idGen = func() string {
		i++
		return fmt.Sprintf("entry-%d", i)
	}
	return s, durable, volatile
}

func draft(title string) *models.Questionnaire {
	return &models.Questionnaire{
		Title: title,
		Intro: "intro",
		Questions: []models.Question{
			{ID: "q1", Type: models.ShortText, Text: "first"},
		},
	}
}

func adopt(t *testing.T, s *DraftStore, q *models.Questionnaire) {
	t.Helper()
	require.NoError(t, s.AdoptGenerated(context.Background(), s.BeginGeneration(), q))
}

func TestAdoptGenerated_SetsCurrentAndRecords(t *testing.T) {
	s, _, _ := newTestStore(t)
	adopt(t, s, draft("A"))

	current := s.Current()
	require.NotNil(t, current)
	assert.Equal(t, "A", current.Title)

	recent, err := s.Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "A", recent[0].Title)
}

func TestAdoptGenerated_EvictsBeyondLimit(t *testing.T) {
	s, _, _ := newTestStore(t)
	for i := 1; i <= 6; i++ {
		adopt(t, s, draft(fmt.Sprintf("T%d", i)))
	}

	recent, err := s.Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, recent, RecentLimit)
	// Most recent first, oldest (T1) evicted.
	for i, entry := range recent {
		assert.Equal(t, fmt.Sprintf("T%d", 6-i), entry.Title)
	}
}

func TestAdoptGenerated_DeduplicatesByTitle(t *testing.T) {
	s, _, _ := newTestStore(t)
	adopt(t, s, draft("A"))
	adopt(t, s, draft("B"))
	first, err := s.Recent(context.Background())
	require.NoError(t, err)
	firstCreated := first[1].CreatedAt // entry for A

	adopt(t, s, draft("A"))

	recent, err := s.Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "A", recent[0].Title)
	assert.Equal(t, "B", recent[1].Title)
	assert.True(t, recent[0].CreatedAt.After(firstCreated))
}

func TestAdoptGenerated_DiscardsStaleSequence(t *testing.T) {
	s, _, _ := newTestStore(t)

	slow := s.BeginGeneration()
	fast := s.BeginGeneration()
	require.NoError(t, s.AdoptGenerated(context.Background(), fast, draft("fast")))

	err := s.AdoptGenerated(context.Background(), slow, draft("slow"))
	assert.ErrorIs(t, err, ErrStaleGeneration)

	assert.Equal(t, "fast", s.Current().Title)
	recent, err := s.Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "fast", recent[0].Title)
}

func TestApplyEdit_DoesNotTouchRecent(t *testing.T) {
	s, _, _ := newTestStore(t)
	adopt(t, s, draft("A"))

	edited := draft("A (edited)")
	require.NoError(t, s.ApplyEdit(context.Background(), edited))

	assert.Equal(t, "A (edited)", s.Current().Title)
	recent, err := s.Recent(context.Background())
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "A", recent[0].Title)
}

func TestApplyEdit_SnapshotsAreIsolated(t *testing.T) {
	s, _, _ := newTestStore(t)
	next := draft("A")
	require.NoError(t, s.ApplyEdit(context.Background(), next))

	next.Questions[0].Text = "mutated by caller"
	assert.Equal(t, "first", s.Current().Questions[0].Text)
}

func TestLoadFromRecent(t *testing.T) {
	s, _, _ := newTestStore(t)
	adopt(t, s, draft("A"))
	adopt(t, s, draft("B"))

	recent, err := s.Recent(context.Background())
	require.NoError(t, err)
	entryA := recent[1]

	loaded, err := s.LoadFromRecent(context.Background(), entryA.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", loaded.Title)
	assert.Equal(t, "A", s.Current().Title)

	// Ordering unchanged.
	after, err := s.Recent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "B", after[0].Title)
	assert.Equal(t, "A", after[1].Title)

	_, err = s.LoadFromRecent(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestRestoreOnNavigate_Resumed(t *testing.T) {
	s, durable, volatile := newTestStore(t)
	adopt(t, s, draft("A"))

	// Simulate a new page context over the same persisted state.
	fresh := NewDraftStore("sess-1", durable, volatile)
	restored, err := fresh.RestoreOnNavigate(context.Background(), ResumedNavigation)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, "A", restored.Title)
	assert.Equal(t, "A", fresh.Current().Title)
}

func TestRestoreOnNavigate_FreshLoadClearsDraftAndSeed(t *testing.T) {
	s, durable, volatile := newTestStore(t)
	adopt(t, s, draft("A"))
	require.NoError(t, s.RememberSeedParams(context.Background(), &models.SeedParams{Goal: "g", QuestionCount: "5"}))

	restored, err := s.RestoreOnNavigate(context.Background(), FreshLoad)
	require.NoError(t, err)
	assert.Nil(t, restored)
	assert.Nil(t, s.Current())

	seed, err := s.SeedParams(context.Background())
	require.NoError(t, err)
	assert.Nil(t, seed)

	// Recency cache survives a hard reload.
	fresh := NewDraftStore("sess-1", durable, volatile)
	recent, err := fresh.Recent(context.Background())
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	restored, err = fresh.RestoreOnNavigate(context.Background(), ResumedNavigation)
	require.NoError(t, err)
	assert.Nil(t, restored)
}

func TestRestoreOnNavigate_UnknownReason(t *testing.T) {
	s, _, _ := newTestStore(t)
	_, err := s.RestoreOnNavigate(context.Background(), EntryReason("reload?"))
	assert.ErrorIs(t, err, ErrInvalidEntryType)
}

func TestMalformedPersistedDraftTreatedAsAbsent(t *testing.T) {
	durable := NewMemoryStorage()
	durable.SetRaw("draft:sess-1", []byte(`{"title": 42`))
	s := NewDraftStore("sess-1", durable, NewMemoryStorage())

	restored, err := s.RestoreOnNavigate(context.Background(), ResumedNavigation)
	require.NoError(t, err)
	assert.Nil(t, restored)

	// Record was discarded, not just skipped.
	var probe any
	assert.ErrorIs(t, durable.Get(context.Background(), "draft:sess-1", &probe), ErrNotFound)
}

func TestMalformedRecentTreatedAsEmpty(t *testing.T) {
	durable := NewMemoryStorage()
	durable.SetRaw("recent:sess-1", []byte(`[{"broken"`))
	s := NewDraftStore("sess-1", durable, NewMemoryStorage())

	recent, err := s.Recent(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestSeedParamsRoundTrip(t *testing.T) {
	s, _, _ := newTestStore(t)

	seed, err := s.SeedParams(context.Background())
	require.NoError(t, err)
	assert.Nil(t, seed)

	params := &models.SeedParams{Goal: "improve onboarding", Audience: "new users", Tone: "friendly", Language: "en", QuestionCount: "5"}
	require.NoError(t, s.RememberSeedParams(context.Background(), params))

	seed, err = s.SeedParams(context.Background())
	require.NoError(t, err)
	require.NotNil(t, seed)
	assert.Equal(t, *params, *seed)
}

func TestManager_ReturnsSameStorePerSession(t *testing.T) {
	m := NewManager(NewMemoryStorage(), NewMemoryStorage())
	a := m.ForSession("s1")
	b := m.ForSession("s1")
	c := m.ForSession("s2")
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}
