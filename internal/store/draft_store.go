package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/surveyforge/survey-service/internal/models"
)

// RecentLimit caps the recency cache.
const RecentLimit = 5

// EntryReason distinguishes how the user arrived at the editor. A hard
// reload means "start fresh"; ordinary navigation resumes the saved draft.
type EntryReason string

const (
	FreshLoad         EntryReason = "fresh_load"
	ResumedNavigation EntryReason = "resumed_navigation"
)

var (
	ErrStaleGeneration  = errors.New("a newer generation superseded this one")
	ErrEntryNotFound    = errors.New("recent entry not found")
	ErrInvalidEntryType = errors.New("unknown entry reason")
)

// DraftStore owns all draft state for one session: the current draft, the
// recency cache and the seed parameters. All mutation flows through its
// methods so the structural invariants stay centrally enforced. The draft
// and recency cache are written through to durable storage, seed parameters
// to volatile storage.
type DraftStore struct {
	mu       sync.Mutex
	session  string
	durable  Storage
	volatile Storage

	current   *models.Questionnaire
	recent    []models.RecentEntry
	hasRecent bool

	genSeq uint64

	now   func() time.Time
	idGen func() string
}

func NewDraftStore(session string, durable, volatile Storage) *DraftStore {
	return &DraftStore{
		session:  session,
		durable:  durable,
		volatile: volatile,
		now:      func() time.Time { return time.Now().UTC() },
		idGen:    uuid.NewString,
	}
}

func (s *DraftStore) draftKey() string  { return "draft:" + s.session }
func (s *DraftStore) recentKey() string { return "recent:" + s.session }
func (s *DraftStore) seedKey() string   { return "seed:" + s.session }

// BeginGeneration registers a new in-flight generation call and returns its
// sequence number. AdoptGenerated discards results whose sequence is no
// longer the latest, so a slow response cannot clobber a newer one.
func (s *DraftStore) BeginGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.genSeq++
	return s.genSeq
}

// AdoptGenerated installs a freshly generated questionnaire as the current
// draft and records it in the recency cache, deduplicating by title and
// keeping the five most recent entries, newest first.
func (s *DraftStore) AdoptGenerated(ctx context.Context, seq uint64, q *models.Questionnaire) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.genSeq {
		return ErrStaleGeneration
	}

	s.current = q.Clone()

	recent, err := s.loadRecentLocked(ctx)
	if err != nil {
		return err
	}
	entry := models.RecentEntry{
		ID:            s.idGen(),
		Title:         q.Title,
		CreatedAt:     s.now(),
		Questionnaire: *q.Clone(),
	}
	kept := make([]models.RecentEntry, 0, len(recent)+1)
	kept = append(kept, entry)
	for _, existing := range recent {
		if existing.Title == entry.Title {
			continue
		}
		kept = append(kept, existing)
	}
	if len(kept) > RecentLimit {
		kept = kept[:RecentLimit]
	}
	s.recent = kept

	if err := s.durable.Set(ctx, s.recentKey(), s.recent); err != nil {
		return err
	}
	return s.durable.Set(ctx, s.draftKey(), s.current)
}

// ApplyEdit replaces the current draft with the next snapshot. The recency
// cache is untouched: only generation calls create entries.
func (s *DraftStore) ApplyEdit(ctx context.Context, next *models.Questionnaire) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = next.Clone()
	return s.durable.Set(ctx, s.draftKey(), s.current)
}

// Current returns a snapshot of the current draft, or nil when none exists.
func (s *DraftStore) Current() *models.Questionnaire {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	return s.current.Clone()
}

// Recent returns the recency cache, most recent first.
func (s *DraftStore) Recent(ctx context.Context) ([]models.RecentEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recent, err := s.loadRecentLocked(ctx)
	if err != nil {
		return nil, err
	}
	return append([]models.RecentEntry(nil), recent...), nil
}

// LoadFromRecent makes the stored snapshot of the given entry the current
// draft. The recency cache keeps its ordering.
func (s *DraftStore) LoadFromRecent(ctx context.Context, entryID string) (*models.Questionnaire, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recent, err := s.loadRecentLocked(ctx)
	if err != nil {
		return nil, err
	}
	for _, entry := range recent {
		if entry.ID == entryID {
			s.current = entry.Questionnaire.Clone()
			if err := s.durable.Set(ctx, s.draftKey(), s.current); err != nil {
				return nil, err
			}
			return s.current.Clone(), nil
		}
	}
	return nil, ErrEntryNotFound
}

// RestoreOnNavigate applies the page-entry policy. On resumed navigation the
// persisted draft, if any, becomes current again. On a fresh load the draft
// and seed parameters are cleared; the recency cache survives.
func (s *DraftStore) RestoreOnNavigate(ctx context.Context, reason EntryReason) (*models.Questionnaire, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch reason {
	case FreshLoad:
		s.current = nil
		if err := s.durable.Delete(ctx, s.draftKey()); err != nil {
			return nil, err
		}
		if err := s.volatile.Delete(ctx, s.seedKey()); err != nil {
			return nil, err
		}
		return nil, nil
	case ResumedNavigation:
		var q models.Questionnaire
		err := s.durable.Get(ctx, s.draftKey(), &q)
		if errors.Is(err, ErrNotFound) {
			s.current = nil
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		q.Normalize()
		s.current = &q
		return s.current.Clone(), nil
	default:
		return nil, ErrInvalidEntryType
	}
}

// RememberSeedParams stores the last-used generation inputs for the session.
func (s *DraftStore) RememberSeedParams(ctx context.Context, params *models.SeedParams) error {
	return s.volatile.Set(ctx, s.seedKey(), params)
}

// SeedParams returns the remembered generation inputs, or nil when none.
func (s *DraftStore) SeedParams(ctx context.Context) (*models.SeedParams, error) {
	var params models.SeedParams
	err := s.volatile.Get(ctx, s.seedKey(), &params)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &params, nil
}

// loadRecentLocked lazily hydrates the recency cache from durable storage.
// A missing or malformed record simply means an empty cache.
func (s *DraftStore) loadRecentLocked(ctx context.Context) ([]models.RecentEntry, error) {
	if s.hasRecent {
		return s.recent, nil
	}
	var recent []models.RecentEntry
	err := s.durable.Get(ctx, s.recentKey(), &recent)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	s.recent = recent
	s.hasRecent = true
	return s.recent, nil
}
