package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/voxlearn/vox/internal/entity"
	"github.com/voxlearn/vox/internal/repository"
	"github.com/voxlearn/vox/internal/srs"
)

type fakeCardStore struct {
	mu      sync.RWMutex
	items   map[string]*entity.Item
	records map[string]entity.SchedulingRecord

	saveErr   error
	saveCalls int
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{
		items:   make(map[string]*entity.Item),
		records: make(map[string]entity.SchedulingRecord),
	}
}

func (s *fakeCardStore) ListItemsWithRecords(ctx context.Context) ([]entity.ItemWithRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	pairs := make([]entity.ItemWithRecord, 0, len(s.items))
	for id, item := range s.items {
		pairs = append(pairs, entity.ItemWithRecord{Item: *item, Record: s.records[id]})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Item.ID < pairs[j].Item.ID })
	return pairs, nil
}

func (s *fakeCardStore) SaveRecord(ctx context.Context, record entity.SchedulingRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	if _, ok := s.items[record.ItemID]; !ok {
		return entity.ErrItemNotFound
	}
	s.records[record.ItemID] = record
	return nil
}

func (s *fakeCardStore) CreateItem(ctx context.Context, item *entity.Item, record entity.SchedulingRecord) (*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if strings.EqualFold(existing.Front, item.Front) {
			return nil, entity.ErrDuplicateItem
		}
	}
	clone := *item
	s.items[clone.ID] = &clone
	s.records[clone.ID] = record
	out := clone
	return &out, nil
}

func (s *fakeCardStore) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, entity.ErrItemNotFound
	}
	clone := *item
	return &clone, nil
}

func (s *fakeCardStore) FindByFront(ctx context.Context, front string) (*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if strings.EqualFold(item.Front, front) {
			clone := *item
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *fakeCardStore) UpdateItem(ctx context.Context, item *entity.Item) (*entity.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		return nil, entity.ErrItemNotFound
	}
	clone := *item
	s.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (s *fakeCardStore) DeleteItem(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return entity.ErrItemNotFound
	}
	delete(s.items, id)
	delete(s.records, id)
	return nil
}

func (s *fakeCardStore) ListItems(ctx context.Context, query *repository.ListItemQuery) ([]entity.Item, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entity.Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, int64(len(items)), nil
}

var fixedNow = time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)

func seedReviewDeck(t *testing.T, store *fakeCardStore, reviewCards, newCards int) {
	t.Helper()
	day := 24 * time.Hour
	for i := 0; i < reviewCards; i++ {
		id := fmt.Sprintf("r%02d", i)
		store.items[id] = &entity.Item{
			ID:       id,
			Front:    fmt.Sprintf("前%02d", i),
			Back:     fmt.Sprintf("back %02d", i),
			Phonetic: fmt.Sprintf("qian%02d", i),
		}
		reviewed := fixedNow.Add(-time.Duration(i+4) * day)
		store.records[id] = entity.SchedulingRecord{
			ItemID:         id,
			DueAt:          fixedNow.Add(-time.Duration(i+1) * day),
			IntervalDays:   3,
			EaseFactor:     2.5,
			Repetitions:    2,
			LastReviewedAt: &reviewed,
		}
	}
	for i := 0; i < newCards; i++ {
		id := fmt.Sprintf("n%02d", i)
		store.items[id] = &entity.Item{ID: id, Front: fmt.Sprintf("新%02d", i), Back: fmt.Sprintf("new %02d", i)}
		store.records[id] = entity.SchedulingRecord{ItemID: id, DueAt: fixedNow.Add(-time.Hour), EaseFactor: 2.5}
	}
}

func newTestReviewUsecase(store *fakeCardStore) *reviewUsecase {
	uc := NewReviewUsecase(store, srs.DefaultParams(), srs.SelectOptions{}).(*reviewUsecase)
	uc.clock = func() time.Time { return fixedNow }
	return uc
}

func TestStartSessionEmptyDeck(t *testing.T) {
	uc := newTestReviewUsecase(newFakeCardStore())
	_, err := uc.StartSession(context.Background(), SessionOptions{})
	if !errors.Is(err, entity.ErrEmptyQueue) {
		t.Fatalf("expected ErrEmptyQueue, got %v", err)
	}
}

func TestStartSessionNegativeLimit(t *testing.T) {
	store := newFakeCardStore()
	seedReviewDeck(t, store, 3, 0)
	uc := newTestReviewUsecase(store)
	_, err := uc.StartSession(context.Background(), SessionOptions{Limit: -1})
	if !errors.Is(err, entity.ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestStartSessionDefaultsAndClampsLimit(t *testing.T) {
	store := newFakeCardStore()
	seedReviewDeck(t, store, 30, 0)
	uc := newTestReviewUsecase(store)

	sess, err := uc.StartSession(context.Background(), SessionOptions{})
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}
	if _, total := sess.Progress(); total != DefaultSessionLimit {
		t.Errorf("expected default limit %d, got %d", DefaultSessionLimit, total)
	}

	sess, err = uc.StartSession(context.Background(), SessionOptions{Limit: 10_000})
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}
	if _, total := sess.Progress(); total != 30 {
		t.Errorf("expected all 30 due cards under the clamp, got %d", total)
	}
}

func TestSessionFullWalkthrough(t *testing.T) {
	store := newFakeCardStore()
	seedReviewDeck(t, store, 3, 0)
	uc := newTestReviewUsecase(store)

	sess, err := uc.StartSession(context.Background(), SessionOptions{Limit: 3})
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}

	ratings := []entity.Rating{entity.RatingGood, entity.RatingAgain, entity.RatingEasy}
	for i, rating := range ratings {
		if sess.CurrentPrompt() == "" {
			t.Fatalf("card %d: empty prompt", i)
		}
		if err := sess.Reveal(); err != nil {
			t.Fatalf("card %d: Reveal returned error: %v", i, err)
		}
		if sess.CurrentAnswer() == "" {
			t.Fatalf("card %d: empty answer", i)
		}
		if err := sess.Rate(context.Background(), rating); err != nil {
			t.Fatalf("card %d: Rate returned error: %v", i, err)
		}
	}

	if sess.State() != stateSummary {
		t.Fatalf("expected summary state, got %v", sess.State())
	}
	summary := sess.Summary()
	if summary.Reviewed != 3 {
		t.Errorf("expected 3 reviewed, got %d", summary.Reviewed)
	}
	if !almostEqual(summary.Accuracy, 2.0/3.0) {
		t.Errorf("expected accuracy 2/3, got %v", summary.Accuracy)
	}
	if summary.ByRating[entity.RatingAgain] != 1 || summary.ByRating[entity.RatingGood] != 1 || summary.ByRating[entity.RatingEasy] != 1 {
		t.Errorf("unexpected rating breakdown: %v", summary.ByRating)
	}
	for i, outcome := range summary.Outcomes {
		if outcome.Order != i+1 {
			t.Errorf("outcome %d: expected order %d, got %d", i, i+1, outcome.Order)
		}
		if !outcome.Persisted {
			t.Errorf("outcome %d: expected persisted", i)
		}
	}
	if store.saveCalls != 3 {
		t.Errorf("expected 3 store writes, got %d", store.saveCalls)
	}
}

func TestSessionInvalidTransitions(t *testing.T) {
	store := newFakeCardStore()
	seedReviewDeck(t, store, 2, 0)
	uc := newTestReviewUsecase(store)

	sess, err := uc.StartSession(context.Background(), SessionOptions{Limit: 2})
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}

	if err := sess.Rate(context.Background(), entity.RatingGood); !errors.Is(err, entity.ErrInvalidTransition) {
		t.Errorf("Rate before Reveal: expected ErrInvalidTransition, got %v", err)
	}
	if err := sess.Reveal(); err != nil {
		t.Fatalf("Reveal returned error: %v", err)
	}
	if err := sess.Reveal(); !errors.Is(err, entity.ErrInvalidTransition) {
		t.Errorf("double Reveal: expected ErrInvalidTransition, got %v", err)
	}
	if err := sess.Rate(context.Background(), entity.Rating(9)); !errors.Is(err, entity.ErrInvalidRating) {
		t.Errorf("invalid rating: expected ErrInvalidRating, got %v", err)
	}

	if err := sess.Abandon(); err != nil {
		t.Fatalf("Abandon returned error: %v", err)
	}
	if err := sess.Abandon(); !errors.Is(err, entity.ErrInvalidTransition) {
		t.Errorf("Abandon after Abandon: expected ErrInvalidTransition, got %v", err)
	}
	if err := sess.Reveal(); !errors.Is(err, entity.ErrInvalidTransition) {
		t.Errorf("Reveal after Abandon: expected ErrInvalidTransition, got %v", err)
	}
}

func TestSessionAbandonKeepsCommittedRecords(t *testing.T) {
	store := newFakeCardStore()
	seedReviewDeck(t, store, 3, 0)
	uc := newTestReviewUsecase(store)

	sess, err := uc.StartSession(context.Background(), SessionOptions{Limit: 3})
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}
	if err := sess.Reveal(); err != nil {
		t.Fatal(err)
	}
	ratedID := sess.queue[0].ID
	before := store.records[ratedID]
	if err := sess.Rate(context.Background(), entity.RatingGood); err != nil {
		t.Fatalf("Rate returned error: %v", err)
	}
	if err := sess.Abandon(); err != nil {
		t.Fatalf("Abandon returned error: %v", err)
	}

	after := store.records[ratedID]
	if after.Repetitions != before.Repetitions+1 {
		t.Errorf("expected committed record to survive abandon; got %+v", after)
	}
	if got := sess.Summary().Reviewed; got != 1 {
		t.Errorf("expected 1 reviewed card in summary, got %d", got)
	}
}

func TestSessionPersistenceFailure(t *testing.T) {
	store := newFakeCardStore()
	seedReviewDeck(t, store, 2, 0)
	uc := newTestReviewUsecase(store)

	sess, err := uc.StartSession(context.Background(), SessionOptions{Limit: 2})
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}

	storeDown := errors.New("disk full")
	store.saveErr = storeDown
	if err := sess.Reveal(); err != nil {
		t.Fatal(err)
	}
	err = sess.Rate(context.Background(), entity.RatingGood)
	if !errors.Is(err, storeDown) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}

	// The session proceeds: outcome logged but flagged, next card prompted.
	summary := sess.Summary()
	if summary.Reviewed != 1 {
		t.Fatalf("expected outcome logged despite failure, got %d", summary.Reviewed)
	}
	if summary.Outcomes[0].Persisted {
		t.Error("expected outcome flagged unpersisted")
	}
	if sess.CurrentPrompt() == "" {
		t.Error("expected next card to be prompted")
	}

	store.saveErr = nil
	if err := sess.RetryPersist(context.Background()); err != nil {
		t.Fatalf("RetryPersist returned error: %v", err)
	}
	if !sess.Summary().Outcomes[0].Persisted {
		t.Error("expected outcome reconciled after retry")
	}
	ratedID := sess.Summary().Outcomes[0].ItemID
	if store.records[ratedID].Repetitions != 3 {
		t.Errorf("expected retried record persisted, got %+v", store.records[ratedID])
	}
}

func TestSessionDirectionAndPromptMode(t *testing.T) {
	store := newFakeCardStore()
	seedReviewDeck(t, store, 1, 0)
	uc := newTestReviewUsecase(store)

	sess, err := uc.StartSession(context.Background(), SessionOptions{
		Limit:      1,
		Direction:  entity.BackToFront,
		PromptMode: entity.PromptPhonetic, // ignored for back-side prompts
	})
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}
	item := sess.queue[0]
	if got := sess.CurrentPrompt(); got != item.Back {
		t.Errorf("expected back-side prompt %q, got %q", item.Back, got)
	}
	want := item.Front + " • " + item.Phonetic
	if got := sess.CurrentAnswer(); got != want {
		t.Errorf("expected answer %q, got %q", want, got)
	}

	sess2, err := uc.StartSession(context.Background(), SessionOptions{
		Limit:      1,
		PromptMode: entity.PromptPhonetic,
	})
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}
	if got := sess2.CurrentPrompt(); got != item.Phonetic {
		t.Errorf("expected phonetic prompt %q, got %q", item.Phonetic, got)
	}
	if got := sess2.CurrentAnswer(); got != item.Back {
		t.Errorf("expected answer %q, got %q", item.Back, got)
	}
}

func TestOverview(t *testing.T) {
	store := newFakeCardStore()
	seedReviewDeck(t, store, 2, 3)
	uc := newTestReviewUsecase(store)

	ov, err := uc.Overview(context.Background())
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	if ov.Total != 5 || ov.New != 3 || ov.Due != 5 {
		t.Errorf("unexpected overview: %+v", ov)
	}
	if !almostEqual(ov.AverageEase, 2.5) {
		t.Errorf("expected average ease 2.5, got %v", ov.AverageEase)
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
