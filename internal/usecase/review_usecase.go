package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/voxlearn/vox/internal/entity"
	"github.com/voxlearn/vox/internal/repository"
	"github.com/voxlearn/vox/internal/srs"
)

// Session size bounds, matching the original app's 1..200 card range.
const (
	DefaultSessionLimit = 10
	MaxSessionLimit     = 200
)

// SessionOptions configures a review session. A zero Limit falls back to
// DefaultSessionLimit; a negative one is rejected.
type SessionOptions struct {
	Limit      int
	Direction  entity.Direction
	PromptMode entity.PromptMode
}

// Overview summarises the deck's scheduling state for stats and reminders.
type Overview struct {
	Total       int
	New         int
	Due         int
	Lapses      int
	AverageEase float64
}

// ReviewUsecase starts review sessions and reports deck-level scheduling
// state.
type ReviewUsecase interface {
	StartSession(ctx context.Context, opts SessionOptions) (*Session, error)
	DueItems(ctx context.Context) ([]entity.ItemWithRecord, error)
	Overview(ctx context.Context) (Overview, error)
}

// NewReviewUsecase wires the card store with the given algorithm parameters.
func NewReviewUsecase(store repository.CardStore, params srs.Params, interleave srs.SelectOptions) ReviewUsecase {
	return &reviewUsecase{
		store:      store,
		params:     params,
		interleave: interleave,
		clock:      time.Now,
	}
}

type reviewUsecase struct {
	store      repository.CardStore
	params     srs.Params
	interleave srs.SelectOptions
	clock      func() time.Time
}

func (u *reviewUsecase) StartSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	limit := opts.Limit
	switch {
	case limit == 0:
		limit = DefaultSessionLimit
	case limit < 0:
		return nil, entity.ErrInvalidLimit
	case limit > MaxSessionLimit:
		limit = MaxSessionLimit
	}

	pairs, err := u.store.ListItemsWithRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	now := u.clock()
	records := lo.Map(pairs, func(p entity.ItemWithRecord, _ int) entity.SchedulingRecord {
		return p.Record
	})
	queue, err := srs.SelectDue(records, now, limit, u.interleave)
	if err != nil {
		return nil, err
	}
	if len(queue) == 0 {
		return nil, entity.ErrEmptyQueue
	}

	byID := lo.KeyBy(pairs, func(p entity.ItemWithRecord) string { return p.Item.ID })
	items := make([]entity.Item, len(queue))
	current := make(map[string]entity.SchedulingRecord, len(queue))
	for i, id := range queue {
		pair := byID[id]
		items[i] = pair.Item
		current[id] = pair.Record
	}

	return &Session{
		store:      u.store,
		params:     u.params,
		clock:      u.clock,
		direction:  opts.Direction,
		promptMode: opts.PromptMode,
		queue:      items,
		records:    current,
		state:      stateReviewing,
	}, nil
}

func (u *reviewUsecase) DueItems(ctx context.Context) ([]entity.ItemWithRecord, error) {
	pairs, err := u.store.ListItemsWithRecords(ctx)
	if err != nil {
		return nil, err
	}
	now := u.clock()
	return lo.Filter(pairs, func(p entity.ItemWithRecord, _ int) bool {
		return p.Record.Due(now)
	}), nil
}

func (u *reviewUsecase) Overview(ctx context.Context) (Overview, error) {
	pairs, err := u.store.ListItemsWithRecords(ctx)
	if err != nil {
		return Overview{}, err
	}
	now := u.clock()
	ov := Overview{Total: len(pairs)}
	var easeSum float64
	for _, p := range pairs {
		if p.Record.IsNew() {
			ov.New++
		}
		if p.Record.Due(now) {
			ov.Due++
		}
		ov.Lapses += p.Record.Lapses
		easeSum += p.Record.EaseFactor
	}
	if ov.Total > 0 {
		ov.AverageEase = easeSum / float64(ov.Total)
	}
	return ov, nil
}
