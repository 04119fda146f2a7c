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

// SessionState is the coarse state of a review session.
type SessionState int

const (
	stateReviewing SessionState = iota
	stateSummary
	stateAbandoned
)

func (s SessionState) String() string {
	switch s {
	case stateSummary:
		return "summary"
	case stateAbandoned:
		return "abandoned"
	default:
		return "reviewing"
	}
}

// Terminal reports whether no further transitions are possible.
func (s SessionState) Terminal() bool { return s != stateReviewing }

// Session walks through a due queue one card at a time: each card is
// prompted, revealed, then rated. Rating persists the recomputed scheduling
// record before the next card is presented; committed records are never
// rolled back, so an abandoned session leaves correct state for every card
// already rated.
//
// A Session is not safe for concurrent use; the review flow is inherently
// sequential.
type Session struct {
	store      repository.CardStore
	params     srs.Params
	clock      func() time.Time
	direction  entity.Direction
	promptMode entity.PromptMode

	queue    []entity.Item
	records  map[string]entity.SchedulingRecord
	cursor   int
	revealed bool
	state    SessionState
	log      []entity.ReviewOutcome
}

// State returns the coarse session state.
func (s *Session) State() SessionState { return s.state }

// Progress returns (rated cards, queue length).
func (s *Session) Progress() (int, int) { return s.cursor, len(s.queue) }

// Revealed reports whether the current card's answer is showing.
func (s *Session) Revealed() bool { return s.revealed }

func (s *Session) current() (entity.Item, bool) {
	if s.state != stateReviewing || s.cursor >= len(s.queue) {
		return entity.Item{}, false
	}
	return s.queue[s.cursor], true
}

// CurrentPrompt returns the prompt side of the current card. In phonetic
// mode a front-side prompt shows the annotation, falling back to the front
// text for items without one.
func (s *Session) CurrentPrompt() string {
	item, ok := s.current()
	if !ok {
		return ""
	}
	if s.direction == entity.BackToFront {
		return item.Back
	}
	if s.promptMode == entity.PromptPhonetic && item.Phonetic != "" {
		return item.Phonetic
	}
	return item.Front
}

// CurrentAnswer returns the answer side of the current card. Answering
// toward the front joins text and phonetic annotation for display.
func (s *Session) CurrentAnswer() string {
	item, ok := s.current()
	if !ok {
		return ""
	}
	if s.direction == entity.BackToFront {
		if item.Phonetic != "" {
			return item.Front + " • " + item.Phonetic
		}
		return item.Front
	}
	return item.Back
}

// Reveal shows the current card's answer. Valid only while the card is
// prompted; revealing twice is a caller bug and fails with
// ErrInvalidTransition.
func (s *Session) Reveal() error {
	if s.state != stateReviewing || s.revealed {
		return entity.ErrInvalidTransition
	}
	s.revealed = true
	return nil
}

// Rate grades the current revealed card. The interval algorithm produces the
// next scheduling record, which is persisted before Rate returns; the
// outcome is appended to the session log either way, flagged unpersisted
// when the store write failed so RetryPersist can reconcile it. The final
// rating moves the session to its summary state.
func (s *Session) Rate(ctx context.Context, rating entity.Rating) error {
	if s.state != stateReviewing || !s.revealed {
		return entity.ErrInvalidTransition
	}
	if !rating.IsValid() {
		return fmt.Errorf("%w: %d", entity.ErrInvalidRating, int(rating))
	}

	item := s.queue[s.cursor]
	next := s.params.NextRecord(s.records[item.ID], rating, s.clock())

	persistErr := s.store.SaveRecord(ctx, next)

	s.records[item.ID] = next
	s.log = append(s.log, entity.ReviewOutcome{
		ItemID:                 item.ID,
		Rating:                 rating,
		PromptShown:            s.CurrentPrompt(),
		AnswerShown:            s.CurrentAnswer(),
		Order:                  len(s.log) + 1,
		ScheduledIntervalAfter: next.IntervalDays,
		Persisted:              persistErr == nil,
	})

	s.cursor++
	s.revealed = false
	if s.cursor == len(s.queue) {
		s.state = stateSummary
	}

	if persistErr != nil {
		return fmt.Errorf("persist scheduling record: %w", persistErr)
	}
	return nil
}

// RetryPersist re-attempts the card-store write for every outcome that
// failed to persist, clearing the flag on success. It returns the first
// error encountered.
func (s *Session) RetryPersist(ctx context.Context) error {
	for i, outcome := range s.log {
		if outcome.Persisted {
			continue
		}
		if err := s.store.SaveRecord(ctx, s.records[outcome.ItemID]); err != nil {
			return fmt.Errorf("persist scheduling record: %w", err)
		}
		s.log[i].Persisted = true
	}
	return nil
}

// Abandon discards the session without touching records already committed.
// It is valid from any non-terminal state.
func (s *Session) Abandon() error {
	if s.state.Terminal() {
		return entity.ErrInvalidTransition
	}
	s.state = stateAbandoned
	return nil
}

// Summary returns the live aggregate over the session log. It can be called
// at any point; after the final rating it describes the whole session.
func (s *Session) Summary() entity.SessionSummary {
	byRating := lo.CountValuesBy(s.log, func(o entity.ReviewOutcome) entity.Rating {
		return o.Rating
	})
	succeeded := lo.CountBy(s.log, func(o entity.ReviewOutcome) bool {
		return o.Rating.Success()
	})

	summary := entity.SessionSummary{
		Reviewed: len(s.log),
		ByRating: byRating,
		Outcomes: append([]entity.ReviewOutcome(nil), s.log...),
	}
	if summary.Reviewed > 0 {
		summary.Accuracy = float64(succeeded) / float64(summary.Reviewed)
	}
	return summary
}
