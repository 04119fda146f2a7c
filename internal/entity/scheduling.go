package entity

import (
	"fmt"
	"strings"
	"time"
)

// SchedulingRecord holds the spaced-repetition state for one item. A record
// with IntervalDays == 0, Repetitions == 0 and a nil LastReviewedAt is a
// brand-new card; new cards are due immediately.
type SchedulingRecord struct {
	ItemID         string
	DueAt          time.Time
	IntervalDays   float64
	EaseFactor     float64
	Repetitions    int
	Lapses         int
	LastReviewedAt *time.Time
}

// IsNew reports whether the record belongs to a never-reviewed card.
func (r SchedulingRecord) IsNew() bool {
	return r.Repetitions == 0 && r.LastReviewedAt == nil
}

// Due reports whether the card is eligible for review at the given time.
func (r SchedulingRecord) Due(now time.Time) bool {
	return !r.DueAt.After(now)
}

// Rating grades recall quality for a single review, ordered worst to best.
type Rating int

const (
	RatingAgain Rating = iota + 1 // total failure to recall
	RatingHard
	RatingGood
	RatingEasy
)

var ratingNames = map[Rating]string{
	RatingAgain: "again",
	RatingHard:  "hard",
	RatingGood:  "good",
	RatingEasy:  "easy",
}

// String returns the lowercase rating name, or "rating(n)" for invalid values.
func (r Rating) String() string {
	if name, ok := ratingNames[r]; ok {
		return name
	}
	return fmt.Sprintf("rating(%d)", int(r))
}

// IsValid reports whether r is one of the four defined ratings.
func (r Rating) IsValid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// Success reports whether the rating counts toward session accuracy.
func (r Rating) Success() bool {
	return r == RatingGood || r == RatingEasy
}

// MarshalText implements encoding.TextMarshaler.
func (r Rating) MarshalText() ([]byte, error) {
	name, ok := ratingNames[r]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRating, int(r))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rating) UnmarshalText(text []byte) error {
	parsed, err := ParseRating(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRating converts a rating name (or its numeric form "1".."4") into a
// Rating value.
func ParseRating(s string) (Rating, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "again", "1":
		return RatingAgain, nil
	case "hard", "2":
		return RatingHard, nil
	case "good", "3":
		return RatingGood, nil
	case "easy", "4":
		return RatingEasy, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
}

// Direction selects which side of an item is the prompt for a session.
type Direction int

const (
	FrontToBack Direction = iota
	BackToFront
)

// ParseDirection accepts "front-to-back" / "back-to-front" (defaulting to
// front-to-back for the empty string).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "front-to-back":
		return FrontToBack, nil
	case "back-to-front":
		return BackToFront, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

func (d Direction) String() string {
	if d == BackToFront {
		return "back-to-front"
	}
	return "front-to-back"
}

// PromptMode selects how front-side prompts are rendered: the item text
// itself or its phonetic annotation.
type PromptMode int

const (
	PromptText PromptMode = iota
	PromptPhonetic
)

// ParsePromptMode accepts "text" / "phonetic" (defaulting to text).
func ParsePromptMode(s string) (PromptMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return PromptText, nil
	case "phonetic":
		return PromptPhonetic, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPromptMode, s)
	}
}

func (m PromptMode) String() string {
	if m == PromptPhonetic {
		return "phonetic"
	}
	return "text"
}
