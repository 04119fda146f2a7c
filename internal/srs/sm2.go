// Package srs implements the spaced-repetition core: an SM-2 family
// interval algorithm and the due-queue scheduler. Everything here is pure;
// persistence and clocks belong to the callers.
package srs

import (
	"math"
	"time"

	"github.com/voxlearn/vox/internal/entity"
)

const day = 24 * time.Hour

// Params holds the tunable constants of the interval algorithm. The zero
// value is not usable; start from DefaultParams and override via config.
type Params struct {
	// EaseFactor never drops below EaseFloor, preventing runaway interval
	// shrinkage on repeated failures.
	EaseFloor float64
	// InitialEase is assigned to brand-new cards.
	InitialEase float64
	// AgainPenalty and HardPenalty are subtracted from ease on failing and
	// hard reviews respectively.
	AgainPenalty float64
	HardPenalty  float64
	// HardMultiplier grows the interval on hard reviews instead of ease.
	HardMultiplier float64
	// EasyBonus multiplies the interval growth on easy reviews; EasyReward
	// is added to ease.
	EasyBonus  float64
	EasyReward float64
	// FirstGoodInterval and FirstEasyInterval are the whole-day intervals
	// after the first successful review.
	FirstGoodInterval int
	FirstEasyInterval int
	// MaxIntervalDays caps scheduling horizon; 0 means uncapped.
	MaxIntervalDays int
}

// DefaultParams returns the standard SM-2 constants.
func DefaultParams() Params {
	return Params{
		EaseFloor:         1.3,
		InitialEase:       2.5,
		AgainPenalty:      0.2,
		HardPenalty:       0.15,
		HardMultiplier:    1.2,
		EasyBonus:         1.3,
		EasyReward:        0.15,
		FirstGoodInterval: 1,
		FirstEasyInterval: 4,
		MaxIntervalDays:   365,
	}
}

// NewRecord returns the scheduling record for a freshly created item. New
// cards are due immediately.
func (p Params) NewRecord(itemID string, now time.Time) entity.SchedulingRecord {
	return entity.SchedulingRecord{
		ItemID:     itemID,
		DueAt:      now,
		EaseFactor: p.InitialEase,
	}
}

// NextRecord computes the scheduling record that follows a review. It is
// pure, deterministic and total: every (record, rating) pair yields a valid
// record, and an out-of-range input ease is clamped rather than rejected.
// Unknown ratings are treated as RatingAgain, the most conservative outcome.
func (p Params) NextRecord(rec entity.SchedulingRecord, rating entity.Rating, now time.Time) entity.SchedulingRecord {
	next := rec
	ease := math.Max(p.EaseFloor, rec.EaseFactor)

	var interval float64
	switch rating {
	case entity.RatingHard:
		next.Repetitions++
		ease = math.Max(p.EaseFloor, ease-p.HardPenalty)
		interval = math.Max(1, rec.IntervalDays*p.HardMultiplier)
	case entity.RatingGood:
		next.Repetitions++
		if next.Repetitions > 1 {
			interval = rec.IntervalDays * ease
		} else {
			interval = float64(p.FirstGoodInterval)
		}
	case entity.RatingEasy:
		next.Repetitions++
		ease += p.EasyReward
		if next.Repetitions > 1 {
			interval = rec.IntervalDays * ease * p.EasyBonus
		} else {
			interval = float64(p.FirstEasyInterval)
		}
	default: // RatingAgain
		next.Repetitions = 0
		next.Lapses++
		ease = math.Max(p.EaseFloor, ease-p.AgainPenalty)
		interval = 1
	}

	days := roundHalfUp(interval)
	if days < 1 {
		days = 1
	}
	if p.MaxIntervalDays > 0 && days > p.MaxIntervalDays {
		days = p.MaxIntervalDays
	}

	next.EaseFactor = ease
	next.IntervalDays = float64(days)
	next.DueAt = now.Add(time.Duration(days) * day)
	reviewed := now
	next.LastReviewedAt = &reviewed
	return next
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
