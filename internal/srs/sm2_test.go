package srs

import (
	"testing"
	"time"

	"github.com/voxlearn/vox/internal/entity"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewRecordDefaults(t *testing.T) {
	rec := DefaultParams().NewRecord("item-1", t0)
	if rec.ItemID != "item-1" {
		t.Errorf("expected item ID to be set, got %q", rec.ItemID)
	}
	if !rec.IsNew() {
		t.Error("expected a brand-new record")
	}
	if rec.IntervalDays != 0 {
		t.Errorf("expected interval 0 for new card, got %v", rec.IntervalDays)
	}
	if rec.EaseFactor != 2.5 {
		t.Errorf("expected initial ease 2.5, got %v", rec.EaseFactor)
	}
	if !rec.Due(t0) {
		t.Error("expected new card to be due immediately")
	}
}

func TestNextRecordRatings(t *testing.T) {
	params := DefaultParams()
	reviewed := t0.Add(-3 * 24 * time.Hour)
	base := entity.SchedulingRecord{
		ItemID:         "a",
		IntervalDays:   10,
		EaseFactor:     2.5,
		Repetitions:    3,
		Lapses:         1,
		LastReviewedAt: &reviewed,
	}

	tests := []struct {
		name         string
		rating       entity.Rating
		wantInterval float64
		wantEase     float64
		wantReps     int
		wantLapses   int
	}{
		{name: "again resets", rating: entity.RatingAgain, wantInterval: 1, wantEase: 2.3, wantReps: 0, wantLapses: 2},
		{name: "hard grows slowly", rating: entity.RatingHard, wantInterval: 12, wantEase: 2.35, wantReps: 4, wantLapses: 1},
		{name: "good multiplies by ease", rating: entity.RatingGood, wantInterval: 25, wantEase: 2.5, wantReps: 4, wantLapses: 1},
		{name: "easy adds bonus", rating: entity.RatingEasy, wantInterval: 34, wantEase: 2.65, wantReps: 4, wantLapses: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := params.NextRecord(base, tc.rating, t0)
			if got.IntervalDays != tc.wantInterval {
				t.Errorf("interval: want %v, got %v", tc.wantInterval, got.IntervalDays)
			}
			if !almostEqual(got.EaseFactor, tc.wantEase) {
				t.Errorf("ease: want %v, got %v", tc.wantEase, got.EaseFactor)
			}
			if got.Repetitions != tc.wantReps {
				t.Errorf("repetitions: want %d, got %d", tc.wantReps, got.Repetitions)
			}
			if got.Lapses != tc.wantLapses {
				t.Errorf("lapses: want %d, got %d", tc.wantLapses, got.Lapses)
			}
			wantDue := t0.Add(time.Duration(tc.wantInterval) * 24 * time.Hour)
			if !got.DueAt.Equal(wantDue) {
				t.Errorf("due: want %v, got %v", wantDue, got.DueAt)
			}
			if got.LastReviewedAt == nil || !got.LastReviewedAt.Equal(t0) {
				t.Errorf("last reviewed: want %v, got %v", t0, got.LastReviewedAt)
			}
		})
	}
}

func TestNextRecordEaseFloor(t *testing.T) {
	params := DefaultParams()
	for _, ease := range []float64{-5, 0, 1.0, 1.3, 1.35} {
		rec := entity.SchedulingRecord{ItemID: "a", IntervalDays: 2, EaseFactor: ease, Repetitions: 1}
		for _, rating := range []entity.Rating{entity.RatingAgain, entity.RatingHard, entity.RatingGood, entity.RatingEasy} {
			got := params.NextRecord(rec, rating, t0)
			if got.EaseFactor < params.EaseFloor {
				t.Errorf("ease %v rating %v: ease dropped below floor: %v", ease, rating, got.EaseFactor)
			}
		}
	}
}

func TestNextRecordAlwaysFutureDue(t *testing.T) {
	params := DefaultParams()
	rec := params.NewRecord("a", t0)
	for _, rating := range []entity.Rating{entity.RatingAgain, entity.RatingHard, entity.RatingGood, entity.RatingEasy} {
		got := params.NextRecord(rec, rating, t0)
		if !got.DueAt.After(t0) {
			t.Errorf("rating %v: due %v not after now %v", rating, got.DueAt, t0)
		}
	}
}

func TestNextRecordSuccessStreakNeverShrinks(t *testing.T) {
	params := DefaultParams()
	for _, rating := range []entity.Rating{entity.RatingGood, entity.RatingEasy} {
		rec := params.NewRecord("a", t0)
		now := t0
		prev := 0.0
		for i := 0; i < 12; i++ {
			rec = params.NextRecord(rec, rating, now)
			if rec.IntervalDays < prev {
				t.Fatalf("rating %v step %d: interval shrank from %v to %v", rating, i, prev, rec.IntervalDays)
			}
			prev = rec.IntervalDays
			now = rec.DueAt
		}
	}
}

func TestNextRecordLapseReset(t *testing.T) {
	params := DefaultParams()
	rec := params.NewRecord("a", t0)
	now := t0
	for i := 0; i < 5; i++ {
		rec = params.NextRecord(rec, entity.RatingGood, now)
		now = rec.DueAt
	}
	got := params.NextRecord(rec, entity.RatingAgain, now)
	if got.Repetitions != 0 {
		t.Errorf("expected repetitions reset to 0, got %d", got.Repetitions)
	}
	if got.IntervalDays != 1 {
		t.Errorf("expected interval 1 after lapse, got %v", got.IntervalDays)
	}
	if got.Lapses != 1 {
		t.Errorf("expected 1 lapse, got %d", got.Lapses)
	}
}

func TestNextRecordEndToEndScenario(t *testing.T) {
	params := DefaultParams()
	day := 24 * time.Hour

	rec := params.NewRecord("a", t0)
	rec = params.NextRecord(rec, entity.RatingGood, t0)
	if rec.IntervalDays != 1 || rec.Repetitions != 1 {
		t.Fatalf("after first good: interval %v reps %d", rec.IntervalDays, rec.Repetitions)
	}
	if !rec.DueAt.Equal(t0.Add(day)) {
		t.Fatalf("after first good: due %v, want %v", rec.DueAt, t0.Add(day))
	}

	t1 := t0.Add(day)
	rec = params.NextRecord(rec, entity.RatingGood, t1)
	if rec.IntervalDays != 3 || rec.Repetitions != 2 {
		t.Fatalf("after second good: interval %v reps %d", rec.IntervalDays, rec.Repetitions)
	}
	if !rec.DueAt.Equal(t1.Add(3 * day)) {
		t.Fatalf("after second good: due %v, want %v", rec.DueAt, t1.Add(3*day))
	}

	t2 := rec.DueAt
	rec = params.NextRecord(rec, entity.RatingAgain, t2)
	if rec.IntervalDays != 1 || rec.Repetitions != 0 || rec.Lapses != 1 {
		t.Fatalf("after lapse: interval %v reps %d lapses %d", rec.IntervalDays, rec.Repetitions, rec.Lapses)
	}
	if !almostEqual(rec.EaseFactor, 2.3) {
		t.Fatalf("after lapse: ease %v, want 2.3", rec.EaseFactor)
	}
}

func TestNextRecordMaxIntervalCap(t *testing.T) {
	params := DefaultParams()
	rec := entity.SchedulingRecord{ItemID: "a", IntervalDays: 300, EaseFactor: 2.5, Repetitions: 8}
	got := params.NextRecord(rec, entity.RatingGood, t0)
	if got.IntervalDays != float64(params.MaxIntervalDays) {
		t.Errorf("expected interval capped at %d, got %v", params.MaxIntervalDays, got.IntervalDays)
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0.4, 0},
		{0.5, 1},
		{2.4, 2},
		{2.5, 3},
		{2.6, 3},
		{34.45, 34},
	}
	for _, tc := range tests {
		if got := roundHalfUp(tc.in); got != tc.want {
			t.Errorf("roundHalfUp(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
