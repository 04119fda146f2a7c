package srs

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/voxlearn/vox/internal/entity"
)

// SelectOptions tunes due-queue construction.
type SelectOptions struct {
	// NewPerReview caps new-card interleaving: at most one new card is
	// admitted per NewPerReview due review cards. Values < 1 fall back to
	// DefaultNewPerReview.
	NewPerReview int
}

// DefaultNewPerReview is the default interleave ratio (1 new per 4 reviews).
const DefaultNewPerReview = 4

// SelectDue returns the ordered queue of item IDs for a session: due review
// cards ascending by due time (most overdue first, ties broken by item ID),
// with new cards interleaved after every NewPerReview review cards so a
// session is never front-loaded with unfamiliar material. When the due
// review cards cannot fill the limit, remaining slots are filled with new
// cards regardless of the ratio. The result is truncated to limit.
//
// SelectDue is a pure query: same records, now and limit always yield the
// same queue.
func SelectDue(records []entity.SchedulingRecord, now time.Time, limit int, opts SelectOptions) ([]string, error) {
	if limit <= 0 {
		return nil, entity.ErrInvalidLimit
	}
	ratio := opts.NewPerReview
	if ratio < 1 {
		ratio = DefaultNewPerReview
	}

	due := lo.Filter(records, func(r entity.SchedulingRecord, _ int) bool {
		return r.Due(now)
	})
	fresh := lo.Filter(due, func(r entity.SchedulingRecord, _ int) bool {
		return r.IsNew()
	})
	review := lo.Filter(due, func(r entity.SchedulingRecord, _ int) bool {
		return !r.IsNew()
	})
	sortByDue(fresh)
	sortByDue(review)

	queue := make([]string, 0, limit)
	ri, ni := 0, 0
	sinceNew := 0
	for len(queue) < limit {
		switch {
		case ri < len(review) && (sinceNew < ratio || ni >= len(fresh)):
			queue = append(queue, review[ri].ItemID)
			ri++
			sinceNew++
		case ni < len(fresh):
			queue = append(queue, fresh[ni].ItemID)
			ni++
			sinceNew = 0
		default:
			return queue, nil
		}
	}
	return queue, nil
}

func sortByDue(records []entity.SchedulingRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].DueAt.Equal(records[j].DueAt) {
			return records[i].ItemID < records[j].ItemID
		}
		return records[i].DueAt.Before(records[j].DueAt)
	})
}
