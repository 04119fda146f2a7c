package entity

import (
	"strings"
	"time"
)

// Item is a single learning unit: a front/back text pair with an optional
// phonetic annotation and free-form tags. The scheduling engine never
// mutates item content; it only reads it to derive prompts and answers.
type Item struct {
	ID        string
	Front     string
	Back      string
	Phonetic  string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemWithRecord pairs an item with its current scheduling state, as
// returned by the card store in a single read.
type ItemWithRecord struct {
	Item   Item
	Record SchedulingRecord
}

// Normalize ensures defaults & constraints before persistence.
func (it *Item) Normalize(now time.Time) {
	it.Front = strings.TrimSpace(it.Front)
	it.Back = strings.TrimSpace(it.Back)
	it.Phonetic = strings.TrimSpace(it.Phonetic)
	if it.CreatedAt.IsZero() {
		it.CreatedAt = now
	}
	it.UpdatedAt = now
	if it.Tags == nil {
		it.Tags = []string{}
	}
}
