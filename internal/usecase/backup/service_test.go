package backup

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/voxlearn/vox/internal/entity"
	"github.com/voxlearn/vox/internal/repository"
	"github.com/voxlearn/vox/internal/srs"
)

type memStore struct {
	items   map[string]entity.Item
	records map[string]entity.SchedulingRecord
	order   []string
}

func newMemStore() *memStore {
	return &memStore{
		items:   map[string]entity.Item{},
		records: map[string]entity.SchedulingRecord{},
	}
}

func (m *memStore) ListItemsWithRecords(ctx context.Context) ([]entity.ItemWithRecord, error) {
	pairs := make([]entity.ItemWithRecord, 0, len(m.order))
	for _, id := range m.order {
		pairs = append(pairs, entity.ItemWithRecord{Item: m.items[id], Record: m.records[id]})
	}
	return pairs, nil
}

func (m *memStore) SaveRecord(ctx context.Context, record entity.SchedulingRecord) error {
	if _, ok := m.records[record.ItemID]; !ok {
		return entity.ErrItemNotFound
	}
	m.records[record.ItemID] = record
	return nil
}

func (m *memStore) CreateItem(ctx context.Context, item *entity.Item, record entity.SchedulingRecord) (*entity.Item, error) {
	m.items[item.ID] = *item
	m.records[item.ID] = record
	m.order = append(m.order, item.ID)
	return item, nil
}

func (m *memStore) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, entity.ErrItemNotFound
	}
	return &item, nil
}

func (m *memStore) FindByFront(ctx context.Context, front string) (*entity.Item, error) {
	for _, item := range m.items {
		if strings.EqualFold(item.Front, front) {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memStore) UpdateItem(ctx context.Context, item *entity.Item) (*entity.Item, error) {
	if _, ok := m.items[item.ID]; !ok {
		return nil, entity.ErrItemNotFound
	}
	m.items[item.ID] = *item
	return item, nil
}

func (m *memStore) DeleteItem(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return entity.ErrItemNotFound
	}
	delete(m.items, id)
	delete(m.records, id)
	return nil
}

func (m *memStore) ListItems(ctx context.Context, query *repository.ListItemQuery) ([]entity.Item, int64, error) {
	items := make([]entity.Item, 0, len(m.order))
	for _, id := range m.order {
		items = append(items, m.items[id])
	}
	return items, int64(len(items)), nil
}

var _ repository.CardStore = (*memStore)(nil)

func seed(store *memStore, id, front, back string, now time.Time) {
	item := entity.Item{ID: id, Front: front, Back: back, Tags: []string{}, CreatedAt: now, UpdatedAt: now}
	record := srs.DefaultParams().NewRecord(id, now)
	store.CreateItem(context.Background(), &item, record)
}

func TestExportImportRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	src := newMemStore()
	seed(src, "id-1", "你好", "hello", now)
	seed(src, "id-2", "再见", "goodbye", now)

	reviewed := srs.DefaultParams().NextRecord(src.records["id-1"], entity.RatingGood, now)
	if err := src.SaveRecord(context.Background(), reviewed); err != nil {
		t.Fatalf("save record: %v", err)
	}

	var buf bytes.Buffer
	if err := NewService(src).Export(context.Background(), &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected meta + 2 card lines, got %d", len(lines))
	}

	dst := newMemStore()
	imported, err := NewService(dst).Import(context.Background(), &buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported != 2 {
		t.Fatalf("expected 2 imported cards, got %d", imported)
	}

	got := dst.records["id-1"]
	if got.Repetitions != 1 || got.IntervalDays != 1 {
		t.Fatalf("scheduling state lost on round trip: %+v", got)
	}
	if dst.items["id-2"].Back != "goodbye" {
		t.Fatalf("item text lost on round trip: %+v", dst.items["id-2"])
	}
}

func TestImportSkipsExistingFronts(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	src := newMemStore()
	seed(src, "id-1", "你好", "hello", now)

	var buf bytes.Buffer
	if err := NewService(src).Export(context.Background(), &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := newMemStore()
	seed(dst, "other-id", "你好", "hi there", now)

	imported, err := NewService(dst).Import(context.Background(), &buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if imported != 0 {
		t.Fatalf("expected duplicate front to be skipped, imported %d", imported)
	}
	if dst.items["other-id"].Back != "hi there" {
		t.Fatalf("existing card should be untouched: %+v", dst.items["other-id"])
	}
}

func TestImportRejectsBadStream(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not json", "hello world"},
		{"missing meta", `{"type":"card","payload":{}}`},
		{"wrong version", `{"type":"meta","payload":{"version":99}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewService(newMemStore()).Import(context.Background(), strings.NewReader(tc.input))
			if !errors.Is(err, ErrBadFormat) {
				t.Fatalf("expected ErrBadFormat, got %v", err)
			}
		})
	}
}
