// Package repository provides the sqlx-backed card store. It works on both
// the sqlite3 and postgres drivers; queries are written with ? placeholders
// and rebound per driver.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/voxlearn/vox/internal/entity"
	"github.com/voxlearn/vox/internal/repository"
)

type cardStore struct {
	db *sqlx.DB
}

// NewCardStore applies the schema and returns a store bound to db.
func NewCardStore(db *sqlx.DB) (repository.CardStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &cardStore{db: db}, nil
}

type itemRow struct {
	ID        string    `db:"id"`
	Front     string    `db:"front"`
	Back      string    `db:"back"`
	Phonetic  string    `db:"phonetic"`
	Tags      string    `db:"tags"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type recordRow struct {
	ItemID         string       `db:"item_id"`
	DueAt          time.Time    `db:"due_at"`
	IntervalDays   float64      `db:"interval_days"`
	EaseFactor     float64      `db:"ease_factor"`
	Repetitions    int          `db:"repetitions"`
	Lapses         int          `db:"lapses"`
	LastReviewedAt sql.NullTime `db:"last_reviewed_at"`
}

type pairRow struct {
	itemRow
	recordRow
}

func (r itemRow) toEntity() (entity.Item, error) {
	var tags []string
	if r.Tags != "" {
		if err := json.Unmarshal([]byte(r.Tags), &tags); err != nil {
			return entity.Item{}, fmt.Errorf("decode tags for item %s: %w", r.ID, err)
		}
	}
	if tags == nil {
		tags = []string{}
	}
	return entity.Item{
		ID:        r.ID,
		Front:     r.Front,
		Back:      r.Back,
		Phonetic:  r.Phonetic,
		Tags:      tags,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func (r recordRow) toEntity() entity.SchedulingRecord {
	rec := entity.SchedulingRecord{
		ItemID:       r.ItemID,
		DueAt:        r.DueAt,
		IntervalDays: r.IntervalDays,
		EaseFactor:   r.EaseFactor,
		Repetitions:  r.Repetitions,
		Lapses:       r.Lapses,
	}
	if r.LastReviewedAt.Valid {
		t := r.LastReviewedAt.Time
		rec.LastReviewedAt = &t
	}
	return rec
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(raw), nil
}

func (s *cardStore) ListItemsWithRecords(ctx context.Context) ([]entity.ItemWithRecord, error) {
	query := s.db.Rebind(`
		SELECT i.id, i.front, i.back, i.phonetic, i.tags, i.created_at, i.updated_at,
		       r.item_id, r.due_at, r.interval_days, r.ease_factor, r.repetitions, r.lapses, r.last_reviewed_at
		FROM items i
		JOIN scheduling_records r ON r.item_id = i.id
		ORDER BY i.id`)
	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items with records: %w", err)
	}
	defer rows.Close()

	var pairs []entity.ItemWithRecord
	for rows.Next() {
		var row pairRow
		if err := rows.Scan(
			&row.itemRow.ID, &row.Front, &row.Back, &row.Phonetic, &row.Tags, &row.CreatedAt, &row.UpdatedAt,
			&row.recordRow.ItemID, &row.DueAt, &row.IntervalDays, &row.EaseFactor, &row.Repetitions, &row.Lapses, &row.LastReviewedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		item, err := row.itemRow.toEntity()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, entity.ItemWithRecord{Item: item, Record: row.recordRow.toEntity()})
	}
	return pairs, rows.Err()
}

func (s *cardStore) SaveRecord(ctx context.Context, record entity.SchedulingRecord) error {
	var last sql.NullTime
	if record.LastReviewedAt != nil {
		last = sql.NullTime{Time: *record.LastReviewedAt, Valid: true}
	}
	query := s.db.Rebind(`
		UPDATE scheduling_records
		SET due_at = ?, interval_days = ?, ease_factor = ?, repetitions = ?, lapses = ?, last_reviewed_at = ?
		WHERE item_id = ?`)
	res, err := s.db.ExecContext(ctx, query,
		record.DueAt, record.IntervalDays, record.EaseFactor, record.Repetitions, record.Lapses, last, record.ItemID)
	if err != nil {
		return fmt.Errorf("save record for item %s: %w", record.ItemID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save record for item %s: %w", record.ItemID, err)
	}
	if affected == 0 {
		return entity.ErrItemNotFound
	}
	return nil
}

func (s *cardStore) CreateItem(ctx context.Context, item *entity.Item, record entity.SchedulingRecord) (*entity.Item, error) {
	tags, err := encodeTags(item.Tags)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create item: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	insertItem := tx.Rebind(`
		INSERT INTO items (id, front, back, phonetic, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, insertItem,
		item.ID, item.Front, item.Back, item.Phonetic, tags, item.CreatedAt, item.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert item %s: %w", item.ID, err)
	}

	var last sql.NullTime
	if record.LastReviewedAt != nil {
		last = sql.NullTime{Time: *record.LastReviewedAt, Valid: true}
	}
	insertRecord := tx.Rebind(`
		INSERT INTO scheduling_records (item_id, due_at, interval_days, ease_factor, repetitions, lapses, last_reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, insertRecord,
		record.ItemID, record.DueAt, record.IntervalDays, record.EaseFactor, record.Repetitions, record.Lapses, last); err != nil {
		return nil, fmt.Errorf("insert record for item %s: %w", item.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create item: %w", err)
	}
	out := *item
	return &out, nil
}

func (s *cardStore) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	var row itemRow
	query := s.db.Rebind(`SELECT id, front, back, phonetic, tags, created_at, updated_at FROM items WHERE id = ?`)
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrItemNotFound
		}
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	item, err := row.toEntity()
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *cardStore) FindByFront(ctx context.Context, front string) (*entity.Item, error) {
	var row itemRow
	query := s.db.Rebind(`SELECT id, front, back, phonetic, tags, created_at, updated_at FROM items WHERE lower(front) = lower(?)`)
	if err := s.db.GetContext(ctx, &row, query, front); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find item by front %q: %w", front, err)
	}
	item, err := row.toEntity()
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *cardStore) UpdateItem(ctx context.Context, item *entity.Item) (*entity.Item, error) {
	tags, err := encodeTags(item.Tags)
	if err != nil {
		return nil, err
	}
	query := s.db.Rebind(`
		UPDATE items SET front = ?, back = ?, phonetic = ?, tags = ?, updated_at = ?
		WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, item.Front, item.Back, item.Phonetic, tags, item.UpdatedAt, item.ID)
	if err != nil {
		return nil, fmt.Errorf("update item %s: %w", item.ID, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, entity.ErrItemNotFound
	}
	out := *item
	return &out, nil
}

func (s *cardStore) DeleteItem(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete item: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Explicit record delete keeps behaviour identical when foreign-key
	// cascades are disabled.
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM scheduling_records WHERE item_id = ?`), id); err != nil {
		return fmt.Errorf("delete record for item %s: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM items WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return entity.ErrItemNotFound
	}
	return tx.Commit()
}

func (s *cardStore) ListItems(ctx context.Context, query *repository.ListItemQuery) ([]entity.Item, int64, error) {
	params, err := bindListParams(query)
	if err != nil {
		return nil, 0, err
	}

	where, args := params.whereClause()

	var total int64
	countQuery := s.db.Rebind(`SELECT COUNT(*) FROM items` + where)
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	listQuery := `SELECT id, front, back, phonetic, tags, created_at, updated_at FROM items` +
		where + params.orderClause()
	pageArgs := args
	if query != nil && query.PageSize > 0 {
		listQuery += ` LIMIT ? OFFSET ?`
		offset := query.Offset()
		if offset < 0 {
			offset = 0
		}
		pageArgs = append(append([]any{}, args...), query.PageSize, offset)
	}

	var rows []itemRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(listQuery), pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}

	items := make([]entity.Item, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, nil
}
