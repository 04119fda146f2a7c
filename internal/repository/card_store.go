package repository

import (
	"context"

	"github.com/voxlearn/vox/internal/entity"
)

// ListItemQuery holds parameters for listing items.
type ListItemQuery struct {
	Pagination
	FilterOrder
}

// CardStore abstracts persistence for items and their scheduling records.
// The review engine depends on this interface only; concrete storage lives
// in adapter/repository.
type CardStore interface {
	// ListItemsWithRecords returns every item together with its current
	// scheduling record, for due-queue selection.
	ListItemsWithRecords(ctx context.Context) ([]entity.ItemWithRecord, error)
	// SaveRecord updates one scheduling record; called once per rated card.
	// Records exist from item creation, so a missing row is ErrItemNotFound.
	SaveRecord(ctx context.Context, record entity.SchedulingRecord) error

	// CreateItem persists a new item and its new-card scheduling record
	// atomically.
	CreateItem(ctx context.Context, item *entity.Item, record entity.SchedulingRecord) (*entity.Item, error)
	GetItem(ctx context.Context, id string) (*entity.Item, error)
	FindByFront(ctx context.Context, front string) (*entity.Item, error)
	UpdateItem(ctx context.Context, item *entity.Item) (*entity.Item, error)
	// DeleteItem removes an item and its scheduling record together.
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context, query *ListItemQuery) ([]entity.Item, int64, error)
}
