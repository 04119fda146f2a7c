package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voxlearn/vox/internal/entity"
	"github.com/voxlearn/vox/internal/repository"
	"github.com/voxlearn/vox/internal/srs"
)

// VocabUsecase encapsulates business logic for managing vocabulary items.
// Creating an item also creates its new-card scheduling record; deleting an
// item destroys both.
type VocabUsecase interface {
	AddItem(ctx context.Context, item *entity.Item) (*entity.Item, error)
	UpdateItem(ctx context.Context, item *entity.Item) (*entity.Item, error)
	GetItem(ctx context.Context, id string) (*entity.Item, error)
	ListItems(ctx context.Context, query *repository.ListItemQuery) ([]entity.Item, int64, error)
	DeleteItem(ctx context.Context, id string) error
}

// NewVocabUsecase wires the card store with default behaviour.
func NewVocabUsecase(store repository.CardStore, params srs.Params) VocabUsecase {
	return &vocabUsecase{
		store:  store,
		params: params,
		clock:  time.Now,
	}
}

type vocabUsecase struct {
	store  repository.CardStore
	params srs.Params
	clock  func() time.Time
}

func (u *vocabUsecase) AddItem(ctx context.Context, item *entity.Item) (*entity.Item, error) {
	if item == nil {
		return nil, entity.ErrInvalidItemText
	}
	front := strings.TrimSpace(item.Front)
	back := strings.TrimSpace(item.Back)
	if front == "" || back == "" {
		return nil, entity.ErrInvalidItemText
	}

	existing, err := u.store.FindByFront(ctx, front)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, entity.ErrDuplicateItem
	}

	now := u.clock()
	clone := *item
	clone.ID = uuid.NewString()
	clone.Normalize(now)

	record := u.params.NewRecord(clone.ID, now)
	return u.store.CreateItem(ctx, &clone, record)
}

func (u *vocabUsecase) UpdateItem(ctx context.Context, item *entity.Item) (*entity.Item, error) {
	if item == nil || item.ID == "" {
		return nil, entity.ErrItemNotFound
	}
	existing, err := u.store.GetItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	if front := strings.TrimSpace(item.Front); front != "" {
		existing.Front = front
	}
	if back := strings.TrimSpace(item.Back); back != "" {
		existing.Back = back
	}
	if item.Phonetic != "" {
		existing.Phonetic = item.Phonetic
	}
	if item.Tags != nil {
		existing.Tags = item.Tags
	}
	existing.Normalize(u.clock())

	return u.store.UpdateItem(ctx, existing)
}

func (u *vocabUsecase) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	if id == "" {
		return nil, entity.ErrItemNotFound
	}
	return u.store.GetItem(ctx, id)
}

func (u *vocabUsecase) ListItems(ctx context.Context, query *repository.ListItemQuery) ([]entity.Item, int64, error) {
	return u.store.ListItems(ctx, query)
}

func (u *vocabUsecase) DeleteItem(ctx context.Context, id string) error {
	if id == "" {
		return entity.ErrItemNotFound
	}
	return u.store.DeleteItem(ctx, id)
}
