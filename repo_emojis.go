package nippo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CustomEmojis is the custom emoji store
type CustomEmojis interface {
	List(ctx context.Context) ([]*CustomEmoji, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CustomEmoji, error)
	Create(ctx context.Context, record *CustomEmoji) (*CustomEmoji, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type customEmojis struct {
	db *bun.DB
}

var _ CustomEmojis = (*customEmojis)(nil)

func NewCustomEmojisRepository(db *bun.DB) CustomEmojis {
	return &customEmojis{db: db}
}

func (r *customEmojis) List(ctx context.Context) ([]*CustomEmoji, error) {
	var records []*CustomEmoji
	err := r.db.NewSelect().
		Model(&records).
		Order("emj.created_at ASC").
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*CustomEmoji{}, nil
		}
		return nil, err
	}

	return records, nil
}

func (r *customEmojis) GetByID(ctx context.Context, id uuid.UUID) (*CustomEmoji, error) {
	record := &CustomEmoji{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEmojiNotFound
		}
		return nil, err
	}

	return record, nil
}

func (r *customEmojis) Create(ctx context.Context, record *CustomEmoji) (*CustomEmoji, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	_, err := r.db.NewInsert().
		Model(record).
		Exec(ctx)

	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r *customEmojis) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*CustomEmoji)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
