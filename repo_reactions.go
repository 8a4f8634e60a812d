package nippo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Reactions is the reaction store. Toggle is the only write path: the same
// user reacting twice with the same emoji removes the first reaction.
type Reactions interface {
	Toggle(ctx context.Context, reportID, userID uuid.UUID, emojiName string) (added bool, err error)
	ToggleTx(ctx context.Context, tx bun.IDB, reportID, userID uuid.UUID, emojiName string) (bool, error)
	ListByReport(ctx context.Context, reportID uuid.UUID) ([]*Reaction, error)
	DeleteByReportTx(ctx context.Context, tx bun.IDB, reportID uuid.UUID) error
}

type reactions struct {
	db *bun.DB
}

var _ Reactions = (*reactions)(nil)

func NewReactionsRepository(db *bun.DB) Reactions {
	return &reactions{db: db}
}

func (r *reactions) Toggle(ctx context.Context, reportID, userID uuid.UUID, emojiName string) (bool, error) {
	return r.ToggleTx(ctx, r.db, reportID, userID, emojiName)
}

func (r *reactions) ToggleTx(ctx context.Context, tx bun.IDB, reportID, userID uuid.UUID, emojiName string) (bool, error) {
	existing := &Reaction{}
	err := tx.NewSelect().
		Model(existing).
		Where("?TableAlias.report_id = ? AND ?TableAlias.user_id = ? AND ?TableAlias.emoji_name = ?",
			reportID, userID, emojiName).
		Limit(1).
		Scan(ctx)

	if err == nil {
		_, err = tx.NewDelete().
			Model((*Reaction)(nil)).
			Where("id = ?", existing.ID).
			Exec(ctx)
		return false, err
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	record := &Reaction{
		ID:        uuid.New(),
		ReportID:  reportID,
		UserID:    userID,
		EmojiName: emojiName,
	}

	_, err = tx.NewInsert().
		Model(record).
		Exec(ctx)

	return err == nil, err
}

func (r *reactions) ListByReport(ctx context.Context, reportID uuid.UUID) ([]*Reaction, error) {
	var records []*Reaction
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.report_id = ?", reportID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*Reaction{}, nil
		}
		return nil, err
	}

	return records, nil
}

func (r *reactions) DeleteByReportTx(ctx context.Context, tx bun.IDB, reportID uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*Reaction)(nil)).
		Where("report_id = ?", reportID).
		Exec(ctx)
	return err
}
