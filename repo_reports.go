package nippo

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Reports is the journal entry store
type Reports interface {
	repository.Repository[*Report]

	ListByDate(ctx context.Context, date string) ([]*Report, error)
	ListByDateTx(ctx context.Context, tx bun.IDB, date string) ([]*Report, error)
	DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type reports struct {
	repository.Repository[*Report]
	db *bun.DB
}

var _ Reports = (*reports)(nil)

func NewReportsRepository(db *bun.DB) Reports {
	repo := repository.NewRepository[*Report](db, repository.ModelHandlers[*Report]{
		NewRecord: func() *Report { return &Report{} },
		GetID: func(r *Report) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Report, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
	})

	return &reports{
		Repository: repo,
		db:         db,
	}
}

func (a *reports) ListByDate(ctx context.Context, date string) ([]*Report, error) {
	return a.ListByDateTx(ctx, a.db, date)
}

func (a *reports) ListByDateTx(ctx context.Context, tx bun.IDB, date string) ([]*Report, error) {
	var records []*Report
	err := tx.NewSelect().
		Model(&records).
		Relation("User").
		Relation("Reactions").
		Where("?TableAlias.report_date = ?", date).
		Order("rpt.created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (a *reports) DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*Report)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
