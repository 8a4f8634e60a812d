package nippo

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	Reports() Reports
	Reactions() Reactions
	CustomEmojis() CustomEmojis
}

type mngr struct {
	db        *bun.DB
	users     Users
	reports   Reports
	reactions Reactions
	emojis    CustomEmojis
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:        db,
		users:     NewUsersRepository(db),
		reports:   NewReportsRepository(db),
		reactions: NewReactionsRepository(db),
		emojis:    NewCustomEmojisRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.reports == nil {
		return errors.New("repository reports should be initialized")
	}

	if m.reactions == nil {
		return errors.New("repository reactions should be initialized")
	}

	if m.emojis == nil {
		return errors.New("repository emojis should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Reports() Reports {
	return m.reports
}

func (m mngr) Reactions() Reactions {
	return m.reactions
}

func (m mngr) CustomEmojis() CustomEmojis {
	return m.emojis
}
