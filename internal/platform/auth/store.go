package auth

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/db"
)

const accountsTable = "staff_accounts"

type Account struct {
	ID           string    `db:"id"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	IsDisabled   bool      `db:"is_disabled"`
	CreatedAt    time.Time `db:"created_at"`
}

type AccountStore interface {
	GetByID(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, a *Account) error
	Delete(ctx context.Context, id string) (int64, error)
	SetDisabled(ctx context.Context, id string, disabled bool) (int64, error)
}

type Store struct {
	db *db.DB
	b  goqu.DialectWrapper
}

func NewStore(conn *db.DB) *Store {
	return &Store{db: conn, b: conn.Dialect.Builder()}
}

// GetByID returns nil, nil when the account does not exist.
func (s *Store) GetByID(ctx context.Context, id string) (*Account, error) {
	var a Account
	ds := s.b.From(accountsTable).Prepared(true).
		Select("id", "password_hash", "role", "is_disabled", "created_at").
		Where(goqu.C("id").Eq(id)).
		Limit(1)
	err := db.Get(ctx, s.db, &a, ds)
	if db.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) Create(ctx context.Context, a *Account) error {
	ds := s.b.Insert(accountsTable).Prepared(true).Rows(goqu.Record{
		"id":            a.ID,
		"password_hash": a.PasswordHash,
		"role":          a.Role,
		"is_disabled":   a.IsDisabled,
		"created_at":    a.CreatedAt,
	})
	_, err := db.Exec(ctx, s.db, ds)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	return db.Exec(ctx, s.db, s.b.Delete(accountsTable).Prepared(true).Where(goqu.C("id").Eq(id)))
}

func (s *Store) SetDisabled(ctx context.Context, id string, disabled bool) (int64, error) {
	return db.Exec(ctx, s.db, s.b.Update(accountsTable).Prepared(true).
		Set(goqu.Record{"is_disabled": disabled}).
		Where(goqu.C("id").Eq(id)))
}
