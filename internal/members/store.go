package members

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/db"
)

const table = "members"

var columns = []any{"id", "name", "email", "phone", "address", "join_date", "is_active"}

type Store struct {
	db *db.DB
	b  goqu.DialectWrapper
}

func NewStore(conn *db.DB) *Store {
	return &Store{db: conn, b: conn.Dialect.Builder()}
}

func (s *Store) selectMembers() *goqu.SelectDataset {
	return s.b.From(table).Prepared(true).Select(columns...)
}

func (s *Store) List(ctx context.Context, q db.DBTX, lq ListQuery) ([]Member, int64, error) {
	ds := s.selectMembers()
	if lq.Search != "" {
		ds = ds.Where(goqu.Or(
			db.Contains("name", lq.Search),
			db.Contains("email", lq.Search),
		))
	}

	total, err := db.Count(ctx, q, ds)
	if err != nil {
		return nil, 0, err
	}
	items := []Member{}
	if err := db.Select(ctx, q, &items, lq.Page.Apply(ds.Order(goqu.C("id").Asc()))); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) Get(ctx context.Context, q db.DBTX, id int64) (*Member, error) {
	var m Member
	if err := db.Get(ctx, q, &m, s.selectMembers().Where(goqu.C("id").Eq(id))); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) GetForUpdateTx(ctx context.Context, tx db.DBTX, id int64) (*Member, error) {
	var m Member
	ds := s.db.Dialect.ForUpdate(s.selectMembers().Where(goqu.C("id").Eq(id)))
	if err := db.Get(ctx, tx, &m, ds); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) Insert(ctx context.Context, q db.DBTX, rec goqu.Record) (int64, error) {
	return db.Insert(ctx, q, s.db.Dialect, s.b.Insert(table).Prepared(true).Rows(rec))
}

func (s *Store) Update(ctx context.Context, q db.DBTX, id int64, rec goqu.Record) (int64, error) {
	return db.Exec(ctx, q, s.b.Update(table).Prepared(true).Set(rec).Where(goqu.C("id").Eq(id)))
}

func (s *Store) Delete(ctx context.Context, q db.DBTX, id int64) (int64, error) {
	return db.Exec(ctx, q, s.b.Delete(table).Prepared(true).Where(goqu.C("id").Eq(id)))
}

func (s *Store) CountOpenBorrowsTx(ctx context.Context, tx db.DBTX, id int64) (int64, error) {
	return db.Count(ctx, tx, s.b.From("borrows").Prepared(true).
		Where(goqu.C("member_id").Eq(id), goqu.C("returned").IsFalse()))
}
