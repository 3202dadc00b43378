package books

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/db"
)

const table = "books"

var columns = []any{
	"id", "title", "author", "published_year", "isbn", "copies", "available_copies",
	"likes", "rating", "rating_count", "is_favorite", "cover_id", "created_at",
}

type Store struct {
	db *db.DB
	b  goqu.DialectWrapper
}

func NewStore(conn *db.DB) *Store {
	return &Store{db: conn, b: conn.Dialect.Builder()}
}

func (s *Store) selectBooks() *goqu.SelectDataset {
	return s.b.From(table).Prepared(true).Select(columns...)
}

func byID(id int64) goqu.Ex { return goqu.Ex{"id": id} }

// List returns one page ordered by id plus the unpaged total.
func (s *Store) List(ctx context.Context, q db.DBTX, lq ListQuery) ([]Book, int64, error) {
	ds := s.selectBooks()
	if lq.Search != "" {
		ds = ds.Where(goqu.Or(
			db.Contains("title", lq.Search),
			db.Contains("author", lq.Search),
		))
	}

	total, err := db.Count(ctx, q, ds)
	if err != nil {
		return nil, 0, err
	}

	items := []Book{}
	if err := db.Select(ctx, q, &items, lq.Page.Apply(ds.Order(goqu.C("id").Asc()))); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) Get(ctx context.Context, q db.DBTX, id int64) (*Book, error) {
	var b Book
	if err := db.Get(ctx, q, &b, s.selectBooks().Where(byID(id))); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetForUpdateTx reads the row and holds its lock until tx ends.
func (s *Store) GetForUpdateTx(ctx context.Context, tx db.DBTX, id int64) (*Book, error) {
	var b Book
	ds := s.db.Dialect.ForUpdate(s.selectBooks().Where(byID(id)))
	if err := db.Get(ctx, tx, &b, ds); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetMany keeps the order of ids and skips the unknown ones.
func (s *Store) GetMany(ctx context.Context, q db.DBTX, ids []int64) ([]Book, error) {
	items := []Book{}
	if len(ids) == 0 {
		return items, nil
	}
	if err := db.Select(ctx, q, &items, s.selectBooks().Where(goqu.C("id").In(ids))); err != nil {
		return nil, err
	}
	pos := make(map[int64]Book, len(items))
	for _, b := range items {
		pos[b.ID] = b
	}
	out := make([]Book, 0, len(items))
	for _, id := range ids {
		if b, ok := pos[id]; ok {
			out = append(out, b)
			delete(pos, id)
		}
	}
	return out, nil
}

func (s *Store) Insert(ctx context.Context, q db.DBTX, rec goqu.Record) (int64, error) {
	return db.Insert(ctx, q, s.db.Dialect, s.b.Insert(table).Prepared(true).Rows(rec))
}

// Update writes rec to one row and returns the affected count.
func (s *Store) Update(ctx context.Context, q db.DBTX, id int64, rec goqu.Record) (int64, error) {
	return db.Exec(ctx, q, s.b.Update(table).Prepared(true).Set(rec).Where(byID(id)))
}

func (s *Store) Delete(ctx context.Context, q db.DBTX, id int64) (int64, error) {
	return db.Exec(ctx, q, s.b.Delete(table).Prepared(true).Where(byID(id)))
}

func (s *Store) IncrementLikes(ctx context.Context, q db.DBTX, id int64) (int64, error) {
	return s.Update(ctx, q, id, goqu.Record{"likes": goqu.L("likes + 1")})
}

func (s *Store) ToggleFavorite(ctx context.Context, q db.DBTX, id int64) (int64, error) {
	return s.Update(ctx, q, id, goqu.Record{"is_favorite": goqu.L("NOT is_favorite")})
}

// TakeCopyTx decrements available_copies only while at least one copy is on the shelf.
// It reports false when nothing was left to take.
func (s *Store) TakeCopyTx(ctx context.Context, tx db.DBTX, id int64) (bool, error) {
	n, err := db.Exec(ctx, tx, s.b.Update(table).Prepared(true).
		Set(goqu.Record{"available_copies": goqu.L("available_copies - 1")}).
		Where(byID(id), goqu.C("available_copies").Gt(0)))
	return n == 1, err
}

// PutBackCopyTx increments available_copies without passing copies.
func (s *Store) PutBackCopyTx(ctx context.Context, tx db.DBTX, id int64) (bool, error) {
	n, err := db.Exec(ctx, tx, s.b.Update(table).Prepared(true).
		Set(goqu.Record{"available_copies": goqu.L("available_copies + 1")}).
		Where(byID(id), goqu.L("available_copies < copies")))
	return n == 1, err
}

// CountOpenBorrowsTx counts loans of the book that have not come back yet.
func (s *Store) CountOpenBorrowsTx(ctx context.Context, tx db.DBTX, id int64) (int64, error) {
	return db.Count(ctx, tx, s.b.From("borrows").Prepared(true).
		Where(goqu.C("book_id").Eq(id), goqu.C("returned").IsFalse()))
}
