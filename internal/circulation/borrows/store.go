package borrows

import (
	"context"
	"strconv"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/oklog/ulid/v2"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/apierr"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/db"
)

const table = "borrows"

var columns = []any{
	"id", "borrow_ulid", "book_id", "member_id", "borrow_date", "due_date", "return_date", "returned",
}

type Store struct {
	db *db.DB
	b  goqu.DialectWrapper
}

func NewStore(conn *db.DB) *Store {
	return &Store{db: conn, b: conn.Dialect.Builder()}
}

// Key addresses one borrow by numeric id or by ULID.
type Key struct {
	col string
	val any
}

func IDKey(id int64) Key { return Key{col: "id", val: id} }

// ParseKey accepts a numeric id or a borrow ULID.
func ParseKey(s string) (Key, error) {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil && id > 0 {
		return IDKey(id), nil
	}
	if u, err := ulid.ParseStrict(s); err == nil {
		return Key{col: "borrow_ulid", val: u.String()}, nil
	}
	return Key{}, apierr.ErrInvalid("borrow id must be a positive integer or a ULID")
}

func (k Key) expr() exp.Expression { return goqu.C(k.col).Eq(k.val) }

func (k Key) on(alias string) exp.Expression { return goqu.I(alias + "." + k.col).Eq(k.val) }

func (s *Store) GetForUpdateTx(ctx context.Context, tx db.DBTX, k Key) (*Borrow, error) {
	var b Borrow
	ds := s.b.From(table).Prepared(true).Select(columns...).Where(k.expr())
	if err := db.Get(ctx, tx, &b, s.db.Dialect.ForUpdate(ds)); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) InsertTx(ctx context.Context, tx db.DBTX, b *Borrow) (int64, error) {
	return db.Insert(ctx, tx, s.db.Dialect, s.b.Insert(table).Prepared(true).Rows(goqu.Record{
		"borrow_ulid": b.BorrowULID,
		"book_id":     b.BookID,
		"member_id":   b.MemberID,
		"borrow_date": b.BorrowDate,
		"due_date":    b.DueDate,
		"return_date": nil,
		"returned":    false,
	}))
}

// MarkReturnedTx flips returned once. It reports false when the borrow was already closed.
func (s *Store) MarkReturnedTx(ctx context.Context, tx db.DBTX, id int64, at time.Time) (bool, error) {
	n, err := db.Exec(ctx, tx, s.b.Update(table).Prepared(true).
		Set(goqu.Record{"returned": true, "return_date": at}).
		Where(goqu.C("id").Eq(id), goqu.C("returned").IsFalse()))
	return n == 1, err
}

// ===== joined reads =====

func (s *Store) selectDetails() *goqu.SelectDataset {
	return s.b.From(goqu.T(table).As("br")).Prepared(true).
		Join(goqu.T("books").As("bk"), goqu.On(goqu.I("bk.id").Eq(goqu.I("br.book_id")))).
		Join(goqu.T("members").As("m"), goqu.On(goqu.I("m.id").Eq(goqu.I("br.member_id")))).
		Select(
			goqu.I("br.id").As("id"),
			goqu.I("br.borrow_ulid").As("borrow_ulid"),
			goqu.I("br.book_id").As("book_id"),
			goqu.I("br.member_id").As("member_id"),
			goqu.I("br.borrow_date").As("borrow_date"),
			goqu.I("br.due_date").As("due_date"),
			goqu.I("br.return_date").As("return_date"),
			goqu.I("br.returned").As("returned"),
			goqu.I("bk.title").As("book_title"),
			goqu.I("m.name").As("member_name"),
		)
}

func (s *Store) GetDetails(ctx context.Context, q db.DBTX, k Key) (*BorrowWithDetails, error) {
	var out BorrowWithDetails
	if err := db.Get(ctx, q, &out, s.selectDetails().Where(k.on("br"))); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) List(ctx context.Context, q db.DBTX, f Filter, now time.Time) ([]BorrowWithDetails, int64, error) {
	ds := s.selectDetails()
	if f.Returned != nil {
		if *f.Returned {
			ds = ds.Where(goqu.I("br.returned").IsTrue())
		} else {
			ds = ds.Where(goqu.I("br.returned").IsFalse())
		}
	}
	if f.MemberID != nil {
		ds = ds.Where(goqu.I("br.member_id").Eq(*f.MemberID))
	}
	if f.BookID != nil {
		ds = ds.Where(goqu.I("br.book_id").Eq(*f.BookID))
	}
	if f.Overdue {
		ds = ds.Where(goqu.I("br.returned").IsFalse(), goqu.I("br.due_date").Lt(now))
	}

	total, err := db.Count(ctx, q, ds)
	if err != nil {
		return nil, 0, err
	}
	items := []BorrowWithDetails{}
	if err := db.Select(ctx, q, &items, f.Page.Apply(ds.Order(goqu.I("br.id").Asc()))); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
