package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/db"
)

type Stats struct {
	TotalBooks     int64 `json:"total_books"`
	TotalMembers   int64 `json:"total_members"`
	ActiveBorrows  int64 `json:"active_borrows"`
	OverdueBorrows int64 `json:"overdue_borrows"`
	AvailableBooks int64 `json:"available_books"`
}

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type Service struct {
	db    *db.DB
	b     goqu.DialectWrapper
	clock Clock
}

type Option func(*Service)

func WithClock(c Clock) Option { return func(s *Service) { s.clock = c } }

func NewService(conn *db.DB, opts ...Option) *Service {
	s := &Service{db: conn, b: conn.Dialect.Builder(), clock: realClock{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Stats runs five independent counts. They are not a point-in-time snapshot.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	now := s.clock.Now().UTC()
	books := s.b.From("books").Prepared(true)
	borrows := s.b.From("borrows").Prepared(true)

	var st Stats
	counts := []struct {
		name string
		dst  *int64
		ds   *goqu.SelectDataset
	}{
		{"total_books", &st.TotalBooks, books},
		{"total_members", &st.TotalMembers, s.b.From("members").Prepared(true)},
		{"active_borrows", &st.ActiveBorrows, borrows.Where(goqu.C("returned").IsFalse())},
		{"overdue_borrows", &st.OverdueBorrows, borrows.Where(goqu.C("returned").IsFalse(), goqu.C("due_date").Lt(now))},
		{"available_books", &st.AvailableBooks, books.Where(goqu.C("available_copies").Gt(0))},
	}

	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		for _, c := range counts {
			n, err := db.Count(ctx, tx, c.ds)
			if err != nil {
				return fmt.Errorf("count %s: %w", c.name, err)
			}
			*c.dst = n
		}
		return nil
	})
	if err != nil {
		return Stats{}, err
	}
	return st, nil
}
