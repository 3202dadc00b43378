package books

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/apierr"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/db"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/logging"
)

// -------------- Clock --------------

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// -------------- Service --------------

type Service struct {
	db    *db.DB
	store *Store
	clock Clock
	log   logging.Logger
}

type Option func(*Service)

func WithClock(c Clock) Option { return func(s *Service) { s.clock = c } }

func WithLogger(l logging.Logger) Option { return func(s *Service) { s.log = l } }

func NewService(conn *db.DB, opts ...Option) *Service {
	s := &Service{db: conn, store: NewStore(conn), clock: realClock{}, log: logging.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Store exposes the counters to the borrow workflow.
func (s *Service) Store() *Store { return s.store }

func (s *Service) List(ctx context.Context, q ListQuery) ([]Book, int64, error) {
	p, err := q.Page.Normalize()
	if err != nil {
		return nil, 0, err
	}
	q.Page = p
	q.Search = strings.TrimSpace(q.Search)
	return s.store.List(ctx, s.db, q)
}

func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	b, err := s.store.Get(ctx, s.db, id)
	if err != nil {
		return Book{}, notFoundOr(err)
	}
	return *b, nil
}

func (s *Service) Create(ctx context.Context, in CreateBookRequest) (Book, error) {
	title, author := strings.TrimSpace(in.Title), strings.TrimSpace(in.Author)
	if title == "" || author == "" {
		return Book{}, apierr.ErrInvalid("title and author are required")
	}
	copies := 1
	if in.Copies != nil {
		copies = *in.Copies
	}
	if copies < 0 {
		return Book{}, apierr.ErrInvalid("copies must be >= 0")
	}

	rec := goqu.Record{
		"title":            title,
		"author":           author,
		"published_year":   optionalInt(in.PublishedYear),
		"isbn":             optional(in.ISBN),
		"copies":           copies,
		"available_copies": copies,
		"likes":            0,
		"rating":           0.0,
		"rating_count":     0,
		"is_favorite":      false,
		"cover_id":         optional(in.CoverID),
		"created_at":       s.clock.Now().UTC().Truncate(time.Microsecond),
	}

	var out *Book
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		id, err := s.store.Insert(ctx, tx, rec)
		if err != nil {
			return fmt.Errorf("insert book: %w", err)
		}
		out, err = s.store.Get(ctx, tx, id)
		return err
	})
	if err != nil {
		return Book{}, err
	}
	s.log.Info("book created", "book_id", out.ID, "copies", out.Copies)
	return *out, nil
}

// Update applies only the fields present in the request. A change to copies moves
// available_copies by the same amount.
func (s *Service) Update(ctx context.Context, id int64, in UpdateBookRequest) (Book, error) {
	var out *Book
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		cur, err := s.store.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return notFoundOr(err)
		}

		rec, err := updateRecord(cur, in)
		if err != nil {
			return err
		}
		if len(rec) > 0 {
			if _, err := s.store.Update(ctx, tx, id, rec); err != nil {
				return fmt.Errorf("update book: %w", err)
			}
		}
		out, err = s.store.Get(ctx, tx, id)
		return err
	})
	if err != nil {
		return Book{}, err
	}
	return *out, nil
}

func updateRecord(cur *Book, in UpdateBookRequest) (goqu.Record, error) {
	rec := goqu.Record{}
	if in.Title != nil {
		v := strings.TrimSpace(*in.Title)
		if v == "" {
			return nil, apierr.ErrInvalid("title must not be empty")
		}
		rec["title"] = v
	}
	if in.Author != nil {
		v := strings.TrimSpace(*in.Author)
		if v == "" {
			return nil, apierr.ErrInvalid("author must not be empty")
		}
		rec["author"] = v
	}
	if in.PublishedYear != nil {
		rec["published_year"] = *in.PublishedYear
	}
	if in.ISBN != nil {
		rec["isbn"] = optional(in.ISBN)
	}
	if in.CoverID != nil {
		rec["cover_id"] = optional(in.CoverID)
	}
	if in.IsFavorite != nil {
		rec["is_favorite"] = *in.IsFavorite
	}
	if in.Copies != nil {
		if *in.Copies < 0 {
			return nil, apierr.ErrInvalid("copies must be >= 0")
		}
		available := cur.AvailableCopies + (*in.Copies - cur.Copies)
		if available < 0 {
			onLoan := cur.Copies - cur.AvailableCopies
			return nil, apierr.ErrInvalid(fmt.Sprintf("copies cannot be lower than the %d copies on loan", onLoan))
		}
		rec["copies"] = *in.Copies
		rec["available_copies"] = available
	}
	return rec, nil
}

// Delete removes the book and its closed borrow history. Books still out on loan stay.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		if _, err := s.store.GetForUpdateTx(ctx, tx, id); err != nil {
			return notFoundOr(err)
		}
		open, err := s.store.CountOpenBorrowsTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			return apierr.ErrConflict(fmt.Sprintf("book has %d active borrow(s)", open))
		}
		_, err = s.store.Delete(ctx, tx, id)
		return err
	})
	if err != nil {
		return err
	}
	s.log.Info("book deleted", "book_id", id)
	return nil
}

func (s *Service) Like(ctx context.Context, id int64) (Book, error) {
	return s.mutate(ctx, id, s.store.IncrementLikes)
}

func (s *Service) ToggleFavorite(ctx context.Context, id int64) (Book, error) {
	return s.mutate(ctx, id, s.store.ToggleFavorite)
}

func (s *Service) mutate(ctx context.Context, id int64, fn func(context.Context, db.DBTX, int64) (int64, error)) (Book, error) {
	var out *Book
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		n, err := fn(ctx, tx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return apierr.ErrNotFound("book not found")
		}
		out, err = s.store.Get(ctx, tx, id)
		return err
	})
	if err != nil {
		return Book{}, err
	}
	return *out, nil
}

// Rate folds r into the running average, rounded to one decimal.
func (s *Service) Rate(ctx context.Context, id int64, r float64) (Book, error) {
	if math.IsNaN(r) || r < 0 || r > 5 {
		return Book{}, apierr.ErrInvalid("rating must be between 0 and 5")
	}
	var out *Book
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		cur, err := s.store.GetForUpdateTx(ctx, tx, id)
		if err != nil {
			return notFoundOr(err)
		}
		rating, count := nextRating(cur.Rating, cur.RatingCount, r)
		if _, err := s.store.Update(ctx, tx, id, goqu.Record{"rating": rating, "rating_count": count}); err != nil {
			return fmt.Errorf("update rating: %w", err)
		}
		out, err = s.store.Get(ctx, tx, id)
		return err
	})
	if err != nil {
		return Book{}, err
	}
	return *out, nil
}

func nextRating(avg float64, count int, r float64) (float64, int) {
	if count == 0 {
		return round1(r), 1
	}
	return round1((avg*float64(count) + r) / float64(count+1)), count + 1
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// optional maps "" to NULL.
func optional(p *string) any {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return v
}

func optionalInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func notFoundOr(err error) error {
	if db.IsNoRows(err) {
		return apierr.ErrNotFound("book not found")
	}
	return err
}
