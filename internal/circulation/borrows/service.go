package borrows

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Mwendia1/LIBRATRACK/internal/catalog/books"
	"github.com/Mwendia1/LIBRATRACK/internal/members"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/apierr"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/db"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/logging"
)

// -------------- Clock & ID --------------

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// IDGen mints the public borrow key for a borrow made at t.
type IDGen interface {
	New(t time.Time) (string, error)
}
type ulidGen struct{}

func (ulidGen) New(t time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// -------------- Collaborators --------------

// Shelf is the part of the book store the workflow needs.
type Shelf interface {
	GetForUpdateTx(ctx context.Context, tx db.DBTX, id int64) (*books.Book, error)
	TakeCopyTx(ctx context.Context, tx db.DBTX, id int64) (bool, error)
	PutBackCopyTx(ctx context.Context, tx db.DBTX, id int64) (bool, error)
}

type Roster interface {
	Get(ctx context.Context, q db.DBTX, id int64) (*members.Member, error)
}

// -------------- Service --------------

type Service struct {
	db      *db.DB
	store   *Store
	shelf   Shelf
	members Roster
	clock   Clock
	id      IDGen
	log     logging.Logger
}

type Option func(*Service)

func WithClock(c Clock) Option { return func(s *Service) { s.clock = c } }

func WithIDGen(g IDGen) Option { return func(s *Service) { s.id = g } }

func WithLogger(l logging.Logger) Option { return func(s *Service) { s.log = l } }

func NewService(conn *db.DB, shelf Shelf, roster Roster, opts ...Option) *Service {
	s := &Service{
		db:      conn,
		store:   NewStore(conn),
		shelf:   shelf,
		members: roster,
		clock:   realClock{},
		id:      ulidGen{},
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) now() time.Time { return s.clock.Now().UTC().Truncate(time.Microsecond) }

// CreateBorrow lends one copy of a book to a member. The decrement and the insert
// commit together or not at all.
func (s *Service) CreateBorrow(ctx context.Context, in CreateBorrowRequest) (BorrowWithDetails, error) {
	if in.BookID <= 0 || in.MemberID <= 0 {
		return BorrowWithDetails{}, apierr.ErrInvalid("book_id and member_id must be positive")
	}

	now := s.now()
	key, err := s.id.New(now)
	if err != nil {
		return BorrowWithDetails{}, fmt.Errorf("generate borrow id: %w", err)
	}

	var out *BorrowWithDetails
	err = db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		// 本の行ロック → 在庫確認
		book, err := s.shelf.GetForUpdateTx(ctx, tx, in.BookID)
		if db.IsNoRows(err) {
			return apierr.ErrNotFound("Book not found")
		}
		if err != nil {
			return err
		}
		member, err := s.members.Get(ctx, tx, in.MemberID)
		if db.IsNoRows(err) {
			return apierr.ErrNotFound("Member not found")
		}
		if err != nil {
			return err
		}
		if !member.IsActive {
			return apierr.ErrInvalid("Member is not active")
		}
		if book.AvailableCopies < 1 {
			return apierr.ErrUnavailable("No copies available")
		}

		taken, err := s.shelf.TakeCopyTx(ctx, tx, book.ID)
		if err != nil {
			return fmt.Errorf("take copy: %w", err)
		}
		if !taken {
			return apierr.ErrUnavailable("No copies available")
		}

		b := &Borrow{
			BorrowULID: key,
			BookID:     book.ID,
			MemberID:   member.ID,
			BorrowDate: now,
			DueDate:    now.Add(LoanPeriod),
		}
		id, err := s.store.InsertTx(ctx, tx, b)
		if err != nil {
			return fmt.Errorf("insert borrow: %w", err)
		}
		out, err = s.store.GetDetails(ctx, tx, IDKey(id))
		return err
	})
	if err != nil {
		return BorrowWithDetails{}, err
	}

	s.log.Info("borrow created", "borrow_id", out.ID, "book_id", out.BookID, "member_id", out.MemberID)
	out.Overdue = isOverdue(&out.Borrow, now)
	return *out, nil
}

// ReturnBorrow closes a borrow and puts the copy back on the shelf.
func (s *Service) ReturnBorrow(ctx context.Context, key string, in ReturnRequest) (BorrowWithDetails, error) {
	k, err := ParseKey(key)
	if err != nil {
		return BorrowWithDetails{}, err
	}

	now := s.now()
	var out *BorrowWithDetails
	err = db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		b, err := s.store.GetForUpdateTx(ctx, tx, k)
		if db.IsNoRows(err) {
			return apierr.ErrNotFound("Borrow record not found")
		}
		if err != nil {
			return err
		}
		if b.Returned {
			return apierr.ErrAlreadyReturned("Book already returned")
		}

		at := now
		if in.ReturnDate != nil {
			at = in.ReturnDate.UTC().Truncate(time.Microsecond)
			if at.Before(b.BorrowDate) {
				return apierr.ErrInvalid("return_date must not be before borrow_date")
			}
			if at.After(now) {
				return apierr.ErrInvalid("return_date must not be in the future")
			}
		}

		marked, err := s.store.MarkReturnedTx(ctx, tx, b.ID, at)
		if err != nil {
			return fmt.Errorf("mark returned: %w", err)
		}
		if !marked {
			return apierr.ErrAlreadyReturned("Book already returned")
		}

		put, err := s.shelf.PutBackCopyTx(ctx, tx, b.BookID)
		if err != nil {
			return fmt.Errorf("put back copy: %w", err)
		}
		if !put {
			// available_copies はすでに copies と同数
			return apierr.ErrInternal(fmt.Sprintf("book %d has no copy out on loan", b.BookID))
		}

		out, err = s.store.GetDetails(ctx, tx, IDKey(b.ID))
		return err
	})
	if err != nil {
		return BorrowWithDetails{}, err
	}

	s.log.Info("borrow returned", "borrow_id", out.ID, "book_id", out.BookID)
	return *out, nil
}

func (s *Service) GetBorrow(ctx context.Context, key string) (BorrowWithDetails, error) {
	k, err := ParseKey(key)
	if err != nil {
		return BorrowWithDetails{}, err
	}
	b, err := s.store.GetDetails(ctx, s.db, k)
	if db.IsNoRows(err) {
		return BorrowWithDetails{}, apierr.ErrNotFound("Borrow record not found")
	}
	if err != nil {
		return BorrowWithDetails{}, err
	}
	b.Overdue = isOverdue(&b.Borrow, s.now())
	return *b, nil
}

func (s *Service) ListBorrows(ctx context.Context, f Filter) ([]BorrowWithDetails, int64, error) {
	p, err := f.Page.Normalize()
	if err != nil {
		return nil, 0, err
	}
	f.Page = p

	now := s.now()
	items, total, err := s.store.List(ctx, s.db, f, now)
	if err != nil {
		return nil, 0, err
	}
	for i := range items {
		items[i].Overdue = isOverdue(&items[i].Borrow, now)
	}
	return items, total, nil
}

// ListMemberBorrows is the borrow history of one member, oldest first.
func (s *Service) ListMemberBorrows(ctx context.Context, memberID int64, p Filter) ([]BorrowWithDetails, int64, error) {
	if _, err := s.members.Get(ctx, s.db, memberID); err != nil {
		if db.IsNoRows(err) {
			return nil, 0, apierr.ErrNotFound("Member not found")
		}
		return nil, 0, err
	}
	p.MemberID = &memberID
	return s.ListBorrows(ctx, p)
}

func isOverdue(b *Borrow, now time.Time) bool {
	return !b.Returned && b.DueDate.Before(now)
}
