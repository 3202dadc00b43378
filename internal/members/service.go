package members

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/go-playground/validator/v10"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/apierr"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/db"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/logging"
)

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

var validate = validator.New()

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

func (s *Service) Store() *Store { return s.store }

func (s *Service) List(ctx context.Context, q ListQuery) ([]Member, int64, error) {
	p, err := q.Page.Normalize()
	if err != nil {
		return nil, 0, err
	}
	q.Page = p
	q.Search = strings.TrimSpace(q.Search)
	return s.store.List(ctx, s.db, q)
}

func (s *Service) Get(ctx context.Context, id int64) (Member, error) {
	m, err := s.store.Get(ctx, s.db, id)
	if err != nil {
		return Member{}, notFoundOr(err)
	}
	return *m, nil
}

func (s *Service) Create(ctx context.Context, in CreateMemberRequest) (Member, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Member{}, apierr.ErrInvalid("name is required")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return Member{}, err
	}

	rec := goqu.Record{
		"name":      name,
		"email":     email,
		"phone":     optional(in.Phone),
		"address":   optional(in.Address),
		"join_date": s.clock.Now().UTC().Truncate(time.Microsecond),
		"is_active": true,
	}

	var out *Member
	err = db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		id, err := s.store.Insert(ctx, tx, rec)
		if err != nil {
			return classify(err)
		}
		out, err = s.store.Get(ctx, tx, id)
		return err
	})
	if err != nil {
		return Member{}, err
	}
	s.log.Info("member created", "member_id", out.ID)
	return *out, nil
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateMemberRequest) (Member, error) {
	rec := goqu.Record{}
	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if v == "" {
			return Member{}, apierr.ErrInvalid("name must not be empty")
		}
		rec["name"] = v
	}
	if in.Email != nil {
		email, err := normalizeEmail(in.Email)
		if err != nil {
			return Member{}, err
		}
		rec["email"] = email
	}
	if in.Phone != nil {
		rec["phone"] = optional(in.Phone)
	}
	if in.Address != nil {
		rec["address"] = optional(in.Address)
	}
	if in.IsActive != nil {
		rec["is_active"] = *in.IsActive
	}

	var out *Member
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		if _, err := s.store.GetForUpdateTx(ctx, tx, id); err != nil {
			return notFoundOr(err)
		}
		if len(rec) > 0 {
			if _, err := s.store.Update(ctx, tx, id, rec); err != nil {
				return classify(err)
			}
		}
		var err error
		out, err = s.store.Get(ctx, tx, id)
		return err
	})
	if err != nil {
		return Member{}, err
	}
	return *out, nil
}

// Delete removes the member and their closed borrow history. Members with books still
// out are kept.
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
			return apierr.ErrConflict(fmt.Sprintf("member has %d active borrow(s)", open))
		}
		_, err = s.store.Delete(ctx, tx, id)
		return err
	})
	if err != nil {
		return err
	}
	s.log.Info("member deleted", "member_id", id)
	return nil
}

// normalizeEmail maps "" to NULL and checks the syntax of anything else.
func normalizeEmail(p *string) (any, error) {
	v := optional(p)
	if v == nil {
		return nil, nil
	}
	if err := validate.Var(v, "email"); err != nil {
		return nil, apierr.ErrInvalid("email is not a valid address")
	}
	return v, nil
}

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

func classify(err error) error {
	if db.IsDuplicateKey(err) {
		return apierr.ErrConflict("Email already registered")
	}
	return err
}

func notFoundOr(err error) error {
	if db.IsNoRows(err) {
		return apierr.ErrNotFound("member not found")
	}
	return err
}
