package labels

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/Mwendia1/LIBRATRACK/internal/catalog/books"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/apierr"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/db"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/logging"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/paging"
)

type Catalog interface {
	GetMany(ctx context.Context, q db.DBTX, ids []int64) ([]books.Book, error)
}

type Service struct {
	db      *db.DB
	catalog Catalog
	log     logging.Logger
}

type Option func(*Service)

func WithLogger(l logging.Logger) Option { return func(s *Service) { s.log = l } }

func NewService(conn *db.DB, catalog Catalog, opts ...Option) *Service {
	s := &Service{db: conn, catalog: catalog, log: logging.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Rows resolves ids to label rows in the order given. Unknown ids are an error
// so that a short sheet is never printed silently.
func (s *Service) Rows(ctx context.Context, ids []int64) ([]Row, error) {
	if len(ids) == 0 {
		return nil, apierr.ErrInvalid("ids is required")
	}
	if len(ids) > paging.MaxLimit {
		return nil, apierr.ErrInvalid("too many ids")
	}
	items, err := s.catalog.GetMany(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	if len(items) != len(dedup(ids)) {
		return nil, apierr.ErrNotFound("Book not found: " + missing(ids, items))
	}

	rows := make([]Row, 0, len(items))
	for _, b := range items {
		rows = append(rows, rowFromBook(b))
	}
	return rows, nil
}

// Export renders the label sheet for ids.
func (s *Service) Export(ctx context.Context, ids []int64, enc Encoding) ([]byte, error) {
	rows, err := s.Rows(ctx, ids)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	if err := WriteCSV(&b, rows, enc); err != nil {
		return nil, err
	}
	s.log.Info("label sheet exported", "rows", len(rows), "encoding", string(enc))
	return b.Bytes(), nil
}

// ParseIDs reads "1,2,3". Blank entries are skipped.
func ParseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, apierr.ErrInvalid("ids must be a comma separated list of positive integers")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func dedup(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missing(ids []int64, found []books.Book) string {
	have := make(map[int64]struct{}, len(found))
	for _, b := range found {
		have[b.ID] = struct{}{}
	}
	var out []string
	for _, id := range dedup(ids) {
		if _, ok := have[id]; !ok {
			out = append(out, strconv.FormatInt(id, 10))
		}
	}
	return strings.Join(out, ",")
}
