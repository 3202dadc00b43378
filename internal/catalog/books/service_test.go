package books

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/apierr"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/db"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/db/dbtest"
	"github.com/Mwendia1/LIBRATRACK/internal/platform/paging"
)

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

func ptr[T any](v T) *T { return &v }

func newService(t *testing.T) (*Service, *db.DB) {
	t.Helper()
	conn := dbtest.New(t)
	return NewService(conn, WithClock(fixedClock{time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)})), conn
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateBookRequest{Title: "Dune", Author: "Herbert", ISBN: ptr("")})
	require.NoError(t, err)
	assert.Positive(t, b.ID)
	assert.Equal(t, 1, b.Copies)
	assert.Equal(t, 1, b.AvailableCopies)
	assert.Zero(t, b.Likes)
	assert.Zero(t, b.Rating)
	assert.False(t, b.IsFavorite)
	assert.Nil(t, b.ISBN)
	assert.True(t, b.CreatedAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))

	b, err = svc.Create(ctx, CreateBookRequest{Title: "Emma", Author: "Austen", Copies: ptr(3), PublishedYear: ptr(1815)})
	require.NoError(t, err)
	assert.Equal(t, 3, b.AvailableCopies)
	require.NotNil(t, b.PublishedYear)
	assert.Equal(t, 1815, *b.PublishedYear)

	_, err = svc.Create(ctx, CreateBookRequest{Title: "  ", Author: "x"})
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))
	_, err = svc.Create(ctx, CreateBookRequest{Title: "x", Author: "y", Copies: ptr(-1)})
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))
}

func TestListSearchAndPaging(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for _, in := range []CreateBookRequest{
		{Title: "Dune", Author: "Frank Herbert"},
		{Title: "Dune Messiah", Author: "Frank Herbert"},
		{Title: "Emma", Author: "Jane Austen"},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	items, total, err := svc.List(ctx, ListQuery{Search: "dUnE"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Dune", items[0].Title)

	items, _, err = svc.List(ctx, ListQuery{Search: "austen"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, total, err = svc.List(ctx, ListQuery{Page: paging.Page{Skip: 1, Limit: paging.Limit(1)}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Dune Messiah", items[0].Title)

	items, _, err = svc.List(ctx, ListQuery{Page: paging.Page{Skip: 10}})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	_, _, err = svc.List(ctx, ListQuery{Page: paging.Page{Skip: -1}})
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for _, in := range []CreateBookRequest{
		{Title: "100% Wolf", Author: "Jayne Lyons"},
		{Title: "under_score", Author: "Anon"},
		{Title: "Dune", Author: "Frank Herbert"},
		{Title: "Bang!", Author: "Someone"},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	titles := func(search string) []string {
		items, total, err := svc.List(ctx, ListQuery{Search: search})
		require.NoError(t, err)
		assert.EqualValues(t, len(items), total)
		out := []string{}
		for _, b := range items {
			out = append(out, b.Title)
		}
		return out
	}

	assert.Equal(t, []string{"100% Wolf"}, titles("%"))
	assert.Equal(t, []string{"under_score"}, titles("_"))
	assert.Equal(t, []string{"under_score"}, titles("R_S"))
	assert.Equal(t, []string{"Bang!"}, titles("!"))
	assert.Empty(t, titles("d%e"))
}

func TestGetUnknownIsNotFound(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Get(context.Background(), 42)
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))
}

func TestUpdateWritesOnlyGivenFields(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	b, err := svc.Create(ctx, CreateBookRequest{Title: "Dune", Author: "Herbert", ISBN: ptr("9780441013593"), Copies: ptr(2)})
	require.NoError(t, err)

	up, err := svc.Update(ctx, b.ID, UpdateBookRequest{Title: ptr("Dune (1965)")})
	require.NoError(t, err)
	assert.Equal(t, "Dune (1965)", up.Title)
	assert.Equal(t, "Herbert", up.Author)
	require.NotNil(t, up.ISBN)
	assert.Equal(t, "9780441013593", *up.ISBN)

	up, err = svc.Update(ctx, b.ID, UpdateBookRequest{ISBN: ptr(""), IsFavorite: ptr(true)})
	require.NoError(t, err)
	assert.Nil(t, up.ISBN)
	assert.True(t, up.IsFavorite)

	up, err = svc.Update(ctx, b.ID, UpdateBookRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Dune (1965)", up.Title)

	_, err = svc.Update(ctx, 999, UpdateBookRequest{Title: ptr("x")})
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))
	_, err = svc.Update(ctx, b.ID, UpdateBookRequest{Author: ptr("")})
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))
}

func TestUpdateCopiesShiftsAvailable(t *testing.T) {
	svc, conn := newService(t)
	ctx := context.Background()
	b, err := svc.Create(ctx, CreateBookRequest{Title: "Dune", Author: "Herbert", Copies: ptr(3)})
	require.NoError(t, err)

	// two copies out on loan
	_, err = conn.ExecContext(ctx, `UPDATE books SET available_copies = 1 WHERE id = ?`, b.ID)
	require.NoError(t, err)

	up, err := svc.Update(ctx, b.ID, UpdateBookRequest{Copies: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, up.Copies)
	assert.Equal(t, 3, up.AvailableCopies)

	up, err = svc.Update(ctx, b.ID, UpdateBookRequest{Copies: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, up.Copies)
	assert.Equal(t, 0, up.AvailableCopies)

	_, err = svc.Update(ctx, b.ID, UpdateBookRequest{Copies: ptr(1)})
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Copies)
	assert.Equal(t, 0, got.AvailableCopies)
}

func TestLikeIsNotIdempotent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	b, err := svc.Create(ctx, CreateBookRequest{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		got, err := svc.Like(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, i, got.Likes)
	}
	_, err = svc.Like(ctx, 999)
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))
}

func TestRateRunningAverage(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	b, err := svc.Create(ctx, CreateBookRequest{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	got, err := svc.Rate(ctx, b.ID, 5.0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Rating)
	assert.Equal(t, 1, got.RatingCount)

	got, err = svc.Rate(ctx, b.ID, 3.0)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Rating)
	assert.Equal(t, 2, got.RatingCount)

	got, err = svc.Rate(ctx, b.ID, 4.5)
	require.NoError(t, err)
	assert.Equal(t, 4.2, got.Rating)
	assert.Equal(t, 3, got.RatingCount)

	_, err = svc.Rate(ctx, b.ID, 5.5)
	assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument))
	_, err = svc.Rate(ctx, 999, 3)
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))
}

func TestNextRating(t *testing.T) {
	r, n := nextRating(0, 0, 3.33)
	assert.Equal(t, 3.3, r)
	assert.Equal(t, 1, n)

	r, n = nextRating(4.0, 2, 1.0)
	assert.Equal(t, 3.0, r)
	assert.Equal(t, 3, n)
}

func TestToggleFavorite(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	b, err := svc.Create(ctx, CreateBookRequest{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	got, err := svc.ToggleFavorite(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorite)
	got, err = svc.ToggleFavorite(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, got.IsFavorite)
}

func insertMemberAndBorrow(t *testing.T, conn *db.DB, bookID int64, key string, returned bool) {
	t.Helper()
	ctx := context.Background()
	res, err := conn.ExecContext(ctx, `INSERT INTO members (name, join_date, is_active) VALUES ('Alice', ?, 1)`, time.Now().UTC())
	require.NoError(t, err)
	memberID, err := res.LastInsertId()
	require.NoError(t, err)
	_, err = conn.ExecContext(ctx,
		`INSERT INTO borrows (borrow_ulid, book_id, member_id, borrow_date, due_date, returned) VALUES (?, ?, ?, ?, ?, ?)`,
		key, bookID, memberID, time.Now().UTC(), time.Now().UTC().Add(14*24*time.Hour), returned)
	require.NoError(t, err)
}

func TestDeletePolicy(t *testing.T) {
	svc, conn := newService(t)
	ctx := context.Background()

	lent, err := svc.Create(ctx, CreateBookRequest{Title: "Dune", Author: "Herbert", Copies: ptr(2)})
	require.NoError(t, err)
	insertMemberAndBorrow(t, conn, lent.ID, "01HV0000000000000000000001", false)

	err = svc.Delete(ctx, lent.ID)
	assert.True(t, apierr.Is(err, apierr.CodeConflict))
	_, err = svc.Get(ctx, lent.ID)
	require.NoError(t, err)

	done, err := svc.Create(ctx, CreateBookRequest{Title: "Emma", Author: "Austen"})
	require.NoError(t, err)
	insertMemberAndBorrow(t, conn, done.ID, "01HV0000000000000000000002", true)

	require.NoError(t, svc.Delete(ctx, done.ID))
	_, err = svc.Get(ctx, done.ID)
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))

	var history int
	require.NoError(t, conn.Get(&history, `SELECT COUNT(*) FROM borrows WHERE book_id = ?`, done.ID))
	assert.Zero(t, history)

	assert.True(t, apierr.Is(svc.Delete(ctx, done.ID), apierr.CodeNotFound))
}

func TestStoreCopyCountersStayInBounds(t *testing.T) {
	svc, conn := newService(t)
	ctx := context.Background()
	b, err := svc.Create(ctx, CreateBookRequest{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)
	st := svc.Store()

	ok, err := st.PutBackCopyTx(ctx, conn, b.ID)
	require.NoError(t, err)
	assert.False(t, ok, "cannot exceed copies")

	ok, err = st.TakeCopyTx(ctx, conn, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = st.TakeCopyTx(ctx, conn, b.ID)
	require.NoError(t, err)
	assert.False(t, ok, "nothing left on the shelf")

	ok, err = st.PutBackCopyTx(ctx, conn, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableCopies)
}

func TestGetManyKeepsRequestedOrder(t *testing.T) {
	svc, conn := newService(t)
	ctx := context.Background()
	a, err := svc.Create(ctx, CreateBookRequest{Title: "A", Author: "x"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, CreateBookRequest{Title: "B", Author: "y"})
	require.NoError(t, err)

	got, err := svc.Store().GetMany(ctx, conn, []int64{b.ID, 999, a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Title)
	assert.Equal(t, "A", got[1].Title)
}
