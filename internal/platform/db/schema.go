package db

import (
	"context"
	"fmt"
	"strings"
)

// column types per dialect
type ddlTypes struct {
	PK       string
	Ref      string
	Text     string
	Str      string
	Int      string
	Float    string
	Bool     string
	Time     string
	TrueLit  string
	FalseLit string
}

func typesFor(d Dialect) ddlTypes {
	switch d {
	case DialectMySQL:
		return ddlTypes{
			PK: "BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY", Ref: "BIGINT NOT NULL",
			Text: "VARCHAR(255)", Str: "VARCHAR(64)", Int: "INT", Float: "DOUBLE",
			Bool: "TINYINT(1)", Time: "DATETIME(6)", TrueLit: "1", FalseLit: "0",
		}
	case DialectPostgres:
		return ddlTypes{
			PK: "BIGSERIAL PRIMARY KEY", Ref: "BIGINT NOT NULL",
			Text: "VARCHAR(255)", Str: "VARCHAR(64)", Int: "INTEGER", Float: "DOUBLE PRECISION",
			Bool: "BOOLEAN", Time: "TIMESTAMPTZ", TrueLit: "TRUE", FalseLit: "FALSE",
		}
	default:
		return ddlTypes{
			PK: "INTEGER PRIMARY KEY AUTOINCREMENT", Ref: "INTEGER NOT NULL",
			Text: "TEXT", Str: "TEXT", Int: "INTEGER", Float: "REAL",
			Bool: "BOOLEAN", Time: "DATETIME", TrueLit: "1", FalseLit: "0",
		}
	}
}

func schemaStatements(d Dialect) []string {
	t := typesFor(d)
	r := strings.NewReplacer(
		"{PK}", t.PK, "{REF}", t.Ref, "{TEXT}", t.Text, "{STR}", t.Str, "{INT}", t.Int,
		"{FLOAT}", t.Float, "{BOOL}", t.Bool, "{TIME}", t.Time, "{TRUE}", t.TrueLit, "{FALSE}", t.FalseLit,
	)

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
  id               {PK},
  title            {TEXT} NOT NULL,
  author           {TEXT} NOT NULL,
  published_year   {INT} NULL,
  isbn             {STR} NULL,
  copies           {INT} NOT NULL DEFAULT 1,
  available_copies {INT} NOT NULL DEFAULT 1,
  likes            {INT} NOT NULL DEFAULT 0,
  rating           {FLOAT} NOT NULL DEFAULT 0,
  rating_count     {INT} NOT NULL DEFAULT 0,
  is_favorite      {BOOL} NOT NULL DEFAULT {FALSE},
  cover_id         {STR} NULL,
  created_at       {TIME} NOT NULL,
  CHECK (copies >= 0),
  CHECK (available_copies >= 0 AND available_copies <= copies)
)`,
		`CREATE TABLE IF NOT EXISTS members (
  id        {PK},
  name      {TEXT} NOT NULL,
  email     {TEXT} NULL UNIQUE,
  phone     {STR} NULL,
  address   {TEXT} NULL,
  join_date {TIME} NOT NULL,
  is_active {BOOL} NOT NULL DEFAULT {TRUE}
)`,
		`CREATE TABLE IF NOT EXISTS borrows (
  id          {PK},
  borrow_ulid CHAR(26) NOT NULL UNIQUE,
  book_id     {REF},
  member_id   {REF},
  borrow_date {TIME} NOT NULL,
  due_date    {TIME} NOT NULL,
  return_date {TIME} NULL,
  returned    {BOOL} NOT NULL DEFAULT {FALSE},
  FOREIGN KEY (book_id) REFERENCES books(id) ON DELETE CASCADE,
  FOREIGN KEY (member_id) REFERENCES members(id) ON DELETE CASCADE
)`,
		`CREATE TABLE IF NOT EXISTS staff_accounts (
  id            {STR} NOT NULL PRIMARY KEY,
  password_hash {TEXT} NOT NULL,
  role          {STR} NOT NULL DEFAULT 'staff',
  is_disabled   {BOOL} NOT NULL DEFAULT {FALSE},
  created_at    {TIME} NOT NULL
)`,
	}

	// MySQL は CREATE INDEX IF NOT EXISTS を持たないので FK の自動インデックスに任せる
	if d != DialectMySQL {
		stmts = append(stmts,
			`CREATE INDEX IF NOT EXISTS idx_borrows_book ON borrows(book_id)`,
			`CREATE INDEX IF NOT EXISTS idx_borrows_member ON borrows(member_id)`,
			`CREATE INDEX IF NOT EXISTS idx_borrows_returned_due ON borrows(returned, due_date)`,
		)
	}

	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = r.Replace(s)
	}
	return out
}

// Migrate creates every table the service needs. It is idempotent.
func Migrate(ctx context.Context, conn *DB) error {
	return RunInTx(ctx, conn, nil, func(ctx context.Context, tx DBTX) error {
		for i, stmt := range schemaStatements(conn.Dialect) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate step %d: %w", i+1, err)
			}
		}
		return nil
	})
}
