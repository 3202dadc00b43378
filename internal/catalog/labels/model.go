package labels

import (
	"fmt"
	"strings"

	"github.com/Mwendia1/LIBRATRACK/internal/catalog/books"
)

// Row: ラベル1枚分
type Row struct {
	Title      string
	Author     string
	CallNumber string // 請求記号 LT-000001
	ISBN       string
}

func (r Row) record() []string {
	return []string{r.Title, r.Author, r.CallNumber, r.ISBN}
}

func CallNumber(bookID int64) string { return fmt.Sprintf("LT-%06d", bookID) }

func rowFromBook(b books.Book) Row {
	r := Row{
		Title:      b.Title,
		Author:     b.Author,
		CallNumber: CallNumber(b.ID),
	}
	if b.ISBN != nil {
		r.ISBN = *b.ISBN
	}
	return r
}

type Encoding string

const (
	EncodingUTF8     Encoding = "utf8"
	EncodingShiftJIS Encoding = "sjis"
)

// ParseEncoding accepts utf8 (default) or sjis, case-insensitively.
func ParseEncoding(s string) (Encoding, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf8", "utf-8":
		return EncodingUTF8, true
	case "sjis", "shift_jis", "cp932":
		return EncodingShiftJIS, true
	}
	return "", false
}

func (e Encoding) ContentType() string {
	if e == EncodingShiftJIS {
		return "text/csv; charset=Shift_JIS"
	}
	return "text/csv; charset=utf-8"
}
