package borrows

import "time"

// LoanPeriod is the time a member may keep a book.
const LoanPeriod = 14 * 24 * time.Hour

type Borrow struct {
	ID         int64      `db:"id" json:"id"`
	BorrowULID string     `db:"borrow_ulid" json:"borrow_ulid"`
	BookID     int64      `db:"book_id" json:"book_id"`
	MemberID   int64      `db:"member_id" json:"member_id"`
	BorrowDate time.Time  `db:"borrow_date" json:"borrow_date"`
	DueDate    time.Time  `db:"due_date" json:"due_date"`
	ReturnDate *time.Time `db:"return_date" json:"return_date"`
	Returned   bool       `db:"returned" json:"returned"`
}

// BorrowWithDetails is a borrow row joined with its book and member.
type BorrowWithDetails struct {
	Borrow
	BookTitle  string `db:"book_title" json:"book_title"`
	MemberName string `db:"member_name" json:"member_name"`
	Overdue    bool   `db:"-" json:"overdue"`
}
