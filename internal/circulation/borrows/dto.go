package borrows

import (
	"time"

	"github.com/Mwendia1/LIBRATRACK/internal/platform/paging"
)

type CreateBorrowRequest struct {
	BookID   int64 `json:"book_id" binding:"required,gt=0"`
	MemberID int64 `json:"member_id" binding:"required,gt=0"`
}

// ReturnRequest is optional; without it the return is stamped with the current time.
type ReturnRequest struct {
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

type Filter struct {
	Returned *bool
	MemberID *int64
	BookID   *int64
	Overdue  bool
	Page     paging.Page
}
