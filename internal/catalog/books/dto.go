package books

import "github.com/Mwendia1/LIBRATRACK/internal/platform/paging"

// ===== Requests =====

type CreateBookRequest struct {
	Title         string  `json:"title" binding:"required"`
	Author        string  `json:"author" binding:"required"`
	PublishedYear *int    `json:"published_year,omitempty"`
	ISBN          *string `json:"isbn,omitempty"`
	Copies        *int    `json:"copies,omitempty" binding:"omitempty,gte=0"` // 未指定なら 1
	CoverID       *string `json:"cover_id,omitempty"`
}

// UpdateBookRequest: nil のフィールドは更新しない
type UpdateBookRequest struct {
	Title         *string `json:"title,omitempty"`
	Author        *string `json:"author,omitempty"`
	PublishedYear *int    `json:"published_year,omitempty"`
	ISBN          *string `json:"isbn,omitempty"`
	Copies        *int    `json:"copies,omitempty" binding:"omitempty,gte=0"`
	CoverID       *string `json:"cover_id,omitempty"`
	IsFavorite    *bool   `json:"is_favorite,omitempty"`
}

type RateRequest struct {
	Rating *float64 `json:"rating" binding:"required,gte=0,lte=5"`
}

type ListQuery struct {
	Page   paging.Page
	Search string
}
