package members

import "github.com/Mwendia1/LIBRATRACK/internal/platform/paging"

type CreateMemberRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   *string `json:"email,omitempty"` // "" は未登録扱い
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

type UpdateMemberRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type ListQuery struct {
	Page   paging.Page
	Search string
}
