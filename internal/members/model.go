package members

import "time"

type Member struct {
	ID       int64     `db:"id" json:"id"`
	Name     string    `db:"name" json:"name"`
	Email    *string   `db:"email" json:"email,omitempty"`
	Phone    *string   `db:"phone" json:"phone,omitempty"`
	Address  *string   `db:"address" json:"address,omitempty"`
	JoinDate time.Time `db:"join_date" json:"join_date"`
	IsActive bool      `db:"is_active" json:"is_active"`
}
