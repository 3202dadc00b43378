package books

import "time"

type Book struct {
	ID              int64     `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Author          string    `db:"author" json:"author"`
	PublishedYear   *int      `db:"published_year" json:"published_year,omitempty"`
	ISBN            *string   `db:"isbn" json:"isbn,omitempty"`
	Copies          int       `db:"copies" json:"copies"`
	AvailableCopies int       `db:"available_copies" json:"available_copies"`
	Likes           int       `db:"likes" json:"likes"`
	Rating          float64   `db:"rating" json:"rating"`
	RatingCount     int       `db:"rating_count" json:"rating_count"`
	IsFavorite      bool      `db:"is_favorite" json:"is_favorite"`
	CoverID         *string   `db:"cover_id" json:"cover_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
