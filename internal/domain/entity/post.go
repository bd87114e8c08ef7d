package entity

import "time"

// Post is an immutable wall entry. The numeric ID is server-assigned and
// monotonically increasing, which makes feed ordering stable when two posts
// share a timestamp.
type Post struct {
	ID        int64     `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
