package domain

import "time"

// Post is a blog entry owned by the user referenced in Author.
// Author is not checked against the users table.
type Post struct {
	ID        string
	Title     string
	Content   string
	Author    string
	CreatedAt time.Time
}
