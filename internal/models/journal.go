package models

import "time"

// JournalEntry is a private journal page owned by one user.
type JournalEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Mood      Mood      `json:"mood,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Owner returns the id of the user the entry belongs to.
func (e *JournalEntry) Owner() string { return e.UserID }
