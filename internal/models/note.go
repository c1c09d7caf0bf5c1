package models

import "time"

// Note is a titled text entry owned by exactly one account.
// IsPinned and IsArchived are mutually exclusive; the toggle operations
// enforce this, storage does not.
type Note struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	IsPinned   bool      `json:"is_pinned"`
	IsArchived bool      `json:"is_archived"`
}
