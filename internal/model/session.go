package model

import "time"

// Session is an authenticated login session (cookie-backed), distinct from
// ChatSession which is a conversation thread.
type Session struct {
	ID        int64
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}
