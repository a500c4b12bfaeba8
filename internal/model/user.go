package model

import "time"

type User struct {
	ID        int64
	Name      string
	Email     string
	AvatarURL *string
	WorkOSID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
