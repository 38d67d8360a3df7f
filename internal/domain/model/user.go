package model

import "time"

// User represents a member of the points program. Users are created lazily:
// on first login or on the first balance mutation that references them.
type User struct {
	ID            int64
	OpenID        string
	Nickname      *string
	AvatarURL     *string
	PointsBalance int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
