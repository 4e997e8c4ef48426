package model

import "time"

// AdminSession is an explicit session value with an expiry timestamp; validity
// is a pure comparison against the caller's clock.
type AdminSession struct {
	SID       string    `json:"sid"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s AdminSession) Valid(now time.Time) bool {
	return s.SID != "" && now.Before(s.ExpiresAt)
}
