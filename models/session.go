package models

import "time"

// Session is the resolved identity for the current request. It is populated by
// the session middleware when a bearer token checks out and carries the fields
// this application actually uses; an identity without an email never becomes a
// Session.
type Session struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
