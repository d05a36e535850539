// ABOUTME: User model owning notes.
// ABOUTME: Password holds a bcrypt hash and is never serialized.

package models

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}
