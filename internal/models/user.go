package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserPatch carries the fields of a /me update. Nil fields are left untouched.
type UserPatch struct {
	Email    *string
	Username *string
	Password *string
}

func (p UserPatch) IsEmpty() bool {
	return p.Email == nil && p.Username == nil && p.Password == nil
}
