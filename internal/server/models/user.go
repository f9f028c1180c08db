package models

import "time"

// User is an account able to own records. Role is either common.RoleUser
// or common.RoleAdmin.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Role         string
	CreatedAt    time.Time
}
