// Package models defines the client-side views of API payloads.
package models

import "time"

// Record mirrors the server's record representation.
type Record struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	NationalID  string    `json:"national_id"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FullName returns "First Last".
func (r *Record) FullName() string {
	return r.FirstName + " " + r.LastName
}

type RecordInput struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	NationalID  string  `json:"national_id"`
	Description *string `json:"description,omitempty"`
}

// RecordPatch holds the fields to change; nil means keep.
type RecordPatch struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	NationalID  *string `json:"national_id,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (p RecordPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.NationalID == nil && p.Description == nil
}
