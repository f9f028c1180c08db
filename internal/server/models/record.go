// Package models defines server-side data models persisted in the database.
package models

import "time"

// Record is one person's QR identity. ID, OwnerID and CreatedAt are assigned
// by the store on insert and never change afterwards.
type Record struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	NationalID  string    `json:"national_id"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecordInput carries the caller-settable fields of a new record.
type RecordInput struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	NationalID  string  `json:"national_id"`
	Description *string `json:"description,omitempty"`
}

// RecordPatch is a partial update; nil fields are left untouched.
type RecordPatch struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	NationalID  *string `json:"national_id,omitempty"`
	Description *string `json:"description,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p RecordPatch) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.NationalID == nil && p.Description == nil
}

// Apply copies the set fields of p onto r. A blank description removes it.
func (p RecordPatch) Apply(r *Record) {
	if p.FirstName != nil {
		r.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		r.LastName = *p.LastName
	}
	if p.NationalID != nil {
		r.NationalID = *p.NationalID
	}
	if p.Description != nil {
		if *p.Description == "" {
			r.Description = nil
		} else {
			d := *p.Description
			r.Description = &d
		}
	}
}

// RecordScope selects one record by id, restricted to its owner.
type RecordScope struct {
	ID      string
	OwnerID string
}
