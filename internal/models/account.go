// Package models defines the account and note types persisted by Facenote.
package models

import "time"

// Account is a registered identity with credentials, an optional face
// descriptor, and its owned notes. Username is the storage key and is
// immutable and case-sensitive after creation.
type Account struct {
	Username string `json:"username"`
	// PasswordHash is an Argon2id digest of the password and Salt.
	PasswordHash []byte `json:"password_hash"`
	Salt         []byte `json:"salt"`
	// FaceDescriptor is the numeric feature vector captured at
	// registration; nil when face auth was not set up.
	FaceDescriptor []float64 `json:"face_descriptor,omitempty"`
	Notes          []Note    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

// HasFaceDescriptor reports whether face auth was set up for the account.
func (a *Account) HasFaceDescriptor() bool {
	return len(a.FaceDescriptor) > 0
}
