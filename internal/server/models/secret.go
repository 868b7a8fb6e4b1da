// Package models holds the server-side data structures for secrets.
package models

import "time"

// Secret is the persisted record of one shared secret. ID doubles as the
// shareable link token and never changes. EncryptedContent and ContentIV are
// hex strings and are always written together; the plaintext only exists on
// the decrypt path.
type Secret struct {
	ID               string
	EncryptedContent string
	ContentIV        string
	IsOneTime        bool
	IsViewed         bool
	ExpiresAt        time.Time
	Password         *string // bcrypt digest, nil = no password gate
	CreatorID        string
	CreatedAt        time.Time
}

// Expired reports whether the secret is past its expiry at the given time.
func (s *Secret) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Consumed reports whether a one-time secret has already been viewed.
// A consumed secret is permanently unreadable and uneditable until deleted.
func (s *Secret) Consumed() bool {
	return s.IsOneTime && s.IsViewed
}

// SecretView is what an anonymous reader gets back from a successful read.
type SecretView struct {
	Content   string    `json:"content"`
	IsOneTime bool      `json:"isOneTime"`
	IsViewed  bool      `json:"isViewed"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// SecretSummary is one row of an owner's decrypted secret listing.
type SecretSummary struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	IsOneTime   bool      `json:"isOneTime"`
	IsViewed    bool      `json:"isViewed"`
	HasPassword bool      `json:"hasPassword"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SecretPatch carries the fields of a partial update. A nil field leaves the
// stored value untouched. Content and ContentIV are set together or not at
// all. The password column is only written when SetPassword is true; a nil
// Password then clears the gate.
type SecretPatch struct {
	EncryptedContent *string
	ContentIV        *string
	IsOneTime        *bool
	ExpiresAt        *time.Time
	SetPassword      bool
	Password         *string
}
