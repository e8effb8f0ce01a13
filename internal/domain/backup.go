package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Backup is an opaque, client-encrypted export envelope kept on the server.
// The server never decrypts it.
type Backup struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"-"`
	Envelope  json.RawMessage `json:"envelope,omitempty"`
	SizeBytes int             `json:"sizeBytes"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewBackup wraps an envelope for storage.
func NewBackup(userID uuid.UUID, envelope json.RawMessage) (*Backup, error) {
	b := &Backup{
		ID:        uuid.New(),
		UserID:    userID,
		Envelope:  envelope,
		SizeBytes: len(envelope),
		CreatedAt: time.Now().UTC(),
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks that the backup has an owner and a JSON payload.
func (b *Backup) Validate() error {
	if b.ID == uuid.Nil || b.UserID == uuid.Nil {
		return ErrInvalidID
	}
	if len(b.Envelope) == 0 || !json.Valid(b.Envelope) {
		return ErrEmptyEnvelope
	}
	return nil
}
