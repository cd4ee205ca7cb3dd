package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username      string    `json:"username" gorm:"uniqueIndex;not null"`
	Name          string    `json:"name" gorm:"not null"`
	Email         string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash  string    `json:"-" gorm:"not null"`
	AcceptedTerms bool      `json:"acceptedTerms" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// AccessToken is an opaque bearer credential bound to a user. Only the
// SHA-256 digest of the issued value is stored; the plaintext is returned
// once at issue time and never persisted.
type AccessToken struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;index"`
	TokenHash string    `json:"-" gorm:"uniqueIndex;not null"`
	IssuedAt  time.Time `json:"issuedAt"`
}
