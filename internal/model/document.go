package model

import "time"

// Document represents an uploaded file and its at-rest metadata.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
//
// ContentHash is the hex SHA-256 of the plaintext bytes, computed once at upload
// time before encryption and never recomputed afterwards; it is the integrity
// anchor for verifying decrypted output. IsEncrypted implies EncryptionIV holds
// the hex-encoded IV the payload was sealed with.
type Document struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	Description  string    `json:"description,omitempty"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	StoragePath  string    `json:"storage_path"`
	ContentHash  string    `json:"content_hash"`
	IsEncrypted  bool      `json:"is_encrypted"`
	EncryptionIV string    `json:"-"`
	OwnerID      string    `json:"owner_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
