package model

import "time"

// AccessLink grants bearer access to one document via an unguessable token.
// MaxViews == 0 means unlimited views. CurrentViews only ever increases and is
// bumped by the repository in a single conditional update, so it can never pass
// MaxViews even when two holders of the same token race.
type AccessLink struct {
	ID           string     `json:"id"`
	Token        string     `json:"token"`
	DocumentID   string     `json:"document_id"`
	CreatedBy    string     `json:"created_by"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	MaxViews     int        `json:"max_views"`
	CurrentViews int        `json:"current_views"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Usable reports whether the link would still admit a view at the given instant.
func (l *AccessLink) Usable(now time.Time) bool {
	if l.ExpiresAt != nil && now.After(*l.ExpiresAt) {
		return false
	}
	return l.MaxViews == 0 || l.CurrentViews < l.MaxViews
}
