package model

import "time"

// RefreshToken is the stored form of an issued refresh token. Only the hash
// of the opaque token is persisted.
type RefreshToken struct {
	ID        string     `json:"id,omitempty" bson:"_id,omitempty"`
	TokenHash string     `json:"-" bson:"token_hash"`
	UserID    string     `json:"user_id" bson:"user_id"`
	ExpiresAt time.Time  `json:"expires_at" bson:"expires_at"`
	IsRevoked bool       `json:"is_revoked" bson:"is_revoked"`
	RevokedAt *time.Time `json:"revoked_at,omitempty" bson:"revoked_at,omitempty"`
	DeviceID  string     `json:"device_id,omitempty" bson:"device_id,omitempty"`
	UserAgent string     `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	IPAddress string     `json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
}

// Usable reports whether the token may still be exchanged. A document that
// the store has not purged yet is still unusable once expired.
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.IsRevoked && now.Before(t.ExpiresAt)
}

type IssueTokenRequest struct {
	UserID   string `json:"user_id" validate:"required,max=64"`
	DeviceID string `json:"device_id,omitempty" validate:"omitempty,max=128"`
}

type TokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required,max=512"`
}

type IssuedToken struct {
	TokenID      string    `json:"token_id"`
	RefreshToken string    `json:"refresh_token"`
	UserID       string    `json:"user_id"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type TokenInfo struct {
	TokenID   string    `json:"token_id"`
	UserID    string    `json:"user_id"`
	DeviceID  string    `json:"device_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AccessToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	UserID      string    `json:"user_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ClientInfo is request metadata stored alongside an issued token.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}
