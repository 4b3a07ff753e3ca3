package models

import "time"

// AuthToken is an opaque bearer token issued by the database token store.
// Only the SHA-256 digest of the token is stored.
type AuthToken struct {
	Digest    string    `gorm:"primaryKey;size:64"`
	UserID    uint      `gorm:"not null;index"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// RevokedToken records a signed token ID that must no longer be accepted.
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey;size:64"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// All returns every model managed by migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&AuthToken{},
		&RevokedToken{},
	}
}
