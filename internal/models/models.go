// internal/models/models.go
package models

import "time"

// AuditLog mirrors the document's append-only log in Postgres so entries
// survive document rewrites and stay queryable.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey"`
	Entry     string    `gorm:"type:text"`
	Timestamp time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// WarnEvent is one warning issued against a member.
type WarnEvent struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"not null;index"`
	IssuerID  string    `gorm:"not null"`
	Reason    string    `gorm:"type:text"`
	Timestamp time.Time `gorm:"not null"`
	CreatedAt time.Time
}

// LevelUpEvent records a member crossing a level threshold.
type LevelUpEvent struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"not null;index"`
	Level     int       `gorm:"not null"`
	XP        int       `gorm:"not null"`
	Timestamp time.Time `gorm:"not null"`
	CreatedAt time.Time
}
