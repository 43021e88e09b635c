// internal/journal/journal.go
package journal

import (
	"fmt"
	"time"

	"imune-bot/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB is an optional Postgres archive of audit events. The document in the
// GitHub repository stays the source of truth; the journal only appends, so
// a failed write never blocks the bot.
type DB struct {
	*gorm.DB
}

func Open(host, user, password, dbname string, port int) (*DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		host, user, password, dbname, port)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := gormDB.AutoMigrate(
		&models.AuditLog{},
		&models.WarnEvent{},
		&models.LevelUpEvent{},
	); err != nil {
		return nil, err
	}

	return &DB{gormDB}, nil
}

// RecordLog archives one audit log line.
func (db *DB) RecordLog(entry string) error {
	return db.Create(&models.AuditLog{Entry: entry, Timestamp: time.Now().UTC()}).Error
}

// RecordWarn archives a warning event.
func (db *DB) RecordWarn(userID, issuerID, reason string) error {
	return db.Create(&models.WarnEvent{
		UserID:    userID,
		IssuerID:  issuerID,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}).Error
}

// RecordLevelUp archives a level-up event.
func (db *DB) RecordLevelUp(userID string, level, xp int) error {
	return db.Create(&models.LevelUpEvent{
		UserID:    userID,
		Level:     level,
		XP:        xp,
		Timestamp: time.Now().UTC(),
	}).Error
}

// RecentWarns returns the latest archived warnings for a user.
func (db *DB) RecentWarns(userID string, limit int) ([]models.WarnEvent, error) {
	var warns []models.WarnEvent
	err := db.Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&warns).Error
	return warns, err
}
