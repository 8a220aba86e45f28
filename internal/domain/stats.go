package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SearchEntry struct - one recorded search query
type SearchEntry struct {
	ID        *uuid.UUID `gorm:"type:uuid;primary_key;"`
	UserID    int64      `gorm:"index;not null;"`
	Query     string     `gorm:"type:varchar(255);not null;"`
	Timestamp time.Time  `gorm:"type:timestamp;not null;"`
}

// TableName func
func (s *SearchEntry) TableName() string {
	return "search_history"
}

// BeforeCreate hook - generates UUID before creating
func (s *SearchEntry) BeforeCreate(tx *gorm.DB) (err error) {
	uuid, err := uuid.NewRandom() // v4
	if err != nil {
		return err
	}
	s.ID = &uuid
	return nil
}

// ViewStat struct - increment-or-insert view counter keyed by (user, film title)
type ViewStat struct {
	UserID    int64  `gorm:"primaryKey;autoIncrement:false;"`
	FilmTitle string `gorm:"primaryKey;type:varchar(255);"`
	ShowCount int64  `gorm:"not null;default:1;"`
}

// TableName func
func (v *ViewStat) TableName() string {
	return "view_stats"
}

// MigrateDatabase func - Auto-migrate database schema
func MigrateDatabase(db *gorm.DB) {
	if db == nil {
		panic("An error when connect database")
	}

	err := db.AutoMigrate(&SearchEntry{}, &ViewStat{})
	if err != nil {
		panic(err)
	}
}
