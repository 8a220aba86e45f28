package postgres

import (
	"time"

	"cinemabot/internal/domain"
	"cinemabot/internal/ports/output"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Compile-time check to ensure StatsRepository implements the output port
var _ output.StatsRepository = (*StatsRepository)(nil)

// StatsRepository struct - Secondary/Driven adapter for PostgreSQL
type StatsRepository struct {
	dbGorm *gorm.DB
}

// NewStatsRepository func - Creates new PostgreSQL repository
func NewStatsRepository(dbGorm *gorm.DB) *StatsRepository {
	logrus.Info("Migrate database ...")
	domain.MigrateDatabase(dbGorm)
	return &StatsRepository{
		dbGorm: dbGorm,
	}
}

// RecordSearch func - Appends a search query to the user's history
func (p *StatsRepository) RecordSearch(userID int64, query string, timestamp time.Time) error {
	entry := domain.SearchEntry{
		UserID:    userID,
		Query:     query,
		Timestamp: timestamp,
	}
	if err := p.dbGorm.Create(&entry).Error; err != nil {
		logrus.Errorln(err)
		return err
	}
	return nil
}

// RecordView func - Increments the view counter for (user, film title),
// inserting the row with count 1 on first view.
func (p *StatsRepository) RecordView(userID int64, fullTitle string) error {
	stat := domain.ViewStat{
		UserID:    userID,
		FilmTitle: fullTitle,
		ShowCount: 1,
	}
	err := p.dbGorm.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "film_title"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"show_count": gorm.Expr("view_stats.show_count + 1"),
		}),
	}).Create(&stat).Error
	if err != nil {
		logrus.Errorln(err)
		return err
	}
	return nil
}

// History func - Returns the user's most recent searches, newest first
func (p *StatsRepository) History(userID int64, limit int) ([]domain.SearchEntry, error) {
	var entries []domain.SearchEntry
	err := p.dbGorm.
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return entries, nil
}

// TopViews func - Returns the user's most viewed films, highest count first
func (p *StatsRepository) TopViews(userID int64, limit int) ([]domain.ViewStat, error) {
	var stats []domain.ViewStat
	err := p.dbGorm.
		Where("user_id = ?", userID).
		Order("show_count DESC").
		Limit(limit).
		Find(&stats).Error
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return stats, nil
}

// Clear func - Removes all history and view counters for the user
func (p *StatsRepository) Clear(userID int64) error {
	tx := p.dbGorm.Begin()
	defer func() {
		tx.Rollback()
	}()
	if err := tx.Where("user_id = ?", userID).Delete(&domain.SearchEntry{}).Error; err != nil {
		logrus.Errorln(err)
		return err
	}
	if err := tx.Where("user_id = ?", userID).Delete(&domain.ViewStat{}).Error; err != nil {
		logrus.Errorln(err)
		return err
	}
	return tx.Commit().Error
}
