package database

import (
	"errors"

	"gorm.io/gorm"
)

// ListRuns returns up to limit runs, newest first, with their category counts.
func ListRuns(db *gorm.DB, limit int) ([]AnalysisRun, error) {
	if limit <= 0 {
		limit = 20
	}

	var runs []AnalysisRun
	err := db.Preload("CategoryCounts", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("category")
	}).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

// LatestSuccessfulRun returns the most recent successful run, or nil if
// there is none.
func LatestSuccessfulRun(db *gorm.DB) (*AnalysisRun, error) {
	var run AnalysisRun
	err := db.Preload("CategoryCounts").
		Where("success = ?", true).
		Order("started_at DESC").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
