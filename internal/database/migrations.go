package database

import (
	"fmt"

	"gorm.io/gorm"
)

// RunMigrations executes the migrations AutoMigrate does not cover
func RunMigrations(db *gorm.DB) error {
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createIndexes creates database indexes
func createIndexes(db *gorm.DB) error {
	// Run history is listed newest first
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_analysis_runs_started
		ON analysis_runs(started_at)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_category_counts_run
		ON category_counts(analysis_run_id, category)
	`).Error; err != nil {
		return err
	}

	// Expired snoozes are swept by review date
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_acknowledgments_review
		ON acknowledgments(review_after)
	`).Error; err != nil {
		return err
	}

	return nil
}
