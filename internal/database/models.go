package database

import (
	"time"

	"gorm.io/gorm"
)

// AnalysisRun records one analysis pass.
type AnalysisRun struct {
	gorm.Model
	RunID            string          `json:"run_id" gorm:"uniqueIndex"`
	Trigger          string          `json:"trigger"`
	StartedAt        time.Time       `json:"started_at"`
	FinishedAt       *time.Time      `json:"finished_at"`
	Cases            int             `json:"cases"`
	Messages         int             `json:"messages"`
	Matches          int             `json:"matches"`
	MatchedMessages  int             `json:"matched_messages"`
	UnparseableDates int             `json:"unparseable_dates"`
	DuplicateNames   int             `json:"duplicate_names"`
	Success          bool            `json:"success"`
	ErrorMessage     string          `json:"error_message"`
	CategoryCounts   []CategoryCount `json:"category_counts" gorm:"foreignKey:AnalysisRunID"`
}

// CategoryCount is the size of one staleness category after a run.
type CategoryCount struct {
	gorm.Model
	AnalysisRunID uint   `json:"analysis_run_id"`
	Category      string `json:"category"`
	Count         int    `json:"count"`
}

// Acknowledgment hides a case from the report until ReviewAfter, or
// indefinitely when ReviewAfter is nil.
type Acknowledgment struct {
	gorm.Model
	CaseNumber     string     `json:"case_number" gorm:"uniqueIndex"`
	Reason         string     `json:"reason"`
	AcknowledgedBy string     `json:"acknowledged_by"`
	ReviewAfter    *time.Time `json:"review_after"`
}

func (AnalysisRun) TableName() string {
	return "analysis_runs"
}

func (CategoryCount) TableName() string {
	return "category_counts"
}

func (Acknowledgment) TableName() string {
	return "acknowledgments"
}
