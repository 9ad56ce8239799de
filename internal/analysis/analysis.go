// Package analysis runs analysis passes and serves their results.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JustJay7/collections-tracker/internal/ack"
	"github.com/JustJay7/collections-tracker/internal/cache"
	"github.com/JustJay7/collections-tracker/internal/database"
	"github.com/JustJay7/collections-tracker/internal/ledger"
	"github.com/JustJay7/collections-tracker/internal/mailcache"
	"github.com/JustJay7/collections-tracker/internal/model"
	"github.com/JustJay7/collections-tracker/internal/staleness"
	"github.com/JustJay7/collections-tracker/pkg/logger"
)

var (
	// ErrAnalysisInProgress is returned when another pass holds the ledger.
	ErrAnalysisInProgress = errors.New("an analysis pass is already running")
	// ErrNoAnalysis is returned by readers before the first successful pass.
	ErrNoAnalysis = errors.New("no analysis has been run yet")
	// ErrCaseNotFound is returned for case numbers missing from the ledger.
	ErrCaseNotFound = errors.New("case not found in ledger")
)

// CaseSource supplies the case ledger.
type CaseSource interface {
	Load(ctx context.Context) ([]model.Case, error)
}

// MessageSource supplies the cached mailbox.
type MessageSource interface {
	Messages() ([]model.Message, error)
	Stats() (*mailcache.Stats, error)
}

// Deps are the collaborators of a Service.
type Deps struct {
	Cases      CaseSource
	Messages   MessageSource
	Builder    *ledger.Builder
	Store      *ledger.FileStore
	Classifier *staleness.Classifier
	Acks       *ack.Service
	Cache      cache.Cache
	DB         *gorm.DB
	Logger     *logger.Logger
	Now        func() time.Time
}

// Service ties one analysis pass together and answers report queries from
// the persisted ledger.
type Service struct {
	cases      CaseSource
	messages   MessageSource
	builder    *ledger.Builder
	store      *ledger.FileStore
	classifier *staleness.Classifier
	acks       *ack.Service
	cache      cache.Cache
	db         *gorm.DB
	logger     *logger.Logger
	now        func() time.Time
}

// NewService creates a service from d.
func NewService(d Deps) *Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = logger.NewNop()
	}
	return &Service{
		cases:      d.Cases,
		messages:   d.Messages,
		builder:    d.Builder,
		store:      d.Store,
		classifier: d.Classifier,
		acks:       d.Acks,
		cache:      d.Cache,
		db:         d.DB,
		logger:     d.Logger,
		now:        d.Now,
	}
}

// Run performs one full pass and records it. Failed passes are recorded
// too and leave the previous ledger in place.
func (s *Service) Run(ctx context.Context, trigger string) (*database.AnalysisRun, error) {
	unlock, err := s.store.TryLock()
	if errors.Is(err, ledger.ErrLocked) {
		return nil, ErrAnalysisInProgress
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := unlock(); err != nil {
			s.logger.Warn("Failed to release ledger lock", "error", err)
		}
	}()

	run := &database.AnalysisRun{
		RunID:     uuid.NewString(),
		Trigger:   trigger,
		StartedAt: s.now().UTC(),
	}
	log := s.logger.With("run_id", run.RunID)
	log.Info("Analysis started", "trigger", trigger)

	report, err := s.pass(ctx, run)
	finished := s.now().UTC()
	run.FinishedAt = &finished
	if err != nil {
		run.ErrorMessage = err.Error()
		log.Error("Analysis failed", "error", err)
	} else {
		run.Success = true
		for _, c := range staleness.Categories {
			run.CategoryCounts = append(run.CategoryCounts, database.CategoryCount{
				Category: string(c),
				Count:    len(report.Categories[c]),
			})
		}
	}

	if dbErr := s.db.WithContext(context.WithoutCancel(ctx)).Create(run).Error; dbErr != nil {
		log.Warn("Failed to record analysis run", "error", dbErr)
	}
	if err != nil {
		return run, err
	}

	s.cache.Clear()
	log.Info("Analysis complete",
		"cases", run.Cases,
		"messages", run.Messages,
		"matches", run.Matches,
		"duration", finished.Sub(run.StartedAt).String(),
	)
	return run, nil
}

func (s *Service) pass(ctx context.Context, run *database.AnalysisRun) (*staleness.Report, error) {
	cases, err := s.cases.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cases: %w", err)
	}
	messages, err := s.messages.Messages()
	if err != nil {
		return nil, fmt.Errorf("failed to load email cache: %w", err)
	}

	l, stats, err := s.builder.Build(ctx, cases, messages)
	if err != nil {
		return nil, err
	}
	run.Cases = stats.Cases
	run.Messages = stats.Messages
	run.Matches = stats.Matches
	run.MatchedMessages = stats.MatchedMessages
	run.UnparseableDates = stats.UnparseableDates
	run.DuplicateNames = stats.DuplicateNames

	if err := s.store.Save(ledger.NewDocument(l, run.StartedAt)); err != nil {
		return nil, err
	}
	return s.classifier.Classify(l), nil
}

func (s *Service) document() (*ledger.Document, error) {
	doc, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	if doc.LastAnalysis == nil {
		return nil, ErrNoAnalysis
	}
	return doc, nil
}

// Report classifies the persisted ledger. Acknowledged cases are left out
// unless includeAcknowledged is set.
func (s *Service) Report(ctx context.Context, includeAcknowledged bool) (*staleness.Report, error) {
	key := cache.ReportKey(includeAcknowledged)
	if r, ok := s.cache.Get(key); ok {
		return r, nil
	}

	doc, err := s.document()
	if err != nil {
		return nil, err
	}
	report := s.classifier.Classify(doc.Cases)

	if !includeAcknowledged {
		active, err := s.acks.Active(ctx)
		if err != nil {
			return nil, err
		}
		skip := make(map[string]struct{}, len(active))
		for number := range active {
			skip[number] = struct{}{}
		}
		report = report.Without(skip)
	}

	if err := s.cache.Set(key, report); err != nil {
		s.logger.Warn("Failed to cache report", "key", key, "error", err)
	}
	return report, nil
}

// Overview is the ledger-wide summary of the last pass.
type Overview struct {
	Summary         ledger.Summary        `json:"summary"`
	LastAnalysis    *time.Time            `json:"last_analysis"`
	AnalysisVersion string                `json:"analysis_version"`
	LastRun         *database.AnalysisRun `json:"last_run,omitempty"`
}

// Summary totals the persisted ledger.
func (s *Service) Summary(ctx context.Context) (*Overview, error) {
	doc, err := s.document()
	if err != nil {
		return nil, err
	}
	run, err := database.LatestSuccessfulRun(s.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return &Overview{
		Summary:         ledger.Summarize(doc.Cases),
		LastAnalysis:    doc.LastAnalysis,
		AnalysisVersion: doc.AnalysisVersion,
		LastRun:         run,
	}, nil
}

// CaseView is one case's history with its current classification.
type CaseView struct {
	*ledger.History
	Classification staleness.Result         `json:"classification"`
	Acknowledgment *database.Acknowledgment `json:"acknowledgment,omitempty"`
}

// Case returns the history of caseNumber.
func (s *Service) Case(ctx context.Context, caseNumber string) (*CaseView, error) {
	doc, err := s.document()
	if err != nil {
		return nil, err
	}
	h, ok := doc.Cases.History(caseNumber)
	if !ok {
		return nil, ErrCaseNotFound
	}

	view := &CaseView{
		History:        h,
		Classification: s.classifier.ClassifyRecord(doc.Cases[strings.TrimSpace(caseNumber)]),
	}
	a, err := s.acks.Get(ctx, caseNumber)
	switch {
	case err == nil:
		view.Acknowledgment = a
	case !errors.Is(err, ack.ErrNotAcknowledged):
		return nil, err
	}
	return view, nil
}

// Firms returns per law firm statistics of the persisted ledger.
func (s *Service) Firms(ctx context.Context) ([]ledger.FirmStats, error) {
	doc, err := s.document()
	if err != nil {
		return nil, err
	}
	return ledger.FirmStatistics(doc.Cases), nil
}

// Acknowledge hides caseNumber from the report for snooze (zero means until
// removed).
func (s *Service) Acknowledge(ctx context.Context, caseNumber, reason, by string, snooze time.Duration) (*database.Acknowledgment, error) {
	a, err := s.acks.Acknowledge(ctx, caseNumber, reason, by, snooze)
	if err != nil {
		return nil, err
	}
	s.cache.Clear()
	return a, nil
}

// Unacknowledge puts caseNumber back in the report.
func (s *Service) Unacknowledge(ctx context.Context, caseNumber string) error {
	if err := s.acks.Remove(ctx, caseNumber); err != nil {
		return err
	}
	s.cache.Clear()
	return nil
}

// Acknowledgments lists the acknowledgments in force.
func (s *Service) Acknowledgments(ctx context.Context) ([]database.Acknowledgment, error) {
	return s.acks.List(ctx)
}

// Runs returns the most recent passes.
func (s *Service) Runs(ctx context.Context, limit int) ([]database.AnalysisRun, error) {
	return database.ListRuns(s.db.WithContext(ctx), limit)
}

// EmailCacheStats describes the cached mailbox.
func (s *Service) EmailCacheStats() (*mailcache.Stats, error) {
	return s.messages.Stats()
}

// ReportCacheStats describes the report cache.
func (s *Service) ReportCacheStats() cache.CacheStats {
	return s.cache.Stats()
}

// Healthy reports whether the database answers.
func (s *Service) Healthy(ctx context.Context) bool {
	sqlDB, err := s.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}
