package analysis

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/JustJay7/collections-tracker/internal/ack"
	"github.com/JustJay7/collections-tracker/internal/cache"
	"github.com/JustJay7/collections-tracker/internal/casefile"
	"github.com/JustJay7/collections-tracker/internal/config"
	"github.com/JustJay7/collections-tracker/internal/extract"
	"github.com/JustJay7/collections-tracker/internal/ledger"
	"github.com/JustJay7/collections-tracker/internal/mailcache"
	"github.com/JustJay7/collections-tracker/internal/matcher"
	"github.com/JustJay7/collections-tracker/internal/names"
	"github.com/JustJay7/collections-tracker/internal/staleness"
	"github.com/JustJay7/collections-tracker/pkg/logger"
)

// NewFromConfig builds a Service with the file-backed collaborators named
// in cfg.
func NewFromConfig(cfg *config.Config, db *gorm.DB, log *logger.Logger) (*Service, error) {
	thresholds := staleness.Thresholds{
		FollowUpDays:        cfg.FollowUpDays,
		HighPriorityDays:    cfg.HighPriorityDays,
		CriticalDays:        cfg.CriticalDays,
		CaseAgeCriticalDays: cfg.CaseAgeCriticalDays,
		StatuteReviewYears:  cfg.StatuteReviewYears,
	}
	if err := thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid staleness thresholds: %w", err)
	}

	policy := matcher.DefaultPolicy()
	if len(cfg.ContextKeywords) > 0 {
		policy.ContextKeywords = cfg.ContextKeywords
	}
	m := matcher.New(policy, extract.New(cfg.CaseLabels), names.NewNormalizer(cfg.NameSuffixes))

	mail := mailcache.New(cfg.EmailCachePath, cfg.SentIndicators, log, mailcache.WithMaxAge(cfg.EmailCacheMaxAge))
	if len(cfg.SentIndicators) == 0 {
		log.Warn("No sent indicators configured; every message counts as received")
	}

	return NewService(Deps{
		Cases:      casefile.NewLoader(cfg.CasesFilePath, cfg.CasesSheet, casefile.DefaultColumns(), log),
		Messages:   mail,
		Builder:    ledger.NewBuilder(m, mail, cfg.WorkerPoolSize, log),
		Store:      ledger.NewFileStore(cfg.LedgerPath),
		Classifier: staleness.New(thresholds, nil),
		Acks:       ack.NewService(db, log, nil),
		Cache:      cache.NewCache(cfg.CacheSize, cfg.CacheTTL),
		DB:         db,
		Logger:     log,
	}), nil
}
