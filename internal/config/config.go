package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Host string
	Port string

	// Logging settings
	LogLevel  string
	LogFormat string

	// Storage settings
	DatabasePath   string
	LedgerPath     string
	EmailCachePath string

	// Case ledger settings
	CasesFilePath string
	CasesSheet    string

	// Report cache settings
	CacheSize int
	CacheTTL  time.Duration

	// Matching settings
	WorkerPoolSize  int
	SentIndicators  []string
	CaseLabels      []string
	ContextKeywords []string
	NameSuffixes    []string

	// Staleness thresholds, in days unless noted
	FollowUpDays        int
	HighPriorityDays    int
	CriticalDays        int
	CaseAgeCriticalDays int
	StatuteReviewYears  int

	// Email cache is considered stale after this long
	EmailCacheMaxAge time.Duration

	VocabularyPath string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not an error if .env doesn't exist
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Host:           getEnv("HOST", "0.0.0.0"),
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		DatabasePath:   getEnv("DATABASE_PATH", "./data/collections.db"),
		LedgerPath:     getEnv("LEDGER_PATH", "./data/collections_tracking.json"),
		EmailCachePath: getEnv("EMAIL_CACHE_PATH", "./data/email_cache.json"),
		CasesFilePath:  getEnv("CASES_FILE_PATH", "./data/cases.xlsx"),
		CasesSheet:     getEnv("CASES_SHEET", ""),
		VocabularyPath: getEnv("VOCABULARY_PATH", ""),
	}

	cfg.SentIndicators = getEnvList("SENT_INDICATORS", nil)
	cfg.CaseLabels = getEnvList("CASE_LABELS", nil)
	cfg.ContextKeywords = getEnvList("CONTEXT_KEYWORDS", nil)

	var err error
	cfg.CacheSize, err = strconv.Atoi(getEnv("CACHE_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_SIZE: %w", err)
	}

	cacheTTL, err := strconv.Atoi(getEnv("CACHE_TTL", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = time.Duration(cacheTTL) * time.Minute

	cfg.WorkerPoolSize, err = strconv.Atoi(getEnv("WORKER_POOL_SIZE", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid WORKER_POOL_SIZE: %w", err)
	}

	cfg.FollowUpDays, err = strconv.Atoi(getEnv("FOLLOW_UP_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid FOLLOW_UP_DAYS: %w", err)
	}

	cfg.HighPriorityDays, err = strconv.Atoi(getEnv("HIGH_PRIORITY_DAYS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid HIGH_PRIORITY_DAYS: %w", err)
	}

	cfg.CriticalDays, err = strconv.Atoi(getEnv("CRITICAL_DAYS", "90"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRITICAL_DAYS: %w", err)
	}

	cfg.CaseAgeCriticalDays, err = strconv.Atoi(getEnv("CASE_AGE_CRITICAL_DAYS", "365"))
	if err != nil {
		return nil, fmt.Errorf("invalid CASE_AGE_CRITICAL_DAYS: %w", err)
	}

	cfg.StatuteReviewYears, err = strconv.Atoi(getEnv("STATUTE_REVIEW_YEARS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATUTE_REVIEW_YEARS: %w", err)
	}

	maxAge, err := strconv.Atoi(getEnv("EMAIL_CACHE_MAX_AGE_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid EMAIL_CACHE_MAX_AGE_DAYS: %w", err)
	}
	cfg.EmailCacheMaxAge = time.Duration(maxAge) * 24 * time.Hour

	if !(cfg.FollowUpDays < cfg.HighPriorityDays && cfg.HighPriorityDays < cfg.CriticalDays) {
		return nil, fmt.Errorf("staleness thresholds must increase: %d < %d < %d",
			cfg.FollowUpDays, cfg.HighPriorityDays, cfg.CriticalDays)
	}

	if cfg.VocabularyPath != "" {
		vocab, err := LoadVocabulary(cfg.VocabularyPath)
		if err != nil {
			return nil, err
		}
		vocab.apply(cfg)
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma separated environment variable, dropping blanks.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
