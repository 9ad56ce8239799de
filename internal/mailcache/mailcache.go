// Package mailcache reads the locally cached mailbox and tells sent
// messages from received ones.
package mailcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/JustJay7/collections-tracker/internal/model"
	"github.com/JustJay7/collections-tracker/pkg/logger"
)

// DefaultMaxAge is how old the cache may get before it is reported stale.
const DefaultMaxAge = 7 * 24 * time.Hour

// document is the on-disk cache layout written by the mail sync job.
type document struct {
	Emails       []model.Message `json:"emails"`
	LastUpdated  string          `json:"last_updated"`
	LastSyncTime string          `json:"last_sync_time,omitempty"`
}

// Store reads one cache file.
type Store struct {
	path           string
	sentIndicators []string
	maxAge         time.Duration
	now            func() time.Time
	logger         *logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithMaxAge overrides DefaultMaxAge.
func WithMaxAge(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

// New creates a store for path. A message is outbound when its sender
// contains any of sentIndicators.
func New(path string, sentIndicators []string, log *logger.Logger, opts ...Option) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	s := &Store{path: path, maxAge: DefaultMaxAge, now: time.Now, logger: log}
	for _, ind := range sentIndicators {
		if ind = strings.ToLower(strings.TrimSpace(ind)); ind != "" {
			s.sentIndicators = append(s.sentIndicators, ind)
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsOutbound reports whether msg was sent by the operator.
func (s *Store) IsOutbound(msg model.Message) bool {
	from := strings.ToLower(msg.From)
	for _, ind := range s.sentIndicators {
		if strings.Contains(from, ind) {
			return true
		}
	}
	return false
}

func (s *Store) read() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &document{}, nil
		}
		return nil, fmt.Errorf("failed to read email cache: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode email cache: %w", err)
	}
	return &doc, nil
}

// Messages returns the cached messages. A missing cache file yields none.
func (s *Store) Messages() ([]model.Message, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	if len(doc.Emails) == 0 {
		s.logger.Warn("Email cache is empty", "path", s.path)
	}
	return doc.Emails, nil
}

// Stats describes the cache file.
type Stats struct {
	Path        string     `json:"path"`
	Status      string     `json:"status"` // "empty" or "populated"
	Messages    int        `json:"email_count"`
	LastUpdated *time.Time `json:"last_updated"`
	AgeDays     *int       `json:"cache_age_days"`
	Stale       bool       `json:"stale"`
}

// Stats reads the cache and reports its size and age. A cache with no
// readable update time counts as stale.
func (s *Store) Stats() (*Stats, error) {
	doc, err := s.read()
	if err != nil {
		return nil, err
	}

	st := &Stats{Path: s.path, Status: "empty", Messages: len(doc.Emails), Stale: true}
	if st.Messages > 0 {
		st.Status = "populated"
	}
	if t, ok := parseTimestamp(doc.LastUpdated); ok {
		age := s.now().Sub(t)
		days := int(age / (24 * time.Hour))
		st.LastUpdated = &t
		st.AgeDays = &days
		st.Stale = age > s.maxAge
	}
	return st, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// parseTimestamp reads the sync job's update time. Zone-less values are
// taken as local time.
func parseTimestamp(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
