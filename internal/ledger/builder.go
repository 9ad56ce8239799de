// Package ledger builds and persists the per-case tracking ledger.
package ledger

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JustJay7/collections-tracker/internal/identity"
	"github.com/JustJay7/collections-tracker/internal/matcher"
	"github.com/JustJay7/collections-tracker/internal/model"
	"github.com/JustJay7/collections-tracker/pkg/logger"
)

// ErrEmptyMessageCache is returned when there are no messages to build from.
var ErrEmptyMessageCache = errors.New("email cache service is empty or missing")

// Builder matches every cached message against every case.
type Builder struct {
	matcher   *matcher.Matcher
	direction model.DirectionClassifier
	workers   int
	logger    *logger.Logger
}

// NewBuilder creates a builder. workers bounds the matching phase; values
// below 1 run it on a single goroutine.
func NewBuilder(m *matcher.Matcher, direction model.DirectionClassifier, workers int, log *logger.Logger) *Builder {
	if m == nil {
		m = matcher.New(matcher.DefaultPolicy(), nil, nil)
	}
	if direction == nil {
		direction = model.DirectionFunc(func(model.Message) bool { return false })
	}
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Builder{matcher: m, direction: direction, workers: workers, logger: log}
}

type hit struct {
	caseIdx int
	reason  matcher.Reason
}

// Build produces a fresh ledger for cases from messages. Nothing from a
// previous run is merged in.
func (b *Builder) Build(ctx context.Context, cases []model.Case, messages []model.Message) (Ledger, *Stats, error) {
	if len(messages) == 0 {
		return nil, nil, ErrEmptyMessageCache
	}

	dupes := identity.Resolve(cases)

	records := make(Ledger, len(cases))
	profiles := make([]*matcher.Profile, 0, len(cases))
	byNumber := make(map[string]int, len(cases))
	for _, c := range cases {
		number := strings.TrimSpace(c.CaseNumber)
		if number == "" {
			continue
		}
		if _, seen := records[number]; seen {
			b.logger.Warn("Duplicate case number in case list", "case_number", number)
			continue
		}
		c.CaseNumber = number
		records[number] = newRecord(c)
		byNumber[strings.ToLower(number)] = len(profiles)
		profiles = append(profiles, b.matcher.Profile(c, dupes))
	}

	hits, err := b.matchAll(ctx, profiles, byNumber, messages)
	if err != nil {
		return nil, nil, err
	}

	stats := &Stats{Cases: len(records), Messages: len(messages), DuplicateNames: dupes.Len()}
	for i, msg := range messages {
		if len(hits[i]) == 0 {
			continue
		}
		stats.MatchedMessages++

		dir := model.DirectionOf(b.direction, msg)
		at, ok := ParseMessageDate(msg.Date)
		date := msg.Date
		var stamp *time.Time
		if ok {
			date = at.Format(time.RFC3339)
			stamp = &at
		} else {
			stats.UnparseableDates++
		}

		for _, h := range hits[i] {
			p := profiles[h.caseIdx]
			records[p.Case.CaseNumber].add(Activity{
				CaseNumber: p.Case.CaseNumber,
				Direction:  dir,
				Date:       date,
				Subject:    msg.Subject,
				Snippet:    excerpt(msg.Snippet),
				From:       msg.From,
				To:         msg.To,
				MessageID:  msg.ID,
				MatchedBy:  h.reason,
			}, stamp)
			stats.Matches++
		}
	}

	b.logger.Info("Ledger built",
		"cases", stats.Cases,
		"messages", stats.Messages,
		"matches", stats.Matches,
		"matched_messages", stats.MatchedMessages,
		"unparseable_dates", stats.UnparseableDates,
		"duplicate_names", stats.DuplicateNames,
	)
	return records, stats, nil
}

// matchAll evaluates the matcher for every message in parallel. Results are
// indexed by message so the caller can merge them in input order.
func (b *Builder) matchAll(ctx context.Context, profiles []*matcher.Profile, byNumber map[string]int, messages []model.Message) ([][]hit, error) {
	hits := make([][]hit, len(messages))

	chunk := (len(messages) + b.workers - 1) / b.workers
	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(messages); start += chunk {
		start, end := start, min(start+chunk, len(messages))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				hits[i] = b.matchOne(messages[i], profiles, byNumber)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return hits, nil
}

func (b *Builder) matchOne(msg model.Message, profiles []*matcher.Profile, byNumber map[string]int) []hit {
	t := b.matcher.Prepare(msg)

	// Extracted numbers resolve straight to their case without running the
	// full policy.
	direct := make(map[int]struct{})
	for n := range t.CaseNumbers {
		if idx, ok := byNumber[n]; ok {
			direct[idx] = struct{}{}
		}
	}

	var out []hit
	for idx, p := range profiles {
		if _, ok := direct[idx]; ok {
			out = append(out, hit{caseIdx: idx, reason: matcher.ByCaseNumber})
			continue
		}
		if r := b.matcher.Match(t, p); r != matcher.NoMatch {
			out = append(out, hit{caseIdx: idx, reason: r})
		}
	}
	return out
}

var messageDateLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseMessageDate parses a cached message date. RFC 5322 headers are tried
// first, then the ISO forms the cache writes.
func ParseMessageDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := mail.ParseDate(raw); err == nil {
		return t, true
	}
	for _, layout := range messageDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
