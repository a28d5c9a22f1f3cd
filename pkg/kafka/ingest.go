package kafka

import (
	"context"
	"sync"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/corpmatch/pkg/matching"
)

// RunningCatalog is an incrementally-growing set of previously-seen company
// names. Each incoming name is checked against every name already in the
// catalog before being added to it, so duplicates are reported as they
// stream in rather than only at the end of a batch.
type RunningCatalog struct {
	matcher     *matching.Matcher
	producer    *Producer
	logger      ectologger.Logger
	countryCode string
	threshold   float64

	mu    sync.RWMutex
	names []string
}

// NewRunningCatalog builds a catalog that scores every incoming name against
// the names seen so far and publishes a DuplicateEvent for each match above
// threshold. producer may be nil, in which case matches are only logged.
func NewRunningCatalog(matcher *matching.Matcher, producer *Producer, logger ectologger.Logger, countryCode string, threshold float64) *RunningCatalog {
	if countryCode == "" {
		countryCode = "DE"
	}
	if threshold <= 0 {
		threshold = 0.85
	}
	return &RunningCatalog{
		matcher:     matcher,
		producer:    producer,
		logger:      logger,
		countryCode: countryCode,
		threshold:   threshold,
	}
}

// Handle implements MessageHandler: it scores evt.CompanyName against every
// name already on the catalog, publishes a DuplicateEvent for each match,
// then appends evt.CompanyName to the catalog regardless of match outcome.
func (r *RunningCatalog) Handle(ctx context.Context, evt *CompanyNameEvent) error {
	country := evt.CountryCode
	if country == "" {
		country = r.countryCode
	}

	r.mu.RLock()
	seen := make([]string, len(r.names))
	copy(seen, r.names)
	r.mu.RUnlock()

	for _, existing := range seen {
		score, ok := r.matcher.Match(evt.CompanyName, existing, country, r.countryCode)
		if !ok || score <= r.threshold {
			continue
		}

		log := r.logger.WithContext(ctx).WithFields(map[string]any{
			"name_1": evt.CompanyName,
			"name_2": existing,
			"score":  score,
		})
		log.Info("Duplicate company name detected")

		if r.producer == nil {
			continue
		}
		if err := r.producer.PublishDuplicate(ctx, DuplicateEvent{
			Name1: evt.CompanyName,
			Name2: existing,
			Score: score,
		}); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.names = append(r.names, evt.CompanyName)
	r.mu.Unlock()

	return nil
}

// Seed pre-populates the catalog with names already known before streaming
// began (e.g. the result of an earlier batch find_duplicates run).
func (r *RunningCatalog) Seed(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, names...)
}

// Size returns the number of names currently held by the catalog.
func (r *RunningCatalog) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}
