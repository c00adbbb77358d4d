// Package journal manages PDCA entries. Entries are keyed by civil
// date; the calendar packages consume them as-is.
package journal

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tyamagishi/kaizen/internal/dateutil"
	"github.com/tyamagishi/kaizen/internal/models"
	"github.com/tyamagishi/kaizen/internal/store"
)

type Service struct {
	store  store.Provider
	logger *zap.Logger
}

func NewService(provider store.Provider, logger *zap.Logger) *Service {
	return &Service{store: provider, logger: logger}
}

// Input is the caller-supplied entry data. A blank Date means today.
type Input struct {
	Date  string
	Plan  string
	Do    string
	Check string
	Act   string
}

// Patch updates only the fields that are non-nil.
type Patch struct {
	Plan  *string
	Do    *string
	Check *string
	Act   *string
}

// Add validates and writes an entry, then re-reads the stored copy so
// the returned entry carries store-assigned timestamps.
func (s *Service) Add(ctx context.Context, userID string, input Input) (*models.JournalEntry, error) {
	if input.Date == "" {
		input.Date = dateutil.Today()
	}
	if _, err := dateutil.ParseDayKey(input.Date); err != nil {
		return nil, err
	}
	if allBlank(input.Plan, input.Do, input.Check, input.Act) {
		return nil, &models.ValidationError{Field: "entry", Reason: "needs at least one PDCA field"}
	}

	entry := models.JournalEntry{
		ID:     uuid.NewString(),
		UserID: userID,
		Date:   input.Date,
		Plan:   input.Plan,
		Do:     input.Do,
		Check:  input.Check,
		Act:    input.Act,
	}

	if _, err := s.store.Put(ctx, userID, store.CollectionEntries, entry.ID, entry); err != nil {
		s.logger.Warn("failed to write entry", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("write entry: %w", err)
	}
	return s.Get(ctx, userID, entry.ID)
}

// Update applies a partial patch, then re-reads.
func (s *Service) Update(ctx context.Context, userID, entryID string, patch Patch) (*models.JournalEntry, error) {
	current, err := s.Get(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	if patch.Plan != nil {
		current.Plan = *patch.Plan
	}
	if patch.Do != nil {
		current.Do = *patch.Do
	}
	if patch.Check != nil {
		current.Check = *patch.Check
	}
	if patch.Act != nil {
		current.Act = *patch.Act
	}
	if allBlank(current.Plan, current.Do, current.Check, current.Act) {
		return nil, &models.ValidationError{Field: "entry", Reason: "needs at least one PDCA field"}
	}

	if _, err := s.store.Put(ctx, userID, store.CollectionEntries, entryID, current); err != nil {
		return nil, fmt.Errorf("write entry: %w", err)
	}
	return s.Get(ctx, userID, entryID)
}

// Get loads a single entry.
func (s *Service) Get(ctx context.Context, userID, entryID string) (*models.JournalEntry, error) {
	doc, err := s.store.Get(ctx, userID, store.CollectionEntries, entryID)
	if err != nil {
		return nil, fmt.Errorf("fetch entry: %w", err)
	}
	entry, err := decode(doc)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ForDate returns the day's entries, oldest first.
func (s *Service) ForDate(ctx context.Context, userID, dayKey string) ([]models.JournalEntry, error) {
	docs, err := s.store.Query(ctx, userID, store.CollectionEntries, "date", dayKey)
	if err != nil {
		s.logger.Warn("failed to query entries", zap.String("date", dayKey), zap.Error(err))
		return nil, fmt.Errorf("load entries for %s: %w", dayKey, err)
	}

	entries, err := decodeAll(docs)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

// ForMonth returns every entry whose civil date falls in the given
// month, ascending by date. The store only filters by equality, so the
// month window is applied here.
func (s *Service) ForMonth(ctx context.Context, userID string, year int, month int) ([]models.JournalEntry, error) {
	docs, err := s.store.List(ctx, userID, store.CollectionEntries)
	if err != nil {
		s.logger.Warn("failed to list entries", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("load entries: %w", err)
	}

	entries, err := decodeAll(docs)
	if err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("%04d-%02d", year, month)
	matched := entries[:0]
	for _, e := range entries {
		if strings.HasPrefix(e.Date, prefix) {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date < matched[j].Date
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}

// Recent returns the latest-updated entries across all dates.
func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error) {
	docs, err := s.store.List(ctx, userID, store.CollectionEntries)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	entries, err := decodeAll(docs)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		var ti, tj int64
		if entries[i].UpdatedAt != nil {
			ti = entries[i].UpdatedAt.UnixNano()
		}
		if entries[j].UpdatedAt != nil {
			tj = entries[j].UpdatedAt.UnixNano()
		}
		return ti > tj
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func allBlank(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func decode(doc store.Document) (models.JournalEntry, error) {
	var entry models.JournalEntry
	if err := doc.Decode(&entry); err != nil {
		return models.JournalEntry{}, err
	}
	entry.CreatedAt = doc.CreatedAt
	updated := doc.UpdatedAt
	entry.UpdatedAt = &updated
	return entry, nil
}

func decodeAll(docs []store.Document) ([]models.JournalEntry, error) {
	entries := make([]models.JournalEntry, 0, len(docs))
	for _, doc := range docs {
		entry, err := decode(doc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
