// Package goals manages themes, goals and their SMART breakdowns.
// Stored timestamps are converted to civil-date keys on load, so the
// rest of the app only ever sees YYYY-MM-DD values.
package goals

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

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

// storedGoal is the raw document shape. Dates are stored as full
// timestamps and converted to day keys when loaded.
type storedGoal struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	ThemeID      string     `json:"theme_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	ParentGoalID string     `json:"parent_goal_id,omitempty"`
	ChildGoalIDs []string   `json:"child_goal_ids,omitempty"`
	StartAt      *time.Time `json:"start_at,omitempty"`
	DueAt        *time.Time `json:"due_at,omitempty"`
}

// Input is the caller-supplied goal data. StartDate and DueDate are
// optional day keys.
type Input struct {
	ThemeID      string
	Title        string
	Description  string
	Status       models.GoalStatus
	ParentGoalID string
	StartDate    string
	DueDate      string
}

// Create validates and writes a goal, then re-reads the stored copy.
func (s *Service) Create(ctx context.Context, userID string, input Input) (*models.Goal, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, &models.ValidationError{Field: "title", Reason: "must not be blank"}
	}
	if input.Status == "" {
		input.Status = models.GoalStatusDraft
	}

	stored := storedGoal{
		ID:           uuid.NewString(),
		UserID:       userID,
		ThemeID:      input.ThemeID,
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		Status:       string(input.Status),
		ParentGoalID: input.ParentGoalID,
	}

	for _, d := range []struct {
		key string
		dst **time.Time
	}{{input.StartDate, &stored.StartAt}, {input.DueDate, &stored.DueAt}} {
		if d.key == "" {
			continue
		}
		t, err := dateutil.ParseDayKey(d.key)
		if err != nil {
			return nil, err
		}
		*d.dst = &t
	}

	if _, err := s.store.Put(ctx, userID, store.CollectionGoals, stored.ID, stored); err != nil {
		s.logger.Warn("failed to write goal", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("write goal: %w", err)
	}

	doc, err := s.store.Get(ctx, userID, store.CollectionGoals, stored.ID)
	if err != nil {
		return nil, fmt.Errorf("read back goal: %w", err)
	}
	goal, err := decodeGoal(doc)
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// UpdateStatus moves a goal to a new status and re-reads it.
func (s *Service) UpdateStatus(ctx context.Context, userID, goalID string, status models.GoalStatus) (*models.Goal, error) {
	doc, err := s.store.Get(ctx, userID, store.CollectionGoals, goalID)
	if err != nil {
		return nil, fmt.Errorf("fetch goal: %w", err)
	}
	var stored storedGoal
	if err := doc.Decode(&stored); err != nil {
		return nil, err
	}

	stored.Status = string(status)
	if _, err := s.store.Put(ctx, userID, store.CollectionGoals, goalID, stored); err != nil {
		return nil, fmt.Errorf("write goal: %w", err)
	}

	doc, err = s.store.Get(ctx, userID, store.CollectionGoals, goalID)
	if err != nil {
		return nil, fmt.Errorf("read back goal: %w", err)
	}
	goal, err := decodeGoal(doc)
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// LoadByTheme returns the theme's goals that are still being worked
// (draft or active), newest update first. Store failure yields an
// empty list plus the error.
func (s *Service) LoadByTheme(ctx context.Context, userID, themeID string) ([]models.Goal, error) {
	docs, err := s.store.Query(ctx, userID, store.CollectionGoals, "theme_id", themeID)
	if err != nil {
		s.logger.Warn("failed to query goals", zap.String("theme_id", themeID), zap.Error(err))
		return nil, fmt.Errorf("load goals by theme: %w", err)
	}

	goals, err := decodeGoals(docs)
	if err != nil {
		return nil, err
	}

	surfaced := goals[:0]
	for _, g := range goals {
		if g.Status == models.GoalStatusDraft || g.Status == models.GoalStatusActive {
			surfaced = append(surfaced, g)
		}
	}
	sortByUpdatedDesc(surfaced)
	return surfaced, nil
}

// LoadAll returns every goal regardless of status, newest update first.
func (s *Service) LoadAll(ctx context.Context, userID string) ([]models.Goal, error) {
	docs, err := s.store.List(ctx, userID, store.CollectionGoals)
	if err != nil {
		s.logger.Warn("failed to list goals", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("load goals: %w", err)
	}

	goals, err := decodeGoals(docs)
	if err != nil {
		return nil, err
	}
	sortByUpdatedDesc(goals)
	return goals, nil
}

// CreateTheme adds a named focus area.
func (s *Service) CreateTheme(ctx context.Context, userID, name string) (*models.Theme, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &models.ValidationError{Field: "theme name", Reason: "must not be blank"}
	}

	theme := models.Theme{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   strings.TrimSpace(name),
	}
	doc, err := s.store.Put(ctx, userID, store.CollectionThemes, theme.ID, theme)
	if err != nil {
		return nil, fmt.Errorf("write theme: %w", err)
	}
	theme.CreatedAt = doc.CreatedAt
	return &theme, nil
}

// ListThemes returns the user's themes sorted by name.
func (s *Service) ListThemes(ctx context.Context, userID string) ([]models.Theme, error) {
	docs, err := s.store.List(ctx, userID, store.CollectionThemes)
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}

	themes := make([]models.Theme, 0, len(docs))
	for _, doc := range docs {
		var theme models.Theme
		if err := doc.Decode(&theme); err != nil {
			return nil, err
		}
		theme.CreatedAt = doc.CreatedAt
		themes = append(themes, theme)
	}
	sort.Slice(themes, func(i, j int) bool { return themes[i].Name < themes[j].Name })
	return themes, nil
}

// SetSMART attaches or replaces the SMART breakdown for a goal.
func (s *Service) SetSMART(ctx context.Context, userID string, smart models.SMARTGoal) error {
	if smart.GoalID == "" {
		return &models.ValidationError{Field: "goal id", Reason: "must not be blank"}
	}
	if _, err := s.store.Put(ctx, userID, store.CollectionSMARTGoals, smart.GoalID, smart); err != nil {
		return fmt.Errorf("write smart goal: %w", err)
	}
	return nil
}

// GetSMART returns the SMART breakdown, or nil when none is set.
func (s *Service) GetSMART(ctx context.Context, userID, goalID string) (*models.SMARTGoal, error) {
	doc, err := s.store.Get(ctx, userID, store.CollectionSMARTGoals, goalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch smart goal: %w", err)
	}

	var smart models.SMARTGoal
	if err := doc.Decode(&smart); err != nil {
		return nil, err
	}
	return &smart, nil
}

func decodeGoal(doc store.Document) (models.Goal, error) {
	var stored storedGoal
	if err := doc.Decode(&stored); err != nil {
		return models.Goal{}, err
	}

	goal := models.Goal{
		ID:           stored.ID,
		UserID:       stored.UserID,
		ThemeID:      stored.ThemeID,
		Title:        stored.Title,
		Description:  stored.Description,
		Status:       models.GoalStatus(stored.Status),
		ParentGoalID: stored.ParentGoalID,
		ChildGoalIDs: stored.ChildGoalIDs,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
	if stored.StartAt != nil {
		goal.StartDate = dateutil.DayKey(*stored.StartAt)
	}
	if stored.DueAt != nil {
		goal.DueDate = dateutil.DayKey(*stored.DueAt)
	}
	return goal, nil
}

func decodeGoals(docs []store.Document) ([]models.Goal, error) {
	goals := make([]models.Goal, 0, len(docs))
	for _, doc := range docs {
		goal, err := decodeGoal(doc)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, nil
}

func sortByUpdatedDesc(goals []models.Goal) {
	sort.SliceStable(goals, func(i, j int) bool {
		return goals[i].UpdatedAt.After(goals[j].UpdatedAt)
	})
}
