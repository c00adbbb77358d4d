package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tyamagishi/kaizen/internal/models"
)

type monthLoadedMsg struct {
	statuses map[string]models.DateStatus
	err      error
}

type dayLoadedMsg struct {
	entries []models.JournalEntry
	err     error
}

type signedInMsg struct {
	err error
}

type entrySavedMsg struct {
	err error
}

type sessionRefreshedMsg struct{}

func (m Model) loadMonthCmd() tea.Cmd {
	sess := m.manager.Current()
	year, month := m.anchor.Year(), m.anchor.Month()
	journal := m.svcs.Journal

	return func() tea.Msg {
		if sess == nil {
			return monthLoadedMsg{statuses: map[string]models.DateStatus{}}
		}
		entries, err := journal.ForMonth(context.Background(), sess.User().ID, year, int(month))
		if err != nil {
			return monthLoadedMsg{err: err}
		}
		return monthLoadedMsg{statuses: bucketByDate(entries)}
	}
}

func (m Model) loadDayCmd() tea.Cmd {
	sess := m.manager.Current()
	dayKey := m.anchorKey()
	journal := m.svcs.Journal

	return func() tea.Msg {
		if sess == nil {
			return dayLoadedMsg{}
		}
		entries, err := journal.ForDate(context.Background(), sess.User().ID, dayKey)
		return dayLoadedMsg{entries: entries, err: err}
	}
}

func (m Model) signInCmd(email, password string) tea.Cmd {
	authSvc := m.auth
	return func() tea.Msg {
		_, err := authSvc.SignIn(context.Background(), email, password)
		return signedInMsg{err: err}
	}
}

func (m Model) saveEntryCmd(input EntryFormModel, dayKey string) tea.Cmd {
	sess := m.manager.Current()
	journal := m.svcs.Journal

	return func() tea.Msg {
		if sess == nil {
			return entrySavedMsg{err: errSignedOut}
		}
		_, err := journal.Add(context.Background(), sess.User().ID, journalInput(input, dayKey))
		return entrySavedMsg{err: err}
	}
}

// refreshSessionCmd loads the session's profile, goals and subscription
// cells so the status bar can show the plan.
func (m Model) refreshSessionCmd() tea.Cmd {
	sess := m.manager.Current()
	return func() tea.Msg {
		if sess != nil {
			// Cells fail independently; stale results are suppressed by
			// the resources, so a late finish after sign-out is harmless.
			_ = sess.Refresh(context.Background())
		}
		return sessionRefreshedMsg{}
	}
}
