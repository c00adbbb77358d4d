package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/tyamagishi/kaizen/internal/calendar"
	"github.com/tyamagishi/kaizen/internal/dateutil"
	"github.com/tyamagishi/kaizen/internal/journal"
	"github.com/tyamagishi/kaizen/internal/models"
)

var errSignedOut = errors.New("signed out")

func (m Model) anchorKey() string {
	return dateutil.DayKey(m.anchor)
}

func bucketByDate(entries []models.JournalEntry) map[string]models.DateStatus {
	return calendar.BucketEntriesByDate(entries)
}

func journalInput(f EntryFormModel, dayKey string) journal.Input {
	return journal.Input{
		Date:  dayKey,
		Plan:  f.Plan,
		Do:    f.Do,
		Check: f.Check,
		Act:   f.Act,
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case monthLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.statuses = msg.statuses
		return m, nil

	case dayLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.entries = msg.entries
		return m, nil

	case signedInMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.signinForm = &SignInFormModel{}
			m.form = newSignInForm(m.signinForm)
			return m, m.form.Init()
		}
		m.errMsg = ""
		m.state = StateCalendar
		return m, tea.Batch(m.loadMonthCmd(), m.refreshSessionCmd())

	case entrySavedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
		} else {
			m.errMsg = ""
		}
		m.state = StateDay
		return m, tea.Batch(m.loadMonthCmd(), m.loadDayCmd())

	case sessionRefreshedMsg:
		return m, nil
	}

	switch m.state {
	case StateSignIn, StateAddEntry:
		return m.updateForm(msg)
	case StateCalendar:
		return m.updateCalendar(msg)
	case StateDay:
		return m.updateDay(msg)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if key.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if key.Type == tea.KeyEsc && m.state == StateAddEntry {
			m.state = StateDay
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.state == StateSignIn {
			return m, m.signInCmd(m.signinForm.Email, m.signinForm.Password)
		}
		return m, m.saveEntryCmd(*m.entryForm, m.anchorKey())
	case huh.StateAborted:
		if m.state == StateAddEntry {
			m.state = StateDay
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m Model) updateCalendar(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.PrevMonth):
		m.anchor = calendar.Navigate(m.anchor, calendar.Prev)
		return m, m.loadMonthCmd()
	case key.Matches(keyMsg, m.keys.NextMonth):
		m.anchor = calendar.Navigate(m.anchor, calendar.Next)
		return m, m.loadMonthCmd()
	case key.Matches(keyMsg, m.keys.PrevDay):
		return m.moveDay(-1)
	case key.Matches(keyMsg, m.keys.NextDay):
		return m.moveDay(1)
	case key.Matches(keyMsg, m.keys.Enter):
		m.state = StateDay
		return m, m.loadDayCmd()
	case key.Matches(keyMsg, m.keys.Add):
		return m.openEntryForm()
	}
	return m, nil
}

func (m Model) updateDay(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Back):
		m.state = StateCalendar
		return m, nil
	case key.Matches(keyMsg, m.keys.Add):
		return m.openEntryForm()
	}
	return m, nil
}

// moveDay shifts the selected day and reloads the month statuses only
// when the move crossed a month boundary.
func (m Model) moveDay(delta int) (tea.Model, tea.Cmd) {
	before := m.anchor.Month()
	m.anchor = m.anchor.AddDate(0, 0, delta)
	if m.anchor.Month() != before {
		return m, m.loadMonthCmd()
	}
	return m, nil
}

func (m *Model) openEntryForm() (tea.Model, tea.Cmd) {
	m.state = StateAddEntry
	m.entryForm = &EntryFormModel{}
	m.form = newEntryForm(m.entryForm)
	return *m, m.form.Init()
}
