// Package tui is the interactive front end: a month calendar over the
// journal, day detail, and forms for entries and sign-in.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"github.com/tyamagishi/kaizen/internal/auth"
	"github.com/tyamagishi/kaizen/internal/dateutil"
	"github.com/tyamagishi/kaizen/internal/models"
	"github.com/tyamagishi/kaizen/internal/session"
)

type SessionState int

const (
	StateSignIn SessionState = iota
	StateCalendar
	StateDay
	StateAddEntry
)

type EntryFormModel struct {
	Plan  string
	Do    string
	Check string
	Act   string
}

type SignInFormModel struct {
	Email    string
	Password string
}

type Model struct {
	auth    *auth.Service
	manager *session.Manager
	svcs    session.Services
	logger  *zap.Logger

	state SessionState
	keys  KeyMap
	help  help.Model

	// anchor is the selected civil date; its month is the shown month.
	anchor   time.Time
	statuses map[string]models.DateStatus
	entries  []models.JournalEntry

	form       *huh.Form
	entryForm  *EntryFormModel
	signinForm *SignInFormModel

	width    int
	height   int
	errMsg   string
	quitting bool
}

func NewModel(authSvc *auth.Service, manager *session.Manager, svcs session.Services, logger *zap.Logger) Model {
	m := Model{
		auth:     authSvc,
		manager:  manager,
		svcs:     svcs,
		logger:   logger,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		anchor:   dateutil.MustParseDayKey(dateutil.Today()),
		statuses: map[string]models.DateStatus{},
	}

	if manager.Current() != nil {
		m.state = StateCalendar
	} else {
		m.state = StateSignIn
		m.signinForm = &SignInFormModel{}
		m.form = newSignInForm(m.signinForm)
	}
	return m
}

func newSignInForm(f *SignInFormModel) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Email").Value(&f.Email),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&f.Password),
	))
}

func newEntryForm(f *EntryFormModel) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Plan").Value(&f.Plan),
		huh.NewInput().Title("Do").Value(&f.Do),
		huh.NewInput().Title("Check").Value(&f.Check),
		huh.NewInput().Title("Act").Value(&f.Act),
	))
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateCalendar:
		return []key.Binding{m.keys.PrevMonth, m.keys.NextMonth, m.keys.Enter, m.keys.Add, m.keys.Quit}
	case StateDay:
		return []key.Binding{m.keys.Add, m.keys.Back, m.keys.Quit}
	default:
		return []key.Binding{m.keys.Quit}
	}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.PrevMonth, m.keys.NextMonth, m.keys.PrevDay, m.keys.NextDay},
		{m.keys.Enter, m.keys.Add, m.keys.Back},
		{m.keys.Help, m.keys.Quit},
	}
}

func (m Model) Init() tea.Cmd {
	if m.state == StateSignIn {
		return m.form.Init()
	}
	return tea.Batch(m.loadMonthCmd(), m.refreshSessionCmd())
}
