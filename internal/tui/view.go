package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tyamagishi/kaizen/internal/calendar"
	"github.com/tyamagishi/kaizen/internal/dateutil"
	"github.com/tyamagishi/kaizen/internal/subscription"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateSignIn, StateAddEntry:
		content = m.form.View()
	case StateCalendar:
		content = m.viewCalendar()
	case StateDay:
		content = m.viewDay()
	}

	parts := []string{content}
	if m.errMsg != "" {
		parts = append(parts, errorStyle.Render(m.errMsg))
	}
	parts = append(parts, m.viewStatusBar(), m.help.View(m))

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewCalendar() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %d", m.anchor.Month(), m.anchor.Year())))
	b.WriteString("\n")

	var header []string
	for _, wd := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		header = append(header, weekdayStyle.Render(wd))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteString("\n")

	grid := calendar.MonthGrid(m.anchor.Year(), m.anchor.Month())
	for week := 0; week < calendar.GridDays/7; week++ {
		var cells []string
		for _, day := range grid[week*7 : week*7+7] {
			cells = append(cells, m.renderDayCell(day))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderDayCell(day time.Time) string {
	key := dateutil.DayKey(day)
	label := fmt.Sprintf("%2d", day.Day())
	if status, ok := m.statuses[key]; ok && status.HasEntries {
		label += entryMarkStyle.Render(fmt.Sprintf("•%d", status.EntryCount))
	}

	switch {
	case key == m.anchorKey():
		return selectedDayStyle.Render(label)
	case dateutil.IsToday(key):
		return todayStyle.Render(label)
	case day.Month() != m.anchor.Month():
		return outsideDayStyle.Render(label)
	default:
		return dayStyle.Render(label)
	}
}

func (m Model) viewDay() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.anchorKey()))
	b.WriteString("\n")

	if len(m.entries) == 0 {
		b.WriteString("No entries. Press 'a' to add one.\n")
		return b.String()
	}

	for _, entry := range m.entries {
		for _, part := range []struct {
			label, text string
		}{
			{"Plan", entry.Plan},
			{"Do", entry.Do},
			{"Check", entry.Check},
			{"Act", entry.Act},
			{"Coach", entry.AIComment},
		} {
			if strings.TrimSpace(part.text) != "" {
				fmt.Fprintf(&b, "%-6s %s\n", part.label+":", part.text)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewStatusBar() string {
	sess := m.manager.Current()
	if sess == nil {
		return statusBarStyle.Render("signed out")
	}

	status := sess.User().Email
	if sub, ok := sess.Subscription.Value(); ok {
		status += fmt.Sprintf(" | %s plan", sub.Plan)
		if days := subscription.TrialDaysRemaining(sub, time.Now()); days > 0 {
			status += fmt.Sprintf(" | trial: %d day(s) left", days)
		}
	}
	return statusBarStyle.Render(status)
}
