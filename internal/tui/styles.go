package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(0, 1)

	weekdayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(6).
			Align(lipgloss.Center)

	dayStyle = lipgloss.NewStyle().
			Width(6).
			Align(lipgloss.Center)

	outsideDayStyle = dayStyle.
			Foreground(lipgloss.Color("238"))

	todayStyle = dayStyle.
			Foreground(lipgloss.Color("205")).
			Bold(true)

	selectedDayStyle = dayStyle.
				Background(lipgloss.Color("236")).
				Bold(true)

	entryMarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)
